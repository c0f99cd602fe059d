package kernel

import (
	"sync"

	"github.com/duckos/duckos/backend/internal/shared/types"
)

// Publisher fans kernel state snapshots out to subscribers. Notification
// is synchronous: every subscriber runs before the publishing operation
// returns, so consumers never need to poll.
type Publisher struct {
	mu   sync.RWMutex
	subs map[int]func(types.KernelSnapshot)
	next int
}

// NewPublisher creates an empty publisher
func NewPublisher() *Publisher {
	return &Publisher{subs: make(map[int]func(types.KernelSnapshot))}
}

// Subscribe registers a callback for every state change. The returned
// function cancels the subscription.
func (p *Publisher) Subscribe(fn func(types.KernelSnapshot)) func() {
	p.mu.Lock()
	id := p.next
	p.next++
	p.subs[id] = fn
	p.mu.Unlock()

	return func() {
		p.mu.Lock()
		delete(p.subs, id)
		p.mu.Unlock()
	}
}

// Publish delivers a snapshot to every subscriber
func (p *Publisher) Publish(snap types.KernelSnapshot) {
	p.mu.RLock()
	fns := make([]func(types.KernelSnapshot), 0, len(p.subs))
	for _, fn := range p.subs {
		fns = append(fns, fn)
	}
	p.mu.RUnlock()

	for _, fn := range fns {
		fn(snap)
	}
}

// Observe registers a selector-keyed subscription: sel extracts a slice
// of the snapshot and fn fires only when that slice changes, as decided
// by eq. The first publish always fires.
func Observe[T any](p *Publisher, sel func(types.KernelSnapshot) T, eq func(a, b T) bool, fn func(T)) func() {
	var (
		prev T
		seen bool
	)
	return p.Subscribe(func(snap types.KernelSnapshot) {
		next := sel(snap)
		if seen && eq(prev, next) {
			return
		}
		prev = next
		seen = true
		fn(next)
	})
}

// ObserveValue is Observe for comparable slices, using == for equality
func ObserveValue[T comparable](p *Publisher, sel func(types.KernelSnapshot) T, fn func(T)) func() {
	return Observe(p, sel, func(a, b T) bool { return a == b }, fn)
}
