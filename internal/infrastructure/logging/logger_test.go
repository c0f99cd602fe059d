package logging

import (
	"testing"

	"go.uber.org/zap/zapcore"
)

func TestNewHonorsConfiguredLevel(t *testing.T) {
	log, err := New(Config{Level: "warn", OutputPaths: []string{"stdout"}})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer log.Sync()

	if log.Core().Enabled(zapcore.InfoLevel) {
		t.Error("info must be disabled at warn level")
	}
	if !log.Core().Enabled(zapcore.WarnLevel) {
		t.Error("warn must be enabled at warn level")
	}
}

func TestNewRejectsUnknownLevel(t *testing.T) {
	if _, err := New(Config{Level: "loud", OutputPaths: []string{"stdout"}}); err == nil {
		t.Error("unknown level must fail")
	}
}

func TestComponentNamesChild(t *testing.T) {
	log := NewDefault()
	defer log.Sync()

	child := log.Component("vfs")
	if child == nil || child.Logger == nil {
		t.Fatal("component logger must be usable")
	}
}
