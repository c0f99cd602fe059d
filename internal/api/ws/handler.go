package ws

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/duckos/duckos/backend/internal/domain/kernel"
	"github.com/duckos/duckos/backend/internal/infrastructure/logging"
	"github.com/duckos/duckos/backend/internal/infrastructure/monitoring"
	"github.com/duckos/duckos/backend/internal/shared/types"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins in dev
	},
}

// Command is an inbound desktop command over the socket
type Command struct {
	Type     string                `json:"type"`
	AppID    string                `json:"app_id,omitempty"`
	WindowID string                `json:"window_id,omitempty"`
	Position *types.WindowPosition `json:"position,omitempty"`
	Size     *types.WindowSize     `json:"size,omitempty"`
	Viewport *types.Viewport       `json:"viewport,omitempty"`
}

// Handler manages WebSocket connections
type Handler struct {
	kernel  *kernel.Manager
	log     *logging.Logger
	metrics *monitoring.Metrics
}

// NewHandler creates a new WebSocket handler
func NewHandler(k *kernel.Manager, log *logging.Logger) *Handler {
	if log == nil {
		log = logging.NewDefault()
	}
	return &Handler{kernel: k, log: log.Component("ws")}
}

// WithMetrics adds metrics tracking to the handler
func (h *Handler) WithMetrics(metrics *monitoring.Metrics) *Handler {
	h.metrics = metrics
	return h
}

// HandleConnection upgrades the request and streams desktop snapshots.
// Every kernel mutation pushes the full read model; inbound messages
// are desktop commands.
func (h *Handler) HandleConnection(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Warn("websocket upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	if h.metrics != nil {
		h.metrics.WSConnectionOpened()
		defer h.metrics.WSConnectionClosed()
	}

	// A single writer goroutine serializes all writes to the socket.
	// Snapshots are full state, so dropping an intermediate one under
	// backpressure always leaves the client at most one event stale.
	out := make(chan any, 64)
	quit := make(chan struct{})
	done := make(chan struct{})

	cancel := h.kernel.Events().Subscribe(func(snap types.KernelSnapshot) {
		select {
		case out <- envelope("desktop", snap):
		default:
			h.log.Debug("dropping snapshot for slow websocket client")
		}
	})
	defer cancel()

	go func() {
		defer close(done)
		for {
			select {
			case msg := <-out:
				if err := conn.WriteJSON(msg); err != nil {
					return
				}
				if h.metrics != nil {
					h.metrics.RecordWSMessage(messageType(msg), "out")
				}
			case <-quit:
				return
			}
		}
	}()

	out <- envelope("desktop", h.kernel.Snapshot())

	for {
		var cmd Command
		if err := conn.ReadJSON(&cmd); err != nil {
			break
		}
		if h.metrics != nil {
			h.metrics.RecordWSMessage(cmd.Type, "in")
		}
		h.dispatch(out, cmd)
	}

	cancel()
	close(quit)
	<-done
}

// dispatch executes a desktop command. Results arrive implicitly via
// the snapshot push; only ping and errors get direct replies.
func (h *Handler) dispatch(out chan<- any, cmd Command) {
	switch cmd.Type {
	case "ping":
		h.reply(out, map[string]any{"type": "pong"})
	case "open_app":
		if _, ok := h.kernel.OpenApp(cmd.AppID); !ok {
			h.reply(out, errorMessage("app not registered: "+cmd.AppID))
		}
	case "focus_window":
		h.kernel.FocusWindow(cmd.WindowID)
	case "close_window":
		h.kernel.CloseWindow(cmd.WindowID)
	case "minimize_window":
		h.kernel.MinimizeWindow(cmd.WindowID)
	case "maximize_window":
		h.kernel.ToggleMaximizeWindow(cmd.WindowID)
	case "move_window":
		if cmd.Position != nil {
			h.kernel.UpdateWindowPosition(cmd.WindowID, *cmd.Position)
		}
	case "resize_window":
		if cmd.Size != nil {
			h.kernel.UpdateWindowSize(cmd.WindowID, *cmd.Size)
		}
	case "clear_focus":
		h.kernel.ClearFocus()
	case "set_viewport":
		if cmd.Viewport != nil {
			h.kernel.SetViewport(*cmd.Viewport)
		}
	default:
		h.reply(out, errorMessage("unknown message type"))
	}
}

func (h *Handler) reply(out chan<- any, msg any) {
	select {
	case out <- msg:
	default:
	}
}

func messageType(msg any) string {
	if m, ok := msg.(map[string]any); ok {
		if t, ok := m["type"].(string); ok {
			return t
		}
	}
	return "message"
}

func envelope(msgType string, payload any) map[string]any {
	return map[string]any{
		"type":      msgType,
		"data":      payload,
		"timestamp": time.Now().Unix(),
	}
}

func errorMessage(msg string) map[string]any {
	return map[string]any{
		"type":      "error",
		"message":   msg,
		"timestamp": time.Now().Unix(),
	}
}
