package api

import (
	"encoding/json"
	"errors"
	"sync"
	"sync/atomic"
	"syscall"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/open-teleop/rover/domain/diagnostic"
	customlog "github.com/open-teleop/rover/pkg/log"
)

// clientBuffer is how many frames a slow client may fall behind before frames are dropped.
const clientBuffer = 16

type hubClient struct {
	send chan []byte
}

// TelemetryHub pushes drive status frames to every connected WebSocket client.
// Publishing never waits on a client.
type TelemetryHub struct {
	mu      sync.Mutex
	clients map[*hubClient]struct{}
	dropped atomic.Uint64
	logger  customlog.Logger
}

// NewTelemetryHub creates an empty hub.
func NewTelemetryHub(logger customlog.Logger) *TelemetryHub {
	return &TelemetryHub{
		clients: make(map[*hubClient]struct{}),
		logger:  logger,
	}
}

// Name identifies the hub as a telemetry sink.
func (h *TelemetryHub) Name() string {
	return "websocket"
}

// Clients returns the number of connected clients.
func (h *TelemetryHub) Clients() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Dropped returns the number of frames dropped for slow clients.
func (h *TelemetryHub) Dropped() uint64 {
	return h.dropped.Load()
}

// PublishStatus broadcasts status as a JSON frame.
func (h *TelemetryHub) PublishStatus(status diagnostic.DriveStatus) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if len(h.clients) == 0 {
		return nil
	}

	data, err := json.Marshal(StatusMessage{Type: MessageTypeDriveStatus, Data: status})
	if err != nil {
		return err
	}
	for c := range h.clients {
		select {
		case c.send <- data:
		default:
			h.dropped.Add(1)
		}
	}
	return nil
}

func (h *TelemetryHub) register() *hubClient {
	c := &hubClient{send: make(chan []byte, clientBuffer)}
	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.mu.Unlock()
	return c
}

func (h *TelemetryHub) unregister(c *hubClient) {
	h.mu.Lock()
	delete(h.clients, c)
	h.mu.Unlock()
}

// Handler returns the fiber handler that upgrades and serves telemetry clients.
func (h *TelemetryHub) Handler() fiber.Handler {
	return websocket.New(h.serve)
}

func (h *TelemetryHub) serve(conn *websocket.Conn) {
	h.logger.Infof("Telemetry WebSocket connected: %s", conn.RemoteAddr())
	client := h.register()
	defer h.unregister(client)

	// The stream is one-way; reading only detects the client going away.
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				h.logClose(err)
				return
			}
		}
	}()

	for {
		select {
		case <-closed:
			return
		case msg := <-client.send:
			if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				h.logger.Warnf("Telemetry WS write error: %v", err)
				return
			}
		}
	}
}

func (h *TelemetryHub) logClose(err error) {
	if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) &&
		!errors.Is(err, syscall.EPIPE) && !errors.Is(err, syscall.ECONNRESET) {
		h.logger.Warnf("Telemetry WS read error: %v", err)
		return
	}
	h.logger.Infof("Telemetry WebSocket disconnected")
}
