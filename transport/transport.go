// Package transport provides simulated protocol handles. They track a
// connected flag and buffer outbound frames in memory, nothing ever
// touches a wire. The engine treats them as opaque handles behind the
// contract.Transport capability set.
package transport

import (
	"log/slog"
	"math/rand"
	"sync"

	"chat-rooms/contract"
)

// Handle implements the shared connected-flag + frame-buffer behavior.
type Handle struct {
	name     string
	endpoint string
	log      *slog.Logger

	mu        sync.Mutex
	connected bool
	buffer    []string
}

func (h *Handle) Connect() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.connected {
		return true
	}
	h.connected = true
	h.log.Debug("Transport connected", "protocol", h.name, "endpoint", h.endpoint)
	return true
}

func (h *Handle) Disconnect() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if !h.connected {
		return
	}
	h.connected = false
	h.log.Debug("Transport disconnected", "protocol", h.name, "endpoint", h.endpoint)
}

func (h *Handle) IsConnected() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.connected
}

func (h *Handle) ProtocolName() string { return h.name }

// Send buffers one outbound frame. Frames sent while disconnected are
// dropped, mirroring best-effort delivery.
func (h *Handle) Send(frame string) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if !h.connected {
		return false
	}
	h.buffer = append(h.buffer, frame)
	return true
}

// Buffered returns a copy of the frames accepted so far.
func (h *Handle) Buffered() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	frames := make([]string, len(h.buffer))
	copy(frames, h.buffer)
	return frames
}

func NewWebSocket(endpoint string, log *slog.Logger) *Handle {
	return &Handle{name: "WebSocket", endpoint: endpoint, log: log}
}

func NewHTTP(endpoint string, log *slog.Logger) *Handle {
	return &Handle{name: "HTTP", endpoint: endpoint, log: log}
}

func NewTCP(endpoint string, log *slog.Logger) *Handle {
	return &Handle{name: "TCP", endpoint: endpoint, log: log}
}

// Pick selects one of the simulated protocols at random, the way a real
// deployment would negotiate per client type.
func Pick(log *slog.Logger) contract.Transport {
	switch rand.Intn(3) {
	case 0:
		return NewWebSocket("ws://localhost:8080/chat", log)
	case 1:
		return NewHTTP("http://localhost:8081/chat", log)
	default:
		return NewTCP("localhost:8082", log)
	}
}
