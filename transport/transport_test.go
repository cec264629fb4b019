package transport

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHandle_ConnectionLifecycle(t *testing.T) {
	req := require.New(t)
	handle := NewWebSocket("ws://localhost:8080/chat", slog.Default())

	req.False(handle.IsConnected())
	req.True(handle.Connect())
	req.True(handle.IsConnected())

	// Connecting twice is harmless
	req.True(handle.Connect())

	handle.Disconnect()
	handle.Disconnect()
	req.False(handle.IsConnected())
}

func TestHandle_SendRequiresConnection(t *testing.T) {
	req := require.New(t)
	handle := NewTCP("localhost:8082", slog.Default())

	// Frames sent while disconnected are dropped
	req.False(handle.Send("lost"))
	req.Empty(handle.Buffered())

	handle.Connect()
	req.True(handle.Send("first"))
	req.True(handle.Send("second"))

	req.Equal([]string{"first", "second"}, handle.Buffered())
}

func TestPick_AlwaysReturnsAHandle(t *testing.T) {
	req := require.New(t)

	seen := make(map[string]struct{})
	for i := 0; i < 50; i++ {
		handle := Pick(slog.Default())
		req.NotNil(handle)
		seen[handle.ProtocolName()] = struct{}{}
	}

	// Over 50 draws all three protocols should have shown up
	req.Len(seen, 3)
}
