// Package session holds the per-user delivery endpoints and their
// directory. A Session is both the RoomObserver registered on a room and
// the supervised worker that drains its own queues.
package session

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"chat-rooms/contract"
	"chat-rooms/domain"
	"chat-rooms/observability"
)

// State tracks the session lifecycle:
// Disconnected -> Connected (polling) -> Suspended (queues retained)
// -> Connected (reconnect) -> Terminated.
type State int32

const (
	Disconnected State = iota
	Connected
	Suspended
	Terminated
)

func (s State) String() string {
	switch s {
	case Connected:
		return "connected"
	case Suspended:
		return "suspended"
	case Terminated:
		return "terminated"
	default:
		return "disconnected"
	}
}

// Renderer receives one presentation-ready line per delivered item.
type Renderer func(line string)

// frameSender is the optional write side of a transport. Simulated
// protocol handles buffer outbound frames, mocks simply don't implement
// it.
type frameSender interface {
	Send(frame string) bool
}

// Session binds exactly one user to one room. It owns three independent
// unbounded queues (broadcasts, private messages, notifications) and an
// opaque transport handle. Enqueueing is decoupled from delivery: the
// polling loop drains at most one item per queue per tick so that none
// of the three sources starves the others.
type Session struct {
	user       *domain.User
	roomID     string
	transport  contract.Transport
	log        *slog.Logger
	monitoring *observability.MonitoringManager
	render     Renderer

	pollInterval time.Duration
	broadcasts   queue[domain.Message]
	privates     queue[domain.PrivateMessage]
	notes        queue[string]

	state   atomic.Int32
	polling atomic.Bool // idempotent start/restart guard
}

func NewSession(
	user *domain.User,
	roomID string,
	transport contract.Transport,
	render Renderer,
	pollInterval time.Duration,
	monitoring *observability.MonitoringManager,
	log *slog.Logger,
) *Session {
	s := &Session{
		user:         user,
		roomID:       roomID,
		transport:    transport,
		render:       render,
		pollInterval: pollInterval,
		monitoring:   monitoring,
		log:          log,
	}
	transport.Connect()
	log.Info("Session initialized", "user", user.Username, "protocol", transport.ProtocolName())
	return s
}

func (s *Session) User() *domain.User { return s.user }
func (s *Session) RoomID() string     { return s.roomID }
func (s *Session) State() State       { return State(s.state.Load()) }

// ObserverUserID identifies this session for self-suppression.
func (s *Session) ObserverUserID() string { return s.user.ID }

func (s *Session) OnMessageReceived(msg domain.Message) {
	if msg.SenderID == s.user.ID {
		return
	}
	s.broadcasts.push(msg)
}

func (s *Session) OnUserJoined(user *domain.User) {
	if user.ID == s.user.ID {
		return
	}
	s.notes.push(user.Username + " has joined the room.")
}

func (s *Session) OnUserLeft(user *domain.User) {
	if user.ID == s.user.ID {
		return
	}
	s.notes.push(user.Username + " has left the room.")
}

func (s *Session) OnError(reason string) {
	s.monitoring.IncrNotifyFailures()
	s.notes.push("Error: " + reason)
}

func (s *Session) OnPrivateMessageReceived(pm domain.PrivateMessage) {
	s.privates.push(pm)
}

// Run is the delivery loop, executed under the supervisor. Starting an
// already polling session is a no-op, which makes reconnect idempotent.
// The loop ends without error on suspend or transport loss so the
// supervisor does not restart it, and with ctx.Err on cancellation.
func (s *Session) Run(ctx context.Context) error {
	if !s.polling.CompareAndSwap(false, true) {
		return nil
	}
	s.state.Store(int32(Connected))
	s.monitoring.SessionStarted()
	defer s.monitoring.SessionStopped()
	// The guard is released on every exit path, a panic included, so a
	// supervisor restart finds a startable session. A terminal state is
	// never downgraded.
	defer func() {
		s.polling.Store(false)
		s.state.CompareAndSwap(int32(Connected), int32(Suspended))
	}()

	ticker := time.NewTicker(s.pollInterval)
	defer ticker.Stop()

	s.log.Debug("Delivery loop started", "user", s.user.Username, "room", s.roomID)
	for {
		select {
		case <-ctx.Done():
			s.log.Debug("Delivery loop canceled", "user", s.user.Username)
			return ctx.Err()
		case <-ticker.C:
			if !s.polling.Load() || !s.transport.IsConnected() {
				s.log.Debug("Delivery loop suspended", "user", s.user.Username)
				return nil
			}
			s.deliverTick()
		}
	}
}

// deliverTick drains at most one item per queue, in a fixed order, so
// delivery stays interleaved across the three sources.
func (s *Session) deliverTick() {
	if msg, ok := s.broadcasts.tryPop(); ok {
		s.deliver(msg.Formatted())
	}
	if note, ok := s.notes.tryPop(); ok {
		s.deliver("[NOTIFICATION]: " + note)
	}
	if pm, ok := s.privates.tryPop(); ok {
		s.deliver(pm.Formatted())
	}
}

func (s *Session) deliver(line string) {
	s.monitoring.IncrEventsDelivered()
	if sender, ok := s.transport.(frameSender); ok {
		sender.Send(line)
	}
	if s.render != nil {
		s.render(line)
	}
}

// Suspend flags the loop inactive and disconnects the transport. Queues
// and the user object persist: an event enqueued mid-transition is not
// lost, merely undelivered until reconnect.
func (s *Session) Suspend() {
	s.polling.Store(false)
	s.transport.Disconnect()
	if s.State() != Terminated {
		s.state.Store(int32(Suspended))
	}
	s.log.Info("Session polling stopped", "user", s.user.Username)
}

// Reconnect re-establishes the transport if needed. The polling loop is
// resubmitted by the caller through the supervisor; Run's guard keeps the
// restart idempotent.
func (s *Session) Reconnect() {
	if !s.transport.IsConnected() {
		s.transport.Connect()
		s.log.Info("Session transport reconnected", "user", s.user.Username)
	}
}

// Terminate applies leave semantics and makes the state final.
func (s *Session) Terminate() {
	s.Suspend()
	s.state.Store(int32(Terminated))
}

// Pending reports the queued-but-undelivered item counts
// (broadcasts, notifications, private messages).
func (s *Session) Pending() (int, int, int) {
	return s.broadcasts.size(), s.notes.size(), s.privates.size()
}
