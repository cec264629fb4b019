package session

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"chat-rooms/contract"
	"chat-rooms/domain"
	"chat-rooms/errors"
	"chat-rooms/manager"
	"chat-rooms/observability"
)

// TransportFactory produces the opaque handle a new session speaks
// through.
type TransportFactory func() contract.Transport

// SessionManager is the directory of live sessions, keyed by user ID.
// It drives the join/leave/login/logout lifecycle and routes private
// messages between sessions. Each started session runs as one worker
// under the supervisor.
type SessionManager struct {
	mu         sync.RWMutex
	log        *slog.Logger
	rooms      *manager.RoomManager
	supervisor contract.ISupervisor
	monitoring *observability.MonitoringManager
	transports TransportFactory
	render     func(username, line string)

	pollInterval time.Duration
	sessions     map[string]*Session

	ctx context.Context // base context for session workers, set by Start
}

func NewSessionManager(
	log *slog.Logger,
	rooms *manager.RoomManager,
	supervisor contract.ISupervisor,
	monitoring *observability.MonitoringManager,
	transports TransportFactory,
	render func(username, line string),
	pollInterval time.Duration,
) *SessionManager {
	return &SessionManager{
		log:          log,
		rooms:        rooms,
		supervisor:   supervisor,
		monitoring:   monitoring,
		transports:   transports,
		render:       render,
		pollInterval: pollInterval,
		sessions:     make(map[string]*Session),
		ctx:          context.Background(),
	}
}

// Start fixes the base context all session workers inherit. Cancelling
// it stops every delivery loop.
func (sm *SessionManager) Start(ctx context.Context) {
	sm.mu.Lock()
	sm.ctx = ctx
	sm.mu.Unlock()
}

// Join creates the user, adds it to the room, registers the new session
// as the room's observer and submits its delivery loop to the
// supervisor. The room rejects the join before any session state is
// touched.
func (sm *SessionManager) Join(username, roomID string) (*Session, error) {
	user, err := domain.NewUser(username)
	if err != nil {
		return nil, err
	}
	if err := sm.rooms.JoinRoom(roomID, user); err != nil {
		return nil, err
	}
	room, ok, err := sm.rooms.GetRoom(roomID)
	if err != nil || !ok {
		return nil, fmt.Errorf("%w: %q", errors.ErrRoomNotFound, roomID)
	}

	render := func(line string) {
		if sm.render != nil {
			sm.render(user.Username, line)
		}
	}
	s := NewSession(user, roomID, sm.transports(), render, sm.pollInterval, sm.monitoring, sm.log)
	room.RegisterObserver(s)

	sm.mu.Lock()
	sm.sessions[user.ID] = s
	ctx := sm.ctx
	sm.mu.Unlock()

	sm.supervisor.Start(ctx, s)
	sm.log.Info("User joined room", "user", username, "room", roomID)
	return s, nil
}

// Leave takes the user off the room interface and suspends the session.
// The session row, its queues and the user object all persist, a later
// Login resumes them.
func (sm *SessionManager) Leave(userID string) error {
	s, ok := sm.Get(userID)
	if !ok {
		return errors.ErrSessionNotFound
	}
	room, found, err := sm.rooms.GetRoom(s.RoomID())
	if err == nil && found {
		room.RemoveObserver(s)
	}
	if err := sm.rooms.LeaveRoom(s.RoomID(), userID); err != nil {
		sm.log.Warn("Leave on missing room", "user", userID, "room", s.RoomID(), "error", err)
	}
	s.Suspend()
	sm.log.Info("User left room", "user", s.User().Username, "room", s.RoomID())
	return nil
}

// Login resumes a suspended session: reconnect the transport, re-register
// the observer, re-add the user to the room when a leave removed its
// presence, and resubmit the polling loop. All steps are idempotent.
func (sm *SessionManager) Login(userID string) (*Session, error) {
	s, ok := sm.Get(userID)
	if !ok || !s.User().IsActive() {
		return nil, errors.ErrSessionNotFound
	}

	s.Reconnect()
	room, found, err := sm.rooms.GetRoom(s.RoomID())
	if err != nil || !found {
		return nil, fmt.Errorf("%w: %q", errors.ErrRoomNotFound, s.RoomID())
	}
	room.RegisterObserver(s)

	// A plain leave keeps the membership row, so this only fires when the
	// room itself was deleted and recreated in between.
	if _, known := room.GetUser(userID); !known {
		if err := room.AddUser(s.User()); err != nil {
			return nil, err
		}
	}

	sm.mu.RLock()
	ctx := sm.ctx
	sm.mu.RUnlock()
	sm.supervisor.Start(ctx, s)

	sm.log.Info("Session resumed", "user", s.User().Username, "room", s.RoomID())
	return s, nil
}

// Logout applies leave semantics, marks the user permanently inactive
// and drops the session from the directory. Irreversible.
func (sm *SessionManager) Logout(userID string) error {
	s, ok := sm.Get(userID)
	if !ok {
		return errors.ErrSessionNotFound
	}
	if err := sm.Leave(userID); err != nil {
		return err
	}
	s.Terminate()
	s.User().Deactivate()

	sm.mu.Lock()
	delete(sm.sessions, userID)
	sm.mu.Unlock()

	sm.log.Info("User logged out", "user", s.User().Username)
	return nil
}

// SendPrivateMessage routes a direct message to the recipient's session
// and echoes a confirmation to the sender's own queue. Room history is
// never involved.
func (sm *SessionManager) SendPrivateMessage(senderID, recipientUsername, content string) (domain.PrivateMessage, error) {
	sender, ok := sm.Get(senderID)
	if !ok {
		return domain.PrivateMessage{}, errors.ErrSessionNotFound
	}

	recipient, ok := sm.findByUsername(recipientUsername)
	if !ok {
		sm.log.Warn("Private message failed, recipient unknown", "recipient", recipientUsername)
		return domain.PrivateMessage{}, fmt.Errorf("%w: %q", errors.ErrRecipientNotFound, recipientUsername)
	}

	pm, err := domain.NewPrivateMessage(
		sender.User().ID, sender.User().Username,
		recipient.User().ID, recipient.User().Username,
		content,
	)
	if err != nil {
		return domain.PrivateMessage{}, err
	}

	recipient.OnPrivateMessageReceived(pm)
	sender.OnPrivateMessageReceived(pm)
	sm.monitoring.IncrPrivateMessages()

	sm.log.Info("Private message sent", "from", pm.SenderUsername, "to", pm.RecipientUsername)
	return pm, nil
}

func (sm *SessionManager) findByUsername(username string) (*Session, bool) {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	for _, s := range sm.sessions {
		if strings.EqualFold(s.User().Username, username) && s.User().IsActive() {
			return s, true
		}
	}
	return nil, false
}

func (sm *SessionManager) Get(userID string) (*Session, bool) {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	s, ok := sm.sessions[userID]
	return s, ok
}

func (sm *SessionManager) Count() int {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return len(sm.sessions)
}

// Shutdown suspends every live session. Used on process exit.
func (sm *SessionManager) Shutdown() {
	sm.mu.RLock()
	sessions := make([]*Session, 0, len(sm.sessions))
	for _, s := range sm.sessions {
		sessions = append(sessions, s)
	}
	sm.mu.RUnlock()

	for _, s := range sessions {
		if room, ok, err := sm.rooms.GetRoom(s.RoomID()); err == nil && ok {
			room.RemoveObserver(s)
			room.RemoveUser(s.User().ID)
		}
		s.Suspend()
	}
	sm.log.Info("All sessions suspended", "count", len(sessions))
}
