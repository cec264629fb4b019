package domain

import (
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"chat-rooms/errors"
)

const (
	// MaxRoomUsers is the default bound on users ever joined to a room.
	MaxRoomUsers = 100
	// MaxRoomMessages is the default bound on the in-memory history.
	// Oldest entries are evicted first once the cap is reached.
	MaxRoomMessages = 1000
)

// Room is a named, capacity- and history-bounded broadcast domain.
// It owns its membership map, presence set, message history and observer
// list as a single mutual-exclusion domain: adds, removes and posts on
// the same room are totally ordered, operations on different rooms never
// contend.
//
// Invariants: present ⊆ members, len(members) ≤ maxUsers,
// len(history) ≤ maxMessages, observers holds no duplicates.
type Room struct {
	id          string
	name        string
	createdAt   time.Time
	maxUsers    int
	maxMessages int
	log         *slog.Logger

	mu          sync.Mutex
	members     map[string]*User    // every user who ever joined
	present     map[string]struct{} // users currently on the room interface
	history     []Message
	lastMessage *Message
	observers   []RoomObserver
}

// NewRoom validates the identifier and display name (3 to 100 characters
// after trimming) and returns an empty room. Non-positive limits fall
// back to the package defaults.
func NewRoom(id, name string, maxUsers, maxMessages int, log *slog.Logger) (*Room, error) {
	id = strings.TrimSpace(id)
	name = strings.TrimSpace(name)
	if err := checkStruct(roomParams{ID: id, Name: name}); err != nil {
		return nil, err
	}
	if maxUsers <= 0 {
		maxUsers = MaxRoomUsers
	}
	if maxMessages <= 0 {
		maxMessages = MaxRoomMessages
	}
	log.Info("Chat room created", "room", id, "name", name)
	return &Room{
		id:          id,
		name:        name,
		createdAt:   time.Now().UTC(),
		maxUsers:    maxUsers,
		maxMessages: maxMessages,
		log:         log,
		members:     make(map[string]*User),
		present:     make(map[string]struct{}),
	}, nil
}

func (r *Room) ID() string           { return r.id }
func (r *Room) Name() string         { return r.name }
func (r *Room) CreatedAt() time.Time { return r.createdAt }

// AddUser inserts the user into the membership map and marks it present.
// A user already known to the room is rejected, even after a plain leave:
// leave only clears presence, never membership.
func (r *Room) AddUser(user *User) error {
	if user == nil {
		return fmt.Errorf("%w: user is nil", errors.ErrInvalidArgument)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.members) >= r.maxUsers {
		r.log.Warn("Room is full", "room", r.id, "user", user.Username)
		return fmt.Errorf("%w: maximum capacity %d", errors.ErrRoomFull, r.maxUsers)
	}
	if _, ok := r.members[user.ID]; ok {
		r.log.Warn("Duplicate join rejected", "room", r.id, "user", user.Username)
		return errors.ErrDuplicateUser
	}

	r.members[user.ID] = user
	r.present[user.ID] = struct{}{}
	r.log.Info("User joined room", "room", r.id, "user", user.Username, "present", len(r.present))

	r.fanout(func(o RoomObserver) { o.OnUserJoined(user) }, user.ID, "user join notification failed")
	return nil
}

// RemoveUser takes the user off the room interface. Membership is kept so
// that history stays attributable and a later re-login finds the user
// again. Unknown users are a silent no-op.
func (r *Room) RemoveUser(userID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.members[userID]
	if !ok {
		return
	}
	delete(r.present, userID)
	r.log.Info("User left room", "room", r.id, "user", user.Username, "present", len(r.present))

	r.fanout(func(o RoomObserver) { o.OnUserLeft(user) }, user.ID, "user leave notification failed")
}

// PostMessage validates ownership and sender membership, appends to the
// bounded history (evicting the oldest entry at capacity) and fans the
// message out to every observer except the sender.
func (r *Room) PostMessage(msg Message) error {
	if msg.Content == "" || msg.SenderID == "" {
		return fmt.Errorf("%w: empty message", errors.ErrInvalidArgument)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if msg.RoomID != r.id {
		return errors.ErrRoomMismatch
	}
	if _, ok := r.members[msg.SenderID]; !ok {
		return errors.ErrNotAMember
	}

	if len(r.history) >= r.maxMessages {
		r.history = r.history[1:]
		r.log.Debug("Message limit reached, oldest entry evicted", "room", r.id)
	}
	r.history = append(r.history, msg)
	r.lastMessage = &msg
	r.log.Debug("Message posted", "room", r.id, "sender", msg.SenderUsername)

	r.fanout(func(o RoomObserver) { o.OnMessageReceived(msg) }, msg.SenderID, "message notification failed")
	return nil
}

// RegisterObserver adds an event sink. Registering the same observer
// twice is a no-op.
func (r *Room) RegisterObserver(observer RoomObserver) {
	if observer == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, o := range r.observers {
		if o == observer {
			return
		}
	}
	r.observers = append(r.observers, observer)
	r.log.Debug("Observer registered", "room", r.id, "observer", observer.ObserverUserID())
}

// RemoveObserver is tolerant: absent or nil observers are a no-op.
func (r *Room) RemoveObserver(observer RoomObserver) {
	if observer == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, o := range r.observers {
		if o == observer {
			r.observers = append(r.observers[:i], r.observers[i+1:]...)
			r.log.Debug("Observer removed", "room", r.id, "observer", observer.ObserverUserID())
			return
		}
	}
}

// fanout delivers one event to every observer except the originator.
// It iterates a snapshot of the observer list, so register/remove during
// delivery never invalidates the in-progress fan-out. A failing observer
// is isolated: the panic is recovered, logged, reported back to that same
// observer via OnError, and delivery to the remaining observers proceeds.
// Callers hold r.mu, which keeps events totally ordered per room.
func (r *Room) fanout(notify func(RoomObserver), originatorID, failureReason string) {
	snapshot := make([]RoomObserver, len(r.observers))
	copy(snapshot, r.observers)

	for _, observer := range snapshot {
		if observer.ObserverUserID() == originatorID {
			continue
		}
		r.notifyOne(observer, notify, failureReason)
	}
}

func (r *Room) notifyOne(observer RoomObserver, notify func(RoomObserver), failureReason string) {
	defer func() {
		if rec := recover(); rec != nil {
			r.log.Error("Observer notification failed", "room", r.id,
				"observer", observer.ObserverUserID(), "panic", rec)
			r.reportError(observer, failureReason)
		}
	}()
	notify(observer)
}

func (r *Room) reportError(observer RoomObserver, reason string) {
	defer func() {
		// An observer broken enough to panic in OnError is dropped silently.
		_ = recover()
	}()
	observer.OnError(reason)
}

// ActiveUsers returns a point-in-time snapshot of users that are both
// present on the room interface and globally active.
func (r *Room) ActiveUsers() []*User {
	r.mu.Lock()
	defer r.mu.Unlock()
	users := make([]*User, 0, len(r.present))
	for id := range r.present {
		if user, ok := r.members[id]; ok && user.IsActive() {
			users = append(users, user)
		}
	}
	return users
}

// GetUser resolves any user ever joined, present or not.
func (r *Room) GetUser(userID string) (*User, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.members[userID]
	return user, ok
}

// History returns a copy of the bounded message history, oldest first.
func (r *Room) History() []Message {
	r.mu.Lock()
	defer r.mu.Unlock()
	history := make([]Message, len(r.history))
	copy(history, r.history)
	return history
}

// LastMessage reports the most recently posted message, if any.
func (r *Room) LastMessage() (Message, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.lastMessage == nil {
		return Message{}, false
	}
	return *r.lastMessage, true
}

// UserCount reports how many users are currently present.
func (r *Room) UserCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.present)
}

// MemberCount reports how many users ever joined.
func (r *Room) MemberCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.members)
}

func (r *Room) MessageCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.history)
}
