// Package manager owns the process-wide room directory. A single
// long-lived RoomManager is constructed at startup and handed to every
// collaborator, there is no global state.
package manager

import (
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"

	"github.com/samber/lo"

	"chat-rooms/domain"
	"chat-rooms/errors"
)

// RoomManager keys rooms by their identifier. Structural mutations
// (create, delete) are serialized behind one coarse lock; reads hand out
// snapshot copies. Per-room state is guarded by the rooms themselves, so
// activity in one room never contends with another.
type RoomManager struct {
	mu          sync.RWMutex
	log         *slog.Logger
	rooms       map[string]*domain.Room
	maxUsers    int
	maxMessages int
}

// NewRoomManager applies maxUsers and maxMessages to every room it
// creates. Non-positive values fall back to the domain defaults.
func NewRoomManager(log *slog.Logger, maxUsers, maxMessages int) *RoomManager {
	log.Info("Room manager initialized", "maxUsers", maxUsers, "maxMessages", maxMessages)
	return &RoomManager{
		log:         log,
		rooms:       make(map[string]*domain.Room),
		maxUsers:    maxUsers,
		maxMessages: maxMessages,
	}
}

// CreateRoom performs an atomic check-and-insert: no race lets two rooms
// with the same identifier both succeed.
func (m *RoomManager) CreateRoom(roomID, roomName string) (*domain.Room, error) {
	roomID = strings.TrimSpace(roomID)
	if roomID == "" {
		return nil, fmt.Errorf("%w: room id is blank", errors.ErrInvalidArgument)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.rooms[roomID]; ok {
		m.log.Warn("Duplicate room creation rejected", "room", roomID)
		return nil, fmt.Errorf("%w: %q", errors.ErrDuplicateRoom, roomID)
	}

	room, err := domain.NewRoom(roomID, roomName, m.maxUsers, m.maxMessages, m.log)
	if err != nil {
		return nil, err
	}
	m.rooms[roomID] = room
	m.log.Info("Room registered", "room", roomID, "total", len(m.rooms))
	return room, nil
}

// GetRoom returns absence, not an error, for an unknown identifier:
// a missing room is a recoverable condition for the caller.
func (m *RoomManager) GetRoom(roomID string) (*domain.Room, bool, error) {
	if strings.TrimSpace(roomID) == "" {
		return nil, false, fmt.Errorf("%w: room id is blank", errors.ErrInvalidArgument)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	room, ok := m.rooms[roomID]
	return room, ok, nil
}

// JoinRoom resolves the room and delegates the membership rules to it.
func (m *RoomManager) JoinRoom(roomID string, user *domain.User) error {
	room, ok, err := m.GetRoom(roomID)
	if err != nil {
		return err
	}
	if !ok {
		m.log.Warn("Join attempt on unknown room", "room", roomID)
		return fmt.Errorf("%w: %q", errors.ErrRoomNotFound, roomID)
	}
	return room.AddUser(user)
}

// LeaveRoom clears the user's presence on the room interface. The room
// keeps the membership row, so history attribution and a later re-login
// keep working.
func (m *RoomManager) LeaveRoom(roomID, userID string) error {
	room, ok, err := m.GetRoom(roomID)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: %q", errors.ErrRoomNotFound, roomID)
	}
	room.RemoveUser(userID)
	return nil
}

// PostMessage resolves the room and delegates validation and fan-out.
func (m *RoomManager) PostMessage(roomID string, msg domain.Message) error {
	room, ok, err := m.GetRoom(roomID)
	if err != nil {
		return err
	}
	if !ok {
		m.log.Warn("Post attempt on unknown room", "room", roomID)
		return fmt.Errorf("%w: %q", errors.ErrRoomNotFound, roomID)
	}
	return room.PostMessage(msg)
}

// DeleteRoom reports whether a room was actually removed.
func (m *RoomManager) DeleteRoom(roomID string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.rooms[roomID]; !ok {
		return false
	}
	delete(m.rooms, roomID)
	m.log.Info("Room deleted", "room", roomID, "remaining", len(m.rooms))
	return true
}

// ListRooms returns a snapshot sorted by identifier.
func (m *RoomManager) ListRooms() []*domain.Room {
	m.mu.RLock()
	rooms := lo.Values(m.rooms)
	m.mu.RUnlock()

	sort.Slice(rooms, func(i, j int) bool { return rooms[i].ID() < rooms[j].ID() })
	return rooms
}

// RoomIDs returns a snapshot of known identifiers, sorted.
func (m *RoomManager) RoomIDs() []string {
	m.mu.RLock()
	ids := lo.Keys(m.rooms)
	m.mu.RUnlock()

	sort.Strings(ids)
	return ids
}

func (m *RoomManager) Exists(roomID string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.rooms[roomID]
	return ok
}

func (m *RoomManager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.rooms)
}
