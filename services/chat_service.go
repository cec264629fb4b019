// Package services exposes the chat engine facade consumed by the
// presentation layer. It validates, censors, drives the room and session
// managers, and feeds the archive and the search index.
package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/abadojack/whatlanggo"

	"chat-rooms/domain"
	"chat-rooms/errors"
	"chat-rooms/manager"
	"chat-rooms/moderation"
	"chat-rooms/observability"
	"chat-rooms/repositories"
	"chat-rooms/search"
	"chat-rooms/session"
)

type IChatService interface {
	CreateRoom(roomID, roomName string) (*domain.Room, error)
	DeleteRoom(roomID string) bool
	ListRooms() []*domain.Room
	JoinRoom(username, roomID string) (*session.Session, error)
	LeaveRoom(userID string) error
	Login(userID string) (*session.Session, error)
	Logout(userID string) error
	PostMessage(userID, content string) error
	SendPrivateMessage(senderID, recipientUsername, content string) (domain.PrivateMessage, error)
	RoomHistory(roomID string) ([]domain.Message, error)
	ArchivedHistory(roomID string, cursor *string) ([]repositories.ArchivedMessage, *string, error)
	SearchMessages(ctx context.Context, rawQuery string) ([]search.Hit, error)
}

type ChatService struct {
	log        *slog.Logger
	rooms      *manager.RoomManager
	sessions   *session.SessionManager
	moderator  moderation.Moderator
	archive    repositories.IMessageArchive
	index      search.IMessageIndex
	monitoring *observability.MonitoringManager
}

func NewChatService(
	log *slog.Logger,
	rooms *manager.RoomManager,
	sessions *session.SessionManager,
	moderator moderation.Moderator,
	archive repositories.IMessageArchive,
	index search.IMessageIndex,
	monitoring *observability.MonitoringManager,
) *ChatService {
	return &ChatService{
		log:        log,
		rooms:      rooms,
		sessions:   sessions,
		moderator:  moderator,
		archive:    archive,
		index:      index,
		monitoring: monitoring,
	}
}

func (s *ChatService) CreateRoom(roomID, roomName string) (*domain.Room, error) {
	return s.rooms.CreateRoom(roomID, roomName)
}

func (s *ChatService) DeleteRoom(roomID string) bool {
	return s.rooms.DeleteRoom(roomID)
}

func (s *ChatService) ListRooms() []*domain.Room {
	return s.rooms.ListRooms()
}

func (s *ChatService) JoinRoom(username, roomID string) (*session.Session, error) {
	return s.sessions.Join(username, roomID)
}

func (s *ChatService) LeaveRoom(userID string) error {
	return s.sessions.Leave(userID)
}

func (s *ChatService) Login(userID string) (*session.Session, error) {
	return s.sessions.Login(userID)
}

func (s *ChatService) Logout(userID string) error {
	return s.sessions.Logout(userID)
}

// PostMessage censors the content, posts it to the sender's room and, on
// success, feeds the archive and the search index. Archive and index
// failures are logged and never fail the post.
func (s *ChatService) PostMessage(userID, content string) error {
	sess, ok := s.sessions.Get(userID)
	if !ok {
		return errors.ErrSessionNotFound
	}

	sanitized, foundWords := s.moderator.Censor(content)
	if len(foundWords) > 0 {
		info := whatlanggo.Detect(content)
		s.log.Warn("Message censored",
			"user", sess.User().Username,
			"words", len(foundWords),
			"lang", info.Lang.Iso6391())
	}

	msg, err := domain.NewMessage(sess.User().ID, sess.User().Username, sanitized, sess.RoomID())
	if err != nil {
		return err
	}
	if err := s.rooms.PostMessage(sess.RoomID(), msg); err != nil {
		return err
	}
	s.monitoring.IncrMessagesPosted()

	s.persist(msg)
	return nil
}

func (s *ChatService) persist(msg domain.Message) {
	archived, err := repositories.FromDomain(msg)
	if err != nil {
		s.log.Error("Archive conversion failed", "message", msg.ID, "error", err)
		return
	}
	if err := s.archive.StoreMessage(archived); err != nil {
		s.log.Error("Archive write failed", "message", msg.ID, "error", err)
	}
	if err := s.index.Index(msg); err != nil {
		s.log.Error("Index write failed", "message", msg.ID, "error", err)
	}
}

func (s *ChatService) SendPrivateMessage(senderID, recipientUsername, content string) (domain.PrivateMessage, error) {
	return s.sessions.SendPrivateMessage(senderID, recipientUsername, content)
}

// RoomHistory returns the bounded in-memory history, oldest first.
func (s *ChatService) RoomHistory(roomID string) ([]domain.Message, error) {
	room, ok, err := s.rooms.GetRoom(roomID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w: %q", errors.ErrRoomNotFound, roomID)
	}
	return room.History(), nil
}

// ArchivedHistory pages through the persistent log, newest first.
func (s *ChatService) ArchivedHistory(roomID string, cursor *string) ([]repositories.ArchivedMessage, *string, error) {
	return s.archive.GetMessages(roomID, cursor)
}

// SearchMessages answers a raw "/search" style query against the index.
func (s *ChatService) SearchMessages(ctx context.Context, rawQuery string) ([]search.Hit, error) {
	query := search.NewQuery(rawQuery)
	if query.Terms == "" {
		return nil, fmt.Errorf("%w: empty search terms", errors.ErrInvalidArgument)
	}
	return s.index.Search(ctx, query)
}
