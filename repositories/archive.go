//go:generate go run go.uber.org/mock/mockgen -source=archive.go -destination=../mocks/mock_archive.go -package=mocks
package repositories

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"

	"chat-rooms/domain"
)

// IMessageArchive is the best-effort persistent log of posted messages.
// The in-memory room history stays authoritative and bounded, the
// archive keeps everything for later retrieval.
type IMessageArchive interface {
	StoreMessage(message ArchivedMessage) error
	GetMessages(roomID string, cursor *string) ([]ArchivedMessage, *string, error)
}

type MessageArchive struct {
	db            *badger.DB
	log           *slog.Logger
	limitMessages *int
}

func NewMessageArchive(db *badger.DB, log *slog.Logger, limitMessages *int) MessageArchive {
	return MessageArchive{db: db, log: log, limitMessages: limitMessages}
}

type ArchivedMessage struct {
	ID             uuid.UUID `json:"id"`
	RoomID         string    `json:"room_id"`
	SenderID       string    `json:"sender_id"`
	SenderUsername string    `json:"sender_username"`
	Content        string    `json:"content"`
	At             time.Time `json:"at"`
}

// FromDomain converts a posted room message into its archive row.
func FromDomain(msg domain.Message) (ArchivedMessage, error) {
	id, err := uuid.Parse(msg.ID)
	if err != nil {
		return ArchivedMessage{}, err
	}
	return ArchivedMessage{
		ID:             id,
		RoomID:         msg.RoomID,
		SenderID:       msg.SenderID,
		SenderUsername: msg.SenderUsername,
		Content:        msg.Content,
		At:             msg.CreatedAt,
	}, nil
}

// StoreMessage persists a message in BadgerDB.
// The key is formatted as "msg:{room_id}:{timestamp_padded}:{uuid}" to:
//  1. Ensure chronological sorting using 19-digit zero padding (lexicographical order).
//  2. Prevent data loss by using UUID as a collision disconnector if two messages
//     arrive at the same nanosecond.
func (m MessageArchive) StoreMessage(message ArchivedMessage) error {
	key := fmt.Sprintf("msg:%s:%019d:%s",
		message.RoomID,
		message.At.UnixNano(),
		message.ID,
	)
	bytes, err := json.Marshal(message)
	if err != nil {
		return err
	}
	return m.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), bytes)
	})
}

// GetMessages retrieves messages for a specific room using a prefix scan.
// Thanks to the padded timestamp in the key, messages are naturally sorted
// by time; iteration runs in reverse so the newest come first. It stops
// collecting once the configured limitMessages is reached and returns the
// cursor to resume from.
func (m MessageArchive) GetMessages(roomID string, cursor *string) ([]ArchivedMessage, *string, error) {
	var rawMessages [][]byte
	var lastKey string

	err := m.db.View(func(txn *badger.Txn) error {
		prefixStr := fmt.Sprintf("msg:%s:", roomID)
		prefix := []byte(prefixStr)
		prefixLen := len(prefixStr)
		options := badger.DefaultIteratorOptions
		options.Reverse = true
		it := txn.NewIterator(options)
		defer it.Close()

		var seekKey []byte
		switch cursor {
		case nil:
			// Seek past the newest possible timestamp, then walk backwards.
			seekKey = append(prefix, []byte("9999999999999999999")...)
		default:
			seekKey = append(prefix, []byte(*cursor)...)
		}

		it.Seek(seekKey)

		if cursor != nil && it.ValidForPrefix(prefix) {
			it.Next()
		}

		for ; it.ValidForPrefix(prefix); it.Next() {
			if m.limitMessages != nil && len(rawMessages) == *m.limitMessages {
				m.log.Debug(fmt.Sprintf("Maximum of %d messages reached", *m.limitMessages))
				break
			}
			item := it.Item()
			// Memorize the cursor part of the actual key
			lastKey = string(item.Key()[prefixLen:])
			err := item.Value(func(value []byte) error {
				rawMessages = append(rawMessages, append([]byte(nil), value...))
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	messages := make([]ArchivedMessage, 0, len(rawMessages))
	for _, b := range rawMessages {
		var message ArchivedMessage
		if err = json.Unmarshal(b, &message); err != nil {
			return nil, nil, err
		}
		messages = append(messages, message)
	}
	return messages, &lastKey, nil
}
