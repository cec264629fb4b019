// Package domain contains core concepts of the chat engine.
// This file defines Message events and related rules.
// Messages are immutable and validated by the domain.
package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Message represents an immutable room broadcast.
type Message struct {
	ID             string
	SenderID       string
	SenderUsername string
	Content        string
	CreatedAt      time.Time
	RoomID         string
}

// NewMessage builds a validated message bound to a room. Content is
// trimmed and must hold 1 to 1000 characters.
func NewMessage(senderID, senderUsername, content, roomID string) (Message, error) {
	content = strings.TrimSpace(content)
	params := messageParams{
		SenderID:       strings.TrimSpace(senderID),
		SenderUsername: strings.TrimSpace(senderUsername),
		Content:        content,
		RoomID:         strings.TrimSpace(roomID),
	}
	if err := checkStruct(params); err != nil {
		return Message{}, err
	}
	return Message{
		ID:             uuid.NewString(),
		SenderID:       senderID,
		SenderUsername: senderUsername,
		Content:        content,
		CreatedAt:      time.Now().UTC(),
		RoomID:         roomID,
	}, nil
}

// Formatted renders the message for presentation.
func (m Message) Formatted() string {
	return fmt.Sprintf("[%s]: %s", m.SenderUsername, m.Content)
}
