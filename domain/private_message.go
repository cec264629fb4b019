package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"chat-rooms/errors"
)

// PrivateMessage is a direct message between two users. It never enters
// any room history and is delivered straight to the two sessions involved.
type PrivateMessage struct {
	ID                string
	SenderID          string
	SenderUsername    string
	RecipientID       string
	RecipientUsername string
	Content           string
	CreatedAt         time.Time
}

// NewPrivateMessage validates both endpoints and the content.
// Sending to oneself is rejected.
func NewPrivateMessage(senderID, senderUsername, recipientID, recipientUsername, content string) (PrivateMessage, error) {
	content = strings.TrimSpace(content)
	params := privateMessageParams{
		SenderID:          strings.TrimSpace(senderID),
		SenderUsername:    strings.TrimSpace(senderUsername),
		RecipientID:       strings.TrimSpace(recipientID),
		RecipientUsername: strings.TrimSpace(recipientUsername),
		Content:           content,
	}
	if err := checkStruct(params); err != nil {
		return PrivateMessage{}, err
	}
	if senderID == recipientID {
		return PrivateMessage{}, fmt.Errorf("%w: cannot send a private message to self", errors.ErrInvalidArgument)
	}
	return PrivateMessage{
		ID:                uuid.NewString(),
		SenderID:          senderID,
		SenderUsername:    senderUsername,
		RecipientID:       recipientID,
		RecipientUsername: recipientUsername,
		Content:           content,
		CreatedAt:         time.Now().UTC(),
	}, nil
}

// Formatted renders the private message for presentation.
func (pm PrivateMessage) Formatted() string {
	return fmt.Sprintf("[PRIVATE from %s to %s]: %s", pm.SenderUsername, pm.RecipientUsername, pm.Content)
}
