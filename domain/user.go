// Package domain contains core concepts of the chat engine.
// No runtime, storage, or UI logic should be added here.
package domain

import (
	"strings"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

// User is created on the first join request and never deleted afterwards:
// message history keeps pointing at it for attribution. Only the active
// flag is mutable, and it flips to false exactly once, on logout.
type User struct {
	ID       string
	Username string
	JoinedAt time.Time

	active atomic.Bool
}

// NewUser validates the username (2 to 50 characters after trimming)
// and assigns a generated immutable identifier.
func NewUser(username string) (*User, error) {
	username = strings.TrimSpace(username)
	if err := checkStruct(usernameParams{Username: username}); err != nil {
		return nil, err
	}
	u := &User{
		ID:       uuid.NewString(),
		Username: username,
		JoinedAt: time.Now().UTC(),
	}
	u.active.Store(true)
	return u, nil
}

func (u *User) IsActive() bool {
	return u.active.Load()
}

// Deactivate marks the user permanently inactive. Irreversible without
// creating a new User.
func (u *User) Deactivate() {
	u.active.Store(false)
}
