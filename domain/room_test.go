package domain

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	apperrors "chat-rooms/errors"
)

// recordingObserver captures every callback it receives. It panics on
// demand to exercise failure isolation.
type recordingObserver struct {
	id string

	mu       sync.Mutex
	messages []Message
	joins    []string
	leaves   []string
	privates []PrivateMessage
	failures []string

	panicOnMessage bool
	panicOnError   bool
}

func (o *recordingObserver) ObserverUserID() string { return o.id }

func (o *recordingObserver) OnMessageReceived(msg Message) {
	if o.panicOnMessage {
		panic("observer is broken")
	}
	o.mu.Lock()
	defer o.mu.Unlock()
	o.messages = append(o.messages, msg)
}

func (o *recordingObserver) OnUserJoined(user *User) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.joins = append(o.joins, user.Username)
}

func (o *recordingObserver) OnUserLeft(user *User) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.leaves = append(o.leaves, user.Username)
}

func (o *recordingObserver) OnPrivateMessageReceived(pm PrivateMessage) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.privates = append(o.privates, pm)
}

func (o *recordingObserver) OnError(reason string) {
	if o.panicOnError {
		panic("observer cannot even report")
	}
	o.mu.Lock()
	defer o.mu.Unlock()
	o.failures = append(o.failures, reason)
}

func newTestRoom(t *testing.T) *Room {
	t.Helper()
	room, err := NewRoom("general", "General discussion", 0, 0, slog.Default())
	require.NoError(t, err)
	return room
}

func newTestUser(t *testing.T, username string) *User {
	t.Helper()
	user, err := NewUser(username)
	require.NoError(t, err)
	return user
}

func TestNewRoom_RejectsShortName(t *testing.T) {
	req := require.New(t)

	_, err := NewRoom("general", "ab", 0, 0, slog.Default())

	req.ErrorIs(err, apperrors.ErrInvalidArgument)
}

func TestRoom_AddUser_RejectsDuplicate(t *testing.T) {
	req := require.New(t)
	room := newTestRoom(t)
	alice := newTestUser(t, "alice")

	// Given alice already joined
	req.NoError(room.AddUser(alice))

	// When she joins again
	err := room.AddUser(alice)

	// Then the second join is a hard error and membership is unchanged
	req.ErrorIs(err, apperrors.ErrDuplicateUser)
	req.Equal(1, room.MemberCount())
}

func TestRoom_AddUser_RejectsDuplicateAfterLeave(t *testing.T) {
	req := require.New(t)
	room := newTestRoom(t)
	alice := newTestUser(t, "alice")
	req.NoError(room.AddUser(alice))

	// Given alice left the room interface
	room.RemoveUser(alice.ID)
	req.Equal(0, room.UserCount())

	// When she attempts a fresh join, leave kept her membership row
	err := room.AddUser(alice)

	// Then the join is still rejected
	req.ErrorIs(err, apperrors.ErrDuplicateUser)
	req.Equal(1, room.MemberCount())
}

func TestRoom_AddUser_CapacityLimit(t *testing.T) {
	req := require.New(t)
	room := newTestRoom(t)

	for i := 0; i < MaxRoomUsers; i++ {
		req.NoError(room.AddUser(newTestUser(t, fmt.Sprintf("user-%03d", i))))
	}

	err := room.AddUser(newTestUser(t, "one-too-many"))

	req.ErrorIs(err, apperrors.ErrRoomFull)
	req.Equal(MaxRoomUsers, room.MemberCount())
}

func TestRoom_ConfiguredLimitsOverrideDefaults(t *testing.T) {
	req := require.New(t)
	room, err := NewRoom("cozy", "Cozy corner", 2, 3, slog.Default())
	req.NoError(err)
	alice := newTestUser(t, "alice")

	// Given a room holding two users
	req.NoError(room.AddUser(alice))
	req.NoError(room.AddUser(newTestUser(t, "bob")))

	// When a third user joins, the configured bound applies
	err = room.AddUser(newTestUser(t, "carol"))
	req.ErrorIs(err, apperrors.ErrRoomFull)
	req.Equal(2, room.MemberCount())

	// And the history evicts once the configured bound is reached
	for i := 0; i < 4; i++ {
		msg, err := NewMessage(alice.ID, alice.Username, fmt.Sprintf("message %d", i), room.ID())
		req.NoError(err)
		req.NoError(room.PostMessage(msg))
	}
	history := room.History()
	req.Len(history, 3)
	req.Equal("message 1", history[0].Content)
}

func TestRoom_AddUser_ConcurrentJoinsRespectCapacity(t *testing.T) {
	req := require.New(t)
	room := newTestRoom(t)
	attempts := MaxRoomUsers + 50

	var wg sync.WaitGroup
	errs := make(chan error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			errs <- room.AddUser(newTestUser(t, fmt.Sprintf("racer-%03d", n)))
		}(i)
	}
	wg.Wait()
	close(errs)

	accepted, rejected := 0, 0
	for err := range errs {
		switch {
		case err == nil:
			accepted++
		case errors.Is(err, apperrors.ErrRoomFull):
			rejected++
		default:
			req.FailNow("unexpected error", err.Error())
		}
	}

	req.Equal(MaxRoomUsers, accepted)
	req.Equal(attempts-MaxRoomUsers, rejected)
	req.Equal(MaxRoomUsers, room.MemberCount())
}

func TestRoom_RemoveUser_UnknownIsNoop(t *testing.T) {
	req := require.New(t)
	room := newTestRoom(t)
	observer := &recordingObserver{id: "watcher"}
	room.RegisterObserver(observer)

	room.RemoveUser("ghost")

	req.Empty(observer.leaves)
}

func TestRoom_PostMessage_RejectsForeignRoomWithoutMutation(t *testing.T) {
	req := require.New(t)
	room := newTestRoom(t)
	alice := newTestUser(t, "alice")
	req.NoError(room.AddUser(alice))

	// Given a message minted for another room
	msg, err := NewMessage(alice.ID, alice.Username, "hello", "other-room")
	req.NoError(err)

	// When it is posted here
	err = room.PostMessage(msg)

	// Then the post fails and nothing was recorded
	req.ErrorIs(err, apperrors.ErrRoomMismatch)
	req.Equal(0, room.MessageCount())
	_, ok := room.LastMessage()
	req.False(ok)
}

func TestRoom_PostMessage_RejectsNonMember(t *testing.T) {
	req := require.New(t)
	room := newTestRoom(t)
	stranger := newTestUser(t, "stranger")

	msg, err := NewMessage(stranger.ID, stranger.Username, "let me in", room.ID())
	req.NoError(err)

	err = room.PostMessage(msg)

	req.ErrorIs(err, apperrors.ErrNotAMember)
	req.Equal(0, room.MessageCount())
}

func TestRoom_PostMessage_EvictsOldestAtCapacity(t *testing.T) {
	req := require.New(t)
	room := newTestRoom(t)
	alice := newTestUser(t, "alice")
	req.NoError(room.AddUser(alice))

	for i := 0; i < MaxRoomMessages+1; i++ {
		msg, err := NewMessage(alice.ID, alice.Username, fmt.Sprintf("message %d", i), room.ID())
		req.NoError(err)
		req.NoError(room.PostMessage(msg))
	}

	history := room.History()
	req.Len(history, MaxRoomMessages)
	// The very first message is gone, the order of the rest is intact
	req.Equal("message 1", history[0].Content)
	req.Equal(fmt.Sprintf("message %d", MaxRoomMessages), history[len(history)-1].Content)

	last, ok := room.LastMessage()
	req.True(ok)
	req.Equal(fmt.Sprintf("message %d", MaxRoomMessages), last.Content)
}

func TestRoom_PostMessage_SkipsSender(t *testing.T) {
	req := require.New(t)
	room := newTestRoom(t)
	alice := newTestUser(t, "alice")
	bob := newTestUser(t, "bob")
	req.NoError(room.AddUser(alice))
	req.NoError(room.AddUser(bob))

	aliceObserver := &recordingObserver{id: alice.ID}
	bobObserver := &recordingObserver{id: bob.ID}
	room.RegisterObserver(aliceObserver)
	room.RegisterObserver(bobObserver)

	msg, err := NewMessage(alice.ID, alice.Username, "hi bob", room.ID())
	req.NoError(err)
	req.NoError(room.PostMessage(msg))

	// Bob hears alice, alice does not hear herself
	req.Len(bobObserver.messages, 1)
	req.Equal("hi bob", bobObserver.messages[0].Content)
	req.Empty(aliceObserver.messages)
}

func TestRoom_Fanout_IsolatesPanickingObserver(t *testing.T) {
	req := require.New(t)
	room := newTestRoom(t)
	alice := newTestUser(t, "alice")
	req.NoError(room.AddUser(alice))

	broken := &recordingObserver{id: "broken", panicOnMessage: true}
	healthy := &recordingObserver{id: "healthy"}
	room.RegisterObserver(broken)
	room.RegisterObserver(healthy)

	msg, err := NewMessage(alice.ID, alice.Username, "does anyone copy", room.ID())
	req.NoError(err)

	// When a broken observer panics mid fan-out
	req.NoError(room.PostMessage(msg))

	// Then the healthy one still got the message and the broken one was
	// told about its own failure
	req.Len(healthy.messages, 1)
	req.Len(broken.failures, 1)
	req.Contains(broken.failures[0], "notification failed")
}

func TestRoom_Fanout_SurvivesPanicInErrorCallback(t *testing.T) {
	req := require.New(t)
	room := newTestRoom(t)
	alice := newTestUser(t, "alice")
	req.NoError(room.AddUser(alice))

	hopeless := &recordingObserver{id: "hopeless", panicOnMessage: true, panicOnError: true}
	healthy := &recordingObserver{id: "healthy"}
	room.RegisterObserver(hopeless)
	room.RegisterObserver(healthy)

	msg, err := NewMessage(alice.ID, alice.Username, "still here", room.ID())
	req.NoError(err)
	req.NoError(room.PostMessage(msg))

	req.Len(healthy.messages, 1)
}

func TestRoom_RegisterObserver_IsIdempotent(t *testing.T) {
	req := require.New(t)
	room := newTestRoom(t)
	alice := newTestUser(t, "alice")
	observer := &recordingObserver{id: "watcher"}

	room.RegisterObserver(observer)
	room.RegisterObserver(observer)

	req.NoError(room.AddUser(alice))

	// One registration, one join notification
	req.Len(observer.joins, 1)
}

func TestRoom_RemoveObserver_StopsDelivery(t *testing.T) {
	req := require.New(t)
	room := newTestRoom(t)
	alice := newTestUser(t, "alice")
	req.NoError(room.AddUser(alice))
	observer := &recordingObserver{id: "watcher"}
	room.RegisterObserver(observer)

	room.RemoveObserver(observer)
	// Removing again, or removing nil, must not blow up
	room.RemoveObserver(observer)
	room.RemoveObserver(nil)

	msg, err := NewMessage(alice.ID, alice.Username, "into the void", room.ID())
	req.NoError(err)
	req.NoError(room.PostMessage(msg))

	req.Empty(observer.messages)
}

func TestRoom_ActiveUsers_FiltersAbsentAndInactive(t *testing.T) {
	req := require.New(t)
	room := newTestRoom(t)
	alice := newTestUser(t, "alice")
	bob := newTestUser(t, "bob")
	carol := newTestUser(t, "carol")
	req.NoError(room.AddUser(alice))
	req.NoError(room.AddUser(bob))
	req.NoError(room.AddUser(carol))

	// bob left, carol logged out while still present
	room.RemoveUser(bob.ID)
	carol.Deactivate()

	active := room.ActiveUsers()

	req.Len(active, 1)
	req.Equal("alice", active[0].Username)
	req.Equal(2, room.UserCount())
	req.Equal(3, room.MemberCount())
}
