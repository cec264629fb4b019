//go:generate go run go.uber.org/mock/mockgen -source=observer.go -destination=../mocks/mock_observer.go -package=mocks
package domain

// RoomObserver is implemented by every delivery endpoint interested in
// room events. Callbacks must enqueue and return, they run inside the
// room's critical section and must never block on a slow consumer.
//
// ObserverUserID identifies the observer for self-suppression: the
// originator of a join, leave, or message never receives its own event.
// Identity comparison, never reference comparison.
type RoomObserver interface {
	OnMessageReceived(msg Message)
	OnUserJoined(user *User)
	OnUserLeft(user *User)
	OnPrivateMessageReceived(pm PrivateMessage)
	OnError(reason string)
	ObserverUserID() string
}
