package search

import (
	"context"
	"log/slog"
	"testing"

	"github.com/blugelabs/bluge"
	"github.com/stretchr/testify/require"

	"chat-rooms/domain"
)

func openTestIndex(t *testing.T) *MessageIndex {
	t.Helper()
	writer, err := bluge.OpenWriter(bluge.DefaultConfig(t.TempDir()))
	require.NoError(t, err)
	t.Cleanup(func() { _ = writer.Close() })
	return NewMessageIndex(writer, slog.Default())
}

func newIndexedMessage(t *testing.T, index *MessageIndex, sender, content, roomID string) domain.Message {
	t.Helper()
	msg, err := domain.NewMessage("sender-"+sender, sender, content, roomID)
	require.NoError(t, err)
	require.NoError(t, index.Index(msg))
	return msg
}

func TestMessageIndex_SearchByContent(t *testing.T) {
	req := require.New(t)
	index := openTestIndex(t)

	posted := newIndexedMessage(t, index, "alice", "the deployment failed again", "general")
	newIndexedMessage(t, index, "bob", "lunch anyone", "general")

	hits, err := index.Search(context.Background(), NewQuery("deployment"))

	req.NoError(err)
	req.Len(hits, 1)
	req.Equal(posted.ID, hits[0].MessageID)
	req.Equal("alice", hits[0].Sender)
	req.Equal("general", hits[0].RoomID)
	req.Equal("the deployment failed again", hits[0].Content)
	req.False(hits[0].At.IsZero())
}

func TestMessageIndex_SearchScopedToRoom(t *testing.T) {
	req := require.New(t)
	index := openTestIndex(t)

	newIndexedMessage(t, index, "alice", "deployment in general", "general")
	newIndexedMessage(t, index, "bob", "deployment in ops", "ops")

	// Scoped to one room
	hits, err := index.Search(context.Background(), NewQuery("deployment --room ops"))
	req.NoError(err)
	req.Len(hits, 1)
	req.Equal("ops", hits[0].RoomID)

	// Unscoped sees both
	hits, err = index.Search(context.Background(), NewQuery("deployment"))
	req.NoError(err)
	req.Len(hits, 2)
}

func TestMessageIndex_SearchHonorsLimit(t *testing.T) {
	req := require.New(t)
	index := openTestIndex(t)

	for _, sender := range []string{"alice", "bob", "clara"} {
		newIndexedMessage(t, index, sender, "status update for today", "general")
	}

	hits, err := index.Search(context.Background(), NewQuery("status --limit 2"))

	req.NoError(err)
	req.Len(hits, 2)
}

func TestMessageIndex_NoMatch(t *testing.T) {
	req := require.New(t)
	index := openTestIndex(t)
	newIndexedMessage(t, index, "alice", "hello room", "general")

	hits, err := index.Search(context.Background(), NewQuery("nonexistent"))

	req.NoError(err)
	req.Empty(hits)
}
