// Package search maintains a full-text index over posted messages and
// answers per-room queries against it.
package search

import (
	"context"
	"log/slog"
	"time"

	"github.com/blugelabs/bluge"

	"chat-rooms/domain"
)

//go:generate go run go.uber.org/mock/mockgen -source=index.go -destination=../mocks/mock_index.go -package=mocks
type IMessageIndex interface {
	Index(msg domain.Message) error
	Search(ctx context.Context, query *Query) ([]Hit, error)
}

type MessageIndex struct {
	writer *bluge.Writer
	log    *slog.Logger
}

func NewMessageIndex(writer *bluge.Writer, log *slog.Logger) *MessageIndex {
	return &MessageIndex{writer: writer, log: log}
}

// Hit is one search result, rebuilt from stored fields.
type Hit struct {
	MessageID string
	RoomID    string
	Sender    string
	Content   string
	At        time.Time
}

// Index upserts one message document. Indexing is best effort: the
// caller logs failures and the post itself never fails because of them.
func (i *MessageIndex) Index(msg domain.Message) error {
	doc := bluge.NewDocument(msg.ID).
		AddField(bluge.NewKeywordField("room", msg.RoomID).StoreValue()).
		AddField(bluge.NewTextField("content", msg.Content).StoreValue()).
		AddField(bluge.NewKeywordField("sender", msg.SenderUsername).StoreValue()).
		AddField(bluge.NewKeywordField("at", msg.CreatedAt.Format(time.RFC3339Nano)).StoreValue())

	return i.writer.Update(doc.ID(), doc)
}

// Search runs a match query over message content, restricted to one room
// when the query names one.
func (i *MessageIndex) Search(ctx context.Context, query *Query) ([]Hit, error) {
	reader, err := i.writer.Reader()
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = reader.Close()
	}()

	boolQuery := bluge.NewBooleanQuery().
		AddMust(bluge.NewMatchQuery(query.Terms).SetField("content"))
	if query.RoomID != "" {
		boolQuery.AddMust(bluge.NewTermQuery(query.RoomID).SetField("room"))
	}

	request := bluge.NewTopNSearch(query.Limit, boolQuery)
	iterator, err := reader.Search(ctx, request)
	if err != nil {
		return nil, err
	}

	var hits []Hit
	for {
		match, err := iterator.Next()
		if err != nil {
			return nil, err
		}
		if match == nil {
			break
		}

		var hit Hit
		err = match.VisitStoredFields(func(field string, value []byte) bool {
			switch field {
			case "_id":
				hit.MessageID = string(value)
			case "room":
				hit.RoomID = string(value)
			case "sender":
				hit.Sender = string(value)
			case "content":
				hit.Content = string(value)
			case "at":
				if at, parseErr := time.Parse(time.RFC3339Nano, string(value)); parseErr == nil {
					hit.At = at
				}
			}
			return true
		})
		if err != nil {
			return nil, err
		}
		hits = append(hits, hit)
	}

	i.log.Debug("Search completed", "terms", query.Terms, "room", query.RoomID, "hits", len(hits))
	return hits, nil
}
