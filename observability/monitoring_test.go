package observability

import (
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMonitoringManager_CountersUnderConcurrency(t *testing.T) {
	req := require.New(t)
	mm := NewMonitoringManager(slog.Default())
	const writers, perWriter = 8, 1000

	var wg sync.WaitGroup
	for w := 0; w < writers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < perWriter; i++ {
				mm.IncrMessagesPosted()
				mm.IncrEventsDelivered()
			}
		}()
	}
	wg.Wait()

	stats := mm.GetLatest()
	req.EqualValues(writers*perWriter, stats.MessagesPosted)
	req.EqualValues(writers*perWriter, stats.EventsDelivered)
	req.False(stats.CollectedAt.IsZero())
}

func TestMonitoringManager_SessionGauge(t *testing.T) {
	req := require.New(t)
	mm := NewMonitoringManager(slog.Default())

	mm.SessionStarted()
	mm.SessionStarted()
	mm.SessionStopped()

	req.EqualValues(1, mm.GetLatest().ActiveSessions)
}
