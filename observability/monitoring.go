// Package observability aggregates engine telemetry in real time.
package observability

import (
	"log/slog"
	"runtime"
	"sync/atomic"
	"time"
)

// EngineStats is a point-in-time snapshot of the engine counters plus
// process memory figures.
type EngineStats struct {
	MessagesPosted   uint64 `json:"messages_posted"`
	PrivateMessages  uint64 `json:"private_messages"`
	EventsDelivered  uint64 `json:"events_delivered"`
	NotifyFailures   uint64 `json:"notify_failures"`
	ActiveSessions   int64  `json:"active_sessions"`
	AllocMemMb       uint64 `json:"alloc_mem_mb"`
	NumGC            uint32 `json:"num_gc"`
	CollectedAt      time.Time
}

// MonitoringManager keeps lock-free counters updated from the hot paths.
type MonitoringManager struct {
	log *slog.Logger

	messagesPosted  atomic.Uint64
	privateMessages atomic.Uint64
	eventsDelivered atomic.Uint64
	notifyFailures  atomic.Uint64
	activeSessions  atomic.Int64
}

func NewMonitoringManager(log *slog.Logger) *MonitoringManager {
	return &MonitoringManager{log: log}
}

func (mm *MonitoringManager) IncrMessagesPosted()  { mm.messagesPosted.Add(1) }
func (mm *MonitoringManager) IncrPrivateMessages() { mm.privateMessages.Add(1) }
func (mm *MonitoringManager) IncrEventsDelivered() { mm.eventsDelivered.Add(1) }
func (mm *MonitoringManager) IncrNotifyFailures()  { mm.notifyFailures.Add(1) }
func (mm *MonitoringManager) SessionStarted()      { mm.activeSessions.Add(1) }
func (mm *MonitoringManager) SessionStopped()      { mm.activeSessions.Add(-1) }

// GetLatest assembles a consistent-enough snapshot for reporting.
// Counters are read individually, exact cross-counter consistency is not
// needed for telemetry.
func (mm *MonitoringManager) GetLatest() EngineStats {
	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)

	return EngineStats{
		MessagesPosted:  mm.messagesPosted.Load(),
		PrivateMessages: mm.privateMessages.Load(),
		EventsDelivered: mm.eventsDelivered.Load(),
		NotifyFailures:  mm.notifyFailures.Load(),
		ActiveSessions:  mm.activeSessions.Load(),
		AllocMemMb:      mem.Alloc / 1024 / 1024,
		NumGC:           mem.NumGC,
		CollectedAt:     time.Now().UTC(),
	}
}
