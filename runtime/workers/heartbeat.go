package workers

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/shirou/gopsutil/process"

	"chat-rooms/observability"
)

// HeartbeatWorker periodically reports engine counters together with the
// process's own CPU and memory figures. Pure telemetry, losing a beat is
// harmless.
type HeartbeatWorker struct {
	log        *slog.Logger
	interval   time.Duration
	monitoring *observability.MonitoringManager
}

func NewHeartbeatWorker(log *slog.Logger, interval time.Duration,
	monitoring *observability.MonitoringManager) *HeartbeatWorker {
	return &HeartbeatWorker{log: log, interval: interval, monitoring: monitoring}
}

func (w *HeartbeatWorker) Run(ctx context.Context) error {
	w.log.Info("Starting heartbeat worker")
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	p, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			rss, cpu, err := selfStats(p)
			if err != nil {
				w.log.Error("Failed to collect self stats", "err", err)
				continue
			}

			stats := w.monitoring.GetLatest()
			w.log.Info("Heartbeat",
				"sessions", stats.ActiveSessions,
				"messages", stats.MessagesPosted,
				"private", stats.PrivateMessages,
				"delivered", stats.EventsDelivered,
				"notify_failures", stats.NotifyFailures,
				"alloc_mb", stats.AllocMemMb,
				"cpu_percent", cpu,
				"rss_bytes", rss,
			)
		}
	}
}

// selfStats retrieves memory and CPU figures for the given process.
func selfStats(p *process.Process) (uint64, float64, error) {
	memInfo, err := p.MemoryInfo()
	if err != nil {
		return 0, 0, err
	}
	cpuPercent, err := p.CPUPercent()
	if err != nil {
		return 0, 0, err
	}
	return memInfo.RSS, cpuPercent, nil
}
