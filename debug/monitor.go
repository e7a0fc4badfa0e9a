// Package debug provides runtime monitoring and diagnostics.
package debug

import (
	"context"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/drake/runehist/session"
)

// Enabled returns true if debug mode is active (RUNE_DEBUG=1).
func Enabled() bool {
	return os.Getenv("RUNE_DEBUG") == "1"
}

// StatsSource is anything that can report session statistics.
type StatsSource interface {
	Stats() session.Stats
}

// Monitor periodically logs session statistics when debug mode is enabled.
type Monitor struct {
	source   StatsSource
	interval time.Duration
	ctx      context.Context
	logger   *zap.Logger
}

// NewMonitor creates a new monitor for the given session.
// If debug mode is not enabled, returns nil.
func NewMonitor(ctx context.Context, s StatsSource, logger *zap.Logger) *Monitor {
	if !Enabled() {
		return nil
	}
	return newMonitor(ctx, s, logger, 5*time.Second)
}

func newMonitor(ctx context.Context, s StatsSource, logger *zap.Logger, interval time.Duration) *Monitor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Monitor{
		source:   s,
		interval: interval,
		ctx:      ctx,
		logger:   logger.Named("monitor"),
	}
}

// Start begins the monitoring loop in a goroutine.
func (m *Monitor) Start() {
	if m == nil {
		return
	}
	go m.run()
}

func (m *Monitor) run() {
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	m.logger.Debug("monitor started")

	for {
		select {
		case <-m.ctx.Done():
			m.logger.Debug("monitor stopped")
			return
		case <-ticker.C:
			m.logStats()
		}
	}
}

func (m *Monitor) logStats() {
	s := m.source.Stats()
	fields := []zap.Field{
		zap.Int64("inputs", s.Inputs),
		zap.Int64("invocations", s.Invocations),
		zap.Int("goroutines", s.Goroutines),
		zap.Int("history_entries", s.History.Entries),
		zap.Int("error_log", s.Errors.Records),
		zap.Int("queue_depth", s.Queue.Depth),
	}
	if s.Queue.Dropped > 0 {
		fields = append(fields, zap.Int64("queue_dropped", s.Queue.Dropped))
	}
	if s.History.WatermarkSet {
		fields = append(fields, zap.Uint64("watermark", s.History.Watermark))
	}
	m.logger.Info("session stats", fields...)
}
