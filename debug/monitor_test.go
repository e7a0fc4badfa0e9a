package debug

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/drake/runehist/session"
)

type fixedStats session.Stats

func (f fixedStats) Stats() session.Stats { return session.Stats(f) }

func TestNewMonitorDisabled(t *testing.T) {
	t.Setenv("RUNE_DEBUG", "")
	assert.Nil(t, NewMonitor(context.Background(), fixedStats{}, nil))

	var m *Monitor
	m.Start() // nil monitor is a no-op
}

func TestMonitorLogsStats(t *testing.T) {
	defer goleak.VerifyNone(t)

	core, logs := observer.New(zap.DebugLevel)
	ctx, cancel := context.WithCancel(context.Background())
	src := fixedStats{
		Invocations: 3,
		History:     session.HistoryStats{Entries: 2, Watermark: 9, WatermarkSet: true},
		Queue:       session.QueueStats{Depth: 1, Dropped: 4},
	}

	m := newMonitor(ctx, src, zap.New(core), 10*time.Millisecond)
	m.Start()

	require.Eventually(t, func() bool {
		return logs.FilterMessage("session stats").Len() > 0
	}, time.Second, 5*time.Millisecond)
	cancel()
	require.Eventually(t, func() bool {
		return logs.FilterMessage("monitor stopped").Len() == 1
	}, time.Second, 5*time.Millisecond)

	fields := logs.FilterMessage("session stats").All()[0].ContextMap()
	assert.Equal(t, int64(3), fields["invocations"])
	assert.Equal(t, int64(2), fields["history_entries"])
	assert.Equal(t, uint64(9), fields["watermark"])
	assert.Equal(t, int64(4), fields["queue_dropped"])
}
