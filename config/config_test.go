package config

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/drake/runehist/intercept"
)

var _ intercept.Settings = (*Live)(nil)

func writeConfig(t *testing.T, path, body string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
}

func TestDirHonorsXDG(t *testing.T) {
	if os.Getenv("APPDATA") != "" {
		t.Skip("windows layout")
	}
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg")
	assert.Equal(t, "/tmp/xdg/rune", Dir())
	assert.Equal(t, "/tmp/xdg/rune/rune.yaml", File())
	assert.Equal(t, "/tmp/xdg/rune/init.lua", InitFile())
}

func TestLoadMissingFileGivesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Defaults(), cfg)
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rune.yaml")
	writeConfig(t, path, `
history:
  max_entries: 5
capture:
  variable: last
  excluded_types: []
  capture_null: true
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 5, cfg.History.MaxEntries)
	assert.Equal(t, 1000, cfg.History.MaxItemsPerEntry, "unset keys keep defaults")
	assert.Equal(t, "last", cfg.Capture.Variable)
	assert.Empty(t, cfg.Capture.ExcludedTypes)
	assert.True(t, cfg.Capture.CaptureNull)
}

func TestLoadRejectsInvalid(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"zero entries", "history:\n  max_entries: 0\n"},
		{"negative items", "history:\n  max_items_per_entry: -1\n"},
		{"empty variable", "capture:\n  variable: \"\"\n"},
		{"bad yaml", "history: [\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "rune.yaml")
			writeConfig(t, path, tt.body)
			_, err := Load(path)
			assert.Error(t, err)
		})
	}
}

func TestLiveReadsCurrent(t *testing.T) {
	live := NewLive(Defaults())
	assert.Equal(t, "__", live.Variable())
	assert.Equal(t, []string{"lua.function"}, live.ExcludedTypes())

	cfg := Defaults()
	cfg.Capture.Variable = "out"
	cfg.Capture.MaxItems = 3
	live.Store(cfg)
	assert.Equal(t, "out", live.Variable())
	assert.Equal(t, 3, live.MaxItems())

	ex := live.ExcludedTypes()
	ex[0] = "changed"
	assert.Equal(t, "lua.function", live.Load().Capture.ExcludedTypes[0])
}

func TestWatchReloads(t *testing.T) {
	defer goleak.VerifyNone(t)

	dir := t.TempDir()
	path := filepath.Join(dir, "rune.yaml")
	writeConfig(t, path, "history:\n  max_entries: 10\n")

	live := NewLive(Defaults())
	var changes atomic.Int32
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- Watch(ctx, path, live, nil, func(*Config) { changes.Add(1) })
	}()

	// The watcher may not be registered yet, so keep rewriting.
	require.Eventually(t, func() bool {
		writeConfig(t, path, "history:\n  max_entries: 7\n")
		return live.Load().History.MaxEntries == 7
	}, 5*time.Second, 50*time.Millisecond)
	assert.Positive(t, changes.Load())

	writeConfig(t, path, "history:\n  max_entries: 0\n")
	time.Sleep(100 * time.Millisecond)
	assert.Equal(t, 7, live.Load().History.MaxEntries, "invalid file keeps previous config")

	cancel()
	require.NoError(t, <-done)
}
