package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/drake/runehist/config"
)

func runCmd(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	var out bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestExplain(t *testing.T) {
	tests := []struct {
		code    string
		form    string
		verdict string
	}{
		{"x = 1", "statements", "preserve"},
		{"print(1)", "expression", "overwrite"},
		{"print(__)", "expression", "preserve"},
		{"for i = 1, 3 do print(i) end", "statements", "overwrite"},
	}
	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			out, err := runCmd(t, "explain", tt.code)
			require.NoError(t, err)
			assert.Contains(t, out, "form:       "+tt.form)
			assert.Contains(t, out, "variable:   __")
			assert.Contains(t, out, "verdict:    "+tt.verdict)
		})
	}
}

func TestExplainUsesConfiguredVariable(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "rune.yaml")
	require.NoError(t, os.WriteFile(path, []byte("capture:\n  variable: last\n"), 0o644))

	out, err := runCmd(t, "--config", path, "explain", "print(last)")
	require.NoError(t, err)
	assert.Contains(t, out, "variable:   last")
	assert.Contains(t, out, "verdict:    preserve")
}

func TestExplainRejectsBadCode(t *testing.T) {
	_, err := runCmd(t, "explain", "x = = 1")
	assert.Error(t, err)
}

func TestNewLoggerWritesFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), "logs", "rune.log")
	logger, err := newLogger(config.LoggingConfig{Level: "warn", File: file}, false)
	require.NoError(t, err)
	logger.Warn("hello")
	_ = logger.Sync()

	data, err := os.ReadFile(file)
	require.NoError(t, err)
	assert.Contains(t, string(data), "hello")

	_, err = newLogger(config.LoggingConfig{Level: "loud"}, false)
	assert.Error(t, err)
}
