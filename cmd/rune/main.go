package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/drake/runehist/config"
	"github.com/drake/runehist/debug"
	"github.com/drake/runehist/session"
	"github.com/drake/runehist/ui"
	"github.com/drake/runehist/ui/style"
)

// app holds state shared by the commands, populated in PersistentPreRunE.
type app struct {
	configPath string
	simpleUI   bool
	debugLog   bool

	settings *config.Live
	logger   *zap.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:          "rune [script.lua...]",
		Short:        "Lua REPL with extended output history",
		Args:         cobra.ArbitraryArgs,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(a.configPath)
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}
			a.settings = config.NewLive(cfg)

			a.logger, err = newLogger(cfg.Logging, a.debugLog)
			if err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
		RunE: a.runREPL,
	}

	root.PersistentFlags().StringVar(&a.configPath, "config", config.File(), "path to rune.yaml")
	root.PersistentFlags().BoolVar(&a.debugLog, "debug", false, "log at debug level")
	root.Flags().BoolVar(&a.simpleUI, "simple", false, "use simple console UI instead of TUI")

	root.AddCommand(newExplainCmd(a))
	return root
}

// newLogger builds the zap logger. Logs go to a file so the REPL display
// stays clean.
func newLogger(cfg config.LoggingConfig, debugLog bool) (*zap.Logger, error) {
	zcfg := zap.NewProductionConfig()
	if cfg.Level != "" {
		level, err := zap.ParseAtomicLevel(cfg.Level)
		if err != nil {
			return nil, err
		}
		zcfg.Level = level
	}
	if debugLog {
		zcfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}

	file := cfg.File
	if file == "" {
		file = config.LogFile()
	}
	if err := os.MkdirAll(filepath.Dir(file), 0o755); err != nil {
		return nil, err
	}
	zcfg.OutputPaths = []string{file}
	zcfg.ErrorOutputPaths = []string{file}
	return zcfg.Build()
}

func (a *app) runREPL(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	mode := ui.DetectMode(a.simpleUI)
	styles := style.DefaultStyles()
	display := ui.New(mode, styles)

	sessionID := uuid.NewString()
	logger := a.logger.With(zap.String("session", sessionID))

	sess, err := session.New(display, session.Config{
		Settings:    a.settings,
		InitFile:    config.InitFile(),
		UserScripts: args,
		SessionID:   sessionID,
		Styles:      styles,
		Logger:      logger,
	})
	if err != nil {
		return err
	}

	go func() {
		if err := config.Watch(ctx, a.configPath, a.settings, logger, sess.ConfigChanged); err != nil {
			logger.Debug("config watch disabled", zap.Error(err))
		}
	}()
	debug.NewMonitor(ctx, sess, logger).Start()

	logger.Info("session started", zap.Stringer("mode", mode), zap.Int("scripts", len(args)))
	return sess.Run()
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
