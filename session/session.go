package session

import (
	"fmt"
	"os"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/drake/runehist/config"
	"github.com/drake/runehist/event"
	"github.com/drake/runehist/history"
	"github.com/drake/runehist/intercept"
	"github.com/drake/runehist/internal/buffer"
	"github.com/drake/runehist/lua"
	"github.com/drake/runehist/object"
	"github.com/drake/runehist/render"
	"github.com/drake/runehist/ui"
	"github.com/drake/runehist/ui/style"
)

// Ensure Session implements lua.Host at compile time
var _ lua.Host = (*Session)(nil)

const (
	Prompt             = "rune> "
	ContinuationPrompt = "   >> "

	inputHistoryLimit = 1000
	eventQueueLimit   = 50000
)

// Config holds session configuration
type Config struct {
	Settings    *config.Live // Current rune.yaml, swapped on reload
	InitFile    string       // Path to init.lua, skipped if missing
	UserScripts []string     // CLI script arguments
	SessionID   string
	Styles      style.Styles
	Logger      *zap.Logger
}

// Session orchestrates the REPL: it owns the Lua VM and runs every input
// line as one intercepted invocation.
type Session struct {
	// Components
	ui       ui.UI
	engine   *lua.Engine
	vars     *lua.Variables
	errlog   *lua.ErrorLog
	renderer *render.Console
	ic       *intercept.Interceptor
	history  *history.Manager
	inputs   *HistoryManager
	logger   *zap.Logger

	// Event queue into the session loop
	events *buffer.Queue[event.Event]

	// Invocation state, owned by the session goroutine
	lastID    int64
	pending   []string
	collected []*object.Object
	tee       string

	invocations atomic.Int64
	inputCount  atomic.Int64

	// Config (retained for reload)
	config Config

	// Shutdown coordination
	done      chan struct{}
	loopDone  chan struct{}
	closeOnce sync.Once
	sendMu    sync.RWMutex
	closed    bool
}

// New creates a new Session. It is passive - no goroutines start here
// except the event queue.
func New(display ui.UI, cfg Config) (*Session, error) {
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	if cfg.Settings == nil {
		cfg.Settings = config.NewLive(config.Defaults())
	}
	settings := cfg.Settings.Load()

	hist, err := history.NewManager(settings.History.MaxEntries, cfg.Logger.Named("history"))
	if err != nil {
		return nil, fmt.Errorf("history: %w", err)
	}

	s := &Session{
		ui:       display,
		errlog:   lua.NewErrorLog(lua.DefaultErrorLogSize),
		history:  hist,
		inputs:   NewHistoryManager(inputHistoryLimit),
		logger:   cfg.Logger,
		config:   cfg,
		done:     make(chan struct{}),
		loopDone: make(chan struct{}),
	}
	s.events = buffer.NewQueue[event.Event](100, eventQueueLimit, cfg.Logger.Named("events"))

	s.engine = lua.NewEngine(s, s.errlog, cfg.Logger.Named("lua"))
	s.renderer = render.NewConsole(display, lua.FormatObject, cfg.Styles)
	return s, nil
}

// Boot initializes the VM and loads init.lua and the CLI scripts. Script
// failures are shown but do not stop the session.
func (s *Session) Boot() error {
	if err := s.engine.Init(); err != nil {
		return err
	}
	s.vars = lua.NewVariables(s.engine)
	s.ic = intercept.New(intercept.Options{
		Renderer: s.renderer,
		Stack:    s.engine,
		Vars:     s.vars,
		ErrorLog: s.errlog,
		Settings: s.config.Settings,
		History:  s.history,
		Logger:   s.logger.Named("intercept"),
	})

	if s.config.InitFile != "" {
		if _, err := os.Stat(s.config.InitFile); err == nil {
			s.load(s.config.InitFile)
		}
	}
	for _, path := range s.config.UserScripts {
		s.load(path)
	}
	s.ui.SetPrompt(Prompt)
	return nil
}

// Run boots the session and blocks until the UI exits.
func (s *Session) Run() error {
	if err := s.Boot(); err != nil {
		s.printError(fmt.Sprintf("[System] Boot Error: %v", err))
	}

	// Start event loop
	go s.processEvents()

	// Block on UI
	err := s.ui.Run()
	// Ensure shutdown of goroutines/resources when UI exits
	s.shutdown()
	<-s.loopDone
	s.engine.Close()
	return err
}

// processEvents is the main event loop. It is the only goroutine that
// touches the Lua state.
func (s *Session) processEvents() {
	defer close(s.loopDone)
	// Drain so the queue goroutine can exit after shutdown closes it.
	defer func() {
		for range s.events.Out() {
		}
	}()

	for {
		select {
		case <-s.done:
			return
		case ev, ok := <-s.events.Out():
			if !ok {
				return
			}
			s.handleEvent(ev)
		case line, ok := <-s.ui.Input():
			if !ok {
				s.shutdown()
				return
			}
			s.handleEvent(event.Event{Type: event.UserInput, Payload: line})
		}
	}
}

// handleEvent executes a single event on the session loop.
func (s *Session) handleEvent(ev event.Event) {
	switch ev.Type {
	case event.UserInput:
		s.Execute(ev.Payload)

	case event.AsyncResult:
		if ev.Callback != nil {
			ev.Callback()
		}

	case event.SystemControl:
		switch ev.Control.Action {
		case event.ActionQuit:
			s.shutdown()
		case event.ActionCancel:
			s.cancelPending()
		}
	}
}

// post enqueues an event for the session loop. Events posted after
// shutdown are dropped.
func (s *Session) post(ev event.Event) {
	s.sendMu.RLock()
	defer s.sendMu.RUnlock()
	if s.closed {
		return
	}
	s.events.In() <- ev
}

// ConfigChanged applies a reloaded configuration on the session loop.
// Capture settings are read live; the store capacity is resized here.
func (s *Session) ConfigChanged(cfg *config.Config) {
	s.post(event.Event{
		Type: event.AsyncResult,
		Callback: func() {
			if err := s.history.Resize(cfg.History.MaxEntries); err != nil {
				s.logger.Warn("history resize failed", zap.Error(err))
			}
		},
	})
}

// Cancel drops pending continuation lines.
func (s *Session) Cancel() {
	s.post(event.Event{Type: event.SystemControl, Control: event.ControlOp{Action: event.ActionCancel}})
}

// load runs a script file outside any invocation.
func (s *Session) load(path string) {
	if err := s.engine.DoFile(path); err != nil {
		s.printError(fmt.Sprintf("Load Failed (%s): %v", path, err))
	}
}

func (s *Session) printError(text string) {
	s.ui.Print(s.config.Styles.Error.Render(text))
}

// shutdown stops the event loop and asks the UI to exit.
func (s *Session) shutdown() {
	s.closeOnce.Do(func() {
		close(s.done)
		s.sendMu.Lock()
		s.closed = true
		s.events.Close()
		s.sendMu.Unlock()
		s.ui.Quit()
	})
}
