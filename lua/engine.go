package lua

import (
	"os"
	"path/filepath"

	glua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"

	"github.com/drake/runehist/object"
)

// Engine wraps gopher-lua and manages the VM lifecycle.
// It knows how to parse and run Lua code and expose APIs. It does NOT know
// about invocations, history capture or rendering.
type Engine struct {
	L *glua.LState

	// Cached table reference
	runeTable *glua.LTable

	// Host interface for communication with the rest of the system
	host Host

	errors *ErrorLog
	logger *zap.Logger

	// Per-run state, reset by Run. current is NoOrigin between runs.
	running bool
	current int64
	raised  glua.LValue
	written int
}

// NewEngine creates an Engine with the given Host. Uncaught and written
// errors are appended to errors.
func NewEngine(host Host, errors *ErrorLog, logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{
		host:    host,
		errors:  errors,
		logger:  logger,
		current: object.NoOrigin,
	}
}

// --- Lifecycle ---

// Init initializes (or re-initializes) the Lua VM with fresh state.
// It registers the API but does NOT load any scripts - that's the caller's job.
func (e *Engine) Init() error {
	if e.L != nil {
		e.L.Close()
	}
	e.L = glua.NewState()

	registerEntryType(e.L)
	registerInputType(e.L)
	registerObjectType(e.L)

	e.registerAPIs()
	return nil
}

// Close cleans up the Lua state.
func (e *Engine) Close() {
	if e.L != nil {
		e.L.Close()
		e.L = nil
	}
}

// Errors returns the engine's error log.
func (e *Engine) Errors() *ErrorLog { return e.errors }

// DoFile executes a Lua file from the filesystem outside of any
// invocation. It temporarily adjusts package.path to allow local requires.
func (e *Engine) DoFile(path string) error {
	path = expandTilde(path)

	absPath, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	dir := filepath.Dir(absPath)

	// Temporarily prepend script's directory to package.path
	pkg := e.L.GetGlobal("package").(*glua.LTable)
	oldPath := e.L.GetField(pkg, "path").String()
	newPath := dir + "/?.lua;" + oldPath
	e.L.SetField(pkg, "path", glua.LString(newPath))

	err = e.L.DoFile(absPath)

	// Restore original path
	e.L.SetField(pkg, "path", glua.LString(oldPath))

	if err != nil {
		e.logger.Warn("script failed", zap.String("path", absPath), zap.Error(err))
	}
	return err
}

// Caller returns the source location of the nearest Lua frame calling
// into Go. Outside a running chunk there is none.
func (e *Engine) Caller() (object.SourceLocation, bool) {
	if e.L == nil {
		return object.SourceLocation{}, false
	}
	dbg, ok := e.L.GetStack(1)
	if !ok {
		return object.SourceLocation{}, false
	}
	if _, err := e.L.GetInfo("Sl", dbg, glua.LNil); err != nil {
		return object.SourceLocation{}, false
	}
	if dbg.CurrentLine < 0 {
		return object.SourceLocation{}, false
	}
	return object.SourceLocation{Source: dbg.Source, Line: dbg.CurrentLine}, true
}

// --- API Registration ---

func (e *Engine) registerAPIs() {
	e.runeTable = e.L.NewTable()
	e.L.SetGlobal("rune", e.runeTable)

	e.registerCoreFuncs()
	e.registerHistoryFuncs()
}

// --- Private Helpers ---

// expandTilde expands ~ to home directory.
func expandTilde(path string) string {
	if len(path) > 0 && path[0] == '~' {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[1:])
		}
	}
	return path
}
