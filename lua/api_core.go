package lua

import (
	"strings"

	glua "github.com/yuin/gopher-lua"

	"github.com/drake/runehist/object"
)

// registerCoreFuncs replaces print and error, and registers the stream
// writers under rune.*.
func (e *Engine) registerCoreFuncs() {
	// print(...): writes one string to the output stream
	e.L.SetGlobal("print", e.L.NewFunction(func(L *glua.LState) int {
		top := L.GetTop()
		parts := make([]string, 0, top)
		for i := 1; i <= top; i++ {
			parts = append(parts, L.ToStringMeta(L.Get(i)).String())
		}
		e.host.Emit(object.New(strings.Join(parts, "\t"), TypeString))
		return 0
	}))

	// error(value [, level]): as the base library, but remembers the value
	// so an uncaught raise can be told apart from a runtime fault.
	e.L.SetGlobal("error", e.L.NewFunction(func(L *glua.LState) int {
		obj := L.CheckAny(1)
		level := L.OptInt(2, 1)
		e.raised = obj
		L.Error(obj, level)
		return 0
	}))

	// rune.emit(...): writes each value to the output stream as is
	e.L.SetField(e.runeTable, "emit", e.L.NewFunction(func(L *glua.LState) int {
		for i := 1; i <= L.GetTop(); i++ {
			e.host.Emit(ToObject(L.Get(i)))
		}
		return 0
	}))

	e.L.SetField(e.runeTable, "warn", e.streamWriter(object.NewWarning))
	e.L.SetField(e.runeTable, "verbose", e.streamWriter(object.NewVerbose))
	e.L.SetField(e.runeTable, "debug", e.streamWriter(object.NewDebug))
	e.L.SetField(e.runeTable, "info", e.streamWriter(object.NewInformation))

	// rune.error(msg): writes a non-terminating error. Outside a run
	// (init.lua, :load) it is only shown; logging it would hand it to the
	// next line's entry.
	e.L.SetField(e.runeTable, "error", e.L.NewFunction(func(L *glua.LState) int {
		msg := L.CheckString(1)
		if !e.running {
			e.host.Emit(object.NewError(&object.ErrorRecord{
				Message: msg, Kind: object.KindWritten, OriginID: object.NoOrigin,
			}))
			return 0
		}
		rec := e.errors.Append(msg, object.KindWritten, e.current)
		e.written++
		e.host.Emit(object.NewError(rec))
		return 0
	}))

	// rune.stop(): stops the running chunk without reporting an error
	e.L.SetField(e.runeTable, "stop", e.L.NewFunction(func(L *glua.LState) int {
		L.Error(glua.LString(stopMessage), 0)
		return 0
	}))

	// rune.quit(): Exit the REPL
	e.L.SetField(e.runeTable, "quit", e.L.NewFunction(func(L *glua.LState) int {
		e.host.Quit()
		return 0
	}))

	e.L.SetField(e.runeTable, "session_id", glua.LString(e.host.SessionID()))
}

// streamWriter returns a function writing its message to one stream.
func (e *Engine) streamWriter(wrap func(string) *object.Object) *glua.LFunction {
	return e.L.NewFunction(func(L *glua.LState) int {
		e.host.Emit(wrap(L.CheckString(1)))
		return 0
	})
}
