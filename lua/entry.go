package lua

import (
	"fmt"

	glua "github.com/yuin/gopher-lua"

	"github.com/drake/runehist/history"
)

const (
	luaEntryTypeName  = "history_entry"
	luaInputTypeName  = "history_input"
	luaObjectTypeName = "object"
)

// registerEntryType registers the history entry type with the Lua state.
// Call this once during engine initialization.
func registerEntryType(L *glua.LState) {
	mt := L.NewTypeMetatable(luaEntryTypeName)
	L.SetField(mt, "__index", L.SetFuncs(L.NewTable(), entryMethods))
	L.SetField(mt, "__tostring", L.NewFunction(entryToString))
}

// registerInputType registers the input record type.
func registerInputType(L *glua.LState) {
	mt := L.NewTypeMetatable(luaInputTypeName)
	L.SetField(mt, "__index", L.SetFuncs(L.NewTable(), map[string]glua.LGFunction{
		"id": func(L *glua.LState) int {
			L.Push(glua.LNumber(checkInput(L, 1).ID))
			return 1
		},
		"line": func(L *glua.LState) int {
			L.Push(glua.LString(checkInput(L, 1).Line))
			return 1
		},
	}))
	L.SetField(mt, "__tostring", L.NewFunction(func(L *glua.LState) int {
		L.Push(glua.LString(checkInput(L, 1).Line))
		return 1
	}))
}

// registerObjectType registers the wrapper used for Go values without a
// Lua equivalent.
func registerObjectType(L *glua.LState) {
	mt := L.NewTypeMetatable(luaObjectTypeName)
	L.SetField(mt, "__tostring", L.NewFunction(func(L *glua.LState) int {
		ud := L.CheckUserData(1)
		L.Push(glua.LString(fmt.Sprint(ud.Value)))
		return 1
	}))
}

// newEntry creates an entry userdata.
func newEntry(L *glua.LState, e *history.Entry) *glua.LUserData {
	ud := L.NewUserData()
	ud.Value = e
	L.SetMetatable(ud, L.GetTypeMetatable(luaEntryTypeName))
	return ud
}

func newInput(L *glua.LState, in *history.Input) *glua.LUserData {
	ud := L.NewUserData()
	ud.Value = in
	L.SetMetatable(ud, L.GetTypeMetatable(luaInputTypeName))
	return ud
}

func newObjectValue(L *glua.LState, v any) *glua.LUserData {
	ud := L.NewUserData()
	ud.Value = v
	L.SetMetatable(ud, L.GetTypeMetatable(luaObjectTypeName))
	return ud
}

// checkEntry retrieves a history entry from Lua userdata at the given stack position.
func checkEntry(L *glua.LState, n int) *history.Entry {
	ud := L.CheckUserData(n)
	if v, ok := ud.Value.(*history.Entry); ok {
		return v
	}
	L.ArgError(n, "history entry expected")
	return nil
}

func checkInput(L *glua.LState, n int) *history.Input {
	ud := L.CheckUserData(n)
	if v, ok := ud.Value.(*history.Input); ok {
		return v
	}
	L.ArgError(n, "input record expected")
	return nil
}

// entryMethods defines the methods available on history entries in Lua.
var entryMethods = map[string]glua.LGFunction{
	"id":        entryID,
	"output":    entryOutput,
	"count":     entryCount,
	"errors":    entryErrors,
	"sources":   entrySources,
	"succeeded": entrySucceeded,
}

// Usage: entry:id()
func entryID(L *glua.LState) int {
	L.Push(glua.LNumber(checkEntry(L, 1).HistoryID()))
	return 1
}

// entryOutput returns the buffered output as an array.
// Usage: entry:output()
func entryOutput(L *glua.LState) int {
	e := checkEntry(L, 1)
	L.Push(ToLValue(L, e.Output()))
	return 1
}

// entryCount returns the logical output count, dropped items included.
// Usage: entry:count()
func entryCount(L *glua.LState) int {
	L.Push(glua.LNumber(checkEntry(L, 1).OutputCount()))
	return 1
}

// entryErrors returns the error messages, oldest first.
// Usage: entry:errors()
func entryErrors(L *glua.LState) int {
	errs := checkEntry(L, 1).Errors()
	tbl := L.CreateTable(len(errs), 0)
	for i, o := range errs {
		tbl.RawSetInt(i+1, glua.LString(o.String()))
	}
	L.Push(tbl)
	return 1
}

// Usage: entry:sources()
func entrySources(L *glua.LState) int {
	srcs := checkEntry(L, 1).Sources()
	tbl := L.CreateTable(len(srcs), 0)
	for i, s := range srcs {
		tbl.RawSetInt(i+1, glua.LString(s.String()))
	}
	L.Push(tbl)
	return 1
}

// Usage: entry:succeeded()
func entrySucceeded(L *glua.LState) int {
	L.Push(glua.LBool(checkEntry(L, 1).Succeeded()))
	return 1
}

func entryToString(L *glua.LState) int {
	L.Push(glua.LString(checkEntry(L, 1).String()))
	return 1
}
