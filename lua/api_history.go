package lua

import glua "github.com/yuin/gopher-lua"

// registerHistoryFuncs registers the rune.history API.
func (e *Engine) registerHistoryFuncs() {
	hist := e.L.NewTable()
	e.L.SetField(e.runeTable, "history", hist)

	// rune.history.get(id) - Returns the entry for an invocation, or nil
	e.L.SetField(hist, "get", e.L.NewFunction(func(L *glua.LState) int {
		id := L.CheckInt64(1)
		entry, ok := e.host.Entry(id)
		if !ok {
			L.Push(glua.LNil)
			return 1
		}
		L.Push(newEntry(L, entry))
		return 1
	}))

	// rune.history.last() - Returns the newest entry, or nil
	e.L.SetField(hist, "last", e.L.NewFunction(func(L *glua.LState) int {
		entry, ok := e.host.LastEntry()
		if !ok {
			L.Push(glua.LNil)
			return 1
		}
		L.Push(newEntry(L, entry))
		return 1
	}))

	// rune.history.list() - Returns the stored ids, oldest first
	e.L.SetField(hist, "list", e.L.NewFunction(func(L *glua.LState) int {
		ids := e.host.EntryIDs()
		tbl := L.CreateTable(len(ids), 0)
		for i, id := range ids {
			tbl.RawSetInt(i+1, glua.LNumber(id))
		}
		L.Push(tbl)
		return 1
	}))

	// rune.history.watermark() - Returns the error watermark hash, or nil
	e.L.SetField(hist, "watermark", e.L.NewFunction(func(L *glua.LState) int {
		hash, ok := e.host.Watermark()
		if !ok {
			L.Push(glua.LNil)
			return 1
		}
		L.Push(glua.LNumber(hash))
		return 1
	}))

	// rune.history.inputs() - Returns array of input history strings
	e.L.SetField(hist, "inputs", e.L.NewFunction(func(L *glua.LState) int {
		inputs := e.host.Inputs()
		tbl := L.CreateTable(len(inputs), 0)
		for i, in := range inputs {
			tbl.RawSetInt(i+1, glua.LString(in.Line))
		}
		L.Push(tbl)
		return 1
	}))

	// rune.history.input(id) - Returns the input record for an invocation
	e.L.SetField(hist, "input", e.L.NewFunction(func(L *glua.LState) int {
		id := L.CheckInt64(1)
		for _, in := range e.host.Inputs() {
			if in.ID == id {
				L.Push(newInput(L, in))
				return 1
			}
		}
		L.Push(glua.LNil)
		return 1
	}))
}
