package lua

import (
	glua "github.com/yuin/gopher-lua"

	"github.com/drake/runehist/object"
)

const (
	// SuccessVariable is the last-success indicator, read as `?`.
	SuccessVariable = "?"

	// ErrorVariable names the error log.
	ErrorVariable = "Error"
)

// Variables is the session variable store. `?` and `Error` are session
// state; every other name is a Lua global.
type Variables struct {
	engine  *Engine
	success bool
}

// NewVariables returns the variable store backed by e's globals.
func NewVariables(e *Engine) *Variables {
	return &Variables{engine: e, success: true}
}

// Get returns the value of name. Globals come back in their Go form.
func (v *Variables) Get(name string) (any, bool) {
	switch name {
	case SuccessVariable:
		return v.success, true
	case ErrorVariable:
		return v.engine.errors.Records(), true
	}
	if v.engine.L == nil {
		return nil, false
	}
	lv := v.engine.L.GetGlobal(name)
	if lv == glua.LNil {
		return nil, false
	}
	return ToObject(lv).Value, true
}

// Set assigns name. Objects and object lists are converted to Lua values.
func (v *Variables) Set(name string, value any) {
	switch name {
	case SuccessVariable:
		b, _ := value.(bool)
		v.success = b
		v.engine.L.SetGlobal(name, glua.LBool(b))
		return
	case ErrorVariable:
		return
	}
	v.engine.L.SetGlobal(name, ToLValue(v.engine.L, value))
}

// Success returns the last-success indicator.
func (v *Variables) Success() bool { return v.success }

// Global returns a global as an output object.
func (v *Variables) Global(name string) *object.Object {
	return ToObject(v.engine.L.GetGlobal(name))
}
