package lua

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	glua "github.com/yuin/gopher-lua"

	"github.com/drake/runehist/history"
	"github.com/drake/runehist/object"
)

// Lua type names reported for converted values. Exclusion lists match
// against these.
const (
	TypeNil      = "lua.nil"
	TypeBoolean  = "lua.boolean"
	TypeNumber   = "lua.number"
	TypeString   = "lua.string"
	TypeTable    = "lua.table"
	TypeFunction = "lua.function"
	TypeUserData = "lua.userdata"
	TypeThread   = "lua.thread"
	TypeChannel  = "lua.channel"
)

// ToObject wraps a Lua value as an output object. Numbers, booleans and
// strings become Go values; userdata exposes its Go value.
func ToObject(lv glua.LValue) *object.Object {
	switch v := lv.(type) {
	case nil:
		return object.New(nil)
	case glua.LBool:
		return object.New(bool(v), TypeBoolean)
	case glua.LNumber:
		return object.New(float64(v), TypeNumber)
	case glua.LString:
		return object.New(string(v), TypeString)
	case *glua.LTable:
		return object.New(v, TypeTable)
	case *glua.LFunction:
		return object.New(v, TypeFunction)
	case *glua.LUserData:
		if v.Value == nil {
			return object.New(v, TypeUserData)
		}
		o := object.New(v.Value)
		o.TypeNames = append(o.TypeNames, TypeUserData)
		return o
	case *glua.LState:
		return object.New(v, TypeThread)
	case glua.LChannel:
		return object.New(v, TypeChannel)
	}
	if lv == glua.LNil {
		return object.New(nil)
	}
	return object.New(lv)
}

// ToLValue converts a Go value, typically one produced by ToObject or a
// captured object list, back into a Lua value.
func ToLValue(L *glua.LState, v any) glua.LValue {
	switch v := v.(type) {
	case nil:
		return glua.LNil
	case glua.LValue:
		return v
	case *object.Object:
		if v == nil {
			return glua.LNil
		}
		return ToLValue(L, v.Value)
	case []*object.Object:
		tbl := L.CreateTable(len(v), 0)
		for i, o := range v {
			tbl.RawSetInt(i+1, ToLValue(L, o))
		}
		return tbl
	case bool:
		return glua.LBool(v)
	case float64:
		return glua.LNumber(v)
	case int:
		return glua.LNumber(v)
	case int64:
		return glua.LNumber(v)
	case string:
		return glua.LString(v)
	case *history.Entry:
		return newEntry(L, v)
	case *history.Input:
		return newInput(L, v)
	}
	return newObjectValue(L, v)
}

// FormatObject renders an output object for display.
func FormatObject(o *object.Object) string {
	if o.IsNull() {
		return "nil"
	}
	if lv, ok := o.Value.(glua.LValue); ok {
		return FormatValue(lv)
	}
	switch v := o.Value.(type) {
	case float64:
		return formatNumber(v)
	case string:
		return v
	}
	return o.String()
}

// FormatValue renders a Lua value for display. Tables are expanded two
// levels deep.
func FormatValue(lv glua.LValue) string {
	var b strings.Builder
	formatValue(&b, lv, 2)
	return b.String()
}

func formatValue(b *strings.Builder, lv glua.LValue, depth int) {
	switch v := lv.(type) {
	case glua.LNumber:
		b.WriteString(formatNumber(float64(v)))
	case *glua.LTable:
		if depth == 0 {
			b.WriteString("{...}")
			return
		}
		formatTable(b, v, depth)
	case *glua.LUserData:
		if s, ok := v.Value.(fmt.Stringer); ok {
			b.WriteString(s.String())
			return
		}
		b.WriteString(v.String())
	default:
		b.WriteString(lv.String())
	}
}

func formatTable(b *strings.Builder, t *glua.LTable, depth int) {
	n := t.Len()
	var keys []string
	fields := make(map[string]glua.LValue)
	t.ForEach(func(k, v glua.LValue) {
		if num, ok := k.(glua.LNumber); ok {
			if i := int(num); float64(i) == float64(num) && i >= 1 && i <= n {
				return
			}
		}
		key := fieldKey(k)
		keys = append(keys, key)
		fields[key] = v
	})
	sort.Strings(keys)

	b.WriteString("{")
	first := true
	sep := func() {
		if !first {
			b.WriteString(", ")
		}
		first = false
	}
	for i := 1; i <= n; i++ {
		sep()
		formatQuoted(b, t.RawGetInt(i), depth-1)
	}
	for _, k := range keys {
		sep()
		b.WriteString(k)
		b.WriteString(" = ")
		formatQuoted(b, fields[k], depth-1)
	}
	b.WriteString("}")
}

func formatQuoted(b *strings.Builder, lv glua.LValue, depth int) {
	if s, ok := lv.(glua.LString); ok {
		b.WriteString(strconv.Quote(string(s)))
		return
	}
	formatValue(b, lv, depth)
}

func fieldKey(k glua.LValue) string {
	if s, ok := k.(glua.LString); ok && isIdent(string(s)) {
		return string(s)
	}
	var b strings.Builder
	b.WriteString("[")
	formatQuoted(&b, k, 0)
	b.WriteString("]")
	return b.String()
}

func formatNumber(f float64) string {
	return strconv.FormatFloat(f, 'g', 14, 64)
}
