// Package object models the values that flow through the output pipeline.
//
// An Object wraps an arbitrary value together with its logical type names
// and the routing tags a producer attached to it. Routing tags say which
// stream the object was written to; the interceptor reads them once and
// strips them so later consumers never see stale routing metadata.
package object

import (
	"fmt"
	"reflect"
	"slices"
)

// Tag is a routing tag attached to an object by the stream that wrote it.
type Tag uint8

const (
	TagError Tag = 1 << iota
	TagWarning
	TagVerbose
	TagDebug
	TagInformation
)

// allTags lists tags in classification precedence order.
var allTags = []Tag{TagError, TagWarning, TagVerbose, TagDebug, TagInformation}

func (t Tag) String() string {
	switch t {
	case TagError:
		return "error"
	case TagWarning:
		return "warning"
	case TagVerbose:
		return "verbose"
	case TagDebug:
		return "debug"
	case TagInformation:
		return "information"
	}
	return fmt.Sprintf("tag(%d)", uint8(t))
}

// Object is one item emitted by an invocation.
type Object struct {
	Value     any
	TypeNames []string

	tags Tag
}

// New wraps v. Type names are derived from the Go type unless given.
func New(v any, typeNames ...string) *Object {
	if len(typeNames) == 0 {
		typeNames = defaultTypeNames(v)
	}
	return &Object{Value: v, TypeNames: typeNames}
}

// Tagged wraps v and attaches a routing tag.
func Tagged(v any, tag Tag, typeNames ...string) *Object {
	o := New(v, typeNames...)
	o.tags = tag
	return o
}

// Tag attaches a routing tag.
func (o *Object) Tag(t Tag) *Object {
	o.tags |= t
	return o
}

// Clone returns a shallow copy of o, tags included.
func (o *Object) Clone() *Object {
	cp := *o
	cp.TypeNames = slices.Clone(o.TypeNames)
	return &cp
}

// HasTag reports whether t is attached.
func (o *Object) HasTag(t Tag) bool {
	return o != nil && o.tags&t != 0
}

// Tags returns the attached routing tags.
func (o *Object) Tags() Tag {
	if o == nil {
		return 0
	}
	return o.tags
}

// IsNull reports whether o is a null placeholder.
func (o *Object) IsNull() bool {
	return o == nil || o.Value == nil
}

// IsValueType reports whether the wrapped value is a primitive value type.
// Strings are reference data and are not value types.
func (o *Object) IsValueType() bool {
	if o.IsNull() {
		return false
	}
	switch reflect.TypeOf(o.Value).Kind() {
	case reflect.Bool,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64, reflect.Complex64, reflect.Complex128:
		return true
	}
	return false
}

func (o *Object) String() string {
	if o.IsNull() {
		return ""
	}
	if s, ok := o.Value.(fmt.Stringer); ok {
		return s.String()
	}
	return fmt.Sprint(o.Value)
}

func defaultTypeNames(v any) []string {
	if v == nil {
		return nil
	}
	t := reflect.TypeOf(v)
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.PkgPath() == "" {
		return []string{t.String()}
	}
	return []string{t.PkgPath() + "." + t.Name()}
}

// HistoryRecord is implemented by values that are themselves history
// records. Such objects never enter extended history.
type HistoryRecord interface {
	HistoryID() int64
}

// IsHistoryRecord reports whether o wraps a HistoryRecord.
func IsHistoryRecord(o *Object) bool {
	if o.IsNull() {
		return false
	}
	_, ok := o.Value.(HistoryRecord)
	return ok
}
