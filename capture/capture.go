// Package capture decides which emitted objects feed the last-output
// variable and buffers them for one invocation.
package capture

import (
	"strings"

	"github.com/drake/runehist/internal/buffer"
	"github.com/drake/runehist/object"
)

// Settings is the read-only exclusion configuration consulted at the start
// of each invocation.
type Settings interface {
	ExcludedTypes() []string
	MaxItems() int
	CaptureValueTypes() bool
	CaptureNull() bool
	WrapperPrefixes() []string
}

// Static is a fixed Settings value.
type Static struct {
	Excluded   []string
	Max        int
	ValueTypes bool
	Null       bool
	Prefixes   []string
}

func (s Static) ExcludedTypes() []string   { return s.Excluded }
func (s Static) MaxItems() int             { return s.Max }
func (s Static) CaptureValueTypes() bool   { return s.ValueTypes }
func (s Static) CaptureNull() bool         { return s.Null }
func (s Static) WrapperPrefixes() []string { return s.Prefixes }

// Filter matches objects against a normalized set of excluded type names.
type Filter struct {
	excluded map[string]struct{}
	prefixes []string
}

// NewFilter builds a filter from the current settings. Type names are
// compared case-insensitively after wrapper prefixes are removed.
func NewFilter(s Settings) *Filter {
	f := &Filter{
		excluded: make(map[string]struct{}),
		prefixes: s.WrapperPrefixes(),
	}
	for _, name := range s.ExcludedTypes() {
		if name = f.Normalize(name); name != "" {
			f.excluded[name] = struct{}{}
		}
	}
	return f
}

// Normalize strips any leading wrapper prefixes and folds case.
func (f *Filter) Normalize(name string) string {
	name = strings.TrimSpace(name)
	for stripped := true; stripped; {
		stripped = false
		for _, p := range f.prefixes {
			if p != "" && len(name) > len(p) && strings.EqualFold(name[:len(p)], p) {
				name = name[len(p):]
				stripped = true
			}
		}
	}
	return strings.ToLower(name)
}

// Excluded reports whether any of o's type names is excluded.
func (f *Filter) Excluded(o *object.Object) bool {
	if len(f.excluded) == 0 || o == nil {
		return false
	}
	for _, name := range o.TypeNames {
		if _, ok := f.excluded[f.Normalize(name)]; ok {
			return true
		}
	}
	return false
}

// Buffer holds the objects captured during one invocation.
type Buffer struct {
	filter *Filter
	items  *buffer.Bounded[*object.Object]
}

// NewBuffer creates a capture buffer configured from s.
func NewBuffer(s Settings) *Buffer {
	return &Buffer{
		filter: NewFilter(s),
		items:  buffer.NewBounded[*object.Object](s.MaxItems()),
	}
}

// Offer stores o unless its type is excluded or the buffer is full. It
// reports whether o was stored.
func (b *Buffer) Offer(o *object.Object) bool {
	if b.filter.Excluded(o) {
		return false
	}
	return b.items.Add(o)
}

// Items returns the captured objects in emission order.
func (b *Buffer) Items() []*object.Object { return b.items.Items() }

// Len returns the number of captured objects.
func (b *Buffer) Len() int { return b.items.Len() }

// Dropped returns how many objects were refused for capacity.
func (b *Buffer) Dropped() int { return b.items.Dropped() }
