package retention

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/drake/runehist/object"
)

func TestSelectEmpty(t *testing.T) {
	assert.Equal(t, Assignment{Skip: true}, Select(nil, Options{}))
	assert.Equal(t, Assignment{Value: nil}, Select(nil, Options{CaptureNull: true}))
}

func TestSelectNullPlaceholder(t *testing.T) {
	items := []*object.Object{object.New(nil)}
	assert.True(t, Select(items, Options{}).Skip)

	got := Select(items, Options{CaptureNull: true})
	assert.False(t, got.Skip)
	assert.Nil(t, got.Value)
}

func TestSelectSingle(t *testing.T) {
	item := object.New("table")

	got := Select([]*object.Object{item}, Options{})
	require.False(t, got.Skip)
	assert.Same(t, item, got.Value)

	got = Select([]*object.Object{item}, Options{WrapSingle: true})
	require.False(t, got.Skip)
	assert.Equal(t, []*object.Object{item}, got.Value)
}

func TestSelectValueTypes(t *testing.T) {
	n := object.New(42.0)
	assert.True(t, Select([]*object.Object{n}, Options{}).Skip)

	got := Select([]*object.Object{n}, Options{CaptureValueTypes: true})
	assert.Same(t, n, got.Value)
}

func TestSelectMany(t *testing.T) {
	items := []*object.Object{object.New(1.0), object.New("b")}
	got := Select(items, Options{})
	require.False(t, got.Skip)

	many, ok := got.Value.([]*object.Object)
	require.True(t, ok)
	assert.Equal(t, items, many)

	// The result does not alias the capture buffer.
	items[0] = object.New("changed")
	assert.Equal(t, 1.0, many[0].Value)
}
