package object

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type wrappedError struct{ rec *ErrorRecord }

func (w wrappedError) ErrorRecord() *ErrorRecord { return w.rec }

func TestClassify(t *testing.T) {
	rec := &ErrorRecord{Message: "boom", OriginID: 3}

	tests := []struct {
		name       string
		obj        *Object
		stream     Stream
		standard   bool
		wantRecord bool
	}{
		{"untagged value", New("hello"), StreamOutput, true, false},
		{"nil object", nil, StreamOutput, true, false},
		{"error record", NewError(rec), StreamError, false, true},
		{"contained error record", Tagged(wrappedError{rec}, TagError), StreamError, false, true},
		{"error tag without record", Tagged("text", TagError), StreamOutput, false, false},
		{"untagged error record", New(rec), StreamOutput, true, false},
		{"warning", NewWarning("careful"), StreamWarning, false, false},
		{"verbose", NewVerbose("chatty"), StreamVerbose, false, false},
		{"debug", NewDebug("trace"), StreamDebug, false, false},
		{"information", NewInformation("fyi"), StreamInformation, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Classify(tt.obj)
			assert.Equal(t, tt.stream, c.Stream)
			assert.Equal(t, tt.standard, c.IsStandardOutput())
			if tt.wantRecord {
				require.NotNil(t, c.Record)
				assert.Equal(t, "boom", c.Record.Message)
			} else {
				assert.Nil(t, c.Record)
			}
		})
	}
}

func TestStripRemovesAllTags(t *testing.T) {
	o := NewWarning("x").Tag(TagVerbose).Tag(TagInformation)
	require.True(t, o.HasTag(TagWarning))

	assert.True(t, Strip(o))
	assert.Zero(t, o.Tags())
	assert.Equal(t, StreamOutput, Classify(o).Stream)
	assert.False(t, Strip(o), "second strip finds nothing")
}

func TestIsValueType(t *testing.T) {
	assert.True(t, New(3.5).IsValueType())
	assert.True(t, New(true).IsValueType())
	assert.True(t, New(int64(7)).IsValueType())
	assert.False(t, New("str").IsValueType())
	assert.False(t, New(&WarningRecord{}).IsValueType())
	assert.False(t, New(nil).IsValueType())
	assert.False(t, New([]int{1}).IsValueType())
}

type fakeHistory struct{ id int64 }

func (f *fakeHistory) HistoryID() int64 { return f.id }

func TestIsHistoryRecord(t *testing.T) {
	assert.True(t, IsHistoryRecord(New(&fakeHistory{id: 1})))
	assert.False(t, IsHistoryRecord(New("plain")))
	assert.False(t, IsHistoryRecord(nil))
}

func TestDefaultTypeNames(t *testing.T) {
	assert.Equal(t, []string{"string"}, New("x").TypeNames)
	assert.Equal(t, []string{"github.com/drake/runehist/object.WarningRecord"}, New(&WarningRecord{}).TypeNames)
	assert.Equal(t, []string{"custom"}, New(1, "custom").TypeNames)
	assert.Nil(t, New(nil).TypeNames)
}
