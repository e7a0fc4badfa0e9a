package intercept

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/drake/runehist/capture"
	"github.com/drake/runehist/history"
	"github.com/drake/runehist/object"
	"github.com/drake/runehist/syntax"
)

type harness struct {
	ic       *Interceptor
	renderer *MockRenderer
	stack    *MockStack
	vars     *MockVars
	log      *MockErrorLog
	history  *history.Manager
}

func defaultSettings() MockSettings {
	return MockSettings{
		Static: capture.Static{
			Excluded: []string{"lua.function"},
			Max:      100,
			Prefixes: []string{"Deserialized.", "Selected."},
		},
		Var:      "__",
		PerEntry: 100,
	}
}

// testingT is satisfied by both *testing.T and *rapid.T.
type testingT interface {
	require.TestingT
	Helper()
}

func newHarness(t testingT, settings MockSettings) *harness {
	t.Helper()
	m, err := history.NewManager(10, nil)
	require.NoError(t, err)
	h := &harness{
		renderer: &MockRenderer{},
		stack:    &MockStack{},
		vars:     NewMockVars(),
		log:      &MockErrorLog{},
		history:  m,
	}
	h.ic = New(Options{
		Renderer: h.renderer,
		Stack:    h.stack,
		Vars:     h.vars,
		ErrorLog: h.log,
		Settings: settings,
		History:  m,
	})
	return h
}

func script(stmts ...syntax.Statement) *syntax.ScriptBlock {
	return &syntax.ScriptBlock{End: &syntax.StatementBlock{Statements: stmts}}
}

func assignStmt() syntax.Statement {
	return &syntax.Assignment{
		Op:      syntax.Equals,
		Targets: []syntax.Expression{&syntax.Variable{Name: "x"}},
		Values:  []syntax.Expression{&syntax.Constant{Value: 1.0}},
	}
}

func callStmt(args ...syntax.Expression) syntax.Statement {
	return &syntax.Pipeline{Elements: []syntax.PipelineElement{
		&syntax.CommandExpression{Expr: &syntax.Call{Func: &syntax.Variable{Name: "f"}, Args: args}},
	}}
}

// run drives one full invocation.
func (h *harness) run(t testingT, inv *Invocation, objs ...*object.Object) *history.Entry {
	t.Helper()
	require.NoError(t, h.ic.Begin(inv))
	for _, o := range objs {
		require.NoError(t, h.ic.Process(o))
	}
	entry, err := h.ic.End()
	require.NoError(t, err)
	return entry
}

func TestAssignmentPreservesVariable(t *testing.T) {
	h := newHarness(t, defaultSettings())
	h.vars.Values[SuccessVariable] = true

	entry := h.run(t, &Invocation{ID: 1, Tree: script(assignStmt())},
		object.New("a"), object.New("b"), object.New("c"))

	_, set := h.vars.Get("__")
	assert.False(t, set)
	assert.Equal(t, 3, entry.OutputCount())
	assert.Len(t, entry.Output(), 3)
	assert.True(t, entry.Succeeded())
}

func TestSingleNewErrorFails(t *testing.T) {
	h := newHarness(t, defaultSettings())
	h.vars.Values[SuccessVariable] = false

	require.NoError(t, h.ic.Begin(&Invocation{ID: 1, Tree: script(callStmt())}))
	rec := h.log.Add(object.KindRuntime, 1)
	entry, err := h.ic.End()
	require.NoError(t, err)

	assert.False(t, entry.Succeeded())
	require.Len(t, entry.Errors(), 1)
	assert.Same(t, rec, entry.Errors()[0].Value)
	wm, ok := h.history.Watermark()
	require.True(t, ok)
	assert.Equal(t, rec.Hash, wm)
}

func TestNoOutputNoErrorsSucceeds(t *testing.T) {
	h := newHarness(t, defaultSettings())
	entry := h.run(t, &Invocation{ID: 1, Tree: script(callStmt())})
	assert.True(t, entry.Succeeded())
	assert.Zero(t, entry.OutputCount())
}

func TestSingleObjectAssignedDirectly(t *testing.T) {
	h := newHarness(t, defaultSettings())
	h.run(t, &Invocation{ID: 1, Tree: script(callStmt())}, object.New("table", "lua.table"))

	v, ok := h.vars.Get("__")
	require.True(t, ok)
	o, isObject := v.(*object.Object)
	require.True(t, isObject, "expected a bare object, got %T", v)
	assert.Equal(t, "table", o.Value)
}

func TestConflictingOutVariableWrapsSingle(t *testing.T) {
	h := newHarness(t, defaultSettings())
	inv := &Invocation{ID: 1, Tree: script(callStmt()), OutVariable: "__"}
	h.run(t, inv, object.New("table", "lua.table"))

	assert.Equal(t, DiscardVariable, inv.OutVariable)
	v, _ := h.vars.Get("__")
	wrapped, ok := v.([]*object.Object)
	require.True(t, ok, "expected a one-element collection, got %T", v)
	assert.Len(t, wrapped, 1)

	// The flag does not leak into the next invocation.
	h.run(t, &Invocation{ID: 2, Tree: script(callStmt())}, object.New("t", "lua.table"))
	v, _ = h.vars.Get("__")
	assert.IsType(t, &object.Object{}, v)
}

func TestOtherOutVariableUntouched(t *testing.T) {
	h := newHarness(t, defaultSettings())
	inv := &Invocation{ID: 1, Tree: script(callStmt()), OutVariable: "result"}
	h.run(t, inv)
	assert.Equal(t, "result", inv.OutVariable)
}

func TestCapacityOverflowCounted(t *testing.T) {
	s := defaultSettings()
	s.PerEntry = 4
	h := newHarness(t, s)

	var objs []*object.Object
	for i := 0; i < 9; i++ {
		objs = append(objs, object.New(float64(i)))
	}
	entry := h.run(t, &Invocation{ID: 1, Tree: script(callStmt())}, objs...)

	assert.Len(t, entry.Output(), 4)
	assert.Equal(t, 9, entry.OutputCount())
	assert.Len(t, h.renderer.Events, 11, "every object still reaches the renderer")
}

func TestHistoryRecordsOmitted(t *testing.T) {
	h := newHarness(t, defaultSettings())
	prev := h.run(t, &Invocation{ID: 1, Tree: script(callStmt())}, object.New("x"))

	entry := h.run(t, &Invocation{ID: 2, Tree: script(callStmt())},
		object.New(prev), object.New(prev), object.New("y"))

	out := entry.Output()
	require.Len(t, out, 2)
	assert.True(t, out[0].HasTag(object.TagWarning))
	assert.Equal(t, "WARNING: <Omitting 2 history information objects>", out[0].String())
	assert.Equal(t, "y", out[1].Value)
	assert.Equal(t, 3, entry.OutputCount())

	// History records are still captured for the variable.
	v, _ := h.vars.Get("__")
	many, ok := v.([]*object.Object)
	require.True(t, ok)
	assert.Len(t, many, 3)
}

// The omission warning is prepended on top of a full buffer and is not
// part of outputCount.
func TestOmissionWarningBeyondCapacity(t *testing.T) {
	s := defaultSettings()
	s.PerEntry = 2
	h := newHarness(t, s)
	prev := h.run(t, &Invocation{ID: 1, Tree: script(callStmt())})

	entry := h.run(t, &Invocation{ID: 2, Tree: script(callStmt())},
		object.New("a"), object.New("b"), object.New("c"), object.New(prev))

	out := entry.Output()
	require.Len(t, out, 3)
	assert.True(t, out[0].HasTag(object.TagWarning))
	assert.Equal(t, "a", out[1].Value)
	assert.Equal(t, "b", out[2].Value)
	assert.Equal(t, 4, entry.OutputCount(), "two kept, one dropped, one omitted record")
}

func TestInvocationIDRules(t *testing.T) {
	tests := []struct {
		name   string
		kind   object.ErrorKind
		origin int64
		want   int64
	}{
		{"earlier origin lowers id", object.KindRuntime, 3, 3},
		{"later origin ignored", object.KindRuntime, 9, 7},
		{"raised without origin decrements", object.KindRaised, object.NoOrigin, 6},
		{"stop without origin unchanged", object.KindPipelineStop, object.NoOrigin, 7},
		{"runtime without origin unchanged", object.KindRuntime, object.NoOrigin, 7},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t, defaultSettings())
			rec := &object.ErrorRecord{Message: "x", Kind: tt.kind, OriginID: tt.origin}
			entry := h.run(t, &Invocation{ID: 7, Tree: script(callStmt())}, object.NewError(rec))
			assert.Equal(t, tt.want, entry.HistoryID())
			assert.Zero(t, entry.OutputCount(), "errors are not output")
		})
	}
}

func TestTagsStrippedBeforeRenderer(t *testing.T) {
	h := newHarness(t, defaultSettings())
	warn := object.NewWarning("careful")
	errObj := object.NewError(&object.ErrorRecord{Message: "bad", OriginID: 1})
	entry := h.run(t, &Invocation{ID: 1, Tree: script(callStmt())}, warn, errObj, object.New("plain"))

	var streams []object.Stream
	for _, e := range h.renderer.Events {
		if e.Call == "process" {
			assert.Zero(t, e.Object.Tags())
			streams = append(streams, e.Stream)
		}
	}
	assert.Equal(t, []object.Stream{object.StreamWarning, object.StreamError, object.StreamOutput}, streams)
	assert.Equal(t, []string{"begin", "process", "process", "process", "end"}, h.renderer.calls())

	// Diagnostics are part of the output history and keep their stream.
	out := entry.Output()
	require.Len(t, out, 2)
	assert.True(t, out[0].HasTag(object.TagWarning))
}

func TestSourcesRecordedOncePerLocation(t *testing.T) {
	h := newHarness(t, defaultSettings())
	require.NoError(t, h.ic.Begin(&Invocation{ID: 1, Tree: script(callStmt())}))

	h.stack.Valid = true
	h.stack.Loc = object.SourceLocation{Source: "a.lua", Line: 3}
	require.NoError(t, h.ic.Process(object.New(1.0)))
	require.NoError(t, h.ic.Process(object.New(2.0)))
	h.stack.Loc = object.SourceLocation{Source: "a.lua", Line: 9}
	require.NoError(t, h.ic.Process(object.NewWarning("tagged output is not a source")))
	require.NoError(t, h.ic.Process(object.New(3.0)))
	h.stack.Valid = false
	require.NoError(t, h.ic.Process(object.New(4.0)))

	entry, err := h.ic.End()
	require.NoError(t, err)
	assert.Equal(t, []object.SourceLocation{{Source: "a.lua", Line: 3}, {Source: "a.lua", Line: 9}}, entry.Sources())
}

func TestExcludedTypesNotCaptured(t *testing.T) {
	h := newHarness(t, defaultSettings())
	h.run(t, &Invocation{ID: 1, Tree: script(callStmt())},
		object.New("fn", "Selected.lua.function"), object.New("t", "lua.table"))

	v, _ := h.vars.Get("__")
	o, ok := v.(*object.Object)
	require.True(t, ok)
	assert.Equal(t, "t", o.Value)
}

func TestValueTypeAndNullCapture(t *testing.T) {
	h := newHarness(t, defaultSettings())
	h.vars.Values["__"] = "previous"
	h.run(t, &Invocation{ID: 1, Tree: script(callStmt())}, object.New(42.0))
	assert.Equal(t, "previous", h.vars.Values["__"])

	s := defaultSettings()
	s.ValueTypes = true
	s.Null = true
	h = newHarness(t, s)
	h.run(t, &Invocation{ID: 1, Tree: script(callStmt())}, object.New(42.0))
	assert.Equal(t, 42.0, h.vars.Values["__"].(*object.Object).Value)
	h.run(t, &Invocation{ID: 2, Tree: script(callStmt())})
	assert.Nil(t, h.vars.Values["__"])
}

func TestScanFailureStillEndsRenderer(t *testing.T) {
	h := newHarness(t, defaultSettings())
	h.log.ScanErr = assert.AnError
	h.renderer.EndErr = errRender

	require.NoError(t, h.ic.Begin(&Invocation{ID: 1, Tree: script(callStmt())}))
	require.NoError(t, h.ic.Process(object.New("shown anyway")))
	entry, err := h.ic.End()

	assert.Nil(t, entry)
	assert.ErrorIs(t, err, assert.AnError)
	assert.ErrorIs(t, err, errRender)
	assert.Equal(t, []string{"begin", "process", "end"}, h.renderer.calls())
	assert.Zero(t, h.history.Len())
	assert.False(t, h.ic.Active())
}

func TestDuplicateIDRejected(t *testing.T) {
	h := newHarness(t, defaultSettings())
	first := h.log.Add(object.KindRuntime, 1)
	h.run(t, &Invocation{ID: 1, Tree: script(callStmt())}, object.New("first"))
	before := h.vars.Values["__"]

	// Invocation 2 is attributed back to 1 by an earlier error and logs a
	// new one of its own.
	require.NoError(t, h.ic.Begin(&Invocation{ID: 2, Tree: script(callStmt())}))
	require.NoError(t, h.ic.Process(object.NewError(first)))
	require.NoError(t, h.ic.Process(object.New("second")))
	fresh := h.log.Add(object.KindRuntime, object.NoOrigin)
	_, err := h.ic.End()
	assert.ErrorIs(t, err, history.ErrEntryExists)

	wm, _ := h.history.Watermark()
	assert.Equal(t, first.Hash, wm, "watermark unchanged")
	assert.Same(t, before, h.vars.Values["__"], "variable unchanged")
	assert.Equal(t, []int64{1}, h.history.IDs())

	// The error is picked up by the next invocation instead of being lost.
	entry := h.run(t, &Invocation{ID: 3, Tree: script(callStmt())})
	require.Len(t, entry.Errors(), 1)
	assert.Same(t, fresh, entry.Errors()[0].Value)
}

func TestAbort(t *testing.T) {
	h := newHarness(t, defaultSettings())
	require.NoError(t, h.ic.Begin(&Invocation{ID: 1, Tree: script(callStmt())}))
	require.NoError(t, h.ic.Process(object.New("partial")))
	require.NoError(t, h.ic.Abort())

	assert.Equal(t, []string{"begin", "process", "end"}, h.renderer.calls())
	assert.Zero(t, h.history.Len())
	assert.NoError(t, h.ic.Abort())
}

func TestLifecycleErrors(t *testing.T) {
	h := newHarness(t, defaultSettings())
	assert.ErrorIs(t, h.ic.Process(object.New(1)), ErrNoInvocation)
	_, err := h.ic.End()
	assert.ErrorIs(t, err, ErrNoInvocation)

	require.NoError(t, h.ic.Begin(&Invocation{ID: 1}))
	assert.ErrorIs(t, h.ic.Begin(&Invocation{ID: 2}), ErrInvocationActive)
}

// Property: outputCount is the buffered items plus those dropped for
// capacity plus the omitted history records.
func TestPropertyOutputCount(t *testing.T) {
	prev := history.Seal(history.Fields{ID: 0})
	rapid.Check(t, func(t *rapid.T) {
		s := defaultSettings()
		s.PerEntry = rapid.IntRange(0, 10).Draw(t, "cap")
		h := newHarness(t, s)

		plain, records := 0, 0
		var objs []*object.Object
		for n := rapid.IntRange(0, 30).Draw(t, "objects"); n > 0; n-- {
			switch rapid.IntRange(0, 3).Draw(t, "kind") {
			case 0:
				records++
				objs = append(objs, object.New(prev))
			case 1:
				objs = append(objs, object.NewError(&object.ErrorRecord{Message: "e", OriginID: 1}))
			default:
				plain++
				objs = append(objs, object.New("o"))
			}
		}
		entry := h.run(t, &Invocation{ID: 1, Tree: script(callStmt())}, objs...)

		kept := min(plain, s.PerEntry)
		wantLen := kept
		if records > 0 {
			wantLen++
		}
		if len(entry.Output()) != wantLen {
			t.Fatalf("output len %d, want %d", len(entry.Output()), wantLen)
		}
		if entry.OutputCount() != kept+(plain-kept)+records {
			t.Fatalf("output count %d, want %d", entry.OutputCount(), plain+records)
		}
	})
}

// Property: an empty end block never touches the last-output variable.
func TestPropertyEmptyEndBlockPreserves(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		h := newHarness(t, defaultSettings())
		var tree *syntax.ScriptBlock
		if rapid.Bool().Draw(t, "has tree") {
			tree = &syntax.ScriptBlock{Begin: &syntax.StatementBlock{Statements: []syntax.Statement{callStmt()}}}
		}
		objs := make([]*object.Object, rapid.IntRange(0, 5).Draw(t, "count"))
		for i := range objs {
			objs[i] = object.New("o")
		}
		h.run(t, &Invocation{ID: 1, Tree: tree}, objs...)
		if h.vars.Sets != 0 {
			t.Fatalf("variable written %d times", h.vars.Sets)
		}
	})
}
