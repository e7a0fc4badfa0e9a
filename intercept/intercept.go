// Package intercept wraps the host's output renderer so that every
// invocation's output, errors and success status end up in extended
// history, and the last-output variable stays consistent.
//
// The host drives one invocation at a time:
//
//	ic.Begin(inv)
//	for _, o := range emitted {
//		ic.Process(o)
//	}
//	entry, err := ic.End()
//
// Every object reaches the renderer whether or not history capture
// succeeds.
package intercept

import (
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/drake/runehist/capture"
	"github.com/drake/runehist/history"
	"github.com/drake/runehist/internal/buffer"
	"github.com/drake/runehist/object"
	"github.com/drake/runehist/retention"
	"github.com/drake/runehist/syntax"
)

const (
	// SuccessVariable holds the host's last-success indicator.
	SuccessVariable = "?"

	// DiscardVariable is the binding target that throws output away.
	DiscardVariable = "null"
)

var (
	ErrInvocationActive = errors.New("an invocation is already active")
	ErrNoInvocation     = errors.New("no active invocation")
)

// Renderer is the host's own output step. It sees the same Begin,
// per-object and End sequence as the interceptor, object for object.
type Renderer interface {
	Begin(bufferInput bool) error
	ProcessOne(o *object.Object, stream object.Stream) error
	End() error
}

// CallStack reports the source location of the code currently emitting.
type CallStack interface {
	Caller() (object.SourceLocation, bool)
}

// Variables is the host session's variable store.
type Variables interface {
	Get(name string) (any, bool)
	Set(name string, v any)
}

// Settings is the configuration read at the start of each invocation.
type Settings interface {
	capture.Settings
	Variable() string
	MaxItemsPerEntry() int
}

// Invocation describes the pipeline about to run.
type Invocation struct {
	ID   int64
	Tree *syntax.ScriptBlock

	// OutVariable is the variable the host will bind the pipeline's output
	// to, if any. Begin rebinds it to DiscardVariable when it names the
	// last-output variable.
	OutVariable string

	// BufferInput is passed through to Renderer.Begin.
	BufferInput bool
}

// Interceptor is the output handler. It is not safe for concurrent use;
// shared history state is serialized through the history.Manager.
type Interceptor struct {
	renderer Renderer
	stack    CallStack
	vars     Variables
	errlog   history.ErrorLog
	settings Settings
	history  *history.Manager
	logger   *zap.Logger

	active    bool
	inv       *Invocation
	id        int64
	decrement bool
	conflict  bool
	variable  string
	output    *buffer.Bounded[*object.Object]
	captured  *capture.Buffer
	records   int
	sources   []object.SourceLocation
	seen      map[object.SourceLocation]struct{}
}

// Options wires an interceptor to its collaborators. Stack and Logger
// are optional.
type Options struct {
	Renderer Renderer
	Stack    CallStack
	Vars     Variables
	ErrorLog history.ErrorLog
	Settings Settings
	History  *history.Manager
	Logger   *zap.Logger
}

// New creates an interceptor.
func New(opts Options) *Interceptor {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Interceptor{
		renderer: opts.Renderer,
		stack:    opts.Stack,
		vars:     opts.Vars,
		errlog:   opts.ErrorLog,
		settings: opts.Settings,
		history:  opts.History,
		logger:   logger,
	}
}

// Begin starts an invocation.
func (ic *Interceptor) Begin(inv *Invocation) error {
	if ic.active {
		return ErrInvocationActive
	}
	ic.active = true
	ic.inv = inv
	ic.id = inv.ID
	ic.decrement = false
	ic.conflict = false
	ic.variable = ic.settings.Variable()
	ic.output = buffer.NewBounded[*object.Object](ic.settings.MaxItemsPerEntry())
	ic.captured = capture.NewBuffer(ic.settings)
	ic.records = 0
	ic.sources = nil
	ic.seen = make(map[object.SourceLocation]struct{})

	if inv.OutVariable != "" && strings.EqualFold(inv.OutVariable, ic.variable) {
		ic.logger.Debug("output binding names the last-output variable, discarding it",
			zap.Int64("id", inv.ID), zap.String("variable", inv.OutVariable))
		inv.OutVariable = DiscardVariable
		ic.conflict = true
	}

	if err := ic.renderer.Begin(inv.BufferInput); err != nil {
		return fmt.Errorf("begin renderer: %w", err)
	}
	return nil
}

// Process observes one emitted object and hands it to the renderer with
// its routing tags removed.
func (ic *Interceptor) Process(o *object.Object) error {
	if !ic.active {
		return ErrNoInvocation
	}
	if o == nil {
		o = object.New(nil)
	}
	c := object.Classify(o)

	if c.IsError() {
		ic.attribute(c.Record)
	} else {
		if object.IsHistoryRecord(o) {
			ic.records++
		} else {
			ic.output.Add(o.Clone())
		}
		cp := o.Clone()
		object.Strip(cp)
		ic.captured.Offer(cp)
	}

	if c.IsStandardOutput() {
		ic.recordSource()
	}

	object.Strip(o)
	if err := ic.renderer.ProcessOne(o, c.Stream); err != nil {
		return fmt.Errorf("render object: %w", err)
	}
	return nil
}

// attribute applies the invocation-id rules for an error object. An
// error from an earlier invocation lowers the id; a raised error that was
// never attributed defers a one-step decrement. Anything else leaves the
// id alone.
func (ic *Interceptor) attribute(rec *object.ErrorRecord) {
	if rec.HasOrigin() {
		if rec.OriginID < ic.id {
			ic.id = rec.OriginID
		}
		return
	}
	if rec.Kind == object.KindRaised {
		ic.decrement = true
	}
}

func (ic *Interceptor) recordSource() {
	if ic.stack == nil {
		return
	}
	loc, ok := ic.stack.Caller()
	if !ok {
		return
	}
	if _, dup := ic.seen[loc]; dup {
		return
	}
	ic.seen[loc] = struct{}{}
	ic.sources = append(ic.sources, loc)
}

// End finalizes the invocation and stores its entry. The renderer's End
// is always called, even when finalization fails.
func (ic *Interceptor) End() (entry *history.Entry, err error) {
	if !ic.active {
		return nil, ErrNoInvocation
	}
	ic.active = false
	defer func() {
		if rerr := ic.renderer.End(); rerr != nil {
			err = errors.Join(err, fmt.Errorf("end renderer: %w", rerr))
		}
	}()

	hostOK := ic.hostSucceeded()

	id := ic.id
	if ic.decrement {
		id--
	}
	count := ic.output.Len() + ic.output.Dropped() + ic.records
	if ic.records > 0 {
		ic.output.Prepend(object.NewWarning(
			fmt.Sprintf("<Omitting %d history information objects>", ic.records)))
	}

	err = ic.history.Do(func(tx *history.Tx) error {
		// A rejected entry must leave the watermark and the variable as
		// they were, or its errors are never captured.
		if tx.Store.Contains(id) {
			return fmt.Errorf("add entry %d: %w", id, history.ErrEntryExists)
		}
		mark := *tx.Watermark
		recs, err := history.Harvest(ic.errlog, tx.Watermark)
		if err != nil {
			return err
		}
		errs := make([]*object.Object, 0, len(recs))
		for _, rec := range recs {
			errs = append(errs, object.New(rec))
		}

		entry = history.Seal(history.Fields{
			ID:          id,
			Output:      ic.output.Items(),
			OutputCount: count,
			Sources:     ic.sources,
			Errors:      errs,
			Succeeded:   hostOK || (count == 0 && len(errs) == 0),
		})
		evicted, ok, err := tx.Store.Add(entry)
		if err != nil {
			*tx.Watermark = mark
			return err
		}
		ic.updateVariable()
		if ok {
			tx.Logger.Debug("evicted history entry", zap.Int64("id", evicted))
		}
		return nil
	})
	if err != nil {
		ic.logger.Warn("history capture failed",
			zap.Int64("id", ic.inv.ID), zap.Error(err))
		return nil, fmt.Errorf("finalize invocation %d: %w", ic.inv.ID, err)
	}

	ic.logger.Debug("invocation finalized",
		zap.Int64("invocation", ic.inv.ID),
		zap.Int64("id", entry.HistoryID()),
		zap.Int("output_count", entry.OutputCount()),
		zap.Int("errors", len(entry.Errors())),
		zap.Bool("succeeded", entry.Succeeded()))
	return entry, nil
}

// Abort tears down an invocation that will never reach End. No entry is
// produced; the renderer is still ended so buffered output is flushed.
func (ic *Interceptor) Abort() error {
	if !ic.active {
		return nil
	}
	ic.active = false
	ic.logger.Debug("invocation aborted", zap.Int64("id", ic.inv.ID))
	if err := ic.renderer.End(); err != nil {
		return fmt.Errorf("end renderer: %w", err)
	}
	return nil
}

// Active reports whether an invocation is in progress.
func (ic *Interceptor) Active() bool { return ic.active }

func (ic *Interceptor) hostSucceeded() bool {
	v, ok := ic.vars.Get(SuccessVariable)
	if !ok {
		return false
	}
	b, _ := v.(bool)
	return b
}

func (ic *Interceptor) updateVariable() {
	h := retention.Heuristic{Variable: ic.variable}
	if h.Decide(ic.inv.Tree) == retention.Preserve {
		return
	}
	a := retention.Select(ic.captured.Items(), retention.Options{
		CaptureNull:       ic.settings.CaptureNull(),
		CaptureValueTypes: ic.settings.CaptureValueTypes(),
		WrapSingle:        ic.conflict,
	})
	if a.Skip {
		return
	}
	ic.vars.Set(ic.variable, a.Value)
}
