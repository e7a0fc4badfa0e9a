package lua

import (
	"errors"
	"strings"

	glua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"

	"github.com/drake/runehist/object"
)

// stopMessage is raised by rune.stop.
const stopMessage = "pipeline stopped"

// RunError is an error that escaped a chunk. Its record is already in
// the error log.
type RunError struct {
	Record *object.ErrorRecord
}

func (e *RunError) Error() string { return e.Record.Message }
func (e *RunError) Unwrap() error { return e.Record }

// Run executes c as invocation id. The chunk's return values are returned
// as output objects; objects written while it runs go to the host.
func (e *Engine) Run(c *Chunk, id int64) ([]*object.Object, error) {
	e.running = true
	e.current = id
	e.raised = nil
	e.written = 0
	defer func() {
		e.running = false
		e.current = object.NoOrigin
	}()

	base := e.L.GetTop()
	e.L.Push(e.L.NewFunctionFromProto(c.proto))
	if err := e.L.PCall(0, glua.MultRet, nil); err != nil {
		e.L.SetTop(base)
		return nil, e.runError(err)
	}

	n := e.L.GetTop() - base
	out := make([]*object.Object, 0, n)
	for i := 1; i <= n; i++ {
		out = append(out, ToObject(e.L.Get(base+i)))
	}
	e.L.SetTop(base)
	return out, nil
}

// ErrorsWritten returns how many non-terminating errors the last run wrote.
func (e *Engine) ErrorsWritten() int { return e.written }

// runError classifies an uncaught error and logs it. Values raised with
// error() carry no origin; the error report that displays them is
// attributed to the failed invocation by the interceptor.
func (e *Engine) runError(err error) *RunError {
	var apiErr *glua.ApiError
	var value glua.LValue = glua.LString(err.Error())
	if errors.As(err, &apiErr) && apiErr.Object != nil {
		value = apiErr.Object
	}

	kind := object.KindRuntime
	origin := e.current
	switch {
	case value == glua.LString(stopMessage):
		kind = object.KindPipelineStop
	case e.raised != nil && sameRaised(value, e.raised):
		kind = object.KindRaised
		origin = object.NoOrigin
	}

	rec := e.errors.Append(value.String(), kind, origin)
	e.logger.Debug("uncaught error",
		zap.Int64("invocation", e.current),
		zap.Stringer("kind", kind),
		zap.String("message", rec.Message))
	return &RunError{Record: rec}
}

// sameRaised reports whether value is what error() last raised. String
// messages gain a position prefix on the way out.
func sameRaised(value, raised glua.LValue) bool {
	vs, ok1 := value.(glua.LString)
	rs, ok2 := raised.(glua.LString)
	if ok1 && ok2 {
		return strings.HasSuffix(string(vs), string(rs))
	}
	return value == raised
}
