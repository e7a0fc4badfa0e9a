package session

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/drake/runehist/history"
	"github.com/drake/runehist/intercept"
	"github.com/drake/runehist/lua"
	"github.com/drake/runehist/object"
)

// chunkName is the source name reported for interactive input.
const chunkName = "stdin"

// Execute handles one line of user input. Lines that leave a statement
// open are held until it completes.
func (s *Session) Execute(line string) {
	s.inputCount.Add(1)

	if len(s.pending) == 0 {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			return
		}
		if strings.HasPrefix(trimmed, ":") {
			s.directive(trimmed)
			return
		}
	} else if strings.TrimSpace(line) == ":cancel" {
		s.cancelPending()
		return
	}

	s.pending = append(s.pending, line)
	code := strings.Join(s.pending, "\n")
	multiLine := len(s.pending) > 1

	chunk, err := lua.Parse(chunkName, code)
	if errors.Is(err, lua.ErrIncomplete) {
		s.errlog.Append(err.Error(), object.KindIncompleteParse, s.lastID+1)
		s.ui.SetPrompt(ContinuationPrompt)
		return
	}

	tee := s.tee
	s.tee = ""
	s.pending = nil
	s.ui.SetPrompt(Prompt)

	id := s.nextID()
	s.inputs.Add(id, code)

	if err != nil {
		rec := s.errlog.Append(err.Error(), object.KindParse, id)
		s.vars.Set(intercept.SuccessVariable, false)
		s.report(id, rec)
		return
	}
	s.invoke(id, chunk, tee, multiLine)
}

func (s *Session) nextID() int64 {
	s.lastID++
	return s.lastID
}

// invoke runs chunk as invocation id through the interceptor.
func (s *Session) invoke(id int64, chunk *lua.Chunk, tee string, bufferInput bool) {
	s.invocations.Add(1)
	inv := &intercept.Invocation{
		ID:          id,
		Tree:        chunk.Tree,
		OutVariable: tee,
		BufferInput: bufferInput,
	}
	s.collected = nil
	if err := s.ic.Begin(inv); err != nil {
		s.logger.Warn("begin invocation", zap.Int64("id", id), zap.Error(err))
		return
	}

	out, err := s.engine.Run(chunk, id)
	var rerr *lua.RunError
	if errors.As(err, &rerr) {
		// The invocation is torn down; the error is shown by a report
		// invocation that history attributes back to this one.
		s.vars.Set(intercept.SuccessVariable, false)
		if aerr := s.ic.Abort(); aerr != nil {
			s.logger.Warn("abort invocation", zap.Int64("id", id), zap.Error(aerr))
		}
		s.report(id, rerr.Record)
		return
	}
	if err != nil {
		s.logger.Error("run failed", zap.Int64("id", id), zap.Error(err))
	}

	for _, o := range out {
		s.Emit(o)
	}
	s.vars.Set(intercept.SuccessVariable, err == nil && s.engine.ErrorsWritten() == 0)
	if inv.OutVariable != "" && inv.OutVariable != intercept.DiscardVariable {
		s.vars.Set(inv.OutVariable, s.collected)
	}
	s.finish(id)
}

// report shows rec through an invocation of its own. Its id is one past
// the failed invocation and is not consumed: the error's origin (or the
// deferred decrement for raised errors) brings the entry back to failed.
func (s *Session) report(failed int64, rec *object.ErrorRecord) {
	if err := s.ic.Begin(&intercept.Invocation{ID: failed + 1}); err != nil {
		s.logger.Warn("begin error report", zap.Int64("id", failed), zap.Error(err))
		return
	}
	s.Emit(object.NewError(rec))
	s.finish(failed)
}

func (s *Session) finish(id int64) {
	entry, err := s.ic.End()
	if err != nil {
		s.logger.Warn("history capture failed", zap.Int64("id", id), zap.Error(err))
		return
	}
	s.ui.SetStatus(s.status(entry))
}

func (s *Session) status(e *history.Entry) string {
	st := s.config.Styles.StatusOK
	word := "ok"
	if !e.Succeeded() {
		st = s.config.Styles.StatusFailed
		word = "failed"
	}
	return fmt.Sprintf("#%d %s  %d output  %d errors", e.HistoryID(), st.Render(word), e.OutputCount(), len(e.Errors()))
}

func (s *Session) cancelPending() {
	if len(s.pending) == 0 {
		return
	}
	s.pending = nil
	s.tee = ""
	s.ui.SetPrompt(Prompt)
}

// directive handles REPL commands starting with a colon.
func (s *Session) directive(line string) {
	name, rest, _ := strings.Cut(line, " ")
	rest = strings.TrimSpace(rest)

	switch name {
	case ":quit", ":q":
		s.shutdown()

	case ":tee":
		// :tee NAME code binds the output of code to NAME as well.
		variable, code, _ := strings.Cut(rest, " ")
		if variable == "" || strings.TrimSpace(code) == "" {
			s.printError("usage: :tee NAME code")
			return
		}
		s.tee = variable
		s.Execute(code)

	case ":history":
		s.printHistory(rest)

	case ":load":
		if rest == "" {
			s.printError("usage: :load PATH")
			return
		}
		s.load(rest)

	case ":cancel":
		s.cancelPending()

	default:
		s.printError(fmt.Sprintf("unknown command %s", name))
	}
}

// printHistory lists extended history, or one entry in full.
func (s *Session) printHistory(arg string) {
	if arg == "" {
		for _, id := range s.history.IDs() {
			if e, ok := s.history.Get(id); ok {
				s.ui.Print(e.String())
			}
		}
		return
	}

	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil {
		s.printError(fmt.Sprintf("bad history id %q", arg))
		return
	}
	e, ok := s.history.Get(id)
	if !ok {
		s.printError(fmt.Sprintf("no history entry %d", id))
		return
	}
	s.ui.Print(e.String())
	for _, o := range e.Output() {
		s.ui.Print("  " + lua.FormatObject(o))
	}
	for _, o := range e.Errors() {
		s.ui.Print(s.config.Styles.Error.Render("  " + o.String()))
	}
	for _, src := range e.Sources() {
		s.ui.Print(s.config.Styles.Muted.Render("  at " + src.String()))
	}
}
