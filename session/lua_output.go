package session

import (
	"go.uber.org/zap"

	"github.com/drake/runehist/lua"
	"github.com/drake/runehist/object"
)

// Emit implements lua.OutputService. Inside an invocation every object
// goes through the interceptor; outside one (init.lua, :load) it is
// printed directly.
func (s *Session) Emit(o *object.Object) {
	if s.ic == nil || !s.ic.Active() {
		s.ui.Print(lua.FormatObject(o))
		return
	}
	if object.Classify(o).IsStandardOutput() && !o.IsNull() {
		s.collected = append(s.collected, o)
	}
	if err := s.ic.Process(o); err != nil {
		s.logger.Warn("process output", zap.Error(err))
	}
}
