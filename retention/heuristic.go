// Package retention decides whether an invocation may overwrite the
// last-output variable, and with what value.
//
// The decision is made purely from the invocation's syntax tree: an
// invocation that only assigns, declares functions, increments or
// decrements, or reads a variable keeps the previous value, so the user
// can keep working with it.
package retention

import (
	"strings"

	"github.com/drake/runehist/syntax"
)

// Verdict is the outcome of one step of the heuristic.
type Verdict int

const (
	// Preserve leaves the last-output variable untouched.
	Preserve Verdict = iota
	// Overwrite replaces the variable with this invocation's output.
	Overwrite
	// NeedsDeeperScan means the top-level shapes did not settle it.
	NeedsDeeperScan
)

func (v Verdict) String() string {
	switch v {
	case Preserve:
		return "preserve"
	case Overwrite:
		return "overwrite"
	case NeedsDeeperScan:
		return "needs-deeper-scan"
	}
	return "unknown"
}

// Heuristic decides retention for the variable named Variable.
type Heuristic struct {
	Variable string
}

// Decide runs the heuristic over tree and returns Preserve or Overwrite.
func (h Heuristic) Decide(tree *syntax.ScriptBlock) Verdict {
	v := h.shapes(tree)
	if v != NeedsDeeperScan {
		return v
	}
	return h.references(tree)
}

// shapes checks the top-level statements of the end block.
func (h Heuristic) shapes(tree *syntax.ScriptBlock) Verdict {
	stmts := tree.EndStatements()
	if len(stmts) == 0 {
		return Preserve
	}
	for _, stmt := range stmts {
		if !keepsPrevious(stmt) {
			return NeedsDeeperScan
		}
	}
	return Preserve
}

// references searches the entire tree for a read of the variable itself.
func (h Heuristic) references(tree *syntax.ScriptBlock) Verdict {
	found := syntax.Find(tree, func(n syntax.Node) bool {
		switch n := n.(type) {
		case *syntax.Variable:
			return h.matches(n)
		case *syntax.Index:
			v, ok := n.Target.(*syntax.Variable)
			return ok && h.matches(v)
		}
		return false
	}, true)
	if found != nil {
		return Preserve
	}
	return Overwrite
}

func (h Heuristic) matches(v *syntax.Variable) bool {
	return v != nil && strings.EqualFold(v.Name, h.Variable)
}

// keepsPrevious reports whether a single statement is one of the shapes
// that never produce output worth capturing.
func keepsPrevious(stmt syntax.Statement) bool {
	switch s := stmt.(type) {
	case *syntax.Assignment:
		return true
	case *syntax.FunctionDefinition:
		return true
	case *syntax.Pipeline:
		if len(s.Elements) != 1 {
			return false
		}
		cmd, ok := s.Elements[0].(*syntax.CommandExpression)
		if !ok {
			return false
		}
		if u, ok := cmd.Expr.(*syntax.Unary); ok {
			return u.IsIncrementOrDecrement()
		}
		return rootVariable(cmd.Expr) != nil
	}
	return false
}

// rootVariable unwraps index and member access down to a bare variable.
func rootVariable(e syntax.Expression) *syntax.Variable {
	for {
		switch n := e.(type) {
		case *syntax.Index:
			e = n.Target
		case *syntax.Member:
			e = n.Target
		case *syntax.Variable:
			return n
		default:
			return nil
		}
	}
}
