package lua

import (
	"slices"
	"strconv"
	"strings"

	"github.com/yuin/gopher-lua/ast"

	"github.com/drake/runehist/syntax"
)

// converter turns a gopher-lua chunk into a syntax tree.
type converter struct {
	source string
}

// Convert builds the syntax tree for a parsed chunk. When expr is set the
// chunk came from the expression form (return <code>) and its single
// return statement becomes one expression pipeline per value.
func Convert(source string, stmts []ast.Stmt, expr bool) *syntax.ScriptBlock {
	c := converter{source: source}
	if expr && len(stmts) == 1 {
		if ret, ok := stmts[0].(*ast.ReturnStmt); ok {
			block := &syntax.StatementBlock{Pos: c.pos(ret)}
			for _, e := range ret.Exprs {
				block.Statements = append(block.Statements, c.pipeline(e))
			}
			return &syntax.ScriptBlock{Pos: block.Pos, End: block}
		}
	}
	return c.script(stmts, nil)
}

// pos records n's lines. The parser leaves LastLine unset on many nodes.
func (c converter) pos(n ast.PositionHolder) syntax.Pos {
	return syntax.Pos{Ext: syntax.Extent{Source: c.source, StartLine: n.Line(), EndLine: max(n.Line(), n.LastLine())}}
}

func (c converter) script(stmts []ast.Stmt, at ast.PositionHolder) *syntax.ScriptBlock {
	block := c.block(stmts)
	sb := &syntax.ScriptBlock{End: block}
	switch {
	case at != nil:
		sb.Pos = c.pos(at)
	case len(stmts) > 0:
		sb.Pos = syntax.Pos{Ext: syntax.Extent{
			Source:    c.source,
			StartLine: stmts[0].Line(),
			EndLine:   max(stmts[len(stmts)-1].Line(), stmts[len(stmts)-1].LastLine()),
		}}
	}
	block.Pos = sb.Pos
	return sb
}

func (c converter) block(stmts []ast.Stmt) *syntax.StatementBlock {
	b := &syntax.StatementBlock{Statements: make([]syntax.Statement, 0, len(stmts))}
	for _, s := range stmts {
		if st := c.stmt(s); st != nil {
			b.Statements = append(b.Statements, st)
		}
	}
	return b
}

func (c converter) pipeline(e ast.Expr) *syntax.Pipeline {
	return &syntax.Pipeline{
		Pos:      c.pos(e),
		Elements: []syntax.PipelineElement{&syntax.CommandExpression{Pos: c.pos(e), Expr: c.expr(e)}},
	}
}

func (c converter) stmt(s ast.Stmt) syntax.Statement {
	switch s := s.(type) {
	case *ast.AssignStmt:
		return &syntax.Assignment{
			Pos:     c.pos(s),
			Op:      syntax.Equals,
			Targets: c.exprs(s.Lhs),
			Values:  c.exprs(s.Rhs),
		}
	case *ast.LocalAssignStmt:
		targets := make([]syntax.Expression, 0, len(s.Names))
		for _, name := range s.Names {
			targets = append(targets, &syntax.Variable{Pos: c.pos(s), Name: name})
		}
		return &syntax.Assignment{
			Pos:     c.pos(s),
			Op:      syntax.Equals,
			Local:   true,
			Targets: targets,
			Values:  c.exprs(s.Exprs),
		}
	case *ast.FuncCallStmt:
		return c.pipeline(s.Expr)
	case *ast.FuncDefStmt:
		return &syntax.FunctionDefinition{
			Pos:  c.pos(s),
			Name: funcName(s.Name),
			Kind: syntax.KindFunction,
			Body: c.script(s.Func.Stmts, s.Func),
		}
	case *ast.DoBlockStmt:
		return &syntax.Block{Pos: c.pos(s), Kind: "do", Bodies: []*syntax.StatementBlock{c.block(s.Stmts)}}
	case *ast.WhileStmt:
		return &syntax.Block{
			Pos:        c.pos(s),
			Kind:       "while",
			Conditions: c.exprs([]ast.Expr{s.Condition}),
			Bodies:     []*syntax.StatementBlock{c.block(s.Stmts)},
		}
	case *ast.RepeatStmt:
		return &syntax.Block{
			Pos:        c.pos(s),
			Kind:       "repeat",
			Conditions: c.exprs([]ast.Expr{s.Condition}),
			Bodies:     []*syntax.StatementBlock{c.block(s.Stmts)},
		}
	case *ast.IfStmt:
		return &syntax.Block{
			Pos:        c.pos(s),
			Kind:       "if",
			Conditions: c.exprs([]ast.Expr{s.Condition}),
			Bodies:     []*syntax.StatementBlock{c.block(s.Then), c.block(s.Else)},
		}
	case *ast.NumberForStmt:
		return &syntax.Block{
			Pos:        c.pos(s),
			Kind:       "for",
			Conditions: c.exprs([]ast.Expr{s.Init, s.Limit, s.Step}),
			Bodies:     []*syntax.StatementBlock{c.block(s.Stmts)},
		}
	case *ast.GenericForStmt:
		return &syntax.Block{
			Pos:        c.pos(s),
			Kind:       "for",
			Conditions: c.exprs(s.Exprs),
			Bodies:     []*syntax.StatementBlock{c.block(s.Stmts)},
		}
	case *ast.ReturnStmt:
		return &syntax.Block{Pos: c.pos(s), Kind: "return", Conditions: c.exprs(s.Exprs)}
	case *ast.BreakStmt:
		return &syntax.Block{Pos: c.pos(s), Kind: "break"}
	case *ast.GotoStmt:
		return &syntax.Block{Pos: c.pos(s), Kind: "goto"}
	case *ast.LabelStmt:
		// Labels do nothing at runtime.
		return nil
	}
	return nil
}

func (c converter) exprs(in []ast.Expr) []syntax.Expression {
	out := make([]syntax.Expression, 0, len(in))
	for _, e := range in {
		if x := c.expr(e); x != nil {
			out = append(out, x)
		}
	}
	return out
}

// expr converts e. It returns a nil interface for a nil input so callers
// never store typed-nil expressions.
func (c converter) expr(e ast.Expr) syntax.Expression {
	if e == nil {
		return nil
	}
	p := c.pos(e)
	switch e := e.(type) {
	case *ast.TrueExpr:
		return &syntax.Constant{Pos: p, Value: true}
	case *ast.FalseExpr:
		return &syntax.Constant{Pos: p, Value: false}
	case *ast.NilExpr:
		return &syntax.Constant{Pos: p, Value: nil}
	case *ast.NumberExpr:
		if f, err := strconv.ParseFloat(e.Value, 64); err == nil {
			return &syntax.Constant{Pos: p, Value: f}
		}
		if n, err := strconv.ParseInt(e.Value, 0, 64); err == nil {
			return &syntax.Constant{Pos: p, Value: float64(n)}
		}
		return &syntax.Constant{Pos: p, Value: e.Value}
	case *ast.StringExpr:
		return &syntax.Constant{Pos: p, Value: e.Value}
	case *ast.Comma3Expr:
		return &syntax.Variable{Pos: p, Name: "..."}
	case *ast.IdentExpr:
		return &syntax.Variable{Pos: p, Name: e.Value}
	case *ast.AttrGetExpr:
		if key, ok := e.Key.(*ast.StringExpr); ok && isIdent(key.Value) {
			return &syntax.Member{Pos: p, Target: c.expr(e.Object), Name: key.Value}
		}
		return &syntax.Index{Pos: p, Target: c.expr(e.Object), Key: c.expr(e.Key)}
	case *ast.TableExpr:
		t := &syntax.Table{Pos: p}
		for _, f := range e.Fields {
			t.Keys = append(t.Keys, c.expr(f.Key))
			t.Values = append(t.Values, c.expr(f.Value))
		}
		return t
	case *ast.FuncCallExpr:
		return &syntax.Call{
			Pos:      p,
			Func:     c.expr(e.Func),
			Receiver: c.expr(e.Receiver),
			Method:   e.Method,
			Args:     c.exprs(e.Args),
		}
	case *ast.LogicalOpExpr:
		return &syntax.Binary{Pos: p, Op: e.Operator, Left: c.expr(e.Lhs), Right: c.expr(e.Rhs)}
	case *ast.RelationalOpExpr:
		return &syntax.Binary{Pos: p, Op: e.Operator, Left: c.expr(e.Lhs), Right: c.expr(e.Rhs)}
	case *ast.ArithmeticOpExpr:
		return &syntax.Binary{Pos: p, Op: e.Operator, Left: c.expr(e.Lhs), Right: c.expr(e.Rhs)}
	case *ast.StringConcatOpExpr:
		return &syntax.Binary{Pos: p, Op: "..", Left: c.expr(e.Lhs), Right: c.expr(e.Rhs)}
	case *ast.UnaryMinusOpExpr:
		return &syntax.Unary{Pos: p, Op: syntax.Minus, Operand: c.expr(e.Expr)}
	case *ast.UnaryNotOpExpr:
		return &syntax.Unary{Pos: p, Op: syntax.Not, Operand: c.expr(e.Expr)}
	case *ast.UnaryLenOpExpr:
		return &syntax.Unary{Pos: p, Op: syntax.Length, Operand: c.expr(e.Expr)}
	case *ast.FunctionExpr:
		return &syntax.FunctionLiteral{Pos: p, Body: c.script(e.Stmts, e)}
	}
	return nil
}

func funcName(n *ast.FuncName) string {
	if n.Method != "" {
		return dotted(n.Receiver) + ":" + n.Method
	}
	return dotted(n.Func)
}

// dotted renders a name built from identifiers and constant keys.
func dotted(e ast.Expr) string {
	var parts []string
	for e != nil {
		switch x := e.(type) {
		case *ast.IdentExpr:
			parts = append(parts, x.Value)
			e = nil
		case *ast.AttrGetExpr:
			if key, ok := x.Key.(*ast.StringExpr); ok {
				parts = append(parts, key.Value)
			}
			e = x.Object
		default:
			e = nil
		}
	}
	slices.Reverse(parts)
	return strings.Join(parts, ".")
}

func isIdent(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r == '_', r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case i > 0 && r >= '0' && r <= '9':
		default:
			return false
		}
	}
	return true
}
