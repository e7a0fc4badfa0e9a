package lua

import (
	"errors"
	"fmt"
	"strings"

	glua "github.com/yuin/gopher-lua"
	"github.com/yuin/gopher-lua/ast"
	"github.com/yuin/gopher-lua/parse"

	"github.com/drake/runehist/syntax"
)

// ErrIncomplete means the input ended before the statement did. The REPL
// keeps reading continuation lines.
var ErrIncomplete = errors.New("incomplete input")

// SyntaxError is a parse failure that more input cannot fix.
type SyntaxError struct {
	Name    string
	Message string
}

func (e *SyntaxError) Error() string { return e.Message }

// Chunk is one parsed, compiled input.
type Chunk struct {
	Name string
	Code string

	// Tree is the read-only syntax tree of the chunk.
	Tree *syntax.ScriptBlock

	// Expression is set when the code parsed as a list of expressions.
	Expression bool

	proto *glua.FunctionProto
}

// Parse compiles code. Like the stock Lua REPL it first tries the code as
// an expression list (so "1 + 1" prints 2), then as statements.
func Parse(name, code string) (*Chunk, error) {
	exprStmts, exprErr := parse.Parse(strings.NewReader("return "+code), name)
	if exprErr == nil {
		return compile(name, code, exprStmts, true)
	}

	stmts, err := parse.Parse(strings.NewReader(code), name)
	if err == nil {
		return compile(name, code, stmts, false)
	}
	if atEOF(err) || atEOF(exprErr) {
		return nil, fmt.Errorf("%w: %s", ErrIncomplete, message(err))
	}
	return nil, &SyntaxError{Name: name, Message: message(err)}
}

func compile(name, code string, stmts []ast.Stmt, expr bool) (*Chunk, error) {
	proto, err := glua.Compile(stmts, name)
	if err != nil {
		return nil, &SyntaxError{Name: name, Message: message(err)}
	}
	return &Chunk{
		Name:       name,
		Code:       code,
		Tree:       Convert(name, stmts, expr),
		Expression: expr,
		proto:      proto,
	}, nil
}

// atEOF reports whether err is a syntax error found at end of input.
func atEOF(err error) bool {
	var perr *parse.Error
	return errors.As(err, &perr) && perr.Pos.Line == parse.EOF
}

func message(err error) string {
	return strings.TrimSpace(err.Error())
}
