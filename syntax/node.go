// Package syntax is a read-only tree of the statements composing one
// invocation. Hosts convert their own parser output into these node
// variants; the output pipeline only inspects the tree, it never runs it.
package syntax

// Extent locates a node in its source.
type Extent struct {
	Source    string
	StartLine int
	EndLine   int
}

// Node is implemented by every tree node.
type Node interface {
	Extent() Extent
	children() []Node
}

// Statement is a node that can appear in a StatementBlock.
type Statement interface {
	Node
	statementNode()
}

// Expression is a node that produces a value.
type Expression interface {
	Node
	expressionNode()
}

// PipelineElement is one stage of a Pipeline.
type PipelineElement interface {
	Node
	pipelineElementNode()
}

// Pos is embedded in every node to carry its Extent.
type Pos struct{ Ext Extent }

func (p Pos) Extent() Extent { return p.Ext }

// ScriptBlock is the root of an invocation, or the body of a function.
type ScriptBlock struct {
	Pos
	Begin   *StatementBlock
	Process *StatementBlock
	End     *StatementBlock
}

func (n *ScriptBlock) children() []Node {
	var out []Node
	for _, b := range []*StatementBlock{n.Begin, n.Process, n.End} {
		if b != nil {
			out = append(out, b)
		}
	}
	return out
}

// EndStatements returns the statements of the end block, or nil.
func (n *ScriptBlock) EndStatements() []Statement {
	if n == nil || n.End == nil {
		return nil
	}
	return n.End.Statements
}

// StatementBlock is an ordered list of statements.
type StatementBlock struct {
	Pos
	Statements []Statement
}

func (n *StatementBlock) children() []Node {
	out := make([]Node, 0, len(n.Statements))
	for _, s := range n.Statements {
		out = append(out, s)
	}
	return out
}

// Assignment assigns Values to Targets with Op.
type Assignment struct {
	Pos
	Op      TokenKind
	Local   bool
	Targets []Expression
	Values  []Expression
}

func (*Assignment) statementNode() {}
func (n *Assignment) children() []Node {
	return appendExprs(appendExprs(nil, n.Targets), n.Values)
}

// FunctionKind distinguishes the flavors of function declaration.
type FunctionKind int

const (
	KindFunction FunctionKind = iota
	KindFilter
	KindWorkflow
)

// FunctionDefinition declares a named function.
type FunctionDefinition struct {
	Pos
	Name string
	Kind FunctionKind
	Body *ScriptBlock
}

func (*FunctionDefinition) statementNode() {}
func (n *FunctionDefinition) children() []Node {
	if n.Body == nil {
		return nil
	}
	return []Node{n.Body}
}

// Pipeline is a statement made of one or more chained elements.
type Pipeline struct {
	Pos
	Elements []PipelineElement
}

func (*Pipeline) statementNode() {}
func (n *Pipeline) children() []Node {
	out := make([]Node, 0, len(n.Elements))
	for _, e := range n.Elements {
		out = append(out, e)
	}
	return out
}

// Block is any other compound statement (loops, conditionals, returns,
// nested blocks). Kind is informational only.
type Block struct {
	Pos
	Kind       string
	Conditions []Expression
	Bodies     []*StatementBlock
}

func (*Block) statementNode() {}
func (n *Block) children() []Node {
	out := appendExprs(nil, n.Conditions)
	for _, b := range n.Bodies {
		if b != nil {
			out = append(out, b)
		}
	}
	return out
}

// CommandExpression is a pipeline element that evaluates an expression.
type CommandExpression struct {
	Pos
	Expr Expression
}

func (*CommandExpression) pipelineElementNode() {}
func (n *CommandExpression) children() []Node { return appendExprs(nil, []Expression{n.Expr}) }

// Command is a pipeline element that invokes a named command.
type Command struct {
	Pos
	Name string
	Args []Expression
}

func (*Command) pipelineElementNode() {}
func (n *Command) children() []Node { return appendExprs(nil, n.Args) }

// Unary applies Op to Operand.
type Unary struct {
	Pos
	Op      TokenKind
	Operand Expression
}

func (*Unary) expressionNode() {}
func (n *Unary) children() []Node { return appendExprs(nil, []Expression{n.Operand}) }

// IsIncrementOrDecrement reports whether the operator is a prefix or
// postfix ++ or --.
func (n *Unary) IsIncrementOrDecrement() bool {
	switch n.Op {
	case PlusPlus, MinusMinus, PostfixPlusPlus, PostfixMinusMinus:
		return true
	}
	return false
}

// Index is Target[Key].
type Index struct {
	Pos
	Target Expression
	Key    Expression
}

func (*Index) expressionNode() {}
func (n *Index) children() []Node { return appendExprs(nil, []Expression{n.Target, n.Key}) }

// Member is Target.Name.
type Member struct {
	Pos
	Target Expression
	Name   string
}

func (*Member) expressionNode() {}
func (n *Member) children() []Node { return appendExprs(nil, []Expression{n.Target}) }

// Variable is a bare variable reference.
type Variable struct {
	Pos
	Name string
}

func (*Variable) expressionNode() {}
func (*Variable) children() []Node { return nil }

// Constant is a literal.
type Constant struct {
	Pos
	Value any
}

func (*Constant) expressionNode() {}
func (*Constant) children() []Node { return nil }

// Binary applies Op to Left and Right.
type Binary struct {
	Pos
	Op    string
	Left  Expression
	Right Expression
}

func (*Binary) expressionNode() {}
func (n *Binary) children() []Node { return appendExprs(nil, []Expression{n.Left, n.Right}) }

// Call invokes Func (or Receiver:Method) with Args.
type Call struct {
	Pos
	Func     Expression
	Receiver Expression
	Method   string
	Args     []Expression
}

func (*Call) expressionNode() {}
func (n *Call) children() []Node {
	return appendExprs(appendExprs(nil, []Expression{n.Func, n.Receiver}), n.Args)
}

// FunctionLiteral is an anonymous function value.
type FunctionLiteral struct {
	Pos
	Body *ScriptBlock
}

func (*FunctionLiteral) expressionNode() {}
func (n *FunctionLiteral) children() []Node {
	if n.Body == nil {
		return nil
	}
	return []Node{n.Body}
}

// Table is a table or array constructor.
type Table struct {
	Pos
	Keys   []Expression // nil entries for positional fields
	Values []Expression
}

func (*Table) expressionNode() {}
func (n *Table) children() []Node { return appendExprs(appendExprs(nil, n.Keys), n.Values) }

func appendExprs(dst []Node, exprs []Expression) []Node {
	for _, e := range exprs {
		if e != nil {
			dst = append(dst, e)
		}
	}
	return dst
}
