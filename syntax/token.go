package syntax

// TokenKind identifies an operator.
type TokenKind int

const (
	Unknown TokenKind = iota

	// Assignment operators
	Equals
	PlusEquals
	MinusEquals
	MultiplyEquals
	DivideEquals
	RemainderEquals

	// Increment and decrement
	PlusPlus
	MinusMinus
	PostfixPlusPlus
	PostfixMinusMinus

	// Other unary operators
	Minus
	Not
	Length
)

var tokenText = map[TokenKind]string{
	Equals:            "=",
	PlusEquals:        "+=",
	MinusEquals:       "-=",
	MultiplyEquals:    "*=",
	DivideEquals:      "/=",
	RemainderEquals:   "%=",
	PlusPlus:          "++",
	MinusMinus:        "--",
	PostfixPlusPlus:   "++ (postfix)",
	PostfixMinusMinus: "-- (postfix)",
	Minus:             "-",
	Not:               "not",
	Length:            "#",
}

func (k TokenKind) String() string {
	if s, ok := tokenText[k]; ok {
		return s
	}
	return "unknown"
}

// IsAssignment reports whether k is one of the assignment operators.
func (k TokenKind) IsAssignment() bool {
	return k >= Equals && k <= RemainderEquals
}
