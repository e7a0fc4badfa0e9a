package syntax

// Walk visits n and its descendants depth-first, pre-order. Returning
// false from fn skips the node's children.
func Walk(n Node, fn func(Node) bool) {
	if isNil(n) {
		return
	}
	if !fn(n) {
		return
	}
	for _, c := range n.children() {
		Walk(c, fn)
	}
}

// Find returns the first node under root (root included) matching pred.
// When nested is false, bodies of functions declared or defined inside
// root are not searched.
func Find(root Node, pred func(Node) bool, nested bool) Node {
	var found Node
	Walk(root, func(n Node) bool {
		if found != nil {
			return false
		}
		if pred(n) {
			found = n
			return false
		}
		if !nested && n != root {
			switch n.(type) {
			case *FunctionDefinition, *FunctionLiteral:
				return false
			}
		}
		return true
	})
	return found
}

// Children returns the direct children of n.
func Children(n Node) []Node {
	if isNil(n) {
		return nil
	}
	return n.children()
}

func isNil(n Node) bool {
	if n == nil {
		return true
	}
	switch v := n.(type) {
	case *ScriptBlock:
		return v == nil
	case *StatementBlock:
		return v == nil
	}
	return false
}
