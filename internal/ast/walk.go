package ast

// Walk visits root and every node beneath it in preorder using an
// explicit stack, so traversal depth does not depend on goroutine stack
// limits. If visit returns false the node's subtree is skipped.
func Walk(root *Node, visit func(*Node) bool) {
	if root == nil {
		return
	}
	stack := []*Node{root}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if !visit(n) {
			continue
		}
		// Push children in reverse so they pop in source order.
		for i := len(n.Children) - 1; i >= 0; i-- {
			stack = append(stack, n.Children[i])
		}
	}
}

// PatternNames returns every identifier name bound by a binding pattern:
// a plain identifier, or any mix of array/object patterns, rest elements,
// and default-assignment patterns. Unexpected shapes contribute nothing.
func PatternNames(pattern *Node) []string {
	var names []string
	if pattern == nil {
		return names
	}
	stack := []*Node{pattern}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		switch n.Kind {
		case KindIdentifier:
			names = append(names, n.Name)
		case KindArrayPattern:
			stack = append(stack, n.Children...)
		case KindObjectPattern:
			stack = append(stack, n.Children...)
		case KindProperty:
			// Shorthand and renamed properties both bind the value side.
			stack = append(stack, n.Children[1])
		case KindRestPattern:
			stack = append(stack, n.Operand())
		case KindAssignPattern:
			stack = append(stack, n.Left())
		}
	}
	return names
}

// PatternBinds reports whether the pattern binds the given name.
func PatternBinds(pattern *Node, name string) bool {
	for _, n := range PatternNames(pattern) {
		if n == name {
			return true
		}
	}
	return false
}
