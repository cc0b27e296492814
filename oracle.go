package understory

import "github.com/jward/understory/internal/ast"

// The capability oracle: predicates that prove a runtime capability from
// syntax alone. Each returns true only for a finite, explicitly
// enumerated set of shapes guaranteed to have the capability regardless
// of runtime value, and false for everything else — a bare identifier is
// always false, since no static guarantee is possible from a name alone.
// New shapes are admitted by extending the enumerations, never by
// inference.

// arrayStatics are the Array namespace operations whose result is always
// an array.
var arrayStatics = map[string]bool{
	"of":   true,
	"from": true,
}

// sequencePreserving are methods that, applied to an array or a string,
// always yield an array or a string again, so a chain of them preserves
// the searchable capability of its base.
var sequencePreserving = map[string]bool{
	"concat":      true,
	"slice":       true,
	"map":         true,
	"filter":      true,
	"sort":        true,
	"reverse":     true,
	"trim":        true,
	"trimStart":   true,
	"trimEnd":     true,
	"toLowerCase": true,
	"toUpperCase": true,
}

// ProvablyIterable reports whether the expression is guaranteed to be
// iterable: an array literal, Array.of(...) or Array.from(...), a new
// Array(...), or .split(...) invoked on a string literal.
func ProvablyIterable(n *ast.Node) bool {
	if n == nil {
		return false
	}
	switch n.Kind {
	case ast.KindArrayLit:
		return true
	case ast.KindNew:
		return isArrayCallee(n.Callee())
	case ast.KindCall:
		callee := n.Callee()
		if isArrayStatic(callee) {
			return true
		}
		// 'a,b'.split(',') and friends: the base must be a string literal,
		// not merely something that prints like one.
		if callee.Kind == ast.KindMember && !callee.Computed &&
			callee.PropertyNode().Kind == ast.KindIdentifier &&
			callee.PropertyNode().Name == "split" &&
			isStringLiteral(callee.Object()) {
			return true
		}
	}
	return false
}

// ProvablySearchable reports whether the expression is guaranteed to
// support both position search (indexOf) and membership testing
// (includes): an array literal, an array-constructing call, a string or
// template literal, or a chain of sequence-preserving method calls whose
// base itself passes this predicate. Used to gate rewriting a linear
// search into a membership test.
func ProvablySearchable(n *ast.Node) bool {
	// Chains unwrap iteratively: each preserving call shifts the question
	// to its base.
	for n != nil {
		switch n.Kind {
		case ast.KindArrayLit, ast.KindTemplateLit:
			return true
		case ast.KindLiteral:
			return n.Lit == ast.LitString
		case ast.KindNew:
			return isArrayCallee(n.Callee())
		case ast.KindCall:
			callee := n.Callee()
			if isArrayStatic(callee) {
				return true
			}
			if callee.Kind == ast.KindMember && !callee.Computed &&
				callee.PropertyNode().Kind == ast.KindIdentifier &&
				sequencePreserving[callee.PropertyNode().Name] {
				n = callee.Object()
				continue
			}
			return false
		default:
			return false
		}
	}
	return false
}

// NumericLiteral extracts the value of a bare numeric literal or a unary
// minus applied to one. Any other shape yields (0, false) rather than an
// error.
func NumericLiteral(n *ast.Node) (float64, bool) {
	if n == nil {
		return 0, false
	}
	if n.Kind == ast.KindUnary && n.Op == "-" {
		if v, ok := bareNumber(n.Operand()); ok {
			return -v, true
		}
		return 0, false
	}
	return bareNumber(n)
}

func bareNumber(n *ast.Node) (float64, bool) {
	if n != nil && n.Kind == ast.KindLiteral && n.Lit == ast.LitNumber {
		return n.Num, true
	}
	return 0, false
}

func isStringLiteral(n *ast.Node) bool {
	return n != nil && n.Kind == ast.KindLiteral && n.Lit == ast.LitString
}

// isArrayCallee matches the bare Array constructor.
func isArrayCallee(n *ast.Node) bool {
	return n != nil && n.Kind == ast.KindIdentifier && n.Name == "Array"
}

// isArrayStatic matches Array.of / Array.from.
func isArrayStatic(callee *ast.Node) bool {
	return callee != nil && callee.Kind == ast.KindMember && !callee.Computed &&
		isArrayCallee(callee.Object()) &&
		callee.PropertyNode().Kind == ast.KindIdentifier &&
		arrayStatics[callee.PropertyNode().Name]
}
