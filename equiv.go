package understory

import "github.com/jward/understory/internal/ast"

// Equivalent reports whether two expression subtrees are syntactically
// identical. It is purely structural: identifiers match by name, literals
// by literal kind and raw text, member accesses by computed-ness plus
// object and property, calls by callee and pairwise arguments. There is
// no constant folding — 1+1 is never equivalent to 2 — and any kind pair
// outside the enumerated set compares unequal, including two nodes of the
// same unlisted kind. A node is always equivalent to itself.
//
// The comparison runs over an explicit pair stack so arbitrarily deep
// expressions cannot exhaust the goroutine stack.
func Equivalent(a, b *ast.Node) bool {
	type pair struct{ a, b *ast.Node }
	stack := []pair{{a, b}}
	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if p.a == p.b {
			continue // covers reflexivity, including two nils
		}
		if p.a == nil || p.b == nil || p.a.Kind != p.b.Kind {
			return false
		}
		switch p.a.Kind {
		case ast.KindIdentifier:
			if p.a.Name != p.b.Name {
				return false
			}
		case ast.KindLiteral:
			if p.a.Lit != p.b.Lit || p.a.Raw != p.b.Raw {
				return false
			}
		case ast.KindMember:
			if p.a.Computed != p.b.Computed {
				return false
			}
			stack = append(stack,
				pair{p.a.Object(), p.b.Object()},
				pair{p.a.PropertyNode(), p.b.PropertyNode()})
		case ast.KindCall:
			if len(p.a.Children) != len(p.b.Children) {
				return false
			}
			for i := range p.a.Children {
				stack = append(stack, pair{p.a.Children[i], p.b.Children[i]})
			}
		default:
			// Not one of the structurally compared kinds: conservatively
			// unequal.
			return false
		}
	}
	return true
}
