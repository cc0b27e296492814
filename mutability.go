package understory

import "github.com/jward/understory/internal/ast"

// Classification is the mutability verdict for one declarator. The zero
// value is NeedsLet so that anything unproven stays on the conservative
// side.
type Classification uint8

const (
	// NeedsLet means some reassignment or increment of a bound name
	// reaches the declarator unshadowed; the binding must stay mutable.
	NeedsLet Classification = iota
	// ConstSafe means every reassignment of every bound name, anywhere in
	// the unit, is shadowed relative to this declarator; the binding can
	// be declared immutably without changing behavior.
	ConstSafe
)

func (c Classification) String() string {
	if c == ConstSafe {
		return "const-safe"
	}
	return "needs-let"
}

// Classify decides whether one declarator can be declared immutably.
//
// A declarator without an initializer cannot, with one exception: the
// loop variable of a for-in/for-of, which receives a value each
// iteration. For destructuring declarators the whole declarator needs to
// stay mutable if any one of its bound names is reassigned.
func (s *Session) Classify(declarator *ast.Node) Classification {
	if declarator == nil || declarator.Kind != ast.KindDeclarator {
		return NeedsLet
	}
	if declarator.Init() == nil && !isLoopDeclarator(declarator) {
		return NeedsLet
	}

	names := ast.PatternNames(declarator.Pattern())
	if len(names) == 0 {
		// Unrecognized pattern shape: nothing provable.
		return NeedsLet
	}
	for _, name := range names {
		nb := s.bindings(name)
		for _, a := range nb.assigns {
			if !s.isShadowed(a, name, declarator) {
				return NeedsLet
			}
		}
		for _, u := range nb.updates {
			if !s.isShadowed(u, name, declarator) {
				return NeedsLet
			}
		}
	}
	return ConstSafe
}

// isLoopDeclarator reports whether the declarator is the binding of a
// for-in or for-of loop head.
func isLoopDeclarator(d *ast.Node) bool {
	decl := d.Parent
	if decl == nil || decl.Kind != ast.KindVarDecl {
		return false
	}
	loop := decl.Parent
	if loop == nil || (loop.Kind != ast.KindForIn && loop.Kind != ast.KindForOf) {
		return false
	}
	return loop.Children[0] == decl
}
