package understory

import "github.com/jward/understory/internal/ast"

// isShadowed reports whether a usage of name is intercepted by a nearer
// declaration before the original declaring node is reached. It walks
// outward from the usage through enclosing *function* boundaries — block
// boundaries do not participate, because every verdict this analyzer
// draws from shadowing concerns the function-level binding surface.
//
// At each function crossed: a parameter of the same name shadows; a
// declaration of the name in the function's body shadows unless it is
// the original declaration itself, in which case the walk has come home
// and the usage is not shadowed. Reaching the unit root without a
// verdict means not shadowed.
func (s *Session) isShadowed(usage *ast.Node, name string, originalDecl *ast.Node) bool {
	for fn := usage.EnclosingFunction(); fn != nil && fn.Kind == ast.KindFunction; fn = fn.EnclosingFunction() {
		for _, p := range fn.Params() {
			if ast.PatternBinds(p, name) {
				return true
			}
		}
		decls := bodyDeclarations(fn, name)
		if len(decls) > 0 {
			for _, d := range decls {
				if d == originalDecl {
					return false
				}
			}
			return true
		}
	}
	return false
}

// bodyDeclarations collects every node declaring name directly within
// fn's body: var/let/const declarators whose pattern binds the name, and
// named function declarations. Nested functions are not descended into —
// their declarations belong to their own binding surface — but a nested
// function's own name counts as a declaration at this level.
func bodyDeclarations(fn *ast.Node, name string) []*ast.Node {
	var decls []*ast.Node
	stack := []*ast.Node{fn.Body()}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		switch n.Kind {
		case ast.KindFunction:
			// Only a statement-position function declares its name in the
			// surrounding scope. A named function expression binds the name
			// inside itself only, and must not report a shadow here.
			if n.Name == name && n.Parent != nil && (n.Parent.Kind == ast.KindBlock || n.Parent.Kind == ast.KindProgram) {
				decls = append(decls, n)
			}
			continue // do not descend into a nested binding surface
		case ast.KindDeclarator:
			if ast.PatternBinds(n.Pattern(), name) {
				decls = append(decls, n)
			}
			// Nothing inside an initializer declares at this level; function
			// expressions in it open their own surface. Skip it whole.
			continue
		}
		stack = append(stack, n.Children...)
	}
	return decls
}
