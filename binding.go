package understory

import "github.com/jward/understory/internal/ast"

// BindingKind classifies how a name was introduced. Var, function
// declarations, and parameters create function-scoped bindings; let and
// const create block-scoped ones. The mutability classifier's shadow rule
// only cares about the function-scoped surface, so the distinction is
// carried here rather than re-derived at each query.
type BindingKind uint8

const (
	BindVar      BindingKind = iota // var declarator
	BindLexical                     // let or const declarator
	BindFunction                    // named function declaration or expression
	BindParam                       // function parameter
)

// FunctionScoped reports whether the binding hoists to its enclosing
// function rather than its enclosing block.
func (k BindingKind) FunctionScoped() bool { return k != BindLexical }

// Binding is one declaration of a name within the unit: the declaring
// node together with its declaration kind. Bindings are valid only for
// the lifetime of the Session that produced them.
type Binding struct {
	Node *ast.Node
	Kind BindingKind
}

// nameBindings is the catalog entry for one name: every declaring node,
// every assignment whose target binds the name, and every increment or
// decrement of it.
type nameBindings struct {
	decls   []Binding
	assigns []*ast.Node
	updates []*ast.Node
}

var emptyBindings nameBindings

// BindingsOf returns every declaration of name found in the unit. An
// empty result is a valid answer: the name is never declared here.
func (s *Session) BindingsOf(name string) []Binding {
	return s.bindings(name).decls
}

// bindings returns the catalog entry for name, building the catalog on
// first use. The returned entry is never nil.
func (s *Session) bindings(name string) *nameBindings {
	s.ensureCatalog()
	if nb, ok := s.catalog[name]; ok {
		return nb
	}
	return &emptyBindings
}

func (s *Session) ensureCatalog() {
	if s.catalog != nil {
		return
	}
	s.catalog = make(map[string]*nameBindings)

	entry := func(name string) *nameBindings {
		nb, ok := s.catalog[name]
		if !ok {
			nb = &nameBindings{}
			s.catalog[name] = nb
		}
		return nb
	}

	ast.Walk(s.unit, func(n *ast.Node) bool {
		switch n.Kind {
		case ast.KindVarDecl:
			kind := BindLexical
			if n.Mode == ast.DeclVar {
				kind = BindVar
			}
			for _, d := range n.Children {
				if d.Kind != ast.KindDeclarator {
					continue
				}
				for _, name := range ast.PatternNames(d.Pattern()) {
					e := entry(name)
					e.decls = append(e.decls, Binding{Node: d, Kind: kind})
				}
			}
		case ast.KindFunction:
			if n.Name != "" {
				e := entry(n.Name)
				e.decls = append(e.decls, Binding{Node: n, Kind: BindFunction})
			}
			for _, p := range n.Params() {
				for _, name := range ast.PatternNames(p) {
					e := entry(name)
					e.decls = append(e.decls, Binding{Node: p, Kind: BindParam})
				}
			}
		case ast.KindAssign:
			for _, name := range assignedNames(n.Left()) {
				e := entry(name)
				e.assigns = append(e.assigns, n)
			}
		case ast.KindUpdate:
			if op := n.Operand(); op.Kind == ast.KindIdentifier {
				e := entry(op.Name)
				e.updates = append(e.updates, n)
			}
		}
		return true
	})
}

// assignedNames returns the identifier names an assignment target binds.
// Member-access targets bind nothing: el.x = 1 mutates el's referent, it
// does not rebind el. Destructuring targets may appear either as pattern
// nodes or as literal-shaped nodes depending on how the parser saw them,
// so both spellings are accepted.
func assignedNames(target *ast.Node) []string {
	var names []string
	stack := []*ast.Node{target}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		switch n.Kind {
		case ast.KindIdentifier:
			names = append(names, n.Name)
		case ast.KindArrayPattern, ast.KindArrayLit, ast.KindObjectPattern, ast.KindObjectLit:
			stack = append(stack, n.Children...)
		case ast.KindProperty:
			stack = append(stack, n.Children[1])
		case ast.KindRestPattern, ast.KindSpread:
			stack = append(stack, n.Operand())
		case ast.KindAssignPattern:
			stack = append(stack, n.Left())
		}
	}
	return names
}
