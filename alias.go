package understory

import (
	"strings"

	"github.com/jward/understory/internal/ast"
)

// ResolveAlias decides whether name is, for analysis purposes,
// interchangeable with the single argument it was constructed from: every
// reaching declaration and every reaching plain assignment
// must initialize it from a recognized single-argument wrapper call, all
// wrapped arguments must agree structurally, and every usage of the name
// in the unit must be one the resolver can account for. Any usage it
// cannot enumerate might let the wrapper escape and be mutated or
// compared, which would break the one-argument-equals-the-target
// assumption, so anything unexpected fails the whole resolution.
//
// Returns the agreed-upon argument node, or nil when nothing can be
// proven. Results are memoized for the life of the Session.
func (s *Session) ResolveAlias(name string) *ast.Node {
	if target, ok := s.aliases[name]; ok {
		return target
	}
	target := s.resolveAlias(name)
	s.aliases[name] = target
	return target
}

func (s *Session) resolveAlias(name string) *ast.Node {
	nb := s.bindings(name)

	// Every reaching declaration and every reaching assignment must agree
	// on one structurally identical wrapper argument. Zero declarations
	// and zero assignments is not an error; it just means there is
	// nothing to alias.
	var target *ast.Node
	merge := func(arg *ast.Node) bool {
		if arg == nil {
			return false
		}
		if target == nil {
			target = arg
			return true
		}
		return Equivalent(target, arg)
	}
	for _, d := range nb.decls {
		// A parameter or function declaration of the name can never agree
		// with a wrapper-call initializer.
		if d.Node.Kind != ast.KindDeclarator {
			return nil
		}
		if unsafeDollarTopLevel(name, d.Node) {
			return nil
		}
		if !merge(s.wrapperArg(d.Node.Init())) {
			return nil
		}
	}
	for _, a := range nb.assigns {
		if a.Op != "=" {
			return nil
		}
		if unsafeDollarTopLevel(name, a) {
			return nil
		}
		if !merge(s.wrapperArg(a.Right())) {
			return nil
		}
	}
	if target == nil {
		return nil
	}
	if len(nb.updates) > 0 {
		return nil
	}
	if !s.usagesSafe(name) {
		return nil
	}
	return target
}

// unsafeDollarTopLevel reports whether this is a $-prefixed name bound at
// unit top level, which is categorically unresolvable regardless of other
// evidence. The convention is preserved from the original tool as-is; no
// further meaning is read into it.
func unsafeDollarTopLevel(name string, site *ast.Node) bool {
	if !strings.HasPrefix(name, "$") {
		return false
	}
	fn := site.EnclosingFunction()
	return fn != nil && fn.Kind == ast.KindProgram
}

// wrapperArg returns the single argument of a recognized wrapper call, or
// nil if init is not a call to a wrapper name with exactly one argument.
func (s *Session) wrapperArg(init *ast.Node) *ast.Node {
	if init == nil || init.Kind != ast.KindCall {
		return nil
	}
	callee := init.Callee()
	if callee.Kind != ast.KindIdentifier || !s.wrappers[callee.Name] {
		return nil
	}
	if len(init.Args()) != 1 {
		return nil
	}
	return init.Args()[0]
}

// usagesSafe scans every occurrence of name in the unit and reports
// whether all of them are accounted for: the identifier of a declarator,
// the left side of a plain assignment, or the object of a member access.
// Occurrences that are not variable references at all (the property side
// of a dot access, a non-computed object key) are ignored.
func (s *Session) usagesSafe(name string) bool {
	safe := true
	ast.Walk(s.unit, func(n *ast.Node) bool {
		if !safe {
			return false
		}
		if n.Kind != ast.KindIdentifier || n.Name != name {
			return true
		}
		if !isReference(n) {
			return true
		}
		p := n.Parent
		switch {
		case p == nil:
			safe = false
		case p.Kind == ast.KindDeclarator && p.Pattern() == n:
			// declaration site
		case p.Kind == ast.KindAssign && p.Left() == n && p.Op == "=":
			// plain reassignment target
		case p.Kind == ast.KindMember && p.Object() == n:
			// member-access base
		default:
			safe = false
		}
		return safe
	})
	return safe
}

// isReference reports whether an identifier occurrence denotes the
// variable rather than a fixed property or key name.
func isReference(n *ast.Node) bool {
	p := n.Parent
	if p == nil {
		return true
	}
	if p.Kind == ast.KindMember && p.PropertyNode() == n && !p.Computed {
		return false
	}
	if p.Kind == ast.KindProperty && p.Children[0] == n && !p.Computed {
		return false
	}
	return true
}
