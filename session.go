package understory

import "github.com/jward/understory/internal/ast"

// defaultWrapperNames is the fixed set of single-argument wrapper callees
// the alias resolver recognizes. A call like el = $(node) marks el as a
// candidate alias for node.
var defaultWrapperNames = []string{"$", "jQuery"}

// Session holds all per-unit analysis state: the binding catalog and the
// alias resolution cache. It is created per unit, populated lazily as
// queries arrive, and discarded with the unit. There is deliberately no
// process-wide cache; a Session is the only place answers are remembered,
// which makes analyzing independent units on separate goroutines safe as
// long as each has its own Session.
//
// A Session's cached answers are valid only while the tree is unchanged.
// Callers that mutate the tree must create a fresh Session.
type Session struct {
	unit     *ast.Node
	wrappers map[string]bool

	catalog map[string]*nameBindings // nil until first catalog query
	aliases map[string]*ast.Node     // resolved alias targets, nil entry = none
}

// SessionOption configures a Session.
type SessionOption func(*Session)

// WithWrapperNames replaces the default set of recognized wrapper callee
// names used by alias resolution.
func WithWrapperNames(names ...string) SessionOption {
	return func(s *Session) {
		s.wrappers = make(map[string]bool, len(names))
		for _, n := range names {
			s.wrappers[n] = true
		}
	}
}

// NewSession creates a Session for one analysis unit. The unit is the
// program root of the tree; queries about nodes outside this tree have
// undefined answers.
func NewSession(unit *ast.Node, opts ...SessionOption) *Session {
	s := &Session{
		unit:    unit,
		aliases: make(map[string]*ast.Node),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.wrappers == nil {
		s.wrappers = make(map[string]bool, len(defaultWrapperNames))
		for _, n := range defaultWrapperNames {
			s.wrappers[n] = true
		}
	}
	return s
}

// Unit returns the program root this Session analyzes.
func (s *Session) Unit() *ast.Node { return s.unit }
