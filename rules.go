package understory

import (
	"fmt"
	"sort"

	"github.com/jward/understory/internal/ast"
)

// Finding is one rewrite opportunity a rule has proven safe. Rules never
// splice replacement text themselves; they report, and the caller decides
// what to do with the report.
type Finding struct {
	Rule    string
	Message string
	Start   ast.Pos
	End     ast.Pos
}

// A rule inspects the unit through a Session and reports the sites where
// its rewrite is provably behavior-preserving. Rules must decline — emit
// nothing — whenever any analyzer query comes back unproven.
type rule func(*Session) []Finding

// ruleCatalog is the closed set of built-in rules. Order is irrelevant;
// findings are sorted by position afterwards.
var ruleCatalog = []rule{
	rulePreferConst,
	ruleIndexOfToIncludes,
	ruleUnwrapAlias,
}

// AnalyzeUnit runs every rule in the catalog over one unit with a fresh
// Session and returns the findings in source order.
func AnalyzeUnit(unit *ast.Node, opts ...SessionOption) []Finding {
	s := NewSession(unit, opts...)
	var findings []Finding
	for _, r := range ruleCatalog {
		findings = append(findings, r(s)...)
	}
	sort.SliceStable(findings, func(i, j int) bool {
		a, b := findings[i].Start, findings[j].Start
		if a.Line != b.Line {
			return a.Line < b.Line
		}
		return a.Col < b.Col
	})
	return findings
}

// rulePreferConst reports let/var declarations whose every declarator is
// const-safe: no unshadowed reassignment or increment of any bound name
// anywhere in the unit.
func rulePreferConst(s *Session) []Finding {
	var findings []Finding
	ast.Walk(s.Unit(), func(n *ast.Node) bool {
		if n.Kind != ast.KindVarDecl || n.Mode == ast.DeclConst {
			return true
		}
		for _, d := range n.Children {
			if s.Classify(d) != ConstSafe {
				return true
			}
		}
		findings = append(findings, Finding{
			Rule:    "prefer-const",
			Message: fmt.Sprintf("'%s' declaration is never reassigned; it can be 'const'", n.Mode),
			Start:   n.Start,
			End:     n.End,
		})
		return true
	})
	return findings
}

// membershipForms enumerates the indexOf comparisons that express a
// membership test. The value records the polarity: true means the
// comparison is satisfied when the element is present.
var membershipForms = map[struct {
	op  string
	num float64
}]bool{
	{"!==", -1}: true,
	{"!=", -1}:  true,
	{">", -1}:   true,
	{">=", 0}:   true,
	{"===", -1}: false,
	{"==", -1}:  false,
	{"<", 0}:    false,
}

// ruleIndexOfToIncludes reports comparisons of the shape
// base.indexOf(x) !== -1 (and the enumerated variants) where the base is
// provably searchable, so the linear search can become a membership test.
// An unverified identifier base never qualifies.
func ruleIndexOfToIncludes(s *Session) []Finding {
	var findings []Finding
	ast.Walk(s.Unit(), func(n *ast.Node) bool {
		if n.Kind != ast.KindBinary {
			return true
		}
		call := n.Left()
		if call.Kind != ast.KindCall || len(call.Args()) != 1 {
			return true
		}
		callee := call.Callee()
		if callee.Kind != ast.KindMember || callee.Computed ||
			callee.PropertyNode().Kind != ast.KindIdentifier ||
			callee.PropertyNode().Name != "indexOf" {
			return true
		}
		num, ok := NumericLiteral(n.Right())
		if !ok {
			return true
		}
		positive, ok := membershipForms[struct {
			op  string
			num float64
		}{n.Op, num}]
		if !ok {
			return true
		}
		if !ProvablySearchable(callee.Object()) {
			return true
		}
		replacement := fmt.Sprintf("%s.includes(%s)",
			ast.ExprString(callee.Object()), ast.ExprString(call.Args()[0]))
		if !positive {
			replacement = "!" + replacement
		}
		findings = append(findings, Finding{
			Rule:    "indexof-to-includes",
			Message: fmt.Sprintf("position search can be a membership test: %s", replacement),
			Start:   n.Start,
			End:     n.End,
		})
		return true
	})
	return findings
}

// ruleUnwrapAlias reports names that are provably interchangeable with
// the argument of the wrapper call they were initialized from, so member
// accesses through the alias can read the wrapped value directly.
func ruleUnwrapAlias(s *Session) []Finding {
	var findings []Finding
	seen := make(map[string]bool)
	ast.Walk(s.Unit(), func(n *ast.Node) bool {
		if n.Kind != ast.KindDeclarator || n.Pattern().Kind != ast.KindIdentifier {
			return true
		}
		name := n.Pattern().Name
		if seen[name] {
			return true
		}
		if s.wrapperArg(n.Init()) == nil {
			return true
		}
		seen[name] = true
		target := s.ResolveAlias(name)
		if target == nil {
			return true
		}
		findings = append(findings, Finding{
			Rule:    "unwrap-alias",
			Message: fmt.Sprintf("'%s' always wraps %s; accesses can use it directly", name, ast.ExprString(target)),
			Start:   n.Start,
			End:     n.End,
		})
		return true
	})
	return findings
}
