package understory

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jward/understory/internal/ast"
)

// wrapDecl builds: let <name> = $(<arg>);
func wrapDecl(name string, arg *ast.Node) *ast.Node {
	return ast.VarDecl(ast.DeclLet,
		ast.Declarator(ast.Ident(name), ast.Call(ast.Ident("$"), arg)))
}

func TestResolveAlias_MemberAccessOnly(t *testing.T) {
	// let el = $(node); use(el.prop);
	target := ast.Ident("node")
	unit := ast.Program(
		wrapDecl("el", target),
		ast.Call(ast.Ident("use"), ast.Member(ast.Ident("el"), ast.Ident("prop"))),
	)
	s := NewSession(unit)
	got := s.ResolveAlias("el")
	require.NotNil(t, got)
	assert.Same(t, target, got)
}

func TestResolveAlias_DisagreeingTargets(t *testing.T) {
	// let el = $(node); el = $(other);
	unit := ast.Program(
		wrapDecl("el", ast.Ident("node")),
		ast.Assign("=", ast.Ident("el"), ast.Call(ast.Ident("$"), ast.Ident("other"))),
	)
	s := NewSession(unit)
	assert.Nil(t, s.ResolveAlias("el"))
}

func TestResolveAlias_AgreeingReassignment(t *testing.T) {
	// let el = $(node); el = $(node); — structurally identical, resolves.
	unit := ast.Program(
		wrapDecl("el", ast.Ident("node")),
		ast.Assign("=", ast.Ident("el"), ast.Call(ast.Ident("$"), ast.Ident("node"))),
	)
	s := NewSession(unit)
	got := s.ResolveAlias("el")
	require.NotNil(t, got)
	assert.Equal(t, "node", got.Name)
}

func TestResolveAlias_EscapingUsage(t *testing.T) {
	// let el = $(node); use(el); — passed bare, might be mutated or
	// compared by the callee.
	unit := ast.Program(
		wrapDecl("el", ast.Ident("node")),
		ast.Call(ast.Ident("use"), ast.Ident("el")),
	)
	s := NewSession(unit)
	assert.Nil(t, s.ResolveAlias("el"))
}

func TestResolveAlias_ComparisonUsage(t *testing.T) {
	// let el = $(node); if-ish: el === x
	unit := ast.Program(
		wrapDecl("el", ast.Ident("node")),
		ast.Binary("===", ast.Ident("el"), ast.Ident("x")),
	)
	s := NewSession(unit)
	assert.Nil(t, s.ResolveAlias("el"))
}

func TestResolveAlias_UpdateRejects(t *testing.T) {
	unit := ast.Program(
		wrapDecl("el", ast.Ident("node")),
		ast.Update("++", ast.Ident("el"), false),
	)
	s := NewSession(unit)
	assert.Nil(t, s.ResolveAlias("el"))
}

func TestResolveAlias_CompoundAssignmentRejects(t *testing.T) {
	unit := ast.Program(
		wrapDecl("el", ast.Ident("node")),
		ast.Assign("+=", ast.Ident("el"), ast.Call(ast.Ident("$"), ast.Ident("node"))),
	)
	s := NewSession(unit)
	assert.Nil(t, s.ResolveAlias("el"))
}

func TestResolveAlias_NonWrapperInitializer(t *testing.T) {
	// let el = other(node);
	unit := ast.Program(
		ast.VarDecl(ast.DeclLet,
			ast.Declarator(ast.Ident("el"), ast.Call(ast.Ident("other"), ast.Ident("node")))),
	)
	s := NewSession(unit)
	assert.Nil(t, s.ResolveAlias("el"))
}

func TestResolveAlias_WrongArity(t *testing.T) {
	// let el = $(a, b);
	unit := ast.Program(
		ast.VarDecl(ast.DeclLet,
			ast.Declarator(ast.Ident("el"), ast.Call(ast.Ident("$"), ast.Ident("a"), ast.Ident("b")))),
	)
	s := NewSession(unit)
	assert.Nil(t, s.ResolveAlias("el"))
}

func TestResolveAlias_AssignmentOnlyFallback(t *testing.T) {
	// el = $(node); el.prop = 1; — never declared, still resolvable.
	target := ast.Ident("node")
	unit := ast.Program(
		ast.Assign("=", ast.Ident("el"), ast.Call(ast.Ident("$"), target)),
		ast.Assign("=", ast.Member(ast.Ident("el"), ast.Ident("prop")), ast.Number("1", 1)),
	)
	s := NewSession(unit)
	got := s.ResolveAlias("el")
	require.NotNil(t, got)
	assert.Same(t, target, got)
}

func TestResolveAlias_NothingToAlias(t *testing.T) {
	// Name never declared, never assigned: resolves to none, no error.
	s := NewSession(ast.Program())
	assert.Nil(t, s.ResolveAlias("el"))
}

func TestResolveAlias_DollarTopLevelUnresolvable(t *testing.T) {
	// let $el = $(node); $el.prop; — $-prefixed at top level never
	// resolves, regardless of other evidence.
	unit := ast.Program(
		wrapDecl("$el", ast.Ident("node")),
		ast.Member(ast.Ident("$el"), ast.Ident("prop")),
	)
	s := NewSession(unit)
	assert.Nil(t, s.ResolveAlias("$el"))
}

func TestResolveAlias_DollarInsideFunctionResolves(t *testing.T) {
	// function f() { let $el = $(node); $el.prop; } — the convention only
	// bites at unit top level.
	target := ast.Ident("node")
	unit := ast.Program(
		ast.Func("f", nil, ast.Block(
			wrapDecl("$el", target),
			ast.Member(ast.Ident("$el"), ast.Ident("prop")),
		)),
	)
	s := NewSession(unit)
	got := s.ResolveAlias("$el")
	require.NotNil(t, got)
	assert.Same(t, target, got)
}

func TestResolveAlias_ParameterDeclarationRejects(t *testing.T) {
	// let el = $(node); function f(el) {} — a parameter can never agree
	// with a wrapper-call initializer.
	unit := ast.Program(
		wrapDecl("el", ast.Ident("node")),
		ast.Func("f", []*ast.Node{ast.Ident("el")}, ast.Block()),
	)
	s := NewSession(unit)
	assert.Nil(t, s.ResolveAlias("el"))
}

func TestResolveAlias_PropertyNameIsNotAUsage(t *testing.T) {
	// let el = $(node); obj.el; ({el: 1}); — fixed property and key
	// names do not refer to the variable.
	target := ast.Ident("node")
	unit := ast.Program(
		wrapDecl("el", target),
		ast.Member(ast.Ident("obj"), ast.Ident("el")),
		ast.Object(ast.Prop(ast.Ident("el"), ast.Number("1", 1))),
	)
	s := NewSession(unit)
	got := s.ResolveAlias("el")
	require.NotNil(t, got)
	assert.Same(t, target, got)
}

func TestResolveAlias_Memoized(t *testing.T) {
	target := ast.Ident("node")
	unit := ast.Program(
		wrapDecl("el", target),
		ast.Member(ast.Ident("el"), ast.Ident("prop")),
	)
	s := NewSession(unit)
	first := s.ResolveAlias("el")
	second := s.ResolveAlias("el")
	assert.Same(t, first, second)

	// Negative answers are memoized too.
	assert.Nil(t, s.ResolveAlias("missing"))
	assert.Nil(t, s.ResolveAlias("missing"))
}

func TestResolveAlias_CustomWrapperNames(t *testing.T) {
	target := ast.Ident("node")
	unit := ast.Program(
		ast.VarDecl(ast.DeclLet,
			ast.Declarator(ast.Ident("el"), ast.Call(ast.Ident("wrap"), target))),
		ast.Member(ast.Ident("el"), ast.Ident("prop")),
	)

	// Default session does not recognize wrap().
	assert.Nil(t, NewSession(unit).ResolveAlias("el"))

	s := NewSession(unit, WithWrapperNames("wrap"))
	got := s.ResolveAlias("el")
	require.NotNil(t, got)
	assert.Same(t, target, got)
}
