package understory

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jward/understory/internal/ast"
)

func TestClassify_TopLevelReassignment(t *testing.T) {
	// let x = 1; x = 2;
	d := ast.Declarator(ast.Ident("x"), ast.Number("1", 1))
	unit := ast.Program(
		ast.VarDecl(ast.DeclLet, d),
		ast.Assign("=", ast.Ident("x"), ast.Number("2", 2)),
	)
	s := NewSession(unit)
	assert.Equal(t, NeedsLet, s.Classify(d))
}

func TestClassify_NoReassignment(t *testing.T) {
	// let x = 1; f(x); — reads do not block const.
	d := ast.Declarator(ast.Ident("x"), ast.Number("1", 1))
	unit := ast.Program(
		ast.VarDecl(ast.DeclLet, d),
		ast.Call(ast.Ident("f"), ast.Ident("x")),
	)
	s := NewSession(unit)
	assert.Equal(t, ConstSafe, s.Classify(d))
}

func TestClassify_ReassignmentShadowedByParameter(t *testing.T) {
	// let x = 1; function f(x) { x = 2; }
	d := ast.Declarator(ast.Ident("x"), ast.Number("1", 1))
	unit := ast.Program(
		ast.VarDecl(ast.DeclLet, d),
		ast.Func("f",
			[]*ast.Node{ast.Ident("x")},
			ast.Block(ast.Assign("=", ast.Ident("x"), ast.Number("2", 2)))),
	)
	s := NewSession(unit)
	assert.Equal(t, ConstSafe, s.Classify(d))
}

func TestClassify_ReassignmentShadowedByInnerDeclaration(t *testing.T) {
	// let z = 1; function h() { let z = 5; z = 6; }
	outer := ast.Declarator(ast.Ident("z"), ast.Number("1", 1))
	inner := ast.Declarator(ast.Ident("z"), ast.Number("5", 5))
	unit := ast.Program(
		ast.VarDecl(ast.DeclLet, outer),
		ast.Func("h", nil, ast.Block(
			ast.VarDecl(ast.DeclLet, inner),
			ast.Assign("=", ast.Ident("z"), ast.Number("6", 6)),
		)),
	)
	s := NewSession(unit)
	assert.Equal(t, ConstSafe, s.Classify(outer))
	assert.Equal(t, NeedsLet, s.Classify(inner))
}

func TestClassify_ReassignmentInNestedScopeReachesHome(t *testing.T) {
	// function g() { let y = 1; y = 2; } — same scope, no shadow.
	d := ast.Declarator(ast.Ident("y"), ast.Number("1", 1))
	unit := ast.Program(
		ast.Func("g", nil, ast.Block(
			ast.VarDecl(ast.DeclLet, d),
			ast.Assign("=", ast.Ident("y"), ast.Number("2", 2)),
		)),
	)
	s := NewSession(unit)
	assert.Equal(t, NeedsLet, s.Classify(d))
}

func TestClassify_Increment(t *testing.T) {
	// let c = 0; c++;
	d := ast.Declarator(ast.Ident("c"), ast.Number("0", 0))
	unit := ast.Program(
		ast.VarDecl(ast.DeclLet, d),
		ast.Update("++", ast.Ident("c"), false),
	)
	s := NewSession(unit)
	assert.Equal(t, NeedsLet, s.Classify(d))
}

func TestClassify_NoInitializer(t *testing.T) {
	// let q;
	d := ast.Declarator(ast.Ident("q"), nil)
	unit := ast.Program(ast.VarDecl(ast.DeclLet, d))
	s := NewSession(unit)
	assert.Equal(t, NeedsLet, s.Classify(d))
}

func TestClassify_LoopDeclaratorWithoutInitializer(t *testing.T) {
	// for (let x of arr) {} — receives a value per iteration.
	d := ast.Declarator(ast.Ident("x"), nil)
	unit := ast.Program(
		ast.ForOf(ast.VarDecl(ast.DeclLet, d), ast.Ident("arr"), ast.Block()),
	)
	s := NewSession(unit)
	assert.Equal(t, ConstSafe, s.Classify(d))
}

func TestClassify_LoopDeclaratorReassignedInBody(t *testing.T) {
	// for (let x of arr) { x = 1; }
	d := ast.Declarator(ast.Ident("x"), nil)
	unit := ast.Program(
		ast.ForOf(ast.VarDecl(ast.DeclLet, d), ast.Ident("arr"), ast.Block(
			ast.Assign("=", ast.Ident("x"), ast.Number("1", 1)),
		)),
	)
	s := NewSession(unit)
	assert.Equal(t, NeedsLet, s.Classify(d))
}

func TestClassify_DestructuringAnyNameReassigned(t *testing.T) {
	// let [a, b] = p; b = 2; — one reassigned name taints the declarator.
	d := ast.Declarator(ast.ArrayPattern(ast.Ident("a"), ast.Ident("b")), ast.Ident("p"))
	unit := ast.Program(
		ast.VarDecl(ast.DeclLet, d),
		ast.Assign("=", ast.Ident("b"), ast.Number("2", 2)),
	)
	s := NewSession(unit)
	assert.Equal(t, NeedsLet, s.Classify(d))
}

func TestClassify_DestructuringUntouched(t *testing.T) {
	// let {a, b: c} = p;
	d := ast.Declarator(
		ast.ObjectPattern(
			ast.Prop(ast.Ident("a"), ast.Ident("a")),
			ast.Prop(ast.Ident("b"), ast.Ident("c")),
		),
		ast.Ident("p"))
	unit := ast.Program(ast.VarDecl(ast.DeclLet, d))
	s := NewSession(unit)
	assert.Equal(t, ConstSafe, s.Classify(d))
}

func TestClassify_MemberWriteIsNotReassignment(t *testing.T) {
	// let o = {}; o.x = 1; — mutates the referent, not the binding.
	d := ast.Declarator(ast.Ident("o"), ast.Object())
	unit := ast.Program(
		ast.VarDecl(ast.DeclLet, d),
		ast.Assign("=", ast.Member(ast.Ident("o"), ast.Ident("x")), ast.Number("1", 1)),
	)
	s := NewSession(unit)
	assert.Equal(t, ConstSafe, s.Classify(d))
}

func TestClassify_MalformedInput(t *testing.T) {
	s := NewSession(ast.Program())
	assert.Equal(t, NeedsLet, s.Classify(nil))
	assert.Equal(t, NeedsLet, s.Classify(ast.Ident("x")))
}

func TestClassify_NamedFunctionExpressionDoesNotShadow(t *testing.T) {
	// let x = 1; function f() { g(function x() {}); x = 2; }
	// The named function expression binds x inside itself only; the
	// reassignment still reaches the outer binding.
	d := ast.Declarator(ast.Ident("x"), ast.Number("1", 1))
	unit := ast.Program(
		ast.VarDecl(ast.DeclLet, d),
		ast.Func("f", nil, ast.Block(
			ast.Call(ast.Ident("g"), ast.Func("x", nil, ast.Block())),
			ast.Assign("=", ast.Ident("x"), ast.Number("2", 2)),
		)),
	)
	s := NewSession(unit)
	assert.Equal(t, NeedsLet, s.Classify(d))
}

func TestBindingsOf(t *testing.T) {
	dx := ast.Declarator(ast.Ident("x"), ast.Number("1", 1))
	unit := ast.Program(
		ast.VarDecl(ast.DeclVar, dx),
		ast.Func("f", []*ast.Node{ast.Ident("y")}, ast.Block()),
	)
	s := NewSession(unit)

	bx := s.BindingsOf("x")
	require.Len(t, bx, 1)
	assert.Same(t, dx, bx[0].Node)
	assert.Equal(t, BindVar, bx[0].Kind)
	assert.True(t, bx[0].Kind.FunctionScoped())

	bf := s.BindingsOf("f")
	require.Len(t, bf, 1)
	assert.Equal(t, BindFunction, bf[0].Kind)

	by := s.BindingsOf("y")
	require.Len(t, by, 1)
	assert.Equal(t, BindParam, by[0].Kind)

	// Never declared: empty, not an error.
	assert.Empty(t, s.BindingsOf("nope"))
}
