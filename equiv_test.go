package understory

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jward/understory/internal/ast"
)

func TestEquivalent_Reflexive(t *testing.T) {
	nodes := []*ast.Node{
		ast.Ident("x"),
		ast.Number("1", 1),
		ast.String("hi"),
		ast.Member(ast.Ident("a"), ast.Ident("b")),
		ast.Call(ast.Ident("f"), ast.Ident("x"), ast.Number("2", 2)),
		// Kinds outside the structural set are still self-equivalent.
		ast.Array(ast.Number("1", 1)),
		ast.Func("f", nil, ast.Block()),
	}
	for _, n := range nodes {
		assert.True(t, Equivalent(n, n), "node %s", n.Kind)
	}
}

func TestEquivalent_Identifiers(t *testing.T) {
	assert.True(t, Equivalent(ast.Ident("x"), ast.Ident("x")))
	assert.False(t, Equivalent(ast.Ident("x"), ast.Ident("y")))
}

func TestEquivalent_Literals(t *testing.T) {
	assert.True(t, Equivalent(ast.Number("1", 1), ast.Number("1", 1)))
	assert.False(t, Equivalent(ast.Number("1", 1), ast.Number("2", 2)))
	assert.True(t, Equivalent(ast.String("a"), ast.String("a")))
	assert.False(t, Equivalent(ast.String("a"), ast.String("b")))
	// Same spelling, different literal kind.
	assert.False(t, Equivalent(ast.String("null"), ast.Null()))
}

func TestEquivalent_NoConstantFolding(t *testing.T) {
	// 1 + 1 is never equivalent to 2 — and binary nodes are not in the
	// structural set at all, so even 1+1 vs 1+1 reports false unless they
	// are the same node.
	sum := ast.Binary("+", ast.Number("1", 1), ast.Number("1", 1))
	assert.False(t, Equivalent(sum, ast.Number("2", 2)))
	assert.False(t, Equivalent(sum, ast.Binary("+", ast.Number("1", 1), ast.Number("1", 1))))
	assert.True(t, Equivalent(sum, sum))
}

func TestEquivalent_Members(t *testing.T) {
	assert.True(t, Equivalent(
		ast.Member(ast.Ident("a"), ast.Ident("b")),
		ast.Member(ast.Ident("a"), ast.Ident("b"))))
	assert.False(t, Equivalent(
		ast.Member(ast.Ident("a"), ast.Ident("b")),
		ast.Member(ast.Ident("a"), ast.Ident("c"))))
	// Computed-ness matters: a.b vs a["b"] vs a[b].
	assert.False(t, Equivalent(
		ast.Member(ast.Ident("a"), ast.Ident("b")),
		ast.Index(ast.Ident("a"), ast.Ident("b"))))
	// Nested objects compare deeply.
	assert.True(t, Equivalent(
		ast.Member(ast.Member(ast.Ident("a"), ast.Ident("b")), ast.Ident("c")),
		ast.Member(ast.Member(ast.Ident("a"), ast.Ident("b")), ast.Ident("c"))))
}

func TestEquivalent_Calls(t *testing.T) {
	assert.True(t, Equivalent(
		ast.Call(ast.Ident("f"), ast.Ident("x"), ast.Number("1", 1)),
		ast.Call(ast.Ident("f"), ast.Ident("x"), ast.Number("1", 1))))
	assert.False(t, Equivalent(
		ast.Call(ast.Ident("f"), ast.Ident("x")),
		ast.Call(ast.Ident("g"), ast.Ident("x"))))
	assert.False(t, Equivalent(
		ast.Call(ast.Ident("f"), ast.Ident("x")),
		ast.Call(ast.Ident("f"), ast.Ident("x"), ast.Ident("y"))))
	assert.False(t, Equivalent(
		ast.Call(ast.Ident("f"), ast.Ident("x"), ast.Ident("y")),
		ast.Call(ast.Ident("f"), ast.Ident("y"), ast.Ident("x"))))
}

func TestEquivalent_CrossKindAlwaysFalse(t *testing.T) {
	kinds := []*ast.Node{
		ast.Ident("x"),
		ast.Number("1", 1),
		ast.Member(ast.Ident("a"), ast.Ident("b")),
		ast.Call(ast.Ident("f")),
		ast.Array(),
	}
	for i, a := range kinds {
		for j, b := range kinds {
			if i == j {
				continue
			}
			assert.False(t, Equivalent(a, b), "%s vs %s", a.Kind, b.Kind)
		}
	}
}

func TestEquivalent_UnlistedKindsConservativelyUnequal(t *testing.T) {
	// Two distinct array literals with identical contents: not in the
	// structural set, so false.
	assert.False(t, Equivalent(
		ast.Array(ast.Number("1", 1)),
		ast.Array(ast.Number("1", 1))))
}

func TestEquivalent_Nil(t *testing.T) {
	assert.True(t, Equivalent(nil, nil))
	assert.False(t, Equivalent(ast.Ident("x"), nil))
	assert.False(t, Equivalent(nil, ast.Ident("x")))
}
