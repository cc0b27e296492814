// Package parser lowers tree-sitter's JavaScript concrete syntax tree
// into the analyzer's tagged node union.
//
// Lowering is total: every construct the analyzer has no opinion about —
// classes, loops other than for-in/for-of heads, ternaries, sequence
// expressions — becomes a KindUnknown node that still carries its lowered
// children, so catalog scans see every declaration and assignment no
// matter what surrounds it. Parenthesized expressions and expression
// statements are collapsed into their payload.
package parser

import (
	"context"
	"fmt"
	"strconv"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/javascript"

	"github.com/jward/understory/internal/ast"
)

// Parse parses JavaScript source into an analysis unit. The returned
// tree is the program root with parent links already wired.
func Parse(ctx context.Context, src []byte) (*ast.Node, error) {
	p := sitter.NewParser()
	p.SetLanguage(javascript.GetLanguage())
	tree, err := p.ParseCtx(ctx, nil, src)
	if err != nil {
		return nil, fmt.Errorf("parse: %w", err)
	}
	defer tree.Close()

	l := &lowerer{src: src}
	root := l.lower(tree.RootNode())
	if root == nil || root.Kind != ast.KindProgram {
		root = link(&ast.Node{Kind: ast.KindProgram}, []*ast.Node{root})
	}
	return root, nil
}

type lowerer struct {
	src []byte
}

func (l *lowerer) content(n *sitter.Node) string {
	return n.Content(l.src)
}

// link attaches children (dropping nils), sets parent pointers, and
// returns the parent. The span must already be set by the caller.
func link(parent *ast.Node, children []*ast.Node) *ast.Node {
	kept := children[:0]
	for _, c := range children {
		if c != nil {
			c.Parent = parent
			kept = append(kept, c)
		}
	}
	parent.Children = kept
	return parent
}

func span(n *sitter.Node, out *ast.Node) *ast.Node {
	sp, ep := n.StartPoint(), n.EndPoint()
	out.Start = ast.Pos{Line: int(sp.Row) + 1, Col: int(sp.Column)}
	out.End = ast.Pos{Line: int(ep.Row) + 1, Col: int(ep.Column)}
	return out
}

// lower converts one tree-sitter node. It returns nil for nodes with no
// analyzer-side representation (comments, bare punctuation).
func (l *lowerer) lower(n *sitter.Node) *ast.Node {
	if n == nil {
		return nil
	}
	switch n.Type() {
	case "comment":
		return nil

	case "program":
		return link(span(n, &ast.Node{Kind: ast.KindProgram}), l.namedChildren(n))

	case "identifier", "property_identifier", "statement_identifier",
		"shorthand_property_identifier", "shorthand_property_identifier_pattern",
		"undefined":
		return span(n, &ast.Node{Kind: ast.KindIdentifier, Name: l.content(n)})

	case "number":
		raw := l.content(n)
		v, ok := parseNumber(raw)
		if !ok {
			return span(n, &ast.Node{Kind: ast.KindUnknown, Raw: n.Type()})
		}
		return span(n, &ast.Node{Kind: ast.KindLiteral, Lit: ast.LitNumber, Raw: raw, Num: v})

	case "string":
		raw := l.content(n)
		if len(raw) >= 2 {
			raw = raw[1 : len(raw)-1]
		}
		return span(n, &ast.Node{Kind: ast.KindLiteral, Lit: ast.LitString, Raw: raw})

	case "true", "false":
		return span(n, &ast.Node{Kind: ast.KindLiteral, Lit: ast.LitBool, Raw: n.Type()})

	case "null":
		return span(n, &ast.Node{Kind: ast.KindLiteral, Lit: ast.LitNull, Raw: "null"})

	case "regex":
		return span(n, &ast.Node{Kind: ast.KindLiteral, Lit: ast.LitRegex, Raw: l.content(n)})

	case "template_string":
		var exprs []*ast.Node
		for i := 0; i < int(n.NamedChildCount()); i++ {
			c := n.NamedChild(i)
			if c.Type() == "template_substitution" && c.NamedChildCount() > 0 {
				exprs = append(exprs, l.lower(c.NamedChild(0)))
			}
		}
		return link(span(n, &ast.Node{Kind: ast.KindTemplateLit, Raw: l.content(n)}), exprs)

	case "array":
		return link(span(n, &ast.Node{Kind: ast.KindArrayLit}), l.namedChildren(n))

	case "object":
		return link(span(n, &ast.Node{Kind: ast.KindObjectLit}), l.objectMembers(n))

	case "member_expression":
		return l.lowerFixed(n, &ast.Node{Kind: ast.KindMember}, "object", "property")

	case "subscript_expression":
		return l.lowerFixed(n, &ast.Node{Kind: ast.KindMember, Computed: true}, "object", "index")

	case "call_expression":
		callee := l.lower(n.ChildByFieldName("function"))
		if callee == nil {
			return link(span(n, &ast.Node{Kind: ast.KindUnknown, Raw: n.Type()}), l.namedChildren(n))
		}
		return link(span(n, &ast.Node{Kind: ast.KindCall}),
			append([]*ast.Node{callee}, l.arguments(n.ChildByFieldName("arguments"))...))

	case "new_expression":
		callee := l.lower(n.ChildByFieldName("constructor"))
		if callee == nil {
			return link(span(n, &ast.Node{Kind: ast.KindUnknown, Raw: n.Type()}), l.namedChildren(n))
		}
		return link(span(n, &ast.Node{Kind: ast.KindNew}),
			append([]*ast.Node{callee}, l.arguments(n.ChildByFieldName("arguments"))...))

	case "unary_expression":
		return l.lowerFixed(n, &ast.Node{Kind: ast.KindUnary, Op: l.fieldContent(n, "operator")}, "argument")

	case "binary_expression":
		return l.lowerFixed(n, &ast.Node{Kind: ast.KindBinary, Op: l.fieldContent(n, "operator")}, "left", "right")

	case "assignment_expression":
		return l.lowerFixed(n, &ast.Node{Kind: ast.KindAssign, Op: "="}, "left", "right")

	case "augmented_assignment_expression":
		return l.lowerFixed(n, &ast.Node{Kind: ast.KindAssign, Op: l.fieldContent(n, "operator")}, "left", "right")

	case "update_expression":
		arg := n.ChildByFieldName("argument")
		op := n.ChildByFieldName("operator")
		prefix := op != nil && arg != nil && op.StartByte() < arg.StartByte()
		return l.lowerFixed(n, &ast.Node{Kind: ast.KindUpdate, Op: l.fieldContent(n, "operator"), Prefix: prefix}, "argument")

	case "variable_declaration", "lexical_declaration":
		return link(span(n, &ast.Node{Kind: ast.KindVarDecl, Mode: l.declMode(n)}), l.namedChildren(n))

	case "variable_declarator":
		pattern := l.lower(n.ChildByFieldName("name"))
		if pattern == nil {
			return span(n, &ast.Node{Kind: ast.KindUnknown, Raw: n.Type()})
		}
		children := []*ast.Node{pattern}
		if init := l.lower(n.ChildByFieldName("value")); init != nil {
			children = append(children, init)
		}
		return link(span(n, &ast.Node{Kind: ast.KindDeclarator}), children)

	case "function_declaration", "function_expression", "function",
		"generator_function", "generator_function_declaration",
		"arrow_function", "method_definition":
		return l.lowerFunction(n)

	case "statement_block", "class_body":
		return link(span(n, &ast.Node{Kind: ast.KindBlock}), l.namedChildren(n))

	case "for_in_statement":
		return l.lowerForIn(n)

	case "array_pattern":
		return link(span(n, &ast.Node{Kind: ast.KindArrayPattern}), l.namedChildren(n))

	case "object_pattern":
		return link(span(n, &ast.Node{Kind: ast.KindObjectPattern}), l.objectMembers(n))

	case "rest_pattern":
		if n.NamedChildCount() == 0 {
			return span(n, &ast.Node{Kind: ast.KindUnknown, Raw: n.Type()})
		}
		return link(span(n, &ast.Node{Kind: ast.KindRestPattern}), l.namedChildren(n))

	case "assignment_pattern", "object_assignment_pattern":
		return l.lowerFixed(n, &ast.Node{Kind: ast.KindAssignPattern}, "left", "right")

	case "pair", "pair_pattern":
		key := n.ChildByFieldName("key")
		computed := key != nil && key.Type() == "computed_property_name"
		keyNode := l.lower(key)
		if computed && key.NamedChildCount() > 0 {
			keyNode = l.lower(key.NamedChild(0))
		}
		value := l.lower(n.ChildByFieldName("value"))
		if keyNode == nil || value == nil {
			return link(span(n, &ast.Node{Kind: ast.KindUnknown, Raw: n.Type()}), l.namedChildren(n))
		}
		return link(span(n, &ast.Node{Kind: ast.KindProperty, Computed: computed}),
			[]*ast.Node{keyNode, value})

	case "spread_element":
		if n.NamedChildCount() == 0 {
			return span(n, &ast.Node{Kind: ast.KindUnknown, Raw: n.Type()})
		}
		return link(span(n, &ast.Node{Kind: ast.KindSpread}), l.namedChildren(n))

	case "parenthesized_expression", "expression_statement":
		if n.NamedChildCount() == 1 {
			return l.lower(n.NamedChild(0))
		}
		return link(span(n, &ast.Node{Kind: ast.KindUnknown, Raw: n.Type()}), l.namedChildren(n))

	default:
		return link(span(n, &ast.Node{Kind: ast.KindUnknown, Raw: n.Type()}), l.namedChildren(n))
	}
}

// lowerFixed lowers a node whose Children layout demands exactly the
// given fields, in order. If any field is missing or unloweredable the
// whole node degrades to KindUnknown, keeping the role accessors safe.
func (l *lowerer) lowerFixed(n *sitter.Node, out *ast.Node, fields ...string) *ast.Node {
	children := make([]*ast.Node, 0, len(fields))
	for _, f := range fields {
		c := l.lower(n.ChildByFieldName(f))
		if c == nil {
			return link(span(n, &ast.Node{Kind: ast.KindUnknown, Raw: n.Type()}), l.namedChildren(n))
		}
		children = append(children, c)
	}
	return link(span(n, out), children)
}

func (l *lowerer) namedChildren(n *sitter.Node) []*ast.Node {
	out := make([]*ast.Node, 0, n.NamedChildCount())
	for i := 0; i < int(n.NamedChildCount()); i++ {
		out = append(out, l.lower(n.NamedChild(i)))
	}
	return out
}

// objectMembers lowers object/object-pattern children, expanding
// shorthand properties into an explicit key/value pair so that the value
// side is visible as a reference.
func (l *lowerer) objectMembers(n *sitter.Node) []*ast.Node {
	var out []*ast.Node
	for i := 0; i < int(n.NamedChildCount()); i++ {
		c := n.NamedChild(i)
		switch c.Type() {
		case "shorthand_property_identifier", "shorthand_property_identifier_pattern":
			name := l.content(c)
			key := span(c, &ast.Node{Kind: ast.KindIdentifier, Name: name})
			value := span(c, &ast.Node{Kind: ast.KindIdentifier, Name: name})
			out = append(out, link(span(c, &ast.Node{Kind: ast.KindProperty}), []*ast.Node{key, value}))
		default:
			out = append(out, l.lower(c))
		}
	}
	return out
}

func (l *lowerer) arguments(n *sitter.Node) []*ast.Node {
	if n == nil {
		return nil
	}
	// A tagged template call carries the template directly instead of an
	// argument list.
	if n.Type() == "template_string" {
		return []*ast.Node{l.lower(n)}
	}
	return l.namedChildren(n)
}

func (l *lowerer) lowerFunction(n *sitter.Node) *ast.Node {
	name := ""
	if nameNode := n.ChildByFieldName("name"); nameNode != nil {
		name = l.content(nameNode)
	}

	var params []*ast.Node
	if p := n.ChildByFieldName("parameters"); p != nil {
		params = l.namedChildren(p)
	} else if p := n.ChildByFieldName("parameter"); p != nil {
		// Arrow function with a single bare parameter.
		params = []*ast.Node{l.lower(p)}
	}

	body := l.lower(n.ChildByFieldName("body"))
	if body == nil {
		body = span(n, &ast.Node{Kind: ast.KindBlock})
	}
	return link(span(n, &ast.Node{Kind: ast.KindFunction, Name: name}), append(params, body))
}

// lowerForIn handles both for-in and for-of, which share one node type in
// the grammar, distinguished by the operator token. A declared loop
// variable is wrapped in a declarator so the classifier can recognize the
// per-iteration binding.
func (l *lowerer) lowerForIn(n *sitter.Node) *ast.Node {
	kind := ast.KindForIn
	for i := 0; i < int(n.ChildCount()); i++ {
		c := n.Child(i)
		if !c.IsNamed() && l.content(c) == "of" {
			kind = ast.KindForOf
			break
		}
	}

	left := l.lower(n.ChildByFieldName("left"))
	if kindTok := n.ChildByFieldName("kind"); kindTok != nil && left != nil {
		mode := ast.DeclVar
		switch l.content(kindTok) {
		case "let":
			mode = ast.DeclLet
		case "const":
			mode = ast.DeclConst
		}
		declarator := link(span(n, &ast.Node{Kind: ast.KindDeclarator}), []*ast.Node{left})
		left = link(span(n, &ast.Node{Kind: ast.KindVarDecl, Mode: mode}), []*ast.Node{declarator})
	}
	if left == nil {
		left = span(n, &ast.Node{Kind: ast.KindUnknown, Raw: "for_in_left"})
	}

	right := l.lower(n.ChildByFieldName("right"))
	if right == nil {
		right = span(n, &ast.Node{Kind: ast.KindUnknown, Raw: "for_in_right"})
	}
	body := l.lower(n.ChildByFieldName("body"))
	if body == nil {
		body = span(n, &ast.Node{Kind: ast.KindBlock})
	}
	return link(span(n, &ast.Node{Kind: kind}), []*ast.Node{left, right, body})
}

func (l *lowerer) declMode(n *sitter.Node) ast.DeclMode {
	if n.ChildCount() == 0 {
		return ast.DeclVar
	}
	switch l.content(n.Child(0)) {
	case "let":
		return ast.DeclLet
	case "const":
		return ast.DeclConst
	default:
		return ast.DeclVar
	}
}

func (l *lowerer) fieldContent(n *sitter.Node, field string) string {
	c := n.ChildByFieldName(field)
	if c == nil {
		return ""
	}
	return l.content(c)
}

// parseNumber handles decimal, hex, octal, and binary literals plus the
// numeric separator. Shapes it cannot read report false rather than a
// wrong value.
func parseNumber(raw string) (float64, bool) {
	clean := make([]byte, 0, len(raw))
	for i := 0; i < len(raw); i++ {
		if raw[i] != '_' {
			clean = append(clean, raw[i])
		}
	}
	s := string(clean)
	if v, err := strconv.ParseFloat(s, 64); err == nil {
		return v, true
	}
	if v, err := strconv.ParseUint(s, 0, 64); err == nil {
		return float64(v), true
	}
	return 0, false
}
