package ast

import "strings"

// ExprString renders an expression subtree back to compact source text.
// It exists so rule findings can quote replacement expressions; it makes
// no attempt to preserve original formatting. Shapes it cannot render
// come back as "…".
func ExprString(n *Node) string {
	var b strings.Builder
	writeExpr(&b, n)
	return b.String()
}

func writeExpr(b *strings.Builder, n *Node) {
	if n == nil {
		b.WriteString("…")
		return
	}
	switch n.Kind {
	case KindIdentifier:
		b.WriteString(n.Name)
	case KindLiteral:
		if n.Lit == LitString {
			b.WriteByte('\'')
			b.WriteString(n.Raw)
			b.WriteByte('\'')
		} else {
			b.WriteString(n.Raw)
		}
	case KindTemplateLit:
		b.WriteString(n.Raw)
	case KindArrayLit:
		b.WriteByte('[')
		writeList(b, n.Children)
		b.WriteByte(']')
	case KindObjectLit:
		b.WriteByte('{')
		writeList(b, n.Children)
		b.WriteByte('}')
	case KindProperty:
		writeExpr(b, n.Children[0])
		b.WriteString(": ")
		writeExpr(b, n.Children[1])
	case KindMember:
		writeExpr(b, n.Object())
		if n.Computed {
			b.WriteByte('[')
			writeExpr(b, n.PropertyNode())
			b.WriteByte(']')
		} else {
			b.WriteByte('.')
			writeExpr(b, n.PropertyNode())
		}
	case KindCall:
		writeExpr(b, n.Callee())
		b.WriteByte('(')
		writeList(b, n.Args())
		b.WriteByte(')')
	case KindNew:
		b.WriteString("new ")
		writeExpr(b, n.Callee())
		b.WriteByte('(')
		writeList(b, n.Args())
		b.WriteByte(')')
	case KindUnary:
		b.WriteString(n.Op)
		writeExpr(b, n.Operand())
	case KindBinary:
		writeExpr(b, n.Left())
		b.WriteByte(' ')
		b.WriteString(n.Op)
		b.WriteByte(' ')
		writeExpr(b, n.Right())
	case KindAssign:
		writeExpr(b, n.Left())
		b.WriteByte(' ')
		b.WriteString(n.Op)
		b.WriteByte(' ')
		writeExpr(b, n.Right())
	case KindUpdate:
		if n.Prefix {
			b.WriteString(n.Op)
			writeExpr(b, n.Operand())
		} else {
			writeExpr(b, n.Operand())
			b.WriteString(n.Op)
		}
	case KindSpread:
		b.WriteString("...")
		writeExpr(b, n.Operand())
	default:
		b.WriteString("…")
	}
}

func writeList(b *strings.Builder, nodes []*Node) {
	for i, n := range nodes {
		if i > 0 {
			b.WriteString(", ")
		}
		writeExpr(b, n)
	}
}
