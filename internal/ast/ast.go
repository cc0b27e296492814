// Package ast defines the syntax tree the analyzer operates on: a closed
// tagged union of JavaScript node kinds with parent back-references.
//
// The tree is immutable once built. Every node owns its children; the
// Parent pointer is a non-owning back-reference used for outward walks
// only. Constructs the analyzer has no opinion about are lowered to
// KindUnknown, which still exposes its children so catalog scans stay
// total over arbitrary input.
package ast

// Kind discriminates the node union. Switches over Kind should handle
// every analyzer-relevant case explicitly and treat the default arm as
// "not provable"; adding a Kind means revisiting every such switch.
type Kind uint8

const (
	KindProgram Kind = iota
	KindIdentifier
	KindLiteral
	KindTemplateLit
	KindArrayLit
	KindObjectLit
	KindProperty
	KindMember
	KindCall
	KindNew
	KindUnary
	KindBinary
	KindAssign
	KindUpdate
	KindVarDecl
	KindDeclarator
	KindFunction
	KindBlock
	KindForIn
	KindForOf
	KindArrayPattern
	KindObjectPattern
	KindRestPattern
	KindAssignPattern
	KindSpread
	KindUnknown
)

var kindNames = [...]string{
	KindProgram:       "program",
	KindIdentifier:    "identifier",
	KindLiteral:       "literal",
	KindTemplateLit:   "template_literal",
	KindArrayLit:      "array",
	KindObjectLit:     "object",
	KindProperty:      "property",
	KindMember:        "member",
	KindCall:          "call",
	KindNew:           "new",
	KindUnary:         "unary",
	KindBinary:        "binary",
	KindAssign:        "assignment",
	KindUpdate:        "update",
	KindVarDecl:       "variable_declaration",
	KindDeclarator:    "variable_declarator",
	KindFunction:      "function",
	KindBlock:         "block",
	KindForIn:         "for_in",
	KindForOf:         "for_of",
	KindArrayPattern:  "array_pattern",
	KindObjectPattern: "object_pattern",
	KindRestPattern:   "rest_pattern",
	KindAssignPattern: "assignment_pattern",
	KindSpread:        "spread",
	KindUnknown:       "unknown",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "invalid"
}

// LitKind discriminates literal nodes.
type LitKind uint8

const (
	LitNumber LitKind = iota
	LitString
	LitBool
	LitNull
	LitRegex
)

// DeclMode is the declaration keyword of a KindVarDecl.
type DeclMode uint8

const (
	DeclVar DeclMode = iota // function-scoped
	DeclLet                 // block-scoped
	DeclConst
)

func (m DeclMode) String() string {
	switch m {
	case DeclVar:
		return "var"
	case DeclLet:
		return "let"
	default:
		return "const"
	}
}

// Pos is a source position: 1-based line, 0-based column.
type Pos struct {
	Line int
	Col  int
}

// Node is one node of the union. Which scalar fields and which Children
// slots are meaningful depends on Kind:
//
//	KindProgram, KindBlock      Children = statements
//	KindIdentifier              Name
//	KindLiteral                 Lit, Raw, Num (Num only for LitNumber)
//	KindTemplateLit             Raw, Children = embedded expressions
//	KindArrayLit                Children = elements
//	KindObjectLit               Children = properties
//	KindProperty                Computed, Children = [key, value]
//	KindMember                  Computed, Children = [object, property]
//	KindCall, KindNew           Children = [callee, args...]
//	KindUnary                   Op, Children = [operand]
//	KindBinary, KindAssign      Op, Children = [left, right]
//	KindUpdate                  Op, Prefix, Children = [operand]
//	KindVarDecl                 Mode, Children = declarators
//	KindDeclarator              Children = [pattern] or [pattern, init]
//	KindFunction                Name (empty if anonymous), Children = [params..., body]
//	KindForIn, KindForOf        Children = [left, right, body]
//	KindArrayPattern            Children = elements
//	KindObjectPattern           Children = properties
//	KindRestPattern, KindSpread Children = [argument]
//	KindAssignPattern           Children = [target, default]
//	KindUnknown                 Raw = source node type, Children = whatever was under it
//
// Children never contains nil.
type Node struct {
	Kind   Kind
	Parent *Node

	Name     string
	Lit      LitKind
	Raw      string
	Num      float64
	Op       string
	Prefix   bool
	Computed bool
	Mode     DeclMode

	Children []*Node

	Start, End Pos
}

// Object returns the base of a member access.
func (n *Node) Object() *Node { return n.Children[0] }

// PropertyNode returns the property side of a member access.
func (n *Node) PropertyNode() *Node { return n.Children[1] }

// Callee returns the callee of a call or new expression.
func (n *Node) Callee() *Node { return n.Children[0] }

// Args returns the arguments of a call or new expression.
func (n *Node) Args() []*Node { return n.Children[1:] }

// Left returns the left operand of a binary or assignment node.
func (n *Node) Left() *Node { return n.Children[0] }

// Right returns the right operand of a binary or assignment node.
func (n *Node) Right() *Node { return n.Children[1] }

// Operand returns the single child of a unary, update, rest, or spread node.
func (n *Node) Operand() *Node { return n.Children[0] }

// Pattern returns the binding pattern of a declarator.
func (n *Node) Pattern() *Node { return n.Children[0] }

// Init returns the initializer of a declarator, or nil if absent.
func (n *Node) Init() *Node {
	if len(n.Children) < 2 {
		return nil
	}
	return n.Children[1]
}

// Params returns the parameter patterns of a function node.
func (n *Node) Params() []*Node { return n.Children[:len(n.Children)-1] }

// Body returns the body of a function node.
func (n *Node) Body() *Node { return n.Children[len(n.Children)-1] }

// IsFunctionBoundary reports whether n opens a new function-level binding
// surface. The program root counts as the outermost boundary.
func (n *Node) IsFunctionBoundary() bool {
	return n.Kind == KindFunction || n.Kind == KindProgram
}

// EnclosingFunction returns the nearest enclosing function boundary of n,
// which is the program root if n is at top level. Returns nil only for a
// detached node.
func (n *Node) EnclosingFunction() *Node {
	for p := n.Parent; p != nil; p = p.Parent {
		if p.IsFunctionBoundary() {
			return p
		}
	}
	return nil
}

// attach links children to their parent and returns the parent, so the
// builder helpers below can be nested like the expressions they build.
func attach(parent *Node, children []*Node) *Node {
	for _, c := range children {
		c.Parent = parent
	}
	parent.Children = children
	return parent
}

// Builder helpers. The parser uses these to lower tree-sitter nodes, and
// tests use them to assemble units directly.

func Program(stmts ...*Node) *Node {
	return attach(&Node{Kind: KindProgram}, stmts)
}

func Ident(name string) *Node {
	return &Node{Kind: KindIdentifier, Name: name}
}

func Number(raw string, value float64) *Node {
	return &Node{Kind: KindLiteral, Lit: LitNumber, Raw: raw, Num: value}
}

func String(value string) *Node {
	return &Node{Kind: KindLiteral, Lit: LitString, Raw: value}
}

func Bool(value bool) *Node {
	raw := "false"
	if value {
		raw = "true"
	}
	return &Node{Kind: KindLiteral, Lit: LitBool, Raw: raw}
}

func Null() *Node {
	return &Node{Kind: KindLiteral, Lit: LitNull, Raw: "null"}
}

func Template(raw string, exprs ...*Node) *Node {
	return attach(&Node{Kind: KindTemplateLit, Raw: raw}, exprs)
}

func Array(elems ...*Node) *Node {
	return attach(&Node{Kind: KindArrayLit}, elems)
}

func Object(props ...*Node) *Node {
	return attach(&Node{Kind: KindObjectLit}, props)
}

func Prop(key, value *Node) *Node {
	return attach(&Node{Kind: KindProperty}, []*Node{key, value})
}

// Member builds a dot access: object.property.
func Member(object, property *Node) *Node {
	return attach(&Node{Kind: KindMember}, []*Node{object, property})
}

// Index builds a computed access: object[property].
func Index(object, property *Node) *Node {
	return attach(&Node{Kind: KindMember, Computed: true}, []*Node{object, property})
}

func Call(callee *Node, args ...*Node) *Node {
	return attach(&Node{Kind: KindCall}, append([]*Node{callee}, args...))
}

func NewExpr(callee *Node, args ...*Node) *Node {
	return attach(&Node{Kind: KindNew}, append([]*Node{callee}, args...))
}

func Unary(op string, operand *Node) *Node {
	return attach(&Node{Kind: KindUnary, Op: op}, []*Node{operand})
}

func Binary(op string, left, right *Node) *Node {
	return attach(&Node{Kind: KindBinary, Op: op}, []*Node{left, right})
}

func Assign(op string, target, value *Node) *Node {
	return attach(&Node{Kind: KindAssign, Op: op}, []*Node{target, value})
}

func Update(op string, operand *Node, prefix bool) *Node {
	return attach(&Node{Kind: KindUpdate, Op: op, Prefix: prefix}, []*Node{operand})
}

func VarDecl(mode DeclMode, declarators ...*Node) *Node {
	return attach(&Node{Kind: KindVarDecl, Mode: mode}, declarators)
}

func Declarator(pattern *Node, init *Node) *Node {
	children := []*Node{pattern}
	if init != nil {
		children = append(children, init)
	}
	return attach(&Node{Kind: KindDeclarator}, children)
}

func Func(name string, params []*Node, body *Node) *Node {
	return attach(&Node{Kind: KindFunction, Name: name}, append(append([]*Node{}, params...), body))
}

func Block(stmts ...*Node) *Node {
	return attach(&Node{Kind: KindBlock}, stmts)
}

func ForIn(left, right, body *Node) *Node {
	return attach(&Node{Kind: KindForIn}, []*Node{left, right, body})
}

func ForOf(left, right, body *Node) *Node {
	return attach(&Node{Kind: KindForOf}, []*Node{left, right, body})
}

func ArrayPattern(elems ...*Node) *Node {
	return attach(&Node{Kind: KindArrayPattern}, elems)
}

func ObjectPattern(props ...*Node) *Node {
	return attach(&Node{Kind: KindObjectPattern}, props)
}

func RestPattern(arg *Node) *Node {
	return attach(&Node{Kind: KindRestPattern}, []*Node{arg})
}

func AssignPattern(target, def *Node) *Node {
	return attach(&Node{Kind: KindAssignPattern}, []*Node{target, def})
}

func Spread(arg *Node) *Node {
	return attach(&Node{Kind: KindSpread}, []*Node{arg})
}

func Unknown(raw string, children ...*Node) *Node {
	return attach(&Node{Kind: KindUnknown, Raw: raw}, children)
}
