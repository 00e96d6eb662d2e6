package internal

import (
	"fmt"
	"strings"
)

// ExprNodeType identifies the type of an expression AST node.
type ExprNodeType string

// Expression node types
const (
	ExprNodeLiteral  ExprNodeType = "LITERAL"
	ExprNodeVariable ExprNodeType = "VARIABLE"
	ExprNodeUnary    ExprNodeType = "UNARY"
	ExprNodeBinary   ExprNodeType = "BINARY"
	ExprNodeCond     ExprNodeType = "COND"
	ExprNodeList     ExprNodeType = "LIST"
	ExprNodeDict     ExprNodeType = "DICT"
	ExprNodeAttr     ExprNodeType = "ATTR"
	ExprNodeIndex    ExprNodeType = "INDEX"
	ExprNodeSlice    ExprNodeType = "SLICE"
	ExprNodeCall     ExprNodeType = "CALL"
	ExprNodeMethod   ExprNodeType = "METHOD"
	ExprNodeFilter   ExprNodeType = "FILTER"
	ExprNodeTest     ExprNodeType = "TEST"
)

// ExprNode is the interface implemented by all expression AST nodes.
type ExprNode interface {
	// Type returns the node type identifier
	Type() ExprNodeType
	// Pos returns the source position of this node
	Pos() Position
	// String returns a human-readable representation
	String() string
	// exprNode is a marker method to seal the interface
	exprNode()
}

// Arg is a single positional call argument, optionally spread from an
// iterable (star unpacking).
type Arg struct {
	Expr   ExprNode
	Unpack bool
}

// KwArg is a keyword call argument.
type KwArg struct {
	Name string
	Expr ExprNode
}

// ArgList holds the arguments of a call, method, filter or test.
type ArgList struct {
	Positional []Arg
	Keyword    []KwArg
}

// String returns a human-readable representation of the argument list.
func (a ArgList) String() string {
	parts := make([]string, 0, len(a.Positional)+len(a.Keyword))
	for _, p := range a.Positional {
		if p.Unpack {
			parts = append(parts, "*"+p.Expr.String())
		} else {
			parts = append(parts, p.Expr.String())
		}
	}
	for _, k := range a.Keyword {
		parts = append(parts, k.Name+"="+k.Expr.String())
	}
	return strings.Join(parts, ", ")
}

// LiteralExpr is a constant value: number, string, boolean or none.
type LiteralExpr struct {
	pos Position
	Val Value
}

func (n *LiteralExpr) Type() ExprNodeType { return ExprNodeLiteral }
func (n *LiteralExpr) Pos() Position      { return n.pos }
func (n *LiteralExpr) String() string     { return n.Val.Repr() }
func (n *LiteralExpr) exprNode()          {}

// NewLiteralExpr creates a new literal node.
func NewLiteralExpr(val Value, pos Position) *LiteralExpr {
	return &LiteralExpr{pos: pos, Val: val}
}

// VariableExpr is a bare identifier resolved against the scope chain.
type VariableExpr struct {
	pos  Position
	Name string
}

func (n *VariableExpr) Type() ExprNodeType { return ExprNodeVariable }
func (n *VariableExpr) Pos() Position      { return n.pos }
func (n *VariableExpr) String() string     { return n.Name }
func (n *VariableExpr) exprNode()          {}

// NewVariableExpr creates a new variable reference node.
func NewVariableExpr(name string, pos Position) *VariableExpr {
	return &VariableExpr{pos: pos, Name: name}
}

// UnaryExpr is a prefix operation: -, + or not.
type UnaryExpr struct {
	pos     Position
	Op      string
	Operand ExprNode
}

func (n *UnaryExpr) Type() ExprNodeType { return ExprNodeUnary }
func (n *UnaryExpr) Pos() Position      { return n.pos }
func (n *UnaryExpr) String() string     { return fmt.Sprintf("(%s %s)", n.Op, n.Operand) }
func (n *UnaryExpr) exprNode()          {}

// NewUnaryExpr creates a new unary operation node.
func NewUnaryExpr(op string, operand ExprNode, pos Position) *UnaryExpr {
	return &UnaryExpr{pos: pos, Op: op, Operand: operand}
}

// BinaryExpr is an infix operation. Op is one of: or, and, ==, !=, <, <=,
// >, >=, in, not in, ~, +, -, *, /, //, %.
type BinaryExpr struct {
	pos   Position
	Op    string
	Left  ExprNode
	Right ExprNode
}

func (n *BinaryExpr) Type() ExprNodeType { return ExprNodeBinary }
func (n *BinaryExpr) Pos() Position      { return n.pos }
func (n *BinaryExpr) String() string     { return fmt.Sprintf("(%s %s %s)", n.Left, n.Op, n.Right) }
func (n *BinaryExpr) exprNode()          {}

// NewBinaryExpr creates a new binary operation node.
func NewBinaryExpr(op string, left, right ExprNode, pos Position) *BinaryExpr {
	return &BinaryExpr{pos: pos, Op: op, Left: left, Right: right}
}

// CondExpr is an if-expression: Then if Cond [else Else]. Else may be nil,
// in which case the expression yields the undefined value.
type CondExpr struct {
	pos  Position
	Cond ExprNode
	Then ExprNode
	Else ExprNode
}

func (n *CondExpr) Type() ExprNodeType { return ExprNodeCond }
func (n *CondExpr) Pos() Position      { return n.pos }
func (n *CondExpr) String() string {
	if n.Else == nil {
		return fmt.Sprintf("(%s if %s)", n.Then, n.Cond)
	}
	return fmt.Sprintf("(%s if %s else %s)", n.Then, n.Cond, n.Else)
}
func (n *CondExpr) exprNode() {}

// NewCondExpr creates a new if-expression node.
func NewCondExpr(cond, then, els ExprNode, pos Position) *CondExpr {
	return &CondExpr{pos: pos, Cond: cond, Then: then, Else: els}
}

// ListExpr is a list or tuple literal.
type ListExpr struct {
	pos   Position
	Items []ExprNode
}

func (n *ListExpr) Type() ExprNodeType { return ExprNodeList }
func (n *ListExpr) Pos() Position      { return n.pos }
func (n *ListExpr) String() string {
	parts := make([]string, len(n.Items))
	for i, item := range n.Items {
		parts[i] = item.String()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}
func (n *ListExpr) exprNode() {}

// NewListExpr creates a new list literal node.
func NewListExpr(items []ExprNode, pos Position) *ListExpr {
	return &ListExpr{pos: pos, Items: items}
}

// DictExpr is a dict literal. Keys and Values are parallel slices in
// source order.
type DictExpr struct {
	pos    Position
	Keys   []ExprNode
	Values []ExprNode
}

func (n *DictExpr) Type() ExprNodeType { return ExprNodeDict }
func (n *DictExpr) Pos() Position      { return n.pos }
func (n *DictExpr) String() string {
	parts := make([]string, len(n.Keys))
	for i := range n.Keys {
		parts[i] = n.Keys[i].String() + ": " + n.Values[i].String()
	}
	return "{" + strings.Join(parts, ", ") + "}"
}
func (n *DictExpr) exprNode() {}

// NewDictExpr creates a new dict literal node.
func NewDictExpr(keys, values []ExprNode, pos Position) *DictExpr {
	return &DictExpr{pos: pos, Keys: keys, Values: values}
}

// AttrExpr is a dotted attribute access: Base.Name.
type AttrExpr struct {
	pos  Position
	Base ExprNode
	Name string
}

func (n *AttrExpr) Type() ExprNodeType { return ExprNodeAttr }
func (n *AttrExpr) Pos() Position      { return n.pos }
func (n *AttrExpr) String() string     { return n.Base.String() + "." + n.Name }
func (n *AttrExpr) exprNode()          {}

// NewAttrExpr creates a new attribute access node.
func NewAttrExpr(base ExprNode, name string, pos Position) *AttrExpr {
	return &AttrExpr{pos: pos, Base: base, Name: name}
}

// IndexExpr is a subscript access: Base[Key].
type IndexExpr struct {
	pos  Position
	Base ExprNode
	Key  ExprNode
}

func (n *IndexExpr) Type() ExprNodeType { return ExprNodeIndex }
func (n *IndexExpr) Pos() Position      { return n.pos }
func (n *IndexExpr) String() string     { return fmt.Sprintf("%s[%s]", n.Base, n.Key) }
func (n *IndexExpr) exprNode()          {}

// NewIndexExpr creates a new subscript node.
func NewIndexExpr(base, key ExprNode, pos Position) *IndexExpr {
	return &IndexExpr{pos: pos, Base: base, Key: key}
}

// SliceExpr is a slice access: Base[Start:Stop:Step]. Any of Start, Stop
// and Step may be nil.
type SliceExpr struct {
	pos   Position
	Base  ExprNode
	Start ExprNode
	Stop  ExprNode
	Step  ExprNode
}

func (n *SliceExpr) Type() ExprNodeType { return ExprNodeSlice }
func (n *SliceExpr) Pos() Position      { return n.pos }
func (n *SliceExpr) String() string {
	part := func(e ExprNode) string {
		if e == nil {
			return ""
		}
		return e.String()
	}
	return fmt.Sprintf("%s[%s:%s:%s]", n.Base, part(n.Start), part(n.Stop), part(n.Step))
}
func (n *SliceExpr) exprNode() {}

// NewSliceExpr creates a new slice node.
func NewSliceExpr(base, start, stop, step ExprNode, pos Position) *SliceExpr {
	return &SliceExpr{pos: pos, Base: base, Start: start, Stop: stop, Step: step}
}

// CallExpr invokes a callable value: Callee(Args).
type CallExpr struct {
	pos    Position
	Callee ExprNode
	Args   ArgList
}

func (n *CallExpr) Type() ExprNodeType { return ExprNodeCall }
func (n *CallExpr) Pos() Position      { return n.pos }
func (n *CallExpr) String() string     { return fmt.Sprintf("%s(%s)", n.Callee, n.Args) }
func (n *CallExpr) exprNode()          {}

// NewCallExpr creates a new call node.
func NewCallExpr(callee ExprNode, args ArgList, pos Position) *CallExpr {
	return &CallExpr{pos: pos, Callee: callee, Args: args}
}

// MethodExpr invokes a method on a value: Base.Name(Args).
type MethodExpr struct {
	pos  Position
	Base ExprNode
	Name string
	Args ArgList
}

func (n *MethodExpr) Type() ExprNodeType { return ExprNodeMethod }
func (n *MethodExpr) Pos() Position      { return n.pos }
func (n *MethodExpr) String() string     { return fmt.Sprintf("%s.%s(%s)", n.Base, n.Name, n.Args) }
func (n *MethodExpr) exprNode()          {}

// NewMethodExpr creates a new method call node.
func NewMethodExpr(base ExprNode, name string, args ArgList, pos Position) *MethodExpr {
	return &MethodExpr{pos: pos, Base: base, Name: name, Args: args}
}

// FilterExpr applies a named filter: Base | Name(Args).
type FilterExpr struct {
	pos  Position
	Base ExprNode
	Name string
	Args ArgList
}

func (n *FilterExpr) Type() ExprNodeType { return ExprNodeFilter }
func (n *FilterExpr) Pos() Position      { return n.pos }
func (n *FilterExpr) String() string     { return fmt.Sprintf("(%s | %s(%s))", n.Base, n.Name, n.Args) }
func (n *FilterExpr) exprNode()          {}

// NewFilterExpr creates a new filter application node.
func NewFilterExpr(base ExprNode, name string, args ArgList, pos Position) *FilterExpr {
	return &FilterExpr{pos: pos, Base: base, Name: name, Args: args}
}

// TestExpr applies a named test: Base is [not] Name(Args).
type TestExpr struct {
	pos     Position
	Base    ExprNode
	Name    string
	Args    ArgList
	Negated bool
}

func (n *TestExpr) Type() ExprNodeType { return ExprNodeTest }
func (n *TestExpr) Pos() Position      { return n.pos }
func (n *TestExpr) String() string {
	if n.Negated {
		return fmt.Sprintf("(%s is not %s(%s))", n.Base, n.Name, n.Args)
	}
	return fmt.Sprintf("(%s is %s(%s))", n.Base, n.Name, n.Args)
}
func (n *TestExpr) exprNode() {}

// NewTestExpr creates a new test application node.
func NewTestExpr(base ExprNode, name string, args ArgList, negated bool, pos Position) *TestExpr {
	return &TestExpr{pos: pos, Base: base, Name: name, Args: args, Negated: negated}
}
