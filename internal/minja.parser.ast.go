package internal

import (
	"fmt"
	"strings"
)

// NodeType identifies the type of a statement AST node.
type NodeType string

// Statement node types
const (
	NodeTypeRoot        NodeType = "ROOT"
	NodeTypeText        NodeType = "TEXT"
	NodeTypeOutput      NodeType = "OUTPUT"
	NodeTypeIf          NodeType = "IF"
	NodeTypeFor         NodeType = "FOR"
	NodeTypeMacro       NodeType = "MACRO"
	NodeTypeSet         NodeType = "SET"
	NodeTypeSetBlock    NodeType = "SET_BLOCK"
	NodeTypeFilterBlock NodeType = "FILTER_BLOCK"
	NodeTypeCallBlock   NodeType = "CALL_BLOCK"
	NodeTypeGeneration  NodeType = "GENERATION"
	NodeTypeBreak       NodeType = "BREAK"
	NodeTypeContinue    NodeType = "CONTINUE"
)

// Node is the interface all statement AST nodes implement
type Node interface {
	// Type returns the node type identifier
	Type() NodeType
	// Pos returns the source position of this node
	Pos() Position
	// String returns a human-readable representation
	String() string
}

// RootNode is the top-level container for a parsed template.
type RootNode struct {
	Children []Node
}

func (n *RootNode) Type() NodeType { return NodeTypeRoot }
func (n *RootNode) Pos() Position  { return Position{Offset: 0, Line: 1, Column: 1} }
func (n *RootNode) String() string {
	var sb strings.Builder
	sb.WriteString("RootNode{\n")
	for i, child := range n.Children {
		sb.WriteString(fmt.Sprintf("  [%d] %s\n", i, child.String()))
	}
	sb.WriteString("}")
	return sb.String()
}

// TextNode is literal template text.
type TextNode struct {
	pos     Position
	Content string
}

func (n *TextNode) Type() NodeType { return NodeTypeText }
func (n *TextNode) Pos() Position  { return n.pos }
func (n *TextNode) String() string {
	content := n.Content
	if len(content) > maxTokenDisplayLength {
		content = content[:maxTokenDisplayLength] + "..."
	}
	return fmt.Sprintf("TextNode{%q @ %s}", content, n.pos)
}

// NewTextNode creates a new text node.
func NewTextNode(content string, pos Position) *TextNode {
	return &TextNode{pos: pos, Content: content}
}

// OutputNode is an interpolation: {{ expr }}.
type OutputNode struct {
	pos  Position
	Expr ExprNode
}

func (n *OutputNode) Type() NodeType { return NodeTypeOutput }
func (n *OutputNode) Pos() Position  { return n.pos }
func (n *OutputNode) String() string {
	return fmt.Sprintf("OutputNode{%s @ %s}", n.Expr, n.pos)
}

// NewOutputNode creates a new interpolation node.
func NewOutputNode(expr ExprNode, pos Position) *OutputNode {
	return &OutputNode{pos: pos, Expr: expr}
}

// IfBranch is one arm of an if statement. Cond is nil for the else arm.
type IfBranch struct {
	Cond     ExprNode
	Children []Node
	Pos      Position
}

// IfNode is an if/elif/else statement.
type IfNode struct {
	pos      Position
	Branches []IfBranch
}

func (n *IfNode) Type() NodeType { return NodeTypeIf }
func (n *IfNode) Pos() Position  { return n.pos }
func (n *IfNode) String() string {
	return fmt.Sprintf("IfNode{branches=%d @ %s}", len(n.Branches), n.pos)
}

// NewIfNode creates a new conditional node.
func NewIfNode(branches []IfBranch, pos Position) *IfNode {
	return &IfNode{pos: pos, Branches: branches}
}

// ForNode is a for loop, with optional loop filter, else arm and
// recursive re-entry.
type ForNode struct {
	pos       Position
	Targets   []string
	Iterable  ExprNode
	Cond      ExprNode // loop filter, nil when absent
	Recursive bool
	Children  []Node
	Else      []Node
}

func (n *ForNode) Type() NodeType { return NodeTypeFor }
func (n *ForNode) Pos() Position  { return n.pos }
func (n *ForNode) String() string {
	return fmt.Sprintf("ForNode{%s in %s, children=%d @ %s}",
		strings.Join(n.Targets, ", "), n.Iterable, len(n.Children), n.pos)
}

// NewForNode creates a new loop node.
func NewForNode(targets []string, iterable, cond ExprNode, recursive bool, children, els []Node, pos Position) *ForNode {
	return &ForNode{
		pos:       pos,
		Targets:   targets,
		Iterable:  iterable,
		Cond:      cond,
		Recursive: recursive,
		Children:  children,
		Else:      els,
	}
}

// MacroParam is a single macro parameter with an optional default
// expression, evaluated freshly at each call.
type MacroParam struct {
	Name    string
	Default ExprNode
}

// MacroNode is a macro definition.
type MacroNode struct {
	pos      Position
	Name     string
	Params   []MacroParam
	Children []Node
}

func (n *MacroNode) Type() NodeType { return NodeTypeMacro }
func (n *MacroNode) Pos() Position  { return n.pos }
func (n *MacroNode) String() string {
	return fmt.Sprintf("MacroNode{%s, params=%d, children=%d @ %s}",
		n.Name, len(n.Params), len(n.Children), n.pos)
}

// NewMacroNode creates a new macro definition node.
func NewMacroNode(name string, params []MacroParam, children []Node, pos Position) *MacroNode {
	return &MacroNode{pos: pos, Name: name, Params: params, Children: children}
}

// SetNode is an inline assignment. Either Targets is set (plain or
// destructuring assignment) or NamespaceVar/Attr (namespace attribute
// assignment).
type SetNode struct {
	pos          Position
	Targets      []string
	NamespaceVar string
	Attr         string
	Value        ExprNode
}

func (n *SetNode) Type() NodeType { return NodeTypeSet }
func (n *SetNode) Pos() Position  { return n.pos }
func (n *SetNode) String() string {
	if n.NamespaceVar != "" {
		return fmt.Sprintf("SetNode{%s.%s = %s @ %s}", n.NamespaceVar, n.Attr, n.Value, n.pos)
	}
	return fmt.Sprintf("SetNode{%s = %s @ %s}", strings.Join(n.Targets, ", "), n.Value, n.pos)
}

// NewSetNode creates a new assignment node.
func NewSetNode(targets []string, value ExprNode, pos Position) *SetNode {
	return &SetNode{pos: pos, Targets: targets, Value: value}
}

// NewSetAttrNode creates a namespace attribute assignment node.
func NewSetAttrNode(namespaceVar, attr string, value ExprNode, pos Position) *SetNode {
	return &SetNode{pos: pos, NamespaceVar: namespaceVar, Attr: attr, Value: value}
}

// SetBlockNode is a block assignment: {% set x %}...{% endset %}.
type SetBlockNode struct {
	pos      Position
	Target   string
	Children []Node
}

func (n *SetBlockNode) Type() NodeType { return NodeTypeSetBlock }
func (n *SetBlockNode) Pos() Position  { return n.pos }
func (n *SetBlockNode) String() string {
	return fmt.Sprintf("SetBlockNode{%s, children=%d @ %s}", n.Target, len(n.Children), n.pos)
}

// NewSetBlockNode creates a new block assignment node.
func NewSetBlockNode(target string, children []Node, pos Position) *SetBlockNode {
	return &SetBlockNode{pos: pos, Target: target, Children: children}
}

// FilterBlockNode pipes its rendered body through a filter:
// {% filter upper %}...{% endfilter %}.
type FilterBlockNode struct {
	pos      Position
	Name     string
	Args     ArgList
	Children []Node
}

func (n *FilterBlockNode) Type() NodeType { return NodeTypeFilterBlock }
func (n *FilterBlockNode) Pos() Position  { return n.pos }
func (n *FilterBlockNode) String() string {
	return fmt.Sprintf("FilterBlockNode{%s, children=%d @ %s}", n.Name, len(n.Children), n.pos)
}

// NewFilterBlockNode creates a new filter block node.
func NewFilterBlockNode(name string, args ArgList, children []Node, pos Position) *FilterBlockNode {
	return &FilterBlockNode{pos: pos, Name: name, Args: args, Children: children}
}

// CallBlockNode invokes a macro with its body exposed as caller():
// {% call m() %}...{% endcall %}.
type CallBlockNode struct {
	pos          Position
	CallerParams []MacroParam
	Call         *CallExpr
	Children     []Node
}

func (n *CallBlockNode) Type() NodeType { return NodeTypeCallBlock }
func (n *CallBlockNode) Pos() Position  { return n.pos }
func (n *CallBlockNode) String() string {
	return fmt.Sprintf("CallBlockNode{%s, children=%d @ %s}", n.Call, len(n.Children), n.pos)
}

// NewCallBlockNode creates a new call block node.
func NewCallBlockNode(callerParams []MacroParam, call *CallExpr, children []Node, pos Position) *CallBlockNode {
	return &CallBlockNode{pos: pos, CallerParams: callerParams, Call: call, Children: children}
}

// GenerationNode marks a region of assistant-generated output. Rendering
// is pass-through.
type GenerationNode struct {
	pos      Position
	Children []Node
}

func (n *GenerationNode) Type() NodeType { return NodeTypeGeneration }
func (n *GenerationNode) Pos() Position  { return n.pos }
func (n *GenerationNode) String() string {
	return fmt.Sprintf("GenerationNode{children=%d @ %s}", len(n.Children), n.pos)
}

// NewGenerationNode creates a new generation block node.
func NewGenerationNode(children []Node, pos Position) *GenerationNode {
	return &GenerationNode{pos: pos, Children: children}
}

// BreakNode exits the innermost loop.
type BreakNode struct {
	pos Position
}

func (n *BreakNode) Type() NodeType { return NodeTypeBreak }
func (n *BreakNode) Pos() Position  { return n.pos }
func (n *BreakNode) String() string { return fmt.Sprintf("BreakNode{@ %s}", n.pos) }

// NewBreakNode creates a new break node.
func NewBreakNode(pos Position) *BreakNode {
	return &BreakNode{pos: pos}
}

// ContinueNode skips to the next loop iteration.
type ContinueNode struct {
	pos Position
}

func (n *ContinueNode) Type() NodeType { return NodeTypeContinue }
func (n *ContinueNode) Pos() Position  { return n.pos }
func (n *ContinueNode) String() string { return fmt.Sprintf("ContinueNode{@ %s}", n.pos) }

// NewContinueNode creates a new continue node.
func NewContinueNode(pos Position) *ContinueNode {
	return &ContinueNode{pos: pos}
}
