package ast

import (
	"fmt"

	"github.com/npillmayer/rubin"
)

// Node is the homogeneous node type of syntax trees. Which fields are
// populated depends on the node's Kind; see the list of kinds.
//
// Ownership is strictly parent to child. List is frozen when the node is
// built and must not be appended to by clients.
type Node struct {
	Kind   Kind
	Pos    rubin.Position
	A      *Node
	B      *Node
	C      *Node
	List   []*Node
	ID     rubin.SymbolID   // name of a variable, method, constant or symbol
	Op     rubin.SymbolID   // operator of op-assignments, old name of aliases
	Lit    interface{}      // literal payload
	Slot   int              // local slot, group number or back-ref character
	Depth  int              // distance of a captured block variable
	Flags  int              // kind specific flags
	Locals []rubin.SymbolID // local table of Scope and Iter nodes
}

// Regexp is the literal payload of a regular expression without
// interpolation.
type Regexp struct {
	Source  string
	Options int
}

func (re *Regexp) String() string {
	return "/" + re.Source + "/" + RegexpOptionString(re.Options)
}

// RegexpOptionString returns the option letters for a set of regexp options.
func RegexpOptionString(opts int) string {
	s := ""
	for i, c := range "ixmonesu" {
		if opts&(1<<i) != 0 {
			s += string(c)
		}
	}
	return s
}

// New creates a node of kind k at a source position.
func New(k Kind, pos rubin.Position) *Node {
	return &Node{Kind: k, Pos: pos}
}

// NewNode creates a node with children.
func NewNode(k Kind, pos rubin.Position, a, b, c *Node) *Node {
	return &Node{Kind: k, Pos: pos, A: a, B: b, C: c}
}

// NewList creates a node holding a list of children. The slice is owned by
// the node afterwards.
func NewList(k Kind, pos rubin.Position, list []*Node) *Node {
	return &Node{Kind: k, Pos: pos, List: list}
}

// NewLit creates a literal node.
func NewLit(pos rubin.Position, v interface{}) *Node {
	return &Node{Kind: Lit, Pos: pos, Lit: v}
}

// NewStr creates a plain string node.
func NewStr(pos rubin.Position, s string) *Node {
	return &Node{Kind: Str, Pos: pos, Lit: s}
}

// NewName creates a node carrying a name, e.g. a variable reference.
func NewName(k Kind, pos rubin.Position, id rubin.SymbolID) *Node {
	return &Node{Kind: k, Pos: pos, ID: id}
}

// Is is a nil-safe test for the kind of a node.
func (n *Node) Is(k Kind) bool {
	return n != nil && n.Kind == k
}

// Len returns the number of list elements, 0 for nil.
func (n *Node) Len() int {
	if n == nil {
		return 0
	}
	return len(n.List)
}

// Line returns the source line of a node, 0 for nil.
func (n *Node) Line() int {
	if n == nil {
		return 0
	}
	return n.Pos.Line
}

// String returns the node as an s-expression.
func (n *Node) String() string {
	return SExpr(n)
}

// --- Typed accessors -------------------------------------------------------

// Recv returns the receiver of a call, method definition or op-assignment.
func (n *Node) Recv() *Node {
	switch n.Kind {
	case Call, AttrAsgn, OpAsgn1, OpAsgn2, Defs, SClass:
		return n.A
	}
	return nil
}

// Args returns the argument list of a call-like node or the parameter list
// of a method definition.
func (n *Node) Args() *Node {
	switch n.Kind {
	case Call, FCall, AttrAsgn, Super, OpAsgn1, Defn, Defs:
		return n.B
	case Yield:
		return n.A
	}
	return nil
}

// Cond returns the condition of a conditional or a loop.
func (n *Node) Cond() *Node {
	switch n.Kind {
	case If, While, Until:
		return n.A
	}
	return nil
}

// Then returns the then-branch of an if node.
func (n *Node) Then() *Node {
	if n.Kind == If {
		return n.B
	}
	return nil
}

// Else returns the else-branch of an if, case or rescue node.
func (n *Node) Else() *Node {
	switch n.Kind {
	case If, Case, Rescue:
		return n.C
	}
	return nil
}

// Body returns the body of a compound node.
func (n *Node) Body() *Node {
	switch n.Kind {
	case Scope, Begin, Rescue, Ensure, PostExe:
		return n.A
	case While, Until, When, ResBody:
		return n.B
	case Iter, For, Defn, Defs, Class, Module, SClass:
		return n.C
	}
	return nil
}

// Value returns the right-hand side of an assignment or the value of a
// jump or wrapper node.
func (n *Node) Value() *Node {
	switch n.Kind {
	case LAsgn, DAsgn, DAsgnCurr, GAsgn, IAsgn, CVAsgn, CVDecl, CDecl,
		Break, Next, Return, Splat, ToAry, SValue, EvStr, Not, Defined:
		return n.A
	case MAsgn, OpAsgn1, OpAsgn2:
		return n.C
	}
	return nil
}

// Name returns the name of a node as a string.
func (n *Node) Name() string {
	if n.ID == rubin.NoSymbol {
		return ""
	}
	return n.ID.String()
}

// StrValue returns the string payload of a string-like node.
func (n *Node) StrValue() (string, bool) {
	s, ok := n.Lit.(string)
	return s, ok
}

// Statements returns the statements of a node: the list of a Block, or the
// node itself as a single statement.
func Statements(n *Node) []*Node {
	if n == nil {
		return nil
	}
	if n.Kind == Block {
		return n.List
	}
	return []*Node{n}
}

// Position is a debug helper.
func (n *Node) Position() string {
	return fmt.Sprintf("%s@%s", n.Kind, n.Pos)
}
