package ast

import (
	"fmt"
	"math/big"
	"strconv"
	"strings"

	"github.com/npillmayer/rubin"
)

// SExpr returns a tree as an s-expression. The format is meant for tests and
// debugging:
//
//	(block (lasgn x (lit 1)) (lasgn y (call (lvar x) + (array (lit 2)))))
//
// Absent children in fixed positions are printed as nil, whereas nil literal
// nodes print as (nil).
func SExpr(n *Node) string {
	var b strings.Builder
	writeSExpr(&b, n)
	return b.String()
}

// layouts lists the fields to print per kind: A, B, C child; I name; O
// operator; L literal; * list elements; S slot; D depth. Kinds without a
// layout print their name only.
var layouts = [kindCount]string{
	Scope:     "A",
	Block:     "*",
	If:        "ABC",
	Case:      "A*C",
	When:      "AB",
	While:     "AB",
	Until:     "AB",
	Iter:      "ABC",
	For:       "ABC",
	Break:     "A",
	Next:      "A",
	Return:    "A",
	Begin:     "A",
	Rescue:    "A*C",
	ResBody:   "ACB",
	Ensure:    "AB",
	And:       "AB",
	Or:        "AB",
	Not:       "A",
	Defined:   "A",
	PostExe:   "A",
	Undef:     "*",
	Alias:     "IO",
	VAlias:    "IO",
	Yield:     "A",
	Super:     "B",
	MAsgn:     "AB*C",
	LAsgn:     "IA",
	DAsgn:     "IDA",
	DAsgnCurr: "IA",
	GAsgn:     "IA",
	IAsgn:     "IA",
	CVAsgn:    "IA",
	CVDecl:    "IA",
	CDecl:     "IBA",
	OpAsgn1:   "AOBC",
	OpAsgn2:   "AIOC",
	OpAsgnAnd: "AB",
	OpAsgnOr:  "AB",
	AttrAsgn:  "AIB",
	Call:      "AIB",
	FCall:     "IB",
	VCall:     "I",
	Array:     "*",
	Hash:      "*",
	Splat:     "A",
	ToAry:     "A",
	SValue:    "A",
	ArgsCat:   "AB",
	ArgsPush:  "AB",
	BlockPass: "AB",
	BlockArg:  "I",
	LVar:      "I",
	DVar:      "ID",
	GVar:      "I",
	IVar:      "I",
	CVar:      "I",
	Const:     "I",
	Colon2:    "AI",
	Colon3:    "I",
	NthRef:    "S",
	Lit:       "L",
	Str:       "L",
	XStr:      "L",
	DStr:      "L*",
	DXStr:     "L*",
	DRegx:     "L*",
	DRegxOnce: "L*",
	DSym:      "L*",
	EvStr:     "A",
	Dot2:      "AB",
	Dot3:      "AB",
	Flip2:     "AB",
	Flip3:     "AB",
	Match:     "A",
	Match2:    "AB",
	Match3:    "AB",
	Defn:      "IBC",
	Defs:      "AIBC",
	Class:     "ABC",
	Module:    "AC",
	SClass:    "AC",
}

// optional children are omitted instead of printed as nil.
var optional = map[Kind]string{
	Break: "A", Next: "A", Return: "A", Yield: "A", Super: "B",
	LAsgn: "A", DAsgn: "A", DAsgnCurr: "A", GAsgn: "A", IAsgn: "A",
	CVAsgn: "A", CVDecl: "AB", CDecl: "B", Call: "B", FCall: "B", AttrAsgn: "B",
	ResBody: "C", Splat: "A",
}

func writeSExpr(b *strings.Builder, n *Node) {
	if n == nil {
		b.WriteString("nil")
		return
	}
	b.WriteByte('(')
	b.WriteString(n.Kind.String())
	switch n.Kind {
	case Args:
		writeArgs(b, n)
	case BackRef:
		b.WriteString(" $")
		b.WriteRune(rune(n.Slot))
	default:
		opt := optional[n.Kind]
		for _, f := range layouts[n.Kind] {
			if strings.ContainsRune(opt, f) && field(n, f) == nil || f == '*' && len(n.List) == 0 {
				continue
			}
			b.WriteByte(' ')
			switch f {
			case 'A', 'B', 'C':
				writeSExpr(b, field(n, f))
			case 'I':
				b.WriteString(n.ID.String())
			case 'O':
				b.WriteString(n.Op.String())
			case 'L':
				b.WriteString(LitString(n.Lit))
			case 'S':
				b.WriteString(strconv.Itoa(n.Slot))
			case 'D':
				b.WriteString(strconv.Itoa(n.Depth))
			case '*':
				writeList(b, n.List)
			}
		}
	}
	b.WriteByte(')')
}

func field(n *Node, f rune) *Node {
	switch f {
	case 'A':
		return n.A
	case 'B':
		return n.B
	case 'C':
		return n.C
	}
	return nil
}

func writeList(b *strings.Builder, list []*Node) {
	for i, n := range list {
		if i > 0 {
			b.WriteByte(' ')
		}
		writeSExpr(b, n)
	}
}

// (args (lasgn a) (opt (lasgn b (lit 1))) (rest r) (block_arg blk))
func writeArgs(b *strings.Builder, n *Node) {
	for _, req := range n.List {
		b.WriteByte(' ')
		writeSExpr(b, req)
	}
	if n.A != nil {
		b.WriteString(" (opt ")
		writeList(b, Statements(n.A))
		b.WriteByte(')')
	}
	if n.ID != rubin.NoSymbol {
		b.WriteString(" (rest " + n.ID.String() + ")")
	} else if n.Flags&FlagAnonRest != 0 {
		b.WriteString(" (rest)")
	}
	if n.C != nil {
		b.WriteByte(' ')
		writeSExpr(b, n.C)
	}
}

// LitString formats a literal payload the way the s-expression dump does.
func LitString(v interface{}) string {
	switch x := v.(type) {
	case nil:
		return `""`
	case string:
		return strconv.Quote(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case *big.Int:
		return x.String()
	case float64:
		return strconv.FormatFloat(x, 'g', -1, 64)
	case rubin.SymbolID:
		return ":" + x.String()
	case *Regexp:
		return x.String()
	}
	return fmt.Sprintf("%v", v)
}
