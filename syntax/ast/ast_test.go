package ast

import (
	"math/big"
	"testing"

	"github.com/npillmayer/rubin"
)

var pos = rubin.Position{File: "test", Line: 1}

func TestSExprOfAssignments(t *testing.T) {
	x, y := rubin.Intern("x"), rubin.Intern("y")
	asgnX := NewName(LAsgn, pos, x)
	asgnX.A = NewLit(pos, int64(1))
	call := NewName(Call, pos, rubin.Intern("+"))
	call.A = NewName(LVar, pos, x)
	call.B = NewList(Array, pos, []*Node{NewLit(pos, int64(2))})
	asgnY := NewName(LAsgn, pos, y)
	asgnY.A = call
	tree := NewList(Block, pos, []*Node{asgnX, asgnY})
	expected := "(block (lasgn x (lit 1)) (lasgn y (call (lvar x) + (array (lit 2)))))"
	if s := SExpr(tree); s != expected {
		t.Errorf("expected %s, have %s", expected, s)
	}
}

func TestSExprOfLiterals(t *testing.T) {
	huge, _ := new(big.Int).SetString("123456789012345678901234567890", 10)
	for _, test := range []struct {
		node     *Node
		expected string
	}{
		{NewStr(pos, "hi\n"), `(str "hi\n")`},
		{NewLit(pos, 1.5), "(lit 1.5)"},
		{NewLit(pos, huge), "(lit 123456789012345678901234567890)"},
		{NewLit(pos, rubin.Intern("sym")), "(lit :sym)"},
		{NewLit(pos, &Regexp{Source: "a+", Options: RegexpIgnoreCase | RegexpExtended}), "(lit /a+/ix)"},
		{&Node{Kind: BackRef, Slot: '&'}, "(back_ref $&)"},
		{&Node{Kind: NthRef, Slot: 2}, "(nth_ref 2)"},
		{NewNode(If, pos, NewName(VCall, pos, rubin.Intern("x")), New(Nil, pos), nil), "(if (vcall x) (nil) nil)"},
	} {
		if s := SExpr(test.node); s != test.expected {
			t.Errorf("expected %s, have %s", test.expected, s)
		}
	}
}

func TestSExprOfArgs(t *testing.T) {
	opt := NewName(LAsgn, pos, rubin.Intern("b"))
	opt.A = NewLit(pos, int64(1))
	args := &Node{
		Kind: Args,
		List: []*Node{NewName(LAsgn, pos, rubin.Intern("a"))},
		A:    NewList(Block, pos, []*Node{opt}),
		ID:   rubin.Intern("r"),
	}
	expected := "(args (lasgn a) (opt (lasgn b (lit 1))) (rest r))"
	if s := SExpr(args); s != expected {
		t.Errorf("expected %s, have %s", expected, s)
	}
}

func TestAccessors(t *testing.T) {
	cond := NewName(VCall, pos, rubin.Intern("x"))
	n := NewNode(If, pos, cond, New(True, pos), New(False, pos))
	if n.Cond() != cond || !n.Then().Is(True) || !n.Else().Is(False) {
		t.Errorf("accessors of if node broken: %s", n)
	}
	if n.Body() != nil || n.Recv() != nil {
		t.Errorf("if node should have neither body nor receiver")
	}
	var null *Node
	if null.Is(If) || null.Len() != 0 || null.Line() != 0 {
		t.Errorf("nil node predicates should be false/zero")
	}
}

func TestWalk(t *testing.T) {
	x := rubin.Intern("x")
	tree := NewList(Block, pos, []*Node{
		NewName(LVar, pos, x),
		NewNode(If, pos, NewName(LVar, pos, x), NewName(LVar, pos, x), nil),
	})
	if cnt := Count(tree, LVar); cnt != 3 {
		t.Errorf("expected 3 lvar nodes, counted %d", cnt)
	}
	if found := Find(tree, If); found == nil || found.Kind != If {
		t.Errorf("expected to find if node")
	}
	visited := 0
	Walk(tree, func(n *Node) bool {
		visited++
		return n.Kind != If
	})
	if visited != 3 {
		t.Errorf("expected walk to skip children of if, visited %d nodes", visited)
	}
}

func TestStatementOnlyKinds(t *testing.T) {
	for _, k := range []Kind{Return, Break, Defn, Class, MAsgn, While} {
		if !k.IsStatementOnly() {
			t.Errorf("%s should be statement-only", k)
		}
	}
	if Call.IsStatementOnly() || !Retry.IsTransfer() || Defn.IsTransfer() {
		t.Errorf("kind predicates broken")
	}
}
