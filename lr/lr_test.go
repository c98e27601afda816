package lr

import (
	"bytes"
	"sort"
	"strings"
	"testing"

	"github.com/npillmayer/rubin"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
)

func docGrammar(t *testing.T) *Grammar {
	b := NewGrammarBuilder("G")
	b.LHS("S").N("A").T("a", 1).End()
	b.LHS("A").N("B").N("D").End()
	b.LHS("B").T("b", 2).End()
	b.LHS("B").Epsilon()
	b.LHS("D").T("d", 3).End()
	b.LHS("D").Epsilon()
	g, err := b.Grammar()
	if err != nil {
		t.Fatal(err)
	}
	return g
}

func TestGrammarBuilder(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "rubin.lr")
	defer teardown()
	//
	g := docGrammar(t)
	g.Dump()
	if g.Size() != 7 {
		t.Errorf("expected grammar to have 7 rules, has %d", g.Size())
	}
	if g.Rule(0).LHS.Name != "S'" || g.Rule(0).RHS()[0].Name != "S" {
		t.Errorf("expected start rule S' ::= S, is %v", g.Rule(0))
	}
	if !g.Rule(4).IsEps() {
		t.Errorf("expected rule 4 to be an epsilon rule: %v", g.Rule(4))
	}
	if a := g.Terminal(1); a == nil || a.Name != "a" {
		t.Errorf("expected token value 1 to denote terminal 'a'")
	}
	if A := g.SymbolByName("A"); A == nil || A.IsTerminal() || A.Value <= 3 {
		t.Errorf("expected A to be a non-terminal with column > 3, is %v", A)
	}
}

func TestGrammarBuilderErrors(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "rubin.lr")
	defer teardown()
	//
	b := NewGrammarBuilder("Broken")
	b.LHS("S").N("X").T("a", 1).End()
	b.LHS("S").T("b", 1).End() // token value used twice
	if _, err := b.Grammar(); err == nil {
		t.Errorf("expected errors for undefined X and duplicate token value")
	} else if !strings.Contains(err.Error(), "X has no rules") {
		t.Errorf("expected undefined non-terminal to be reported, have %v", err)
	}
}

func tokset(tt []rubin.TokType) []int {
	r := make([]int, len(tt))
	for i, t := range tt {
		r[i] = int(t)
	}
	sort.Ints(r)
	return r
}

func equalInts(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestFirstFollow(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "rubin.lr")
	defer teardown()
	//
	g := docGrammar(t)
	ga := Analysis(g)
	for _, test := range []struct {
		sym      string
		first    []int
		follow   []int
		nullable bool
	}{
		{"S", []int{1, 2, 3}, []int{int(EOFType)}, false},
		{"A", []int{2, 3}, []int{1}, true},
		{"B", []int{2}, []int{1, 3}, true},
		{"D", []int{3}, []int{1}, true},
	} {
		A := g.SymbolByName(test.sym)
		if first := tokset(ga.First(A)); !equalInts(first, test.first) {
			t.Errorf("FIRST(%s): expected %v, have %v", test.sym, test.first, first)
		}
		if follow := tokset(ga.Follow(A)); !equalInts(follow, test.follow) {
			t.Errorf("FOLLOW(%s): expected %v, have %v", test.sym, test.follow, follow)
		}
		if ga.Nullable(A) != test.nullable {
			t.Errorf("expected nullable(%s) = %v", test.sym, test.nullable)
		}
	}
}

func TestAnalysisIndependentOfTraceLevel(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "rubin.lr")
	defer teardown()
	//
	states := make(map[tracing.TraceLevel]int)
	for _, level := range []tracing.TraceLevel{tracing.LevelError, tracing.LevelDebug} {
		tracer().SetTraceLevel(level)
		g := docGrammar(t)
		ga := Analysis(g)
		if first := tokset(ga.First(g.SymbolByName("A"))); !equalInts(first, []int{2, 3}) {
			t.Errorf("%s: FIRST(A) = %v", level, first)
		}
		lrgen := NewTableGenerator(ga)
		lrgen.CreateTables()
		states[level] = lrgen.CFSM().StateCount()
	}
	if states[tracing.LevelError] != states[tracing.LevelDebug] {
		t.Errorf("expected same CFSM with and without tracing, have %v", states)
	}
}

func TestKernelSignature(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "rubin.lr")
	defer teardown()
	//
	g := docGrammar(t)
	k1 := kernel{StartItem(g.Rule(2)).Advance(), StartItem(g.Rule(1))}.sort()
	k2 := kernel{StartItem(g.Rule(1)), StartItem(g.Rule(2)).Advance()}.sort()
	if !k1.equals(k2) || k1.signature() != k2.signature() {
		t.Errorf("expected equal kernels to have equal signatures")
	}
	k3 := kernel{StartItem(g.Rule(1))}
	if k1.signature() == k3.signature() {
		t.Errorf("expected different kernels to have different signatures")
	}
}

func exprGrammar(t *testing.T) *Grammar {
	b := NewGrammarBuilder("Expr")
	b.Left("+", "-")
	b.Left("*")
	b.Right("UMINUS")
	b.LHS("E").N("E").T("+", '+').N("E").End()
	b.LHS("E").N("E").T("-", '-').N("E").End()
	b.LHS("E").N("E").T("*", '*').N("E").End()
	b.LHS("E").T("-", '-').N("E").Prec("UMINUS").End()
	b.LHS("E").T("(", '(').N("E").T(")", ')').End()
	b.LHS("E").T("n", 'n').End()
	g, err := b.Grammar()
	if err != nil {
		t.Fatal(err)
	}
	return g
}

func TestPrecedenceResolvesConflicts(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "rubin.lr")
	defer teardown()
	//
	g := exprGrammar(t)
	lrgen := NewTableGenerator(Analysis(g))
	lrgen.CreateTables()
	if lrgen.HasConflicts {
		for _, c := range lrgen.Conflicts() {
			t.Logf("%v", c)
		}
		t.Errorf("expected precedence to resolve all conflicts of %s", g.Name)
	}
	if len(lrgen.AcceptingStates()) != 1 {
		t.Errorf("expected exactly one accepting state")
	}
	// state reached by E + E must reduce on '+' (left assoc) and shift on '*'
	s := lrgen.CFSM().S0.next[g.SymbolByName("E")]
	s = s.next[g.SymbolByName("+")]
	s = s.next[g.SymbolByName("E")]
	if a := lrgen.ActionTable().Value(s.ID, '+'); a != 1 {
		t.Errorf("expected E+E • + to reduce rule 1, is %s", valstring(a, lrgen.ActionTable()))
	}
	if a := lrgen.ActionTable().Value(s.ID, '*'); a != ShiftAction {
		t.Errorf("expected E+E • * to shift, is %s", valstring(a, lrgen.ActionTable()))
	}
}

func TestNonAssocProducesErrorEntries(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "rubin.lr")
	defer teardown()
	//
	b := NewGrammarBuilder("Cmp")
	b.NonAssoc("<")
	b.LHS("E").N("E").T("<", '<').N("E").End()
	b.LHS("E").T("n", 'n').End()
	g, _ := b.Grammar()
	lrgen := NewTableGenerator(Analysis(g))
	lrgen.CreateTables()
	if lrgen.HasConflicts {
		t.Errorf("expected no unresolved conflicts")
	}
	errs := 0
	for i := 0; i < lrgen.CFSM().StateCount(); i++ {
		lrgen.ActionTable().Each(i, func(tt rubin.TokType, v int32) {
			if v == ErrorAction {
				errs++
			}
		})
	}
	if errs != 1 {
		t.Errorf("expected 1 explicit error entry, have %d", errs)
	}
}

func TestDanglingElseConflict(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "rubin.lr")
	defer teardown()
	//
	b := NewGrammarBuilder("If")
	b.LHS("S").T("if", 1).T("c", 2).N("S").End()
	b.LHS("S").T("if", 1).T("c", 2).N("S").T("else", 3).N("S").End()
	b.LHS("S").T("x", 4).End()
	g, _ := b.Grammar()
	lrgen := NewTableGenerator(Analysis(g))
	lrgen.CreateTables()
	if !lrgen.HasConflicts || len(lrgen.Conflicts()) != 1 {
		t.Fatalf("expected exactly one conflict, have %d", len(lrgen.Conflicts()))
	}
	c := lrgen.Conflicts()[0]
	if c.Other != nil || c.Lookahead.Name != "else" {
		t.Errorf("expected shift/reduce conflict on 'else', have %v", c)
	}
	if a := lrgen.ActionTable().Value(c.State, 3); a != ShiftAction {
		t.Errorf("expected conflict to be resolved by shifting, is %s", valstring(a, lrgen.ActionTable()))
	}
}

// S ::= L = R | R,  L ::= * R | id,  R ::= L
// is LALR(1), but not SLR(1).
func TestLALRButNotSLR(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "rubin.lr")
	defer teardown()
	//
	b := NewGrammarBuilder("Assign")
	b.LHS("S").N("L").T("=", '=').N("R").End()
	b.LHS("S").N("R").End()
	b.LHS("L").T("*", '*').N("R").End()
	b.LHS("L").T("id", 1).End()
	b.LHS("R").N("L").End()
	g, _ := b.Grammar()
	lrgen := NewTableGenerator(Analysis(g))
	lrgen.CreateTables()
	if lrgen.HasConflicts {
		for _, c := range lrgen.Conflicts() {
			t.Logf("%v", c)
		}
		t.Errorf("expected grammar to be LALR(1)")
	}
	if n := lrgen.CFSM().StateCount(); n != 10 {
		t.Errorf("expected 10 LR(0) states, have %d", n)
	}
}

func TestReduceReduceConflict(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "rubin.lr")
	defer teardown()
	//
	b := NewGrammarBuilder("RR")
	b.LHS("S").N("A").End()
	b.LHS("S").N("B").End()
	b.LHS("A").T("x", 1).End()
	b.LHS("B").T("x", 1).End()
	g, _ := b.Grammar()
	lrgen := NewTableGenerator(Analysis(g))
	lrgen.CreateTables()
	if len(lrgen.Conflicts()) != 1 || lrgen.Conflicts()[0].Other == nil {
		t.Fatalf("expected one reduce/reduce conflict, have %v", lrgen.Conflicts())
	}
	if c := lrgen.Conflicts()[0]; c.Other.Serial != 3 || c.Rule.Serial != 4 {
		t.Errorf("expected rule 3 to win over rule 4, have %v", c)
	}
}

func TestDefaultReductionForMidRuleAction(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "rubin.lr")
	defer teardown()
	//
	b := NewGrammarBuilder("Mid")
	b.LHS("S").T("a", 1).N("M").T("b", 2).End()
	b.LHS("S").T("c", 3).End()
	m := b.LHS("M").Epsilon()
	g, _ := b.Grammar()
	lrgen := NewTableGenerator(Analysis(g))
	lrgen.CreateTables()
	s := lrgen.CFSM().S0.next[g.SymbolByName("a")]
	if d := lrgen.DefaultReductions()[s.ID]; d != m.Serial {
		t.Errorf("expected state %d to reduce rule %d by default, is %d", s.ID, m.Serial, d)
	}
	if d := lrgen.DefaultReductions()[lrgen.CFSM().S0.ID]; d != -1 {
		t.Errorf("expected start state to have no default reduction, has %d", d)
	}
	tables := lrgen.Tables()
	exp := tables.Expected(lrgen.CFSM().S0.ID)
	if len(exp) != 2 {
		t.Errorf("expected 2 legal terminals in start state, have %v", exp)
	}
}

func TestExports(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "rubin.lr")
	defer teardown()
	//
	g := exprGrammar(t)
	lrgen := NewTableGenerator(Analysis(g))
	lrgen.CreateTables()
	var dot, html bytes.Buffer
	lrgen.CFSM().CFSM2GraphViz(&dot)
	if !strings.HasPrefix(dot.String(), "digraph {") || !strings.Contains(dot.String(), "s000") {
		t.Errorf("unexpected GraphViz output: %.60s", dot.String())
	}
	ActionTableAsHTML(lrgen, &html)
	if !strings.Contains(html.String(), "&lt;shift&gt;") {
		t.Errorf("expected HTML action table to contain shift entries")
	}
}
