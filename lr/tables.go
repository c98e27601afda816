package lr

import (
	"fmt"
	"io"
	"strings"

	"github.com/emirpasic/gods/lists/arraylist"
	"github.com/emirpasic/gods/maps/hashmap"
	"github.com/emirpasic/gods/sets/treeset"
	"github.com/emirpasic/gods/utils"
	"github.com/npillmayer/rubin"
	"github.com/npillmayer/rubin/lr/sparse"
)

// Actions for parser action tables. Positive entries denote a reduce action
// with the rule's serial number.
const (
	ShiftAction  = -1
	AcceptAction = -2
	ErrorAction  = -3 // explicit error, from a non-associative operator
)

// === CFSM Construction =====================================================

// Refer to "Crafting A Compiler" by Charles N. Fisher & Richard J. LeBlanc, Jr.
// Section 6.2.1 LR(0) Parsing, and to the "Dragon Book" section 4.7.5 for
// the LALR(1) lookahead computation.

// CFSMState is a state within the CFSM for a grammar.
type CFSMState struct {
	ID     int                    // serial ID of this state
	kernel kernel                 // kernel items of this state, sorted
	la     []bitset               // LALR(1) lookaheads per kernel item
	next   map[*Symbol]*CFSMState // transitions
	Accept bool                   // is this an accepting state?
}

// CFSM edge between 2 states, directed and with a terminal
type cfsmEdge struct {
	from  *CFSMState
	to    *CFSMState
	label *Symbol
}

// Dump is a debugging helper
func (s *CFSMState) Dump() {
	tracer().Debugf("--- state %03d -----------", s.ID)
	for _, i := range s.kernel {
		tracer().Debugf("    %v", i)
	}
	tracer().Debugf("-------------------------")
}

// Items returns the kernel items of a state.
func (s *CFSMState) Items() []Item {
	return s.kernel
}

func (s *CFSMState) String() string {
	return fmt.Sprintf("(state %d | [%d])", s.ID, len(s.kernel))
}

func (s *CFSMState) containsCompletedStartRule() bool {
	for _, i := range s.kernel {
		if i.rule.Serial == 0 && i.Completed() {
			return true
		}
	}
	return false
}

// We need this for the set of states. It sorts states by serial ID.
func stateComparator(s1, s2 interface{}) int {
	c1 := s1.(*CFSMState)
	c2 := s2.(*CFSMState)
	return utils.IntComparator(c1.ID, c2.ID)
}

// CFSM is the characteristic finite state machine for a LR grammar, i.e. the
// LR(0) state diagram. Will be constructed by a TableGenerator.
// Clients normally do not use it directly. Nevertheless, there are some methods
// defined on it, e.g, for debugging purposes, or even to
// compute your own tables from it.
type CFSM struct {
	g      *Grammar        // this CFSM is for Grammar g
	states *treeset.Set    // all the states
	byID   []*CFSMState    // states indexed by ID
	edges  *arraylist.List // all the edges between states
	index  *hashmap.Map    // kernel signature -> []*CFSMState
	S0     *CFSMState      // start state
}

// create an empty (initial) CFSM automata.
func emptyCFSM(g *Grammar) *CFSM {
	c := &CFSM{g: g}
	c.states = treeset.NewWith(stateComparator)
	c.edges = arraylist.New()
	c.index = hashmap.New()
	return c
}

// StateCount returns the number of states of the CFSM.
func (c *CFSM) StateCount() int {
	return len(c.byID)
}

// State returns the state with a given ID.
func (c *CFSM) State(id int) *CFSMState {
	if id < 0 || id >= len(c.byID) {
		return nil
	}
	return c.byID[id]
}

// Find a CFSM state by its kernel, or add a new one.
func (c *CFSM) addState(k kernel) (*CFSMState, bool) {
	sig := k.signature()
	var bucket []*CFSMState
	if v, found := c.index.Get(sig); found {
		bucket = v.([]*CFSMState)
		for _, s := range bucket {
			if s.kernel.equals(k) {
				return s, false
			}
		}
	}
	s := &CFSMState{ID: len(c.byID), kernel: k, next: make(map[*Symbol]*CFSMState)}
	c.byID = append(c.byID, s)
	c.states.Add(s)
	c.index.Put(sig, append(bucket, s))
	return s, true
}

func (c *CFSM) addEdge(s0, s1 *CFSMState, sym *Symbol) {
	s0.next[sym] = s1
	c.edges.Add(&cfsmEdge{from: s0, to: s1, label: sym})
}

// closure computes the LR(0) closure of a kernel.
func (c *CFSM) closure(k kernel) []Item {
	items := append([]Item(nil), k...)
	seen := make([]bool, len(c.g.nonterminals))
	for n := 0; n < len(items); n++ {
		A := items[n].PeekSymbol()
		if A != nil && !A.IsTerminal() && !seen[A.serial] {
			seen[A.serial] = true
			for _, r := range c.g.lhsRules[A.serial] {
				items = append(items, StartItem(r))
			}
		}
	}
	return items
}

// Construct the characteristic finite state machine CFSM for a grammar.
func (lrgen *TableGenerator) buildCFSM() *CFSM {
	tracer().Debugf("=== build CFSM ==================================================")
	G := lrgen.g
	cfsm := emptyCFSM(G)
	cfsm.S0, _ = cfsm.addState(kernel{StartItem(G.rules[0])})
	for n := 0; n < len(cfsm.byID); n++ { // byID grows while we iterate
		s := cfsm.byID[n]
		var order []*Symbol
		gotos := make(map[*Symbol]kernel)
		for _, i := range cfsm.closure(s.kernel) {
			A := i.PeekSymbol()
			if A == nil {
				continue
			}
			if _, ok := gotos[A]; !ok {
				order = append(order, A)
			}
			gotos[A] = append(gotos[A], i.Advance())
		}
		for _, A := range order {
			snew, isNew := cfsm.addState(gotos[A].sort())
			if isNew {
				tracer().Debugf("state %03d --%s--> new state %03d %s", s.ID, A.Name, snew.ID, itemSetString(snew.kernel))
				snew.Accept = snew.containsCompletedStartRule()
			}
			cfsm.addEdge(s, snew, A)
		}
	}
	tracer().Infof("CFSM for %s has %d states", G.Name, len(cfsm.byID))
	return cfsm
}

// CFSM2GraphViz exports a CFSM to the Graphviz Dot format.
func (c *CFSM) CFSM2GraphViz(w io.Writer) {
	io.WriteString(w, `digraph {
graph [splines=true, fontname=Helvetica, fontsize=10];
node [shape=Mrecord, style=filled, fontname=Helvetica, fontsize=10];
edge [fontname=Helvetica, fontsize=10];

`)
	for _, x := range c.states.Values() {
		s := x.(*CFSMState)
		fmt.Fprintf(w, "s%03d [fillcolor=%s label=\"{%03d | %s}\"]\n",
			s.ID, nodecolor(s), s.ID, forGraphviz(s.kernel))
	}
	it := c.edges.Iterator()
	for it.Next() {
		edge := it.Value().(*cfsmEdge)
		fmt.Fprintf(w, "s%03d -> s%03d [label=\"%s\"]\n", edge.from.ID, edge.to.ID,
			dotEscape(edge.label.Name))
	}
	io.WriteString(w, "}\n")
}

func nodecolor(state *CFSMState) string {
	if state.Accept {
		return "lightgray"
	}
	return "white"
}

func forGraphviz(k kernel) string {
	lines := make([]string, len(k))
	for n, i := range k {
		lines[n] = dotEscape(i.String())
	}
	return strings.Join(lines, "\\l") + "\\l"
}

var dotEscaper = strings.NewReplacer(`"`, `\"`, `|`, `\|`, `{`, `\{`, `}`, `\}`,
	`<`, `\<`, `>`, `\>`, `\`, `\\`)

func dotEscape(s string) string {
	return dotEscaper.Replace(s)
}

// === Table Generator =======================================================

// TableGenerator is a generator object to construct LR parser tables.
// Clients usually create a Grammar G, then a LRAnalysis-object for G,
// and then a table generator. TableGenerator.CreateTables() constructs
// the CFSM and parser tables for an LALR(1)-parser recognizing grammar G.
type TableGenerator struct {
	g            *Grammar
	ga           *LRAnalysis
	dfa          *CFSM
	gototable    *Table
	actiontable  *Table
	defaults     []int
	conflicts    []Conflict
	HasConflicts bool
}

// NewTableGenerator creates a new TableGenerator for a (previously analysed) grammar.
func NewTableGenerator(ga *LRAnalysis) *TableGenerator {
	lrgen := &TableGenerator{}
	lrgen.g = ga.Grammar()
	lrgen.ga = ga
	return lrgen
}

// CFSM returns the characteristic finite state machine (CFSM) for a grammar.
// Usually clients call lrgen.CreateTables() beforehand, but it is possible
// to call lrgen.CFSM() directly. The CFSM will be created, if it has not
// been constructed previously.
func (lrgen *TableGenerator) CFSM() *CFSM {
	if lrgen.dfa == nil {
		lrgen.dfa = lrgen.buildCFSM()
	}
	return lrgen.dfa
}

// GotoTable returns the GOTO table for LR-parsing a grammar. The tables have to be
// built by calling CreateTables() previously.
func (lrgen *TableGenerator) GotoTable() *Table {
	if lrgen.gototable == nil {
		tracer().P("lr", "gen").Errorf("tables not yet initialized")
	}
	return lrgen.gototable
}

// ActionTable returns the ACTION table for LR-parsing a grammar. The tables have to be
// built by calling CreateTables() previously.
func (lrgen *TableGenerator) ActionTable() *Table {
	if lrgen.actiontable == nil {
		tracer().P("lr", "gen").Errorf("tables not yet initialized")
	}
	return lrgen.actiontable
}

// DefaultReductions returns, for each state, the rule to reduce without
// consulting the lookahead, or -1. A state has a default reduction if its only
// action is reducing a single rule.
func (lrgen *TableGenerator) DefaultReductions() []int {
	return lrgen.defaults
}

// Conflicts returns all conflicts which could not be resolved by precedence
// declarations. Those have been resolved in favour of shifting, or of the rule
// listed first.
func (lrgen *TableGenerator) Conflicts() []Conflict {
	return lrgen.conflicts
}

// CreateTables creates the necessary data structures for an LALR(1) parser.
func (lrgen *TableGenerator) CreateTables() {
	lrgen.dfa = lrgen.buildCFSM()
	lrgen.computeLookaheads()
	lrgen.gototable = lrgen.BuildGotoTable()
	lrgen.actiontable = lrgen.BuildLALR1ActionTable()
	lrgen.HasConflicts = len(lrgen.conflicts) > 0
	if lrgen.HasConflicts {
		tracer().Infof("grammar %s has %d unresolved conflicts", lrgen.g.Name, len(lrgen.conflicts))
	}
}

// Tables bundles the tables for a parser. Clients have to call CreateTables() first.
func (lrgen *TableGenerator) Tables() *Tables {
	if lrgen.actiontable == nil {
		tracer().Errorf("tables not yet generated; call CreateTables() first")
		return nil
	}
	return &Tables{
		G:        lrgen.g,
		Action:   lrgen.actiontable,
		Goto:     lrgen.gototable,
		Defaults: lrgen.defaults,
		Start:    lrgen.dfa.S0.ID,
	}
}

// AcceptingStates returns all states of the CFSM which represent an accept action.
// Clients have to call CreateTables() first.
func (lrgen *TableGenerator) AcceptingStates() []int {
	if lrgen.dfa == nil {
		tracer().Errorf("tables not yet generated; call CreateTables() first")
		return nil
	}
	acc := make([]int, 0, 1)
	for _, s := range lrgen.dfa.byID {
		if s.Accept {
			acc = append(acc, s.ID)
		}
	}
	return acc
}

func (lrgen *TableGenerator) newTable() *Table {
	statescnt := len(lrgen.dfa.byID)
	mintok, maxtok := lrgen.g.MinTokenValue(), lrgen.g.MaxTokenValue()
	extent := maxtok - mintok + 1
	tracer().Infof("table of size %d x (%d-%d=%d)", statescnt, maxtok, mintok, extent)
	return &Table{
		matrix: sparse.NewIntMatrix(statescnt, extent, sparse.DefaultNullValue),
		mincol: rubin.TokType(mintok),
	}
}

// BuildGotoTable builds the GOTO table. This is normally not called directly, but rather
// via CreateTables(). Entries for terminals hold the target state of shift actions.
func (lrgen *TableGenerator) BuildGotoTable() *Table {
	gototable := lrgen.newTable()
	it := lrgen.dfa.edges.Iterator()
	for it.Next() {
		e := it.Value().(*cfsmEdge)
		gototable.set(e.from.ID, e.label.TokenType(), int32(e.to.ID))
	}
	return gototable
}

// GotoTableAsHTML exports a GOTO-table in HTML-format.
func GotoTableAsHTML(lrgen *TableGenerator, w io.Writer) {
	if lrgen.gototable == nil {
		tracer().Errorf("GOTO table not yet created, cannot export to HTML")
		return
	}
	parserTableAsHTML(lrgen, "GOTO", lrgen.gototable, w)
}

// ActionTableAsHTML exports the LALR(1) ACTION-table in HTML-format.
func ActionTableAsHTML(lrgen *TableGenerator, w io.Writer) {
	if lrgen.actiontable == nil {
		tracer().Errorf("ACTION table not yet created, cannot export to HTML")
		return
	}
	parserTableAsHTML(lrgen, "ACTION", lrgen.actiontable, w)
}

func parserTableAsHTML(lrgen *TableGenerator, tname string, table *Table, w io.Writer) {
	var symvec []*Symbol
	io.WriteString(w, "<html><body>\n")
	io.WriteString(w, fmt.Sprintf("%s table of size = %d<p>", tname, table.matrix.ValueCount()))
	io.WriteString(w, "<table border=1 cellspacing=0 cellpadding=5>\n")
	io.WriteString(w, "<tr bgcolor=#cccccc><td></td>\n")
	lrgen.g.EachSymbol(func(A *Symbol) interface{} {
		if tname == "ACTION" && !A.IsTerminal() {
			return nil
		}
		io.WriteString(w, fmt.Sprintf("<td>%s</td>", htmlEscaper.Replace(A.Name)))
		symvec = append(symvec, A)
		return nil
	})
	io.WriteString(w, "</tr>\n")
	var td string // table cell
	for _, state := range lrgen.dfa.byID {
		io.WriteString(w, fmt.Sprintf("<tr><td>state %d</td>\n", state.ID))
		for _, A := range symvec {
			v1, v2 := table.Values(state.ID, A.TokenType())
			if v1 == table.NullValue() {
				td = "&nbsp;"
			} else if v2 == table.NullValue() {
				td = valstring(v1, table)
			} else {
				td = fmt.Sprintf("%d/%d", v1, v2)
			}
			io.WriteString(w, "<td>")
			io.WriteString(w, htmlEscaper.Replace(td))
			io.WriteString(w, "</td>\n")
		}
		io.WriteString(w, "</tr>\n")
	}
	io.WriteString(w, "</table></body></html>\n")
}

var htmlEscaper = strings.NewReplacer("<", "&lt;", ">", "&gt;", "&", "&amp;")

// ===========================================================================

// Conflict describes a parser table conflict for a state and a lookahead.
// For shift/reduce-conflicts Other is nil.
type Conflict struct {
	State     int
	Lookahead *Symbol
	Rule      *Rule // reduce rule which lost
	Other     *Rule // winning rule of a reduce/reduce-conflict
}

func (c Conflict) String() string {
	if c.Other == nil {
		return fmt.Sprintf("state %d: shift/reduce conflict on %s (shift wins over rule %d)",
			c.State, c.Lookahead, c.Rule.Serial)
	}
	return fmt.Sprintf("state %d: reduce/reduce conflict on %s (rule %d wins over rule %d)",
		c.State, c.Lookahead, c.Other.Serial, c.Rule.Serial)
}

// BuildLALR1ActionTable constructs the LALR(1) Action table. This method is
// normally not called by clients, but rather via CreateTables().
//
// For every state the shift entries are derived from the terminal transitions
// of the CFSM, reduce entries from the completed items and their lookaheads.
// Conflicts are resolved the way yacc does it: a shift/reduce conflict is
// decided by comparing the precedence of the rule with the precedence of the
// lookahead terminal (and its associativity, if both are equal). Without
// precedence information, shifting wins. A reduce/reduce conflict is decided
// in favour of the rule appearing first in the grammar. Unresolved conflicts
// are reported by Conflicts().
func (lrgen *TableGenerator) BuildLALR1ActionTable() *Table {
	actions := lrgen.newTable()
	g := lrgen.g
	nt := len(g.terminals)
	lrgen.defaults = make([]int, len(lrgen.dfa.byID))
	lrgen.conflicts = nil
	for _, state := range lrgen.dfa.byID {
		red := make([]*Rule, nt)
		lrgen.eachReduction(state, func(r *Rule, la bitset) {
			la.each(func(a int) {
				if a >= nt { // propagation marker
					return
				}
				if red[a] == nil {
					red[a] = r
				} else if red[a] != r {
					winner, loser := red[a], r
					if loser.Serial < winner.Serial {
						winner, loser = loser, winner
					}
					red[a] = winner
					lrgen.conflict(Conflict{State: state.ID, Lookahead: g.terminals[a], Rule: loser, Other: winner})
				}
			})
		})
		for a, A := range g.terminals {
			_, shift := state.next[A]
			r := red[a]
			switch {
			case r == nil && shift:
				actions.set(state.ID, A.TokenType(), ShiftAction)
			case r == nil:
				// error entry
			case r.Serial == 0:
				actions.set(state.ID, A.TokenType(), AcceptAction)
			case !shift:
				actions.set(state.ID, A.TokenType(), int32(r.Serial))
			default:
				actions.set(state.ID, A.TokenType(), lrgen.resolveShiftReduce(state, A, r))
			}
		}
		lrgen.defaults[state.ID] = lrgen.defaultReduction(state, actions)
	}
	return actions
}

func (lrgen *TableGenerator) resolveShiftReduce(state *CFSMState, A *Symbol, r *Rule) int32 {
	rprec, _ := r.precedence()
	if rprec == 0 || A.prec == 0 {
		lrgen.conflict(Conflict{State: state.ID, Lookahead: A, Rule: r})
		return ShiftAction
	}
	if rprec > A.prec {
		return int32(r.Serial)
	} else if rprec < A.prec {
		return ShiftAction
	}
	switch A.assoc {
	case LeftAssoc:
		return int32(r.Serial)
	case RightAssoc:
		return ShiftAction
	}
	return ErrorAction
}

func (lrgen *TableGenerator) conflict(c Conflict) {
	tracer().Debugf("%v", c)
	lrgen.conflicts = append(lrgen.conflicts, c)
}

// defaultReduction finds the single reduce action of a state which neither
// shifts nor carries explicit error entries. Such a state may reduce without
// looking at the next token.
func (lrgen *TableGenerator) defaultReduction(state *CFSMState, actions *Table) int {
	rule := -1
	consistent := true
	actions.matrix.EachInRow(state.ID, func(j int, a, b int32) {
		switch {
		case a == ShiftAction || a == AcceptAction || a == ErrorAction:
			consistent = false
		case rule == -1:
			rule = int(a)
		case rule != int(a):
			consistent = false
		}
	})
	if !consistent {
		return -1
	}
	return rule
}

// --- Tables ----------------------------------------------------------------

// Table is a parser table, i.e. a GOTO or ACTION table.
type Table struct {
	matrix *sparse.IntMatrix
	mincol rubin.TokType // lowest value for index j => offset for access
}

func (t *Table) set(i int, tt rubin.TokType, val int32) {
	j := tt - t.mincol
	if j < 0 {
		panic(fmt.Sprintf("lr.Table.set() with index < 0: %d", j))
	}
	t.matrix.Set(i, int(j), val)
}

// NullValue is the value of empty table entries.
func (t *Table) NullValue() int32 {
	return t.matrix.NullValue()
}

// Value returns the entry for a state and a token type (or non-terminal column).
func (t *Table) Value(i int, tt rubin.TokType) int32 {
	j := tt - t.mincol
	if j < 0 || int(j) >= t.matrix.N() {
		return t.matrix.NullValue()
	}
	return t.matrix.Value(i, int(j))
}

// Values returns both values of a table entry.
func (t *Table) Values(i int, tt rubin.TokType) (int32, int32) {
	j := tt - t.mincol
	if j < 0 || int(j) >= t.matrix.N() {
		return t.matrix.NullValue(), t.matrix.NullValue()
	}
	return t.matrix.Values(i, int(j))
}

// Each calls f for every entry of row i.
func (t *Table) Each(i int, f func(tt rubin.TokType, v int32)) {
	t.matrix.EachInRow(i, func(j int, a, _ int32) {
		f(rubin.TokType(j)+t.mincol, a)
	})
}

// Tables holds everything a table-driven LR parser needs. Tables are
// immutable and may be shared between parsers.
type Tables struct {
	G        *Grammar
	Action   *Table
	Goto     *Table
	Defaults []int // default reduction per state, or -1
	Start    int   // start state
}

// Expected returns the terminals which are legal in a state, excluding 'error'.
func (t *Tables) Expected(state int) []*Symbol {
	var syms []*Symbol
	t.Action.Each(state, func(tt rubin.TokType, v int32) {
		if v == ErrorAction || tt == ErrorType {
			return
		}
		if A := t.G.Terminal(tt); A != nil {
			syms = append(syms, A)
		}
	})
	return syms
}

// ----------------------------------------------------------------------

// valstring is a short helper to stringify an action table entry.
func valstring(v int32, m *Table) string {
	switch v {
	case m.NullValue():
		return "<none>"
	case AcceptAction:
		return "<accept>"
	case ShiftAction:
		return "<shift>"
	case ErrorAction:
		return "<error>"
	}
	return fmt.Sprintf("<reduce %d>", v)
}
