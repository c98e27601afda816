package lr

import (
	"bytes"
	"errors"
	"fmt"
	"text/scanner"

	"github.com/npillmayer/rubin"
	"github.com/npillmayer/schuko/tracing"
)

// Special token types. EOF is identical to text/scanner.EOF. ErrorType is the
// token type of the special terminal 'error', used for error recovery. It does
// not collide with the token types of text/scanner.
const (
	EOFType   rubin.TokType = scanner.EOF
	ErrorType rubin.TokType = -64
)

// --- Symbols ---------------------------------------------------------------

// Assoc is the associativity of a terminal with declared precedence.
type Assoc int8

// Associativities, as declared by GrammarBuilder.Left/Right/NonAssoc.
const (
	NoAssoc Assoc = iota
	LeftAssoc
	RightAssoc
	NonAssoc
)

func (a Assoc) String() string {
	switch a {
	case LeftAssoc:
		return "left"
	case RightAssoc:
		return "right"
	case NonAssoc:
		return "nonassoc"
	}
	return "none"
}

// Symbol is a symbol type used for grammars and grammar builders.
// Terminals carry the token value of the scanner, non-terminals get a value
// assigned when the grammar is finalized.
type Symbol struct {
	Name     string // visible name of the symbol
	Value    int    // token value or non-terminal column
	terminal bool
	serial   int   // dense index within terminals resp. non-terminals
	prec     int   // precedence level, 0 = none
	assoc    Assoc // associativity, if prec > 0
}

func (sym *Symbol) String() string {
	return sym.Name
}

// IsTerminal returns true if this symbol represents a terminal.
func (sym *Symbol) IsTerminal() bool {
	return sym.terminal
}

// TokenType returns the token type of a terminal or the GOTO column of a
// non-terminal.
func (sym *Symbol) TokenType() rubin.TokType {
	return rubin.TokType(sym.Value)
}

// Precedence returns the declared precedence level and associativity of a terminal.
// Level 0 means: no precedence declared.
func (sym *Symbol) Precedence() (int, Assoc) {
	return sym.prec, sym.assoc
}

// --- Rules -----------------------------------------------------------------

// A Rule is a type for rules of a grammar. Rules cannot be shared between grammars.
type Rule struct {
	Serial int       // order number of this rule within a grammar
	LHS    *Symbol   // symbol of left hand side
	rhs    []*Symbol // right hand side
	prec   *Symbol   // %prec override, may be nil
	UData  interface{}
}

func newRule() *Rule {
	r := &Rule{}
	r.rhs = make([]*Symbol, 0, 5)
	return r
}

// RHS returns the right hand side of a rule.
func (r *Rule) RHS() []*Symbol {
	return r.rhs
}

// Len returns the number of symbols on the right hand side.
func (r *Rule) Len() int {
	return len(r.rhs)
}

// IsEps returns true if r is an epsilon production.
func (r *Rule) IsEps() bool {
	return len(r.rhs) == 0
}

// PrecSymbol returns the terminal which defines the precedence of r: either an
// explicit override or the last terminal of the right hand side (as in yacc).
// May be nil.
func (r *Rule) PrecSymbol() *Symbol {
	if r.prec != nil {
		return r.prec
	}
	for i := len(r.rhs) - 1; i >= 0; i-- {
		if r.rhs[i].IsTerminal() {
			return r.rhs[i]
		}
	}
	return nil
}

func (r *Rule) precedence() (int, Assoc) {
	if p := r.PrecSymbol(); p != nil {
		return p.prec, p.assoc
	}
	return 0, NoAssoc
}

func (r *Rule) String() string {
	var b bytes.Buffer
	b.WriteString(fmt.Sprintf("%d: %s ::= [", r.Serial, r.LHS))
	for i, sym := range r.rhs {
		if i > 0 {
			b.WriteString(" ")
		}
		b.WriteString(sym.Name)
	}
	b.WriteString("]")
	return b.String()
}

// --- Grammar ---------------------------------------------------------------

// Grammar is a type for a grammar. Usually created using a GrammarBuilder.
type Grammar struct {
	Name         string
	rules        []*Rule
	terminals    []*Symbol
	nonterminals []*Symbol
	byName       map[string]*Symbol
	byValue      map[int]*Symbol
	lhsRules     [][]*Rule // rules per non-terminal serial
	maxPrec      int
}

// Size returns the number of rules of the grammar, including the start rule.
func (g *Grammar) Size() int {
	return len(g.rules)
}

// Rule gets a grammar rule.
func (g *Grammar) Rule(no int) *Rule {
	if no < 0 || no >= len(g.rules) {
		return nil
	}
	return g.rules[no]
}

// StartRule returns rule 0, i.e. the augmented start rule S' ::= S.
func (g *Grammar) StartRule() *Rule {
	return g.rules[0]
}

// SymbolByName gets a symbol for a given name, if found in the grammar.
func (g *Grammar) SymbolByName(name string) *Symbol {
	return g.byName[name]
}

// Terminal returns the terminal for a token type, or nil.
func (g *Grammar) Terminal(tokval rubin.TokType) *Symbol {
	if sym := g.byValue[int(tokval)]; sym != nil && sym.IsTerminal() {
		return sym
	}
	return nil
}

// SymbolByValue returns the terminal or non-terminal occupying a table column.
func (g *Grammar) SymbolByValue(v int) *Symbol {
	return g.byValue[v]
}

// TerminalCount returns the number of terminals, including EOF and error.
func (g *Grammar) TerminalCount() int {
	return len(g.terminals)
}

// NonTerminalCount returns the number of non-terminals, including the augmented
// start symbol.
func (g *Grammar) NonTerminalCount() int {
	return len(g.nonterminals)
}

// EachTerminal iterates over all terminals of the grammar.
func (g *Grammar) EachTerminal(mapper func(sym *Symbol) interface{}) []interface{} {
	var r []interface{}
	for _, A := range g.terminals {
		if v := mapper(A); v != nil {
			r = append(r, v)
		}
	}
	return r
}

// EachNonTerminal iterates over all non-terminals of the grammar.
func (g *Grammar) EachNonTerminal(mapper func(sym *Symbol) interface{}) []interface{} {
	var r []interface{}
	for _, A := range g.nonterminals {
		if v := mapper(A); v != nil {
			r = append(r, v)
		}
	}
	return r
}

// EachSymbol iterates over all symbols of the grammar, terminals first.
func (g *Grammar) EachSymbol(mapper func(sym *Symbol) interface{}) []interface{} {
	r := g.EachTerminal(mapper)
	return append(r, g.EachNonTerminal(mapper)...)
}

// FindNonTermRules returns all rules with LHS = A.
func (g *Grammar) FindNonTermRules(A *Symbol) []*Rule {
	if A == nil || A.IsTerminal() {
		return nil
	}
	return g.lhsRules[A.serial]
}

// MaxTokenValue returns the highest column used by a terminal or non-terminal.
func (g *Grammar) MaxTokenValue() int {
	max := 0
	for _, A := range g.nonterminals {
		if A.Value > max {
			max = A.Value
		}
	}
	return max
}

// MinTokenValue returns the lowest token value of the grammar's terminals.
func (g *Grammar) MinTokenValue() int {
	min := 0
	for _, A := range g.terminals {
		if A.Value < min {
			min = A.Value
		}
	}
	return min
}

// Dump is a debugging helper, tracing all rules of a grammar.
func (g *Grammar) Dump() {
	if tracer().GetTraceLevel() < tracing.LevelDebug {
		return
	}
	tracer().Debugf("--- %s --------------------------------------------", g.Name)
	for _, r := range g.rules {
		tracer().Debugf("%3d: %s ::= %v", r.Serial, r.LHS, r.rhs)
	}
	tracer().Debugf("-------------------------------------------------------")
}

func (g *Grammar) String() string {
	var b bytes.Buffer
	b.WriteString(fmt.Sprintf("grammar %s (%d rules, %d terminals, %d non-terminals)",
		g.Name, len(g.rules), len(g.terminals), len(g.nonterminals)))
	return b.String()
}

// --- Grammar Builder -------------------------------------------------------

// GrammarBuilder is a builder type for grammars. Grammars are constructed
// rule by rule, starting with the left hand side symbol:
//
//     b := lr.NewGrammarBuilder("G")
//     b.LHS("E").N("E").T("+", '+').N("E").End()
//
// The LHS of the first rule is the start symbol of the grammar.
type GrammarBuilder struct {
	g          *Grammar
	rule       *Rule
	order      []*Symbol // symbols in order of appearance
	precByName map[string]*Symbol
	errs       []error
}

// NewGrammarBuilder gets a new grammar builder, given the name of the grammar
// to build.
func NewGrammarBuilder(gname string) *GrammarBuilder {
	g := &Grammar{
		Name:    gname,
		rules:   make([]*Rule, 1, 256),
		byName:  make(map[string]*Symbol),
		byValue: make(map[int]*Symbol),
	}
	gb := &GrammarBuilder{
		g:          g,
		precByName: make(map[string]*Symbol),
	}
	gb.terminal("#eof", int(EOFType))
	gb.terminal("error", int(ErrorType))
	return gb
}

// LHS starts a rule given the left hand side symbol (non-terminal).
func (gb *GrammarBuilder) LHS(s string) *RuleBuilder {
	if gb.rule != nil {
		gb.errs = append(gb.errs, fmt.Errorf("rule for %s started while previous rule not ended", s))
	}
	gb.rule = newRule()
	gb.rule.LHS = gb.nonterminal(s)
	return &RuleBuilder{gb: gb, rule: gb.rule}
}

// Left declares a new precedence level with left associativity for a list of
// terminals. Levels increase with every declaration, i.e. declare the loosest
// binding operators first (as yacc does).
func (gb *GrammarBuilder) Left(terminals ...string) *GrammarBuilder {
	return gb.declarePrec(LeftAssoc, terminals)
}

// Right declares a new precedence level with right associativity.
func (gb *GrammarBuilder) Right(terminals ...string) *GrammarBuilder {
	return gb.declarePrec(RightAssoc, terminals)
}

// NonAssoc declares a new precedence level of non-associative terminals.
func (gb *GrammarBuilder) NonAssoc(terminals ...string) *GrammarBuilder {
	return gb.declarePrec(NonAssoc, terminals)
}

func (gb *GrammarBuilder) declarePrec(assoc Assoc, terminals []string) *GrammarBuilder {
	gb.g.maxPrec++
	for _, name := range terminals {
		sym, ok := gb.precByName[name]
		if !ok {
			sym = &Symbol{Name: name, terminal: true}
			gb.precByName[name] = sym
		}
		sym.prec, sym.assoc = gb.g.maxPrec, assoc
	}
	return gb
}

// Grammar returns the (completed) grammar. The grammar is augmented by a start
// rule 0, i.e. S' ::= S, where S is the LHS of the first rule added.
func (gb *GrammarBuilder) Grammar() (*Grammar, error) {
	if gb.rule != nil {
		gb.errs = append(gb.errs, fmt.Errorf("last rule for %s not ended", gb.rule.LHS))
	}
	g := gb.g
	if len(g.rules) < 2 {
		return nil, errors.New("grammar has no rules")
	}
	start := g.rules[1].LHS
	S := &Symbol{Name: start.Name + "'"}
	gb.order = append([]*Symbol{S}, gb.order...)
	r0 := newRule()
	r0.LHS = S
	r0.rhs = append(r0.rhs, start)
	g.rules[0] = r0
	for _, sym := range gb.order { // terminals first, then non-terminals
		if sym.terminal {
			sym.serial = len(g.terminals)
			g.terminals = append(g.terminals, sym)
		}
	}
	maxtok := 0
	for _, t := range g.terminals {
		if t.Value > maxtok {
			maxtok = t.Value
		}
		if p, ok := gb.precByName[t.Name]; ok {
			t.prec, t.assoc = p.prec, p.assoc
		}
	}
	for _, sym := range gb.order {
		if !sym.terminal {
			sym.serial = len(g.nonterminals)
			sym.Value = maxtok + 1 + sym.serial
			g.nonterminals = append(g.nonterminals, sym)
			g.byValue[sym.Value] = sym
		}
	}
	g.byName[S.Name] = S
	g.lhsRules = make([][]*Rule, len(g.nonterminals))
	for i, r := range g.rules {
		r.Serial = i
		g.lhsRules[r.LHS.serial] = append(g.lhsRules[r.LHS.serial], r)
	}
	for _, A := range g.nonterminals {
		if len(g.lhsRules[A.serial]) == 0 {
			gb.errs = append(gb.errs, fmt.Errorf("non-terminal %s has no rules", A))
		}
	}
	tracer().Infof("%s", g)
	for _, err := range gb.errs {
		tracer().Errorf("grammar %s: %v", g.Name, err)
	}
	if len(gb.errs) > 0 {
		return g, errors.Join(gb.errs...)
	}
	return g, nil
}

func (gb *GrammarBuilder) terminal(name string, tokval int) *Symbol {
	if sym := gb.g.byName[name]; sym != nil {
		if !sym.terminal {
			gb.errs = append(gb.errs, fmt.Errorf("%s used as terminal and non-terminal", name))
		} else if sym.Value != tokval {
			gb.errs = append(gb.errs, fmt.Errorf("terminal %s used with token values %d and %d",
				name, sym.Value, tokval))
		}
		return sym
	}
	if other := gb.g.byValue[tokval]; other != nil {
		gb.errs = append(gb.errs, fmt.Errorf("terminals %s and %s share token value %d",
			other.Name, name, tokval))
	}
	sym := &Symbol{Name: name, Value: tokval, terminal: true}
	gb.g.byName[name] = sym
	gb.g.byValue[tokval] = sym
	gb.order = append(gb.order, sym)
	return sym
}

func (gb *GrammarBuilder) nonterminal(name string) *Symbol {
	if sym := gb.g.byName[name]; sym != nil {
		if sym.terminal {
			gb.errs = append(gb.errs, fmt.Errorf("%s used as terminal and non-terminal", name))
		}
		return sym
	}
	sym := &Symbol{Name: name}
	gb.g.byName[name] = sym
	gb.order = append(gb.order, sym)
	return sym
}

// RuleBuilder is a builder type for rules.
type RuleBuilder struct {
	gb   *GrammarBuilder
	rule *Rule
}

// N appends a non-terminal to the builder.
func (rb *RuleBuilder) N(s string) *RuleBuilder {
	rb.rule.rhs = append(rb.rule.rhs, rb.gb.nonterminal(s))
	return rb
}

// T appends a terminal to the builder.
// The symbol created for the terminal must not be referenced as a non-terminal.
func (rb *RuleBuilder) T(s string, tokval int) *RuleBuilder {
	rb.rule.rhs = append(rb.rule.rhs, rb.gb.terminal(s, tokval))
	return rb
}

// Error appends the special terminal 'error', used for error recovery.
func (rb *RuleBuilder) Error() *RuleBuilder {
	rb.rule.rhs = append(rb.rule.rhs, rb.gb.g.byName["error"])
	return rb
}

// Prec overrides the precedence of the rule with the one of a terminal
// (yacc's %prec).
func (rb *RuleBuilder) Prec(terminal string) *RuleBuilder {
	if p, ok := rb.gb.precByName[terminal]; ok {
		rb.rule.prec = p
		return rb
	}
	rb.gb.errs = append(rb.gb.errs, fmt.Errorf("%%prec %s: no precedence declared", terminal))
	return rb
}

// UData attaches user data to the rule, e.g. a semantic action.
func (rb *RuleBuilder) UData(x interface{}) *RuleBuilder {
	rb.rule.UData = x
	return rb
}

// End a rule. Returns the rule.
func (rb *RuleBuilder) End() *Rule {
	r := rb.rule
	if r.prec != nil { // resolve to the grammar's terminal once it exists
		r.prec = rb.gb.precSymbol(r.prec)
	}
	rb.gb.g.rules = append(rb.gb.g.rules, r)
	rb.gb.rule = nil
	return r
}

// Epsilon sets epsilon as the RHS of a production.
// This must be called directly after rb.LHS(...).
// It closes the rule, thus no call to End() or EOF() must follow.
func (rb *RuleBuilder) Epsilon() *Rule {
	if len(rb.rule.rhs) > 0 {
		rb.gb.errs = append(rb.gb.errs, fmt.Errorf("epsilon rule for %s has symbols", rb.rule.LHS))
	}
	return rb.End()
}

// precSymbol maps a precedence placeholder to the grammar's terminal, if the
// terminal is already known. Placeholders of terminals used only in %prec clauses
// are kept; they carry the declared precedence.
func (gb *GrammarBuilder) precSymbol(p *Symbol) *Symbol {
	if sym := gb.g.byName[p.Name]; sym != nil && sym.terminal {
		return sym
	}
	return p
}
