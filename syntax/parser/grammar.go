package parser

import (
	"fmt"
	"strings"
	"sync"

	"github.com/npillmayer/rubin/lr"
	"github.com/npillmayer/rubin/syntax/lexer"
)

// action is the semantic action of a grammar rule. v holds the values of
// the right-hand side symbols and must not be retained.
type action func(p *Context, v []semval) semval

type production struct {
	lhs  string
	rhs  string
	prec string
	act  action
}

// grammarDef collects the productions of the grammar before they are handed
// to the grammar builder.
//
// Right-hand sides are strings of symbol names. Names known to the lexer
// (see lexer.TokenName) are terminals, 'error' is the error token, NL and SP
// stand for the newline and space tokens, and names starting with '@' are
// mid-rule actions. Every occurrence of a mid-rule action becomes a fresh
// epsilon non-terminal, as in yacc. A reduction of a mid-rule action sees
// no values; its result is placed on the value stack.
type grammarDef struct {
	prods   []production
	markers map[string]action
}

func (d *grammarDef) rule(lhs, rhs string, act action) {
	d.prods = append(d.prods, production{lhs: lhs, rhs: rhs, act: act})
}

// rulePrec adds a rule with an explicit precedence (yacc's %prec).
func (d *grammarDef) rulePrec(lhs, rhs, prec string, act action) {
	d.prods = append(d.prods, production{lhs: lhs, rhs: rhs, prec: prec, act: act})
}

// mid declares a mid-rule action.
func (d *grammarDef) mid(name string, act action) {
	d.markers[name] = act
}

var aliases = map[string]string{
	"NL": `'\n'`,
	"SP": `' '`,
}

// build feeds the productions to a grammar builder.
func (d *grammarDef) build() (*lr.Grammar, error) {
	b := lr.NewGrammarBuilder("rubin")
	declarePrecedence(b)
	type pending struct {
		name string
		act  action
	}
	var mids []pending
	for _, prod := range d.prods {
		rb := b.LHS(prod.lhs)
		syms := strings.Fields(prod.rhs)
		for _, sym := range syms {
			if a, ok := aliases[sym]; ok {
				sym = a
			}
			switch {
			case sym == "error":
				rb.Error()
			case sym[0] == '@':
				act, ok := d.markers[sym]
				if !ok {
					return nil, fmt.Errorf("rule for %s: undeclared mid-rule action %s", prod.lhs, sym)
				}
				name := fmt.Sprintf("%s.%d", sym, len(mids)+1)
				mids = append(mids, pending{name, act})
				rb.N(name)
			default:
				if t, ok := lexer.TokenByName(sym); ok {
					rb.T(sym, int(t))
				} else if looksTerminal(sym) {
					return nil, fmt.Errorf("rule for %s: unknown terminal %s", prod.lhs, sym)
				} else {
					rb.N(sym)
				}
			}
		}
		if prod.prec != "" {
			rb.Prec(prod.prec)
		}
		rb.UData(prod.act)
		if len(syms) == 0 {
			rb.Epsilon()
		} else {
			rb.End()
		}
	}
	for _, m := range mids {
		b.LHS(m.name).UData(m.act).Epsilon()
	}
	return b.Grammar()
}

// looksTerminal is true for names in the style of terminals: quoted
// characters, tFOO and kFOO.
func looksTerminal(sym string) bool {
	if sym[0] == '\'' {
		return true
	}
	if len(sym) < 2 || sym[0] != 't' && sym[0] != 'k' {
		return false
	}
	c := sym[1]
	return c >= 'A' && c <= 'Z' || c == '_' || sym[0] == 'k' && c == 'l'
}

// declarePrecedence declares operator precedences, loosest first.
func declarePrecedence(b *lr.GrammarBuilder) {
	b.NonAssoc("tLOWEST")
	b.NonAssoc("tLBRACE_ARG")
	b.NonAssoc("kIF_MOD", "kUNLESS_MOD", "kWHILE_MOD", "kUNTIL_MOD")
	b.Left("kOR", "kAND")
	b.Right("kNOT")
	b.NonAssoc("kDEFINED")
	b.Right("'='", "tOP_ASGN")
	b.Left("kRESCUE_MOD")
	b.Right("'?'", "':'")
	b.NonAssoc("tDOT2", "tDOT3")
	b.Left("tOROP")
	b.Left("tANDOP")
	b.NonAssoc("tCMP", "tEQ", "tEQQ", "tNEQ", "tMATCH", "tNMATCH")
	b.Left("'>'", "tGEQ", "'<'", "tLEQ")
	b.Left("'|'", "'^'")
	b.Left("'&'")
	b.Left("tLSHFT", "tRSHFT")
	b.Left("'+'", "'-'")
	b.Left("'*'", "'/'", "'%'")
	b.Right("tUMINUS_NUM", "tUMINUS")
	b.Right("tPOW")
	b.Right("'!'", "'~'", "tUPLUS")
}

// --- Tables ----------------------------------------------------------------

var generated struct {
	once sync.Once
	gen  *lr.TableGenerator
	err  error
}

// Tables returns the table generator for the grammar, after generating the
// parser tables on first use. Clients may inspect the grammar, its conflicts
// and the CFSM; they must not modify anything.
func Tables() (*lr.TableGenerator, error) {
	generated.once.Do(func() {
		d := &grammarDef{markers: make(map[string]action)}
		d.programRules()
		d.statementRules()
		d.assignmentRules()
		d.argumentRules()
		d.primaryRules()
		d.blockRules()
		d.literalRules()
		d.definitionRules()
		g, err := d.build()
		if err != nil {
			generated.err = fmt.Errorf("grammar: %w", err)
			return
		}
		gen := lr.NewTableGenerator(lr.Analysis(g))
		gen.CreateTables()
		if gen.HasConflicts {
			tracer().Infof("grammar has %d conflicts, resolved by precedence or yacc defaults",
				len(gen.Conflicts()))
		}
		generated.gen = gen
	})
	return generated.gen, generated.err
}
