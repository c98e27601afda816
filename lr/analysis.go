package lr

import (
	"strings"

	"github.com/npillmayer/rubin"
	"github.com/npillmayer/schuko/tracing"
)

// LRAnalysis is an object for grammar analysis (compute FIRST and FOLLOW sets
// and determine nullable non-terminals).
type LRAnalysis struct {
	g        *Grammar
	nullable []bool   // per non-terminal
	first    []bitset // per non-terminal, over terminals
	follow   []bitset // per non-terminal, over terminals
}

// Analysis creates an analyser for a grammar.
// The analyser immediately starts its work and computes FIRST and FOLLOW.
func Analysis(g *Grammar) *LRAnalysis {
	ga := &LRAnalysis{g: g}
	ga.analyse()
	return ga
}

// Grammar returns the grammar this analyser operates on.
func (ga *LRAnalysis) Grammar() *Grammar {
	return ga.g
}

// Nullable returns true if A derives epsilon.
func (ga *LRAnalysis) Nullable(A *Symbol) bool {
	if A == nil || A.IsTerminal() {
		return false
	}
	return ga.nullable[A.serial]
}

// First returns the FIRST set of a symbol as a list of token types.
// Nullability is reported by Nullable, not as part of the set.
func (ga *LRAnalysis) First(A *Symbol) []rubin.TokType {
	if A == nil {
		return nil
	}
	if A.IsTerminal() {
		return []rubin.TokType{A.TokenType()}
	}
	return ga.tokenTypes(ga.first[A.serial])
}

// Follow returns the FOLLOW set of a non-terminal as a list of token types.
func (ga *LRAnalysis) Follow(A *Symbol) []rubin.TokType {
	if A == nil || A.IsTerminal() {
		return nil
	}
	return ga.tokenTypes(ga.follow[A.serial])
}

func (ga *LRAnalysis) tokenTypes(b bitset) []rubin.TokType {
	r := make([]rubin.TokType, 0, b.count())
	b.each(func(t int) {
		r = append(r, ga.g.terminals[t].TokenType())
	})
	return r
}

func (ga *LRAnalysis) analyse() {
	g := ga.g
	nt, n := len(g.terminals), len(g.nonterminals)
	ga.nullable = make([]bool, n)
	ga.first = make([]bitset, n)
	ga.follow = make([]bitset, n)
	for i := 0; i < n; i++ {
		ga.first[i] = newBitset(nt)
		ga.follow[i] = newBitset(nt)
	}
	rounds, nulls := 0, 0
	for changed := true; changed; rounds++ { // nullable non-terminals
		changed = false
		for _, r := range g.rules {
			if !ga.nullable[r.LHS.serial] && ga.allNullable(r.rhs) {
				ga.nullable[r.LHS.serial] = true
				changed = true
				nulls++
			}
		}
	}
	tracer().Debugf("%d nullable non-terminals found in %d rounds", nulls, rounds)
	rounds = 0
	for changed := true; changed; rounds++ { // FIRST sets
		changed = false
		for _, r := range g.rules {
			if ga.firstOfSeq(r.rhs, ga.first[r.LHS.serial]) {
				changed = true
			}
		}
	}
	tracer().Debugf("FIRST sets settled after %d rounds", rounds)
	ga.follow[g.rules[0].LHS.serial].set(g.byName["#eof"].serial)
	rounds = 0
	for changed := true; changed; rounds++ { // FOLLOW sets
		changed = false
		for _, r := range g.rules {
			for i, B := range r.rhs {
				if B.IsTerminal() {
					continue
				}
				fB := ga.follow[B.serial]
				beta := r.rhs[i+1:]
				if ga.firstOfSeq(beta, fB) {
					changed = true
				}
				if ga.allNullable(beta) && fB.union(ga.follow[r.LHS.serial]) {
					changed = true
				}
			}
		}
	}
	tracer().Debugf("FOLLOW sets settled after %d rounds", rounds)
	tracer().Debugf("grammar analysis for %s done", g.Name)
	ga.dump()
}

// dump traces FIRST and FOLLOW of every non-terminal at debug level.
func (ga *LRAnalysis) dump() {
	if tracer().GetTraceLevel() < tracing.LevelDebug {
		return
	}
	names := func(b bitset) string {
		var s []string
		b.each(func(t int) {
			s = append(s, ga.g.terminals[t].Name)
		})
		return strings.Join(s, " ")
	}
	for _, A := range ga.g.nonterminals {
		null := ""
		if ga.nullable[A.serial] {
			null = " (nullable)"
		}
		tracer().Debugf("%s%s", A.Name, null)
		tracer().Debugf("    FIRST  = { %s }", names(ga.first[A.serial]))
		tracer().Debugf("    FOLLOW = { %s }", names(ga.follow[A.serial]))
	}
}

// firstOfSeq adds FIRST(seq) to set and reports whether set changed.
func (ga *LRAnalysis) firstOfSeq(seq []*Symbol, set bitset) bool {
	changed := false
	for _, A := range seq {
		if A.IsTerminal() {
			if !set.has(A.serial) {
				set.set(A.serial)
				changed = true
			}
			return changed
		}
		if set.union(ga.first[A.serial]) {
			changed = true
		}
		if !ga.nullable[A.serial] {
			return changed
		}
	}
	return changed
}

func (ga *LRAnalysis) allNullable(seq []*Symbol) bool {
	for _, A := range seq {
		if A.IsTerminal() || !ga.nullable[A.serial] {
			return false
		}
	}
	return true
}
