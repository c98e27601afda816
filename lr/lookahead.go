package lr

// LALR(1) lookaheads are computed by propagation, following the "Dragon Book"
// (Aho, Lam, Sethi, Ullman: Compilers, 2nd ed., algorithm 4.62/4.63):
// for every kernel item K of a state I, the LR(1)-closure of [K, #] is
// computed, where # is a dummy lookahead. Lookaheads other than # found for
// items in the closure are generated spontaneously for the kernel items of
// the successor states; a # signals that lookaheads propagate from K.
// Spontaneous lookaheads are then propagated until nothing changes.

import (
	"strings"

	"github.com/npillmayer/schuko/tracing"
)

type propagation struct {
	to  *CFSMState
	idx int
}

func (lrgen *TableGenerator) computeLookaheads() {
	c, g := lrgen.dfa, lrgen.g
	nt := len(g.terminals)
	hash := nt // dummy lookahead #
	for _, s := range c.byID {
		s.la = make([]bitset, len(s.kernel))
		for k := range s.kernel {
			s.la[k] = newBitset(nt + 1)
		}
	}
	c.S0.la[0].set(g.byName["#eof"].serial)
	marker := newBitset(nt + 1)
	marker.set(hash)
	links := make([][][]propagation, len(c.byID))
	spontaneous, propagating := 0, 0
	for _, s := range c.byID {
		links[s.ID] = make([][]propagation, len(s.kernel))
		for k, item := range s.kernel {
			if X := item.PeekSymbol(); X != nil {
				t := s.next[X]
				links[s.ID][k] = append(links[s.ID][k], propagation{t, t.kernel.indexOf(item.Advance())})
			}
			la := lrgen.closureLA([]Item{item}, []bitset{marker}, nt+1)
			for B, laB := range la {
				if laB == nil {
					continue
				}
				for _, r := range g.lhsRules[B] {
					if r.IsEps() {
						continue
					}
					t := s.next[r.rhs[0]]
					j := t.kernel.indexOf(Item{rule: r, dot: 1})
					if t.la[j].unionExcept(laB, hash) {
						spontaneous++
					}
					if laB.has(hash) {
						links[s.ID][k] = append(links[s.ID][k], propagation{t, j})
					}
				}
			}
		}
	}
	for _, l := range links {
		for _, ps := range l {
			propagating += len(ps)
		}
	}
	tracer().Debugf("%d spontaneous lookahead sets, %d propagation links", spontaneous, propagating)
	rounds := 0
	for changed := true; changed; rounds++ {
		changed = false
		for _, s := range c.byID {
			for k := range s.kernel {
				for _, p := range links[s.ID][k] {
					if p.to.la[p.idx].union(s.la[k]) {
						changed = true
					}
				}
			}
		}
	}
	tracer().Infof("LALR(1) lookaheads propagated in %d rounds", rounds)
	if tracer().GetTraceLevel() >= tracing.LevelDebug {
		for _, s := range c.byID {
			for k, item := range s.kernel {
				tracer().Debugf("state %03d: [%v, %s]", s.ID, item, lrgen.lookaheadNames(s.la[k]))
			}
		}
	}
}

func (lrgen *TableGenerator) lookaheadNames(b bitset) string {
	var names []string
	b.each(func(t int) {
		if t < len(lrgen.g.terminals) {
			names = append(names, lrgen.g.terminals[t].Name)
		}
	})
	return strings.Join(names, "/")
}

// closureLA computes the lookaheads of the non-kernel items of the LR(1)-closure
// of a set of items with given lookaheads. All non-kernel items B ::= • γ share
// the lookahead set of B, thus the result is indexed by non-terminal serial.
// Non-terminals not part of the closure are nil.
func (lrgen *TableGenerator) closureLA(items []Item, las []bitset, size int) []bitset {
	g, ga := lrgen.g, lrgen.ga
	la := make([]bitset, len(g.nonterminals))
	queued := make([]bool, len(g.nonterminals))
	var work []*Symbol
	add := func(B *Symbol, beta []*Symbol, inherit bitset) {
		changed := false
		if la[B.serial] == nil {
			la[B.serial] = newBitset(size)
			changed = true
		}
		if ga.firstOfSeq(beta, la[B.serial]) {
			changed = true
		}
		if ga.allNullable(beta) && la[B.serial].union(inherit) {
			changed = true
		}
		if changed && !queued[B.serial] {
			queued[B.serial] = true
			work = append(work, B)
		}
	}
	for n, item := range items {
		if X := item.PeekSymbol(); X != nil && !X.IsTerminal() {
			add(X, item.rule.rhs[item.dot+1:], las[n])
		}
	}
	for len(work) > 0 {
		B := work[len(work)-1]
		work = work[:len(work)-1]
		queued[B.serial] = false
		for _, r := range g.lhsRules[B.serial] {
			if len(r.rhs) > 0 && !r.rhs[0].IsTerminal() {
				add(r.rhs[0], r.rhs[1:], la[B.serial])
			}
		}
	}
	return la
}

// eachReduction calls f for every completed item of a state, kernel items
// as well as epsilon-productions of the closure, with its lookahead set.
func (lrgen *TableGenerator) eachReduction(s *CFSMState, f func(*Rule, bitset)) {
	for k, item := range s.kernel {
		if item.Completed() {
			f(item.rule, s.la[k])
		}
	}
	la := lrgen.closureLA(s.kernel, s.la, len(lrgen.g.terminals)+1)
	for B, laB := range la {
		if laB == nil {
			continue
		}
		for _, r := range lrgen.g.lhsRules[B] {
			if r.IsEps() {
				f(r, laB)
			}
		}
	}
}
