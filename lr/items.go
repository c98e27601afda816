package lr

import (
	"bytes"
	"fmt"
	"sort"

	"github.com/cnf/structhash"
)

// Item is an LR(0) item, i.e. a rule together with a position ("dot")
// within its right hand side.
//
//     A ::= B C • D
//
type Item struct {
	rule *Rule
	dot  int
}

// StartItem returns an item with the dot at the beginning of rule r.
func StartItem(r *Rule) Item {
	return Item{rule: r}
}

// Rule returns the rule of an item.
func (i Item) Rule() *Rule {
	return i.rule
}

// Dot returns the position of the dot.
func (i Item) Dot() int {
	return i.dot
}

// PeekSymbol returns the symbol after the dot, or nil for completed items.
func (i Item) PeekSymbol() *Symbol {
	if i.dot >= len(i.rule.rhs) {
		return nil
	}
	return i.rule.rhs[i.dot]
}

// Prefix returns the symbols in front of the dot.
func (i Item) Prefix() []*Symbol {
	return i.rule.rhs[:i.dot]
}

// Advance returns a new item with the dot moved one position to the right.
func (i Item) Advance() Item {
	if i.dot >= len(i.rule.rhs) {
		return i
	}
	return Item{rule: i.rule, dot: i.dot + 1}
}

// Completed is true if the dot is behind the last symbol of the RHS.
func (i Item) Completed() bool {
	return i.dot >= len(i.rule.rhs)
}

func (i Item) String() string {
	var b bytes.Buffer
	b.WriteString(fmt.Sprintf("%s ➞", i.rule.LHS))
	for n, sym := range i.rule.rhs {
		if n == i.dot {
			b.WriteString(" •")
		}
		b.WriteString(" ")
		b.WriteString(sym.Name)
	}
	if i.dot >= len(i.rule.rhs) {
		b.WriteString(" •")
	}
	return b.String()
}

// less orders items by rule serial, then by dot position.
func (i Item) less(j Item) bool {
	if i.rule.Serial == j.rule.Serial {
		return i.dot < j.dot
	}
	return i.rule.Serial < j.rule.Serial
}

// kernel is an ordered set of kernel items of a CFSM state.
type kernel []Item

func (k kernel) sort() kernel {
	sort.Slice(k, func(a, b int) bool { return k[a].less(k[b]) })
	return k
}

// codes returns a flat representation of the kernel, suitable for hashing.
func (k kernel) codes() []int {
	c := make([]int, 0, 2*len(k))
	for _, i := range k {
		c = append(c, i.rule.Serial, i.dot)
	}
	return c
}

// signature hashes a sorted kernel. Kernels with equal items have equal
// signatures.
func (k kernel) signature() string {
	sig, err := structhash.Hash(k.codes(), 1)
	if err != nil {
		panic(fmt.Sprintf("cannot hash CFSM kernel: %v", err))
	}
	return sig
}

func (k kernel) equals(o kernel) bool {
	if len(k) != len(o) {
		return false
	}
	for n := range k {
		if k[n] != o[n] {
			return false
		}
	}
	return true
}

func (k kernel) indexOf(i Item) int {
	for n := range k {
		if k[n] == i {
			return n
		}
	}
	return -1
}

func itemSetString(items []Item) string {
	var b bytes.Buffer
	b.WriteString("{")
	for n, item := range items {
		if n == 0 {
			b.WriteString(" ")
		} else {
			b.WriteString(", ")
		}
		b.WriteString(item.String())
	}
	b.WriteString(" }")
	return b.String()
}
