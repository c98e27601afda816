package lexer

import (
	"sync"

	"github.com/npillmayer/rubin/lr/scanner/lexmach"
)

// operatorList holds all operators starting with a character which may
// start a longer operator. The lexer matches the longest one and then
// decides by mode which token it forms.
var operatorList = []string{
	"*", "**", "*=", "**=",
	"<", "<=", "<=>", "<<", "<<=",
	"=", "==", "===", "=~", "=>",
	">", ">=", ">>", ">>=",
	"!", "!=", "!~",
	"&", "&&", "&=", "&&=",
	"|", "||", "|=", "||=",
	".", "..", "...",
	":", "::",
}

var operators struct {
	once sync.Once
	dfa  *lexmach.DFA
}

func operatorDFA() *lexmach.DFA {
	operators.once.Do(func() {
		ids := make(map[string]int, len(operatorList))
		for i, op := range operatorList {
			ids[op] = i + 1
		}
		dfa, err := lexmach.Compile(nil, operatorList, ids)
		if err != nil {
			panic(err)
		}
		operators.dfa = dfa
	})
	return operators.dfa
}

// operator returns the longest operator starting at the character just
// read. Nothing is consumed.
func (lx *Lexer) operator() string {
	from := lx.p - 1
	to := from + 3
	if to > len(lx.line) {
		to = len(lx.line)
	}
	if _, op, ok := operatorDFA().Prefix([]byte(lx.line[from:to])); ok {
		return op
	}
	return lx.line[from : from+1]
}
