package lexmach

import (
	"strings"

	"github.com/npillmayer/schuko/tracing"
	"github.com/timtadh/lexmachine"
	"github.com/timtadh/lexmachine/machines"
)

// tracer traces with key 'rubin.scanner'.
func tracer() tracing.Trace {
	return tracing.Select("rubin.scanner")
}

// Pattern is a regular expression in lexmachine syntax and the token id of
// its matches.
type Pattern struct {
	Regexp string
	ID     int
}

// DFA is a compiled lexmachine automaton. It is immutable after Compile and
// may be shared between goroutines.
type DFA struct {
	lexer *lexmachine.Lexer
	size  int // number of patterns
}

// Compile builds a DFA from regular expression patterns and from literal
// tokens. The ids map assigns token ids to literals; patterns carry their
// own. Patterns are added before literals, which matters for matches of
// equal length only: lexmachine prefers the pattern added first.
func Compile(patterns []Pattern, literals []string, ids map[string]int) (*DFA, error) {
	dfa := &DFA{lexer: lexmachine.NewLexer()}
	for _, p := range patterns {
		dfa.lexer.Add([]byte(p.Regexp), MakeToken(p.ID))
		dfa.size++
	}
	for _, lit := range literals {
		dfa.lexer.Add([]byte(Literal(lit)), MakeToken(ids[lit]))
		dfa.size++
	}
	if err := dfa.lexer.Compile(); err != nil {
		tracer().Errorf("error compiling DFA of %d patterns: %v", dfa.size, err)
		return nil, err
	}
	tracer().Debugf("compiled DFA of %d patterns", dfa.size)
	return dfa, nil
}

// Literal quotes every character of a literal for use as a lexmachine pattern.
func Literal(lit string) string {
	return "\\" + strings.Join(strings.Split(lit, ""), "\\")
}

// Prefix recognizes the longest token at the very start of input, without
// skipping anything. It returns the token's id and lexeme, or false if no
// pattern matches at position 0.
func (dfa *DFA) Prefix(input []byte) (int, string, bool) {
	if len(input) == 0 {
		return 0, "", false
	}
	s, err := dfa.lexer.Scanner(input)
	if err != nil {
		return 0, "", false
	}
	tok, err, eof := s.Next()
	if err != nil || eof || tok == nil {
		return 0, "", false
	}
	token := tok.(*lexmachine.Token)
	if token.TC != 0 {
		return 0, "", false
	}
	return token.Type, string(token.Lexeme), true
}

// MakeToken is the action of every pattern: it wraps a match into a
// lexmachine token with the given id.
func MakeToken(id int) lexmachine.Action {
	return func(s *lexmachine.Scanner, m *machines.Match) (interface{}, error) {
		return s.Token(id, string(m.Bytes), m), nil
	}
}
