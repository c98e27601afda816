/*
Package lalr provides a table-driven LALR(1) parser. Clients use the tools
of package lr to prepare the necessary parse tables. The parser utilizes
these tables to create a right derivation for a given input, provided
through a scanner interface, and calls client semantics on every shift and
every reduction.

The main focus for this implementation is adaptability and on-the-fly usage.
Clients are able to construct the parse tables from a grammar and use the
parser directly, without a code-generation or compile step.

Usage

Clients construct a grammar, usually by using a grammar builder:

	b := lr.NewGrammarBuilder("Signed Variables Grammar")
	b.LHS("Var").N("Sign").T("a", scanner.Ident).End()  // Var  --> Sign Id
	b.LHS("Sign").T("+", '+').End()                     // Sign --> +
	b.LHS("Sign").T("-", '-').End()                     // Sign --> -
	b.LHS("Sign").Epsilon()                             // Sign -->
	g, err := b.Grammar()

This grammar is subjected to grammar analysis and table generation.

	lrgen := lr.NewTableGenerator(lr.Analysis(g))
	lrgen.CreateTables()
	if lrgen.HasConflicts { ... }  // conflicts have been resolved the yacc way

Finally parse some input:

	p := lalr.NewParser[string](lrgen.Tables(), mySemantics)
	result, err := p.Parse(scanner.GoTokenizer("input", strings.NewReader("+a")))

Error Recovery

Syntax errors are handled as in yacc. Rules may mention the terminal
'error'. When the parser detects an error, it pops states until it finds a
state able to shift 'error', shifts it and then discards input tokens until
one of them can be shifted. Errors are not reported again until three tokens
have been shifted successfully. Reaching the end of input while recovering
terminates the parse with ErrEOFInRecovery.

___________________________________________________________________________

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package lalr

import (
	"errors"
	"fmt"

	"github.com/npillmayer/rubin"
	"github.com/npillmayer/rubin/lr"
	"github.com/npillmayer/rubin/lr/scanner"
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'rubin.lr'.
func tracer() tracing.Trace {
	return tracing.Select("rubin.lr")
}

// DefaultMaxDepth is the default limit for the parser stack.
const DefaultMaxDepth = 10000

// Errors the parser may return. All of them abort the parse.
var (
	ErrStackOverflow  = errors.New("parser stack overflow")
	ErrUnrecoverable  = errors.New("syntax error: cannot recover")
	ErrEOFInRecovery  = errors.New("syntax error: unexpected end of input")
	ErrNotInitialized = errors.New("LALR(1) parser not initialized")
)

// Semantics is the interface a client implements to give meaning to a parse.
// Shift is called for every terminal the parser consumes, including the
// artificial 'error' token. Reduce is called with the values for the
// right-hand side of rule; the slice must not be retained.
type Semantics[V any] interface {
	Shift(tok rubin.Token) V
	Reduce(rule *lr.Rule, rhs []V) V
}

// SyntaxErrorHandler may be implemented by Semantics to receive syntax errors.
// expected lists the terminals which would have been legal.
type SyntaxErrorHandler interface {
	SyntaxError(tok rubin.Token, expected []*lr.Symbol)
}

// Aborter may be implemented by Semantics to terminate a parse, for example
// after a fatal lexical error. Aborted is polled after every token fetch and
// every reduction; a non-nil error stops the parser.
type Aborter interface {
	Aborted() error
}

// Parser is an LALR(1)-parser type. Create and initialize one with lalr.NewParser(...)
type Parser[V any] struct {
	tables   *lr.Tables
	sem      Semantics[V]
	states   []int // parser stack of CFSM states
	values   []V   // parallel stack of semantic values
	MaxDepth int   // limit for the parser stack
	Errors   int   // number of syntax errors reported by the last parse
}

// NewParser creates an LALR(1) parser.
func NewParser[V any](tables *lr.Tables, sem Semantics[V]) *Parser[V] {
	return &Parser[V]{
		tables:   tables,
		sem:      sem,
		states:   make([]int, 0, 512),
		values:   make([]V, 0, 512),
		MaxDepth: DefaultMaxDepth,
	}
}

func (p *Parser[V]) push(state int, v V) error {
	if len(p.states) >= p.MaxDepth {
		tracer().Errorf("parser stack exceeds %d entries", p.MaxDepth)
		return ErrStackOverflow
	}
	p.states = append(p.states, state)
	p.values = append(p.values, v)
	return nil
}

func (p *Parser[V]) top() int {
	return p.states[len(p.states)-1]
}

func (p *Parser[V]) aborted() error {
	if a, ok := p.sem.(Aborter); ok {
		return a.Aborted()
	}
	return nil
}

// Parse starts a new parse, given a scanner tokenizing the input.
// It returns the semantic value of the start symbol if the input has been
// accepted. Recovered syntax errors do not make Parse fail; clients check
// p.Errors.
func (p *Parser[V]) Parse(scan scanner.Tokenizer) (V, error) {
	var zero V
	if p.tables == nil || p.sem == nil {
		return zero, ErrNotInitialized
	}
	tracer().Debugf("~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~")
	p.states, p.values = p.states[:0], p.values[:0]
	p.Errors = 0
	p.push(p.tables.Start, zero)
	var token rubin.Token // lookahead, nil if none buffered
	errstatus := 0        // > 0 while recovering
	for {
		state := p.top()
		if r := p.tables.Defaults[state]; r > 0 && token == nil {
			if err := p.reduce(p.tables.G.Rule(r)); err != nil {
				return zero, err
			}
			continue
		}
		if token == nil {
			token = scan.NextToken()
			tracer().Debugf("got token %q/%d from scanner", token.Lexeme(), token.TokType())
			if err := p.aborted(); err != nil {
				return zero, err
			}
		}
		tokval := token.TokType()
		action := p.tables.Action.Value(state, tokval)
		tracer().Debugf("action(%d,%d)=%s", state, tokval, valstring(action, p.tables.Action))
		switch {
		case action == lr.AcceptAction:
			if errstatus > 0 {
				return zero, ErrEOFInRecovery
			}
			return p.values[len(p.values)-1], nil
		case action == lr.ShiftAction:
			next := int(p.tables.Goto.Value(state, tokval))
			tracer().Debugf("shifting, next state = %d", next)
			if err := p.push(next, p.sem.Shift(token)); err != nil {
				return zero, err
			}
			token = nil
			if errstatus > 0 {
				errstatus--
			}
		case action > 0:
			if err := p.reduce(p.tables.G.Rule(int(action))); err != nil {
				return zero, err
			}
		default: // null entry or explicit error from a non-associative operator
			if errstatus == 0 {
				p.Errors++
				if h, ok := p.sem.(SyntaxErrorHandler); ok {
					h.SyntaxError(token, p.tables.Expected(state))
				}
				if err := p.aborted(); err != nil {
					return zero, err
				}
			}
			if tokval == scanner.EOF {
				return zero, ErrEOFInRecovery
			}
			if errstatus == 3 { // no progress since last error: discard token
				tracer().Debugf("discarding token %q", token.Lexeme())
				token = nil
				continue
			}
			errstatus = 3
			if err := p.recover(token); err != nil {
				return zero, err
			}
		}
	}
}

// reduce performs a reduce action for a rule
//
//    LHS --> X1 ... Xn   (with X being terminals or non-terminals)
//
// Symbols X1 to Xn are represented on the stack as states
//
//    [TOS]  Sn(Xn) ... S1(X1)  ...
//
func (p *Parser[V]) reduce(rule *lr.Rule) error {
	tracer().Debugf("reduce %v", rule)
	n := rule.Len()
	base := len(p.values) - n
	v := p.sem.Reduce(rule, p.values[base:])
	p.states, p.values = p.states[:base], p.values[:base]
	state := p.top()
	next := p.tables.Goto.Value(state, rule.LHS.TokenType())
	if next == p.tables.Goto.NullValue() {
		panic(fmt.Sprintf("corrupt parser tables: no goto(%d,%s)", state, rule.LHS.Name))
	}
	if err := p.push(int(next), v); err != nil {
		return err
	}
	return p.aborted()
}

// recover pops states until one accepts 'error' and shifts the error token.
func (p *Parser[V]) recover(token rubin.Token) error {
	for p.tables.Action.Value(p.top(), lr.ErrorType) != lr.ShiftAction {
		if len(p.states) == 1 {
			return ErrUnrecoverable
		}
		tracer().Debugf("error recovery pops state %d", p.top())
		p.states, p.values = p.states[:len(p.states)-1], p.values[:len(p.values)-1]
	}
	state := p.top()
	next := int(p.tables.Goto.Value(state, lr.ErrorType))
	tracer().Debugf("shifting 'error', next state = %d", next)
	errtok := scanner.MakeDefaultToken(lr.ErrorType, "error", token.Span())
	return p.push(next, p.sem.Shift(errtok))
}

// valstring is a short helper to stringify an action table entry.
func valstring(v int32, m *lr.Table) string {
	switch v {
	case m.NullValue():
		return "<none>"
	case lr.AcceptAction:
		return "<accept>"
	case lr.ShiftAction:
		return "<shift>"
	case lr.ErrorAction:
		return "<error>"
	}
	return fmt.Sprintf("<reduce %d>", v)
}
