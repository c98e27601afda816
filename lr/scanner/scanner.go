/*
Package scanner defines the interface between the parsers of package lr and
their scanners.

The rubin scanner in package syntax/lexer implements Tokenizer. For grammars
in tests, GoTokenizer wraps the Go standard library's text/scanner and
produces Go-like tokens: identifiers, numbers, strings and single-character
operators, which are their own token type.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package scanner

import (
	"fmt"
	"io"
	"text/scanner"

	"github.com/npillmayer/rubin"
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'rubin.scanner'.
func tracer() tracing.Trace {
	return tracing.Select("rubin.scanner")
}

// Tokenizer is a scanner as seen by a parser. It has to return token type
// EOF at the end of input, repeatedly if asked again.
type Tokenizer interface {
	NextToken() rubin.Token
	SetErrorHandler(func(error))
}

// Token types of GoTokenizer. EOF is the end-of-input type of every
// Tokenizer.
const (
	EOF     = scanner.EOF
	Ident   = scanner.Ident
	Int     = scanner.Int
	Float   = scanner.Float
	String  = scanner.String
	Comment = scanner.Comment
)

// --- Default tokens --------------------------------------------------------

// DefaultToken is a plain token type. The LR driver uses it for the
// artificial error token it shifts during error recovery.
type DefaultToken struct {
	kind   rubin.TokType
	lexeme string
	Val    interface{}
	span   rubin.Span
}

var _ rubin.Token = DefaultToken{}

// MakeDefaultToken creates a token without a value.
func MakeDefaultToken(typ rubin.TokType, lexeme string, span rubin.Span) DefaultToken {
	return DefaultToken{kind: typ, lexeme: lexeme, span: span}
}

// TokType is part of interface rubin.Token.
func (t DefaultToken) TokType() rubin.TokType { return t.kind }

// Value is part of interface rubin.Token.
func (t DefaultToken) Value() interface{} { return t.Val }

// Lexeme is part of interface rubin.Token.
func (t DefaultToken) Lexeme() string { return t.lexeme }

// Span is part of interface rubin.Token.
func (t DefaultToken) Span() rubin.Span { return t.span }

func (t DefaultToken) String() string {
	return fmt.Sprintf("<%d %q @%d>", t.kind, t.lexeme, t.span.From())
}

// --- Tokenizer for grammar tests -------------------------------------------

// GoScanner tokenizes Go-like input. Create one with GoTokenizer.
type GoScanner struct {
	sc      scanner.Scanner
	onError func(error)
	chars   bool // report char literals and raw strings as String
}

var _ Tokenizer = (*GoScanner)(nil)

// Option configures a GoScanner.
type Option func(*GoScanner)

// SkipComments drops comments from the token stream. This is the default.
func SkipComments(b bool) Option {
	return func(s *GoScanner) {
		if b {
			s.sc.Mode |= scanner.SkipComments
		} else {
			s.sc.Mode &^= scanner.SkipComments
		}
	}
}

// UnifyStrings reports char literals and raw strings as type String.
func UnifyStrings(b bool) Option {
	return func(s *GoScanner) {
		s.chars = b
	}
}

// GoTokenizer creates a tokenizer for Go-like input read from r.
func GoTokenizer(name string, r io.Reader, opts ...Option) *GoScanner {
	s := &GoScanner{onError: logError}
	s.sc.Init(r)
	s.sc.Filename = name
	s.sc.Error = func(sc *scanner.Scanner, msg string) {
		s.onError(fmt.Errorf("%s: %s", sc.Position, msg))
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func logError(err error) {
	tracer().Errorf("scanner error: %v", err)
}

// SetErrorHandler is part of interface Tokenizer. A nil handler restores
// logging of errors.
func (s *GoScanner) SetErrorHandler(h func(error)) {
	if h == nil {
		h = logError
	}
	s.onError = h
}

// NextToken is part of interface Tokenizer.
func (s *GoScanner) NextToken() rubin.Token {
	typ := s.sc.Scan()
	if s.chars && (typ == scanner.Char || typ == scanner.RawString) {
		typ = scanner.String
	}
	from := uint64(s.sc.Position.Offset)
	if typ == scanner.EOF {
		from = uint64(s.sc.Pos().Offset)
	}
	return DefaultToken{
		kind:   rubin.TokType(typ),
		lexeme: s.sc.TokenText(),
		span:   rubin.Span{from, uint64(s.sc.Pos().Offset)},
	}
}
