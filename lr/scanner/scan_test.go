package scanner

import (
	"strings"
	"testing"

	"github.com/npillmayer/rubin"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
)

func collect(tz Tokenizer) []rubin.Token {
	var toks []rubin.Token
	for tok := tz.NextToken(); tok.TokType() != EOF; tok = tz.NextToken() {
		toks = append(toks, tok)
	}
	return toks
}

func TestGoTokenizer(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "rubin.scanner")
	defer teardown()
	//
	inputs := []struct {
		input string
		types []rubin.TokType
	}{
		{"1", []rubin.TokType{Int}},
		{"1+12", []rubin.TokType{Int, '+', Int}},
		{"(a * 2.5)", []rubin.TokType{'(', Ident, '*', Float, ')'}},
		{`x="str" // comment`, []rubin.TokType{Ident, '=', String}},
	}
	for i, input := range inputs {
		toks := collect(GoTokenizer(input.input, strings.NewReader(input.input)))
		if len(toks) != len(input.types) {
			t.Errorf("%d: expected %d tokens, got %d", i, len(input.types), len(toks))
			continue
		}
		for j, tok := range toks {
			if tok.TokType() != input.types[j] {
				t.Errorf("%d: token %d (%q) has type %d, expected %d", i, j, tok.Lexeme(), tok.TokType(), input.types[j])
			}
		}
	}
}

func TestSpans(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "rubin.scanner")
	defer teardown()
	//
	toks := collect(GoTokenizer("spans", strings.NewReader("ab + 123")))
	expected := []rubin.Span{{0, 2}, {3, 4}, {5, 8}}
	for i, tok := range toks {
		if tok.Span() != expected[i] {
			t.Errorf("token %q: expected span %v, got %v", tok.Lexeme(), expected[i], tok.Span())
		}
	}
}

func TestOptions(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "rubin.scanner")
	defer teardown()
	//
	tz := GoTokenizer("opts", strings.NewReader(`'a' // c`), SkipComments(false), UnifyStrings(true))
	if tok := tz.NextToken(); tok.TokType() != String {
		t.Errorf("expected char literal to be unified to a string, is %d", tok.TokType())
	}
	if tok := tz.NextToken(); tok.TokType() != Comment {
		t.Errorf("expected a comment token, is %d", tok.TokType())
	}
	if tok := tz.NextToken(); tok.TokType() != EOF {
		t.Errorf("expected end of input, is %d", tok.TokType())
	}
}

func TestErrorHandler(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "rubin.scanner")
	defer teardown()
	//
	var errs []error
	tz := GoTokenizer("errors", strings.NewReader(`"unterminated`))
	tz.SetErrorHandler(func(e error) { errs = append(errs, e) })
	collect(tz)
	if len(errs) == 0 {
		t.Fatalf("expected unterminated string to be reported")
	}
	if !strings.Contains(errs[0].Error(), "literal not terminated") {
		t.Errorf("unexpected error message: %v", errs[0])
	}
}
