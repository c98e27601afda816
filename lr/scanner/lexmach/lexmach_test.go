package lexmach

import (
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
)

func TestOperatorPrefix(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "rubin.scanner")
	defer teardown()
	//
	ops := []string{"*", "**", "**=", "<", "<<", "<<=", "<=>", "=", "==", "==="}
	ids := map[string]int{}
	for i, op := range ops {
		ids[op] = i + 1
	}
	dfa, err := Compile(nil, ops, ids)
	if err != nil {
		t.Fatal(err)
	}
	for _, test := range []struct {
		input, lexeme string
	}{
		{"**=x", "**="},
		{"** 2", "**"},
		{"<<-EOS", "<<"},
		{"<=>b", "<=>"},
		{"==y", "=="},
		{"=~", "="},
	} {
		id, lexeme, ok := dfa.Prefix([]byte(test.input))
		if !ok || lexeme != test.lexeme || id != ids[test.lexeme] {
			t.Errorf("%q: expected prefix %q, have %q (ok=%v)", test.input, test.lexeme, lexeme, ok)
		}
	}
	if _, _, ok := dfa.Prefix([]byte("+1")); ok {
		t.Errorf("expected no prefix match for '+1'")
	}
}

func TestPatternPrefix(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "rubin.scanner")
	defer teardown()
	//
	const (
		hex = iota + 1
		dec
		float
	)
	dfa, err := Compile([]Pattern{
		{`0[xX][0-9a-fA-F_]*`, hex},
		{`[1-9][0-9_]*`, dec},
		{`[0-9][0-9_]*\.[0-9][0-9_]*`, float},
	}, nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	for _, test := range []struct {
		input  string
		id     int
		lexeme string
	}{
		{"0x1f+2", hex, "0x1f"},
		{"1_000.times", dec, "1_000"},
		{"12.5)", float, "12.5"},
		{"7", dec, "7"},
	} {
		id, lexeme, ok := dfa.Prefix([]byte(test.input))
		if !ok || id != test.id || lexeme != test.lexeme {
			t.Errorf("%q: expected %d/%q, have %d/%q", test.input, test.id, test.lexeme, id, lexeme)
		}
	}
	if _, _, ok := dfa.Prefix([]byte(" 1")); ok {
		t.Errorf("expected no match at leading space")
	}
}
