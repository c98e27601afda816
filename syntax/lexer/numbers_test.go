package lexer

import (
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
)

func TestNumerals(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "rubin.scanner")
	defer teardown()
	//
	for _, test := range []struct {
		src   string
		value interface{}
	}{
		{"0", int64(0)},
		{"42", int64(42)},
		{"1_000", int64(1000)},
		{"0x1F", int64(31)},
		{"0b101", int64(5)},
		{"017", int64(15)},
		{"0_17", int64(15)},
		{"0o17", int64(15)},
		{"0d19", int64(19)},
		{"1.5", 1.5},
		{"1.5e3", 1500.0},
		{"2e-2", 0.02},
		{"1_0.2_5", 10.25},
	} {
		toks := expectTokens(t, test.src, map[bool]string{
			true:  `tINTEGER $end`,
			false: `tFLOAT $end`,
		}[isInt(test.value)])
		if toks[0].Val != test.value {
			t.Errorf("%q: expected value %v, have %v", test.src, test.value, toks[0].Val)
		}
		if toks[0].Text != test.src {
			t.Errorf("%q: expected lexeme %q, have %q", test.src, test.src, toks[0].Text)
		}
	}
}

func isInt(v interface{}) bool {
	_, ok := v.(int64)
	return ok
}

func TestNumeralsInContext(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "rubin.scanner")
	defer teardown()
	//
	expectTokens(t, "1..2", `tINTEGER tDOT2 tINTEGER $end`)
	expectTokens(t, "3.times", `tINTEGER '.' tIDENTIFIER $end`)
	toks := expectTokens(t, "+5", `tINTEGER $end`)
	if toks[0].Val != int64(5) {
		t.Errorf("expected +5 to be 5, have %v", toks[0].Val)
	}
	expectTokens(t, "a[0]", `tIDENTIFIER '[' tINTEGER ']' $end`, "a")
}

func TestMalformedNumerals(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "rubin.scanner")
	defer teardown()
	//
	for _, test := range []struct {
		src string
		sev Severity
		msg string
	}{
		{"1__0", Fatal, "trailing `_' in number"},
		{"1_", Fatal, "trailing `_' in number"},
		{"1_.5", Fatal, "trailing `_' in number"},
		{"08", Error, "Illegal octal digit"},
		{"0b12", Error, "Illegal binary digit"},
		{"0x", Fatal, "numeric literal without digits"},
		{"0x_1", Fatal, "numeric literal without digits"},
		{"12abc", Fatal, "trailing garbage"},
		{".5", Error, "no .<digit> floating literal"},
		{"1.5__0", Fatal, "trailing `_' in number"},
		{"0b_", Fatal, "numeric literal without digits"},
	} {
		_, rec, _ := scan(test.src)
		if !rec.has(test.sev, test.msg) {
			t.Errorf("%q: expected %s %q, have %v", test.src, test.sev, test.msg, rec.diags)
		}
	}
}
