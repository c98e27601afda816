package lexer

import (
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
)

func content(toks []*Token) []string {
	var s []string
	for _, t := range toks {
		if t.Type == TStringContent {
			s = append(s, t.Val.(string))
		}
	}
	return s
}

func expectContent(t *testing.T, toks []*Token, expected ...string) {
	t.Helper()
	have := content(toks)
	if len(have) != len(expected) {
		t.Errorf("expected string contents %q, have %q", expected, have)
		return
	}
	for i := range have {
		if have[i] != expected[i] {
			t.Errorf("expected string content %q, have %q", expected[i], have[i])
		}
	}
}

func TestStringLiterals(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "rubin.scanner")
	defer teardown()
	//
	for _, test := range []struct {
		src, content string
	}{
		{`'a\nb'`, `a\nb`},
		{`'it\'s'`, `it's`},
		{`'a\\b'`, `a\b`},
		{`"tab\t"`, "tab\t"},
		{`"\101\x42\e"`, "AB\x1b"},
		{`"\M-a\C-a\c?"`, "\xe1\x01\x7f"},
		{`"é\u{41 42}"`, "éAB"},
		{"\"a\nb\"", "a\nb"},
		{`%q{a{b}c}`, "a{b}c"},
		{`%Q<x>`, "x"},
		{`%(paren)`, "paren"},
	} {
		toks := expectTokens(t, test.src, `tSTRING_BEG tSTRING_CONTENT tSTRING_END $end`)
		expectContent(t, toks, test.content)
	}
	expectTokens(t, `""`, `tSTRING_BEG tSTRING_END $end`)
	toks := expectTokens(t, "`ls`", `tXSTRING_BEG tSTRING_CONTENT tSTRING_END $end`)
	expectContent(t, toks, "ls")
}

func TestInterpolation(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "rubin.scanner")
	defer teardown()
	//
	toks := expectTokens(t, `"a#{b}c"`,
		`tSTRING_BEG tSTRING_CONTENT tSTRING_DBEG tIDENTIFIER '}' tSTRING_CONTENT tSTRING_END $end`)
	expectContent(t, toks, "a", "c")
	expectTokens(t, `"#@x"`, `tSTRING_BEG tSTRING_DVAR tIVAR tSTRING_END $end`)
	expectTokens(t, `"#$1#{ {} }"`,
		`tSTRING_BEG tSTRING_DVAR tNTH_REF tSTRING_DBEG tLBRACE '}' '}' tSTRING_END $end`)
	toks = expectTokens(t, `'#{a}'`, `tSTRING_BEG tSTRING_CONTENT tSTRING_END $end`)
	expectContent(t, toks, "#{a}")
	toks = expectTokens(t, `"a # b"`, `tSTRING_BEG tSTRING_CONTENT tSTRING_END $end`)
	expectContent(t, toks, "a # b")
	expectTokens(t, `:"a#{b}"`, `tSYMBEG tSTRING_CONTENT tSTRING_DBEG tIDENTIFIER '}' tSTRING_END $end`)
}

func TestWordLists(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "rubin.scanner")
	defer teardown()
	//
	toks := expectTokens(t, `%w(a b)`, `tQWORDS_BEG tSTRING_CONTENT ' ' tSTRING_CONTENT ' ' tSTRING_END $end`)
	expectContent(t, toks, "a", "b")
	expectTokens(t, `%w()`, `tQWORDS_BEG ' ' tSTRING_END $end`)
	toks = expectTokens(t, `%w[ a\ b  c ]`, `tQWORDS_BEG tSTRING_CONTENT ' ' tSTRING_CONTENT ' ' tSTRING_END $end`)
	expectContent(t, toks, "a b", "c")
	expectTokens(t, `%W(a#{b} c)`,
		`tWORDS_BEG tSTRING_CONTENT tSTRING_DBEG tIDENTIFIER '}' ' ' tSTRING_CONTENT ' ' tSTRING_END $end`)
}

func TestRegexpLiterals(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "rubin.scanner")
	defer teardown()
	//
	toks := expectTokens(t, `/a\/b/`, `tREGEXP_BEG tSTRING_CONTENT tREGEXP_END $end`)
	expectContent(t, toks, "a/b")
	toks = expectTokens(t, `/a\d\\/`, `tREGEXP_BEG tSTRING_CONTENT tREGEXP_END $end`)
	expectContent(t, toks, `a\d\\`)
	toks = expectTokens(t, `%r{a/b}x`, `tREGEXP_BEG tSTRING_CONTENT tREGEXP_END $end`)
	expectContent(t, toks, "a/b")
	if toks[2].Val != 2 {
		t.Errorf("expected option x, have %v", toks[2].Val)
	}
	_, rec, _ := scan(`/a/q`)
	if !rec.has(Error, "unknown regexp option - q") {
		t.Errorf("expected error for unknown option, have %v", rec.diags)
	}
}

func TestHeredocs(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "rubin.scanner")
	defer teardown()
	//
	toks := expectTokens(t, "a = <<EOS\nhi #{name}!\nEOS\n",
		`tIDENTIFIER '=' tSTRING_BEG tSTRING_CONTENT tSTRING_DBEG tIDENTIFIER '}' tSTRING_CONTENT tSTRING_END '\n' $end`)
	expectContent(t, toks, "hi ", "!\n")
	toks = expectTokens(t, "a = <<'EOS'\n  #{x}\\n\nEOS\n",
		`tIDENTIFIER '=' tSTRING_BEG tSTRING_CONTENT tSTRING_END '\n' $end`)
	expectContent(t, toks, "  #{x}\\n\n")
	toks = expectTokens(t, "a = <<-EOS\n  x\n  EOS\n",
		`tIDENTIFIER '=' tSTRING_BEG tSTRING_CONTENT tSTRING_END '\n' $end`)
	expectContent(t, toks, "  x\n")
	toks = expectTokens(t, "a = <<EOS\nEOS\n", `tIDENTIFIER '=' tSTRING_BEG tSTRING_END '\n' $end`)
	expectContent(t, toks)
}

func TestSeveralHeredocsOnOneLine(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "rubin.scanner")
	defer teardown()
	//
	toks := expectTokens(t, "foo(<<A, <<B)\na\nA\nb\nB\nbar\n",
		`tIDENTIFIER '(' tSTRING_BEG tSTRING_CONTENT tSTRING_END ',' tSTRING_BEG tSTRING_CONTENT tSTRING_END ')' '\n' tIDENTIFIER '\n' $end`)
	expectContent(t, toks, "a\n", "b\n")
	if toks[11].Line != 6 {
		t.Errorf("expected bar on line 6, is on line %d", toks[11].Line)
	}
}

func TestSquigglyHeredoc(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "rubin.scanner")
	defer teardown()
	//
	toks := expectTokens(t, "s = <<~EOS\n    a\n\n      b\n    EOS\n",
		`tIDENTIFIER '=' tSTRING_BEG tSTRING_CONTENT tSTRING_END '\n' $end`)
	expectContent(t, toks, "a\n\n  b\n")
	toks = expectTokens(t, "s = <<~'EOS'\n  a #{x}\n    b\nEOS\n",
		`tIDENTIFIER '=' tSTRING_BEG tSTRING_CONTENT tSTRING_END '\n' $end`)
	expectContent(t, toks, "a #{x}\n  b\n")
}

func TestUnterminatedLiterals(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "rubin.scanner")
	defer teardown()
	//
	toks, rec, lx := scan("x = \"abc\n")
	if have := names(toks); have != `tIDENTIFIER '=' tSTRING_BEG $end` {
		t.Errorf("expected tokens up to the string, have %s", have)
	}
	if !rec.has(Fatal, "unterminated string meets end of file") || !lx.Failed() {
		t.Errorf("expected fatal error for unterminated string, have %v", rec.diags)
	}
	_, rec, _ = scan("a = <<EOS\nbody\n")
	if !rec.has(Fatal, `can't find string "EOS" anywhere before EOF`) {
		t.Errorf("expected fatal error for unterminated heredoc, have %v", rec.diags)
	}
	_, rec, _ = scan("%w(a b")
	if !rec.has(Fatal, "unterminated string") {
		t.Errorf("expected fatal error for unterminated word list, have %v", rec.diags)
	}
}
