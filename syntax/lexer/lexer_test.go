package lexer

import (
	"math/big"
	"strings"
	"testing"

	"github.com/npillmayer/rubin"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
)

type diag struct {
	sev  Severity
	line int
	msg  string
}

type recorder struct {
	diags []diag
}

func (r *recorder) Report(sev Severity, line, col int, msg string) {
	r.diags = append(r.diags, diag{sev, line, msg})
}

func (r *recorder) has(sev Severity, fragment string) bool {
	for _, d := range r.diags {
		if d.sev == sev && strings.Contains(d.msg, fragment) {
			return true
		}
	}
	return false
}

type locals map[string]bool

func (l locals) IsKnown(id rubin.SymbolID) bool {
	return l[id.String()]
}

func scan(src string, known ...string) ([]*Token, *recorder, *Lexer) {
	rec := &recorder{}
	scope := locals{}
	for _, name := range known {
		scope[name] = true
	}
	lx := New(NewSource("test", src, 1), WithScope(scope), WithReporter(rec))
	return Tokens(lx), rec, lx
}

func names(toks []*Token) string {
	n := make([]string, len(toks))
	for i, t := range toks {
		n[i] = TokenName(t.Type)
	}
	return strings.Join(n, " ")
}

func expectTokens(t *testing.T, src string, expected string, known ...string) []*Token {
	t.Helper()
	toks, rec, _ := scan(src, known...)
	if have := names(toks); have != expected {
		t.Errorf("%q: expected tokens\n   %s\nhave %s", src, expected, have)
	}
	for _, d := range rec.diags {
		if d.sev > Warning {
			t.Errorf("%q: unexpected diagnostic %s: %s", src, d.sev, d.msg)
		}
	}
	return toks
}

// ---------------------------------------------------------------------------

func TestSimpleStatement(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "rubin.scanner")
	defer teardown()
	//
	toks := expectTokens(t, "x = 1 + 2\n", `tIDENTIFIER '=' tINTEGER '+' tINTEGER '\n' $end`)
	if toks[0].ID() != rubin.Intern("x") {
		t.Errorf("expected identifier x, have %v", toks[0].Val)
	}
	if toks[2].Val != int64(1) || toks[2].Text != "1" {
		t.Errorf("expected integer 1, have %v", toks[2])
	}
	if toks[4].Span() != (rubin.Span{8, 9}) {
		t.Errorf("expected span of '2' to be (8…9), is %v", toks[4].Span())
	}
}

func TestNewlinesAfterOperators(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "rubin.scanner")
	defer teardown()
	//
	expectTokens(t, "a = 1 +\n  2\n", `tIDENTIFIER '=' tINTEGER '+' tINTEGER '\n' $end`)
	expectTokens(t, "a = 1 # comment\nb\n", `tIDENTIFIER '=' tINTEGER '\n' tIDENTIFIER '\n' $end`)
	expectTokens(t, "a = 1 \\\n  + 2\n", `tIDENTIFIER '=' tINTEGER '+' tINTEGER '\n' $end`)
}

func TestRegexpOrDivision(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "rubin.scanner")
	defer teardown()
	//
	expectTokens(t, "a /b/\n", `tIDENTIFIER tREGEXP_BEG tSTRING_CONTENT tREGEXP_END '\n' $end`)
	expectTokens(t, "a /b/\n", `tIDENTIFIER '/' tIDENTIFIER '/' $end`, "a")
	expectTokens(t, "a / b\n", `tIDENTIFIER '/' tIDENTIFIER '\n' $end`)
	toks := expectTokens(t, "x = /ab+/im", `tIDENTIFIER '=' tREGEXP_BEG tSTRING_CONTENT tREGEXP_END $end`)
	if toks[4].Val != 1|4 { // i and m
		t.Errorf("expected regexp options i and m, have %v", toks[4].Val)
	}
}

func TestUnaryMinus(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "rubin.scanner")
	defer teardown()
	//
	expectTokens(t, "-1", `tUMINUS_NUM tINTEGER $end`)
	expectTokens(t, "-x", `tUMINUS tIDENTIFIER $end`)
	expectTokens(t, "x -1", `tIDENTIFIER tUMINUS_NUM tINTEGER $end`)
	expectTokens(t, "x -1", `tIDENTIFIER '-' tINTEGER $end`, "x")
	expectTokens(t, "x - 1", `tIDENTIFIER '-' tINTEGER $end`)
	expectTokens(t, "def -@; end", `kDEF tUMINUS ';' kEND $end`)
}

func TestKeywordForms(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "rubin.scanner")
	defer teardown()
	//
	expectTokens(t, "if a then b end", `kIF tIDENTIFIER kTHEN tIDENTIFIER kEND $end`)
	expectTokens(t, "b if a", `tIDENTIFIER kIF_MOD tIDENTIFIER $end`)
	expectTokens(t, "b while a", `tIDENTIFIER kWHILE_MOD tIDENTIFIER $end`)
	expectTokens(t, "b rescue a", `tIDENTIFIER kRESCUE_MOD tIDENTIFIER $end`)
	expectTokens(t, "x.class", `tIDENTIFIER '.' tIDENTIFIER $end`)
	expectTokens(t, "def end; end", `kDEF kEND ';' kEND $end`)
	expectTokens(t, "foo do end", `tIDENTIFIER kDO kEND $end`)
	expectTokens(t, "defined? x", `kDEFINED tIDENTIFIER $end`)
	expectTokens(t, "__FILE__ __LINE__", `k__FILE__ k__LINE__ $end`)
}

func TestDoVariants(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "rubin.scanner")
	defer teardown()
	//
	lx := New(NewSource("test", "do", 1))
	lx.Cond.Push(true)
	if tok := lx.NextToken(); tok.TokType() != KDoCond {
		t.Errorf("expected kDO_COND, have %s", TokenName(tok.TokType()))
	}
	lx = New(NewSource("test", "x do", 1))
	lx.Cmdarg.Push(true)
	lx.NextToken()
	lx.Mode = ModeArg
	if tok := lx.NextToken(); tok.TokType() != KDoBlock {
		t.Errorf("expected kDO_BLOCK, have %s", TokenName(tok.TokType()))
	}
}

func TestVariables(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "rubin.scanner")
	defer teardown()
	//
	toks := expectTokens(t, "@a; @@b; $c; $1; $&; $-w; $_; Foo; bar?; baz!",
		`tIVAR ';' tCVAR ';' tGVAR ';' tNTH_REF ';' tBACK_REF ';' tGVAR ';' tGVAR ';' tCONSTANT ';' tFID ';' tFID $end`)
	if toks[6].Val != 1 {
		t.Errorf("expected $1 to be numbered group 1, have %v", toks[6].Val)
	}
	if toks[8].Val != int('&') {
		t.Errorf("expected back reference &, have %v", toks[8].Val)
	}
	if toks[10].ID() != rubin.Intern("$-w") {
		t.Errorf("expected $-w, have %v", toks[10])
	}
	_, rec, _ := scan("@1")
	if !rec.has(Error, "not allowed as an instance variable name") {
		t.Errorf("expected error for @1, have %v", rec.diags)
	}
}

func TestOperators(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "rubin.scanner")
	defer teardown()
	//
	expectTokens(t, "a <=> b", `tIDENTIFIER tCMP tIDENTIFIER $end`, "a", "b")
	expectTokens(t, "a === b", `tIDENTIFIER tEQQ tIDENTIFIER $end`, "a", "b")
	expectTokens(t, "a ** b", `tIDENTIFIER tPOW tIDENTIFIER $end`, "a", "b")
	expectTokens(t, "a..b", `tIDENTIFIER tDOT2 tIDENTIFIER $end`, "a", "b")
	expectTokens(t, "a...b", `tIDENTIFIER tDOT3 tIDENTIFIER $end`, "a", "b")
	expectTokens(t, "A::B", `tCONSTANT tCOLON2 tCONSTANT $end`)
	expectTokens(t, "::B", `tCOLON3 tCONSTANT $end`)
	expectTokens(t, "{ :a => 1 }", `tLBRACE tSYMBEG tIDENTIFIER tASSOC tINTEGER '}' $end`)
	expectTokens(t, "a[1]", `tIDENTIFIER '[' tINTEGER ']' $end`, "a")
	expectTokens(t, "[1]", `tLBRACK tINTEGER ']' $end`)
	expectTokens(t, "foo *args, &blk", `tIDENTIFIER tSTAR tIDENTIFIER ',' tAMPER tIDENTIFIER $end`)
	expectTokens(t, "a && b || !c", `tIDENTIFIER tANDOP tIDENTIFIER tOROP '!' tIDENTIFIER $end`, "a", "b", "c")
	expectTokens(t, "a =~ b", `tIDENTIFIER tMATCH tIDENTIFIER $end`, "a", "b")
	expectTokens(t, "def []=(k, v); end", `kDEF tASET '(' tIDENTIFIER ',' tIDENTIFIER ')' ';' kEND $end`)
	for _, op := range []string{"+", "-", "*", "/", "%", "**", "<<", ">>", "&&", "||", "&", "|", "^"} {
		toks := expectTokens(t, "a "+op+"= 1", `tIDENTIFIER tOP_ASGN tINTEGER $end`, "a")
		if toks[1].ID() != rubin.Intern(op) {
			t.Errorf("expected operator %s for op-assign, have %v", op, toks[1].Val)
		}
	}
}

func TestCharLiteral(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "rubin.scanner")
	defer teardown()
	//
	toks := expectTokens(t, "?a", `tINTEGER $end`)
	if toks[0].Val != int64('a') {
		t.Errorf("expected ?a to be 97, have %v", toks[0].Val)
	}
	toks = expectTokens(t, `?\n`, `tINTEGER $end`)
	if toks[0].Val != int64('\n') {
		t.Errorf("expected ?\\n to be 10, have %v", toks[0].Val)
	}
	expectTokens(t, "x ? y : z", `tIDENTIFIER '?' tIDENTIFIER ':' tIDENTIFIER $end`, "x", "y", "z")
}

func TestEmbeddedDocumentAndData(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "rubin.scanner")
	defer teardown()
	//
	expectTokens(t, "=begin\nignored\n=end\nx\n", `tIDENTIFIER '\n' $end`)
	toks, _, lx := scan("x\n__END__\nsome data\n")
	if have := names(toks); have != `tIDENTIFIER '\n' $end` {
		t.Errorf("expected tokens before __END__, have %s", have)
	}
	if !lx.DataSeen() || lx.Source().Rest() != "some data\n" {
		t.Errorf("expected data section 'some data', have %q", lx.Source().Rest())
	}
	_, rec, _ := scan("=begin\nnever closed\n")
	if !rec.has(Fatal, "embedded document meets end of file") {
		t.Errorf("expected fatal error for open embedded document, have %v", rec.diags)
	}
}

func TestInvalidCharacter(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "rubin.scanner")
	defer teardown()
	//
	toks, rec, _ := scan("a \x01 b")
	if have := names(toks); have != `tIDENTIFIER tIDENTIFIER $end` {
		t.Errorf("expected invalid character to be skipped, have %s", have)
	}
	if !rec.has(Error, "Invalid char") {
		t.Errorf("expected error for invalid character, have %v", rec.diags)
	}
}

func TestErrorHandler(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "rubin.scanner")
	defer teardown()
	//
	lx := New(NewSource("test", "\"open", 1))
	var errs []error
	lx.SetErrorHandler(func(e error) {
		errs = append(errs, e)
	})
	Tokens(lx)
	if len(errs) != 1 || errs[0].(*LexError).Severity != Fatal {
		t.Fatalf("expected one fatal error, have %v", errs)
	}
}

func TestBigInteger(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "rubin.scanner")
	defer teardown()
	//
	toks := expectTokens(t, "123456789012345678901234567890", `tINTEGER $end`)
	n, ok := toks[0].Val.(*big.Int)
	if !ok || n.String() != "123456789012345678901234567890" {
		t.Errorf("expected big integer, have %v", toks[0].Val)
	}
}
