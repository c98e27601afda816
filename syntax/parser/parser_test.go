package parser

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/npillmayer/rubin"
	"github.com/npillmayer/rubin/syntax/ast"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
)

func parse(t *testing.T, src string, opts ...Option) *Result {
	t.Helper()
	res, err := ParseString("test.rb", src, opts...)
	if err != nil {
		t.Fatalf("parse of %q failed: %v", src, err)
	}
	return res
}

func TestTablesAreBuilt(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "rubin.parser")
	defer teardown()
	//
	gen, err := Tables()
	if err != nil {
		t.Fatal(err)
	}
	if gen.Tables() == nil {
		t.Fatalf("expected parser tables")
	}
	again, _ := Tables()
	if again != gen {
		t.Errorf("expected tables to be built once")
	}
}

func TestTrees(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "rubin.parser")
	defer teardown()
	//
	inputs := []struct {
		src  string
		tree string
	}{
		{"x = 1\ny = x + 2\n", "(block (lasgn x (lit 1)) (lasgn y (call (lvar x) + (array (lit 2)))))"},
		{"<<~END\n  hi\n  END\n", `(str "hi\n")`},
		{"if x then y else z end", "(if (vcall x) (vcall y) (vcall z))"},
		{"y if x", "(if (vcall x) (vcall y) nil)"},
		{"a = 1; a", "(block (lasgn a (lit 1)) (lvar a))"},
		{"a; a = 1", "(block (vcall a) (lasgn a (lit 1)))"},
		{"x = -1", "(lasgn x (lit -1))"},
		{"@a = 'q'", `(iasgn @a (str "q"))`},
		{"a, b = 1, 2", "(masgn (array (lasgn a) (lasgn b)) nil (array (lit 1) (lit 2)))"},
		{"a, *b = 1, 2, 3", "(masgn (array (lasgn a)) (splat (lasgn b)) (array (lit 1) (lit 2) (lit 3)))"},
		{"y unless x", "(if (vcall x) nil (vcall y))"},
		{"x = <<E\n#{\"\nE\n\"}\nE\n", `(lasgn x (str "\nE\n\n"))`},
	}
	for i, input := range inputs {
		res := parse(t, input.src)
		if got := ast.SExpr(res.Root); got != input.tree {
			t.Errorf("%d: %q\n  expected %s\n  got      %s", i, input.src, input.tree, got)
		}
	}
}

func TestMatchWithRegexpReceiver(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "rubin.parser")
	defer teardown()
	//
	res := parse(t, "/foo/ =~ s")
	root := res.Root
	if !root.Is(ast.Match2) {
		t.Fatalf("expected match node, got %s", ast.SExpr(root))
	}
	re, ok := root.A.Lit.(*ast.Regexp)
	if !root.A.Is(ast.Lit) || !ok {
		t.Fatalf("expected regexp literal as receiver, got %s", ast.SExpr(root.A))
	}
	if re.Source != "foo" {
		t.Errorf("expected regexp source 'foo', got %q", re.Source)
	}
}

func TestSlashAtBeginIsRegexp(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "rubin.parser")
	defer teardown()
	//
	res := parse(t, "x = / y/\n")
	if !res.Root.Is(ast.LAsgn) || res.Root.A == nil {
		t.Fatalf("expected assignment, got %s", ast.SExpr(res.Root))
	}
	re, ok := res.Root.A.Lit.(*ast.Regexp)
	if !ok || re.Source != " y" {
		t.Errorf("expected regexp ' y', got %s", ast.SExpr(res.Root.A))
	}
	res = parse(t, "x = 4\ny = x / 2\n")
	div := res.Root.List[1].A
	if !div.Is(ast.Call) || div.ID.String() != "/" {
		t.Errorf("expected division, got %s", ast.SExpr(div))
	}
}

func TestMethodDefinitionArgs(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "rubin.parser")
	defer teardown()
	//
	res := parse(t, "def m(a, b=1, *r); end")
	if !res.Root.Is(ast.Defn) || res.Root.Name() != "m" {
		t.Fatalf("expected method definition, got %s", ast.SExpr(res.Root))
	}
	args := ast.Find(res.Root, ast.Args)
	expected := "(args (lasgn a) (opt (lasgn b (lit 1))) (rest r))"
	if got := ast.SExpr(args); got != expected {
		t.Errorf("expected %s, got %s", expected, got)
	}
	scope := res.Root.C
	if !scope.Is(ast.Scope) || len(scope.Locals) < 3 {
		t.Errorf("expected method scope with parameters as locals, got %v", scope.Locals)
	}
}

func TestDuplicateArgument(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "rubin.parser")
	defer teardown()
	//
	res, err := ParseString("test.rb", "def m(a,a)\nend\n")
	var perr *Error
	if !errors.As(err, &perr) {
		t.Fatalf("expected parse error, got %v", err)
	}
	if perr.Count != 1 || perr.Fatal || IsFatal(err) {
		t.Errorf("expected a single recoverable error, got %+v", perr)
	}
	if res == nil || res.Root == nil {
		t.Fatalf("expected a partial result")
	}
	if !strings.Contains(perr.Diagnostics[0].Msg, "duplicate argument name") {
		t.Errorf("unexpected diagnostic %v", perr.Diagnostics[0])
	}
}

func TestUnterminatedString(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "rubin.parser")
	defer teardown()
	//
	res, err := ParseString("test.rb", `x = "abc`)
	if res != nil {
		t.Errorf("expected no result for fatal error")
	}
	if !IsFatal(err) || !IsIncomplete(err) {
		t.Fatalf("expected fatal and incomplete error, got %v", err)
	}
	var perr *Error
	errors.As(err, &perr)
	if perr.Count != 1 {
		t.Errorf("expected 1 error, got %d", perr.Count)
	}
}

func TestMalformedNumeralsAreFatal(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "rubin.parser")
	defer teardown()
	//
	for _, src := range []string{"x = 1__2", "x = 1_", "x = 0x_1", "x = 1_.5", "x = 12abc\ny = 1\n"} {
		res, err := ParseString("test.rb", src)
		if res != nil {
			t.Errorf("%q: expected no result, got %s", src, ast.SExpr(res.Root))
		}
		if !IsFatal(err) {
			t.Errorf("%q: expected fatal error, got %v", src, err)
		}
		if IsIncomplete(err) {
			t.Errorf("%q: more input cannot repair a malformed numeral", src)
		}
	}
}

func TestSyntaxErrors(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "rubin.parser")
	defer teardown()
	//
	inputs := []struct {
		src        string
		msg        string
		incomplete bool
	}{
		{"def m\n", "unexpected $end", true},
		{"x = (1\n", "unexpected $end", true},
		{"x = 1 )\n", "syntax error, unexpected ')'", false},
		{"self = 1\n", "Can't change the value of self", false},
		{"def m; X = 1; end\n", "dynamic constant assignment", false},
		{"def m(@a); end\n", "formal argument cannot be an instance variable", false},
		{"class foo; end\n", "class/module name must be CONSTANT", false},
		{"x = (return)\n", "void value expression", false},
	}
	for i, input := range inputs {
		_, err := ParseString("test.rb", input.src)
		var perr *Error
		if !errors.As(err, &perr) {
			t.Errorf("%d: expected error for %q", i, input.src)
			continue
		}
		found := false
		for _, d := range perr.Diagnostics {
			found = found || strings.Contains(d.Msg, input.msg)
		}
		if !found {
			t.Errorf("%d: expected %q in %v", i, input.msg, perr.Diagnostics)
		}
		if IsIncomplete(err) != input.incomplete {
			t.Errorf("%d: expected incomplete=%v for %q", i, input.incomplete, input.src)
		}
	}
}

func TestLocalsAreRecorded(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "rubin.parser")
	defer teardown()
	//
	res := parse(t, "x = 1\n[1].each { |y| z = y }\n")
	hasLocal := func(name string) bool {
		for _, id := range res.Locals {
			if id == rubin.Intern(name) {
				return true
			}
		}
		return false
	}
	if !hasLocal("x") {
		t.Errorf("expected x to be a top-level local, got %v", res.Locals)
	}
	if hasLocal("y") || hasLocal("z") {
		t.Errorf("expected block locals to stay in the block, got %v", res.Locals)
	}
	iter := ast.Find(res.Root, ast.Iter)
	if iter == nil {
		t.Fatalf("expected iterator in %s", ast.SExpr(res.Root))
	}
	if dvar := ast.Find(iter, ast.DVar); dvar == nil || dvar.Name() != "y" {
		t.Errorf("expected y to be a block-local variable in %s", ast.SExpr(iter))
	}
}

func TestPredeclaredLocals(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "rubin.parser")
	defer teardown()
	//
	res := parse(t, "a", Locals("a"))
	if !res.Root.Is(ast.LVar) {
		t.Errorf("expected local variable, got %s", ast.SExpr(res.Root))
	}
	res = parse(t, "a")
	if !res.Root.Is(ast.VCall) {
		t.Errorf("expected method call, got %s", ast.SExpr(res.Root))
	}
}

func TestDefinitionContext(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "rubin.parser")
	defer teardown()
	//
	_, err := ParseString("eval", "class X; end", InDefinition(DefContext{InDef: 1}))
	if err == nil || IsFatal(err) {
		t.Fatalf("expected recoverable error, got %v", err)
	}
	if !strings.Contains(err.Error(), "class definition in method body") {
		t.Errorf("unexpected error %v", err)
	}
}

func TestBeginPolicies(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "rubin.parser")
	defer teardown()
	//
	src := "BEGIN { x = 1 }\ny\n"
	res := parse(t, src)
	if len(res.PreExec) != 1 || !res.Root.Is(ast.VCall) {
		t.Errorf("expected collected BEGIN block, got %d, %s", len(res.PreExec), ast.SExpr(res.Root))
	}
	res = parse(t, src, Begin(BeginInline))
	if len(res.PreExec) != 0 || !res.Root.Is(ast.Block) || !res.Root.List[0].Is(ast.Scope) {
		t.Errorf("expected inline BEGIN block, got %s", ast.SExpr(res.Root))
	}
	_, err := ParseString("test.rb", src, Begin(BeginReject))
	if err == nil || !strings.Contains(err.Error(), "BEGIN is permitted only at toplevel") {
		t.Errorf("expected BEGIN to be rejected, got %v", err)
	}
}

func TestDataOffset(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "rubin.parser")
	defer teardown()
	//
	src := "x = 1\n__END__\ndata\n"
	res := parse(t, src)
	if res.DataOffset < 0 || src[res.DataOffset:] != "data\n" {
		t.Errorf("expected data offset at 'data', got %d", res.DataOffset)
	}
	if res = parse(t, "x = 1\n"); res.DataOffset != -1 {
		t.Errorf("expected no data offset, got %d", res.DataOffset)
	}
}

func TestWarnings(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "rubin.parser")
	defer teardown()
	//
	res := parse(t, "if x = 1 then y end\n")
	if len(res.Warnings) == 0 || !strings.Contains(res.Warnings[0].Msg, "found = in conditional") {
		t.Errorf("expected warning for assignment in condition, got %v", res.Warnings)
	}
	res = parse(t, "1\nx = 2\n", Verbose(true))
	found := false
	for _, w := range res.Warnings {
		found = found || strings.Contains(w.Msg, "useless use of a literal in void context")
	}
	if !found {
		t.Errorf("expected void context warning, got %v", res.Warnings)
	}
}

func TestCancelledParse(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "rubin.parser")
	defer teardown()
	//
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := ParseContext(ctx, "test.rb", strings.NewReader("x = 1\ny = 2\n"))
	if !errors.Is(err, ErrCancelled) {
		t.Errorf("expected cancelled parse, got %v", err)
	}
}

// pollCounter counts the polls of a parse's context and reports
// cancellation after a number of them.
type pollCounter struct {
	context.Context
	polls, after int
}

func (c *pollCounter) Err() error {
	c.polls++
	if c.polls > c.after {
		return context.Canceled
	}
	return nil
}

func TestCancelOnlyBetweenOutermostStatements(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "rubin.parser")
	defer teardown()
	//
	src := "if true\n  a = 1\n  b = 2\nend\nwhile c\n  d = [1].map { |e| e; e }\nend\nf = 3\n"
	ctx := &pollCounter{Context: context.Background(), after: 100}
	if _, err := ParseContext(ctx, "test.rb", strings.NewReader(src)); err != nil {
		t.Fatal(err)
	}
	if ctx.polls != 3 {
		t.Errorf("expected 3 polls, one per outermost statement, got %d", ctx.polls)
	}
	ctx = &pollCounter{Context: context.Background(), after: 1}
	_, err := ParseContext(ctx, "test.rb", strings.NewReader(src))
	if !errors.Is(err, ErrCancelled) || ctx.polls != 2 {
		t.Errorf("expected cancellation at the second statement, got %v after %d polls", err, ctx.polls)
	}
}

func TestStackLimit(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "rubin.parser")
	defer teardown()
	//
	src := strings.Repeat("(", 50) + "1" + strings.Repeat(")", 50)
	_, err := ParseString("test.rb", src, MaxDepth(20))
	if !IsFatal(err) || !strings.Contains(err.Error(), "stack level too deep") {
		t.Errorf("expected stack overflow, got %v", err)
	}
}
