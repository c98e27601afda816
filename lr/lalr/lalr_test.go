package lalr

import (
	"errors"
	"strconv"
	"strings"
	"testing"

	"github.com/npillmayer/rubin"
	"github.com/npillmayer/rubin/lr"
	"github.com/npillmayer/rubin/lr/scanner"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
)

// L ::= L ; S | S,  S ::= E | error,  E ::= E+E | E-E | E*E | -E | (E) | int
func calcTables(t *testing.T) *lr.Tables {
	b := lr.NewGrammarBuilder("Calc")
	b.Left("+", "-")
	b.Left("*")
	b.Right("UMINUS")
	b.LHS("L").N("L").T(";", ';').N("S").End()
	b.LHS("L").N("S").End()
	b.LHS("S").N("E").End()
	b.LHS("S").Error().End()
	b.LHS("E").N("E").T("+", '+').N("E").End()
	b.LHS("E").N("E").T("-", '-').N("E").End()
	b.LHS("E").N("E").T("*", '*').N("E").End()
	b.LHS("E").T("-", '-').N("E").Prec("UMINUS").End()
	b.LHS("E").T("(", '(').N("E").T(")", ')').End()
	b.LHS("E").T("int", scanner.Int).End()
	g, err := b.Grammar()
	if err != nil {
		t.Fatal(err)
	}
	lrgen := lr.NewTableGenerator(lr.Analysis(g))
	lrgen.CreateTables()
	if lrgen.HasConflicts {
		t.Fatalf("calculator grammar has conflicts: %v", lrgen.Conflicts())
	}
	return lrgen.Tables()
}

// calc evaluates expressions and remembers the value of the last statement.
type calc struct {
	syntaxErrors []string
	abortAt      string
	aborted      error
}

func (c *calc) Shift(tok rubin.Token) int {
	if tok.TokType() == scanner.Int {
		n, _ := strconv.Atoi(tok.Lexeme())
		return n
	}
	if c.abortAt != "" && tok.Lexeme() == c.abortAt {
		c.aborted = errors.New("aborted by client")
	}
	return 0
}

func (c *calc) Reduce(rule *lr.Rule, rhs []int) int {
	switch rule.LHS.Name {
	case "L":
		return rhs[len(rhs)-1]
	case "E":
		switch {
		case len(rhs) == 1:
			return rhs[0]
		case len(rhs) == 2:
			return -rhs[1]
		case rule.RHS()[0].Name == "(":
			return rhs[1]
		}
		switch rule.RHS()[1].Name {
		case "+":
			return rhs[0] + rhs[2]
		case "-":
			return rhs[0] - rhs[2]
		case "*":
			return rhs[0] * rhs[2]
		}
	}
	if len(rhs) > 0 {
		return rhs[0]
	}
	return 0
}

func (c *calc) SyntaxError(tok rubin.Token, expected []*lr.Symbol) {
	c.syntaxErrors = append(c.syntaxErrors, tok.Lexeme())
}

func (c *calc) Aborted() error {
	return c.aborted
}

func parse(t *testing.T, tables *lr.Tables, sem *calc, input string) (int, *Parser[int], error) {
	p := NewParser[int](tables, sem)
	scan := scanner.GoTokenizer(t.Name(), strings.NewReader(input))
	v, err := p.Parse(scan)
	return v, p, err
}

func TestEvaluate(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "rubin.lr")
	defer teardown()
	//
	tables := calcTables(t)
	for _, test := range []struct {
		input string
		value int
	}{
		{"1+2*3", 7},
		{"-(1+2)*3", -9},
		{"1-2-3", -4},
		{"2*3; 4", 4},
	} {
		v, p, err := parse(t, tables, &calc{}, test.input)
		if err != nil {
			t.Errorf("%q: unexpected error %v", test.input, err)
			continue
		}
		if p.Errors != 0 || v != test.value {
			t.Errorf("%q: expected %d, have %d (%d errors)", test.input, test.value, v, p.Errors)
		}
	}
}

func TestErrorRecovery(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "rubin.lr")
	defer teardown()
	//
	tables := calcTables(t)
	sem := &calc{}
	v, p, err := parse(t, tables, sem, "1+;2*3")
	if err != nil {
		t.Fatalf("expected parser to recover, have %v", err)
	}
	if p.Errors != 1 || len(sem.syntaxErrors) != 1 || sem.syntaxErrors[0] != ";" {
		t.Errorf("expected one syntax error at ';', have %v", sem.syntaxErrors)
	}
	if v != 6 {
		t.Errorf("expected value of last statement to be 6, is %d", v)
	}
}

func TestErrorRecoverySkipsTokens(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "rubin.lr")
	defer teardown()
	//
	tables := calcTables(t)
	sem := &calc{}
	v, p, err := parse(t, tables, sem, "1 2 3 ; 5 + 6")
	if err != nil {
		t.Fatalf("expected parser to recover, have %v", err)
	}
	if p.Errors != 1 {
		t.Errorf("expected errors inside recovery to be reported once, have %d", p.Errors)
	}
	if v != 11 {
		t.Errorf("expected 11, have %d", v)
	}
}

func TestEOFWhileRecovering(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "rubin.lr")
	defer teardown()
	//
	tables := calcTables(t)
	for _, input := range []string{"1+", "1 2 ; 3"} {
		_, p, err := parse(t, tables, &calc{}, input)
		if !errors.Is(err, ErrEOFInRecovery) {
			t.Errorf("%q: expected end of input to be fatal, have %v", input, err)
		}
		if p.Errors != 1 {
			t.Errorf("%q: expected 1 error, have %d", input, p.Errors)
		}
	}
}

func TestAbort(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "rubin.lr")
	defer teardown()
	//
	tables := calcTables(t)
	_, _, err := parse(t, tables, &calc{abortAt: "*"}, "1+2*3")
	if err == nil || err.Error() != "aborted by client" {
		t.Errorf("expected parse to be aborted, have %v", err)
	}
}

func TestStackOverflow(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "rubin.lr")
	defer teardown()
	//
	tables := calcTables(t)
	p := NewParser[int](tables, &calc{})
	p.MaxDepth = 5
	_, err := p.Parse(scanner.GoTokenizer("deep", strings.NewReader("((((((1))))))")))
	if !errors.Is(err, ErrStackOverflow) {
		t.Errorf("expected stack overflow, have %v", err)
	}
}
