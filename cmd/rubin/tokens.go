package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/npillmayer/rubin/syntax/lexer"
	"github.com/npillmayer/rubin/syntax/parser"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var tokensCmd = &cobra.Command{
	Use:   "tokens [file]",
	Short: "Print the token stream of a source file",
	Long: `Print the tokens the scanner produces for a source file. String
interpolation is followed the way the parser would follow it. Without a file
argument, source is read from stdin.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runTokens,
}

func init() {
	tokensCmd.Flags().StringVarP(&expression, "expr", "e", "", "scan source given on the command line")
	rootCmd.AddCommand(tokensCmd)
}

func runTokens(cmd *cobra.Command, args []string) error {
	name, r := "-", io.Reader(os.Stdin)
	if expression != "" {
		name, r = "-e", strings.NewReader(expression)
	} else if len(args) == 1 {
		f, err := os.Open(args[0])
		if err != nil {
			return errorf("cannot open %s: %v", args[0], err)
		}
		defer f.Close()
		name, r = args[0], f
	}
	first := options.FirstLine
	if first <= 0 {
		first = 1
	}
	src := lexer.NewReaderSource(name, r, first)
	diags := &reporter{name: name}
	lx := lexer.New(src, lexer.WithReporter(diags), lexer.Verbose(options.Verbose))
	toks := lexer.Tokens(lx)
	data := [][]string{{"Line", "Col", "Token", "Text", "Value"}}
	for _, t := range toks {
		val := ""
		if t.Val != nil {
			val = fmt.Sprintf("%v", t.Val)
		}
		data = append(data, []string{
			fmt.Sprint(t.Line), fmt.Sprint(t.Col), lexer.TokenName(t.Type),
			fmt.Sprintf("%q", t.Text), val,
		})
	}
	pterm.DefaultTable.WithHasHeader().WithData(data).Render()
	if err := src.Err(); err != nil {
		return errorf("reading %s: %v", name, err)
	}
	if diags.failed {
		return fmt.Errorf("scanning %s failed", name)
	}
	return nil
}

// reporter prints scanner diagnostics as they occur.
type reporter struct {
	name   string
	failed bool
}

func (r *reporter) Report(sev lexer.Severity, line, col int, msg string) {
	d := parser.Diagnostic{Severity: sev, File: r.name, Line: line, Col: col, Msg: msg}
	if sev != lexer.Warning {
		r.failed = true
	}
	printDiagnostics([]parser.Diagnostic{d})
}
