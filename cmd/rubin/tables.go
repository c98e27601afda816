package main

import (
	"fmt"
	"io"
	"os"

	"github.com/npillmayer/rubin/lr"
	"github.com/npillmayer/rubin/syntax/parser"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var (
	actionHTML string
	gotoHTML   string
	cfsmDot    string
)

var tablesCmd = &cobra.Command{
	Use:   "tables",
	Short: "Report on the parser tables",
	Long: `Build the LALR(1) tables of the grammar, report their size and the
conflicts left after precedence resolution, and optionally export them.`,
	Args: cobra.NoArgs,
	RunE: runTables,
}

func init() {
	tablesCmd.Flags().StringVar(&actionHTML, "html", "", "write the action table as HTML")
	tablesCmd.Flags().StringVar(&gotoHTML, "goto", "", "write the goto table as HTML")
	tablesCmd.Flags().StringVar(&cfsmDot, "dot", "", "write the characteristic automaton in GraphViz format")
	rootCmd.AddCommand(tablesCmd)
}

func runTables(cmd *cobra.Command, args []string) error {
	gen, err := parser.Tables()
	if err != nil {
		return errorf("%v", err)
	}
	tables := gen.Tables()
	g := tables.G
	pterm.Info.Println(fmt.Sprintf("grammar %s: %d rules, %d terminals, %d non-terminals, %d states",
		g.Name, g.Size(), g.TerminalCount(), g.NonTerminalCount(), len(tables.Defaults)))
	conflicts := gen.Conflicts()
	for _, c := range conflicts {
		pterm.Warning.Println(c.String())
		tracer().Debugf("  rule %d: %v", c.Rule.Serial, c.Rule)
	}
	if len(conflicts) == 0 {
		pterm.Info.Println("no unresolved conflicts")
	}
	exports := []struct {
		path  string
		write func(io.Writer)
	}{
		{actionHTML, func(w io.Writer) { lr.ActionTableAsHTML(gen, w) }},
		{gotoHTML, func(w io.Writer) { lr.GotoTableAsHTML(gen, w) }},
		{cfsmDot, func(w io.Writer) { gen.CFSM().CFSM2GraphViz(w) }},
	}
	for _, x := range exports {
		if x.path == "" {
			continue
		}
		if err := writeFile(x.path, x.write); err != nil {
			return errorf("cannot write %s: %v", x.path, err)
		}
		pterm.Info.Println("written " + x.path)
	}
	return nil
}

func writeFile(path string, write func(io.Writer)) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	write(f)
	return f.Close()
}
