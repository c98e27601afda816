package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/npillmayer/rubin/syntax/ast"
	"github.com/npillmayer/rubin/syntax/parser"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var (
	showTree   bool
	expression string
)

var parseCmd = &cobra.Command{
	Use:   "parse [file ...]",
	Short: "Parse source files and print their syntax trees",
	Long: `Parse source files and print their syntax trees as s-expressions.
Without file arguments, source is read from stdin.`,
	RunE: runParse,
}

func init() {
	parseCmd.Flags().BoolVar(&showTree, "tree", false, "print trees indented instead of as s-expressions")
	parseCmd.Flags().StringVarP(&expression, "expr", "e", "", "parse source given on the command line")
	rootCmd.AddCommand(parseCmd)
}

func runParse(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if expression != "" {
		return parseOne(ctx, "-e", strings.NewReader(expression))
	}
	if len(args) == 0 {
		return parseOne(ctx, "-", os.Stdin)
	}
	failed := 0
	for _, path := range args {
		f, err := os.Open(path)
		if err != nil {
			return errorf("cannot open %s: %v", path, err)
		}
		if err = parseOne(ctx, path, f); err != nil {
			failed++
		}
		f.Close()
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d files failed to parse", failed, len(args))
	}
	return nil
}

func parseOne(ctx context.Context, name string, r io.Reader) error {
	res, err := parser.ParseContext(ctx, name, r, parseOptions()...)
	if res != nil {
		printDiagnostics(res.Diagnostics)
		for _, pre := range res.PreExec {
			printTree("BEGIN", pre)
		}
		printTree(name, res.Root)
		if res.DataOffset >= 0 {
			pterm.Info.Println(fmt.Sprintf("data section starts at byte %d", res.DataOffset))
		}
	} else if perr := (*parser.Error)(nil); errors.As(err, &perr) {
		printDiagnostics(perr.Diagnostics)
	}
	if err != nil {
		tracer().Errorf("%v", err)
		return err
	}
	return nil
}

func printTree(label string, root *ast.Node) {
	if !showTree {
		fmt.Println(ast.SExpr(root))
		return
	}
	pterm.Println(label)
	pterm.DefaultTree.WithRoot(treeOf(root)).Render()
}
