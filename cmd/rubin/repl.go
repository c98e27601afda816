package main

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/chzyer/readline"
	"github.com/npillmayer/rubin/syntax/parser"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var initFile string

var replCmd = &cobra.Command{
	Use:   "repl",
	Short: "Parse statements interactively",
	Long: `Start an interactive session. Each input is parsed as soon as it forms
complete statements and its tree is printed. Local variables assigned in an
input are known in later inputs.`,
	Args: cobra.NoArgs,
	RunE: runREPL,
}

func init() {
	replCmd.Flags().StringVar(&initFile, "init", "", "file of statements to parse first")
	replCmd.Flags().BoolVar(&showTree, "tree", false, "print trees indented instead of as s-expressions")
	rootCmd.AddCommand(replCmd)
}

// Intp is our interactive session object.
type Intp struct {
	repl    *readline.Instance
	pending []string // lines of an incomplete input
	locals  []string // locals declared by earlier inputs
	lineno  int      // line number of the next input
}

func runREPL(cmd *cobra.Command, args []string) error {
	pterm.Info.Println("Welcome to rubin")
	repl, err := readline.New("rubin> ")
	if err != nil {
		return errorf("%v", err)
	}
	defer repl.Close()
	intp := &Intp{repl: repl, lineno: 1}
	intp.loadInitFile(initFile)
	tracer().Infof("Quit with <ctrl>D")
	intp.REPL()
	return nil
}

func (intp *Intp) loadInitFile(filename string) {
	if filename == "" {
		return
	}
	f, err := os.Open(filename)
	if err != nil {
		tracer().Errorf("Unable to open init file: %s", filename)
		return
	}
	defer f.Close()
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		intp.Eval(scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		tracer().Errorf("Error while reading init file: %v", err)
	}
	intp.flush()
}

// REPL starts interactive mode.
func (intp *Intp) REPL() {
	for {
		line, err := intp.repl.Readline()
		if err == readline.ErrInterrupt {
			intp.pending = nil
			intp.repl.SetPrompt("rubin> ")
			continue
		} else if err != nil { // io.EOF
			break
		}
		if strings.TrimSpace(line) == "" && len(intp.pending) == 0 {
			continue
		}
		if intp.Eval(line) {
			intp.repl.SetPrompt("rubin* ")
		} else {
			intp.repl.SetPrompt("rubin> ")
		}
	}
	println("Good bye!")
}

// Eval adds a line to the pending input and parses it. It returns true if
// the input is incomplete and more lines are needed.
func (intp *Intp) Eval(line string) bool {
	intp.pending = append(intp.pending, line)
	src := strings.Join(intp.pending, "\n") + "\n"
	res, err := parser.ParseString("(rubin)", src, parseOptions(
		parser.FirstLine(intp.lineno),
		parser.Locals(intp.locals...),
		parser.Begin(parser.BeginInline),
	)...)
	if parser.IsIncomplete(err) {
		tracer().Debugf("input incomplete after %d lines", len(intp.pending))
		return true
	}
	intp.lineno += len(intp.pending)
	intp.pending = nil
	if res == nil {
		var perr *parser.Error
		if errors.As(err, &perr) {
			printDiagnostics(perr.Diagnostics)
		} else {
			pterm.Error.Println(err.Error())
		}
		return false
	}
	printDiagnostics(res.Diagnostics)
	intp.remember(res)
	if res.Root != nil {
		printTree(fmt.Sprintf("line %d", res.Root.Line()), res.Root)
	}
	return false
}

// flush parses what is left of an incomplete input, reporting its errors.
func (intp *Intp) flush() {
	if len(intp.pending) == 0 {
		return
	}
	src := strings.Join(intp.pending, "\n")
	intp.pending = nil
	if _, err := parser.ParseString("(rubin)", src, parseOptions()...); err != nil {
		pterm.Error.Println(err.Error())
	}
}

func (intp *Intp) remember(res *parser.Result) {
	known := make(map[string]bool, len(intp.locals))
	for _, name := range intp.locals {
		known[name] = true
	}
	for _, id := range res.Locals {
		if name := id.String(); !known[name] && isLocalName(name) {
			intp.locals = append(intp.locals, name)
			known[name] = true
		}
	}
}

// isLocalName excludes the reserved slots for $_ and $~.
func isLocalName(name string) bool {
	return name != "" && !strings.HasPrefix(name, "$")
}
