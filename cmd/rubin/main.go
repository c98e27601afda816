package main

import (
	"fmt"
	"os"

	"github.com/npillmayer/rubin/syntax/parser"
	"github.com/npillmayer/schuko/gtrace"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/schuko/tracing/gologadapter"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var (
	traceLevel string
	configFile string
	verbose    bool
	options    *parser.Options
)

// traceKeys are the tracers of the rubin packages.
var traceKeys = []string{"rubin.cli", "rubin.parser", "rubin.scanner", "rubin.lr", "rubin.runtime"}

var rootCmd = &cobra.Command{
	Use:   "rubin",
	Short: "Scanner and parser for Ruby 1.8 source",
	Long: `rubin scans and parses Ruby 1.8 source code. It prints syntax trees,
token streams and parser tables, and offers an interactive session.`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&traceLevel, "trace", "Error", "Trace level [Debug|Info|Error]")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "parser options file (TOML or YAML)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "report verbose-mode warnings")
}

// setup configures logging and display, and loads the parser options.
func setup(cmd *cobra.Command, args []string) error {
	initDisplay()
	gtrace.SyntaxTracer = gologadapter.New()
	level := tracing.TraceLevelFromString(traceLevel)
	for _, key := range traceKeys {
		tracing.Select(key).SetTraceLevel(level)
	}
	gtrace.SyntaxTracer.SetTraceLevel(level)
	tracer().Infof("trace level is %s", traceLevel)
	options = &parser.Options{}
	if configFile != "" {
		opts, err := parser.LoadOptions(configFile)
		if err != nil {
			return err
		}
		options = opts
		tracer().Infof("options loaded from %s", configFile)
	}
	if verbose {
		options.Verbose = true
	}
	return nil
}

// We use pterm for moderately fancy output.
func initDisplay() {
	pterm.Info.Prefix = pterm.Prefix{
		Text:  "  >>",
		Style: pterm.NewStyle(pterm.BgCyan, pterm.FgBlack),
	}
	pterm.Error.Prefix = pterm.Prefix{
		Text:  "  Error",
		Style: pterm.NewStyle(pterm.BgRed, pterm.FgBlack),
	}
}

// parseOptions returns the options for a parse, based on the options file.
func parseOptions(extra ...parser.Option) []parser.Option {
	return append([]parser.Option{parser.WithOptions(options)}, extra...)
}

func printDiagnostics(diags []parser.Diagnostic) {
	for _, d := range diags {
		if d.Severity == parser.Warning {
			pterm.Warning.Println(d.String())
		} else {
			pterm.Error.Println(d.String())
		}
	}
}

func errorf(format string, args ...interface{}) error {
	err := fmt.Errorf(format, args...)
	pterm.Error.Println(err.Error())
	return err
}
