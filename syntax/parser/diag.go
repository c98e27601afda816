package parser

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/npillmayer/rubin/syntax/lexer"
)

// Severity of diagnostics, shared with the lexer.
type Severity = lexer.Severity

// Severities.
const (
	Warning = lexer.Warning
	Err     = lexer.Error
	Fatal   = lexer.Fatal
)

// Diagnostic is a message about the source. Snippet shows the source line
// with a caret under the offending column, if the line is short enough.
type Diagnostic struct {
	Severity Severity
	File     string
	Line     int
	Col      int
	Msg      string
	Snippet  string
}

func (d Diagnostic) String() string {
	s := fmt.Sprintf("%s:%d: %s: %s", d.File, d.Line, d.Severity, d.Msg)
	if d.Snippet != "" {
		s += "\n" + d.Snippet
	}
	return s
}

// Diagnostics collects the diagnostics of a parse. All messages of lexer and
// parser funnel through Report.
type Diagnostics struct {
	src        *lexer.Source
	width      int       // longest line to show in a snippet
	echo       io.Writer // if set, every diagnostic is printed
	list       []Diagnostic
	errors     int
	fatal      bool
	incomplete bool // input ended inside a construct
}

var _ lexer.Reporter = (*Diagnostics)(nil)

func newDiagnostics(src *lexer.Source, width int, echo io.Writer) *Diagnostics {
	return &Diagnostics{src: src, width: width, echo: echo}
}

// Report is part of interface lexer.Reporter.
func (d *Diagnostics) Report(sev Severity, line, col int, msg string) {
	diag := Diagnostic{
		Severity: sev,
		File:     d.src.Name(),
		Line:     line,
		Col:      col,
		Msg:      msg,
		Snippet:  d.snippet(line, col),
	}
	switch sev {
	case Warning:
		tracer().Infof("%s:%d: warning: %s", diag.File, line, msg)
	case Fatal:
		d.fatal = true
		fallthrough
	default:
		d.errors++
		tracer().Errorf("%s:%d: %s", diag.File, line, msg)
	}
	d.list = append(d.list, diag)
	if d.echo != nil {
		fmt.Fprintln(d.echo, diag)
	}
}

// snippet renders a source line with a caret:
//
//	  12 | foo(1, 2
//	     |         ^
func (d *Diagnostics) snippet(line, col int) string {
	text := d.src.Line(line)
	if text == "" || len(text) > d.width || strings.ContainsRune(text, '\t') {
		return ""
	}
	if col < 0 {
		col = 0
	} else if col > len(text) {
		col = len(text)
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%4d | %s\n", line, text)
	fmt.Fprintf(&b, "     | %s^", strings.Repeat(" ", col))
	return b.String()
}

// Count returns the number of errors, fatal ones included.
func (d *Diagnostics) Count() int {
	return d.errors
}

// Fatal is true if a diagnostic has aborted the parse.
func (d *Diagnostics) Fatal() bool {
	return d.fatal
}

// All returns all diagnostics in the order they were reported.
func (d *Diagnostics) All() []Diagnostic {
	return d.list
}

// Warnings returns the diagnostics with severity Warning.
func (d *Diagnostics) Warnings() []Diagnostic {
	var w []Diagnostic
	for _, diag := range d.list {
		if diag.Severity == Warning {
			w = append(w, diag)
		}
	}
	return w
}

// --- Errors ----------------------------------------------------------------

// Error is returned for parses with errors. It carries all diagnostics,
// warnings included.
type Error struct {
	File        string
	Count       int  // number of errors
	Fatal       bool // the parse has been aborted
	Incomplete  bool // input ended inside an open construct or literal
	Diagnostics []Diagnostic
	cause       error
}

func (e *Error) Error() string {
	for _, d := range e.Diagnostics {
		if d.Severity != Warning {
			if e.Count > 1 {
				return fmt.Sprintf("%s:%d: %s (and %d more errors)", d.File, d.Line, d.Msg, e.Count-1)
			}
			return fmt.Sprintf("%s:%d: %s", d.File, d.Line, d.Msg)
		}
	}
	if e.cause != nil {
		return fmt.Sprintf("%s: %s", e.File, e.cause)
	}
	return fmt.Sprintf("%s: %d errors", e.File, e.Count)
}

// Unwrap returns the error which aborted the parser, if any.
func (e *Error) Unwrap() error {
	return e.cause
}

// IsFatal is true for errors which aborted a parse, leaving no tree.
func IsFatal(err error) bool {
	var perr *Error
	if errors.As(err, &perr) {
		return perr.Fatal
	}
	return err != nil
}

// IsIncomplete is true if a parse failed because the input ended inside a
// literal, a heredoc or an unclosed construct. Interactive hosts use this to
// ask for more input.
func IsIncomplete(err error) bool {
	var perr *Error
	return errors.As(err, &perr) && perr.Incomplete
}

func (d *Diagnostics) asError(cause error) *Error {
	return &Error{
		File:        d.src.Name(),
		Count:       d.errors,
		Fatal:       d.fatal || cause != nil,
		Incomplete:  d.incomplete,
		Diagnostics: d.list,
		cause:       cause,
	}
}
