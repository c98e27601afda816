package parser

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/npillmayer/rubin"
	"github.com/npillmayer/rubin/lr/lalr"
	"github.com/npillmayer/rubin/syntax/ast"
	"github.com/npillmayer/rubin/syntax/lexer"
)

// Result is the outcome of a parse.
type Result struct {
	Root        *ast.Node        // tree of the top-level statements, nil for empty input
	Locals      []rubin.SymbolID // local variables of the top-level frame, in slot order
	Lines       []string         // source lines read by the lexer
	PreExec     []*ast.Node      // collected BEGIN blocks, in source order
	Warnings    []Diagnostic
	Diagnostics []Diagnostic // all diagnostics, warnings included
	DataOffset  int64        // byte offset of the data following __END__, or -1
}

// ParseString parses source text.
func ParseString(name, src string, opts ...Option) (*Result, error) {
	return ParseContext(context.Background(), name, strings.NewReader(src), opts...)
}

// ParseReader parses source text read from r.
func ParseReader(name string, r io.Reader, opts ...Option) (*Result, error) {
	return ParseContext(context.Background(), name, r, opts...)
}

// ParseFile parses a source file.
func ParseFile(path string, opts ...Option) (*Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("cannot open source: %w", err)
	}
	defer f.Close()
	return ParseContext(context.Background(), path, f, opts...)
}

// ParseContext parses source text read from r. ctx is checked between
// top-level statements; a cancelled parse fails with ErrCancelled.
//
// A parse with errors returns an *Error. If the errors have been recovered
// from, the partial result is returned as well. Fatal errors, e.g.
// unterminated literals, leave no tree.
func ParseContext(ctx context.Context, name string, r io.Reader, opts ...Option) (*Result, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	o.applyDefaults()
	if name == "" {
		name = o.File
	}
	gen, err := Tables()
	if err != nil {
		return nil, err
	}
	src := lexer.NewReaderSource(name, r, o.FirstLine)
	p := newContext(ctx, src, o)
	drv := lalr.NewParser[semval](gen.Tables(), p)
	drv.MaxDepth = o.MaxDepth
	tracer().Debugf("parsing %s", name)
	_, perr := drv.Parse(p.lx)
	if perr == nil {
		perr = src.Err()
	}
	if perr != nil {
		return nil, p.failure(perr)
	}
	for p.scopes.Depth() > 1 {
		p.scopes.LeaveScope()
	}
	res := &Result{
		Root:        p.root,
		Locals:      p.scopes.LeaveScope(),
		Lines:       src.Lines(),
		PreExec:     p.preExec,
		Warnings:    p.diag.Warnings(),
		Diagnostics: p.diag.All(),
		DataOffset:  -1,
	}
	if p.lx.DataSeen() {
		res.DataOffset = int64(src.ReadOffset())
	}
	if p.diag.Count() > 0 {
		return res, p.diag.asError(nil)
	}
	return res, nil
}

// failure converts the error which stopped the parser.
func (p *Context) failure(err error) *Error {
	switch {
	case errors.Is(err, errFatal):
		if p.lx.Truncated() {
			p.diag.incomplete = true
		}
	case errors.Is(err, lalr.ErrStackOverflow):
		p.diag.Report(Fatal, p.line, 0, "stack level too deep")
	case errors.Is(err, lalr.ErrEOFInRecovery), errors.Is(err, lalr.ErrUnrecoverable):
		tracer().Infof("parser gave up: %v", err)
	}
	tracer().Errorf("parse of %s failed with %d errors", p.src.Name(), p.diag.Count())
	return p.diag.asError(err)
}
