package parser

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/emirpasic/gods/sets/treeset"
	"github.com/npillmayer/rubin"
	"github.com/npillmayer/rubin/lr"
	"github.com/npillmayer/rubin/lr/lalr"
	"github.com/npillmayer/rubin/runtime"
	"github.com/npillmayer/rubin/syntax/ast"
	"github.com/npillmayer/rubin/syntax/lexer"
)

// Context holds the complete state of a parse: the lexer, the scope table,
// the diagnostics and the counters which tell where in a definition the
// parser currently is. The semantic actions of the grammar operate on it.
type Context struct {
	opts      *Options
	src       *lexer.Source
	lx        *lexer.Lexer
	scopes    *runtime.ScopeTree
	diag      *Diagnostics
	ctx       context.Context
	inDef     int  // nesting of method definitions
	inSingle  int  // nesting of singleton method definitions
	classNest int  // nesting of class and module bodies
	inDefined bool // inside the operand of defined?
	root      *ast.Node
	preExec   []*ast.Node
	params    *treeset.Set // formal parameters of the current definition
	line      int          // line of the last shifted token
	last      *lexer.Token // last shifted token
	open      int          // constructs opened and not yet closed
	cancelled error
}

var _ lalr.Semantics[semval] = (*Context)(nil)
var _ lalr.SyntaxErrorHandler = (*Context)(nil)
var _ lalr.Aborter = (*Context)(nil)

// ErrCancelled is the cause of a parse stopped by its context.
var ErrCancelled = errors.New("parse cancelled")

func newContext(ctx context.Context, src *lexer.Source, opts *Options) *Context {
	p := &Context{
		opts:   opts,
		src:    src,
		scopes: runtime.NewScopeTree(),
		ctx:    ctx,
		line:   src.FirstLine(),
	}
	p.diag = newDiagnostics(src, opts.SnippetWidth, opts.Echo)
	p.lx = lexer.New(src,
		lexer.WithScope(p.scopes),
		lexer.WithReporter(p.diag),
		lexer.Verbose(opts.Verbose))
	p.resetParams()
	p.inDef, p.inSingle, p.classNest = opts.Def.InDef, opts.Def.InSingle, opts.Def.ClassNest
	p.scopes.EnterScope(runtime.TopScope, src.Name())
	for _, name := range opts.Locals {
		p.scopes.DeclareOrGet(rubin.Intern(name))
	}
	return p
}

// Shift is part of interface lalr.Semantics.
func (p *Context) Shift(tok rubin.Token) semval {
	t, ok := tok.(*lexer.Token)
	if !ok { // the artificial error token
		return nil
	}
	p.line, p.last = t.Line, t
	p.track(t.Type)
	return tokVal{t}
}

// track counts the bracketing tokens shifted so far. Statements are
// outermost while no construct is open.
func (p *Context) track(t rubin.TokType) {
	switch t {
	case lexer.KClass, lexer.KModule, lexer.KDef, lexer.KBegin, lexer.KIf,
		lexer.KUnless, lexer.KWhile, lexer.KUntil, lexer.KCase, lexer.KFor,
		lexer.KDo, lexer.KDoBlock, '(', lexer.TLParen, lexer.TLParenArg,
		'{', lexer.TLBrace, lexer.TLBraceArg, lexer.TStringDBeg:
		p.open++
	case lexer.KEnd, ')', '}':
		if p.open > 0 {
			p.open--
		}
	}
}

// Reduce is part of interface lalr.Semantics. Rules without an action pass
// the value of their first symbol.
func (p *Context) Reduce(rule *lr.Rule, rhs []semval) semval {
	if act, ok := rule.UData.(action); ok && act != nil {
		return act(p, rhs)
	}
	if len(rhs) > 0 {
		return rhs[0]
	}
	return nil
}

// SyntaxError is part of interface lalr.SyntaxErrorHandler.
func (p *Context) SyntaxError(tok rubin.Token, expected []*lr.Symbol) {
	line, col := p.line, 0
	if t, ok := tok.(*lexer.Token); ok {
		line, col = t.Line, t.Col
	}
	var msg string
	if tok.TokType() == lexer.EOF {
		p.diag.incomplete = true
		msg = "syntax error, unexpected $end"
	} else {
		msg = "syntax error, unexpected " + lexer.TokenName(tok.TokType())
	}
	if len(expected) > 0 && len(expected) <= 4 {
		names := make([]string, len(expected))
		for i, sym := range expected {
			names[i] = sym.Name
		}
		msg += ", expecting " + strings.Join(names, " or ")
	}
	p.diag.Report(Err, line, col, msg)
}

// Aborted is part of interface lalr.Aborter.
func (p *Context) Aborted() error {
	switch {
	case p.cancelled != nil:
		return p.cancelled
	case p.diag.Fatal():
		return errFatal
	}
	return nil
}

var errFatal = errors.New("fatal error")

// checkCancel polls the parse's context. It is called for every statement
// reduced and does nothing inside an open construct.
func (p *Context) checkCancel() {
	if p.ctx == nil || p.open > 0 {
		return
	}
	if err := p.ctx.Err(); err != nil {
		p.cancelled = fmt.Errorf("%w: %v", ErrCancelled, err)
	}
}

// --- Diagnostics -----------------------------------------------------------

func (p *Context) errorf(format string, args ...interface{}) {
	p.diag.Report(Err, p.line, p.column(), fmt.Sprintf(format, args...))
}

func (p *Context) warnf(format string, args ...interface{}) {
	p.diag.Report(Warning, p.line, p.column(), fmt.Sprintf(format, args...))
}

// warningf reports warnings shown in verbose mode only.
func (p *Context) warningf(format string, args ...interface{}) {
	if p.opts.Verbose {
		p.warnf(format, args...)
	}
}

func (p *Context) column() int {
	if p.last != nil && p.last.Line == p.line {
		return p.last.Col
	}
	return 0
}
