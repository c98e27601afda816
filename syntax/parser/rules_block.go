package parser

import (
	"github.com/npillmayer/rubin/runtime"
	"github.com/npillmayer/rubin/syntax/ast"
)

// Rules for blocks and calls with blocks attached.

func (d *grammarDef) blockRules() {
	d.mid("@block", func(p *Context, v []semval) semval {
		p.scopes.EnterScope(runtime.BlockScope, "block")
		return numVal(p.line)
	})
	d.rule("block_var", "lhs", nil)
	d.rule("block_var", "mlhs", nil)
	d.rule("opt_block_var", "none", nil)
	d.rule("opt_block_var", "'|' '|'", func(p *Context, v []semval) semval {
		p.lx.SetCommandStart()
		return mk(p.masgn(nil, nil, nil))
	})
	d.rule("opt_block_var", "tOROP", func(p *Context, v []semval) semval {
		p.lx.SetCommandStart()
		return mk(p.masgn(nil, nil, nil))
	})
	d.rule("opt_block_var", "'|' block_var '|'", func(p *Context, v []semval) semval {
		p.lx.SetCommandStart()
		return v[1]
	})
	d.rule("do_block", "kDO_BLOCK @block opt_block_var compstmt kEND", func(p *Context, v []semval) semval {
		return mk(p.newIter(num(v[1]), node(v[2]), node(v[3])))
	})
	d.rule("block_call", "command do_block", func(p *Context, v []semval) semval {
		cmd := node(v[0])
		if cmd.Is(ast.Return) || cmd.Is(ast.Break) || cmd.Is(ast.Next) {
			p.errorf("Unexpected block arg")
			return v[0]
		}
		return mk(p.attachBlock(cmd, node(v[1])))
	})
	for _, sep := range []string{"'.'", "tCOLON2"} {
		d.rule("block_call", "block_call "+sep+" operation2 opt_paren_args", func(p *Context, v []semval) semval {
			return mk(p.newCall(node(v[0]), id(v[2]), node(v[3])))
		})
	}
	d.rule("brace_block", "'{' @block opt_block_var compstmt '}'", func(p *Context, v []semval) semval {
		return mk(p.newIter(num(v[1]), node(v[2]), node(v[3])))
	})
	d.rule("brace_block", "kDO @block opt_block_var compstmt kEND", func(p *Context, v []semval) semval {
		return mk(p.newIter(num(v[1]), node(v[2]), node(v[3])))
	})
	d.rule("cmd_brace_block", "tLBRACE_ARG @block opt_block_var compstmt '}'", func(p *Context, v []semval) semval {
		return mk(p.newIter(num(v[1]), node(v[2]), node(v[3])))
	})
}
