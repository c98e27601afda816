package parser

import (
	"github.com/npillmayer/rubin/syntax/ast"
	"github.com/npillmayer/rubin/syntax/lexer"
)

// Rules for operator expressions and argument lists.

var binaryOperators = []string{"'+'", "'-'", "'*'", "'/'", "'%'", "tPOW", "'|'", "'^'",
	"'&'", "tCMP", "'>'", "tGEQ", "'<'", "tLEQ", "tEQ", "tEQQ", "tLSHFT", "tRSHFT"}

func (d *grammarDef) argumentRules() {
	d.rule("arg", "arg tDOT2 arg", func(p *Context, v []semval) semval {
		return mk(p.newNode(ast.Dot2, p.value(node(v[0])), p.value(node(v[2])), nil))
	})
	d.rule("arg", "arg tDOT3 arg", func(p *Context, v []semval) semval {
		return mk(p.newNode(ast.Dot3, p.value(node(v[0])), p.value(node(v[2])), nil))
	})
	for _, op := range binaryOperators {
		d.rule("arg", "arg "+op+" arg", func(p *Context, v []semval) semval {
			return mk(p.callOp(node(v[0]), id(v[1]), node(v[2])))
		})
	}
	for _, num := range []string{"tINTEGER", "tFLOAT"} {
		d.rule("arg", "tUMINUS_NUM "+num+" tPOW arg", func(p *Context, v []semval) semval {
			pow := p.callOp(p.lit(tok(v[1]).Val), id(v[2]), node(v[3]))
			return mk(p.callOp(pow, p.intern("-@"), nil))
		})
	}
	d.rule("arg", "tUPLUS arg", func(p *Context, v []semval) semval {
		if n := node(v[1]); n.Is(ast.Lit) {
			return v[1]
		}
		return mk(p.callOp(node(v[1]), p.intern("+@"), nil))
	})
	d.rule("arg", "tUMINUS arg", func(p *Context, v []semval) semval {
		if n := node(v[1]); n.Is(ast.Lit) {
			if _, ok := n.Lit.(int64); ok {
				return mk(p.negateLit(n))
			}
		}
		return mk(p.callOp(node(v[1]), p.intern("-@"), nil))
	})
	d.rule("arg", "arg tNEQ arg", func(p *Context, v []semval) semval {
		eq := p.callOp(node(v[0]), p.intern("=="), node(v[2]))
		return mk(p.newNode(ast.Not, eq, nil, nil))
	})
	d.rule("arg", "arg tMATCH arg", func(p *Context, v []semval) semval {
		return mk(p.matchGen(node(v[0]), node(v[2])))
	})
	d.rule("arg", "arg tNMATCH arg", func(p *Context, v []semval) semval {
		return mk(p.newNode(ast.Not, p.matchGen(node(v[0]), node(v[2])), nil, nil))
	})
	d.rule("arg", "'!' arg", func(p *Context, v []semval) semval {
		return mk(p.newNode(ast.Not, p.cond(node(v[1])), nil, nil))
	})
	d.rule("arg", "'~' arg", func(p *Context, v []semval) semval {
		return mk(p.callOp(node(v[1]), p.intern("~"), nil))
	})
	d.rule("arg", "arg tANDOP arg", func(p *Context, v []semval) semval {
		return mk(p.logop(ast.And, node(v[0]), node(v[2])))
	})
	d.rule("arg", "arg tOROP arg", func(p *Context, v []semval) semval {
		return mk(p.logop(ast.Or, node(v[0]), node(v[2])))
	})
	d.mid("@defined", func(p *Context, v []semval) semval {
		p.inDefined = true
		return nil
	})
	d.rule("arg", "kDEFINED opt_nl @defined arg", func(p *Context, v []semval) semval {
		p.inDefined = false
		return mk(p.newNode(ast.Defined, node(v[3]), nil, nil))
	})
	d.rule("arg", "arg '?' arg ':' arg", func(p *Context, v []semval) semval {
		return mk(p.newNode(ast.If, p.cond(node(v[0])), node(v[2]), node(v[4])))
	})
	d.rule("arg", "primary", nil)
	d.rule("arg_value", "arg", func(p *Context, v []semval) semval {
		return mk(p.value(node(v[0])))
	})

	// Index arguments: a[...] and [...].
	d.rule("aref_args", "none", nil)
	d.rule("aref_args", "command opt_nl", func(p *Context, v []semval) semval {
		p.warnf("parenthesize argument(s) for future version")
		return mk(p.array(node(v[0])))
	})
	d.rule("aref_args", "args trailer", func(p *Context, v []semval) semval {
		return mk(p.array(list(v[0])...))
	})
	d.rule("aref_args", "args ',' tSTAR arg opt_nl", func(p *Context, v []semval) semval {
		return mk(p.argConcat(p.array(list(v[0])...), p.value(node(v[3]))))
	})
	d.rule("aref_args", "assocs trailer", func(p *Context, v []semval) semval {
		return mk(p.array(p.newList(ast.Hash, list(v[0]), 0)))
	})
	d.rule("aref_args", "tSTAR arg opt_nl", func(p *Context, v []semval) semval {
		return mk(p.newNode(ast.Splat, p.value(node(v[1])), nil, nil))
	})

	// Parenthesized call arguments.
	d.rule("paren_args", "'(' none ')'", func(p *Context, v []semval) semval {
		return nil
	})
	d.rule("paren_args", "'(' call_args opt_nl ')'", func(p *Context, v []semval) semval {
		return v[1]
	})
	d.rule("paren_args", "'(' block_call opt_nl ')'", func(p *Context, v []semval) semval {
		p.warnf("parenthesize argument for future version")
		return mk(p.array(node(v[1])))
	})
	d.rule("paren_args", "'(' args ',' block_call opt_nl ')'", func(p *Context, v []semval) semval {
		p.warnf("parenthesize argument for future version")
		return mk(p.array(append(list(v[1]), node(v[3]))...))
	})
	d.rule("opt_paren_args", "none", nil)
	d.rule("opt_paren_args", "paren_args", nil)

	// Call arguments. Splats concatenate, hash arguments without braces
	// collect into a trailing Hash, a block argument wraps the arguments
	// into a BlockPass.
	d.rule("call_args", "command", func(p *Context, v []semval) semval {
		p.warnf("parenthesize argument(s) for future version")
		return mk(p.array(node(v[0])))
	})
	d.rule("call_args", "args opt_block_arg", func(p *Context, v []semval) semval {
		return mk(p.argBlockPass(p.array(list(v[0])...), node(v[1])))
	})
	d.rule("call_args", "args ',' tSTAR arg_value opt_block_arg", func(p *Context, v []semval) semval {
		return mk(p.argBlockPass(p.argConcat(p.array(list(v[0])...), node(v[3])), node(v[4])))
	})
	d.rule("call_args", "assocs opt_block_arg", func(p *Context, v []semval) semval {
		return mk(p.argBlockPass(p.array(p.hash(v[0])), node(v[1])))
	})
	d.rule("call_args", "assocs ',' tSTAR arg_value opt_block_arg", func(p *Context, v []semval) semval {
		return mk(p.argBlockPass(p.argConcat(p.array(p.hash(v[0])), node(v[3])), node(v[4])))
	})
	d.rule("call_args", "args ',' assocs opt_block_arg", func(p *Context, v []semval) semval {
		return mk(p.argBlockPass(p.array(append(list(v[0]), p.hash(v[2]))...), node(v[3])))
	})
	d.rule("call_args", "args ',' assocs ',' tSTAR arg opt_block_arg", func(p *Context, v []semval) semval {
		head := p.array(append(list(v[0]), p.hash(v[2]))...)
		return mk(p.argBlockPass(p.argConcat(head, p.value(node(v[5]))), node(v[6])))
	})
	d.rule("call_args", "tSTAR arg_value opt_block_arg", func(p *Context, v []semval) semval {
		return mk(p.argBlockPass(p.newNode(ast.Splat, node(v[1]), nil, nil), node(v[2])))
	})
	d.rule("call_args", "block_arg", func(p *Context, v []semval) semval {
		return mk(p.argBlockPass(nil, node(v[0])))
	})

	// Arguments following a parenthesized first argument with a space in
	// between: foo (1), 2.
	d.rule("call_args2", "arg_value ',' args opt_block_arg", func(p *Context, v []semval) semval {
		all := append([]*ast.Node{node(v[0])}, list(v[2])...)
		return mk(p.argBlockPass(p.array(all...), node(v[3])))
	})
	d.rule("call_args2", "arg_value ',' block_arg", func(p *Context, v []semval) semval {
		return mk(p.argBlockPass(p.array(node(v[0])), node(v[2])))
	})
	d.rule("call_args2", "arg_value ',' tSTAR arg_value opt_block_arg", func(p *Context, v []semval) semval {
		return mk(p.argBlockPass(p.argConcat(p.array(node(v[0])), node(v[3])), node(v[4])))
	})
	d.rule("call_args2", "arg_value ',' args ',' tSTAR arg_value opt_block_arg", func(p *Context, v []semval) semval {
		all := append([]*ast.Node{node(v[0])}, list(v[2])...)
		return mk(p.argBlockPass(p.argConcat(p.array(all...), node(v[5])), node(v[6])))
	})
	d.rule("call_args2", "assocs opt_block_arg", func(p *Context, v []semval) semval {
		return mk(p.argBlockPass(p.array(p.hash(v[0])), node(v[1])))
	})
	d.rule("call_args2", "assocs ',' tSTAR arg_value opt_block_arg", func(p *Context, v []semval) semval {
		return mk(p.argBlockPass(p.argConcat(p.array(p.hash(v[0])), node(v[3])), node(v[4])))
	})
	d.rule("call_args2", "arg_value ',' assocs opt_block_arg", func(p *Context, v []semval) semval {
		return mk(p.argBlockPass(p.array(node(v[0]), p.hash(v[2])), node(v[3])))
	})
	d.rule("call_args2", "arg_value ',' args ',' assocs opt_block_arg", func(p *Context, v []semval) semval {
		all := append([]*ast.Node{node(v[0])}, list(v[2])...)
		return mk(p.argBlockPass(p.array(append(all, p.hash(v[4]))...), node(v[5])))
	})
	d.rule("call_args2", "arg_value ',' assocs ',' tSTAR arg_value opt_block_arg", func(p *Context, v []semval) semval {
		head := p.array(node(v[0]), p.hash(v[2]))
		return mk(p.argBlockPass(p.argConcat(head, node(v[5])), node(v[6])))
	})
	d.rule("call_args2", "arg_value ',' args ',' assocs ',' tSTAR arg_value opt_block_arg", func(p *Context, v []semval) semval {
		all := append([]*ast.Node{node(v[0])}, list(v[2])...)
		head := p.array(append(all, p.hash(v[4]))...)
		return mk(p.argBlockPass(p.argConcat(head, node(v[7])), node(v[8])))
	})
	d.rule("call_args2", "tSTAR arg_value opt_block_arg", func(p *Context, v []semval) semval {
		return mk(p.argBlockPass(p.newNode(ast.Splat, node(v[1]), nil, nil), node(v[2])))
	})
	d.rule("call_args2", "block_arg", func(p *Context, v []semval) semval {
		return mk(p.argBlockPass(nil, node(v[0])))
	})

	// Command arguments. While they are scanned, 'do' belongs to the
	// command, not to a method call within the arguments.
	d.mid("@cmdarg", func(p *Context, v []semval) semval {
		saved := termVal{cmdarg: p.lx.Cmdarg}
		p.lx.Cmdarg.Push(true)
		return saved
	})
	d.rule("command_args", "@cmdarg open_args", func(p *Context, v []semval) semval {
		if saved, ok := v[0].(termVal); ok {
			p.lx.Cmdarg = saved.cmdarg
		}
		return v[1]
	})
	d.mid("@endarg", func(p *Context, v []semval) semval {
		p.lx.Mode = lexer.ModeEndArg
		return nil
	})
	d.rule("open_args", "call_args", nil)
	d.rule("open_args", "tLPAREN_ARG @endarg ')'", func(p *Context, v []semval) semval {
		p.warnf("don't put space before argument parentheses")
		return nil
	})
	d.rule("open_args", "tLPAREN_ARG call_args2 @endarg ')'", func(p *Context, v []semval) semval {
		p.warnf("don't put space before argument parentheses")
		return v[1]
	})
	d.rule("block_arg", "tAMPER arg_value", func(p *Context, v []semval) semval {
		return mk(p.newNode(ast.BlockPass, node(v[1]), nil, nil))
	})
	d.rule("opt_block_arg", "',' block_arg", func(p *Context, v []semval) semval {
		return v[1]
	})
	d.rule("opt_block_arg", "none", nil)
	d.rule("args", "arg_value", func(p *Context, v []semval) semval {
		return listVal{node(v[0])}
	})
	d.rule("args", "args ',' arg_value", func(p *Context, v []semval) semval {
		return listVal(append(list(v[0]), node(v[2])))
	})
	d.rule("mrhs", "args ',' arg_value", func(p *Context, v []semval) semval {
		return mk(p.array(append(list(v[0]), node(v[2]))...))
	})
	d.rule("mrhs", "args ',' tSTAR arg_value", func(p *Context, v []semval) semval {
		return mk(p.argConcat(p.array(list(v[0])...), node(v[3])))
	})
	d.rule("mrhs", "tSTAR arg_value", func(p *Context, v []semval) semval {
		return mk(p.newNode(ast.Splat, node(v[1]), nil, nil))
	})
	d.rule("assocs", "assoc", nil)
	d.rule("assocs", "assocs ',' assoc", func(p *Context, v []semval) semval {
		return listVal(append(list(v[0]), list(v[2])...))
	})
	d.rule("assoc", "arg_value tASSOC arg_value", func(p *Context, v []semval) semval {
		return listVal{node(v[0]), node(v[2])}
	})
}
