package parser

import (
	"github.com/npillmayer/rubin"
	"github.com/npillmayer/rubin/runtime"
	"github.com/npillmayer/rubin/syntax/ast"
	"github.com/npillmayer/rubin/syntax/lexer"
)

// Rules for programs, statement sequences and statements.

func (d *grammarDef) programRules() {
	d.rule("program", "compstmt", func(p *Context, v []semval) semval {
		body := node(v[0])
		p.root = body
		return mk(body)
	})
	d.rule("bodystmt", "compstmt opt_rescue opt_else opt_ensure", func(p *Context, v []semval) semval {
		body := node(v[0])
		rescues, els, ens := list(v[1]), node(v[2]), v[3]
		if len(rescues) > 0 {
			body = p.newList(ast.Rescue, rescues, body.Line())
			body.A, body.C = node(v[0]), els
		} else if els != nil {
			p.warnf("else without rescue is useless")
			body = p.blockOf(append(ast.Statements(body), ast.Statements(els)...))
		}
		if ens != nil {
			body = p.newNode(ast.Ensure, body, node(ens), nil)
		}
		return mk(body)
	})
	d.rule("compstmt", "stmts opt_terms", func(p *Context, v []semval) semval {
		stmts := list(v[0])
		p.voidStmts(stmts)
		return mk(p.blockOf(stmts))
	})
	d.rule("stmts", "none", func(p *Context, v []semval) semval {
		return listVal(nil)
	})
	d.rule("stmts", "stmt", func(p *Context, v []semval) semval {
		p.checkCancel()
		return p.appendStmt(nil, node(v[0]))
	})
	d.rule("stmts", "stmts terms stmt", func(p *Context, v []semval) semval {
		p.checkCancel()
		return p.appendStmt(list(v[0]), node(v[2]))
	})
	d.rule("stmts", "error stmt", func(p *Context, v []semval) semval {
		return p.appendStmt(nil, p.removeBegin(node(v[1])))
	})
}

func (d *grammarDef) statementRules() {
	d.mid("@fname", func(p *Context, v []semval) semval {
		p.lx.Mode = lexer.ModeFName
		return nil
	})
	d.rule("stmt", "kALIAS fitem @fname fitem", func(p *Context, v []semval) semval {
		n := p.newName(ast.Alias, p.symbolOf(node(v[1])))
		n.Op = p.symbolOf(node(v[3]))
		return mk(n)
	})
	d.rule("stmt", "kALIAS tGVAR tGVAR", func(p *Context, v []semval) semval {
		n := p.newName(ast.VAlias, id(v[1]))
		n.Op = id(v[2])
		return mk(n)
	})
	d.rule("stmt", "kALIAS tGVAR tBACK_REF", func(p *Context, v []semval) semval {
		n := p.newName(ast.VAlias, id(v[1]))
		c, _ := tok(v[2]).Val.(int)
		n.Op = rubin.Intern("$" + string(rune(c)))
		return mk(n)
	})
	d.rule("stmt", "kALIAS tGVAR tNTH_REF", func(p *Context, v []semval) semval {
		p.errorf("can't make alias for the number variables")
		return nil
	})
	d.rule("stmt", "kUNDEF undef_list", func(p *Context, v []semval) semval {
		return mk(p.newList(ast.Undef, list(v[1]), 0))
	})
	d.rule("stmt", "stmt kIF_MOD expr_value", func(p *Context, v []semval) semval {
		return mk(p.newNode(ast.If, p.cond(node(v[2])), p.removeBegin(node(v[0])), nil))
	})
	d.rule("stmt", "stmt kUNLESS_MOD expr_value", func(p *Context, v []semval) semval {
		return mk(p.newNode(ast.If, p.cond(node(v[2])), nil, p.removeBegin(node(v[0]))))
	})
	d.rule("stmt", "stmt kWHILE_MOD expr_value", func(p *Context, v []semval) semval {
		return mk(p.loopModifier(ast.While, node(v[0]), node(v[2])))
	})
	d.rule("stmt", "stmt kUNTIL_MOD expr_value", func(p *Context, v []semval) semval {
		return mk(p.loopModifier(ast.Until, node(v[0]), node(v[2])))
	})
	d.rule("stmt", "stmt kRESCUE_MOD stmt", func(p *Context, v []semval) semval {
		resbody := p.newNode(ast.ResBody, nil, p.removeBegin(node(v[2])), nil)
		n := p.newList(ast.Rescue, []*ast.Node{resbody}, 0)
		n.A = p.removeBegin(node(v[0]))
		return mk(n)
	})
	d.mid("@begin", func(p *Context, v []semval) semval {
		if p.inDef > 0 || p.inSingle > 0 {
			p.errorf("BEGIN in method")
		}
		p.scopes.EnterScope(runtime.TopScope, "BEGIN")
		return numVal(p.line)
	})
	d.rule("stmt", "klBEGIN @begin '{' compstmt '}'", func(p *Context, v []semval) semval {
		return mk(p.preExecution(node(v[3]), num(v[1])))
	})
	d.rule("stmt", "klEND '{' compstmt '}'", func(p *Context, v []semval) semval {
		if p.inDef > 0 || p.inSingle > 0 {
			p.warnf("END in method; use at_exit")
		}
		return mk(p.newNode(ast.PostExe, node(v[2]), nil, nil))
	})
	d.rule("stmt", "expr", nil)

	d.rule("expr", "command_call", nil)
	d.rule("expr", "expr kAND expr", func(p *Context, v []semval) semval {
		return mk(p.logop(ast.And, node(v[0]), node(v[2])))
	})
	d.rule("expr", "expr kOR expr", func(p *Context, v []semval) semval {
		return mk(p.logop(ast.Or, node(v[0]), node(v[2])))
	})
	d.rule("expr", "kNOT expr", func(p *Context, v []semval) semval {
		return mk(p.newNode(ast.Not, p.cond(node(v[1])), nil, nil))
	})
	d.rule("expr", "'!' command_call", func(p *Context, v []semval) semval {
		return mk(p.newNode(ast.Not, p.cond(node(v[1])), nil, nil))
	})
	d.rule("expr", "arg", nil)
	d.rule("expr_value", "expr", func(p *Context, v []semval) semval {
		return mk(p.value(node(v[0])))
	})

	d.rule("command_call", "command", nil)
	d.rule("command_call", "block_command", nil)
	d.rule("command_call", "kRETURN call_args", func(p *Context, v []semval) semval {
		return mk(p.newNode(ast.Return, p.retArgs(node(v[1])), nil, nil))
	})
	d.rule("command_call", "kBREAK call_args", func(p *Context, v []semval) semval {
		return mk(p.newNode(ast.Break, p.retArgs(node(v[1])), nil, nil))
	})
	d.rule("command_call", "kNEXT call_args", func(p *Context, v []semval) semval {
		return mk(p.newNode(ast.Next, p.retArgs(node(v[1])), nil, nil))
	})
	d.rule("block_command", "block_call", nil)
	d.rule("block_command", "block_call '.' operation2 command_args", func(p *Context, v []semval) semval {
		return mk(p.newCall(node(v[0]), id(v[2]), node(v[3])))
	})
	d.rule("block_command", "block_call tCOLON2 operation2 command_args", func(p *Context, v []semval) semval {
		return mk(p.newCall(node(v[0]), id(v[2]), node(v[3])))
	})

	d.rulePrec("command", "operation command_args", "tLOWEST", func(p *Context, v []semval) semval {
		return mk(p.newFCall(id(v[0]), node(v[1])))
	})
	d.rule("command", "operation command_args cmd_brace_block", func(p *Context, v []semval) semval {
		return mk(p.attachBlock(p.newFCall(id(v[0]), node(v[1])), node(v[2])))
	})
	for _, sep := range []string{"'.'", "tCOLON2"} {
		d.rulePrec("command", "primary_value "+sep+" operation2 command_args", "tLOWEST", func(p *Context, v []semval) semval {
			return mk(p.newCall(node(v[0]), id(v[2]), node(v[3])))
		})
		d.rule("command", "primary_value "+sep+" operation2 command_args cmd_brace_block", func(p *Context, v []semval) semval {
			return mk(p.attachBlock(p.newCall(node(v[0]), id(v[2]), node(v[3])), node(v[4])))
		})
	}
	d.rule("command", "kSUPER command_args", func(p *Context, v []semval) semval {
		return mk(p.newSuper(node(v[1])))
	})
	d.rule("command", "kYIELD command_args", func(p *Context, v []semval) semval {
		return mk(p.newYield(node(v[1])))
	})

	d.rule("fname", "tIDENTIFIER", nil)
	d.rule("fname", "tCONSTANT", nil)
	d.rule("fname", "tFID", nil)
	d.rule("fname", "op", func(p *Context, v []semval) semval {
		p.lx.Mode = lexer.ModeEnd
		return v[0]
	})
	d.rule("fname", "reswords", func(p *Context, v []semval) semval {
		p.lx.Mode = lexer.ModeEnd
		return v[0]
	})
	d.rule("fsym", "fname", nil)
	d.rule("fsym", "symbol", nil)
	d.rule("fitem", "fsym", func(p *Context, v []semval) semval {
		return mk(p.lit(id(v[0])))
	})
	d.rule("fitem", "dsym", nil)
	d.rule("undef_list", "fitem", func(p *Context, v []semval) semval {
		return listVal{node(v[0])}
	})
	d.rule("undef_list", "undef_list ',' @fname fitem", func(p *Context, v []semval) semval {
		return listVal(append(list(v[0]), node(v[3])))
	})
	for _, op := range []string{"'|'", "'^'", "'&'", "tCMP", "tEQ", "tEQQ", "tMATCH", "'>'",
		"tGEQ", "'<'", "tLEQ", "tLSHFT", "tRSHFT", "'+'", "'-'", "'*'", "tSTAR", "'/'",
		"'%'", "tPOW", "'~'", "tUPLUS", "tUMINUS", "tAREF", "tASET", "'`'"} {
		d.rule("op", op, nil)
	}
	for _, kw := range []string{"k__LINE__", "k__FILE__", "klBEGIN", "klEND", "kALIAS",
		"kAND", "kBEGIN", "kBREAK", "kCASE", "kCLASS", "kDEF", "kDEFINED", "kDO", "kELSE",
		"kELSIF", "kEND", "kENSURE", "kFALSE", "kFOR", "kIF", "kIN", "kMODULE", "kNEXT",
		"kNIL", "kNOT", "kOR", "kREDO", "kRESCUE", "kRETRY", "kRETURN", "kSELF", "kSUPER",
		"kTHEN", "kTRUE", "kUNDEF", "kUNLESS", "kUNTIL", "kWHEN", "kWHILE", "kYIELD",
		"kIF_MOD", "kUNLESS_MOD", "kWHILE_MOD", "kUNTIL_MOD", "kRESCUE_MOD"} {
		d.rule("reswords", kw, nil)
	}

	d.rule("opt_terms", "", nil)
	d.rule("opt_terms", "terms", nil)
	d.rule("opt_nl", "", nil)
	d.rule("opt_nl", "NL", nil)
	d.rule("trailer", "", nil)
	d.rule("trailer", "NL", nil)
	d.rule("trailer", "','", nil)
	d.rule("term", "';'", nil)
	d.rule("term", "NL", nil)
	d.rule("terms", "term", nil)
	d.rule("terms", "terms ';'", nil)
	d.rule("none", "", func(p *Context, v []semval) semval {
		return nil
	})
}
