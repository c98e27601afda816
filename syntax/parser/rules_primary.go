package parser

import (
	"github.com/npillmayer/rubin/syntax/ast"
)

// Rules for primaries: literals, variables, bracketed expressions, method
// calls and control structures.

func (d *grammarDef) primaryRules() {
	d.rule("primary", "literal", nil)
	d.rule("primary", "strings", nil)
	d.rule("primary", "xstring", nil)
	d.rule("primary", "regexp", nil)
	d.rule("primary", "words", nil)
	d.rule("primary", "qwords", nil)
	d.rule("primary", "var_ref", nil)
	d.rule("primary", "backref", nil)
	d.rule("primary", "tFID", func(p *Context, v []semval) semval {
		return mk(p.newName(ast.FCall, id(v[0])))
	})
	d.rule("primary", "kBEGIN bodystmt kEND", func(p *Context, v []semval) semval {
		return mk(p.newNode(ast.Begin, node(v[1]), nil, nil))
	})
	d.rule("primary", "tLPAREN_ARG expr @endarg opt_nl ')'", func(p *Context, v []semval) semval {
		p.warningf("(...) interpreted as grouped expression")
		return v[1]
	})
	d.rule("primary", "tLPAREN compstmt ')'", func(p *Context, v []semval) semval {
		return v[1]
	})
	d.rule("primary", "primary_value tCOLON2 tCONSTANT", func(p *Context, v []semval) semval {
		n := p.newNode(ast.Colon2, node(v[0]), nil, nil)
		n.ID = id(v[2])
		return mk(n)
	})
	d.rule("primary", "tCOLON3 tCONSTANT", func(p *Context, v []semval) semval {
		return mk(p.newName(ast.Colon3, id(v[1])))
	})
	d.rule("primary", "primary_value '[' aref_args ']'", func(p *Context, v []semval) semval {
		aref := p.intern("[]")
		if recv := node(v[0]); recv.Is(ast.Self) {
			return mk(p.newFCall(aref, node(v[2])))
		}
		return mk(p.newCall(node(v[0]), aref, node(v[2])))
	})
	d.rule("primary", "tLBRACK aref_args ']'", func(p *Context, v []semval) semval {
		if args := node(v[1]); args != nil {
			return v[1]
		}
		return mk(p.newNode(ast.ZArray, nil, nil, nil))
	})
	d.rule("primary", "tLBRACE assoc_list '}'", func(p *Context, v []semval) semval {
		return mk(p.newList(ast.Hash, list(v[1]), 0))
	})
	d.rule("primary", "kRETURN", func(p *Context, v []semval) semval {
		return mk(p.newNode(ast.Return, nil, nil, nil))
	})
	d.rule("primary", "kYIELD '(' call_args ')'", func(p *Context, v []semval) semval {
		return mk(p.newYield(node(v[2])))
	})
	d.rule("primary", "kYIELD '(' ')'", func(p *Context, v []semval) semval {
		return mk(p.newNode(ast.Yield, nil, nil, nil))
	})
	d.rule("primary", "kYIELD", func(p *Context, v []semval) semval {
		return mk(p.newNode(ast.Yield, nil, nil, nil))
	})
	d.rule("primary", "kDEFINED opt_nl '(' @defined expr ')'", func(p *Context, v []semval) semval {
		p.inDefined = false
		return mk(p.newNode(ast.Defined, node(v[4]), nil, nil))
	})
	d.rule("primary", "operation brace_block", func(p *Context, v []semval) semval {
		return mk(p.attachBlock(p.newFCall(id(v[0]), nil), node(v[1])))
	})
	d.rule("primary", "method_call", nil)
	d.rule("primary", "method_call brace_block", func(p *Context, v []semval) semval {
		return mk(p.attachBlock(node(v[0]), node(v[1])))
	})
	d.rule("primary", "kIF expr_value then compstmt if_tail kEND", func(p *Context, v []semval) semval {
		return mk(p.newIf(node(v[1]), node(v[3]), node(v[4])))
	})
	d.rule("primary", "kUNLESS expr_value then compstmt opt_else kEND", func(p *Context, v []semval) semval {
		return mk(p.newIf(node(v[1]), node(v[4]), node(v[3])))
	})

	// Loop conditions are scanned with the COND flag set, making 'do' the
	// loop's keyword instead of opening a block.
	d.mid("@condPush", func(p *Context, v []semval) semval {
		p.lx.Cond.Push(true)
		return nil
	})
	d.mid("@condPop", func(p *Context, v []semval) semval {
		p.lx.Cond.Pop()
		return nil
	})
	d.rule("primary", "kWHILE @condPush expr_value do @condPop compstmt kEND", func(p *Context, v []semval) semval {
		return mk(p.newNode(ast.While, p.cond(node(v[2])), node(v[5]), nil))
	})
	d.rule("primary", "kUNTIL @condPush expr_value do @condPop compstmt kEND", func(p *Context, v []semval) semval {
		return mk(p.newNode(ast.Until, p.cond(node(v[2])), node(v[5]), nil))
	})
	d.rule("primary", "kCASE expr_value opt_terms case_body kEND", func(p *Context, v []semval) semval {
		return mk(p.newCase(node(v[1]), node(v[3])))
	})
	d.rule("primary", "kCASE opt_terms case_body kEND", func(p *Context, v []semval) semval {
		return mk(p.newCase(nil, node(v[2])))
	})
	d.rule("primary", "kCASE opt_terms kELSE compstmt kEND", func(p *Context, v []semval) semval {
		return v[3]
	})
	d.rule("primary", "kFOR for_var kIN @condPush expr_value do @condPop compstmt kEND", func(p *Context, v []semval) semval {
		return mk(p.newNode(ast.For, node(v[4]), node(v[1]), node(v[7])))
	})
	d.rule("primary", "kBREAK", func(p *Context, v []semval) semval {
		return mk(p.newNode(ast.Break, nil, nil, nil))
	})
	d.rule("primary", "kNEXT", func(p *Context, v []semval) semval {
		return mk(p.newNode(ast.Next, nil, nil, nil))
	})
	d.rule("primary", "kREDO", func(p *Context, v []semval) semval {
		return mk(p.newNode(ast.Redo, nil, nil, nil))
	})
	d.rule("primary", "kRETRY", func(p *Context, v []semval) semval {
		return mk(p.newNode(ast.Retry, nil, nil, nil))
	})
	d.rule("primary_value", "primary", func(p *Context, v []semval) semval {
		return mk(p.value(node(v[0])))
	})
	d.rule("for_var", "lhs", nil)
	d.rule("for_var", "mlhs", nil)

	d.rule("then", "term", nil)
	d.rule("then", "':'", nil)
	d.rule("then", "kTHEN", nil)
	d.rule("then", "term kTHEN", nil)
	d.rule("do", "term", nil)
	d.rule("do", "':'", nil)
	d.rule("do", "kDO_COND", nil)
	d.rule("if_tail", "opt_else", nil)
	d.rule("if_tail", "kELSIF expr_value then compstmt if_tail", func(p *Context, v []semval) semval {
		return mk(p.newIf(node(v[1]), node(v[3]), node(v[4])))
	})
	d.rule("opt_else", "none", nil)
	d.rule("opt_else", "kELSE compstmt", func(p *Context, v []semval) semval {
		return v[1]
	})

	// When clauses are chained through C while parsing. The last link is the
	// else body, if any.
	d.rule("case_body", "kWHEN when_args then compstmt cases", func(p *Context, v []semval) semval {
		return mk(p.newNode(ast.When, node(v[1]), node(v[3]), node(v[4])))
	})
	d.rule("when_args", "args", func(p *Context, v []semval) semval {
		return mk(p.array(list(v[0])...))
	})
	d.rule("when_args", "args ',' tSTAR arg_value", func(p *Context, v []semval) semval {
		splat := p.newNode(ast.Splat, node(v[3]), nil, nil)
		return mk(p.array(append(list(v[0]), splat)...))
	})
	d.rule("when_args", "tSTAR arg_value", func(p *Context, v []semval) semval {
		return mk(p.array(p.newNode(ast.Splat, node(v[1]), nil, nil)))
	})
	d.rule("cases", "opt_else", nil)
	d.rule("cases", "case_body", nil)

	// Rescue clauses.
	d.rule("opt_rescue", "kRESCUE exc_list exc_var then compstmt opt_rescue", func(p *Context, v []semval) semval {
		var asgn *ast.Node
		if target := node(v[2]); target != nil {
			asgn = p.nodeAssign(target, p.newName(ast.GVar, p.intern("$!")))
		}
		resbody := p.newNode(ast.ResBody, node(v[1]), node(v[4]), asgn)
		return append(listVal{resbody}, list(v[5])...)
	})
	d.rule("opt_rescue", "none", func(p *Context, v []semval) semval {
		return listVal(nil)
	})
	d.rule("exc_list", "arg_value", func(p *Context, v []semval) semval {
		return mk(p.array(node(v[0])))
	})
	d.rule("exc_list", "mrhs", nil)
	d.rule("exc_list", "none", nil)
	d.rule("exc_var", "tASSOC lhs", func(p *Context, v []semval) semval {
		return v[1]
	})
	d.rule("exc_var", "none", nil)
	d.rule("opt_ensure", "kENSURE compstmt", func(p *Context, v []semval) semval {
		if body := node(v[1]); body != nil {
			return v[1]
		}
		return mk(p.newNode(ast.Nil, nil, nil, nil))
	})
	d.rule("opt_ensure", "none", nil)

	// Method calls with parentheses or an explicit receiver.
	d.rule("method_call", "operation paren_args", func(p *Context, v []semval) semval {
		return mk(p.newFCall(id(v[0]), node(v[1])))
	})
	d.rule("method_call", "primary_value '.' operation2 opt_paren_args", func(p *Context, v []semval) semval {
		return mk(p.newCall(node(v[0]), id(v[2]), node(v[3])))
	})
	d.rule("method_call", "primary_value tCOLON2 operation2 paren_args", func(p *Context, v []semval) semval {
		return mk(p.newCall(node(v[0]), id(v[2]), node(v[3])))
	})
	d.rule("method_call", "primary_value tCOLON2 operation3", func(p *Context, v []semval) semval {
		return mk(p.newCall(node(v[0]), id(v[2]), nil))
	})
	d.rule("method_call", "kSUPER paren_args", func(p *Context, v []semval) semval {
		return mk(p.newSuper(node(v[1])))
	})
	d.rule("method_call", "kSUPER", func(p *Context, v []semval) semval {
		return mk(p.newNode(ast.ZSuper, nil, nil, nil))
	})
}
