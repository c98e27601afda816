package parser

import (
	"github.com/npillmayer/rubin/runtime"
	"github.com/npillmayer/rubin/syntax/ast"
	"github.com/npillmayer/rubin/syntax/lexer"
)

// Rules for class, module and method definitions and formal parameters.

func (d *grammarDef) definitionRules() {
	d.mid("@beg", func(p *Context, v []semval) semval {
		p.lx.Mode = lexer.ModeBeg
		return nil
	})
	d.mid("@class", func(p *Context, v []semval) semval {
		if p.inDef > 0 || p.inSingle > 0 {
			p.errorf("class definition in method body")
		}
		p.classNest++
		p.scopes.EnterScope(runtime.ClassScope, "class")
		return numVal(p.line)
	})
	d.rule("primary", "kCLASS cpath superclass @class bodystmt kEND", func(p *Context, v []semval) semval {
		body := p.leaveScope(node(v[4]))
		p.classNest--
		n := p.newNode(ast.Class, node(v[1]), node(v[2]), body)
		n.Pos.Line = num(v[3])
		return mk(n)
	})
	d.mid("@sclass1", func(p *Context, v []semval) semval {
		saved := numVal(p.inDef)
		p.inDef = 0
		return saved
	})
	d.mid("@sclass2", func(p *Context, v []semval) semval {
		saved := numVal(p.inSingle)
		p.inSingle = 0
		p.classNest++
		p.scopes.EnterScope(runtime.ClassScope, "singleton class")
		return saved
	})
	d.rule("primary", "kCLASS tLSHFT expr @sclass1 term @sclass2 bodystmt kEND", func(p *Context, v []semval) semval {
		body := p.leaveScope(node(v[6]))
		p.classNest--
		p.inDef, p.inSingle = num(v[3]), num(v[5])
		return mk(p.newNode(ast.SClass, p.value(node(v[2])), nil, body))
	})
	d.mid("@module", func(p *Context, v []semval) semval {
		if p.inDef > 0 || p.inSingle > 0 {
			p.errorf("module definition in method body")
		}
		p.classNest++
		p.scopes.EnterScope(runtime.ClassScope, "module")
		return numVal(p.line)
	})
	d.rule("primary", "kMODULE cpath @module bodystmt kEND", func(p *Context, v []semval) semval {
		body := p.leaveScope(node(v[3]))
		p.classNest--
		n := p.newNode(ast.Module, node(v[1]), nil, body)
		n.Pos.Line = num(v[2])
		return mk(n)
	})
	d.mid("@defn", func(p *Context, v []semval) semval {
		p.inDef++
		p.scopes.EnterScope(runtime.MethodScope, p.last.Text)
		p.resetParams()
		return nil
	})
	d.rule("primary", "kDEF fname @defn f_arglist bodystmt kEND", func(p *Context, v []semval) semval {
		body := p.leaveScope(p.removeBegin(node(v[4])))
		p.inDef--
		n := p.newNode(ast.Defn, nil, node(v[3]), body)
		n.ID = id(v[1])
		return mk(n)
	})
	d.mid("@defs", func(p *Context, v []semval) semval {
		p.inSingle++
		p.scopes.EnterScope(runtime.MethodScope, p.last.Text)
		p.resetParams()
		p.lx.Mode = lexer.ModeEnd
		return nil
	})
	d.rule("primary", "kDEF singleton dot_or_colon @fname fname @defs f_arglist bodystmt kEND", func(p *Context, v []semval) semval {
		body := p.leaveScope(p.removeBegin(node(v[7])))
		p.inSingle--
		n := p.newNode(ast.Defs, node(v[1]), node(v[6]), body)
		n.ID = id(v[4])
		return mk(n)
	})
	d.rule("singleton", "var_ref", func(p *Context, v []semval) semval {
		return mk(p.singleton(node(v[0])))
	})
	d.rule("singleton", "'(' @beg expr opt_nl ')'", func(p *Context, v []semval) semval {
		return mk(p.singleton(node(v[2])))
	})

	d.rule("cpath", "tCOLON3 cname", func(p *Context, v []semval) semval {
		return mk(p.newName(ast.Colon3, id(v[1])))
	})
	d.rule("cpath", "cname", func(p *Context, v []semval) semval {
		return mk(p.newName(ast.Colon2, id(v[0])))
	})
	d.rule("cpath", "primary_value tCOLON2 cname", func(p *Context, v []semval) semval {
		n := p.newNode(ast.Colon2, node(v[0]), nil, nil)
		n.ID = id(v[2])
		return mk(n)
	})
	d.rule("cname", "tIDENTIFIER", func(p *Context, v []semval) semval {
		p.errorf("class/module name must be CONSTANT")
		return v[0]
	})
	d.rule("cname", "tCONSTANT", nil)
	d.rule("superclass", "term", func(p *Context, v []semval) semval {
		return nil
	})
	d.rule("superclass", "'<' @beg expr_value term", func(p *Context, v []semval) semval {
		return v[2]
	})
	d.rule("superclass", "error term", func(p *Context, v []semval) semval {
		return nil
	})

	// Formal parameters.
	d.rule("f_arglist", "'(' f_args opt_nl ')'", func(p *Context, v []semval) semval {
		p.lx.Mode = lexer.ModeBeg
		p.lx.SetCommandStart()
		return v[1]
	})
	d.rule("f_arglist", "f_args term", nil)
	d.rule("f_args", "f_arg ',' f_optarg ',' f_rest_arg opt_f_block_arg", func(p *Context, v []semval) semval {
		return mk(p.newArgs(list(v[0]), list(v[2]), node(v[4]), node(v[5])))
	})
	d.rule("f_args", "f_arg ',' f_optarg opt_f_block_arg", func(p *Context, v []semval) semval {
		return mk(p.newArgs(list(v[0]), list(v[2]), nil, node(v[3])))
	})
	d.rule("f_args", "f_arg ',' f_rest_arg opt_f_block_arg", func(p *Context, v []semval) semval {
		return mk(p.newArgs(list(v[0]), nil, node(v[2]), node(v[3])))
	})
	d.rule("f_args", "f_arg opt_f_block_arg", func(p *Context, v []semval) semval {
		return mk(p.newArgs(list(v[0]), nil, nil, node(v[1])))
	})
	d.rule("f_args", "f_optarg ',' f_rest_arg opt_f_block_arg", func(p *Context, v []semval) semval {
		return mk(p.newArgs(nil, list(v[0]), node(v[2]), node(v[3])))
	})
	d.rule("f_args", "f_optarg opt_f_block_arg", func(p *Context, v []semval) semval {
		return mk(p.newArgs(nil, list(v[0]), nil, node(v[1])))
	})
	d.rule("f_args", "f_rest_arg opt_f_block_arg", func(p *Context, v []semval) semval {
		return mk(p.newArgs(nil, nil, node(v[0]), node(v[1])))
	})
	d.rule("f_args", "f_block_arg", func(p *Context, v []semval) semval {
		return mk(p.newArgs(nil, nil, nil, node(v[0])))
	})
	d.rule("f_args", "", func(p *Context, v []semval) semval {
		return mk(p.newArgs(nil, nil, nil, nil))
	})
	d.rule("f_norm_arg", "tCONSTANT", func(p *Context, v []semval) semval {
		p.errorf("formal argument cannot be a constant")
		return nil
	})
	d.rule("f_norm_arg", "tIVAR", func(p *Context, v []semval) semval {
		p.errorf("formal argument cannot be an instance variable")
		return nil
	})
	d.rule("f_norm_arg", "tGVAR", func(p *Context, v []semval) semval {
		p.errorf("formal argument cannot be a global variable")
		return nil
	})
	d.rule("f_norm_arg", "tCVAR", func(p *Context, v []semval) semval {
		p.errorf("formal argument cannot be a class variable")
		return nil
	})
	d.rule("f_norm_arg", "tIDENTIFIER", func(p *Context, v []semval) semval {
		return mk(p.formalArg(id(v[0])))
	})
	d.rule("f_arg", "f_norm_arg", func(p *Context, v []semval) semval {
		return listVal(list(v[0]))
	})
	d.rule("f_arg", "f_arg ',' f_norm_arg", func(p *Context, v []semval) semval {
		return listVal(append(list(v[0]), list(v[2])...))
	})
	d.rule("f_opt", "tIDENTIFIER '=' arg_value", func(p *Context, v []semval) semval {
		asgn := p.formalArg(id(v[0]))
		asgn.A = node(v[2])
		return mk(asgn)
	})
	d.rule("f_optarg", "f_opt", func(p *Context, v []semval) semval {
		return listVal{node(v[0])}
	})
	d.rule("f_optarg", "f_optarg ',' f_opt", func(p *Context, v []semval) semval {
		return listVal(append(list(v[0]), node(v[2])))
	})
	d.rule("restarg_mark", "'*'", nil)
	d.rule("restarg_mark", "tSTAR", nil)
	d.rule("f_rest_arg", "restarg_mark tIDENTIFIER", func(p *Context, v []semval) semval {
		rest := p.formalArg(id(v[1]))
		return mk(p.newName(ast.Splat, rest.ID))
	})
	d.rule("f_rest_arg", "restarg_mark", func(p *Context, v []semval) semval {
		return mk(p.newNode(ast.Splat, nil, nil, nil))
	})
	d.rule("blkarg_mark", "'&'", nil)
	d.rule("blkarg_mark", "tAMPER", nil)
	d.rule("f_block_arg", "blkarg_mark tIDENTIFIER", func(p *Context, v []semval) semval {
		asgn := p.formalArg(id(v[1]))
		blk := p.newName(ast.BlockArg, asgn.ID)
		blk.Slot = asgn.Slot
		return mk(blk)
	})
	d.rule("opt_f_block_arg", "',' f_block_arg", func(p *Context, v []semval) semval {
		return v[1]
	})
	d.rule("opt_f_block_arg", "none", nil)
}
