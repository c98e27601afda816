package parser

import (
	"github.com/npillmayer/rubin/syntax/ast"
)

// Rules for assignments, single and multiple, and their targets.

func (d *grammarDef) assignmentRules() {
	d.rule("stmt", "lhs '=' command_call", func(p *Context, v []semval) semval {
		return mk(p.nodeAssign(node(v[0]), node(v[2])))
	})
	d.rule("stmt", "mlhs '=' command_call", func(p *Context, v []semval) semval {
		return mk(p.masgnValue(node(v[0]), p.value(node(v[2])), false))
	})
	d.opAssignRules("stmt", "command_call")
	d.rule("arg", "lhs '=' arg", func(p *Context, v []semval) semval {
		return mk(p.nodeAssign(node(v[0]), node(v[2])))
	})
	d.rule("arg", "lhs '=' arg kRESCUE_MOD arg", func(p *Context, v []semval) semval {
		resbody := p.newNode(ast.ResBody, nil, node(v[4]), nil)
		resc := p.newList(ast.Rescue, []*ast.Node{resbody}, 0)
		resc.A = node(v[2])
		return mk(p.nodeAssign(node(v[0]), resc))
	})
	d.opAssignRules("arg", "arg")
	d.rule("arg", "primary_value tCOLON2 tCONSTANT tOP_ASGN arg", func(p *Context, v []semval) semval {
		p.errorf("constant re-assignment")
		return nil
	})
	d.rule("arg", "tCOLON3 tCONSTANT tOP_ASGN arg", func(p *Context, v []semval) semval {
		p.errorf("constant re-assignment")
		return nil
	})
	d.rule("stmt", "lhs '=' mrhs", func(p *Context, v []semval) semval {
		return mk(p.nodeAssign(node(v[0]), p.newNode(ast.SValue, node(v[2]), nil, nil)))
	})
	d.rule("stmt", "mlhs '=' arg_value", func(p *Context, v []semval) semval {
		return mk(p.masgnValue(node(v[0]), node(v[2]), false))
	})
	d.rule("stmt", "mlhs '=' mrhs", func(p *Context, v []semval) semval {
		return mk(p.masgnValue(node(v[0]), node(v[2]), true))
	})

	// Multiple assignment targets. An mlhs is built as an MAsgn node.
	d.rule("mlhs", "mlhs_basic", nil)
	d.rule("mlhs", "tLPAREN mlhs_entry ')'", func(p *Context, v []semval) semval {
		return v[1]
	})
	d.rule("mlhs_entry", "mlhs_basic", nil)
	d.rule("mlhs_entry", "tLPAREN mlhs_entry ')'", func(p *Context, v []semval) semval {
		return mk(p.masgn([]*ast.Node{node(v[1])}, nil, nil))
	})
	d.rule("mlhs_basic", "mlhs_head", func(p *Context, v []semval) semval {
		return mk(p.masgn(list(v[0]), nil, nil))
	})
	d.rule("mlhs_basic", "mlhs_head mlhs_item", func(p *Context, v []semval) semval {
		return mk(p.masgn(append(list(v[0]), node(v[1])), nil, nil))
	})
	d.rule("mlhs_basic", "mlhs_head tSTAR mlhs_node", func(p *Context, v []semval) semval {
		return mk(p.masgn(list(v[0]), p.restTarget(node(v[2])), nil))
	})
	d.rule("mlhs_basic", "mlhs_head tSTAR mlhs_node ',' mlhs_post", func(p *Context, v []semval) semval {
		return mk(p.masgn(list(v[0]), p.restTarget(node(v[2])), list(v[4])))
	})
	d.rule("mlhs_basic", "mlhs_head tSTAR", func(p *Context, v []semval) semval {
		return mk(p.masgn(list(v[0]), p.restTarget(nil), nil))
	})
	d.rule("mlhs_basic", "mlhs_head tSTAR ',' mlhs_post", func(p *Context, v []semval) semval {
		return mk(p.masgn(list(v[0]), p.restTarget(nil), list(v[3])))
	})
	d.rule("mlhs_basic", "tSTAR mlhs_node", func(p *Context, v []semval) semval {
		return mk(p.masgn(nil, p.restTarget(node(v[1])), nil))
	})
	d.rule("mlhs_basic", "tSTAR mlhs_node ',' mlhs_post", func(p *Context, v []semval) semval {
		return mk(p.masgn(nil, p.restTarget(node(v[1])), list(v[3])))
	})
	d.rule("mlhs_basic", "tSTAR", func(p *Context, v []semval) semval {
		return mk(p.masgn(nil, p.restTarget(nil), nil))
	})
	d.rule("mlhs_basic", "tSTAR ',' mlhs_post", func(p *Context, v []semval) semval {
		return mk(p.masgn(nil, p.restTarget(nil), list(v[2])))
	})
	d.rule("mlhs_item", "mlhs_node", nil)
	d.rule("mlhs_item", "tLPAREN mlhs_entry ')'", func(p *Context, v []semval) semval {
		return v[1]
	})
	d.rule("mlhs_head", "mlhs_item ','", func(p *Context, v []semval) semval {
		return listVal{node(v[0])}
	})
	d.rule("mlhs_head", "mlhs_head mlhs_item ','", func(p *Context, v []semval) semval {
		return listVal(append(list(v[0]), node(v[1])))
	})
	d.rule("mlhs_post", "mlhs_item", func(p *Context, v []semval) semval {
		return listVal{node(v[0])}
	})
	d.rule("mlhs_post", "mlhs_post ',' mlhs_item", func(p *Context, v []semval) semval {
		return listVal(append(list(v[0]), node(v[2])))
	})

	// Single assignment targets. mlhs_node and lhs share their rules.
	for _, target := range []string{"mlhs_node", "lhs"} {
		d.rule(target, "variable", func(p *Context, v []semval) semval {
			return mk(p.assignable(v[0], nil))
		})
		d.rule(target, "primary_value '[' aref_args ']'", func(p *Context, v []semval) semval {
			return mk(p.aryset(node(v[0]), node(v[2])))
		})
		for _, attr := range []string{"'.' tIDENTIFIER", "tCOLON2 tIDENTIFIER", "'.' tCONSTANT"} {
			d.rule(target, "primary_value "+attr, func(p *Context, v []semval) semval {
				return mk(p.attrset(node(v[0]), id(v[2])))
			})
		}
		d.rule(target, "primary_value tCOLON2 tCONSTANT", func(p *Context, v []semval) semval {
			path := p.newNode(ast.Colon2, node(v[0]), nil, nil)
			path.ID = id(v[2])
			return mk(p.constDecl(path))
		})
		d.rule(target, "tCOLON3 tCONSTANT", func(p *Context, v []semval) semval {
			return mk(p.constDecl(p.newName(ast.Colon3, id(v[1]))))
		})
		d.rule(target, "backref", func(p *Context, v []semval) semval {
			p.backrefError(node(v[0]))
			return nil
		})
	}
	d.rule("var_lhs", "variable", func(p *Context, v []semval) semval {
		return mk(p.assignable(v[0], nil))
	})
	d.rule("backref", "tNTH_REF", func(p *Context, v []semval) semval {
		n := p.newNode(ast.NthRef, nil, nil, nil)
		n.Slot, _ = tok(v[0]).Val.(int)
		return mk(n)
	})
	d.rule("backref", "tBACK_REF", func(p *Context, v []semval) semval {
		n := p.newNode(ast.BackRef, nil, nil, nil)
		n.Slot, _ = tok(v[0]).Val.(int)
		return mk(n)
	})
}

// opAssignRules adds the operator assignments for a right-hand side, which
// is a command call at statement level and an arg elsewhere.
func (d *grammarDef) opAssignRules(lhs, rhs string) {
	d.rule(lhs, "var_lhs tOP_ASGN "+rhs, func(p *Context, v []semval) semval {
		return mk(p.opAssign(node(v[0]), id(v[1]), node(v[2])))
	})
	d.rule(lhs, "primary_value '[' aref_args ']' tOP_ASGN "+rhs, func(p *Context, v []semval) semval {
		n := p.newNode(ast.OpAsgn1, node(v[0]), node(v[2]), p.value(node(v[5])))
		n.Op = id(v[4])
		return mk(n)
	})
	for _, attr := range []string{"'.' tIDENTIFIER", "'.' tCONSTANT", "tCOLON2 tIDENTIFIER"} {
		d.rule(lhs, "primary_value "+attr+" tOP_ASGN "+rhs, func(p *Context, v []semval) semval {
			n := p.newNode(ast.OpAsgn2, node(v[0]), nil, p.value(node(v[4])))
			n.ID, n.Op = id(v[2]), id(v[3])
			return mk(n)
		})
	}
	d.rule(lhs, "backref tOP_ASGN "+rhs, func(p *Context, v []semval) semval {
		p.backrefError(node(v[0]))
		return nil
	})
}
