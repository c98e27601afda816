package parser

import (
	"github.com/npillmayer/rubin/syntax/ast"
	"github.com/npillmayer/rubin/syntax/lexer"
)

// Rules for literals, string contents, symbols, variables and method names.

func (d *grammarDef) literalRules() {
	d.rule("literal", "numeric", nil)
	d.rule("literal", "symbol", func(p *Context, v []semval) semval {
		return mk(p.lit(id(v[0])))
	})
	d.rule("literal", "dsym", nil)

	d.rule("strings", "string", func(p *Context, v []semval) semval {
		if n := node(v[0]); n != nil {
			return v[0]
		}
		return mk(p.str(""))
	})
	d.rule("string", "string1", nil)
	d.rule("string", "string string1", func(p *Context, v []semval) semval {
		return mk(p.literalConcat(node(v[0]), node(v[1])))
	})
	d.rule("string1", "tSTRING_BEG string_contents tSTRING_END", func(p *Context, v []semval) semval {
		if n := node(v[1]); n != nil {
			return v[1]
		}
		return mk(p.str(""))
	})
	d.rule("xstring", "tXSTRING_BEG xstring_contents tSTRING_END", func(p *Context, v []semval) semval {
		return mk(p.xstring(node(v[1])))
	})
	d.rule("regexp", "tREGEXP_BEG xstring_contents tREGEXP_END", func(p *Context, v []semval) semval {
		opts, _ := tok(v[2]).Val.(int)
		return mk(p.regexp(node(v[1]), opts))
	})
	d.rule("words", "tWORDS_BEG SP tSTRING_END", func(p *Context, v []semval) semval {
		return mk(p.newNode(ast.ZArray, nil, nil, nil))
	})
	d.rule("words", "tWORDS_BEG word_list tSTRING_END", func(p *Context, v []semval) semval {
		return mk(p.array(list(v[1])...))
	})
	d.rule("word_list", "none", func(p *Context, v []semval) semval {
		return listVal(nil)
	})
	d.rule("word_list", "word_list word SP", func(p *Context, v []semval) semval {
		return listVal(append(list(v[0]), p.evstr2dstr(node(v[1]))))
	})
	d.rule("word", "string_content", nil)
	d.rule("word", "word string_content", func(p *Context, v []semval) semval {
		return mk(p.literalConcat(node(v[0]), node(v[1])))
	})
	d.rule("qwords", "tQWORDS_BEG SP tSTRING_END", func(p *Context, v []semval) semval {
		return mk(p.newNode(ast.ZArray, nil, nil, nil))
	})
	d.rule("qwords", "tQWORDS_BEG qword_list tSTRING_END", func(p *Context, v []semval) semval {
		return mk(p.array(list(v[1])...))
	})
	d.rule("qword_list", "none", func(p *Context, v []semval) semval {
		return listVal(nil)
	})
	d.rule("qword_list", "qword_list tSTRING_CONTENT SP", func(p *Context, v []semval) semval {
		s, _ := tok(v[1]).Val.(string)
		return listVal(append(list(v[0]), p.str(s)))
	})
	for _, contents := range []string{"string_contents", "xstring_contents"} {
		d.rule(contents, "none", nil)
		d.rule(contents, contents+" string_content", func(p *Context, v []semval) semval {
			return mk(p.literalConcat(node(v[0]), node(v[1])))
		})
	}

	// Interpolation. While the embedded variable or statements are parsed,
	// the lexer scans code instead of string contents; the string term is
	// saved on the value stack and restored afterwards.
	d.rule("string_content", "tSTRING_CONTENT", func(p *Context, v []semval) semval {
		s, _ := tok(v[0]).Val.(string)
		return mk(p.str(s))
	})
	d.mid("@dvar", func(p *Context, v []semval) semval {
		saved := termVal{term: p.lx.StrTerm()}
		p.lx.SetStrTerm(nil)
		p.lx.Mode = lexer.ModeBeg
		return saved
	})
	d.rule("string_content", "tSTRING_DVAR @dvar string_dvar", func(p *Context, v []semval) semval {
		p.restoreStrTerm(v[1])
		return mk(p.newNode(ast.EvStr, node(v[2]), nil, nil))
	})
	d.mid("@dbeg", func(p *Context, v []semval) semval {
		saved := termVal{term: p.lx.StrTerm()}
		p.lx.SetStrTerm(nil)
		p.lx.Mode = lexer.ModeBeg
		p.lx.Cond.Push(false)
		p.lx.Cmdarg.Push(false)
		return saved
	})
	d.rule("string_content", "tSTRING_DBEG @dbeg compstmt '}'", func(p *Context, v []semval) semval {
		p.restoreStrTerm(v[1])
		return mk(p.newEvstr(node(v[2])))
	})
	d.rule("string_dvar", "tGVAR", func(p *Context, v []semval) semval {
		return mk(p.newName(ast.GVar, id(v[0])))
	})
	d.rule("string_dvar", "tIVAR", func(p *Context, v []semval) semval {
		return mk(p.newName(ast.IVar, id(v[0])))
	})
	d.rule("string_dvar", "tCVAR", func(p *Context, v []semval) semval {
		return mk(p.newName(ast.CVar, id(v[0])))
	})
	d.rule("string_dvar", "backref", nil)

	// Symbols.
	d.rule("symbol", "tSYMBEG sym", func(p *Context, v []semval) semval {
		p.lx.Mode = lexer.ModeEnd
		return idVal(id(v[1]))
	})
	d.rule("sym", "fname", nil)
	d.rule("sym", "tIVAR", nil)
	d.rule("sym", "tGVAR", nil)
	d.rule("sym", "tCVAR", nil)
	d.rule("dsym", "tSYMBEG xstring_contents tSTRING_END", func(p *Context, v []semval) semval {
		p.lx.Mode = lexer.ModeEnd
		return mk(p.dsym(node(v[1])))
	})

	d.rule("numeric", "tINTEGER", func(p *Context, v []semval) semval {
		return mk(p.lit(tok(v[0]).Val))
	})
	d.rule("numeric", "tFLOAT", func(p *Context, v []semval) semval {
		return mk(p.lit(tok(v[0]).Val))
	})
	for _, num := range []string{"tINTEGER", "tFLOAT"} {
		d.rulePrec("numeric", "tUMINUS_NUM "+num, "tLOWEST", func(p *Context, v []semval) semval {
			return mk(p.negateLit(p.lit(tok(v[1]).Val)))
		})
	}

	// Variables. The value of a variable is its token; var_ref and the
	// assignment targets decide what the name denotes.
	for _, t := range []string{"tIDENTIFIER", "tIVAR", "tGVAR", "tCONSTANT", "tCVAR",
		"kNIL", "kSELF", "kTRUE", "kFALSE", "k__FILE__", "k__LINE__"} {
		d.rule("variable", t, nil)
	}
	d.rule("var_ref", "variable", func(p *Context, v []semval) semval {
		return mk(p.gettable(tok(v[0])))
	})

	// Hash literals.
	d.rule("assoc_list", "none", func(p *Context, v []semval) semval {
		return listVal(nil)
	})
	d.rule("assoc_list", "assocs trailer", nil)
	d.rule("assoc_list", "args trailer", func(p *Context, v []semval) semval {
		if len(list(v[0]))%2 != 0 {
			p.errorf("odd number list for Hash")
		}
		return v[0]
	})

	d.rule("operation", "tIDENTIFIER", nil)
	d.rule("operation", "tCONSTANT", nil)
	d.rule("operation", "tFID", nil)
	d.rule("operation2", "tIDENTIFIER", nil)
	d.rule("operation2", "tCONSTANT", nil)
	d.rule("operation2", "tFID", nil)
	d.rule("operation2", "op", nil)
	d.rule("operation3", "tIDENTIFIER", nil)
	d.rule("operation3", "tFID", nil)
	d.rule("operation3", "op", nil)
	d.rule("dot_or_colon", "'.'", nil)
	d.rule("dot_or_colon", "tCOLON2", nil)
}
