/*
Package parser builds syntax trees from source text. It combines the
context-sensitive lexer of package syntax/lexer with an LALR(1) parser
(package lr/lalr), whose tables are generated once from the grammar in this
package. Semantic actions attached to the grammar rules build the tree,
consult and update the scope table (package runtime) and desugar compound
constructs, e.g. operator assignments and multiple assignments.

Usage

	res, err := parser.ParseString("demo.rb", "x = 1\ny = x + 2\n")
	if err != nil {
		var perr *parser.Error
		if errors.As(err, &perr) { ... perr.Diagnostics ... }
	}
	fmt.Println(res.Root) // (block (lasgn x (lit 1)) (lasgn y ...))

Lexer and parser cooperate: some reductions switch the lexer mode, save and
restore the string term around interpolated expressions, and push flags onto
the lexer's condition and command-argument stacks. All of this state lives
in one Context per parse, so concurrent parses do not interfere.

___________________________________________________________________________

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package parser

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'rubin.parser'.
func tracer() tracing.Trace {
	return tracing.Select("rubin.parser")
}
