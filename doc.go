/*
Package rubin is a source-to-tree front end for a dynamic, object-oriented
scripting language with closures, flexible method dispatch and rich literal
syntax (string interpolation, heredocs, percent-literals, regular-expression
literals, numeric bases).

Rubin turns a character stream into an abstract syntax tree, ready for later
evaluation or compilation. Package structure is as follows:

■ lr: Package lr implements grammars, grammar analysis and the construction of
LALR(1) parser tables. Sub-package lalr contains the table-driven parser, sparse
holds the table representation and scanner defines the tokenizer interface.

■ runtime: Package runtime implements the scope table (local-variable frames and
the chain of dynamic variables for blocks).

■ syntax: Packages ast, lexer and parser implement the language front end:
the tree, the context-sensitive scanner and the grammar with its tree-building
actions.

The base package contains data types which are used throughout all the other
packages, and the process-wide symbol intern table.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>

*/
package rubin
