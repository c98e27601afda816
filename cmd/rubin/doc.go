/*
Command rubin is a command line front end for the rubin parser.

	rubin parse [--tree] [-e source] [file ...]
	rubin tokens [-e source] [file]
	rubin tables [--html file] [--goto file] [--dot file]
	rubin repl

Sub-command parse prints the syntax tree of each input as an s-expression or
as an indented tree. Sub-command tokens prints the token stream of the
scanner. Sub-command tables reports the size and the conflicts of the parser
tables and exports them as HTML or GraphViz. Sub-command repl starts an
interactive session which reads statements until they are complete and
prints their trees; local variables persist between inputs.

Parser options may be loaded from a TOML or YAML file with --config.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package main

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'rubin.cli'
func tracer() tracing.Trace {
	return tracing.Select("rubin.cli")
}
