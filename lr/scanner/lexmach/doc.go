/*
Package lexmach compiles token patterns with the lexmachine scanner generator
and recognizes the longest token at the start of an input.

The rubin scanner is hand-written, as the meaning of most characters depends
on the scanner mode. Some token classes are regular, though, and are matched
by a DFA: numerals with their radix prefixes, and operators which are
prefixes of longer operators ('*', '**', '**=').

	dfa, err := lexmach.Compile(
		[]lexmach.Pattern{{`0[xX][0-9a-fA-F_]*`, hex}, {`[1-9][0-9_]*`, dec}},
		[]string{"<", "<<", "<=>"}, ids)
	…
	id, lexeme, ok := dfa.Prefix(input[pos:])  // longest match at pos

For more information on lexmachine, see e.g.
https://hackthology.com/how-to-tokenize-complex-strings-with-lexmachine.html

________________________________________________________________________________

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package lexmach
