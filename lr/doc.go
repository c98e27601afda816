/*
Package lr implements prerequisites for LR parsing: grammars, grammar analysis
and the construction of LALR(1) parser tables.

Building a Grammar

Grammars are specified using a grammar builder object. Clients add
rules, consisting of non-terminal symbols and terminals. Terminals
carry a token value of type int. Grammars may contain epsilon-productions.

Example:

    b := lr.NewGrammarBuilder("G")
    b.LHS("S").N("A").T("a", 1).End()  // S  ->  A a
    b.LHS("A").N("B").N("D").End()     // A  ->  B D
    b.LHS("B").T("b", 2).End()         // B  ->  b
    b.LHS("B").Epsilon()               // B  ->
    b.LHS("D").T("d", 3).End()         // D  ->  d
    b.LHS("D").Epsilon()               // D  ->

The builder augments the grammar by a start rule 0. This results in the
following trivial grammar:

   g, _ := b.Grammar()
   g.Dump()

   0: [S'] ::= [S]
   1: [S] ::= [A a]
   2: [A] ::= [B D]
   3: [B] ::= [b]
   4: [B] ::= []
   5: [D] ::= [d]
   6: [D] ::= []

Every grammar knows two special terminals: '#eof' (token value EOFType) and
'error' (token value ErrorType). The latter may be used in rules to specify
points of error recovery, as in yacc.

Operator precedence and associativity is declared with Left, Right and
NonAssoc, loosest binding first. A rule gets the precedence of its last
terminal, unless overridden with Prec:

    b.Left("+", "-")
    b.Left("*", "/")
    b.Right("UMINUS")
    b.LHS("E").T("-", '-').N("E").Prec("UMINUS").End()

Static Grammar Analysis

After the grammar is complete, it has to be analysed. For this end, the
grammar is subjected to an LRAnalysis object, which computes FIRST and
FOLLOW sets for the grammar and determines all epsilon-derivable non-terminals.

    ga := lr.Analysis(g)  // analyser for grammar above
    ga.Grammar().EachNonTerminal(
        func(N *lr.Symbol) interface{} {                       // ad-hoc mapper function
            fmt.Printf("FIRST(%s) = %v", N.Name, ga.First(N))  // get FIRST-set for N
            return nil
        })

    // Output:
    FIRST(S) = [1 2 3]         // terminal token values as int, 1 = 'a'
    FIRST(A) = [2 3]           // A is nullable, too
    FIRST(B) = [2]             // 2 = 'b'
    FIRST(D) = [3]             // 3 = 'd'

Parser Construction

Using grammar analysis as input, a bottom-up parser can be constructed.
First a characteristic finite state machine (CFSM) is built from the
grammar. Lookaheads for the LR(0) items are then computed by propagation,
resulting in an LALR(1) automaton, which is transformed into a GOTO table
and an ACTION table. Conflicts are resolved the yacc way, by precedence,
associativity or, failing these, in favour of shifting. The CFSM will not be
thrown away, but is made available to the client. This is intended for
debugging purposes. It can be exported to Graphviz's Dot-format.

Example:

    lrgen := lr.NewTableGenerator(ga)  // ga is a grammar analysis, see above
    lrgen.CreateTables()               // construct LALR(1) parser tables
    tables := lrgen.Tables()           // tables to hand to package lalr

___________________________________________________________________________

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>

*/
package lr

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'rubin.lr'.
func tracer() tracing.Trace {
	return tracing.Select("rubin.lr")
}
