/*
Package ast defines the syntax trees produced by package parser.

Trees are made of one homogeneous node type. A node carries a Kind, a source
position, up to three children (A, B, C), an ordered child list and a small
set of payload fields. Clients evaluating a tree switch on the Kind and use
either the fields directly or the typed accessors (Recv, Args, Body, Cond, …).

The s-expression format produced by SExpr is stable and used throughout the
tests of this module:

	x = 1; y = x + 2

gives

	(block (lasgn x (lit 1)) (lasgn y (call (lvar x) + (array (lit 2)))))

___________________________________________________________________________

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package ast
