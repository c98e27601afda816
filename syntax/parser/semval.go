package parser

import (
	"github.com/npillmayer/rubin"
	"github.com/npillmayer/rubin/syntax/ast"
	"github.com/npillmayer/rubin/syntax/lexer"
)

// semval is the type of the parser's value stack. It is a closed sum: the
// only implementations are the types in this file.
type semval interface {
	isSemval()
}

type nodeVal struct{ n *ast.Node } // a tree
type tokVal struct{ t *lexer.Token } // a shifted token
type numVal int                      // counters, flags and line numbers
type listVal []*ast.Node             // siblings under construction
type idVal rubin.SymbolID            // a name

// termVal saves lexer state across an interpolated expression.
type termVal struct {
	term   *lexer.StrTerm
	cmdarg lexer.BitStack
}

func (nodeVal) isSemval() {}
func (tokVal) isSemval()  {}
func (numVal) isSemval()  {}
func (listVal) isSemval() {}
func (idVal) isSemval()   {}
func (termVal) isSemval() {}

func mk(n *ast.Node) semval {
	return nodeVal{n}
}

// node extracts a tree from a value. Empty values yield nil.
func node(v semval) *ast.Node {
	if n, ok := v.(nodeVal); ok {
		return n.n
	}
	return nil
}

func tok(v semval) *lexer.Token {
	if t, ok := v.(tokVal); ok {
		return t.t
	}
	return nil
}

func num(v semval) int {
	if n, ok := v.(numVal); ok {
		return int(n)
	}
	return 0
}

func list(v semval) []*ast.Node {
	if l, ok := v.(listVal); ok {
		return l
	}
	if n := node(v); n != nil {
		return []*ast.Node{n}
	}
	return nil
}

// id extracts a name from a token or a name value. Operator tokens are
// named by their method names.
func id(v semval) rubin.SymbolID {
	switch x := v.(type) {
	case idVal:
		return rubin.SymbolID(x)
	case tokVal:
		return tokenID(x.t)
	}
	return rubin.NoSymbol
}

// tokType returns the token type of a token value, 0 otherwise.
func tokType(v semval) rubin.TokType {
	if t := tok(v); t != nil {
		return t.Type
	}
	return 0
}

var opNames = map[rubin.TokType]string{
	lexer.TUPlus: "+@", lexer.TUMinus: "-@", lexer.TStar: "*", lexer.TPow: "**",
	lexer.TCmp: "<=>", lexer.TEq: "==", lexer.TEqq: "===", lexer.TNeq: "!=",
	lexer.TGeq: ">=", lexer.TLeq: "<=", lexer.TMatch: "=~", lexer.TNMatch: "!~",
	lexer.TAref: "[]", lexer.TAset: "[]=", lexer.TLShft: "<<", lexer.TRShft: ">>",
	lexer.TAmper: "&", lexer.TAndOp: "&&", lexer.TOrOp: "||",
}

func tokenID(t *lexer.Token) rubin.SymbolID {
	if t == nil {
		return rubin.NoSymbol
	}
	if id := t.ID(); id != rubin.NoSymbol {
		return id
	}
	if name, ok := opNames[t.Type]; ok {
		return rubin.Intern(name)
	}
	if t.Type > 0 && t.Type < 256 {
		return rubin.Intern(string(rune(t.Type)))
	}
	return rubin.Intern(t.Text)
}
