package lexer

import (
	"fmt"

	"github.com/npillmayer/rubin"
)

// Token types. Single-character tokens use their character code, all other
// tokens are numbered from 257 on. The grammar of package parser refers to
// terminals by the names of TokenName.
const (
	KClass rubin.TokType = iota + 257
	KModule
	KDef
	KUndef
	KBegin
	KRescue
	KEnsure
	KEnd
	KIf
	KUnless
	KThen
	KElsif
	KElse
	KCase
	KWhen
	KWhile
	KUntil
	KFor
	KBreak
	KNext
	KRedo
	KRetry
	KIn
	KDo
	KDoCond
	KDoBlock
	KReturn
	KYield
	KSuper
	KSelf
	KNil
	KTrue
	KFalse
	KAnd
	KOr
	KNot
	KIfMod
	KUnlessMod
	KWhileMod
	KUntilMod
	KRescueMod
	KAlias
	KDefined
	KLBegin
	KLEnd
	KLine
	KFile

	TIdentifier
	TFID
	TGVar
	TIVar
	TConstant
	TCVar
	TInteger
	TFloat
	TStringContent
	TNthRef
	TBackRef
	TRegexpEnd
	TUPlus
	TUMinus
	TUMinusNum
	TPow
	TCmp
	TEq
	TEqq
	TNeq
	TGeq
	TLeq
	TAndOp
	TOrOp
	TMatch
	TNMatch
	TDot2
	TDot3
	TAref
	TAset
	TLShft
	TRShft
	TColon2
	TColon3
	TOpAsgn
	TAssoc
	TLParen
	TLParenArg
	TRParen
	TLBrack
	TLBrace
	TLBraceArg
	TStar
	TAmper
	TSymBeg
	TStringBeg
	TXStringBeg
	TRegexpBeg
	TWordsBeg
	TQWordsBeg
	TStringDBeg
	TStringDVar
	TStringEnd

	lastToken
)

// EOF is the token type for the end of input.
const EOF rubin.TokType = -1

var tokenNames = [...]string{
	"kCLASS", "kMODULE", "kDEF", "kUNDEF", "kBEGIN", "kRESCUE", "kENSURE", "kEND",
	"kIF", "kUNLESS", "kTHEN", "kELSIF", "kELSE", "kCASE", "kWHEN", "kWHILE",
	"kUNTIL", "kFOR", "kBREAK", "kNEXT", "kREDO", "kRETRY", "kIN", "kDO",
	"kDO_COND", "kDO_BLOCK", "kRETURN", "kYIELD", "kSUPER", "kSELF", "kNIL",
	"kTRUE", "kFALSE", "kAND", "kOR", "kNOT", "kIF_MOD", "kUNLESS_MOD",
	"kWHILE_MOD", "kUNTIL_MOD", "kRESCUE_MOD", "kALIAS", "kDEFINED", "klBEGIN",
	"klEND", "k__LINE__", "k__FILE__",
	"tIDENTIFIER", "tFID", "tGVAR", "tIVAR", "tCONSTANT", "tCVAR", "tINTEGER",
	"tFLOAT", "tSTRING_CONTENT", "tNTH_REF", "tBACK_REF", "tREGEXP_END",
	"tUPLUS", "tUMINUS", "tUMINUS_NUM", "tPOW", "tCMP", "tEQ", "tEQQ", "tNEQ",
	"tGEQ", "tLEQ", "tANDOP", "tOROP", "tMATCH", "tNMATCH", "tDOT2", "tDOT3",
	"tAREF", "tASET", "tLSHFT", "tRSHFT", "tCOLON2", "tCOLON3", "tOP_ASGN",
	"tASSOC", "tLPAREN", "tLPAREN_ARG", "tRPAREN", "tLBRACK", "tLBRACE",
	"tLBRACE_ARG", "tSTAR", "tAMPER", "tSYMBEG", "tSTRING_BEG", "tXSTRING_BEG",
	"tREGEXP_BEG", "tWORDS_BEG", "tQWORDS_BEG", "tSTRING_DBEG", "tSTRING_DVAR",
	"tSTRING_END",
}

// CharTokens are the single-character tokens of the language.
const CharTokens = "=?:><|^&+-*/%!~[]{}(),;.\n `"

// TokenName returns the name of a token type, as used in the grammar.
// Character tokens are named by the quoted character, e.g. '+'.
func TokenName(t rubin.TokType) string {
	switch {
	case t == EOF:
		return "$end"
	case t == 0:
		return "$undefined"
	case t == '\n':
		return `'\n'`
	case t > 0 && t < 256:
		return fmt.Sprintf("'%c'", rune(t))
	case t >= KClass && t < lastToken:
		return tokenNames[t-KClass]
	}
	return fmt.Sprintf("<%d>", t)
}

var tokenByName map[string]rubin.TokType

func init() {
	tokenByName = make(map[string]rubin.TokType, len(tokenNames)+len(CharTokens))
	for i, name := range tokenNames {
		tokenByName[name] = KClass + rubin.TokType(i)
	}
	for _, c := range CharTokens {
		tokenByName[TokenName(rubin.TokType(c))] = rubin.TokType(c)
	}
}

// TokenByName finds a token type by its grammar name.
func TokenByName(name string) (rubin.TokType, bool) {
	t, ok := tokenByName[name]
	return t, ok
}

// --- Tokens ----------------------------------------------------------------

// Token is the token type produced by the lexer. Depending on the token
// type, Val holds
//
//	rubin.SymbolID        identifiers, variables, constants, tOP_ASGN
//	int64, *big.Int       tINTEGER
//	float64               tFLOAT
//	string                tSTRING_CONTENT
//	int                   tREGEXP_END (options), tNTH_REF, tBACK_REF
//
// and nil for all other tokens.
type Token struct {
	Type rubin.TokType
	Text string
	Val  interface{}
	Line int
	Col  int
	span rubin.Span
}

var _ rubin.Token = (*Token)(nil)

// TokType is part of interface rubin.Token.
func (t *Token) TokType() rubin.TokType {
	return t.Type
}

// Lexeme is part of interface rubin.Token.
func (t *Token) Lexeme() string {
	return t.Text
}

// Value is part of interface rubin.Token.
func (t *Token) Value() interface{} {
	return t.Val
}

// Span is part of interface rubin.Token.
func (t *Token) Span() rubin.Span {
	return t.span
}

// ID returns the symbol payload of a token, or rubin.NoSymbol.
func (t *Token) ID() rubin.SymbolID {
	if id, ok := t.Val.(rubin.SymbolID); ok {
		return id
	}
	return rubin.NoSymbol
}

func (t *Token) String() string {
	if t.Val != nil {
		return fmt.Sprintf("%d:%s(%q %v)", t.Line, TokenName(t.Type), t.Text, t.Val)
	}
	return fmt.Sprintf("%d:%s(%q)", t.Line, TokenName(t.Type), t.Text)
}
