package lexer

import (
	"math/big"
	"strconv"
	"strings"
	"sync"

	"github.com/npillmayer/rubin"
	"github.com/npillmayer/rubin/lr/scanner/lexmach"
)

// Kinds of numerals, as recognized by the numeral DFA.
const (
	numHex = iota + 1
	numBin
	numOct
	numDec
	numZero // leading 0: octal
	numInt
	numFloat
	numExp
)

// The numeral patterns are permissive with respect to underscores and
// digits. Errors are reported after matching.
var numeralPatterns = []lexmach.Pattern{
	{Regexp: `0[xX][0-9a-fA-F_]*`, ID: numHex},
	{Regexp: `0[bB][0-9_]*`, ID: numBin},
	{Regexp: `0[oO][0-9_]*`, ID: numOct},
	{Regexp: `0[dD][0-9_]*`, ID: numDec},
	{Regexp: `0[0-9_]*`, ID: numZero},
	{Regexp: `[1-9][0-9_]*`, ID: numInt},
	{Regexp: `[0-9][0-9_]*\.[0-9][0-9_]*([eE][\+\-]?[0-9_]+)?`, ID: numFloat},
	{Regexp: `[0-9][0-9_]*[eE][\+\-]?[0-9_]+`, ID: numExp},
}

var numerals struct {
	once sync.Once
	dfa  *lexmach.DFA
}

func numeralDFA() *lexmach.DFA {
	numerals.once.Do(func() {
		dfa, err := lexmach.Compile(numeralPatterns, nil, nil)
		if err != nil {
			panic(err)
		}
		numerals.dfa = dfa
	})
	return numerals.dfa
}

// numeral scans an integer or float literal at the current position.
func (lx *Lexer) numeral() rubin.TokType {
	lx.Mode = ModeEnd
	kind, lexeme, ok := numeralDFA().Prefix([]byte(lx.line[lx.p:]))
	if !ok { // cannot happen for a digit
		lexeme = lx.line[lx.p : lx.p+1]
		kind = numInt
	}
	lx.p += len(lexeme)
	if lx.p < len(lx.line) && isIdentChar(int(lx.line[lx.p])) {
		lx.fatalf(lx.lineno, "trailing garbage after numeric literal `%s%c'", lexeme, lx.line[lx.p])
		return EOF
	}
	switch kind {
	case numFloat, numExp:
		return lx.floatValue(lexeme)
	case numHex:
		return lx.intValue(lexeme[2:], 16, false)
	case numBin:
		return lx.intValue(lexeme[2:], 2, false)
	case numOct:
		return lx.intValue(lexeme[2:], 8, false)
	case numDec:
		return lx.intValue(lexeme[2:], 10, false)
	case numZero:
		if len(lexeme) == 1 {
			lx.val = int64(0)
			return TInteger
		}
		return lx.intValue(lexeme[1:], 8, true)
	}
	return lx.intValue(lexeme, 10, false)
}

func (lx *Lexer) intValue(digits string, base int, leadingUnderscore bool) rubin.TokType {
	lx.val = int64(0)
	if digits == "" || (digits[0] == '_' && !leadingUnderscore) {
		lx.fatalf(lx.lineno, "numeric literal without digits")
		return EOF
	}
	if !lx.checkUnderscores(digits) {
		return EOF
	}
	digits = strings.ReplaceAll(digits, "_", "")
	for _, d := range digits {
		if hexValue(int(d)) >= base {
			switch base {
			case 8:
				lx.errorf("Illegal octal digit")
			case 2:
				lx.errorf("Illegal binary digit")
			default:
				lx.errorf("Illegal digit")
			}
			return TInteger
		}
	}
	if n, err := strconv.ParseInt(digits, base, 64); err == nil {
		lx.val = n
		return TInteger
	}
	n, ok := new(big.Int).SetString(digits, base)
	if !ok {
		lx.errorf("invalid numeric literal")
		return TInteger
	}
	lx.val = n
	return TInteger
}

func (lx *Lexer) floatValue(lexeme string) rubin.TokType {
	lx.val = float64(0)
	if !lx.checkUnderscores(lexeme) {
		return EOF
	}
	for i := 1; i < len(lexeme); i++ {
		if lexeme[i] != '_' {
			continue
		}
		if strings.IndexByte(".eE+-", lexeme[i-1]) >= 0 || strings.IndexByte(".eE+-", lexeme[i+1]) >= 0 {
			lx.fatalf(lx.lineno, "trailing `_' in number")
			return EOF
		}
	}
	f, err := strconv.ParseFloat(strings.ReplaceAll(lexeme, "_", ""), 64)
	if err != nil {
		if ne, ok := err.(*strconv.NumError); !ok || ne.Err != strconv.ErrRange {
			lx.errorf("invalid numeric literal")
			return TFloat
		}
		lx.warn("Float %s out of range", lexeme)
	}
	lx.val = f
	return TFloat
}

// checkUnderscores reports trailing and doubled underscores. Both end the
// scan.
func (lx *Lexer) checkUnderscores(digits string) bool {
	if strings.HasSuffix(digits, "_") || strings.Contains(digits, "__") {
		lx.fatalf(lx.lineno, "trailing `_' in number")
		return false
	}
	return true
}
