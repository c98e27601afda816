package lexer

import (
	"github.com/npillmayer/rubin"
	"github.com/npillmayer/rubin/syntax/ast"
)

type strFunc int

const (
	strEscape strFunc = 1 << iota
	strExpand
	strRegexp
	strQWords
	strSymbol
	strIndent
	strSquiggly
)

// Kinds of string literals.
const (
	strSQuote    strFunc = 0
	strDQuote            = strExpand
	strXQuote            = strExpand
	strRegexpLit         = strRegexp | strEscape | strExpand
	strSWord             = strQWords
	strDWord             = strQWords | strExpand
	strSSym              = strSymbol
	strDSym              = strSymbol | strExpand
)

// StrTerm describes the string literal the lexer is scanning. While a
// StrTerm is set, the lexer produces string content tokens instead of
// scanning expressions.
type StrTerm struct {
	fn    strFunc
	term  int // terminating character
	paren int // opening character of a bracketed literal, or 0
	nest  int // nesting depth of brackets
	line  int // line where the literal started
	done  bool
	here  *heredoc
}

// heredoc holds the state of a here-document. The lexer reads the body
// lines following the current line and afterwards resumes the line the
// heredoc was opened on.
type heredoc struct {
	id     string
	line   string // line of the opening identifier
	pos    int    // resume position within line
	lineno int
	indent int // columns to strip from body lines of <<~ heredocs
}

func newStrTerm(fn strFunc, term, paren int, line int) *StrTerm {
	return &StrTerm{fn: fn, term: term, paren: paren, line: line}
}

// IsHeredoc is true for here-document terms.
func (t *StrTerm) IsHeredoc() bool {
	return t != nil && t.here != nil
}

// parseString produces the next token of a quoted literal.
func (lx *Lexer) parseString(t *StrTerm) rubin.TokType {
	if t.done {
		return TStringEnd
	}
	fn := t.fn
	space := false
	c := lx.nextc()
	if fn&strQWords != 0 && isSpace(c) {
		for isSpace(c) {
			c = lx.nextc()
		}
		space = true
	}
	if c == t.term && t.nest == 0 {
		if fn&strQWords != 0 {
			t.done = true
			return ' '
		}
		if fn&strRegexp == 0 {
			return TStringEnd
		}
		lx.val = lx.regexpOptions()
		return TRegexpEnd
	}
	if space {
		lx.pushback(c)
		return ' '
	}
	lx.newtok()
	if fn&strExpand != 0 && c == '#' {
		switch c = lx.nextc(); c {
		case '$', '@':
			lx.pushback(c)
			return TStringDVar
		case '{':
			return TStringDBeg
		}
		lx.tokadd('#')
	}
	lx.pushback(c)
	if lx.tokaddString(fn, t.term, t.paren, &t.nest) == -1 {
		lx.fatalf(t.line, "unterminated string meets end of file")
		return EOF
	}
	lx.val = string(lx.tok)
	return TStringContent
}

// tokaddString collects string content into the token buffer. It stops in
// front of the terminator or an interpolation and returns the character it
// stopped at, or -1 at the end of input.
func (lx *Lexer) tokaddString(fn strFunc, term, paren int, nest *int) int {
	var c int
	for {
		if c = lx.nextc(); c == -1 {
			break
		}
		if paren != 0 && c == paren {
			*nest++
		} else if c == term {
			if nest == nil || *nest == 0 {
				lx.pushback(c)
				break
			}
			*nest--
		} else if fn&strExpand != 0 && c == '#' && lx.p < len(lx.line) {
			if c2 := lx.line[lx.p]; c2 == '$' || c2 == '@' || c2 == '{' {
				lx.pushback(c)
				break
			}
		} else if c == '\\' {
			if c = lx.nextc(); c == -1 {
				break
			}
			switch {
			case c == '\n':
				if fn&strQWords != 0 {
					break
				}
				if fn&strExpand != 0 {
					continue
				}
				lx.tokadd('\\')
			case c == '\\':
				if fn&strEscape != 0 {
					lx.tokadd(c)
				}
			case c == 'u' && fn&strExpand != 0 && fn&strRegexp == 0:
				lx.unicodeEscape()
				continue
			default:
				if fn&strRegexp != 0 {
					lx.pushback(c)
					if lx.tokaddEscape(term) < 0 {
						return -1
					}
					continue
				} else if fn&strExpand != 0 {
					lx.pushback(c)
					if fn&strEscape != 0 {
						lx.tokadd('\\')
					}
					c = lx.readEscape()
				} else if fn&strQWords != 0 && isSpace(c) {
					// escaped whitespace is part of the word
				} else if c != term && !(paren != 0 && c == paren) {
					lx.tokadd('\\')
				}
			}
		} else if fn&strQWords != 0 && isSpace(c) {
			lx.pushback(c)
			break
		}
		lx.tokadd(c)
	}
	return c
}

// regexpOptions scans the options following a regular expression.
func (lx *Lexer) regexpOptions() int {
	opts := 0
	var unknown []byte
	c := lx.nextc()
	for ; isAlpha(c); c = lx.nextc() {
		switch c {
		case 'i':
			opts |= ast.RegexpIgnoreCase
		case 'x':
			opts |= ast.RegexpExtended
		case 'm':
			opts |= ast.RegexpMultiline
		case 'o':
			opts |= ast.RegexpOnce
		case 'n':
			opts = opts&^kcodeMask | ast.RegexpNone
		case 'e':
			opts = opts&^kcodeMask | ast.RegexpEUC
		case 's':
			opts = opts&^kcodeMask | ast.RegexpSJIS
		case 'u':
			opts = opts&^kcodeMask | ast.RegexpUTF8
		default:
			unknown = append(unknown, byte(c))
		}
	}
	lx.pushback(c)
	if len(unknown) > 0 {
		s := ""
		if len(unknown) > 1 {
			s = "s"
		}
		lx.errorf("unknown regexp option%s - %s", s, unknown)
	}
	return opts
}

const kcodeMask = ast.RegexpNone | ast.RegexpEUC | ast.RegexpSJIS | ast.RegexpUTF8

// --- Here-documents --------------------------------------------------------

// heredocIdentifier scans the identifier of a here-document, with "<<"
// already consumed. It returns 0 if no here-document starts here.
func (lx *Lexer) heredocIdentifier() rubin.TokType {
	start := lx.p
	fn := strFunc(0)
	c := lx.nextc()
	if c == '-' {
		c = lx.nextc()
		fn = strIndent
	} else if c == '~' {
		c = lx.nextc()
		fn = strIndent | strSquiggly
	}
	term := c
	var id []byte
	switch c {
	case '\'', '"', '`':
		switch c {
		case '"':
			fn |= strDQuote
		case '`':
			fn |= strXQuote
		}
		for {
			if c = lx.nextc(); c == -1 || c == term {
				break
			}
			id = append(id, byte(c))
		}
		if c == -1 {
			lx.fatalf(lx.lineno, "unterminated here document identifier")
			return EOF
		}
	default:
		if !isIdentChar(c) {
			lx.pushback(c)
			lx.p = start
			return 0
		}
		term = '"'
		fn |= strDQuote
		for isIdentChar(c) {
			id = append(id, byte(c))
			c = lx.nextc()
		}
		lx.pushback(c)
	}
	h := &heredoc{id: string(id), line: lx.line, pos: lx.p, lineno: lx.lineno}
	if fn&strSquiggly != 0 {
		h.indent = lx.heredocIndent(h.id)
	}
	lx.gotoEOL()
	lx.strTerm = &StrTerm{fn: fn, term: term, line: lx.lineno, here: h}
	if term == '`' {
		return TXStringBeg
	}
	return TStringBeg
}

// heredocIndent finds the smallest indentation of the non-blank body lines
// of a <<~ heredoc. Tabs advance to the next multiple of 8.
func (lx *Lexer) heredocIndent(id string) int {
	min := -1
	for k := 0; ; k++ {
		line, ok := lx.src.Peek(k)
		if !ok {
			break
		}
		col, i := 0, 0
		for ; i < len(line) && (line[i] == ' ' || line[i] == '\t'); i++ {
			if line[i] == '\t' {
				col = (col/8 + 1) * 8
			} else {
				col++
			}
		}
		rest := line[i:]
		if rest == "" || rest == "\n" || rest == "\r\n" {
			continue
		}
		if len(rest) >= len(id) && rest[:len(id)] == id {
			if tail := rest[len(id):]; tail == "" || tail == "\n" || tail == "\r\n" {
				break
			}
		}
		if min < 0 || col < min {
			min = col
		}
	}
	if min < 0 {
		return 0
	}
	return min
}

// stripIndent skips the indentation of a <<~ heredoc body line.
func (lx *Lexer) stripIndent(width int) {
	col := 0
	for lx.p < len(lx.line) && col < width {
		switch lx.line[lx.p] {
		case ' ':
			col++
		case '\t':
			next := (col/8 + 1) * 8
			if next > width {
				return
			}
			col = next
		default:
			return
		}
		lx.p++
	}
}

func (lx *Lexer) heredocRestore(t *StrTerm) {
	h := t.here
	lx.line, lx.p, lx.lineno = h.line, h.pos, h.lineno
	lx.serial++
}

// hereDocument produces the next token of a here-document body.
func (lx *Lexer) hereDocument(t *StrTerm) rubin.TokType {
	h := t.here
	indent := t.fn&strIndent != 0
	unterminated := func() rubin.TokType {
		lx.fatalf(h.lineno, "can't find string \"%s\" anywhere before EOF", h.id)
		lx.heredocRestore(t)
		return EOF
	}
	c := lx.nextc()
	if c == -1 {
		return unterminated()
	}
	if lx.wasBol() {
		if lx.wholeMatch(h.id, indent) {
			lx.heredocRestore(t)
			return TStringEnd
		}
		if h.indent > 0 {
			lx.pushback(c)
			lx.stripIndent(h.indent)
			c = lx.nextc()
		}
	}
	var str string
	if t.fn&strExpand == 0 {
		lx.pushback(c)
		lx.newtok()
		for {
			lx.tok = append(lx.tok, lx.line[lx.p:]...)
			if n := len(lx.tok); n > 1 && lx.tok[n-2] == '\r' && lx.tok[n-1] == '\n' {
				lx.tok = append(lx.tok[:n-2], '\n')
			}
			lx.gotoEOL()
			if lx.nextc() == -1 {
				return unterminated()
			}
			if lx.wholeMatch(h.id, indent) {
				break
			}
			lx.pushback(int(lx.line[0]))
			lx.stripIndent(h.indent)
		}
		str = string(lx.tok)
	} else {
		lx.newtok()
		if c == '#' {
			switch c = lx.nextc(); c {
			case '$', '@':
				lx.pushback(c)
				return TStringDVar
			case '{':
				return TStringDBeg
			}
			lx.tokadd('#')
		}
		for {
			lx.pushback(c)
			if c = lx.tokaddString(t.fn, '\n', 0, nil); c == -1 {
				return unterminated()
			}
			if c != '\n' {
				lx.val = string(lx.tok)
				return TStringContent
			}
			lx.tokadd(lx.nextc())
			if c = lx.nextc(); c == -1 {
				return unterminated()
			}
			if lx.wholeMatch(h.id, indent) {
				break
			}
			if h.indent > 0 {
				lx.pushback(c)
				lx.stripIndent(h.indent)
				c = lx.nextc()
			}
		}
		str = string(lx.tok)
	}
	lx.heredocRestore(t)
	lx.strTerm = &StrTerm{done: true, line: t.line}
	lx.val = str
	return TStringContent
}
