package lexer

import (
	"fmt"

	"github.com/npillmayer/rubin"
	"github.com/npillmayer/rubin/lr/scanner"
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'rubin.scanner'.
func tracer() tracing.Trace {
	return tracing.Select("rubin.scanner")
}

// Severity classifies diagnostics.
type Severity int8

// Severities of diagnostics. Fatal diagnostics end the parse.
const (
	Warning Severity = iota
	Error
	Fatal
)

func (s Severity) String() string {
	switch s {
	case Warning:
		return "warning"
	case Error:
		return "error"
	}
	return "fatal"
}

// Reporter receives the diagnostics of the lexer.
type Reporter interface {
	Report(sev Severity, line, col int, msg string)
}

// LocalScope tells the lexer which identifiers are local variables. An
// identifier denoting a local variable is an operand, never a command name:
// 'x -1' is a subtraction if x is a local and a call x(-1) otherwise.
type LocalScope interface {
	IsKnown(name rubin.SymbolID) bool
}

// LexError is a lexical error, handed to error handlers installed with
// SetErrorHandler.
type LexError struct {
	Severity Severity
	Line     int
	Col      int
	Msg      string
}

func (e *LexError) Error() string {
	return fmt.Sprintf("%d:%d: %s", e.Line, e.Col, e.Msg)
}

// Lexer is the context-sensitive scanner of the language. It produces one
// token per call of NextToken. The parser drives Mode, Cond, Cmdarg and the
// string term through the exported fields and methods.
type Lexer struct {
	Mode         Mode     // current lexer mode
	Cond         BitStack // inside a loop condition, 'do' is kDO_COND
	Cmdarg       BitStack // inside command arguments, 'do' is kDO_BLOCK
	Verbose      bool     // report verbose-only warnings
	src          *Source
	line         string // current line buffer
	p            int    // read position within line
	lineno       int    // number of the current line
	serial       int    // incremented for every line switch
	eofp         bool   // end of input has been reached
	dataSeen     bool   // __END__ has been found
	commandStart bool   // next identifier starts a command
	spaceSeen    bool   // whitespace preceded the current token
	strTerm      *StrTerm
	tok          []byte      // token buffer
	val          interface{} // payload of the current token
	start        int         // start of the current token within line
	startLine    int
	startSerial  int
	scope        LocalScope
	reporter     Reporter
	onError      func(error)
	fatal        bool
	truncated    bool // a fatal error was caused by the end of input
	Last         *Token // last token produced
}

var _ scanner.Tokenizer = (*Lexer)(nil)

// Option configures a lexer.
type Option func(*Lexer)

// WithScope sets the local scope the lexer consults for identifiers.
func WithScope(scope LocalScope) Option {
	return func(lx *Lexer) {
		lx.scope = scope
	}
}

// WithReporter sets the receiver of diagnostics.
func WithReporter(r Reporter) Option {
	return func(lx *Lexer) {
		lx.reporter = r
	}
}

// Verbose switches on verbose-only warnings.
func Verbose(b bool) Option {
	return func(lx *Lexer) {
		lx.Verbose = b
	}
}

// New creates a lexer for a source.
func New(src *Source, opts ...Option) *Lexer {
	lx := &Lexer{
		src:          src,
		Mode:         ModeBeg,
		commandStart: true,
		tok:          make([]byte, 0, 64),
		lineno:       src.FirstLine(),
	}
	for _, opt := range opts {
		opt(lx)
	}
	return lx
}

// SetErrorHandler is part of interface scanner.Tokenizer. The handler
// receives errors if no Reporter is configured.
func (lx *Lexer) SetErrorHandler(h func(error)) {
	lx.onError = h
}

// Source returns the source the lexer reads from.
func (lx *Lexer) Source() *Source {
	return lx.src
}

// Line returns the current line number.
func (lx *Lexer) Line() int {
	return lx.lineno
}

// AtEOF is true if the lexer has reached the end of input.
func (lx *Lexer) AtEOF() bool {
	return lx.eofp
}

// DataSeen is true if the input has been terminated by an __END__ line.
func (lx *Lexer) DataSeen() bool {
	return lx.dataSeen
}

// Failed is true after a fatal error.
func (lx *Lexer) Failed() bool {
	return lx.fatal
}

// Truncated is true if a fatal error was caused by input ending inside a
// literal or embedded document. More input may fix it.
func (lx *Lexer) Truncated() bool {
	return lx.fatal && lx.truncated
}

// StrTerm returns the string term of the literal being scanned, or nil.
// The parser saves it while scanning an interpolated expression.
func (lx *Lexer) StrTerm() *StrTerm {
	return lx.strTerm
}

// SetStrTerm restores a saved string term.
func (lx *Lexer) SetStrTerm(t *StrTerm) {
	lx.strTerm = t
}

// SetCommandStart marks the next identifier as the start of a command.
func (lx *Lexer) SetCommandStart() {
	lx.commandStart = true
}

// --- Diagnostics -----------------------------------------------------------

func (lx *Lexer) report(sev Severity, line, col int, msg string) {
	if sev == Fatal {
		lx.fatal = true
	}
	if lx.reporter != nil {
		lx.reporter.Report(sev, line, col, msg)
		return
	}
	if sev > Warning && lx.onError != nil {
		lx.onError(&LexError{Severity: sev, Line: line, Col: col, Msg: msg})
		return
	}
	tracer().Infof("%d:%d: %s: %s", line, col, sev, msg)
}

func (lx *Lexer) warn(format string, args ...interface{}) {
	lx.report(Warning, lx.lineno, lx.start, fmt.Sprintf(format, args...))
}

func (lx *Lexer) warning(format string, args ...interface{}) {
	if lx.Verbose {
		lx.warn(format, args...)
	}
}

func (lx *Lexer) errorf(format string, args ...interface{}) {
	lx.report(Error, lx.lineno, lx.start, fmt.Sprintf(format, args...))
}

func (lx *Lexer) fatalf(line int, format string, args ...interface{}) {
	lx.truncated = lx.eofp
	lx.report(Fatal, line, 0, fmt.Sprintf(format, args...))
	lx.eofp = true
	lx.p = len(lx.line)
}

func (lx *Lexer) argAmbiguous() {
	lx.warning("ambiguous first argument; put parentheses or even spaces")
}

// --- Reading characters ----------------------------------------------------

func (lx *Lexer) nextLine() bool {
	if lx.eofp {
		return false
	}
	line, no, ok := lx.src.NextLine()
	if !ok {
		return false
	}
	lx.line, lx.p, lx.lineno = line, 0, no
	lx.serial++
	return true
}

// nextc returns the next character, or -1 at the end of input. "\r\n" is
// read as "\n".
func (lx *Lexer) nextc() int {
	if lx.p >= len(lx.line) {
		if !lx.nextLine() {
			lx.eofp = true
			return -1
		}
	}
	c := int(lx.line[lx.p])
	lx.p++
	if c == '\r' && lx.p < len(lx.line) && lx.line[lx.p] == '\n' {
		lx.p++
		c = '\n'
	}
	return c
}

func (lx *Lexer) pushback(c int) {
	if c == -1 {
		return
	}
	lx.p--
	if lx.p > 0 && lx.line[lx.p] == '\n' && lx.line[lx.p-1] == '\r' {
		lx.p--
	}
}

// peek tests the next character without consuming it.
func (lx *Lexer) peek(c byte) bool {
	return lx.p < len(lx.line) && lx.line[lx.p] == c
}

// peekc returns the next character of the current line, or -1.
func (lx *Lexer) peekc() int {
	if lx.p < len(lx.line) {
		return int(lx.line[lx.p])
	}
	return -1
}

func (lx *Lexer) wasBol() bool {
	return lx.p == 1
}

func (lx *Lexer) gotoEOL() {
	lx.p = len(lx.line)
}

func (lx *Lexer) newtok() {
	lx.tok = lx.tok[:0]
}

func (lx *Lexer) tokadd(c int) {
	lx.tok = append(lx.tok, byte(c))
}

func (lx *Lexer) markStart() {
	lx.start = lx.p
	lx.startLine = lx.lineno
	lx.startSerial = lx.serial
}

func isSpace(c int) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\v' || c == '\f' || c == '\r'
}

func isDigit(c int) bool {
	return c >= '0' && c <= '9'
}

func isAlpha(c int) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z'
}

func isUpper(c int) bool {
	return c >= 'A' && c <= 'Z'
}

// isIdentChar is true for letters, digits, '_' and bytes of multi-byte
// characters.
func isIdentChar(c int) bool {
	return isAlpha(c) || isDigit(c) || c == '_' || c >= 0x80
}

// --- Tokens ----------------------------------------------------------------

// NextToken is part of interface scanner.Tokenizer.
func (lx *Lexer) NextToken() rubin.Token {
	lx.val = nil
	t := lx.lex()
	if lx.fatal {
		t = EOF
	}
	tok := &Token{Type: t, Val: lx.val, Line: lx.startLine, Col: lx.start}
	if t == TStringContent {
		tok.Text, _ = lx.val.(string)
	} else if lx.startSerial == lx.serial && lx.start <= lx.p && t != EOF {
		tok.Text = lx.line[lx.start:lx.p]
	}
	from := lx.src.Offset(lx.startLine) + uint64(lx.start)
	tok.span = rubin.Span{from, from + uint64(len(tok.Text))}
	lx.Last = tok
	tracer().Debugf("token %s [%s]", tok, lx.Mode)
	return tok
}

// setModeAfterOperator switches to ModeArg after an operator method name,
// to ModeBeg otherwise.
func (lx *Lexer) setModeAfterOperator() {
	if lx.Mode == ModeFName || lx.Mode == ModeDot {
		lx.Mode = ModeArg
	} else {
		lx.Mode = ModeBeg
	}
}

func (lx *Lexer) opAsgn(op string) rubin.TokType {
	lx.val = rubin.Intern(op)
	lx.Mode = ModeBeg
	return TOpAsgn
}

// lex scans the next token. It is a single big state machine, switching on
// the first character and consulting the mode.
func (lx *Lexer) lex() rubin.TokType {
	cmdState := lx.commandStart
	lx.commandStart = false
	if t := lx.strTerm; t != nil {
		lx.markStart()
		var tt rubin.TokType
		if t.here != nil && !t.done {
			tt = lx.hereDocument(t)
			if tt == TStringEnd || tt == EOF {
				lx.strTerm = nil
				lx.Mode = ModeEnd
			}
		} else {
			tt = lx.parseString(t)
			if tt == TStringEnd || tt == TRegexpEnd {
				lx.strTerm = nil
				lx.Mode = ModeEnd
			}
		}
		return tt
	}
	lx.spaceSeen = false
retry:
	c := lx.nextc()
	lx.start, lx.startLine, lx.startSerial = lx.p-1, lx.lineno, lx.serial
	switch c {
	case 0, 0x04, 0x1a, -1:
		lx.eofp = true
		lx.start = lx.p
		return EOF
	case ' ', '\t', '\f', '\r', '\v':
		lx.spaceSeen = true
		goto retry
	case '#':
		for c != '\n' {
			if c = lx.nextc(); c == -1 {
				lx.eofp = true
				return EOF
			}
		}
		fallthrough
	case '\n':
		switch lx.Mode {
		case ModeBeg, ModeFName, ModeDot, ModeClass:
			goto retry
		}
		lx.commandStart = true
		lx.Mode = ModeBeg
		return '\n'
	case '*':
		t := rubin.TokType('*')
		switch lx.operator() {
		case "**=":
			lx.skip(2)
			return lx.opAsgn("**")
		case "*=":
			lx.skip(1)
			return lx.opAsgn("*")
		case "**":
			lx.skip(1)
			t = TPow
		default:
			if lx.Mode.isArg() && lx.spaceSeen && !isSpace(lx.peekc()) {
				lx.warning("`*' interpreted as argument prefix")
				t = TStar
			} else if lx.Mode == ModeBeg || lx.Mode == ModeMid {
				t = TStar
			}
		}
		lx.setModeAfterOperator()
		return t
	case '!':
		lx.Mode = ModeBeg
		switch lx.operator() {
		case "!=":
			lx.skip(1)
			return TNeq
		case "!~":
			lx.skip(1)
			return TNMatch
		}
		return '!'
	case '=':
		if lx.wasBol() && lx.embeddedDocument() {
			goto retry
		}
		if lx.fatal {
			return EOF
		}
		lx.setModeAfterOperator()
		op := lx.operator()
		lx.skip(len(op) - 1)
		switch op {
		case "===":
			return TEqq
		case "==":
			return TEq
		case "=~":
			return TMatch
		case "=>":
			return TAssoc
		}
		return '='
	case '<':
		if lx.peek('<') && lx.Mode != ModeEnd && lx.Mode != ModeDot && lx.Mode != ModeEndArg &&
			lx.Mode != ModeClass && (!lx.Mode.isArg() || lx.spaceSeen) {
			lx.skip(1)
			if t := lx.heredocIdentifier(); t != 0 {
				return t
			}
			lx.p--
		}
		lx.setModeAfterOperator()
		op := lx.operator()
		switch op {
		case "<<=":
			lx.skip(2)
			return lx.opAsgn("<<")
		case "<=>":
			lx.skip(2)
			return TCmp
		case "<=":
			lx.skip(1)
			return TLeq
		case "<<":
			lx.skip(1)
			return TLShft
		}
		return '<'
	case '>':
		lx.setModeAfterOperator()
		switch lx.operator() {
		case ">>=":
			lx.skip(2)
			return lx.opAsgn(">>")
		case ">=":
			lx.skip(1)
			return TGeq
		case ">>":
			lx.skip(1)
			return TRShft
		}
		return '>'
	case '"':
		lx.strTerm = newStrTerm(strDQuote, '"', 0, lx.lineno)
		return TStringBeg
	case '`':
		if lx.Mode == ModeFName {
			lx.Mode = ModeEnd
			return '`'
		}
		if lx.Mode == ModeDot {
			lx.Mode = ModeArg
			if cmdState {
				lx.Mode = ModeCmdArg
			}
			return '`'
		}
		lx.strTerm = newStrTerm(strXQuote, '`', 0, lx.lineno)
		return TXStringBeg
	case '\'':
		lx.strTerm = newStrTerm(strSQuote, '\'', 0, lx.lineno)
		return TStringBeg
	case '?':
		return lx.charLiteral()
	case '&':
		switch lx.operator() {
		case "&&=":
			lx.skip(2)
			return lx.opAsgn("&&")
		case "&&":
			lx.skip(1)
			lx.Mode = ModeBeg
			return TAndOp
		case "&=":
			lx.skip(1)
			return lx.opAsgn("&")
		}
		t := rubin.TokType('&')
		if lx.Mode.isArg() && lx.spaceSeen && !isSpace(lx.peekc()) {
			lx.warning("`&' interpreted as argument prefix")
			t = TAmper
		} else if lx.Mode == ModeBeg || lx.Mode == ModeMid {
			t = TAmper
		}
		lx.setModeAfterOperator()
		return t
	case '|':
		switch lx.operator() {
		case "||=":
			lx.skip(2)
			return lx.opAsgn("||")
		case "||":
			lx.skip(1)
			lx.Mode = ModeBeg
			return TOrOp
		case "|=":
			lx.skip(1)
			return lx.opAsgn("|")
		}
		lx.setModeAfterOperator()
		return '|'
	case '+', '-':
		return lx.plusMinus(c)
	case '.':
		lx.Mode = ModeBeg
		switch lx.operator() {
		case "...":
			lx.skip(2)
			return TDot3
		case "..":
			lx.skip(1)
			return TDot2
		}
		if isDigit(lx.peekc()) {
			lx.errorf("no .<digit> floating literal anymore; put 0 before dot")
		}
		lx.Mode = ModeDot
		return '.'
	case '0', '1', '2', '3', '4', '5', '6', '7', '8', '9':
		lx.pushback(c)
		return lx.numeral()
	case ')', ']', '}':
		lx.Cond.LexPop()
		lx.Cmdarg.LexPop()
		lx.Mode = ModeEnd
		return rubin.TokType(c)
	case ':':
		if lx.operator() == "::" {
			lx.skip(1)
			if lx.Mode.isBeg() || (lx.Mode.isArg() && lx.spaceSeen) {
				lx.Mode = ModeBeg
				return TColon3
			}
			lx.Mode = ModeDot
			return TColon2
		}
		c = lx.nextc()
		if lx.Mode == ModeEnd || lx.Mode == ModeEndArg || isSpace(c) {
			lx.pushback(c)
			lx.Mode = ModeBeg
			return ':'
		}
		switch c {
		case '\'':
			lx.strTerm = newStrTerm(strSSym, c, 0, lx.lineno)
		case '"':
			lx.strTerm = newStrTerm(strDSym, c, 0, lx.lineno)
		default:
			lx.pushback(c)
		}
		lx.Mode = ModeFName
		return TSymBeg
	case '/':
		if lx.Mode == ModeBeg || lx.Mode == ModeMid {
			lx.strTerm = newStrTerm(strRegexpLit, '/', 0, lx.lineno)
			return TRegexpBeg
		}
		if lx.peek('=') {
			lx.skip(1)
			return lx.opAsgn("/")
		}
		if lx.Mode.isArg() && lx.spaceSeen && !isSpace(lx.peekc()) {
			lx.argAmbiguous()
			lx.strTerm = newStrTerm(strRegexpLit, '/', 0, lx.lineno)
			return TRegexpBeg
		}
		lx.setModeAfterOperator()
		return '/'
	case '^':
		if lx.peek('=') {
			lx.skip(1)
			return lx.opAsgn("^")
		}
		lx.setModeAfterOperator()
		return '^'
	case ';':
		lx.commandStart = true
		lx.Mode = ModeBeg
		return ';'
	case ',':
		lx.Mode = ModeBeg
		return ','
	case '~':
		if (lx.Mode == ModeFName || lx.Mode == ModeDot) && lx.peek('@') {
			lx.skip(1)
		}
		lx.setModeAfterOperator()
		return '~'
	case '(':
		t := rubin.TokType('(')
		lx.commandStart = true
		if lx.Mode == ModeBeg || lx.Mode == ModeMid {
			t = TLParen
		} else if lx.spaceSeen {
			if lx.Mode == ModeCmdArg {
				t = TLParenArg
			} else if lx.Mode == ModeArg {
				lx.warn("don't put space before argument parentheses")
			}
		}
		lx.Cond.Push(false)
		lx.Cmdarg.Push(false)
		lx.Mode = ModeBeg
		return t
	case '[':
		t := rubin.TokType('[')
		if lx.Mode == ModeFName || lx.Mode == ModeDot {
			lx.Mode = ModeArg
			if lx.peek(']') {
				lx.skip(1)
				if lx.peek('=') {
					lx.skip(1)
					return TAset
				}
				return TAref
			}
			return '['
		} else if lx.Mode == ModeBeg || lx.Mode == ModeMid {
			t = TLBrack
		} else if lx.Mode.isArg() && lx.spaceSeen {
			t = TLBrack
		}
		lx.Mode = ModeBeg
		lx.Cond.Push(false)
		lx.Cmdarg.Push(false)
		return t
	case '{':
		t := rubin.TokType(TLBrace) // hash
		if lx.Mode.isArg() || lx.Mode == ModeEnd {
			t = '{' // block of a primary
		} else if lx.Mode == ModeEndArg {
			t = TLBraceArg // block of an expression
		}
		lx.Cond.Push(false)
		lx.Cmdarg.Push(false)
		lx.Mode = ModeBeg
		return t
	case '\\':
		if lx.peek('\n') || (lx.peek('\r') && lx.p+1 < len(lx.line) && lx.line[lx.p+1] == '\n') {
			lx.gotoEOL()
			lx.spaceSeen = true
			goto retry
		}
		return '\\'
	case '%':
		return lx.percent(cmdState)
	case '$':
		return lx.globalVariable()
	case '@':
		return lx.identifier(c, cmdState)
	case '_':
		if lx.wasBol() && lx.wholeMatch("__END__", false) {
			lx.dataSeen = true
			lx.eofp = true
			lx.gotoEOL()
			return EOF
		}
		return lx.identifier(c, cmdState)
	default:
		if !isIdentChar(c) {
			lx.errorf("Invalid char `\\%03o' in expression", c)
			goto retry
		}
		return lx.identifier(c, cmdState)
	}
}

func (lx *Lexer) skip(n int) {
	lx.p += n
}

// embeddedDocument skips an embedded document =begin … =end. It returns
// false if the line does not start one.
func (lx *Lexer) embeddedDocument() bool {
	if !hasWordPrefix(lx.line[lx.p:], "begin") {
		return false
	}
	startLine := lx.lineno
	for {
		lx.gotoEOL()
		c := lx.nextc()
		if c == -1 {
			lx.fatalf(startLine, "embedded document meets end of file")
			return false
		}
		if c == '=' && hasWordPrefix(lx.line[lx.p:], "end") {
			break
		}
	}
	lx.gotoEOL()
	return true
}

// hasWordPrefix is true if s starts with word, followed by whitespace or
// the end of the line.
func hasWordPrefix(s, word string) bool {
	if len(s) < len(word) || s[:len(word)] != word {
		return false
	}
	return len(s) == len(word) || isSpace(int(s[len(word)]))
}

// wholeMatch is true if the current line consists of eos, optionally
// preceded by whitespace.
func (lx *Lexer) wholeMatch(eos string, indent bool) bool {
	s := lx.line
	if indent {
		i := 0
		for i < len(s) && (s[i] == ' ' || s[i] == '\t') {
			i++
		}
		s = s[i:]
	}
	if len(s) < len(eos) || s[:len(eos)] != eos {
		return false
	}
	rest := s[len(eos):]
	return rest == "" || rest == "\n" || rest == "\r\n"
}

func (lx *Lexer) plusMinus(c int) rubin.TokType {
	sign := string(rune(c))
	c2 := lx.nextc()
	if lx.Mode == ModeFName || lx.Mode == ModeDot {
		lx.Mode = ModeArg
		if c2 == '@' {
			if sign == "+" {
				return TUPlus
			}
			return TUMinus
		}
		lx.pushback(c2)
		return rubin.TokType(c)
	}
	if c2 == '=' {
		return lx.opAsgn(sign)
	}
	if lx.Mode == ModeBeg || lx.Mode == ModeMid || (lx.Mode.isArg() && lx.spaceSeen && !isSpace(c2)) {
		if lx.Mode.isArg() {
			lx.argAmbiguous()
		}
		lx.Mode = ModeBeg
		lx.pushback(c2)
		if isDigit(c2) {
			if sign == "+" {
				return lx.numeral()
			}
			return TUMinusNum
		}
		if sign == "+" {
			return TUPlus
		}
		return TUMinus
	}
	lx.Mode = ModeBeg
	lx.pushback(c2)
	return rubin.TokType(c)
}

// charLiteral scans '?' as either a character literal or the ternary
// operator.
func (lx *Lexer) charLiteral() rubin.TokType {
	if lx.Mode == ModeEnd || lx.Mode == ModeEndArg {
		lx.Mode = ModeBeg
		return '?'
	}
	c := lx.nextc()
	if c == -1 {
		lx.fatalf(lx.lineno, "incomplete character syntax")
		return EOF
	}
	ternary := func() rubin.TokType {
		lx.pushback(c)
		lx.Mode = ModeBeg
		return '?'
	}
	if isSpace(c) {
		if !lx.Mode.isArg() {
			var c2 byte
			switch c {
			case ' ':
				c2 = 's'
			case '\n':
				c2 = 'n'
			case '\t':
				c2 = 't'
			case '\v':
				c2 = 'v'
			case '\r':
				c2 = 'r'
			case '\f':
				c2 = 'f'
			}
			if c2 != 0 {
				lx.warn("invalid character syntax; use ?\\%c", c2)
			}
		}
		return ternary()
	}
	if c >= 0x80 {
		lx.warn("multibyte character literal not supported yet; use ?\\%.3o", c)
		return ternary()
	}
	if (isAlpha(c) || isDigit(c) || c == '_') && lx.p < len(lx.line) && isIdentChar(int(lx.line[lx.p])) {
		return ternary()
	}
	if c == '\\' {
		c = lx.readEscape()
	}
	lx.val = int64(c & 0xff)
	lx.Mode = ModeEnd
	return TInteger
}

// percent scans '%' as a percent literal opener or as an operator.
func (lx *Lexer) percent(cmdState bool) rubin.TokType {
	var c int
	if lx.Mode == ModeBeg || lx.Mode == ModeMid {
		c = lx.nextc()
		return lx.quotation(c)
	}
	if lx.peek('=') {
		lx.skip(1)
		return lx.opAsgn("%")
	}
	if lx.Mode.isArg() && lx.spaceSeen && !isSpace(lx.peekc()) {
		return lx.quotation(lx.nextc())
	}
	lx.setModeAfterOperator()
	return '%'
}

func (lx *Lexer) quotation(c int) rubin.TokType {
	var term int
	if c == -1 || !(isAlpha(c) || isDigit(c)) {
		term = c
		c = 'Q'
	} else {
		term = lx.nextc()
		if isAlpha(term) || isDigit(term) || term >= 0x80 {
			lx.errorf("unknown type of %%string")
			return lx.lex()
		}
	}
	if term == -1 {
		lx.fatalf(lx.lineno, "unterminated quoted string meets end of file")
		return EOF
	}
	paren := term
	switch term {
	case '(':
		term = ')'
	case '[':
		term = ']'
	case '{':
		term = '}'
	case '<':
		term = '>'
	default:
		paren = 0
	}
	skipSpaces := func() {
		c := lx.nextc()
		for isSpace(c) {
			c = lx.nextc()
		}
		lx.pushback(c)
	}
	switch c {
	case 'Q':
		lx.strTerm = newStrTerm(strDQuote, term, paren, lx.lineno)
		return TStringBeg
	case 'q':
		lx.strTerm = newStrTerm(strSQuote, term, paren, lx.lineno)
		return TStringBeg
	case 'W':
		lx.strTerm = newStrTerm(strDWord, term, paren, lx.lineno)
		skipSpaces()
		return TWordsBeg
	case 'w':
		lx.strTerm = newStrTerm(strSWord, term, paren, lx.lineno)
		skipSpaces()
		return TQWordsBeg
	case 'x':
		lx.strTerm = newStrTerm(strXQuote, term, paren, lx.lineno)
		return TXStringBeg
	case 'r':
		lx.strTerm = newStrTerm(strRegexpLit, term, paren, lx.lineno)
		return TRegexpBeg
	case 's':
		lx.strTerm = newStrTerm(strSSym, term, paren, lx.lineno)
		lx.Mode = ModeFName
		return TSymBeg
	}
	lx.errorf("unknown type of %%string")
	return lx.lex()
}

// globalVariable scans $-variables, back references and numbered groups.
func (lx *Lexer) globalVariable() rubin.TokType {
	lastMode := lx.Mode
	lx.Mode = ModeEnd
	lx.newtok()
	gvar := func() rubin.TokType {
		lx.val = rubin.Intern(string(lx.tok))
		return TGVar
	}
	c := lx.nextc()
	switch c {
	case '_':
		c = lx.nextc()
		if isIdentChar(c) {
			lx.tokadd('$')
			lx.tokadd('_')
			return lx.identifierRun(c, false)
		}
		lx.pushback(c)
		lx.tokadd('$')
		lx.tokadd('_')
		return gvar()
	case '~', '*', '$', '?', '!', '@', '/', '\\', ';', ',', '.', '=', ':', '<', '>', '"':
		lx.tokadd('$')
		lx.tokadd(c)
		return gvar()
	case '-':
		lx.tokadd('$')
		lx.tokadd(c)
		if c = lx.nextc(); isIdentChar(c) {
			lx.tokadd(c)
		} else {
			lx.pushback(c)
		}
		return gvar()
	case '&', '`', '\'', '+':
		if lastMode == ModeFName {
			lx.tokadd('$')
			lx.tokadd(c)
			return gvar()
		}
		lx.val = c
		return TBackRef
	case '1', '2', '3', '4', '5', '6', '7', '8', '9':
		lx.tokadd('$')
		n := 0
		for isDigit(c) {
			lx.tokadd(c)
			n = n*10 + c - '0'
			c = lx.nextc()
		}
		lx.pushback(c)
		if lastMode == ModeFName {
			return gvar()
		}
		lx.val = n
		return TNthRef
	case '0':
		lx.tokadd('$')
		return lx.identifierRun(c, false)
	}
	if !isIdentChar(c) {
		lx.pushback(c)
		return '$'
	}
	lx.tokadd('$')
	return lx.identifierRun(c, false)
}

// identifier scans identifiers, keywords, instance and class variables.
func (lx *Lexer) identifier(c int, cmdState bool) rubin.TokType {
	lx.newtok()
	if c == '@' {
		lx.tokadd('@')
		c = lx.nextc()
		if c == '@' {
			lx.tokadd('@')
			c = lx.nextc()
		}
		if isDigit(c) {
			if len(lx.tok) == 1 {
				lx.errorf("`@%c' is not allowed as an instance variable name", c)
			} else {
				lx.errorf("`@@%c' is not allowed as a class variable name", c)
			}
		}
		if !isIdentChar(c) {
			lx.pushback(c)
			if len(lx.tok) == 2 {
				lx.pushback('@')
			}
			return '@'
		}
	}
	return lx.identifierRun(c, cmdState)
}

func (lx *Lexer) identifierRun(c int, cmdState bool) rubin.TokType {
	for {
		lx.tokadd(c)
		c = lx.nextc()
		if !isIdentChar(c) {
			break
		}
	}
	if (c == '!' || c == '?') && isIdentChar(int(lx.tok[0])) && !lx.peek('=') {
		lx.tokadd(c)
	} else {
		lx.pushback(c)
	}
	lastMode := lx.Mode
	var result rubin.TokType
	switch lx.tok[0] {
	case '$':
		lx.Mode = ModeEnd
		result = TGVar
	case '@':
		lx.Mode = ModeEnd
		result = TIVar
		if len(lx.tok) > 1 && lx.tok[1] == '@' {
			result = TCVar
		}
	default:
		last := lx.tok[len(lx.tok)-1]
		if last == '!' || last == '?' {
			result = TFID
		} else {
			if lx.Mode == ModeFName {
				if lx.peek('=') && !lx.peekAt(1, '~') && !lx.peekAt(1, '>') &&
					(!lx.peekAt(1, '=') || lx.peekAt(2, '>')) {
					lx.skip(1)
					lx.tokadd('=')
					result = TIdentifier
				}
			}
			if result == 0 {
				result = TIdentifier
				if isUpper(int(lx.tok[0])) {
					result = TConstant
				}
			}
		}
		if lx.Mode != ModeDot {
			if kw, ok := keywords[string(lx.tok)]; ok {
				return lx.keyword(kw, cmdState)
			}
		}
		if lx.Mode == ModeBeg || lx.Mode == ModeMid || lx.Mode == ModeDot || lx.Mode.isArg() {
			if cmdState {
				lx.Mode = ModeCmdArg
			} else {
				lx.Mode = ModeArg
			}
		} else {
			lx.Mode = ModeEnd
		}
	}
	id := rubin.Intern(string(lx.tok))
	lx.val = id
	if result == TIdentifier && lastMode != ModeDot && isLocalName(lx.tok) &&
		lx.scope != nil && lx.scope.IsKnown(id) {
		lx.Mode = ModeEnd
	}
	return result
}

func (lx *Lexer) keyword(kw keyword, cmdState bool) rubin.TokType {
	state := lx.Mode
	lx.Mode = kw.mode
	lx.val = rubin.Intern(string(lx.tok))
	if state == ModeFName {
		return kw.stmt
	}
	if lx.Mode == ModeBeg {
		lx.commandStart = true
	}
	if kw.stmt == KDo {
		switch {
		case lx.Cond.Top():
			return KDoCond
		case lx.Cmdarg.Top() && state != ModeCmdArg:
			return KDoBlock
		case state == ModeEndArg:
			return KDoBlock
		}
		return KDo
	}
	if state == ModeBeg {
		return kw.stmt
	}
	if kw.stmt != kw.mod {
		lx.Mode = ModeBeg
	}
	return kw.mod
}

func (lx *Lexer) peekAt(n int, c byte) bool {
	return lx.p+n < len(lx.line) && lx.line[lx.p+n] == c
}

// isLocalName is true for names which may denote local variables.
func isLocalName(name []byte) bool {
	c := name[0]
	return c == '_' || c >= 'a' && c <= 'z' || c >= 0x80
}
