package lexer

// Mode is the state of the lexer which disambiguates context-sensitive
// tokens. It is set by the lexer after most tokens and by the parser after
// some reductions.
type Mode int8

// Lexer modes.
const (
	ModeBeg    Mode = iota // beginning of an expression: operators are prefix, '/' starts a regexp
	ModeEnd                // after an operand: operators are binary
	ModeArg                // after a method name, an argument may follow
	ModeCmdArg             // after the method name of a command call
	ModeEndArg             // after a parenthesized first argument
	ModeMid                // after return, break, next, rescue
	ModeFName              // method name expected (def, alias, undef, symbols)
	ModeDot                // after '.' or '::', method name expected
	ModeClass              // after 'class', '<<' opens a singleton class
)

var modeNames = [...]string{"BEG", "END", "ARG", "CMDARG", "ENDARG", "MID", "FNAME", "DOT", "CLASS"}

func (m Mode) String() string {
	if m >= 0 && int(m) < len(modeNames) {
		return modeNames[m]
	}
	return "?"
}

// isBeg is true for the modes in which an expression starts.
func (m Mode) isBeg() bool {
	return m == ModeBeg || m == ModeMid || m == ModeClass
}

// isArg is true for the argument positions of method calls.
func (m Mode) isArg() bool {
	return m == ModeArg || m == ModeCmdArg
}

// BitStack is a stack of booleans, kept in the bits of an integer. The lexer
// uses two of them to decide whether 'do' belongs to a loop condition or to
// a command argument.
type BitStack uint64

// Push pushes a flag.
func (s *BitStack) Push(b bool) {
	*s <<= 1
	if b {
		*s |= 1
	}
}

// Pop drops the top flag.
func (s *BitStack) Pop() {
	*s >>= 1
}

// LexPop drops the top flag, merging it into the flag below.
func (s *BitStack) LexPop() {
	*s = (*s >> 1) | (*s & 1)
}

// Top returns the top flag.
func (s BitStack) Top() bool {
	return s&1 != 0
}
