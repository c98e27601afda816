package lexer

import "unicode/utf8"

func isOctal(c int) bool {
	return c >= '0' && c <= '7'
}

func hexValue(c int) int {
	switch {
	case c >= '0' && c <= '9':
		return c - '0'
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10
	}
	return -1
}

// scanHex reads up to max hex digits from the current line. It returns the
// value and the number of digits read.
func (lx *Lexer) scanHex(max int) (int, int) {
	v, n := 0, 0
	for n < max && lx.p+n < len(lx.line) {
		d := hexValue(int(lx.line[lx.p+n]))
		if d < 0 {
			break
		}
		v = v<<4 | d
		n++
	}
	return v, n
}

// readEscape decodes a backslash escape, the backslash already consumed.
// The result is a single byte.
func (lx *Lexer) readEscape() int {
	c := lx.nextc()
	switch c {
	case '\\':
		return c
	case 'n':
		return '\n'
	case 't':
		return '\t'
	case 'r':
		return '\r'
	case 'f':
		return '\f'
	case 'v':
		return '\v'
	case 'a':
		return 0x07
	case 'e':
		return 0x1b
	case 'b':
		return 0x08
	case 's':
		return ' '
	case '0', '1', '2', '3', '4', '5', '6', '7':
		v := c - '0'
		for i := 0; i < 2 && lx.p < len(lx.line) && isOctal(int(lx.line[lx.p])); i++ {
			v = v<<3 | int(lx.line[lx.p]-'0')
			lx.p++
		}
		return v & 0xff
	case 'x':
		v, n := lx.scanHex(2)
		if n == 0 {
			lx.errorf("Invalid escape character syntax")
			return 0
		}
		lx.p += n
		return v
	case 'M':
		if c = lx.nextc(); c != '-' {
			lx.errorf("Invalid escape character syntax")
			lx.pushback(c)
			return 0
		}
		if c = lx.nextc(); c == '\\' {
			return lx.readEscape() | 0x80
		} else if c == -1 {
			break
		}
		return c&0xff | 0x80
	case 'C':
		if c = lx.nextc(); c != '-' {
			lx.errorf("Invalid escape character syntax")
			lx.pushback(c)
			return 0
		}
		fallthrough
	case 'c':
		if c = lx.nextc(); c == '\\' {
			c = lx.readEscape()
		} else if c == '?' {
			return 0x7f
		} else if c == -1 {
			break
		}
		return c & 0x9f
	case -1:
	default:
		return c
	}
	lx.errorf("Invalid escape character syntax")
	return 0
}

// unicodeEscape decodes \uXXXX and \u{X…} into UTF-8, "\u" already
// consumed.
func (lx *Lexer) unicodeEscape() {
	var buf [utf8.UTFMax]byte
	add := func(r int) {
		if r > utf8.MaxRune {
			lx.errorf("invalid Unicode codepoint (too large)")
			return
		}
		n := utf8.EncodeRune(buf[:], rune(r))
		lx.tok = append(lx.tok, buf[:n]...)
	}
	if !lx.peek('{') {
		v, n := lx.scanHex(4)
		if n < 4 {
			lx.errorf("invalid Unicode escape")
			lx.p += n
			return
		}
		lx.p += n
		add(v)
		return
	}
	lx.p++
	for {
		for lx.peek(' ') || lx.peek('\t') {
			lx.p++
		}
		if lx.peek('}') {
			lx.p++
			return
		}
		v, n := lx.scanHex(6)
		if n == 0 {
			lx.errorf("invalid Unicode escape")
			for lx.p < len(lx.line) && lx.line[lx.p] != '}' && lx.line[lx.p] != '\n' {
				lx.p++
			}
			if lx.peek('}') {
				lx.p++
			}
			return
		}
		lx.p += n
		add(v)
	}
}

// tokaddEscape copies an escape sequence of a regular expression verbatim,
// the backslash already consumed. An escaped terminator loses its
// backslash.
func (lx *Lexer) tokaddEscape(term int) int {
	c := lx.nextc()
	switch c {
	case '\n':
		return 0
	case '0', '1', '2', '3', '4', '5', '6', '7':
		lx.tokadd('\\')
		lx.tokadd(c)
		for i := 0; i < 2; i++ {
			if c = lx.nextc(); c == -1 {
				lx.errorf("Invalid escape character syntax")
				return -1
			}
			if !isOctal(c) {
				lx.pushback(c)
				break
			}
			lx.tokadd(c)
		}
		return 0
	case 'x':
		lx.tokadd('\\')
		lx.tokadd(c)
		_, n := lx.scanHex(2)
		if n == 0 {
			lx.errorf("Invalid escape character syntax")
			return -1
		}
		lx.tok = append(lx.tok, lx.line[lx.p:lx.p+n]...)
		lx.p += n
		return 0
	case 'M', 'C':
		if c2 := lx.nextc(); c2 != '-' {
			lx.errorf("Invalid escape character syntax")
			lx.pushback(c2)
			return 0
		}
		lx.tokadd('\\')
		lx.tokadd(c)
		lx.tokadd('-')
		return lx.tokaddEscaped(term)
	case 'c':
		lx.tokadd('\\')
		lx.tokadd('c')
		return lx.tokaddEscaped(term)
	case -1:
		lx.errorf("Invalid escape character syntax")
		return -1
	}
	if c != term {
		lx.tokadd('\\')
	}
	lx.tokadd(c)
	return 0
}

// tokaddEscaped copies the character following a meta or control prefix.
func (lx *Lexer) tokaddEscaped(term int) int {
	c := lx.nextc()
	if c == '\\' {
		return lx.tokaddEscape(term)
	} else if c == -1 {
		lx.errorf("Invalid escape character syntax")
		return -1
	}
	lx.tokadd(c)
	return 0
}
