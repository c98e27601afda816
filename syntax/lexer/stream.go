package lexer

// Tokens reads all tokens of a source without a parser, up to and
// including EOF. Scanning interpolated strings requires the cooperation of
// the parser, which Tokens performs by itself: it suspends the string term
// while an interpolated expression is scanned and resumes it afterwards.
func Tokens(lx *Lexer) []*Token {
	var toks []*Token
	var saved []*StrTerm // string terms suspended by #{
	var depth []int      // brace depth at each #{
	var dvar *StrTerm    // string term suspended by #$ or #@
	braces := 0
	for {
		tok := lx.NextToken().(*Token)
		toks = append(toks, tok)
		if dvar != nil {
			lx.SetStrTerm(dvar)
			dvar = nil
		}
		switch tok.Type {
		case EOF:
			return toks
		case TStringDBeg:
			saved = append(saved, lx.StrTerm())
			depth = append(depth, braces)
			lx.SetStrTerm(nil)
			lx.Mode = ModeBeg
			lx.Cond.Push(false)
			lx.Cmdarg.Push(false)
			braces++
		case TStringDVar:
			dvar = lx.StrTerm()
			lx.SetStrTerm(nil)
			lx.Mode = ModeBeg
		case '{', TLBrace, TLBraceArg:
			braces++
		case '}':
			braces--
			if n := len(saved); n > 0 && depth[n-1] == braces {
				lx.SetStrTerm(saved[n-1])
				saved, depth = saved[:n-1], depth[:n-1]
			}
		}
	}
}
