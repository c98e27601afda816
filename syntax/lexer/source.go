package lexer

import (
	"bufio"
	"io"
	"strings"
)

// Source supplies source lines to the lexer, either from a string or
// incrementally from a reader. Every line handed out keeps its trailing
// newline, if any. Lines already read are retained for diagnostics.
type Source struct {
	name  string
	first int      // line number of the first line
	lines []string // lines read so far
	start []uint64 // byte offset of each line read so far
	next  int      // index of the next line to hand out
	r     *bufio.Reader
	err   error // first read error other than io.EOF
}

// NewSource creates a source for a string. firstLine is the line number of
// the first line, usually 1.
func NewSource(name, src string, firstLine int) *Source {
	s := &Source{name: name, first: firstLine}
	for len(src) > 0 {
		i := strings.IndexByte(src, '\n')
		if i < 0 {
			s.add(src)
			break
		}
		s.add(src[:i+1])
		src = src[i+1:]
	}
	return s
}

// NewReaderSource creates a source reading lines from r on demand.
func NewReaderSource(name string, r io.Reader, firstLine int) *Source {
	return &Source{name: name, first: firstLine, r: bufio.NewReader(r)}
}

// Name returns the file name of the source.
func (s *Source) Name() string {
	return s.name
}

// FirstLine returns the number of the first line.
func (s *Source) FirstLine() int {
	return s.first
}

// Err returns the first error of the underlying reader, if any.
func (s *Source) Err() error {
	return s.err
}

func (s *Source) add(line string) {
	var off uint64
	if n := len(s.lines); n > 0 {
		off = s.start[n-1] + uint64(len(s.lines[n-1]))
	}
	s.lines = append(s.lines, line)
	s.start = append(s.start, off)
}

// Offset returns the byte offset of the start of line number no.
func (s *Source) Offset(no int) uint64 {
	i := no - s.first
	if i < 0 || i >= len(s.start) {
		return 0
	}
	return s.start[i]
}

func (s *Source) fetch(i int) (string, bool) {
	for i >= len(s.lines) {
		if s.r == nil {
			return "", false
		}
		line, err := s.r.ReadString('\n')
		if len(line) > 0 {
			s.add(line)
		}
		if err != nil {
			if err != io.EOF {
				s.err = err
			}
			s.r = nil
		}
	}
	return s.lines[i], true
}

// NextLine returns the next line and its line number. ok is false at the
// end of input.
func (s *Source) NextLine() (line string, lineno int, ok bool) {
	line, ok = s.fetch(s.next)
	if !ok {
		return "", s.first + s.next, false
	}
	lineno = s.first + s.next
	s.next++
	return line, lineno, true
}

// Peek returns the k-th line after the current position without consuming
// it, k counting from 0.
func (s *Source) Peek(k int) (string, bool) {
	return s.fetch(s.next + k)
}

// Line returns the text of line number no, without its newline. Lines not
// yet read by the lexer are returned as empty strings.
func (s *Source) Line(no int) string {
	i := no - s.first
	if i < 0 || i >= len(s.lines) {
		return ""
	}
	return strings.TrimRight(s.lines[i], "\r\n")
}

// Lines returns all lines read so far, without newlines.
func (s *Source) Lines() []string {
	lines := make([]string, len(s.lines))
	for i := range s.lines {
		lines[i] = strings.TrimRight(s.lines[i], "\r\n")
	}
	return lines
}

// Rest returns the unread remainder of the source, e.g. the data following
// an __END__ line.
func (s *Source) Rest() string {
	var b strings.Builder
	for i := s.next; ; i++ {
		line, ok := s.fetch(i)
		if !ok {
			break
		}
		b.WriteString(line)
	}
	return b.String()
}

// ReadOffset returns the byte offset following the last line handed out.
func (s *Source) ReadOffset() uint64 {
	if s.next == 0 {
		return 0
	}
	return s.start[s.next-1] + uint64(len(s.lines[s.next-1]))
}
