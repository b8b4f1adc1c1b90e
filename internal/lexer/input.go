package lexer

import (
	"strings"
	"unicode/utf8"
)

// input is the character source the scanners read from. Every consumed
// rune is reported to the position tracker.
type input interface {
	Empty() bool
	Current() (rune, error)

	// Advance consumes up to n runes.
	Advance(n int)

	HasPrefix(lit string) bool
	// SkipPrefix consumes lit if the input starts with it.
	SkipPrefix(lit string) bool
	// SkipUntil consumes everything up to, but not including, the first
	// occurrence of delim. If delim is never found the input is drained
	// and false is returned.
	SkipUntil(delim string) bool

	// Mark starts recording consumed text, Capture stops and returns it.
	Mark()
	Capture() string

	Err() error
}

// sliceInput reads from a string that is fully available, captures are
// substrings of it.
type sliceInput struct {
	src     string
	pos     int
	mark    int
	tracker positionTracker
}

func newSliceInput(src string, tracker positionTracker) *sliceInput {
	return &sliceInput{
		src:     src,
		tracker: tracker,
	}
}

func (in *sliceInput) Empty() bool {
	return in.pos >= len(in.src)
}

func (in *sliceInput) Current() (rune, error) {
	if in.Empty() {
		return 0, ErrEndOfInput
	}

	if c := in.src[in.pos]; c < utf8.RuneSelf {
		return rune(c), nil
	}

	r, _ := utf8.DecodeRuneInString(in.src[in.pos:])
	return r, nil
}

func (in *sliceInput) Advance(n int) {
	for i := 0; i < n && in.pos < len(in.src); i++ {
		r, size := utf8.DecodeRuneInString(in.src[in.pos:])
		in.tracker.advance(r)
		in.pos += size
	}
}

func (in *sliceInput) HasPrefix(lit string) bool {
	return strings.HasPrefix(in.src[in.pos:], lit)
}

func (in *sliceInput) SkipPrefix(lit string) bool {
	if !in.HasPrefix(lit) {
		return false
	}

	in.tracker.advanceString(lit)
	in.pos += len(lit)
	return true
}

func (in *sliceInput) SkipUntil(delim string) bool {
	rest := in.src[in.pos:]

	var idx int
	if len(delim) == 1 {
		idx = strings.IndexByte(rest, delim[0])
	} else {
		idx = strings.Index(rest, delim)
	}

	if idx < 0 {
		in.tracker.advanceString(rest)
		in.pos = len(in.src)
		return false
	}

	in.tracker.advanceString(rest[:idx])
	in.pos += idx
	return true
}

func (in *sliceInput) Mark() {
	in.mark = in.pos
}

func (in *sliceInput) Capture() string {
	return in.src[in.mark:in.pos]
}

func (in *sliceInput) Err() error {
	return nil
}

// bufferedInput reads from a forward-only source through a lookahead
// buffer. Captures are copied out as they are consumed since the source
// doesn't keep them around.
type bufferedInput struct {
	buf     *lookahead
	tracker positionTracker

	capturing bool
	captured  strings.Builder
}

func newBufferedInput(buf *lookahead, tracker positionTracker) *bufferedInput {
	return &bufferedInput{
		buf:     buf,
		tracker: tracker,
	}
}

func (in *bufferedInput) Empty() bool {
	return in.buf.Empty()
}

func (in *bufferedInput) Current() (rune, error) {
	return in.buf.Peek()
}

func (in *bufferedInput) consume() bool {
	r, ok := in.buf.Advance()
	if !ok {
		return false
	}

	in.tracker.advance(r)
	if in.capturing {
		in.captured.WriteRune(r)
	}

	return true
}

func (in *bufferedInput) Advance(n int) {
	for i := 0; i < n; i++ {
		if !in.consume() {
			return
		}
	}
}

func (in *bufferedInput) HasPrefix(lit string) bool {
	return in.buf.HasPrefix(lit)
}

func (in *bufferedInput) SkipPrefix(lit string) bool {
	if !in.buf.HasPrefix(lit) {
		return false
	}

	in.Advance(len(lit))
	return true
}

func (in *bufferedInput) SkipUntil(delim string) bool {
	for {
		if len(delim) == 1 {
			r, err := in.buf.Peek()
			if err != nil {
				return false
			}
			if r == rune(delim[0]) {
				return true
			}
		} else if in.buf.HasPrefix(delim) {
			return true
		}

		if !in.consume() {
			return false
		}
	}
}

func (in *bufferedInput) Mark() {
	in.captured.Reset()
	in.capturing = true
}

func (in *bufferedInput) Capture() string {
	in.capturing = false

	str := in.captured.String()
	in.captured.Reset()

	return str
}

func (in *bufferedInput) Err() error {
	return in.buf.Err()
}
