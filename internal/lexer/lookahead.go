package lexer

import (
	"errors"
	"fmt"
	"io"
)

// lookahead is a fixed capacity ring of runes pulled lazily from a
// forward-only source.
type lookahead struct {
	src io.RuneReader

	buf         []rune
	head, count int

	eof bool
	err error

	scratch []rune
}

func newLookahead(src io.RuneReader, size int) (*lookahead, error) {
	if size < minLookahead {
		return nil, ErrLookaheadTooSmall
	}

	return &lookahead{
		src:     src,
		buf:     make([]rune, size),
		scratch: make([]rune, 0, size),
	}, nil
}

// fill pulls from the source until at least n runes are buffered or the
// source runs out.
func (b *lookahead) fill(n int) {
	if n > len(b.buf) {
		panic(fmt.Sprintf("lookahead of %d runes exceeds buffer capacity %d", n, len(b.buf)))
	}

	for b.count < n && !b.eof {
		r, _, err := b.src.ReadRune()
		if err != nil {
			b.eof = true
			if !errors.Is(err, io.EOF) {
				b.err = err
			}
			return
		}

		b.buf[(b.head+b.count)%len(b.buf)] = r
		b.count++
	}
}

func (b *lookahead) Empty() bool {
	b.fill(1)
	return b.count == 0
}

func (b *lookahead) Peek() (rune, error) {
	b.fill(1)
	if b.count == 0 {
		return 0, ErrEndOfInput
	}

	return b.buf[b.head], nil
}

// Advance drops the oldest buffered rune and returns it.
func (b *lookahead) Advance() (rune, bool) {
	b.fill(1)
	if b.count == 0 {
		return 0, false
	}

	r := b.buf[b.head]
	b.head = (b.head + 1) % len(b.buf)
	b.count--

	return r, true
}

// Snapshot returns up to n runes without consuming them. The returned
// slice is only valid until the next call.
func (b *lookahead) Snapshot(n int) []rune {
	b.fill(n)
	if n > b.count {
		n = b.count
	}

	b.scratch = b.scratch[:0]
	for i := 0; i < n; i++ {
		b.scratch = append(b.scratch, b.buf[(b.head+i)%len(b.buf)])
	}

	return b.scratch
}

func (b *lookahead) HasPrefix(lit string) bool {
	// literals are ASCII, so byte length equals rune length
	snap := b.Snapshot(len(lit))
	if len(snap) < len(lit) {
		return false
	}

	for i, r := range snap {
		if r != rune(lit[i]) {
			return false
		}
	}

	return true
}

func (b *lookahead) Err() error {
	return b.err
}
