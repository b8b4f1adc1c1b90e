package lexer

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newInputs(t *testing.T, src string) map[string]input {
	buf, err := newLookahead(strings.NewReader(src), minLookahead)
	require.NoError(t, err)

	return map[string]input{
		"slice":    newSliceInput(src, noTracker{}),
		"buffered": newBufferedInput(buf, noTracker{}),
	}
}

func TestLookahead(t *testing.T) {
	buf, err := newLookahead(strings.NewReader("abcdefghijk"), minLookahead)
	require.NoError(t, err)

	assert.False(t, buf.Empty())
	assert.Equal(t, []rune("abcdefgh"), buf.Snapshot(8))
	assert.True(t, buf.HasPrefix("abc"))
	assert.False(t, buf.HasPrefix("abd"))

	for _, want := range "abcdefghijk" {
		r, err := buf.Peek()
		require.NoError(t, err)
		assert.Equal(t, want, r)

		got, ok := buf.Advance()
		require.True(t, ok)
		assert.Equal(t, want, got)
	}

	assert.True(t, buf.Empty())

	_, err = buf.Peek()
	assert.ErrorIs(t, err, ErrEndOfInput)

	_, ok := buf.Advance()
	assert.False(t, ok)

	assert.Empty(t, buf.Snapshot(4))
}

func TestLookaheadWrapsAround(t *testing.T) {
	buf, err := newLookahead(strings.NewReader("0123456789abcdef"), minLookahead)
	require.NoError(t, err)

	buf.Advance()
	buf.Advance()
	buf.Advance()

	assert.Equal(t, []rune("3456789a"), buf.Snapshot(8))
	assert.True(t, buf.HasPrefix("3456789a"))
	assert.False(t, buf.HasPrefix("3456789b"))
}

func TestLookaheadShortSource(t *testing.T) {
	buf, err := newLookahead(strings.NewReader("ab"), minLookahead)
	require.NoError(t, err)

	assert.Equal(t, []rune("ab"), buf.Snapshot(8))
	assert.False(t, buf.HasPrefix("abc"))
}

func TestLookaheadCapacity(t *testing.T) {
	_, err := newLookahead(strings.NewReader(""), minLookahead-1)
	assert.ErrorIs(t, err, ErrLookaheadTooSmall)

	buf, err := newLookahead(strings.NewReader("0123456789"), minLookahead)
	require.NoError(t, err)

	assert.Panics(t, func() {
		buf.Snapshot(minLookahead + 1)
	})
}

func TestSkipUntil(t *testing.T) {
	cases := []struct {
		src   string
		delim string
	}{
		{"abc<def", "<"},
		{"<", "<"},
		{"some cdata]]>rest", "]]>"},
		{"a ]] b ]> c ]]> d", "]]>"},
		{"comment - -- -->", "-->"},
		{"pi ? > ?>", "?>"},
		{"ünïcödé>", ">"},
	}

	for _, c := range cases {
		idx := strings.Index(c.src, c.delim)
		require.GreaterOrEqual(t, idx, 0)

		for name, in := range newInputs(t, c.src) {
			in.Mark()

			assert.True(t, in.SkipUntil(c.delim), "%s %q", name, c.src)
			assert.Equal(t, c.src[:idx], in.Capture(), "%s %q", name, c.src)
			assert.True(t, in.HasPrefix(c.delim), "%s %q", name, c.src)

			assert.True(t, in.SkipPrefix(c.delim))
			if idx+len(c.delim) == len(c.src) {
				assert.True(t, in.Empty())
			}
		}
	}
}

func TestSkipUntilMissing(t *testing.T) {
	for name, in := range newInputs(t, "no delimiter here") {
		in.Mark()

		assert.False(t, in.SkipUntil("]]>"), name)
		assert.Equal(t, "no delimiter here", in.Capture(), name)
		assert.True(t, in.Empty(), name)
	}
}

func TestAdvanceAndCurrent(t *testing.T) {
	for name, in := range newInputs(t, "añb") {
		r, err := in.Current()
		require.NoError(t, err)
		assert.Equal(t, 'a', r, name)

		in.Advance(1)
		r, err = in.Current()
		require.NoError(t, err)
		assert.Equal(t, 'ñ', r, name)

		in.Advance(5)
		assert.True(t, in.Empty(), name)

		_, err = in.Current()
		assert.ErrorIs(t, err, ErrEndOfInput, name)
	}
}

func TestCaptureOnlyRecordsAfterMark(t *testing.T) {
	for name, in := range newInputs(t, "skipped kept") {
		in.Advance(len("skipped "))

		in.Mark()
		in.Advance(4)

		assert.Equal(t, "kept", in.Capture(), name)
	}
}

func TestTrackerFollowsInput(t *testing.T) {
	const src = "ab\ncd\n\nef<"

	buf, err := newLookahead(strings.NewReader(src), minLookahead)
	require.NoError(t, err)

	sliceTracker := newTracker("f", true)
	bufTracker := newTracker("f", true)

	inputs := []input{
		newSliceInput(src, sliceTracker),
		newBufferedInput(buf, bufTracker),
	}

	for _, in := range inputs {
		in.SkipUntil("<")
	}

	want := Location{File: "f", Line: 4, Column: 3}
	assert.Equal(t, want, sliceTracker.location())
	assert.Equal(t, want, bufTracker.location())
}
