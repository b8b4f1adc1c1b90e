package errors

import (
	"fmt"
	"testing"

	"github.com/pipe01/xmllex/internal/lexer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSituate(t *testing.T) {
	l, err := lexer.NewString("<a>\n<!-- open", "doc.xml", lexer.Options{
		TrackPosition: true,
		KeepComments:  true,
	})
	require.NoError(t, err)

	_, err = l.Collect()
	require.Error(t, err)

	serr, ok := Situate(fmt.Errorf("load: %w", err))
	require.True(t, ok)
	assert.Equal(t, lexer.Location{File: "doc.xml", Line: 2, Column: 1}, serr.At())
	assert.ErrorIs(t, serr.Unwrap(), lexer.ErrUnterminated)

	_, ok = Situate(fmt.Errorf("plain"))
	assert.False(t, ok)
}

func TestSituateReturnsOutermost(t *testing.T) {
	inner := &lexer.LexerError{Inner: lexer.ErrMalformedToken, Location: lexer.Location{File: "inner.dtd", Line: 3, Column: 2}}
	outer := &lexer.LexerError{Inner: inner, Location: lexer.Location{File: "doc.xml", Line: 1, Column: 1}}

	serr, ok := Situate(fmt.Errorf("load: %w", outer))
	require.True(t, ok)
	assert.Equal(t, "doc.xml", serr.At().File)
}
