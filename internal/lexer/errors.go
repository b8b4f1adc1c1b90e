package lexer

import (
	"errors"
	"fmt"
)

var (
	ErrEndOfInput        = errors.New("unexpected end of input")
	ErrMalformedToken    = errors.New("malformed token")
	ErrUnterminated      = errors.New("unterminated construct")
	ErrLookaheadTooSmall = fmt.Errorf("lookahead buffer must hold at least %d characters", minLookahead)
	ErrNoAttributeParser = errors.New("eager attribute parsing needs an attribute parser")
)

type LexerError struct {
	Inner    error
	Location Location
}

func (e *LexerError) Unwrap() error {
	return e.Inner
}

func (e *LexerError) Error() string {
	return fmt.Sprintf("%s at %s", e.Inner, &e.Location)
}

func (e *LexerError) At() Location {
	return e.Location
}

type UnexpectedRuneError struct {
	Got      rune
	Expected string

	// Set when the input ended where Got would have been.
	AtEnd bool
}

func (e *UnexpectedRuneError) Error() string {
	if e.AtEnd {
		return fmt.Sprintf("%s: expected %s, found end of input", ErrMalformedToken, e.Expected)
	}

	return fmt.Sprintf("%s: expected %s, found %q", ErrMalformedToken, e.Expected, e.Got)
}

func (e *UnexpectedRuneError) Unwrap() error {
	return ErrMalformedToken
}

type UnterminatedError struct {
	Kind      TokenKind
	Delimiter string
}

func (e *UnterminatedError) Error() string {
	if e.Delimiter == "" {
		return fmt.Sprintf("%s: %s never closed", ErrUnterminated, e.Kind)
	}

	return fmt.Sprintf("%s: %s never closed, expected %q", ErrUnterminated, e.Kind, e.Delimiter)
}

func (e *UnterminatedError) Unwrap() error {
	return ErrUnterminated
}
