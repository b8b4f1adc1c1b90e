package lexer

import (
	"fmt"
	"strings"
)

type ErrorHandling int

const (
	// Raise returns every violation as a *LexerError. The lexer must be
	// discarded afterwards.
	Raise ErrorHandling = iota
	// Abort panics with a *LexerError.
	Abort
	// Ignore skips the checks and keeps going with whatever was scanned.
	Ignore
)

func (h ErrorHandling) String() string {
	switch h {
	case Raise:
		return "raise"
	case Abort:
		return "abort"
	case Ignore:
		return "ignore"
	}

	return "<unknown>"
}

func ParseErrorHandling(s string) (ErrorHandling, error) {
	switch strings.ToLower(s) {
	case "raise", "":
		return Raise, nil
	case "abort":
		return Abort, nil
	case "ignore":
		return Ignore, nil
	}

	return Raise, fmt.Errorf("unknown error handling %q", s)
}

// AttributeParser turns a tag or attribute list body into its attributes.
type AttributeParser interface {
	ParseAttributes(kind TokenKind, body string) (map[string]string, error)
}

type Options struct {
	TrackPosition bool
	KeepComments  bool
	ErrorHandling ErrorHandling

	EagerAttributes bool
	Attributes      AttributeParser

	// Capacity of the lookahead buffer used for reader sources, in runes.
	// Zero means DefaultLookahead.
	LookaheadSize int
}

const (
	DefaultLookahead = 64

	// len("NOTATION"), the longest literal tested against the lookahead
	minLookahead = 8
)

func (o *Options) validate() error {
	if o.LookaheadSize != 0 && o.LookaheadSize < minLookahead {
		return ErrLookaheadTooSmall
	}
	if o.EagerAttributes && o.Attributes == nil {
		return ErrNoAttributeParser
	}

	return nil
}

func (o *Options) lookaheadSize() int {
	if o.LookaheadSize == 0 {
		return DefaultLookahead
	}

	return o.LookaheadSize
}
