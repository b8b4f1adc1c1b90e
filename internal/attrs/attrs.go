// Package attrs extracts attributes out of raw tag and attribute list
// bodies produced by the lexer.
package attrs

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/pipe01/xmllex/internal/lexer"
)

var (
	ErrUnterminatedValue = errors.New("unterminated attribute value")
	ErrUnquotedValue     = errors.New("attribute values must be quoted")
	ErrMissingType       = errors.New("attribute declaration without a type")
)

type DuplicateError struct {
	Name string
}

func (e *DuplicateError) Error() string {
	return fmt.Sprintf("attribute %q declared more than once", e.Name)
}

type UnexpectedRuneError struct {
	Got      rune
	Expected string
	Offset   int
}

func (e *UnexpectedRuneError) Error() string {
	return fmt.Sprintf("expected %s, found %q at offset %d", e.Expected, e.Got, e.Offset)
}

// Parser implements lexer.AttributeParser.
type Parser struct{}

var _ lexer.AttributeParser = Parser{}

func (Parser) ParseAttributes(kind lexer.TokenKind, body string) (map[string]string, error) {
	switch kind {
	case lexer.TokenStartTag, lexer.TokenEmptyTag:
		return ParseTag(strings.TrimSuffix(body, "/"))

	case lexer.TokenAttributeList:
		return ParseList(body)
	}

	return nil, nil
}

type scanner struct {
	str string
	pos int
}

func (s *scanner) peek() (r rune, eof bool) {
	if s.pos >= len(s.str) {
		return 0, true
	}

	r, _ = utf8.DecodeRuneInString(s.str[s.pos:])
	return r, false
}

func (s *scanner) take() (r rune, eof bool) {
	if s.pos >= len(s.str) {
		return 0, true
	}

	r, size := utf8.DecodeRuneInString(s.str[s.pos:])
	s.pos += size

	return r, false
}

func (s *scanner) takeWhitespace() {
	for {
		r, eof := s.peek()
		if eof || !unicode.IsSpace(r) {
			return
		}
		s.take()
	}
}

func (s *scanner) takeName() string {
	start := s.pos

	for {
		r, eof := s.peek()
		if eof || unicode.IsSpace(r) || r == '=' || r == '"' || r == '\'' {
			break
		}
		s.take()
	}

	return s.str[start:s.pos]
}

func (s *scanner) takeQuoted() (string, error) {
	quote, _ := s.take()
	start := s.pos

	idx := strings.IndexRune(s.str[s.pos:], quote)
	if idx < 0 {
		s.pos = len(s.str)
		return "", ErrUnterminatedValue
	}

	s.pos += idx + 1
	return s.str[start : start+idx], nil
}

// ParseTag parses the attributes of a start tag body, which begins with
// the element name. Attributes without a value map to their own name.
func ParseTag(body string) (map[string]string, error) {
	s := scanner{str: body}
	attrs := map[string]string{}

	s.takeWhitespace()
	s.takeName()

	for {
		s.takeWhitespace()

		r, eof := s.peek()
		if eof {
			break
		}

		name := s.takeName()
		if name == "" {
			return nil, &UnexpectedRuneError{Got: r, Expected: "an attribute name", Offset: s.pos}
		}

		value := name

		s.takeWhitespace()
		if r, eof := s.peek(); !eof && r == '=' {
			s.take()
			s.takeWhitespace()

			r, eof := s.peek()
			if eof || (r != '"' && r != '\'') {
				return nil, fmt.Errorf("attribute %q: %w", name, ErrUnquotedValue)
			}

			v, err := s.takeQuoted()
			if err != nil {
				return nil, fmt.Errorf("attribute %q: %w", name, err)
			}
			value = v
		}

		if _, ok := attrs[name]; ok {
			return nil, &DuplicateError{Name: name}
		}
		attrs[name] = value
	}

	return attrs, nil
}

// ParseList parses an ATTLIST declaration body into attribute name to
// "type default" pairs.
func ParseList(body string) (map[string]string, error) {
	fields, err := splitFields(body)
	if err != nil {
		return nil, err
	}

	attrs := map[string]string{}
	if len(fields) == 0 {
		return attrs, nil
	}

	// Skip element name
	fields = fields[1:]

	for len(fields) > 0 {
		name := fields[0]
		if len(fields) < 2 {
			return nil, fmt.Errorf("attribute %q: %w", name, ErrMissingType)
		}

		decl := []string{fields[1]}
		fields = fields[2:]

		if len(fields) > 0 {
			def := fields[0]
			fields = fields[1:]
			decl = append(decl, def)

			if def == "#FIXED" && len(fields) > 0 {
				decl = append(decl, fields[0])
				fields = fields[1:]
			}
		}

		if _, ok := attrs[name]; ok {
			return nil, &DuplicateError{Name: name}
		}
		attrs[name] = strings.Join(decl, " ")
	}

	return attrs, nil
}

// splitFields splits on whitespace, keeping quoted literals and
// parenthesized groups whole.
func splitFields(body string) ([]string, error) {
	var fields []string

	s := scanner{str: body}

	for {
		s.takeWhitespace()

		r, eof := s.peek()
		if eof {
			return fields, nil
		}

		start := s.pos

		switch r {
		case '"', '\'':
			if _, err := s.takeQuoted(); err != nil {
				return nil, err
			}

		case '(':
			idx := strings.IndexByte(s.str[s.pos:], ')')
			if idx < 0 {
				return nil, &UnexpectedRuneError{Got: r, Expected: "a closing parenthesis", Offset: s.pos}
			}
			s.pos += idx + 1

		default:
			for {
				r, eof := s.peek()
				if eof || unicode.IsSpace(r) {
					break
				}
				s.take()
			}
		}

		fields = append(fields, s.str[start:s.pos])
	}
}
