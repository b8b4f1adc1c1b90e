package lexer

import "fmt"

type TokenKind int

const (
	TokenUnknown TokenKind = iota
	TokenStartTag
	TokenEndTag
	TokenEmptyTag
	TokenEntity
	TokenCData
	TokenText
	TokenAttributeList
	TokenProcessingInstruction
	TokenDocType
	TokenElement
	TokenComment
	TokenNotation
	TokenProlog
)

func (k TokenKind) String() string {
	switch k {
	case TokenUnknown:
		return "Unknown"
	case TokenStartTag:
		return "Start tag"
	case TokenEndTag:
		return "End tag"
	case TokenEmptyTag:
		return "Empty tag"
	case TokenEntity:
		return "Entity"
	case TokenCData:
		return "CDATA"
	case TokenText:
		return "Text"
	case TokenAttributeList:
		return "Attribute list"
	case TokenProcessingInstruction:
		return "Processing instruction"
	case TokenDocType:
		return "Doctype"
	case TokenElement:
		return "Element"
	case TokenComment:
		return "Comment"
	case TokenNotation:
		return "Notation"
	case TokenProlog:
		return "Prolog"
	}

	return "<unknown>"
}

// Prefix returns the markup that opens a token of this kind. It is only
// meant for display, the classifier never matches against it.
func (k TokenKind) Prefix() string {
	switch k {
	case TokenStartTag, TokenEndTag, TokenEmptyTag:
		return "<"
	case TokenEntity:
		return "<!ENTITY"
	case TokenCData:
		return "<![CDATA["
	case TokenAttributeList:
		return "<!ATTLIST"
	case TokenProcessingInstruction, TokenProlog:
		return "<?"
	case TokenDocType:
		return "<!DOCTYPE"
	case TokenElement:
		return "<!ELEMENT"
	case TokenComment:
		return "<!--"
	case TokenNotation:
		return "<!NOTATION"
	}

	return ""
}

// Suffix returns the markup that closes a token of this kind.
func (k TokenKind) Suffix() string {
	switch k {
	case TokenText:
		return ""
	case TokenCData:
		return "]]>"
	case TokenComment:
		return "-->"
	case TokenProcessingInstruction, TokenProlog:
		return "?>"
	}

	return ">"
}

// IsTag reports whether tokens of this kind carry attributes.
func (k TokenKind) IsTag() bool {
	return k == TokenStartTag || k == TokenEmptyTag || k == TokenAttributeList
}

type Token struct {
	Kind  TokenKind
	Start Location
	Body  string

	// Only populated when Options.EagerAttributes is set.
	Attributes map[string]string
}

// Reproduce returns the token as it would appear in markup.
func (t *Token) Reproduce() string {
	return t.Kind.Prefix() + t.Body + t.Kind.Suffix()
}

func (t *Token) String() string {
	if t.Start.IsValid() {
		return fmt.Sprintf("%s %s %q", &t.Start, t.Kind, t.Body)
	}

	return fmt.Sprintf("%s %q", t.Kind, t.Body)
}

type Location struct {
	File string

	// 1-based, zero when position tracking is disabled
	Line, Column int
}

func (l *Location) IsValid() bool {
	return l.Line > 0
}

func (l *Location) String() string {
	if !l.IsValid() {
		return l.File
	}

	return fmt.Sprintf("%s:%d:%d", l.File, l.Line, l.Column)
}
