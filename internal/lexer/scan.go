package lexer

import "strings"

// scanBody reads the body of a token whose opening markup has already
// been consumed by classify. The caller must have marked the input at the
// start of the body. The closing delimiter is consumed but not returned.
//
// On an unterminated construct the body scanned so far is returned along
// with the error.
func scanBody(in input, kind TokenKind) (string, error) {
	switch kind {
	case TokenText:
		in.SkipUntil("<")
		return in.Capture(), nil

	case TokenEntity:
		return scanQuoted(in, kind)

	case TokenCData:
		return scanDelimited(in, kind, "]]>")

	case TokenComment:
		return scanDelimited(in, kind, "-->")

	case TokenProcessingInstruction, TokenProlog:
		return scanDelimited(in, kind, "?>")

	case TokenDocType:
		return scanBalanced(in)
	}

	return scanDelimited(in, kind, ">")
}

func scanDelimited(in input, kind TokenKind, delim string) (string, error) {
	found := in.SkipUntil(delim)
	body := in.Capture()

	if !found {
		return body, &UnterminatedError{Kind: kind, Delimiter: delim}
	}

	in.SkipPrefix(delim)
	return body, nil
}

// scanQuoted scans up to the first '>' that isn't inside a quoted literal.
func scanQuoted(in input, kind TokenKind) (string, error) {
	for {
		r, err := in.Current()
		if err != nil {
			return in.Capture(), &UnterminatedError{Kind: kind, Delimiter: ">"}
		}

		switch r {
		case '>':
			body := in.Capture()
			in.Advance(1)
			return body, nil

		case '\'', '"':
			quote := string(r)

			in.Advance(1)
			if !in.SkipUntil(quote) {
				return in.Capture(), &UnterminatedError{Kind: kind, Delimiter: quote}
			}
			in.Advance(1)

		default:
			in.Advance(1)
		}
	}
}

type balancedState int

const (
	stateNormal balancedState = iota
	stateInComment
	stateInDoubleQuote
	stateInSingleQuote
)

// scanBalanced scans a DOCTYPE declaration, including any internal subset.
// Nested markup declarations must be balanced, and angle brackets inside
// comments or quoted literals don't count.
func scanBalanced(in input) (string, error) {
	depth := 1
	state := stateNormal

	for !in.Empty() {
		switch state {
		case stateNormal:
			if in.SkipPrefix("<!--") {
				state = stateInComment
				continue
			}

			r, _ := in.Current()

			switch r {
			case '<':
				depth++

			case '>':
				depth--

				if depth == 0 {
					body := in.Capture()
					in.Advance(1)
					return body, nil
				}

			case '"':
				state = stateInDoubleQuote

			case '\'':
				state = stateInSingleQuote
			}

			in.Advance(1)

		case stateInComment:
			if in.SkipPrefix("-->") {
				state = stateNormal
				continue
			}

			in.Advance(1)

		case stateInDoubleQuote, stateInSingleQuote:
			r, _ := in.Current()
			in.Advance(1)

			if (r == '"' && state == stateInDoubleQuote) || (r == '\'' && state == stateInSingleQuote) {
				state = stateNormal
			}
		}
	}

	return in.Capture(), &UnterminatedError{Kind: TokenDocType, Delimiter: ">"}
}

// refine reclassifies a token once its body is known.
func refine(kind TokenKind, body string) TokenKind {
	switch kind {
	case TokenStartTag:
		if strings.HasSuffix(body, "/") {
			return TokenEmptyTag
		}

	case TokenProcessingInstruction:
		if strings.HasPrefix(body, "xml ") {
			return TokenProlog
		}
	}

	return kind
}

func isWhitespace(r rune) bool {
	return r == ' ' || r == '\t' || r == '\n' || r == '\r'
}
