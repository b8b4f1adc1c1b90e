package lexer

// declarationKeywords are tested in order after "<!".
var declarationKeywords = []struct {
	keyword string
	kind    TokenKind
}{
	{"ELEMENT", TokenElement},
	{"DOCTYPE", TokenDocType},
	{"[CDATA[", TokenCData},
	{"--", TokenComment},
	{"ATTLIST", TokenAttributeList},
	{"NOTATION", TokenNotation},
	{"ENTITY", TokenEntity},
}

// classify decides the kind of the token at the start of in, consuming
// its opening markup. The input must not be empty.
func classify(in input) TokenKind {
	r, err := in.Current()
	if err != nil {
		return TokenUnknown
	}

	if r != '<' {
		if r == '>' {
			return TokenUnknown
		}
		return TokenText
	}

	in.Advance(1)

	switch {
	case in.SkipPrefix("!"):
		for _, kw := range declarationKeywords {
			if in.SkipPrefix(kw.keyword) {
				return kw.kind
			}
		}
		return TokenUnknown

	case in.SkipPrefix("?"):
		return TokenProcessingInstruction

	// The slash stays in the body so the end tag can be reproduced
	case in.HasPrefix("/"):
		return TokenEndTag
	}

	return TokenStartTag
}
