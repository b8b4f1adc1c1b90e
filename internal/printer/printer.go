// Package printer writes lexed tokens out, either as a listing or back as
// indented markup.
package printer

import (
	"fmt"
	"io"
	"strings"

	"github.com/pipe01/xmllex/internal/lexer"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

type Format int

const (
	// FormatTokens writes one line per token with its location, kind and
	// quoted body.
	FormatTokens Format = iota
	// FormatXML writes the markup back, one token per line, indented by
	// element depth.
	FormatXML
)

func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "tokens", "":
		return FormatTokens, nil
	case "xml":
		return FormatXML, nil
	}

	return FormatTokens, fmt.Errorf("unknown output format %q", s)
}

func (f Format) String() string {
	switch f {
	case FormatTokens:
		return "tokens"
	case FormatXML:
		return "xml"
	}

	return "<unknown>"
}

type Options struct {
	Format Format

	// Defaults to a tab
	Indent string
}

func Visit(w io.Writer, tks []lexer.Token, opts Options) error {
	out := &outputWriter{
		w:          w,
		indentWith: opts.Indent,
	}
	if out.indentWith == "" {
		out.indentWith = "\t"
	}

	switch opts.Format {
	case FormatTokens:
		for i := range tks {
			visitToken(out, &tks[i])
		}

	case FormatXML:
		for i := range tks {
			visitMarkup(out, &tks[i])
		}

	default:
		return fmt.Errorf("unknown output format %d", opts.Format)
	}

	return out.Err()
}

func visitToken(w *outputWriter, tk *lexer.Token) {
	var b strings.Builder

	fmt.Fprintf(&b, "%s\t%s\t%q", &tk.Start, tk.Kind, tk.Body)

	if len(tk.Attributes) > 0 {
		names := maps.Keys(tk.Attributes)
		slices.Sort(names)

		for _, name := range names {
			fmt.Fprintf(&b, " %s=%q", name, tk.Attributes[name])
		}
	}

	w.WriteLine(b.String())
}

func visitMarkup(w *outputWriter, tk *lexer.Token) {
	switch tk.Kind {
	case lexer.TokenStartTag:
		w.WriteOpen(tk.Reproduce())

	case lexer.TokenEndTag:
		w.WriteClose(tk.Reproduce())

	case lexer.TokenText:
		text := strings.TrimSpace(tk.Body)
		if text != "" {
			w.WriteLine(text)
		}

	case lexer.TokenUnknown:
		// Nothing sensible to reproduce

	default:
		w.WriteLine(tk.Reproduce())
	}
}
