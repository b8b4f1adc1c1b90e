package lexer

import (
	"bufio"
	"fmt"
	"io"
)

// Lexer turns XML markup into a flat stream of tokens. The token at the
// front of the stream is built lazily and cached until PopFront is called.
type Lexer struct {
	in      input
	tracker positionTracker
	opts    Options

	current Token
	built   bool

	// Whitespace skipped after the last token is kept as the start of
	// the next one if it turns out to be text.
	pendingText bool
	textStart   Location

	err error
}

// New returns a lexer over an in-memory document.
func New(file []byte, fileName string, opts Options) (*Lexer, error) {
	return NewString(string(file), fileName, opts)
}

// NewString returns a lexer over src. Token bodies are substrings of src.
func NewString(src string, fileName string, opts Options) (*Lexer, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}

	tracker := newTracker(fileName, opts.TrackPosition)

	return newLexer(newSliceInput(src, tracker), tracker, opts), nil
}

// NewReader returns a lexer that pulls characters from r as needed,
// looking at most Options.LookaheadSize characters ahead.
func NewReader(r io.Reader, fileName string, opts Options) (*Lexer, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}

	rr, ok := r.(io.RuneReader)
	if !ok {
		rr = bufio.NewReader(r)
	}

	buf, err := newLookahead(rr, opts.lookaheadSize())
	if err != nil {
		return nil, err
	}

	tracker := newTracker(fileName, opts.TrackPosition)

	return newLexer(newBufferedInput(buf, tracker), tracker, opts), nil
}

func newLexer(in input, tracker positionTracker, opts Options) *Lexer {
	l := &Lexer{
		in:      in,
		tracker: tracker,
		opts:    opts,
	}

	l.skipInsignificant()
	return l
}

// Empty reports whether there are no more tokens. It must be checked
// before calling Front.
func (l *Lexer) Empty() bool {
	if l.built || l.err != nil {
		return false
	}

	return l.in.Empty() && l.in.Err() == nil
}

// Front returns the current token, building it if needed. Calling it
// again without PopFront returns the same token.
func (l *Lexer) Front() (*Token, error) {
	if l.built {
		return &l.current, nil
	}
	if l.err != nil {
		return nil, l.err
	}

	if l.in.Empty() {
		if err := l.in.Err(); err != nil {
			return nil, l.fail(fmt.Errorf("read input: %w", err), l.tracker.location())
		}
		return nil, l.fail(ErrEndOfInput, l.tracker.location())
	}

	tk, err := l.build()
	if err != nil {
		l.err = err
		return nil, err
	}

	l.current = tk
	l.built = true

	return &l.current, nil
}

// PopFront discards the current token.
func (l *Lexer) PopFront() {
	if !l.built {
		if _, err := l.Front(); err != nil {
			return
		}
	}

	l.current = Token{}
	l.built = false
}

// Next returns the current token and advances past it. It returns nil and
// no error once the input is exhausted.
func (l *Lexer) Next() (*Token, error) {
	if l.Empty() {
		return nil, nil
	}

	tk, err := l.Front()
	if err != nil {
		return nil, err
	}

	t := *tk
	l.PopFront()

	return &t, nil
}

func (l *Lexer) Collect() ([]Token, error) {
	tks := []Token{}

	for {
		tk, err := l.Next()
		if err != nil {
			return nil, err
		}
		if tk == nil {
			break
		}

		tks = append(tks, *tk)
	}

	return tks, nil
}

func (l *Lexer) build() (Token, error) {
	start := l.tracker.location()
	if l.pendingText {
		start = l.textStart
	}

	first, _ := l.in.Current()

	kind := classify(l.in)
	if kind == TokenUnknown && l.opts.ErrorHandling != Ignore {
		return Token{}, l.fail(l.malformed(first), start)
	}

	// Text was already marked while skipping whitespace
	if kind != TokenText {
		l.in.Mark()
	}
	l.pendingText = false

	body, err := scanBody(l.in, kind)
	if err != nil && l.opts.ErrorHandling != Ignore {
		return Token{}, l.fail(err, start)
	}
	if err := l.in.Err(); err != nil {
		return Token{}, l.fail(fmt.Errorf("read input: %w", err), start)
	}

	tk := Token{
		Kind:  refine(kind, body),
		Start: start,
		Body:  body,
	}

	if l.opts.EagerAttributes && tk.Kind.IsTag() {
		attrs, err := l.opts.Attributes.ParseAttributes(tk.Kind, tk.Body)
		if err != nil && l.opts.ErrorHandling != Ignore {
			return Token{}, l.fail(fmt.Errorf("%w: %w", ErrMalformedToken, err), start)
		}

		tk.Attributes = attrs
	}

	l.skipInsignificant()

	return tk, nil
}

func (l *Lexer) malformed(first rune) error {
	if first == '>' {
		return &UnexpectedRuneError{Got: first, Expected: "'<' or text"}
	}

	r, err := l.in.Current()
	if err != nil {
		if rerr := l.in.Err(); rerr != nil {
			return fmt.Errorf("read input: %w", rerr)
		}

		return &UnexpectedRuneError{Expected: "a declaration keyword", AtEnd: true}
	}

	return &UnexpectedRuneError{Got: r, Expected: "a declaration keyword"}
}

// skipInsignificant skips whitespace and, unless comments are kept,
// comments. Whitespace followed by text is left marked so it becomes
// part of the text token.
func (l *Lexer) skipInsignificant() {
	for {
		l.textStart = l.tracker.location()
		l.in.Mark()

		for {
			r, err := l.in.Current()
			if err != nil || !isWhitespace(r) {
				break
			}
			l.in.Advance(1)
		}

		if l.opts.KeepComments || !l.in.HasPrefix("<!--") {
			break
		}

		l.in.Capture()

		start := l.tracker.location()
		l.in.Advance(len("<!--"))

		if !l.in.SkipUntil("-->") && l.opts.ErrorHandling != Ignore {
			l.err = l.fail(&UnterminatedError{Kind: TokenComment, Delimiter: "-->"}, start)
			return
		}
		l.in.SkipPrefix("-->")
	}

	r, err := l.in.Current()
	l.pendingText = err == nil && r != '<' && r != '>'

	if !l.pendingText {
		l.in.Capture()
	}
}

func (l *Lexer) fail(inner error, at Location) error {
	err := &LexerError{
		Inner:    inner,
		Location: at,
	}

	if l.opts.ErrorHandling == Abort {
		panic(err)
	}

	return err
}
