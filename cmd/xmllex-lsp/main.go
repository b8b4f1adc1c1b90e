package main

import (
	"fmt"
	"net/url"
	"path/filepath"
	"strings"
	"sync"

	"github.com/pipe01/xmllex/errors"
	"github.com/pipe01/xmllex/internal/attrs"
	"github.com/pipe01/xmllex/internal/lexer"
	"github.com/pipe01/xmllex/internal/workspace"
	"github.com/tliron/commonlog"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
	"github.com/tliron/glsp/server"

	_ "github.com/tliron/commonlog/simple"
)

const lsName = "xmllex"

var version string = "0.0.1"
var handler protocol.Handler

var log = commonlog.GetLogger("xmllex.lsp")

var (
	documentsMu sync.Mutex
	documents   = map[string]string{}
)

// Indexes into tokenTypes.
const (
	typeKeyword protocol.UInteger = iota
	typeMacro
	typeComment
	typeString
)

var tokenTypes = []string{
	string(protocol.SemanticTokenTypeKeyword),
	string(protocol.SemanticTokenTypeMacro),
	string(protocol.SemanticTokenTypeComment),
	string(protocol.SemanticTokenTypeString),
}

func main() {
	commonlog.Configure(1, nil)

	protocol.SetTraceValue(protocol.TraceValueMessage)

	handler = protocol.Handler{
		Initialize:  initialize,
		Initialized: initialized,
		Shutdown:    shutdown,
		SetTrace:    setTrace,
		TextDocumentDidOpen: func(context *glsp.Context, params *protocol.DidOpenTextDocumentParams) error {
			setDocument(params.TextDocument.URI, params.TextDocument.Text)

			return handleDocument(context, params.TextDocument.URI)
		},
		TextDocumentDidChange: func(context *glsp.Context, params *protocol.DidChangeTextDocumentParams) error {
			content, ok := getDocument(params.TextDocument.URI)
			if !ok {
				return nil
			}

			for _, change := range params.ContentChanges {
				switch change := change.(type) {
				case protocol.TextDocumentContentChangeEventWhole:
					content = change.Text

				case protocol.TextDocumentContentChangeEvent:
					startIndex, endIndex := change.Range.IndexesIn(content)
					content = content[:startIndex] + change.Text + content[endIndex:]
				}
			}
			setDocument(params.TextDocument.URI, content)

			return handleDocument(context, params.TextDocument.URI)
		},
		TextDocumentDidClose: func(context *glsp.Context, params *protocol.DidCloseTextDocumentParams) error {
			documentsMu.Lock()
			delete(documents, params.TextDocument.URI)
			documentsMu.Unlock()

			return nil
		},
		TextDocumentSemanticTokensFull: semanticTokensFull,
	}

	server := server.NewServer(&handler, lsName, false)

	server.RunStdio()
}

func getDocument(uri string) (string, bool) {
	documentsMu.Lock()
	defer documentsMu.Unlock()

	content, ok := documents[uri]
	return content, ok
}

func setDocument(uri, content string) {
	documentsMu.Lock()
	defer documentsMu.Unlock()

	documents[uri] = content
}

func lexerOptions() lexer.Options {
	return lexer.Options{
		TrackPosition:   true,
		KeepComments:    true,
		EagerAttributes: true,
		Attributes:      attrs.Parser{},
	}
}

func handleDocument(context *glsp.Context, docURI string) error {
	url, err := url.Parse(docURI)
	if err != nil {
		return fmt.Errorf("parse document uri: %w", err)
	}
	if url.Scheme != "file" {
		return fmt.Errorf("invalid document uri scheme %q", url.Scheme)
	}

	contents, ok := getDocument(docURI)
	if !ok {
		return nil
	}

	fileName := filepath.Base(url.Path)

	ws := workspace.New(filepath.Dir(url.Path), workspace.Options{Lexer: lexerOptions()})

	diag := []protocol.Diagnostic{}

	_, err = ws.LoadWithContents(fileName, []byte(contents))
	if err != nil {
		log.Debugf("%s: %s", fileName, err)

		if serr, ok := errors.Situate(err); ok {
			at := newLineIndex(contents).position(serr.At())

			diag = append(diag, protocol.Diagnostic{
				Range: protocol.Range{
					Start: at,
					End:   at,
				},
				Severity: ptr(protocol.DiagnosticSeverityError),
				Source:   ptr(lsName),
				Message:  serr.Unwrap().Error(),
			})
		} else {
			diag = append(diag, protocol.Diagnostic{
				Severity: ptr(protocol.DiagnosticSeverityError),
				Source:   ptr(lsName),
				Message:  err.Error(),
			})
		}
	}

	context.Notify(protocol.ServerTextDocumentPublishDiagnostics, &protocol.PublishDiagnosticsParams{
		URI:         docURI,
		Diagnostics: diag,
	})

	return nil
}

func initialize(context *glsp.Context, params *protocol.InitializeParams) (any, error) {
	capabilities := handler.CreateServerCapabilities()
	capabilities.SemanticTokensProvider = &protocol.SemanticTokensOptions{
		Legend: protocol.SemanticTokensLegend{
			TokenTypes:     tokenTypes,
			TokenModifiers: []string{},
		},
		Full: true,
	}

	return protocol.InitializeResult{
		Capabilities: capabilities,
		ServerInfo: &protocol.InitializeResultServerInfo{
			Name:    lsName,
			Version: &version,
		},
	}, nil
}

func initialized(context *glsp.Context, params *protocol.InitializedParams) error {
	return nil
}

func shutdown(context *glsp.Context) error {
	protocol.SetTraceValue(protocol.TraceValueOff)
	return nil
}

func setTrace(context *glsp.Context, params *protocol.SetTraceParams) error {
	protocol.SetTraceValue(params.Value)
	return nil
}

func semanticTokensFull(context *glsp.Context, params *protocol.SemanticTokensParams) (*protocol.SemanticTokens, error) {
	content, ok := getDocument(params.TextDocument.URI)
	if !ok {
		return nil, fmt.Errorf("document %q not found", params.TextDocument.URI)
	}

	opts := lexerOptions()
	opts.EagerAttributes = false
	opts.Attributes = nil
	opts.ErrorHandling = lexer.Ignore

	l, err := lexer.NewString(content, filepath.Base(params.TextDocument.URI), opts)
	if err != nil {
		return nil, fmt.Errorf("create lexer: %w", err)
	}

	return &protocol.SemanticTokens{
		Data: encodeTokens(content, l),
	}, nil
}

// encodeTokens turns the tokens l yields from content into the relative
// encoding used by semantic token responses. Tokens spanning several lines
// are left out, as are the ones after the first error.
func encodeTokens(content string, l *lexer.Lexer) []protocol.UInteger {
	data := make([]protocol.UInteger, 0)
	lines := newLineIndex(content)

	var prevLine, prevChar int
	for {
		tk, err := l.Next()
		if err != nil || tk == nil {
			break
		}

		tokenType, ok := semanticType(tk.Kind)
		if !ok {
			continue
		}

		text := tk.Reproduce()
		if strings.ContainsRune(text, '\n') {
			continue
		}

		at := lines.position(tk.Start)
		line, char := int(at.Line), int(at.Character)

		startDelta := char
		if line == prevLine {
			startDelta = char - prevChar
		}

		data = append(data,
			protocol.UInteger(line-prevLine),
			protocol.UInteger(startDelta),
			protocol.UInteger(utf16Len(text)),
			tokenType,
			0,
		)

		prevLine, prevChar = line, char
	}

	return data
}

func semanticType(kind lexer.TokenKind) (protocol.UInteger, bool) {
	switch kind {
	case lexer.TokenStartTag, lexer.TokenEndTag, lexer.TokenEmptyTag,
		lexer.TokenElement, lexer.TokenAttributeList, lexer.TokenEntity, lexer.TokenNotation:
		return typeKeyword, true

	case lexer.TokenProcessingInstruction, lexer.TokenProlog, lexer.TokenDocType:
		return typeMacro, true

	case lexer.TokenComment:
		return typeComment, true

	case lexer.TokenCData:
		return typeString, true
	}

	return 0, false
}

func ptr[T any](v T) *T {
	return &v
}

// lineIndex maps the rune based locations of the lexer to protocol
// positions, which count UTF-16 code units.
type lineIndex []string

func newLineIndex(content string) lineIndex {
	return strings.Split(content, "\n")
}

func (li lineIndex) position(l lexer.Location) protocol.Position {
	if !l.IsValid() || l.Line > len(li) {
		return protocol.Position{}
	}

	line := li[l.Line-1]

	var runes, units int
	for _, r := range line {
		if runes == l.Column-1 {
			break
		}
		runes++
		units += runeUnits(r)
	}

	return protocol.Position{
		Line:      uint32(l.Line - 1),
		Character: uint32(units),
	}
}

func utf16Len(s string) int {
	n := 0
	for _, r := range s {
		n += runeUnits(r)
	}
	return n
}

// Runes outside the basic multilingual plane take a surrogate pair.
func runeUnits(r rune) int {
	if r > 0xFFFF {
		return 2
	}
	return 1
}
