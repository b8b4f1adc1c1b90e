package workspace

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/pipe01/xmllex/internal/lexer"
	"github.com/tliron/commonlog"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

var log = commonlog.GetLogger("xmllex.workspace")

type Options struct {
	Lexer lexer.Options

	// Stream reads files through the lexer's lookahead buffer instead of
	// loading them in memory first.
	Stream bool
}

type Document struct {
	Path   string
	Tokens []lexer.Token

	// External identifiers found in DOCTYPE and ENTITY declarations,
	// relative to the workspace root.
	References []string
}

type Workspace struct {
	rootPath string
	opts     Options

	mu          sync.Mutex
	parsedFiles map[string]*Document
	requested   map[string]struct{}
}

func New(rootPath string, opts Options) *Workspace {
	return &Workspace{
		rootPath:    rootPath,
		opts:        opts,
		parsedFiles: make(map[string]*Document),
		requested:   make(map[string]struct{}),
	}
}

// Load lexes the file at relPath, returning a cached document if it was
// already loaded.
func (w *Workspace) Load(relPath string) (*Document, error) {
	fullPath := w.fullPath(relPath)

	w.mu.Lock()
	doc, ok := w.parsedFiles[fullPath]
	w.mu.Unlock()

	if ok {
		return doc, nil
	}

	f, err := os.Open(fullPath)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}
	defer f.Close()

	var l *lexer.Lexer

	if w.opts.Stream {
		l, err = lexer.NewReader(bufio.NewReader(f), relPath, w.opts.Lexer)
	} else {
		var contents []byte

		contents, err = io.ReadAll(f)
		if err != nil {
			return nil, fmt.Errorf("read file: %w", err)
		}

		l, err = lexer.New(contents, relPath, w.opts.Lexer)
	}
	if err != nil {
		return nil, fmt.Errorf("create lexer: %w", err)
	}

	return w.store(relPath, fullPath, l)
}

// LoadWithContents lexes contents as if they were the file at relPath,
// replacing any cached document.
func (w *Workspace) LoadWithContents(relPath string, contents []byte) (*Document, error) {
	l, err := lexer.New(contents, relPath, w.opts.Lexer)
	if err != nil {
		return nil, fmt.Errorf("create lexer: %w", err)
	}

	return w.store(relPath, w.fullPath(relPath), l)
}

// Forget drops the cached document for relPath so the next Load reads it
// again.
func (w *Workspace) Forget(relPath string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	delete(w.parsedFiles, w.fullPath(relPath))
}

// RequestedFiles returns every external file referenced by the documents
// loaded so far, sorted.
func (w *Workspace) RequestedFiles() []string {
	w.mu.Lock()
	defer w.mu.Unlock()

	files := maps.Keys(w.requested)
	slices.Sort(files)

	return files
}

func (w *Workspace) fullPath(relPath string) string {
	if filepath.IsAbs(relPath) {
		return relPath
	}

	return filepath.Join(w.rootPath, relPath)
}

func (w *Workspace) store(relPath, fullPath string, l *lexer.Lexer) (*Document, error) {
	tks, err := l.Collect()
	if err != nil {
		return nil, fmt.Errorf("lex file: %w", err)
	}

	doc := &Document{
		Path:   relPath,
		Tokens: tks,
	}

	for _, tk := range tks {
		if tk.Kind != lexer.TokenDocType && tk.Kind != lexer.TokenEntity {
			continue
		}

		lit, ok := systemLiteral(tk.Body)
		if !ok || strings.Contains(lit, "://") {
			continue
		}

		ref := filepath.Join(filepath.Dir(relPath), lit)
		if !slices.Contains(doc.References, ref) {
			doc.References = append(doc.References, ref)
		}
	}

	log.Debugf("lexed %q: %d tokens, %d references", relPath, len(tks), len(doc.References))

	w.mu.Lock()
	defer w.mu.Unlock()

	w.parsedFiles[fullPath] = doc
	for _, ref := range doc.References {
		w.requested[ref] = struct{}{}
	}

	return doc, nil
}

// systemLiteral finds the system identifier of an external ID
// (SYSTEM "uri" or PUBLIC "id" "uri") in a declaration body. The keyword
// must directly follow the declared name, and the '%' of a parameter entity.
func systemLiteral(body string) (string, bool) {
	const space = " \t\r\n"

	rest := strings.TrimLeft(body, space)
	if strings.HasPrefix(rest, "%") {
		rest = strings.TrimLeft(rest[1:], space)
	}

	nameEnd := strings.IndexAny(rest, space+"[")
	if nameEnd <= 0 {
		return "", false
	}
	rest = strings.TrimLeft(rest[nameEnd:], space)

	var literals int
	switch {
	case strings.HasPrefix(rest, "SYSTEM"):
		literals = 1
	case strings.HasPrefix(rest, "PUBLIC"):
		literals = 2
	default:
		return "", false
	}

	rest = rest[len("SYSTEM"):]

	var lit string
	for ; literals > 0; literals-- {
		rest = strings.TrimLeft(rest, space)
		if rest == "" || (rest[0] != '"' && rest[0] != '\'') {
			return "", false
		}

		end := strings.IndexByte(rest[1:], rest[0])
		if end < 0 {
			return "", false
		}

		lit = rest[1 : end+1]
		rest = rest[end+2:]
	}

	return lit, lit != ""
}
