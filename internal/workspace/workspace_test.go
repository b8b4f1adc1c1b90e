package workspace

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/pipe01/xmllex/internal/lexer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const note = `<?xml version="1.0"?>
<!DOCTYPE note SYSTEM "note.dtd" [
	<!ENTITY % ext PUBLIC "-//X//EN" "dtd/ext.ent">
	<!ENTITY remote SYSTEM "http://example.com/remote.ent">
]>
<note>hi</note>
`

func writeFile(t *testing.T, dir, name, contents string) {
	t.Helper()

	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
}

func TestLoad(t *testing.T) {
	for _, stream := range []bool{false, true} {
		dir := t.TempDir()
		writeFile(t, dir, "docs/note.xml", note)

		ws := New(dir, Options{
			Lexer:  lexer.Options{TrackPosition: true},
			Stream: stream,
		})

		doc, err := ws.Load("docs/note.xml")
		require.NoError(t, err)

		assert.Equal(t, "docs/note.xml", doc.Path)
		require.Len(t, doc.Tokens, 5)
		assert.Equal(t, lexer.TokenProlog, doc.Tokens[0].Kind)
		assert.Equal(t, lexer.TokenDocType, doc.Tokens[1].Kind)
		assert.Equal(t, "hi", doc.Tokens[3].Body)
		assert.Equal(t, lexer.Location{File: "docs/note.xml", Line: 6, Column: 1}, doc.Tokens[2].Start)

		// Declarations inside the internal subset are part of the DOCTYPE
		// body, so only its own external ID is picked up
		assert.Equal(t, []string{filepath.Join("docs", "note.dtd")}, doc.References)
		assert.Equal(t, []string{filepath.Join("docs", "note.dtd")}, ws.RequestedFiles())
	}
}

func TestLoadCaches(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.xml", "<a/>")

	ws := New(dir, Options{})

	first, err := ws.Load("a.xml")
	require.NoError(t, err)

	writeFile(t, dir, "a.xml", "<b/>")

	second, err := ws.Load("a.xml")
	require.NoError(t, err)
	assert.Same(t, first, second)

	ws.Forget("a.xml")

	third, err := ws.Load("a.xml")
	require.NoError(t, err)
	assert.Equal(t, "b/", third.Tokens[0].Body)
}

func TestLoadWithContents(t *testing.T) {
	ws := New(t.TempDir(), Options{})

	doc, err := ws.LoadWithContents("mem.xml", []byte(`<!DOCTYPE x PUBLIC "id" 'x.dtd'><x/>`))
	require.NoError(t, err)

	assert.Len(t, doc.Tokens, 2)
	assert.Equal(t, []string{"x.dtd"}, doc.References)

	cached, err := ws.Load("mem.xml")
	require.NoError(t, err)
	assert.Same(t, doc, cached)
}

func TestLoadErrors(t *testing.T) {
	ws := New(t.TempDir(), Options{})

	_, err := ws.Load("missing.xml")
	assert.ErrorIs(t, err, os.ErrNotExist)

	_, err = ws.LoadWithContents("bad.xml", []byte("<a"))
	require.Error(t, err)

	var lerr *lexer.LexerError
	assert.ErrorAs(t, err, &lerr)
	assert.ErrorIs(t, err, lexer.ErrUnterminated)
}

func TestSystemLiteral(t *testing.T) {
	cases := []struct {
		body string
		lit  string
		ok   bool
	}{
		{` note SYSTEM "note.dtd"`, "note.dtd", true},
		{` html PUBLIC "-//W3C//DTD XHTML 1.0//EN" 'xhtml1.dtd'`, "xhtml1.dtd", true},
		{` html PUBLIC "-//W3C//DTD XHTML 1.0//EN"`, "", false},
		{` doc [ <!ENTITY x SYSTEM "inner.ent"> ]`, "", false},
		{` % pe SYSTEM "pe.ent"`, "pe.ent", true},
		{` x "SYSTEM`, "", false},
		{` plain "value"`, "", false},
		{` e "see SYSTEM 'x.dtd'"`, "", false},
		{` % pe 'PUBLIC "a" "b.dtd"'`, "", false},
		{` root SYSTEM 'root.dtd' [ <!ENTITY x SYSTEM "inner.ent"> ]`, "root.dtd", true},
		{` root[ <!ENTITY x SYSTEM "inner.ent"> ]`, "", false},
	}

	for _, c := range cases {
		lit, ok := systemLiteral(c.body)
		assert.Equal(t, c.ok, ok, c.body)
		assert.Equal(t, c.lit, lit, c.body)
	}
}

func TestReferencesIgnoreQuotedKeywords(t *testing.T) {
	ws := New(t.TempDir(), Options{})

	doc, err := ws.LoadWithContents("e.xml", []byte(`<!ENTITY e "see SYSTEM 'x.dtd'"><!ENTITY f SYSTEM 'f.ent'><a/>`))
	require.NoError(t, err)

	assert.Equal(t, []string{"f.ent"}, doc.References)
	assert.Equal(t, []string{"f.ent"}, ws.RequestedFiles())
}
