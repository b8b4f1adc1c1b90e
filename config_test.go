package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/pipe01/xmllex/internal/lexer"
	"github.com/pipe01/xmllex/internal/printer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, contents string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "xmllex.ini")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))

	return path
}

func TestLoadFile(t *testing.T) {
	path := writeConfig(t, `
[lexer]
track_position = false
keep_comments = true
errors = ignore
stream = true
lookahead = 128

[output]
format = xml
out_dir = build
`)

	s := defaultSettings()
	require.NoError(t, s.loadFile(path))

	lex := s.Workspace.Lexer
	assert.False(t, lex.TrackPosition)
	assert.True(t, lex.KeepComments)
	assert.False(t, lex.EagerAttributes)
	assert.Equal(t, lexer.Ignore, lex.ErrorHandling)
	assert.Equal(t, 128, lex.LookaheadSize)
	assert.True(t, s.Workspace.Stream)
	assert.Equal(t, printer.FormatXML, s.Format)
	assert.Equal(t, "build", s.OutDir)
}

func TestLoadFileKeepsDefaults(t *testing.T) {
	path := writeConfig(t, "[output]\nout_dir = x\n")

	s := defaultSettings()
	require.NoError(t, s.loadFile(path))

	assert.True(t, s.Workspace.Lexer.TrackPosition)
	assert.Equal(t, lexer.DefaultLookahead, s.Workspace.Lexer.LookaheadSize)
	assert.Equal(t, lexer.Raise, s.Workspace.Lexer.ErrorHandling)
	assert.Equal(t, printer.FormatTokens, s.Format)
}

func TestLoadFileInvalid(t *testing.T) {
	s := defaultSettings()
	assert.Error(t, s.loadFile(writeConfig(t, "[lexer]\nerrors = explode\n")))

	s = defaultSettings()
	assert.Error(t, s.loadFile(writeConfig(t, "[output]\nformat = json\n")))

	s = defaultSettings()
	assert.Error(t, s.loadFile(filepath.Join(t.TempDir(), "missing.ini")))
}
