package main

import (
	"fmt"

	"github.com/pipe01/xmllex/internal/lexer"
	"github.com/pipe01/xmllex/internal/printer"
	"github.com/pipe01/xmllex/internal/workspace"
	"gopkg.in/ini.v1"
)

type settings struct {
	Workspace workspace.Options
	Format    printer.Format
	OutDir    string
}

func defaultSettings() settings {
	return settings{
		Workspace: workspace.Options{
			Lexer: lexer.Options{
				TrackPosition: true,
				LookaheadSize: lexer.DefaultLookahead,
			},
		},
		Format: printer.FormatTokens,
	}
}

// loadFile overrides s with the values present in the INI file at path:
//
//	[lexer]
//	track_position = true
//	keep_comments = false
//	errors = raise
//	eager_attributes = false
//	stream = false
//	lookahead = 64
//
//	[output]
//	format = tokens
//	out_dir = out
func (s *settings) loadFile(path string) error {
	cfg, err := ini.Load(path)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	lex := &s.Workspace.Lexer
	sec := cfg.Section("lexer")

	lex.TrackPosition = sec.Key("track_position").MustBool(lex.TrackPosition)
	lex.KeepComments = sec.Key("keep_comments").MustBool(lex.KeepComments)
	lex.EagerAttributes = sec.Key("eager_attributes").MustBool(lex.EagerAttributes)
	lex.LookaheadSize = sec.Key("lookahead").MustInt(lex.LookaheadSize)
	s.Workspace.Stream = sec.Key("stream").MustBool(s.Workspace.Stream)

	if sec.HasKey("errors") {
		lex.ErrorHandling, err = lexer.ParseErrorHandling(sec.Key("errors").String())
		if err != nil {
			return fmt.Errorf("config [lexer] errors: %w", err)
		}
	}

	out := cfg.Section("output")

	if out.HasKey("format") {
		s.Format, err = printer.ParseFormat(out.Key("format").String())
		if err != nil {
			return fmt.Errorf("config [output] format: %w", err)
		}
	}
	s.OutDir = out.Key("out_dir").MustString(s.OutDir)

	return nil
}
