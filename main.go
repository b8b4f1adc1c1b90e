package main

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/alecthomas/kingpin/v2"
	"github.com/pipe01/xmllex/internal/attrs"
	"github.com/pipe01/xmllex/internal/lexer"
	"github.com/pipe01/xmllex/internal/printer"
	"github.com/pipe01/xmllex/internal/workspace"
	"github.com/tliron/commonlog"

	_ "github.com/tliron/commonlog/simple"
)

var log = commonlog.GetLogger("xmllex")

var (
	configPath  = kingpin.Flag("config", "INI file with default settings").ExistingFile()
	outDir      = kingpin.Flag("out-dir", "Folder to write outputs to instead of stdout").Short('o').Action(userSet("out-dir")).String()
	format      = kingpin.Flag("format", "Output format").Default("tokens").Action(userSet("format")).Enum("tokens", "xml")
	positions   = kingpin.Flag("positions", "Track the line and column of each token").Default("true").Action(userSet("positions")).Bool()
	comments    = kingpin.Flag("comments", "Keep comment tokens").Action(userSet("comments")).Bool()
	errHandling = kingpin.Flag("errors", "What to do on malformed input").Default("raise").Action(userSet("errors")).Enum("raise", "abort", "ignore")
	eagerAttrs  = kingpin.Flag("attrs", "Parse attributes of tags and attribute lists").Action(userSet("attrs")).Bool()
	stream      = kingpin.Flag("stream", "Read files through a bounded lookahead buffer instead of loading them whole").Action(userSet("stream")).Bool()
	lookahead   = kingpin.Flag("lookahead", "Lookahead buffer size in characters, used with --stream").Default("64").Action(userSet("lookahead")).Int()
	watch       = kingpin.Flag("watch", "Watch files for changes and lex them again automatically").Short('w').Bool()
	verbose     = kingpin.Flag("verbose", "Increase log verbosity").Short('v').Counter()
	files       = kingpin.Arg("files", "List of files to lex").Required().ExistingFiles()

	setByUser = map[string]bool{}

	opts settings
)

func userSet(name string) kingpin.Action {
	return func(*kingpin.ParseContext) error {
		setByUser[name] = true
		return nil
	}
}

func main() {
	kingpin.Parse()

	commonlog.Configure(*verbose, nil)

	var err error
	opts, err = buildSettings()
	if err != nil {
		kingpin.Fatalf("invalid settings: %s", err)
	}

	if opts.OutDir != "" {
		opts.OutDir, _ = filepath.Abs(opts.OutDir)

		if err := os.MkdirAll(opts.OutDir, 0o755); err != nil {
			kingpin.Fatalf("create output folder: %s", err)
		}
	}

	if *watch {
		err := watchFiles()
		if err != nil {
			kingpin.Fatalf("failed to watch files: %s", err)
		}
	} else {
		err := generateAll()
		if err != nil {
			kingpin.Fatalf("failed to lex files: %s", err)
		}
	}
}

// buildSettings layers the config file, if any, under the flags the user
// passed explicitly.
func buildSettings() (settings, error) {
	s := defaultSettings()

	if *configPath != "" {
		if err := s.loadFile(*configPath); err != nil {
			return s, err
		}
	}

	lex := &s.Workspace.Lexer

	if setByUser["out-dir"] {
		s.OutDir = *outDir
	}
	if setByUser["format"] {
		s.Format, _ = printer.ParseFormat(*format)
	}
	if setByUser["positions"] {
		lex.TrackPosition = *positions
	}
	if setByUser["comments"] {
		lex.KeepComments = *comments
	}
	if setByUser["errors"] {
		lex.ErrorHandling, _ = lexer.ParseErrorHandling(*errHandling)
	}
	if setByUser["attrs"] {
		lex.EagerAttributes = *eagerAttrs
	}
	if setByUser["stream"] {
		s.Workspace.Stream = *stream
	}
	if setByUser["lookahead"] {
		lex.LookaheadSize = *lookahead
	}

	if lex.EagerAttributes {
		lex.Attributes = attrs.Parser{}
	}

	return s, nil
}

func generateAll() error {
	wd, _ := os.Getwd()
	ws := workspace.New(wd, opts.Workspace)

	for _, fname := range *files {
		_, err := generateFile(ws, fname, opts)
		if err != nil {
			return fmt.Errorf("lex file %q: %w", fname, err)
		}
	}

	return nil
}

func generateFile(ws *workspace.Workspace, fname string, opts settings) (outPath string, err error) {
	doc, err := ws.Load(fname)
	if err != nil {
		return "", err
	}

	var out io.Writer = os.Stdout

	if opts.OutDir != "" {
		outPath = filepath.Join(opts.OutDir, filepath.Base(fname)+"."+opts.Format.String())

		outf, err := os.Create(outPath)
		if err != nil {
			return "", fmt.Errorf("create output file: %w", err)
		}
		defer outf.Close()

		out = outf
	} else if len(*files) > 1 {
		fmt.Printf("==> %s <==\n", fname)
	}

	err = printer.Visit(out, doc.Tokens, printer.Options{Format: opts.Format})
	if err != nil {
		return "", fmt.Errorf("write output: %w", err)
	}

	log.Infof("lexed %q into %d tokens", fname, len(doc.Tokens))

	return outPath, nil
}

func watchFiles() error {
	wd, _ := os.Getwd()

	watcher, err := NewWatcher(wd)
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}

	for _, f := range *files {
		err = watcher.WatchDocument(f)
		if err != nil {
			return fmt.Errorf("watch file %q: %w", f, err)
		}
	}

	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)

	log.Notice("watching files for changes...")

	<-ch
	return nil
}
