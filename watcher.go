package main

import (
	"fmt"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/pipe01/xmllex/internal/workspace"
	"github.com/tliron/commonlog"
)

var watchLog = commonlog.GetLogger("xmllex.watcher")

type Watcher struct {
	rootPath string

	mu           sync.Mutex
	watchingDirs map[string]struct{}
	documents    map[string]string // full path to path given by the user
	references   map[string]struct{}
	ws           *workspace.Workspace
	watcher      *fsnotify.Watcher
}

func NewWatcher(rootPath string) (*Watcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create fsnotify watcher: %w", err)
	}

	w := &Watcher{
		rootPath:     rootPath,
		watchingDirs: make(map[string]struct{}),
		documents:    make(map[string]string),
		references:   make(map[string]struct{}),
		ws:           workspace.New(rootPath, opts.Workspace),
		watcher:      watcher,
	}
	go w.eventLoop()

	return w, nil
}

// WatchDocument lexes path once and again every time it, or a file it
// references, changes.
func (w *Watcher) WatchDocument(path string) error {
	fullPath, _ := filepath.Abs(path)

	w.mu.Lock()
	w.documents[fullPath] = path
	w.mu.Unlock()

	if err := w.watchDir(fullPath); err != nil {
		return err
	}

	w.generate(path)
	return nil
}

func (w *Watcher) watchDir(fullPath string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	dir := filepath.Dir(fullPath)
	if _, ok := w.watchingDirs[dir]; ok {
		return nil
	}

	err := w.watcher.Add(dir)
	if err != nil {
		return err
	}

	w.watchingDirs[dir] = struct{}{}

	return nil
}

func (w *Watcher) eventLoop() {
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if !event.Has(fsnotify.Write) {
				continue
			}

			fname, _ := filepath.Abs(event.Name)
			w.fileModified(fname)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			watchLog.Errorf("watcher error: %s", err)
		}
	}
}

func (w *Watcher) fileModified(fullPath string) {
	w.mu.Lock()
	doc, isDoc := w.documents[fullPath]
	_, isRef := w.references[fullPath]

	var docs []string
	if isRef {
		for _, d := range w.documents {
			docs = append(docs, d)
		}
	}
	w.mu.Unlock()

	switch {
	case isDoc:
		watchLog.Infof("file %q modified, lexing again...", filepath.Base(fullPath))
		w.generate(doc)

	case isRef:
		watchLog.Infof("referenced file %q modified, lexing all documents again...", filepath.Base(fullPath))
		for _, d := range docs {
			w.generate(d)
		}
	}
}

func (w *Watcher) generate(path string) {
	w.ws.Forget(path)

	_, err := generateFile(w.ws, path, opts)
	if err != nil {
		watchLog.Errorf("failed to lex file %q: %s", path, err)
	}

	for _, req := range w.ws.RequestedFiles() {
		fullPath := req
		if !filepath.IsAbs(fullPath) {
			fullPath = filepath.Join(w.rootPath, req)
		}

		w.mu.Lock()
		w.references[fullPath] = struct{}{}
		w.mu.Unlock()

		if err := w.watchDir(fullPath); err != nil {
			watchLog.Warningf("failed to watch referenced file %q: %s", req, err)
		}
	}
}
