package printer

import (
	"fmt"
	"io"
	"strings"
)

type outputWriter struct {
	w           io.Writer
	indentation int
	indentWith  string

	err error
}

func (w *outputWriter) indent(delta int) {
	w.indentation += delta
	if w.indentation < 0 {
		w.indentation = 0
	}
}

func (w *outputWriter) printf(format string, a ...any) {
	if w.err != nil {
		return
	}

	_, w.err = fmt.Fprintf(w.w, format, a...)
}

func (w *outputWriter) writeIndentation() {
	w.printf("%s", strings.Repeat(w.indentWith, w.indentation))
}

// WriteLine writes str on its own line at the current indentation.
func (w *outputWriter) WriteLine(str string) {
	w.writeIndentation()
	w.printf("%s\n", str)
}

func (w *outputWriter) WriteOpen(str string) {
	w.WriteLine(str)
	w.indent(1)
}

func (w *outputWriter) WriteClose(str string) {
	w.indent(-1)
	w.WriteLine(str)
}

func (w *outputWriter) Err() error {
	return w.err
}
