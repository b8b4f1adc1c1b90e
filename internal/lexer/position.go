package lexer

// positionTracker is fed every consumed rune, in order.
type positionTracker interface {
	advance(r rune)
	advanceString(s string)
	location() Location
}

type noTracker struct {
	file string
}

func (noTracker) advance(rune)         {}
func (noTracker) advanceString(string) {}

func (t noTracker) location() Location {
	return Location{File: t.file}
}

type lineTracker struct {
	file      string
	line, col int
}

func newTracker(file string, enabled bool) positionTracker {
	if !enabled {
		return noTracker{file: file}
	}

	return &lineTracker{
		file: file,
		line: 1,
		col:  1,
	}
}

func (t *lineTracker) advance(r rune) {
	if r == '\n' {
		t.line++
		t.col = 1
		return
	}

	t.col++
}

func (t *lineTracker) advanceString(s string) {
	for _, r := range s {
		t.advance(r)
	}
}

func (t *lineTracker) location() Location {
	return Location{
		File:   t.file,
		Line:   t.line,
		Column: t.col,
	}
}
