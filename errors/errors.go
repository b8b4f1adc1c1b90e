// Package errors holds the contract shared by errors that point at a
// location in a document.
package errors

import (
	goerrors "errors"

	"github.com/pipe01/xmllex/internal/lexer"
)

type SituatedErr interface {
	error
	Unwrap() error
	At() lexer.Location
}

var _ SituatedErr = (*lexer.LexerError)(nil)

// Situate finds the first located error in err's chain, starting from err
// itself.
func Situate(err error) (SituatedErr, bool) {
	var serr SituatedErr
	if goerrors.As(err, &serr) {
		return serr, true
	}

	return nil, false
}
