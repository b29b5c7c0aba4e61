package rtf

import (
	"errors"
	"fmt"
)

// ErrUnsupported indicates the input is not an RTF document this package can tokenize.
var ErrUnsupported = errors.New("unsupported template: input is not an RTF document")

// SyntaxError reports malformed RTF.
type SyntaxError struct {
	Pos Pos
	Msg string
}

// Error implements the error interface.
func (e *SyntaxError) Error() string {
	return fmt.Sprintf("rtf syntax error at line %d, column %d: %s", e.Pos.Line, e.Pos.Column, e.Msg)
}
