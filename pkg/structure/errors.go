package structure

import (
	"errors"
	"fmt"
	"strings"
)

// ErrStructure matches every *StructureError via errors.Is.
var ErrStructure = errors.New("invalid structure")

// ErrorKind classifies a structure violation.
type ErrorKind uint8

// Structure violation kinds.
const (
	// UnmatchedEnd is an end directive with no block open.
	UnmatchedEnd ErrorKind = iota + 1

	// MismatchedEnd is an end directive whose type or key differs from the innermost open block.
	MismatchedEnd

	// SortOutsideIteration is a SORT_ directive whose innermost open block is not a WHILE.
	SortOutsideIteration

	// UnclosedBlock means blocks were still open at the end of the document.
	UnclosedBlock
)

// String returns a short name for the kind.
func (k ErrorKind) String() string {
	switch k {
	case UnmatchedEnd:
		return "unmatched-end"
	case MismatchedEnd:
		return "mismatched-end"
	case SortOutsideIteration:
		return "sort-outside-iteration"
	case UnclosedBlock:
		return "unclosed-block"
	default:
		return "unknown"
	}
}

// Frame describes a block that was open when an error was detected.
type Frame struct {
	Kind Kind
	Key  string
	Line int
}

// String returns the frame as type and key, e.g. "IF a".
func (f Frame) String() string {
	return f.Kind.String() + " " + f.Key
}

// Directive returns the name of the bookmark that opened the frame, e.g. "IF_a".
func (f Frame) Directive() string {
	return f.Kind.String() + "_" + f.Key
}

// StructureError is a well-formedness violation.
type StructureError struct {
	Kind ErrorKind

	// Directive is the offending bookmark name as written in the template.
	// It is empty for UnclosedBlock.
	Directive string

	// Open lists the blocks open at the time of the error, outermost first.
	Open []Frame

	// Line is the source line of the offending directive, or 0 if unknown.
	Line int
}

// Error implements the error interface.
func (e *StructureError) Error() string {
	var msg string

	switch e.Kind {
	case UnmatchedEnd:
		msg = fmt.Sprintf("%s has no matching open block", e.Directive)
	case MismatchedEnd:
		open, _ := e.Innermost()
		msg = fmt.Sprintf("missing END%s for %s (found %s)", open.Kind, open.Directive(), e.Directive)
	case SortOutsideIteration:
		msg = fmt.Sprintf("%s is not inside a WHILE block", e.Directive)
	case UnclosedBlock:
		names := make([]string, 0, len(e.Open))
		for _, f := range e.Open {
			names = append(names, f.Directive())
		}
		msg = "unclosed blocks " + strings.Join(names, ", ")
	default:
		msg = e.Kind.String()
	}

	if e.Line > 0 {
		msg += fmt.Sprintf(" at line %d", e.Line)
	}

	return ErrStructure.Error() + ": " + msg
}

// Is reports whether target is ErrStructure.
func (e *StructureError) Is(target error) bool {
	return target == ErrStructure
}

// Innermost returns the innermost open frame.
func (e *StructureError) Innermost() (Frame, bool) {
	if len(e.Open) == 0 {
		return Frame{}, false
	}
	return e.Open[len(e.Open)-1], true
}
