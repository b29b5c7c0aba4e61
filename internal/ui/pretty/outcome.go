package pretty

import (
	"fmt"
	"strconv"

	"github.com/yaklabco/rtftplint/pkg/runner"
)

// Status marks.
const (
	MarkValid   = "✓"
	MarkInvalid = "✗"
	MarkErrored = "!"
)

// ValidMessage is printed for a well-formed template.
const ValidMessage = "Structure valid!"

// FormatOutcome formats one template result as a single line:
//
//	✓ path: Structure valid!
//	✗ path:12: invalid structure: missing ENDIF for IF_a (found ENDIF_b)
func (s *Styles) FormatOutcome(outcome runner.FileOutcome) string {
	switch outcome.Status() {
	case runner.StatusValid:
		return fmt.Sprintf("%s %s: %s\n",
			s.Valid.Render(MarkValid),
			s.FilePath.Render(outcome.Path),
			s.Valid.Render(ValidMessage))

	case runner.StatusInvalid:
		location := s.FilePath.Render(outcome.Path)
		if line := outcome.Line(); line > 0 {
			location += s.Location.Render(":" + strconv.Itoa(line))
		}
		return fmt.Sprintf("%s %s: %s\n",
			s.Invalid.Render(MarkInvalid), location, s.Message.Render(outcome.Error.Error()))

	default:
		return fmt.Sprintf("%s %s: %s\n",
			s.Errored.Render(MarkErrored),
			s.FilePath.Render(outcome.Path),
			s.Message.Render(outcome.Error.Error()))
	}
}

// FormatOpenBlocks lists the blocks still open when a structure error was
// detected, innermost last. It returns "" when there are none.
func (s *Styles) FormatOpenBlocks(outcome runner.FileOutcome) string {
	serr, ok := outcome.StructureError()
	if !ok || len(serr.Open) == 0 {
		return ""
	}

	out := "    " + s.Dim.Render("open blocks:")
	for _, frame := range serr.Open {
		out += " " + s.Directive.Render(frame.Directive())
		if frame.Line > 0 {
			out += s.Location.Render("@" + strconv.Itoa(frame.Line))
		}
	}
	return out + "\n"
}
