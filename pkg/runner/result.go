package runner

import (
	"errors"

	"github.com/yaklabco/rtftplint/pkg/fsutil"
	"github.com/yaklabco/rtftplint/pkg/structure"
)

// Status classifies the outcome of a single template.
type Status uint8

const (
	// StatusValid means the template is well formed.
	StatusValid Status = iota

	// StatusInvalid means the template has a structure error.
	StatusInvalid

	// StatusError means the template could not be read or tokenized.
	StatusError
)

// String returns the status name.
func (s Status) String() string {
	switch s {
	case StatusValid:
		return "valid"
	case StatusInvalid:
		return "invalid"
	case StatusError:
		return "error"
	default:
		return "unknown"
	}
}

// FileOutcome is the validation result of one template.
type FileOutcome struct {
	// Path is the file path that was processed.
	Path string

	// Info is the file metadata captured when the template was read.
	// Nil when the file could not be read.
	Info *fsutil.FileInfo

	// Tree is the structure of a valid template.
	Tree *structure.Tree

	// Error is the structure error of an invalid template, or the read or
	// tokenizer error of a template that could not be processed.
	Error error
}

// Status reports how the template fared.
func (o FileOutcome) Status() Status {
	switch {
	case o.Error == nil:
		return StatusValid
	case errors.Is(o.Error, structure.ErrStructure):
		return StatusInvalid
	default:
		return StatusError
	}
}

// StructureError returns the structure error of an invalid template.
func (o FileOutcome) StructureError() (*structure.StructureError, bool) {
	var serr *structure.StructureError
	if errors.As(o.Error, &serr) {
		return serr, true
	}
	return nil, false
}

// Line returns the line of the offending directive, or 0 if unknown.
func (o FileOutcome) Line() int {
	if serr, ok := o.StructureError(); ok {
		return serr.Line
	}
	return 0
}

// Stats captures aggregate information about a run.
type Stats struct {
	// FilesDiscovered is the total number of files found during discovery.
	FilesDiscovered int

	// FilesProcessed is the number of files that produced an outcome.
	FilesProcessed int

	// FilesValid is the number of well-formed templates.
	FilesValid int

	// FilesInvalid is the number of templates with a structure error.
	FilesInvalid int

	// FilesErrored is the number of templates that could not be read or tokenized.
	FilesErrored int

	// Blocks counts IF and WHILE blocks across all valid templates.
	Blocks int

	// Fields counts merge fields across all valid templates.
	Fields int

	// MaxDepth is the deepest block nesting found in any valid template.
	MaxDepth int
}

// Result is the overall runner result.
type Result struct {
	// Files contains the outcome for each processed file, ordered by path.
	Files []FileOutcome

	// Stats contains aggregate statistics for the run.
	Stats Stats
}

// HasFailures reports whether any template was invalid or unreadable.
func (r *Result) HasFailures() bool {
	if r == nil {
		return false
	}
	return r.Stats.FilesInvalid > 0 || r.Stats.FilesErrored > 0
}

func (r *Result) accumulate(outcome FileOutcome) {
	r.Files = append(r.Files, outcome)
	r.Stats.FilesProcessed++

	switch outcome.Status() {
	case StatusValid:
		r.Stats.FilesValid++
		if outcome.Tree != nil {
			r.Stats.Blocks += outcome.Tree.Count(structure.KindIf) + outcome.Tree.Count(structure.KindWhile)
			r.Stats.Fields += outcome.Tree.Count(structure.KindField)
			r.Stats.MaxDepth = max(r.Stats.MaxDepth, outcome.Tree.Depth())
		}
	case StatusInvalid:
		r.Stats.FilesInvalid++
	case StatusError:
		r.Stats.FilesErrored++
	}
}
