package reporter

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/yaklabco/rtftplint/pkg/runner"
	"github.com/yaklabco/rtftplint/pkg/structure"
)

// JSONSchemaVersion is the version of the JSON output layout.
const JSONSchemaVersion = "1.0.0"

// JSONOutput is the top-level JSON structure.
type JSONOutput struct {
	Version     string           `json:"version"`
	RunID       string           `json:"runId"`
	ToolVersion string           `json:"toolVersion,omitempty"`
	Files       []JSONFileResult `json:"files"`
	Summary     JSONSummary      `json:"summary"`
}

// JSONFileResult represents a single template's result.
type JSONFileResult struct {
	Path   string     `json:"path"`
	Status string     `json:"status"`
	SHA256 string     `json:"sha256,omitempty"`
	Error  *JSONError `json:"error,omitempty"`
	Tree   *JSONNode  `json:"tree,omitempty"`
}

// JSONError describes why a template failed.
type JSONError struct {
	// Kind is the structure error kind (e.g. "mismatched-end"), or
	// "unreadable" when the template could not be read or tokenized.
	Kind      string   `json:"kind"`
	Message   string   `json:"message"`
	Directive string   `json:"directive,omitempty"`
	Line      int      `json:"line,omitempty"`
	Open      []string `json:"open,omitempty"`
}

// JSONNode is one node of a template structure.
type JSONNode struct {
	Kind     string      `json:"kind"`
	Key      string      `json:"key"`
	Line     int         `json:"line,omitempty"`
	Sort     string      `json:"sort,omitempty"`
	Children []*JSONNode `json:"children,omitempty"`
}

// JSONSummary contains aggregate statistics.
type JSONSummary struct {
	FilesChecked int `json:"filesChecked"`
	FilesValid   int `json:"filesValid"`
	FilesInvalid int `json:"filesInvalid"`
	FilesErrored int `json:"filesErrored"`
	Blocks       int `json:"blocks"`
	Fields       int `json:"fields"`
	MaxDepth     int `json:"maxDepth"`
}

// kindUnreadable is the error kind of templates that could not be read or tokenized.
const kindUnreadable = "unreadable"

// JSONReporter formats results as JSON.
type JSONReporter struct {
	opts Options
	bw   *bufio.Writer
}

// NewJSONReporter creates a new JSON reporter.
func NewJSONReporter(opts Options) *JSONReporter {
	return &JSONReporter{
		opts: opts,
		bw:   bufio.NewWriterSize(opts.Writer, bufWriterSize),
	}
}

// Report implements Reporter.
func (r *JSONReporter) Report(_ context.Context, result *runner.Result) (_ int, err error) {
	defer func() {
		if flushErr := r.bw.Flush(); err == nil {
			err = flushErr
		}
	}()

	output := r.buildOutput(result)

	encoder := json.NewEncoder(r.bw)
	if !r.opts.Compact {
		encoder.SetIndent("", "  ")
	}

	if err := encoder.Encode(output); err != nil {
		return 0, fmt.Errorf("encode JSON: %w", err)
	}

	return failures(result), nil
}

func (r *JSONReporter) buildOutput(result *runner.Result) *JSONOutput {
	output := &JSONOutput{
		Version:     JSONSchemaVersion,
		RunID:       uuid.NewString(),
		ToolVersion: r.opts.ToolVersion,
		Files:       make([]JSONFileResult, 0),
	}

	if result == nil {
		return output
	}

	output.Files = make([]JSONFileResult, 0, len(result.Files))
	for _, file := range result.Files {
		output.Files = append(output.Files, NewJSONFileResult(withDisplayPath(file, r.opts.WorkingDir)))
	}

	output.Summary = JSONSummary{
		FilesChecked: result.Stats.FilesProcessed,
		FilesValid:   result.Stats.FilesValid,
		FilesInvalid: result.Stats.FilesInvalid,
		FilesErrored: result.Stats.FilesErrored,
		Blocks:       result.Stats.Blocks,
		Fields:       result.Stats.Fields,
		MaxDepth:     result.Stats.MaxDepth,
	}

	return output
}

// NewJSONFileResult converts one outcome to its JSON form.
func NewJSONFileResult(outcome runner.FileOutcome) JSONFileResult {
	out := JSONFileResult{
		Path:   outcome.Path,
		Status: outcome.Status().String(),
		SHA256: outcome.Info.HashHex(),
		Tree:   NewJSONTree(outcome.Tree),
	}

	if outcome.Error != nil {
		out.Error = NewJSONError(outcome.Error)
	}

	return out
}

// NewJSONError describes err. Structure errors carry their kind, offending
// directive, line and open blocks.
func NewJSONError(err error) *JSONError {
	if err == nil {
		return nil
	}

	var serr *structure.StructureError
	if !errors.As(err, &serr) {
		return &JSONError{Kind: kindUnreadable, Message: err.Error()}
	}

	out := &JSONError{
		Kind:      serr.Kind.String(),
		Message:   err.Error(),
		Directive: serr.Directive,
		Line:      serr.Line,
	}
	for _, frame := range serr.Open {
		out.Open = append(out.Open, frame.Directive())
	}
	return out
}

// NewJSONTree converts a structure tree. Typeless nodes are omitted.
func NewJSONTree(t *structure.Tree) *JSONNode {
	if t == nil {
		return nil
	}
	return newJSONNode(t.Root())
}

func newJSONNode(n *structure.Node) *JSONNode {
	out := &JSONNode{
		Kind: n.Kind().String(),
		Key:  n.Key(),
		Line: n.Line(),
	}
	if sort, ok := n.Sort(); ok {
		out.Sort = sort
	}

	for _, child := range n.Children() {
		if child.Kind() == structure.KindNone {
			continue
		}
		out.Children = append(out.Children, newJSONNode(child))
	}

	return out
}
