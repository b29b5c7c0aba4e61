// Package reporter writes template validation results in text, JSON, SARIF
// and tree form.
package reporter

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/yaklabco/rtftplint/pkg/runner"
)

// Reporter formats and writes validation results.
type Reporter interface {
	// Report writes formatted output for the given result.
	// It returns the number of failing templates and any write error.
	Report(ctx context.Context, result *runner.Result) (int, error)
}

// New creates a Reporter for the specified options.
func New(opts Options) (Reporter, error) {
	// Default writer to stdout if not specified
	if opts.Writer == nil {
		opts.Writer = DefaultOptions().Writer
	}

	format := opts.Format
	if format == "" {
		format = FormatText
	}

	switch format {
	case FormatText:
		return NewTextReporter(opts), nil
	case FormatJSON:
		return NewJSONReporter(opts), nil
	case FormatSARIF:
		return NewSARIFReporter(opts), nil
	case FormatTree:
		return NewTreeReporter(opts), nil
	default:
		return nil, fmt.Errorf("unsupported format: %s", format)
	}
}

// failures counts invalid and unreadable templates.
func failures(result *runner.Result) int {
	if result == nil {
		return 0
	}
	return result.Stats.FilesInvalid + result.Stats.FilesErrored
}

// displayPath makes path relative to workingDir when it lies below it.
func displayPath(path, workingDir string) string {
	if workingDir == "" || !filepath.IsAbs(path) {
		return path
	}

	rel, err := filepath.Rel(workingDir, path)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return path
	}
	return rel
}

// withDisplayPath returns a copy of outcome whose Path is display-relative.
func withDisplayPath(outcome runner.FileOutcome, workingDir string) runner.FileOutcome {
	outcome.Path = displayPath(outcome.Path, workingDir)
	return outcome
}
