package reporter

import (
	"bufio"
	"context"
	"fmt"

	"github.com/yaklabco/rtftplint/internal/ui/pretty"
	"github.com/yaklabco/rtftplint/pkg/runner"
)

// TreeReporter lists the structure of every valid template. Failing
// templates are reported the same way as by TextReporter.
type TreeReporter struct {
	opts   Options
	styles *pretty.Styles
	bw     *bufio.Writer
}

// NewTreeReporter creates a new tree reporter.
func NewTreeReporter(opts Options) *TreeReporter {
	colorEnabled := pretty.IsColorEnabled(opts.Color, opts.Writer)
	return &TreeReporter{
		opts:   opts,
		styles: pretty.NewStyles(colorEnabled),
		bw:     bufio.NewWriterSize(opts.Writer, bufWriterSize),
	}
}

// Report implements Reporter.
func (r *TreeReporter) Report(_ context.Context, result *runner.Result) (_ int, err error) {
	defer func() {
		if flushErr := r.bw.Flush(); err == nil {
			err = flushErr
		}
	}()

	if result == nil {
		return 0, nil
	}

	for i, file := range result.Files {
		if i > 0 {
			fmt.Fprintln(r.bw)
		}

		file = withDisplayPath(file, r.opts.WorkingDir)
		if file.Status() != runner.StatusValid {
			fmt.Fprint(r.bw, r.styles.FormatOutcome(file))
			fmt.Fprint(r.bw, r.styles.FormatOpenBlocks(file))
			continue
		}

		// A single template gets no header, matching the tree command.
		if len(result.Files) > 1 {
			fmt.Fprintln(r.bw, r.styles.Bold.Render(file.Path))
		}
		fmt.Fprint(r.bw, r.styles.FormatTree(file.Tree))
	}

	if len(result.Files) > 1 {
		fmt.Fprintln(r.bw)
		writeSummary(r.bw, r.styles, r.opts, result)
	}

	return failures(result), nil
}
