package reporter

import (
	"bufio"
	"context"
	"fmt"

	"github.com/yaklabco/rtftplint/internal/ui/pretty"
	"github.com/yaklabco/rtftplint/pkg/runner"
)

// TextReporter formats results as styled terminal output, one line per template.
type TextReporter struct {
	opts   Options
	styles *pretty.Styles
	bw     *bufio.Writer
}

// NewTextReporter creates a new text reporter.
func NewTextReporter(opts Options) *TextReporter {
	colorEnabled := pretty.IsColorEnabled(opts.Color, opts.Writer)
	return &TextReporter{
		opts:   opts,
		styles: pretty.NewStyles(colorEnabled),
		bw:     bufio.NewWriterSize(opts.Writer, bufWriterSize),
	}
}

// Report implements Reporter.
func (r *TextReporter) Report(_ context.Context, result *runner.Result) (_ int, err error) {
	defer func() {
		if flushErr := r.bw.Flush(); err == nil {
			err = flushErr
		}
	}()

	if result == nil || len(result.Files) == 0 {
		if r.opts.ShowSummary {
			fmt.Fprintln(r.bw, r.styles.Dim.Render("No templates to check."))
		}
		return 0, nil
	}

	for _, file := range result.Files {
		file = withDisplayPath(file, r.opts.WorkingDir)
		fmt.Fprint(r.bw, r.styles.FormatOutcome(file))
		fmt.Fprint(r.bw, r.styles.FormatOpenBlocks(file))
	}

	writeSummary(r.bw, r.styles, r.opts, result)

	return failures(result), nil
}

func writeSummary(bw *bufio.Writer, styles *pretty.Styles, opts Options, result *runner.Result) {
	switch {
	case !opts.ShowSummary:
	case opts.Verbose:
		fmt.Fprint(bw, styles.FormatSummary(result.Stats))
	default:
		fmt.Fprint(bw, styles.FormatSummaryOneLine(result.Stats))
	}
}
