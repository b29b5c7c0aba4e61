package pretty

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/yaklabco/rtftplint/pkg/runner"
)

const (
	summaryDividerWidth = 40
	wordFile            = "file"
	wordFiles           = "files"
)

func plural(n int) string {
	if n == 1 {
		return wordFile
	}
	return wordFiles
}

// FormatSummaryOneLine formats run statistics as a single line.
// Example: "3 files checked: 1 valid, 1 invalid, 1 unreadable".
func (s *Styles) FormatSummaryOneLine(stats runner.Stats) string {
	head := fmt.Sprintf("%d %s checked", stats.FilesProcessed, plural(stats.FilesProcessed))

	if stats.FilesInvalid == 0 && stats.FilesErrored == 0 {
		return s.Success.Render("All templates valid") + s.Dim.Render(" ("+head+")") + "\n"
	}

	parts := []string{s.Success.Render(fmt.Sprintf("%d valid", stats.FilesValid))}
	if stats.FilesInvalid > 0 {
		parts = append(parts, s.Failure.Render(fmt.Sprintf("%d invalid", stats.FilesInvalid)))
	}
	if stats.FilesErrored > 0 {
		parts = append(parts, s.Errored.Render(fmt.Sprintf("%d unreadable", stats.FilesErrored)))
	}

	return head + ": " + strings.Join(parts, ", ") + "\n"
}

// FormatSummary formats run statistics as a summary block.
func (s *Styles) FormatSummary(stats runner.Stats) string {
	var builder strings.Builder

	builder.WriteString("\n")
	builder.WriteString(s.SummaryTitle.Render("Summary"))
	builder.WriteString("\n")
	builder.WriteString(strings.Repeat("-", summaryDividerWidth))
	builder.WriteString("\n")

	row := func(label string, value int, style func(...string) string) {
		builder.WriteString(fmt.Sprintf("  %-19s%s\n", label+":", style(strconv.Itoa(value))))
	}

	row("Files checked", stats.FilesProcessed, s.SummaryValue.Render)
	row("Valid", stats.FilesValid, s.Success.Render)
	if stats.FilesInvalid > 0 {
		row("Invalid", stats.FilesInvalid, s.Failure.Render)
	}
	if stats.FilesErrored > 0 {
		row("Unreadable", stats.FilesErrored, s.Errored.Render)
	}

	builder.WriteString("\n")
	row("Blocks", stats.Blocks, s.SummaryValue.Render)
	row("Merge fields", stats.Fields, s.SummaryValue.Render)
	row("Deepest nesting", stats.MaxDepth, s.SummaryValue.Render)
	builder.WriteString("\n")

	switch {
	case stats.FilesInvalid > 0 || stats.FilesErrored > 0:
		builder.WriteString(s.Failure.Render("Validation failed"))
	default:
		builder.WriteString(s.Success.Render("Validation passed"))
	}
	builder.WriteString("\n")

	return builder.String()
}
