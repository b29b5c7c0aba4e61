// Package pretty provides Lipgloss-based styled output utilities.
package pretty

import (
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
)

// Styles contains all styled renderers for CLI output.
type Styles struct {
	// Outcome styles
	Valid   lipgloss.Style
	Invalid lipgloss.Style
	Errored lipgloss.Style

	// Result line components
	FilePath  lipgloss.Style
	Location  lipgloss.Style
	Message   lipgloss.Style
	Directive lipgloss.Style

	// Tree styles
	TreeRoot       lipgloss.Style
	TreeBlock      lipgloss.Style
	TreeField      lipgloss.Style
	TreeArg        lipgloss.Style
	TreeEnumerator lipgloss.Style

	// Summary styles
	SummaryTitle lipgloss.Style
	SummaryValue lipgloss.Style
	Success      lipgloss.Style
	Failure      lipgloss.Style

	// Misc
	Dim  lipgloss.Style
	Bold lipgloss.Style
}

// NewStyles creates a new Styles with the given color mode.
func NewStyles(colorEnabled bool) *Styles {
	if !colorEnabled {
		return newNoColorStyles()
	}
	return newColorStyles()
}

func newColorStyles() *Styles {
	return &Styles{
		Valid:   lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true),
		Invalid: lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),
		Errored: lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true),

		FilePath:  lipgloss.NewStyle().Bold(true),
		Location:  lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
		Message:   lipgloss.NewStyle().Foreground(lipgloss.Color("9")),
		Directive: lipgloss.NewStyle().Foreground(lipgloss.Color("14")),

		TreeRoot:       lipgloss.NewStyle().Bold(true),
		TreeBlock:      lipgloss.NewStyle().Foreground(lipgloss.Color("12")),
		TreeField:      lipgloss.NewStyle(),
		TreeArg:        lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Italic(true),
		TreeEnumerator: lipgloss.NewStyle().Foreground(lipgloss.Color("8")),

		SummaryTitle: lipgloss.NewStyle().Bold(true),
		SummaryValue: lipgloss.NewStyle(),
		Success:      lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true),
		Failure:      lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),

		Dim:  lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
		Bold: lipgloss.NewStyle().Bold(true),
	}
}

func newNoColorStyles() *Styles {
	plain := lipgloss.NewStyle()
	return &Styles{
		Valid:          plain,
		Invalid:        plain,
		Errored:        plain,
		FilePath:       plain,
		Location:       plain,
		Message:        plain,
		Directive:      plain,
		TreeRoot:       plain,
		TreeBlock:      plain,
		TreeField:      plain,
		TreeArg:        plain,
		TreeEnumerator: plain,
		SummaryTitle:   plain,
		SummaryValue:   plain,
		Success:        plain,
		Failure:        plain,
		Dim:            plain,
		Bold:           plain,
	}
}

// IsColorEnabled determines if color should be enabled based on mode and writer.
// Mode values: "auto" (default), "always", "never".
// In auto mode, color is enabled only if the writer is a TTY and NO_COLOR is not set.
func IsColorEnabled(mode string, writer io.Writer) bool {
	switch mode {
	case "always":
		return true
	case "never":
		return false
	default: // "auto"
		// https://no-color.org/
		if os.Getenv("NO_COLOR") != "" {
			return false
		}
		if f, ok := writer.(*os.File); ok {
			return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
		}
		return false
	}
}
