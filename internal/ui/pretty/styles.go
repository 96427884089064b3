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
	// Status styles
	Error   lipgloss.Style
	Warning lipgloss.Style
	Changed lipgloss.Style

	FilePath lipgloss.Style

	// Diff styles
	DiffHeader  lipgloss.Style
	DiffHunk    lipgloss.Style
	DiffAdd     lipgloss.Style
	DiffRemove  lipgloss.Style
	DiffContext lipgloss.Style

	// Summary styles
	SummaryTitle lipgloss.Style
	SummaryValue lipgloss.Style
	Success      lipgloss.Style
	Failure      lipgloss.Style

	// Go syntax styles, used by HighlightGo
	Keyword  lipgloss.Style
	Comment  lipgloss.Style
	String   lipgloss.Style
	Number   lipgloss.Style
	Operator lipgloss.Style
	Builtin  lipgloss.Style
	Function lipgloss.Style

	// Misc
	Dim  lipgloss.Style
	Bold lipgloss.Style

	colorEnabled bool
}

// NewStyles creates a new Styles with the given color mode.
func NewStyles(colorEnabled bool) *Styles {
	if !colorEnabled {
		return newNoColorStyles()
	}
	return newColorStyles()
}

// ColorEnabled reports whether the styles emit ANSI sequences.
func (s *Styles) ColorEnabled() bool {
	return s.colorEnabled
}

// style returns a base style that leaves tabs alone; Go source is indented
// with tabs and diff output must keep them.
func style() lipgloss.Style {
	return lipgloss.NewStyle().TabWidth(lipgloss.NoTabConversion)
}

// newColorStyles creates styles with ANSI 256 colors.
func newColorStyles() *Styles {
	return &Styles{
		Error:   style().Foreground(lipgloss.Color("9")).Bold(true),
		Warning: style().Foreground(lipgloss.Color("11")).Bold(true),
		Changed: style().Foreground(lipgloss.Color("11")),

		FilePath: style().Bold(true),

		DiffHeader:  style().Bold(true),
		DiffHunk:    style().Foreground(lipgloss.Color("14")),
		DiffAdd:     style().Foreground(lipgloss.Color("10")),
		DiffRemove:  style().Foreground(lipgloss.Color("9")),
		DiffContext: style().Foreground(lipgloss.Color("8")),

		SummaryTitle: style().Bold(true),
		SummaryValue: style(),
		Success:      style().Foreground(lipgloss.Color("10")).Bold(true),
		Failure:      style().Foreground(lipgloss.Color("9")).Bold(true),

		// Loosely One Dark.
		Keyword:  style().Foreground(lipgloss.Color("#c678dd")).Bold(true),
		Comment:  style().Foreground(lipgloss.Color("#5c6370")),
		String:   style().Foreground(lipgloss.Color("#98c379")),
		Number:   style().Foreground(lipgloss.Color("#d19a66")),
		Operator: style().Foreground(lipgloss.Color("#56b6c2")),
		Builtin:  style().Foreground(lipgloss.Color("#e5c07b")),
		Function: style().Foreground(lipgloss.Color("#61afef")),

		Dim:  style().Foreground(lipgloss.Color("8")),
		Bold: style().Bold(true),

		colorEnabled: true,
	}
}

// newNoColorStyles creates styles with no color formatting.
func newNoColorStyles() *Styles {
	plain := style()
	return &Styles{
		Error:        plain,
		Warning:      plain,
		Changed:      plain,
		FilePath:     plain,
		DiffHeader:   plain,
		DiffHunk:     plain,
		DiffAdd:      plain,
		DiffRemove:   plain,
		DiffContext:  plain,
		SummaryTitle: plain,
		SummaryValue: plain,
		Success:      plain,
		Failure:      plain,
		Keyword:      plain,
		Comment:      plain,
		String:       plain,
		Number:       plain,
		Operator:     plain,
		Builtin:      plain,
		Function:     plain,
		Dim:          plain,
		Bold:         plain,
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
		// Check NO_COLOR environment variable (https://no-color.org/)
		if os.Getenv("NO_COLOR") != "" {
			return false
		}
		if f, ok := writer.(*os.File); ok {
			return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
		}
		return false
	}
}
