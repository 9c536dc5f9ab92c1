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
	Error   lipgloss.Style
	Warning lipgloss.Style

	// Block components
	FilePath   lipgloss.Style
	Location   lipgloss.Style
	Kind       lipgloss.Style
	Strategy   lipgloss.Style
	Excerpt    lipgloss.Style
	Resolved   lipgloss.Style
	Unresolved lipgloss.Style

	// Summary styles
	SummaryTitle lipgloss.Style
	SummaryValue lipgloss.Style
	Success      lipgloss.Style
	Failure      lipgloss.Style

	// Table styles
	TableHeader        lipgloss.Style
	TableUnresolvedRow lipgloss.Style
	TableLegend        lipgloss.Style
	TableSeparator     lipgloss.Style

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
		Error:   lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),
		Warning: lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true),

		FilePath:   lipgloss.NewStyle().Bold(true),
		Location:   lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
		Kind:       lipgloss.NewStyle().Foreground(lipgloss.Color("12")),
		Strategy:   lipgloss.NewStyle().Foreground(lipgloss.Color("14")),
		Excerpt:    lipgloss.NewStyle().Foreground(lipgloss.Color("7")),
		Resolved:   lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
		Unresolved: lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true),

		SummaryTitle: lipgloss.NewStyle().Bold(true),
		SummaryValue: lipgloss.NewStyle(),
		Success:      lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true),
		Failure:      lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),

		TableHeader:        lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("7")),
		TableUnresolvedRow: lipgloss.NewStyle().Foreground(lipgloss.Color("11")),
		TableLegend:        lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Italic(true),
		TableSeparator:     lipgloss.NewStyle().Foreground(lipgloss.Color("8")),

		Dim:  lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
		Bold: lipgloss.NewStyle().Bold(true),
	}
}

func newNoColorStyles() *Styles {
	plain := lipgloss.NewStyle()
	return &Styles{
		Error:              plain,
		Warning:            plain,
		FilePath:           plain,
		Location:           plain,
		Kind:               plain,
		Strategy:           plain,
		Excerpt:            plain,
		Resolved:           plain,
		Unresolved:         plain,
		SummaryTitle:       plain,
		SummaryValue:       plain,
		Success:            plain,
		Failure:            plain,
		TableHeader:        plain,
		TableUnresolvedRow: plain,
		TableLegend:        plain,
		TableSeparator:     plain,
		Dim:                plain,
		Bold:               plain,
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
	default:
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
