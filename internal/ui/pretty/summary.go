package pretty

import (
	"fmt"
	"slices"
	"strings"

	"github.com/samber/lo"

	"github.com/yaklabco/mdsync/pkg/runner"
)

const summaryDividerWidth = 40

func plural(n int, one, many string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, one)
	}
	return fmt.Sprintf("%d %s", n, many)
}

// FormatSummaryOneLine formats run statistics as a single line.
// Example: "10 of 12 blocks resolved (2 unresolved) in 3 files".
func (s *Styles) FormatSummaryOneLine(stats runner.Stats) string {
	files := plural(stats.FilesProcessed, "file", "files")

	var parts []string
	if stats.Unresolved == 0 && stats.ImagesUnresolved == 0 {
		parts = append(parts, s.Success.Render(fmt.Sprintf("All %s resolved", plural(stats.Blocks, "block", "blocks")))+
			s.Dim.Render(" in "+files))
	} else {
		var missing []string
		if stats.Unresolved > 0 {
			missing = append(missing, s.Unresolved.Render(fmt.Sprintf("%d unresolved", stats.Unresolved)))
		}
		if stats.ImagesUnresolved > 0 {
			missing = append(missing, s.Unresolved.Render(plural(stats.ImagesUnresolved, "image", "images")+" unresolved"))
		}
		parts = append(parts, fmt.Sprintf("%d of %s resolved (%s) in %s",
			stats.Resolved, plural(stats.Blocks, "block", "blocks"), strings.Join(missing, ", "), files))
	}

	if stats.FilesErrored > 0 {
		parts = append(parts, s.Error.Render(plural(stats.FilesErrored, "file", "files")+" failed"))
	}

	return strings.Join(parts, ", ") + "\n"
}

// FormatSummary formats run statistics as a summary block with the
// strategy breakdown.
func (s *Styles) FormatSummary(stats runner.Stats) string {
	var b strings.Builder

	b.WriteString(s.SummaryTitle.Render("Summary") + "\n")
	b.WriteString(s.Dim.Render(strings.Repeat("─", summaryDividerWidth)) + "\n")

	row := func(label string, value int, style func(...string) string) {
		fmt.Fprintf(&b, "  %-20s %s\n", label, style(fmt.Sprint(value)))
	}

	row("Files processed", stats.FilesProcessed, s.SummaryValue.Render)
	if stats.FilesErrored > 0 {
		row("Files failed", stats.FilesErrored, s.Error.Render)
	}
	row("Blocks", stats.Blocks, s.SummaryValue.Render)
	row("Resolved", stats.Resolved, s.Resolved.Render)
	if stats.Unresolved > 0 {
		row("Unresolved", stats.Unresolved, s.Unresolved.Render)
	}
	if stats.Images > 0 {
		row("Images", stats.Images, s.SummaryValue.Render)
		if stats.ImagesUnresolved > 0 {
			row("Images unresolved", stats.ImagesUnresolved, s.Unresolved.Render)
		}
	}

	strategies := lo.Keys(stats.ByStrategy)
	slices.Sort(strategies)
	for _, name := range strategies {
		row("  "+name, stats.ByStrategy[name], s.Strategy.Render)
	}

	return b.String()
}
