package pretty

import (
	"fmt"
	"strings"

	"github.com/yaklabco/mdsync/pkg/runner"
)

// Table formatting constants.
const (
	tablePadding     = 2
	tableColumnCount = 6 // #, KIND, SPAN, LOC, STRATEGY, TEXT
	minIndexWidth    = 3
	minKindWidth     = 9
	minSpanWidth     = 12
	minLocWidth      = 7
	minStrategyWidth = 10
	minTextWidth     = 20
	heavySeparator   = "="
	lightSeparator   = "-"
	defaultTermWidth = 100
)

// TableFormatter formats resolved blocks as a styled table.
type TableFormatter struct {
	styles       *Styles
	colorEnabled bool
	termWidth    int
}

// NewTableFormatter creates a new table formatter.
func NewTableFormatter(styles *Styles, colorEnabled bool, termWidth int) *TableFormatter {
	if termWidth <= 0 {
		termWidth = defaultTermWidth
	}
	return &TableFormatter{
		styles:       styles,
		colorEnabled: colorEnabled,
		termWidth:    termWidth,
	}
}

type columnWidths struct {
	index    int
	kind     int
	span     int
	loc      int
	strategy int
	text     int
}

func (w columnWidths) total() int {
	return w.index + w.kind + w.span + w.loc + w.strategy + w.text + tablePadding*tableColumnCount
}

// FormatFileTable formats one file's blocks as a table. Files that
// failed or have no blocks yield "".
func (t *TableFormatter) FormatFileTable(file runner.FileOutcome) string {
	if file.Result == nil || len(file.Result.Blocks) == 0 {
		return ""
	}

	rows := make([]BlockRow, 0, len(file.Result.Blocks))
	for _, block := range file.Result.Blocks {
		rows = append(rows, NewBlockRow(file.Result.Document, block))
	}
	widths := t.calculateColumnWidths(rows)

	var b strings.Builder
	b.WriteString(t.formatHeader(widths) + "\n")
	b.WriteString(t.formatSeparator(widths, heavySeparator) + "\n")
	for _, row := range rows {
		b.WriteString(t.formatRow(row, widths) + "\n")
	}
	b.WriteString(t.formatSeparator(widths, lightSeparator) + "\n")
	b.WriteString(t.formatLegend() + "\n")
	return b.String()
}

func (t *TableFormatter) calculateColumnWidths(rows []BlockRow) columnWidths {
	widths := columnWidths{
		index:    minIndexWidth,
		kind:     minKindWidth,
		span:     minSpanWidth,
		loc:      minLocWidth,
		strategy: minStrategyWidth,
		text:     minTextWidth,
	}

	for _, row := range rows {
		widths.index = max(widths.index, len(fmt.Sprint(row.Index)))
		widths.kind = max(widths.kind, len(row.Kind))
		widths.span = max(widths.span, len(row.Span.String()))
		widths.loc = max(widths.loc, len(row.Location))
		widths.strategy = max(widths.strategy, len(row.Strategy))
	}

	// TEXT takes whatever the terminal has left.
	widths.text = max(minTextWidth, t.termWidth-widths.total()+widths.text)
	return widths
}

func (t *TableFormatter) formatHeader(w columnWidths) string {
	header := fmt.Sprintf(" %-*s  %-*s  %-*s  %-*s  %-*s  %-*s ",
		w.index, "#",
		w.kind, "KIND",
		w.span, "SPAN",
		w.loc, "LOC",
		w.strategy, "STRATEGY",
		w.text, "TEXT",
	)
	return t.styles.TableHeader.Render(header)
}

func (t *TableFormatter) formatSeparator(w columnWidths, char string) string {
	return t.styles.TableSeparator.Render(strings.Repeat(char, w.total()))
}

func (t *TableFormatter) formatRow(row BlockRow, w columnWidths) string {
	content := fmt.Sprintf(" %-*d  %-*s  %-*s  %-*s  %-*s  %s",
		w.index, row.Index,
		w.kind, row.Kind,
		w.span, row.Span.String(),
		w.loc, row.Location,
		w.strategy, row.Strategy,
		Excerpt(row.Excerpt, w.text),
	)
	if !row.Resolved() {
		return t.styles.TableUnresolvedRow.Render(content)
	}
	return content
}

func (t *TableFormatter) formatLegend() string {
	if !t.colorEnabled {
		return t.styles.TableLegend.Render(" Legend: SPAN = source bytes [start,end) | LOC = line:column")
	}
	return t.styles.TableLegend.Render(fmt.Sprintf(" Legend: %s = no source span",
		t.styles.TableUnresolvedRow.Render(" unresolved ")))
}

// FormatTableSummary formats a summary line for table output.
func (t *TableFormatter) FormatTableSummary(stats runner.Stats, duration string) string {
	parts := []string{
		plural(stats.FilesProcessed, "file", "files") + " resolved",
		plural(stats.Blocks, "block", "blocks"),
	}
	if stats.Unresolved > 0 {
		parts = append(parts, t.styles.Unresolved.Render(fmt.Sprintf("%d unresolved", stats.Unresolved)))
	}
	if stats.ImagesUnresolved > 0 {
		parts = append(parts, t.styles.Unresolved.Render(plural(stats.ImagesUnresolved, "image", "images")+" unresolved"))
	}
	if stats.FilesErrored > 0 {
		parts = append(parts, t.styles.Error.Render(plural(stats.FilesErrored, "file", "files")+" failed"))
	}
	if duration != "" {
		parts = append(parts, t.styles.Dim.Render(duration))
	}
	return " " + strings.Join(parts, " | ")
}
