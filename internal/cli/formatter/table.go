package formatter

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const colGap = 2

// RenderTable lays rows out under bold headers with a dim rule beneath them.
// Widths are measured with lipgloss so styled cells such as status pills
// still line up. Short rows are padded with blanks and extra cells dropped.
// No rows renders a dimmed "(none)" line.
func RenderTable(headers []string, rows [][]string) string {
	if len(headers) == 0 {
		return ""
	}
	widths := columnWidths(headers, rows)

	head := make([]string, len(headers))
	rule := make([]string, len(headers))
	for i, h := range headers {
		head[i] = StyleHeader.Render(h)
		rule[i] = StyleDim.Render(strings.Repeat("─", widths[i]))
	}

	var b strings.Builder
	writeRow(&b, widths, head)
	writeRow(&b, widths, rule)
	if len(rows) == 0 {
		b.WriteString(StyleDim.Render("(none)") + "\n")
	}
	for _, row := range rows {
		writeRow(&b, widths, row)
	}
	return b.String()
}

func columnWidths(headers []string, rows [][]string) []int {
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = lipgloss.Width(h)
	}
	for _, row := range rows {
		for i := 0; i < len(widths) && i < len(row); i++ {
			widths[i] = max(widths[i], lipgloss.Width(row[i]))
		}
	}
	return widths
}

// writeRow pads every cell but the last to its column width.
func writeRow(b *strings.Builder, widths []int, cells []string) {
	last := len(widths) - 1
	for i := range widths {
		cell := ""
		if i < len(cells) {
			cell = cells[i]
		}
		b.WriteString(cell)
		if i < last {
			b.WriteString(strings.Repeat(" ", max(widths[i]-lipgloss.Width(cell), 0)+colGap))
		}
	}
	b.WriteString("\n")
}
