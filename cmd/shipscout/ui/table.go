package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Table renders static tabular data: the entity sections (two fixed
// columns) and the flattened payload table (data-dependent columns).
type Table struct {
	Title   string
	Headers []string
	Rows    [][]string

	// MaxCellWidth truncates wide cells; zero means no limit.
	MaxCellWidth int
}

// NewTable creates a table with the given title and headers.
func NewTable(title string, headers ...string) *Table {
	return &Table{Title: title, Headers: headers}
}

// NewFieldTable creates the two-column table used by the entity sections.
func NewFieldTable(title string) *Table {
	return NewTable(title, "Field", "Value")
}

// AddRow adds a row to the table.
func (t *Table) AddRow(row ...string) {
	t.Rows = append(t.Rows, row)
}

// View renders the table using the provided styles. An empty table renders
// nothing; the caller decides whether absence needs a message.
func (t *Table) View(styles Styles) string {
	if len(t.Rows) == 0 {
		return ""
	}

	var sb strings.Builder
	if t.Title != "" {
		sb.WriteString(styles.Section.Render(t.Title))
		sb.WriteString("\n")
	}

	clip := func(cell string) string {
		if t.MaxCellWidth > 0 && lipgloss.Width(cell) > t.MaxCellWidth {
			r := []rune(cell)
			if len(r) > t.MaxCellWidth-1 {
				r = r[:t.MaxCellWidth-1]
			}
			return string(r) + "…"
		}
		return cell
	}

	colWidths := make([]int, len(t.Headers))
	for i, h := range t.Headers {
		colWidths[i] = lipgloss.Width(h)
	}
	for _, row := range t.Rows {
		for i, cell := range row {
			if i >= len(colWidths) {
				break
			}
			if w := lipgloss.Width(clip(cell)); w > colWidths[i] {
				colWidths[i] = w
			}
		}
	}
	// Widths include the cell padding below.
	for i := range colWidths {
		colWidths[i] += 2
	}

	headerStyle := styles.Bold.Padding(0, 1)
	rowStyle := styles.Body.Padding(0, 1)
	sepStyle := styles.Muted

	for i, h := range t.Headers {
		sb.WriteString(headerStyle.Width(colWidths[i]).Render(h))
		if i < len(t.Headers)-1 {
			sb.WriteString(sepStyle.Render("|"))
		}
	}
	sb.WriteString("\n")

	totalWidth := len(t.Headers) - 1
	for _, w := range colWidths {
		totalWidth += w
	}
	sb.WriteString(sepStyle.Render(strings.Repeat("-", totalWidth)) + "\n")

	for _, row := range t.Rows {
		for i, cell := range row {
			if i >= len(colWidths) {
				break
			}
			sb.WriteString(rowStyle.Width(colWidths[i]).Render(clip(cell)))
			if i < len(row)-1 {
				sb.WriteString(sepStyle.Render("|"))
			}
		}
		sb.WriteString("\n")
	}

	return sb.String()
}
