package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Table renders rows as space-aligned columns without borders. Widths are
// measured with lipgloss so styled cells line up.
type Table struct {
	rows       [][]string
	colWidths  []int
	colPadding int
	maxWidth   int
}

// NewTable creates a new table with the specified number of columns
func NewTable(cols int) *Table {
	return &Table{
		colWidths:  make([]int, cols),
		colPadding: 2,
	}
}

// SetMaxWidth truncates each rendered line to width cells. Zero disables
// truncation.
func (t *Table) SetMaxWidth(width int) {
	t.maxWidth = width
}

// AddRow adds a row to the table. Missing cells are left empty.
func (t *Table) AddRow(cells ...string) {
	row := make([]string, len(t.colWidths))
	for i := 0; i < len(t.colWidths) && i < len(cells); i++ {
		row[i] = cells[i]
		if w := lipgloss.Width(cells[i]); w > t.colWidths[i] {
			t.colWidths[i] = w
		}
	}
	t.rows = append(t.rows, row)
}

// Len returns the number of rows.
func (t *Table) Len() int { return len(t.rows) }

// String renders the table as a string
func (t *Table) String() string {
	if len(t.rows) == 0 {
		return ""
	}

	var sb strings.Builder
	padding := strings.Repeat(" ", t.colPadding)

	for _, row := range t.rows {
		var line strings.Builder
		for i, cell := range row {
			if i > 0 {
				line.WriteString(padding)
			}
			line.WriteString(cell)
			if i < len(row)-1 {
				line.WriteString(strings.Repeat(" ", t.colWidths[i]-lipgloss.Width(cell)))
			}
		}
		out := strings.TrimRight(line.String(), " ")
		if t.maxWidth > 0 && lipgloss.Width(out) > t.maxWidth {
			out = lipgloss.NewStyle().MaxWidth(t.maxWidth).Render(out)
		}
		sb.WriteString(out)
		sb.WriteString("\n")
	}

	return sb.String()
}
