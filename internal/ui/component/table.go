package component

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/rovshanmuradov/dealiq/internal/ui/style"
)

// TableColumn represents a column configuration
type TableColumn struct {
	Header string
	Width  int
	Align  lipgloss.Position
}

// TableRow is one row of plain cell text. Style colors the whole row
// unless the row is selected.
type TableRow struct {
	Data  []string
	Style lipgloss.Style
}

// Table renders a fixed-column, single-selection table.
type Table struct {
	columns     []TableColumn
	rows        []TableRow
	width       int
	selectedRow int

	headerStyle      lipgloss.Style
	rowStyle         lipgloss.Style
	selectedRowStyle lipgloss.Style
	borderStyle      lipgloss.Style

	showBorder bool
}

// NewTable creates a new table component
func NewTable() *Table {
	palette := style.DefaultPalette()

	return &Table{
		headerStyle:      style.TableHeaderStyle,
		rowStyle:         style.TableRowStyle,
		selectedRowStyle: style.TableRowSelectedStyle,
		borderStyle: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(palette.TextMuted),
		showBorder: true,
	}
}

// AddColumn adds a column; width 0 shares whatever SetWidth leaves over.
func (t *Table) AddColumn(header string, width int, align lipgloss.Position) *Table {
	t.columns = append(t.columns, TableColumn{Header: header, Width: width, Align: align})
	return t
}

// SetRows replaces all rows and keeps the selection in range.
func (t *Table) SetRows(rows [][]string) *Table {
	t.rows = make([]TableRow, len(rows))
	for i, data := range rows {
		t.rows[i] = TableRow{Data: data, Style: t.rowStyle}
	}
	t.selectedRow = clamp(t.selectedRow, 0, len(t.rows)-1)
	return t
}

// SetRowStyle sets a custom style for a specific row
func (t *Table) SetRowStyle(index int, s lipgloss.Style) *Table {
	if index >= 0 && index < len(t.rows) {
		t.rows[index].Style = s
	}
	return t
}

// SetWidth sets the total width used for auto-sized columns.
func (t *Table) SetWidth(width int) *Table {
	t.width = width
	return t
}

// SetSelectedRow sets the currently selected row
func (t *Table) SetSelectedRow(index int) *Table {
	if index >= 0 && index < len(t.rows) {
		t.selectedRow = index
	}
	return t
}

// ClearSelection hides the cursor until the next move.
func (t *Table) ClearSelection() *Table {
	t.selectedRow = -1
	return t
}

// SelectedRow returns the currently selected row index
func (t *Table) SelectedRow() int {
	return t.selectedRow
}

// MoveUp moves selection up
func (t *Table) MoveUp() *Table {
	if t.selectedRow > 0 {
		t.selectedRow--
	}
	return t
}

// MoveDown moves selection down
func (t *Table) MoveDown() *Table {
	if t.selectedRow < len(t.rows)-1 {
		t.selectedRow++
	}
	return t
}

// SetShowBorder enables/disables table border
func (t *Table) SetShowBorder(show bool) *Table {
	t.showBorder = show
	return t
}

// RowCount returns the number of rows
func (t *Table) RowCount() int {
	return len(t.rows)
}

// View renders the table
func (t *Table) View() string {
	if len(t.columns) == 0 {
		return "No columns defined"
	}

	widths := t.columnWidths()
	var content strings.Builder

	for i, col := range t.columns {
		content.WriteString(renderCell(col.Header, widths[i], col.Align, t.headerStyle))
		if i < len(t.columns)-1 {
			content.WriteString("│")
		}
	}
	content.WriteString("\n")
	for i := range t.columns {
		// cells carry one column of padding on each side
		content.WriteString(strings.Repeat("─", widths[i]+2))
		if i < len(t.columns)-1 {
			content.WriteString("┼")
		}
	}

	for rowIndex, row := range t.rows {
		content.WriteString("\n")
		rowStyle := row.Style
		if rowIndex == t.selectedRow {
			rowStyle = t.selectedRowStyle
		}
		for i, col := range t.columns {
			cell := ""
			if i < len(row.Data) {
				cell = row.Data[i]
			}
			content.WriteString(renderCell(cell, widths[i], col.Align, rowStyle))
			if i < len(t.columns)-1 {
				content.WriteString("│")
			}
		}
	}

	if t.showBorder {
		return t.borderStyle.Render(content.String())
	}
	return content.String()
}

func renderCell(content string, width int, align lipgloss.Position, s lipgloss.Style) string {
	return s.Width(width + 2).Align(align).Render(truncate(content, width))
}

// truncate shortens s to width runes, marking the cut with an ellipsis.
func truncate(s string, width int) string {
	r := []rune(s)
	if len(r) <= width {
		return s
	}
	if width <= 1 {
		return string(r[:max(width, 0)])
	}
	return string(r[:width-1]) + "…"
}

func (t *Table) columnWidths() []int {
	widths := make([]int, len(t.columns))
	fixed, auto := 0, 0
	for i, col := range t.columns {
		widths[i] = col.Width
		if col.Width > 0 {
			fixed += col.Width + 2
		} else {
			auto++
		}
	}
	if auto == 0 {
		return widths
	}

	share := 10
	if avail := t.width - fixed - (len(t.columns) - 1) - 2*auto; t.width > 0 && avail > 0 {
		share = max(avail/auto, 4)
	}
	for i := range widths {
		if widths[i] <= 0 {
			widths[i] = share
		}
	}
	return widths
}

func clamp(v, lo, hi int) int {
	if hi < lo {
		return lo
	}
	return min(max(v, lo), hi)
}
