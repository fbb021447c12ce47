package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

// ListRow is one selectable row: a deposition/summary pair, or a
// standalone deposition with no summary.
type ListRow struct {
	Case       string
	Deposition string
	Summary    string
}

// PairList renders the case-grouped selection table with its own
// scrolling logic.
type PairList struct {
	rows        []ListRow
	cursor      int
	width       int
	height      int
	visibleRows int

	headerStyle   lipgloss.Style
	cellStyle     lipgloss.Style
	selectedStyle lipgloss.Style
	columns       []table.Column
}

func listColumns(width int) []table.Column {
	// Each cell has Padding(0,1) adding 2 chars per column, plus a safety
	// margin to avoid hitting exact terminal width.
	caseWidth := 24
	padding := 3*2 + 2
	fileWidth := (width - caseWidth - padding) / 2
	if fileWidth < 16 {
		fileWidth = 16
	}
	return []table.Column{
		{Title: "Case", Width: caseWidth},
		{Title: "Deposition", Width: fileWidth},
		{Title: "Summary", Width: fileWidth},
	}
}

func NewPairList(width, height int) PairList {
	headerStyle := lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	selectedStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57"))
	cellStyle := lipgloss.NewStyle().Padding(0, 1)

	// Reserve space for: header(2) + status(1) + footer(3)
	visibleRows := height - 8
	if visibleRows < 3 {
		visibleRows = 3
	}

	return PairList{
		width:         width,
		height:        height,
		visibleRows:   visibleRows,
		headerStyle:   headerStyle,
		cellStyle:     cellStyle,
		selectedStyle: selectedStyle,
		columns:       listColumns(width),
	}
}

// UpdateStyles updates the styles to match the current theme
func (pl *PairList) UpdateStyles(theme Theme) {
	pl.headerStyle = lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color(theme.Subtle)).
		BorderBottom(true).
		Bold(true).
		Foreground(lipgloss.Color(theme.Primary))
	pl.selectedStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color(theme.Background)).
		Background(lipgloss.Color(theme.Primary))
}

// SetRows replaces the rows. The caller supplies them already grouped by
// case; row indices must stay stable for selection.
func (pl *PairList) SetRows(rows []ListRow) {
	pl.rows = rows
	if pl.cursor >= len(pl.rows) {
		pl.cursor = 0
	}
}

func (pl PairList) Cursor() int {
	return pl.cursor
}

func (pl *PairList) MoveCursor(delta int) {
	newPos := pl.cursor + delta
	if newPos >= 0 && newPos < len(pl.rows) {
		pl.cursor = newPos
	}
}

func (pl PairList) GetRow(index int) *ListRow {
	if index >= 0 && index < len(pl.rows) {
		return &pl.rows[index]
	}
	return nil
}

func (pl PairList) Len() int {
	return len(pl.rows)
}

func Truncate(s string, maxLen int) string {
	if runewidth.StringWidth(s) > maxLen {
		return runewidth.Truncate(s, maxLen, "…")
	}
	return s
}

func (pl *PairList) renderCell(value string, colWidth int) string {
	style := lipgloss.NewStyle().Width(colWidth).MaxWidth(colWidth).Inline(true)
	return pl.cellStyle.Render(style.Render(runewidth.Truncate(value, colWidth, "…")))
}

// View renders the table with explicit scrolling, keeping the cursor row
// inside the visible window.
func (pl PairList) View() string {
	headerCells := make([]string, 0, len(pl.columns))
	for _, col := range pl.columns {
		style := lipgloss.NewStyle().Width(col.Width).MaxWidth(col.Width).Inline(true)
		cell := style.Render(runewidth.Truncate(col.Title, col.Width, "…"))
		headerCells = append(headerCells, pl.headerStyle.Render(pl.cellStyle.Render(cell)))
	}
	header := lipgloss.JoinHorizontal(lipgloss.Top, headerCells...)

	visibleRows := pl.visibleRows
	if visibleRows <= 0 {
		visibleRows = 10
	}

	start := 0
	if pl.cursor >= visibleRows {
		start = pl.cursor - visibleRows + 1
	}
	end := start + visibleRows
	if end > len(pl.rows) {
		end = len(pl.rows)
		start = end - visibleRows
		if start < 0 {
			start = 0
		}
	}

	renderedRows := make([]string, 0, visibleRows)
	lastCase := ""
	if start > 0 {
		lastCase = pl.rows[start-1].Case
	}
	for i := start; i < end; i++ {
		r := pl.rows[i]
		caseCell := r.Case
		if r.Case == lastCase {
			caseCell = ""
		}
		lastCase = r.Case

		summary := r.Summary
		if summary == "" {
			summary = "—"
		}

		cells := []string{
			pl.renderCell(caseCell, pl.columns[0].Width),
			pl.renderCell(r.Deposition, pl.columns[1].Width),
			pl.renderCell(summary, pl.columns[2].Width),
		}
		row := lipgloss.JoinHorizontal(lipgloss.Top, cells...)
		if i == pl.cursor {
			row = pl.selectedStyle.Render(row)
		}
		renderedRows = append(renderedRows, row)
	}

	for len(renderedRows) < visibleRows {
		renderedRows = append(renderedRows, "")
	}

	return header + "\n" + strings.Join(renderedRows, "\n")
}

func (pl *PairList) SetWidthHeight(width, height int) {
	pl.width = width
	pl.height = height
	pl.columns = listColumns(width)

	visibleRows := height - 8
	if visibleRows < 3 {
		visibleRows = 3
	}
	pl.visibleRows = visibleRows
}
