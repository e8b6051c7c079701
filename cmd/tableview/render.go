package main

import (
	"math"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/nao1215/tableview"
	"github.com/nao1215/tableview/domain/model"
)

const (
	minCellWidth = 3
	maxCellWidth = 24
)

// defaultBarColor fills bars of rows without a bar color.
var defaultBarColor = model.RGB(70, 130, 180)

var (
	headerStyle = lipgloss.NewStyle().Bold(true)
	indexStyle  = lipgloss.NewStyle().Faint(true).Align(lipgloss.Right)
	statusStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("8")).
			Foreground(lipgloss.Color("15"))
)

// grid draws a rectangular part of a view model.
type grid struct {
	vm       *tableview.ViewModel
	firstRow int
	rows     int
	firstCol int
	cols     int
	// cellWidth fixes every column width. Zero sizes columns to their content.
	cellWidth int
	// cursorRow and cursorCol mark one cell; -1 disables the cursor.
	cursorRow int
	cursorCol int
}

// fullGrid covers up to maxRows rows and every column of vm.
func fullGrid(vm *tableview.ViewModel, maxRows int) grid {
	rows := vm.RowCount()
	if maxRows > 0 {
		rows = min(rows, maxRows)
	}
	return grid{vm: vm, rows: rows, cols: vm.ColumnCount(), cursorRow: -1, cursorCol: -1}
}

func (g grid) lastRow() int {
	return min(g.firstRow+g.rows, g.vm.RowCount())
}

func (g grid) lastCol() int {
	return min(g.firstCol+g.cols, g.vm.ColumnCount())
}

func (g grid) widths() []int {
	widths := make([]int, 0, g.cols)
	for c := g.firstCol; c < g.lastCol(); c++ {
		if g.cellWidth > 0 {
			widths = append(widths, g.cellWidth)
			continue
		}
		w := len([]rune(g.vm.HeaderData(c, tableview.Horizontal)))
		for r := g.firstRow; r < g.lastRow(); r++ {
			w = max(w, len([]rune(cellText(g.vm, r, c))))
		}
		widths = append(widths, min(max(w, minCellWidth), maxCellWidth))
	}
	return widths
}

// render returns the header line followed by one line per row.
func (g grid) render() string {
	if g.vm.ColumnCount() == 0 {
		return "No data available"
	}
	widths := g.widths()
	indexWidth := len(strconv.Itoa(max(g.lastRow()-1, 0)))

	lines := make([]string, 0, g.rows+1)
	cells := []string{indexStyle.Width(indexWidth).Render("")}
	for i, c := 0, g.firstCol; c < g.lastCol(); i, c = i+1, c+1 {
		cells = append(cells, " ", headerStyle.Width(widths[i]).Render(truncate(g.vm.HeaderData(c, tableview.Horizontal), widths[i])))
	}
	lines = append(lines, lipgloss.JoinHorizontal(lipgloss.Top, cells...))

	for r := g.firstRow; r < g.lastRow(); r++ {
		cells = []string{indexStyle.Width(indexWidth).Render(g.vm.HeaderData(r, tableview.Vertical))}
		for i, c := 0, g.firstCol; c < g.lastCol(); i, c = i+1, c+1 {
			cells = append(cells, " ", g.cell(r, c, widths[i]))
		}
		lines = append(lines, lipgloss.JoinHorizontal(lipgloss.Top, cells...))
	}
	return strings.Join(lines, "\n")
}

func (g grid) cell(row, col, width int) string {
	text := truncate(cellText(g.vm, row, col), width)
	style := lipgloss.NewStyle().Width(width)
	if g.vm.IsNumericColumn(col) {
		style = style.Align(lipgloss.Right)
	}
	if row == g.cursorRow && col == g.cursorCol {
		return style.Reverse(true).Render(text)
	}

	bg := g.vm.Background(row, col)
	fg := g.vm.Foreground(row, col)
	if frac, ok := g.vm.BarFraction(row, col); ok {
		if !bg.Valid {
			bg = defaultBarColor
		}
		// style only pads here, so the result is plain text.
		return renderBar(style.Render(text), frac, bg)
	}
	if bg.Valid {
		style = style.Background(lipgloss.Color(bg.Hex()))
		if !fg.Valid {
			fg = model.ContrastText(bg)
		}
	}
	if fg.Valid {
		style = style.Foreground(lipgloss.Color(fg.Hex()))
	}
	return style.Render(text)
}

// renderBar paints the leading |frac| share of an already padded cell with
// the bar color.
func renderBar(padded string, frac float64, bar model.Color) string {
	runes := []rune(padded)
	n := int(math.Round(math.Abs(frac) * float64(len(runes))))
	if n == 0 {
		return padded
	}
	filled := lipgloss.NewStyle().
		Background(lipgloss.Color(bar.Hex())).
		Foreground(lipgloss.Color(model.ContrastText(bar).Hex())).
		Render(string(runes[:n]))
	return filled + string(runes[n:])
}

func cellText(vm *tableview.ViewModel, row, col int) string {
	v, ok := vm.Display(row, col)
	if !ok {
		return ""
	}
	return v.String()
}

func truncate(s string, width int) string {
	runes := []rune(s)
	if len(runes) <= width {
		return s
	}
	if width <= 1 {
		return "…"
	}
	return string(runes[:width-1]) + "…"
}
