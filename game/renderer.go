package game

import (
	"fmt"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
)

var countColors = [...]tcell.Color{
	tcell.ColorDefault,
	tcell.ColorBlue,
	tcell.ColorGreen,
	tcell.ColorRed,
	tcell.ColorNavy,
	tcell.ColorMaroon,
	tcell.ColorTeal,
	tcell.ColorWhite,
	tcell.ColorGray,
}

var faceGlyphs = map[Face]string{
	FaceNeutral: ":)",
	FaceDead:    "X(",
	FaceWin:     "B)",
	FacePressed: ":o",
}

// Renderer draws a View into tview primitives.
type Renderer struct {
	boardTable *tview.Table
	header     *tview.TextView
	footer     *tview.TextView
}

func NewRenderer() *Renderer {
	r := &Renderer{
		boardTable: tview.NewTable(),
		header:     tview.NewTextView().SetDynamicColors(true).SetTextAlign(tview.AlignCenter),
		footer:     tview.NewTextView().SetDynamicColors(true).SetTextAlign(tview.AlignCenter),
	}
	r.boardTable.SetSelectable(true, true)
	r.boardTable.SetBorder(true)
	r.footer.SetText("[::d]arrows move · enter/space open · f flag · r restart · 1-3 difficulty · q quit")
	return r
}

// Layout stacks the header, the board and the help line.
func (r *Renderer) Layout() tview.Primitive {
	return tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(r.header, 1, 0, false).
		AddItem(r.boardTable, 0, 1, true).
		AddItem(r.footer, 1, 0, false)
}

// DrawBoard redraws the header and every cell. The table is cleared when the
// board dimensions change.
func (r *Renderer) DrawBoard(v View) {
	if r.boardTable.GetRowCount() != v.Rows || r.boardTable.GetColumnCount() != v.Cols {
		r.boardTable.Clear()
		r.boardTable.Select(0, 0)
	}
	for row := range v.Cells {
		for col := range v.Cells[row] {
			r.RenderCell(v, row, col)
		}
	}
	r.DrawHeader(v)
}

// DrawHeader redraws the counters line only; the timer tick uses it.
func (r *Renderer) DrawHeader(v View) {
	r.header.SetText(fmt.Sprintf("%s   mines %d   [%s]%s[-]   time %s   best %s   %s",
		v.Preset, v.MinesLeft, statusColor(v), faceGlyphs[v.Face], v.ElapsedText, v.BestText, v.StatusText))
}

func (r *Renderer) RenderCell(v View, row, col int) {
	cell := v.Cells[row][col]

	text := "."
	color := tcell.ColorDefault
	switch {
	case cell.State == CellFlagged:
		text, color = "F", tcell.ColorYellow
	case cell.State == CellRevealed && cell.Hit:
		text, color = "X", tcell.ColorRed
	case cell.State == CellRevealed && cell.Mine:
		text, color = "*", tcell.ColorRed
	case cell.State == CellRevealed && cell.Count == 0:
		text = " "
	case cell.State == CellRevealed:
		text, color = fmt.Sprintf("%d", cell.Count), countColors[cell.Count]
	}

	r.boardTable.SetCell(row, col, tview.NewTableCell(text).
		SetAlign(tview.AlignCenter).
		SetTextColor(color))
}

func statusColor(v View) string {
	switch v.Face {
	case FaceWin:
		return "green"
	case FaceDead:
		return "red"
	default:
		return "yellow"
	}
}
