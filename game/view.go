package game

import "github.com/dimaq12/minesweeper/models"

type CellState string

const (
	CellHidden   CellState = "hidden"
	CellFlagged  CellState = "flagged"
	CellRevealed CellState = "revealed"
)

// Face is the smiley shown above the board.
type Face string

const (
	FaceNeutral Face = "neutral"
	FaceDead    Face = "dead"
	FaceWin     Face = "win"
	// FacePressed is shown while a cell is held down. Only front-ends with a
	// pointer use it; a View never reports it.
	FacePressed Face = "pressed"
)

// CellView is what a player may know about one cell. Hidden cells carry no
// mine information.
type CellView struct {
	State CellState `json:"state"`
	Count int       `json:"count,omitempty"`
	Mine  bool      `json:"mine,omitempty"`
	Hit   bool      `json:"hit,omitempty"`
}

// View is a render-ready snapshot of a game.
type View struct {
	Preset      string       `json:"preset"`
	Rows        int          `json:"rows"`
	Cols        int          `json:"cols"`
	Mines       int          `json:"mines"`
	MinesLeft   int          `json:"mines_left"`
	Status      string       `json:"status"`
	StatusText  string       `json:"status_text"`
	Face        Face         `json:"face"`
	Elapsed     int          `json:"elapsed"`
	ElapsedText string       `json:"elapsed_text"`
	Best        *int         `json:"best"`
	BestText    string       `json:"best_text"`
	Cells       [][]CellView `json:"cells"`
}

func newView(s *MinesweeperService) View {
	grid := s.board.Cells()
	cells := make([][]CellView, len(grid))
	for row := range grid {
		cells[row] = make([]CellView, len(grid[row]))
		for col, c := range grid[row] {
			cells[row][col] = cellView(c)
		}
	}

	status := s.board.Status()
	elapsed := s.Elapsed()
	v := View{
		Preset:      s.preset.Name,
		Rows:        s.board.Rows(),
		Cols:        s.board.Cols(),
		Mines:       s.board.MineCount(),
		MinesLeft:   s.MinesLeft(),
		Status:      status.String(),
		StatusText:  statusText(status),
		Face:        faceFor(status),
		Elapsed:     elapsed,
		ElapsedText: FormatTime(elapsed),
		BestText:    "—",
		Cells:       cells,
	}
	if best, ok := s.Best(); ok {
		v.Best = &best
		v.BestText = FormatTime(best)
	}
	return v
}

func cellView(c models.Cell) CellView {
	switch {
	case c.IsRevealed && c.IsMine:
		return CellView{State: CellRevealed, Mine: true, Hit: c.WasHitMine}
	case c.IsRevealed:
		return CellView{State: CellRevealed, Count: c.NearbyMines}
	case c.IsFlagged:
		return CellView{State: CellFlagged}
	default:
		return CellView{State: CellHidden}
	}
}

func statusText(s models.GameStatus) string {
	switch s {
	case models.Won:
		return "You Win!"
	case models.Lost:
		return "Game Over"
	default:
		return "Playing"
	}
}

func faceFor(s models.GameStatus) Face {
	switch s {
	case models.Won:
		return FaceWin
	case models.Lost:
		return FaceDead
	default:
		return FaceNeutral
	}
}
