package models

// MineSentinel is the NearbyMines value carried by every mine cell.
const MineSentinel = -1

// GameStatus is the state of a single game. It leaves Playing at most once.
type GameStatus int

const (
	Playing GameStatus = iota
	Won
	Lost
)

func (s GameStatus) String() string {
	switch s {
	case Playing:
		return "playing"
	case Won:
		return "won"
	case Lost:
		return "lost"
	default:
		return "unknown"
	}
}

type Cell struct {
	IsMine      bool
	IsRevealed  bool
	IsFlagged   bool
	NearbyMines int
	// WasHitMine marks the mine whose opening lost the game.
	WasHitMine bool
}

// Coord addresses a cell by row and column.
type Coord struct {
	Row int
	Col int
}

// Board is the minesweeper engine. It owns the grid and the game status;
// callers change it only through Open, ToggleFlag and Reset and read it
// through copies.
//
// A Board is not safe for concurrent use.
type Board struct {
	cells      [][]Cell
	rows       int
	cols       int
	mineCount  int
	requested  int
	status     GameStatus
	unrevealed int
	flagged    int
	hit        Coord
	hasHit     bool
	placer     Placer
}

// Option configures a Board at construction time.
type Option func(*Board)

// WithPlacer replaces the random mine placement strategy.
func WithPlacer(p Placer) Option {
	return func(b *Board) {
		if p != nil {
			b.placer = p
		}
	}
}

// NewBoard creates a rows x cols board with the requested number of mines,
// clamped so at least one safe cell exists, and starts a game on it.
func NewBoard(rows, cols, mines int, opts ...Option) *Board {
	rows = max(rows, 1)
	cols = max(cols, 1)

	b := &Board{
		rows:      rows,
		cols:      cols,
		requested: ClampMines(rows, cols, mines),
	}
	for _, opt := range opts {
		opt(b)
	}
	if b.placer == nil {
		b.placer = NewRandomPlacer(nil)
	}

	b.Reset()
	return b
}

// NewBoardWithMines creates a board whose mines sit exactly at the given
// coordinates, on every reset. Out of range and duplicate coordinates are
// ignored.
func NewBoardWithMines(rows, cols int, mines []Coord) *Board {
	return NewBoard(rows, cols, len(mines), WithPlacer(FixedPlacer(mines)))
}

// ClampMines returns the mine count a rows x cols board will actually carry.
func ClampMines(rows, cols, mines int) int {
	return min(max(mines, 0), rows*cols-1)
}

// Reset wipes every cell, places the mines again and returns the board to
// Playing. Dimensions and mine count are kept.
func (b *Board) Reset() {
	b.cells = make([][]Cell, b.rows)
	for row := range b.cells {
		b.cells[row] = make([]Cell, b.cols)
	}

	b.status = Playing
	b.unrevealed = b.rows * b.cols
	b.flagged = 0
	b.hit = Coord{}
	b.hasHit = false
	b.mineCount = b.requested

	b.placeMines()
	b.countNearbyMines()
}

// placeMines asks the placer for the requested number of mines and marks
// them on the grid.
func (b *Board) placeMines() {
	placed := 0
	for _, c := range b.placer.Place(b.rows, b.cols, b.mineCount) {
		// Stop once the requested number of mines is on the board.
		if placed == b.mineCount {
			break
		}
		// Skip coordinates outside the grid and cells that already hold a mine.
		if !b.InBounds(c.Row, c.Col) || b.cells[c.Row][c.Col].IsMine {
			continue
		}
		b.cells[c.Row][c.Col].IsMine = true
		placed++
	}
	// A fixed layout may carry fewer usable coordinates than requested. The
	// win check compares against mineCount, so it must match the grid. The
	// requested count is kept apart so every Reset asks for the same number.
	b.mineCount = placed
}

// countNearbyMines fills NearbyMines for every cell of the grid. It runs once
// per placement, so opening a cell never has to count.
func (b *Board) countNearbyMines() {
	for row := 0; row < b.rows; row++ {
		for col := 0; col < b.cols; col++ {
			cell := &b.cells[row][col]
			// Mines carry the sentinel instead of a count.
			if cell.IsMine {
				cell.NearbyMines = MineSentinel
				continue
			}
			// Count the mines in the up to eight surrounding cells.
			count := 0
			b.forEachNeighbor(row, col, func(r, c int) {
				if b.cells[r][c].IsMine {
					count++
				}
			})
			cell.NearbyMines = count
		}
	}
}

// forEachNeighbor calls fn for every in-bounds cell of the Moore
// neighbourhood of (row, col).
func (b *Board) forEachNeighbor(row, col int, fn func(r, c int)) {
	for deltaRow := -1; deltaRow <= 1; deltaRow++ {
		for deltaCol := -1; deltaCol <= 1; deltaCol++ {
			if deltaRow == 0 && deltaCol == 0 {
				continue
			}
			if r, c := row+deltaRow, col+deltaCol; b.InBounds(r, c) {
				fn(r, c)
			}
		}
	}
}

// InBounds reports whether (row, col) addresses a cell of the board.
func (b *Board) InBounds(row, col int) bool {
	return row >= 0 && row < b.rows && col >= 0 && col < b.cols
}

// Open reveals the cell at (row, col) and returns the resulting status.
//
// Opening is a no-op once the game has ended, outside the board, and on
// revealed or flagged cells. Opening a mine loses the game and reveals every
// mine. Opening a cell with no neighbouring mines flood-fills its zero
// region. The win condition is checked after every revealed cell.
func (b *Board) Open(row, col int) GameStatus {
	if b.status != Playing || !b.InBounds(row, col) {
		return b.status
	}

	cell := &b.cells[row][col]
	if cell.IsRevealed || cell.IsFlagged {
		return b.status
	}

	b.reveal(row, col)

	if cell.IsMine {
		cell.WasHitMine = true
		b.hit = Coord{Row: row, Col: col}
		b.hasHit = true
		b.status = Lost
		b.revealMines()
		return b.status
	}

	if b.checkWin() {
		return b.status
	}

	if cell.NearbyMines == 0 {
		b.floodFill(row, col)
	}

	return b.status
}

// floodFill reveals the zero region around (row, col) and its boundary of
// numbered cells. IsRevealed doubles as the visited marker.
func (b *Board) floodFill(row, col int) {
	// Step 1: start from the opened cell. It is already revealed by Open.
	stack := []Coord{{Row: row, Col: col}}
	for len(stack) > 0 && b.status == Playing {
		// Step 2: take the most recently found zero cell off the stack.
		next := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		// Step 3: reveal its neighbours and queue the ones that are zero too.
		b.forEachNeighbor(next.Row, next.Col, func(r, c int) {
			// A win earlier in this loop ends the fill.
			if b.status != Playing {
				return
			}
			neighbor := &b.cells[r][c]
			// Revealed cells were visited already; flagged cells are left
			// for the player.
			if neighbor.IsRevealed || neighbor.IsFlagged {
				return
			}
			b.reveal(r, c)
			if b.checkWin() {
				return
			}
			// Numbered cells form the border of the region and are not
			// expanded.
			if neighbor.NearbyMines == 0 {
				stack = append(stack, Coord{Row: r, Col: c})
			}
		})
	}
}

func (b *Board) reveal(row, col int) {
	b.cells[row][col].IsRevealed = true
	b.unrevealed--
}

func (b *Board) revealMines() {
	for row := range b.cells {
		for col := range b.cells[row] {
			if cell := &b.cells[row][col]; cell.IsMine && !cell.IsRevealed {
				b.reveal(row, col)
			}
		}
	}
}

// checkWin moves the game to Won when only mines are left unrevealed, and
// flags every mine for display.
func (b *Board) checkWin() bool {
	if b.unrevealed != b.mineCount {
		return false
	}

	b.status = Won
	for row := range b.cells {
		for col := range b.cells[row] {
			if cell := &b.cells[row][col]; cell.IsMine && !cell.IsFlagged {
				cell.IsFlagged = true
				b.flagged++
			}
		}
	}
	return true
}

// ToggleFlag flips the flag on an unrevealed cell and returns the change in
// the number of flags: +1, -1, or 0 when nothing changed.
func (b *Board) ToggleFlag(row, col int) int {
	if b.status != Playing || !b.InBounds(row, col) {
		return 0
	}

	cell := &b.cells[row][col]
	if cell.IsRevealed {
		return 0
	}

	cell.IsFlagged = !cell.IsFlagged
	if cell.IsFlagged {
		b.flagged++
		return 1
	}
	b.flagged--
	return -1
}

func (b *Board) Rows() int          { return b.rows }
func (b *Board) Cols() int          { return b.cols }
func (b *Board) MineCount() int     { return b.mineCount }
func (b *Board) Status() GameStatus { return b.status }

// Flagged is the number of flagged cells, including the mines flagged
// automatically on a win.
func (b *Board) Flagged() int { return b.flagged }

// Unrevealed is the number of cells not yet revealed.
func (b *Board) Unrevealed() int { return b.unrevealed }

// HitMine returns the mine that lost the game, if any.
func (b *Board) HitMine() (Coord, bool) {
	return b.hit, b.hasHit
}

// Cell returns a copy of the cell at (row, col).
func (b *Board) Cell(row, col int) (Cell, bool) {
	if !b.InBounds(row, col) {
		return Cell{}, false
	}
	return b.cells[row][col], true
}

// Cells returns a copy of the whole grid.
func (b *Board) Cells() [][]Cell {
	grid := make([][]Cell, b.rows)
	for row := range b.cells {
		grid[row] = make([]Cell, b.cols)
		copy(grid[row], b.cells[row])
	}
	return grid
}
