package models

import (
	"math/rand"
	"time"
)

// shuffleDensity is the mine density above which RandomPlacer stops
// rejection sampling and shuffles the whole board instead.
const shuffleDensity = 0.5

// Placer chooses where the mines of a rows x cols board go. It returns n
// distinct in-bounds coordinates.
type Placer interface {
	Place(rows, cols, n int) []Coord
}

// RandomPlacer places mines uniformly at random without replacement.
// It is not safe for concurrent use.
type RandomPlacer struct {
	rng *rand.Rand
}

// NewRandomPlacer returns a placer drawing from rng, or from a generator
// seeded with the current time when rng is nil.
func NewRandomPlacer(rng *rand.Rand) *RandomPlacer {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &RandomPlacer{rng: rng}
}

func (p *RandomPlacer) Place(rows, cols, n int) []Coord {
	total := rows * cols
	if n <= 0 || total <= 0 {
		return nil
	}
	n = min(n, total)

	if float64(n) > float64(total)*shuffleDensity {
		return p.shuffle(rows, cols, n)
	}
	return p.sample(rows, cols, n)
}

// sample picks random cells and rejects the ones already taken. Cheap while
// most of the board is free.
func (p *RandomPlacer) sample(rows, cols, n int) []Coord {
	taken := make(map[Coord]struct{}, n)
	coords := make([]Coord, 0, n)
	for len(coords) < n {
		// Pick any cell of the board.
		c := Coord{Row: p.rng.Intn(rows), Col: p.rng.Intn(cols)}
		// Try again when it already holds a mine.
		if _, ok := taken[c]; ok {
			continue
		}
		taken[c] = struct{}{}
		coords = append(coords, c)
	}
	return coords
}

// shuffle lists every cell, runs a Fisher–Yates shuffle and keeps the first
// n cells.
func (p *RandomPlacer) shuffle(rows, cols, n int) []Coord {
	// Step 1: list the coordinates of every cell on the board.
	coords := make([]Coord, rows*cols)
	for row := 0; row < rows; row++ {
		for col := 0; col < cols; col++ {
			coords[row*cols+col] = Coord{Row: row, Col: col}
		}
	}

	// Step 2: shuffle the list in place.
	// https://en.wikipedia.org/wiki/Fisher–Yates_shuffle
	for i := len(coords) - 1; i > 0; i-- {
		// Pick j in [0, i] and swap it into position i.
		j := p.rng.Intn(i + 1)
		coords[i], coords[j] = coords[j], coords[i]
	}

	// Step 3: the first n cells of the shuffled list get the mines.
	return coords[:n]
}

// FixedPlacer always places mines at the listed coordinates. Coordinates
// outside the board and repeated coordinates are skipped.
type FixedPlacer []Coord

func (f FixedPlacer) Place(rows, cols, n int) []Coord {
	seen := make(map[Coord]struct{}, len(f))
	coords := make([]Coord, 0, len(f))
	for _, c := range f {
		if len(coords) == n {
			break
		}
		if c.Row < 0 || c.Row >= rows || c.Col < 0 || c.Col >= cols {
			continue
		}
		if _, ok := seen[c]; ok {
			continue
		}
		seen[c] = struct{}{}
		coords = append(coords, c)
	}
	return coords
}
