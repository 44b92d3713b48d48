package models

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPresetsLookup(t *testing.T) {
	ps := DefaultPresets()

	p, err := ps.Lookup("beginner")
	require.NoError(t, err)
	assert.Equal(t, Beginner, p)

	_, err = ps.Lookup("Nightmare")
	assert.ErrorIs(t, err, ErrUnknownPreset)

	p, err = ps.Level(3)
	require.NoError(t, err)
	assert.Equal(t, "Expert", p.Name)

	_, err = ps.Level(0)
	assert.ErrorIs(t, err, ErrUnknownPreset)
	_, err = ps.Level(4)
	assert.ErrorIs(t, err, ErrUnknownPreset)

	assert.Equal(t, []string{"Beginner", "Intermediate", "Expert"}, ps.Names())
}

func TestPresetsOverride(t *testing.T) {
	ps := DefaultPresets()

	require.NoError(t, ps.Override("expert", 20, 24, 120))
	p, _ := ps.Lookup("Expert")
	assert.Equal(t, Preset{Name: "Expert", Rows: 20, Cols: 24, Mines: 120}, p)

	assert.Error(t, ps.Override("Beginner", 0, 9, 10))
	assert.Error(t, ps.Override("Beginner", 3, 3, 9))
	assert.ErrorIs(t, ps.Override("Custom", 5, 5, 5), ErrUnknownPreset)

	// The package level table is untouched.
	assert.Equal(t, 16, DefaultPresets()[2].Rows)
}

func TestPresetsAreValidBoards(t *testing.T) {
	for _, p := range DefaultPresets() {
		b := p.NewBoard()
		assert.Less(t, p.Mines, p.Rows*p.Cols)
		assert.Equal(t, p.Mines, b.MineCount(), p.Name)
	}
}

func TestRandomPlacerDistinct(t *testing.T) {
	p := NewRandomPlacer(rand.New(rand.NewSource(1)))
	for _, n := range []int{1, 10, 50, 99, 100} {
		coords := p.Place(10, 10, n)
		require.Len(t, coords, n)
		seen := map[Coord]bool{}
		for _, c := range coords {
			assert.False(t, seen[c], "duplicate %v", c)
			seen[c] = true
			assert.True(t, c.Row >= 0 && c.Row < 10 && c.Col >= 0 && c.Col < 10)
		}
	}
	assert.Empty(t, p.Place(10, 10, 0))
}

func TestFixedPlacerFiltersOutOfRange(t *testing.T) {
	f := FixedPlacer{{0, 0}, {5, 5}, {1, 1}, {-1, 0}}
	assert.Equal(t, []Coord{{0, 0}, {1, 1}}, f.Place(2, 2, 4))
	assert.Equal(t, []Coord{{0, 0}}, f.Place(2, 2, 1))

	b := NewBoardWithMines(2, 2, f)
	assert.Equal(t, 2, b.MineCount())
}

func TestFixedPlacerSkipsDuplicates(t *testing.T) {
	f := FixedPlacer{{0, 0}, {0, 0}, {1, 1}, {1, 1}, {2, 2}}
	assert.Equal(t, []Coord{{0, 0}, {1, 1}}, f.Place(3, 3, 2))
	assert.Equal(t, []Coord{{0, 0}, {1, 1}, {2, 2}}, f.Place(3, 3, 5))
}
