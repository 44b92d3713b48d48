package models

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownPreset is returned when a preset name or level matches nothing.
var ErrUnknownPreset = errors.New("unknown preset")

// Preset is a named difficulty: board size and mine count.
type Preset struct {
	Name  string `json:"name"`
	Rows  int    `json:"rows"`
	Cols  int    `json:"cols"`
	Mines int    `json:"mines"`
}

var (
	Beginner     = Preset{Name: "Beginner", Rows: 9, Cols: 9, Mines: 10}
	Intermediate = Preset{Name: "Intermediate", Rows: 16, Cols: 16, Mines: 40}
	Expert       = Preset{Name: "Expert", Rows: 16, Cols: 30, Mines: 99}
)

// NewBoard creates a board sized for the preset.
func (p Preset) NewBoard(opts ...Option) *Board {
	return NewBoard(p.Rows, p.Cols, p.Mines, opts...)
}

// Presets is the ordered difficulty table. Level 1 is the first entry.
type Presets []Preset

// DefaultPresets returns a fresh copy of the built-in table.
func DefaultPresets() Presets {
	return Presets{Beginner, Intermediate, Expert}
}

// Lookup finds a preset by name, ignoring case.
func (ps Presets) Lookup(name string) (Preset, error) {
	for _, p := range ps {
		if strings.EqualFold(p.Name, name) {
			return p, nil
		}
	}
	return Preset{}, fmt.Errorf("%w: %q", ErrUnknownPreset, name)
}

// Level returns the preset for a 1-based level number.
func (ps Presets) Level(level int) (Preset, error) {
	if level < 1 || level > len(ps) {
		return Preset{}, fmt.Errorf("%w: level %d", ErrUnknownPreset, level)
	}
	return ps[level-1], nil
}

// Override replaces the dimensions of an existing preset. New names cannot
// be added.
func (ps Presets) Override(name string, rows, cols, mines int) error {
	for i := range ps {
		if !strings.EqualFold(ps[i].Name, name) {
			continue
		}
		if rows < 1 || cols < 1 {
			return fmt.Errorf("preset %q: rows and cols must be positive", name)
		}
		if mines < 0 || mines >= rows*cols {
			return fmt.Errorf("preset %q: mines must be in [0, %d)", name, rows*cols)
		}
		ps[i].Rows, ps[i].Cols, ps[i].Mines = rows, cols, mines
		return nil
	}
	return fmt.Errorf("%w: %q", ErrUnknownPreset, name)
}

// Names lists the preset names in level order.
func (ps Presets) Names() []string {
	names := make([]string, len(ps))
	for i, p := range ps {
		names[i] = p.Name
	}
	return names
}
