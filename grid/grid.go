// Package grid provides a bounds-checked, random-access view over a
// rectangular scalar field sampled row-major.
//
// A Grid is the leaf dependency of the contour extractor: it knows nothing
// about levels, segments or tiles, only how to answer "what's the value at
// (row, col), and is it present".
package grid

import "math"

// Grid is a row-major H×W array of float64 samples. A NaN value marks a
// cell as "no data"; cells touching a NaN are skipped by the extractor.
type Grid struct {
	values [][]float64
}

// New wraps values as a Grid. values must be rectangular (every row the
// same length); callers that cannot guarantee this should use NewChecked.
func New(values [][]float64) Grid {
	return Grid{values: values}
}

// NewChecked wraps values as a Grid, returning an error if rows have
// unequal lengths (the MalformedTile case of the error taxonomy).
func NewChecked(values [][]float64) (Grid, error) {
	for i := 1; i < len(values); i++ {
		if len(values[i]) != len(values[0]) {
			return Grid{}, &MalformedError{Row: i, Want: len(values[0]), Got: len(values[i])}
		}
	}
	return Grid{values: values}, nil
}

// MalformedError reports a grid whose rows have unequal lengths.
type MalformedError struct {
	Row       int
	Want, Got int
}

func (e *MalformedError) Error() string {
	return "grid: row has unequal length"
}

// Rows returns the number of rows (the height, along i/y).
func (g Grid) Rows() int { return len(g.values) }

// Cols returns the number of columns in the first row (the width, along
// j/x), or 0 for an empty grid.
func (g Grid) Cols() int {
	if len(g.values) == 0 {
		return 0
	}
	return len(g.values[0])
}

// At returns the value at (row, col) and true, or (0, false) if the
// coordinates are out of bounds.
func (g Grid) At(row, col int) (float64, bool) {
	if row < 0 || row >= len(g.values) {
		return 0, false
	}
	r := g.values[row]
	if col < 0 || col >= len(r) {
		return 0, false
	}
	return r[col], true
}

// IsNaN reports whether the cell at (row, col) holds NaN or is out of
// bounds. Out-of-bounds cells are treated as "no data" so that callers
// walking cell quads never need a separate bounds check.
func (g Grid) IsNaN(row, col int) bool {
	v, ok := g.At(row, col)
	return !ok || math.IsNaN(v)
}

// Valid reports whether the grid has at least two rows and two columns —
// the minimum shape that contains one marching-squares cell.
func (g Grid) Valid() bool {
	return g.Rows() >= 2 && g.Cols() >= 2
}
