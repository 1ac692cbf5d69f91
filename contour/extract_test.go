package contour

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arl/isocontour/grid"
	"github.com/arl/isocontour/polyline"
)

func TestExtractEmptyLevelsErrors(t *testing.T) {
	g := grid.New([][]float64{{0, 0}, {0, 0}})
	_, err := Extract(g, nil)
	assert.ErrorIs(t, err, ErrEmptyLevels)
}

func TestExtractUndersizedGridReturnsNoSegmentsNoError(t *testing.T) {
	g := grid.New([][]float64{{0, 1}})
	segs, err := Extract(g, []float64{0.5})
	assert.NoError(t, err)
	assert.Nil(t, segs)
}

func TestExtractFlatGridEmitsNothing(t *testing.T) {
	g := grid.New([][]float64{{1, 1}, {1, 1}})
	segs, err := Extract(g, []float64{0.5})
	require.NoError(t, err)
	assert.Empty(t, segs)
}

// TestExtractMonotoneCellCrossings covers a 2x2 grid with values
// [[0,1],[1,2]] at level 0.5: the center mean is 1.0, not tied with the
// level, so the ordinary (non-tie-break) crossing path applies and the
// extracted segments must reach the edge crossings (0.5,0) and (0,0.5).
func TestExtractMonotoneCellCrossings(t *testing.T) {
	g := grid.New([][]float64{{0, 1}, {1, 2}})
	segs, err := Extract(g, []float64{0.5})
	require.NoError(t, err)
	require.NotEmpty(t, segs)

	ends := collectEndpoints(segs)
	assert.Contains(t, ends, polyline.Point{X: 0.5, Y: 0})
	assert.Contains(t, ends, polyline.Point{X: 0, Y: 0.5})
}

// TestExtractExactSaddleYieldsTwoDisjointRuns covers the balanced-saddle
// case: grid [[0,1],[1,0]] at level 0.5 has a cell-center mean of exactly
// 0.5, tied with the query level. The extractor emits four segments that
// meet at the cell center; assembled, they must form two 3-point runs
// that touch only at that (shared, interior) center coordinate, never a
// single 4-spoke crossing.
func TestExtractExactSaddleYieldsTwoDisjointRuns(t *testing.T) {
	g := grid.New([][]float64{{0, 1}, {1, 0}})
	segs, err := Extract(g, []float64{0.5})
	require.NoError(t, err)

	assembled := polyline.Assemble(segs, 1e-9)
	assert.Len(t, assembled, 2, "saddle must resolve to two disjoint polylines, not one crossing shape")

	for _, pl := range assembled {
		assert.Len(t, pl.Points, 3)
		assert.False(t, pl.IsClosed(1e-9))
	}
}

func TestExtractSkipsCellsTouchingNaN(t *testing.T) {
	g := grid.New([][]float64{{0, 1}, {1, math.NaN()}})
	segs, err := Extract(g, []float64{0.5})
	require.NoError(t, err)
	assert.Empty(t, segs)
}

func TestSortLevelsDoesNotMutateInput(t *testing.T) {
	in := []float64{3, 1, 2}
	out := SortLevels(in)

	assert.Equal(t, []float64{1, 2, 3}, out)
	assert.Equal(t, []float64{3, 1, 2}, in)
}

func TestExtractHonorsCoordFunc(t *testing.T) {
	g := grid.New([][]float64{{0, 1}, {1, 2}})
	offset := func(row, col int) (float64, float64) {
		return float64(col) + 100, float64(row) + 200
	}
	segs, err := Extract(g, []float64{0.5}, WithCoordFunc(offset))
	require.NoError(t, err)
	require.NotEmpty(t, segs)

	for _, s := range segs {
		assert.GreaterOrEqual(t, s.P1.X, 100.0)
		assert.GreaterOrEqual(t, s.P1.Y, 200.0)
	}
}

func collectEndpoints(segs []polyline.Segment) []polyline.Point {
	var out []polyline.Point
	for _, s := range segs {
		out = append(out, s.P1, s.P2)
	}
	return out
}
