package polyline

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

const eps = 0.01

func seg(x1, y1, x2, y2, lvl float64) Segment {
	return Segment{P1: Point{x1, y1}, P2: Point{x2, y2}, Level: lvl}
}

func TestAssembleChainsOpenPolyline(t *testing.T) {
	segs := []Segment{
		seg(0, 0, 1, 0, 1),
		seg(1, 0, 1, 1, 1),
		seg(1, 1, 2, 1, 1),
	}

	out := Assemble(segs, eps)

	assert.Len(t, out, 1)
	assert.Equal(t, []Point{{0, 0}, {1, 0}, {1, 1}, {2, 1}}, out[0].Points)
	assert.False(t, out[0].IsClosed(eps))
}

func TestAssembleClosesRing(t *testing.T) {
	segs := []Segment{
		seg(0, 0, 1, 0, 2),
		seg(1, 0, 1, 1, 2),
		seg(1, 1, 0, 1, 2),
		seg(0, 1, 0, 0, 2),
	}

	out := Assemble(segs, eps)

	assert.Len(t, out, 1)
	assert.True(t, out[0].IsClosed(eps))
	assert.Equal(t, out[0].Head(), out[0].Tail())
}

func TestAssembleGroupsByLevelIndependently(t *testing.T) {
	segs := []Segment{
		seg(0, 0, 1, 0, 1),
		seg(5, 5, 6, 5, 2),
	}

	out := Assemble(segs, eps)

	assert.Len(t, out, 2)
	levels := map[float64]bool{out[0].Level: true, out[1].Level: true}
	assert.True(t, levels[1])
	assert.True(t, levels[2])
}

func TestAssembleUnmatchedSegmentStaysIsolated(t *testing.T) {
	segs := []Segment{seg(0, 0, 1, 1, 1)}

	out := Assemble(segs, eps)

	assert.Len(t, out, 1)
	assert.Equal(t, []Point{{0, 0}, {1, 1}}, out[0].Points)
}

func TestAssembleTieBreaksOnLowestSegmentIndex(t *testing.T) {
	// Two candidate segments both start exactly at (1,0), so both lie at
	// distance 0 from the first chain's tail. The tie-break must be
	// deterministic: the candidate with the lower extraction index wins.
	segs := []Segment{
		seg(0, 0, 1, 0, 1),
		seg(1, 0, 5, 5, 1), // idx 1, shares exact endpoint (1,0)
		seg(1, 0, 9, 9, 1), // idx 2, shares exact endpoint (1,0) too
	}

	out := Assemble(segs, eps)

	// seg0 extends to seg1's far point (5,5), since seg1 has the lower
	// index among the tied candidates; seg2 is left unmatched.
	assert.Len(t, out, 2)
	assert.Equal(t, []Point{{0, 0}, {1, 0}, {5, 5}}, out[0].Points)
	assert.Equal(t, []Point{{1, 0}, {9, 9}}, out[1].Points)
}
