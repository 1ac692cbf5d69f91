// Package contour implements the CONREC-style marching-squares segment
// extractor of spec §4.1: given a grid and a list of contour levels, it
// emits an unordered multiset of level-tagged line segments.
//
// The cell subdivision (four triangles fanned from the cell-center mean)
// and the linear edge-crossing rule are grounded on the CONREC algorithm
// named in the spec's glossary; the shape of "walk a 2-D cell lattice,
// classify corners, emit edges" mirrors the teacher's own contour tracer
// (github.com/arl/go-detour/recast/contour.go's cornerHeight and its
// case-driven vertex walk), generalized from a voxel heightfield's
// region/area codes to a plain scalar field's above/on/below test.
package contour

import (
	"sort"

	"github.com/arl/assertgo"

	"github.com/arl/isocontour/grid"
	"github.com/arl/isocontour/polyline"
)

// CoordFunc maps a grid (row, col) lattice coordinate to a caller's
// coordinate space. The default is the identity x=col, y=row.
type CoordFunc func(row, col int) (x, y float64)

func identityCoord(row, col int) (float64, float64) {
	return float64(col), float64(row)
}

// Option configures Extract.
type Option func(*options)

type options struct {
	coord CoordFunc
}

// WithCoordFunc overrides the default identity lattice-to-world mapping.
func WithCoordFunc(f CoordFunc) Option {
	return func(o *options) { o.coord = f }
}

// Extract runs the segment extractor over g for every level in levels,
// per spec §4.1. levels need not be sorted or deduplicated by the caller,
// though the spec's contract describes them as sorted distinct floats;
// Extract does not depend on either property.
//
// Extract never returns an error for an empty or undersized grid — it
// returns an empty, nil-error result, per spec §4.1's failure-mode table.
// It returns ErrEmptyLevels only when levels is empty, since a level-less
// extraction is almost certainly a caller mistake rather than a degenerate
// but valid input.
func Extract(g grid.Grid, levels []float64, opts ...Option) ([]polyline.Segment, error) {
	if len(levels) == 0 {
		return nil, ErrEmptyLevels
	}
	o := options{coord: identityCoord}
	for _, opt := range opts {
		opt(&o)
	}
	if !g.Valid() {
		return nil, nil
	}

	var out []polyline.Segment
	for row := 0; row < g.Rows()-1; row++ {
		for col := 0; col < g.Cols()-1; col++ {
			out = appendCellSegments(out, g, row, col, levels, o.coord)
		}
	}
	return out, nil
}

// corner names a cell's four lattice vertices, per spec §4.1's
// (i,j),(i+1,j),(i,j+1),(i+1,j+1) quad.
type corner struct {
	point polyline.Point
	value float64
}

func appendCellSegments(out []polyline.Segment, g grid.Grid, row, col int, levels []float64, coord CoordFunc) []polyline.Segment {
	if g.IsNaN(row, col) || g.IsNaN(row+1, col) || g.IsNaN(row, col+1) || g.IsNaN(row+1, col+1) {
		return out
	}

	a, _ := g.At(row, col)
	b, _ := g.At(row+1, col)
	c, _ := g.At(row, col+1)
	d, _ := g.At(row+1, col+1)

	ax, ay := coord(row, col)
	bx, by := coord(row+1, col)
	cx, cy := coord(row, col+1)
	dx, dy := coord(row+1, col+1)

	cA := corner{polyline.Point{X: ax, Y: ay}, a}
	cB := corner{polyline.Point{X: bx, Y: by}, b}
	cC := corner{polyline.Point{X: cx, Y: cy}, c}
	cD := corner{polyline.Point{X: dx, Y: dy}, d}

	m := (a + b + c + d) / 4
	// The center point is the centroid of the four corners, which for a
	// non-axis-aligned coordinate transform need not be the lattice
	// midpoint (row+0.5, col+0.5); average the transformed corners
	// instead of re-deriving it from (row, col).
	cM := corner{
		point: polyline.Point{
			X: (ax + bx + cx + dx) / 4,
			Y: (ay + by + cy + dy) / 4,
		},
		value: m,
	}

	// Four triangles fanned from the center, one per quad edge: north
	// (A-C), east (C-D), south (D-B), west (B-A). This matches §4.1's
	// four-triangle split and is what makes saddle cells unambiguous.
	for _, lvl := range levels {
		out = appendTriangleSegments(out, cA, cC, cM, lvl)
		out = appendTriangleSegments(out, cC, cD, cM, lvl)
		out = appendTriangleSegments(out, cD, cB, cM, lvl)
		out = appendTriangleSegments(out, cB, cA, cM, lvl)
	}
	return out
}

// sign classifies a corner's value relative to z: +1 above, -1 below, 0 on.
func sign(v, z float64) int {
	switch {
	case v > z:
		return 1
	case v < z:
		return -1
	default:
		return 0
	}
}

// centerSign classifies the cell-center mean relative to z like sign, but
// never reports "on" (0): it breaks an exact tie toward "above".
//
// The center is a derived value (the mean of four real samples), not an
// original measurement, so it never counts as an on-contour vertex: no
// triangle edge running to the center is emitted as an on-contour edge.
// In a balanced saddle (center mean exactly equal to z) each of the four
// triangles still emits one segment ending at the literal center point;
// which two of those segments join into one polyline is left to the
// assembler.
func centerSign(m, z float64) int {
	if m < z {
		return -1
	}
	return 1
}

// crossing returns the point where the edge v1@p1 -> v2@p2 crosses level
// z, per spec §4.1 step 4. v1 must not equal v2.
func crossing(p1 polyline.Point, v1 float64, p2 polyline.Point, v2 float64, z float64) polyline.Point {
	assert.True(v1 != v2, "crossing: degenerate edge, v1 == v2 == %v", v1)
	t := (z - v1) / (v2 - v1)
	return polyline.Point{
		X: p1.X + t*(p2.X-p1.X),
		Y: p1.Y + t*(p2.Y-p1.Y),
	}
}

// appendTriangleSegments classifies the triangle (v0, v1, v2) against
// level z and appends 0 or 1 segments, per spec §4.1 steps 3-5.
//
// With s[k] = sign(value_k - z) for each vertex, the cases are:
//   - all three signs equal and nonzero: no crossing.
//   - exactly two vertices "on" (sign 0): the edge between them is
//     entirely on the contour; emit it using the vertices' own points
//     (the degenerate-edge policy of spec §4.1 step 4).
//   - exactly one vertex "on", the other two of opposite sign: the
//     contour runs from the "on" vertex to the linear crossing of the
//     opposite edge.
//   - exactly one vertex "on", the other two of equal sign: the contour
//     only touches this triangle at a single point; no segment.
//   - no vertex "on": if the three signs aren't all equal, exactly one
//     vertex differs from the other two; the contour crosses the two
//     edges connecting it to them.
// v2 is always the cell-center vertex in this package's callers (the
// fan-triangle layout always lists the two quad corners first, the center
// last); its sign is classified with centerSign rather than sign.
func appendTriangleSegments(out []polyline.Segment, v0, v1, v2 corner, z float64) []polyline.Segment {
	verts := [3]corner{v0, v1, v2}
	s := [3]int{sign(v0.value, z), sign(v1.value, z), centerSign(v2.value, z)}

	var onIdx []int
	for i, si := range s {
		if si == 0 {
			onIdx = append(onIdx, i)
		}
	}

	switch len(onIdx) {
	case 3:
		// Entire triangle flat on the level: not a line, skip.
		return out
	case 2:
		i, j := onIdx[0], onIdx[1]
		return append(out, polyline.Segment{P1: verts[i].point, P2: verts[j].point, Level: z})
	case 1:
		onI := onIdx[0]
		other := [2]int{}
		n := 0
		for i := 0; i < 3; i++ {
			if i != onI {
				other[n] = i
				n++
			}
		}
		if s[other[0]] == s[other[1]] {
			// Touches at a single point only.
			return out
		}
		cp := crossing(verts[other[0]].point, verts[other[0]].value, verts[other[1]].point, verts[other[1]].value, z)
		return append(out, polyline.Segment{P1: verts[onI].point, P2: cp, Level: z})
	default:
		if s[0] == s[1] && s[1] == s[2] {
			return out
		}
		// Exactly one vertex's sign differs from the other two (three
		// nonzero signs with only two possible values can't split any
		// other way).
		var lone int
		for i := 0; i < 3; i++ {
			a, b := (i+1)%3, (i+2)%3
			if s[a] == s[b] && s[i] != s[a] {
				lone = i
				break
			}
		}
		a, b := (lone+1)%3, (lone+2)%3
		p1 := crossing(verts[lone].point, verts[lone].value, verts[a].point, verts[a].value, z)
		p2 := crossing(verts[lone].point, verts[lone].value, verts[b].point, verts[b].value, z)
		if p1 == p2 {
			// lone's own value equals z exactly (only reachable when lone
			// is the center, forced off an exact tie by centerSign): both
			// crossings land on lone's own point, a zero-length result.
			// The contour only touches this triangle at that point.
			return out
		}
		return append(out, polyline.Segment{P1: p1, P2: p2, Level: z})
	}
}

// SortLevels returns a sorted copy of levels, a convenience for callers
// that want to honor the "sorted distinct floats" contract of spec §4.1
// literally before calling Extract.
func SortLevels(levels []float64) []float64 {
	out := make([]float64, len(levels))
	copy(out, levels)
	sort.Float64s(out)
	return out
}
