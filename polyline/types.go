// Package polyline defines the segment/polyline data model shared by the
// contour extractor, the spatial index, and the assemblers (stateless and
// tiled), and implements the stateless full-grid assembler of spec §4.3.
package polyline

import "math"

// Point is a 2-D coordinate. Equality between points is never exact —
// callers compare with an epsilon tolerance (see Near).
type Point struct {
	X, Y float64
}

// Near reports whether p and q are within eps of each other (Euclidean).
func (p Point) Near(q Point, eps float64) bool {
	return p.Distance(q) <= eps
}

// Distance returns the Euclidean distance between p and q.
func (p Point) Distance(q Point) float64 {
	dx := p.X - q.X
	dy := p.Y - q.Y
	return math.Hypot(dx, dy)
}

// Segment is an undirected edge of a single contour level, stored with a
// fixed orientation (P1 -> P2). Invariant: P1 and P2 differ by more than
// epsilon; Level is one of the levels the extractor was given.
type Segment struct {
	P1, P2 Point
	Level  float64
}

// Polyline is an ordered sequence of points on one level's contour. It is
// Closed when its first and last point coincide within the builder's
// epsilon; see IsClosed.
type Polyline struct {
	Points []Point
	Level  float64
}

// IsClosed reports whether the first and last point of pl coincide within
// eps. A Polyline of fewer than 2 points is never closed.
func (pl Polyline) IsClosed(eps float64) bool {
	if len(pl.Points) < 2 {
		return false
	}
	return pl.Points[0].Near(pl.Points[len(pl.Points)-1], eps)
}

// Head returns the first point of pl.
func (pl Polyline) Head() Point { return pl.Points[0] }

// Tail returns the last point of pl.
func (pl Polyline) Tail() Point { return pl.Points[len(pl.Points)-1] }

// Clone returns a deep copy of pl, so that callers handed a Polyline from
// a store snapshot can never mutate the store's backing array.
func (pl Polyline) Clone() Polyline {
	pts := make([]Point, len(pl.Points))
	copy(pts, pl.Points)
	return Polyline{Points: pts, Level: pl.Level}
}

// Reversed returns pl with its point order reversed, sharing no backing
// array with pl.
func (pl Polyline) Reversed() Polyline {
	n := len(pl.Points)
	pts := make([]Point, n)
	for i, p := range pl.Points {
		pts[n-1-i] = p
	}
	return Polyline{Points: pts, Level: pl.Level}
}
