package polyline

import (
	"sort"

	"github.com/arl/isocontour/spatialindex"
)

// Assemble chains segments sharing endpoints into maximal polylines,
// grouped by level, per spec §4.3. The level grouping is implicit in each
// segment's Level field; Assemble itself never errors — pathological
// input simply yields more, shorter polylines.
func Assemble(segments []Segment, eps float64) []Polyline {
	byLevel := groupByLevel(segments)

	levels := make([]float64, 0, len(byLevel))
	for lvl := range byLevel {
		levels = append(levels, lvl)
	}
	sort.Float64s(levels)

	var out []Polyline
	for _, lvl := range levels {
		out = append(out, assembleLevel(byLevel[lvl], eps)...)
	}
	return out
}

func groupByLevel(segments []Segment) map[float64][]Segment {
	m := make(map[float64][]Segment)
	for _, s := range segments {
		m[s.Level] = append(m[s.Level], s)
	}
	return m
}

// endpointRef is what the spatial index stores at each segment endpoint:
// which segment (by extraction-order index, for the tie-break of spec
// §4.3) and the point at its other end.
type endpointRef struct {
	segIdx int
	far    Point
}

// assembleLevel implements spec §4.3's algorithm for a single level's
// segments: index by endpoint, then repeatedly grow a chain forward and
// backward from an unvisited seed segment until neither end can extend.
//
// Grounded on the teacher's recast.mergeRegionHoles / compareDiagDist
// (recast/contour.go, lines 97 and 979): both repeatedly pick the nearest still-valid
// candidate and splice it in, breaking ties by a secondary deterministic
// order rather than leaving the choice to map/slice iteration order.
func assembleLevel(segs []Segment, eps float64) []Polyline {
	idx := spatialindex.New[endpointRef](defaultCellSize(eps))
	entries := make([]spatialindex.Entry[endpointRef], 0, 2*len(segs))
	for i, s := range segs {
		entries = append(entries,
			spatialindex.Entry[endpointRef]{Point: s.P1, Value: endpointRef{segIdx: i, far: s.P2}},
			spatialindex.Entry[endpointRef]{Point: s.P2, Value: endpointRef{segIdx: i, far: s.P1}},
		)
	}
	idx.Build(entries)

	visited := make([]bool, len(segs))

	var out []Polyline
	for i, seg := range segs {
		if visited[i] {
			continue
		}
		visited[i] = true

		chain := []Point{seg.P1, seg.P2}
		chain = extend(chain, false, visited, idx, eps)
		chain = extend(chain, true, visited, idx, eps)

		out = append(out, Polyline{Points: chain, Level: seg.Level})
	}
	return out
}

// defaultCellSize picks a spatial-index bucket size comfortably larger
// than eps, per spec §4.2's requirement that the bucket size exceed the
// matching tolerance (G > eps) to avoid false negatives.
func defaultCellSize(eps float64) float64 {
	const minCell = spatialindex.DefaultCellSize
	if eps*4 > minCell {
		return eps * 4
	}
	return minCell
}

// extend grows chain from its tail (backward=false) or head
// (backward=true), repeatedly matching the open end against unvisited
// segments until no candidate remains or the chain closes on itself.
// Segments are pre-filtered to one level by assembleLevel's per-level
// index, so no level check is needed here.
func extend(chain []Point, backward bool, visited []bool, idx *spatialindex.Index[endpointRef], eps float64) []Point {
	for {
		var end, opposite Point
		if backward {
			end, opposite = chain[0], chain[len(chain)-1]
		} else {
			end, opposite = chain[len(chain)-1], chain[0]
		}

		cand, far, ok := bestCandidate(end, visited, idx, eps)
		if !ok {
			return chain
		}
		visited[cand] = true

		// Close-detection (spec §4.3 step 5): the new far endpoint lands
		// within eps of the chain's opposite end. Close using the
		// opposite end's own stored coordinate rather than far's, so the
		// first and last point of a closed polyline are exactly equal,
		// not merely eps-close, and stop extending on this side.
		if far.Near(opposite, eps) {
			if backward {
				return append([]Point{opposite}, chain...)
			}
			return append(chain, opposite)
		}

		if backward {
			chain = append([]Point{far}, chain...)
		} else {
			chain = append(chain, far)
		}
	}
}

// bestCandidate finds the unvisited segment with an endpoint nearest to
// end, per spec §4.3's tie-break: smallest endpoint distance, ties broken
// by segment insertion order (lowest extraction index wins).
func bestCandidate(end Point, visited []bool, idx *spatialindex.Index[endpointRef], eps float64) (segIdx int, far Point, ok bool) {
	type hit struct {
		idx  int
		far  Point
		dist float64
	}

	var best *hit
	for _, entry := range idx.FindNeighbors(end) {
		ref := entry.Value
		if visited[ref.segIdx] {
			continue
		}
		if !idx.IsNearPoint(entry, end, eps) {
			continue
		}
		d := end.Distance(entry.Point)
		if best == nil || d < best.dist || (d == best.dist && ref.segIdx < best.idx) {
			best = &hit{idx: ref.segIdx, far: ref.far, dist: d}
		}
	}

	if best == nil {
		return 0, Point{}, false
	}
	return best.idx, best.far, true
}
