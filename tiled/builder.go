// Package tiled implements the tiled incremental isoline builder of spec
// §4.4: it absorbs grid tiles one at a time, extracting each tile's
// contour segments and stitching them into a running per-level polyline
// store, so that the merged result after every tile is valid and
// eventually identical to running the stateless extractor+assembler over
// the whole grid.
//
// Grounded on sample/tilemesh.TileMesh (github.com/arl/go-detour): one
// struct owns every tile processed so far and exposes a single "absorb
// the next tile" method, generalized here from navmesh tiles to contour
// tiles, and on recast/chunkytrimesh.go for the idea of keeping a spatial
// structure over the input/output geometry a tile contributes rather than
// re-deriving it on every query.
package tiled

import (
	"fmt"

	"github.com/arl/assertgo"

	"github.com/arl/isocontour/contour"
	"github.com/arl/isocontour/grid"
	"github.com/arl/isocontour/polyline"
	"github.com/arl/isocontour/spatialindex"
)

// end identifies which end of a stored polyline an index entry or a match
// refers to.
type end int

const (
	endHead end = iota
	endTail
)

// node is one polyline under construction in the store. Its identity
// (id) is assigned at creation and never reused; joins always keep the
// lower-id node's identity, which is what makes merge order
// deterministic regardless of the order tiles were delivered in (spec
// §4.4's ordering guarantee, invariant 5 of spec §8).
type node struct {
	id     int
	level  float64
	points []polyline.Point
	closed bool
}

func (n *node) head() polyline.Point { return n.points[0] }
func (n *node) tail() polyline.Point { return n.points[len(n.points)-1] }

func (n *node) endpoint(e end) polyline.Point {
	if e == endHead {
		return n.head()
	}
	return n.tail()
}

func reversed(pts []polyline.Point) []polyline.Point {
	out := make([]polyline.Point, len(pts))
	for i, p := range pts {
		out[len(pts)-1-i] = p
	}
	return out
}

// endRef is the payload stored in the builder's endpoint index: which
// node, and which of its two ends, sits at the indexed point.
type endRef struct {
	node *node
	end  end
}

// Builder is a tiled incremental isoline builder, per spec §4.4. The
// zero value is not usable; construct with NewBuilder. A Builder is not
// safe for concurrent use — spec §5 specifies a single-threaded,
// serialized-call model.
type Builder struct {
	levels   []float64
	tileSize int
	eps      float64

	processed map[[2]int]bool
	nextID    int
	store     map[float64][]*node
	index     *spatialindex.Index[endRef]
}

// DefaultTileSize is used by NewBuilder when tileSize <= 0, per spec
// §4.4's "new(levels, tileSize=128)".
const DefaultTileSize = 128

// DefaultEpsilon is the endpoint-joining tolerance used when a Builder is
// constructed without an explicit one, per spec §3's "default 0.01".
const DefaultEpsilon = 0.01

// NewBuilder creates a tiled builder for a fixed set of levels. levels
// must be non-empty. tileSize <= 0 uses DefaultTileSize; eps <= 0 uses
// DefaultEpsilon.
func NewBuilder(levels []float64, tileSize int, eps float64) (*Builder, error) {
	if len(levels) == 0 {
		return nil, ErrEmptyLevels
	}
	if tileSize <= 0 {
		tileSize = DefaultTileSize
	}
	if eps <= 0 {
		eps = DefaultEpsilon
	}
	lvls := contour.SortLevels(levels)
	return &Builder{
		levels:    lvls,
		tileSize:  tileSize,
		eps:       eps,
		processed: make(map[[2]int]bool),
		store:     make(map[float64][]*node),
		index:     spatialindex.New[endRef](cellSizeFor(eps)),
	}, nil
}

func cellSizeFor(eps float64) float64 {
	const minCell = spatialindex.DefaultCellSize
	if eps*4 > minCell {
		return eps * 4
	}
	return minCell
}

// AddTile absorbs one tile at global tile coordinates (ty, tx) and
// returns a snapshot of the current merged polyline set across all
// levels, per spec §4.4. Re-delivering an already-processed (ty, tx) is
// a no-op that returns the current snapshot unchanged (spec §7's
// "tiled-builder re-delivery is silently idempotent").
func (b *Builder) AddTile(ty, tx int, tile grid.Grid) ([]polyline.Polyline, error) {
	key := [2]int{ty, tx}
	if b.processed[key] {
		return b.CurrentPolylines(), nil
	}

	if tile.Rows() > b.tileSize+1 || tile.Cols() > b.tileSize+1 {
		return nil, fmt.Errorf("%w: got %dx%d, want at most %dx%d",
			ErrOversizedTile, tile.Rows(), tile.Cols(), b.tileSize+1, b.tileSize+1)
	}

	offsetX := float64(tx * b.tileSize)
	offsetY := float64(ty * b.tileSize)
	coord := func(row, col int) (float64, float64) {
		return offsetX + float64(col), offsetY + float64(row)
	}

	segs, err := contour.Extract(tile, b.levels, contour.WithCoordFunc(coord))
	if err != nil {
		return nil, err
	}

	for _, seg := range segs {
		b.incorporate(seg)
	}

	b.processed[key] = true
	return b.CurrentPolylines(), nil
}

// CurrentPolylines returns a snapshot of every polyline across all
// levels. The snapshot is a defensive deep copy: mutating it, or future
// calls to AddTile, never affect one another (spec §5's "never expose
// internal mutable aliases").
func (b *Builder) CurrentPolylines() []polyline.Polyline {
	var out []polyline.Polyline
	for _, lvl := range b.levels {
		for _, n := range b.store[lvl] {
			pts := make([]polyline.Point, len(n.points))
			copy(pts, n.points)
			out = append(out, polyline.Polyline{Points: pts, Level: n.level})
		}
	}
	return out
}

// incorporate absorbs one newly extracted segment into the store, per
// spec §4.4 step 4.
func (b *Builder) incorporate(seg polyline.Segment) {
	ref1, d1, ok1 := b.findMatch(seg.P1, seg.Level)
	ref2, d2, ok2 := b.findMatch(seg.P2, seg.Level)

	// Both endpoints resolved to the same (node, end): a false collision,
	// most likely a very short new segment sitting right at an existing
	// endpoint. Keep only the closer match.
	if ok1 && ok2 && ref1.node == ref2.node && ref1.end == ref2.end {
		if d1 <= d2 {
			ok2 = false
		} else {
			ok1 = false
		}
	}

	switch {
	case !ok1 && !ok2:
		b.newNode(seg.Level, seg.P1, seg.P2)
	case ok1 && !ok2:
		b.extendNode(ref1.node, ref1.end, seg.P2)
	case !ok1 && ok2:
		b.extendNode(ref2.node, ref2.end, seg.P1)
	case ref1.node == ref2.node:
		b.closeNode(ref1.node)
	default:
		b.joinNodes(ref1.node, ref1.end, ref2.node, ref2.end)
	}
}

// matchCandidate pairs an endRef with the distance it was found at, so
// findMatch can apply the open-question tie-break decided in DESIGN.md:
// smallest distance, then smallest node id.
type matchCandidate struct {
	ref  endRef
	dist float64
}

func (b *Builder) findMatch(p polyline.Point, level float64) (endRef, float64, bool) {
	var best *matchCandidate
	for _, entry := range b.index.FindNeighbors(p) {
		ref := entry.Value
		if ref.node.level != level {
			continue
		}
		if !b.index.IsNearPoint(entry, p, b.eps) {
			continue
		}
		d := p.Distance(entry.Point)
		if best == nil || d < best.dist || (d == best.dist && ref.node.id < best.ref.node.id) {
			best = &matchCandidate{ref: ref, dist: d}
		}
	}
	if best == nil {
		return endRef{}, 0, false
	}
	return best.ref, best.dist, true
}

func (b *Builder) newNode(level float64, p1, p2 polyline.Point) {
	n := &node{id: b.nextID, level: level, points: []polyline.Point{p1, p2}}
	b.nextID++
	b.store[level] = append(b.store[level], n)
	b.insertEndpoint(n, endHead)
	b.insertEndpoint(n, endTail)
}

func (b *Builder) extendNode(n *node, matchedEnd end, far polyline.Point) {
	b.removeEndpoint(n, matchedEnd)
	if matchedEnd == endHead {
		n.points = append([]polyline.Point{far}, n.points...)
	} else {
		n.points = append(n.points, far)
	}
	b.insertEndpoint(n, matchedEnd)
	b.closeIfRing(n)
}

// closeNode handles spec §4.4's self-closing case: a new segment's two
// endpoints both match the same polyline's head and tail. The segment
// contributes no new coordinate — its own endpoints already coincide
// with the existing head and tail — so closing just collapses the ring
// onto the node's own stored head value and retires both its endpoint
// index entries, since a closed ring has no free end left to extend.
func (b *Builder) closeNode(n *node) {
	if n.closed {
		return
	}
	b.removeEndpoint(n, endHead)
	b.removeEndpoint(n, endTail)
	n.points = append(n.points, n.head())
	n.closed = true
}

// closeIfRing detects closure that happens to fall out of ordinary
// growth (an extension whose new free end lands within eps of the node's
// other end), beyond the explicit two-endpoint-match case closeNode
// handles. Needs at least 3 points so a 2-point node fresh off newNode
// isn't spuriously closed before it has any real shape.
func (b *Builder) closeIfRing(n *node) {
	if n.closed || len(n.points) < 3 {
		return
	}
	if n.head().Near(n.tail(), b.eps) {
		b.removeEndpoint(n, endHead)
		b.removeEndpoint(n, endTail)
		n.points[len(n.points)-1] = n.head()
		n.closed = true
	}
}

// joinNodes splices two distinct nodes into one at the endpoints they
// were matched at. The lower-id node keeps its identity and becomes the
// merged node; DESIGN.md records this as the deterministic tie-break
// that keeps a multi-node join's outcome independent of which tile
// delivery order produced it.
func (b *Builder) joinNodes(n1 *node, e1 end, n2 *node, e2 end) {
	primary, primaryEnd, secondary, secondaryEnd := n1, e1, n2, e2
	if n2.id < n1.id {
		primary, primaryEnd, secondary, secondaryEnd = n2, e2, n1, e1
	}
	assert.True(primary != secondary, "joinNodes: primary and secondary are the same node")

	b.removeEndpoint(primary, endHead)
	b.removeEndpoint(primary, endTail)
	b.removeEndpoint(secondary, endHead)
	b.removeEndpoint(secondary, endTail)

	primary.points = concat(primary.points, primaryEnd, secondary.points, secondaryEnd)
	b.deleteNode(secondary)

	b.insertEndpoint(primary, endHead)
	b.insertEndpoint(primary, endTail)
	b.closeIfRing(primary)
}

// concat splices bPts onto a at the ends a bridging segment matched,
// orienting bPts so that its matched end sits next to a's matched end.
// Every stored point of both is kept: the bridging segment contributes no
// coordinate of its own, its two endpoints collapsing onto the stored
// ends they matched.
func concat(a []polyline.Point, aEnd end, bPts []polyline.Point, bEnd end) []polyline.Point {
	switch {
	case aEnd == endTail && bEnd == endHead:
		return append(a, bPts...)
	case aEnd == endTail && bEnd == endTail:
		return append(a, reversed(bPts)...)
	case aEnd == endHead && bEnd == endHead:
		return append(reversed(bPts), a...)
	default: // aEnd == endHead && bEnd == endTail
		return append(bPts, a...)
	}
}

func (b *Builder) deleteNode(n *node) {
	list := b.store[n.level]
	for i, other := range list {
		if other == n {
			b.store[n.level] = append(list[:i], list[i+1:]...)
			return
		}
	}
}

func (b *Builder) insertEndpoint(n *node, e end) {
	if n.closed {
		return
	}
	b.index.Insert(n.endpoint(e), endRef{node: n, end: e})
}

func (b *Builder) removeEndpoint(n *node, e end) {
	b.index.RemoveFunc(n.endpoint(e), func(r endRef) bool {
		return r.node == n && r.end == e
	})
}
