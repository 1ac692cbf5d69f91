package spatialindex

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/arl/isocontour/polyline"
)

func TestInsertAndFindNeighbors(t *testing.T) {
	idx := New[string](10)
	idx.Insert(polyline.Point{X: 1, Y: 1}, "a")
	idx.Insert(polyline.Point{X: 100, Y: 100}, "far")

	hits := idx.FindNeighbors(polyline.Point{X: 1.2, Y: 0.9})
	var values []string
	for _, h := range hits {
		values = append(values, h.Value)
	}
	assert.Contains(t, values, "a")
	assert.NotContains(t, values, "far")
}

func TestFindNeighborsCoversAdjacentBuckets(t *testing.T) {
	idx := New[string](10)
	// Just across a bucket boundary from the origin bucket.
	idx.Insert(polyline.Point{X: 10.1, Y: 0}, "neighbor")

	hits := idx.FindNeighbors(polyline.Point{X: 9.9, Y: 0})
	assert.Len(t, hits, 1)
	assert.Equal(t, "neighbor", hits[0].Value)
}

func TestRemoveFunc(t *testing.T) {
	idx := New[int](10)
	p := polyline.Point{X: 5, Y: 5}
	idx.Insert(p, 1)
	idx.Insert(p, 2)

	idx.RemoveFunc(p, func(v int) bool { return v == 1 })

	hits := idx.FindNeighbors(p)
	assert.Len(t, hits, 1)
	assert.Equal(t, 2, hits[0].Value)
}

func TestRemoveFuncDropsEmptyBucket(t *testing.T) {
	idx := New[int](10)
	p := polyline.Point{X: 5, Y: 5}
	idx.Insert(p, 1)
	idx.RemoveFunc(p, func(v int) bool { return v == 1 })

	assert.Empty(t, idx.buckets)
}

func TestResetClearsAllEntries(t *testing.T) {
	idx := New[int](10)
	idx.Insert(polyline.Point{X: 0, Y: 0}, 1)
	idx.Reset()
	assert.Empty(t, idx.FindNeighbors(polyline.Point{X: 0, Y: 0}))
}

func TestNewFallsBackToDefaultCellSize(t *testing.T) {
	idx := New[int](0)
	assert.Equal(t, DefaultCellSize, idx.cellSize)
}

func TestBuildClearsThenReindexes(t *testing.T) {
	idx := New[string](10)
	idx.Insert(polyline.Point{X: 50, Y: 50}, "stale")

	idx.Build([]Entry[string]{
		{Point: polyline.Point{X: 5, Y: 5}, Value: "a"},
		{Point: polyline.Point{X: 100, Y: 100}, Value: "b"},
	})

	assert.Empty(t, idx.FindNeighbors(polyline.Point{X: 50, Y: 50}))
	hits := idx.FindNeighbors(polyline.Point{X: 5, Y: 5})
	assert.Len(t, hits, 1)
	assert.Equal(t, "a", hits[0].Value)
}

func TestIsNearPoint(t *testing.T) {
	idx := New[string](10)
	e := Entry[string]{Point: polyline.Point{X: 1, Y: 1}, Value: "a"}

	assert.True(t, idx.IsNearPoint(e, polyline.Point{X: 1.005, Y: 1}, 0.01))
	assert.False(t, idx.IsNearPoint(e, polyline.Point{X: 2, Y: 1}, 0.01))
}

func TestNegativeCoordinatesBucketCorrectly(t *testing.T) {
	idx := New[string](10)
	idx.Insert(polyline.Point{X: -5, Y: -5}, "neg")

	hits := idx.FindNeighbors(polyline.Point{X: -4.9, Y: -4.9})
	assert.Len(t, hits, 1)
	assert.Equal(t, "neg", hits[0].Value)
}
