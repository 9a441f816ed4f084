package polycut

import (
	"github.com/Workiva/go-datastructures/augmentedtree"
	"github.com/golang/geo/s2"
)

// Spherical helpers backing the point filter.

func isClockwise(coords [][]float64) bool {
	sum := 0.0
	for i, coord := range coords[:len(coords)-1] {
		next := coords[i+1]
		sum += (next[0] - coord[0]) * (next[1] + coord[1])
	}
	return sum >= 0
}

func reverseCoords(coords [][]float64) [][]float64 {
	c := make([][]float64, len(coords))
	for i := 0; i < len(coords); i++ {
		c[i] = coords[len(coords)-i-1]
	}
	return c
}

func coordEquals(a, b []float64) bool {
	return a[0] == b[0] && a[1] == b[1]
}

// makeLoop builds an s2 loop from a closed ring in degree coordinates.
// Loops want counter-clockwise winding and an open vertex list, so the
// ring is reoriented and its closing vertex dropped. Rings with fewer
// than three distinct vertices yield nil.
func makeLoop(coords [][]float64) *s2.Loop {
	if isClockwise(coords) {
		coords = reverseCoords(coords)
	}

	points := make([]s2.Point, 0, len(coords)-1)
	for i := 0; i < len(coords)-1; i++ {
		if i > 0 && coordEquals(coords[i-1], coords[i]) {
			continue
		}
		latlon := s2.LatLngFromDegrees(coords[i][1], coords[i][0])
		points = append(points, s2.PointFromLatLng(latlon))
	}

	if len(points) < 3 {
		return nil
	}
	return s2.LoopFromPoints(points)
}

type loopPolygon struct {
	outer *s2.Loop
	inner []*s2.Loop
}

func (l *loopPolygon) IsInside(lat, lng float64) bool {
	latlon := s2.LatLngFromDegrees(lat, lng)
	point := s2.PointFromLatLng(latlon)

	if !l.outer.ContainsPoint(point) {
		return false
	}

	for _, ring := range l.inner {
		if ring.ContainsPoint(point) {
			return false
		}
	}

	return true
}

type region struct {
	*s2.Loop
}

func (l *region) CapBound() s2.Cap {
	return l.Loop.CapBound()
}

func (l *region) ContainsCell(c s2.Cell) bool {
	for i := 0; i < 4; i++ {
		if !l.ContainsPoint(c.Vertex(i)) {
			return false
		}
	}
	return true
}

// IntersectsCell approximates cell intersection through vertex
// containment in both directions: a cell corner inside the loop, or a
// loop vertex inside the cell. Good enough for building a covering; the
// exact test happens later on the loop itself.
func (l *region) IntersectsCell(c s2.Cell) bool {
	for i := 0; i < 4; i++ {
		if l.ContainsPoint(c.Vertex(i)) {
			return true
		}
	}

	for _, v := range l.Vertices() {
		if c.ContainsPoint(v) {
			return true
		}
	}

	return false
}

type cellInterval struct {
	cell  s2.CellID
	loops []int64
}

func (s *cellInterval) LowAtDimension(d uint64) int64 {
	return int64(s.cell.RangeMin())
}

func (s *cellInterval) HighAtDimension(d uint64) int64 {
	return int64(s.cell.RangeMax())
}

func (s *cellInterval) OverlapsAtDimension(i augmentedtree.Interval, d uint64) bool {
	return s.HighAtDimension(d) > i.LowAtDimension(d) &&
		s.LowAtDimension(d) < i.HighAtDimension(d)
}

func (s *cellInterval) ID() uint64 {
	return uint64(s.cell)
}
