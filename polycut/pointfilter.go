package polycut

import (
	"github.com/Workiva/go-datastructures/augmentedtree"
	"github.com/golang/geo/s2"
	"github.com/paulsmith/gogeos/geos"
)

// The optional point filter discards polygonal cut geometry that contains
// none of the supplied filter points. It runs on the interchange
// (geographic) coordinates, before reprojection: the containment test uses
// spherical loops indexed by their s2 cell coverings, queried per point
// through an augmented interval tree. Line-typed cut geometry passes the
// filter untouched, points cannot fall inside a line.

type pointFilter struct {
	tree     augmentedtree.Tree
	loops    map[int64]int64
	polygons map[int64]*loopPolygon
	nextLoop int64
}

func newPointFilter() *pointFilter {
	return &pointFilter{
		tree:     augmentedtree.New(1),
		loops:    make(map[int64]int64),
		polygons: make(map[int64]*loopPolygon),
	}
}

// index registers every polygon of a cut feature. Returns false when the
// feature is not polygonal and therefore cannot be point-filtered.
func (f *pointFilter) index(feature CutFeature) (bool, error) {
	t, err := feature.Geom.Type()
	if err != nil {
		return false, err
	}

	switch t {
	case geos.POLYGON:
		return true, f.indexPolygon(feature.ID, feature.Geom)
	case geos.MULTIPOLYGON:
		parts, err := subGeometries(feature.Geom)
		if err != nil {
			return false, err
		}
		for _, p := range parts {
			err = f.indexPolygon(feature.ID, p)
			if err != nil {
				return false, err
			}
		}
		return true, nil
	default:
		return false, nil
	}
}

func (f *pointFilter) indexPolygon(id int64, poly *geos.Geometry) error {
	rings, err := polyToRings(poly)
	if err != nil {
		return err
	}

	outer := makeLoop(rings[0])
	if outer == nil {
		return nil
	}

	inner := make([]*s2.Loop, 0, len(rings)-1)
	for _, coords := range rings[1:] {
		hole := makeLoop(coords)
		if hole != nil {
			inner = append(inner, hole)
		}
	}

	loopID := f.nextLoop
	f.nextLoop++
	f.loops[loopID] = id
	f.polygons[loopID] = &loopPolygon{outer: outer, inner: inner}

	rc := s2.RegionCoverer{
		MinLevel: 2,
		MaxLevel: 30,
		MaxCells: 8,
	}
	covering := rc.Covering(&region{outer})

	for _, cell := range covering {
		interval := &cellInterval{cell: cell}
		added := false
		for _, result := range f.tree.Query(interval) {
			i := result.(*cellInterval)
			if cell == i.cell {
				i.loops = append(i.loops, loopID)
				added = true
			}
		}
		if !added {
			interval.loops = []int64{loopID}
			f.tree.Add(interval)
		}
	}
	return nil
}

// query returns the ids of the indexed cut features containing the point.
func (f *pointFilter) query(lng, lat float64) []int64 {
	cell := s2.CellIDFromLatLng(s2.LatLngFromDegrees(lat, lng))

	matches := make([]int64, 0)
	for _, result := range f.tree.Query(&cellInterval{cell: cell}) {
		for _, loopID := range result.(*cellInterval).loops {
			if f.polygons[loopID].IsInside(lat, lng) {
				matches = append(matches, f.loops[loopID])
			}
		}
	}
	return matches
}

// FilterByPoints keeps cut features that contain at least one of the given
// points, plus every line-typed feature.
func FilterByPoints(features []CutFeature, points []*geos.Geometry) ([]CutFeature, error) {
	filter := newPointFilter()
	polygonal := make(map[int64]bool)
	for _, f := range features {
		indexed, err := filter.index(f)
		if err != nil {
			return nil, err
		}
		if indexed {
			polygonal[f.ID] = true
		}
	}

	hit := make(map[int64]bool)
	for _, p := range points {
		coords, err := pointCoords(p)
		if err != nil {
			return nil, err
		}
		for _, c := range coords {
			for _, id := range filter.query(c.X, c.Y) {
				hit[id] = true
			}
		}
	}

	out := make([]CutFeature, 0, len(features))
	for _, f := range features {
		if !polygonal[f.ID] || hit[f.ID] {
			out = append(out, f)
		}
	}
	return out, nil
}

// pointCoords flattens a point or multipoint into its coordinates.
func pointCoords(g *geos.Geometry) ([]geos.Coord, error) {
	t, err := g.Type()
	if err != nil {
		return nil, err
	}

	switch t {
	case geos.POINT:
		x, err := g.X()
		if err != nil {
			return nil, err
		}
		y, err := g.Y()
		if err != nil {
			return nil, err
		}
		return []geos.Coord{{X: x, Y: y}}, nil
	case geos.MULTIPOINT:
		parts, err := subGeometries(g)
		if err != nil {
			return nil, err
		}
		coords := make([]geos.Coord, 0, len(parts))
		for _, p := range parts {
			c, err := pointCoords(p)
			if err != nil {
				return nil, err
			}
			coords = append(coords, c...)
		}
		return coords, nil
	default:
		return nil, &UnsupportedGeometryError{Kind: typeName(t)}
	}
}
