package polycut

import (
	"fmt"
	"math"

	"github.com/paulsmith/gogeos/geos"
)

// The line network is the atomic decomposition of the cut geometry: every
// segment has exactly two vertices. Cutting only works on single-part,
// curvature-free lines, so polygons are reduced to their boundary and every
// linestring is walked pairwise.

// BuildNetwork decomposes the cut features into deduplicated atomic
// segments with dense 1-based ids. Point-typed features are reported as
// unsupported and skipped; an unrecognized geometry kind aborts the run.
func BuildNetwork(features []CutFeature, tolerance float64, report *Report) ([]*Segment, error) {
	segments := make([]*Segment, 0)
	for _, f := range features {
		atoms, err := Decompose(f.Geom)
		if err != nil {
			if ue, ok := err.(*UnsupportedGeometryError); ok {
				ue.ID = f.ID
				report.Add(ue)
				continue
			}
			return nil, fmt.Errorf("cut feature %d: %s", f.ID, err)
		}
		for _, a := range atoms {
			segments = append(segments, &Segment{CutID: f.ID, Geom: a})
		}
	}

	segments, err := dedupSegments(segments, tolerance)
	if err != nil {
		return nil, err
	}

	for i, s := range segments {
		s.ID = int64(i + 1)
	}
	return segments, nil
}

// Decompose turns a single cut geometry into its atomic two-vertex lines.
// Multi-part line input is first merged into maximal connected components,
// then each component is atomized.
func Decompose(g *geos.Geometry) ([]*geos.Geometry, error) {
	t, err := g.Type()
	if err != nil {
		return nil, err
	}

	switch t {
	case geos.LINESTRING, geos.LINEARRING:
		return atomize(g)
	case geos.MULTILINESTRING:
		merged, err := g.LineMerge()
		if err != nil {
			return nil, err
		}
		return atomizeParts(merged)
	case geos.POLYGON, geos.MULTIPOLYGON:
		bounds, err := g.Boundary()
		if err != nil {
			return nil, err
		}
		return atomizeParts(bounds)
	case geos.POINT, geos.MULTIPOINT:
		return nil, &UnsupportedGeometryError{Kind: typeName(t)}
	default:
		return nil, fmt.Errorf("unexpected geometry type %v in cut geometry", t)
	}
}

// atomizeParts handles boundary and line-merge results, which come back as
// either a single linestring or a collection of them.
func atomizeParts(g *geos.Geometry) ([]*geos.Geometry, error) {
	t, err := g.Type()
	if err != nil {
		return nil, err
	}

	switch t {
	case geos.LINESTRING, geos.LINEARRING:
		return atomize(g)
	case geos.MULTILINESTRING, geos.GEOMETRYCOLLECTION:
		parts, err := subGeometries(g)
		if err != nil {
			return nil, err
		}
		result := make([]*geos.Geometry, 0)
		for _, p := range parts {
			atoms, err := atomizeParts(p)
			if err != nil {
				return nil, err
			}
			result = append(result, atoms...)
		}
		return result, nil
	default:
		return nil, fmt.Errorf("unexpected geometry type %v in line decomposition", t)
	}
}

// atomize walks consecutive coordinate pairs of a linestring and emits one
// two-vertex segment per pair. Zero-length pairs from repeated coordinates
// are skipped.
func atomize(g *geos.Geometry) ([]*geos.Geometry, error) {
	coords, err := g.Coords()
	if err != nil {
		return nil, err
	}

	segments := make([]*geos.Geometry, 0, len(coords))
	for i := 0; i+1 < len(coords); i++ {
		a, b := coords[i], coords[i+1]
		if a.X == b.X && a.Y == b.Y {
			continue
		}
		seg, err := geos.NewLineString(a, b)
		if err != nil {
			return nil, err
		}
		segments = append(segments, seg)
	}
	return segments, nil
}

// dedupSegments collapses segments whose centroids coincide. With a zero
// tolerance only exact coordinate matches collapse (the legacy rule); a
// positive tolerance snaps centroids to a grid of that spacing first.
// The first occurrence wins, so the pass is idempotent and order-stable.
func dedupSegments(segments []*Segment, tolerance float64) ([]*Segment, error) {
	type key struct {
		x, y float64
	}

	seen := make(map[key]bool, len(segments))
	out := make([]*Segment, 0, len(segments))
	for _, s := range segments {
		c, err := s.Geom.Centroid()
		if err != nil {
			return nil, err
		}
		x, err := c.X()
		if err != nil {
			return nil, err
		}
		y, err := c.Y()
		if err != nil {
			return nil, err
		}

		k := key{x: x, y: y}
		if tolerance > 0 {
			k = key{
				x: math.Round(x/tolerance) * tolerance,
				y: math.Round(y/tolerance) * tolerance,
			}
		}

		if seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, s)
	}
	return out, nil
}
