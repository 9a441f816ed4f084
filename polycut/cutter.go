package polycut

import (
	"fmt"
	"math"

	"github.com/paulsmith/gogeos/geos"
)

// areaTolerance bounds the relative difference allowed between a
// building's area and the summed area of its cut faces.
const areaTolerance = 1e-6

// Cut splits a building polygon along its linked segments.
//
// Splitting by each segment independently falls apart as soon as cutters
// cross each other or meet away from endpoints, so the full planar graph
// is built instead: linked segments are merged into maximal linestrings,
// the building's own boundary is added, the whole set is noded through a
// union, merged again, and polygonized. Faces whose interior point lies
// outside the original polygon (outside faces, hole faces) are discarded.
//
// An empty segment set returns the input geometry unchanged.
func Cut(building *geos.Geometry, segmentIDs []int64, catalog []*Segment) (*geos.Geometry, error) {
	if len(segmentIDs) == 0 {
		return building, nil
	}

	cutters := make([]*geos.Geometry, 0, len(segmentIDs))
	for _, id := range segmentIDs {
		if id < 1 || id > int64(len(catalog)) {
			return nil, fmt.Errorf("unknown segment id %d", id)
		}
		cutters = append(cutters, catalog[id-1].Geom)
	}

	lines, err := geos.NewCollection(geos.MULTILINESTRING, cutters...)
	if err != nil {
		return nil, err
	}
	merged, err := lines.LineMerge()
	if err != nil {
		return nil, err
	}

	boundary, err := building.Boundary()
	if err != nil {
		return nil, err
	}

	graph, err := geos.NewCollection(geos.GEOMETRYCOLLECTION, merged, boundary)
	if err != nil {
		return nil, err
	}

	// The union nodes all crossings so that polygonization sees a clean
	// planar graph.
	noded, err := graph.UnaryUnion()
	if err != nil {
		return nil, err
	}
	noded, err = noded.LineMerge()
	if err != nil {
		return nil, err
	}

	faces, err := polygonize(noded)
	if err != nil {
		return nil, err
	}

	kept, err := facesWithin(faces, building)
	if err != nil {
		return nil, err
	}
	if len(kept) == 0 {
		return nil, &DegeneratePolygonizationError{
			Faces:  0,
			Reason: "no face lies within the input polygon",
		}
	}

	err = checkAreaConserved(building, kept)
	if err != nil {
		return nil, err
	}

	return geos.NewCollection(geos.MULTIPOLYGON, kept...)
}

// facesWithin keeps the polygonization faces that belong to the input
// polygon, dropping faces formed outside it and faces filling its holes.
// Membership is tested on an interior point, which is immune to the
// vertices the noding step inserts along shared edges.
func facesWithin(faces *geos.Geometry, building *geos.Geometry) ([]*geos.Geometry, error) {
	parts, err := subGeometries(faces)
	if err != nil {
		return nil, err
	}

	prep := geos.PrepareGeometry(building)
	kept := make([]*geos.Geometry, 0, len(parts))
	for _, face := range parts {
		point, err := face.PointOnSurface()
		if err != nil {
			return nil, err
		}
		inside, err := prep.Intersects(point)
		if err != nil {
			return nil, err
		}
		if inside {
			kept = append(kept, face)
		}
	}
	return kept, nil
}

// checkAreaConserved verifies that the kept faces partition the input
// area. Numerical noding failures surface here instead of silently losing
// or inventing area.
func checkAreaConserved(building *geos.Geometry, faces []*geos.Geometry) error {
	want, err := building.Area()
	if err != nil {
		return err
	}

	got := 0.0
	for _, f := range faces {
		a, err := f.Area()
		if err != nil {
			return err
		}
		got += a
	}

	if want == 0 {
		return nil
	}
	if math.Abs(got-want)/want > areaTolerance {
		return &DegeneratePolygonizationError{
			Faces:  len(faces),
			Reason: fmt.Sprintf("face area %g does not match input area %g", got, want),
		}
	}
	return nil
}
