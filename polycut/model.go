package polycut

import (
	"github.com/paulsmith/gogeos/geos"
)

// Building is one footprint record. The ID is assigned once at ingestion
// and never changes; the geometry is replaced by the cut result as the
// record moves through the pipeline.
type Building struct {
	ID   int64
	Geom *geos.Geometry

	// Segments holds the ids of the line segments that intersect this
	// building, sorted ascending. Empty (never nil) after linking when
	// nothing intersects.
	Segments []int64
}

// CutFeature is one record of the geometry used to split buildings,
// either line or polygon typed.
type CutFeature struct {
	ID   int64
	Geom *geos.Geometry
}

// Segment is an atomic two-vertex line of the cut network. CutID points
// back to the feature it was decomposed from, for inspection only.
type Segment struct {
	ID    int64
	CutID int64
	Geom  *geos.Geometry
}

// Fragment is a single polygon produced by cutting a building. Area is
// rounded to two decimals in the working projected unit.
type Fragment struct {
	BuildingID int64
	Geom       *geos.Geometry
	Area       float64
}

// Result holds everything one run produces.
type Result struct {
	// Splits are the fragments at or above the sliver threshold.
	Splits []Fragment
	// Slivers are the fragments below the threshold, kept for inspection.
	Slivers []Fragment
	// Network is the deduplicated, atomized segment set used for cutting.
	Network []*Segment
	// Unresolved are buildings whose cut failed; they keep their original
	// geometry and are excluded from Splits.
	Unresolved []Building

	Report *Report
}
