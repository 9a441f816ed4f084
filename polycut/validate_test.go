package polycut

import (
	"testing"

	"github.com/cheekybits/is"
	"github.com/paulsmith/gogeos/geos"
)

func TestValidatePassThrough(t *testing.T) {
	is := is.New(t)

	g := geos.Must(geos.FromWKT("POLYGON((0 0, 10 0, 10 10, 0 10, 0 0))"))
	out, err := Validate(g)
	is.NoErr(err)
	// Valid geometry is returned as-is, not rebuilt.
	is.Equal(out, g)
}

func TestValidateRepairsBowtie(t *testing.T) {
	is := is.New(t)

	// Self-intersecting bowtie: invalid as a single ring.
	g := geos.Must(geos.FromWKT("POLYGON((0 0, 10 10, 10 0, 0 10, 0 0))"))
	valid, err := isValid(g)
	is.NoErr(err)
	is.Equal(valid, false)

	out, err := Validate(g)
	is.NoErr(err)

	valid, err = isValid(out)
	is.NoErr(err)
	is.True(valid)

	// Repair keeps the covered area: two triangles of 25 each.
	area, err := out.Area()
	is.NoErr(err)
	is.True(area > 49.9 && area < 50.1)
}

func TestValidateUnrepairable(t *testing.T) {
	is := is.New(t)

	// A zero-area polygon is invalid and the buffer repair collapses it
	// to nothing, so there is no valid geometry to continue with.
	g := geos.Must(geos.FromWKT("POLYGON((0 0, 5 5, 0 0, 0 0))"))
	_, err := Validate(g)
	is.True(err != nil)
	_, ok := err.(*UnrepairableGeometryError)
	is.True(ok)
}

func TestValidateBuildingsReports(t *testing.T) {
	is := is.New(t)

	report := NewReport()
	buildings := []Building{
		{ID: 1, Geom: geos.Must(geos.FromWKT("POLYGON((0 0, 1 0, 1 1, 0 1, 0 0))"))},
		{ID: 2, Geom: geos.Must(geos.FromWKT("POLYGON((0 0, 10 10, 10 0, 0 10, 0 0))"))},
	}

	out := validateBuildings(buildings, report)
	is.Equal(len(out), 2)
	is.Equal(report.Len(), 0)
}

func TestValidateBuildingsDropsNonPolygonal(t *testing.T) {
	is := is.New(t)

	report := NewReport()
	buildings := []Building{
		{ID: 1, Geom: geos.Must(geos.FromWKT("POLYGON((0 0, 1 0, 1 1, 0 1, 0 0))"))},
		{ID: 2, Geom: geos.Must(geos.FromWKT("LINESTRING(0 0, 5 5)"))},
		{ID: 3, Geom: geos.Must(geos.FromWKT("POINT(2 2)"))},
	}

	out := validateBuildings(buildings, report)
	is.Equal(len(out), 1)
	is.Equal(out[0].ID, int64(1))
	is.Equal(report.Len(), 2)

	ue, ok := report.Errors[0].(*UnsupportedGeometryError)
	is.True(ok)
	is.Equal(ue.ID, int64(2))
}

func TestValidateCutFeaturesReportsUnrepairable(t *testing.T) {
	is := is.New(t)

	report := NewReport()
	features := []CutFeature{
		{ID: 1, Geom: geos.Must(geos.FromWKT("LINESTRING(-1 5, 11 5)"))},
		{ID: 2, Geom: geos.Must(geos.FromWKT("POLYGON((0 0, 5 5, 0 0, 0 0))"))},
	}

	out := validateCutFeatures(features, report)
	is.Equal(len(out), 1)
	is.Equal(out[0].ID, int64(1))
	is.Equal(report.Len(), 1)

	ue, ok := report.Errors[0].(*UnrepairableGeometryError)
	is.True(ok)
	is.Equal(ue.ID, int64(2))
}
