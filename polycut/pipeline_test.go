package polycut

import (
	"testing"

	"github.com/cheekybits/is"
	"github.com/paulsmith/gogeos/geos"
)

// planarConfig keeps both references identical so the projection stage is
// a no-op and fixtures can use plain planar coordinates.
func planarConfig() *Config {
	cfg := DefaultConfig()
	cfg.GeographicCRS = DefaultProjectedCRS
	cfg.Workers = 2
	return cfg
}

func TestPipelineSplitsSquare(t *testing.T) {
	is := is.New(t)

	buildings := []Building{
		{Geom: geos.Must(geos.FromWKT("POLYGON((0 0, 10 0, 10 10, 0 10, 0 0))"))},
	}
	cut := []CutFeature{
		{Geom: geos.Must(geos.FromWKT("LINESTRING(-1 5, 11 5)"))},
	}

	result, err := NewPipeline(planarConfig()).
		Buildings(buildings).
		CutGeometry(cut).
		Run()
	is.NoErr(err)

	is.Equal(len(result.Splits), 2)
	is.Equal(len(result.Slivers), 0)
	is.Equal(len(result.Unresolved), 0)
	is.Equal(result.Report.Len(), 0)
	for _, f := range result.Splits {
		is.Equal(f.BuildingID, int64(1))
		is.Equal(f.Area, 50.0)
	}
}

func TestPipelineUncutBuildingPasses(t *testing.T) {
	is := is.New(t)

	buildings := []Building{
		{Geom: geos.Must(geos.FromWKT("POLYGON((0 0, 10 0, 10 10, 0 10, 0 0))"))},
		{Geom: geos.Must(geos.FromWKT("POLYGON((100 100, 110 100, 110 110, 100 110, 100 100))"))},
	}
	cut := []CutFeature{
		{Geom: geos.Must(geos.FromWKT("LINESTRING(-1 5, 11 5)"))},
	}

	result, err := NewPipeline(planarConfig()).
		Buildings(buildings).
		CutGeometry(cut).
		Run()
	is.NoErr(err)

	is.Equal(len(result.Splits), 3)
	var areas []float64
	for _, f := range result.Splits {
		areas = append(areas, f.Area)
	}
	is.Equal(sumAreas(areas), 200.0)
}

func TestPipelineSliverPartition(t *testing.T) {
	is := is.New(t)

	// Cutting 2 off a 10x10 square leaves a 2x10=20 piece, which is not a
	// sliver, and cutting at 1 leaves a 1x10=10 piece, which is.
	buildings := []Building{
		{Geom: geos.Must(geos.FromWKT("POLYGON((0 0, 10 0, 10 10, 0 10, 0 0))"))},
	}
	cut := []CutFeature{
		{Geom: geos.Must(geos.FromWKT("LINESTRING(1 -1, 1 11)"))},
	}

	result, err := NewPipeline(planarConfig()).
		Buildings(buildings).
		CutGeometry(cut).
		Run()
	is.NoErr(err)

	is.Equal(len(result.Splits), 1)
	is.Equal(result.Splits[0].Area, 90.0)
	is.Equal(len(result.Slivers), 1)
	is.Equal(result.Slivers[0].Area, 10.0)
}

func TestPipelinePointCutFeatureReported(t *testing.T) {
	is := is.New(t)

	buildings := []Building{
		{Geom: geos.Must(geos.FromWKT("POLYGON((0 0, 10 0, 10 10, 0 10, 0 0))"))},
	}
	cut := []CutFeature{
		{Geom: geos.Must(geos.FromWKT("LINESTRING(-1 5, 11 5)"))},
		{Geom: geos.Must(geos.FromWKT("POINT(5 5)"))},
	}

	result, err := NewPipeline(planarConfig()).
		Buildings(buildings).
		CutGeometry(cut).
		Run()
	is.NoErr(err)

	is.Equal(len(result.Splits), 2)
	is.Equal(result.Report.Len(), 1)
	_, ok := result.Report.Errors[0].(*UnsupportedGeometryError)
	is.True(ok)
}

func TestPipelineDeterministicOrder(t *testing.T) {
	is := is.New(t)

	buildings := make([]Building, 0, 8)
	for i := 0; i < 8; i++ {
		x := float64(i * 20)
		poly := geos.Must(geos.NewPolygon([]geos.Coord{
			{X: x, Y: 0}, {X: x + 10, Y: 0},
			{X: x + 10, Y: 10}, {X: x, Y: 10},
			{X: x, Y: 0},
		}))
		buildings = append(buildings, Building{Geom: poly})
	}
	cut := []CutFeature{
		{Geom: geos.Must(geos.FromWKT("LINESTRING(-5 5, 165 5)"))},
	}

	result, err := NewPipeline(planarConfig()).
		Buildings(buildings).
		CutGeometry(cut).
		Run()
	is.NoErr(err)

	is.Equal(len(result.Splits), 16)
	for i := 1; i < len(result.Splits); i++ {
		is.True(result.Splits[i-1].BuildingID <= result.Splits[i].BuildingID)
	}
}

func TestPipelineProgressCallback(t *testing.T) {
	is := is.New(t)

	buildings := []Building{
		{Geom: geos.Must(geos.FromWKT("POLYGON((0 0, 10 0, 10 10, 0 10, 0 0))"))},
		{Geom: geos.Must(geos.FromWKT("POLYGON((20 0, 30 0, 30 10, 20 10, 20 0))"))},
	}

	ticks := 0
	_, err := NewPipeline(planarConfig()).
		Buildings(buildings).
		CutGeometry(nil).
		Progress(func() { ticks++ }).
		Run()
	is.NoErr(err)
	is.Equal(ticks, 2)
}

func TestPipelineNonPolygonalBuildingReported(t *testing.T) {
	is := is.New(t)

	buildings := []Building{
		{Geom: geos.Must(geos.FromWKT("POLYGON((0 0, 10 0, 10 10, 0 10, 0 0))"))},
		{Geom: geos.Must(geos.FromWKT("LINESTRING(20 0, 30 10)"))},
	}
	cut := []CutFeature{
		{Geom: geos.Must(geos.FromWKT("LINESTRING(-1 5, 11 5)"))},
	}

	result, err := NewPipeline(planarConfig()).
		Buildings(buildings).
		CutGeometry(cut).
		Run()
	is.NoErr(err)

	// The line-typed building is reported and excluded, the polygon is
	// still cut.
	is.Equal(len(result.Splits), 2)
	is.Equal(result.Report.Len(), 1)
	ue, ok := result.Report.Errors[0].(*UnsupportedGeometryError)
	is.True(ok)
	is.Equal(ue.ID, int64(2))
}

func TestPipelineUnrepairableCutFeatureReported(t *testing.T) {
	is := is.New(t)

	buildings := []Building{
		{Geom: geos.Must(geos.FromWKT("POLYGON((0 0, 10 0, 10 10, 0 10, 0 0))"))},
	}
	cut := []CutFeature{
		{Geom: geos.Must(geos.FromWKT("LINESTRING(-1 5, 11 5)"))},
		{Geom: geos.Must(geos.FromWKT("POLYGON((0 0, 5 5, 0 0, 0 0))"))},
	}

	result, err := NewPipeline(planarConfig()).
		Buildings(buildings).
		CutGeometry(cut).
		Run()
	is.NoErr(err)

	is.Equal(len(result.Splits), 2)
	is.Equal(result.Report.Len(), 1)
	ue, ok := result.Report.Errors[0].(*UnrepairableGeometryError)
	is.True(ok)
	is.Equal(ue.ID, int64(2))
}

func TestCutStageRoutesDegenerate(t *testing.T) {
	is := is.New(t)

	network := networkFromWKT(t, "LINESTRING(-1 5, 11 5)")

	original := geos.Must(geos.FromWKT("POLYGON((100 100, 110 100, 110 110, 100 110, 100 100))"))
	buildings := []Building{
		{ID: 1, Geom: geos.Must(geos.FromWKT("POLYGON((0 0, 10 0, 10 10, 0 10, 0 0))")), Segments: []int64{1}},
		// Linkage pointing outside the catalog makes the cut fail.
		{ID: 2, Geom: original, Segments: []int64{7}},
	}

	report := NewReport()
	p := NewPipeline(planarConfig())
	done, unresolved, err := p.cutAll(buildings, network, report)
	is.NoErr(err)

	// The failed building keeps its original geometry and is set aside;
	// the rest of the batch is unaffected.
	is.Equal(len(done), 1)
	is.Equal(done[0].ID, int64(1))
	is.Equal(len(unresolved), 1)
	is.Equal(unresolved[0].ID, int64(2))
	is.Equal(unresolved[0].Geom, original)

	is.Equal(report.Len(), 1)
	de, ok := report.Errors[0].(*DegeneratePolygonizationError)
	is.True(ok)
	is.Equal(de.BuildingID, int64(2))
}

func TestBuildNetworkOnly(t *testing.T) {
	is := is.New(t)

	cut := []CutFeature{
		{Geom: geos.Must(geos.FromWKT("POLYGON((0 0, 10 0, 10 10, 0 10, 0 0))"))},
	}

	network, report, err := BuildNetworkOnly(planarConfig(), cut)
	is.NoErr(err)
	is.Equal(report.Len(), 0)
	is.Equal(len(network), 4)
}

func sumAreas(areas []float64) float64 {
	total := 0.0
	for _, a := range areas {
		total += a
	}
	return total
}
