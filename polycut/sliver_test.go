package polycut

import (
	"testing"

	"github.com/cheekybits/is"
	"github.com/paulsmith/gogeos/geos"
)

func TestExplodeSinglePolygon(t *testing.T) {
	is := is.New(t)

	b := Building{ID: 7, Geom: geos.Must(geos.FromWKT("POLYGON((0 0, 10 0, 10 10, 0 10, 0 0))"))}
	fragments, err := Explode(b)
	is.NoErr(err)
	is.Equal(len(fragments), 1)
	is.Equal(fragments[0].BuildingID, int64(7))
	is.Equal(fragments[0].Area, 100.0)
}

func TestExplodeMultiPolygon(t *testing.T) {
	is := is.New(t)

	b := Building{ID: 3, Geom: geos.Must(geos.FromWKT(
		"MULTIPOLYGON(((0 0, 10 0, 10 5, 0 5, 0 0)), ((0 5, 10 5, 10 10, 0 10, 0 5)))"))}
	fragments, err := Explode(b)
	is.NoErr(err)
	is.Equal(len(fragments), 2)
	// Every part keeps the parent id.
	is.Equal(fragments[0].BuildingID, int64(3))
	is.Equal(fragments[1].BuildingID, int64(3))
	is.Equal(fragments[0].Area, 50.0)
	is.Equal(fragments[1].Area, 50.0)
}

func TestExplodeRejectsLines(t *testing.T) {
	is := is.New(t)

	b := Building{ID: 1, Geom: geos.Must(geos.FromWKT("LINESTRING(0 0, 1 1)"))}
	_, err := Explode(b)
	is.True(err != nil)
}

func TestPartitionThreshold(t *testing.T) {
	is := is.New(t)

	fragments := []Fragment{
		{BuildingID: 1, Area: 49},
		{BuildingID: 1, Area: 51},
		{BuildingID: 2, Area: 19.99},
		{BuildingID: 2, Area: 20},
	}

	splits, slivers := Partition(fragments, 20)
	// 49 and 51 both clear a threshold of 20; 20 itself is not a sliver.
	is.Equal(len(splits), 3)
	is.Equal(len(slivers), 1)
	is.Equal(slivers[0].Area, 19.99)
}

func TestPartitionZeroThreshold(t *testing.T) {
	is := is.New(t)

	fragments := []Fragment{
		{BuildingID: 1, Area: 0.01},
		{BuildingID: 1, Area: 100},
	}

	splits, slivers := Partition(fragments, 0)
	is.Equal(len(splits), 2)
	is.Equal(len(slivers), 0)
}

func TestPartitionComplete(t *testing.T) {
	is := is.New(t)

	fragments := []Fragment{
		{Area: 5}, {Area: 15}, {Area: 25}, {Area: 35},
	}

	splits, slivers := Partition(fragments, 20)
	// Every fragment lands in exactly one collection.
	is.Equal(len(splits)+len(slivers), len(fragments))
	for _, f := range splits {
		is.True(f.Area >= 20)
	}
	for _, f := range slivers {
		is.True(f.Area < 20)
	}
}
