package polycut

import (
	"math"
	"testing"

	"github.com/cheekybits/is"
	"github.com/paulsmith/gogeos/geos"
)

func TestReprojectSameReferenceIsNoop(t *testing.T) {
	is := is.New(t)

	r, err := NewReprojector(DefaultProjectedCRS, DefaultProjectedCRS)
	is.NoErr(err)

	g := geos.Must(geos.FromWKT("POLYGON((500000 5000000, 500010 5000000, 500010 5000010, 500000 5000010, 500000 5000000))"))
	out, err := r.Geometry(g)
	is.NoErr(err)

	area, err := out.Area()
	is.NoErr(err)
	is.Equal(area, 100.0)

	b, err := geomBounds(out)
	is.NoErr(err)
	is.Equal(b.Min.X, 500000.0)
	is.Equal(b.Min.Y, 5000000.0)
}

func TestReprojectToUTM(t *testing.T) {
	is := is.New(t)

	r, err := NewReprojector(DefaultGeographicCRS, DefaultProjectedCRS)
	is.NoErr(err)

	// A point on the UTM 14N central meridian maps to an easting of
	// 500 km.
	g := geos.Must(geos.FromWKT("POINT(-99 49)"))
	out, err := r.Geometry(g)
	is.NoErr(err)

	x, err := out.X()
	is.NoErr(err)
	y, err := out.Y()
	is.NoErr(err)
	is.True(math.Abs(x-500000) < 1)
	is.True(y > 5000000 && y < 6000000)
}

func TestReprojectKeepsStructure(t *testing.T) {
	is := is.New(t)

	r, err := NewReprojector(DefaultGeographicCRS, DefaultProjectedCRS)
	is.NoErr(err)

	g := geos.Must(geos.FromWKT(
		"MULTIPOLYGON(((-99.01 49, -99 49, -99 49.01, -99.01 49)), ((-98.9 49, -98.89 49, -98.89 49.01, -98.9 49)))"))
	out, err := r.Geometry(g)
	is.NoErr(err)

	typ, err := out.Type()
	is.NoErr(err)
	is.Equal(typ, geos.MULTIPOLYGON)

	n, err := out.NGeometry()
	is.NoErr(err)
	is.Equal(n, 2)
}

func TestReprojectBadReference(t *testing.T) {
	is := is.New(t)

	_, err := NewReprojector("bogus", DefaultProjectedCRS)
	is.True(err != nil)
}
