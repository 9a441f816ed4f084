package polycut

import (
	"fmt"
	"math"

	"github.com/ctessum/geom"
	geojson "github.com/paulmach/go.geojson"
	"github.com/paulsmith/gogeos/geos"
)

// Conversion between GeoJSON interchange geometry and GEOS working
// geometry. Only the six vector kinds of the data model are recognized;
// anything else is a fatal input error (the caller decides whether that
// aborts the run or just the record).

func GeometryToGeos(g *geojson.Geometry) (*geos.Geometry, error) {
	switch g.Type {
	case geojson.GeometryPoint:
		return geos.NewPoint(coordToGeos(g.Point))
	case geojson.GeometryMultiPoint:
		points := make([]*geos.Geometry, 0, len(g.MultiPoint))
		for _, c := range g.MultiPoint {
			p, err := geos.NewPoint(coordToGeos(c))
			if err != nil {
				return nil, err
			}
			points = append(points, p)
		}
		return geos.NewCollection(geos.MULTIPOINT, points...)
	case geojson.GeometryLineString:
		return geos.NewLineString(coordsToGeos(g.LineString)...)
	case geojson.GeometryMultiLineString:
		lines := make([]*geos.Geometry, 0, len(g.MultiLineString))
		for _, c := range g.MultiLineString {
			l, err := geos.NewLineString(coordsToGeos(c)...)
			if err != nil {
				return nil, err
			}
			lines = append(lines, l)
		}
		return geos.NewCollection(geos.MULTILINESTRING, lines...)
	case geojson.GeometryPolygon:
		return polygonToGeos(g.Polygon)
	case geojson.GeometryMultiPolygon:
		polys := make([]*geos.Geometry, 0, len(g.MultiPolygon))
		for _, rings := range g.MultiPolygon {
			p, err := polygonToGeos(rings)
			if err != nil {
				return nil, err
			}
			polys = append(polys, p)
		}
		return geos.NewCollection(geos.MULTIPOLYGON, polys...)
	default:
		return nil, fmt.Errorf("unknown geometry type: %v", g.Type)
	}
}

func polygonToGeos(rings [][][]float64) (*geos.Geometry, error) {
	if len(rings) == 0 {
		return nil, fmt.Errorf("polygon without rings")
	}
	shell := coordsToGeos(rings[0])
	holes := make([][]geos.Coord, 0, len(rings)-1)
	for _, r := range rings[1:] {
		holes = append(holes, coordsToGeos(r))
	}
	return geos.NewPolygon(shell, holes...)
}

func coordToGeos(c []float64) geos.Coord {
	return geos.Coord{X: c[0], Y: c[1]}
}

func coordsToGeos(coords [][]float64) []geos.Coord {
	result := make([]geos.Coord, 0, len(coords))
	for _, c := range coords {
		result = append(result, coordToGeos(c))
	}
	return result
}

func GeometryFromGeos(g *geos.Geometry) (*geojson.Geometry, error) {
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
		return geojson.NewPointGeometry([]float64{x, y}), nil
	case geos.LINESTRING, geos.LINEARRING:
		coords, err := lineCoords(g)
		if err != nil {
			return nil, err
		}
		return geojson.NewLineStringGeometry(coords), nil
	case geos.POLYGON:
		rings, err := polyToRings(g)
		if err != nil {
			return nil, err
		}
		return geojson.NewPolygonGeometry(rings), nil
	case geos.MULTIPOINT:
		parts, err := subGeometries(g)
		if err != nil {
			return nil, err
		}
		coords := make([][]float64, 0, len(parts))
		for _, p := range parts {
			x, err := p.X()
			if err != nil {
				return nil, err
			}
			y, err := p.Y()
			if err != nil {
				return nil, err
			}
			coords = append(coords, []float64{x, y})
		}
		return geojson.NewMultiPointGeometry(coords...), nil
	case geos.MULTILINESTRING:
		parts, err := subGeometries(g)
		if err != nil {
			return nil, err
		}
		lines := make([][][]float64, 0, len(parts))
		for _, p := range parts {
			coords, err := lineCoords(p)
			if err != nil {
				return nil, err
			}
			lines = append(lines, coords)
		}
		return geojson.NewMultiLineStringGeometry(lines...), nil
	case geos.MULTIPOLYGON, geos.GEOMETRYCOLLECTION:
		// Cut results come back as collections of polygons; treat any
		// all-polygon collection as a multipolygon.
		parts, err := subGeometries(g)
		if err != nil {
			return nil, err
		}
		polys := make([][][][]float64, 0, len(parts))
		for _, p := range parts {
			rings, err := polyToRings(p)
			if err != nil {
				return nil, err
			}
			polys = append(polys, rings)
		}
		return geojson.NewMultiPolygonGeometry(polys...), nil
	default:
		return nil, fmt.Errorf("unknown geometry type: %v", t)
	}
}

func polyToRings(g *geos.Geometry) ([][][]float64, error) {
	shell, err := g.Shell()
	if err != nil {
		return nil, err
	}
	outer, err := lineCoords(shell)
	if err != nil {
		return nil, err
	}

	holes, err := g.Holes()
	if err != nil {
		return nil, err
	}

	rings := make([][][]float64, len(holes)+1)
	rings[0] = outer
	for i, h := range holes {
		c, err := lineCoords(h)
		if err != nil {
			return nil, err
		}
		rings[i+1] = c
	}
	return rings, nil
}

func lineCoords(g *geos.Geometry) ([][]float64, error) {
	coords, err := g.Coords()
	if err != nil {
		return nil, err
	}
	result := make([][]float64, 0, len(coords))
	for _, c := range coords {
		result = append(result, []float64{c.X, c.Y})
	}
	return result, nil
}

func subGeometries(g *geos.Geometry) ([]*geos.Geometry, error) {
	n, err := g.NGeometry()
	if err != nil {
		return nil, err
	}
	parts := make([]*geos.Geometry, 0, n)
	for i := 0; i < n; i++ {
		p, err := g.Geometry(i)
		if err != nil {
			return nil, err
		}
		parts = append(parts, p)
	}
	return parts, nil
}

// geomBounds computes the axis-aligned bounds of any of the six vector
// kinds, for insertion into the spatial index.
func geomBounds(g *geos.Geometry) (*geom.Bounds, error) {
	b := geom.NewBounds()
	err := extendBounds(b, g)
	if err != nil {
		return nil, err
	}
	if b.Empty() {
		return nil, fmt.Errorf("empty geometry has no bounds")
	}
	return b, nil
}

func extendBounds(b *geom.Bounds, g *geos.Geometry) error {
	t, err := g.Type()
	if err != nil {
		return err
	}

	switch t {
	case geos.POINT:
		x, err := g.X()
		if err != nil {
			return err
		}
		y, err := g.Y()
		if err != nil {
			return err
		}
		b.Extend(geom.NewBoundsPoint(geom.Point{X: x, Y: y}))
	case geos.LINESTRING, geos.LINEARRING:
		coords, err := g.Coords()
		if err != nil {
			return err
		}
		for _, c := range coords {
			b.Extend(geom.NewBoundsPoint(geom.Point{X: c.X, Y: c.Y}))
		}
	case geos.POLYGON:
		shell, err := g.Shell()
		if err != nil {
			return err
		}
		err = extendBounds(b, shell)
		if err != nil {
			return err
		}
		// Holes lie within the shell, no need to walk them.
	case geos.MULTIPOINT, geos.MULTILINESTRING, geos.MULTIPOLYGON, geos.GEOMETRYCOLLECTION:
		parts, err := subGeometries(g)
		if err != nil {
			return err
		}
		for _, p := range parts {
			err = extendBounds(b, p)
			if err != nil {
				return err
			}
		}
	default:
		return fmt.Errorf("unknown geometry type: %v", t)
	}
	return nil
}

func typeName(t geos.GeometryType) string {
	switch t {
	case geos.POINT:
		return "Point"
	case geos.MULTIPOINT:
		return "MultiPoint"
	case geos.LINESTRING:
		return "LineString"
	case geos.LINEARRING:
		return "LinearRing"
	case geos.MULTILINESTRING:
		return "MultiLineString"
	case geos.POLYGON:
		return "Polygon"
	case geos.MULTIPOLYGON:
		return "MultiPolygon"
	case geos.GEOMETRYCOLLECTION:
		return "GeometryCollection"
	default:
		return fmt.Sprintf("GeometryType(%d)", int(t))
	}
}

// roundArea rounds to two decimals, the precision carried on fragments.
func roundArea(a float64) float64 {
	return math.Round(a*100) / 100
}
