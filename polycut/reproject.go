package polycut

import (
	"fmt"

	"github.com/ctessum/geom/proj"
	"github.com/paulsmith/gogeos/geos"
)

// Reprojector transforms working geometry between the interchange and
// projected references. Converting between equal references is a no-op,
// so calls at stage boundaries are idempotent.
type Reprojector struct {
	trans proj.Transformer
}

// NewReprojector builds a transform between two PROJ4/WKT reference
// definitions.
func NewReprojector(sourceCRS, destCRS string) (*Reprojector, error) {
	source, err := proj.Parse(sourceCRS)
	if err != nil {
		return nil, fmt.Errorf("bad source reference %q: %s", sourceCRS, err)
	}
	dest, err := proj.Parse(destCRS)
	if err != nil {
		return nil, fmt.Errorf("bad destination reference %q: %s", destCRS, err)
	}
	trans, err := source.NewTransform(dest)
	if err != nil {
		return nil, err
	}
	return &Reprojector{trans: trans}, nil
}

// Geometry rebuilds g with every coordinate transformed.
func (r *Reprojector) Geometry(g *geos.Geometry) (*geos.Geometry, error) {
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
		x, y, err = r.trans(x, y)
		if err != nil {
			return nil, err
		}
		return geos.NewPoint(geos.Coord{X: x, Y: y})
	case geos.LINESTRING:
		coords, err := r.coords(g)
		if err != nil {
			return nil, err
		}
		return geos.NewLineString(coords...)
	case geos.LINEARRING:
		coords, err := r.coords(g)
		if err != nil {
			return nil, err
		}
		return geos.NewLinearRing(coords...)
	case geos.POLYGON:
		shell, err := g.Shell()
		if err != nil {
			return nil, err
		}
		shellCoords, err := r.coords(shell)
		if err != nil {
			return nil, err
		}

		holes, err := g.Holes()
		if err != nil {
			return nil, err
		}
		holeCoords := make([][]geos.Coord, 0, len(holes))
		for _, h := range holes {
			c, err := r.coords(h)
			if err != nil {
				return nil, err
			}
			holeCoords = append(holeCoords, c)
		}
		return geos.NewPolygon(shellCoords, holeCoords...)
	case geos.MULTIPOINT, geos.MULTILINESTRING, geos.MULTIPOLYGON, geos.GEOMETRYCOLLECTION:
		parts, err := subGeometries(g)
		if err != nil {
			return nil, err
		}
		transformed := make([]*geos.Geometry, 0, len(parts))
		for _, p := range parts {
			tp, err := r.Geometry(p)
			if err != nil {
				return nil, err
			}
			transformed = append(transformed, tp)
		}
		return geos.NewCollection(t, transformed...)
	default:
		return nil, fmt.Errorf("unknown geometry type: %v", t)
	}
}

func (r *Reprojector) coords(g *geos.Geometry) ([]geos.Coord, error) {
	coords, err := g.Coords()
	if err != nil {
		return nil, err
	}
	out := make([]geos.Coord, 0, len(coords))
	for _, c := range coords {
		x, y, err := r.trans(c.X, c.Y)
		if err != nil {
			return nil, err
		}
		out = append(out, geos.Coord{X: x, Y: y})
	}
	return out, nil
}

// reprojectBuildings transforms every building in place.
func reprojectBuildings(r *Reprojector, buildings []Building) ([]Building, error) {
	out := make([]Building, 0, len(buildings))
	for _, b := range buildings {
		g, err := r.Geometry(b.Geom)
		if err != nil {
			return nil, fmt.Errorf("building %d: %s", b.ID, err)
		}
		b.Geom = g
		out = append(out, b)
	}
	return out, nil
}

func reprojectCutFeatures(r *Reprojector, features []CutFeature) ([]CutFeature, error) {
	out := make([]CutFeature, 0, len(features))
	for _, f := range features {
		g, err := r.Geometry(f.Geom)
		if err != nil {
			return nil, fmt.Errorf("cut feature %d: %s", f.ID, err)
		}
		f.Geom = g
		out = append(out, f)
	}
	return out, nil
}
