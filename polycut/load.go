package polycut

import (
	"fmt"
	"io/ioutil"
	"path/filepath"
	"strings"

	shp "github.com/jonas-p/go-shp"
	geojson "github.com/paulmach/go.geojson"
	"github.com/paulsmith/gogeos/geos"
)

// Ingestion of the three input collections. GeoJSON and shapefile sources
// are supported; every collection arrives in the configured interchange
// reference or declares its own, which is normalized here so the rest of
// the pipeline sees a single geographic reference.

// LoadBuildings reads the building-footprint collection. Non-polygonal
// records are not rejected here; the validation stage reports and drops
// them so one bad record never aborts the batch.
func LoadBuildings(cfg *Config) ([]Building, error) {
	geoms, err := loadInput(cfg, cfg.Buildings, "buildings")
	if err != nil {
		return nil, err
	}

	buildings := make([]Building, 0, len(geoms))
	for _, g := range geoms {
		buildings = append(buildings, Building{Geom: g})
	}
	return buildings, nil
}

// LoadCutFeatures reads the cut-geometry collection. Geometry kinds are
// checked later by the network builder, which owns the dispatch.
func LoadCutFeatures(cfg *Config) ([]CutFeature, error) {
	geoms, err := loadInput(cfg, cfg.Cut, "cut_geometry")
	if err != nil {
		return nil, err
	}

	features := make([]CutFeature, 0, len(geoms))
	for _, g := range geoms {
		features = append(features, CutFeature{Geom: g})
	}
	return features, nil
}

// LoadPoints reads the optional point-filter collection. Returns nil when
// not configured.
func LoadPoints(cfg *Config) ([]*geos.Geometry, error) {
	if cfg.Points == nil || cfg.Points.Path == "" {
		return nil, nil
	}
	return loadInput(cfg, cfg.Points, "points")
}

func loadInput(cfg *Config, in *Input, name string) ([]*geos.Geometry, error) {
	if in == nil || in.Path == "" {
		return nil, fmt.Errorf("no path configured for input %q", name)
	}

	crs := cfg.InputCRS(in)
	if crs == "" {
		return nil, &CrsMismatchError{Collection: name}
	}

	var geoms []*geos.Geometry
	var err error
	switch strings.ToLower(filepath.Ext(in.Path)) {
	case ".geojson", ".json":
		geoms, err = loadGeoJSON(in.Path)
	case ".shp":
		geoms, err = loadShapefile(in.Path)
	default:
		return nil, fmt.Errorf("input %q: unsupported format %s", name, filepath.Ext(in.Path))
	}
	if err != nil {
		return nil, fmt.Errorf("input %q: %s", name, err)
	}

	// Normalize to the interchange reference at the ingestion boundary.
	// The transform is a no-op when the references already match.
	if crs != cfg.GeographicCRS && cfg.GeographicCRS != "" {
		reproj, err := NewReprojector(crs, cfg.GeographicCRS)
		if err != nil {
			return nil, err
		}
		for i, g := range geoms {
			geoms[i], err = reproj.Geometry(g)
			if err != nil {
				return nil, err
			}
		}
	}

	return geoms, nil
}

func loadGeoJSON(path string) ([]*geos.Geometry, error) {
	data, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, err
	}

	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return nil, err
	}

	geoms := make([]*geos.Geometry, 0, len(fc.Features))
	for _, f := range fc.Features {
		if f.Geometry == nil {
			continue
		}
		g, err := GeometryToGeos(f.Geometry)
		if err != nil {
			return nil, err
		}
		geoms = append(geoms, g)
	}
	return geoms, nil
}

func loadShapefile(path string) ([]*geos.Geometry, error) {
	shape, err := shp.Open(path)
	if err != nil {
		return nil, err
	}
	defer shape.Close()

	geoms := make([]*geos.Geometry, 0)
	for shape.Next() {
		_, s := shape.Shape()

		switch v := s.(type) {
		case *shp.Point:
			g, err := geos.NewPoint(geos.Coord{X: v.X, Y: v.Y})
			if err != nil {
				return nil, err
			}
			geoms = append(geoms, g)
		case *shp.MultiPoint:
			points := make([]*geos.Geometry, 0, len(v.Points))
			for _, p := range v.Points {
				pt, err := geos.NewPoint(geos.Coord{X: p.X, Y: p.Y})
				if err != nil {
					return nil, err
				}
				points = append(points, pt)
			}
			g, err := geos.NewCollection(geos.MULTIPOINT, points...)
			if err != nil {
				return nil, err
			}
			geoms = append(geoms, g)
		case *shp.PolyLine:
			lines := make([]*geos.Geometry, 0, len(v.Parts))
			for _, part := range shapeParts(v.Parts, v.Points) {
				if len(part) < 2 {
					continue
				}
				l, err := geos.NewLineString(part...)
				if err != nil {
					return nil, err
				}
				lines = append(lines, l)
			}
			g, err := collectionOrSingle(geos.MULTILINESTRING, lines)
			if err != nil {
				return nil, err
			}
			geoms = append(geoms, g)
		case *shp.Polygon:
			g, err := polygonFromShape((*shp.PolyLine)(v))
			if err != nil {
				return nil, err
			}
			geoms = append(geoms, g)
		default:
			return nil, fmt.Errorf("unsupported shape type %T", s)
		}
	}
	return geoms, nil
}

// polygonFromShape reassembles a shapefile polygon record. Shapefile rings
// carry no shell/hole nesting, so rings are built as standalone polygons
// first and holes are matched to their shell by containment, the same way
// the relation assembly works.
func polygonFromShape(v *shp.PolyLine) (*geos.Geometry, error) {
	outer := make([]*geos.Geometry, 0)
	inner := make([]*geos.Geometry, 0)

	for _, part := range shapeParts(v.Parts, v.Points) {
		if len(part) < 4 {
			continue
		}
		ring, err := geos.NewPolygon(part)
		if err != nil {
			return nil, err
		}
		// Shapefile convention: outer rings wind clockwise.
		if shapeRingClockwise(part) {
			outer = append(outer, ring)
		} else {
			inner = append(inner, ring)
		}
	}
	if len(outer) == 0 {
		outer, inner = inner, nil
	}

	return assemblePolygons(outer, inner)
}

// assemblePolygons matches hole rings to the shell that contains them and
// builds the final polygon or multipolygon.
func assemblePolygons(outer, inner []*geos.Geometry) (*geos.Geometry, error) {
	polygons := make([]*geos.Geometry, 0, len(outer))
	for _, shell := range outer {
		holes := make([][]geos.Coord, 0)

		if len(inner) > 0 {
			pshell := geos.PrepareGeometry(shell)
			for i := 0; i < len(inner); i++ {
				hole := inner[i]
				c, err := pshell.Contains(hole)
				if err != nil {
					return nil, err
				}
				if c {
					s, err := hole.Shell()
					if err != nil {
						return nil, err
					}
					coords, err := s.Coords()
					if err != nil {
						return nil, err
					}
					holes = append(holes, coords)
					inner = append(inner[:i], inner[i+1:]...)
					i--
				}
			}
		}

		s, err := shell.Shell()
		if err != nil {
			return nil, err
		}
		scoords, err := s.Coords()
		if err != nil {
			return nil, err
		}

		polygon, err := geos.NewPolygon(scoords, holes...)
		if err != nil {
			return nil, err
		}
		polygons = append(polygons, polygon)
	}

	return collectionOrSingle(geos.MULTIPOLYGON, polygons)
}

func collectionOrSingle(t geos.GeometryType, geoms []*geos.Geometry) (*geos.Geometry, error) {
	if len(geoms) == 1 {
		return geoms[0], nil
	}
	return geos.NewCollection(t, geoms...)
}

// shapeParts slices a shapefile record's flat point array into its parts,
// closing each ring's coordinates.
func shapeParts(parts []int32, points []shp.Point) [][]geos.Coord {
	result := make([][]geos.Coord, 0, len(parts))
	for i, first := range parts {
		last := len(points)
		if i < len(parts)-1 {
			last = int(parts[i+1])
		}

		coords := make([]geos.Coord, 0, last-int(first))
		for _, p := range points[first:last] {
			coords = append(coords, geos.Coord{X: p.X, Y: p.Y})
		}
		result = append(result, coords)
	}
	return result
}

func shapeRingClockwise(coords []geos.Coord) bool {
	sum := 0.0
	for i := 0; i+1 < len(coords); i++ {
		sum += (coords[i+1].X - coords[i].X) * (coords[i+1].Y + coords[i].Y)
	}
	return sum >= 0
}
