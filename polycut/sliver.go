package polycut

import (
	"fmt"

	"github.com/paulsmith/gogeos/geos"
)

// Explode flattens a building's cut result into one Fragment per polygon
// part, each carrying the parent building id and its rounded area.
func Explode(b Building) ([]Fragment, error) {
	t, err := b.Geom.Type()
	if err != nil {
		return nil, err
	}

	var parts []*geos.Geometry
	switch t {
	case geos.POLYGON:
		parts = []*geos.Geometry{b.Geom}
	case geos.MULTIPOLYGON, geos.GEOMETRYCOLLECTION:
		parts, err = subGeometries(b.Geom)
		if err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("building %d: cut result is %s, expected polygonal", b.ID, typeName(t))
	}

	fragments := make([]Fragment, 0, len(parts))
	for _, p := range parts {
		area, err := p.Area()
		if err != nil {
			return nil, err
		}
		fragments = append(fragments, Fragment{
			BuildingID: b.ID,
			Geom:       p,
			Area:       roundArea(area),
		})
	}
	return fragments, nil
}

// Partition routes every fragment into exactly one of the two output
// collections: below the threshold it is a sliver, at or above it is a
// valid split.
func Partition(fragments []Fragment, sliverMaxArea float64) (splits, slivers []Fragment) {
	splits = make([]Fragment, 0, len(fragments))
	slivers = make([]Fragment, 0)
	for _, f := range fragments {
		if f.Area < sliverMaxArea {
			slivers = append(slivers, f)
		} else {
			splits = append(splits, f)
		}
	}
	return splits, slivers
}
