package polycut

import (
	"github.com/paulsmith/gogeos/geos"
)

// Validate returns g unchanged when it is already topologically valid,
// otherwise the nearest valid geometry obtained through a zero-width
// buffer. Line and point geometry passes through untouched: the buffer
// repair only applies to areal input, and GEOS reports lines as valid
// unless they are degenerate.
func Validate(g *geos.Geometry) (*geos.Geometry, error) {
	valid, err := isValid(g)
	if err != nil {
		return nil, err
	}
	if valid {
		return g, nil
	}

	t, err := g.Type()
	if err != nil {
		return nil, err
	}
	if t != geos.POLYGON && t != geos.MULTIPOLYGON {
		return nil, &UnrepairableGeometryError{Reason: "non-areal geometry is invalid"}
	}

	repaired, err := g.Buffer(0)
	if err != nil {
		return nil, &UnrepairableGeometryError{Reason: err.Error()}
	}

	valid, err = isValid(repaired)
	if err != nil {
		return nil, err
	}
	if !valid {
		return nil, &UnrepairableGeometryError{Reason: "still invalid after repair"}
	}

	empty, err := repaired.IsEmpty()
	if err != nil {
		return nil, err
	}
	if empty {
		return nil, &UnrepairableGeometryError{Reason: "repair produced empty geometry"}
	}

	return repaired, nil
}

// validateBuildings repairs every building in place, reporting the ones
// that are not polygonal or cannot be repaired and dropping them from the
// working set.
func validateBuildings(buildings []Building, report *Report) []Building {
	out := make([]Building, 0, len(buildings))
	for _, b := range buildings {
		t, err := b.Geom.Type()
		if err != nil {
			report.Add(&UnrepairableGeometryError{ID: b.ID, Reason: err.Error()})
			continue
		}
		if t != geos.POLYGON && t != geos.MULTIPOLYGON {
			report.Add(&UnsupportedGeometryError{ID: b.ID, Kind: typeName(t)})
			continue
		}

		g, err := Validate(b.Geom)
		if err != nil {
			if ue, ok := err.(*UnrepairableGeometryError); ok {
				ue.ID = b.ID
				report.Add(ue)
				continue
			}
			report.Add(&UnrepairableGeometryError{ID: b.ID, Reason: err.Error()})
			continue
		}
		b.Geom = g
		out = append(out, b)
	}
	return out
}

func validateCutFeatures(features []CutFeature, report *Report) []CutFeature {
	out := make([]CutFeature, 0, len(features))
	for _, f := range features {
		g, err := Validate(f.Geom)
		if err != nil {
			if ue, ok := err.(*UnrepairableGeometryError); ok {
				ue.ID = f.ID
				report.Add(ue)
				continue
			}
			report.Add(&UnrepairableGeometryError{ID: f.ID, Reason: err.Error()})
			continue
		}
		f.Geom = g
		out = append(out, f)
	}
	return out
}
