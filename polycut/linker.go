package polycut

import (
	"sort"

	"github.com/ctessum/geom"
	"github.com/ctessum/geom/index/rtree"
	"github.com/paulsmith/gogeos/geos"
)

// The spatial join between buildings and segments dominates the run cost,
// so candidates come from an R-tree on bounding boxes and only candidates
// pay for an exact GEOS intersection test.

// treeEntry is what goes into the R-tree. The index wants a geom.Geom, so
// the entry embeds the diagonal of the record's bounding box as a
// LineString, whose bounds are exactly the record's bounds. The GEOS
// geometry rides along for the exact test after the index lookup.
type treeEntry struct {
	geom.LineString
	id   int64
	geos *geos.Geometry
}

func newTreeEntry(id int64, g *geos.Geometry) (*treeEntry, error) {
	b, err := geomBounds(g)
	if err != nil {
		return nil, err
	}
	return &treeEntry{
		LineString: geom.LineString{b.Min, b.Max},
		id:         id,
		geos:       g,
	}, nil
}

// indexSegments loads all segments into an R-tree keyed by their bounds.
func indexSegments(segments []*Segment) (*rtree.Rtree, error) {
	tree := rtree.NewTree(25, 50)
	for _, s := range segments {
		entry, err := newTreeEntry(s.ID, s.Geom)
		if err != nil {
			return nil, err
		}
		tree.Insert(entry)
	}
	return tree, nil
}

// Link attaches to every building the sorted set of segment ids whose
// geometry intersects it. Touching the boundary counts. Buildings nothing
// intersects get an empty, non-nil set.
func Link(buildings []Building, segments []*Segment) ([]Building, error) {
	tree, err := indexSegments(segments)
	if err != nil {
		return nil, err
	}

	out := make([]Building, 0, len(buildings))
	for _, b := range buildings {
		bounds, err := geomBounds(b.Geom)
		if err != nil {
			return nil, err
		}

		prep := geos.PrepareGeometry(b.Geom)
		ids := make([]int64, 0)
		for _, hit := range tree.SearchIntersect(bounds) {
			entry := hit.(*treeEntry)
			ok, err := prep.Intersects(entry.geos)
			if err != nil {
				return nil, err
			}
			if ok {
				ids = append(ids, entry.id)
			}
		}

		sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
		b.Segments = ids
		out = append(out, b)
	}
	return out, nil
}

// FilterCutFeatures drops cut geometry that touches no building at all, so
// the network never carries segments that cannot cut anything.
func FilterCutFeatures(features []CutFeature, buildings []Building) ([]CutFeature, error) {
	tree := rtree.NewTree(25, 50)
	for i := range buildings {
		b := &buildings[i]
		entry, err := newTreeEntry(b.ID, b.Geom)
		if err != nil {
			return nil, err
		}
		tree.Insert(entry)
	}

	out := make([]CutFeature, 0, len(features))
	for _, f := range features {
		bounds, err := geomBounds(f.Geom)
		if err != nil {
			return nil, err
		}

		prep := geos.PrepareGeometry(f.Geom)
		for _, hit := range tree.SearchIntersect(bounds) {
			entry := hit.(*treeEntry)
			ok, err := prep.Intersects(entry.geos)
			if err != nil {
				return nil, err
			}
			if ok {
				out = append(out, f)
				break
			}
		}
	}
	return out, nil
}
