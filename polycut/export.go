package polycut

import (
	"encoding/json"
	"fmt"
	"os"
	"path"
	"strings"

	geojson "github.com/paulmach/go.geojson"
	"github.com/rubenv/topojson"
)

// WriteResult writes the three output collections (splits, line network,
// slivers) plus a diagnostic collection for unresolved buildings when any
// exist. Working attributes are dropped; split_area is kept only when
// requested. Coordinates stay in the working projected reference.
func WriteResult(cfg *Config, result *Result) error {
	out := cfg.Output

	err := os.MkdirAll(out.Dir, 0755)
	if err != nil {
		return err
	}

	splits, err := fragmentCollection(result.Splits, cfg.KeepArea)
	if err != nil {
		return err
	}
	err = writeJSON(path.Join(out.Dir, out.Splits), splits)
	if err != nil {
		return err
	}

	if out.TopoJSON {
		topo := topojson.NewTopology(splits, &topojson.TopologyOptions{
			IDProperty: "building_id",
		})
		err = writeJSON(path.Join(out.Dir, topoName(out.Splits)), topo)
		if err != nil {
			return err
		}
	}

	lines, err := networkCollection(result.Network)
	if err != nil {
		return err
	}
	err = writeJSON(path.Join(out.Dir, out.Lines), lines)
	if err != nil {
		return err
	}

	slivers, err := fragmentCollection(result.Slivers, cfg.KeepArea)
	if err != nil {
		return err
	}
	err = writeJSON(path.Join(out.Dir, out.Slivers), slivers)
	if err != nil {
		return err
	}

	if len(result.Unresolved) > 0 {
		diag, err := unresolvedCollection(result.Unresolved)
		if err != nil {
			return err
		}
		err = writeJSON(path.Join(out.Dir, "unresolved.geojson"), diag)
		if err != nil {
			return err
		}
	}

	return nil
}

// WriteNetwork writes just the line network, for the lines subcommand.
func WriteNetwork(cfg *Config, network []*Segment) error {
	err := os.MkdirAll(cfg.Output.Dir, 0755)
	if err != nil {
		return err
	}
	fc, err := networkCollection(network)
	if err != nil {
		return err
	}
	return writeJSON(path.Join(cfg.Output.Dir, cfg.Output.Lines), fc)
}

func fragmentCollection(fragments []Fragment, keepArea bool) (*geojson.FeatureCollection, error) {
	fc := geojson.NewFeatureCollection()
	for _, f := range fragments {
		g, err := GeometryFromGeos(f.Geom)
		if err != nil {
			return nil, err
		}
		feat := geojson.NewFeature(g)
		feat.SetProperty("building_id", f.BuildingID)
		if keepArea {
			feat.SetProperty("split_area", f.Area)
		}
		fc.AddFeature(feat)
	}
	return fc, nil
}

func networkCollection(network []*Segment) (*geojson.FeatureCollection, error) {
	fc := geojson.NewFeatureCollection()
	for _, s := range network {
		g, err := GeometryFromGeos(s.Geom)
		if err != nil {
			return nil, err
		}
		feat := geojson.NewFeature(g)
		feat.SetProperty("segment_id", s.ID)
		feat.SetProperty("cut_id", s.CutID)
		fc.AddFeature(feat)
	}
	return fc, nil
}

func unresolvedCollection(buildings []Building) (*geojson.FeatureCollection, error) {
	fc := geojson.NewFeatureCollection()
	for _, b := range buildings {
		g, err := GeometryFromGeos(b.Geom)
		if err != nil {
			return nil, err
		}
		feat := geojson.NewFeature(g)
		feat.SetProperty("building_id", b.ID)
		feat.SetProperty("unresolved", true)
		fc.AddFeature(feat)
	}
	return fc, nil
}

func writeJSON(filename string, v interface{}) error {
	fp, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer fp.Close()
	return json.NewEncoder(fp).Encode(v)
}

func topoName(name string) string {
	base := strings.TrimSuffix(name, ".geojson")
	base = strings.TrimSuffix(base, ".json")
	return fmt.Sprintf("%s.topojson", base)
}
