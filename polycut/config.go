package polycut

import (
	"fmt"
	"io"
	"io/ioutil"
	"os"

	"github.com/ctessum/geom/proj"
	yaml "gopkg.in/yaml.v2"
)

const (
	// DefaultGeographicCRS is the interchange reference (WGS84 long/lat).
	DefaultGeographicCRS = "+proj=longlat +datum=WGS84 +no_defs"

	// DefaultProjectedCRS is the working reference used for spatial joins
	// and area computation (UTM zone 14N, metres).
	DefaultProjectedCRS = "+proj=utm +zone=14 +datum=WGS84 +units=m +no_defs"

	// DefaultSliverMaxArea is the area threshold below which a cut
	// fragment is classified as a sliver, in projected units.
	DefaultSliverMaxArea = 20.0
)

// Input describes one input collection. CRS overrides the configured
// geographic reference for this collection only.
type Input struct {
	Path string `yaml:"path"`
	CRS  string `yaml:"crs"`
}

// Output describes where the run results are written.
type Output struct {
	Dir      string `yaml:"dir"`
	Splits   string `yaml:"splits"`
	Lines    string `yaml:"lines"`
	Slivers  string `yaml:"slivers"`
	TopoJSON bool   `yaml:"topojson"`
}

type Config struct {
	GeographicCRS string `yaml:"geographic_crs"`
	ProjectedCRS  string `yaml:"projected_crs"`

	SliverMaxArea   float64 `yaml:"sliver_max_area"`
	DedupeTolerance float64 `yaml:"dedupe_tolerance"`

	// Workers bounds the cutting worker pool, 0 means NumCPU.
	Workers int `yaml:"workers"`

	// KeepArea retains the computed split_area attribute on output
	// records.
	KeepArea bool `yaml:"keep_area"`

	Buildings *Input  `yaml:"buildings"`
	Cut       *Input  `yaml:"cut_geometry"`
	Points    *Input  `yaml:"points"`
	Output    *Output `yaml:"output"`
}

// DefaultConfig returns a configuration with all defaults filled in.
// Parsing unmarshals on top of it, so absent keys keep their defaults
// while explicit zero values survive.
func DefaultConfig() *Config {
	return &Config{
		GeographicCRS: DefaultGeographicCRS,
		ProjectedCRS:  DefaultProjectedCRS,
		SliverMaxArea: DefaultSliverMaxArea,
		Output: &Output{
			Dir:     "out",
			Splits:  "splits.geojson",
			Lines:   "lines.geojson",
			Slivers: "slivers.geojson",
		},
	}
}

func ParseConfig(in io.Reader) (*Config, error) {
	data, err := ioutil.ReadAll(in)
	if err != nil {
		return nil, err
	}

	cfg := DefaultConfig()
	err = yaml.Unmarshal(data, cfg)
	if err != nil {
		return nil, err
	}

	err = cfg.Validate()
	if err != nil {
		return nil, err
	}

	return cfg, nil
}

func ReadConfig(configPath string) (*Config, error) {
	fp, err := os.Open(configPath)
	if err != nil {
		return nil, err
	}
	defer fp.Close()
	return ParseConfig(fp)
}

func (c *Config) Validate() error {
	if c.SliverMaxArea < 0 {
		return fmt.Errorf("sliver_max_area must be >= 0, got %v", c.SliverMaxArea)
	}
	if c.DedupeTolerance < 0 {
		return fmt.Errorf("dedupe_tolerance must be >= 0, got %v", c.DedupeTolerance)
	}
	if c.Workers < 0 {
		return fmt.Errorf("workers must be >= 0, got %v", c.Workers)
	}
	if c.GeographicCRS != "" {
		if _, err := proj.Parse(c.GeographicCRS); err != nil {
			return fmt.Errorf("bad geographic_crs: %s", err)
		}
	}
	if c.ProjectedCRS == "" {
		return fmt.Errorf("projected_crs must be set")
	}
	if _, err := proj.Parse(c.ProjectedCRS); err != nil {
		return fmt.Errorf("bad projected_crs: %s", err)
	}
	return nil
}

// ExpandEnv substitutes environment variables in all configured paths, so
// a dotenv-driven setup can point one config at different datasets.
func (c *Config) ExpandEnv() {
	for _, in := range []*Input{c.Buildings, c.Cut, c.Points} {
		if in != nil {
			in.Path = os.ExpandEnv(in.Path)
		}
	}
	if c.Output != nil {
		c.Output.Dir = os.ExpandEnv(c.Output.Dir)
	}
}

// InputCRS resolves the declared reference for an input collection,
// falling back to the configured geographic reference. An empty result
// means neither is available, which is fatal for the run.
func (c *Config) InputCRS(in *Input) string {
	if in != nil && in.CRS != "" {
		return in.CRS
	}
	return c.GeographicCRS
}
