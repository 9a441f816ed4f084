package polycut

import (
	"log"
	"runtime"
	"sort"
	"sync"

	"github.com/paulsmith/gogeos/geos"
	"github.com/rubenv/servertiming"
	"golang.org/x/sync/errgroup"
)

// Pipeline runs one batch: validate, filter, decompose, link, cut,
// partition. All collections are materialized up front and every stage
// takes its input and returns a new collection; nothing mutates another
// stage's data in flight.
type Pipeline struct {
	config    *Config
	buildings []Building
	cut       []CutFeature
	points    []*geos.Geometry
	progress  func()

	Timing *servertiming.Timing
}

func NewPipeline(config *Config) *Pipeline {
	return &Pipeline{
		config: config,
		Timing: servertiming.New().EnablePrefix(),
	}
}

func (p *Pipeline) Buildings(buildings []Building) *Pipeline {
	p.buildings = buildings
	return p
}

func (p *Pipeline) CutGeometry(features []CutFeature) *Pipeline {
	p.cut = features
	return p
}

// Points supplies the optional filter collection; cut geometry containing
// none of these points is dropped before decomposition.
func (p *Pipeline) Points(points []*geos.Geometry) *Pipeline {
	p.points = points
	return p
}

// Progress registers a callback invoked once per building during the
// cutting phase.
func (p *Pipeline) Progress(fn func()) *Pipeline {
	p.progress = fn
	return p
}

func (p *Pipeline) workers() int {
	if p.config.Workers > 0 {
		return p.config.Workers
	}
	return runtime.NumCPU()
}

func (p *Pipeline) Run() (*Result, error) {
	report := NewReport()

	// Identities are assigned once here and survive for the whole run.
	buildings := make([]Building, len(p.buildings))
	copy(buildings, p.buildings)
	for i := range buildings {
		buildings[i].ID = int64(i + 1)
	}
	cut := make([]CutFeature, len(p.cut))
	copy(cut, p.cut)
	for i := range cut {
		cut[i].ID = int64(i + 1)
	}

	p.Timing.Start("validate", "Validate geometries")
	buildings = validateBuildings(buildings, report)
	cut = validateCutFeatures(cut, report)
	p.Timing.Stop("validate")

	p.Timing.Start("filter", "Filter cut geometry")
	cut, err := FilterCutFeatures(cut, buildings)
	if err != nil {
		return nil, err
	}
	if len(p.points) > 0 {
		cut, err = FilterByPoints(cut, p.points)
		if err != nil {
			return nil, err
		}
	}
	p.Timing.Stop("filter")

	p.Timing.Start("project", "Reproject to working reference")
	reproj, err := NewReprojector(p.config.GeographicCRS, p.config.ProjectedCRS)
	if err != nil {
		return nil, err
	}
	buildings, err = reprojectBuildings(reproj, buildings)
	if err != nil {
		return nil, err
	}
	cut, err = reprojectCutFeatures(reproj, cut)
	if err != nil {
		return nil, err
	}
	p.Timing.Stop("project")

	p.Timing.Start("network", "Build line network")
	network, err := BuildNetwork(cut, p.config.DedupeTolerance, report)
	if err != nil {
		return nil, err
	}
	log.Printf("Line network: %d segments from %d cut features", len(network), len(cut))
	p.Timing.Stop("network")

	p.Timing.Start("link", "Link buildings to segments")
	buildings, err = Link(buildings, network)
	if err != nil {
		return nil, err
	}
	p.Timing.Stop("link")

	p.Timing.Start("cut", "Cut buildings")
	cutDone, unresolved, err := p.cutAll(buildings, network, report)
	if err != nil {
		return nil, err
	}
	p.Timing.Stop("cut")

	p.Timing.Start("partition", "Partition fragments")
	fragments := make([]Fragment, 0, len(cutDone))
	for _, b := range cutDone {
		frags, err := Explode(b)
		if err != nil {
			return nil, err
		}
		fragments = append(fragments, frags...)
	}
	splits, slivers := Partition(fragments, p.config.SliverMaxArea)
	p.Timing.Stop("partition")

	log.Printf("Cut %d buildings into %d splits and %d slivers (%d records reported)",
		len(cutDone), len(splits), len(slivers), report.Len())

	return &Result{
		Splits:     splits,
		Slivers:    slivers,
		Network:    network,
		Unresolved: unresolved,
		Report:     report,
	}, nil
}

// BuildNetworkOnly validates, reprojects and decomposes the cut geometry
// without running the rest of the pipeline, for inspection of the line
// network on its own.
func BuildNetworkOnly(config *Config, features []CutFeature) ([]*Segment, *Report, error) {
	report := NewReport()

	cut := make([]CutFeature, len(features))
	copy(cut, features)
	for i := range cut {
		cut[i].ID = int64(i + 1)
	}
	cut = validateCutFeatures(cut, report)

	reproj, err := NewReprojector(config.GeographicCRS, config.ProjectedCRS)
	if err != nil {
		return nil, nil, err
	}
	cut, err = reprojectCutFeatures(reproj, cut)
	if err != nil {
		return nil, nil, err
	}

	network, err := BuildNetwork(cut, config.DedupeTolerance, report)
	if err != nil {
		return nil, nil, err
	}
	return network, report, nil
}

// cutAll runs the per-building cut on a fixed worker pool. The segment
// catalog is shared read-only; each worker writes only its own result
// slot, so output order stays keyed by building id.
func (p *Pipeline) cutAll(buildings []Building, network []*Segment, report *Report) ([]Building, []Building, error) {
	type job struct {
		idx int
	}

	results := make([]Building, len(buildings))
	failed := make([]bool, len(buildings))

	var g errgroup.Group
	jobs := make(chan job, 100)

	g.Go(func() error {
		defer close(jobs)
		for i := range buildings {
			jobs <- job{idx: i}
		}
		return nil
	})

	var progressLock sync.Mutex
	workers := p.workers()
	for i := 0; i < workers; i++ {
		g.Go(func() error {
			for j := range jobs {
				b := buildings[j.idx]
				geomOut, err := Cut(b.Geom, b.Segments, network)
				if err != nil {
					// Record-level failure: keep the original
					// geometry, flag the record, keep going.
					if de, ok := err.(*DegeneratePolygonizationError); ok {
						de.BuildingID = b.ID
						report.Add(de)
					} else {
						report.Add(&DegeneratePolygonizationError{
							BuildingID: b.ID,
							Reason:     err.Error(),
						})
					}
					failed[j.idx] = true
					results[j.idx] = b
				} else {
					b.Geom = geomOut
					results[j.idx] = b
				}

				if p.progress != nil {
					progressLock.Lock()
					p.progress()
					progressLock.Unlock()
				}
			}
			return nil
		})
	}

	err := g.Wait()
	if err != nil {
		return nil, nil, err
	}

	done := make([]Building, 0, len(results))
	unresolved := make([]Building, 0)
	for i, b := range results {
		if failed[i] {
			unresolved = append(unresolved, b)
		} else {
			done = append(done, b)
		}
	}
	sort.Slice(done, func(i, j int) bool { return done[i].ID < done[j].ID })
	sort.Slice(unresolved, func(i, j int) bool { return unresolved[i].ID < unresolved[j].ID })
	return done, unresolved, nil
}
