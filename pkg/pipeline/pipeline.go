// Package pipeline runs a complete generation: radius validation, layout,
// density field and building placement.
package pipeline

import (
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/ChicagoDave/citylayout/pkg/city"
	"github.com/ChicagoDave/citylayout/pkg/config"
	"github.com/ChicagoDave/citylayout/pkg/density"
	"github.com/ChicagoDave/citylayout/pkg/layout"
	"github.com/ChicagoDave/citylayout/pkg/placement"
	"github.com/ChicagoDave/citylayout/pkg/validation"
)

// Stage names reported to observers.
const (
	StageLayout    = "layout"
	StagePlacement = "placement"
	StageDone      = "done"
)

// Event describes a finished stage.
type Event struct {
	Stage     string        `json:"stage"`
	Zones     int           `json:"zones"`
	Districts int           `json:"districts"`
	Buildings int           `json:"buildings"`
	Elapsed   time.Duration `json:"elapsed_ns"`
}

// Options controls a single run.
type Options struct {
	Radius   float64
	Seed     int64
	Parallel bool

	// Observer, when set, is called synchronously after each stage.
	Observer func(Event)
}

// Result is the outcome of a run.
type Result struct {
	City    *city.City
	Report  *validation.Report
	Elapsed time.Duration
}

// NewSeed returns a random seed for callers that did not ask for one.
func NewSeed() int64 {
	return rand.Int64()
}

// Run generates a city. Invalid radius and configuration errors are returned
// before any work is done; sampling shortfalls only appear in the report.
func Run(cfg *config.Config, opts Options) (*Result, error) {
	start := time.Now()
	gen, err := layout.New(cfg)
	if err != nil {
		return nil, err
	}
	if err := gen.ValidateRadius(opts.Radius); err != nil {
		return nil, err
	}

	report := validation.NewReport()
	rng := rand.New(rand.NewPCG(uint64(opts.Seed), layoutStream))
	l, layoutReport, err := gen.Generate(opts.Radius, rng)
	if err != nil {
		return nil, fmt.Errorf("generating layout: %w", err)
	}
	report.Merge(layoutReport)
	notify(opts, Event{
		Stage:     StageLayout,
		Zones:     len(l.Zones),
		Districts: len(l.Districts),
		Elapsed:   time.Since(start),
	})

	engine := placement.New(cfg, density.New(l, cfg))
	engine.Parallel = opts.Parallel
	buildings, placeReport := engine.Place(l, opts.Seed)
	report.Merge(placeReport)
	notify(opts, Event{
		Stage:     StagePlacement,
		Zones:     len(l.Zones),
		Districts: len(l.Districts),
		Buildings: buildings.Len(),
		Elapsed:   time.Since(start),
	})

	c := city.New(l, buildings, opts.Seed)
	elapsed := time.Since(start)
	notify(opts, Event{
		Stage:     StageDone,
		Zones:     len(l.Zones),
		Districts: len(l.Districts),
		Buildings: buildings.Len(),
		Elapsed:   elapsed,
	})
	return &Result{City: c, Report: report, Elapsed: elapsed}, nil
}

// layoutStream separates the layout random stream from the per-zone
// placement streams derived from the same seed.
const layoutStream = 0x6c61796f7574

func notify(opts Options, ev Event) {
	if opts.Observer != nil {
		opts.Observer(ev)
	}
}
