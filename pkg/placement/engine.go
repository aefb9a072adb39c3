// Package placement populates a city layout with buildings by rejection
// sampling against the density field under a minimum spacing constraint.
package placement

import (
	"fmt"
	"math"
	"math/rand/v2"
	"sync"

	"github.com/ChicagoDave/citylayout/pkg/city"
	"github.com/ChicagoDave/citylayout/pkg/config"
	"github.com/ChicagoDave/citylayout/pkg/density"
	"github.com/ChicagoDave/citylayout/pkg/geo"
	"github.com/ChicagoDave/citylayout/pkg/validation"
)

// Engine places buildings. Each zone draws from its own random stream derived
// from the run seed, so sequential and parallel runs produce identical output.
type Engine struct {
	cfg   *config.Config
	field *density.Field

	// Parallel places every zone on its own goroutine.
	Parallel bool
}

// New returns an engine sampling from field. The field must have been built
// for the layout later passed to Place.
func New(cfg *config.Config, field *density.Field) *Engine {
	return &Engine{cfg: cfg, field: field}
}

// zoneResult is the outcome of populating one zone.
type zoneResult struct {
	label      string
	buildings  []city.Building
	target     int
	rejections int
	budget     int
}

// Place populates every zone of l and returns the buildings in zone order. The
// layout is not modified. A zone that exhausts its rejection budget before
// reaching its target is reported as a warning.
func (e *Engine) Place(l *city.Layout, seed int64) (*city.Buildings, *validation.Report) {
	report := validation.NewReport()
	if l == nil {
		report.AddError(validation.Result{Level: validation.LevelPlacement, Message: "no layout to populate"})
		return city.NewBuildings(0), report
	}

	results := make([]zoneResult, len(l.Zones))
	if e.Parallel {
		var wg sync.WaitGroup
		for i, z := range l.Zones {
			wg.Add(1)
			go func() {
				defer wg.Done()
				results[i] = e.placeZone(l, z, zoneRNG(seed, i))
			}()
		}
		wg.Wait()
	} else {
		for i, z := range l.Zones {
			results[i] = e.placeZone(l, z, zoneRNG(seed, i))
		}
	}

	total := 0
	for _, r := range results {
		total += len(r.buildings)
	}
	out := city.NewBuildings(total)
	for _, r := range results {
		for _, b := range r.buildings {
			out.Append(b)
		}
		if len(r.buildings) < r.target {
			report.AddWarning(validation.Result{
				Level: validation.LevelPlacement,
				Message: fmt.Sprintf("%s: placed %d of %d buildings before exhausting %d rejections",
					r.label, len(r.buildings), r.target, r.budget),
				ConfigPath:  "buildings.rejections_per_building",
				ActualValue: len(r.buildings),
				Expected:    fmt.Sprintf("%d", r.target),
				Suggestions: []string{"Lower buildings.min_distance or the zone coefficient"},
			})
		}
	}
	report.AddInfo(validation.Result{
		Level:   validation.LevelPlacement,
		Message: fmt.Sprintf("placed %d buildings in %d zones", total, len(l.Zones)),
	})
	return out, report
}

// zoneRNG derives the random stream of zone i from the run seed.
func zoneRNG(seed int64, i int) *rand.Rand {
	return rand.New(rand.NewPCG(uint64(seed), 0x9e3779b97f4a7c15*uint64(i+1)))
}

// Target returns the number of buildings zone z should receive.
func (e *Engine) Target(z city.Zone) int {
	n := z.Area() * e.cfg.Density.CenterDensity * e.cfg.Buildings.CoefficientFor(z.Label)
	return int(math.Round(n))
}

func (e *Engine) placeZone(l *city.Layout, z city.Zone, rng *rand.Rand) zoneResult {
	res := zoneResult{label: zoneName(z), target: e.Target(z)}
	if res.target <= 0 {
		return res
	}
	res.budget = e.cfg.Buildings.RejectionBudget(res.target)
	res.buildings = make([]city.Building, 0, res.target)

	var (
		candidate func() geo.Point2D
		accept    func(geo.Point2D) bool
		minDist   float64
	)
	if z.IsIndustrial() {
		minP, maxP := z.Polygon.BoundingBox()
		candidate = func() geo.Point2D {
			return geo.Pt(minP.X+rng.Float64()*(maxP.X-minP.X), minP.Y+rng.Float64()*(maxP.Y-minP.Y))
		}
		accept = func(geo.Point2D) bool { return true }
		minDist = e.cfg.Buildings.IndustrialMinDistance
	} else {
		inSq, outSq := z.InnerRadius*z.InnerRadius, z.OuterRadius*z.OuterRadius
		candidate = func() geo.Point2D {
			r := math.Sqrt(inSq + rng.Float64()*(outSq-inSq))
			return geo.Polar(r, rng.Float64()*2*math.Pi)
		}
		peak := e.field.MaxInZone(z)
		accept = func(p geo.Point2D) bool {
			return rng.Float64()*peak < e.field.InZone(z, p)
		}
		minDist = e.cfg.Buildings.MinDistance
	}

	spacing := newGrid(minDist)
	types := newTyper(e.cfg, z.Label, l.Districts)
	for len(res.buildings) < res.target && res.rejections < res.budget {
		p := candidate()
		if !z.Contains(p) || !accept(p) || !spacing.fits(p) {
			res.rejections++
			continue
		}
		spacing.insert(p)
		t := types.pick(p, rng)
		res.buildings = append(res.buildings, city.Building{
			Type:      t,
			Position:  p,
			Footprint: e.footprint(t, rng),
			Zone:      z.Label,
		})
	}
	return res
}

// footprint samples the side length in meters of a building of type t.
func (e *Engine) footprint(t city.BuildingType, rng *rand.Rand) float64 {
	fp := e.cfg.Buildings.Footprints[t]
	return fp.Min + rng.Float64()*(fp.Max-fp.Min)
}

func zoneName(z city.Zone) string {
	if z.IsIndustrial() {
		return fmt.Sprintf("%s_%d", z.Label, z.Index)
	}
	return z.Label
}
