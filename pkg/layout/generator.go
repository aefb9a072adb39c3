// Package layout builds the zone hierarchy of a city and places its district
// attractors.
package layout

import (
	"fmt"
	"math"
	"math/rand/v2"

	"github.com/ChicagoDave/citylayout/pkg/city"
	"github.com/ChicagoDave/citylayout/pkg/config"
	"github.com/ChicagoDave/citylayout/pkg/validation"
)

// Generator produces city layouts from a validated configuration. It holds no
// mutable state and may be shared between goroutines.
type Generator struct {
	cfg *config.Config
}

// New returns a generator for cfg. It fails with city.ErrInvalidConfig when the
// configuration does not pass config.Validate.
func New(cfg *config.Config) (*Generator, error) {
	if err := config.Validate(cfg).Err(city.ErrInvalidConfig); err != nil {
		return nil, fmt.Errorf("layout: %w", err)
	}
	return &Generator{cfg: cfg}, nil
}

// Config returns the generator configuration.
func (g *Generator) Config() *config.Config { return g.cfg }

// ValidateRadius checks that radius is a finite value inside the supported
// range.
func (g *Generator) ValidateRadius(radius float64) error {
	return ValidateRadius(g.cfg, radius)
}

// ValidateRadius checks radius against the range configured in cfg.
func ValidateRadius(cfg *config.Config, radius float64) error {
	if math.IsNaN(radius) || math.IsInf(radius, 0) {
		return fmt.Errorf("%w: radius %v is not finite", city.ErrInvalidRadius, radius)
	}
	if radius <= 0 {
		return fmt.Errorf("%w: radius %g km must be positive", city.ErrInvalidRadius, radius)
	}
	if radius < cfg.City.MinRadius || radius > cfg.City.MaxRadius {
		return fmt.Errorf("%w: radius %g km outside [%g, %g]",
			city.ErrInvalidRadius, radius, cfg.City.MinRadius, cfg.City.MaxRadius)
	}
	return nil
}

// Generate builds the zones and district centers of a city with the given
// radius in km. Randomness is drawn from rng only. The returned report carries
// non-fatal findings such as district placements that fell back after
// exhausting their attempts.
func (g *Generator) Generate(radius float64, rng *rand.Rand) (*city.Layout, *validation.Report, error) {
	if err := g.ValidateRadius(radius); err != nil {
		return nil, nil, err
	}
	if rng == nil {
		return nil, nil, fmt.Errorf("layout: nil random source")
	}
	report := validation.NewReport()
	band := g.cfg.Rings.SizeBand(radius)

	hc := g.historicalCenter(radius, rng)
	rings := g.rings(radius, hc.OuterRadius, band.Rings, rng)
	ringEnd := rings[len(rings)-1].OuterRadius

	zones := make([]city.Zone, 0, len(rings)+2+band.IndustrialZones)
	zones = append(zones, hc)
	zones = append(zones, rings...)
	zones = append(zones, city.Zone{
		Kind:        city.KindOutskirts,
		Label:       city.LabelOutskirts,
		InnerRadius: ringEnd,
		OuterRadius: radius,
	})
	zones = append(zones, g.industrialZones(radius, band.IndustrialZones, rng)...)

	districts := g.districts(radius, rings, rng, report)

	report.AddInfo(validation.Result{
		Level: validation.LevelLayout,
		Message: fmt.Sprintf("%s city: %d rings, %d districts, %d industrial zones",
			band.Name, len(rings), len(districts), band.IndustrialZones),
	})

	return &city.Layout{
		Radius:    radius,
		Zones:     zones,
		Districts: districts,
	}, report, nil
}

func (g *Generator) historicalCenter(radius float64, rng *rand.Rand) city.Zone {
	h := g.cfg.HistoricalCenter
	return city.Zone{
		Kind:        city.KindHistoricalCenter,
		Label:       city.LabelHistoricalCenter,
		OuterRadius: radius * uniform(rng, h.MinFraction, h.MaxFraction),
	}
}

// uniform returns a value in [lo, hi).
func uniform(rng *rand.Rand, lo, hi float64) float64 {
	return lo + rng.Float64()*(hi-lo)
}
