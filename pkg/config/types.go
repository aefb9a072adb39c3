// Package config defines the tunable distribution rules consumed by the layout
// generator, the density field and the placement engine.
package config

import (
	"math"

	"github.com/ChicagoDave/citylayout/pkg/city"
)

// Config is the complete, immutable generation configuration.
type Config struct {
	City             CityParams       `yaml:"city" json:"city"`
	HistoricalCenter HistoricalCenter `yaml:"historical_center" json:"historical_center"`
	Rings            RingSystem       `yaml:"rings" json:"rings"`
	Industrial       Industrial       `yaml:"industrial" json:"industrial"`
	Districts        Districts        `yaml:"districts" json:"districts"`
	Density          Density          `yaml:"density" json:"density"`
	Buildings        Buildings        `yaml:"buildings" json:"buildings"`
}

// CityParams bounds the supported city radius, in km.
type CityParams struct {
	MinRadius float64 `yaml:"min_radius" json:"min_radius"`
	MaxRadius float64 `yaml:"max_radius" json:"max_radius"`
}

// HistoricalCenter sizes the central zone as a fraction of the city radius.
type HistoricalCenter struct {
	MinFraction float64 `yaml:"min_fraction" json:"min_fraction"`
	MaxFraction float64 `yaml:"max_fraction" json:"max_fraction"`

	// DistrictType is the type of the district placed at the exact city
	// center. Empty disables it.
	DistrictType city.DistrictType `yaml:"district_type" json:"district_type"`
}

// RingSystem places the ring boundaries between the historical center and the outskirts.
type RingSystem struct {
	EndFraction  float64    `yaml:"end_fraction" json:"end_fraction"`
	EndVariation float64    `yaml:"end_variation" json:"end_variation"`
	WidthJitter  float64    `yaml:"width_jitter" json:"width_jitter"` // ring widths vary by ±jitter before normalising
	SizeBands    []SizeBand `yaml:"size_bands" json:"size_bands"`
}

// SizeBand maps a radius range to ring and industrial zone counts.
type SizeBand struct {
	Name            string  `yaml:"name" json:"name"`
	UpTo            float64 `yaml:"up_to" json:"up_to"` // exclusive upper radius; 0 means unbounded
	Rings           int     `yaml:"rings" json:"rings"`
	IndustrialZones int     `yaml:"industrial_zones" json:"industrial_zones"`
}

// Industrial places the industrial zones beyond the city boundary.
type Industrial struct {
	DistanceFraction float64 `yaml:"distance_fraction" json:"distance_fraction"`
	RadiusFraction   float64 `yaml:"radius_fraction" json:"radius_fraction"`
	AngleJitter      float64 `yaml:"angle_jitter" json:"angle_jitter"` // radians
	Segments         int     `yaml:"segments" json:"segments"`
}

// CountRange is an inclusive integer range.
type CountRange struct {
	Min int `yaml:"min" json:"min"`
	Max int `yaml:"max" json:"max"`
}

// Range is an inclusive real range.
type Range struct {
	Min float64 `yaml:"min" json:"min"`
	Max float64 `yaml:"max" json:"max"`
}

// DistrictWeights is a categorical distribution over district types.
type DistrictWeights map[city.DistrictType]float64

// Total returns the sum of all weights.
func (w DistrictWeights) Total() float64 {
	total := 0.0
	for _, v := range w {
		total += v
	}
	return total
}

// Distribution is a categorical distribution over building types. Weights need
// not sum to one; consumers normalise.
type Distribution map[city.BuildingType]float64

// Total returns the sum of all weights.
func (d Distribution) Total() float64 {
	total := 0.0
	for _, v := range d {
		total += v
	}
	return total
}

// Districts configures district attractor generation.
type Districts struct {
	Counts                 map[string]CountRange      `yaml:"counts" json:"counts"`             // by ring label
	TypeWeights            map[string]DistrictWeights `yaml:"type_weights" json:"type_weights"` // by ring label
	BoundaryBufferFraction float64                    `yaml:"boundary_buffer_fraction" json:"boundary_buffer_fraction"`
	MinDistanceFraction    float64                    `yaml:"min_distance_fraction" json:"min_distance_fraction"`
	MaxAttempts            int                        `yaml:"max_attempts" json:"max_attempts"`
	InfluenceSigmaFraction float64                    `yaml:"influence_sigma_fraction" json:"influence_sigma_fraction"`
	InfluenceCutoffSigmas  float64                    `yaml:"influence_cutoff_sigmas" json:"influence_cutoff_sigmas"`

	// BuildingProbabilities is the building mix each district type pulls towards.
	BuildingProbabilities map[city.DistrictType]Distribution `yaml:"building_probabilities" json:"building_probabilities"`
}

// Density configures the gaussian density field.
type Density struct {
	CenterDensity          float64            `yaml:"center_density" json:"center_density"` // buildings per km² at the center
	CitySigmaFraction      float64            `yaml:"city_sigma_fraction" json:"city_sigma_fraction"`
	ZoneSigmaScale         map[string]float64 `yaml:"zone_sigma_scale" json:"zone_sigma_scale"`
	AttractorSigmaFraction float64            `yaml:"attractor_sigma_fraction" json:"attractor_sigma_fraction"`
	AttractorStrength      float64            `yaml:"attractor_strength" json:"attractor_strength"`
	CutoffSigmas           float64            `yaml:"cutoff_sigmas" json:"cutoff_sigmas"`
	MaxBoost               float64            `yaml:"max_boost" json:"max_boost"` // 0 leaves the attractor sum unclipped
}

// Buildings configures building placement.
type Buildings struct {
	ZoneCoefficients      map[string]float64          `yaml:"zone_coefficients" json:"zone_coefficients"`
	ZoneProbabilities     map[string]Distribution     `yaml:"zone_probabilities" json:"zone_probabilities"`
	InfluenceStrength     map[string]float64          `yaml:"influence_strength" json:"influence_strength"`
	MinDistance           float64                     `yaml:"min_distance" json:"min_distance"` // km
	IndustrialMinDistance float64                     `yaml:"industrial_min_distance" json:"industrial_min_distance"`
	RejectionsPerBuilding int                         `yaml:"rejections_per_building" json:"rejections_per_building"`
	MinRejections         int                         `yaml:"min_rejections" json:"min_rejections"`
	Footprints            map[city.BuildingType]Range `yaml:"footprints" json:"footprints"` // side length in meters
}

// defaultKey is the fallback entry in per-zone lookup tables.
const defaultKey = "default"

// SizeBand returns the band covering radius.
func (r RingSystem) SizeBand(radius float64) SizeBand {
	for _, b := range r.SizeBands {
		if b.UpTo <= 0 || radius < b.UpTo {
			return b
		}
	}
	if len(r.SizeBands) == 0 {
		return SizeBand{}
	}
	return r.SizeBands[len(r.SizeBands)-1]
}

// MaxRings returns the largest ring count of any size band.
func (r RingSystem) MaxRings() int {
	n := 0
	for _, b := range r.SizeBands {
		n = max(n, b.Rings)
	}
	return n
}

// SigmaScale returns the per-zone sigma multiplier, 1 when unset.
func (d Density) SigmaScale(label string) float64 {
	if s, ok := d.ZoneSigmaScale[label]; ok {
		return s
	}
	if s, ok := d.ZoneSigmaScale[defaultKey]; ok {
		return s
	}
	return 1
}

// InfluenceFor returns the district influence strength for a zone, falling
// back to the "default" entry.
func (b Buildings) InfluenceFor(label string) float64 {
	if s, ok := b.InfluenceStrength[label]; ok {
		return s
	}
	return b.InfluenceStrength[defaultKey]
}

// CoefficientFor returns the density coefficient of a zone, 0 when unset.
func (b Buildings) CoefficientFor(label string) float64 {
	return b.ZoneCoefficients[label]
}

// RejectionBudget returns the number of rejected candidates allowed while
// placing target buildings.
func (b Buildings) RejectionBudget(target int) int {
	return max(b.MinRejections, target*b.RejectionsPerBuilding)
}

// InterpolateCount returns the district count for a ring at the given radius,
// linear between the configured min and max over the supported radius range.
func (c *Config) InterpolateCount(ringLabel string, radius float64) int {
	cr, ok := c.Districts.Counts[ringLabel]
	if !ok {
		return 0
	}
	span := c.City.MaxRadius - c.City.MinRadius
	t := 0.0
	if span > 0 {
		t = (radius - c.City.MinRadius) / span
	}
	t = math.Max(0, math.Min(1, t))
	count := int(float64(cr.Min) + t*float64(cr.Max-cr.Min))
	return max(1, count)
}
