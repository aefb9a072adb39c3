// Package density computes the relative building density of a city layout: a
// gaussian falloff from the city center boosted around district attractors.
package density

import (
	"math"

	"github.com/ChicagoDave/citylayout/pkg/city"
	"github.com/ChicagoDave/citylayout/pkg/config"
	"github.com/ChicagoDave/citylayout/pkg/geo"
)

// Field is a read-only density function over a layout. All methods are pure
// and safe for concurrent use.
type Field struct {
	layout        *city.Layout
	centerDensity float64
	citySigma     float64
	sigmaScale    func(label string) float64

	attractorSigma float64
	cutoff         float64 // distance beyond which a district contributes nothing
	maxBoost       float64
}

// New builds the density field of layout.
func New(layout *city.Layout, cfg *config.Config) *Field {
	d := cfg.Density
	attractorSigma := d.AttractorSigmaFraction * layout.Radius
	return &Field{
		layout:         layout,
		centerDensity:  d.CenterDensity,
		citySigma:      d.CitySigmaFraction * layout.Radius,
		sigmaScale:     d.SigmaScale,
		attractorSigma: attractorSigma,
		cutoff:         d.CutoffSigmas * attractorSigma,
		maxBoost:       d.MaxBoost,
	}
}

// Layout returns the layout the field was built for.
func (f *Field) Layout() *city.Layout { return f.layout }

// At returns the density at p in buildings per km². Points outside every zone
// have density 0.
func (f *Field) At(p geo.Point2D) float64 {
	return f.InZone(f.layout.ZoneAt(p), p)
}

// InZone evaluates the field at p for a caller that has already classified p
// into z.
func (f *Field) InZone(z city.Zone, p geo.Point2D) float64 {
	if z.IsOutside() {
		return 0
	}
	return f.Falloff(z, p) * (1 + f.Boost(p))
}

// Falloff is the gaussian city-center component of the field for zone z.
func (f *Field) Falloff(z city.Zone, p geo.Point2D) float64 {
	sigma := f.zoneSigma(z)
	return f.centerDensity * math.Exp(-p.LengthSq()/(2*sigma*sigma))
}

// Boost returns the summed attractor contribution at p, clipped at the
// configured maximum boost when it is positive.
func (f *Field) Boost(p geo.Point2D) float64 {
	cutoffSq := f.cutoff * f.cutoff
	twoSigmaSq := 2 * f.attractorSigma * f.attractorSigma
	sum := 0.0
	for _, d := range f.layout.Districts {
		distSq := p.DistanceSq(d.Position)
		if distSq > cutoffSq {
			continue
		}
		sum += d.InfluenceStrength * math.Exp(-distSq/twoSigmaSq)
	}
	if f.maxBoost > 0 && sum > f.maxBoost {
		return f.maxBoost
	}
	return sum
}

// MaxInZone returns an upper bound of the field over zone z, used to
// normalise acceptance probabilities during placement.
func (f *Field) MaxInZone(z city.Zone) float64 {
	if z.IsOutside() {
		return 0
	}
	inner := math.Max(0, z.InnerRadius)
	sigma := f.zoneSigma(z)
	return f.centerDensity * math.Exp(-inner*inner/(2*sigma*sigma)) * (1 + f.boostCeiling())
}

func (f *Field) boostCeiling() float64 {
	if f.maxBoost > 0 {
		return f.maxBoost
	}
	total := 0.0
	for _, d := range f.layout.Districts {
		total += d.InfluenceStrength
	}
	return total
}

func (f *Field) zoneSigma(z city.Zone) float64 {
	return f.citySigma * f.sigmaScale(z.Label)
}
