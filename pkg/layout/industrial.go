package layout

import (
	"math"
	"math/rand/v2"

	"github.com/ChicagoDave/citylayout/pkg/city"
	"github.com/ChicagoDave/citylayout/pkg/geo"
)

var compassPoints = []string{"E", "NE", "N", "NW", "W", "SW", "S", "SE"}

// compass names the eight-way direction of angle theta (radians, counter
// clockwise from east).
func compass(theta float64) string {
	sector := int(math.Round(theta/(math.Pi/4))) % len(compassPoints)
	if sector < 0 {
		sector += len(compassPoints)
	}
	return compassPoints[sector]
}

// industrialZones places n disc-shaped zones beyond the city boundary at
// evenly spaced angles starting east, each perturbed by the configured jitter.
func (g *Generator) industrialZones(radius float64, n int, rng *rand.Rand) []city.Zone {
	ind := g.cfg.Industrial
	dist := ind.DistanceFraction * radius
	r := ind.RadiusFraction * radius

	zones := make([]city.Zone, n)
	for i := range zones {
		theta := 2*math.Pi*float64(i)/float64(n) + ind.AngleJitter*(2*rng.Float64()-1)
		center := geo.Polar(dist, theta)
		zones[i] = city.Zone{
			Kind:        city.KindIndustrial,
			Label:       city.LabelIndustrial,
			Index:       i,
			InnerRadius: dist - r,
			OuterRadius: dist + r,
			Center:      center,
			Radius:      r,
			Direction:   compass(theta),
			Polygon:     geo.ApproximateCircle(center, r, ind.Segments),
		}
	}
	return zones
}
