package layout

import (
	"math/rand/v2"

	"github.com/ChicagoDave/citylayout/pkg/city"
)

// rings splits the band between the historical center and the end of the ring
// system into n rings. Widths are jittered and normalised so the last ring
// ends exactly at the ring system end.
func (g *Generator) rings(radius, start float64, n int, rng *rand.Rand) []city.Zone {
	rs := g.cfg.Rings
	end := radius * (rs.EndFraction + rs.EndVariation*(2*rng.Float64()-1))

	factors := make([]float64, n)
	total := 0.0
	for i := range factors {
		factors[i] = uniform(rng, 1-rs.WidthJitter, 1+rs.WidthJitter)
		total += factors[i]
	}

	span := end - start
	zones := make([]city.Zone, n)
	inner := start
	for i := range zones {
		outer := inner + span*factors[i]/total
		if i == n-1 {
			outer = end
		}
		zones[i] = city.Zone{
			Kind:        city.KindRing,
			Label:       city.RingLabel(i + 1),
			Index:       i + 1,
			InnerRadius: inner,
			OuterRadius: outer,
		}
		inner = outer
	}
	return zones
}
