package layout

import (
	"fmt"
	"math"
	"math/rand/v2"

	"github.com/ChicagoDave/citylayout/pkg/city"
	"github.com/ChicagoDave/citylayout/pkg/config"
	"github.com/ChicagoDave/citylayout/pkg/geo"
	"github.com/ChicagoDave/citylayout/pkg/validation"
)

// districts places the district attractors: one at the exact city center when
// configured, then per ring the interpolated number of districts.
func (g *Generator) districts(radius float64, rings []city.Zone, rng *rand.Rand, report *validation.Report) []city.DistrictCenter {
	dc := g.cfg.Districts
	sigma := dc.InfluenceSigmaFraction * radius
	strength := g.cfg.Density.AttractorStrength
	minDist := dc.MinDistanceFraction * radius
	buffer := dc.BoundaryBufferFraction * radius

	var out []city.DistrictCenter
	if t := g.cfg.HistoricalCenter.DistrictType; t != "" {
		out = append(out, city.DistrictCenter{
			ID:                0,
			Type:              t,
			Position:          geo.Origin,
			Zone:              city.LabelHistoricalCenter,
			InfluenceSigma:    sigma,
			InfluenceStrength: strength,
		})
	}

	for _, ring := range rings {
		count := g.cfg.InterpolateCount(ring.Label, radius)
		weights := dc.TypeWeights[ring.Label]
		fallbacks := 0
		for range count {
			pos, ok := placeInAnnulus(ring.InnerRadius, ring.OuterRadius, buffer, minDist, dc.MaxAttempts, out, rng)
			if !ok {
				fallbacks++
			}
			out = append(out, city.DistrictCenter{
				ID:                len(out),
				Type:              pickDistrictType(weights, rng),
				Position:          pos,
				Zone:              ring.Label,
				Ring:              ring.Index,
				InfluenceSigma:    sigma,
				InfluenceStrength: strength,
			})
		}
		if fallbacks > 0 {
			report.AddWarning(validation.Result{
				Level: validation.LevelLayout,
				Message: fmt.Sprintf("%s: %d of %d districts closer than %.3f km to a neighbour after %d attempts",
					ring.Label, fallbacks, count, minDist, dc.MaxAttempts),
				ConfigPath: "districts.min_distance_fraction",
			})
		}
	}
	return out
}

// placeInAnnulus samples up to attempts positions area-uniformly in the
// annulus [inner+buffer, outer-buffer] and returns the first one at least
// minDist from every existing district. When all attempts fail it returns the
// candidate farthest from its nearest neighbour and false.
func placeInAnnulus(inner, outer, buffer, minDist float64, attempts int, existing []city.DistrictCenter, rng *rand.Rand) (geo.Point2D, bool) {
	if width := outer - inner; 2*buffer >= width {
		buffer = width / 4
	}
	lo, hi := inner+buffer, outer-buffer

	var best geo.Point2D
	bestClearance := -1.0
	for range attempts {
		r := math.Sqrt(lo*lo + rng.Float64()*(hi*hi-lo*lo))
		p := geo.Polar(r, rng.Float64()*2*math.Pi)
		clearance := nearestDistance(p, existing)
		if clearance >= minDist {
			return p, true
		}
		if clearance > bestClearance {
			best, bestClearance = p, clearance
		}
	}
	return best, false
}

func nearestDistance(p geo.Point2D, districts []city.DistrictCenter) float64 {
	nearest := math.Inf(1)
	for _, d := range districts {
		nearest = math.Min(nearest, p.Distance(d.Position))
	}
	return nearest
}

// pickDistrictType draws a district type from the categorical weights,
// iterating types in their canonical order so results depend on rng only.
func pickDistrictType(weights config.DistrictWeights, rng *rand.Rand) city.DistrictType {
	types := city.AllDistrictTypes()
	u := rng.Float64() * weights.Total()
	for _, t := range types {
		w := weights[t]
		if w <= 0 {
			continue
		}
		if u < w {
			return t
		}
		u -= w
	}
	for i := len(types) - 1; i >= 0; i-- {
		if weights[types[i]] > 0 {
			return types[i]
		}
	}
	return city.DistrictMixed
}
