package placement

import (
	"math"
	"math/rand/v2"

	"github.com/ChicagoDave/citylayout/pkg/city"
	"github.com/ChicagoDave/citylayout/pkg/config"
	"github.com/ChicagoDave/citylayout/pkg/geo"
)

// weights holds a normalised distribution indexed like city.AllBuildingTypes.
type weights []float64

func normalise(d config.Distribution) weights {
	types := city.AllBuildingTypes()
	w := make(weights, len(types))
	total := d.Total()
	if total <= 0 {
		return w
	}
	for i, t := range types {
		w[i] = d[t] / total
	}
	return w
}

// sample draws a building type. Types are visited in canonical order so the
// result depends on rng alone.
func (w weights) sample(rng *rand.Rand) city.BuildingType {
	types := city.AllBuildingTypes()
	total := 0.0
	for _, v := range w {
		total += v
	}
	u := rng.Float64() * total
	last := types[0]
	for i, v := range w {
		if v <= 0 {
			continue
		}
		if u < v {
			return types[i]
		}
		u -= v
		last = types[i]
	}
	return last
}

// typer assigns building types within one zone by blending the zone default
// with the distributions of nearby districts:
//
//	P = (1-α)·Z + α·D,  α = strength · max_i w_i
//
// where w_i is the gaussian influence of district i at the candidate and D is
// the w-weighted average of the district distributions.
type typer struct {
	zone      weights
	strength  float64
	cutoff    float64 // in district sigmas
	districts []city.DistrictCenter
	byType    map[city.DistrictType]weights
}

func newTyper(cfg *config.Config, label string, districts []city.DistrictCenter) *typer {
	t := &typer{
		zone:      normalise(cfg.Buildings.ZoneProbabilities[label]),
		strength:  cfg.Buildings.InfluenceFor(label),
		cutoff:    cfg.Districts.InfluenceCutoffSigmas,
		districts: districts,
		byType:    make(map[city.DistrictType]weights),
	}
	for dt, dist := range cfg.Districts.BuildingProbabilities {
		t.byType[dt] = normalise(dist)
	}
	return t
}

// distribution returns the blended distribution at p.
func (t *typer) distribution(p geo.Point2D) weights {
	if t.strength <= 0 || len(t.districts) == 0 {
		return t.zone
	}

	blend := make(weights, len(t.zone))
	total, peak := 0.0, 0.0
	for _, d := range t.districts {
		if d.InfluenceSigma <= 0 {
			continue
		}
		dist := p.Distance(d.Position)
		if dist > t.cutoff*d.InfluenceSigma {
			continue
		}
		w := math.Exp(-dist * dist / (2 * d.InfluenceSigma * d.InfluenceSigma))
		dw, ok := t.byType[d.Type]
		if !ok {
			continue
		}
		for i, v := range dw {
			blend[i] += w * v
		}
		total += w
		peak = math.Max(peak, w)
	}
	if total == 0 {
		return t.zone
	}

	alpha := t.strength * peak
	for i := range blend {
		blend[i] = (1-alpha)*t.zone[i] + alpha*blend[i]/total
	}
	return blend
}

func (t *typer) pick(p geo.Point2D, rng *rand.Rand) city.BuildingType {
	return t.distribution(p).sample(rng)
}
