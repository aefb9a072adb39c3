package analytics

import (
	"math"
	"sort"
)

// Summarize groups city statistics by radius and aggregates each group.
// Summaries are ordered by increasing radius.
func Summarize(samples []*CityStats) []RadiusSummary {
	groups := make(map[float64][]*CityStats)
	for _, s := range samples {
		groups[s.Radius] = append(groups[s.Radius], s)
	}

	radii := make([]float64, 0, len(groups))
	for r := range groups {
		radii = append(radii, r)
	}
	sort.Float64s(radii)

	out := make([]RadiusSummary, 0, len(radii))
	for _, r := range radii {
		g := groups[r]
		out = append(out, RadiusSummary{
			Radius:          r,
			Samples:         len(g),
			Districts:       aggregate(g, func(s *CityStats) int { return s.Districts }),
			Rings:           aggregate(g, func(s *CityStats) int { return s.Rings }),
			IndustrialZones: aggregate(g, func(s *CityStats) int { return s.IndustrialZones }),
			Buildings:       aggregate(g, func(s *CityStats) int { return s.Buildings }),
		})
	}
	return out
}

func aggregate(samples []*CityStats, value func(*CityStats) int) Aggregate {
	if len(samples) == 0 {
		return Aggregate{}
	}
	a := Aggregate{Min: math.Inf(1), Max: math.Inf(-1)}
	sum := 0.0
	for _, s := range samples {
		v := float64(value(s))
		a.Min = math.Min(a.Min, v)
		a.Max = math.Max(a.Max, v)
		sum += v
	}
	a.Mean = sum / float64(len(samples))
	return a
}
