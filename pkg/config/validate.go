package config

import (
	"fmt"
	"math"
	"slices"

	"github.com/ChicagoDave/citylayout/pkg/city"
	"github.com/ChicagoDave/citylayout/pkg/validation"
)

// Validate performs semantic validation of a configuration. It checks the
// relations between values that the schema cannot express.
func Validate(c *Config) *validation.Report {
	r := validation.NewReport()
	if c == nil {
		r.AddError(validation.Result{
			Level:   validation.LevelConfig,
			Message: "configuration is nil",
		})
		return r
	}

	validateCity(c, r)
	validateHistoricalCenter(c, r)
	validateRings(c, r)
	validateIndustrial(c, r)
	validateDistricts(c, r)
	validateDensity(c, r)
	validateBuildings(c, r)

	return r
}

func positive(v float64) bool { return v > 0 && !math.IsInf(v, 1) }

func configError(r *validation.Report, path, msg string, actual any, expected string) {
	r.AddError(validation.Result{
		Level:       validation.LevelConfig,
		Message:     msg,
		ConfigPath:  path,
		ActualValue: actual,
		Expected:    expected,
	})
}

func validateCity(c *Config, r *validation.Report) {
	if !positive(c.City.MinRadius) {
		configError(r, "city.min_radius", "minimum radius must be positive", c.City.MinRadius, "> 0")
	}
	if !(c.City.MaxRadius > c.City.MinRadius) || math.IsInf(c.City.MaxRadius, 1) {
		configError(r, "city.max_radius", "maximum radius must exceed the minimum radius",
			c.City.MaxRadius, fmt.Sprintf("> %g", c.City.MinRadius))
	}
}

func validateHistoricalCenter(c *Config, r *validation.Report) {
	h := c.HistoricalCenter
	if !(h.MinFraction > 0 && h.MinFraction <= h.MaxFraction && h.MaxFraction < 1) {
		configError(r, "historical_center", "fractions must satisfy 0 < min_fraction <= max_fraction < 1",
			[2]float64{h.MinFraction, h.MaxFraction}, "0 < min <= max < 1")
	}
	if h.DistrictType != "" && !slices.Contains(city.AllDistrictTypes(), h.DistrictType) {
		configError(r, "historical_center.district_type", "unknown district type",
			h.DistrictType, "residential, commercial or mixed")
	}
}

func validateRings(c *Config, r *validation.Report) {
	rs := c.Rings
	minEnd := rs.EndFraction - rs.EndVariation
	maxEnd := rs.EndFraction + rs.EndVariation
	if rs.EndVariation < 0 {
		configError(r, "rings.end_variation", "end variation must be non-negative", rs.EndVariation, ">= 0")
	}
	if !(minEnd > c.HistoricalCenter.MaxFraction) {
		r.AddError(validation.Result{
			Level:       validation.LevelConfig,
			Message:     "ring system must end beyond the largest historical center",
			ConfigPath:  "rings.end_fraction",
			ActualValue: minEnd,
			Expected:    fmt.Sprintf("> %g", c.HistoricalCenter.MaxFraction),
			Suggestions: []string{"Increase rings.end_fraction or reduce historical_center.max_fraction"},
		})
	}
	if !(maxEnd < 1) {
		configError(r, "rings.end_fraction", "ring system must end inside the city so the outskirts are non-empty",
			maxEnd, "< 1")
	}
	if rs.WidthJitter < 0 || rs.WidthJitter >= 1 {
		configError(r, "rings.width_jitter", "width jitter must be in [0, 1)", rs.WidthJitter, "[0, 1)")
	}

	if len(rs.SizeBands) == 0 {
		configError(r, "rings.size_bands", "at least one size band is required", 0, ">= 1 band")
		return
	}
	prev := SizeBand{}
	for i, b := range rs.SizeBands {
		path := fmt.Sprintf("rings.size_bands[%d]", i)
		last := i == len(rs.SizeBands)-1
		if b.Rings < 1 {
			configError(r, path+".rings", "a size band needs at least one ring", b.Rings, ">= 1")
		}
		if b.IndustrialZones < 0 {
			configError(r, path+".industrial_zones", "industrial zone count must be non-negative", b.IndustrialZones, ">= 0")
		}
		if b.UpTo <= 0 && !last {
			configError(r, path+".up_to", "only the last size band may be unbounded", b.UpTo, "> 0")
		}
		if i > 0 {
			if b.UpTo > 0 && b.UpTo <= prev.UpTo {
				configError(r, path+".up_to", "size bands must be ordered by increasing radius",
					b.UpTo, fmt.Sprintf("> %g", prev.UpTo))
			}
			if b.Rings < prev.Rings {
				configError(r, path+".rings", "ring count must not decrease with city size",
					b.Rings, fmt.Sprintf(">= %d", prev.Rings))
			}
		}
		prev = b
	}
}

func validateIndustrial(c *Config, r *validation.Report) {
	ind := c.Industrial
	if !positive(ind.RadiusFraction) {
		configError(r, "industrial.radius_fraction", "industrial zone radius must be positive", ind.RadiusFraction, "> 0")
	}
	if gap := ind.DistanceFraction - ind.RadiusFraction - 1; !(gap > 0) {
		r.AddError(validation.Result{
			Level:       validation.LevelConfig,
			Message:     "industrial zones must leave a gap beyond the city boundary",
			ConfigPath:  "industrial.distance_fraction",
			ActualValue: gap,
			Expected:    "distance_fraction - radius_fraction > 1",
		})
	}
	if ind.AngleJitter < 0 || ind.AngleJitter > math.Pi/8 {
		configError(r, "industrial.angle_jitter", "angle jitter must be in [0, π/8]", ind.AngleJitter, "[0, 0.3927]")
	}
	if ind.Segments < 8 {
		configError(r, "industrial.segments", "industrial polygons need at least 8 segments", ind.Segments, ">= 8")
	}
}

func validateDistricts(c *Config, r *validation.Report) {
	d := c.Districts
	var prev CountRange
	for n := 1; n <= c.Rings.MaxRings(); n++ {
		label := city.RingLabel(n)
		cr, ok := d.Counts[label]
		if !ok {
			configError(r, "districts.counts."+label, "missing district count range for ring", nil, "min/max range")
		} else {
			if cr.Min < 1 || cr.Max < cr.Min {
				configError(r, "districts.counts."+label, "count range must satisfy 1 <= min <= max",
					[2]int{cr.Min, cr.Max}, "1 <= min <= max")
			}
			if n > 1 && (cr.Min < prev.Min || cr.Max < prev.Max) {
				configError(r, "districts.counts."+label, "district counts must not decrease with ring index",
					[2]int{cr.Min, cr.Max}, fmt.Sprintf(">= [%d %d]", prev.Min, prev.Max))
			}
			prev = cr
		}

		w, ok := d.TypeWeights[label]
		if !ok {
			configError(r, "districts.type_weights."+label, "missing district type weights for ring", nil, "weights")
			continue
		}
		validateWeights(r, "districts.type_weights."+label, w)
	}

	if d.BoundaryBufferFraction < 0 || d.BoundaryBufferFraction >= 0.5 {
		configError(r, "districts.boundary_buffer_fraction", "boundary buffer must be in [0, 0.5)",
			d.BoundaryBufferFraction, "[0, 0.5)")
	}
	if d.MinDistanceFraction < 0 {
		configError(r, "districts.min_distance_fraction", "minimum distance must be non-negative",
			d.MinDistanceFraction, ">= 0")
	}
	if d.MaxAttempts < 1 {
		configError(r, "districts.max_attempts", "at least one placement attempt is required", d.MaxAttempts, ">= 1")
	}
	if !positive(d.InfluenceSigmaFraction) {
		configError(r, "districts.influence_sigma_fraction", "influence sigma must be positive",
			d.InfluenceSigmaFraction, "> 0")
	}
	if !positive(d.InfluenceCutoffSigmas) {
		configError(r, "districts.influence_cutoff_sigmas", "influence cutoff must be positive",
			d.InfluenceCutoffSigmas, "> 0")
	}
	for _, t := range city.AllDistrictTypes() {
		path := fmt.Sprintf("districts.building_probabilities.%s", t)
		dist, ok := d.BuildingProbabilities[t]
		if !ok {
			configError(r, path, "missing building probabilities for district type", nil, "distribution")
			continue
		}
		validateDistribution(r, path, dist)
	}
}

func validateDensity(c *Config, r *validation.Report) {
	d := c.Density
	checks := []struct {
		path  string
		value float64
	}{
		{"density.center_density", d.CenterDensity},
		{"density.city_sigma_fraction", d.CitySigmaFraction},
		{"density.attractor_sigma_fraction", d.AttractorSigmaFraction},
		{"density.cutoff_sigmas", d.CutoffSigmas},
	}
	for _, ch := range checks {
		if !positive(ch.value) {
			configError(r, ch.path, "value must be positive", ch.value, "> 0")
		}
	}
	if d.AttractorStrength < 0 {
		configError(r, "density.attractor_strength", "attractor strength must be non-negative", d.AttractorStrength, ">= 0")
	}
	if d.MaxBoost < 0 {
		configError(r, "density.max_boost", "max boost must be non-negative", d.MaxBoost, ">= 0")
	}
	for label, s := range d.ZoneSigmaScale {
		if !positive(s) {
			configError(r, "density.zone_sigma_scale."+label, "sigma scale must be positive", s, "> 0")
		}
	}

	// Density falls off across every zone boundary only if no zone is wider
	// than the one inside it.
	labels := []string{city.LabelHistoricalCenter}
	for n := 1; n <= c.Rings.MaxRings(); n++ {
		labels = append(labels, city.RingLabel(n))
	}
	labels = append(labels, city.LabelOutskirts)
	for i := 1; i < len(labels); i++ {
		inner, outer := d.SigmaScale(labels[i-1]), d.SigmaScale(labels[i])
		if outer > inner {
			configError(r, "density.zone_sigma_scale."+labels[i],
				fmt.Sprintf("sigma scale must not exceed that of %s", labels[i-1]),
				outer, fmt.Sprintf("<= %g", inner))
		}
	}

	// The center district, clipped at max_boost, keeps the city center the
	// densest point.
	if d.AttractorStrength > 0 {
		if c.HistoricalCenter.DistrictType == "" {
			configError(r, "historical_center.district_type",
				"a center district is required when attractors boost density", "",
				"residential, commercial or mixed")
		}
		if !(d.MaxBoost > 0 && d.MaxBoost <= d.AttractorStrength) {
			configError(r, "density.max_boost", "max boost must be positive and at most the attractor strength",
				d.MaxBoost, fmt.Sprintf("(0, %g]", d.AttractorStrength))
		}
	}
}

func validateBuildings(c *Config, r *validation.Report) {
	b := c.Buildings
	labels := []string{city.LabelHistoricalCenter, city.LabelOutskirts, city.LabelIndustrial}
	for n := 1; n <= c.Rings.MaxRings(); n++ {
		labels = append(labels, city.RingLabel(n))
	}
	for _, label := range labels {
		path := "buildings.zone_probabilities." + label
		dist, ok := b.ZoneProbabilities[label]
		if !ok {
			configError(r, path, "missing building type probabilities for zone", nil, "distribution")
			continue
		}
		validateDistribution(r, path, dist)
	}
	for label, coef := range b.ZoneCoefficients {
		if coef < 0 || math.IsNaN(coef) {
			configError(r, "buildings.zone_coefficients."+label, "zone coefficient must be non-negative", coef, ">= 0")
		}
	}
	for label, s := range b.InfluenceStrength {
		if !(s >= 0 && s <= 1) {
			configError(r, "buildings.influence_strength."+label, "influence strength must be in [0, 1]", s, "[0, 1]")
		}
	}
	if b.MinDistance < 0 {
		configError(r, "buildings.min_distance", "minimum building distance must be non-negative", b.MinDistance, ">= 0")
	}
	if b.IndustrialMinDistance < 0 {
		configError(r, "buildings.industrial_min_distance", "minimum building distance must be non-negative",
			b.IndustrialMinDistance, ">= 0")
	}
	if b.RejectionsPerBuilding < 1 {
		configError(r, "buildings.rejections_per_building", "rejection budget must be positive",
			b.RejectionsPerBuilding, ">= 1")
	}
	if b.MinRejections < 0 {
		configError(r, "buildings.min_rejections", "rejection floor must be non-negative", b.MinRejections, ">= 0")
	}
	for _, t := range city.AllBuildingTypes() {
		path := fmt.Sprintf("buildings.footprints.%s", t)
		fp, ok := b.Footprints[t]
		if !ok {
			configError(r, path, "missing footprint range", nil, "min/max in meters")
			continue
		}
		if !(fp.Min > 0 && fp.Max >= fp.Min) {
			configError(r, path, "footprint range must satisfy 0 < min <= max", [2]float64{fp.Min, fp.Max}, "0 < min <= max")
		}
	}
}

func validateWeights(r *validation.Report, path string, w DistrictWeights) {
	for t, v := range w {
		if !slices.Contains(city.AllDistrictTypes(), t) {
			configError(r, fmt.Sprintf("%s.%s", path, t), "unknown district type", t, "residential, commercial or mixed")
		}
		if v < 0 || math.IsNaN(v) {
			configError(r, fmt.Sprintf("%s.%s", path, t), "weights must be non-negative", v, ">= 0")
		}
	}
	if !(w.Total() > 0) {
		configError(r, path, "weights must sum to a positive value", w.Total(), "> 0")
	}
}

func validateDistribution(r *validation.Report, path string, d Distribution) {
	for t, v := range d {
		if !slices.Contains(city.AllBuildingTypes(), t) {
			configError(r, fmt.Sprintf("%s.%s", path, t), "unknown building type", t, "apartment, house, office, commercial or factory")
		}
		if v < 0 || math.IsNaN(v) {
			configError(r, fmt.Sprintf("%s.%s", path, t), "probabilities must be non-negative", v, ">= 0")
		}
	}
	if !(d.Total() > 0) {
		configError(r, path, "probabilities must sum to a positive value", d.Total(), "> 0")
	}
}
