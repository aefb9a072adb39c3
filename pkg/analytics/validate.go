package analytics

import (
	"fmt"

	"github.com/ChicagoDave/citylayout/pkg/city"
	"github.com/ChicagoDave/citylayout/pkg/validation"
)

// audit runs the structural checks on resolved statistics.
func audit(s *CityStats, report *validation.Report) {
	auditZoneOrdering(s, report)
	auditDistrictCounts(s, report)
	auditIndustrialGap(s, report)
}

func auditZoneOrdering(s *CityStats, report *validation.Report) {
	prevOuter := 0.0
	for _, z := range s.Zones {
		if z.Kind == city.KindIndustrial {
			continue
		}
		if z.InnerRadius != prevOuter || z.OuterRadius <= z.InnerRadius {
			report.AddError(validation.Result{
				Level:       validation.LevelLayout,
				Message:     fmt.Sprintf("%s spans [%.3f, %.3f) km and does not continue from %.3f km", z.Label, z.InnerRadius, z.OuterRadius, prevOuter),
				ActualValue: z.InnerRadius,
				Expected:    fmt.Sprintf("%.3f", prevOuter),
			})
		}
		prevOuter = z.OuterRadius
	}
	if prevOuter != s.Radius {
		report.AddError(validation.Result{
			Level:       validation.LevelLayout,
			Message:     fmt.Sprintf("main zones end at %.3f km, city radius is %.3f km", prevOuter, s.Radius),
			ActualValue: prevOuter,
			Expected:    fmt.Sprintf("%.3f", s.Radius),
		})
	}
}

func auditDistrictCounts(s *CityStats, report *validation.Report) {
	prev := 0
	for _, z := range s.Zones {
		if z.Kind != city.KindRing {
			continue
		}
		if z.Districts < prev {
			report.AddError(validation.Result{
				Level:       validation.LevelLayout,
				Message:     fmt.Sprintf("%s has %d districts, fewer than the ring inside it (%d)", z.Label, z.Districts, prev),
				ConfigPath:  "districts.counts." + z.Label,
				ActualValue: z.Districts,
				Expected:    fmt.Sprintf(">= %d", prev),
			})
		}
		prev = z.Districts
	}
}

func auditIndustrialGap(s *CityStats, report *validation.Report) {
	for _, z := range s.Zones {
		if z.Kind != city.KindIndustrial {
			continue
		}
		if z.InnerRadius <= s.Radius {
			report.AddError(validation.Result{
				Level:       validation.LevelLayout,
				Message:     fmt.Sprintf("industrial zone %d (%s) reaches into the city", z.Index, z.Direction),
				ConfigPath:  "industrial.distance_fraction",
				ActualValue: z.InnerRadius,
				Expected:    fmt.Sprintf("> %.3f", s.Radius),
			})
		}
	}
}
