package analytics

import (
	"fmt"

	"github.com/ChicagoDave/citylayout/pkg/city"
	"github.com/ChicagoDave/citylayout/pkg/validation"
)

// Resolve computes the statistics of a generated city and audits it against
// the structural invariants every generation must satisfy.
func Resolve(c *city.City) (*CityStats, *validation.Report) {
	report := validation.NewReport()
	l := c.Layout()

	stats := &CityStats{
		Radius:                 c.Radius(),
		Seed:                   c.Seed(),
		HistoricalCenterRadius: l.HistoricalCenter().OuterRadius,
		RingEnd:                l.Outskirts().InnerRadius,
		Rings:                  len(l.Rings()),
		IndustrialZones:        len(l.IndustrialZones()),
		Districts:              len(l.Districts),
		DistrictsByType:        make(map[city.DistrictType]int),
		Buildings:              c.BuildingCount(),
		BuildingsByType:        c.BuildingCountsByType(),
	}
	for _, d := range l.Districts {
		stats.DistrictsByType[d.Type]++
	}

	// Zones are matched by position so industrial zones, which share a
	// label, are counted separately.
	zoneIdx := make(map[string]int, len(l.Zones))
	for i, z := range l.Zones {
		zoneIdx[zoneKey(z)] = i
		stats.Zones = append(stats.Zones, ZoneStats{
			Label:       z.Label,
			Kind:        z.Kind,
			Index:       z.Index,
			Direction:   z.Direction,
			InnerRadius: z.InnerRadius,
			OuterRadius: z.OuterRadius,
			AreaKm2:     z.Area(),
			Districts:   len(l.DistrictsInZone(z.Label)),
			ByType:      make(map[city.BuildingType]int),
		})
	}

	orphans := 0
	for _, b := range c.Buildings() {
		z := l.ZoneAt(b.Position)
		i, ok := zoneIdx[zoneKey(z)]
		if !ok || z.Label != b.Zone {
			orphans++
			continue
		}
		stats.Zones[i].Buildings++
		stats.Zones[i].ByType[b.Type]++
	}
	for i := range stats.Zones {
		if a := stats.Zones[i].AreaKm2; a > 0 {
			stats.Zones[i].Density = float64(stats.Zones[i].Buildings) / a
		}
	}
	if orphans > 0 {
		report.AddError(validation.Result{
			Level:       validation.LevelPlacement,
			Message:     fmt.Sprintf("%d buildings lie outside the zone they were placed in", orphans),
			ActualValue: orphans,
			Expected:    "0",
		})
	}

	audit(stats, report)
	return stats, report
}

func zoneKey(z city.Zone) string {
	return fmt.Sprintf("%s/%d", z.Label, z.Index)
}
