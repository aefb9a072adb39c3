package main

import (
	"fmt"
	"sort"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/ChicagoDave/citylayout/pkg/analytics"
	"github.com/ChicagoDave/citylayout/pkg/city"
	"github.com/ChicagoDave/citylayout/pkg/validation"
)

func printValidationReport(r *validation.Report) {
	if len(r.Errors) > 0 {
		fmt.Printf("ERRORS (%d):\n", len(r.Errors))
		for _, e := range r.Errors {
			printResult(e)
		}
		fmt.Println()
	}

	if len(r.Warnings) > 0 {
		fmt.Printf("WARNINGS (%d):\n", len(r.Warnings))
		for _, w := range r.Warnings {
			printResult(w)
		}
		fmt.Println()
	}

	if len(r.Info) > 0 {
		fmt.Printf("INFO (%d):\n", len(r.Info))
		for _, i := range r.Info {
			fmt.Printf("  [%s] %s\n", i.Level, i.Message)
		}
		fmt.Println()
	}

	if r.Valid {
		fmt.Printf("Result: VALID (%s)\n", r.Summary)
	} else {
		fmt.Printf("Result: INVALID (%s)\n", r.Summary)
	}
}

func printResult(res validation.Result) {
	fmt.Printf("  [%s] %s\n", res.Level, res.Message)
	if res.ConfigPath != "" {
		if res.ActualValue != nil {
			fmt.Printf("    -> %s = %v\n", res.ConfigPath, res.ActualValue)
		} else {
			fmt.Printf("    -> %s\n", res.ConfigPath)
		}
	}
	if res.Expected != "" {
		fmt.Printf("    expected: %s\n", res.Expected)
	}
	for _, s := range res.Suggestions {
		fmt.Printf("    * %s\n", s)
	}
}

func printCitySummary(c *city.City, s *analytics.CityStats) {
	l := c.Layout()
	fmt.Printf("City (radius %.2f km, seed %d)\n", s.Radius, s.Seed)
	fmt.Println("==============================")
	fmt.Println()

	hc := l.HistoricalCenter()
	fmt.Printf("Historical center: 0.00 - %.2f km, %d district(s)\n",
		hc.OuterRadius, len(l.DistrictsInZone(hc.Label)))
	for _, z := range l.Rings() {
		fmt.Printf("Ring %d:            %.2f - %.2f km, %d districts\n",
			z.Index, z.InnerRadius, z.OuterRadius, len(l.DistrictsInZone(z.Label)))
	}
	out := l.Outskirts()
	fmt.Printf("Outskirts:         %.2f - %.2f km\n", out.InnerRadius, out.OuterRadius)
	for _, z := range l.IndustrialZones() {
		fmt.Printf("Industrial %-4s     (%.2f, %.2f) km, radius %.2f km\n",
			z.Direction+":", z.Center.X, z.Center.Y, z.Radius)
	}

	fmt.Println()
	fmt.Printf("District centers: %d", s.Districts)
	types := make([]string, 0, len(s.DistrictsByType))
	for _, t := range city.AllDistrictTypes() {
		if n := s.DistrictsByType[t]; n > 0 {
			types = append(types, fmt.Sprintf("%s %d", t, n))
		}
	}
	if len(types) > 0 {
		fmt.Printf(" (%s)", strings.Join(types, ", "))
	}
	fmt.Println()

	fmt.Printf("Buildings: %s\n", humanize.Comma(int64(s.Buildings)))
	for _, t := range city.AllBuildingTypes() {
		if n := s.BuildingsByType[t]; n > 0 {
			fmt.Printf("  %-12s %8s\n", t, humanize.Comma(int64(n)))
		}
	}

	fmt.Println()
	fmt.Printf("%-20s %10s %10s %12s\n", "Zone", "Area km2", "Buildings", "per km2")
	zones := append([]analytics.ZoneStats(nil), s.Zones...)
	sort.SliceStable(zones, func(i, j int) bool { return zones[i].InnerRadius < zones[j].InnerRadius })
	for _, z := range zones {
		name := z.Label
		if z.Direction != "" {
			name += " " + z.Direction
		}
		fmt.Printf("%-20s %10.2f %10s %12.1f\n", name, z.AreaKm2, humanize.Comma(int64(z.Buildings)), z.Density)
	}
}

func printBatchSummary(summaries []analytics.RadiusSummary) {
	fmt.Println("Batch summary")
	fmt.Println("=============")
	fmt.Printf("%-8s %7s %18s %14s %14s %24s\n",
		"Radius", "Samples", "Districts", "Rings", "Industrial", "Buildings")
	for _, s := range summaries {
		fmt.Printf("%-8.2f %7d %18s %14s %14s %24s\n",
			s.Radius, s.Samples,
			formatAggregate(s.Districts), formatAggregate(s.Rings),
			formatAggregate(s.IndustrialZones), formatAggregate(s.Buildings))
	}
}

// formatAggregate renders "mean [min-max]".
func formatAggregate(a analytics.Aggregate) string {
	return fmt.Sprintf("%s [%s-%s]",
		humanize.CommafWithDigits(a.Mean, 1),
		humanize.Comma(int64(a.Min)), humanize.Comma(int64(a.Max)))
}
