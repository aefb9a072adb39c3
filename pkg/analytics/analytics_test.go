package analytics

import (
	"testing"

	"github.com/ChicagoDave/citylayout/pkg/city"
	"github.com/ChicagoDave/citylayout/pkg/config"
	"github.com/ChicagoDave/citylayout/pkg/geo"
	"github.com/ChicagoDave/citylayout/pkg/pipeline"
)

func generated(t *testing.T, radius float64, seed int64) *city.City {
	t.Helper()
	res, err := pipeline.Run(config.Default(), pipeline.Options{Radius: radius, Seed: seed})
	if err != nil {
		t.Fatalf("pipeline.Run failed: %v", err)
	}
	return res.City
}

func handmade() *city.Layout {
	return &city.Layout{
		Radius: 10,
		Zones: []city.Zone{
			{Kind: city.KindHistoricalCenter, Label: city.LabelHistoricalCenter, OuterRadius: 1.5},
			{Kind: city.KindRing, Label: "ring_1", Index: 1, InnerRadius: 1.5, OuterRadius: 4},
			{Kind: city.KindRing, Label: "ring_2", Index: 2, InnerRadius: 4, OuterRadius: 6.5},
			{Kind: city.KindOutskirts, Label: city.LabelOutskirts, InnerRadius: 6.5, OuterRadius: 10},
			{
				Kind: city.KindIndustrial, Label: city.LabelIndustrial, InnerRadius: 11, OuterRadius: 13,
				Center: geo.Pt(12, 0), Radius: 1, Direction: "E",
				Polygon: geo.ApproximateCircle(geo.Pt(12, 0), 1, 32),
			},
		},
		Districts: []city.DistrictCenter{
			{ID: 0, Type: city.DistrictMixed, Zone: city.LabelHistoricalCenter},
			{ID: 1, Type: city.DistrictCommercial, Position: geo.Pt(2, 0), Zone: "ring_1", Ring: 1},
			{ID: 2, Type: city.DistrictCommercial, Position: geo.Pt(-2, 0), Zone: "ring_1", Ring: 1},
			{ID: 3, Type: city.DistrictResidential, Position: geo.Pt(5, 0), Zone: "ring_2", Ring: 2},
			{ID: 4, Type: city.DistrictMixed, Position: geo.Pt(-5, 0), Zone: "ring_2", Ring: 2},
		},
	}
}

func TestResolveGeneratedCity(t *testing.T) {
	c := generated(t, 10, 3)
	stats, report := Resolve(c)
	if !report.Valid {
		t.Fatalf("audit failed: %v", report.Errors)
	}
	if stats.Rings != 3 || stats.IndustrialZones != 4 {
		t.Errorf("rings/industrial = %d/%d, want 3/4", stats.Rings, stats.IndustrialZones)
	}
	if stats.Buildings != c.BuildingCount() {
		t.Errorf("buildings = %d, want %d", stats.Buildings, c.BuildingCount())
	}

	placed := 0
	for _, z := range stats.Zones {
		placed += z.Buildings
	}
	if placed != stats.Buildings {
		t.Errorf("per-zone buildings sum to %d, want %d", placed, stats.Buildings)
	}
	hc := stats.Zones[0]
	if hc.Label != city.LabelHistoricalCenter || hc.Density <= stats.Zones[len(stats.Zones)-1].Density {
		t.Errorf("historical center density %v not above last zone", hc.Density)
	}
}

func TestResolveCountsByZone(t *testing.T) {
	bs := city.NewBuildings(3)
	bs.Append(city.Building{Type: city.BuildingOffice, Position: geo.Pt(0.5, 0), Zone: city.LabelHistoricalCenter})
	bs.Append(city.Building{Type: city.BuildingHouse, Position: geo.Pt(8, 0), Zone: city.LabelOutskirts})
	bs.Append(city.Building{Type: city.BuildingFactory, Position: geo.Pt(12, 0.2), Zone: city.LabelIndustrial})
	c := city.New(handmade(), bs, 1)

	stats, report := Resolve(c)
	if !report.Valid {
		t.Fatalf("unexpected errors: %v", report.Errors)
	}
	if stats.DistrictsByType[city.DistrictCommercial] != 2 {
		t.Errorf("commercial districts = %d, want 2", stats.DistrictsByType[city.DistrictCommercial])
	}
	if stats.Zones[1].Districts != 2 || stats.Zones[2].Districts != 2 {
		t.Errorf("ring districts = %d/%d, want 2/2", stats.Zones[1].Districts, stats.Zones[2].Districts)
	}
	if stats.Zones[4].ByType[city.BuildingFactory] != 1 {
		t.Errorf("industrial factories = %d, want 1", stats.Zones[4].ByType[city.BuildingFactory])
	}
	if stats.RingEnd != 6.5 || stats.HistoricalCenterRadius != 1.5 {
		t.Errorf("ring end/center = %v/%v", stats.RingEnd, stats.HistoricalCenterRadius)
	}
}

func TestResolveDetectsViolations(t *testing.T) {
	l := handmade()
	// ring_1 outnumbers ring_2 and a building lies outside every zone.
	l.Districts = append(l.Districts, city.DistrictCenter{ID: 5, Type: city.DistrictMixed, Position: geo.Pt(-3, 0), Zone: "ring_1", Ring: 1})
	bs := city.NewBuildings(1)
	bs.Append(city.Building{Type: city.BuildingHouse, Position: geo.Pt(30, 30), Zone: city.LabelOutskirts})

	_, report := Resolve(city.New(l, bs, 1))
	if report.Valid {
		t.Fatal("expected audit errors")
	}
	if len(report.Errors) != 2 {
		t.Errorf("errors = %d, want 2: %v", len(report.Errors), report.Errors)
	}
}

func TestResolveDetectsZoneGap(t *testing.T) {
	l := handmade()
	l.Zones[2].InnerRadius = 4.5
	_, report := Resolve(city.New(l, nil, 1))
	if report.Valid {
		t.Error("expected gap between rings to be reported")
	}
}

func TestSummarize(t *testing.T) {
	samples := []*CityStats{
		{Radius: 5, Districts: 20, Rings: 2, IndustrialZones: 2, Buildings: 900},
		{Radius: 2, Districts: 8, Rings: 1, IndustrialZones: 2, Buildings: 120},
		{Radius: 5, Districts: 24, Rings: 2, IndustrialZones: 2, Buildings: 1100},
		{Radius: 2, Districts: 10, Rings: 1, IndustrialZones: 2, Buildings: 140},
	}
	got := Summarize(samples)
	if len(got) != 2 {
		t.Fatalf("summaries = %d, want 2", len(got))
	}
	if got[0].Radius != 2 || got[1].Radius != 5 {
		t.Errorf("radii = %v, %v, want 2, 5", got[0].Radius, got[1].Radius)
	}
	five := got[1]
	if five.Samples != 2 {
		t.Errorf("samples = %d, want 2", five.Samples)
	}
	if five.Districts != (Aggregate{Min: 20, Max: 24, Mean: 22}) {
		t.Errorf("districts = %+v", five.Districts)
	}
	if five.Buildings.Mean != 1000 {
		t.Errorf("buildings mean = %v, want 1000", five.Buildings.Mean)
	}
	if len(Summarize(nil)) != 0 {
		t.Error("Summarize(nil) should be empty")
	}
}
