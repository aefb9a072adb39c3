package layout

import (
	"errors"
	"math"
	"math/rand/v2"
	"reflect"
	"testing"

	"github.com/ChicagoDave/citylayout/pkg/city"
	"github.com/ChicagoDave/citylayout/pkg/config"
)

func testRNG(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

func testGenerator(t *testing.T, cfg *config.Config) *Generator {
	t.Helper()
	if cfg == nil {
		cfg = config.Default()
	}
	g, err := New(cfg)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	return g
}

func generate(t *testing.T, g *Generator, radius float64, seed uint64) *city.Layout {
	t.Helper()
	l, _, err := g.Generate(radius, testRNG(seed))
	if err != nil {
		t.Fatalf("Generate(%v) failed: %v", radius, err)
	}
	return l
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Density.CitySigmaFraction = -1
	_, err := New(cfg)
	if !errors.Is(err, city.ErrInvalidConfig) {
		t.Fatalf("New error = %v, want ErrInvalidConfig", err)
	}
	if _, err := New(nil); !errors.Is(err, city.ErrInvalidConfig) {
		t.Errorf("New(nil) error = %v, want ErrInvalidConfig", err)
	}
}

func TestGenerateInvalidRadius(t *testing.T) {
	g := testGenerator(t, nil)
	for _, r := range []float64{math.NaN(), math.Inf(1), math.Inf(-1), 0, -3, 0.5, 15.01, 40} {
		l, _, err := g.Generate(r, testRNG(1))
		if !errors.Is(err, city.ErrInvalidRadius) {
			t.Errorf("Generate(%v) error = %v, want ErrInvalidRadius", r, err)
		}
		if l != nil {
			t.Errorf("Generate(%v) returned a layout", r)
		}
	}
}

func TestGenerateSmallCity(t *testing.T) {
	g := testGenerator(t, nil)
	l := generate(t, g, 3, 42)

	if n := len(l.Rings()); n != 1 {
		t.Errorf("rings = %d, want 1", n)
	}
	if n := len(l.IndustrialZones()); n != 2 {
		t.Errorf("industrial zones = %d, want 2", n)
	}

	hc := l.HistoricalCenter()
	if hc.OuterRadius < 0.3 || hc.OuterRadius > 0.6 {
		t.Errorf("historical center radius = %v, want within [0.3, 0.6]", hc.OuterRadius)
	}
	end := l.Outskirts().InnerRadius
	if end < 1.8 || end > 2.1 {
		t.Errorf("ring system end = %v, want within [1.8, 2.1]", end)
	}
	if l.Outskirts().OuterRadius != 3 {
		t.Errorf("outskirts outer = %v, want 3", l.Outskirts().OuterRadius)
	}

	// Zone order: center, rings, outskirts, industrial.
	kinds := []city.ZoneKind{city.KindHistoricalCenter, city.KindRing, city.KindOutskirts, city.KindIndustrial, city.KindIndustrial}
	if len(l.Zones) != len(kinds) {
		t.Fatalf("zones = %d, want %d", len(l.Zones), len(kinds))
	}
	for i, k := range kinds {
		if l.Zones[i].Kind != k {
			t.Errorf("zone %d kind = %s, want %s", i, l.Zones[i].Kind, k)
		}
	}
}

func TestGenerateLargeCity(t *testing.T) {
	g := testGenerator(t, nil)
	l := generate(t, g, 10, 7)

	rings := l.Rings()
	if len(rings) != 3 {
		t.Fatalf("rings = %d, want 3", len(rings))
	}
	for i, r := range rings {
		if r.Label != city.RingLabel(i+1) || r.Index != i+1 {
			t.Errorf("ring %d = %s/%d", i, r.Label, r.Index)
		}
	}
	ind := l.IndustrialZones()
	if len(ind) != 4 {
		t.Fatalf("industrial zones = %d, want 4", len(ind))
	}
	seen := map[string]bool{}
	for _, z := range ind {
		seen[z.Direction] = true
	}
	for _, dir := range []string{"E", "N", "W", "S"} {
		if !seen[dir] {
			t.Errorf("no industrial zone facing %s, got %v", dir, seen)
		}
	}
}

func TestRingOrdering(t *testing.T) {
	g := testGenerator(t, nil)
	for _, radius := range []float64{1, 2.5, 4.99, 5, 7.5, 10, 12, 15} {
		for seed := uint64(1); seed <= 5; seed++ {
			l := generate(t, g, radius, seed)
			main := l.MainZones()
			if main[0].InnerRadius != 0 || main[0].OuterRadius <= 0 {
				t.Errorf("R=%v seed=%d: historical center [%v, %v)", radius, seed, main[0].InnerRadius, main[0].OuterRadius)
			}
			for i := 1; i < len(main); i++ {
				if main[i].InnerRadius != main[i-1].OuterRadius {
					t.Errorf("R=%v seed=%d: gap between %s and %s", radius, seed, main[i-1].Label, main[i].Label)
				}
				if main[i].OuterRadius <= main[i].InnerRadius {
					t.Errorf("R=%v seed=%d: %s has non-positive width", radius, seed, main[i].Label)
				}
			}
			if last := main[len(main)-1]; last.Kind != city.KindOutskirts || last.OuterRadius != radius {
				t.Errorf("R=%v seed=%d: last main zone %s ends at %v", radius, seed, last.Label, last.OuterRadius)
			}
		}
	}
}

func TestIndustrialZonesLieBeyondCity(t *testing.T) {
	g := testGenerator(t, nil)
	for _, radius := range []float64{1, 3, 8, 14} {
		l := generate(t, g, radius, 3)
		for _, z := range l.IndustrialZones() {
			if gap := z.Center.Length() - z.Radius - radius; gap <= 0 {
				t.Errorf("R=%v: industrial zone %d overlaps outskirts (gap %v)", radius, z.Index, gap)
			}
			if z.Polygon.Area() <= 0 {
				t.Errorf("R=%v: industrial zone %d has empty polygon", radius, z.Index)
			}
			if got := l.ZoneAt(z.Center); !got.IsIndustrial() || got.Index != z.Index {
				t.Errorf("R=%v: center of industrial zone %d classified as %s", radius, z.Index, got.Label)
			}
		}
	}
}

func TestDistrictsInsideTheirZone(t *testing.T) {
	g := testGenerator(t, nil)
	for _, radius := range []float64{1, 3, 6, 10, 15} {
		l := generate(t, g, radius, 11)
		for _, d := range l.Districts {
			if got := l.ZoneLabelAt(d.Position); got != d.Zone {
				t.Errorf("R=%v: district %d in %s lies in %s", radius, d.ID, d.Zone, got)
			}
			if d.InfluenceSigma <= 0 {
				t.Errorf("district %d sigma = %v", d.ID, d.InfluenceSigma)
			}
		}
	}
}

func TestCenterDistrict(t *testing.T) {
	g := testGenerator(t, nil)
	l := generate(t, g, 4, 2)
	d, ok := l.DistrictByID(0)
	if !ok {
		t.Fatal("no district 0")
	}
	if d.Zone != city.LabelHistoricalCenter || d.Type != city.DistrictMixed || d.Position.Length() != 0 {
		t.Errorf("district 0 = %+v, want mixed district at the origin", d)
	}

	cfg := config.Default()
	cfg.HistoricalCenter.DistrictType = ""
	cfg.Density.AttractorStrength = 0
	l = generate(t, testGenerator(t, cfg), 4, 2)
	if n := len(l.DistrictsInZone(city.LabelHistoricalCenter)); n != 0 {
		t.Errorf("historical center districts = %d, want 0", n)
	}
}

func TestDistrictCountsMonotonic(t *testing.T) {
	g := testGenerator(t, nil)
	prevByRing := map[string]int{}
	for _, radius := range []float64{1, 2, 4, 6, 8, 10, 12, 15} {
		l := generate(t, g, radius, 5)
		prev := 0
		for _, ring := range l.Rings() {
			n := len(l.DistrictsInZone(ring.Label))
			if n < 1 {
				t.Errorf("R=%v: %s has no districts", radius, ring.Label)
			}
			if n < prev {
				t.Errorf("R=%v: %s has %d districts, fewer than inner ring's %d", radius, ring.Label, n, prev)
			}
			if n < prevByRing[ring.Label] {
				t.Errorf("R=%v: %s has %d districts, fewer than at a smaller radius (%d)", radius, ring.Label, n, prevByRing[ring.Label])
			}
			prev = n
			prevByRing[ring.Label] = n
		}
	}
}

func TestDistrictMinSeparation(t *testing.T) {
	cfg := config.Default()
	g := testGenerator(t, cfg)
	for _, radius := range []float64{1, 5, 10, 15} {
		l, report, err := g.Generate(radius, testRNG(9))
		if err != nil {
			t.Fatal(err)
		}
		if len(report.Warnings) != 0 {
			t.Errorf("R=%v: unexpected warnings %v", radius, report.Warnings)
		}
		minDist := cfg.Districts.MinDistanceFraction * radius
		for i := range l.Districts {
			for j := i + 1; j < len(l.Districts); j++ {
				if d := l.Districts[i].Position.Distance(l.Districts[j].Position); d < minDist {
					t.Errorf("R=%v: districts %d and %d are %.4f km apart, want >= %.4f", radius, i, j, d, minDist)
				}
			}
		}
	}
}

func TestDistrictFallbackIsNonFatal(t *testing.T) {
	cfg := config.Default()
	cfg.Districts.MinDistanceFraction = 2
	cfg.Districts.MaxAttempts = 5
	g := testGenerator(t, cfg)

	l, report, err := g.Generate(6, testRNG(4))
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if len(report.Warnings) == 0 {
		t.Error("expected fallback warnings")
	}
	want := 1
	for _, ring := range l.Rings() {
		want += cfg.InterpolateCount(ring.Label, 6)
	}
	if len(l.Districts) != want {
		t.Errorf("districts = %d, want %d", len(l.Districts), want)
	}
}

func TestGenerateDeterministic(t *testing.T) {
	g := testGenerator(t, nil)
	a := generate(t, g, 8, 99)
	b := generate(t, g, 8, 99)
	if !reflect.DeepEqual(a, b) {
		t.Error("same seed produced different layouts")
	}
	c := generate(t, g, 8, 100)
	if reflect.DeepEqual(a, c) {
		t.Error("different seeds produced identical layouts")
	}
}

func TestCompass(t *testing.T) {
	tests := []struct {
		theta float64
		want  string
	}{
		{0, "E"},
		{math.Pi / 2, "N"},
		{math.Pi, "W"},
		{3 * math.Pi / 2, "S"},
		{-math.Pi / 2, "S"},
		{math.Pi/4 + 0.05, "NE"},
		{2*math.Pi - 0.05, "E"},
	}
	for _, tt := range tests {
		if got := compass(tt.theta); got != tt.want {
			t.Errorf("compass(%v) = %s, want %s", tt.theta, got, tt.want)
		}
	}
}

func TestPickDistrictType(t *testing.T) {
	rng := testRNG(1)
	only := config.DistrictWeights{city.DistrictCommercial: 1}
	for range 50 {
		if got := pickDistrictType(only, rng); got != city.DistrictCommercial {
			t.Fatalf("pickDistrictType = %s, want commercial", got)
		}
	}

	counts := map[city.DistrictType]int{}
	weights := config.DistrictWeights{city.DistrictResidential: 0.6, city.DistrictCommercial: 0.2, city.DistrictMixed: 0.2}
	for range 5000 {
		counts[pickDistrictType(weights, rng)]++
	}
	if frac := float64(counts[city.DistrictResidential]) / 5000; frac < 0.55 || frac > 0.65 {
		t.Errorf("residential fraction = %v, want ~0.6", frac)
	}
}
