package pipeline

import (
	"errors"
	"math"
	"reflect"
	"testing"

	"github.com/ChicagoDave/citylayout/pkg/city"
	"github.com/ChicagoDave/citylayout/pkg/config"
	"github.com/ChicagoDave/citylayout/pkg/geo"
)

func TestRunSmallCity(t *testing.T) {
	res, err := Run(config.Default(), Options{Radius: 3, Seed: 42})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	c := res.City
	l := c.Layout()
	if n := len(l.Rings()); n != 1 {
		t.Errorf("rings = %d, want 1", n)
	}
	if n := len(l.IndustrialZones()); n != 2 {
		t.Errorf("industrial zones = %d, want 2", n)
	}
	if n := c.BuildingCount(); n < 230 || n > 400 {
		t.Errorf("buildings = %d, want within [230, 400]", n)
	}
	if c.Seed() != 42 || c.Radius() != 3 {
		t.Errorf("seed/radius = %d/%v", c.Seed(), c.Radius())
	}
	if !res.Report.Valid {
		t.Errorf("report invalid: %v", res.Report.Errors)
	}
}

func TestRunLargeCity(t *testing.T) {
	res, err := Run(config.Default(), Options{Radius: 10, Seed: 1, Parallel: true})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	l := res.City.Layout()
	if n := len(l.Rings()); n != 3 {
		t.Errorf("rings = %d, want 3", n)
	}
	if n := len(l.IndustrialZones()); n != 4 {
		t.Errorf("industrial zones = %d, want 4", n)
	}
}

func TestRunCenterAndFarPoint(t *testing.T) {
	res, err := Run(config.Default(), Options{Radius: 5, Seed: 3})
	if err != nil {
		t.Fatal(err)
	}
	c := res.City
	if got := c.ZoneLabelAt(geo.Origin); got != city.LabelHistoricalCenter {
		t.Errorf("center zone = %s, want historical_center", got)
	}
	if got := c.ZoneLabelAt(geo.Pt(50, 50)); got != city.LabelOutside {
		t.Errorf("far zone = %s, want outside", got)
	}
}

func TestRunInvalidRadius(t *testing.T) {
	for _, r := range []float64{0, -1, math.NaN(), math.Inf(1), 100} {
		res, err := Run(config.Default(), Options{Radius: r, Seed: 1})
		if !errors.Is(err, city.ErrInvalidRadius) {
			t.Errorf("Run(R=%v) error = %v, want ErrInvalidRadius", r, err)
		}
		if res != nil {
			t.Errorf("Run(R=%v) returned a result", r)
		}
	}
}

func TestRunInvalidConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Rings.SizeBands = nil
	_, err := Run(cfg, Options{Radius: 3, Seed: 1})
	if !errors.Is(err, city.ErrInvalidConfig) {
		t.Errorf("error = %v, want ErrInvalidConfig", err)
	}
}

func TestRunDeterministic(t *testing.T) {
	a, err := Run(config.Default(), Options{Radius: 4, Seed: 77})
	if err != nil {
		t.Fatal(err)
	}
	b, err := Run(config.Default(), Options{Radius: 4, Seed: 77, Parallel: true})
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(a.City.Layout(), b.City.Layout()) {
		t.Error("layouts differ for the same seed")
	}
	if !reflect.DeepEqual(a.City.Buildings(), b.City.Buildings()) {
		t.Error("buildings differ for the same seed")
	}
}

func TestRunObserver(t *testing.T) {
	var stages []string
	var last Event
	_, err := Run(config.Default(), Options{
		Radius: 2,
		Seed:   5,
		Observer: func(ev Event) {
			stages = append(stages, ev.Stage)
			last = ev
		},
	})
	if err != nil {
		t.Fatal(err)
	}
	want := []string{StageLayout, StagePlacement, StageDone}
	if !reflect.DeepEqual(stages, want) {
		t.Errorf("stages = %v, want %v", stages, want)
	}
	if last.Buildings == 0 || last.Districts == 0 {
		t.Errorf("final event = %+v", last)
	}
}
