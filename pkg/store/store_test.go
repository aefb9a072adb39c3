package store

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/ChicagoDave/citylayout/pkg/analytics"
	"github.com/ChicagoDave/citylayout/pkg/city"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "runs.db"))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func testStats(radius float64, seed int64, buildings int) *analytics.CityStats {
	return &analytics.CityStats{
		Radius:          radius,
		Seed:            seed,
		Rings:           1,
		IndustrialZones: 2,
		Districts:       8,
		Buildings:       buildings,
		BuildingsByType: map[city.BuildingType]int{city.BuildingHouse: buildings},
		Zones: []analytics.ZoneStats{
			{Label: city.LabelHistoricalCenter, Kind: city.KindHistoricalCenter, AreaKm2: 0.5, Buildings: buildings / 2},
			{Label: "ring_1", Kind: city.KindRing, Index: 1, AreaKm2: 5, Districts: 7, Buildings: buildings / 2},
		},
	}
}

func TestSaveAndLoadRun(t *testing.T) {
	s := openTestStore(t)
	saved, err := s.SaveRun("", testStats(3, 42, 300), 1500*time.Millisecond)
	if err != nil {
		t.Fatalf("SaveRun failed: %v", err)
	}
	if saved.ID == "" {
		t.Fatal("expected a run id")
	}

	got, err := s.Run(saved.ID)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if got != saved {
		t.Errorf("loaded run = %+v, want %+v", got, saved)
	}
	if got.ElapsedMS != 1500 {
		t.Errorf("elapsed = %d ms, want 1500", got.ElapsedMS)
	}

	zones, err := s.Zones(saved.ID)
	if err != nil {
		t.Fatalf("Zones failed: %v", err)
	}
	if len(zones) != 2 {
		t.Fatalf("expected 2 zone rows, got %d", len(zones))
	}
	if zones[1].Label != "ring_1" || zones[1].Districts != 7 {
		t.Errorf("zone row = %+v", zones[1])
	}
}

func TestRunsByRadius(t *testing.T) {
	s := openTestStore(t)
	for i, r := range []float64{3, 5, 3, 3} {
		if _, err := s.SaveRun("", testStats(r, int64(i), 100), 0); err != nil {
			t.Fatal(err)
		}
	}

	runs, err := s.RunsByRadius(3)
	if err != nil {
		t.Fatalf("RunsByRadius failed: %v", err)
	}
	if len(runs) != 3 {
		t.Fatalf("expected 3 runs, got %d", len(runs))
	}
	for i, want := range []int64{0, 2, 3} {
		if runs[i].Seed != want {
			t.Errorf("run %d seed = %d, want %d", i, runs[i].Seed, want)
		}
	}

	recent, err := s.RecentRuns(2)
	if err != nil {
		t.Fatal(err)
	}
	if len(recent) != 2 || recent[0].Seed != 3 {
		t.Errorf("recent runs = %+v, want newest seed 3 first", recent)
	}
}

func TestBatchStats(t *testing.T) {
	s := openTestStore(t)
	batch := NewBatch()
	for i, n := range []int{280, 320} {
		if _, err := s.SaveRun(batch, testStats(3, int64(i), n), 0); err != nil {
			t.Fatal(err)
		}
	}
	if _, err := s.SaveRun("other", testStats(3, 9, 999), 0); err != nil {
		t.Fatal(err)
	}

	stats, err := s.BatchStats(batch)
	if err != nil {
		t.Fatalf("BatchStats failed: %v", err)
	}
	if len(stats) != 2 {
		t.Fatalf("expected 2 stats, got %d", len(stats))
	}
	if stats[0].BuildingsByType[city.BuildingHouse] != 280 {
		t.Errorf("decoded buildings by type = %v", stats[0].BuildingsByType)
	}

	summary := analytics.Summarize(stats)
	if len(summary) != 1 {
		t.Fatalf("expected 1 radius summary, got %d", len(summary))
	}
	if summary[0].Buildings.Mean != 300 {
		t.Errorf("mean buildings = %v, want 300", summary[0].Buildings.Mean)
	}
}

func TestOpenAppliesPragmas(t *testing.T) {
	s := openTestStore(t)

	var mode string
	if err := s.conn.Get(&mode, "PRAGMA journal_mode"); err != nil {
		t.Fatalf("reading journal_mode: %v", err)
	}
	if mode != "wal" {
		t.Errorf("journal_mode = %q, want wal", mode)
	}

	var timeout int
	if err := s.conn.Get(&timeout, "PRAGMA busy_timeout"); err != nil {
		t.Fatalf("reading busy_timeout: %v", err)
	}
	if timeout != 5000 {
		t.Errorf("busy_timeout = %d, want 5000", timeout)
	}
}

func TestRunNotFound(t *testing.T) {
	s := openTestStore(t)
	if _, err := s.Run("missing"); err == nil {
		t.Error("expected error for missing run")
	}
}
