// Package store keeps a SQLite history of generated cities.
package store

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/ChicagoDave/citylayout/pkg/analytics"
)

// Run is one stored generation run.
type Run struct {
	ID              string  `db:"id" json:"id"`
	Batch           string  `db:"batch" json:"batch,omitempty"`
	CreatedAt       int64   `db:"created_at" json:"created_at"` // unix milliseconds
	Radius          float64 `db:"radius_km" json:"radius_km"`
	Seed            int64   `db:"seed" json:"seed"`
	Rings           int     `db:"rings" json:"rings"`
	IndustrialZones int     `db:"industrial_zones" json:"industrial_zones"`
	Districts       int     `db:"districts" json:"districts"`
	Buildings       int     `db:"buildings" json:"buildings"`
	ElapsedMS       int64   `db:"elapsed_ms" json:"elapsed_ms"`
}

// Created returns the creation time of the run.
func (r Run) Created() time.Time {
	return time.UnixMilli(r.CreatedAt)
}

// ZoneRow is the stored statistics of one zone of a run.
type ZoneRow struct {
	RunID     string  `db:"run_id" json:"run_id"`
	Label     string  `db:"label" json:"label"`
	Index     int     `db:"zone_index" json:"index"`
	AreaKm2   float64 `db:"area_km2" json:"area_km2"`
	Districts int     `db:"districts" json:"districts"`
	Buildings int     `db:"buildings" json:"buildings"`
	Density   float64 `db:"density" json:"density_per_km2"`
}

// Store wraps a SQLite connection.
type Store struct {
	conn *sqlx.DB
	now  func() time.Time
}

// Open opens or creates a SQLite database at the given path.
func Open(path string) (*Store, error) {
	conn, err := sqlx.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	s := &Store{conn: conn, now: time.Now}
	if err := s.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.conn.Close()
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		batch TEXT NOT NULL DEFAULT '',
		created_at INTEGER NOT NULL,
		radius_km REAL NOT NULL,
		seed INTEGER NOT NULL,
		rings INTEGER NOT NULL,
		industrial_zones INTEGER NOT NULL,
		districts INTEGER NOT NULL,
		buildings INTEGER NOT NULL,
		elapsed_ms INTEGER NOT NULL,
		stats_json TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS zones (
		run_id TEXT NOT NULL REFERENCES runs(id),
		label TEXT NOT NULL,
		zone_index INTEGER NOT NULL,
		area_km2 REAL NOT NULL,
		districts INTEGER NOT NULL,
		buildings INTEGER NOT NULL,
		density REAL NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_runs_radius ON runs(radius_km);
	CREATE INDEX IF NOT EXISTS idx_runs_batch ON runs(batch);
	CREATE INDEX IF NOT EXISTS idx_zones_run ON zones(run_id);
	`
	_, err := s.conn.Exec(schema)
	return err
}

// NewBatch returns a fresh batch identifier.
func NewBatch() string {
	return uuid.NewString()
}

// SaveRun stores the statistics of one generated city and returns the
// stored run. batch may be empty.
func (s *Store) SaveRun(batch string, stats *analytics.CityStats, elapsed time.Duration) (Run, error) {
	statsJSON, err := json.Marshal(stats)
	if err != nil {
		return Run{}, fmt.Errorf("encode stats: %w", err)
	}

	run := Run{
		ID:              uuid.NewString(),
		Batch:           batch,
		CreatedAt:       s.now().UnixMilli(),
		Radius:          stats.Radius,
		Seed:            stats.Seed,
		Rings:           stats.Rings,
		IndustrialZones: stats.IndustrialZones,
		Districts:       stats.Districts,
		Buildings:       stats.Buildings,
		ElapsedMS:       elapsed.Milliseconds(),
	}

	tx, err := s.conn.Beginx()
	if err != nil {
		return Run{}, err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`INSERT INTO runs
		(id, batch, created_at, radius_km, seed, rings, industrial_zones,
		 districts, buildings, elapsed_ms, stats_json)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.Batch, run.CreatedAt, run.Radius, run.Seed, run.Rings,
		run.IndustrialZones, run.Districts, run.Buildings, run.ElapsedMS, string(statsJSON),
	); err != nil {
		return Run{}, fmt.Errorf("insert run: %w", err)
	}

	stmt, err := tx.Preparex(`INSERT INTO zones
		(run_id, label, zone_index, area_km2, districts, buildings, density)
		VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return Run{}, err
	}
	defer stmt.Close()

	for _, z := range stats.Zones {
		if _, err := stmt.Exec(run.ID, z.Label, z.Index, z.AreaKm2, z.Districts, z.Buildings, z.Density); err != nil {
			return Run{}, fmt.Errorf("insert zone %s: %w", z.Label, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return Run{}, err
	}
	return run, nil
}

const runColumns = `id, batch, created_at, radius_km, seed, rings, industrial_zones,
	districts, buildings, elapsed_ms`

// Run returns the stored run with the given id.
func (s *Store) Run(id string) (Run, error) {
	var run Run
	err := s.conn.Get(&run, "SELECT "+runColumns+" FROM runs WHERE id = ?", id)
	return run, err
}

// RunsByRadius returns the runs generated for radius, oldest first.
func (s *Store) RunsByRadius(radius float64) ([]Run, error) {
	var runs []Run
	err := s.conn.Select(&runs,
		"SELECT "+runColumns+" FROM runs WHERE radius_km = ? ORDER BY created_at, rowid",
		radius,
	)
	return runs, err
}

// RecentRuns returns the most recent runs, newest first.
func (s *Store) RecentRuns(limit int) ([]Run, error) {
	var runs []Run
	err := s.conn.Select(&runs,
		"SELECT "+runColumns+" FROM runs ORDER BY created_at DESC, rowid DESC LIMIT ?",
		limit,
	)
	return runs, err
}

// Zones returns the stored zone rows of a run in insertion order.
func (s *Store) Zones(runID string) ([]ZoneRow, error) {
	var rows []ZoneRow
	err := s.conn.Select(&rows,
		`SELECT run_id, label, zone_index, area_km2, districts, buildings, density
		 FROM zones WHERE run_id = ? ORDER BY rowid`,
		runID,
	)
	return rows, err
}

// BatchStats decodes the full statistics of every run in a batch, ready for
// analytics.Summarize.
func (s *Store) BatchStats(batch string) ([]*analytics.CityStats, error) {
	var blobs []string
	if err := s.conn.Select(&blobs,
		"SELECT stats_json FROM runs WHERE batch = ? ORDER BY rowid", batch,
	); err != nil {
		return nil, err
	}

	out := make([]*analytics.CityStats, 0, len(blobs))
	for i, b := range blobs {
		var st analytics.CityStats
		if err := json.Unmarshal([]byte(b), &st); err != nil {
			return nil, fmt.Errorf("decode stats of run %d: %w", i, err)
		}
		out = append(out, &st)
	}
	return out, nil
}
