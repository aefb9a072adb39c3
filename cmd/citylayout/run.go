package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"os"

	"github.com/dustin/go-humanize"
	"gopkg.in/yaml.v3"

	"github.com/ChicagoDave/citylayout/pkg/analytics"
	"github.com/ChicagoDave/citylayout/pkg/config"
	"github.com/ChicagoDave/citylayout/pkg/layout"
	"github.com/ChicagoDave/citylayout/pkg/pipeline"
	"github.com/ChicagoDave/citylayout/pkg/render"
	"github.com/ChicagoDave/citylayout/pkg/scene"
	"github.com/ChicagoDave/citylayout/pkg/store"
	"github.com/ChicagoDave/citylayout/pkg/validation"
)

type generateOptions struct {
	radius     float64
	seed       int64
	seedSet    bool
	configPath string
	out        string
	png        string
	size       int
	parallel   bool
	db         string
	json       bool
}

type batchOptions struct {
	minRadius  float64
	maxRadius  float64
	step       float64
	samples    int
	seed       int64
	configPath string
	db         string
	parallel   bool
}

// loadConfig returns the built-in defaults when path is empty.
func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		return config.Default(), nil
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	slog.Debug("config loaded", "path", path)
	return cfg, nil
}

func runGenerate(opts generateOptions) error {
	cfg, err := loadConfig(opts.configPath)
	if err != nil {
		return err
	}
	seed := opts.seed
	if !opts.seedSet {
		seed = pipeline.NewSeed()
	}

	res, err := pipeline.Run(cfg, pipeline.Options{
		Radius:   opts.radius,
		Seed:     seed,
		Parallel: opts.parallel,
		Observer: func(ev pipeline.Event) {
			slog.Debug("stage finished", "stage", ev.Stage, "zones", ev.Zones,
				"districts", ev.Districts, "buildings", ev.Buildings, "elapsed", ev.Elapsed)
		},
	})
	if err != nil {
		return err
	}
	slog.Info("city generated", "radius", opts.radius, "seed", seed,
		"buildings", res.City.BuildingCount(), "elapsed", res.Elapsed)

	report := res.Report
	stats, auditReport := analytics.Resolve(res.City)
	report.Merge(auditReport)

	if opts.out != "" {
		graph := scene.Assemble(res.City)
		report.Merge(scene.ValidateGraph(graph))
		if err := scene.WriteFile(opts.out, graph); err != nil {
			return fmt.Errorf("writing scene: %w", err)
		}
		logFileWritten("scene written", opts.out)
	}
	if opts.png != "" {
		if err := render.SavePNG(opts.png, res.City, render.Options{Size: opts.size}); err != nil {
			return fmt.Errorf("writing map: %w", err)
		}
		logFileWritten("map written", opts.png)
	}
	if opts.db != "" {
		if err := recordRun(opts.db, stats, res); err != nil {
			return err
		}
	}

	if opts.json {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(map[string]any{"stats": stats, "validation": report}); err != nil {
			return err
		}
	} else {
		printCitySummary(res.City, stats)
		if len(report.Errors)+len(report.Warnings) > 0 {
			fmt.Println()
			printValidationReport(report)
		}
	}

	if !report.Valid {
		return errors.New("generated city failed validation")
	}
	return nil
}

func recordRun(path string, stats *analytics.CityStats, res *pipeline.Result) error {
	st, err := store.Open(path)
	if err != nil {
		return err
	}
	defer st.Close()
	run, err := st.SaveRun("", stats, res.Elapsed)
	if err != nil {
		return fmt.Errorf("recording run: %w", err)
	}
	slog.Info("run recorded", "id", run.ID, "db", path)
	return nil
}

func logFileWritten(msg, path string) {
	info, err := os.Stat(path)
	if err != nil {
		slog.Info(msg, "path", path)
		return
	}
	slog.Info(msg, "path", path, "size", humanize.Bytes(uint64(info.Size())))
}

func runValidate(path, format string) error {
	var report *validation.Report
	if path == "" {
		report = config.Validate(config.Default())
	} else {
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("reading config file: %w", err)
		}
		_, report, err = config.Check(data)
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
	}

	switch format {
	case "yaml":
		enc := yaml.NewEncoder(os.Stdout)
		enc.SetIndent(2)
		if err := enc.Encode(report); err != nil {
			return err
		}
		enc.Close()
	case "text":
		printValidationReport(report)
	default:
		return fmt.Errorf("unknown format %q (want text or yaml)", format)
	}

	if !report.Valid {
		return errors.New("configuration is invalid")
	}
	return nil
}

func runBatch(opts batchOptions) error {
	if opts.samples < 1 {
		return fmt.Errorf("samples must be at least 1, got %d", opts.samples)
	}
	rs, err := radii(opts.minRadius, opts.maxRadius, opts.step)
	if err != nil {
		return err
	}
	cfg, err := loadConfig(opts.configPath)
	if err != nil {
		return err
	}
	for _, r := range rs {
		if err := layout.ValidateRadius(cfg, r); err != nil {
			return err
		}
	}

	st, err := store.Open(opts.db)
	if err != nil {
		return err
	}
	defer st.Close()

	batch := store.NewBatch()
	slog.Info("batch started", "id", batch, "radii", len(rs), "samples", opts.samples, "db", opts.db)

	seed := opts.seed
	for _, r := range rs {
		total := 0
		for range opts.samples {
			res, err := pipeline.Run(cfg, pipeline.Options{Radius: r, Seed: seed, Parallel: opts.parallel})
			if err != nil {
				return fmt.Errorf("radius %.2f seed %d: %w", r, seed, err)
			}
			stats, _ := analytics.Resolve(res.City)
			run, err := st.SaveRun(batch, stats, res.Elapsed)
			if err != nil {
				return fmt.Errorf("recording run: %w", err)
			}
			slog.Debug("run recorded", "id", run.ID, "radius", r, "seed", seed, "buildings", stats.Buildings)
			total += stats.Buildings
			seed++
		}
		slog.Info("radius done", "radius", r, "buildings", humanize.Comma(int64(total)))
	}

	samples, err := st.BatchStats(batch)
	if err != nil {
		return fmt.Errorf("loading batch: %w", err)
	}
	printBatchSummary(analytics.Summarize(samples))
	return nil
}

// radii lists lo, lo+step, ... up to hi inclusive.
func radii(lo, hi, step float64) ([]float64, error) {
	if step <= 0 || math.IsNaN(step) {
		return nil, fmt.Errorf("step must be positive, got %v", step)
	}
	if hi < lo {
		return nil, fmt.Errorf("max radius %v is below min radius %v", hi, lo)
	}
	n := int(math.Floor((hi-lo)/step+1e-9)) + 1
	out := make([]float64, 0, n)
	for i := range n {
		r := lo + float64(i)*step
		out = append(out, math.Round(r*1e6)/1e6)
	}
	return out, nil
}
