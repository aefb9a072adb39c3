// Package server exposes city generation over HTTP for interactive use.
package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/ChicagoDave/citylayout/pkg/analytics"
	"github.com/ChicagoDave/citylayout/pkg/city"
	"github.com/ChicagoDave/citylayout/pkg/config"
	"github.com/ChicagoDave/citylayout/pkg/density"
	"github.com/ChicagoDave/citylayout/pkg/geo"
	"github.com/ChicagoDave/citylayout/pkg/pipeline"
	"github.com/ChicagoDave/citylayout/pkg/render"
	"github.com/ChicagoDave/citylayout/pkg/scene"
	"github.com/ChicagoDave/citylayout/pkg/store"
)

// Options configures a Server.
type Options struct {
	Port     int
	Radius   float64 // used when a request has no radius parameter
	Seed     int64   // used when a request has no seed parameter
	Parallel bool

	// Store, when set, records every city whose stats are requested.
	Store *store.Store
}

// Server is the local development server for exploring generated cities.
type Server struct {
	cfg  *config.Config
	opts Options
	log  *slog.Logger

	upgrader websocket.Upgrader

	// run generates cities; tests replace it.
	run func(*config.Config, pipeline.Options) (*pipeline.Result, error)

	mu    sync.Mutex
	cache map[cityKey]*cachedCity
}

type cityKey struct {
	radius float64
	seed   int64
}

// cachedCity is a generated city and whether it has been written to the store.
type cachedCity struct {
	*pipeline.Result
	recorded bool
}

// maxCached bounds the number of generated cities kept in memory.
const maxCached = 16

// maxRunsLimit bounds the limit parameter of /api/runs.
const maxRunsLimit = 1000

// New creates a server generating cities with cfg.
func New(cfg *config.Config, opts Options, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		cfg:  cfg,
		opts: opts,
		log:  logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4 * 1024,
			WriteBufferSize: 64 * 1024,
			CheckOrigin:     func(r *http.Request) bool { return true }, // local dev server
		},
		run:   pipeline.Run,
		cache: make(map[cityKey]*cachedCity),
	}
}

// Handler returns the HTTP routes of the server.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/city", s.handleCity)
	mux.HandleFunc("GET /api/zone", s.handleZone)
	mux.HandleFunc("GET /api/stats", s.handleStats)
	mux.HandleFunc("GET /api/runs", s.handleRuns)
	mux.HandleFunc("GET /api/render.png", s.handleRender)
	mux.HandleFunc("GET /api/stream", s.handleStream)
	mux.HandleFunc("GET /{$}", s.handleIndex)

	return mux
}

// Start launches the HTTP server.
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.opts.Port)
	s.log.Info("citylayout server starting", "url", "http://localhost"+addr,
		"radius", s.opts.Radius, "seed", s.opts.Seed)
	return http.ListenAndServe(addr, s.Handler())
}

func (s *Server) handleIndex(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/html")
	fmt.Fprintf(w, `<!DOCTYPE html>
<html><head><title>citylayout</title></head>
<body style="margin:0;background:#111;color:#fff;font-family:system-ui;display:flex;align-items:center;justify-content:center;min-height:100vh">
<div style="text-align:center">
<h1>citylayout</h1>
<p>radius %.1f km, seed %d</p>
<img src="/api/render.png?size=800" width="800" height="800" alt="city map">
</div>
</body></html>`, s.opts.Radius, s.opts.Seed)
}

func (s *Server) handleCity(w http.ResponseWriter, r *http.Request) {
	res, ok := s.generate(w, r)
	if !ok {
		return
	}
	g := scene.Assemble(res.City)
	writeJSON(w, http.StatusOK, map[string]any{
		"scene":      g,
		"validation": res.Report,
	})
}

func (s *Server) handleZone(w http.ResponseWriter, r *http.Request) {
	x, errX := floatParam(r, "x", 0)
	y, errY := floatParam(r, "y", 0)
	if err := errors.Join(errX, errY); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	res, ok := s.generate(w, r)
	if !ok {
		return
	}

	p := geo.Pt(x, y)
	c := res.City
	z := c.ZoneAt(p)
	field := density.New(c.Layout(), s.cfg)
	writeJSON(w, http.StatusOK, map[string]any{
		"point":     p,
		"zone":      z.Label,
		"kind":      z.Kind,
		"index":     z.Index,
		"direction": z.Direction,
		"density":   field.At(p),
	})
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	res, ok := s.generate(w, r)
	if !ok {
		return
	}
	stats, report := analytics.Resolve(res.City)
	report.Merge(res.Report)

	if s.opts.Store != nil && s.claimRecord(res) {
		run, err := s.opts.Store.SaveRun("", stats, res.Elapsed)
		if err != nil {
			s.log.Error("saving run", "err", err)
			s.releaseRecord(res)
		} else {
			s.log.Debug("run saved", "id", run.ID)
		}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"stats":      stats,
		"validation": report,
	})
}

func (s *Server) handleRuns(w http.ResponseWriter, r *http.Request) {
	if s.opts.Store == nil {
		writeError(w, http.StatusNotFound, errors.New("no run store configured"))
		return
	}
	limit, err := intParam(r, "limit", 20)
	if err != nil || limit < 1 || limit > maxRunsLimit {
		writeError(w, http.StatusBadRequest, fmt.Errorf("limit must be between 1 and %d", maxRunsLimit))
		return
	}
	runs, err := s.opts.Store.RecentRuns(limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, runs)
}

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	size, err := intParam(r, "size", render.DefaultSize)
	if err != nil || size <= 0 || size > 4096 {
		writeError(w, http.StatusBadRequest, fmt.Errorf("size must be between 1 and 4096"))
		return
	}
	res, ok := s.generate(w, r)
	if !ok {
		return
	}
	w.Header().Set("Content-Type", "image/png")
	if err := render.WritePNG(w, res.City, render.Options{Size: size}); err != nil {
		s.log.Error("rendering city", "err", err)
	}
}

// StreamMessage is one message of the /api/stream websocket.
type StreamMessage struct {
	Type  string               `json:"type"` // "event", "stats" or "error"
	Event *pipeline.Event      `json:"event,omitempty"`
	Stats *analytics.CityStats `json:"stats,omitempty"`
	Error string               `json:"error,omitempty"`
}

// handleStream runs a fresh generation and reports each finished stage over
// a websocket, then the city statistics, then closes the connection.
func (s *Server) handleStream(w http.ResponseWriter, r *http.Request) {
	radius, seed, err := s.cityParams(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	var writeErr error
	observer := func(ev pipeline.Event) {
		if writeErr == nil {
			writeErr = writeMessage(conn, StreamMessage{Type: "event", Event: &ev})
		}
	}
	res, err := s.run(s.cfg, pipeline.Options{
		Radius:   radius,
		Seed:     seed,
		Parallel: s.opts.Parallel,
		Observer: observer,
	})
	if err != nil {
		_ = writeMessage(conn, StreamMessage{Type: "error", Error: err.Error()})
		return
	}
	if writeErr != nil {
		s.log.Debug("stream client went away", "err", writeErr)
		return
	}

	stats, _ := analytics.Resolve(res.City)
	if err := writeMessage(conn, StreamMessage{Type: "stats", Stats: stats}); err != nil {
		return
	}
	_ = conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, "done"),
		time.Now().Add(time.Second))
}

// generate returns the city for the request parameters, generating it on a
// cache miss. It writes an error response and returns false on failure. The
// lock is not held while a city is generated.
func (s *Server) generate(w http.ResponseWriter, r *http.Request) (*cachedCity, bool) {
	radius, seed, err := s.cityParams(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return nil, false
	}

	key := cityKey{radius, seed}
	s.mu.Lock()
	c, ok := s.cache[key]
	s.mu.Unlock()
	if ok {
		return c, true
	}

	res, err := s.run(s.cfg, pipeline.Options{Radius: radius, Seed: seed, Parallel: s.opts.Parallel})
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, city.ErrInvalidRadius) {
			status = http.StatusBadRequest
		}
		writeError(w, status, err)
		return nil, false
	}
	s.log.Info("generated city", "radius", radius, "seed", seed,
		"buildings", res.City.BuildingCount(), "elapsed", res.Elapsed)

	s.mu.Lock()
	defer s.mu.Unlock()
	// A concurrent request may have generated the same city meanwhile.
	if c, ok := s.cache[key]; ok {
		return c, true
	}
	if len(s.cache) >= maxCached {
		clear(s.cache)
	}
	c = &cachedCity{Result: res}
	s.cache[key] = c
	return c, true
}

// claimRecord reports whether the caller should store c, marking it recorded.
func (s *Server) claimRecord(c *cachedCity) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c.recorded {
		return false
	}
	c.recorded = true
	return true
}

func (s *Server) releaseRecord(c *cachedCity) {
	s.mu.Lock()
	c.recorded = false
	s.mu.Unlock()
}

func (s *Server) cityParams(r *http.Request) (float64, int64, error) {
	radius, err := floatParam(r, "radius", s.opts.Radius)
	if err != nil {
		return 0, 0, err
	}
	seed := s.opts.Seed
	if v := r.URL.Query().Get("seed"); v != "" {
		seed, err = strconv.ParseInt(v, 10, 64)
		if err != nil {
			return 0, 0, fmt.Errorf("invalid seed %q", v)
		}
	}
	return radius, seed, nil
}

func floatParam(r *http.Request, name string, def float64) (float64, error) {
	v := r.URL.Query().Get(name)
	if v == "" {
		return def, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q", name, v)
	}
	return f, nil
}

func intParam(r *http.Request, name string, def int) (int, error) {
	v := r.URL.Query().Get(name)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q", name, v)
	}
	return n, nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func writeMessage(conn *websocket.Conn, msg StreamMessage) error {
	b, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	_ = conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
	return conn.WriteMessage(websocket.TextMessage, b)
}
