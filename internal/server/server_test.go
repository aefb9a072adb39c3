package server

import (
	"encoding/json"
	"image/png"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/ChicagoDave/citylayout/pkg/config"
	"github.com/ChicagoDave/citylayout/pkg/pipeline"
	"github.com/ChicagoDave/citylayout/pkg/store"
)

func testServer(t *testing.T, st *store.Store) *httptest.Server {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	s := New(config.Default(), Options{Radius: 2, Seed: 5, Store: st}, logger)
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(ts.Close)
	return ts
}

func getJSON(t *testing.T, url string, v any) int {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("GET %s: %v", url, err)
	}
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		t.Fatalf("decoding %s: %v", url, err)
	}
	return resp.StatusCode
}

func TestZoneEndpoint(t *testing.T) {
	ts := testServer(t, nil)
	tests := []struct {
		query string
		zone  string
	}{
		{"x=0&y=0", "historical_center"},
		{"x=50&y=50", "outside"},
		{"x=0.1&y=0&radius=3&seed=9", "historical_center"},
	}
	for _, tt := range tests {
		var body map[string]any
		if code := getJSON(t, ts.URL+"/api/zone?"+tt.query, &body); code != http.StatusOK {
			t.Fatalf("%s: status %d", tt.query, code)
		}
		if body["zone"] != tt.zone {
			t.Errorf("%s: zone = %v, want %s", tt.query, body["zone"], tt.zone)
		}
	}

	var far map[string]any
	getJSON(t, ts.URL+"/api/zone?x=50&y=50", &far)
	if far["density"] != 0.0 {
		t.Errorf("density outside = %v, want 0", far["density"])
	}
}

func TestBadParameters(t *testing.T) {
	ts := testServer(t, nil)
	for _, q := range []string{
		"/api/zone?x=abc",
		"/api/city?radius=0",
		"/api/city?radius=99",
		"/api/stats?seed=x",
		"/api/render.png?size=-1",
	} {
		var body map[string]string
		if code := getJSON(t, ts.URL+q, &body); code != http.StatusBadRequest {
			t.Errorf("%s: status %d, want 400", q, code)
		}
		if body["error"] == "" {
			t.Errorf("%s: expected error message", q)
		}
	}
}

func TestCityEndpoint(t *testing.T) {
	ts := testServer(t, nil)
	var body struct {
		Scene struct {
			Entities []map[string]any `json:"entities"`
		} `json:"scene"`
		Validation struct {
			Valid bool `json:"valid"`
		} `json:"validation"`
	}
	if code := getJSON(t, ts.URL+"/api/city", &body); code != http.StatusOK {
		t.Fatalf("status %d", code)
	}
	if !body.Validation.Valid {
		t.Error("expected a valid generation report")
	}
	if len(body.Scene.Entities) == 0 {
		t.Error("expected scene entities")
	}
}

func TestStatsRecordsRuns(t *testing.T) {
	st, err := store.Open(filepath.Join(t.TempDir(), "runs.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer st.Close()
	ts := testServer(t, st)

	var stats map[string]any
	if code := getJSON(t, ts.URL+"/api/stats", &stats); code != http.StatusOK {
		t.Fatalf("status %d", code)
	}
	if _, ok := stats["stats"]; !ok {
		t.Error("missing stats")
	}

	var runs []store.Run
	getJSON(t, ts.URL+"/api/runs", &runs)
	if len(runs) != 1 || runs[0].Radius != 2 || runs[0].Seed != 5 {
		t.Errorf("runs = %+v, want one run for radius 2 seed 5", runs)
	}
}

func TestStatsRecordsEachCityOnce(t *testing.T) {
	st, err := store.Open(filepath.Join(t.TempDir(), "runs.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer st.Close()
	ts := testServer(t, st)

	var body map[string]any
	for _, q := range []string{
		"/api/stats",
		"/api/stats",
		"/api/city?seed=6",
		"/api/stats?seed=6",
		"/api/stats?seed=6",
	} {
		if code := getJSON(t, ts.URL+q, &body); code != http.StatusOK {
			t.Fatalf("%s: status %d", q, code)
		}
	}

	var runs []store.Run
	getJSON(t, ts.URL+"/api/runs", &runs)
	if len(runs) != 2 {
		t.Fatalf("recorded %d runs, want 2", len(runs))
	}
	seeds := map[int64]bool{runs[0].Seed: true, runs[1].Seed: true}
	if !seeds[5] || !seeds[6] {
		t.Errorf("recorded seeds = %v, want 5 and 6", seeds)
	}
}

func TestRunsLimitBounds(t *testing.T) {
	st, err := store.Open(filepath.Join(t.TempDir(), "runs.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer st.Close()
	ts := testServer(t, st)

	for _, limit := range []string{"-1", "0", "5000", "x"} {
		var body map[string]string
		if code := getJSON(t, ts.URL+"/api/runs?limit="+limit, &body); code != http.StatusBadRequest {
			t.Errorf("limit=%s: status %d, want 400", limit, code)
		}
	}
	var runs []store.Run
	if code := getJSON(t, ts.URL+"/api/runs?limit=1", &runs); code != http.StatusOK {
		t.Errorf("limit=1: status %d, want 200", code)
	}
}

func TestGenerationDoesNotBlockOtherCities(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	s := New(config.Default(), Options{Radius: 2, Seed: 5}, logger)
	started := make(chan struct{})
	release := make(chan struct{})
	s.run = func(cfg *config.Config, opts pipeline.Options) (*pipeline.Result, error) {
		if opts.Seed == 1 {
			close(started)
			<-release
		}
		return pipeline.Run(cfg, opts)
	}
	ts := httptest.NewServer(s.Handler())
	defer ts.Close()

	slow := make(chan int, 1)
	go func() {
		resp, err := http.Get(ts.URL + "/api/zone?seed=1")
		if err != nil {
			slow <- 0
			return
		}
		resp.Body.Close()
		slow <- resp.StatusCode
	}()
	<-started

	client := &http.Client{Timeout: 10 * time.Second}
	resp, err := client.Get(ts.URL + "/api/zone?seed=2")
	close(release)
	if err != nil {
		t.Fatalf("request for another city blocked: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status %d, want 200", resp.StatusCode)
	}
	if code := <-slow; code != http.StatusOK {
		t.Errorf("slow request status %d, want 200", code)
	}
}

func TestRunsWithoutStore(t *testing.T) {
	ts := testServer(t, nil)
	var body map[string]string
	if code := getJSON(t, ts.URL+"/api/runs", &body); code != http.StatusNotFound {
		t.Errorf("status %d, want 404", code)
	}
}

func TestRenderEndpoint(t *testing.T) {
	ts := testServer(t, nil)
	resp, err := http.Get(ts.URL + "/api/render.png?size=200")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if ct := resp.Header.Get("Content-Type"); ct != "image/png" {
		t.Errorf("content type = %q", ct)
	}
	img, err := png.Decode(resp.Body)
	if err != nil {
		t.Fatalf("decoding PNG: %v", err)
	}
	if img.Bounds().Dx() != 200 {
		t.Errorf("width = %d, want 200", img.Bounds().Dx())
	}
}

func TestIndex(t *testing.T) {
	ts := testServer(t, nil)
	resp, err := http.Get(ts.URL + "/")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	b, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(b), "/api/render.png") {
		t.Error("index page does not reference the map")
	}
}

func TestStream(t *testing.T) {
	ts := testServer(t, nil)
	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/api/stream?radius=2&seed=3"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	var stages []string
	var final StreamMessage
	for {
		var msg StreamMessage
		if err := conn.ReadJSON(&msg); err != nil {
			break
		}
		switch msg.Type {
		case "event":
			stages = append(stages, msg.Event.Stage)
		case "stats":
			final = msg
		case "error":
			t.Fatalf("stream error: %s", msg.Error)
		}
	}

	want := []string{pipeline.StageLayout, pipeline.StagePlacement, pipeline.StageDone}
	if strings.Join(stages, ",") != strings.Join(want, ",") {
		t.Errorf("stages = %v, want %v", stages, want)
	}
	if final.Stats == nil || final.Stats.Buildings == 0 {
		t.Fatal("expected final stats with buildings")
	}
	if final.Stats.Seed != 3 {
		t.Errorf("stats seed = %d, want 3", final.Stats.Seed)
	}
}

func TestStreamInvalidRadius(t *testing.T) {
	ts := testServer(t, nil)
	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/api/stream?radius=-2"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()
	var msg StreamMessage
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("read: %v", err)
	}
	if msg.Type != "error" {
		t.Errorf("message type = %q, want error", msg.Type)
	}
}
