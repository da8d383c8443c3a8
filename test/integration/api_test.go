package integration

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap/zaptest"

	"github.com/eugenenazirov/binpack-bench/internal/api"
	"github.com/eugenenazirov/binpack-bench/internal/distribution"
	"github.com/eugenenazirov/binpack-bench/internal/experiment"
	"github.com/eugenenazirov/binpack-bench/internal/storage"
)

func newRouter(t *testing.T) http.Handler {
	t.Helper()

	store := storage.NewMemoryStorage()
	runner := experiment.NewRunner(zaptest.NewLogger(t))
	defaults := experiment.Config{
		Distribution: distribution.DefaultSpec(),
		Items:        50,
		Trials:       20,
		Seed:         1,
		Parallelism:  2,
	}
	handler := api.NewHandler(runner, store, defaults)
	logger := zaptest.NewLogger(t)
	return api.NewRouter(handler, logger)
}

func performRequest(t *testing.T, handler http.Handler, method, target string, body []byte, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, target, reader)
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestIntegrationFlow(t *testing.T) {
	handler := newRouter(t)
	jsonHeaders := map[string]string{"Content-Type": "application/json"}

	rec := performRequest(t, handler, http.MethodGet, "/api/health", nil, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 from health, got %d", rec.Code)
	}

	rec = performRequest(t, handler, http.MethodGet, "/api/algorithms", nil, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 from algorithms, got %d", rec.Code)
	}
	var algorithms struct {
		Algorithms []string `json:"algorithms"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&algorithms); err != nil {
		t.Fatalf("decode algorithms: %v", err)
	}
	if len(algorithms.Algorithms) != 3 {
		t.Fatalf("expected 3 algorithms, got %v", algorithms.Algorithms)
	}

	presetPayload, _ := json.Marshal(map[string]any{
		"name":        "integration",
		"description": "small run for the integration flow",
		"config": map[string]any{
			"distribution": map[string]any{"kind": "uniform", "low": 0, "high": 1},
			"items":        40,
			"trials":       10,
			"seed":         5,
		},
	})
	rec = performRequest(t, handler, http.MethodPut, "/api/presets", presetPayload, jsonHeaders)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 from preset update, got %d: %s", rec.Code, rec.Body.String())
	}

	runPayload, _ := json.Marshal(map[string]any{"preset": "integration"})
	rec = performRequest(t, handler, http.MethodPost, "/api/experiments/run", runPayload, jsonHeaders)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 from experiment run, got %d: %s", rec.Code, rec.Body.String())
	}

	var run struct {
		Config    experiment.Config             `json:"config"`
		Summaries []experiment.AlgorithmSummary `json:"summaries"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&run); err != nil {
		t.Fatalf("decode experiment run: %v", err)
	}
	if run.Config.Items != 40 || run.Config.Trials != 10 {
		t.Fatalf("expected preset config to apply, got %+v", run.Config)
	}
	if len(run.Summaries) != len(algorithms.Algorithms) {
		t.Fatalf("expected one summary per algorithm, got %d", len(run.Summaries))
	}
	for _, s := range run.Summaries {
		if s.MinBins < 1 || s.MeanBins <= 0 {
			t.Fatalf("%s: implausible summary %+v", s.Algorithm, s)
		}
	}

	packPayload, _ := json.Marshal(map[string]any{
		"sizes":     []float64{0.09, 0.69, 0.79, 0.29, 0.89, 0.19},
		"algorithm": "first-fit-decreasing",
	})
	rec = performRequest(t, handler, http.MethodPost, "/api/pack", packPayload, jsonHeaders)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 from pack, got %d: %s", rec.Code, rec.Body.String())
	}

	var packed struct {
		BinCount   int     `json:"binCount"`
		Feasible   bool    `json:"feasible"`
		Membership [][]int `json:"membership"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&packed); err != nil {
		t.Fatalf("decode pack: %v", err)
	}
	if packed.BinCount != 3 {
		t.Fatalf("expected first-fit-decreasing to use 3 bins, got %d", packed.BinCount)
	}
	if !packed.Feasible {
		t.Fatalf("expected feasible packing")
	}

	validatePayload, _ := json.Marshal(map[string]any{
		"sizes":      []float64{0.09, 0.69, 0.79, 0.29, 0.89, 0.19},
		"membership": packed.Membership,
	})
	rec = performRequest(t, handler, http.MethodPost, "/api/validate", validatePayload, jsonHeaders)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 from validate, got %d: %s", rec.Code, rec.Body.String())
	}

	var verdict struct {
		Feasible bool   `json:"feasible"`
		Verdict  string `json:"verdict"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&verdict); err != nil {
		t.Fatalf("decode validate: %v", err)
	}
	if !verdict.Feasible || verdict.Verdict != "feasible" {
		t.Fatalf("expected validator to confirm the packing, got %+v", verdict)
	}
}
