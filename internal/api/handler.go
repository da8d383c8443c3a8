package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/eugenenazirov/binpack-bench/internal/binpack"
	"github.com/eugenenazirov/binpack-bench/internal/distribution"
	"github.com/eugenenazirov/binpack-bench/internal/experiment"
	"github.com/eugenenazirov/binpack-bench/internal/storage"
)

type contextKey string

const requestIDContextKey contextKey = "requestID"

const maxRequestItems = 100_000

// Handler wires the packing heuristics, experiment runner, and preset
// storage into HTTP handlers.
type Handler struct {
	runner   *experiment.Runner
	storage  storage.Storage
	defaults experiment.Config
	metrics  *Metrics

	clock func() time.Time

	mu               sync.RWMutex
	presetsUpdatedAt time.Time
}

// HandlerOption configures Handler behaviour.
type HandlerOption func(*Handler)

// WithClock overrides the time source, primarily for tests.
func WithClock(clock func() time.Time) HandlerOption {
	return func(h *Handler) {
		h.clock = clock
	}
}

// WithMetrics overrides the default metrics collector.
func WithMetrics(m *Metrics) HandlerOption {
	return func(h *Handler) {
		h.metrics = m
	}
}

// NewHandler constructs a Handler with the provided dependencies. The
// defaults config seeds experiment requests that omit parameters.
func NewHandler(runner *experiment.Runner, store storage.Storage, defaults experiment.Config, opts ...HandlerOption) *Handler {
	h := &Handler{
		runner:   runner,
		storage:  store,
		defaults: defaults,
		metrics:  NewMetrics(),
		clock: func() time.Time {
			return time.Now().UTC()
		},
	}
	for _, opt := range opts {
		opt(h)
	}
	h.presetsUpdatedAt = h.clock()
	return h
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	_ = r
	resp := healthResponse{
		Status:    "ok",
		Timestamp: h.clock(),
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) handleGetAlgorithms(w http.ResponseWriter, r *http.Request) {
	_ = r
	packers := binpack.All()
	algorithms := make([]string, len(packers))
	for i, p := range packers {
		algorithms[i] = p.Name()
	}
	writeJSON(w, http.StatusOK, algorithmsResponse{Algorithms: algorithms})
}

func (h *Handler) handlePack(w http.ResponseWriter, r *http.Request) {
	var req packRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request", "unable to parse JSON payload")
		return
	}

	if req.Algorithm == "" {
		writeError(w, http.StatusBadRequest, "Invalid request", "algorithm is required")
		return
	}
	if len(req.Sizes) > maxRequestItems {
		writeError(w, http.StatusBadRequest, "Invalid request", "too many items in one request")
		return
	}

	packer, err := binpack.ByName(req.Algorithm)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Unknown algorithm", err.Error())
		return
	}

	start := time.Now()
	packing, packErr := packer.Pack(req.Sizes)
	elapsed := time.Since(start)

	if packErr != nil {
		if errors.Is(packErr, binpack.ErrInvalidSize) {
			writeError(w, http.StatusBadRequest, "Invalid sizes", packErr.Error())
			return
		}
		writeInternalError(w, packErr)
		return
	}

	verdict, err := binpack.Validate(req.Sizes, packing)
	if err != nil {
		writeInternalError(w, err)
		return
	}

	h.metrics.observePacking(packer.Name())

	bins := make([][]int, len(packing.Bins))
	free := make([]float64, len(packing.Bins))
	for i, bin := range packing.Bins {
		bins[i] = append([]int{}, bin.Items...)
		free[i] = bin.Free
	}

	resp := packResponse{
		Algorithm:         packer.Name(),
		Items:             packing.NumItems,
		BinCount:          packing.BinCount(),
		Bins:              bins,
		FreeSpace:         free,
		Membership:        packing.MembershipVectors(),
		Verdict:           verdict.String(),
		Feasible:          verdict.IsFeasible(),
		CalculationTimeMs: elapsed.Milliseconds(),
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) handleValidate(w http.ResponseWriter, r *http.Request) {
	var req validateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request", "unable to parse JSON payload")
		return
	}

	if len(req.Sizes) > maxRequestItems {
		writeError(w, http.StatusBadRequest, "Invalid request", "too many items in one request")
		return
	}

	packing, err := binpack.NewPackingFromMembership(req.Sizes, req.Membership)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid packing", err.Error())
		return
	}

	verdict, err := binpack.Validate(req.Sizes, packing)
	if err != nil {
		if errors.Is(err, binpack.ErrInvalidSize) || errors.Is(err, binpack.ErrInvalidPacking) {
			writeError(w, http.StatusBadRequest, "Invalid input", err.Error())
			return
		}
		writeInternalError(w, err)
		return
	}

	resp := validateResponse{
		Feasible: verdict.IsFeasible(),
		Verdict:  verdict.String(),
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) handleGetPresets(w http.ResponseWriter, r *http.Request) {
	_ = r
	presets, err := h.storage.GetPresets()
	if err != nil {
		writeInternalError(w, err)
		return
	}

	resp := presetsResponse{
		Presets:   presets,
		UpdatedAt: h.currentPresetsUpdatedAt(),
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) handlePutPresets(w http.ResponseWriter, r *http.Request) {
	var req presetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request", "unable to parse JSON payload")
		return
	}

	preset := storage.Preset{
		Name:        req.Name,
		Description: req.Description,
		Config:      req.Config,
	}
	if err := h.storage.SetPreset(preset); err != nil {
		if errors.Is(err, storage.ErrInvalidPreset) {
			writeError(w, http.StatusBadRequest, "Invalid preset", err.Error())
			return
		}
		writeInternalError(w, err)
		return
	}

	h.markPresetsUpdated()

	presets, err := h.storage.GetPresets()
	if err != nil {
		writeInternalError(w, err)
		return
	}

	resp := presetsResponse{
		Presets:   presets,
		UpdatedAt: h.currentPresetsUpdatedAt(),
		Message:   "Preset stored successfully",
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) handleRunExperiment(w http.ResponseWriter, r *http.Request) {
	var req experimentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request", "unable to parse JSON payload")
		return
	}

	cfg := h.defaults
	if req.Preset != "" {
		preset, err := h.storage.GetPreset(req.Preset)
		if err != nil {
			if errors.Is(err, storage.ErrPresetNotFound) {
				writeError(w, http.StatusNotFound, "Unknown preset", err.Error())
				return
			}
			writeInternalError(w, err)
			return
		}
		cfg = preset.Config
	}

	if req.Distribution != nil {
		cfg.Distribution = *req.Distribution
	}
	if req.Items > 0 {
		cfg.Items = req.Items
	}
	if req.Trials > 0 {
		cfg.Trials = req.Trials
	}
	if req.Seed != nil {
		cfg.Seed = *req.Seed
	}
	if req.Parallelism > 0 {
		cfg.Parallelism = req.Parallelism
	}

	result, err := h.runner.Run(r.Context(), cfg)
	if err != nil {
		switch {
		case errors.Is(err, experiment.ErrInvalidConfig),
			errors.Is(err, distribution.ErrUnknownDistribution),
			errors.Is(err, distribution.ErrInvalidParameter):
			writeError(w, http.StatusBadRequest, "Invalid experiment", err.Error())
		default:
			writeInternalError(w, err)
		}
		return
	}

	h.metrics.observeExperiment()

	resp := experimentResponse{
		Preset:    req.Preset,
		Config:    result.Config,
		Summaries: result.Summaries,
		ElapsedMs: result.ElapsedMs,
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) currentPresetsUpdatedAt() time.Time {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.presetsUpdatedAt
}

func (h *Handler) markPresetsUpdated() {
	h.mu.Lock()
	h.presetsUpdatedAt = h.clock()
	h.mu.Unlock()
}

func requestIDFromContext(ctx context.Context) string {
	if v := ctx.Value(requestIDContextKey); v != nil {
		if id, ok := v.(string); ok {
			return id
		}
	}
	return ""
}

type packRequest struct {
	Sizes     []float64 `json:"sizes"`
	Algorithm string    `json:"algorithm"`
}

type packResponse struct {
	Algorithm         string    `json:"algorithm"`
	Items             int       `json:"items"`
	BinCount          int       `json:"binCount"`
	Bins              [][]int   `json:"bins"`
	FreeSpace         []float64 `json:"freeSpace"`
	Membership        [][]int   `json:"membership"`
	Verdict           string    `json:"verdict"`
	Feasible          bool      `json:"feasible"`
	CalculationTimeMs int64     `json:"calculationTimeMs"`
}

type validateRequest struct {
	Sizes      []float64 `json:"sizes"`
	Membership [][]int   `json:"membership"`
}

type validateResponse struct {
	Feasible bool   `json:"feasible"`
	Verdict  string `json:"verdict"`
}

type algorithmsResponse struct {
	Algorithms []string `json:"algorithms"`
}

type presetRequest struct {
	Name        string            `json:"name"`
	Description string            `json:"description"`
	Config      experiment.Config `json:"config"`
}

type presetsResponse struct {
	Presets   []storage.Preset `json:"presets"`
	UpdatedAt time.Time        `json:"updatedAt"`
	Message   string           `json:"message,omitempty"`
}

type experimentRequest struct {
	Preset       string             `json:"preset"`
	Distribution *distribution.Spec `json:"distribution"`
	Items        int                `json:"items"`
	Trials       int                `json:"trials"`
	Seed         *int64             `json:"seed"`
	Parallelism  int                `json:"parallelism"`
}

type experimentResponse struct {
	Preset    string                        `json:"preset,omitempty"`
	Config    experiment.Config             `json:"config"`
	Summaries []experiment.AlgorithmSummary `json:"summaries"`
	ElapsedMs int64                         `json:"elapsedMs"`
}

type healthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
}

type errorResponse struct {
	Error      string `json:"error"`
	Details    string `json:"details,omitempty"`
	Suggestion string `json:"suggestion,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	if status != 0 {
		w.WriteHeader(status)
	}
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message, details string, suggestion ...string) {
	resp := errorResponse{
		Error:   message,
		Details: details,
	}
	if len(suggestion) > 0 {
		resp.Suggestion = suggestion[0]
	}
	writeJSON(w, status, resp)
}

func writeInternalError(w http.ResponseWriter, err error) {
	writeError(w, http.StatusInternalServerError, "Internal error", err.Error())
}
