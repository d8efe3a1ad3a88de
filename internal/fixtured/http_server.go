package fixtured

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/GoSim-25-26J-441/topology-fixtures/internal/convert"
	"github.com/GoSim-25-26J-441/topology-fixtures/internal/metrics"
	"github.com/GoSim-25-26J-441/topology-fixtures/pkg/config"
	"github.com/GoSim-25-26J-441/topology-fixtures/pkg/logger"
)

// maxBodyBytes bounds a create request body
const maxBodyBytes = 1 << 20

type HTTPServer struct {
	mux      *http.ServeMux
	store    *DatasetStore
	Executor *Executor
	registry *metrics.Registry
	limiter  *createLimiter
}

func NewHTTPServer(store *DatasetStore, executor *Executor, registry *metrics.Registry) *HTTPServer {
	if registry == nil {
		registry = metrics.NewRegistry()
	}
	s := &HTTPServer{
		mux:      http.NewServeMux(),
		store:    store,
		Executor: executor,
		registry: registry,
	}

	s.mux.HandleFunc("/healthz", s.handleHealthz)
	s.mux.Handle("/metrics", promhttp.HandlerFor(registry.PrometheusRegistry(), promhttp.HandlerOpts{}))
	s.mux.HandleFunc("/v1/datasets", s.handleDatasets)
	s.mux.HandleFunc("/v1/datasets/", s.handleDatasetByID)

	return s
}

// SetCreateLimit caps dataset creation per client and second. A limit <= 0
// removes the cap.
func (s *HTTPServer) SetCreateLimit(perSecond int) {
	s.limiter = newCreateLimiter(perSecond)
}

// Handler returns the instrumented HTTP handler
func (s *HTTPServer) Handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		s.mux.ServeHTTP(rec, r)
		s.registry.RecordHTTPRequest(r.Method, routeLabel(r.URL.Path), strconv.Itoa(rec.status), time.Since(start))
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// routeLabel collapses dataset IDs so metric labels stay bounded.
func routeLabel(path string) string {
	rest, ok := strings.CutPrefix(path, "/v1/datasets/")
	if !ok {
		return path
	}
	switch {
	case strings.HasSuffix(rest, ":stop"):
		return "/v1/datasets/{id}:stop"
	case strings.Contains(rest, "/artifacts/"):
		return "/v1/datasets/{id}/artifacts/{name}"
	case strings.Contains(rest, "/responses/"):
		return "/v1/datasets/{id}/responses/{name}"
	default:
		return "/v1/datasets/{id}"
	}
}

func (s *HTTPServer) handleHealthz(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]any{
		"status":    "ok",
		"datasets":  s.store.Len(),
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// handleDatasets handles /v1/datasets
func (s *HTTPServer) handleDatasets(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		s.handleCreateDataset(w, r)
	case http.MethodGet:
		s.handleListDatasets(w, r)
	default:
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

// handleDatasetByID handles /v1/datasets/{id} and its sub-resources
func (s *HTTPServer) handleDatasetByID(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/v1/datasets/")
	if path == "" {
		s.writeError(w, http.StatusBadRequest, "dataset ID is required")
		return
	}

	if id, ok := strings.CutSuffix(path, ":stop"); ok {
		if r.Method != http.MethodPost {
			s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
			return
		}
		s.handleStopDataset(w, id)
		return
	}

	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	if id, name, ok := strings.Cut(path, "/artifacts/"); ok {
		s.handleGetArtifact(w, id, name)
		return
	}
	if id, name, ok := strings.Cut(path, "/responses/"); ok {
		s.handleGetResponse(w, id, name)
		return
	}
	if strings.Contains(path, "/") {
		s.writeError(w, http.StatusNotFound, "not found")
		return
	}
	s.handleGetDataset(w, path)
}

// createRequest is the body of POST /v1/datasets
type createRequest struct {
	Config json.RawMessage `json:"config,omitempty"`
	Anchor string          `json:"anchor,omitempty"`
}

// parseCreateRequest resolves the config and anchor of a create request.
// A missing config means the defaults and a missing anchor means now.
func parseCreateRequest(req createRequest) (*config.Config, time.Time, error) {
	cfg := config.Default()
	if len(req.Config) > 0 && string(req.Config) != "null" {
		parsed, err := config.ParseConfigJSON(req.Config)
		if err != nil {
			return nil, time.Time{}, err
		}
		cfg = parsed
	}

	anchor := time.Now()
	if req.Anchor != "" {
		t, err := time.Parse(time.RFC3339Nano, req.Anchor)
		if err != nil {
			return nil, time.Time{}, err
		}
		anchor = t
	}
	return cfg, anchor, nil
}

// handleCreateDataset handles POST /v1/datasets
func (s *HTTPServer) handleCreateDataset(w http.ResponseWriter, r *http.Request) {
	if !s.limiter.Allow(clientKey(r)) {
		s.writeError(w, http.StatusTooManyRequests, "dataset creation rate exceeded")
		return
	}

	var req createRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes)).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		s.writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	cfg, anchor, err := parseCreateRequest(req)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if config.LayerMismatch(cfg) {
		logger.Warn("service layer sizes do not sum to counts.services, using layer sizes",
			"services", cfg.Counts.Services, "layers_total", cfg.Layers.Total())
	}

	ds, created, err := s.Executor.Submit(cfg, anchor)
	if err != nil {
		s.writeError(w, statusForError(err), err.Error())
		return
	}

	code := http.StatusOK
	if created {
		code = http.StatusCreated
		logger.Info("dataset created (HTTP)", "dataset_id", ds.ID)
	}
	s.writeJSON(w, code, map[string]any{
		"dataset": datasetToJSON(ds),
	})
}

// handleListDatasets handles GET /v1/datasets?limit=&status=
func (s *HTTPServer) handleListDatasets(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		if parsed, err := strconv.Atoi(limitStr); err == nil && parsed > 0 {
			limit = min(parsed, 1000)
		}
	}
	status := Status(r.URL.Query().Get("status"))

	datasets := s.store.List(limit, status)
	out := make([]map[string]any, 0, len(datasets))
	for _, ds := range datasets {
		out = append(out, datasetToJSON(ds))
	}
	s.writeJSON(w, http.StatusOK, map[string]any{
		"datasets": out,
		"count":    len(out),
	})
}

func (s *HTTPServer) handleGetDataset(w http.ResponseWriter, id string) {
	ds, ok := s.store.Get(id)
	if !ok {
		s.writeError(w, http.StatusNotFound, "dataset not found")
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{
		"dataset": datasetToJSON(ds),
	})
}

func (s *HTTPServer) handleStopDataset(w http.ResponseWriter, id string) {
	ds, err := s.Executor.Stop(id)
	if err != nil {
		s.writeError(w, statusForError(err), err.Error())
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{
		"dataset": datasetToJSON(ds),
	})
}

func (s *HTTPServer) handleGetArtifact(w http.ResponseWriter, id, name string) {
	ds, ok := s.store.Get(id)
	if !ok {
		s.writeError(w, http.StatusNotFound, "dataset not found")
		return
	}
	body, err := ds.Artifact(name)
	if err != nil {
		s.writeError(w, statusForError(err), err.Error())
		return
	}
	w.Header().Set("Content-Type", "application/x-ndjson")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		logger.Error("failed to write artifact", "dataset_id", id, "artifact", name, "error", err)
		return
	}
	logger.Debug("artifact served", "dataset_id", id, "artifact", name, "bytes", len(body))
}

func (s *HTTPServer) handleGetResponse(w http.ResponseWriter, id, name string) {
	ds, ok := s.store.Get(id)
	if !ok {
		s.writeError(w, http.StatusNotFound, "dataset not found")
		return
	}
	resp, err := BuildResponse(ds, name)
	if err != nil {
		s.writeError(w, statusForError(err), err.Error())
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := convert.Encode(w, resp); err != nil {
		logger.Error("failed to encode response", "dataset_id", id, "response", name, "error", err)
	}
}

// statusForError maps store and executor errors to HTTP status codes
func statusForError(err error) int {
	switch {
	case errors.Is(err, ErrDatasetNotFound), errors.Is(err, ErrUnknownArtifact):
		return http.StatusNotFound
	case errors.Is(err, ErrDatasetTerminal), errors.Is(err, ErrDatasetNotReady):
		return http.StatusConflict
	case errors.Is(err, ErrDatasetIDMissing):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func (s *HTTPServer) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.Error("failed to encode JSON response", "error", err)
	}
}

func (s *HTTPServer) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, map[string]any{
		"error": message,
	})
}

func datasetToJSON(ds Dataset) map[string]any {
	out := map[string]any{
		"id":                 ds.ID,
		"status":             ds.Status,
		"anchor":             ds.Anchor.UTC().Format(time.RFC3339Nano),
		"created_at_unix_ms": ds.CreatedAtUnixMs,
		"config":             ds.Config,
	}
	if ds.StartedAtUnixMs != 0 {
		out["started_at_unix_ms"] = ds.StartedAtUnixMs
	}
	if ds.EndedAtUnixMs != 0 {
		out["ended_at_unix_ms"] = ds.EndedAtUnixMs
	}
	if ds.Error != "" {
		out["error"] = ds.Error
	}
	if ds.Stats != nil {
		out["stats"] = ds.Stats
	}
	if len(ds.WriteErrors) > 0 {
		out["write_errors"] = ds.WriteErrors
	}
	return out
}
