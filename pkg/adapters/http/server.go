package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/aretw0/turing/internal/logging"
	"github.com/aretw0/turing/internal/presentation/graph"
	"github.com/aretw0/turing/pkg/domain"
	"github.com/aretw0/turing/pkg/loader"
	"github.com/aretw0/turing/pkg/ports"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// maxBodySize bounds configuration uploads.
const maxBodySize = 1 << 20

// Server exposes a MachineService over HTTP.
type Server struct {
	Service ports.MachineService
	Logger  *slog.Logger
	Metrics http.Handler
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the request logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.Logger = logger
	}
}

// WithMetricsHandler mounts h on GET /metrics.
func WithMetricsHandler(h http.Handler) Option {
	return func(s *Server) {
		s.Metrics = h
	}
}

// NewHandler creates a new HTTP handler for the service.
func NewHandler(svc ports.MachineService, opts ...Option) http.Handler {
	s := &Server{
		Service: svc,
		Logger:  logging.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}

	r := chi.NewRouter()
	r.Get("/health", s.GetHealth)
	r.Post("/preview", s.Preview)
	r.Route("/machines", func(r chi.Router) {
		r.Get("/", s.ListMachines)
		r.Post("/", s.CreateMachine)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.GetMachine)
			r.Delete("/", s.DeleteMachine)
			r.Post("/advance", s.Advance)
			r.Post("/reset", s.Reset)
			r.Get("/graph", s.GetGraph)
		})
	})
	if s.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.Metrics)
	}

	return enableCORS(r)
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// CreateRequest is the body of POST /machines.
type CreateRequest struct {
	ID         string         `json:"id,omitempty"`
	Permissive bool           `json:"permissive,omitempty"`
	Config     map[string]any `json:"config"`
}

// MachineResponse describes one session.
type MachineResponse struct {
	ID          string      `json:"id"`
	View        domain.View `json:"view"`
	Transitions int         `json:"transitions,omitempty"`
	Error       string      `json:"error,omitempty"`
}

// PreviewRequest is the body of POST /preview.
type PreviewRequest struct {
	Format string         `json:"format,omitempty"`
	Config map[string]any `json:"config"`
}

// PreviewResponse carries the graph and, for invalid configurations, the
// strict-mode violations.
type PreviewResponse struct {
	Valid  bool     `json:"valid"`
	Graph  string   `json:"graph"`
	Errors []string `json:"errors,omitempty"`
}

// ErrorResponse is written for every failed request.
type ErrorResponse struct {
	Error  string   `json:"error"`
	Errors []string `json:"errors,omitempty"`
}

// CreateMachine handles POST /machines.
func (s *Server) CreateMachine(w http.ResponseWriter, r *http.Request) {
	var body CreateRequest
	if !s.decode(w, r, &body) {
		return
	}
	cfg, err := loader.Decode(body.Config)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	id := body.ID
	if id == "" {
		id = uuid.New().String()
	}
	view, err := s.Service.Create(r.Context(), id, cfg, !body.Permissive)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.Logger.Info("machine created", "session_id", id, "rules", len(cfg.Rules))
	writeJSON(w, http.StatusCreated, MachineResponse{ID: id, View: view})
}

// ListMachines handles GET /machines.
func (s *Server) ListMachines(w http.ResponseWriter, r *http.Request) {
	ids, err := s.Service.List(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if ids == nil {
		ids = []string{}
	}
	writeJSON(w, http.StatusOK, map[string][]string{"sessions": ids})
}

// GetMachine handles GET /machines/{id}.
func (s *Server) GetMachine(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	view, err := s.Service.View(r.Context(), id)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, MachineResponse{ID: id, View: view})
}

// Advance handles POST /machines/{id}/advance?steps=n.
// A step error still reports the view and the transitions taken before it.
func (s *Server) Advance(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	steps := 1
	if raw := r.URL.Query().Get("steps"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: fmt.Sprintf("invalid steps %q", raw)})
			return
		}
		steps = n
	}

	view, taken, err := s.Service.Advance(r.Context(), id, steps)
	var stepErr *domain.StepError
	switch {
	case errors.As(err, &stepErr):
		s.Logger.Warn("machine stuck", "session_id", id, "err", err)
		writeJSON(w, http.StatusUnprocessableEntity, MachineResponse{ID: id, View: view, Transitions: taken, Error: err.Error()})
	case err != nil:
		s.fail(w, r, err)
	default:
		writeJSON(w, http.StatusOK, MachineResponse{ID: id, View: view, Transitions: taken})
	}
}

// Reset handles POST /machines/{id}/reset.
func (s *Server) Reset(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	view, err := s.Service.Reset(r.Context(), id)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, MachineResponse{ID: id, View: view})
}

// DeleteMachine handles DELETE /machines/{id}.
func (s *Server) DeleteMachine(w http.ResponseWriter, r *http.Request) {
	if err := s.Service.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GetGraph handles GET /machines/{id}/graph?format=dot|mermaid.
func (s *Server) GetGraph(w http.ResponseWriter, r *http.Request) {
	format := r.URL.Query().Get("format")
	out, err := s.Service.Graph(r.Context(), chi.URLParam(r, "id"), format)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeGraph(w, format, out)
}

// Preview handles POST /preview.
func (s *Server) Preview(w http.ResponseWriter, r *http.Request) {
	var body PreviewRequest
	if !s.decode(w, r, &body) {
		return
	}
	cfg, err := loader.Decode(body.Config)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	p, err := graph.PreviewConfig(cfg, body.Format)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, PreviewResponse{Valid: p.Valid(), Graph: p.Graph, Errors: messages(p.Errors)})
}

// GetHealth handles the GET /health request.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodySize))
	dec.UseNumber()
	if err := dec.Decode(v); err != nil {
		s.Logger.Warn("invalid request body", "path", r.URL.Path, "err", err)
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid request body: " + err.Error()})
		return false
	}
	return true
}

// fail maps service errors to status codes: construction problems are the
// client's fault (400), unknown sessions are 404, step errors 422.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := StatusOf(err)
	if status >= http.StatusInternalServerError {
		s.Logger.Error("request failed", "path", r.URL.Path, "err", err)
	}
	writeJSON(w, status, ErrorResponse{Error: err.Error(), Errors: messages(domain.ValidationErrors(err))})
}

// StatusOf returns the HTTP status code for err.
func StatusOf(err error) int {
	var (
		stepErr  *domain.StepError
		buildErr *domain.ConstructionError
	)
	switch {
	case errors.Is(err, domain.ErrSessionNotFound):
		return http.StatusNotFound
	case errors.As(err, &stepErr):
		return http.StatusUnprocessableEntity
	case errors.As(err, &buildErr),
		errors.Is(err, domain.ErrInvalidHeadIndex),
		errors.Is(err, domain.ErrInvalidSymbol),
		errors.Is(err, domain.ErrMissingKey),
		errors.Is(err, loader.ErrInvalidValue),
		errors.Is(err, graph.ErrUnknownFormat):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func messages(errs []error) []string {
	if len(errs) == 0 {
		return nil
	}
	out := make([]string, len(errs))
	for i, err := range errs {
		out[i] = err.Error()
	}
	return out
}

func writeGraph(w http.ResponseWriter, format, body string) {
	ct := "text/vnd.graphviz; charset=utf-8"
	if format == "mermaid" {
		ct = "text/plain; charset=utf-8"
	}
	w.Header().Set("Content-Type", ct)
	w.WriteHeader(http.StatusOK)
	io.WriteString(w, body)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("response encode failed", "err", err)
	}
}
