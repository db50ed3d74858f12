// Package http serves track listings and cleaned sources to remote players.
package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/aretw0/cartridge"
	"github.com/aretw0/cartridge/pkg/domain"
	"github.com/aretw0/cartridge/pkg/host"
	"github.com/go-chi/chi/v5"
)

// Tracks defines what the server needs from the loader.
type Tracks interface {
	ListTracks(ctx context.Context) []string
	Inspect(ctx context.Context, name string) (*domain.SourceReport, error)
}

// Server exposes a Tracks source over HTTP.
type Server struct {
	Tracks  Tracks
	metrics http.Handler
	logger  *slog.Logger
}

// Option configures the handler.
type Option func(*Server)

// WithMetrics mounts h on /metrics.
func WithMetrics(h http.Handler) Option {
	return func(s *Server) {
		s.metrics = h
	}
}

// WithLogger sets the request logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// TrackMeta is the body of GET /tracks/{file}/meta.
type TrackMeta struct {
	Name   string `json:"name"`
	Colour string `json:"colour,omitempty"`
}

// NewHandler creates a new HTTP handler for the track source.
func NewHandler(tracks Tracks, opts ...Option) http.Handler {
	s := &Server{
		Tracks: tracks,
		logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(s)
	}

	r := chi.NewRouter()
	r.Get(domain.DefaultRemotePath, s.ListTracks)
	r.Get(domain.DefaultRemotePath+"/{file}", s.GetSource)
	r.Get(domain.DefaultRemotePath+"/{file}/meta", s.GetMeta)
	r.Get("/healthz", s.GetHealth)
	r.Get("/info", s.GetInfo)
	if s.metrics != nil {
		r.Handle("/metrics", s.metrics)
	}
	return enableCORS(r)
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// ListTracks handles GET /tracks.
func (s *Server) ListTracks(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, s.Tracks.ListTracks(r.Context()))
}

// GetSource handles GET /tracks/{file}. The body is the cleaned source.
func (s *Server) GetSource(w http.ResponseWriter, r *http.Request) {
	report, ok := s.inspect(w, r)
	if !ok {
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	if _, err := w.Write([]byte(report.Cleaned)); err != nil {
		s.logger.Warn("Source write failed", "file", report.Name, "err", err)
	}
}

// GetMeta handles GET /tracks/{file}/meta.
func (s *Server) GetMeta(w http.ResponseWriter, r *http.Request) {
	report, ok := s.inspect(w, r)
	if !ok {
		return
	}
	s.writeJSON(w, TrackMeta{Name: domain.TrackName(report.Name), Colour: report.Colour})
}

// GetHealth handles the GET /healthz request.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, map[string]string{"status": "ok"})
}

// GetInfo handles the GET /info request.
func (s *Server) GetInfo(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, map[string]any{
		"app":              "cartridge-http",
		"version":          strings.TrimSpace(cartridge.Version),
		"contract_version": host.ContractVersion,
	})
}

func (s *Server) inspect(w http.ResponseWriter, r *http.Request) (*domain.SourceReport, bool) {
	file := chi.URLParam(r, "file")
	if !domain.IsSource(domain.FileName(file)) {
		http.Error(w, "invalid track name", http.StatusBadRequest)
		return nil, false
	}

	report, err := s.Tracks.Inspect(r.Context(), file)
	switch {
	case err == nil:
		return report, true
	case errors.Is(err, domain.ErrNotFound):
		http.Error(w, "track not found", http.StatusNotFound)
	case errors.Is(err, domain.ErrTransport), errors.Is(err, domain.ErrStorageUnavailable):
		s.logger.Error("Inspect failed", "file", file, "err", err)
		http.Error(w, "storage unavailable", http.StatusBadGateway)
	default:
		s.logger.Error("Inspect failed", "file", file, "err", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
	return nil, false
}

func (s *Server) writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("Response encode failed", "err", err)
	}
}
