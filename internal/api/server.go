// Package api exposes the HTTP interface for the brand-insights service.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/storesight/brand-insights/internal/brand"
	"github.com/storesight/brand-insights/internal/config"
	"github.com/storesight/brand-insights/internal/notify"
	"github.com/storesight/brand-insights/internal/scraper"
	"github.com/storesight/brand-insights/internal/telemetry"
)

// Pipeline runs the extraction for one storefront URL.
type Pipeline interface {
	Scrape(ctx context.Context, rawURL string) (*brand.Context, error)
}

// CompetitorFinder looks up competing storefronts.
type CompetitorFinder interface {
	Find(ctx context.Context, website string) ([]string, error)
}

// Server wires HTTP handlers to the pipeline and the brand store.
type Server struct {
	router      chi.Router
	pipeline    Pipeline
	store       brand.Store
	publisher   notify.Publisher
	competitors CompetitorFinder
	cfg         config.Config
	logger      *zap.Logger
}

// NewServer constructs a Server with middleware and routes. store, publisher,
// and competitors may be nil to disable the corresponding behavior.
func NewServer(
	pipeline Pipeline,
	store brand.Store,
	publisher notify.Publisher,
	competitors CompetitorFinder,
	cfg config.Config,
	logger *zap.Logger,
) *Server {
	s := &Server{
		pipeline:    pipeline,
		store:       store,
		publisher:   publisher,
		competitors: competitors,
		cfg:         cfg,
		logger:      logger,
	}
	r := chi.NewRouter()
	r.Use(requestIDMiddleware)
	r.Use(loggingMiddleware(logger))
	r.Use(recoverMiddleware(logger))
	r.Use(telemetry.Middleware)
	r.Use(timeoutMiddleware(5 * time.Minute))
	if cfg.Auth.Enabled {
		r.Use(apiKeyMiddleware(cfg.Auth.APIKey))
	}

	r.Get("/healthz", s.healthz)
	r.Get("/readyz", s.readyz)
	r.Method(http.MethodGet, "/metrics", telemetry.MetricsHandler())

	r.Route("/v1", func(r chi.Router) {
		r.Post("/scrape", s.scrape)
		r.Get("/brands", s.getBrand)
		r.Get("/competitors", s.getCompetitors)
	})

	s.router = r
	return s
}

// Handler returns the router for use with http.Server.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) readyz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

type scrapeRequest struct {
	WebsiteURL string `json:"website_url"`
}

// scrape runs the pipeline, persists the record, and returns it. Pipeline
// failures map onto the error taxonomy: unparsable input is a client error,
// an unreachable storefront is reported as not found, and anything else is
// an internal failure.
func (s *Server) scrape(w http.ResponseWriter, r *http.Request) {
	var req scrapeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.WebsiteURL == "" {
		writeError(w, http.StatusBadRequest, "missing website_url")
		return
	}

	record, err := s.pipeline.Scrape(r.Context(), req.WebsiteURL)
	if err != nil {
		switch {
		case scraper.IsInputError(err):
			writeError(w, http.StatusBadRequest, "website url cannot be parsed")
		case scraper.IsUnreachableError(err):
			writeError(w, http.StatusNotFound, "website not found or inaccessible")
		case errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded):
			writeError(w, http.StatusRequestTimeout, "scrape canceled")
		default:
			s.logger.Error("scrape failed", zap.String("url", req.WebsiteURL), zap.Error(err))
			writeError(w, http.StatusInternalServerError, "internal error")
		}
		return
	}

	if s.store != nil {
		if err := s.store.Upsert(r.Context(), record); err != nil {
			s.logger.Error("persist failed", zap.String("base", record.BaseURL), zap.Error(err))
			writeError(w, http.StatusInternalServerError, "failed to persist brand record")
			return
		}
	}
	s.publishCompletion(r.Context(), record)

	writeJSON(w, http.StatusOK, record)
}

func (s *Server) publishCompletion(ctx context.Context, record *brand.Context) {
	if s.publisher == nil {
		return
	}
	event := notify.Event{
		BaseURL:   record.BaseURL,
		BrandName: record.BrandName,
		Products:  len(record.Products),
		Policies:  len(record.Policies),
		FAQs:      len(record.FAQs),
	}
	if _, err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.Warn("completion publish failed", zap.String("base", record.BaseURL), zap.Error(err))
	}
}

func (s *Server) getBrand(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		writeError(w, http.StatusNotFound, "persistence is not configured")
		return
	}
	rawURL := r.URL.Query().Get("base_url")
	if rawURL == "" {
		writeError(w, http.StatusBadRequest, "missing base_url")
		return
	}
	base, err := scraper.NormalizeBase(rawURL)
	if err != nil {
		writeError(w, http.StatusBadRequest, "base_url cannot be parsed")
		return
	}
	record, err := s.store.Get(r.Context(), base)
	if err != nil {
		writeError(w, http.StatusNotFound, "brand not found")
		return
	}
	writeJSON(w, http.StatusOK, record)
}

type competitorResult struct {
	Query       string   `json:"query"`
	Competitors []string `json:"competitors"`
}

func (s *Server) getCompetitors(w http.ResponseWriter, r *http.Request) {
	website := r.URL.Query().Get("website")
	if website == "" {
		writeError(w, http.StatusBadRequest, "missing website")
		return
	}
	if s.competitors == nil {
		writeJSON(w, http.StatusOK, competitorResult{Query: website, Competitors: []string{}})
		return
	}
	results, err := s.competitors.Find(r.Context(), website)
	if err != nil {
		if scraper.IsInputError(err) {
			writeError(w, http.StatusBadRequest, "website cannot be parsed")
			return
		}
		s.logger.Error("competitor lookup failed", zap.String("website", website), zap.Error(err))
		writeError(w, http.StatusBadGateway, "competitor lookup failed")
		return
	}
	writeJSON(w, http.StatusOK, competitorResult{Query: website, Competitors: results})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		zap.L().Error("write response failed", zap.Error(err))
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
