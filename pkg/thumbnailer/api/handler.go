// Package api exposes the pipeline over HTTP: the trigger input
// endpoint, health, and metrics. The processing unit itself stays
// independently callable; this is just one trigger surface.
package api

import (
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/RutikGawali1/Serverless-Image-Processing-Pipeline/internal/metrics"
	"github.com/RutikGawali1/Serverless-Image-Processing-Pipeline/pkg/thumbnailer"
	"github.com/RutikGawali1/Serverless-Image-Processing-Pipeline/pkg/thumbnailer/trigger"
)

// maxEventBytes bounds the trigger payload, not the image itself.
const maxEventBytes = 1 << 20

// Server handles trigger events over HTTP
type Server struct {
	router *trigger.Router
	logger *slog.Logger
}

// NewServer creates a new HTTP trigger surface dispatching to router
func NewServer(router *trigger.Router, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{router: router, logger: logger}
}

// Routes returns the HTTP routes for the server
func (s *Server) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Handle("/metrics", promhttp.Handler())
	r.Post("/events", s.handleEvent)

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, map[string]string{"status": "ok"})
}

// handleEvent accepts a store-change event and dispatches it. A 2xx
// acknowledges the event; a 5xx leaves it unconsumed so the delivery
// infrastructure redelivers.
func (s *Server) handleEvent(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxEventBytes))
	if err != nil {
		s.renderError(w, r, http.StatusBadRequest, "failed to read request body")
		return
	}

	event, err := trigger.ParseEvent(body)
	if err != nil {
		s.renderError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	results, err := s.router.Route(r.Context(), event)
	if err != nil {
		s.logger.Error("event dispatch failed", "error", err)
		s.renderError(w, r, http.StatusInternalServerError, err.Error())
		return
	}

	for _, result := range results {
		metrics.ObserveResult(result)
	}

	render.Status(r, http.StatusOK)
	render.JSON(w, r, EventResponse{
		Processed: len(results),
		Results:   results,
	})
}

func (s *Server) renderError(w http.ResponseWriter, r *http.Request, status int, message string) {
	render.Status(r, status)
	render.JSON(w, r, map[string]string{"error": message})
}

// EventResponse is the body returned for a dispatched event
type EventResponse struct {
	Processed int                             `json:"processed"`
	Results   []*thumbnailer.ProcessingResult `json:"results,omitempty"`
}
