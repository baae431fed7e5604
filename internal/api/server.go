// Package api exposes conversations over HTTP.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Chative-core-poc-v1/leadqual/internal/agent/dialogue"
	errx "github.com/Chative-core-poc-v1/leadqual/internal/core/error"
	"github.com/Chative-core-poc-v1/leadqual/internal/metrics"
	"github.com/Chative-core-poc-v1/leadqual/internal/speech"
	logx "github.com/Chative-core-poc-v1/leadqual/pkg/logger"
)

type Server struct {
	router        *chi.Mux
	port          int
	conversations *dialogue.Manager
	voice         *speech.Voice
	httpServer    *http.Server
}

// NewServer wires the routes. voice may be nil.
func NewServer(port int, conversations *dialogue.Manager, voice *speech.Voice) *Server {
	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)

	s := &Server{
		router:        router,
		port:          port,
		conversations: conversations,
		voice:         voice,
	}

	router.Get("/health", s.health)
	router.Handle("/metrics", promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{}))

	s.httpServer = &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	router.Route("/api/v1/conversations", func(r chi.Router) {
		r.Post("/", s.startConversation)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.getConversation)
			r.Post("/messages", s.postMessage)
			r.Post("/voice", s.postVoice)
		})
	})

	return s
}

func (s *Server) Handler() http.Handler { return s.router }

// Start serves until Shutdown. A clean shutdown returns nil.
func (s *Server) Start() error {
	logx.Info().Str("addr", s.httpServer.Addr).Msg("API server starting")
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logx.Warn().Err(err).Msg("failed to write response")
	}
}

func writeError(w http.ResponseWriter, err error) {
	status, msg := errx.StatusOf(err)
	if status >= http.StatusInternalServerError {
		logx.Error().Err(err).Int("status", status).Msg("request failed")
	}
	writeJSON(w, status, map[string]string{"error": msg})
}
