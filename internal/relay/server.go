// Package relay is the HTTP bridge between the chat client's assistant and
// the Gemini API. It exposes a single POST /api/gemini endpoint.
package relay

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

// Wire messages of the relay endpoint
const (
	ErrMessageRequired = "Message is required"
	ErrFetchFailed     = "Error fetching Gemini response"
	NoResponse         = "No response"
)

const maxRequestBody = 64 * 1024

// Request is the body of POST /api/gemini
type Request struct {
	Message string `json:"message"`
}

// Response is a successful answer
type Response struct {
	Reply string `json:"reply"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// Options configures a Server
type Options struct {
	Addr string
	// RateLimit is requests per second per client IP; zero disables it
	RateLimit float64
	Burst     int
	Logger    zerolog.Logger
}

// Server relays prompts to a Generator
type Server struct {
	gen     Generator
	opts    Options
	metrics *Metrics
	router  chi.Router
}

// NewServer builds the router
func NewServer(gen Generator, opts Options) *Server {
	s := &Server{
		gen:     gen,
		opts:    opts,
		metrics: NewMetrics(),
	}

	var limiters *clientLimiters
	if opts.RateLimit > 0 {
		limiters = newClientLimiters(rate.Limit(opts.RateLimit), max(opts.Burst, 1))
	}

	r := chi.NewRouter()
	r.Use(instrument(s.metrics))
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(requestLogger(opts.Logger))
	r.Use(chimw.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	r.Handle("/metrics", promhttp.HandlerFor(s.metrics.Registry, promhttp.HandlerOpts{}))
	r.Get("/health", s.health)
	r.With(rateLimit(limiters, s.metrics, opts.Logger)).Post("/api/gemini", s.gemini)

	s.router = r
	return s
}

// Handler returns the HTTP handler
func (s *Server) Handler() http.Handler {
	return s.router
}

// Metrics returns the server's collectors
func (s *Server) Metrics() *Metrics {
	return s.metrics
}

// ListenAndServe serves until ctx is done, then shuts down gracefully
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.opts.Addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.opts.Logger.Info().Str("addr", s.opts.Addr).Msg("relay listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) gemini(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxRequestBody))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: ErrMessageRequired})
		return
	}

	var req struct {
		Message *string `json:"message"`
	}
	if err := json.Unmarshal(body, &req); err != nil || req.Message == nil || *req.Message == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: ErrMessageRequired})
		return
	}

	start := time.Now()
	reply, err := s.gen.Generate(r.Context(), *req.Message)
	s.metrics.UpstreamLatency.Observe(time.Since(start).Seconds())
	if err != nil {
		s.metrics.UpstreamFailures.Inc()
		s.opts.Logger.Error().Err(err).Str("request_id", chimw.GetReqID(r.Context())).Msg("gemini call failed")
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: ErrFetchFailed})
		return
	}
	if reply == "" {
		reply = NoResponse
	}
	writeJSON(w, http.StatusOK, Response{Reply: reply})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
