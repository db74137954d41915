package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/yomigo/yomigo-server/internal/pipeline"
)

// maxBodyBytes caps request bodies. Screen captures are small; 20 MiB
// leaves headroom for full-page screenshots without letting a client
// exhaust memory.
const maxBodyBytes = 20 << 20

// Server serves the pipeline over HTTP.
type Server struct {
	pipeline *pipeline.Orchestrator
	logger   *slog.Logger
	httpSrv  *http.Server
}

// New builds a Server around an orchestrator. logger may be nil.
func New(p *pipeline.Orchestrator, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{pipeline: p, logger: logger}
}

// Handler returns the routed handler with middleware applied, usable
// directly with httptest.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /ocr", s.handleOCR)
	mux.HandleFunc("POST /parse", s.handleParse)
	mux.HandleFunc("POST /parse-text", s.handleParseText)
	mux.HandleFunc("GET /health", s.handleHealth)

	return s.withLogging(withCORS(mux))
}

// ListenAndServe serves until ctx is canceled, then drains in-flight
// requests before returning.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	s.httpSrv = &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- s.httpSrv.ListenAndServe()
	}()

	s.logger.Info("server listening", "addr", addr)

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := s.httpSrv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// withCORS allows the extension's cross-origin requests. The server binds
// to localhost for a single user, so the policy is deliberately open.
func withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.logger.Info("request",
			"method", r.Method, "path", r.URL.Path,
			"status", rec.status, "duration", time.Since(start))
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}
