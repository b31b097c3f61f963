// Package server exposes the schema contract over a small read-only HTTP
// API, for operators and tooling that want to browse cached metadata. It
// executes no user SQL — every route goes through the contract facade.
package server

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/larkbyte/dialectdb/internal/errs"
	"github.com/larkbyte/dialectdb/internal/logger"
	"github.com/larkbyte/dialectdb/internal/schema"
)

// Server serves the schema explorer API.
type Server struct {
	contract *schema.Contract
	log      *logger.Logger
	router   chi.Router
}

// New builds a Server over the given contract.
func New(contract *schema.Contract, log *logger.Logger) *Server {
	if log == nil {
		log = logger.Nop()
	}
	s := &Server{contract: contract, log: log}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.requestLogger)

	r.Get("/healthz", s.handleHealth)
	r.Route("/v1", func(r chi.Router) {
		r.Get("/dialect", s.handleDialect)
		r.Get("/schemas", s.handleSchemas)
		r.Get("/tables", s.handleTables)
		r.Get("/views", s.handleViews)
		r.Get("/tables/{name}", s.handleTable)
		r.Post("/refresh", s.handleRefresh)
		r.Post("/tables/{name}/refresh", s.handleTableRefresh)
	})
	s.router = r

	return s
}

// Handler returns the root http.Handler, for mounting and for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe blocks serving on addr until ctx is cancelled, then shuts
// down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		return err
	}
}

// --- handlers ---

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleDialect(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{
		"dialect":        s.contract.Dialect().String(),
		"default_schema": s.contract.DefaultSchema(),
	})
}

func (s *Server) handleSchemas(w http.ResponseWriter, r *http.Request) {
	names, err := s.contract.SchemaNames(r.Context(), refreshParam(r))
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"schemas": emptyIfNil(names)})
}

func (s *Server) handleTables(w http.ResponseWriter, r *http.Request) {
	names, err := s.contract.TableNames(r.Context(), r.URL.Query().Get("schema"), refreshParam(r))
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"tables": emptyIfNil(names)})
}

func (s *Server) handleViews(w http.ResponseWriter, r *http.Request) {
	names, err := s.contract.ViewNames(r.Context(), r.URL.Query().Get("schema"), refreshParam(r))
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"views": emptyIfNil(names)})
}

func (s *Server) handleTable(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	ts, err := s.contract.TableSchema(r.Context(), name, refreshParam(r))
	if err != nil {
		s.writeError(w, err)
		return
	}
	if ts == nil {
		s.writeJSON(w, http.StatusNotFound, map[string]string{"error": "table not found"})
		return
	}
	s.writeJSON(w, http.StatusOK, ts)
}

func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	s.contract.Refresh(r.Context())
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "refreshed"})
}

func (s *Server) handleTableRefresh(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	if err := s.contract.RefreshTableSchema(r.Context(), name); err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "refreshed"})
}

// --- helpers ---

func refreshParam(r *http.Request) bool {
	return r.URL.Query().Get("refresh") == "true"
}

func emptyIfNil(names []string) []string {
	if names == nil {
		return []string{}
	}
	return names
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.log.WarnErr("failed to encode response", err)
	}
}

// writeError maps the error taxonomy onto HTTP status codes.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errs.IsNotFound(err):
		status = http.StatusNotFound
	case errs.IsUnsupported(err):
		status = http.StatusNotImplemented
	case errs.IsConfiguration(err):
		status = http.StatusBadRequest
	case errs.IsBackendUnavailable(err):
		status = http.StatusBadGateway
	}
	s.writeJSON(w, status, map[string]string{"error": err.Error()})
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		s.log.Event().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Dur("duration", time.Since(start)).
			Msg("request")
	})
}
