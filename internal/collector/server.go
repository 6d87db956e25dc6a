// Package collector runs a local stand-in for the submission endpoint. It
// accepts JSON objects on POST /posts and echoes them back with an assigned
// id, the way a JSON placeholder service does.
package collector

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
)

const maxBodyBytes = 64 << 10

// Record is an accepted submission.
type Record struct {
	ID         int            `json:"id"`
	Body       map[string]any `json:"body"`
	ReceivedAt time.Time      `json:"received_at"`
}

// Store persists accepted submissions across restarts.
type Store interface {
	List(ctx context.Context) ([]Record, error)
	Append(ctx context.Context, r Record) error
}

// Option configures a Server.
type Option func(*Server)

// WithStore persists accepted records to store. Records already in the store
// are loaded on Start and ids continue after the highest one.
func WithStore(store Store) Option {
	return func(s *Server) { s.store = store }
}

// Server is the mock collector.
type Server struct {
	httpServer *http.Server
	listener   net.Listener
	addr       string
	log        zerolog.Logger
	store      Store

	mu      sync.Mutex
	nextID  int
	records []Record
}

// New creates a collector that will listen on addr.
func New(addr string, log zerolog.Logger, opts ...Option) *Server {
	s := &Server{
		addr:   addr,
		log:    log,
		nextID: 101,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.httpServer = &http.Server{
		Handler:           s.Routes(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	return s
}

// Routes returns the collector's HTTP handler.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.requestLogger)

	r.Post("/posts", s.handleCreate)
	r.Get("/posts", s.handleList)
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	return r
}

// Start loads stored records and begins serving in the background.
func (s *Server) Start(ctx context.Context) error {
	if err := s.load(ctx); err != nil {
		return err
	}

	var lc net.ListenConfig
	listener, err := lc.Listen(ctx, "tcp", s.addr)
	if err != nil {
		return fmt.Errorf("failed to create listener: %w", err)
	}
	s.listener = listener

	s.log.Info().Str("addr", listener.Addr().String()).Msg("starting collector")

	errChan := make(chan error, 1)
	go func() {
		if err := s.httpServer.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
	}()

	select {
	case err := <-errChan:
		return fmt.Errorf("collector failed to start: %w", err)
	case <-time.After(100 * time.Millisecond):
		return nil
	}
}

// Addr returns the bound address, or "" before Start.
func (s *Server) Addr() string {
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.log.Info().Msg("shutting down collector")
	return s.httpServer.Shutdown(ctx)
}

// Records returns a copy of every accepted submission.
func (s *Server) Records() []Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Record, len(s.records))
	copy(out, s.records)
	return out
}

func (s *Server) load(ctx context.Context) error {
	if s.store == nil {
		return nil
	}

	records, err := s.store.List(ctx)
	if err != nil {
		return fmt.Errorf("load records: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = records
	for _, rec := range records {
		if rec.ID >= s.nextID {
			s.nextID = rec.ID + 1
		}
	}
	s.log.Info().Int("records", len(records)).Msg("loaded stored records")
	return nil
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil || mediaType != "application/json" {
		writeJSON(w, http.StatusUnsupportedMediaType, map[string]string{"error": "content type must be application/json"})
		return
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		writeJSON(w, http.StatusRequestEntityTooLarge, map[string]string{"error": "body too large"})
		return
	}

	var obj map[string]any
	if err := json.Unmarshal(body, &obj); err != nil || obj == nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "body must be a JSON object"})
		return
	}

	rec, err := s.accept(r.Context(), obj)
	if err != nil {
		s.log.Error().Err(err).Msg("failed to store record")
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "could not store submission"})
		return
	}

	out := make(map[string]any, len(obj)+1)
	for k, v := range obj {
		out[k] = v
	}
	out["id"] = rec.ID
	writeJSON(w, http.StatusCreated, out)
}

// accept assigns the next id to body and records it.
func (s *Server) accept(ctx context.Context, body map[string]any) (Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec := Record{ID: s.nextID, Body: body, ReceivedAt: time.Now()}
	if s.store != nil {
		if err := s.store.Append(ctx, rec); err != nil {
			return Record{}, fmt.Errorf("append record %d: %w", rec.ID, err)
		}
	}
	s.nextID++
	s.records = append(s.records, rec)
	return rec, nil
}

func (s *Server) handleList(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.Records())
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		s.log.Info().
			Str("request_id", middleware.GetReqID(r.Context())).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Dur("duration", time.Since(start)).
			Msg("request")
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
