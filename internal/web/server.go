// Package web serves the rendering surface: the embedded page, the live WebSocket
// frame stream and a small JSON API over the catalog and mounted sessions.
package web

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"io/fs"
	"log/slog"
	"net/http"
	"path"
	"slices"
	"sync"
	"time"

	ws "github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/solaris-viz/solaris/internal/dispatcher"
	"github.com/solaris-viz/solaris/internal/session"
	"github.com/solaris-viz/solaris/pkg/core"
)

//go:embed assets/*
var embeddedAssets embed.FS

// Dependencies holds everything the server needs.
type Dependencies struct {
	Sessions   *session.Registry
	Dispatcher *dispatcher.Dispatcher
	Logger     *slog.Logger

	// Registerer receives the transport metrics; Gatherer backs /metrics.
	// Either may be nil.
	Registerer prometheus.Registerer
	Gatherer   prometheus.Gatherer

	FrameRate      int
	SendBuffer     int
	AllowedOrigins []string
}

// Server is the HTTP handler of the application.
type Server struct {
	deps     Dependencies
	mux      *http.ServeMux
	assets   fs.FS
	upgrader ws.Upgrader
	metrics  *Metrics
	logger   *slog.Logger

	mu    sync.Mutex
	conns map[*connection]struct{}
}

// NewServer builds the routes.
func NewServer(deps Dependencies) *Server {
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	if deps.Registerer == nil {
		deps.Registerer = prometheus.NewRegistry()
	}

	s := &Server{
		deps:    deps,
		mux:     http.NewServeMux(),
		metrics: NewMetrics(deps.Registerer),
		logger:  deps.Logger.With("component", "web"),
		conns:   make(map[*connection]struct{}),
	}
	s.upgrader = ws.Upgrader{
		ReadBufferSize:  4096,
		WriteBufferSize: 16384,
		CheckOrigin:     s.checkOrigin,
	}

	assetsFS, err := fs.Sub(embeddedAssets, "assets")
	if err == nil {
		s.assets = assetsFS
	}

	s.mux.HandleFunc("/ws", s.handleWS)
	s.mux.HandleFunc("/api/catalog", s.metrics.instrument("catalog", s.handleCatalog))
	s.mux.HandleFunc("/api/bodies/{id}", s.metrics.instrument("body", s.handleBody))
	s.mux.HandleFunc("/api/sessions/{id}/frame.svg", s.metrics.instrument("frame", s.handleFrame))
	s.mux.HandleFunc("/api/sessions/{id}/state", s.metrics.instrument("state", s.handleState))
	s.mux.HandleFunc("/healthz", s.metrics.instrument("healthz", s.handleHealth))
	if deps.Gatherer != nil {
		s.mux.Handle("/metrics", MetricsHandler(deps.Gatherer))
	}
	if s.assets != nil {
		fileServer := http.FileServer(http.FS(s.assets))
		s.mux.Handle("/assets/", http.StripPrefix("/assets/", fileServer))
	}
	s.mux.HandleFunc("/", s.metrics.instrument("index", s.handleIndex))

	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

func (s *Server) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" || len(s.deps.AllowedOrigins) == 0 {
		return true
	}
	return slices.Contains(s.deps.AllowedOrigins, origin) || slices.Contains(s.deps.AllowedOrigins, "*")
}

func allowGet(w http.ResponseWriter, r *http.Request) bool {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		w.Header().Set("Allow", http.MethodGet)
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, v any) {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		http.Error(w, "marshal failed", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(b)
	_, _ = w.Write([]byte("\n"))
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if !allowGet(w, r) {
		return
	}
	if r.URL.Path != "/" {
		if path.Dir(r.URL.Path) == "/api" {
			http.NotFound(w, r)
			return
		}
	}
	if s.assets == nil {
		http.Error(w, "ui unavailable", http.StatusInternalServerError)
		return
	}
	b, err := fs.ReadFile(s.assets, "index.html")
	if err != nil {
		http.Error(w, "ui unavailable", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Cache-Control", "no-store")
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(b)
}

// catalogResponse is the payload of /api/catalog.
type catalogResponse struct {
	Star   string               `json:"star"`
	Count  int                  `json:"count"`
	Bodies []core.CelestialBody `json:"bodies"`
}

func (s *Server) handleCatalog(w http.ResponseWriter, r *http.Request) {
	if !allowGet(w, r) {
		return
	}
	cat := s.deps.Sessions.Catalog()
	writeJSON(w, catalogResponse{
		Star:   cat.Star().ID,
		Count:  cat.Len(),
		Bodies: cat.Bodies(),
	})
}

// bodyResponse is the payload of /api/bodies/{id}.
type bodyResponse struct {
	Body        core.CelestialBody `json:"body"`
	Parent      string             `json:"parent,omitempty"`
	PeriodLabel string             `json:"periodLabel"`
	MoonCount   int                `json:"moonCount"`
}

func (s *Server) handleBody(w http.ResponseWriter, r *http.Request) {
	if !allowGet(w, r) {
		return
	}
	cat := s.deps.Sessions.Catalog()
	b, ok := cat.Lookup(r.PathValue("id"))
	if !ok {
		http.Error(w, "unknown body", http.StatusNotFound)
		return
	}
	resp := bodyResponse{
		Body:        b,
		PeriodLabel: session.PeriodLabel(b.Period),
		MoonCount:   len(b.Moons),
	}
	if p, ok := cat.Parent(b.ID); ok {
		resp.Parent = p.ID
	}
	writeJSON(w, resp)
}

func (s *Server) explorer(w http.ResponseWriter, r *http.Request) (*session.Explorer, bool) {
	ex, ok := s.deps.Sessions.Get(r.PathValue("id"))
	if !ok {
		http.Error(w, "unknown session", http.StatusNotFound)
	}
	return ex, ok
}

func (s *Server) handleFrame(w http.ResponseWriter, r *http.Request) {
	if !allowGet(w, r) {
		return
	}
	ex, ok := s.explorer(w, r)
	if !ok {
		return
	}
	w.Header().Set("Cache-Control", "no-store")
	w.Header().Set("Content-Type", "image/svg+xml")
	if err := ex.RenderSVG(w); err != nil {
		s.logger.Warn("frame render failed", "session", ex.ID(), "error", err)
	}
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	if !allowGet(w, r) {
		return
	}
	ex, ok := s.explorer(w, r)
	if !ok {
		return
	}
	writeJSON(w, ex.State())
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if !allowGet(w, r) {
		return
	}
	writeJSON(w, map[string]any{
		"ok":       true,
		"sessions": s.deps.Sessions.Len(),
	})
}

// Serve runs handler on addr until ctx is done, then shuts down gracefully.
func Serve(ctx context.Context, addr string, handler http.Handler, readHeaderTimeout, shutdownTimeout time.Duration) error {
	if readHeaderTimeout <= 0 {
		readHeaderTimeout = 5 * time.Second
	}
	if shutdownTimeout <= 0 {
		shutdownTimeout = 5 * time.Second
	}

	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: readHeaderTimeout,
		IdleTimeout:       30 * time.Second,
		MaxHeaderBytes:    1 << 20, // 1 MiB
	}
	// hijacked WebSockets are not tracked by Shutdown
	if c, ok := handler.(interface{ Close() }); ok {
		srv.RegisterOnShutdown(c.Close)
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
