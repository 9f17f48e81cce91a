// Package http serves the damage tracker's browser UI and its JSON/HTMX
// endpoints. One process hosts one active project; the server owns that
// session state for its lifetime.
package http

import (
	"context"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"sync"
	"time"

	"github.com/Raggahmuff1n/DamageInvoice/internal/config"
	"github.com/Raggahmuff1n/DamageInvoice/internal/core"
	"github.com/Raggahmuff1n/DamageInvoice/internal/middleware/ratelimit"
	"github.com/Raggahmuff1n/DamageInvoice/internal/middleware/security"
	"github.com/Raggahmuff1n/DamageInvoice/internal/middleware/trace"
	"github.com/Raggahmuff1n/DamageInvoice/internal/receipts"
	"github.com/Raggahmuff1n/DamageInvoice/internal/services"
	"github.com/Raggahmuff1n/DamageInvoice/internal/store"
	appweb "github.com/Raggahmuff1n/DamageInvoice/web"
)

type Server struct {
	http.Server

	templates    *template.Template
	cfg          *config.Config
	receiptStore receipts.Store
	exports      *services.ExportService
	limiter      *ratelimit.Limiter

	// Active session state. The process hosts exactly one project at a time;
	// the mutex only serializes overlapping browser requests.
	mu      sync.Mutex
	project *core.Project
	records *store.RecordStore

	stopCacheCleanup chan struct{}
	shutdownOnce     sync.Once
}

// NewServer wires routes, middleware and session state.
func NewServer(addr string, cfg *config.Config, receiptStore receipts.Store) (*Server, error) {
	templates, err := template.ParseFS(appweb.TemplatesFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}

	s := &Server{
		templates:        templates,
		cfg:              cfg,
		receiptStore:     receiptStore,
		exports:          services.NewExportService(),
		limiter:          ratelimit.NewLimiter(ratelimit.DefaultConfig()),
		stopCacheCleanup: make(chan struct{}),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleIndex)
	mux.HandleFunc("/healthz", s.handleHealth)

	mux.HandleFunc("/project/create", s.handleCreateProject)
	mux.HandleFunc("/project/load", s.handleLoadProject)
	mux.HandleFunc("/project/save", s.handleSaveProject)
	mux.HandleFunc("/project/close", s.handleCloseProject)
	mux.HandleFunc("/project/receipts", s.handleConfigureReceipts)

	mux.HandleFunc("/damages", s.handleDamages)
	mux.HandleFunc("/damages/delete", s.handleDeleteDamage)
	mux.HandleFunc("/overview", s.handleOverview)
	mux.HandleFunc("/taxonomy", s.handleTaxonomy)

	mux.HandleFunc("/export/workbook", s.exportHandler(services.FormatWorkbook))
	mux.HandleFunc("/export/summary", s.exportHandler(services.FormatSummary))
	mux.HandleFunc("/export/csv", s.exportHandler(services.FormatCSV))

	staticFS, err := fs.Sub(appweb.StaticFS, "static")
	if err != nil {
		return nil, fmt.Errorf("static assets: %w", err)
	}
	staticHandler := security.StaticAssetMiddleware(3600)(http.FileServer(http.FS(staticFS)))
	mux.Handle("/static/", http.StripPrefix("/static/", staticHandler))

	tracer := trace.NewMiddleware()
	headers := security.NewHeadersMiddleware(security.DefaultHeadersConfig())
	handler := tracer.Middleware(headers.Middleware(s.limiter.Middleware(mux)))

	s.Server = http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	go s.cacheCleanupLoop()
	return s, nil
}

// Shutdown stops background loops before draining connections.
func (s *Server) Shutdown(ctx context.Context) error {
	s.shutdownOnce.Do(func() {
		close(s.stopCacheCleanup)
		s.limiter.Stop()
	})
	return s.Server.Shutdown(ctx)
}

func (s *Server) cacheCleanupLoop() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			s.exports.Cache().CleanExpired()
		case <-s.stopCacheCleanup:
			return
		}
	}
}

// session returns the active project and its store, or (nil, nil) when no
// project is open.
func (s *Server) session() (*core.Project, *store.RecordStore) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.project, s.records
}

// setSession replaces the active session wholesale (create, load, close).
func (s *Server) setSession(p *core.Project, records *store.RecordStore) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.project = p
	s.records = records
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	_, _ = w.Write([]byte("ok"))
}
