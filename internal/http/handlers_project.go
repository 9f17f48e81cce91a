package http

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/Raggahmuff1n/DamageInvoice/internal/core"
	"github.com/Raggahmuff1n/DamageInvoice/internal/report"
	"github.com/Raggahmuff1n/DamageInvoice/internal/snapshot"
	"github.com/Raggahmuff1n/DamageInvoice/internal/store"
)

// indexData feeds the single form page template.
type indexData struct {
	Active          bool
	ProjectName     string
	CreatedAt       string
	ReceiptBaseLink string
	EntryCount      int
	Total           string
	Categories      []string
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	if !requireMethod(w, r, http.MethodGet) {
		return
	}

	data := indexData{
		Categories: core.Categories,
	}
	if p, records := s.session(); p != nil {
		sum := report.Aggregate(records.All())
		data.Active = true
		data.ProjectName = p.Name
		data.CreatedAt = p.CreatedAt
		data.ReceiptBaseLink = p.ReceiptBaseLink
		data.EntryCount = sum.Count
		data.Total = sum.GrandTotal.Format()
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.templates.ExecuteTemplate(w, "index.html", data); err != nil {
		slog.ErrorContext(r.Context(), "Render index failed", "error", err)
	}
}

func (s *Server) handleCreateProject(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodPost) {
		return
	}
	if err := r.ParseForm(); err != nil {
		errorFragment(w, http.StatusBadRequest, "Invalid request format")
		return
	}

	name := sanitizeInput(r.Form.Get("name"))
	p, err := core.NewProject(name, time.Now())
	if err != nil {
		errorFragment(w, http.StatusUnprocessableEntity, "Please enter a project name")
		return
	}
	p.ReceiptBaseLink = s.cfg.ReceiptBaseLink
	s.setSession(p, store.New())

	slog.InfoContext(r.Context(), "Project created",
		"project", p.Name,
		"created_at", p.CreatedAt)

	NewHTMXResponse().
		TriggerNotification(NotificationSuccess, "Project created: "+p.Name).
		TriggerRefresh().
		Write(w)
}

func (s *Server) handleLoadProject(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodPost) {
		return
	}
	if err := r.ParseMultipartForm(s.cfg.MaxUploadBytes); err != nil {
		errorFragment(w, http.StatusBadRequest, "Invalid upload")
		return
	}
	file, header, err := r.FormFile("project_file")
	if err != nil {
		errorFragment(w, http.StatusBadRequest, "Missing project file")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, s.cfg.MaxUploadBytes))
	if err != nil {
		errorFragment(w, http.StatusBadRequest, "Could not read project file")
		return
	}

	p, err := snapshot.Decode(data)
	if err != nil {
		// Loading never touches the active project; the user keeps whatever
		// state they had before the bad upload.
		var loadErr *snapshot.LoadError
		msg := "Error loading project"
		if errors.As(err, &loadErr) {
			msg = "Error loading project: " + loadErr.Reason
		}
		slog.WarnContext(r.Context(), "Snapshot rejected",
			"error", err,
			"filename", header.Filename)
		errorFragment(w, http.StatusUnprocessableEntity, msg)
		return
	}

	s.setSession(p, store.NewFromRecords(p.Records))

	slog.InfoContext(r.Context(), "Project loaded",
		"project", p.Name,
		"records", len(p.Records),
		"filename", header.Filename)

	NewHTMXResponse().
		TriggerNotification(NotificationSuccess, "Project loaded: "+p.Name).
		TriggerRefresh().
		Write(w)
}

func (s *Server) handleSaveProject(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodGet) {
		return
	}
	p, records := s.session()
	if p == nil {
		errorFragment(w, http.StatusConflict, "No active project")
		return
	}

	// Snapshot the full current state; saves are never partial.
	p.Records = records.All()
	now := time.Now()
	data, err := snapshot.Encode(p, now)
	if err != nil {
		slog.ErrorContext(r.Context(), "Snapshot encode failed", "error", err, "project", p.Name)
		errorFragment(w, http.StatusInternalServerError, "Could not save project")
		return
	}

	filename := report.SnapshotFilename(p.SafeName(), now)
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	_, _ = w.Write(data)
}

func (s *Server) handleCloseProject(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodPost) {
		return
	}
	s.setSession(nil, nil)
	NewHTMXResponse().
		TriggerNotification(NotificationSuccess, "Project closed").
		TriggerRefresh().
		Write(w)
}

func (s *Server) handleConfigureReceipts(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodPost) {
		return
	}
	if err := r.ParseForm(); err != nil {
		errorFragment(w, http.StatusBadRequest, "Invalid request format")
		return
	}
	p, _ := s.session()
	if p == nil {
		errorFragment(w, http.StatusConflict, "No active project")
		return
	}

	s.mu.Lock()
	s.project.ReceiptBaseLink = sanitizeInput(r.Form.Get("base_link"))
	s.mu.Unlock()

	NewHTMXResponse().
		TriggerNotification(NotificationSuccess, "Receipt location saved").
		TriggerRefresh().
		Write(w)
}
