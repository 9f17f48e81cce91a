package http

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/Raggahmuff1n/DamageInvoice/internal/core"
	"github.com/Raggahmuff1n/DamageInvoice/internal/report"
)

func (s *Server) handleDamages(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		s.createDamage(w, r)
	case http.MethodGet:
		s.listDamages(w, r)
	default:
		w.Header().Set("Allow", "GET, POST")
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (s *Server) createDamage(w http.ResponseWriter, r *http.Request) {
	p, records := s.session()
	if p == nil {
		errorFragment(w, http.StatusConflict, "No active project")
		return
	}
	if err := r.ParseMultipartForm(s.cfg.MaxUploadBytes); err != nil {
		errorFragment(w, http.StatusBadRequest, "Invalid request format")
		return
	}

	title := sanitizeInput(r.Form.Get("title"))
	if title == "" {
		errorFragment(w, http.StatusUnprocessableEntity, "Please provide a title")
		return
	}

	cents, err := core.ParseDecimalToCents(r.Form.Get("cost"))
	if err != nil {
		errorFragment(w, http.StatusUnprocessableEntity, "Please enter a valid cost")
		return
	}

	date := sanitizeInput(r.Form.Get("date"))
	if err := core.ValidateISODate(date); err != nil {
		errorFragment(w, http.StatusUnprocessableEntity, "Please enter a valid date (YYYY-MM-DD)")
		return
	}

	category := core.NormalizeCategory(
		sanitizeInput(r.Form.Get("category")),
		sanitizeInput(r.Form.Get("subcategory")),
		sanitizeInput(r.Form.Get("custom_category")),
	)

	rec := core.DamageRecord{
		Title:       title,
		Description: sanitizeInput(r.Form.Get("description")),
		Date:        date,
		Category:    category,
		Cost:        core.Money{Cents: cents},
	}

	// Receipt attachment is optional; a failed upload fails the entry so the
	// user never ends up with a record pointing at a file that was not saved.
	if file, header, ferr := r.FormFile("receipt"); ferr == nil {
		defer file.Close()
		storedName, serr := s.receiptStore.Save(r.Context(), header.Filename, file)
		if serr != nil {
			slog.ErrorContext(r.Context(), "Receipt upload failed",
				"error", serr,
				"filename", header.Filename)
			errorFragment(w, http.StatusInternalServerError, "Receipt upload failed")
			return
		}
		rec.Receipt = storedName
		if p.ReceiptBaseLink != "" {
			rec.Link = core.BuildReceiptLink(p.ReceiptBaseLink, storedName)
		}
	} else if !errors.Is(ferr, http.ErrMissingFile) {
		errorFragment(w, http.StatusBadRequest, "Invalid receipt upload")
		return
	}

	if err := rec.Validate(); err != nil {
		errorFragment(w, http.StatusUnprocessableEntity, "Invalid entry: "+err.Error())
		return
	}

	records.Append(rec)

	slog.InfoContext(r.Context(), "Damage entry added",
		"project", p.Name,
		"title", rec.Title,
		"category", rec.Category,
		"cost_cents", rec.Cost.Cents,
		"has_receipt", rec.Receipt != "")

	NewHTMXResponse().
		TriggerNotification(NotificationSuccess, "Entry added: "+rec.Title+" — "+rec.Cost.Format()).
		TriggerFormReset().
		TriggerRefresh().
		Write(w)
}

type damageRow struct {
	Index      int    `json:"index"`
	Date       string `json:"date"`
	Category   string `json:"category"`
	Title      string `json:"title"`
	Cost       string `json:"cost"`
	HasReceipt bool   `json:"has_receipt"`
	Link       string `json:"link,omitempty"`
}

func (s *Server) listDamages(w http.ResponseWriter, _ *http.Request) {
	_, records := s.session()
	if records == nil {
		writeJSON(w, http.StatusConflict, map[string]string{"error": "no active project"})
		return
	}
	all := records.All()
	rows := make([]damageRow, 0, len(all))
	for i, rec := range all {
		rows = append(rows, damageRow{
			Index:      i,
			Date:       rec.Date,
			Category:   rec.Category,
			Title:      rec.Title,
			Cost:       rec.Cost.Format(),
			HasReceipt: rec.Receipt != "",
			Link:       rec.Link,
		})
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"damages": rows})
}

func (s *Server) handleDeleteDamage(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodPost) {
		return
	}
	if err := r.ParseForm(); err != nil {
		errorFragment(w, http.StatusBadRequest, "Invalid request format")
		return
	}
	p, records := s.session()
	if p == nil {
		errorFragment(w, http.StatusConflict, "No active project")
		return
	}

	index, err := strconv.Atoi(r.Form.Get("index"))
	if err != nil {
		errorFragment(w, http.StatusBadRequest, "Invalid entry index")
		return
	}

	// Out-of-range deletes are a quiet no-op, not an error: the entry is
	// already gone as far as the user is concerned.
	removed := records.DeleteAt(index)
	if removed == nil {
		NewHTMXResponse().
			TriggerNotification(NotificationWarning, "Nothing to delete").
			TriggerRefresh().
			Write(w)
		return
	}

	slog.InfoContext(r.Context(), "Damage entry deleted",
		"project", p.Name,
		"index", index,
		"title", removed.Title)

	NewHTMXResponse().
		TriggerNotification(NotificationSuccess, "Deleted: "+removed.Title).
		TriggerRefresh().
		Write(w)
}

type (
	overviewCategory struct {
		Name       string      `json:"name"`
		Count      int         `json:"count"`
		Total      string      `json:"total"`
		Average    string      `json:"average"`
		Percentage string      `json:"percentage"`
		Items      []damageRow `json:"items"`
	}

	overviewResponse struct {
		ProjectName   string             `json:"project_name"`
		Total         string             `json:"total"`
		Count         int                `json:"count"`
		CategoryCount int                `json:"category_count"`
		Average       string             `json:"average"`
		Highest       string             `json:"highest"`
		Lowest        string             `json:"lowest"`
		DateRange     string             `json:"date_range,omitempty"`
		WithReceipts  int                `json:"with_receipts"`
		Missing       int                `json:"missing_receipts"`
		Categories    []overviewCategory `json:"categories"`
	}
)

func (s *Server) handleOverview(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodGet) {
		return
	}
	p, records := s.session()
	if p == nil {
		writeJSON(w, http.StatusConflict, map[string]string{"error": "no active project"})
		return
	}

	sum := report.Aggregate(records.All())
	resp := overviewResponse{
		ProjectName:   p.Name,
		Total:         sum.GrandTotal.Format(),
		Count:         sum.Count,
		CategoryCount: sum.CategoryCount,
		Average:       sum.Mean.Format(),
		Highest:       sum.Max.Format(),
		Lowest:        sum.Min.Format(),
		WithReceipts:  sum.WithReceipt.Count,
		Missing:       sum.Missing.Count,
		Categories:    make([]overviewCategory, 0, len(sum.Categories)),
	}
	if sum.Count > 0 {
		resp.DateRange = sum.FirstDate + " to " + sum.LastDate
	}
	for _, cat := range sum.Categories {
		oc := overviewCategory{
			Name:       cat.Name,
			Count:      cat.Count,
			Total:      cat.Sum.Format(),
			Average:    cat.Mean.Format(),
			Percentage: strconv.FormatFloat(cat.Pct, 'f', 1, 64) + "%",
			Items:      make([]damageRow, 0, len(cat.Records)),
		}
		for _, rec := range cat.Records {
			oc.Items = append(oc.Items, damageRow{
				Date:       rec.Date,
				Title:      rec.Title,
				Cost:       rec.Cost.Format(),
				HasReceipt: rec.Receipt != "",
			})
		}
		resp.Categories = append(resp.Categories, oc)
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleTaxonomy(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodGet) {
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"categories":    core.Categories,
		"subcategories": core.Subcategories,
	})
}
