// Package services orchestrates operations that span the record store, the
// report renderers and the receipt backends.
package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/Raggahmuff1n/DamageInvoice/internal/cache"
	"github.com/Raggahmuff1n/DamageInvoice/internal/core"
	"github.com/Raggahmuff1n/DamageInvoice/internal/report"
)

// Export formats.
const (
	FormatWorkbook = "workbook"
	FormatSummary  = "summary"
	FormatCSV      = "csv"
)

// Artifact is one rendered export ready to stream to the browser.
type Artifact struct {
	Filename    string
	ContentType string
	Data        []byte
	// Degraded is set when the requested format failed to render and the
	// caller got the CSV fallback instead.
	Degraded bool
}

// ExportService renders export artifacts and caches them per store revision,
// so repeated download clicks on unchanged data do not re-render.
type ExportService struct {
	cache *cache.LRUCache[Artifact]
	now   func() time.Time
}

func NewExportService() *ExportService {
	return &ExportService{
		cache: cache.NewLRUCache[Artifact](16, 5*time.Minute),
		now:   time.Now,
	}
}

// Cache exposes the artifact cache for cleanup registration.
func (s *ExportService) Cache() *cache.LRUCache[Artifact] {
	return s.cache
}

// Export renders the requested format for the project. A workbook render
// failure degrades to CSV rather than failing the download; only when the
// CSV fallback also fails does the caller see an error.
func (s *ExportService) Export(ctx context.Context, format string, p *core.Project, records []core.DamageRecord, revision uint64) (Artifact, error) {
	key := fmt.Sprintf("%s:%s:%d", format, p.SafeName(), revision)
	if art, ok := s.cache.Get(key); ok {
		return art, nil
	}

	art, err := s.render(ctx, format, p, records)
	if err != nil {
		return Artifact{}, err
	}
	s.cache.Set(key, art)
	return art, nil
}

func (s *ExportService) render(ctx context.Context, format string, p *core.Project, records []core.DamageRecord) (Artifact, error) {
	safe := p.SafeName()
	switch format {
	case FormatWorkbook:
		data, err := report.RenderWorkbook(records, p.Name, p.ReceiptBaseLink, s.now())
		if err == nil {
			return Artifact{
				Filename:    report.WorkbookFilename(safe),
				ContentType: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
				Data:        data,
			}, nil
		}
		slog.ErrorContext(ctx, "Workbook render failed, falling back to CSV",
			"error", err,
			"project", p.Name,
			"records", len(records))
		csvData, csvErr := report.RenderCSV(records)
		if csvErr != nil {
			return Artifact{}, fmt.Errorf("render workbook: %w (csv fallback also failed: %v)", err, csvErr)
		}
		return Artifact{
			Filename:    report.DataFilename(safe),
			ContentType: "text/csv",
			Data:        csvData,
			Degraded:    true,
		}, nil

	case FormatSummary:
		return Artifact{
			Filename:    report.SummaryFilename(safe),
			ContentType: "text/plain; charset=utf-8",
			Data:        report.RenderTextSummary(records, p.Name, p.ReceiptBaseLink, s.now()),
		}, nil

	case FormatCSV:
		data, err := report.RenderCSV(records)
		if err != nil {
			return Artifact{}, fmt.Errorf("render csv: %w", err)
		}
		return Artifact{
			Filename:    report.DataFilename(safe),
			ContentType: "text/csv",
			Data:        data,
		}, nil
	}
	return Artifact{}, fmt.Errorf("unknown export format %q", format)
}
