package http

import (
	"fmt"
	"log/slog"
	"net/http"
)

// exportHandler streams one rendered artifact as a download. When the
// workbook renderer fails the service hands back the CSV fallback; the
// response flags the degrade so the page can tell the user what they got.
func (s *Server) exportHandler(format string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !requireMethod(w, r, http.MethodGet) {
			return
		}
		p, records := s.session()
		if p == nil {
			errorFragment(w, http.StatusConflict, "No active project")
			return
		}

		art, err := s.exports.Export(r.Context(), format, p, records.All(), records.Revision())
		if err != nil {
			slog.ErrorContext(r.Context(), "Export failed",
				"error", err,
				"format", format,
				"project", p.Name)
			errorFragment(w, http.StatusInternalServerError, "Export failed")
			return
		}

		if art.Degraded {
			w.Header().Set("X-Export-Degraded", format)
		}
		w.Header().Set("Content-Type", art.ContentType)
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", art.Filename))
		_, _ = w.Write(art.Data)

		slog.InfoContext(r.Context(), "Export served",
			"format", format,
			"project", p.Name,
			"filename", art.Filename,
			"bytes", len(art.Data),
			"degraded", art.Degraded)
	}
}
