package handlers

import (
	"bytes"
	stderrors "errors"
	"io/fs"
	"log/slog"
	"mime"
	"net/http"
	"os"

	"royalpalm-dashboard/internal/errors"
	"royalpalm-dashboard/internal/observability"
	"royalpalm-dashboard/internal/services"
)

const (
	CSVFilename    = "filtered_portfolio.csv"
	ReportFilename = "UMeRA_RoyalPalm_Analytics_Report.docx"
	ReportMIME     = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
)

type DownloadHandlers struct {
	api        *APIHandlers
	reportPath string
	logger     *slog.Logger
}

func NewDownloadHandlers(analytics *services.Analytics, reportPath string, logger *slog.Logger) *DownloadHandlers {
	return &DownloadHandlers{
		api:        NewAPIHandlers(analytics, logger),
		reportPath: reportPath,
		logger:     logger,
	}
}

// HandleCSV streams the filtered dataset as an attachment.
func (h *DownloadHandlers) HandleCSV(w http.ResponseWriter, r *http.Request) {
	sel, ok := h.api.selection(w, r)
	if !ok {
		return
	}

	var buf bytes.Buffer
	if err := h.api.analytics.ExportCSV(&buf, sel); err != nil {
		errors.WriteError(w, h.logger, errors.InternalWrap(err, "Failed to export CSV"), observability.GetRequestID(r.Context()))
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": CSVFilename}))
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}

// HandleReport passes the prepared report file through unmodified.
func (h *DownloadHandlers) HandleReport(w http.ResponseWriter, r *http.Request) {
	requestID := observability.GetRequestID(r.Context())

	f, err := os.Open(h.reportPath)
	if err != nil {
		if stderrors.Is(err, fs.ErrNotExist) {
			errors.WriteError(w, h.logger, errors.NotFoundWrap(err, "Report is not available"), requestID)
			return
		}
		errors.WriteError(w, h.logger, errors.InternalWrap(err, "Failed to open report"), requestID)
		return
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		errors.WriteError(w, h.logger, errors.InternalWrap(err, "Failed to read report"), requestID)
		return
	}

	w.Header().Set("Content-Type", ReportMIME)
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": ReportFilename}))
	http.ServeContent(w, r, ReportFilename, info.ModTime(), f)
}
