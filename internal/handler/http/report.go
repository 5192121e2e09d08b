package http

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/timesheet-portal-go/internal/domain/report"
	"github.com/cmlabs-hris/timesheet-portal-go/internal/handler/http/response"
	"github.com/cmlabs-hris/timesheet-portal-go/internal/pkg/apiclient"
	"github.com/go-chi/chi/v5"
)

type ReportHandler interface {
	Export(w http.ResponseWriter, r *http.Request)
}

// ReportBackend downloads generated report files
type ReportBackend interface {
	ExportReport(ctx context.Context, ts apiclient.TokenSource, kind report.Kind, format report.Format) (*report.File, error)
}

type reportHandlerImpl struct {
	backend ReportBackend
	tokens  TokenBinder
}

func NewReportHandler(backend ReportBackend, tokens TokenBinder) ReportHandler {
	return &reportHandlerImpl{
		backend: backend,
		tokens:  tokens,
	}
}

// Export streams a backend report as an attachment
func (h *reportHandlerImpl) Export(w http.ResponseWriter, r *http.Request) {
	sess, ok := currentSession(w, r)
	if !ok {
		return
	}

	kind, err := report.ParseKind(chi.URLParam(r, "kind"))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	format, err := report.ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	file, err := h.backend.ExportReport(r.Context(), h.tokens.Tokens(sess), kind, format)
	if err != nil {
		slog.Error("failed to export report", "kind", kind, "format", format, "error", err)
		response.HandleError(w, err)
		return
	}

	response.File(w, file.Filename, file.ContentType, file.Data)
}
