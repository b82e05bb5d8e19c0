package export

import (
	"fmt"
	"net/http"

	logutil "github.com/NYCU-SDC/summer/pkg/log"
	"github.com/NYCU-SDC/summer/pkg/problem"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

type Handler struct {
	logger *zap.Logger
	tracer trace.Tracer

	problemWriter *problem.HttpWriter
	service       *Service
}

func NewHandler(logger *zap.Logger, problemWriter *problem.HttpWriter, service *Service) *Handler {
	return &Handler{
		logger:        logger,
		tracer:        otel.Tracer("export/handler"),
		problemWriter: problemWriter,
		service:       service,
	}
}

// DownloadHandler streams a section's records as an xlsx attachment.
func (h *Handler) DownloadHandler(w http.ResponseWriter, r *http.Request) {
	traceCtx, span := h.tracer.Start(r.Context(), "DownloadHandler")
	defer span.End()
	logger := logutil.WithContext(traceCtx, h.logger)

	section := r.PathValue("section")

	f, filename, err := h.service.Workbook(traceCtx, section)
	if err != nil {
		h.problemWriter.WriteError(traceCtx, w, err, logger)
		return
	}
	defer func() {
		if err := f.Close(); err != nil {
			logger.Warn("failed to close workbook", zap.Error(err))
		}
	}()

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))

	if err := f.Write(w); err != nil {
		logger.Error("Failed to write workbook to response", zap.Error(err))
	}
}
