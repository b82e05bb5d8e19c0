package schema

import (
	"net/http"

	handlerutil "github.com/NYCU-SDC/summer/pkg/handler"
	logutil "github.com/NYCU-SDC/summer/pkg/log"
	"github.com/NYCU-SDC/summer/pkg/problem"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

type SectionResponse struct {
	Section  string `json:"section"`
	Title    string `json:"title"`
	ReadOnly bool   `json:"readOnly"`
}

type FieldResponse struct {
	Name       string          `json:"name"`
	Label      string          `json:"label"`
	Kind       string          `json:"kind"`
	Required   bool            `json:"required"`
	MaxLength  int             `json:"maxLength,omitempty"`
	Min        *float64        `json:"min,omitempty"`
	Max        *float64        `json:"max,omitempty"`
	Options    []string        `json:"options,omitempty"`
	Elem       []FieldResponse `json:"elem,omitempty"`
	SplitLines bool            `json:"splitLines,omitempty"`
	Category   string          `json:"category,omitempty"`
	Accept     string          `json:"accept,omitempty"`
}

type SchemaResponse struct {
	Section  string          `json:"section"`
	Title    string          `json:"title"`
	ReadOnly bool            `json:"readOnly"`
	Fields   []FieldResponse `json:"fields"`
}

func ToSchemaResponse(s Schema) SchemaResponse {
	return SchemaResponse{
		Section:  s.Section,
		Title:    s.Title,
		ReadOnly: s.ReadOnly,
		Fields:   toFieldResponses(s.Fields),
	}
}

func toFieldResponses(fields []FieldSpec) []FieldResponse {
	out := make([]FieldResponse, len(fields))
	for i, f := range fields {
		out[i] = FieldResponse{
			Name:       f.Name,
			Label:      f.Label,
			Kind:       string(f.Kind),
			Required:   f.Required,
			MaxLength:  f.MaxLength,
			Min:        f.Min,
			Max:        f.Max,
			Options:    f.Options,
			SplitLines: f.SplitLines,
			Category:   f.Category,
			Accept:     string(f.Accept),
		}
		if len(f.Elem) > 0 {
			out[i].Elem = toFieldResponses(f.Elem)
		}
	}
	return out
}

type Handler struct {
	logger        *zap.Logger
	tracer        trace.Tracer
	problemWriter *problem.HttpWriter

	registry *Registry
}

func NewHandler(logger *zap.Logger, problemWriter *problem.HttpWriter, registry *Registry) *Handler {
	return &Handler{
		logger:        logger,
		tracer:        otel.Tracer("schema/handler"),
		problemWriter: problemWriter,
		registry:      registry,
	}
}

// ListHandler lists every registered section.
func (h *Handler) ListHandler(w http.ResponseWriter, r *http.Request) {
	_, span := h.tracer.Start(r.Context(), "ListHandler")
	defer span.End()

	sections := h.registry.Sections()
	response := make([]SectionResponse, len(sections))
	for i, s := range sections {
		response[i] = SectionResponse{Section: s.Section, Title: s.Title, ReadOnly: s.ReadOnly}
	}

	handlerutil.WriteJSONResponse(w, http.StatusOK, response)
}

// GetHandler returns the full schema for one section.
func (h *Handler) GetHandler(w http.ResponseWriter, r *http.Request) {
	traceCtx, span := h.tracer.Start(r.Context(), "GetHandler")
	defer span.End()
	logger := logutil.WithContext(traceCtx, h.logger)

	section := r.PathValue("section")
	s, err := h.registry.SchemaFor(section)
	if err != nil {
		h.problemWriter.WriteError(traceCtx, w, err, logger)
		return
	}

	handlerutil.WriteJSONResponse(w, http.StatusOK, ToSchemaResponse(s))
}
