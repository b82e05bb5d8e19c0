package session

import (
	"net/http"

	"instituteweb/admin-console/internal"
	"instituteweb/admin-console/internal/editor"
	"instituteweb/admin-console/internal/upload"
	"instituteweb/admin-console/internal/view"

	handlerutil "github.com/NYCU-SDC/summer/pkg/handler"
	logutil "github.com/NYCU-SDC/summer/pkg/log"
	"github.com/NYCU-SDC/summer/pkg/problem"
	"github.com/go-playground/validator/v10"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// maxUploadBytes caps the request body accepted by the upload endpoint. The
// gateway applies its own per-file limit behind this.
const maxUploadBytes int64 = 12 << 20

type SessionResponse struct {
	ID string `json:"id"`
}

type SelectSectionRequest struct {
	Section string `json:"section" validate:"required,section"`
}

type OpenFormRequest struct {
	Mode     string `json:"mode" validate:"required,oneof=create edit"`
	RecordID string `json:"recordId" validate:"required_if=Mode edit"`
}

// FieldEventRequest carries exactly one field-change event.
type FieldEventRequest struct {
	Op    string `json:"op" validate:"required,oneof=set append_entry remove_entry set_entry"`
	Field string `json:"field" validate:"required,field_name"`
	Index *int   `json:"index"`
	Sub   string `json:"sub"`
	Value any    `json:"value"`
}

type DeleteRequest struct {
	RecordID string `json:"recordId" validate:"required"`
}

type SnapshotResponse struct {
	State        string             `json:"state"`
	Section      string             `json:"section,omitempty"`
	List         *view.ListView     `json:"list,omitempty"`
	Form         *view.FormView     `json:"form,omitempty"`
	Confirmation *view.Confirmation `json:"confirmation,omitempty"`
	Notices      []editor.Notice    `json:"notices"`
}

func toSnapshotResponse(snap editor.Snapshot, notices []editor.Notice) SnapshotResponse {
	if notices == nil {
		notices = []editor.Notice{}
	}

	resp := SnapshotResponse{
		State:   string(snap.State),
		Notices: notices,
	}

	if snap.HasSection {
		resp.Section = snap.Section.Section
		list := view.RenderList(snap.Section, snap.Records)
		resp.List = &list
	}
	if snap.Draft != nil {
		form := view.RenderForm(snap.Section, snap.Mode, snap.Draft)
		resp.Form = &form
	}
	if snap.DeleteTarget != nil {
		confirm := view.RenderConfirmation(snap.Section, *snap.DeleteTarget)
		resp.Confirmation = &confirm
	}

	return resp
}

type Handler struct {
	logger *zap.Logger
	tracer trace.Tracer

	validator     *validator.Validate
	problemWriter *problem.HttpWriter

	manager *Manager
}

func NewHandler(
	logger *zap.Logger,
	validator *validator.Validate,
	problemWriter *problem.HttpWriter,
	manager *Manager,
) *Handler {
	return &Handler{
		logger:        logger,
		tracer:        otel.Tracer("session/handler"),
		validator:     validator,
		problemWriter: problemWriter,
		manager:       manager,
	}
}

func (h *Handler) CreateHandler(w http.ResponseWriter, r *http.Request) {
	traceCtx, span := h.tracer.Start(r.Context(), "CreateHandler")
	defer span.End()
	logger := logutil.WithContext(traceCtx, h.logger)

	user, ok := internal.GetUserFromContext(traceCtx)
	if !ok {
		h.problemWriter.WriteError(traceCtx, w, internal.ErrNoUserInContext, logger)
		return
	}

	s := h.manager.Open(traceCtx, user.GetUsername())
	handlerutil.WriteJSONResponse(w, http.StatusCreated, SessionResponse{ID: s.ID.String()})
}

func (h *Handler) CloseHandler(w http.ResponseWriter, r *http.Request) {
	traceCtx, span := h.tracer.Start(r.Context(), "CloseHandler")
	defer span.End()
	logger := logutil.WithContext(traceCtx, h.logger)

	user, ok := internal.GetUserFromContext(traceCtx)
	if !ok {
		h.problemWriter.WriteError(traceCtx, w, internal.ErrNoUserInContext, logger)
		return
	}

	id, err := handlerutil.ParseUUID(r.PathValue("id"))
	if err != nil {
		h.problemWriter.WriteError(traceCtx, w, err, logger)
		return
	}

	if err := h.manager.Close(traceCtx, id, user.GetUsername()); err != nil {
		h.problemWriter.WriteError(traceCtx, w, err, logger)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) SnapshotHandler(w http.ResponseWriter, r *http.Request) {
	traceCtx, span := h.tracer.Start(r.Context(), "SnapshotHandler")
	defer span.End()
	logger := logutil.WithContext(traceCtx, h.logger)

	s, err := h.resolve(r)
	if err != nil {
		h.problemWriter.WriteError(traceCtx, w, err, logger)
		return
	}

	h.writeSnapshot(w, s)
}

func (h *Handler) SelectSectionHandler(w http.ResponseWriter, r *http.Request) {
	traceCtx, span := h.tracer.Start(r.Context(), "SelectSectionHandler")
	defer span.End()
	logger := logutil.WithContext(traceCtx, h.logger)

	s, err := h.resolve(r)
	if err != nil {
		h.problemWriter.WriteError(traceCtx, w, err, logger)
		return
	}

	var req SelectSectionRequest
	if err := handlerutil.ParseAndValidateRequestBody(traceCtx, h.validator, r, &req); err != nil {
		h.problemWriter.WriteError(traceCtx, w, err, logger)
		return
	}

	if err := s.Controller.SelectSection(traceCtx, req.Section); err != nil {
		h.problemWriter.WriteError(traceCtx, w, err, logger)
		return
	}

	h.writeSnapshot(w, s)
}

func (h *Handler) OpenFormHandler(w http.ResponseWriter, r *http.Request) {
	traceCtx, span := h.tracer.Start(r.Context(), "OpenFormHandler")
	defer span.End()
	logger := logutil.WithContext(traceCtx, h.logger)

	s, err := h.resolve(r)
	if err != nil {
		h.problemWriter.WriteError(traceCtx, w, err, logger)
		return
	}

	var req OpenFormRequest
	if err := handlerutil.ParseAndValidateRequestBody(traceCtx, h.validator, r, &req); err != nil {
		h.problemWriter.WriteError(traceCtx, w, err, logger)
		return
	}

	if req.Mode == "edit" {
		err = s.Controller.OpenEdit(req.RecordID)
	} else {
		err = s.Controller.OpenCreate()
	}
	if err != nil {
		h.problemWriter.WriteError(traceCtx, w, err, logger)
		return
	}

	h.writeSnapshot(w, s)
}

func (h *Handler) FieldEventHandler(w http.ResponseWriter, r *http.Request) {
	traceCtx, span := h.tracer.Start(r.Context(), "FieldEventHandler")
	defer span.End()
	logger := logutil.WithContext(traceCtx, h.logger)

	s, err := h.resolve(r)
	if err != nil {
		h.problemWriter.WriteError(traceCtx, w, err, logger)
		return
	}

	var req FieldEventRequest
	if err := handlerutil.ParseAndValidateRequestBody(traceCtx, h.validator, r, &req); err != nil {
		h.problemWriter.WriteError(traceCtx, w, err, logger)
		return
	}

	switch req.Op {
	case "set":
		err = s.Controller.SetField(req.Field, req.Value)
	case "append_entry":
		err = s.Controller.AppendArrayItem(req.Field)
	case "remove_entry":
		if req.Index == nil {
			err = internal.ErrInvalidRequestBody
			break
		}
		err = s.Controller.RemoveArrayItem(req.Field, *req.Index)
	case "set_entry":
		if req.Index == nil || req.Sub == "" {
			err = internal.ErrInvalidRequestBody
			break
		}
		err = s.Controller.SetArrayField(req.Field, *req.Index, req.Sub, req.Value)
	}
	if err != nil {
		h.problemWriter.WriteError(traceCtx, w, err, logger)
		return
	}

	h.writeSnapshot(w, s)
}

func (h *Handler) UploadHandler(w http.ResponseWriter, r *http.Request) {
	traceCtx, span := h.tracer.Start(r.Context(), "UploadHandler")
	defer span.End()
	logger := logutil.WithContext(traceCtx, h.logger)

	s, err := h.resolve(r)
	if err != nil {
		h.problemWriter.WriteError(traceCtx, w, err, logger)
		return
	}

	field := r.PathValue("field")

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		h.problemWriter.WriteError(traceCtx, w, internal.ErrInvalidMultipart, logger)
		return
	}

	fileData, header, err := r.FormFile("file")
	if err != nil {
		h.problemWriter.WriteError(traceCtx, w, internal.ErrInvalidMultipart, logger)
		return
	}
	defer func() {
		if err := fileData.Close(); err != nil {
			logger.Warn("failed to close uploaded file",
				zap.String("field", field),
				zap.Error(err),
			)
		}
	}()

	in := upload.Upload{
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Content:     fileData,
	}

	if err := s.Controller.UploadField(traceCtx, field, in); err != nil {
		h.problemWriter.WriteError(traceCtx, w, err, logger)
		return
	}

	h.writeSnapshot(w, s)
}

func (h *Handler) SubmitHandler(w http.ResponseWriter, r *http.Request) {
	traceCtx, span := h.tracer.Start(r.Context(), "SubmitHandler")
	defer span.End()
	logger := logutil.WithContext(traceCtx, h.logger)

	s, err := h.resolve(r)
	if err != nil {
		h.problemWriter.WriteError(traceCtx, w, err, logger)
		return
	}

	if err := s.Controller.Submit(traceCtx); err != nil {
		h.problemWriter.WriteError(traceCtx, w, err, logger)
		return
	}

	h.writeSnapshot(w, s)
}

func (h *Handler) CancelFormHandler(w http.ResponseWriter, r *http.Request) {
	traceCtx, span := h.tracer.Start(r.Context(), "CancelFormHandler")
	defer span.End()
	logger := logutil.WithContext(traceCtx, h.logger)

	s, err := h.resolve(r)
	if err != nil {
		h.problemWriter.WriteError(traceCtx, w, err, logger)
		return
	}

	if err := s.Controller.Cancel(); err != nil {
		h.problemWriter.WriteError(traceCtx, w, err, logger)
		return
	}

	h.writeSnapshot(w, s)
}

func (h *Handler) RequestDeleteHandler(w http.ResponseWriter, r *http.Request) {
	traceCtx, span := h.tracer.Start(r.Context(), "RequestDeleteHandler")
	defer span.End()
	logger := logutil.WithContext(traceCtx, h.logger)

	s, err := h.resolve(r)
	if err != nil {
		h.problemWriter.WriteError(traceCtx, w, err, logger)
		return
	}

	var req DeleteRequest
	if err := handlerutil.ParseAndValidateRequestBody(traceCtx, h.validator, r, &req); err != nil {
		h.problemWriter.WriteError(traceCtx, w, err, logger)
		return
	}

	if err := s.Controller.RequestDelete(req.RecordID); err != nil {
		h.problemWriter.WriteError(traceCtx, w, err, logger)
		return
	}

	h.writeSnapshot(w, s)
}

func (h *Handler) ConfirmDeleteHandler(w http.ResponseWriter, r *http.Request) {
	traceCtx, span := h.tracer.Start(r.Context(), "ConfirmDeleteHandler")
	defer span.End()
	logger := logutil.WithContext(traceCtx, h.logger)

	s, err := h.resolve(r)
	if err != nil {
		h.problemWriter.WriteError(traceCtx, w, err, logger)
		return
	}

	if err := s.Controller.ConfirmDelete(traceCtx); err != nil {
		h.problemWriter.WriteError(traceCtx, w, err, logger)
		return
	}

	h.writeSnapshot(w, s)
}

func (h *Handler) CancelDeleteHandler(w http.ResponseWriter, r *http.Request) {
	traceCtx, span := h.tracer.Start(r.Context(), "CancelDeleteHandler")
	defer span.End()
	logger := logutil.WithContext(traceCtx, h.logger)

	s, err := h.resolve(r)
	if err != nil {
		h.problemWriter.WriteError(traceCtx, w, err, logger)
		return
	}

	if err := s.Controller.CancelDelete(); err != nil {
		h.problemWriter.WriteError(traceCtx, w, err, logger)
		return
	}

	h.writeSnapshot(w, s)
}

func (h *Handler) resolve(r *http.Request) (*Session, error) {
	user, ok := internal.GetUserFromContext(r.Context())
	if !ok {
		return nil, internal.ErrNoUserInContext
	}

	id, err := handlerutil.ParseUUID(r.PathValue("id"))
	if err != nil {
		return nil, err
	}

	return h.manager.Get(id, user.GetUsername())
}

func (h *Handler) writeSnapshot(w http.ResponseWriter, s *Session) {
	snap := s.Controller.Snapshot()
	notices := s.Controller.DrainNotices()
	handlerutil.WriteJSONResponse(w, http.StatusOK, toSnapshotResponse(snap, notices))
}
