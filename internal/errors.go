package internal

import (
	"errors"
	"fmt"
	"strings"

	"github.com/NYCU-SDC/summer/pkg/problem"
)

// FieldError describes a single field that failed draft validation.
type FieldError struct {
	Field  string
	Reason string
}

func (e FieldError) Error() string {
	return fmt.Sprintf("field %q: %s", e.Field, e.Reason)
}

// ValidationError aggregates every field that blocked a submit. It is raised
// before any backend call is made, so the form stays open and the draft is kept.
type ValidationError struct {
	Fields []FieldError
}

func (e ValidationError) Error() string {
	reasons := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		reasons[i] = f.Error()
	}
	return "draft validation failed: " + strings.Join(reasons, "; ")
}

func (e ValidationError) Is(target error) bool {
	return target == ErrDraftInvalid
}

var (
	// Schema Errors
	ErrUnknownSection       = errors.New("unknown section")
	ErrSectionReadOnly      = errors.New("section does not allow editing")
	ErrUnknownField         = errors.New("unknown field")
	ErrBadFieldValue        = errors.New("field value does not match field kind")
	ErrDuplicateField       = errors.New("duplicate field name in schema")
	ErrDuplicateSection     = errors.New("section registered twice")
	ErrNotArrayField        = errors.New("field is not an array field")
	ErrNotFileField         = errors.New("field is not a file field")
	ErrArrayIndexOutOfRange = errors.New("array element index out of range")
	ErrLastRequiredEntry    = errors.New("cannot remove the last entry of a required list field")

	// Editor Errors
	ErrDraftInvalid      = errors.New("draft validation failed")
	ErrNoActiveSection   = errors.New("no active section selected")
	ErrNoOpenForm        = errors.New("no form is open")
	ErrFormAlreadyOpen   = errors.New("a form is already open")
	ErrNoPendingDelete   = errors.New("no delete confirmation is pending")
	ErrOperationInFlight = errors.New("another operation is still in flight")

	// Record Store Errors
	ErrRecordNotFound     = errors.New("record not found")
	ErrBackendUnavailable = errors.New("content backend unavailable")
	ErrRemoteRejected     = errors.New("content backend rejected the record")

	// Upload Errors. The specific upload failures wrap ErrUploadRejected so
	// callers can match the whole family with a single errors.Is.
	ErrUploadRejected   = errors.New("upload rejected")
	ErrUploadTooLarge   = fmt.Errorf("%w: uploaded file exceeds maximum size", ErrUploadRejected)
	ErrUploadBadType    = fmt.Errorf("%w: uploaded file type is not allowed", ErrUploadRejected)
	ErrUploadBadFormat  = fmt.Errorf("%w: uploaded file content does not match its type", ErrUploadRejected)
	ErrUploadInProgress = errors.New("an upload is already in progress for this field")

	// Session Errors
	ErrSessionNotFound = errors.New("editor session not found")
	ErrSessionNotOwned = errors.New("editor session belongs to another user")

	// Auth Errors
	ErrMissingAuthHeader       = errors.New("missing access token")
	ErrInvalidAuthHeaderFormat = errors.New("invalid access token")
	ErrInvalidToken            = errors.New("invalid JWT token")
	ErrInvalidCredentials      = errors.New("invalid username or password")
	ErrNoUserInContext         = errors.New("no user found in request context")
	ErrPermissionDenied        = errors.New("permission denied")

	// Request Errors
	ErrInvalidRequestBody = errors.New("invalid request body")
	ErrInvalidMultipart   = errors.New("failed to parse multipart form")
)

func NewProblemWriter() *problem.HttpWriter {
	return problem.NewWithMapping(ErrorHandler)
}

func ErrorHandler(err error) problem.Problem {
	var validationErr ValidationError
	if errors.As(err, &validationErr) {
		return problem.NewValidateProblem(validationErr.Error())
	}

	var fieldErr FieldError
	if errors.As(err, &fieldErr) {
		return problem.NewValidateProblem(fieldErr.Error())
	}

	switch {
	// Schema Errors
	case errors.Is(err, ErrUnknownSection):
		return problem.NewNotFoundProblem("unknown section")
	case errors.Is(err, ErrSectionReadOnly):
		return problem.NewValidateProblem("section does not allow editing")
	case errors.Is(err, ErrUnknownField):
		return problem.NewBadRequestProblem("unknown field")
	case errors.Is(err, ErrBadFieldValue):
		return problem.NewValidateProblem("field value does not match field kind")
	case errors.Is(err, ErrNotArrayField):
		return problem.NewBadRequestProblem("field is not an array field")
	case errors.Is(err, ErrNotFileField):
		return problem.NewBadRequestProblem("field is not a file field")
	case errors.Is(err, ErrArrayIndexOutOfRange):
		return problem.NewBadRequestProblem("array element index out of range")
	case errors.Is(err, ErrLastRequiredEntry):
		return problem.NewValidateProblem("cannot remove the last entry of a required list field")

	// Editor Errors
	case errors.Is(err, ErrDraftInvalid):
		return problem.NewValidateProblem("draft validation failed")
	case errors.Is(err, ErrNoActiveSection):
		return problem.NewBadRequestProblem("no active section selected")
	case errors.Is(err, ErrNoOpenForm):
		return problem.NewBadRequestProblem("no form is open")
	case errors.Is(err, ErrFormAlreadyOpen):
		return problem.NewBadRequestProblem("a form is already open")
	case errors.Is(err, ErrNoPendingDelete):
		return problem.NewBadRequestProblem("no delete confirmation is pending")
	case errors.Is(err, ErrOperationInFlight):
		return problem.NewBadRequestProblem("another operation is still in flight")

	// Record Store Errors
	case errors.Is(err, ErrRecordNotFound):
		return problem.NewNotFoundProblem("record not found")
	case errors.Is(err, ErrBackendUnavailable):
		return problem.NewInternalServerProblem("content backend unavailable")
	case errors.Is(err, ErrRemoteRejected):
		return problem.NewValidateProblem("content backend rejected the record")

	// Upload Errors
	case errors.Is(err, ErrUploadTooLarge):
		return problem.NewValidateProblem("uploaded file exceeds maximum size")
	case errors.Is(err, ErrUploadBadType):
		return problem.NewValidateProblem("uploaded file type is not allowed")
	case errors.Is(err, ErrUploadBadFormat):
		return problem.NewValidateProblem("uploaded file content does not match its type")
	case errors.Is(err, ErrUploadInProgress):
		return problem.NewValidateProblem("an upload is already in progress for this field")
	case errors.Is(err, ErrUploadRejected):
		return problem.NewValidateProblem("upload rejected")

	// Session Errors
	case errors.Is(err, ErrSessionNotFound):
		return problem.NewNotFoundProblem("editor session not found")
	case errors.Is(err, ErrSessionNotOwned):
		return problem.NewForbiddenProblem("editor session belongs to another user")

	// Auth Errors
	case errors.Is(err, ErrMissingAuthHeader):
		return problem.NewUnauthorizedProblem("missing access token")
	case errors.Is(err, ErrInvalidAuthHeaderFormat):
		return problem.NewUnauthorizedProblem("invalid access token")
	case errors.Is(err, ErrInvalidToken):
		return problem.NewUnauthorizedProblem("invalid JWT token")
	case errors.Is(err, ErrInvalidCredentials):
		return problem.NewUnauthorizedProblem("invalid username or password")
	case errors.Is(err, ErrNoUserInContext):
		return problem.NewUnauthorizedProblem("no user found in request context")
	case errors.Is(err, ErrPermissionDenied):
		return problem.NewForbiddenProblem("permission denied")

	// Request Errors
	case errors.Is(err, ErrInvalidRequestBody):
		return problem.NewBadRequestProblem("invalid request body")
	case errors.Is(err, ErrInvalidMultipart):
		return problem.NewBadRequestProblem("failed to parse multipart form")
	}
	return problem.Problem{}
}
