package auth

import (
	"context"
	"net/http"
	"strings"

	"instituteweb/admin-console/internal"

	logutil "github.com/NYCU-SDC/summer/pkg/log"
	"github.com/NYCU-SDC/summer/pkg/problem"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

type Middleware struct {
	logger        *zap.Logger
	tracer        trace.Tracer
	problemWriter *problem.HttpWriter
	service       *Service
}

func NewMiddleware(logger *zap.Logger, problemWriter *problem.HttpWriter, service *Service) *Middleware {
	return &Middleware{
		logger:        logger,
		tracer:        otel.Tracer("auth/middleware"),
		problemWriter: problemWriter,
		service:       service,
	}
}

// AuthenticateMiddleware verifies the bearer token and stores the staff
// identity in the request context.
func (m *Middleware) AuthenticateMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		traceCtx, span := m.tracer.Start(r.Context(), "AuthenticateMiddleware")
		defer span.End()
		logger := logutil.WithContext(traceCtx, m.logger)

		header := r.Header.Get("Authorization")
		if header == "" {
			m.problemWriter.WriteError(traceCtx, w, internal.ErrMissingAuthHeader, logger)
			return
		}

		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			m.problemWriter.WriteError(traceCtx, w, internal.ErrInvalidAuthHeaderFormat, logger)
			return
		}

		staff, err := m.service.Parse(traceCtx, token)
		if err != nil {
			m.problemWriter.WriteError(traceCtx, w, err, logger)
			return
		}

		ctx := context.WithValue(traceCtx, internal.UserContextKey, staff)
		next(w, r.WithContext(ctx))
	}
}

// RequireRoleMiddleware restricts an endpoint to one staff role.
func (m *Middleware) RequireRoleMiddleware(role string) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			traceCtx, span := m.tracer.Start(r.Context(), "RequireRoleMiddleware")
			defer span.End()
			logger := logutil.WithContext(traceCtx, m.logger)

			user, ok := internal.GetUserFromContext(traceCtx)
			if !ok {
				m.problemWriter.WriteError(traceCtx, w, internal.ErrNoUserInContext, logger)
				return
			}

			if user.GetRole() != role {
				logger.Warn("permission denied",
					zap.String("username", user.GetUsername()),
					zap.String("role", user.GetRole()),
					zap.String("required", role),
					zap.String("path", r.URL.Path),
				)
				m.problemWriter.WriteError(traceCtx, w, internal.ErrPermissionDenied, logger)
				return
			}

			next(w, r)
		}
	}
}
