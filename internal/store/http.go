package store

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"instituteweb/admin-console/internal"
	"instituteweb/admin-console/internal/record"

	logutil "github.com/NYCU-SDC/summer/pkg/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// HTTPStore speaks JSON REST to the institute content backend.
type HTTPStore struct {
	logger  *zap.Logger
	tracer  trace.Tracer
	client  *http.Client
	baseURL string
	token   string
}

func NewHTTPStore(logger *zap.Logger, baseURL, token string, timeout time.Duration) *HTTPStore {
	return &HTTPStore{
		logger:  logger,
		tracer:  otel.Tracer("store/http"),
		client:  &http.Client{Timeout: timeout},
		baseURL: baseURL,
		token:   token,
	}
}

// rejectionPayload is the backend's validation failure body.
type rejectionPayload struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

func (s *HTTPStore) List(ctx context.Context, section string) ([]record.Record, error) {
	ctx, span := s.tracer.Start(ctx, "List")
	defer span.End()
	logger := logutil.WithContext(ctx, s.logger)

	var records []record.Record
	err := s.do(ctx, http.MethodGet, "/api/content/"+section, nil, &records)
	if err != nil {
		logger.Warn("Failed to list records", zap.String("section", section), zap.Error(err))
		span.RecordError(err)
		return nil, err
	}

	return records, nil
}

func (s *HTTPStore) Create(ctx context.Context, section string, fields map[string]any) (record.Record, error) {
	ctx, span := s.tracer.Start(ctx, "Create")
	defer span.End()
	logger := logutil.WithContext(ctx, s.logger)

	var created record.Record
	err := s.do(ctx, http.MethodPost, "/api/content/"+section, map[string]any{"fields": fields}, &created)
	if err != nil {
		logger.Warn("Failed to create record", zap.String("section", section), zap.Error(err))
		span.RecordError(err)
		return record.Record{}, err
	}

	logger.Info("Record created", zap.String("section", section), zap.String("record_id", created.ID))
	return created, nil
}

func (s *HTTPStore) Update(ctx context.Context, section string, id string, fields map[string]any) (record.Record, error) {
	ctx, span := s.tracer.Start(ctx, "Update")
	defer span.End()
	logger := logutil.WithContext(ctx, s.logger)

	var updated record.Record
	err := s.do(ctx, http.MethodPut, "/api/content/"+section+"/"+id, map[string]any{"fields": fields}, &updated)
	if err != nil {
		logger.Warn("Failed to update record", zap.String("section", section), zap.String("record_id", id), zap.Error(err))
		span.RecordError(err)
		return record.Record{}, err
	}

	logger.Info("Record updated", zap.String("section", section), zap.String("record_id", id))
	return updated, nil
}

func (s *HTTPStore) Delete(ctx context.Context, section string, id string) error {
	ctx, span := s.tracer.Start(ctx, "Delete")
	defer span.End()
	logger := logutil.WithContext(ctx, s.logger)

	err := s.do(ctx, http.MethodDelete, "/api/content/"+section+"/"+id, nil, nil)
	if err != nil {
		logger.Warn("Failed to delete record", zap.String("section", section), zap.String("record_id", id), zap.Error(err))
		span.RecordError(err)
		return err
	}

	logger.Info("Record deleted", zap.String("section", section), zap.String("record_id", id))
	return nil
}

func (s *HTTPStore) do(ctx context.Context, method, path string, body any, out any) error {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request body: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, s.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if s.token != "" {
		req.Header.Set("Authorization", "Bearer "+s.token)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", internal.ErrBackendUnavailable, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		if out == nil {
			return nil
		}
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("%w: malformed response: %v", internal.ErrBackendUnavailable, err)
		}
		return nil
	case resp.StatusCode == http.StatusNotFound:
		return fmt.Errorf("%w: %s %s", internal.ErrRecordNotFound, method, path)
	case resp.StatusCode == http.StatusBadRequest || resp.StatusCode == http.StatusUnprocessableEntity:
		var rejection rejectionPayload
		if err := json.NewDecoder(resp.Body).Decode(&rejection); err == nil && rejection.Field != "" {
			return internal.ValidationError{Fields: []internal.FieldError{{
				Field:  rejection.Field,
				Reason: rejection.Reason,
			}}}
		}
		return fmt.Errorf("%w: status %d", internal.ErrRemoteRejected, resp.StatusCode)
	default:
		return fmt.Errorf("%w: status %d", internal.ErrBackendUnavailable, resp.StatusCode)
	}
}
