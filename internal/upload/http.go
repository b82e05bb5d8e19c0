package upload

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"time"

	"instituteweb/admin-console/internal"

	logutil "github.com/NYCU-SDC/summer/pkg/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// HTTPGateway posts validated uploads to the backend as multipart form data.
type HTTPGateway struct {
	logger  *zap.Logger
	tracer  trace.Tracer
	client  *http.Client
	baseURL string
	token   string
}

func NewHTTPGateway(logger *zap.Logger, baseURL, token string, timeout time.Duration) *HTTPGateway {
	return &HTTPGateway{
		logger:  logger,
		tracer:  otel.Tracer("upload/http"),
		client:  &http.Client{Timeout: timeout},
		baseURL: baseURL,
		token:   token,
	}
}

func (g *HTTPGateway) Send(ctx context.Context, in Upload, opts ...Option) (AssetRef, error) {
	ctx, span := g.tracer.Start(ctx, "Send")
	defer span.End()
	logger := logutil.WithContext(ctx, g.logger)

	data, err := Validate(in, opts...)
	if err != nil {
		logger.Warn("Upload validation failed",
			zap.String("filename", in.Filename),
			zap.String("category", in.Category),
			zap.Error(err),
		)
		span.RecordError(err)
		return AssetRef{}, err
	}

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("file", in.Filename)
	if err != nil {
		return AssetRef{}, fmt.Errorf("%w: build multipart body: %v", internal.ErrUploadRejected, err)
	}
	if _, err := part.Write(data); err != nil {
		return AssetRef{}, fmt.Errorf("%w: build multipart body: %v", internal.ErrUploadRejected, err)
	}
	if err := writer.Close(); err != nil {
		return AssetRef{}, fmt.Errorf("%w: build multipart body: %v", internal.ErrUploadRejected, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+"/api/uploads/"+in.Category, &body)
	if err != nil {
		return AssetRef{}, fmt.Errorf("%w: build request: %v", internal.ErrUploadRejected, err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	if g.token != "" {
		req.Header.Set("Authorization", "Bearer "+g.token)
	}

	resp, err := g.client.Do(req)
	if err != nil {
		err = fmt.Errorf("%w: %v", internal.ErrUploadRejected, err)
		span.RecordError(err)
		return AssetRef{}, err
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		err = fmt.Errorf("%w: status %d", internal.ErrUploadRejected, resp.StatusCode)
		span.RecordError(err)
		return AssetRef{}, err
	}

	var ref AssetRef
	if err := json.NewDecoder(resp.Body).Decode(&ref); err != nil {
		err = fmt.Errorf("%w: malformed response: %v", internal.ErrUploadRejected, err)
		span.RecordError(err)
		return AssetRef{}, err
	}

	logger.Info("File uploaded",
		zap.String("filename", in.Filename),
		zap.String("category", in.Category),
		zap.String("stored_as", ref.Filename),
		zap.Int("size", len(data)),
	)

	return ref, nil
}
