package upload

import (
	"fmt"
	"io"

	"instituteweb/admin-console/internal"
)

// Option configures pre-flight validation of an upload.
type Option func(*rules)

type rules struct {
	maxSize      int64
	allowedTypes []string
	checkFormat  func([]byte) error
}

// WithMaxSize caps the upload size in bytes.
func WithMaxSize(size int64) Option {
	return func(r *rules) {
		r.maxSize = size
	}
}

// WithContentType restricts the declared MIME types without format checks.
func WithContentType(contentTypes ...string) Option {
	return func(r *rules) {
		r.allowedTypes = contentTypes
	}
}

// WithImageFormats accepts JPEG, PNG or WebP and verifies the magic bytes, so
// a renamed file cannot slip through on its declared type alone.
func WithImageFormats() Option {
	return func(r *rules) {
		r.allowedTypes = []string{"image/jpeg", "image/png", "image/webp"}
		r.checkFormat = func(data []byte) error {
			if isJPEG(data) || isPNG(data) || isWebP(data) {
				return nil
			}
			return internal.ErrUploadBadFormat
		}
	}
}

// Validate reads the whole stream and applies the configured rules, returning
// the validated bytes.
func Validate(in Upload, opts ...Option) ([]byte, error) {
	r := &rules{}
	for _, opt := range opts {
		opt(r)
	}

	data, err := io.ReadAll(in.Content)
	if err != nil {
		return nil, fmt.Errorf("%w: read stream: %v", internal.ErrUploadRejected, err)
	}

	if r.maxSize > 0 && int64(len(data)) > r.maxSize {
		return nil, internal.ErrUploadTooLarge
	}

	if len(r.allowedTypes) > 0 {
		allowed := false
		for _, t := range r.allowedTypes {
			if t == in.ContentType {
				allowed = true
				break
			}
		}
		if !allowed {
			return nil, internal.ErrUploadBadType
		}
	}

	if r.checkFormat != nil {
		if err := r.checkFormat(data); err != nil {
			return nil, err
		}
	}

	return data, nil
}

func isJPEG(data []byte) bool {
	return len(data) >= 3 && data[0] == 0xFF && data[1] == 0xD8 && data[2] == 0xFF
}

func isPNG(data []byte) bool {
	signature := []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A}
	if len(data) < len(signature) {
		return false
	}
	for i, b := range signature {
		if data[i] != b {
			return false
		}
	}
	return true
}

func isWebP(data []byte) bool {
	return len(data) >= 12 && string(data[0:4]) == "RIFF" && string(data[8:12]) == "WEBP"
}
