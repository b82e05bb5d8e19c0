package upload

import (
	"bytes"
	"errors"
	"testing"

	"instituteweb/admin-console/internal"
)

func jpegBytes() []byte {
	return append([]byte{0xFF, 0xD8, 0xFF}, bytes.Repeat([]byte{0x01}, 16)...)
}

func pngBytes() []byte {
	return append([]byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A}, 0x00)
}

func webpBytes() []byte {
	data := []byte("RIFF....WEBP")
	return data
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name        string
		in          Upload
		opts        []Option
		expectedErr error
	}{
		{
			name: "Should accept file within size limit",
			in:   Upload{Filename: "doc.pdf", ContentType: "application/pdf", Content: bytes.NewReader(make([]byte, 100))},
			opts: []Option{WithMaxSize(200)},
		},
		{
			name:        "Should reject oversized file",
			in:          Upload{Filename: "doc.pdf", ContentType: "application/pdf", Content: bytes.NewReader(make([]byte, 300))},
			opts:        []Option{WithMaxSize(200)},
			expectedErr: internal.ErrUploadTooLarge,
		},
		{
			name:        "Should reject disallowed content type",
			in:          Upload{Filename: "doc.exe", ContentType: "application/octet-stream", Content: bytes.NewReader(jpegBytes())},
			opts:        []Option{WithContentType("application/pdf")},
			expectedErr: internal.ErrUploadBadType,
		},
		{
			name: "Should accept JPEG magic bytes",
			in:   Upload{Filename: "photo.jpg", ContentType: "image/jpeg", Content: bytes.NewReader(jpegBytes())},
			opts: []Option{WithImageFormats()},
		},
		{
			name: "Should accept PNG magic bytes",
			in:   Upload{Filename: "logo.png", ContentType: "image/png", Content: bytes.NewReader(pngBytes())},
			opts: []Option{WithImageFormats()},
		},
		{
			name: "Should accept WebP magic bytes",
			in:   Upload{Filename: "banner.webp", ContentType: "image/webp", Content: bytes.NewReader(webpBytes())},
			opts: []Option{WithImageFormats()},
		},
		{
			name:        "Should reject renamed file with wrong magic bytes",
			in:          Upload{Filename: "fake.png", ContentType: "image/png", Content: bytes.NewReader([]byte("not an image"))},
			opts:        []Option{WithImageFormats()},
			expectedErr: internal.ErrUploadBadFormat,
		},
		{
			name: "Should accept anything without options",
			in:   Upload{Filename: "notes.txt", ContentType: "text/plain", Content: bytes.NewReader([]byte("hello"))},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Validate(tt.in, tt.opts...)

			if tt.expectedErr != nil {
				if !errors.Is(err, tt.expectedErr) {
					t.Errorf("Expected error %v, got %v", tt.expectedErr, err)
				}
				if !errors.Is(err, internal.ErrUploadRejected) {
					t.Errorf("Expected %v to match ErrUploadRejected", err)
				}
				return
			}

			if err != nil {
				t.Errorf("Unexpected error: %v", err)
			}
		})
	}
}
