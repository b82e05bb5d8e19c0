// Package upload turns a selected local file into a durable, server-side
// asset reference. The gateway never stores bytes itself; it validates the
// stream and hands it to the backend's upload endpoint.
package upload

import (
	"context"
	"io"
)

// Upload is one file to be transferred, with the section-specific category
// that selects the backend's upload bucket.
type Upload struct {
	Filename    string
	ContentType string
	Category    string
	Content     io.Reader
}

// AssetRef is the backend's durable reference to an uploaded file. The
// filename is what gets spliced back into the record's file field.
type AssetRef struct {
	Filename string `json:"filename"`
	URL      string `json:"url"`
}

type Gateway interface {
	Send(ctx context.Context, in Upload, opts ...Option) (AssetRef, error)
}
