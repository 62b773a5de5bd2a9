package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
)

// Sentinel errors to help callers distinguish failure reasons.
var (
	ErrInvalidDocument = errors.New("storage: invalid document")
	ErrInvalidLocation = errors.New("storage: invalid location")
)

// Document represents the payload sent to a storage backend when
// uploading a report file.
type Document struct {
	Name        string
	ContentType string
	Size        int64
	Reader      io.Reader
}

// Location represents where a document is stored inside the backend.
type Location struct {
	Path string
	URL  string
}

// DownloadResult bundles the stream returned by a storage backend and some metadata.
type DownloadResult struct {
	Reader      io.ReadCloser
	ContentType string
	Size        int64
}

// Storage describes the operations supported by every document backend.
type Storage interface {
	Upload(ctx context.Context, doc *Document) (*Location, error)
	Download(ctx context.Context, loc *Location) (*DownloadResult, error)
	Delete(ctx context.Context, loc *Location) error
}

// ValidateDocument performs a light validation before delegating to providers.
func ValidateDocument(doc *Document) error {
	if doc == nil || doc.Reader == nil {
		return fmt.Errorf("%w: missing data stream", ErrInvalidDocument)
	}
	if doc.Name == "" {
		return fmt.Errorf("%w: missing document name", ErrInvalidDocument)
	}
	return nil
}

// ValidateLocation ensures we only interact with safe locations.
func ValidateLocation(loc *Location) error {
	if loc == nil {
		return ErrInvalidLocation
	}
	if loc.Path == "" {
		return fmt.Errorf("%w: missing path", ErrInvalidLocation)
	}
	return nil
}
