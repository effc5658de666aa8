package simplepreview

import (
	"context"
	"io"
)

// Converter defines the interface to the remote format-conversion
// collaborator. Implementations perform exactly one round trip per call and
// honor context cancellation and deadlines.
type Converter interface {
	// Convert requests a PDF-equivalent artifact for the given file and
	// returns its bytes together with the reported content type.
	Convert(ctx context.Context, fileID string) ([]byte, string, error)
}

// ResourceHandle is an owned, releasable client-local reference to a
// viewable artifact. Handles are created only by an Allocator and released
// only through the engine's resource slot; Release is idempotent.
type ResourceHandle interface {
	// URL returns the local address the rendering surface points at.
	URL() string

	// Open returns a reader over the artifact bytes. It fails with
	// ErrHandleReleased once the handle has been released.
	Open() (io.ReadCloser, error)

	// Release frees the underlying resource. Safe to call more than once.
	Release()
}

// Allocator wraps a converted artifact into a ResourceHandle.
type Allocator interface {
	Allocate(fileName string, contentType string, data []byte) (ResourceHandle, error)
}

// URLResolver builds collaborator addresses for a file. Implementations live
// in the urlstrategy package.
type URLResolver interface {
	// ContentURL returns the direct content-retrieval address, anchored at
	// the given 1-based page when page > 0 and the format supports anchors.
	ContentURL(fileID string, page int) string

	// DownloadURL returns the attachment-disposition address for the
	// original, unconverted file.
	DownloadURL(fileID string, fileName string) string

	// ConversionURL returns the office-to-PDF conversion address.
	ConversionURL(fileID string) string
}

// EventSink receives preview lifecycle notifications. All methods must be
// cheap and non-blocking; sinks must not call back into the engine.
type EventSink interface {
	// PreviewOpened is fired when a ViewRequest starts resolving.
	PreviewOpened(req ViewRequest, category FileCategory)

	// ConversionStarted is fired when a conversion round trip begins.
	ConversionStarted(req ViewRequest)

	// ConversionSettled is fired when a non-stale conversion reaches a
	// terminal status.
	ConversionSettled(req ViewRequest, status ConversionStatus, err error)

	// ResultDiscarded is fired when a stale conversion result arrives after
	// its request was superseded.
	ResultDiscarded(req ViewRequest)

	// HandleReleased is fired each time an adopted handle is released.
	HandleReleased(fileID string)

	// PreviewClosed is fired on slot teardown.
	PreviewClosed(req ViewRequest)
}
