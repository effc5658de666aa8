package simplepreview

import (
	"errors"
	"fmt"
)

// Error types
var (
	// ErrConversionFailed indicates the conversion round trip returned a
	// non-success result or a malformed payload
	ErrConversionFailed = errors.New("conversion failed")

	// ErrNetworkTimeout indicates the conversion did not complete within the
	// configured patience window
	ErrNetworkTimeout = errors.New("conversion timed out")

	// ErrReferenceUnresolvable indicates a citation could not be mapped to
	// any file identifier
	ErrReferenceUnresolvable = errors.New("reference unresolvable")

	// ErrNoActivePreview indicates an operation that needs a current preview
	// was invoked on an empty slot
	ErrNoActivePreview = errors.New("no active preview")

	// ErrHandleReleased indicates an attempt to read a resource handle after
	// it was released
	ErrHandleReleased = errors.New("resource handle released")
)

// PreviewError represents an error related to a preview operation.
type PreviewError struct {
	FileID string
	Op     string
	Err    error
}

func (e *PreviewError) Error() string {
	return fmt.Sprintf("preview operation %s failed for file %s: %v", e.Op, e.FileID, e.Err)
}

func (e *PreviewError) Unwrap() error {
	return e.Err
}

// ConversionError represents a failed conversion round trip, keeping the
// transport-level detail for logging while the reason drives presentation.
type ConversionError struct {
	FileID string
	Reason ErrorKind
	Err    error
}

func (e *ConversionError) Error() string {
	return fmt.Sprintf("conversion failed for file %s (%s): %v", e.FileID, e.Reason, e.Err)
}

func (e *ConversionError) Unwrap() error {
	return e.Err
}

// KindOf maps an error to its presentation kind. Unsupported files and
// surface load failures are states rather than errors and set their kind
// directly; unknown errors surface as conversion failures so the UI still
// offers the download fallback.
func KindOf(err error) ErrorKind {
	switch {
	case err == nil:
		return ErrorKindNone
	case errors.Is(err, ErrNetworkTimeout):
		return ErrorKindNetworkTimeout
	case errors.Is(err, ErrReferenceUnresolvable):
		return ErrorKindReferenceUnresolvable
	default:
		return ErrorKindConversionFailed
	}
}
