package simplepreview

// FileCategory is the domain type for a file's renderability class.
type FileCategory string

// File category constants (typed). The set is closed: every file name maps
// to exactly one of these, with unknown extensions degrading to
// CategoryUnsupported.
const (
	CategoryImage             FileCategory = "image"
	CategoryNativePDF         FileCategory = "native_pdf"
	CategoryOfficeConvertible FileCategory = "office_convertible"
	CategoryTextLike          FileCategory = "text_like"
	CategoryAudio             FileCategory = "audio"
	CategoryVideo             FileCategory = "video"
	CategoryUnsupported       FileCategory = "unsupported"
)

// ConversionStatus is the domain type for conversion lifecycle states.
type ConversionStatus string

// Conversion status constants (typed).
const (
	ConversionNotNeeded ConversionStatus = "not_needed"
	ConversionPending   ConversionStatus = "pending"
	ConversionReady     ConversionStatus = "ready"
	ConversionFailed    ConversionStatus = "failed"
)

// ErrorKind classifies a preview failure for presentation purposes.
type ErrorKind string

// Error kind constants (typed).
const (
	ErrorKindNone                  ErrorKind = ""
	ErrorKindUnsupportedType       ErrorKind = "unsupported_type"
	ErrorKindConversionFailed      ErrorKind = "conversion_failed"
	ErrorKindNetworkTimeout        ErrorKind = "network_timeout"
	ErrorKindLoadFailed            ErrorKind = "load_failed"
	ErrorKindReferenceUnresolvable ErrorKind = "reference_unresolvable"
)

// ViewRequest is a caller's intent to preview one file, optionally at a
// 1-based page. Consumed once per preview attempt; never retried
// automatically.
type ViewRequest struct {
	FileID   string `json:"file_id"`
	FileName string `json:"file_name"`
	Page     int    `json:"page,omitempty"`
}

// FileDescriptor identifies a file for preview purposes. The display name is
// only used to derive the category and for UI labels; the engine never
// inspects content.
type FileDescriptor struct {
	FileID   string `json:"file_id"`
	FileName string `json:"file_name"`
}

// Request builds a view request for the file at the given 1-based page.
// Pass 0 to open at the viewer's default position.
func (d FileDescriptor) Request(page int) ViewRequest {
	return ViewRequest{FileID: d.FileID, FileName: d.FileName, Page: page}
}

// ConversionState is the lifecycle of an office-document-to-viewable-artifact
// transformation. Only CategoryOfficeConvertible requests ever leave
// ConversionNotNeeded. A state transitions exactly once from pending to a
// terminal status; a superseded request's state is discarded, not mutated.
type ConversionState struct {
	Status ConversionStatus `json:"status"`
	Handle ResourceHandle   `json:"-"`
	Reason ErrorKind        `json:"reason,omitempty"`
}

// Citation is a chat answer's pointer to a supporting file and page,
// produced by the retrieval collaborator. Read-only input to Navigate.
type Citation struct {
	FileID   string  `json:"file_id,omitempty"`
	Page     int     `json:"page,omitempty"`
	URL      string  `json:"url,omitempty"`
	Accuracy float64 `json:"accuracy,omitempty"`
}

// PreviewState is the fully resolved state of the single active preview
// slot. It is derived from exactly one ViewRequest plus the latest non-stale
// conversion result; fields from two different requests are never blended.
type PreviewState struct {
	Request     ViewRequest     `json:"request"`
	Category    FileCategory    `json:"category"`
	Conversion  ConversionState `json:"conversion"`
	ResolvedURL string          `json:"resolved_url,omitempty"`
	DownloadURL string          `json:"download_url,omitempty"`
	Error       ErrorKind       `json:"error,omitempty"`
	Loading     bool            `json:"loading"`
}

// Terminal reports whether the state will no longer change without a new
// ViewRequest.
func (s PreviewState) Terminal() bool {
	return !s.Loading && s.Conversion.Status != ConversionPending
}
