package simplepreview

import "fmt"

// SurfaceKind is the domain type for presentation surface selection.
type SurfaceKind string

// Surface kind constants (typed).
const (
	SurfaceLoading       SurfaceKind = "loading"
	SurfaceError         SurfaceKind = "error"
	SurfaceImage         SurfaceKind = "image"
	SurfaceDocumentFrame SurfaceKind = "document_frame"
	SurfaceTextPane      SurfaceKind = "text_pane"
	SurfaceAudioPlayer   SurfaceKind = "audio_player"
	SurfaceVideoPlayer   SurfaceKind = "video_player"
	SurfaceUnsupported   SurfaceKind = "unsupported"
)

// Surface describes the concrete presentation surface for a preview state:
// which viewer to mount, the address it points at, and whether a download
// action accompanies it.
type Surface struct {
	Kind         SurfaceKind `json:"kind"`
	URL          string      `json:"url,omitempty"`
	Page         int         `json:"page,omitempty"`
	Message      string      `json:"message,omitempty"`
	DownloadURL  string      `json:"download_url,omitempty"`
	ShowDownload bool        `json:"show_download"`
}

// Render selects the presentation surface for a state. Pure: the same state
// always yields the same surface. Errors never lose the download action once
// the file id is known, and an out-of-range page is passed through untouched
// for the underlying viewer to deal with.
func Render(state PreviewState) Surface {
	if state.Loading || state.Conversion.Status == ConversionPending {
		return Surface{
			Kind:        SurfaceLoading,
			Message:     fmt.Sprintf("Preparing %s...", state.Request.FileName),
			DownloadURL: state.DownloadURL,
		}
	}

	if state.Error != ErrorKindNone && state.Error != ErrorKindUnsupportedType {
		return Surface{
			Kind:         SurfaceError,
			Message:      errorMessage(state),
			DownloadURL:  state.DownloadURL,
			ShowDownload: true,
		}
	}

	switch state.Category {
	case CategoryImage:
		return Surface{
			Kind:        SurfaceImage,
			URL:         state.ResolvedURL,
			DownloadURL: state.DownloadURL,
		}
	case CategoryNativePDF, CategoryOfficeConvertible:
		return Surface{
			Kind:        SurfaceDocumentFrame,
			URL:         state.ResolvedURL,
			Page:        state.Request.Page,
			DownloadURL: state.DownloadURL,
		}
	case CategoryTextLike:
		return Surface{
			Kind:        SurfaceTextPane,
			URL:         state.ResolvedURL,
			DownloadURL: state.DownloadURL,
		}
	case CategoryAudio:
		return Surface{
			Kind:        SurfaceAudioPlayer,
			URL:         state.ResolvedURL,
			DownloadURL: state.DownloadURL,
		}
	case CategoryVideo:
		return Surface{
			Kind:        SurfaceVideoPlayer,
			URL:         state.ResolvedURL,
			DownloadURL: state.DownloadURL,
		}
	default:
		return Surface{
			Kind:         SurfaceUnsupported,
			Message:      fmt.Sprintf("Preview not available for %q.", state.Request.FileName),
			DownloadURL:  state.DownloadURL,
			ShowDownload: true,
		}
	}
}

func errorMessage(state PreviewState) string {
	switch state.Error {
	case ErrorKindConversionFailed:
		return "Failed to convert document for viewing. Please try downloading the file instead."
	case ErrorKindNetworkTimeout:
		return "The document conversion took too long. Please try downloading the file instead."
	case ErrorKindLoadFailed:
		return "Unable to display this file. It may be corrupted or in an unsupported format."
	default:
		return "Failed to load file."
	}
}
