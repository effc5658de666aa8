package simplepreview

import (
	"net/url"
	"regexp"
	"strings"
)

var fileSegmentPattern = regexp.MustCompile(`files/([^/?#]+)`)

// Navigate resolves a chat citation into a view request. A structural
// file_id wins; otherwise the identifier is parsed out of the citation URL's
// `/files/{fileId}` path segment. The citation's page rides along either
// way. When no identifier can be recovered the citation is unresolvable and
// the caller should fall back to FallbackURL.
func Navigate(c Citation) (ViewRequest, error) {
	if c.FileID != "" {
		return ViewRequest{FileID: c.FileID, Page: c.Page}, nil
	}

	if c.URL == "" {
		return ViewRequest{}, &PreviewError{Op: "navigate", Err: ErrReferenceUnresolvable}
	}

	fileID := fileIDFromURL(c.URL)
	if fileID == "" {
		return ViewRequest{}, &PreviewError{Op: "navigate", Err: ErrReferenceUnresolvable}
	}

	return ViewRequest{FileID: fileID, Page: c.Page}, nil
}

// FallbackURL returns the address to open in a new top-level context when a
// citation cannot be resolved to a file. Returns false when the citation
// carries nothing to open, in which case the click is a no-op.
func FallbackURL(c Citation) (string, bool) {
	if c.URL == "" {
		return "", false
	}
	return c.URL, true
}

func fileIDFromURL(raw string) string {
	if parsed, err := url.Parse(raw); err == nil {
		segments := strings.Split(parsed.Path, "/")
		for i, segment := range segments {
			if segment == "files" && i+1 < len(segments) && segments[i+1] != "" {
				return segments[i+1]
			}
		}
	}

	// Looser pattern for addresses the URL parser rejects or path layouts
	// with the identifier glued to a query string.
	if m := fileSegmentPattern.FindStringSubmatch(raw); len(m) == 2 {
		return m[1]
	}
	return ""
}
