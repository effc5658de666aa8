// Package urlstrategy builds collaborator addresses for file content,
// download and conversion endpoints.
package urlstrategy

import (
	"fmt"
	"net/url"
	"strings"
	"time"
)

// ContentBasedStrategy generates URLs that route through the application
// server, addressed by file id. This keeps access control with the server
// and matches the collaborator endpoint shapes:
//
//	GET {base}/files/{fileId}            inline content, #page=N anchor
//	GET {base}/files/{fileId}/download   attachment disposition
//	GET {base}/files/{fileId}/as-pdf     office-to-PDF conversion
type ContentBasedStrategy struct {
	APIBaseURL string // e.g. "https://api.example.com" or "/api"

	// CacheBust appends a timestamp query parameter to content URLs so the
	// viewer never shows a stale cached body for a re-uploaded file.
	CacheBust bool

	now func() time.Time
}

// NewContentBasedStrategy creates a new content-based URL strategy
func NewContentBasedStrategy(apiBaseURL string) *ContentBasedStrategy {
	return &ContentBasedStrategy{
		APIBaseURL: strings.TrimSuffix(apiBaseURL, "/"),
		now:        time.Now,
	}
}

// ContentURL returns the direct content-retrieval address, anchored at the
// given 1-based page when page > 0. The page is not validated against the
// document; the underlying viewer owns that.
func (s *ContentBasedStrategy) ContentURL(fileID string, page int) string {
	u := fmt.Sprintf("%s/files/%s", s.APIBaseURL, url.PathEscape(fileID))
	if s.CacheBust {
		u = fmt.Sprintf("%s?t=%d", u, s.clock().UnixMilli())
	}
	if page > 0 {
		u = fmt.Sprintf("%s#page=%d", u, page)
	}
	return u
}

// DownloadURL returns the attachment-disposition address for the original,
// unconverted file. The file name rides along so the save dialog keeps it.
func (s *ContentBasedStrategy) DownloadURL(fileID string, fileName string) string {
	u := fmt.Sprintf("%s/files/%s/download", s.APIBaseURL, url.PathEscape(fileID))
	if fileName != "" {
		u = fmt.Sprintf("%s?filename=%s", u, url.QueryEscape(fileName))
	}
	return u
}

// ConversionURL returns the office-to-PDF conversion address.
func (s *ContentBasedStrategy) ConversionURL(fileID string) string {
	return fmt.Sprintf("%s/files/%s/as-pdf", s.APIBaseURL, url.PathEscape(fileID))
}

func (s *ContentBasedStrategy) clock() time.Time {
	if s.now == nil {
		return time.Now()
	}
	return s.now()
}
