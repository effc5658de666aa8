// Package convert implements the client side of the remote format-conversion
// collaborator.
package convert

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/tendant/simple-preview/pkg/simplepreview"
)

// HTTPClient converts office documents by calling the remote conversion
// endpoint. One call, one round trip: retry policy belongs to the caller
// issuing a fresh ViewRequest, not here.
type HTTPClient struct {
	resolver simplepreview.URLResolver
	client   *http.Client
}

// NewHTTPClient creates a new conversion client. A nil http client falls
// back to http.DefaultClient; deadlines come from the caller's context.
func NewHTTPClient(resolver simplepreview.URLResolver, client *http.Client) *HTTPClient {
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTPClient{
		resolver: resolver,
		client:   client,
	}
}

// Convert requests the PDF-equivalent artifact for a file and returns its
// bytes together with the content type the collaborator reported.
func (c *HTTPClient) Convert(ctx context.Context, fileID string) ([]byte, string, error) {
	url := c.resolver.ConversionURL(fileID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, "", fmt.Errorf("failed to build conversion request: %w", err)
	}

	// A stale cached artifact can outlive a re-uploaded source document, so
	// the request always defeats intermediary caches.
	req.Header.Set("Cache-Control", "no-cache")
	req.Header.Set("Pragma", "no-cache")
	req.Header.Set("Expires", "0")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, "", &simplepreview.ConversionError{
			FileID: fileID,
			Reason: simplepreview.ErrorKindConversionFailed,
			Err:    err,
		}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, "", &simplepreview.ConversionError{
			FileID: fileID,
			Reason: simplepreview.ErrorKindConversionFailed,
			Err: fmt.Errorf("%w: %s: %s", simplepreview.ErrConversionFailed,
				resp.Status, strings.TrimSpace(string(detail))),
		}
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", &simplepreview.ConversionError{
			FileID: fileID,
			Reason: simplepreview.ErrorKindConversionFailed,
			Err:    fmt.Errorf("failed to read conversion response: %w", err),
		}
	}

	return data, resp.Header.Get("Content-Type"), nil
}
