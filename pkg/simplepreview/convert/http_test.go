package convert_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tendant/simple-preview/pkg/simplepreview"
	"github.com/tendant/simple-preview/pkg/simplepreview/convert"
	"github.com/tendant/simple-preview/pkg/simplepreview/urlstrategy"
)

func TestConvertSuccess(t *testing.T) {
	var gotPath string
	var gotCacheControl string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotCacheControl = r.Header.Get("Cache-Control")
		w.Header().Set("Content-Type", "application/pdf")
		w.Write([]byte("%PDF-1.7 converted"))
	}))
	defer server.Close()

	client := convert.NewHTTPClient(urlstrategy.NewContentBasedStrategy(server.URL), server.Client())

	data, contentType, err := client.Convert(context.Background(), "f2")
	require.NoError(t, err)
	assert.Equal(t, "/files/f2/as-pdf", gotPath)
	assert.Equal(t, "no-cache", gotCacheControl)
	assert.Equal(t, "application/pdf", contentType)
	assert.Equal(t, "%PDF-1.7 converted", string(data))
}

func TestConvertNonSuccessStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "Conversion failed: soffice exited 1", http.StatusInternalServerError)
	}))
	defer server.Close()

	client := convert.NewHTTPClient(urlstrategy.NewContentBasedStrategy(server.URL), server.Client())

	_, _, err := client.Convert(context.Background(), "f2")
	require.Error(t, err)
	assert.ErrorIs(t, err, simplepreview.ErrConversionFailed)

	var convErr *simplepreview.ConversionError
	require.ErrorAs(t, err, &convErr)
	assert.Equal(t, "f2", convErr.FileID)
	assert.Equal(t, simplepreview.ErrorKindConversionFailed, convErr.Reason)
	assert.Contains(t, convErr.Error(), "soffice exited 1")
}

func TestConvertContextCancelled(t *testing.T) {
	started := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		close(started)
		<-r.Context().Done()
	}))
	defer server.Close()

	client := convert.NewHTTPClient(urlstrategy.NewContentBasedStrategy(server.URL), server.Client())

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		<-started
		cancel()
	}()

	_, _, err := client.Convert(ctx, "f2")
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestConvertDeadlinePropagates(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer server.Close()

	client := convert.NewHTTPClient(urlstrategy.NewContentBasedStrategy(server.URL), server.Client())

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()

	_, _, err := client.Convert(ctx, "f2")
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
