package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tendant/simple-preview/pkg/simplepreview"
	"github.com/tendant/simple-preview/pkg/simplepreview/blob"
	"github.com/tendant/simple-preview/pkg/simplepreview/urlstrategy"
)

type staticConverter struct {
	data []byte
	mime string
	err  error
}

func (c *staticConverter) Convert(ctx context.Context, fileID string) ([]byte, string, error) {
	if c.err != nil {
		return nil, "", c.err
	}
	return c.data, c.mime, nil
}

// setupPreviewHandlerTest creates a PreviewHandler backed by an engine with
// an in-memory allocator and a canned converter.
func setupPreviewHandlerTest(t *testing.T) (chi.Router, *engineStates) {
	t.Helper()

	states := &engineStates{settled: make(chan simplepreview.PreviewState, 16)}

	engine, err := simplepreview.New(
		simplepreview.WithURLResolver(urlstrategy.NewContentBasedStrategy("http://api")),
		simplepreview.WithConverter(&staticConverter{data: []byte("%PDF-1.7 converted"), mime: "application/pdf"}),
		simplepreview.WithAllocator(blob.NewMemoryAllocator()),
		simplepreview.WithEventSink(simplepreview.NewNoopEventSink()),
		simplepreview.WithStateListener(states.record),
	)
	require.NoError(t, err)

	router := chi.NewRouter()
	router.Mount("/preview", NewPreviewHandler(engine).Routes())
	return router, states
}

type engineStates struct {
	settled chan simplepreview.PreviewState
}

func (s *engineStates) record(state simplepreview.PreviewState) {
	if state.Terminal() {
		s.settled <- state
	}
}

func (s *engineStates) waitTerminal(t *testing.T) simplepreview.PreviewState {
	t.Helper()
	select {
	case state := <-s.settled:
		return state
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for terminal state")
		return simplepreview.PreviewState{}
	}
}

func postJSON(t *testing.T, router chi.Router, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestOpenPreview_Image(t *testing.T) {
	router, _ := setupPreviewHandlerTest(t)

	w := postJSON(t, router, "/preview/", OpenPreviewRequest{FileID: "f1", FileName: "chart.png"})
	require.Equal(t, http.StatusCreated, w.Code)

	var resp PreviewResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Equal(t, simplepreview.CategoryImage, resp.State.Category)
	assert.Equal(t, simplepreview.SurfaceImage, resp.Surface.Kind)
	assert.NotEmpty(t, resp.Surface.URL)
}

func TestOpenPreview_MissingFileID(t *testing.T) {
	router, _ := setupPreviewHandlerTest(t)

	w := postJSON(t, router, "/preview/", OpenPreviewRequest{FileName: "chart.png"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetState_NoActivePreview(t *testing.T) {
	router, _ := setupPreviewHandlerTest(t)

	req := httptest.NewRequest(http.MethodGet, "/preview/state", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestOfficePreviewAndArtifactStreaming(t *testing.T) {
	router, states := setupPreviewHandlerTest(t)

	w := postJSON(t, router, "/preview/", OpenPreviewRequest{FileID: "f2", FileName: "deck.pptx", Page: 2})
	require.Equal(t, http.StatusCreated, w.Code)

	var opened PreviewResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&opened))
	assert.Equal(t, simplepreview.SurfaceLoading, opened.Surface.Kind)

	ready := states.waitTerminal(t)
	require.Equal(t, simplepreview.ConversionReady, ready.Conversion.Status)

	req := httptest.NewRequest(http.MethodGet, "/preview/surface", nil)
	w2 := httptest.NewRecorder()
	router.ServeHTTP(w2, req)
	require.Equal(t, http.StatusOK, w2.Code)

	var surface simplepreview.Surface
	require.NoError(t, json.NewDecoder(w2.Body).Decode(&surface))
	assert.Equal(t, simplepreview.SurfaceDocumentFrame, surface.Kind)
	assert.Equal(t, 2, surface.Page)

	req = httptest.NewRequest(http.MethodGet, "/preview/artifact", nil)
	w3 := httptest.NewRecorder()
	router.ServeHTTP(w3, req)
	require.Equal(t, http.StatusOK, w3.Code)
	assert.Equal(t, "application/pdf", w3.Header().Get("Content-Type"))
	assert.Equal(t, "%PDF-1.7 converted", w3.Body.String())
}

func TestGetArtifact_NoConversion(t *testing.T) {
	router, _ := setupPreviewHandlerTest(t)

	w := postJSON(t, router, "/preview/", OpenPreviewRequest{FileID: "f1", FileName: "chart.png"})
	require.Equal(t, http.StatusCreated, w.Code)

	req := httptest.NewRequest(http.MethodGet, "/preview/artifact", nil)
	w2 := httptest.NewRecorder()
	router.ServeHTTP(w2, req)
	assert.Equal(t, http.StatusNotFound, w2.Code)
}

func TestReportLoadError(t *testing.T) {
	router, _ := setupPreviewHandlerTest(t)

	w := postJSON(t, router, "/preview/", OpenPreviewRequest{FileID: "f1", FileName: "chart.png"})
	require.Equal(t, http.StatusCreated, w.Code)

	w2 := postJSON(t, router, "/preview/load-error", ReportLoadErrorRequest{FileID: "f1"})
	require.Equal(t, http.StatusOK, w2.Code)
	var applied map[string]bool
	require.NoError(t, json.NewDecoder(w2.Body).Decode(&applied))
	assert.True(t, applied["applied"])

	// A stale report for a superseded file is acknowledged but ignored.
	w3 := postJSON(t, router, "/preview/load-error", ReportLoadErrorRequest{FileID: "other"})
	require.Equal(t, http.StatusOK, w3.Code)
	require.NoError(t, json.NewDecoder(w3.Body).Decode(&applied))
	assert.False(t, applied["applied"])
}

func TestClosePreview(t *testing.T) {
	router, _ := setupPreviewHandlerTest(t)

	w := postJSON(t, router, "/preview/", OpenPreviewRequest{FileID: "f1", FileName: "chart.png"})
	require.Equal(t, http.StatusCreated, w.Code)

	req := httptest.NewRequest(http.MethodDelete, "/preview/", nil)
	w2 := httptest.NewRecorder()
	router.ServeHTTP(w2, req)
	assert.Equal(t, http.StatusNoContent, w2.Code)

	req = httptest.NewRequest(http.MethodGet, "/preview/state", nil)
	w3 := httptest.NewRecorder()
	router.ServeHTTP(w3, req)
	assert.Equal(t, http.StatusNotFound, w3.Code)
}

func TestResolveReference(t *testing.T) {
	router, _ := setupPreviewHandlerTest(t)

	t.Run("structural citation", func(t *testing.T) {
		w := postJSON(t, router, "/preview/references/resolve",
			simplepreview.Citation{FileID: "f9", Page: 4})
		require.Equal(t, http.StatusOK, w.Code)

		var resp ResolveReferenceResponse
		require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
		assert.True(t, resp.Resolved)
		require.NotNil(t, resp.Request)
		assert.Equal(t, "f9", resp.Request.FileID)
		assert.Equal(t, 4, resp.Request.Page)
	})

	t.Run("url citation", func(t *testing.T) {
		w := postJSON(t, router, "/preview/references/resolve",
			simplepreview.Citation{URL: "http://api/files/abc?page=2", Page: 2})
		require.Equal(t, http.StatusOK, w.Code)

		var resp ResolveReferenceResponse
		require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
		assert.True(t, resp.Resolved)
		require.NotNil(t, resp.Request)
		assert.Equal(t, "abc", resp.Request.FileID)
	})

	t.Run("unresolvable falls back to raw url", func(t *testing.T) {
		w := postJSON(t, router, "/preview/references/resolve",
			simplepreview.Citation{URL: "https://other-host/not-a-file-path"})
		require.Equal(t, http.StatusOK, w.Code)

		var resp ResolveReferenceResponse
		require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
		assert.False(t, resp.Resolved)
		assert.Nil(t, resp.Request)
		assert.Equal(t, "https://other-host/not-a-file-path", resp.FallbackURL)
	})

	t.Run("nothing to open", func(t *testing.T) {
		w := postJSON(t, router, "/preview/references/resolve", simplepreview.Citation{})
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	})
}
