// Package api exposes the preview engine to the surrounding shell over HTTP.
package api

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"github.com/tendant/simple-preview/pkg/simplepreview"
)

// PreviewHandler handles HTTP requests for the single preview slot
type PreviewHandler struct {
	engine simplepreview.Engine
}

// NewPreviewHandler creates a new preview handler
func NewPreviewHandler(engine simplepreview.Engine) *PreviewHandler {
	return &PreviewHandler{engine: engine}
}

// Routes returns the routes for the preview slot
func (h *PreviewHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Post("/", h.OpenPreview)
	r.Delete("/", h.ClosePreview)
	r.Get("/state", h.GetState)
	r.Get("/surface", h.GetSurface)
	r.Get("/artifact", h.GetArtifact)
	r.Post("/load-error", h.ReportLoadError)

	r.Post("/references/resolve", h.ResolveReference)

	return r
}

// OpenPreviewRequest is the request body for opening a preview
type OpenPreviewRequest struct {
	FileID   string `json:"file_id"`
	FileName string `json:"file_name"`
	Page     int    `json:"page,omitempty"`
}

// PreviewResponse is the response body for preview state reads
type PreviewResponse struct {
	State   simplepreview.PreviewState `json:"state"`
	Surface simplepreview.Surface      `json:"surface"`
}

// ResolveReferenceResponse is the response body for citation resolution
type ResolveReferenceResponse struct {
	Resolved    bool                       `json:"resolved"`
	Request     *simplepreview.ViewRequest `json:"request,omitempty"`
	FallbackURL string                     `json:"fallback_url,omitempty"`
}

// OpenPreview starts resolving a new view request, superseding any current one
func (h *PreviewHandler) OpenPreview(w http.ResponseWriter, r *http.Request) {
	var req OpenPreviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if req.FileID == "" {
		slog.Error("File ID is required", "file_name", req.FileName)
		http.Error(w, "File ID is required", http.StatusBadRequest)
		return
	}

	file := simplepreview.FileDescriptor{FileID: req.FileID, FileName: req.FileName}
	state, err := h.engine.Open(r.Context(), file.Request(req.Page))
	if err != nil {
		slog.Error("Failed to open preview", "file_id", req.FileID, "error", err)
		http.Error(w, "Failed to open preview", http.StatusInternalServerError)
		return
	}

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, PreviewResponse{State: state, Surface: simplepreview.Render(state)})
}

// GetState returns the current preview state
func (h *PreviewHandler) GetState(w http.ResponseWriter, r *http.Request) {
	state, ok := h.snapshot(w)
	if !ok {
		return
	}
	render.JSON(w, r, PreviewResponse{State: state, Surface: simplepreview.Render(state)})
}

// GetSurface returns only the surface selection for the current state
func (h *PreviewHandler) GetSurface(w http.ResponseWriter, r *http.Request) {
	state, ok := h.snapshot(w)
	if !ok {
		return
	}
	render.JSON(w, r, simplepreview.Render(state))
}

// GetArtifact streams the converted artifact of the current preview
func (h *PreviewHandler) GetArtifact(w http.ResponseWriter, r *http.Request) {
	state, ok := h.snapshot(w)
	if !ok {
		return
	}

	handle := state.Conversion.Handle
	if state.Conversion.Status != simplepreview.ConversionReady || handle == nil {
		http.Error(w, "No converted artifact available", http.StatusNotFound)
		return
	}

	reader, err := handle.Open()
	if err != nil {
		slog.Error("Failed to open artifact", "file_id", state.Request.FileID, "error", err)
		http.Error(w, "Artifact no longer available", http.StatusGone)
		return
	}
	defer reader.Close()

	w.Header().Set("Content-Type", "application/pdf")
	if _, err := io.Copy(w, reader); err != nil {
		slog.Error("Failed to stream artifact", "file_id", state.Request.FileID, "error", err)
	}
}

// ReportLoadErrorRequest is the request body for in-surface load failures
type ReportLoadErrorRequest struct {
	FileID string `json:"file_id"`
}

// ReportLoadError folds an in-surface load failure into the current state.
// Reports for a superseded file are acknowledged but ignored.
func (h *PreviewHandler) ReportLoadError(w http.ResponseWriter, r *http.Request) {
	var req ReportLoadErrorRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	applied := h.engine.ReportLoadFailure(req.FileID)
	render.JSON(w, r, map[string]bool{"applied": applied})
}

// ClosePreview tears the preview slot down
func (h *PreviewHandler) ClosePreview(w http.ResponseWriter, r *http.Request) {
	h.engine.Close()
	w.WriteHeader(http.StatusNoContent)
}

// ResolveReference maps a chat citation to a view request
func (h *PreviewHandler) ResolveReference(w http.ResponseWriter, r *http.Request) {
	var citation simplepreview.Citation
	if err := json.NewDecoder(r.Body).Decode(&citation); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	req, err := simplepreview.Navigate(citation)
	if err != nil {
		if !errors.Is(err, simplepreview.ErrReferenceUnresolvable) {
			slog.Error("Failed to resolve reference", "url", citation.URL, "error", err)
			http.Error(w, "Failed to resolve reference", http.StatusInternalServerError)
			return
		}

		fallback, ok := simplepreview.FallbackURL(citation)
		if !ok {
			http.Error(w, "Reference carries no file and no URL", http.StatusUnprocessableEntity)
			return
		}
		render.JSON(w, r, ResolveReferenceResponse{Resolved: false, FallbackURL: fallback})
		return
	}

	render.JSON(w, r, ResolveReferenceResponse{Resolved: true, Request: &req})
}

func (h *PreviewHandler) snapshot(w http.ResponseWriter) (simplepreview.PreviewState, bool) {
	state, err := h.engine.Snapshot()
	if err != nil {
		http.Error(w, "No active preview", http.StatusNotFound)
		return simplepreview.PreviewState{}, false
	}
	return state, true
}
