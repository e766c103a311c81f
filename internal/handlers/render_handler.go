package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"go.uber.org/zap"

	"github.com/toteworks/mockup-renderer/internal/mockup"
	"github.com/toteworks/mockup-renderer/pkg/models"
)

// ErrMissingLogo indicates the multipart form carried no logo file. Client
// error; nothing downstream runs.
var ErrMissingLogo = errors.New("no logo file supplied")

// maxUploadSize bounds the multipart form held in memory.
const maxUploadSize = 32 << 20

// RenderService is the facade the HTTP layer talks to.
type RenderService interface {
	RenderMockup(ctx context.Context, req *models.RenderRequest) (*models.RenderResult, error)
	RenderPreview(ctx context.Context, req *models.RenderRequest) (*models.RenderResult, error)
	RenderAndPublish(ctx context.Context, req *models.RenderRequest) (*models.PublishResult, error)
}

// RenderHandler handles the mockup HTTP endpoints.
type RenderHandler struct {
	service RenderService
	logger  *zap.Logger
}

// NewRenderHandler creates a render handler.
func NewRenderHandler(service RenderService, logger *zap.Logger) *RenderHandler {
	return &RenderHandler{
		service: service,
		logger:  logger,
	}
}

// RegisterRoutes registers the mockup routes.
func (h *RenderHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/health", h.handleHealth)
	mux.HandleFunc("/api/mockup/generate", h.handleGenerate)
	mux.HandleFunc("/api/mockup/preview", h.handlePreview)
	mux.HandleFunc("/api/mockup/finalize", h.handleFinalize)
}

// handleHealth handles GET /health - returns service health status
func (h *RenderHandler) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"status":  "healthy",
		"service": "mockup-renderer",
		"version": "1.0.0",
	})
}

// handleGenerate handles POST /api/mockup/generate - full-resolution JPEG
func (h *RenderHandler) handleGenerate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	req, err := h.parseRenderRequest(r)
	if err != nil {
		h.writeError(w, err)
		return
	}

	res, err := h.service.RenderMockup(r.Context(), req)
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.writeJPEG(w, res)
}

// handlePreview handles POST /api/mockup/preview - cheap preview JPEG
func (h *RenderHandler) handlePreview(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	req, err := h.parseRenderRequest(r)
	if err != nil {
		h.writeError(w, err)
		return
	}

	res, err := h.service.RenderPreview(r.Context(), req)
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.writeJPEG(w, res)
}

// handleFinalize handles POST /api/mockup/finalize - renders at full
// resolution, publishes mockup and logo to the object store, returns URLs
func (h *RenderHandler) handleFinalize(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	req, err := h.parseRenderRequest(r)
	if err != nil {
		h.writeError(w, err)
		return
	}

	res, err := h.service.RenderAndPublish(r.Context(), req)
	if err != nil {
		h.writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(res); err != nil {
		h.logger.Error("Failed to encode publish response", zap.Error(err))
	}
}

// parseRenderRequest decodes the multipart form into a RenderRequest with
// the documented parameter defaults applied.
func (h *RenderHandler) parseRenderRequest(r *http.Request) (*models.RenderRequest, error) {
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMissingLogo, err)
	}

	file, header, err := r.FormFile("logo")
	if err != nil {
		return nil, ErrMissingLogo
	}
	defer file.Close()

	logo, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("failed to read logo upload: %w", err)
	}

	params := map[string]string{
		"color":     r.FormValue("color"),
		"logoX":     r.FormValue("logoX"),
		"logoY":     r.FormValue("logoY"),
		"logoWidth": r.FormValue("logoWidth"),
	}

	return models.NewRenderRequest(logo, header.Filename, params), nil
}

func (h *RenderHandler) writeJPEG(w http.ResponseWriter, res *models.RenderResult) {
	w.Header().Set("Content-Type", "image/jpeg")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(res.Image); err != nil {
		h.logger.Error("Failed to write image response", zap.Error(err))
	}
}

// writeError maps the error taxonomy to HTTP statuses. Client mistakes get
// a descriptive 400; everything else is a generic 500 with the cause kept
// server-side.
func (h *RenderHandler) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrMissingLogo):
		http.Error(w, "A logo file is required", http.StatusBadRequest)
	case errors.Is(err, mockup.ErrInvalidLogo):
		http.Error(w, "The uploaded logo could not be decoded", http.StatusBadRequest)
	default:
		h.logger.Error("Render request failed", zap.Error(err))
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}
