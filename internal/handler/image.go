package handler

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/msomdec/campus-market/internal/domain"
	"github.com/msomdec/campus-market/internal/service"
	"github.com/msomdec/campus-market/internal/view"
	"github.com/starfederation/datastar-go/datastar"
)

// ImageHandler handles photo upload and retrieval.
type ImageHandler struct {
	images *service.ImageService
}

// NewImageHandler creates a new ImageHandler.
func NewImageHandler(images *service.ImageService) *ImageHandler {
	return &ImageHandler{images: images}
}

// uploadError is an upload rejected before it reaches the image service.
type uploadError struct {
	status  int
	message string
}

func (e *uploadError) Error() string { return e.message }

// HandleUpload stores a multipart "image" field and returns its reference.
// The listing editor posts its upload form here through datastar and gets
// the thumbnail appended to its photo list.
// POST /api/images
// Response: 201 {"ref": "/images/{key}"}
func (h *ImageHandler) HandleUpload(w http.ResponseWriter, r *http.Request) {
	ref, err := h.upload(w, r)
	if isDatastar(r) {
		patchUpload(w, r, ref, err)
		return
	}

	var rejected *uploadError
	switch {
	case errors.As(err, &rejected):
		writeError(w, rejected.status, rejected.message)
	case err != nil:
		writeServiceError(w, "upload image", err)
	default:
		writeJSON(w, http.StatusCreated, map[string]string{"ref": ref})
	}
}

func (h *ImageHandler) upload(w http.ResponseWriter, r *http.Request) (string, error) {
	session := SessionFromContext(r.Context())
	if session == nil {
		return "", domain.ErrNotSignedIn
	}

	r.Body = http.MaxBytesReader(w, r.Body, service.MaxImageSize+1<<20)
	if err := r.ParseMultipartForm(service.MaxImageSize); err != nil {
		return "", &uploadError{status: http.StatusRequestEntityTooLarge, message: "Photo is too large."}
	}

	file, _, err := r.FormFile("image")
	if err != nil {
		return "", &uploadError{status: http.StatusBadRequest, message: "No image file provided."}
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, service.MaxImageSize+1))
	if err != nil {
		return "", fmt.Errorf("read upload: %w", err)
	}
	return h.images.Upload(r.Context(), session, data)
}

func patchUpload(w http.ResponseWriter, r *http.Request, ref string, err error) {
	sse := datastar.NewSSE(w, r)
	var rejected *uploadError
	switch {
	case errors.As(err, &rejected):
		patchSignals(sse, map[string]any{"flash": rejected.message})
		return
	case err != nil:
		patchFlash(sse, "upload image", err)
		return
	}

	thumb := view.PhotoThumb(ref)
	if err := sse.PatchElementTempl(thumb, datastar.WithSelectorID(view.PhotoListID), datastar.WithModeAppend()); err != nil {
		slog.Error("append photo thumbnail", "error", err)
		return
	}
	patchSignals(sse, map[string]any{"upload": ref, "flash": ""})
}

// HandleServe serves photo bytes. Photos are public like the listings that
// reference them.
// GET /images/{key}
func (h *ImageHandler) HandleServe(w http.ResponseWriter, r *http.Request) {
	data, contentType, err := h.images.Get(r.Context(), r.PathValue("key"))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			http.Error(w, "Not Found", http.StatusNotFound)
			return
		}
		writeServiceError(w, "serve image", err)
		return
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Cache-Control", "public, max-age=31536000, immutable")
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.Write(data)
}
