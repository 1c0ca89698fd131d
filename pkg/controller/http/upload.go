package http

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/m-mizutani/ctxlog"
	"github.com/secmon-lab/civicsnap/pkg/domain/model"
	"github.com/secmon-lab/civicsnap/pkg/repository"
	"github.com/secmon-lab/civicsnap/pkg/usecase"
)

// UploadField is the multipart field carrying the image
const UploadField = "image"

// multipart overhead allowed on top of the image itself
const uploadOverhead = 1 << 20

// UploadHandler handles image upload and serving
type UploadHandler struct {
	imageUC   usecase.ImageUseCase
	publicURL string
}

// NewUploadHandler creates an upload handler. publicURL may be empty to
// derive image URLs from each request.
func NewUploadHandler(imageUC usecase.ImageUseCase, publicURL string) *UploadHandler {
	return &UploadHandler{imageUC: imageUC, publicURL: publicURL}
}

// HandleUpload handles POST /api/upload/image
func (h *UploadHandler) HandleUpload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, usecase.MaxImageSize+uploadOverhead)

	file, header, err := r.FormFile(UploadField)
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			writeError(w, r, usecase.ErrImageTooLarge)
			return
		}
		writeError(w, r, usecase.ErrNoImage)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, usecase.MaxImageSize+1))
	if err != nil {
		writeError(w, r, err)
		return
	}

	image, err := h.imageUC.Upload(r.Context(), header.Filename, data)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeData(w, http.StatusOK, &model.UploadResult{
		ImageURL: GetPublicURL(r, h.publicURL) + "/uploads/" + image.Name,
	})
}

// HandleServe handles GET /uploads/{name}
func (h *UploadHandler) HandleServe(w http.ResponseWriter, r *http.Request) {
	image, err := h.imageUC.Get(r.Context(), chi.URLParam(r, "name"))
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			ctxlog.From(r.Context()).Error("Failed to read image", "error", err)
		}
		http.NotFound(w, r)
		return
	}

	w.Header().Set("Content-Type", image.ContentType)
	w.Header().Set("Content-Length", strconv.Itoa(len(image.Data)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(image.Data); err != nil {
		ctxlog.From(r.Context()).Warn("Failed to write image", "error", err)
	}
}
