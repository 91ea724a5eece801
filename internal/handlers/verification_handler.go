package handlers

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"schoolfit/internal/service"
)

// VerificationHandler accepts exercise photos for form checks
type VerificationHandler struct {
	verificationService *service.VerificationService
	maxUploadSize       int64
}

// NewVerificationHandler creates a new verification handler
func NewVerificationHandler(verificationService *service.VerificationService, maxUploadSize int64) *VerificationHandler {
	return &VerificationHandler{verificationService: verificationService, maxUploadSize: maxUploadSize}
}

// Verify reads a multipart form with an "image" file and an "exercise_type" field
func (h *VerificationHandler) Verify(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize)
	if err := r.ParseMultipartForm(h.maxUploadSize); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			respondWithError(w, http.StatusRequestEntityTooLarge, "Image is too large", "", nil)
			return
		}
		respondWithError(w, http.StatusBadRequest, ErrInvalidRequestBody, "", nil)
		return
	}

	file, _, err := r.FormFile("image")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Image is required", "", nil)
		return
	}
	defer file.Close()

	image, err := io.ReadAll(file)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Failed to read image", "Failed to read upload", err)
		return
	}

	format, ok := imageFormat(image)
	if !ok {
		respondWithError(w, http.StatusUnsupportedMediaType, "Image must be JPEG, PNG or WebP", "", nil)
		return
	}

	result, err := h.verificationService.Verify(r.Context(), currentUser(r), r.FormValue("exercise_type"), format, image)
	if err != nil {
		respondWithServiceError(w, "Failed to verify workout", err)
		return
	}
	respondJSON(w, http.StatusOK, result)
}

// imageFormat sniffs the upload and returns the image subtype, e.g. "jpeg"
func imageFormat(data []byte) (string, bool) {
	contentType := http.DetectContentType(data)
	switch contentType {
	case "image/jpeg", "image/png", "image/webp":
		return strings.TrimPrefix(contentType, "image/"), true
	}
	return "", false
}
