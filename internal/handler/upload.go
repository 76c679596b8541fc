package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/dukerupert/recipebox/internal/imagestore"
)

// 10 MB decoded; phone photos compressed client-side stay well under this.
const maxUploadBytes = 10 << 20

type UploadHandler struct {
	uploader *imagestore.Uploader
	logger   *slog.Logger
}

func NewUploadHandler(uploader *imagestore.Uploader, logger *slog.Logger) *UploadHandler {
	return &UploadHandler{uploader: uploader, logger: logger}
}

type uploadRequest struct {
	FileBase64 string `json:"fileBase64"`
	FileName   string `json:"fileName"`
	FileType   string `json:"fileType"`
}

func (h *UploadHandler) Upload(w http.ResponseWriter, r *http.Request) {
	if h.uploader == nil || !h.uploader.Enabled() {
		writeError(w, http.StatusServiceUnavailable, "image storage is not configured")
		return
	}

	var req uploadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if req.FileBase64 == "" || req.FileName == "" {
		writeError(w, http.StatusBadRequest, "fileBase64 and fileName are required")
		return
	}

	data, err := imagestore.DecodeDataURI(req.FileBase64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid image data")
		return
	}
	if len(data) > maxUploadBytes {
		writeError(w, http.StatusRequestEntityTooLarge, "image too large")
		return
	}

	fileType := req.FileType
	if fileType == "" {
		fileType = "image/jpeg"
	}

	url, err := h.uploader.Upload(r.Context(), data, req.FileName, fileType)
	if err != nil {
		h.logger.Error("upload image", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to upload image")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"publicUrl": url})
}
