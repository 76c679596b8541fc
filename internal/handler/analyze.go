package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/dukerupert/recipebox/internal/imagestore"
	"github.com/dukerupert/recipebox/internal/vision"
)

const maxAnalyzeImages = 2

type AnalyzeHandler struct {
	extractor vision.Extractor
	logger    *slog.Logger
}

func NewAnalyzeHandler(extractor vision.Extractor, logger *slog.Logger) *AnalyzeHandler {
	return &AnalyzeHandler{extractor: extractor, logger: logger}
}

type analyzeRequest struct {
	Images []struct {
		Data   string `json:"data"`
		Format string `json:"format"`
	} `json:"images"`
}

// Analyze runs photo-to-recipe extraction over one or two base64 images.
func (h *AnalyzeHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	if h.extractor == nil {
		writeError(w, http.StatusServiceUnavailable, "recipe analysis is not configured")
		return
	}

	var req analyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if len(req.Images) == 0 || len(req.Images) > maxAnalyzeImages {
		writeError(w, http.StatusBadRequest, "between 1 and 2 images are required")
		return
	}

	images := make([]vision.Image, 0, len(req.Images))
	for _, in := range req.Images {
		data, err := imagestore.DecodeDataURI(in.Data)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid image data")
			return
		}
		format := in.Format
		if format == "" {
			format = "jpeg"
		}
		images = append(images, vision.Image{Data: data, Format: strings.TrimPrefix(format, "image/")})
	}

	ext, err := h.extractor.Extract(r.Context(), images)
	if err != nil {
		h.logger.Error("analyze recipe image", "error", err)
		writeError(w, http.StatusBadGateway, "failed to analyze image")
		return
	}
	if ext.Error != "" {
		writeError(w, http.StatusUnprocessableEntity, ext.Error)
		return
	}
	if ext.IngredientTags == nil {
		ext.IngredientTags = []string{}
	}

	writeJSON(w, http.StatusOK, ext)
}
