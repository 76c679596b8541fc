package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/dukerupert/recipebox/internal/auth"
	"github.com/dukerupert/recipebox/internal/model"
	"github.com/dukerupert/recipebox/internal/store"
	"github.com/dukerupert/recipebox/internal/websocket"
)

type RecipeHandler struct {
	store  *store.RecipeStore
	hub    *websocket.Hub
	logger *slog.Logger
}

func NewRecipeHandler(s *store.RecipeStore, hub *websocket.Hub, logger *slog.Logger) *RecipeHandler {
	return &RecipeHandler{store: s, hub: hub, logger: logger}
}

func (h *RecipeHandler) broadcast(msg websocket.Message) {
	if h.hub != nil {
		h.hub.Broadcast(msg)
	}
}

type recipeRequest struct {
	Title        string      `json:"title"`
	BodyText     string      `json:"body_text"`
	Memo         string      `json:"memo"`
	Tags         []model.Tag `json:"tags"`
	ThumbnailURL string      `json:"thumbnail_url"`
	ImageURL     string      `json:"image_url"`
}

func (req *recipeRequest) input() (store.RecipeInput, string) {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return store.RecipeInput{}, "title is required"
	}
	for _, tag := range req.Tags {
		if tag.Type != model.TagSituation && tag.Type != model.TagIngredient {
			return store.RecipeInput{}, "invalid tag type: " + tag.Type
		}
	}
	return store.RecipeInput{
		Title:        title,
		BodyText:     req.BodyText,
		Memo:         req.Memo,
		Tags:         req.Tags,
		ThumbnailURL: req.ThumbnailURL,
		ImageURL:     req.ImageURL,
	}, ""
}

func (h *RecipeHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req recipeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	in, problem := req.input()
	if problem != "" {
		writeError(w, http.StatusBadRequest, problem)
		return
	}

	recipe, err := h.store.Create(auth.UserID(r.Context()), in)
	if err != nil {
		h.logger.Error("create recipe", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to create recipe")
		return
	}

	h.broadcast(websocket.NewMessage("recipe", "created", recipe.ID, nil))
	writeJSON(w, http.StatusCreated, recipe)
}

func (h *RecipeHandler) List(w http.ResponseWriter, r *http.Request) {
	recipes, err := h.store.ListByUser(auth.UserID(r.Context()))
	if err != nil {
		h.logger.Error("list recipes", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list recipes")
		return
	}
	if recipes == nil {
		recipes = []model.Recipe{}
	}
	writeJSON(w, http.StatusOK, recipes)
}

func (h *RecipeHandler) Get(w http.ResponseWriter, r *http.Request) {
	recipe, err := h.store.GetByID(r.PathValue("id"), auth.UserID(r.Context()))
	if err != nil {
		h.logger.Error("get recipe", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to get recipe")
		return
	}
	if recipe == nil {
		writeError(w, http.StatusNotFound, "recipe not found")
		return
	}
	writeJSON(w, http.StatusOK, recipe)
}

func (h *RecipeHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	userID := auth.UserID(r.Context())

	existing, err := h.store.GetByID(id, userID)
	if err != nil {
		h.logger.Error("get recipe", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to update recipe")
		return
	}
	if existing == nil {
		writeError(w, http.StatusNotFound, "recipe not found")
		return
	}

	var req recipeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	in, problem := req.input()
	if problem != "" {
		writeError(w, http.StatusBadRequest, problem)
		return
	}

	recipe, err := h.store.Update(id, userID, in)
	if err != nil {
		h.logger.Error("update recipe", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to update recipe")
		return
	}

	h.broadcast(websocket.NewMessage("recipe", "updated", recipe.ID, nil))
	writeJSON(w, http.StatusOK, recipe)
}

func (h *RecipeHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	userID := auth.UserID(r.Context())

	existing, err := h.store.GetByID(id, userID)
	if err != nil {
		h.logger.Error("get recipe", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to delete recipe")
		return
	}
	if existing == nil {
		writeError(w, http.StatusNotFound, "recipe not found")
		return
	}

	if err := h.store.Delete(id, userID); err != nil {
		h.logger.Error("delete recipe", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to delete recipe")
		return
	}

	h.broadcast(websocket.NewMessage("recipe", "deleted", id, nil))
	w.WriteHeader(http.StatusNoContent)
}

func (h *RecipeHandler) Clear(w http.ResponseWriter, r *http.Request) {
	count, err := h.store.DeleteAllByUser(auth.UserID(r.Context()))
	if err != nil {
		h.logger.Error("clear recipes", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to clear recipes")
		return
	}

	h.broadcast(websocket.NewMessage("recipe", "cleared", "", nil))
	writeJSON(w, http.StatusOK, map[string]int64{"deleted": count})
}
