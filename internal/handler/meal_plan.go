package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"slices"
	"strings"

	"github.com/dukerupert/recipebox/internal/auth"
	"github.com/dukerupert/recipebox/internal/model"
	"github.com/dukerupert/recipebox/internal/store"
	"github.com/dukerupert/recipebox/internal/websocket"
)

type MealPlanHandler struct {
	store  *store.MealPlanStore
	hub    *websocket.Hub
	logger *slog.Logger
}

func NewMealPlanHandler(s *store.MealPlanStore, hub *websocket.Hub, logger *slog.Logger) *MealPlanHandler {
	return &MealPlanHandler{store: s, hub: hub, logger: logger}
}

func (h *MealPlanHandler) broadcast(msg websocket.Message) {
	if h.hub != nil {
		h.hub.Broadcast(msg)
	}
}

// List returns the meal plans between start and end inclusive, each with its
// linked recipe summary when one still exists.
func (h *MealPlanHandler) List(w http.ResponseWriter, r *http.Request) {
	start := r.URL.Query().Get("start")
	end := r.URL.Query().Get("end")
	if !validDate(start) || !validDate(end) {
		writeError(w, http.StatusBadRequest, "start and end must be YYYY-MM-DD dates")
		return
	}

	plans, err := h.store.ListByDateRange(auth.UserID(r.Context()), start, end)
	if err != nil {
		h.logger.Error("list meal plans", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list meal plans")
		return
	}
	if plans == nil {
		plans = []model.MealPlan{}
	}
	writeJSON(w, http.StatusOK, plans)
}

type mealPlanRequest struct {
	Date       string  `json:"date"`
	MealType   string  `json:"meal_type"`
	RecipeID   *string `json:"recipe_id"`
	CustomText string  `json:"custom_text"`
}

func (h *MealPlanHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req mealPlanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	if !validDate(req.Date) {
		writeError(w, http.StatusBadRequest, "date must be YYYY-MM-DD")
		return
	}
	if !slices.Contains(model.MealTypes, req.MealType) {
		writeError(w, http.StatusBadRequest, "meal_type must be breakfast, lunch or dinner")
		return
	}
	req.CustomText = strings.TrimSpace(req.CustomText)
	hasRecipe := req.RecipeID != nil && *req.RecipeID != ""
	if !hasRecipe && req.CustomText == "" {
		writeError(w, http.StatusBadRequest, "recipe_id or custom_text is required")
		return
	}
	if !hasRecipe {
		req.RecipeID = nil
	}

	plan, err := h.store.Create(auth.UserID(r.Context()), req.Date, req.MealType, req.RecipeID, req.CustomText)
	if err != nil {
		h.logger.Error("create meal plan", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to create meal plan")
		return
	}

	h.broadcast(websocket.NewMessage("meal_plan", "created", plan.ID, nil))
	writeJSON(w, http.StatusCreated, plan)
}

func (h *MealPlanHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	userID := auth.UserID(r.Context())

	existing, err := h.store.GetByID(id, userID)
	if err != nil {
		h.logger.Error("get meal plan", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to delete meal plan")
		return
	}
	if existing == nil {
		writeError(w, http.StatusNotFound, "meal plan not found")
		return
	}

	if err := h.store.Delete(id, userID); err != nil {
		h.logger.Error("delete meal plan", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to delete meal plan")
		return
	}

	h.broadcast(websocket.NewMessage("meal_plan", "deleted", id, nil))
	w.WriteHeader(http.StatusNoContent)
}
