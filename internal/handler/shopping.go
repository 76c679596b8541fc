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

type ShoppingHandler struct {
	store  *store.ShoppingStore
	hub    *websocket.Hub
	logger *slog.Logger
}

func NewShoppingHandler(s *store.ShoppingStore, hub *websocket.Hub, logger *slog.Logger) *ShoppingHandler {
	return &ShoppingHandler{store: s, hub: hub, logger: logger}
}

func (h *ShoppingHandler) broadcast(msg websocket.Message) {
	if h.hub != nil {
		h.hub.Broadcast(msg)
	}
}

func (h *ShoppingHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	req.Text = strings.TrimSpace(req.Text)
	if req.Text == "" {
		writeError(w, http.StatusBadRequest, "text is required")
		return
	}

	item, err := h.store.Create(auth.UserID(r.Context()), req.Text)
	if err != nil {
		h.logger.Error("create shopping item", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to create shopping item")
		return
	}

	h.broadcast(websocket.NewMessage("shopping_item", "created", item.ID, nil))
	writeJSON(w, http.StatusCreated, item)
}

func (h *ShoppingHandler) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.store.ListByUser(auth.UserID(r.Context()))
	if err != nil {
		h.logger.Error("list shopping items", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list shopping items")
		return
	}
	if items == nil {
		items = []model.ShoppingItem{}
	}
	writeJSON(w, http.StatusOK, items)
}

func (h *ShoppingHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	userID := auth.UserID(r.Context())

	item, err := h.store.ToggleCompleted(id, userID)
	if err != nil {
		h.logger.Error("toggle shopping item", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to toggle shopping item")
		return
	}
	if item == nil {
		writeError(w, http.StatusNotFound, "shopping item not found")
		return
	}

	h.broadcast(websocket.NewMessage("shopping_item", "updated", item.ID, nil))
	writeJSON(w, http.StatusOK, item)
}

func (h *ShoppingHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	userID := auth.UserID(r.Context())

	existing, err := h.store.GetByID(id, userID)
	if err != nil {
		h.logger.Error("get shopping item", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to delete shopping item")
		return
	}
	if existing == nil {
		writeError(w, http.StatusNotFound, "shopping item not found")
		return
	}

	if err := h.store.Delete(id, userID); err != nil {
		h.logger.Error("delete shopping item", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to delete shopping item")
		return
	}

	h.broadcast(websocket.NewMessage("shopping_item", "deleted", id, nil))
	w.WriteHeader(http.StatusNoContent)
}

func (h *ShoppingHandler) Clear(w http.ResponseWriter, r *http.Request) {
	count, err := h.store.DeleteAllByUser(auth.UserID(r.Context()))
	if err != nil {
		h.logger.Error("clear shopping items", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to clear shopping items")
		return
	}

	h.broadcast(websocket.NewMessage("shopping_item", "cleared", "", nil))
	writeJSON(w, http.StatusOK, map[string]int64{"deleted": count})
}
