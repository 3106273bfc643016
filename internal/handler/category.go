package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/choreboard/choreboard/internal/auth"
	"github.com/choreboard/choreboard/internal/model"
	"github.com/choreboard/choreboard/internal/store"
	"github.com/choreboard/choreboard/internal/websocket"
)

type CategoryHandler struct {
	categoryStore *store.CategoryStore
	hub           *websocket.Hub
	logger        *slog.Logger
}

func NewCategoryHandler(cs *store.CategoryStore, hub *websocket.Hub, logger *slog.Logger) *CategoryHandler {
	return &CategoryHandler{categoryStore: cs, hub: hub, logger: logger}
}

func (h *CategoryHandler) List(w http.ResponseWriter, r *http.Request) {
	categories, err := h.categoryStore.List(auth.HouseholdID(r.Context()))
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to list categories"})
		return
	}
	if categories == nil {
		categories = []model.Category{}
	}
	writeJSON(w, http.StatusOK, categories)
}

type categoryRequest struct {
	Name    string `json:"name"`
	IconKey string `json:"icon_key"`
}

func (h *CategoryHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req categoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "name is required"})
		return
	}
	if !model.IconKeys[req.IconKey] {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "unknown icon_key"})
		return
	}

	householdID := auth.HouseholdID(r.Context())

	category, err := h.categoryStore.Create(householdID, req.Name, req.IconKey)
	if err != nil {
		h.logger.Error("create category", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to create category"})
		return
	}

	h.hub.Broadcast(householdID, websocket.NewMessage("category", "created", category.ID, nil))

	writeJSON(w, http.StatusCreated, category)
}

// Delete removes a category. The last remaining category is never removed;
// tasks pointing at a removed category fall back to the first one.
func (h *CategoryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return
	}

	householdID := auth.HouseholdID(r.Context())

	if err := h.categoryStore.Delete(householdID, id); err != nil {
		if errors.Is(err, store.ErrLastCategory) {
			writeJSON(w, http.StatusConflict, map[string]string{"error": "cannot remove the last category"})
			return
		}
		h.logger.Error("delete category", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to delete category"})
		return
	}

	h.hub.Broadcast(householdID, websocket.NewMessage("category", "deleted", id, nil))

	w.WriteHeader(http.StatusNoContent)
}
