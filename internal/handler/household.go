package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/choreboard/choreboard/internal/auth"
	"github.com/choreboard/choreboard/internal/model"
	"github.com/choreboard/choreboard/internal/store"
	"github.com/choreboard/choreboard/internal/websocket"
)

type HouseholdHandler struct {
	householdStore *store.HouseholdStore
	memberStore    *store.MemberStore
	categoryStore  *store.CategoryStore
	userStore      *store.UserStore
	hub            *websocket.Hub
	logger         *slog.Logger
}

func NewHouseholdHandler(
	hs *store.HouseholdStore,
	ms *store.MemberStore,
	cs *store.CategoryStore,
	us *store.UserStore,
	hub *websocket.Hub,
	logger *slog.Logger,
) *HouseholdHandler {
	return &HouseholdHandler{
		householdStore: hs,
		memberStore:    ms,
		categoryStore:  cs,
		userStore:      us,
		hub:            hub,
		logger:         logger,
	}
}

type createHouseholdRequest struct {
	Name       string `json:"name"`
	MemberName string `json:"member_name"`
	Avatar     string `json:"avatar"`
}

// Create makes a new household with the caller as its admin, seeding the
// default categories.
func (h *HouseholdHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r.Context())
	if auth.HouseholdID(r.Context()) != 0 {
		writeJSON(w, http.StatusConflict, map[string]string{"error": "already in a household"})
		return
	}

	var req createHouseholdRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "name is required"})
		return
	}

	memberName := strings.TrimSpace(req.MemberName)
	if memberName == "" {
		user, err := h.userStore.GetByID(userID)
		if err != nil || user == nil {
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
			return
		}
		memberName = user.Name
	}

	household, err := h.householdStore.Create(req.Name, userID)
	if err != nil {
		h.logger.Error("create household", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to create household"})
		return
	}

	if _, err := h.memberStore.Create(household.ID, userID, memberName, req.Avatar, model.RoleAdmin); err != nil {
		h.logger.Error("create member", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to create member"})
		return
	}

	if err := h.userStore.SetHousehold(userID, household.ID); err != nil {
		h.logger.Error("set household", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
		return
	}

	if err := h.categoryStore.SeedDefaults(household.ID); err != nil {
		h.logger.Error("seed categories", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to seed categories"})
		return
	}

	writeJSON(w, http.StatusCreated, household)
}

type joinHouseholdRequest struct {
	InviteCode string `json:"invite_code"`
	MemberName string `json:"member_name"`
	Avatar     string `json:"avatar"`
}

// Join adds the caller to the household matching the invite code.
func (h *HouseholdHandler) Join(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r.Context())
	if auth.HouseholdID(r.Context()) != 0 {
		writeJSON(w, http.StatusConflict, map[string]string{"error": "already in a household"})
		return
	}

	var req joinHouseholdRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}

	if strings.TrimSpace(req.InviteCode) == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invite_code is required"})
		return
	}

	household, err := h.householdStore.GetByInviteCode(req.InviteCode)
	if err != nil {
		h.logger.Error("invite lookup", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
		return
	}
	if household == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "invalid invite code"})
		return
	}

	memberName := strings.TrimSpace(req.MemberName)
	if memberName == "" {
		user, err := h.userStore.GetByID(userID)
		if err != nil || user == nil {
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
			return
		}
		memberName = user.Name
	}

	member, err := h.memberStore.Create(household.ID, userID, memberName, req.Avatar, model.RoleMember)
	if err != nil {
		h.logger.Error("create member", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to join household"})
		return
	}

	if err := h.userStore.SetHousehold(userID, household.ID); err != nil {
		h.logger.Error("set household", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
		return
	}

	h.hub.Broadcast(household.ID, websocket.NewMessage("member", "joined", member.ID, nil))

	writeJSON(w, http.StatusOK, household)
}

func (h *HouseholdHandler) Get(w http.ResponseWriter, r *http.Request) {
	household, err := h.householdStore.GetByID(auth.HouseholdID(r.Context()))
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to get household"})
		return
	}
	if household == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "household not found"})
		return
	}
	writeJSON(w, http.StatusOK, household)
}

type updateHouseholdRequest struct {
	Name string `json:"name"`
}

func (h *HouseholdHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req updateHouseholdRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "name is required"})
		return
	}

	householdID := auth.HouseholdID(r.Context())
	household, err := h.householdStore.Update(householdID, req.Name)
	if err != nil {
		h.logger.Error("update household", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to update household"})
		return
	}

	h.hub.Broadcast(householdID, websocket.NewMessage("household", "updated", householdID, nil))

	writeJSON(w, http.StatusOK, household)
}
