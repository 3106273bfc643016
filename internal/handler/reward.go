package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/choreboard/choreboard/internal/auth"
	"github.com/choreboard/choreboard/internal/model"
	"github.com/choreboard/choreboard/internal/push"
	"github.com/choreboard/choreboard/internal/store"
	"github.com/choreboard/choreboard/internal/websocket"
)

type RewardHandler struct {
	rewardStore *store.RewardStore
	memberStore *store.MemberStore
	hub         *websocket.Hub
	notifier    *push.Notifier
	logger      *slog.Logger
}

func NewRewardHandler(rs *store.RewardStore, ms *store.MemberStore, hub *websocket.Hub, notifier *push.Notifier, logger *slog.Logger) *RewardHandler {
	return &RewardHandler{
		rewardStore: rs,
		memberStore: ms,
		hub:         hub,
		notifier:    notifier,
		logger:      logger,
	}
}

type rewardRequest struct {
	Title     string `json:"title"`
	Icon      string `json:"icon"`
	PointCost int    `json:"point_cost"`
	Active    bool   `json:"active"`
}

func (h *RewardHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req rewardRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}

	req.Title = strings.TrimSpace(req.Title)
	if req.Title == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "title is required"})
		return
	}
	if req.PointCost < 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "point_cost must be >= 0"})
		return
	}

	householdID := auth.HouseholdID(r.Context())

	reward, err := h.rewardStore.Create(householdID, req.Title, req.Icon, req.PointCost, req.Active)
	if err != nil {
		h.logger.Error("create reward", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to create reward"})
		return
	}

	h.hub.Broadcast(householdID, websocket.NewMessage("reward", "created", reward.ID, nil))

	writeJSON(w, http.StatusCreated, reward)
}

func (h *RewardHandler) List(w http.ResponseWriter, r *http.Request) {
	rewards, err := h.rewardStore.List(auth.HouseholdID(r.Context()))
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to list rewards"})
		return
	}
	if rewards == nil {
		rewards = []model.Reward{}
	}
	writeJSON(w, http.StatusOK, rewards)
}

func (h *RewardHandler) Update(w http.ResponseWriter, r *http.Request) {
	reward, ok := h.ownedReward(w, r)
	if !ok {
		return
	}

	var req rewardRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}

	req.Title = strings.TrimSpace(req.Title)
	if req.Title == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "title is required"})
		return
	}
	if req.PointCost < 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "point_cost must be >= 0"})
		return
	}

	updated, err := h.rewardStore.Update(reward.ID, req.Title, req.Icon, req.PointCost, req.Active)
	if err != nil {
		h.logger.Error("update reward", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to update reward"})
		return
	}

	h.hub.Broadcast(reward.HouseholdID, websocket.NewMessage("reward", "updated", reward.ID, nil))

	writeJSON(w, http.StatusOK, updated)
}

func (h *RewardHandler) Delete(w http.ResponseWriter, r *http.Request) {
	reward, ok := h.ownedReward(w, r)
	if !ok {
		return
	}

	if err := h.rewardStore.Delete(reward.ID); err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to delete reward"})
		return
	}

	h.hub.Broadcast(reward.HouseholdID, websocket.NewMessage("reward", "deleted", reward.ID, nil))

	w.WriteHeader(http.StatusNoContent)
}

// Redeem spends the caller's points on a reward. The deduction and the
// redemption record are written in one transaction so a balance can never go
// negative.
func (h *RewardHandler) Redeem(w http.ResponseWriter, r *http.Request) {
	reward, ok := h.ownedReward(w, r)
	if !ok {
		return
	}
	if !reward.Active {
		writeJSON(w, http.StatusConflict, map[string]string{"error": "reward is not active"})
		return
	}

	memberID := auth.MemberID(r.Context())

	redemption, err := h.rewardStore.Redeem(reward.ID, memberID, reward.PointCost)
	if err != nil {
		if errors.Is(err, store.ErrInsufficientPoints) {
			writeJSON(w, http.StatusConflict, map[string]string{"error": "insufficient points"})
			return
		}
		h.logger.Error("redeem reward", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to redeem reward"})
		return
	}

	h.hub.Broadcast(reward.HouseholdID, websocket.NewMessage("reward", "redeemed", reward.ID, map[string]any{
		"member_id":    memberID,
		"points_spent": redemption.PointsSpent,
	}))
	h.hub.Broadcast(reward.HouseholdID, websocket.NewMessage("member", "updated", memberID, nil))

	if h.notifier != nil {
		member, err := h.memberStore.GetByID(memberID)
		name := "Someone"
		if err == nil && member != nil {
			name = member.Name
		}
		h.notifier.NotifyHousehold(reward.HouseholdID, memberID, push.Payload{
			Title: "Reward redeemed",
			Body:  fmt.Sprintf("%s redeemed %q for %d points", name, reward.Title, redemption.PointsSpent),
			Tag:   fmt.Sprintf("reward-%d", reward.ID),
		})
	}

	writeJSON(w, http.StatusCreated, redemption)
}

// Redemptions lists the caller's own redemption history.
func (h *RewardHandler) Redemptions(w http.ResponseWriter, r *http.Request) {
	redemptions, err := h.rewardStore.ListRedemptionsByMember(auth.MemberID(r.Context()))
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to list redemptions"})
		return
	}
	if redemptions == nil {
		redemptions = []model.RewardRedemption{}
	}
	writeJSON(w, http.StatusOK, redemptions)
}

func (h *RewardHandler) ownedReward(w http.ResponseWriter, r *http.Request) (*model.Reward, bool) {
	id, err := parseIDParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return nil, false
	}

	reward, err := h.rewardStore.GetByID(id)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to get reward"})
		return nil, false
	}
	if reward == nil || reward.HouseholdID != auth.HouseholdID(r.Context()) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "reward not found"})
		return nil, false
	}
	return reward, true
}
