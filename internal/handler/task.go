package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/choreboard/choreboard/internal/auth"
	"github.com/choreboard/choreboard/internal/model"
	"github.com/choreboard/choreboard/internal/points"
	"github.com/choreboard/choreboard/internal/push"
	"github.com/choreboard/choreboard/internal/store"
	"github.com/choreboard/choreboard/internal/websocket"
)

type TaskHandler struct {
	taskStore     *store.TaskStore
	categoryStore *store.CategoryStore
	memberStore   *store.MemberStore
	hub           *websocket.Hub
	notifier      *push.Notifier
	logger        *slog.Logger
}

func NewTaskHandler(
	ts *store.TaskStore,
	cs *store.CategoryStore,
	ms *store.MemberStore,
	hub *websocket.Hub,
	notifier *push.Notifier,
	logger *slog.Logger,
) *TaskHandler {
	return &TaskHandler{
		taskStore:     ts,
		categoryStore: cs,
		memberStore:   ms,
		hub:           hub,
		notifier:      notifier,
		logger:        logger,
	}
}

type taskRequest struct {
	Title        string                `json:"title"`
	CategoryID   int64                 `json:"category_id"`
	BasePoints   int                   `json:"base_points"`
	Checklist    []model.ChecklistItem `json:"checklist"`
	RequirePhoto bool                  `json:"require_photo"`
}

// taskResponse pairs a task with its point breakdown so clients never have to
// recompute the split themselves.
type taskResponse struct {
	*model.Task
	Breakdown points.Breakdown `json:"breakdown"`
}

func (h *TaskHandler) respond(task *model.Task) taskResponse {
	breakdown, _ := points.Calculate(*task)
	return taskResponse{Task: task, Breakdown: breakdown}
}

func (h *TaskHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req taskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}

	req.Title = strings.TrimSpace(req.Title)
	if req.Title == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "title is required"})
		return
	}

	// Points are validated before anything is written.
	if _, err := points.Calculate(model.Task{BasePoints: req.BasePoints, Checklist: req.Checklist}); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	householdID := auth.HouseholdID(r.Context())

	category, err := h.categoryStore.GetOrFirst(householdID, req.CategoryID)
	if err != nil {
		h.logger.Error("resolve category", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to resolve category"})
		return
	}
	if category == nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "category not found"})
		return
	}

	task, err := h.taskStore.Create(householdID, req.Title, category.ID, req.BasePoints, req.Checklist, req.RequirePhoto, auth.MemberID(r.Context()))
	if err != nil {
		h.logger.Error("create task", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to create task"})
		return
	}

	h.hub.Broadcast(householdID, websocket.NewMessage("task", "created", task.ID, nil))

	writeJSON(w, http.StatusCreated, h.respond(task))
}

func (h *TaskHandler) List(w http.ResponseWriter, r *http.Request) {
	tasks, err := h.taskStore.List(auth.HouseholdID(r.Context()))
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to list tasks"})
		return
	}

	resp := make([]taskResponse, 0, len(tasks))
	for i := range tasks {
		resp = append(resp, h.respond(&tasks[i]))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *TaskHandler) Get(w http.ResponseWriter, r *http.Request) {
	task, ok := h.ownedTask(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, h.respond(task))
}

func (h *TaskHandler) Update(w http.ResponseWriter, r *http.Request) {
	existing, ok := h.ownedTask(w, r)
	if !ok {
		return
	}
	if existing.Completed {
		writeJSON(w, http.StatusConflict, map[string]string{"error": "task already completed"})
		return
	}

	var req taskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}

	req.Title = strings.TrimSpace(req.Title)
	if req.Title == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "title is required"})
		return
	}

	if _, err := points.Calculate(model.Task{BasePoints: req.BasePoints, Checklist: req.Checklist}); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	householdID := auth.HouseholdID(r.Context())

	category, err := h.categoryStore.GetOrFirst(householdID, req.CategoryID)
	if err != nil || category == nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to resolve category"})
		return
	}

	task, err := h.taskStore.Update(existing.ID, req.Title, category.ID, req.BasePoints, req.Checklist, req.RequirePhoto)
	if err != nil {
		h.logger.Error("update task", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to update task"})
		return
	}

	h.hub.Broadcast(householdID, websocket.NewMessage("task", "updated", task.ID, nil))

	writeJSON(w, http.StatusOK, h.respond(task))
}

func (h *TaskHandler) Delete(w http.ResponseWriter, r *http.Request) {
	task, ok := h.ownedTask(w, r)
	if !ok {
		return
	}

	if err := h.taskStore.Delete(task.ID); err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to delete task"})
		return
	}

	h.hub.Broadcast(task.HouseholdID, websocket.NewMessage("task", "deleted", task.ID, nil))

	w.WriteHeader(http.StatusNoContent)
}

type completeTaskRequest struct {
	CheckedItemIDs []string `json:"checked_item_ids"`
	Photo          string   `json:"photo"`
}

// Complete evaluates the checklist against the task's requirements, then
// records the completion and awards points in one transaction.
func (h *TaskHandler) Complete(w http.ResponseWriter, r *http.Request) {
	task, ok := h.ownedTask(w, r)
	if !ok {
		return
	}
	if task.Completed {
		writeJSON(w, http.StatusConflict, map[string]string{"error": "task already completed"})
		return
	}

	var req completeTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}

	memberID := auth.MemberID(r.Context())
	eval := points.Evaluate(*task, req.CheckedItemIDs, req.Photo != "")

	rec, err := points.Commit(eval, req.Photo, memberID, time.Now())
	if err != nil {
		if errors.Is(err, points.ErrNotEligible) {
			writeJSON(w, http.StatusConflict, map[string]any{
				"error":         "completion requirements not met",
				"earned_points": eval.EarnedPoints,
			})
			return
		}
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
		return
	}

	completed, err := h.taskStore.Complete(task.ID, rec)
	if err != nil {
		if errors.Is(err, store.ErrAlreadyCompleted) {
			writeJSON(w, http.StatusConflict, map[string]string{"error": "task already completed"})
			return
		}
		h.logger.Error("complete task", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to complete task"})
		return
	}

	h.hub.Broadcast(task.HouseholdID, websocket.NewMessage("task", "completed", task.ID, map[string]any{
		"earned_points": rec.EarnedPoints,
		"completed_by":  memberID,
	}))
	h.hub.Broadcast(task.HouseholdID, websocket.NewMessage("member", "updated", memberID, nil))

	if h.notifier != nil {
		member, err := h.memberStore.GetByID(memberID)
		name := "Someone"
		if err == nil && member != nil {
			name = member.Name
		}
		h.notifier.NotifyHousehold(task.HouseholdID, memberID, push.Payload{
			Title: "Task completed",
			Body:  fmt.Sprintf("%s finished %q for %d points", name, task.Title, rec.EarnedPoints),
			Tag:   fmt.Sprintf("task-%d", task.ID),
		})
	}

	writeJSON(w, http.StatusOK, h.respond(completed))
}

// ownedTask loads the task from the id path param and checks it belongs to
// the caller's household.
func (h *TaskHandler) ownedTask(w http.ResponseWriter, r *http.Request) (*model.Task, bool) {
	id, err := parseIDParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return nil, false
	}

	task, err := h.taskStore.GetByID(id)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to get task"})
		return nil, false
	}
	if task == nil || task.HouseholdID != auth.HouseholdID(r.Context()) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "task not found"})
		return nil, false
	}
	return task, true
}
