package model

import "time"

// ChecklistItem is a sub-step of a task carrying its own point value.
// Non-optional items gate completion; optional items are bonus points.
type ChecklistItem struct {
	ID       string `json:"id"`
	Text     string `json:"text"`
	Points   int    `json:"points"`
	Optional bool   `json:"optional"`
}

// Task is a chore definition plus, once finished, its completion record.
// EarnedPoints, CompletionPhoto, CompletedBy and CompletedAt are set if and
// only if Completed is true. There is no undo: a completed task stays
// completed.
type Task struct {
	ID              int64           `json:"id"`
	HouseholdID     int64           `json:"household_id"`
	Title           string          `json:"title"`
	CategoryID      int64           `json:"category_id"`
	BasePoints      int             `json:"base_points"`
	Checklist       []ChecklistItem `json:"checklist"`
	RequirePhoto    bool            `json:"require_photo"`
	Completed       bool            `json:"completed"`
	EarnedPoints    *int            `json:"earned_points,omitempty"`
	CompletionPhoto *string         `json:"completion_photo,omitempty"`
	CompletedBy     *int64          `json:"completed_by,omitempty"`
	CompletedAt     *time.Time      `json:"completed_at,omitempty"`
	CreatedBy       int64           `json:"created_by"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}
