package model

import "time"

const (
	RoleAdmin  = "admin"
	RoleMember = "member"
)

// Member is a user's profile inside one household. Points is only ever
// mutated through signed increments at the storage layer.
type Member struct {
	ID             int64     `json:"id"`
	HouseholdID    int64     `json:"household_id"`
	UserID         int64     `json:"user_id"`
	Name           string    `json:"name"`
	Avatar         string    `json:"avatar"`
	Role           string    `json:"role"`
	Points         int       `json:"points"`
	TasksCompleted int       `json:"tasks_completed"`
	Streak         int       `json:"streak"`
	JoinedAt       time.Time `json:"joined_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}
