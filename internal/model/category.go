package model

import "time"

type Category struct {
	ID          int64     `json:"id"`
	HouseholdID int64     `json:"household_id"`
	Name        string    `json:"name"`
	IconKey     string    `json:"icon_key"`
	Position    int       `json:"position"`
	CreatedAt   time.Time `json:"created_at"`
}

// IconKeys is the fixed set of icons the client can render for a category.
var IconKeys = map[string]bool{
	"sparkles": true,
	"kitchen":  true,
	"living":   true,
	"bath":     true,
	"bed":      true,
	"baby":     true,
	"pet":      true,
	"car":      true,
	"work":     true,
	"coffee":   true,
	"music":    true,
	"outdoors": true,
}

// DefaultCategories are seeded into every new household.
var DefaultCategories = []struct {
	Name    string
	IconKey string
}{
	{"General", "sparkles"},
	{"Kitchen", "kitchen"},
	{"Living Room", "living"},
	{"Baby Care", "baby"},
	{"Pets", "pet"},
}
