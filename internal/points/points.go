// Package points holds the point arithmetic and completion rules for tasks.
// It is pure: persistence and broadcasting are the caller's job.
package points

import (
	"errors"
	"fmt"
	"time"

	"github.com/choreboard/choreboard/internal/model"
)

// ErrInvalidInput reports authoring data the calculator refuses to price
// (negative base or item points). Callers must reject the task before any
// write, never clamp silently.
var ErrInvalidInput = errors.New("invalid task input")

// ErrNotEligible reports a commit attempt whose evaluation does not satisfy
// the task's requirements.
var ErrNotEligible = errors.New("completion requirements not met")

// Breakdown is the displayable point preview for a task definition.
type Breakdown struct {
	Required      int `json:"required"`
	Bonus         int `json:"bonus"`
	TotalPossible int `json:"total_possible"`
}

// Calculate prices a task definition: required points come from the base plus
// all non-optional checklist items, bonus from optional items. An empty
// checklist yields Required == BasePoints and Bonus == 0.
func Calculate(task model.Task) (Breakdown, error) {
	if task.BasePoints < 0 {
		return Breakdown{}, fmt.Errorf("%w: base points must be >= 0", ErrInvalidInput)
	}
	b := Breakdown{Required: task.BasePoints}
	for _, item := range task.Checklist {
		if item.Points < 0 {
			return Breakdown{}, fmt.Errorf("%w: checklist item %q has negative points", ErrInvalidInput, item.ID)
		}
		if item.Optional {
			b.Bonus += item.Points
		} else {
			b.Required += item.Points
		}
	}
	b.TotalPossible = b.Required + b.Bonus
	return b, nil
}

// Evaluation is the outcome of checking a task's requirements against the
// user's current selection.
type Evaluation struct {
	Eligible     bool `json:"eligible"`
	EarnedPoints int  `json:"earned_points"`
}

// Evaluate determines completion eligibility and the earned-points value for
// a selection. Eligible requires every non-optional checklist item checked
// and, when the task demands photo proof, a photo. EarnedPoints is the base
// plus the points of every checked item, optional or not; it is computed even
// when not eligible so callers can preview the running total.
func Evaluate(task model.Task, checkedItemIDs []string, hasPhoto bool) Evaluation {
	checked := make(map[string]bool, len(checkedItemIDs))
	for _, id := range checkedItemIDs {
		checked[id] = true
	}

	eligible := !task.RequirePhoto || hasPhoto
	earned := task.BasePoints
	for _, item := range task.Checklist {
		if checked[item.ID] {
			earned += item.Points
		} else if !item.Optional {
			eligible = false
		}
	}
	return Evaluation{Eligible: eligible, EarnedPoints: earned}
}

// CompletionRecord is what gets merged onto the task document when a
// completion commits.
type CompletionRecord struct {
	EarnedPoints int
	Photo        string // empty when no proof was attached
	CompletedBy  int64
	CompletedAt  time.Time
}

// Commit turns an eligible evaluation into a completion record. It fails with
// ErrNotEligible otherwise; the caller must not write anything in that case.
func Commit(eval Evaluation, photo string, memberID int64, now time.Time) (CompletionRecord, error) {
	if !eval.Eligible {
		return CompletionRecord{}, ErrNotEligible
	}
	return CompletionRecord{
		EarnedPoints: eval.EarnedPoints,
		Photo:        photo,
		CompletedBy:  memberID,
		CompletedAt:  now.UTC(),
	}, nil
}
