package store

import (
	"errors"
	"testing"
	"time"

	"github.com/choreboard/choreboard/internal/model"
	"github.com/choreboard/choreboard/internal/points"
)

func taskFixture(t *testing.T) (fixture, *TaskStore, int64) {
	t.Helper()
	db := openTestDB(t)
	f := seedHousehold(t, db)

	categories := NewCategoryStore(db)
	if err := categories.SeedDefaults(f.household.ID); err != nil {
		t.Fatalf("seed categories: %v", err)
	}
	cats, err := categories.List(f.household.ID)
	if err != nil {
		t.Fatalf("list categories: %v", err)
	}
	return f, NewTaskStore(db), cats[0].ID
}

func TestTaskCreateRoundTrip(t *testing.T) {
	f, ts, catID := taskFixture(t)

	checklist := []model.ChecklistItem{
		{ID: "wash", Text: "Wash dishes", Points: 10},
		{Text: "Dry dishes", Points: 5, Optional: true},
	}
	task, err := ts.Create(f.household.ID, "Kitchen cleanup", catID, 20, checklist, true, f.member.ID)
	if err != nil {
		t.Fatalf("create task: %v", err)
	}

	if task.Title != "Kitchen cleanup" || task.BasePoints != 20 || !task.RequirePhoto {
		t.Errorf("task = %+v", task)
	}
	if task.Completed {
		t.Error("new task should not be completed")
	}
	if len(task.Checklist) != 2 {
		t.Fatalf("checklist length = %d, want 2", len(task.Checklist))
	}
	if task.Checklist[0].ID != "wash" {
		t.Errorf("item 0 id = %q, want %q", task.Checklist[0].ID, "wash")
	}
	// Items without an id get one assigned.
	if task.Checklist[1].ID == "" {
		t.Error("item 1 should have a generated id")
	}
	if !task.Checklist[1].Optional || task.Checklist[1].Points != 5 {
		t.Errorf("item 1 = %+v", task.Checklist[1])
	}

	got, err := ts.GetByID(task.ID)
	if err != nil {
		t.Fatalf("get task: %v", err)
	}
	if got == nil || got.Title != task.Title || len(got.Checklist) != 2 {
		t.Errorf("get = %+v", got)
	}
}

func TestTaskGetMissing(t *testing.T) {
	_, ts, _ := taskFixture(t)

	got, err := ts.GetByID(9999)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got != nil {
		t.Errorf("expected nil for missing task, got %+v", got)
	}
}

func TestTaskUpdateReplacesChecklist(t *testing.T) {
	f, ts, catID := taskFixture(t)

	task, err := ts.Create(f.household.ID, "Laundry", catID, 10, []model.ChecklistItem{
		{ID: "sort", Text: "Sort clothes", Points: 5},
	}, false, f.member.ID)
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	updated, err := ts.Update(task.ID, "Laundry day", catID, 15, []model.ChecklistItem{
		{ID: "fold", Text: "Fold clothes", Points: 5},
		{ID: "iron", Text: "Iron shirts", Points: 10, Optional: true},
	}, true)
	if err != nil {
		t.Fatalf("update: %v", err)
	}

	if updated.Title != "Laundry day" || updated.BasePoints != 15 || !updated.RequirePhoto {
		t.Errorf("updated = %+v", updated)
	}
	if len(updated.Checklist) != 2 || updated.Checklist[0].ID != "fold" {
		t.Errorf("checklist = %+v", updated.Checklist)
	}
}

func TestTaskComplete(t *testing.T) {
	f, ts, catID := taskFixture(t)

	task, err := ts.Create(f.household.ID, "Vacuum", catID, 20, []model.ChecklistItem{
		{ID: "rug", Text: "Do the rug", Points: 10},
	}, false, f.member.ID)
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	rec := points.CompletionRecord{
		EarnedPoints: 30,
		Photo:        "photos/vacuum.jpg",
		CompletedBy:  f.member.ID,
		CompletedAt:  time.Now().UTC(),
	}
	completed, err := ts.Complete(task.ID, rec)
	if err != nil {
		t.Fatalf("complete: %v", err)
	}

	if !completed.Completed {
		t.Error("task should be completed")
	}
	if completed.EarnedPoints == nil || *completed.EarnedPoints != 30 {
		t.Errorf("earned points = %v, want 30", completed.EarnedPoints)
	}
	if completed.CompletionPhoto == nil || *completed.CompletionPhoto != "photos/vacuum.jpg" {
		t.Errorf("photo = %v", completed.CompletionPhoto)
	}
	if completed.CompletedBy == nil || *completed.CompletedBy != f.member.ID {
		t.Errorf("completed by = %v", completed.CompletedBy)
	}

	// The point award lands on the member in the same transaction.
	member, err := NewMemberStore(f.db).GetByID(f.member.ID)
	if err != nil {
		t.Fatalf("get member: %v", err)
	}
	if member.Points != 30 {
		t.Errorf("member points = %d, want 30", member.Points)
	}
	if member.TasksCompleted != 1 {
		t.Errorf("tasks completed = %d, want 1", member.TasksCompleted)
	}
}

func TestTaskCompleteTwice(t *testing.T) {
	f, ts, catID := taskFixture(t)

	task, err := ts.Create(f.household.ID, "Trash", catID, 5, nil, false, f.member.ID)
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	rec := points.CompletionRecord{EarnedPoints: 5, CompletedBy: f.member.ID, CompletedAt: time.Now().UTC()}
	if _, err := ts.Complete(task.ID, rec); err != nil {
		t.Fatalf("first complete: %v", err)
	}

	_, err = ts.Complete(task.ID, rec)
	if !errors.Is(err, ErrAlreadyCompleted) {
		t.Fatalf("second complete err = %v, want ErrAlreadyCompleted", err)
	}

	// No double award.
	member, err := NewMemberStore(f.db).GetByID(f.member.ID)
	if err != nil {
		t.Fatalf("get member: %v", err)
	}
	if member.Points != 5 {
		t.Errorf("member points = %d, want 5", member.Points)
	}
}

func TestTaskListNewestFirst(t *testing.T) {
	f, ts, catID := taskFixture(t)

	first, err := ts.Create(f.household.ID, "First", catID, 1, nil, false, f.member.ID)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	second, err := ts.Create(f.household.ID, "Second", catID, 1, nil, false, f.member.ID)
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	tasks, err := ts.List(f.household.ID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(tasks) != 2 {
		t.Fatalf("len = %d, want 2", len(tasks))
	}
	if tasks[0].ID != second.ID || tasks[1].ID != first.ID {
		t.Errorf("order = [%d, %d], want [%d, %d]", tasks[0].ID, tasks[1].ID, second.ID, first.ID)
	}
}

func TestTaskDelete(t *testing.T) {
	f, ts, catID := taskFixture(t)

	task, err := ts.Create(f.household.ID, "Gone soon", catID, 1, []model.ChecklistItem{
		{ID: "x", Text: "Step", Points: 1},
	}, false, f.member.ID)
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := ts.Delete(task.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	got, err := ts.GetByID(task.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got != nil {
		t.Errorf("expected nil after delete, got %+v", got)
	}
}
