package store

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/choreboard/choreboard/internal/model"
	"github.com/choreboard/choreboard/internal/points"
)

// ErrAlreadyCompleted is returned when a completion races another one onto
// the same task. The first write wins; the loser gets no point award.
var ErrAlreadyCompleted = errors.New("task already completed")

type TaskStore struct {
	db *sql.DB
}

func NewTaskStore(db *sql.DB) *TaskStore {
	return &TaskStore{db: db}
}

func scanTask(scanner interface{ Scan(...any) error }) (*model.Task, error) {
	var t model.Task
	var requirePhoto, completed int
	var earned sql.NullInt64
	var photo sql.NullString
	var completedBy sql.NullInt64
	var completedAt sql.NullTime

	err := scanner.Scan(
		&t.ID, &t.HouseholdID, &t.Title, &t.CategoryID, &t.BasePoints,
		&requirePhoto, &completed, &earned, &photo, &completedBy, &completedAt,
		&t.CreatedBy, &t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	t.RequirePhoto = requirePhoto != 0
	t.Completed = completed != 0
	if earned.Valid {
		e := int(earned.Int64)
		t.EarnedPoints = &e
	}
	if photo.Valid {
		t.CompletionPhoto = &photo.String
	}
	if completedBy.Valid {
		t.CompletedBy = &completedBy.Int64
	}
	if completedAt.Valid {
		t.CompletedAt = &completedAt.Time
	}
	return &t, nil
}

const taskCols = `id, household_id, title, category_id, base_points, require_photo, completed, earned_points, completion_photo, completed_by, completed_at, created_by, created_at, updated_at`

func (s *TaskStore) Create(householdID int64, title string, categoryID int64, basePoints int, checklist []model.ChecklistItem, requirePhoto bool, createdBy int64) (*model.Task, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	var rp int
	if requirePhoto {
		rp = 1
	}

	result, err := tx.Exec(
		`INSERT INTO tasks (household_id, title, category_id, base_points, require_photo, created_by) VALUES (?, ?, ?, ?, ?, ?)`,
		householdID, title, categoryID, basePoints, rp, createdBy,
	)
	if err != nil {
		return nil, fmt.Errorf("insert task: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}

	if err := insertChecklist(tx, id, checklist); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit tx: %w", err)
	}
	return s.GetByID(id)
}

// insertChecklist writes a task's checklist items, assigning fresh ids to
// items the client did not name. Item ids only need to be unique within the
// task.
func insertChecklist(tx *sql.Tx, taskID int64, checklist []model.ChecklistItem) error {
	for i, item := range checklist {
		itemID := item.ID
		if itemID == "" {
			itemID = uuid.NewString()
		}
		var opt int
		if item.Optional {
			opt = 1
		}
		if _, err := tx.Exec(
			`INSERT INTO checklist_items (task_id, item_id, text, points, optional, position) VALUES (?, ?, ?, ?, ?, ?)`,
			taskID, itemID, item.Text, item.Points, opt, i,
		); err != nil {
			return fmt.Errorf("insert checklist item %d: %w", i, err)
		}
	}
	return nil
}

func (s *TaskStore) loadChecklist(taskID int64) ([]model.ChecklistItem, error) {
	rows, err := s.db.Query(
		`SELECT item_id, text, points, optional FROM checklist_items WHERE task_id = ? ORDER BY position ASC`,
		taskID,
	)
	if err != nil {
		return nil, fmt.Errorf("list checklist items: %w", err)
	}
	defer rows.Close()

	var items []model.ChecklistItem
	for rows.Next() {
		var item model.ChecklistItem
		var opt int
		if err := rows.Scan(&item.ID, &item.Text, &item.Points, &opt); err != nil {
			return nil, fmt.Errorf("scan checklist item: %w", err)
		}
		item.Optional = opt != 0
		items = append(items, item)
	}
	return items, rows.Err()
}

func (s *TaskStore) GetByID(id int64) (*model.Task, error) {
	row := s.db.QueryRow(`SELECT `+taskCols+` FROM tasks WHERE id = ?`, id)
	t, err := scanTask(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get task: %w", err)
	}
	t.Checklist, err = s.loadChecklist(t.ID)
	if err != nil {
		return nil, err
	}
	return t, nil
}

// List returns a household's tasks ordered by creation time, newest first.
func (s *TaskStore) List(householdID int64) ([]model.Task, error) {
	rows, err := s.db.Query(
		`SELECT `+taskCols+` FROM tasks WHERE household_id = ? ORDER BY created_at DESC, id DESC`,
		householdID,
	)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	defer rows.Close()

	var tasks []model.Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("scan task: %w", err)
		}
		tasks = append(tasks, *t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	rows.Close()

	for i := range tasks {
		tasks[i].Checklist, err = s.loadChecklist(tasks[i].ID)
		if err != nil {
			return nil, err
		}
	}
	return tasks, nil
}

// Update replaces a task's definition fields and checklist. Completion fields
// are never touched here.
func (s *TaskStore) Update(id int64, title string, categoryID int64, basePoints int, checklist []model.ChecklistItem, requirePhoto bool) (*model.Task, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	var rp int
	if requirePhoto {
		rp = 1
	}

	_, err = tx.Exec(
		`UPDATE tasks SET title = ?, category_id = ?, base_points = ?, require_photo = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		title, categoryID, basePoints, rp, id,
	)
	if err != nil {
		return nil, fmt.Errorf("update task: %w", err)
	}

	if _, err := tx.Exec(`DELETE FROM checklist_items WHERE task_id = ?`, id); err != nil {
		return nil, fmt.Errorf("clear checklist: %w", err)
	}
	if err := insertChecklist(tx, id, checklist); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit tx: %w", err)
	}
	return s.GetByID(id)
}

func (s *TaskStore) Delete(id int64) error {
	_, err := s.db.Exec(`DELETE FROM tasks WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	return nil
}

// Complete merges a completion record onto the task and applies the point
// award to the acting member in one transaction, so a crash cannot leave a
// completed task with no matching point delta. The completed = 0 guard makes
// the first racing completion win; later ones get ErrAlreadyCompleted.
func (s *TaskStore) Complete(id int64, rec points.CompletionRecord) (*model.Task, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	var photo sql.NullString
	if rec.Photo != "" {
		photo = sql.NullString{String: rec.Photo, Valid: true}
	}

	result, err := tx.Exec(
		`UPDATE tasks SET completed = 1, earned_points = ?, completion_photo = ?, completed_by = ?, completed_at = ?, updated_at = CURRENT_TIMESTAMP
		 WHERE id = ? AND completed = 0`,
		rec.EarnedPoints, photo, rec.CompletedBy, rec.CompletedAt, id,
	)
	if err != nil {
		return nil, fmt.Errorf("mark task completed: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return nil, ErrAlreadyCompleted
	}

	// Point balances move only by signed increments, never read-modify-write.
	_, err = tx.Exec(
		`UPDATE members SET points = points + ?, tasks_completed = tasks_completed + 1, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		rec.EarnedPoints, rec.CompletedBy,
	)
	if err != nil {
		return nil, fmt.Errorf("apply point award: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit tx: %w", err)
	}
	return s.GetByID(id)
}
