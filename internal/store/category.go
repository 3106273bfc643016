package store

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/choreboard/choreboard/internal/model"
)

// ErrLastCategory rejects removal of a household's only remaining category.
// The operation is a no-op.
var ErrLastCategory = errors.New("cannot remove the last category")

type CategoryStore struct {
	db *sql.DB
}

func NewCategoryStore(db *sql.DB) *CategoryStore {
	return &CategoryStore{db: db}
}

func scanCategory(scanner interface{ Scan(...any) error }) (*model.Category, error) {
	var c model.Category
	err := scanner.Scan(&c.ID, &c.HouseholdID, &c.Name, &c.IconKey, &c.Position, &c.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

const categoryCols = `id, household_id, name, icon_key, position, created_at`

func (s *CategoryStore) List(householdID int64) ([]model.Category, error) {
	rows, err := s.db.Query(
		`SELECT `+categoryCols+` FROM categories WHERE household_id = ? ORDER BY position ASC, id ASC`,
		householdID,
	)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var categories []model.Category
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		categories = append(categories, *c)
	}
	return categories, rows.Err()
}

// Create appends a category. Duplicate names are permitted.
func (s *CategoryStore) Create(householdID int64, name, iconKey string) (*model.Category, error) {
	var maxPos int
	err := s.db.QueryRow(
		`SELECT COALESCE(MAX(position), -1) FROM categories WHERE household_id = ?`,
		householdID,
	).Scan(&maxPos)
	if err != nil {
		return nil, fmt.Errorf("query max position: %w", err)
	}

	result, err := s.db.Exec(
		`INSERT INTO categories (household_id, name, icon_key, position) VALUES (?, ?, ?, ?)`,
		householdID, name, iconKey, maxPos+1,
	)
	if err != nil {
		return nil, fmt.Errorf("insert category: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetByID(id)
}

func (s *CategoryStore) GetByID(id int64) (*model.Category, error) {
	row := s.db.QueryRow(`SELECT `+categoryCols+` FROM categories WHERE id = ?`, id)
	c, err := scanCategory(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get category: %w", err)
	}
	return c, nil
}

// GetOrFirst resolves a task's category reference. A dangling id degrades to
// the household's first category rather than an error; tasks are not migrated
// when a category is removed.
func (s *CategoryStore) GetOrFirst(householdID, id int64) (*model.Category, error) {
	c, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}
	if c != nil && c.HouseholdID == householdID {
		return c, nil
	}

	row := s.db.QueryRow(
		`SELECT `+categoryCols+` FROM categories WHERE household_id = ? ORDER BY position ASC, id ASC LIMIT 1`,
		householdID,
	)
	c, err = scanCategory(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get first category: %w", err)
	}
	return c, nil
}

// Delete removes a category unless it is the household's last one, in which
// case it returns ErrLastCategory and changes nothing.
func (s *CategoryStore) Delete(householdID, id int64) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	var count int
	if err := tx.QueryRow(
		`SELECT COUNT(*) FROM categories WHERE household_id = ?`,
		householdID,
	).Scan(&count); err != nil {
		return fmt.Errorf("count categories: %w", err)
	}
	if count <= 1 {
		return ErrLastCategory
	}

	if _, err := tx.Exec(
		`DELETE FROM categories WHERE id = ? AND household_id = ?`,
		id, householdID,
	); err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	return tx.Commit()
}

// SeedDefaults inserts the starter categories for a new household.
func (s *CategoryStore) SeedDefaults(householdID int64) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	for i, c := range model.DefaultCategories {
		if _, err := tx.Exec(
			`INSERT INTO categories (household_id, name, icon_key, position) VALUES (?, ?, ?, ?)`,
			householdID, c.Name, c.IconKey, i,
		); err != nil {
			return fmt.Errorf("seed category %q: %w", c.Name, err)
		}
	}
	return tx.Commit()
}
