package store

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/choreboard/choreboard/internal/model"
)

// ErrInsufficientPoints rejects a spend that would take a member's balance
// negative. Nothing is written.
var ErrInsufficientPoints = errors.New("insufficient points")

type MemberStore struct {
	db *sql.DB
}

func NewMemberStore(db *sql.DB) *MemberStore {
	return &MemberStore{db: db}
}

func scanMember(scanner interface{ Scan(...any) error }) (*model.Member, error) {
	var m model.Member
	err := scanner.Scan(
		&m.ID, &m.HouseholdID, &m.UserID, &m.Name, &m.Avatar, &m.Role,
		&m.Points, &m.TasksCompleted, &m.Streak, &m.JoinedAt, &m.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

const memberCols = `id, household_id, user_id, name, avatar, role, points, tasks_completed, streak, joined_at, updated_at`

func (s *MemberStore) Create(householdID, userID int64, name, avatar, role string) (*model.Member, error) {
	result, err := s.db.Exec(
		`INSERT INTO members (household_id, user_id, name, avatar, role) VALUES (?, ?, ?, ?, ?)`,
		householdID, userID, name, avatar, role,
	)
	if err != nil {
		return nil, fmt.Errorf("insert member: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetByID(id)
}

func (s *MemberStore) GetByID(id int64) (*model.Member, error) {
	row := s.db.QueryRow(`SELECT `+memberCols+` FROM members WHERE id = ?`, id)
	m, err := scanMember(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get member: %w", err)
	}
	return m, nil
}

func (s *MemberStore) GetByUser(householdID, userID int64) (*model.Member, error) {
	row := s.db.QueryRow(
		`SELECT `+memberCols+` FROM members WHERE household_id = ? AND user_id = ?`,
		householdID, userID,
	)
	m, err := scanMember(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get member by user: %w", err)
	}
	return m, nil
}

func (s *MemberStore) List(householdID int64) ([]model.Member, error) {
	rows, err := s.db.Query(
		`SELECT `+memberCols+` FROM members WHERE household_id = ? ORDER BY joined_at ASC, id ASC`,
		householdID,
	)
	if err != nil {
		return nil, fmt.Errorf("list members: %w", err)
	}
	defer rows.Close()

	var members []model.Member
	for rows.Next() {
		m, err := scanMember(rows)
		if err != nil {
			return nil, fmt.Errorf("scan member: %w", err)
		}
		members = append(members, *m)
	}
	return members, rows.Err()
}

// Leaderboard returns a household's members ordered by point balance,
// highest first.
func (s *MemberStore) Leaderboard(householdID int64) ([]model.Member, error) {
	rows, err := s.db.Query(
		`SELECT `+memberCols+` FROM members WHERE household_id = ? ORDER BY points DESC, name ASC`,
		householdID,
	)
	if err != nil {
		return nil, fmt.Errorf("leaderboard: %w", err)
	}
	defer rows.Close()

	var members []model.Member
	for rows.Next() {
		m, err := scanMember(rows)
		if err != nil {
			return nil, fmt.Errorf("scan member: %w", err)
		}
		members = append(members, *m)
	}
	return members, rows.Err()
}

func (s *MemberStore) UpdateProfile(id int64, name, avatar string) (*model.Member, error) {
	_, err := s.db.Exec(
		`UPDATE members SET name = ?, avatar = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		name, avatar, id,
	)
	if err != nil {
		return nil, fmt.Errorf("update member: %w", err)
	}
	return s.GetByID(id)
}

// ApplyPointDelta moves a member's balance by a signed amount as an atomic
// increment at the storage layer. Callers never write a balance they read
// earlier; concurrent deltas both land.
func (s *MemberStore) ApplyPointDelta(id int64, delta int) error {
	_, err := s.db.Exec(
		`UPDATE members SET points = points + ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		delta, id,
	)
	if err != nil {
		return fmt.Errorf("apply point delta: %w", err)
	}
	return nil
}

// SpendPoints deducts cost from a member's balance, refusing with
// ErrInsufficientPoints when the guarded decrement matches no row.
func (s *MemberStore) SpendPoints(id int64, cost int) error {
	result, err := s.db.Exec(
		`UPDATE members SET points = points - ?, updated_at = CURRENT_TIMESTAMP WHERE id = ? AND points >= ?`,
		cost, id, cost,
	)
	if err != nil {
		return fmt.Errorf("spend points: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return ErrInsufficientPoints
	}
	return nil
}
