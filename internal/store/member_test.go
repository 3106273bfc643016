package store

import (
	"errors"
	"testing"
)

func TestMemberGetByUser(t *testing.T) {
	db := openTestDB(t)
	f := seedHousehold(t, db)
	ms := NewMemberStore(db)

	got, err := ms.GetByUser(f.household.ID, f.user.ID)
	if err != nil {
		t.Fatalf("get by user: %v", err)
	}
	if got == nil || got.ID != f.member.ID {
		t.Errorf("got = %+v, want member %d", got, f.member.ID)
	}

	missing, err := ms.GetByUser(f.household.ID, 9999)
	if err != nil {
		t.Fatalf("get by user: %v", err)
	}
	if missing != nil {
		t.Errorf("expected nil for unknown user, got %+v", missing)
	}
}

func TestMemberApplyPointDelta(t *testing.T) {
	db := openTestDB(t)
	f := seedHousehold(t, db)
	ms := NewMemberStore(db)

	if err := ms.ApplyPointDelta(f.member.ID, 50); err != nil {
		t.Fatalf("apply delta: %v", err)
	}
	if err := ms.ApplyPointDelta(f.member.ID, -20); err != nil {
		t.Fatalf("apply delta: %v", err)
	}

	got, err := ms.GetByID(f.member.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Points != 30 {
		t.Errorf("points = %d, want 30", got.Points)
	}
}

func TestMemberSpendPoints(t *testing.T) {
	db := openTestDB(t)
	f := seedHousehold(t, db)
	ms := NewMemberStore(db)

	if err := ms.ApplyPointDelta(f.member.ID, 40); err != nil {
		t.Fatalf("apply delta: %v", err)
	}

	if err := ms.SpendPoints(f.member.ID, 25); err != nil {
		t.Fatalf("spend: %v", err)
	}

	err := ms.SpendPoints(f.member.ID, 25)
	if !errors.Is(err, ErrInsufficientPoints) {
		t.Fatalf("spend err = %v, want ErrInsufficientPoints", err)
	}

	// The refused spend must not touch the balance.
	got, err := ms.GetByID(f.member.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Points != 15 {
		t.Errorf("points = %d, want 15", got.Points)
	}
}

func TestMemberLeaderboardOrder(t *testing.T) {
	db := openTestDB(t)
	f := seedHousehold(t, db)
	ms := NewMemberStore(db)

	bea := f.addMember(t, "bea@example.com", "Bea")
	cal := f.addMember(t, "cal@example.com", "Cal")

	if err := ms.ApplyPointDelta(bea.ID, 100); err != nil {
		t.Fatalf("apply delta: %v", err)
	}
	if err := ms.ApplyPointDelta(cal.ID, 100); err != nil {
		t.Fatalf("apply delta: %v", err)
	}
	if err := ms.ApplyPointDelta(f.member.ID, 10); err != nil {
		t.Fatalf("apply delta: %v", err)
	}

	board, err := ms.Leaderboard(f.household.ID)
	if err != nil {
		t.Fatalf("leaderboard: %v", err)
	}
	if len(board) != 3 {
		t.Fatalf("len = %d, want 3", len(board))
	}
	// Ties break alphabetically.
	if board[0].Name != "Bea" || board[1].Name != "Cal" || board[2].Name != "Alex" {
		t.Errorf("order = [%s, %s, %s]", board[0].Name, board[1].Name, board[2].Name)
	}
}

func TestMemberUpdateProfile(t *testing.T) {
	db := openTestDB(t)
	f := seedHousehold(t, db)
	ms := NewMemberStore(db)

	got, err := ms.UpdateProfile(f.member.ID, "Alexandra", "🐙")
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if got.Name != "Alexandra" || got.Avatar != "🐙" {
		t.Errorf("got = %+v", got)
	}
	// Role and points are untouched.
	if got.Role != f.member.Role || got.Points != f.member.Points {
		t.Errorf("role/points changed: %+v", got)
	}
}
