package store

import (
	"errors"
	"testing"
)

func rewardFixture(t *testing.T) (fixture, *RewardStore, *MemberStore) {
	t.Helper()
	db := openTestDB(t)
	f := seedHousehold(t, db)
	return f, NewRewardStore(db), NewMemberStore(db)
}

func TestRewardCRUD(t *testing.T) {
	f, rs, _ := rewardFixture(t)

	reward, err := rs.Create(f.household.ID, "Movie night", "🎬", 50, true)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if reward.PointCost != 50 || !reward.Active {
		t.Errorf("reward = %+v", reward)
	}

	updated, err := rs.Update(reward.ID, "Movie night", "🍿", 40, false)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Icon != "🍿" || updated.PointCost != 40 || updated.Active {
		t.Errorf("updated = %+v", updated)
	}

	if err := rs.Delete(reward.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	got, err := rs.GetByID(reward.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got != nil {
		t.Errorf("expected nil after delete, got %+v", got)
	}
}

func TestRewardRedeem(t *testing.T) {
	f, rs, ms := rewardFixture(t)

	if err := ms.ApplyPointDelta(f.member.ID, 100); err != nil {
		t.Fatalf("apply delta: %v", err)
	}
	reward, err := rs.Create(f.household.ID, "Ice cream", "🍦", 40, true)
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	redemption, err := rs.Redeem(reward.ID, f.member.ID, reward.PointCost)
	if err != nil {
		t.Fatalf("redeem: %v", err)
	}
	if redemption.PointsSpent != 40 || redemption.MemberID != f.member.ID {
		t.Errorf("redemption = %+v", redemption)
	}

	member, err := ms.GetByID(f.member.ID)
	if err != nil {
		t.Fatalf("get member: %v", err)
	}
	if member.Points != 60 {
		t.Errorf("points = %d, want 60", member.Points)
	}

	history, err := rs.ListRedemptionsByMember(f.member.ID)
	if err != nil {
		t.Fatalf("list redemptions: %v", err)
	}
	if len(history) != 1 {
		t.Errorf("history len = %d, want 1", len(history))
	}
}

func TestRewardRedeemInsufficient(t *testing.T) {
	f, rs, ms := rewardFixture(t)

	if err := ms.ApplyPointDelta(f.member.ID, 30); err != nil {
		t.Fatalf("apply delta: %v", err)
	}
	reward, err := rs.Create(f.household.ID, "Big prize", "🏆", 100, true)
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	_, err = rs.Redeem(reward.ID, f.member.ID, reward.PointCost)
	if !errors.Is(err, ErrInsufficientPoints) {
		t.Fatalf("redeem err = %v, want ErrInsufficientPoints", err)
	}

	// Refused redemption leaves no trace.
	member, err := ms.GetByID(f.member.ID)
	if err != nil {
		t.Fatalf("get member: %v", err)
	}
	if member.Points != 30 {
		t.Errorf("points = %d, want 30", member.Points)
	}
	history, err := rs.ListRedemptionsByMember(f.member.ID)
	if err != nil {
		t.Fatalf("list redemptions: %v", err)
	}
	if len(history) != 0 {
		t.Errorf("history len = %d, want 0", len(history))
	}
}
