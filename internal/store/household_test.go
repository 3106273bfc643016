package store

import (
	"strings"
	"testing"
)

func TestHouseholdInviteCode(t *testing.T) {
	db := openTestDB(t)
	f := seedHousehold(t, db)

	code := f.household.InviteCode
	if len(code) != 6 {
		t.Fatalf("invite code length = %d, want 6", len(code))
	}
	for _, c := range code {
		if !strings.ContainsRune(inviteAlphabet, c) {
			t.Errorf("invite code contains %q, not in alphabet", c)
		}
	}
}

func TestHouseholdGetByInviteCode(t *testing.T) {
	db := openTestDB(t)
	f := seedHousehold(t, db)
	hs := NewHouseholdStore(db)

	// Lookup is forgiving about case and whitespace.
	got, err := hs.GetByInviteCode("  " + strings.ToLower(f.household.InviteCode) + " ")
	if err != nil {
		t.Fatalf("get by code: %v", err)
	}
	if got == nil || got.ID != f.household.ID {
		t.Errorf("got = %+v, want household %d", got, f.household.ID)
	}

	missing, err := hs.GetByInviteCode("ZZZZZZ")
	if err != nil {
		t.Fatalf("get by code: %v", err)
	}
	if missing != nil {
		t.Errorf("expected nil for unknown code, got %+v", missing)
	}
}

func TestHouseholdUpdate(t *testing.T) {
	db := openTestDB(t)
	f := seedHousehold(t, db)
	hs := NewHouseholdStore(db)

	got, err := hs.Update(f.household.ID, "Renamed House")
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if got.Name != "Renamed House" {
		t.Errorf("name = %q", got.Name)
	}
	if got.InviteCode != f.household.InviteCode {
		t.Error("invite code must survive a rename")
	}
}
