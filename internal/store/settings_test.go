package store

import "testing"

func TestSettingsDefaults(t *testing.T) {
	db := openTestDB(t)
	f := seedHousehold(t, db)
	ss := NewSettingsStore(db)

	settings, err := ss.GetAll(f.household.ID)
	if err != nil {
		t.Fatalf("get all: %v", err)
	}
	if settings["theme_mode"] != "system" {
		t.Errorf("theme_mode = %q", settings["theme_mode"])
	}
	if settings["theme_name"] != "violet" {
		t.Errorf("theme_name = %q", settings["theme_name"])
	}
	if settings["reward_system"] != "leaderboard" {
		t.Errorf("reward_system = %q", settings["reward_system"])
	}
}

func TestSettingsSetUpsert(t *testing.T) {
	db := openTestDB(t)
	f := seedHousehold(t, db)
	ss := NewSettingsStore(db)

	if err := ss.Set(f.household.ID, "theme_mode", "dark"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := ss.Set(f.household.ID, "theme_mode", "light"); err != nil {
		t.Fatalf("set again: %v", err)
	}

	got, err := ss.Get(f.household.ID, "theme_mode")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got != "light" {
		t.Errorf("theme_mode = %q, want light", got)
	}

	// Other households keep their own values.
	other, err := NewHouseholdStore(db).Create("Other", f.user.ID)
	if err != nil {
		t.Fatalf("create household: %v", err)
	}
	otherMode, err := ss.Get(other.ID, "theme_mode")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if otherMode != "system" {
		t.Errorf("other theme_mode = %q, want system", otherMode)
	}
}
