package store

import (
	"errors"
	"testing"
)

func categoryFixture(t *testing.T) (fixture, *CategoryStore) {
	t.Helper()
	db := openTestDB(t)
	f := seedHousehold(t, db)
	return f, NewCategoryStore(db)
}

func TestCategorySeedDefaults(t *testing.T) {
	f, cs := categoryFixture(t)

	if err := cs.SeedDefaults(f.household.ID); err != nil {
		t.Fatalf("seed: %v", err)
	}

	cats, err := cs.List(f.household.ID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(cats) != 5 {
		t.Fatalf("expected 5 default categories, got %d", len(cats))
	}

	expected := []string{"General", "Kitchen", "Living Room", "Baby Care", "Pets"}
	for i, name := range expected {
		if cats[i].Name != name {
			t.Errorf("category[%d] = %q, want %q", i, cats[i].Name, name)
		}
	}
}

func TestCategoryCreateAppends(t *testing.T) {
	f, cs := categoryFixture(t)

	if err := cs.SeedDefaults(f.household.ID); err != nil {
		t.Fatalf("seed: %v", err)
	}

	cat, err := cs.Create(f.household.ID, "Garage", "car")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if cat.IconKey != "car" {
		t.Errorf("icon = %q, want %q", cat.IconKey, "car")
	}

	cats, err := cs.List(f.household.ID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if cats[len(cats)-1].ID != cat.ID {
		t.Error("new category should sort last")
	}
}

func TestCategoryDeleteLastRefused(t *testing.T) {
	f, cs := categoryFixture(t)

	only, err := cs.Create(f.household.ID, "Only", "sparkles")
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	err = cs.Delete(f.household.ID, only.ID)
	if !errors.Is(err, ErrLastCategory) {
		t.Fatalf("delete err = %v, want ErrLastCategory", err)
	}

	// Nothing changed.
	cats, err := cs.List(f.household.ID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(cats) != 1 {
		t.Errorf("len = %d, want 1", len(cats))
	}
}

func TestCategoryDelete(t *testing.T) {
	f, cs := categoryFixture(t)

	keep, err := cs.Create(f.household.ID, "Keep", "sparkles")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	remove, err := cs.Create(f.household.ID, "Remove", "pet")
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := cs.Delete(f.household.ID, remove.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	cats, err := cs.List(f.household.ID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(cats) != 1 || cats[0].ID != keep.ID {
		t.Errorf("cats = %+v", cats)
	}
}

func TestCategoryGetOrFirstFallback(t *testing.T) {
	f, cs := categoryFixture(t)

	if err := cs.SeedDefaults(f.household.ID); err != nil {
		t.Fatalf("seed: %v", err)
	}

	// Dangling id falls back to the household's first category.
	cat, err := cs.GetOrFirst(f.household.ID, 9999)
	if err != nil {
		t.Fatalf("get or first: %v", err)
	}
	if cat == nil || cat.Name != "General" {
		t.Errorf("fallback = %+v, want General", cat)
	}
}

func TestCategoryGetOrFirstForeignHousehold(t *testing.T) {
	f, cs := categoryFixture(t)

	if err := cs.SeedDefaults(f.household.ID); err != nil {
		t.Fatalf("seed: %v", err)
	}

	other, err := NewHouseholdStore(f.db).Create("Other House", f.user.ID)
	if err != nil {
		t.Fatalf("create household: %v", err)
	}
	foreign, err := cs.Create(other.ID, "Theirs", "sparkles")
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	// A category from another household is treated as dangling.
	cat, err := cs.GetOrFirst(f.household.ID, foreign.ID)
	if err != nil {
		t.Fatalf("get or first: %v", err)
	}
	if cat == nil || cat.HouseholdID != f.household.ID {
		t.Errorf("resolved = %+v, want category in own household", cat)
	}
}
