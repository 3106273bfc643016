package store

import (
	"database/sql"
	"testing"

	"github.com/choreboard/choreboard/internal/database"
	"github.com/choreboard/choreboard/internal/model"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

type fixture struct {
	db        *sql.DB
	user      *model.User
	household *model.Household
	member    *model.Member
}

// seedHousehold creates a user with a household and an admin member, the
// minimum state most store tests need.
func seedHousehold(t *testing.T, db *sql.DB) fixture {
	t.Helper()

	users := NewUserStore(db)
	households := NewHouseholdStore(db)
	members := NewMemberStore(db)

	user, err := users.Create("alex@example.com", "Alex", "🦊", "hash")
	if err != nil {
		t.Fatalf("seed user: %v", err)
	}
	household, err := households.Create("Test House", user.ID)
	if err != nil {
		t.Fatalf("seed household: %v", err)
	}
	member, err := members.Create(household.ID, user.ID, "Alex", "🦊", model.RoleAdmin)
	if err != nil {
		t.Fatalf("seed member: %v", err)
	}
	if err := users.SetHousehold(user.ID, household.ID); err != nil {
		t.Fatalf("seed set household: %v", err)
	}

	return fixture{db: db, user: user, household: household, member: member}
}

// addMember joins another user to the fixture household.
func (f fixture) addMember(t *testing.T, email, name string) *model.Member {
	t.Helper()

	users := NewUserStore(f.db)
	members := NewMemberStore(f.db)

	user, err := users.Create(email, name, "", "hash")
	if err != nil {
		t.Fatalf("add user: %v", err)
	}
	member, err := members.Create(f.household.ID, user.ID, name, "", model.RoleMember)
	if err != nil {
		t.Fatalf("add member: %v", err)
	}
	return member
}
