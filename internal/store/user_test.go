package store

import (
	"testing"

	"github.com/dukerupert/recipebox/internal/database"
)

func setupUserTestDB(t *testing.T) *UserStore {
	t.Helper()
	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewUserStore(db)
}

func TestUserCreateAndLookup(t *testing.T) {
	us := setupUserTestDB(t)

	user, err := us.Create("cook@example.com", "bcrypt-hash")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if user.ID == "" || user.Email != "cook@example.com" {
		t.Errorf("user = %+v", user)
	}

	byID, err := us.GetByID(user.ID)
	if err != nil {
		t.Fatalf("get by id: %v", err)
	}
	if byID == nil || byID.Email != user.Email {
		t.Errorf("byID = %+v", byID)
	}

	byEmail, err := us.GetByEmail("cook@example.com")
	if err != nil {
		t.Fatalf("get by email: %v", err)
	}
	if byEmail == nil || byEmail.ID != user.ID {
		t.Errorf("byEmail = %+v", byEmail)
	}

	hash, err := us.PasswordHash(user.ID)
	if err != nil {
		t.Fatalf("password hash: %v", err)
	}
	if hash != "bcrypt-hash" {
		t.Errorf("hash = %q", hash)
	}
}

func TestUserDuplicateEmailRejected(t *testing.T) {
	us := setupUserTestDB(t)

	if _, err := us.Create("cook@example.com", "h1"); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := us.Create("cook@example.com", "h2"); err == nil {
		t.Error("expected unique constraint error")
	}
}

func TestUserMissingLookups(t *testing.T) {
	us := setupUserTestDB(t)

	user, err := us.GetByEmail("nobody@example.com")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if user != nil {
		t.Errorf("user = %+v", user)
	}

	hash, err := us.PasswordHash("missing")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if hash != "" {
		t.Errorf("hash = %q", hash)
	}
}
