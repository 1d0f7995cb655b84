package db

import (
	"path/filepath"
	"testing"

	"github.com/terraincognita07/sprintdesk/internal/models"
)

func TestUserEmailUniqueIndexIsCaseSensitive(t *testing.T) {
	database := openSQLiteForTest(t, filepath.Join(t.TempDir(), "sprintdesk-email-index.db"))
	users := NewUserRepository(database)

	for _, email := range []string{"QA-Test2@Sprintdesk.Local", "qa-test2@sprintdesk.local"} {
		user := models.User{Name: "QA", Email: email, PasswordHash: "hash", Role: models.RoleDeveloper}
		if err := users.Create(&user); err != nil {
			t.Fatalf("create user %s: %v", email, err)
		}
	}

	found, err := users.FindByEmail("QA-Test2@Sprintdesk.Local")
	if err != nil {
		t.Fatalf("FindByEmail() unexpected error: %v", err)
	}
	if found.Email != "QA-Test2@Sprintdesk.Local" {
		t.Fatalf("expected exact-case match, got %q", found.Email)
	}

	duplicate := models.User{Name: "QA", Email: "qa-test2@sprintdesk.local", PasswordHash: "hash", Role: models.RoleDeveloper}
	err = users.Create(&duplicate)
	if err == nil {
		t.Fatal("expected identical email insert to fail")
	}
	if !IsUniqueViolation(err) {
		t.Fatalf("expected unique violation, got %v", err)
	}
}
