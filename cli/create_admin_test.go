package cli

import (
	"testing"

	"golang.org/x/crypto/bcrypt"

	"github.com/tekkenfreya/gowater-hr-management-system-sub000/database/databasetest"
	"github.com/tekkenfreya/gowater-hr-management-system-sub000/models"
)

func TestCreateAdmin(t *testing.T) {
	db := databasetest.New(t)

	u, created, err := createAdmin(db, " Root@Example.com ", "Root", "correct-horse")
	if err != nil {
		t.Fatalf("createAdmin: %v", err)
	}
	if !created || u.Email != "root@example.com" || u.Role != models.RoleAdmin {
		t.Fatalf("created=%v user=%+v", created, u)
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte("correct-horse")) != nil {
		t.Error("stored hash does not match the password")
	}

	again, created, err := createAdmin(db, "root@example.com", "Other", "another-password")
	if err != nil {
		t.Fatalf("second createAdmin: %v", err)
	}
	if created || again.ID != u.ID || again.Name != "Root" {
		t.Errorf("second call created=%v user=%+v, want the existing account", created, again)
	}
}

func TestCreateAdminValidation(t *testing.T) {
	db := databasetest.New(t)
	tests := []struct {
		name, email, password string
	}{
		{"empty email", "  ", "long-enough"},
		{"short password", "a@example.com", "short"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, _, err := createAdmin(db, tc.email, "x", tc.password); err == nil {
				t.Error("expected an error")
			}
		})
	}
}
