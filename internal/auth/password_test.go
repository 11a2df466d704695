package auth

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"github.com/mmynk/together/internal/models"
	"github.com/mmynk/together/internal/storage/sqlite"
)

func setupAuthenticator(t *testing.T) (*PasswordAuthenticator, *sqlite.SQLiteStore) {
	t.Helper()

	store, err := sqlite.New(filepath.Join(t.TempDir(), "auth.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	return NewPasswordAuthenticator(store).WithCost(bcrypt.MinCost), store
}

func TestCreateStaff(t *testing.T) {
	a, _ := setupAuthenticator(t)
	ctx := context.Background()

	user, err := a.CreateStaff(ctx, "admin", "admin@example.com", "correct horse")
	if err != nil {
		t.Fatalf("CreateStaff failed: %v", err)
	}
	if user.ID == "" {
		t.Error("expected user ID to be generated")
	}
	if !user.IsStaff {
		t.Error("expected staff user")
	}
	if user.PasswordHash == "correct horse" {
		t.Error("password stored in plain text")
	}

	tests := []struct {
		name     string
		username string
		password string
		wantErr  error
	}{
		{"duplicate username", "admin", "another password", ErrUsernameExists},
		{"weak password", "second", "short", ErrWeakPassword},
		{"missing username", "", "long enough", ErrMissingUsername},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := a.CreateStaff(ctx, tt.username, "", tt.password)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestAuthenticate(t *testing.T) {
	a, store := setupAuthenticator(t)
	ctx := context.Background()

	if _, err := a.CreateStaff(ctx, "admin", "", "correct horse"); err != nil {
		t.Fatalf("CreateStaff failed: %v", err)
	}

	// A regular app user with a valid hash but no staff flag.
	hash, _ := bcrypt.GenerateFromPassword([]byte("correct horse"), bcrypt.MinCost)
	if err := store.CreateUser(ctx, &models.User{Username: "alice", PasswordHash: string(hash)}); err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}

	t.Run("valid credentials", func(t *testing.T) {
		user, err := a.Authenticate(ctx, "admin", "correct horse")
		if err != nil {
			t.Fatalf("Authenticate failed: %v", err)
		}
		if user.Username != "admin" {
			t.Errorf("username: got %s", user.Username)
		}
	})

	tests := []struct {
		name     string
		username string
		password string
	}{
		{"wrong password", "admin", "battery staple"},
		{"unknown user", "nobody", "correct horse"},
		{"non-staff user", "alice", "correct horse"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := a.Authenticate(ctx, tt.username, tt.password)
			if !errors.Is(err, ErrInvalidCredentials) {
				t.Errorf("expected ErrInvalidCredentials, got %v", err)
			}
		})
	}
}
