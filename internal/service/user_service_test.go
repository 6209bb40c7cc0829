package service

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"friendbook/internal/repository"
	"friendbook/internal/repository/sqlite"
)

func setupUserService(t *testing.T) (UserService, repository.UserRepository) {
	t.Helper()

	db, err := sqlite.Open(filepath.Join(t.TempDir(), "friendbook.db"))
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	repo := sqlite.NewUserRepository(db)
	if err := repo.Init(context.Background()); err != nil {
		t.Fatalf("init users: %v", err)
	}
	return NewUserService(repo), repo
}

func TestRegisterValidation(t *testing.T) {
	svc, _ := setupUserService(t)
	ctx := context.Background()

	cases := []struct {
		name     string
		username string
		password string
		confirm  string
		wantErr  error
	}{
		{"blank username", "", "pw123456", "pw123456", ErrMissingFields},
		{"blank password", "alice", "", "", ErrMissingFields},
		{"blank confirm", "alice", "pw123456", "", ErrMissingFields},
		{"mismatch", "alice", "pw123456", "pw654321", ErrPasswordMismatch},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := svc.Register(ctx, tc.username, tc.password, tc.confirm, ""); !errors.Is(err, tc.wantErr) {
				t.Errorf("expected %v, got %v", tc.wantErr, err)
			}
		})
	}
}

func TestRegisterDuplicateUsername(t *testing.T) {
	svc, repo := setupUserService(t)
	ctx := context.Background()

	if _, err := svc.Register(ctx, "alice", "pw123456", "pw123456", "first"); err != nil {
		t.Fatalf("first register: %v", err)
	}
	if _, err := svc.Register(ctx, "alice", "pw654321", "pw654321", "second"); !errors.Is(err, ErrUsernameTaken) {
		t.Fatalf("expected ErrUsernameTaken, got %v", err)
	}

	// the original row is untouched
	user, err := repo.GetByUsername(ctx, "alice")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if user.About != "first" {
		t.Errorf("original row changed: %+v", user)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("pw123456")); err != nil {
		t.Error("original password hash changed")
	}
}

func TestRegisterNeverStoresPlaintext(t *testing.T) {
	svc, repo := setupUserService(t)
	ctx := context.Background()

	if _, err := svc.Register(ctx, "alice", "pw123456", "pw123456", ""); err != nil {
		t.Fatalf("register: %v", err)
	}

	user, err := repo.GetByUsername(ctx, "alice")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if user.PasswordHash == "pw123456" {
		t.Fatal("password stored in plaintext")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("pw123456")); err != nil {
		t.Errorf("stored hash does not verify: %v", err)
	}
}

func TestAuthenticate(t *testing.T) {
	svc, _ := setupUserService(t)
	ctx := context.Background()

	if _, err := svc.Register(ctx, "alice", "pw123456", "pw123456", ""); err != nil {
		t.Fatalf("register: %v", err)
	}

	user, err := svc.Authenticate(ctx, "alice", "pw123456")
	if err != nil {
		t.Fatalf("authenticate: %v", err)
	}
	if user.Username != "alice" {
		t.Errorf("unexpected user: %+v", user)
	}

	if _, err := svc.Authenticate(ctx, "alice", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("wrong password: expected ErrInvalidCredentials, got %v", err)
	}
	if _, err := svc.Authenticate(ctx, "nobody", "pw123456"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("unknown user: expected ErrInvalidCredentials, got %v", err)
	}
}

func TestUpdateSettingsRename(t *testing.T) {
	svc, _ := setupUserService(t)
	ctx := context.Background()

	alice, err := svc.Register(ctx, "alice", "pw123456", "pw123456", "")
	if err != nil {
		t.Fatalf("register alice: %v", err)
	}
	if _, err := svc.Register(ctx, "bob", "pw123456", "pw123456", ""); err != nil {
		t.Fatalf("register bob: %v", err)
	}

	// collision with another user is rejected
	if _, err := svc.UpdateSettings(ctx, alice.ID, SettingsUpdate{Username: "bob"}); !errors.Is(err, ErrUsernameTaken) {
		t.Errorf("expected ErrUsernameTaken, got %v", err)
	}

	// keeping your own name is a no-op, not a collision
	if _, err := svc.UpdateSettings(ctx, alice.ID, SettingsUpdate{Username: "alice", About: "still me"}); err != nil {
		t.Errorf("rename to own name: %v", err)
	}

	updated, err := svc.UpdateSettings(ctx, alice.ID, SettingsUpdate{Username: "alice2", About: "renamed"})
	if err != nil {
		t.Fatalf("rename: %v", err)
	}
	if updated.Username != "alice2" || updated.About != "renamed" {
		t.Errorf("unexpected result: %+v", updated)
	}
}

func TestUpdateSettingsPasswordChange(t *testing.T) {
	svc, repo := setupUserService(t)
	ctx := context.Background()

	alice, err := svc.Register(ctx, "alice", "pw123456", "pw123456", "")
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	cases := []struct {
		name    string
		update  SettingsUpdate
		wantErr error
	}{
		{
			"missing current password",
			SettingsUpdate{Username: "alice", NewPassword: "newpass1", ConfirmPassword: "newpass1"},
			ErrCurrentPasswordRequired,
		},
		{
			"wrong current password",
			SettingsUpdate{Username: "alice", CurrentPassword: "wrong", NewPassword: "newpass1", ConfirmPassword: "newpass1"},
			ErrCurrentPasswordWrong,
		},
		{
			"confirmation mismatch",
			SettingsUpdate{Username: "alice", CurrentPassword: "pw123456", NewPassword: "newpass1", ConfirmPassword: "other"},
			ErrNewPasswordMismatch,
		},
		{
			"too short",
			SettingsUpdate{Username: "alice", CurrentPassword: "pw123456", NewPassword: "abc", ConfirmPassword: "abc"},
			ErrPasswordTooShort,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := svc.UpdateSettings(ctx, alice.ID, tc.update); !errors.Is(err, tc.wantErr) {
				t.Errorf("expected %v, got %v", tc.wantErr, err)
			}
			// failed change leaves the old password working
			if _, err := svc.Authenticate(ctx, "alice", "pw123456"); err != nil {
				t.Errorf("old password broken after failed change: %v", err)
			}
		})
	}

	if _, err := svc.UpdateSettings(ctx, alice.ID, SettingsUpdate{
		Username:        "alice",
		CurrentPassword: "pw123456",
		NewPassword:     "newpass1",
		ConfirmPassword: "newpass1",
	}); err != nil {
		t.Fatalf("password change: %v", err)
	}

	if _, err := svc.Authenticate(ctx, "alice", "newpass1"); err != nil {
		t.Errorf("new password rejected: %v", err)
	}
	if _, err := svc.Authenticate(ctx, "alice", "pw123456"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("old password still accepted: %v", err)
	}

	user, err := repo.GetByUsername(ctx, "alice")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if user.PasswordHash == "newpass1" {
		t.Fatal("password stored in plaintext")
	}
}
