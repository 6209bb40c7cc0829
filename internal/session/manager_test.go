package session

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"friendbook/internal/repository/sqlite"
)

func setupManager(t *testing.T, ttl time.Duration) *Manager {
	t.Helper()

	db, err := sqlite.Open(filepath.Join(t.TempDir(), "friendbook.db"))
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	repo := sqlite.NewSessionRepository(db)
	if err := repo.Init(context.Background()); err != nil {
		t.Fatalf("init sessions: %v", err)
	}
	return NewManager(repo, "test-secret", ttl)
}

func TestStartAndLookup(t *testing.T) {
	m := setupManager(t, time.Hour)
	ctx := context.Background()

	sess, cookie, err := m.Start(ctx)
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if sess.UserID != 0 {
		t.Errorf("fresh session should be anonymous, got user %d", sess.UserID)
	}

	got, err := m.Lookup(ctx, cookie)
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if got.Token != sess.Token {
		t.Errorf("expected token %q, got %q", sess.Token, got.Token)
	}

	if err := m.Login(ctx, sess.Token, 7); err != nil {
		t.Fatalf("login: %v", err)
	}
	got, err = m.Lookup(ctx, cookie)
	if err != nil {
		t.Fatalf("lookup after login: %v", err)
	}
	if got.UserID != 7 {
		t.Errorf("expected user 7, got %d", got.UserID)
	}
}

func TestLookupRejectsTamperedCookie(t *testing.T) {
	m := setupManager(t, time.Hour)
	ctx := context.Background()

	_, cookie, err := m.Start(ctx)
	if err != nil {
		t.Fatalf("start: %v", err)
	}

	for _, bad := range []string{
		"",
		"garbage",
		cookie + "x",
	} {
		if _, err := m.Lookup(ctx, bad); !errors.Is(err, ErrNoSession) {
			t.Errorf("cookie %q: expected ErrNoSession, got %v", bad, err)
		}
	}

	// a cookie signed with a different secret does not verify either
	other := setupManager(t, time.Hour)
	other.secret = []byte("other-secret")
	_, foreign, err := other.Start(ctx)
	if err != nil {
		t.Fatalf("start foreign: %v", err)
	}
	if _, err := m.Lookup(ctx, foreign); !errors.Is(err, ErrNoSession) {
		t.Errorf("foreign cookie: expected ErrNoSession, got %v", err)
	}
}

func TestDestroyInvalidatesCookie(t *testing.T) {
	m := setupManager(t, time.Hour)
	ctx := context.Background()

	sess, cookie, err := m.Start(ctx)
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if err := m.Destroy(ctx, sess.Token); err != nil {
		t.Fatalf("destroy: %v", err)
	}

	// the cookie still carries a valid signature but the row is gone
	if _, err := m.Lookup(ctx, cookie); !errors.Is(err, ErrNoSession) {
		t.Errorf("expected ErrNoSession after destroy, got %v", err)
	}
}

func TestFlashRoundtrip(t *testing.T) {
	m := setupManager(t, time.Hour)
	ctx := context.Background()

	sess, _, err := m.Start(ctx)
	if err != nil {
		t.Fatalf("start: %v", err)
	}

	if err := m.Flash(ctx, sess.Token, "Logged in successfully!", "success"); err != nil {
		t.Fatalf("flash: %v", err)
	}

	flash, err := m.PopFlash(ctx, sess.Token)
	if err != nil {
		t.Fatalf("pop: %v", err)
	}
	if flash == nil || flash.Message != "Logged in successfully!" || flash.Category != "success" {
		t.Fatalf("unexpected flash: %+v", flash)
	}

	flash, err = m.PopFlash(ctx, sess.Token)
	if err != nil {
		t.Fatalf("second pop: %v", err)
	}
	if flash != nil {
		t.Errorf("flash shown twice: %+v", flash)
	}
}

func TestExpiredSessionGatesLikeNone(t *testing.T) {
	m := setupManager(t, -time.Minute)
	ctx := context.Background()

	_, cookie, err := m.Start(ctx)
	if err != nil {
		t.Fatalf("start: %v", err)
	}

	if _, err := m.Lookup(ctx, cookie); !errors.Is(err, ErrNoSession) {
		t.Errorf("expected ErrNoSession for expired session, got %v", err)
	}
}
