package repository

import (
	"context"
	"errors"
	"time"

	"friendbook/internal/domain"
)

// ErrSessionNotFound is returned when no session row matches the token.
var ErrSessionNotFound = errors.New("session not found")

// SessionRepository defines persistence operations for server-side sessions.
type SessionRepository interface {
	Init(ctx context.Context) error
	Create(ctx context.Context, session *domain.Session) error
	Get(ctx context.Context, token string) (*domain.Session, error)
	BindUser(ctx context.Context, token string, userID int64) error
	SetFlash(ctx context.Context, token string, flash domain.Flash) error
	// PopFlash returns the stored flash, if any, and clears it in the same
	// transaction.
	PopFlash(ctx context.Context, token string) (*domain.Flash, error)
	Delete(ctx context.Context, token string) error
	DeleteExpired(ctx context.Context, now time.Time) error
}
