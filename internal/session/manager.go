// Package session implements server-side browser sessions. The session state
// (bound user, pending flash message) lives in the database; the browser only
// holds an opaque token wrapped in a signed JWT, so logout invalidates the
// session even if the cookie survives on the client.
package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"friendbook/internal/domain"
	"friendbook/internal/repository"
)

// CookieName is the browser cookie carrying the signed session token.
const CookieName = "friendbook_session"

// ErrNoSession is returned when a cookie value does not resolve to a live
// session: missing row, expired row, or a token that fails signature checks.
var ErrNoSession = errors.New("no valid session")

// Manager creates, resolves, and destroys sessions.
type Manager struct {
	sessions repository.SessionRepository
	secret   []byte
	ttl      time.Duration
}

func NewManager(sessions repository.SessionRepository, secret string, ttl time.Duration) *Manager {
	return &Manager{
		sessions: sessions,
		secret:   []byte(secret),
		ttl:      ttl,
	}
}

// Start creates a fresh anonymous session and returns it together with the
// signed cookie value.
func (m *Manager) Start(ctx context.Context) (*domain.Session, string, error) {
	now := time.Now().UTC()
	session := &domain.Session{
		Token:     uuid.NewString(),
		CreatedAt: now,
		ExpiresAt: now.Add(m.ttl),
	}
	if err := m.sessions.Create(ctx, session); err != nil {
		return nil, "", err
	}

	signed, err := m.sign(session)
	if err != nil {
		return nil, "", err
	}
	return session, signed, nil
}

// Lookup verifies the signed cookie value and loads the session row behind it.
func (m *Manager) Lookup(ctx context.Context, cookieValue string) (*domain.Session, error) {
	token, err := m.verify(cookieValue)
	if err != nil {
		return nil, ErrNoSession
	}

	session, err := m.sessions.Get(ctx, token)
	if err != nil {
		if errors.Is(err, repository.ErrSessionNotFound) {
			return nil, ErrNoSession
		}
		return nil, err
	}

	if time.Now().UTC().After(session.ExpiresAt) {
		_ = m.sessions.Delete(ctx, session.Token)
		return nil, ErrNoSession
	}
	return session, nil
}

// Login binds an authenticated user to the session.
func (m *Manager) Login(ctx context.Context, token string, userID int64) error {
	return m.sessions.BindUser(ctx, token, userID)
}

// Destroy removes the session row, invalidating every copy of the cookie.
func (m *Manager) Destroy(ctx context.Context, token string) error {
	return m.sessions.Delete(ctx, token)
}

// Flash stores a one-shot notice on the session for the next rendered page.
func (m *Manager) Flash(ctx context.Context, token, message, category string) error {
	return m.sessions.SetFlash(ctx, token, domain.Flash{Message: message, Category: category})
}

// PopFlash returns the pending flash, if any, clearing it in the same step.
func (m *Manager) PopFlash(ctx context.Context, token string) (*domain.Flash, error) {
	flash, err := m.sessions.PopFlash(ctx, token)
	if err != nil {
		if errors.Is(err, repository.ErrSessionNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return flash, nil
}

// Reap drops expired session rows.
func (m *Manager) Reap(ctx context.Context) error {
	return m.sessions.DeleteExpired(ctx, time.Now())
}

func (m *Manager) sign(session *domain.Session) (string, error) {
	claims := jwt.RegisteredClaims{
		ID:        session.Token,
		ExpiresAt: jwt.NewNumericDate(session.ExpiresAt),
		IssuedAt:  jwt.NewNumericDate(session.CreatedAt),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("sign session token: %w", err)
	}
	return signed, nil
}

func (m *Manager) verify(cookieValue string) (string, error) {
	var claims jwt.RegisteredClaims
	token, err := jwt.ParseWithClaims(cookieValue, &claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return m.secret, nil
	})
	if err != nil || !token.Valid || claims.ID == "" {
		return "", ErrNoSession
	}
	return claims.ID, nil
}
