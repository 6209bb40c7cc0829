package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"friendbook/internal/domain"
	"friendbook/internal/repository"
)

const createSessionsTable = `
CREATE TABLE IF NOT EXISTS sessions (
	token TEXT PRIMARY KEY,
	user_id INTEGER NOT NULL DEFAULT 0,
	flash_message TEXT NOT NULL DEFAULT '',
	flash_category TEXT NOT NULL DEFAULT '',
	created_at DATETIME NOT NULL,
	expires_at DATETIME NOT NULL
);
`

type SessionRepository struct {
	db *sql.DB
}

func NewSessionRepository(db *sql.DB) repository.SessionRepository {
	return &SessionRepository{db: db}
}

func (r *SessionRepository) Init(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, createSessionsTable); err != nil {
		return fmt.Errorf("create sessions table: %w", err)
	}
	return nil
}

func (r *SessionRepository) Create(ctx context.Context, session *domain.Session) error {
	if session.CreatedAt.IsZero() {
		session.CreatedAt = time.Now().UTC()
	}

	if _, err := r.db.ExecContext(ctx, `
INSERT INTO sessions (token, user_id, created_at, expires_at)
VALUES (?, ?, ?, ?)`,
		session.Token,
		session.UserID,
		session.CreatedAt,
		session.ExpiresAt,
	); err != nil {
		return fmt.Errorf("insert session: %w", err)
	}
	return nil
}

func (r *SessionRepository) Get(ctx context.Context, token string) (*domain.Session, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT token, user_id, created_at, expires_at
FROM sessions
WHERE token = ?`,
		token,
	)

	var session domain.Session
	if err := row.Scan(
		&session.Token,
		&session.UserID,
		&session.CreatedAt,
		&session.ExpiresAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrSessionNotFound
		}
		return nil, fmt.Errorf("scan session: %w", err)
	}
	return &session, nil
}

func (r *SessionRepository) BindUser(ctx context.Context, token string, userID int64) error {
	res, err := r.db.ExecContext(ctx, `
UPDATE sessions SET user_id = ? WHERE token = ?`, userID, token)
	if err != nil {
		return fmt.Errorf("bind session user: %w", err)
	}
	return requireSessionRow(res)
}

func (r *SessionRepository) SetFlash(ctx context.Context, token string, flash domain.Flash) error {
	res, err := r.db.ExecContext(ctx, `
UPDATE sessions SET flash_message = ?, flash_category = ? WHERE token = ?`,
		flash.Message, flash.Category, token)
	if err != nil {
		return fmt.Errorf("set session flash: %w", err)
	}
	return requireSessionRow(res)
}

func (r *SessionRepository) PopFlash(ctx context.Context, token string) (*domain.Flash, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback() // safe no-op on commit

	var flash domain.Flash
	err = tx.QueryRowContext(ctx, `
SELECT flash_message, flash_category FROM sessions WHERE token = ?`, token).
		Scan(&flash.Message, &flash.Category)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrSessionNotFound
		}
		return nil, fmt.Errorf("read session flash: %w", err)
	}

	if flash.Message == "" {
		return nil, tx.Commit()
	}

	if _, err := tx.ExecContext(ctx, `
UPDATE sessions SET flash_message = '', flash_category = '' WHERE token = ?`, token); err != nil {
		return nil, fmt.Errorf("clear session flash: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit tx: %w", err)
	}
	return &flash, nil
}

func (r *SessionRepository) Delete(ctx context.Context, token string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM sessions WHERE token = ?`, token); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

func (r *SessionRepository) DeleteExpired(ctx context.Context, now time.Time) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM sessions WHERE expires_at <= ?`, now.UTC()); err != nil {
		return fmt.Errorf("delete expired sessions: %w", err)
	}
	return nil
}

func requireSessionRow(res sql.Result) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("session rows affected: %w", err)
	}
	if affected == 0 {
		return repository.ErrSessionNotFound
	}
	return nil
}
