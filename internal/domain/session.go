package domain

import "time"

// Session is a server-side session row. UserID is zero while the session is
// anonymous (e.g. a session created only to carry a flash message).
type Session struct {
	Token     string
	UserID    int64
	CreatedAt time.Time
	ExpiresAt time.Time
}

// Flash is a one-shot notice shown on the next rendered page.
type Flash struct {
	Message  string
	Category string
}

// Flash categories map onto bootstrap alert styles.
const (
	FlashSuccess = "success"
	FlashDanger  = "danger"
	FlashWarning = "warning"
	FlashInfo    = "info"
)
