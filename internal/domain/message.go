package domain

import "time"

// Message is one line in the global chat room.
type Message struct {
	ID        int64
	UserID    int64
	Content   string
	CreatedAt time.Time

	// AuthorName is resolved by joining against users when listing.
	AuthorName string
}
