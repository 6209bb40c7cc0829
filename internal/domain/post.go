package domain

import "time"

// Post is a single entry in the public feed.
type Post struct {
	ID        int64
	UserID    int64
	Subject   string
	Body      string
	CreatedAt time.Time

	// AuthorName is resolved by joining against users when listing.
	AuthorName string
}
