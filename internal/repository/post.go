package repository

import (
	"context"

	"friendbook/internal/domain"
)

// PostRepository exposes persistence operations for feed posts.
type PostRepository interface {
	Init(ctx context.Context) error
	Create(ctx context.Context, post *domain.Post) (int64, error)
	// ListNewestFirst returns every post, most recent first, with the
	// author's username resolved.
	ListNewestFirst(ctx context.Context) ([]domain.Post, error)
}

// MessageRepository manages chat room messages.
type MessageRepository interface {
	Init(ctx context.Context) error
	Create(ctx context.Context, msg *domain.Message) (int64, error)
	// ListChronological returns every message, oldest first, with the
	// author's username resolved.
	ListChronological(ctx context.Context) ([]domain.Message, error)
}
