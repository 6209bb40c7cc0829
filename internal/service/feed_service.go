package service

import (
	"context"
	"errors"
	"strings"

	"friendbook/internal/domain"
	"friendbook/internal/repository"
)

var (
	// ErrEmptyPost indicates a blank subject or body.
	ErrEmptyPost = errors.New("subject and body cannot be empty")
	// ErrSubjectTooLong and ErrBodyTooLong enforce the form field caps server-side.
	ErrSubjectTooLong = errors.New("subject too long")
	ErrBodyTooLong    = errors.New("body too long")
)

const (
	maxSubjectLen = 150
	maxBodyLen    = 2000
)

// FeedService coordinates the public post feed.
type FeedService interface {
	CreatePost(ctx context.Context, authorID int64, subject, body string) (*domain.Post, error)
	ListPosts(ctx context.Context) ([]domain.Post, error)
}

type feedService struct {
	posts repository.PostRepository
}

func NewFeedService(posts repository.PostRepository) FeedService {
	return &feedService{posts: posts}
}

func (s *feedService) CreatePost(ctx context.Context, authorID int64, subject, body string) (*domain.Post, error) {
	subject = strings.TrimSpace(subject)
	body = strings.TrimSpace(body)

	if subject == "" || body == "" {
		return nil, ErrEmptyPost
	}
	if len(subject) > maxSubjectLen {
		return nil, ErrSubjectTooLong
	}
	if len(body) > maxBodyLen {
		return nil, ErrBodyTooLong
	}

	post := &domain.Post{
		UserID:  authorID,
		Subject: subject,
		Body:    body,
	}
	if _, err := s.posts.Create(ctx, post); err != nil {
		return nil, err
	}
	return post, nil
}

func (s *feedService) ListPosts(ctx context.Context) ([]domain.Post, error) {
	return s.posts.ListNewestFirst(ctx)
}
