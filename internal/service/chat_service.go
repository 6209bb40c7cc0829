package service

import (
	"context"
	"errors"
	"strings"

	"friendbook/internal/domain"
	"friendbook/internal/repository"
)

var (
	// ErrEmptyMessage indicates a blank chat submission.
	ErrEmptyMessage = errors.New("message cannot be empty")
	// ErrMessageTooLong enforces the chat input cap server-side.
	ErrMessageTooLong = errors.New("message too long")
)

const maxMessageLen = 500

// ChatService coordinates the single global chat room.
type ChatService interface {
	SendMessage(ctx context.Context, authorID int64, content string) (*domain.Message, error)
	ListMessages(ctx context.Context) ([]domain.Message, error)
}

type chatService struct {
	messages repository.MessageRepository
}

func NewChatService(messages repository.MessageRepository) ChatService {
	return &chatService{messages: messages}
}

func (s *chatService) SendMessage(ctx context.Context, authorID int64, content string) (*domain.Message, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, ErrEmptyMessage
	}
	if len(content) > maxMessageLen {
		return nil, ErrMessageTooLong
	}

	msg := &domain.Message{
		UserID:  authorID,
		Content: content,
	}
	if _, err := s.messages.Create(ctx, msg); err != nil {
		return nil, err
	}
	return msg, nil
}

func (s *chatService) ListMessages(ctx context.Context) ([]domain.Message, error) {
	return s.messages.ListChronological(ctx)
}
