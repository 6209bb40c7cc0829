package service

import (
	"context"
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"friendbook/internal/domain"
	"friendbook/internal/repository"
)

var (
	// ErrMissingFields indicates a required registration field was blank.
	ErrMissingFields = errors.New("required fields missing")
	// ErrPasswordMismatch indicates password and confirmation differ.
	ErrPasswordMismatch = errors.New("passwords do not match")
	// ErrUsernameTaken is returned when the requested username already exists.
	ErrUsernameTaken = errors.New("username already taken")
	// ErrInvalidCredentials indicates that provided login credentials are incorrect.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrUserNotFound indicates the requested user does not exist.
	ErrUserNotFound = errors.New("user not found")

	// ErrCurrentPasswordRequired is returned when a password change omits the current password.
	ErrCurrentPasswordRequired = errors.New("current password required")
	// ErrCurrentPasswordWrong is returned when the current password re-entry fails verification.
	ErrCurrentPasswordWrong = errors.New("current password incorrect")
	// ErrNewPasswordMismatch indicates the new password and its confirmation differ.
	ErrNewPasswordMismatch = errors.New("new passwords do not match")
	// ErrPasswordTooShort indicates the new password is under the minimum length.
	ErrPasswordTooShort = errors.New("password too short")

	// ErrUsernameTooLong and ErrAboutTooLong enforce the form field caps server-side.
	ErrUsernameTooLong = errors.New("username too long")
	ErrAboutTooLong    = errors.New("about text too long")
)

const (
	maxUsernameLen = 80
	maxAboutLen    = 300
	minPasswordLen = 6
)

// SettingsUpdate carries the optional fields of a settings form submission.
// Blank password fields mean "keep the current password".
type SettingsUpdate struct {
	Username        string
	About           string
	CurrentPassword string
	NewPassword     string
	ConfirmPassword string
}

// UserService describes account lifecycle operations.
type UserService interface {
	Register(ctx context.Context, username, password, confirm, about string) (*domain.User, error)
	Authenticate(ctx context.Context, username, password string) (*domain.User, error)
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	UpdateSettings(ctx context.Context, userID int64, update SettingsUpdate) (*domain.User, error)
}

type userService struct {
	users repository.UserRepository
}

func NewUserService(users repository.UserRepository) UserService {
	return &userService{users: users}
}

func (s *userService) Register(ctx context.Context, username, password, confirm, about string) (*domain.User, error) {
	username = strings.TrimSpace(username)
	about = strings.TrimSpace(about)

	if username == "" || password == "" || confirm == "" {
		return nil, ErrMissingFields
	}
	if password != confirm {
		return nil, ErrPasswordMismatch
	}
	if len(username) > maxUsernameLen {
		return nil, ErrUsernameTooLong
	}
	if len(about) > maxAboutLen {
		return nil, ErrAboutTooLong
	}

	if _, err := s.users.GetByUsername(ctx, username); err == nil {
		return nil, ErrUsernameTaken
	} else if !errors.Is(err, repository.ErrUserNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Username:     username,
		PasswordHash: string(hash),
		About:        about,
	}

	if _, err := s.users.Create(ctx, user); err != nil {
		// the unique constraint catches the check-then-insert race
		if strings.Contains(strings.ToLower(err.Error()), "already exists") {
			return nil, ErrUsernameTaken
		}
		return nil, err
	}

	return user, nil
}

func (s *userService) Authenticate(ctx context.Context, username, password string) (*domain.User, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, ErrInvalidCredentials
	}

	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return user, nil
}

func (s *userService) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

func (s *userService) UpdateSettings(ctx context.Context, userID int64, update SettingsUpdate) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	newUsername := strings.TrimSpace(update.Username)
	about := strings.TrimSpace(update.About)

	if newUsername != "" && newUsername != user.Username {
		if len(newUsername) > maxUsernameLen {
			return nil, ErrUsernameTooLong
		}
		if _, err := s.users.GetByUsername(ctx, newUsername); err == nil {
			return nil, ErrUsernameTaken
		} else if !errors.Is(err, repository.ErrUserNotFound) {
			return nil, err
		}
		user.Username = newUsername
	}

	if len(about) > maxAboutLen {
		return nil, ErrAboutTooLong
	}
	user.About = about

	if update.CurrentPassword != "" || update.NewPassword != "" || update.ConfirmPassword != "" {
		if update.CurrentPassword == "" {
			return nil, ErrCurrentPasswordRequired
		}
		if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(update.CurrentPassword)); err != nil {
			return nil, ErrCurrentPasswordWrong
		}
		if update.NewPassword != update.ConfirmPassword {
			return nil, ErrNewPasswordMismatch
		}
		if len(update.NewPassword) < minPasswordLen {
			return nil, ErrPasswordTooShort
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(update.NewPassword), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = string(hash)
	}

	if err := s.users.Update(ctx, user); err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "already exists") {
			return nil, ErrUsernameTaken
		}
		return nil, err
	}

	return user, nil
}
