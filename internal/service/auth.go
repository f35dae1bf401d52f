package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"backend/internal/models"
	"backend/internal/password"
	"backend/internal/repository"
	"backend/internal/token"
)

var ( // Define custom errors
	ErrEmailTaken         = errors.New("email already registered")
	ErrWeakPassword       = errors.New("password must be at least 8 characters")
	ErrInvalidCredentials = errors.New("invalid email or password")
)

const minPasswordLen = 8

type AuthService interface {
	Signup(email, pass, name string) (string, *models.User, error) // Returns JWT token, created user, and error
	Login(email, pass string) (string, *models.User, error)
}

type authService struct {
	users  repository.UserRepository
	codec  *token.Codec
	logger *zap.Logger
}

func NewAuthService(users repository.UserRepository, codec *token.Codec, logger *zap.Logger) AuthService {
	return &authService{
		users:  users,
		codec:  codec,
		logger: logger,
	}
}

func (s *authService) Signup(email, pass, name string) (string, *models.User, error) {
	// Pre-check only; the unique constraint on users.email is the
	// authoritative guard against a concurrent duplicate signup.
	if _, err := s.users.GetByEmail(email); err == nil {
		return "", nil, ErrEmailTaken
	} else if !errors.Is(err, repository.ErrNotFound) {
		s.logger.Error("Failed to check existing email", zap.Error(err))
		return "", nil, fmt.Errorf("failed to check existing email: %w", err)
	}

	if len(pass) < minPasswordLen {
		return "", nil, ErrWeakPassword
	}

	passwordHash, err := password.Hash(pass)
	if err != nil {
		s.logger.Error("Failed to hash password", zap.Error(err))
		return "", nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now().UTC()
	user := &models.User{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: passwordHash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if name != "" {
		user.Name = &name
	}

	if err := s.users.Create(user); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return "", nil, ErrEmailTaken
		}
		s.logger.Error("Failed to create user", zap.Error(err))
		return "", nil, fmt.Errorf("failed to create user: %w", err)
	}

	tokenString, err := s.codec.Issue(user.ID, user.Email)
	if err != nil {
		s.logger.Error("Failed to generate JWT token", zap.Error(err))
		return "", nil, fmt.Errorf("failed to generate token: %w", err)
	}

	s.logger.Info("User signed up successfully.", zap.String("user_id", user.ID))
	return tokenString, user, nil
}

func (s *authService) Login(email, pass string) (string, *models.User, error) {
	user, err := s.users.GetByEmail(email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			// Same error kind as a password mismatch, so callers cannot
			// tell registered emails apart from unknown ones.
			return "", nil, ErrInvalidCredentials
		}
		s.logger.Error("Failed to get user by email", zap.Error(err))
		return "", nil, fmt.Errorf("failed to retrieve user: %w", err)
	}

	if !password.Verify(pass, user.PasswordHash) {
		return "", nil, ErrInvalidCredentials
	}

	if err := s.users.Touch(user.ID); err != nil {
		s.logger.Error("Failed to refresh updated_at on login", zap.Error(err))
		return "", nil, fmt.Errorf("failed to update user: %w", err)
	}

	tokenString, err := s.codec.Issue(user.ID, user.Email)
	if err != nil {
		s.logger.Error("Failed to generate JWT token", zap.Error(err))
		return "", nil, fmt.Errorf("failed to generate token: %w", err)
	}

	s.logger.Info("User logged in successfully.", zap.String("user_id", user.ID))
	return tokenString, user, nil
}
