package service

import (
	"context"
	"errors"
	"fmt"

	"vendor-service/internal/auth"
	"vendor-service/internal/models"
	"vendor-service/internal/util"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// ErrInvalidCredentials is returned when a username/password pair does not match
var ErrInvalidCredentials = errors.New("unable to log in with provided credentials")

// AuthService issues API tokens
type AuthService struct {
	users  UserRepository
	tokens *auth.TokenManager
	logger *zap.Logger
}

// NewAuthService creates a new auth service
func NewAuthService(users UserRepository, tokens *auth.TokenManager) *AuthService {
	return &AuthService{
		users:  users,
		tokens: tokens,
		logger: util.GetLogger(),
	}
}

// TokenRequest carries login credentials
type TokenRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// IssueToken checks the credentials and returns a signed token
func (s *AuthService) IssueToken(ctx context.Context, req *TokenRequest) (string, error) {
	user, err := s.users.GetUserByUsername(ctx, req.Username)
	if err != nil {
		if isNotFound(err) {
			return "", ErrInvalidCredentials
		}
		return "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		s.logger.Warn("Rejected login", zap.String("username", req.Username))
		return "", ErrInvalidCredentials
	}

	return s.tokens.GenerateToken(user)
}

// EnsureUser creates the user or resets its password
func (s *AuthService) EnsureUser(ctx context.Context, username, password string) error {
	if err := requireText("username", username, 150); err != nil {
		return err
	}
	if password == "" {
		return models.NewValidationError("password", "this field may not be blank")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{Username: username, PasswordHash: string(hash)}
	if err := s.users.UpsertUser(ctx, user); err != nil {
		return fmt.Errorf("failed to store user: %w", err)
	}

	s.logger.Info("API user ensured", zap.String("username", username))
	return nil
}
