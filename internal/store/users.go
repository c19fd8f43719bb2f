package store

import (
	"context"

	"vendor-service/internal/models"
)

// GetUserByUsername retrieves an API user
func (s *Store) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	err := s.db.GetContext(ctx, &user, "SELECT * FROM users WHERE username = $1", username)
	if err != nil {
		return nil, translateError(err, "user")
	}
	return &user, nil
}

// UpsertUser creates the user or replaces its password hash
func (s *Store) UpsertUser(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (username, password_hash)
		VALUES ($1, $2)
		ON CONFLICT (username) DO UPDATE SET password_hash = EXCLUDED.password_hash
		RETURNING id, created_at`

	return s.db.GetContext(ctx, user, query, user.Username, user.PasswordHash)
}
