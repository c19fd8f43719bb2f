package service

import (
	"context"
	"testing"
	"time"

	"vendor-service/internal/auth"
	"vendor-service/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssueToken(t *testing.T) {
	tokens := auth.NewTokenManager("test-secret", time.Hour)
	svc := NewAuthService(testutil.NewMemoryStore(), tokens)
	ctx := context.Background()

	require.NoError(t, svc.EnsureUser(ctx, "buyer", "s3cret"))

	token, err := svc.IssueToken(ctx, &TokenRequest{Username: "buyer", Password: "s3cret"})
	require.NoError(t, err)

	claims, err := tokens.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "buyer", claims.Username)
	assert.NotZero(t, claims.UserID())
}

func TestIssueToken_BadCredentials(t *testing.T) {
	svc := NewAuthService(testutil.NewMemoryStore(), auth.NewTokenManager("test-secret", time.Hour))
	ctx := context.Background()

	require.NoError(t, svc.EnsureUser(ctx, "buyer", "s3cret"))

	_, err := svc.IssueToken(ctx, &TokenRequest{Username: "buyer", Password: "wrong"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.IssueToken(ctx, &TokenRequest{Username: "nobody", Password: "s3cret"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestEnsureUser_ResetsPassword(t *testing.T) {
	svc := NewAuthService(testutil.NewMemoryStore(), auth.NewTokenManager("test-secret", time.Hour))
	ctx := context.Background()

	require.NoError(t, svc.EnsureUser(ctx, "buyer", "first"))
	require.NoError(t, svc.EnsureUser(ctx, "buyer", "second"))

	_, err := svc.IssueToken(ctx, &TokenRequest{Username: "buyer", Password: "first"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.IssueToken(ctx, &TokenRequest{Username: "buyer", Password: "second"})
	assert.NoError(t, err)

	assert.Error(t, svc.EnsureUser(ctx, "buyer", ""))
}
