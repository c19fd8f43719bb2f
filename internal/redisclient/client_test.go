package redisclient

import (
	"context"
	"os"
	"testing"
	"time"

	"vendor-service/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIdempotencyKeyFormat(t *testing.T) {
	assert.Equal(t, "idempotency:vendor:abc", idempotencyKey("vendor", "abc"))
}

func TestIdempotencyRoundTrip(t *testing.T) {
	addr := os.Getenv("TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("Integration test - requires TEST_REDIS_ADDR")
	}

	client, err := NewClient(addr, "", 0, time.Minute)
	require.NoError(t, err)
	defer client.Close()

	ctx := context.Background()
	key := uuid.New().String()

	_, reserved, err := client.ReserveIdempotencyKey(ctx, "vendor", key)
	require.NoError(t, err)
	assert.True(t, reserved)

	_, _, err = client.ReserveIdempotencyKey(ctx, "vendor", key)
	assert.ErrorIs(t, err, models.ErrRequestInProgress)

	require.NoError(t, client.CompleteIdempotencyKey(ctx, "vendor", key, 42))

	id, reserved, err := client.ReserveIdempotencyKey(ctx, "vendor", key)
	require.NoError(t, err)
	assert.False(t, reserved)
	assert.Equal(t, int64(42), id)

	_, reserved, err = client.ReserveIdempotencyKey(ctx, "purchase_order", key)
	require.NoError(t, err)
	assert.True(t, reserved)

	require.NoError(t, client.ReleaseIdempotencyKey(ctx, "purchase_order", key))
	_, reserved, err = client.ReserveIdempotencyKey(ctx, "purchase_order", key)
	require.NoError(t, err)
	assert.True(t, reserved)
}
