package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"vendor-service/internal/models"
	"vendor-service/internal/util"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx/types"
	"go.uber.org/zap"
)

// Idempotency scopes
const (
	scopeVendor        = "vendor"
	scopePurchaseOrder = "purchase_order"
)

func newBaseEvent(eventType string, now time.Time) models.BaseEvent {
	return models.BaseEvent{
		EventID:   uuid.New().String(),
		EventType: eventType,
		Timestamp: now,
	}
}

// idempotencyClaim is what an Idempotency-Key resolved to before a create
type idempotencyClaim struct {
	replayID int64
	replay   bool
	owned    bool
}

// claimReplay reserves key for this request or finds the id an earlier request
// created. An unreachable store degrades to a plain create.
func claimReplay(ctx context.Context, store IdempotencyStore, scope, key string) (idempotencyClaim, error) {
	if store == nil || key == "" {
		return idempotencyClaim{}, nil
	}

	id, reserved, err := store.ReserveIdempotencyKey(ctx, scope, key)
	switch {
	case errors.Is(err, models.ErrRequestInProgress):
		return idempotencyClaim{}, err
	case err != nil:
		util.LoggerFromContext(ctx).Warn("Idempotency reservation failed",
			zap.String("scope", scope),
			zap.Error(err))
		return idempotencyClaim{}, nil
	case reserved:
		return idempotencyClaim{owned: true}, nil
	}
	return idempotencyClaim{replayID: id, replay: true}, nil
}

func completeReplay(ctx context.Context, store IdempotencyStore, scope, key string, id int64) {
	if err := store.CompleteIdempotencyKey(ctx, scope, key, id); err != nil {
		util.LoggerFromContext(ctx).Warn("Failed to store idempotency key",
			zap.String("scope", scope),
			zap.Int64("id", id),
			zap.Error(err))
	}
}

func releaseReplay(ctx context.Context, store IdempotencyStore, scope, key string) {
	if err := store.ReleaseIdempotencyKey(ctx, scope, key); err != nil {
		util.LoggerFromContext(ctx).Warn("Failed to release idempotency key",
			zap.String("scope", scope),
			zap.Error(err))
	}
}

func publishFailed(ctx context.Context, eventType string, err error) {
	util.EventsPublishFailedTotal.WithLabelValues(eventType).Inc()
	util.LoggerFromContext(ctx).Error("Failed to publish event",
		zap.String("event_type", eventType),
		zap.Error(err))
}

func requireText(field, value string, maxLen int) error {
	value = strings.TrimSpace(value)
	if value == "" {
		return models.NewValidationError(field, "this field may not be blank")
	}
	if maxLen > 0 && len(value) > maxLen {
		return models.NewValidationError(field, fmt.Sprintf("ensure this field has no more than %d characters", maxLen))
	}
	return nil
}

func requireTime(field string, value time.Time) error {
	if value.IsZero() {
		return models.NewValidationError(field, "this field is required")
	}
	return nil
}

func isEmptyPayload(p types.JSONText) bool {
	s := strings.TrimSpace(string(p))
	return s == "" || s == "null"
}

func isNotFound(err error) bool {
	return errors.Is(err, models.ErrNotFound)
}
