package broker

import (
	"context"
	"encoding/json"
	"fmt"

	"vendor-service/internal/models"
	"vendor-service/internal/util"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// EventPublisher handles publishing domain events
type EventPublisher struct {
	producer *Producer
}

// NewEventPublisher creates a new event publisher
func NewEventPublisher(producer *Producer) *EventPublisher {
	return &EventPublisher{producer: producer}
}

func vendorKey(vendorID int64) string {
	return fmt.Sprintf("vendor-%d", vendorID)
}

// PublishPurchaseOrderAcknowledged publishes PurchaseOrderAcknowledged event
func (ep *EventPublisher) PublishPurchaseOrderAcknowledged(ctx context.Context, event *models.PurchaseOrderAcknowledgedEvent) error {
	return ep.producer.PublishEvent(ctx, vendorKey(event.VendorID), event)
}

// PublishVendorPerformanceComputed publishes VendorPerformanceComputed event
func (ep *EventPublisher) PublishVendorPerformanceComputed(ctx context.Context, event *models.VendorPerformanceComputedEvent) error {
	return ep.producer.PublishEvent(ctx, vendorKey(event.VendorID), event)
}

// PublishVendorDeleted publishes VendorDeleted event
func (ep *EventPublisher) PublishVendorDeleted(ctx context.Context, event *models.VendorDeletedEvent) error {
	return ep.producer.PublishEvent(ctx, vendorKey(event.VendorID), event)
}

// EventHandler handles incoming events
type EventHandler struct {
	onAcknowledged        func(context.Context, *models.PurchaseOrderAcknowledgedEvent) error
	onPerformanceComputed func(context.Context, *models.VendorPerformanceComputedEvent) error
	onVendorDeleted       func(context.Context, *models.VendorDeletedEvent) error
	logger                *zap.Logger
}

// NewEventHandler creates a new event handler
func NewEventHandler() *EventHandler {
	return &EventHandler{logger: util.GetLogger()}
}

// OnPurchaseOrderAcknowledged registers a handler for PurchaseOrderAcknowledged events
func (eh *EventHandler) OnPurchaseOrderAcknowledged(handler func(context.Context, *models.PurchaseOrderAcknowledgedEvent) error) {
	eh.onAcknowledged = handler
}

// OnVendorPerformanceComputed registers a handler for VendorPerformanceComputed events
func (eh *EventHandler) OnVendorPerformanceComputed(handler func(context.Context, *models.VendorPerformanceComputedEvent) error) {
	eh.onPerformanceComputed = handler
}

// OnVendorDeleted registers a handler for VendorDeleted events
func (eh *EventHandler) OnVendorDeleted(handler func(context.Context, *models.VendorDeletedEvent) error) {
	eh.onVendorDeleted = handler
}

// HandleMessage routes messages to appropriate handlers
func (eh *EventHandler) HandleMessage(ctx context.Context, msg kafka.Message) error {
	var baseEvent models.BaseEvent
	if err := json.Unmarshal(msg.Value, &baseEvent); err != nil {
		return fmt.Errorf("failed to unmarshal base event: %w", err)
	}

	eh.logger.Debug("Handling event",
		zap.String("type", baseEvent.EventType),
		zap.String("id", baseEvent.EventID))

	switch baseEvent.EventType {
	case models.EventTypePurchaseOrderAcknowledged:
		if eh.onAcknowledged != nil {
			var event models.PurchaseOrderAcknowledgedEvent
			if err := json.Unmarshal(msg.Value, &event); err != nil {
				return fmt.Errorf("failed to unmarshal PurchaseOrderAcknowledged event: %w", err)
			}
			return eh.onAcknowledged(ctx, &event)
		}

	case models.EventTypeVendorPerformanceComputed:
		if eh.onPerformanceComputed != nil {
			var event models.VendorPerformanceComputedEvent
			if err := json.Unmarshal(msg.Value, &event); err != nil {
				return fmt.Errorf("failed to unmarshal VendorPerformanceComputed event: %w", err)
			}
			return eh.onPerformanceComputed(ctx, &event)
		}

	case models.EventTypeVendorDeleted:
		if eh.onVendorDeleted != nil {
			var event models.VendorDeletedEvent
			if err := json.Unmarshal(msg.Value, &event); err != nil {
				return fmt.Errorf("failed to unmarshal VendorDeleted event: %w", err)
			}
			return eh.onVendorDeleted(ctx, &event)
		}

	default:
		eh.logger.Warn("Unhandled event type", zap.String("type", baseEvent.EventType))
	}

	return nil
}
