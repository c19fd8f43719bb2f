package worker

import (
	"context"
	"fmt"

	"vendor-service/internal/broker"
	"vendor-service/internal/models"
	"vendor-service/internal/util"

	"go.uber.org/zap"
)

// EventLog records which events have already been applied
type EventLog interface {
	IsEventProcessed(ctx context.Context, eventID string) (bool, error)
	MarkEventProcessed(ctx context.Context, eventID, eventType string) error
}

// PerformanceWorker projects vendor events onto the per-vendor gauges
type PerformanceWorker struct {
	consumer     *broker.Consumer
	eventHandler *broker.EventHandler
	events       EventLog
	logger       *zap.Logger
}

// NewPerformanceWorker creates a new performance worker
func NewPerformanceWorker(consumer *broker.Consumer, events EventLog) *PerformanceWorker {
	w := &PerformanceWorker{
		consumer:     consumer,
		eventHandler: broker.NewEventHandler(),
		events:       events,
		logger:       util.GetLogger(),
	}

	w.eventHandler.OnPurchaseOrderAcknowledged(w.handleAcknowledged)
	w.eventHandler.OnVendorPerformanceComputed(w.handlePerformanceComputed)
	w.eventHandler.OnVendorDeleted(w.handleVendorDeleted)

	return w
}

// Start starts the worker
func (w *PerformanceWorker) Start(ctx context.Context) error {
	w.logger.Info("Starting performance worker")
	return w.consumer.StartConsuming(ctx, w.eventHandler.HandleMessage)
}

// Stop stops the worker
func (w *PerformanceWorker) Stop() error {
	w.logger.Info("Stopping performance worker")
	return w.consumer.Close()
}

// once runs apply unless the event was seen before, then records it
func (w *PerformanceWorker) once(ctx context.Context, event models.BaseEvent, apply func()) error {
	if event.EventID != "" {
		seen, err := w.events.IsEventProcessed(ctx, event.EventID)
		if err != nil {
			return fmt.Errorf("failed to check event %s: %w", event.EventID, err)
		}
		if seen {
			w.logger.Debug("Skipping processed event",
				zap.String("event_id", event.EventID),
				zap.String("event_type", event.EventType))
			return nil
		}
	}

	apply()

	if event.EventID == "" {
		return nil
	}
	if err := w.events.MarkEventProcessed(ctx, event.EventID, event.EventType); err != nil {
		return fmt.Errorf("failed to record event %s: %w", event.EventID, err)
	}
	return nil
}

func (w *PerformanceWorker) handleAcknowledged(ctx context.Context, event *models.PurchaseOrderAcknowledgedEvent) error {
	return w.once(ctx, event.BaseEvent, func() {
		util.VendorAverageResponseTime.WithLabelValues(util.VendorLabel(event.VendorID)).Set(event.AverageResponseTime)
	})
}

func (w *PerformanceWorker) handlePerformanceComputed(ctx context.Context, event *models.VendorPerformanceComputedEvent) error {
	return w.once(ctx, event.BaseEvent, func() {
		label := util.VendorLabel(event.VendorID)
		util.VendorOnTimeDeliveryRate.WithLabelValues(label).Set(event.Metrics.OnTimeDeliveryRate)
		util.VendorQualityRatingAvg.WithLabelValues(label).Set(event.Metrics.QualityRatingAvg)
		util.VendorAverageResponseTime.WithLabelValues(label).Set(event.Metrics.AverageResponseTime)
		util.VendorFulfillmentRate.WithLabelValues(label).Set(event.Metrics.FulfillmentRate)
	})
}

func (w *PerformanceWorker) handleVendorDeleted(ctx context.Context, event *models.VendorDeletedEvent) error {
	return w.once(ctx, event.BaseEvent, func() {
		label := util.VendorLabel(event.VendorID)
		util.VendorOnTimeDeliveryRate.DeleteLabelValues(label)
		util.VendorQualityRatingAvg.DeleteLabelValues(label)
		util.VendorAverageResponseTime.DeleteLabelValues(label)
		util.VendorFulfillmentRate.DeleteLabelValues(label)

		w.logger.Info("Dropped gauges for deleted vendor", zap.Int64("vendor_id", event.VendorID))
	})
}
