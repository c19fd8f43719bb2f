package service

import (
	"context"
	"fmt"
	"time"

	"vendor-service/internal/models"
	"vendor-service/internal/performance"
	"vendor-service/internal/util"

	"go.uber.org/zap"
)

// PerformanceService recomputes vendor performance from purchase order history
type PerformanceService struct {
	vendors   VendorRepository
	orders    PurchaseOrderRepository
	publisher EventPublisher
	logger    *zap.Logger
	now       func() time.Time
}

// NewPerformanceService creates a new performance service
func NewPerformanceService(vendors VendorRepository, orders PurchaseOrderRepository, publisher EventPublisher) *PerformanceService {
	return &PerformanceService{
		vendors:   vendors,
		orders:    orders,
		publisher: publisher,
		logger:    util.GetLogger(),
		now:       time.Now,
	}
}

// VendorPerformance computes the four metrics over all of a vendor's orders and
// stores them as the vendor's cached figures. The last computation wins.
func (s *PerformanceService) VendorPerformance(ctx context.Context, vendorID int64) (models.PerformanceMetrics, error) {
	ctx, span := util.StartSpan(ctx, "PerformanceService.VendorPerformance")
	defer span.End()

	start := time.Now()

	if _, err := s.vendors.GetVendorByID(ctx, vendorID); err != nil {
		return models.PerformanceMetrics{}, err
	}

	orders, err := s.orders.ListPurchaseOrders(ctx, models.PurchaseOrderFilter{VendorID: &vendorID})
	if err != nil {
		return models.PerformanceMetrics{}, fmt.Errorf("failed to load purchase orders: %w", err)
	}

	now := s.now().UTC()
	metrics := performance.ComputeFullMetrics(orders, now)

	if err := s.vendors.UpdateVendorPerformance(ctx, vendorID, metrics); err != nil {
		return models.PerformanceMetrics{}, fmt.Errorf("failed to store vendor performance: %w", err)
	}

	util.PerformanceComputeLatency.Observe(time.Since(start).Seconds())
	util.PerformanceComputationsTotal.WithLabelValues("full").Inc()

	s.logger.Debug("Vendor performance computed",
		zap.Int64("vendor_id", vendorID),
		zap.Int("orders", len(orders)),
		zap.Float64("on_time_delivery_rate", metrics.OnTimeDeliveryRate),
		zap.Float64("fulfillment_rate", metrics.FulfillmentRate))

	if s.publisher != nil {
		event := &models.VendorPerformanceComputedEvent{
			BaseEvent: newBaseEvent(models.EventTypeVendorPerformanceComputed, now),
			VendorID:  vendorID,
			Metrics:   metrics,
		}
		if err := s.publisher.PublishVendorPerformanceComputed(ctx, event); err != nil {
			publishFailed(ctx, models.EventTypeVendorPerformanceComputed, err)
		}
	}

	return metrics, nil
}
