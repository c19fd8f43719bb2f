package service

import (
	"context"
	"fmt"
	"time"

	"vendor-service/internal/models"
	"vendor-service/internal/util"

	"go.uber.org/zap"
)

// HistoricalPerformanceService manages explicitly recorded performance snapshots
type HistoricalPerformanceService struct {
	records HistoricalPerformanceRepository
	logger  *zap.Logger
}

// NewHistoricalPerformanceService creates a new historical performance service
func NewHistoricalPerformanceService(records HistoricalPerformanceRepository) *HistoricalPerformanceService {
	return &HistoricalPerformanceService{
		records: records,
		logger:  util.GetLogger(),
	}
}

// HistoricalPerformanceRequest is the full body for creating or replacing a snapshot
type HistoricalPerformanceRequest struct {
	VendorID            int64     `json:"vendor" binding:"required"`
	Date                time.Time `json:"date" binding:"required"`
	OnTimeDeliveryRate  *float64  `json:"on_time_delivery_rate" binding:"required"`
	QualityRatingAvg    *float64  `json:"quality_rating_avg" binding:"required"`
	AverageResponseTime *float64  `json:"average_response_time" binding:"required"`
	FulfillmentRate     *float64  `json:"fulfillment_rate" binding:"required"`
}

func (r *HistoricalPerformanceRequest) toModel() (*models.HistoricalPerformance, error) {
	if r.VendorID <= 0 {
		return nil, models.NewValidationError("vendor", "this field is required")
	}
	if err := requireTime("date", r.Date); err != nil {
		return nil, err
	}

	fields := []struct {
		name  string
		value *float64
	}{
		{"on_time_delivery_rate", r.OnTimeDeliveryRate},
		{"quality_rating_avg", r.QualityRatingAvg},
		{"average_response_time", r.AverageResponseTime},
		{"fulfillment_rate", r.FulfillmentRate},
	}
	for _, f := range fields {
		if f.value == nil {
			return nil, models.NewValidationError(f.name, "this field is required")
		}
	}

	return &models.HistoricalPerformance{
		VendorID:            r.VendorID,
		Date:                r.Date,
		OnTimeDeliveryRate:  *r.OnTimeDeliveryRate,
		QualityRatingAvg:    *r.QualityRatingAvg,
		AverageResponseTime: *r.AverageResponseTime,
		FulfillmentRate:     *r.FulfillmentRate,
	}, nil
}

// CreateHistoricalPerformance records a snapshot
func (s *HistoricalPerformanceService) CreateHistoricalPerformance(ctx context.Context, req *HistoricalPerformanceRequest) (*models.HistoricalPerformance, error) {
	ctx, span := util.StartSpan(ctx, "HistoricalPerformanceService.CreateHistoricalPerformance")
	defer span.End()

	record, err := req.toModel()
	if err != nil {
		return nil, err
	}

	if err := s.records.CreateHistoricalPerformance(ctx, record); err != nil {
		return nil, fmt.Errorf("failed to create historical performance: %w", err)
	}

	s.logger.Info("Historical performance recorded",
		zap.Int64("id", record.ID),
		zap.Int64("vendor_id", record.VendorID))
	return record, nil
}

// GetHistoricalPerformance retrieves a snapshot by ID
func (s *HistoricalPerformanceService) GetHistoricalPerformance(ctx context.Context, id int64) (*models.HistoricalPerformance, error) {
	return s.records.GetHistoricalPerformanceByID(ctx, id)
}

// ListHistoricalPerformances retrieves snapshots, optionally for one vendor
func (s *HistoricalPerformanceService) ListHistoricalPerformances(ctx context.Context, vendorID *int64) ([]models.HistoricalPerformance, error) {
	return s.records.ListHistoricalPerformances(ctx, vendorID)
}

// UpdateHistoricalPerformance replaces a snapshot
func (s *HistoricalPerformanceService) UpdateHistoricalPerformance(ctx context.Context, id int64, req *HistoricalPerformanceRequest) (*models.HistoricalPerformance, error) {
	ctx, span := util.StartSpan(ctx, "HistoricalPerformanceService.UpdateHistoricalPerformance")
	defer span.End()

	if _, err := s.records.GetHistoricalPerformanceByID(ctx, id); err != nil {
		return nil, err
	}

	record, err := req.toModel()
	if err != nil {
		return nil, err
	}
	record.ID = id

	if err := s.records.UpdateHistoricalPerformance(ctx, record); err != nil {
		return nil, fmt.Errorf("failed to update historical performance: %w", err)
	}
	return record, nil
}

// DeleteHistoricalPerformance deletes a snapshot
func (s *HistoricalPerformanceService) DeleteHistoricalPerformance(ctx context.Context, id int64) error {
	return s.records.DeleteHistoricalPerformance(ctx, id)
}
