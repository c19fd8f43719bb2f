package store

import (
	"context"

	"vendor-service/internal/models"
)

// CreateHistoricalPerformance records a performance snapshot
func (s *Store) CreateHistoricalPerformance(ctx context.Context, hp *models.HistoricalPerformance) error {
	query := `
		INSERT INTO historical_performances (vendor_id, date, on_time_delivery_rate,
			quality_rating_avg, average_response_time, fulfillment_rate)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`

	err := s.db.GetContext(ctx, &hp.ID, query,
		hp.VendorID, hp.Date, hp.OnTimeDeliveryRate, hp.QualityRatingAvg,
		hp.AverageResponseTime, hp.FulfillmentRate)
	return translateError(err, "historical performance")
}

// GetHistoricalPerformanceByID retrieves a snapshot by ID
func (s *Store) GetHistoricalPerformanceByID(ctx context.Context, id int64) (*models.HistoricalPerformance, error) {
	var hp models.HistoricalPerformance
	err := s.db.GetContext(ctx, &hp, "SELECT * FROM historical_performances WHERE id = $1", id)
	if err != nil {
		return nil, translateError(err, "historical performance")
	}
	return &hp, nil
}

// ListHistoricalPerformances retrieves snapshots, optionally for a single vendor
func (s *Store) ListHistoricalPerformances(ctx context.Context, vendorID *int64) ([]models.HistoricalPerformance, error) {
	records := []models.HistoricalPerformance{}
	if vendorID != nil {
		err := s.db.SelectContext(ctx, &records,
			"SELECT * FROM historical_performances WHERE vendor_id = $1 ORDER BY date, id", *vendorID)
		return records, err
	}
	err := s.db.SelectContext(ctx, &records, "SELECT * FROM historical_performances ORDER BY date, id")
	return records, err
}

// UpdateHistoricalPerformance overwrites a snapshot
func (s *Store) UpdateHistoricalPerformance(ctx context.Context, hp *models.HistoricalPerformance) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE historical_performances
		SET vendor_id = $1, date = $2, on_time_delivery_rate = $3, quality_rating_avg = $4,
			average_response_time = $5, fulfillment_rate = $6
		WHERE id = $7`,
		hp.VendorID, hp.Date, hp.OnTimeDeliveryRate, hp.QualityRatingAvg,
		hp.AverageResponseTime, hp.FulfillmentRate, hp.ID)
	if err != nil {
		return translateError(err, "historical performance")
	}
	return checkAffected(res, "historical performance")
}

// DeleteHistoricalPerformance deletes a snapshot
func (s *Store) DeleteHistoricalPerformance(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM historical_performances WHERE id = $1", id)
	if err != nil {
		return err
	}
	return checkAffected(res, "historical performance")
}
