package store

import (
	"context"

	"vendor-service/internal/models"
)

// CreateVendor creates a new vendor
func (s *Store) CreateVendor(ctx context.Context, vendor *models.Vendor) error {
	query := `
		INSERT INTO vendors (name, contact_details, address, vendor_code)
		VALUES ($1, $2, $3, $4)
		RETURNING id, on_time_delivery_rate, quality_rating_avg, average_response_time,
			fulfillment_rate, created_at, updated_at`

	err := s.db.GetContext(ctx, vendor, query,
		vendor.Name, vendor.ContactDetails, vendor.Address, vendor.VendorCode)
	return translateError(err, "vendor")
}

// GetVendorByID retrieves a vendor by ID
func (s *Store) GetVendorByID(ctx context.Context, id int64) (*models.Vendor, error) {
	var vendor models.Vendor
	err := s.db.GetContext(ctx, &vendor, "SELECT * FROM vendors WHERE id = $1", id)
	if err != nil {
		return nil, translateError(err, "vendor")
	}
	return &vendor, nil
}

// ListVendors retrieves all vendors
func (s *Store) ListVendors(ctx context.Context) ([]models.Vendor, error) {
	vendors := []models.Vendor{}
	err := s.db.SelectContext(ctx, &vendors, "SELECT * FROM vendors ORDER BY id")
	return vendors, err
}

// UpdateVendor updates the descriptive fields of a vendor. Cached metrics are left alone.
func (s *Store) UpdateVendor(ctx context.Context, vendor *models.Vendor) error {
	query := `
		UPDATE vendors
		SET name = $1, contact_details = $2, address = $3, vendor_code = $4, updated_at = NOW()
		WHERE id = $5
		RETURNING *`

	err := s.db.GetContext(ctx, vendor, query,
		vendor.Name, vendor.ContactDetails, vendor.Address, vendor.VendorCode, vendor.ID)
	return translateError(err, "vendor")
}

// DeleteVendor deletes a vendor along with its purchase orders and history
func (s *Store) DeleteVendor(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM vendors WHERE id = $1", id)
	if err != nil {
		return err
	}
	return checkAffected(res, "vendor")
}

// UpdateVendorPerformance overwrites all four cached metrics
func (s *Store) UpdateVendorPerformance(ctx context.Context, vendorID int64, m models.PerformanceMetrics) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE vendors
		SET on_time_delivery_rate = $1, quality_rating_avg = $2, average_response_time = $3,
			fulfillment_rate = $4, updated_at = NOW()
		WHERE id = $5`,
		m.OnTimeDeliveryRate, m.QualityRatingAvg, m.AverageResponseTime, m.FulfillmentRate, vendorID)
	if err != nil {
		return err
	}
	return checkAffected(res, "vendor")
}

// UpdateVendorAverageResponseTime overwrites only the cached average response time
func (s *Store) UpdateVendorAverageResponseTime(ctx context.Context, vendorID int64, minutes float64) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE vendors SET average_response_time = $1, updated_at = NOW() WHERE id = $2",
		minutes, vendorID)
	if err != nil {
		return err
	}
	return checkAffected(res, "vendor")
}
