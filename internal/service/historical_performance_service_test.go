package service

import (
	"context"
	"testing"
	"time"

	"vendor-service/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func f64(v float64) *float64 { return &v }

func historyRequest(vendorID int64) *HistoricalPerformanceRequest {
	return &HistoricalPerformanceRequest{
		VendorID:            vendorID,
		Date:                time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		OnTimeDeliveryRate:  f64(0.9),
		QualityRatingAvg:    f64(4.2),
		AverageResponseTime: f64(35),
		FulfillmentRate:     f64(0.8),
	}
}

func TestHistoricalPerformanceCRUD(t *testing.T) {
	f := newPOFixture(t)
	svc := NewHistoricalPerformanceService(f.store)
	ctx := context.Background()

	created, err := svc.CreateHistoricalPerformance(ctx, historyRequest(f.vendor.ID))
	require.NoError(t, err)
	assert.NotZero(t, created.ID)

	req := historyRequest(f.vendor.ID)
	req.FulfillmentRate = f64(0.6)
	updated, err := svc.UpdateHistoricalPerformance(ctx, created.ID, req)
	require.NoError(t, err)
	assert.Equal(t, 0.6, updated.FulfillmentRate)

	list, err := svc.ListHistoricalPerformances(ctx, &f.vendor.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, 0.6, list[0].FulfillmentRate)

	other := f.vendor.ID + 100
	list, err = svc.ListHistoricalPerformances(ctx, &other)
	require.NoError(t, err)
	assert.Empty(t, list)

	require.NoError(t, svc.DeleteHistoricalPerformance(ctx, created.ID))
	_, err = svc.GetHistoricalPerformance(ctx, created.ID)
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestHistoricalPerformance_Validation(t *testing.T) {
	f := newPOFixture(t)
	svc := NewHistoricalPerformanceService(f.store)
	ctx := context.Background()

	req := historyRequest(f.vendor.ID)
	req.QualityRatingAvg = nil
	_, err := svc.CreateHistoricalPerformance(ctx, req)
	var verr *models.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "quality_rating_avg", verr.Field)

	_, err = svc.CreateHistoricalPerformance(ctx, historyRequest(9999))
	assert.ErrorIs(t, err, models.ErrInvalidReference)

	_, err = svc.UpdateHistoricalPerformance(ctx, 9999, historyRequest(f.vendor.ID))
	assert.ErrorIs(t, err, models.ErrNotFound)
}
