package service

import (
	"context"
	"testing"
	"time"

	"vendor-service/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVendorPerformance_NoOrders(t *testing.T) {
	f := newPOFixture(t)
	perf := NewPerformanceService(f.store, f.store, f.pub)

	metrics, err := perf.VendorPerformance(context.Background(), f.vendor.ID)
	require.NoError(t, err)

	assert.Equal(t, models.PerformanceMetrics{}, metrics)
	require.Len(t, f.pub.Computed, 1)
}

func TestVendorPerformance_UnknownVendor(t *testing.T) {
	f := newPOFixture(t)
	perf := NewPerformanceService(f.store, f.store, f.pub)

	_, err := perf.VendorPerformance(context.Background(), 9999)

	assert.ErrorIs(t, err, models.ErrNotFound)
	assert.Empty(t, f.pub.Computed)
}

func TestVendorPerformance_AcknowledgeScopeDiffers(t *testing.T) {
	f := newPOFixture(t)
	ctx := context.Background()
	perf := NewPerformanceService(f.store, f.store, f.pub)
	perf.now = fixedClock(issued.Add(10 * 24 * time.Hour))

	five := 5.0
	r1 := poRequest(f.vendor.ID, "PO1")
	r1.Status = models.POStatusCompleted
	r1.QualityRating = &five
	o1, err := f.orders.CreatePurchaseOrder(ctx, r1)
	require.NoError(t, err)

	r2 := poRequest(f.vendor.ID, "PO2")
	r2.Status = models.POStatusCompleted
	_, err = f.orders.CreatePurchaseOrder(ctx, r2)
	require.NoError(t, err)

	o3, err := f.orders.CreatePurchaseOrder(ctx, poRequest(f.vendor.ID, "PO3"))
	require.NoError(t, err)

	f.orders.now = fixedClock(issued.Add(10 * time.Minute))
	_, err = f.orders.Acknowledge(ctx, o1.ID)
	require.NoError(t, err)

	metrics, err := perf.VendorPerformance(ctx, f.vendor.ID)
	require.NoError(t, err)

	assert.Equal(t, 1.0, metrics.OnTimeDeliveryRate)
	assert.Equal(t, 5.0, metrics.QualityRatingAvg)
	assert.InDelta(t, 10.0, metrics.AverageResponseTime, 1e-9)
	assert.InDelta(t, 2.0/3.0, metrics.FulfillmentRate, 1e-9)

	vendor, err := f.store.GetVendorByID(ctx, f.vendor.ID)
	require.NoError(t, err)
	assert.Equal(t, metrics, vendor.Metrics())

	// the pending order counts once acknowledged, but only on the acknowledge path
	f.orders.now = fixedClock(issued.Add(30 * time.Minute))
	_, err = f.orders.Acknowledge(ctx, o3.ID)
	require.NoError(t, err)

	vendor, err = f.store.GetVendorByID(ctx, f.vendor.ID)
	require.NoError(t, err)
	assert.InDelta(t, 20.0, vendor.AverageResponseTime, 1e-9)

	metrics, err = perf.VendorPerformance(ctx, f.vendor.ID)
	require.NoError(t, err)
	assert.InDelta(t, 10.0, metrics.AverageResponseTime, 1e-9)

	vendor, err = f.store.GetVendorByID(ctx, f.vendor.ID)
	require.NoError(t, err)
	assert.InDelta(t, 10.0, vendor.AverageResponseTime, 1e-9)
}

func TestVendorPerformance_FutureDeliveryIsLate(t *testing.T) {
	f := newPOFixture(t)
	ctx := context.Background()
	perf := NewPerformanceService(f.store, f.store, nil)
	perf.now = fixedClock(issued.Add(24 * time.Hour))

	req := poRequest(f.vendor.ID, "PO1")
	req.Status = models.POStatusCompleted
	_, err := f.orders.CreatePurchaseOrder(ctx, req)
	require.NoError(t, err)

	metrics, err := perf.VendorPerformance(ctx, f.vendor.ID)
	require.NoError(t, err)

	assert.Zero(t, metrics.OnTimeDeliveryRate)
	assert.Equal(t, 1.0, metrics.FulfillmentRate)
}
