package worker

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"vendor-service/internal/models"
	"vendor-service/internal/testutil"
	"vendor-service/internal/util"

	promtest "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func message(t *testing.T, event interface{}) kafka.Message {
	t.Helper()
	b, err := json.Marshal(event)
	require.NoError(t, err)
	return kafka.Message{Value: b}
}

func base(id, eventType string) models.BaseEvent {
	return models.BaseEvent{EventID: id, EventType: eventType, Timestamp: time.Now()}
}

func TestPerformanceWorker_SetsGauges(t *testing.T) {
	w := NewPerformanceWorker(nil, testutil.NewMemoryStore())
	ctx := context.Background()
	label := util.VendorLabel(7001)

	require.NoError(t, w.eventHandler.HandleMessage(ctx, message(t, &models.VendorPerformanceComputedEvent{
		BaseEvent: base("c1", models.EventTypeVendorPerformanceComputed),
		VendorID:  7001,
		Metrics: models.PerformanceMetrics{
			OnTimeDeliveryRate:  1,
			QualityRatingAvg:    5,
			AverageResponseTime: 10,
			FulfillmentRate:     2.0 / 3.0,
		},
	})))

	assert.Equal(t, 1.0, promtest.ToFloat64(util.VendorOnTimeDeliveryRate.WithLabelValues(label)))
	assert.Equal(t, 5.0, promtest.ToFloat64(util.VendorQualityRatingAvg.WithLabelValues(label)))
	assert.Equal(t, 10.0, promtest.ToFloat64(util.VendorAverageResponseTime.WithLabelValues(label)))
	assert.InDelta(t, 2.0/3.0, promtest.ToFloat64(util.VendorFulfillmentRate.WithLabelValues(label)), 1e-9)

	require.NoError(t, w.eventHandler.HandleMessage(ctx, message(t, &models.PurchaseOrderAcknowledgedEvent{
		BaseEvent:           base("a1", models.EventTypePurchaseOrderAcknowledged),
		PurchaseOrderID:     3,
		VendorID:            7001,
		AverageResponseTime: 20,
	})))

	assert.Equal(t, 20.0, promtest.ToFloat64(util.VendorAverageResponseTime.WithLabelValues(label)))
	assert.Equal(t, 5.0, promtest.ToFloat64(util.VendorQualityRatingAvg.WithLabelValues(label)))
}

func TestPerformanceWorker_SkipsReplayedEvents(t *testing.T) {
	w := NewPerformanceWorker(nil, testutil.NewMemoryStore())
	ctx := context.Background()
	label := util.VendorLabel(7002)

	first := &models.PurchaseOrderAcknowledgedEvent{
		BaseEvent:           base("dup", models.EventTypePurchaseOrderAcknowledged),
		VendorID:            7002,
		AverageResponseTime: 12,
	}
	require.NoError(t, w.eventHandler.HandleMessage(ctx, message(t, first)))

	replay := *first
	replay.AverageResponseTime = 99
	require.NoError(t, w.eventHandler.HandleMessage(ctx, message(t, &replay)))

	assert.Equal(t, 12.0, promtest.ToFloat64(util.VendorAverageResponseTime.WithLabelValues(label)))
}

func TestPerformanceWorker_VendorDeletedDropsSeries(t *testing.T) {
	w := NewPerformanceWorker(nil, testutil.NewMemoryStore())
	ctx := context.Background()

	require.NoError(t, w.eventHandler.HandleMessage(ctx, message(t, &models.VendorPerformanceComputedEvent{
		BaseEvent: base("c2", models.EventTypeVendorPerformanceComputed),
		VendorID:  7003,
		Metrics:   models.PerformanceMetrics{FulfillmentRate: 1},
	})))
	before := promtest.CollectAndCount(util.VendorFulfillmentRate)

	require.NoError(t, w.eventHandler.HandleMessage(ctx, message(t, &models.VendorDeletedEvent{
		BaseEvent: base("d1", models.EventTypeVendorDeleted),
		VendorID:  7003,
	})))

	assert.Equal(t, before-1, promtest.CollectAndCount(util.VendorFulfillmentRate))
}
