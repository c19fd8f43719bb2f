package util

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	VendorsCreatedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "vendors_created_total",
		Help: "Total number of vendors created",
	})

	VendorsDeletedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "vendors_deleted_total",
		Help: "Total number of vendors deleted",
	})

	PurchaseOrdersCreatedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "purchase_orders_created_total",
		Help: "Total number of purchase orders created",
	})

	PurchaseOrdersAcknowledgedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "purchase_orders_acknowledged_total",
		Help: "Total number of purchase order acknowledgments",
	})

	PurchaseOrderStatusChangesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "purchase_order_status_changes_total",
		Help: "Total number of purchase order status changes",
	}, []string{"status"})

	IdempotentReplaysTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "idempotent_replays_total",
		Help: "Total number of create requests answered from an idempotency key",
	}, []string{"resource"})

	PerformanceComputationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "vendor_performance_computations_total",
		Help: "Total number of vendor performance recomputations",
	}, []string{"scope"})

	PerformanceComputeLatency = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "vendor_performance_compute_latency_seconds",
		Help:    "Latency of loading orders and recomputing vendor performance",
		Buckets: prometheus.DefBuckets,
	})

	EventsPublishFailedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "events_publish_failed_total",
		Help: "Total number of domain events that could not be published",
	}, []string{"event_type"})

	VendorOnTimeDeliveryRate = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "vendor_on_time_delivery_rate",
		Help: "Last computed on-time delivery rate per vendor",
	}, []string{"vendor_id"})

	VendorQualityRatingAvg = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "vendor_quality_rating_avg",
		Help: "Last computed average quality rating per vendor",
	}, []string{"vendor_id"})

	VendorAverageResponseTime = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "vendor_average_response_time_minutes",
		Help: "Last computed average acknowledgment delay per vendor",
	}, []string{"vendor_id"})

	VendorFulfillmentRate = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "vendor_fulfillment_rate",
		Help: "Last computed fulfillment rate per vendor",
	}, []string{"vendor_id"})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "HTTP request latency",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})
)

// VendorLabel formats a vendor id as a metric label value
func VendorLabel(vendorID int64) string {
	return strconv.FormatInt(vendorID, 10)
}
