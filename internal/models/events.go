package models

import "time"

// Event types
const (
	EventTypePurchaseOrderAcknowledged = "PURCHASE_ORDER_ACKNOWLEDGED"
	EventTypeVendorPerformanceComputed = "VENDOR_PERFORMANCE_COMPUTED"
	EventTypeVendorDeleted             = "VENDOR_DELETED"
)

// BaseEvent contains common fields for all events
type BaseEvent struct {
	EventID   string    `json:"event_id"`
	EventType string    `json:"event_type"`
	Timestamp time.Time `json:"timestamp"`
}

// PurchaseOrderAcknowledgedEvent published after an acknowledgment recomputes response time
type PurchaseOrderAcknowledgedEvent struct {
	BaseEvent
	PurchaseOrderID     int64     `json:"purchase_order_id"`
	VendorID            int64     `json:"vendor_id"`
	Acknowledgment      time.Time `json:"acknowledgment"`
	AverageResponseTime float64   `json:"average_response_time"`
}

// VendorPerformanceComputedEvent published after a full metrics recompute
type VendorPerformanceComputedEvent struct {
	BaseEvent
	VendorID int64              `json:"vendor_id"`
	Metrics  PerformanceMetrics `json:"metrics"`
}

// VendorDeletedEvent published when a vendor and its children are removed
type VendorDeletedEvent struct {
	BaseEvent
	VendorID int64 `json:"vendor_id"`
}
