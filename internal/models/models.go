package models

import (
	"time"

	"github.com/jmoiron/sqlx/types"
)

// Vendor represents a supplier and its cached performance figures
type Vendor struct {
	ID                  int64     `db:"id" json:"id"`
	Name                string    `db:"name" json:"name"`
	ContactDetails      string    `db:"contact_details" json:"contact_details"`
	Address             string    `db:"address" json:"address"`
	VendorCode          string    `db:"vendor_code" json:"vendor_code"`
	OnTimeDeliveryRate  float64   `db:"on_time_delivery_rate" json:"on_time_delivery_rate"`
	QualityRatingAvg    float64   `db:"quality_rating_avg" json:"quality_rating_avg"`
	AverageResponseTime float64   `db:"average_response_time" json:"average_response_time"`
	FulfillmentRate     float64   `db:"fulfillment_rate" json:"fulfillment_rate"`
	CreatedAt           time.Time `db:"created_at" json:"created_at"`
	UpdatedAt           time.Time `db:"updated_at" json:"updated_at"`
}

// Metrics returns the cached performance figures
func (v *Vendor) Metrics() PerformanceMetrics {
	return PerformanceMetrics{
		OnTimeDeliveryRate:  v.OnTimeDeliveryRate,
		QualityRatingAvg:    v.QualityRatingAvg,
		AverageResponseTime: v.AverageResponseTime,
		FulfillmentRate:     v.FulfillmentRate,
	}
}

// PurchaseOrder represents an order issued to a vendor
type PurchaseOrder struct {
	ID             int64          `db:"id" json:"id"`
	PONumber       string         `db:"po_number" json:"po_number"`
	VendorID       int64          `db:"vendor_id" json:"vendor"`
	OrderDate      time.Time      `db:"order_date" json:"order_date"`
	DeliveryDate   time.Time      `db:"delivery_date" json:"delivery_date"`
	Items          types.JSONText `db:"items" json:"items"`
	Quantity       int            `db:"quantity" json:"quantity"`
	Status         string         `db:"status" json:"status"`
	QualityRating  *float64       `db:"quality_rating" json:"quality_rating"`
	IssueDate      time.Time      `db:"issue_date" json:"issue_date"`
	Acknowledgment *time.Time     `db:"acknowledgment" json:"acknowledgment"`
	CreatedAt      time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time      `db:"updated_at" json:"updated_at"`
}

// HistoricalPerformance is a point-in-time snapshot of a vendor's metrics
type HistoricalPerformance struct {
	ID                  int64     `db:"id" json:"id"`
	VendorID            int64     `db:"vendor_id" json:"vendor"`
	Date                time.Time `db:"date" json:"date"`
	OnTimeDeliveryRate  float64   `db:"on_time_delivery_rate" json:"on_time_delivery_rate"`
	QualityRatingAvg    float64   `db:"quality_rating_avg" json:"quality_rating_avg"`
	AverageResponseTime float64   `db:"average_response_time" json:"average_response_time"`
	FulfillmentRate     float64   `db:"fulfillment_rate" json:"fulfillment_rate"`
}

// User is an API account allowed to obtain tokens
type User struct {
	ID           int64     `db:"id" json:"id"`
	Username     string    `db:"username" json:"username"`
	PasswordHash string    `db:"password_hash" json:"-"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

// PerformanceMetrics holds the four vendor performance figures
type PerformanceMetrics struct {
	OnTimeDeliveryRate  float64 `json:"on_time_delivery_rate"`
	QualityRatingAvg    float64 `json:"quality_rating_avg"`
	AverageResponseTime float64 `json:"average_response_time"`
	FulfillmentRate     float64 `json:"fulfillment_rate"`
}

// Purchase order statuses
const (
	POStatusPending   = "pending"
	POStatusCompleted = "completed"
	POStatusCanceled  = "canceled"
)

// IsValidPOStatus reports whether status belongs to the purchase order enum
func IsValidPOStatus(status string) bool {
	switch status {
	case POStatusPending, POStatusCompleted, POStatusCanceled:
		return true
	}
	return false
}

// CanTransitionPOStatus reports whether a purchase order may move from one status to another.
// pending may move anywhere; completed and canceled are terminal.
func CanTransitionPOStatus(from, to string) bool {
	if from == to {
		return true
	}
	return from == POStatusPending && (to == POStatusCompleted || to == POStatusCanceled)
}

// PurchaseOrderFilter narrows purchase order listings. Nil fields are ignored.
type PurchaseOrderFilter struct {
	VendorID     *int64
	Status       *string
	Acknowledged *bool
}

// ProcessedEvent records an event the worker has already applied
type ProcessedEvent struct {
	EventID     string    `db:"event_id"`
	EventType   string    `db:"event_type"`
	ProcessedAt time.Time `db:"processed_at"`
}
