package service

import (
	"context"
	"time"

	"vendor-service/internal/models"
)

// VendorRepository persists vendors and their cached metrics
type VendorRepository interface {
	CreateVendor(ctx context.Context, vendor *models.Vendor) error
	GetVendorByID(ctx context.Context, id int64) (*models.Vendor, error)
	ListVendors(ctx context.Context) ([]models.Vendor, error)
	UpdateVendor(ctx context.Context, vendor *models.Vendor) error
	DeleteVendor(ctx context.Context, id int64) error
	UpdateVendorPerformance(ctx context.Context, vendorID int64, m models.PerformanceMetrics) error
	UpdateVendorAverageResponseTime(ctx context.Context, vendorID int64, minutes float64) error
}

// PurchaseOrderRepository persists purchase orders
type PurchaseOrderRepository interface {
	CreatePurchaseOrder(ctx context.Context, po *models.PurchaseOrder) error
	GetPurchaseOrderByID(ctx context.Context, id int64) (*models.PurchaseOrder, error)
	ListPurchaseOrders(ctx context.Context, filter models.PurchaseOrderFilter) ([]models.PurchaseOrder, error)
	UpdatePurchaseOrder(ctx context.Context, po *models.PurchaseOrder) error
	DeletePurchaseOrder(ctx context.Context, id int64) error
	SetPurchaseOrderAcknowledgment(ctx context.Context, id int64, at time.Time) (*models.PurchaseOrder, error)
}

// HistoricalPerformanceRepository persists performance snapshots
type HistoricalPerformanceRepository interface {
	CreateHistoricalPerformance(ctx context.Context, hp *models.HistoricalPerformance) error
	GetHistoricalPerformanceByID(ctx context.Context, id int64) (*models.HistoricalPerformance, error)
	ListHistoricalPerformances(ctx context.Context, vendorID *int64) ([]models.HistoricalPerformance, error)
	UpdateHistoricalPerformance(ctx context.Context, hp *models.HistoricalPerformance) error
	DeleteHistoricalPerformance(ctx context.Context, id int64) error
}

// UserRepository persists API users
type UserRepository interface {
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	UpsertUser(ctx context.Context, user *models.User) error
}

// IdempotencyStore reserves client-supplied keys and remembers which resource each one created
type IdempotencyStore interface {
	ReserveIdempotencyKey(ctx context.Context, scope, key string) (int64, bool, error)
	CompleteIdempotencyKey(ctx context.Context, scope, key string, id int64) error
	ReleaseIdempotencyKey(ctx context.Context, scope, key string) error
}

// EventPublisher emits vendor domain events
type EventPublisher interface {
	PublishPurchaseOrderAcknowledged(ctx context.Context, event *models.PurchaseOrderAcknowledgedEvent) error
	PublishVendorPerformanceComputed(ctx context.Context, event *models.VendorPerformanceComputedEvent) error
	PublishVendorDeleted(ctx context.Context, event *models.VendorDeletedEvent) error
}
