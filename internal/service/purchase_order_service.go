package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"vendor-service/internal/models"
	"vendor-service/internal/performance"
	"vendor-service/internal/util"

	"github.com/jmoiron/sqlx/types"
	"go.uber.org/zap"
)

// PurchaseOrderService handles purchase order business logic
type PurchaseOrderService struct {
	orders      PurchaseOrderRepository
	vendors     VendorRepository
	idempotency IdempotencyStore
	publisher   EventPublisher
	logger      *zap.Logger
	now         func() time.Time
}

// NewPurchaseOrderService creates a new purchase order service
func NewPurchaseOrderService(
	orders PurchaseOrderRepository,
	vendors VendorRepository,
	idempotency IdempotencyStore,
	publisher EventPublisher,
) *PurchaseOrderService {
	return &PurchaseOrderService{
		orders:      orders,
		vendors:     vendors,
		idempotency: idempotency,
		publisher:   publisher,
		logger:      util.GetLogger(),
		now:         time.Now,
	}
}

// CreatePurchaseOrderRequest represents a request to create a purchase order
type CreatePurchaseOrderRequest struct {
	PONumber       string         `json:"po_number" binding:"required"`
	VendorID       int64          `json:"vendor" binding:"required"`
	OrderDate      time.Time      `json:"order_date" binding:"required"`
	DeliveryDate   time.Time      `json:"delivery_date" binding:"required"`
	Items          types.JSONText `json:"items" binding:"required"`
	Quantity       *int           `json:"quantity" binding:"required"`
	Status         string         `json:"status"`
	QualityRating  *float64       `json:"quality_rating"`
	IssueDate      time.Time      `json:"issue_date" binding:"required"`
	IdempotencyKey string         `json:"-"`
}

func (r *CreatePurchaseOrderRequest) validate() error {
	if err := requireText("po_number", r.PONumber, 100); err != nil {
		return err
	}
	if r.VendorID <= 0 {
		return models.NewValidationError("vendor", "this field is required")
	}
	if err := requireTime("order_date", r.OrderDate); err != nil {
		return err
	}
	if err := requireTime("delivery_date", r.DeliveryDate); err != nil {
		return err
	}
	if err := requireTime("issue_date", r.IssueDate); err != nil {
		return err
	}
	if isEmptyPayload(r.Items) {
		return models.NewValidationError("items", "this field is required")
	}
	if r.Quantity == nil {
		return models.NewValidationError("quantity", "this field is required")
	}
	if *r.Quantity < 0 {
		return models.NewValidationError("quantity", "ensure this value is greater than or equal to 0")
	}
	if r.Status != "" && !models.IsValidPOStatus(r.Status) {
		return models.NewValidationError("status", fmt.Sprintf("%q is not a valid choice", r.Status))
	}
	return nil
}

// OptionalFloat tells an omitted JSON field apart from an explicit null
type OptionalFloat struct {
	Set   bool
	Value *float64
}

// UnmarshalJSON implements json.Unmarshaler; it only runs when the key is present
func (o *OptionalFloat) UnmarshalJSON(data []byte) error {
	o.Set = true
	if string(data) == "null" {
		o.Value = nil
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	o.Value = &v
	return nil
}

// UpdatePurchaseOrderRequest carries the fields to change; nil fields keep their value.
// quality_rating may be sent as null to clear it.
// The acknowledgment is owned by Acknowledge and cannot be set here.
type UpdatePurchaseOrderRequest struct {
	PONumber      *string         `json:"po_number"`
	VendorID      *int64          `json:"vendor"`
	OrderDate     *time.Time      `json:"order_date"`
	DeliveryDate  *time.Time      `json:"delivery_date"`
	Items         *types.JSONText `json:"items"`
	Quantity      *int            `json:"quantity"`
	Status        *string         `json:"status"`
	QualityRating OptionalFloat   `json:"quality_rating"`
	IssueDate     *time.Time      `json:"issue_date"`
}

// CreatePurchaseOrder creates a purchase order, pending unless a status is given
func (s *PurchaseOrderService) CreatePurchaseOrder(ctx context.Context, req *CreatePurchaseOrderRequest) (*models.PurchaseOrder, error) {
	ctx, span := util.StartSpan(ctx, "PurchaseOrderService.CreatePurchaseOrder")
	defer span.End()

	if err := req.validate(); err != nil {
		return nil, err
	}

	claim, err := claimReplay(ctx, s.idempotency, scopePurchaseOrder, req.IdempotencyKey)
	if err != nil {
		return nil, err
	}
	if claim.replay {
		po, err := s.orders.GetPurchaseOrderByID(ctx, claim.replayID)
		if err == nil {
			util.IdempotentReplaysTotal.WithLabelValues(scopePurchaseOrder).Inc()
			s.logger.Info("Duplicate purchase order request detected",
				zap.String("idempotency_key", req.IdempotencyKey),
				zap.Int64("purchase_order_id", claim.replayID))
			return po, nil
		}
		if !isNotFound(err) {
			return nil, err
		}
		claim.owned = true
	}

	status := req.Status
	if status == "" {
		status = models.POStatusPending
	}

	po := &models.PurchaseOrder{
		PONumber:      strings.TrimSpace(req.PONumber),
		VendorID:      req.VendorID,
		OrderDate:     req.OrderDate,
		DeliveryDate:  req.DeliveryDate,
		Items:         req.Items,
		Quantity:      *req.Quantity,
		Status:        status,
		QualityRating: req.QualityRating,
		IssueDate:     req.IssueDate,
	}

	if err := s.orders.CreatePurchaseOrder(ctx, po); err != nil {
		if claim.owned {
			releaseReplay(ctx, s.idempotency, scopePurchaseOrder, req.IdempotencyKey)
		}
		return nil, fmt.Errorf("failed to create purchase order: %w", err)
	}

	if claim.owned {
		completeReplay(ctx, s.idempotency, scopePurchaseOrder, req.IdempotencyKey, po.ID)
	}

	util.PurchaseOrdersCreatedTotal.Inc()
	s.logger.Info("Purchase order created",
		zap.Int64("purchase_order_id", po.ID),
		zap.Int64("vendor_id", po.VendorID),
		zap.String("po_number", po.PONumber))

	return po, nil
}

// GetPurchaseOrder retrieves a purchase order by ID
func (s *PurchaseOrderService) GetPurchaseOrder(ctx context.Context, id int64) (*models.PurchaseOrder, error) {
	return s.orders.GetPurchaseOrderByID(ctx, id)
}

// ListPurchaseOrders retrieves purchase orders matching the filter
func (s *PurchaseOrderService) ListPurchaseOrders(ctx context.Context, filter models.PurchaseOrderFilter) ([]models.PurchaseOrder, error) {
	if filter.Status != nil && !models.IsValidPOStatus(*filter.Status) {
		return nil, models.NewValidationError("status", fmt.Sprintf("%q is not a valid choice", *filter.Status))
	}
	return s.orders.ListPurchaseOrders(ctx, filter)
}

// UpdatePurchaseOrder applies a partial update, rejecting status changes out of a terminal state
func (s *PurchaseOrderService) UpdatePurchaseOrder(ctx context.Context, id int64, req *UpdatePurchaseOrderRequest) (*models.PurchaseOrder, error) {
	ctx, span := util.StartSpan(ctx, "PurchaseOrderService.UpdatePurchaseOrder")
	defer span.End()

	po, err := s.orders.GetPurchaseOrderByID(ctx, id)
	if err != nil {
		return nil, err
	}
	previousStatus := po.Status

	if req.PONumber != nil {
		po.PONumber = strings.TrimSpace(*req.PONumber)
	}
	if req.VendorID != nil {
		po.VendorID = *req.VendorID
	}
	if req.OrderDate != nil {
		po.OrderDate = *req.OrderDate
	}
	if req.DeliveryDate != nil {
		po.DeliveryDate = *req.DeliveryDate
	}
	if req.Items != nil {
		po.Items = *req.Items
	}
	if req.Quantity != nil {
		po.Quantity = *req.Quantity
	}
	if req.QualityRating.Set {
		po.QualityRating = req.QualityRating.Value
	}
	if req.IssueDate != nil {
		po.IssueDate = *req.IssueDate
	}
	if req.Status != nil {
		if !models.IsValidPOStatus(*req.Status) {
			return nil, models.NewValidationError("status", fmt.Sprintf("%q is not a valid choice", *req.Status))
		}
		if !models.CanTransitionPOStatus(previousStatus, *req.Status) {
			return nil, models.NewValidationError("status",
				fmt.Sprintf("cannot change status from %s to %s", previousStatus, *req.Status))
		}
		po.Status = *req.Status
	}

	quantity := po.Quantity
	check := CreatePurchaseOrderRequest{
		PONumber:     po.PONumber,
		VendorID:     po.VendorID,
		OrderDate:    po.OrderDate,
		DeliveryDate: po.DeliveryDate,
		Items:        po.Items,
		Quantity:     &quantity,
		Status:       po.Status,
		IssueDate:    po.IssueDate,
	}
	if err := check.validate(); err != nil {
		return nil, err
	}

	if err := s.orders.UpdatePurchaseOrder(ctx, po); err != nil {
		return nil, fmt.Errorf("failed to update purchase order: %w", err)
	}

	if po.Status != previousStatus {
		util.PurchaseOrderStatusChangesTotal.WithLabelValues(po.Status).Inc()
		s.logger.Info("Purchase order status changed",
			zap.Int64("purchase_order_id", po.ID),
			zap.String("from", previousStatus),
			zap.String("to", po.Status))
	}

	return po, nil
}

// DeletePurchaseOrder deletes a purchase order
func (s *PurchaseOrderService) DeletePurchaseOrder(ctx context.Context, id int64) error {
	if err := s.orders.DeletePurchaseOrder(ctx, id); err != nil {
		return err
	}
	s.logger.Info("Purchase order deleted", zap.Int64("purchase_order_id", id))
	return nil
}

// Acknowledge stamps the order with the current time and recomputes the vendor's
// cached average response time over all of its acknowledged orders, whatever their
// status. Repeated calls move the timestamp forward and recompute again.
func (s *PurchaseOrderService) Acknowledge(ctx context.Context, id int64) (*models.PurchaseOrder, error) {
	ctx, span := util.StartSpan(ctx, "PurchaseOrderService.Acknowledge")
	defer span.End()

	now := s.now().UTC()

	po, err := s.orders.SetPurchaseOrderAcknowledgment(ctx, id, now)
	if err != nil {
		return nil, err
	}

	util.PurchaseOrdersAcknowledgedTotal.Inc()

	start := time.Now()
	acknowledged := true
	orders, err := s.orders.ListPurchaseOrders(ctx, models.PurchaseOrderFilter{
		VendorID:     &po.VendorID,
		Acknowledged: &acknowledged,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load acknowledged orders: %w", err)
	}

	avg := performance.AcknowledgedResponseTime(orders)

	if err := s.vendors.UpdateVendorAverageResponseTime(ctx, po.VendorID, avg); err != nil {
		return nil, fmt.Errorf("failed to update vendor response time: %w", err)
	}

	util.PerformanceComputeLatency.Observe(time.Since(start).Seconds())
	util.PerformanceComputationsTotal.WithLabelValues("acknowledged").Inc()

	s.logger.Info("Purchase order acknowledged",
		zap.Int64("purchase_order_id", po.ID),
		zap.Int64("vendor_id", po.VendorID),
		zap.Float64("average_response_time", avg))

	if s.publisher != nil {
		event := &models.PurchaseOrderAcknowledgedEvent{
			BaseEvent:           newBaseEvent(models.EventTypePurchaseOrderAcknowledged, now),
			PurchaseOrderID:     po.ID,
			VendorID:            po.VendorID,
			Acknowledgment:      now,
			AverageResponseTime: avg,
		}
		if err := s.publisher.PublishPurchaseOrderAcknowledged(ctx, event); err != nil {
			publishFailed(ctx, models.EventTypePurchaseOrderAcknowledged, err)
		}
	}

	return po, nil
}
