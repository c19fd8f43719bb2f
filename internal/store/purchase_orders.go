package store

import (
	"context"
	"fmt"
	"strings"
	"time"

	"vendor-service/internal/models"
)

// CreatePurchaseOrder creates a new purchase order
func (s *Store) CreatePurchaseOrder(ctx context.Context, po *models.PurchaseOrder) error {
	query := `
		INSERT INTO purchase_orders (po_number, vendor_id, order_date, delivery_date, items,
			quantity, status, quality_rating, issue_date, acknowledgment)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, created_at, updated_at`

	err := s.db.GetContext(ctx, po, query,
		po.PONumber, po.VendorID, po.OrderDate, po.DeliveryDate, po.Items,
		po.Quantity, po.Status, po.QualityRating, po.IssueDate, po.Acknowledgment)
	return translateError(err, "purchase order")
}

// GetPurchaseOrderByID retrieves a purchase order by ID
func (s *Store) GetPurchaseOrderByID(ctx context.Context, id int64) (*models.PurchaseOrder, error) {
	var po models.PurchaseOrder
	err := s.db.GetContext(ctx, &po, "SELECT * FROM purchase_orders WHERE id = $1", id)
	if err != nil {
		return nil, translateError(err, "purchase order")
	}
	return &po, nil
}

// ListPurchaseOrders retrieves purchase orders matching the filter
func (s *Store) ListPurchaseOrders(ctx context.Context, filter models.PurchaseOrderFilter) ([]models.PurchaseOrder, error) {
	var (
		conds []string
		args  []interface{}
	)

	if filter.VendorID != nil {
		args = append(args, *filter.VendorID)
		conds = append(conds, fmt.Sprintf("vendor_id = $%d", len(args)))
	}
	if filter.Status != nil {
		args = append(args, *filter.Status)
		conds = append(conds, fmt.Sprintf("status = $%d", len(args)))
	}
	if filter.Acknowledged != nil {
		if *filter.Acknowledged {
			conds = append(conds, "acknowledgment IS NOT NULL")
		} else {
			conds = append(conds, "acknowledgment IS NULL")
		}
	}

	query := "SELECT * FROM purchase_orders"
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY id"

	orders := []models.PurchaseOrder{}
	err := s.db.SelectContext(ctx, &orders, query, args...)
	return orders, err
}

// UpdatePurchaseOrder updates the editable fields of a purchase order. The
// acknowledgment is owned by SetPurchaseOrderAcknowledgment and is reloaded, not written.
func (s *Store) UpdatePurchaseOrder(ctx context.Context, po *models.PurchaseOrder) error {
	query := `
		UPDATE purchase_orders
		SET po_number = $1, vendor_id = $2, order_date = $3, delivery_date = $4, items = $5,
			quantity = $6, status = $7, quality_rating = $8, issue_date = $9, updated_at = NOW()
		WHERE id = $10
		RETURNING *`

	err := s.db.GetContext(ctx, po, query,
		po.PONumber, po.VendorID, po.OrderDate, po.DeliveryDate, po.Items,
		po.Quantity, po.Status, po.QualityRating, po.IssueDate, po.ID)
	return translateError(err, "purchase order")
}

// DeletePurchaseOrder deletes a purchase order
func (s *Store) DeletePurchaseOrder(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM purchase_orders WHERE id = $1", id)
	if err != nil {
		return err
	}
	return checkAffected(res, "purchase order")
}

// SetPurchaseOrderAcknowledgment stamps the acknowledgment time and returns the updated order
func (s *Store) SetPurchaseOrderAcknowledgment(ctx context.Context, id int64, at time.Time) (*models.PurchaseOrder, error) {
	var po models.PurchaseOrder
	err := s.db.GetContext(ctx, &po, `
		UPDATE purchase_orders
		SET acknowledgment = $1, updated_at = NOW()
		WHERE id = $2
		RETURNING *`, at, id)
	if err != nil {
		return nil, translateError(err, "purchase order")
	}
	return &po, nil
}
