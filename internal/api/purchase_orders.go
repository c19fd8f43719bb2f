package api

import (
	"net/http"
	"strconv"

	"vendor-service/internal/models"
	"vendor-service/internal/service"

	"github.com/gin-gonic/gin"
)

// purchaseOrderFilter reads the vendor, status and acknowledged query parameters
func purchaseOrderFilter(c *gin.Context) (models.PurchaseOrderFilter, error) {
	var filter models.PurchaseOrderFilter

	if v := c.Query("vendor"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return filter, models.NewValidationError("vendor", "a valid integer is required")
		}
		filter.VendorID = &id
	}
	if s := c.Query("status"); s != "" {
		filter.Status = &s
	}
	if a := c.Query("acknowledged"); a != "" {
		ack, err := strconv.ParseBool(a)
		if err != nil {
			return filter, models.NewValidationError("acknowledged", "must be a valid boolean")
		}
		filter.Acknowledged = &ack
	}
	return filter, nil
}

func (h *Handler) listPurchaseOrders(c *gin.Context) {
	filter, err := purchaseOrderFilter(c)
	if err != nil {
		respondError(c, err)
		return
	}

	orders, err := h.orders.ListPurchaseOrders(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, orders)
}

// createPurchaseOrder handles purchase order creation
func (h *Handler) createPurchaseOrder(c *gin.Context) {
	var req service.CreatePurchaseOrderRequest
	if !bindJSON(c, &req) {
		return
	}
	req.IdempotencyKey = c.GetHeader("Idempotency-Key")

	po, err := h.orders.CreatePurchaseOrder(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, po)
}

func (h *Handler) getPurchaseOrder(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	po, err := h.orders.GetPurchaseOrder(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, po)
}

func (h *Handler) updatePurchaseOrder(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req service.UpdatePurchaseOrderRequest
	if !bindJSON(c, &req) {
		return
	}

	po, err := h.orders.UpdatePurchaseOrder(c.Request.Context(), id, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, po)
}

func (h *Handler) deletePurchaseOrder(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.orders.DeletePurchaseOrder(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// acknowledgePurchaseOrder stamps the order and refreshes the vendor's response time
func (h *Handler) acknowledgePurchaseOrder(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	if _, err := h.orders.Acknowledge(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "acknowledged"})
}
