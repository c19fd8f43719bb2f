package api

import (
	"net/http"

	"vendor-service/internal/service"

	"github.com/gin-gonic/gin"
)

func (h *Handler) listVendors(c *gin.Context) {
	vendors, err := h.vendors.ListVendors(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, vendors)
}

// createVendor handles vendor creation
func (h *Handler) createVendor(c *gin.Context) {
	var req service.CreateVendorRequest
	if !bindJSON(c, &req) {
		return
	}
	req.IdempotencyKey = c.GetHeader("Idempotency-Key")

	vendor, err := h.vendors.CreateVendor(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, vendor)
}

func (h *Handler) getVendor(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	vendor, err := h.vendors.GetVendor(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, vendor)
}

func (h *Handler) updateVendor(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req service.UpdateVendorRequest
	if !bindJSON(c, &req) {
		return
	}

	vendor, err := h.vendors.UpdateVendor(c.Request.Context(), id, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, vendor)
}

func (h *Handler) deleteVendor(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.vendors.DeleteVendor(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// vendorPerformance recomputes and returns the vendor's four metrics
func (h *Handler) vendorPerformance(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	metrics, err := h.performance.VendorPerformance(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, metrics)
}
