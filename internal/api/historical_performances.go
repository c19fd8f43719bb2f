package api

import (
	"net/http"
	"strconv"

	"vendor-service/internal/models"
	"vendor-service/internal/service"

	"github.com/gin-gonic/gin"
)

func (h *Handler) listHistoricalPerformances(c *gin.Context) {
	var vendorID *int64
	if v := c.Query("vendor"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			respondError(c, models.NewValidationError("vendor", "a valid integer is required"))
			return
		}
		vendorID = &id
	}

	records, err := h.history.ListHistoricalPerformances(c.Request.Context(), vendorID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, records)
}

func (h *Handler) createHistoricalPerformance(c *gin.Context) {
	var req service.HistoricalPerformanceRequest
	if !bindJSON(c, &req) {
		return
	}

	record, err := h.history.CreateHistoricalPerformance(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, record)
}

func (h *Handler) getHistoricalPerformance(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	record, err := h.history.GetHistoricalPerformance(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, record)
}

func (h *Handler) updateHistoricalPerformance(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req service.HistoricalPerformanceRequest
	if !bindJSON(c, &req) {
		return
	}

	record, err := h.history.UpdateHistoricalPerformance(c.Request.Context(), id, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, record)
}

func (h *Handler) deleteHistoricalPerformance(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.history.DeleteHistoricalPerformance(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
