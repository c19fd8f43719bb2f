// Package performance derives vendor performance figures from purchase order history.
//
// Nothing here touches the store: callers load the orders and persist the results.
package performance

import (
	"time"

	"vendor-service/internal/models"
)

// statusCompletedWithIssues is never produced by the purchase order enum, so
// excluding it from the fulfilment numerator currently has no effect.
const statusCompletedWithIssues = "completed_with_issues"

// ComputeFullMetrics calculates all four performance figures for a vendor's orders,
// evaluated at now. Every figure falls back to 0 when its denominator is empty.
func ComputeFullMetrics(orders []models.PurchaseOrder, now time.Time) models.PerformanceMetrics {
	completed := completedOrders(orders)

	return models.PerformanceMetrics{
		OnTimeDeliveryRate:  OnTimeDeliveryRate(completed, now),
		QualityRatingAvg:    QualityRatingAvg(completed),
		AverageResponseTime: CompletedResponseTime(completed),
		FulfillmentRate:     FulfillmentRate(completed, len(orders)),
	}
}

// OnTimeDeliveryRate is the share of completed orders whose delivery date is not after now.
// It compares against evaluation time, not a promised date.
func OnTimeDeliveryRate(completed []models.PurchaseOrder, now time.Time) float64 {
	if len(completed) == 0 {
		return 0
	}

	onTime := 0
	for _, o := range completed {
		if !o.DeliveryDate.After(now) {
			onTime++
		}
	}
	return float64(onTime) / float64(len(completed))
}

// QualityRatingAvg averages the ratings of completed orders that have one
func QualityRatingAvg(completed []models.PurchaseOrder) float64 {
	var sum float64
	n := 0
	for _, o := range completed {
		if o.QualityRating == nil {
			continue
		}
		sum += *o.QualityRating
		n++
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}

// CompletedResponseTime is the mean acknowledgment delay in minutes over completed orders.
// Used by the on-read full recompute.
func CompletedResponseTime(completed []models.PurchaseOrder) float64 {
	return meanResponseMinutes(completed)
}

// AcknowledgedResponseTime is the mean acknowledgment delay in minutes over every
// acknowledged order regardless of status. Used by the acknowledge path, so it can
// differ from CompletedResponseTime once a pending order is acknowledged.
func AcknowledgedResponseTime(orders []models.PurchaseOrder) float64 {
	return meanResponseMinutes(orders)
}

// FulfillmentRate divides the successful completed orders by all orders of the vendor
func FulfillmentRate(completed []models.PurchaseOrder, totalOrders int) float64 {
	if totalOrders == 0 {
		return 0
	}

	successful := 0
	for _, o := range completed {
		if o.Status != statusCompletedWithIssues {
			successful++
		}
	}
	return float64(successful) / float64(totalOrders)
}

// ResponseMinutes returns the delay between issue and acknowledgment in minutes.
// The result is negative when the acknowledgment predates the issue date.
func ResponseMinutes(o models.PurchaseOrder) (float64, bool) {
	if o.Acknowledgment == nil {
		return 0, false
	}
	return o.Acknowledgment.Sub(o.IssueDate).Minutes(), true
}

func meanResponseMinutes(orders []models.PurchaseOrder) float64 {
	var sum float64
	n := 0
	for _, o := range orders {
		minutes, ok := ResponseMinutes(o)
		if !ok {
			continue
		}
		sum += minutes
		n++
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}

func completedOrders(orders []models.PurchaseOrder) []models.PurchaseOrder {
	completed := make([]models.PurchaseOrder, 0, len(orders))
	for _, o := range orders {
		if o.Status == models.POStatusCompleted {
			completed = append(completed, o)
		}
	}
	return completed
}
