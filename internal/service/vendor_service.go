package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"vendor-service/internal/models"
	"vendor-service/internal/util"

	"go.uber.org/zap"
)

// VendorService handles vendor business logic
type VendorService struct {
	vendors     VendorRepository
	idempotency IdempotencyStore
	publisher   EventPublisher
	logger      *zap.Logger
	now         func() time.Time
}

// NewVendorService creates a new vendor service
func NewVendorService(vendors VendorRepository, idempotency IdempotencyStore, publisher EventPublisher) *VendorService {
	return &VendorService{
		vendors:     vendors,
		idempotency: idempotency,
		publisher:   publisher,
		logger:      util.GetLogger(),
		now:         time.Now,
	}
}

// CreateVendorRequest represents a request to create a vendor
type CreateVendorRequest struct {
	Name           string `json:"name" binding:"required"`
	ContactDetails string `json:"contact_details" binding:"required"`
	Address        string `json:"address" binding:"required"`
	VendorCode     string `json:"vendor_code" binding:"required"`
	IdempotencyKey string `json:"-"`
}

func (r *CreateVendorRequest) validate() error {
	if err := requireText("name", r.Name, 100); err != nil {
		return err
	}
	if err := requireText("contact_details", r.ContactDetails, 0); err != nil {
		return err
	}
	if err := requireText("address", r.Address, 0); err != nil {
		return err
	}
	return requireText("vendor_code", r.VendorCode, 50)
}

// UpdateVendorRequest carries the fields to change; nil fields keep their value
type UpdateVendorRequest struct {
	Name           *string `json:"name"`
	ContactDetails *string `json:"contact_details"`
	Address        *string `json:"address"`
	VendorCode     *string `json:"vendor_code"`
}

// CreateVendor creates a vendor, replaying an earlier result for a repeated idempotency key
func (s *VendorService) CreateVendor(ctx context.Context, req *CreateVendorRequest) (*models.Vendor, error) {
	ctx, span := util.StartSpan(ctx, "VendorService.CreateVendor")
	defer span.End()

	if err := req.validate(); err != nil {
		return nil, err
	}

	claim, err := claimReplay(ctx, s.idempotency, scopeVendor, req.IdempotencyKey)
	if err != nil {
		return nil, err
	}
	if claim.replay {
		vendor, err := s.vendors.GetVendorByID(ctx, claim.replayID)
		if err == nil {
			util.IdempotentReplaysTotal.WithLabelValues(scopeVendor).Inc()
			s.logger.Info("Duplicate vendor request detected",
				zap.String("idempotency_key", req.IdempotencyKey),
				zap.Int64("vendor_id", claim.replayID))
			return vendor, nil
		}
		if !isNotFound(err) {
			return nil, err
		}
		// the recorded vendor was deleted; this request takes the key over
		claim.owned = true
	}

	vendor := &models.Vendor{
		Name:           strings.TrimSpace(req.Name),
		ContactDetails: req.ContactDetails,
		Address:        req.Address,
		VendorCode:     strings.TrimSpace(req.VendorCode),
	}

	if err := s.vendors.CreateVendor(ctx, vendor); err != nil {
		if claim.owned {
			releaseReplay(ctx, s.idempotency, scopeVendor, req.IdempotencyKey)
		}
		return nil, fmt.Errorf("failed to create vendor: %w", err)
	}

	if claim.owned {
		completeReplay(ctx, s.idempotency, scopeVendor, req.IdempotencyKey, vendor.ID)
	}

	util.VendorsCreatedTotal.Inc()
	s.logger.Info("Vendor created",
		zap.Int64("vendor_id", vendor.ID),
		zap.String("vendor_code", vendor.VendorCode))

	return vendor, nil
}

// GetVendor retrieves a vendor by ID
func (s *VendorService) GetVendor(ctx context.Context, id int64) (*models.Vendor, error) {
	return s.vendors.GetVendorByID(ctx, id)
}

// ListVendors retrieves all vendors
func (s *VendorService) ListVendors(ctx context.Context) ([]models.Vendor, error) {
	return s.vendors.ListVendors(ctx)
}

// UpdateVendor applies a partial update. The cached metrics cannot be written here.
func (s *VendorService) UpdateVendor(ctx context.Context, id int64, req *UpdateVendorRequest) (*models.Vendor, error) {
	ctx, span := util.StartSpan(ctx, "VendorService.UpdateVendor")
	defer span.End()

	vendor, err := s.vendors.GetVendorByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		vendor.Name = strings.TrimSpace(*req.Name)
	}
	if req.ContactDetails != nil {
		vendor.ContactDetails = *req.ContactDetails
	}
	if req.Address != nil {
		vendor.Address = *req.Address
	}
	if req.VendorCode != nil {
		vendor.VendorCode = strings.TrimSpace(*req.VendorCode)
	}

	check := CreateVendorRequest{
		Name:           vendor.Name,
		ContactDetails: vendor.ContactDetails,
		Address:        vendor.Address,
		VendorCode:     vendor.VendorCode,
	}
	if err := check.validate(); err != nil {
		return nil, err
	}

	if err := s.vendors.UpdateVendor(ctx, vendor); err != nil {
		return nil, fmt.Errorf("failed to update vendor: %w", err)
	}

	s.logger.Info("Vendor updated", zap.Int64("vendor_id", vendor.ID))
	return vendor, nil
}

// DeleteVendor deletes a vendor together with its purchase orders and history
func (s *VendorService) DeleteVendor(ctx context.Context, id int64) error {
	ctx, span := util.StartSpan(ctx, "VendorService.DeleteVendor")
	defer span.End()

	if err := s.vendors.DeleteVendor(ctx, id); err != nil {
		return err
	}

	util.VendorsDeletedTotal.Inc()
	s.logger.Info("Vendor deleted", zap.Int64("vendor_id", id))

	if s.publisher != nil {
		event := &models.VendorDeletedEvent{
			BaseEvent: newBaseEvent(models.EventTypeVendorDeleted, s.now()),
			VendorID:  id,
		}
		if err := s.publisher.PublishVendorDeleted(ctx, event); err != nil {
			publishFailed(ctx, models.EventTypeVendorDeleted, err)
		}
	}

	return nil
}
