package lead

import (
	"context"
	"errors"

	"github.com/emlak/backend/internal/domain/lead"
	"github.com/emlak/backend/internal/domain/listing"
	"github.com/emlak/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// RequestService handles customer requests
type RequestService struct {
	requestRepo    lead.CustomerRequestRepository
	listingRepo    listing.ListingRepository
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
}

// NewRequestService creates a new RequestService
func NewRequestService(requestRepo lead.CustomerRequestRepository, listingRepo listing.ListingRepository, logger *zap.Logger) *RequestService {
	return &RequestService{
		requestRepo: requestRepo,
		listingRepo: listingRepo,
		logger:      logger,
	}
}

// SetEventPublisher sets the publisher for CustomerRequestReceived
func (s *RequestService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Submit stores a public customer request. A request about a listing is
// routed to the listing's branch unless a branch was chosen explicitly.
func (s *RequestService) Submit(ctx context.Context, tenantID uuid.UUID, req SubmitRequest, sourceIP string) (*CustomerRequestResponse, error) {
	branchID := req.BranchID
	if req.ListingID != nil {
		l, err := s.listingRepo.FindByIDForTenant(ctx, tenantID, *req.ListingID)
		if err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				return nil, shared.NewDomainError("INVALID_LISTING", "Listing not found")
			}
			return nil, err
		}
		if branchID == nil {
			branchID = l.BranchID
		}
	}

	r, err := lead.NewCustomerRequest(tenantID, lead.Submission{
		FullName:   req.FullName,
		Phone:      req.Phone,
		Email:      req.Email,
		Type:       lead.RequestType(req.Type),
		Message:    req.Message,
		Category:   listing.Category(req.Category),
		CityID:     req.CityID,
		DistrictID: req.DistrictID,
		ListingID:  req.ListingID,
		BranchID:   branchID,
		SourceIP:   sourceIP,
	})
	if err != nil {
		return nil, err
	}

	if err := s.requestRepo.Save(ctx, r); err != nil {
		return nil, err
	}
	s.logger.Info("Customer request received",
		zap.String("request_id", r.ID.String()),
		zap.String("type", string(r.Type)),
	)

	if s.eventPublisher != nil {
		for _, event := range r.GetDomainEvents() {
			if err := s.eventPublisher.Publish(ctx, event); err != nil {
				s.logger.Error("Failed to publish customer request event",
					zap.String("request_id", r.ID.String()),
					zap.Error(err),
				)
			}
		}
	}
	r.ClearDomainEvents()

	resp := ToCustomerRequestResponse(r)
	return &resp, nil
}

// GetByID retrieves a customer request
func (s *RequestService) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*CustomerRequestResponse, error) {
	r, err := s.requestRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	resp := ToCustomerRequestResponse(r)
	return &resp, nil
}

// List returns customer requests for the back office, newest first
func (s *RequestService) List(ctx context.Context, tenantID uuid.UUID, filter ListFilter) ([]CustomerRequestResponse, int64, error) {
	if filter.Page == 0 {
		filter.Page = 1
	}
	if filter.PageSize == 0 {
		filter.PageSize = 20
	}

	sf := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		Search:   filter.Search,
		OrderBy:  "created_at",
		OrderDir: "desc",
		Filters:  make(map[string]interface{}),
	}
	if filter.Status != "" {
		sf.Filters["status"] = filter.Status
	}
	if filter.Type != "" {
		sf.Filters["type"] = filter.Type
	}
	if filter.BranchID != nil {
		sf.Filters["branch_id"] = *filter.BranchID
	}

	requests, err := s.requestRepo.FindAllForTenant(ctx, tenantID, sf)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.requestRepo.CountForTenant(ctx, tenantID, sf)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]CustomerRequestResponse, len(requests))
	for i, r := range requests {
		responses[i] = ToCustomerRequestResponse(r)
	}
	return responses, total, nil
}

// ChangeStatus moves a request to CONTACTED or CLOSED
func (s *RequestService) ChangeStatus(ctx context.Context, tenantID, id uuid.UUID, req ChangeStatusRequest) (*CustomerRequestResponse, error) {
	r, err := s.requestRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if err := r.ChangeStatus(lead.Status(req.Status), req.Note); err != nil {
		return nil, err
	}
	if err := s.requestRepo.Save(ctx, r); err != nil {
		return nil, err
	}
	resp := ToCustomerRequestResponse(r)
	return &resp, nil
}
