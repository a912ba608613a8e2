package consultant

import (
	"context"
	"errors"

	"github.com/emlak/backend/internal/application/media"
	"github.com/emlak/backend/internal/domain/branch"
	"github.com/emlak/backend/internal/domain/consultant"
	"github.com/emlak/backend/internal/domain/listing"
	"github.com/emlak/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ConsultantService handles consultant-related business operations
type ConsultantService struct {
	consultantRepo consultant.ConsultantRepository
	branchRepo     branch.BranchRepository
	listingRepo    listing.ListingRepository
	uploader       *media.Uploader
	urls           media.URLBuilder
	logger         *zap.Logger
}

// NewConsultantService creates a new ConsultantService
func NewConsultantService(
	consultantRepo consultant.ConsultantRepository,
	branchRepo branch.BranchRepository,
	listingRepo listing.ListingRepository,
	uploader *media.Uploader,
	urls media.URLBuilder,
	logger *zap.Logger,
) *ConsultantService {
	return &ConsultantService{
		consultantRepo: consultantRepo,
		branchRepo:     branchRepo,
		listingRepo:    listingRepo,
		uploader:       uploader,
		urls:           urls,
		logger:         logger,
	}
}

// Create creates a consultant at an existing branch
func (s *ConsultantService) Create(ctx context.Context, tenantID uuid.UUID, req CreateConsultantRequest) (*ConsultantResponse, error) {
	if err := s.ensureBranch(ctx, tenantID, req.BranchID); err != nil {
		return nil, err
	}

	c, err := consultant.NewConsultant(tenantID, req.BranchID, req.FullName)
	if err != nil {
		return nil, err
	}
	if err := c.UpdateProfile(consultant.Profile{
		Title: req.Title,
		Phone: req.Phone,
		Email: req.Email,
		Bio:   req.Bio,
	}); err != nil {
		return nil, err
	}
	if req.SortOrder != nil {
		c.SortOrder = *req.SortOrder
	}
	if err := s.disambiguateSlug(ctx, c); err != nil {
		return nil, err
	}

	if err := s.consultantRepo.Save(ctx, c); err != nil {
		return nil, err
	}

	resp := ToConsultantResponse(c, s.urls)
	return &resp, nil
}

// GetByID retrieves a consultant by ID
func (s *ConsultantService) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*ConsultantResponse, error) {
	c, err := s.consultantRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	resp := ToConsultantResponse(c, s.urls)
	return &resp, nil
}

// GetPublicBySlug retrieves an active consultant by slug
func (s *ConsultantService) GetPublicBySlug(ctx context.Context, tenantID uuid.UUID, slug string) (*ConsultantResponse, error) {
	c, err := s.consultantRepo.FindBySlug(ctx, tenantID, slug)
	if err != nil {
		return nil, err
	}
	if !c.IsActive {
		return nil, shared.NewNotFoundError("Consultant")
	}
	resp := ToConsultantResponse(c, s.urls)
	return &resp, nil
}

// List retrieves consultants for the admin list
func (s *ConsultantService) List(ctx context.Context, tenantID uuid.UUID, filter ConsultantListFilter) ([]ConsultantResponse, int64, error) {
	domainFilter := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  filter.OrderBy,
		OrderDir: filter.OrderDir,
		Search:   filter.Search,
		Filters:  make(map[string]interface{}),
	}
	if domainFilter.Page == 0 {
		domainFilter.Page = 1
	}
	if domainFilter.PageSize == 0 {
		domainFilter.PageSize = 20
	}
	if filter.BranchID != nil {
		domainFilter.Filters["branch_id"] = *filter.BranchID
	}
	if filter.IsActive != nil {
		domainFilter.Filters["is_active"] = *filter.IsActive
	}

	consultants, err := s.consultantRepo.FindAllForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.consultantRepo.CountForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	return s.toResponses(consultants), total, nil
}

// ListPublic returns active consultants, optionally of a single branch
func (s *ConsultantService) ListPublic(ctx context.Context, tenantID uuid.UUID, branchID *uuid.UUID) ([]ConsultantResponse, error) {
	filter := shared.Filter{Filters: map[string]interface{}{"is_active": true}}
	if branchID != nil {
		filter.Filters["branch_id"] = *branchID
	}

	consultants, err := s.consultantRepo.FindAllForTenant(ctx, tenantID, filter)
	if err != nil {
		return nil, err
	}
	return s.toResponses(consultants), nil
}

// Update applies a partial update to a consultant
func (s *ConsultantService) Update(ctx context.Context, tenantID, id uuid.UUID, req UpdateConsultantRequest) (*ConsultantResponse, error) {
	c, err := s.consultantRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	if req.FullName != nil && *req.FullName != c.FullName {
		if err := c.Rename(*req.FullName); err != nil {
			return nil, err
		}
		if err := s.disambiguateSlug(ctx, c); err != nil {
			return nil, err
		}
	}
	if req.BranchID != nil && *req.BranchID != c.BranchID {
		if err := s.ensureBranch(ctx, tenantID, *req.BranchID); err != nil {
			return nil, err
		}
		if err := c.TransferTo(*req.BranchID); err != nil {
			return nil, err
		}
	}

	if req.Title != nil || req.Phone != nil || req.Email != nil || req.Bio != nil {
		profile := consultant.Profile{Title: c.Title, Phone: c.Phone, Email: c.Email, Bio: c.Bio}
		if req.Title != nil {
			profile.Title = *req.Title
		}
		if req.Phone != nil {
			profile.Phone = *req.Phone
		}
		if req.Email != nil {
			profile.Email = *req.Email
		}
		if req.Bio != nil {
			profile.Bio = *req.Bio
		}
		if err := c.UpdateProfile(profile); err != nil {
			return nil, err
		}
	}
	if req.IsActive != nil {
		c.SetActive(*req.IsActive)
	}
	if req.SortOrder != nil {
		c.SortOrder = *req.SortOrder
	}

	if err := s.consultantRepo.Save(ctx, c); err != nil {
		return nil, err
	}

	resp := ToConsultantResponse(c, s.urls)
	return &resp, nil
}

// Delete removes a consultant who is no longer assigned to listings
func (s *ConsultantService) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	c, err := s.consultantRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return err
	}

	count, err := s.listingRepo.CountByConsultant(ctx, tenantID, id)
	if err != nil {
		return err
	}
	if count > 0 {
		return shared.NewDomainError("HAS_CHILDREN", "Consultant is still assigned to listings")
	}

	if err := s.consultantRepo.DeleteForTenant(ctx, tenantID, id); err != nil {
		return err
	}
	if err := s.uploader.Remove(ctx, c.PhotoKey); err != nil {
		s.logger.Warn("Failed to remove consultant photo", zap.String("key", c.PhotoKey), zap.Error(err))
	}
	return nil
}

// UploadPhoto replaces the consultant photo
func (s *ConsultantService) UploadPhoto(ctx context.Context, tenantID, id uuid.UUID, upload media.Upload) (*ConsultantResponse, error) {
	c, err := s.consultantRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	key, err := s.uploader.Store(ctx, tenantID, "consultants", c.ID, upload)
	if err != nil {
		return nil, err
	}
	previous := c.PhotoKey
	c.SetPhoto(key)

	if err := s.consultantRepo.Save(ctx, c); err != nil {
		return nil, err
	}
	if err := s.uploader.Remove(ctx, previous); err != nil {
		s.logger.Warn("Failed to remove previous consultant photo", zap.String("key", previous), zap.Error(err))
	}

	resp := ToConsultantResponse(c, s.urls)
	return &resp, nil
}

func (s *ConsultantService) ensureBranch(ctx context.Context, tenantID, branchID uuid.UUID) error {
	if _, err := s.branchRepo.FindByIDForTenant(ctx, tenantID, branchID); err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return shared.NewDomainError("INVALID_BRANCH", "Branch not found")
		}
		return err
	}
	return nil
}

// disambiguateSlug suffixes the slug with the start of the ID when another
// consultant of the tenant already uses it.
func (s *ConsultantService) disambiguateSlug(ctx context.Context, c *consultant.Consultant) error {
	existing, err := s.consultantRepo.FindBySlug(ctx, c.TenantID, c.Slug)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil
		}
		return err
	}
	if existing.ID != c.ID {
		c.Slug = c.Slug + "-" + c.ID.String()[:6]
	}
	return nil
}

func (s *ConsultantService) toResponses(consultants []consultant.Consultant) []ConsultantResponse {
	responses := make([]ConsultantResponse, len(consultants))
	for i := range consultants {
		responses[i] = ToConsultantResponse(&consultants[i], s.urls)
	}
	return responses
}
