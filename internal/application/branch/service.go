package branch

import (
	"context"

	"github.com/emlak/backend/internal/application/media"
	"github.com/emlak/backend/internal/domain/branch"
	"github.com/emlak/backend/internal/domain/consultant"
	"github.com/emlak/backend/internal/domain/listing"
	"github.com/emlak/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// BranchService handles branch-related business operations
type BranchService struct {
	branchRepo     branch.BranchRepository
	consultantRepo consultant.ConsultantRepository
	listingRepo    listing.ListingRepository
	uploader       *media.Uploader
	urls           media.URLBuilder
	logger         *zap.Logger
}

// NewBranchService creates a new BranchService
func NewBranchService(
	branchRepo branch.BranchRepository,
	consultantRepo consultant.ConsultantRepository,
	listingRepo listing.ListingRepository,
	uploader *media.Uploader,
	urls media.URLBuilder,
	logger *zap.Logger,
) *BranchService {
	return &BranchService{
		branchRepo:     branchRepo,
		consultantRepo: consultantRepo,
		listingRepo:    listingRepo,
		uploader:       uploader,
		urls:           urls,
		logger:         logger,
	}
}

// Create creates a new branch
func (s *BranchService) Create(ctx context.Context, tenantID uuid.UUID, req CreateBranchRequest) (*BranchResponse, error) {
	b, err := branch.NewBranch(tenantID, req.Name, req.CityID)
	if err != nil {
		return nil, err
	}
	if err := s.ensureSlugFree(ctx, tenantID, b.Slug); err != nil {
		return nil, err
	}

	if req.DistrictID != nil {
		if err := b.Relocate(req.CityID, req.DistrictID); err != nil {
			return nil, err
		}
	}
	if err := b.UpdateContact(branch.Contact{
		Address:  req.Address,
		Phone:    req.Phone,
		WhatsApp: req.WhatsApp,
		Email:    req.Email,
	}); err != nil {
		return nil, err
	}
	if req.Latitude != nil && req.Longitude != nil {
		if err := b.SetCoordinates(*req.Latitude, *req.Longitude); err != nil {
			return nil, err
		}
	}
	if req.SortOrder != nil {
		b.SortOrder = *req.SortOrder
	}

	if err := s.branchRepo.Save(ctx, b); err != nil {
		return nil, err
	}

	resp := ToBranchResponse(b, s.urls)
	return &resp, nil
}

// GetByID retrieves a branch by ID
func (s *BranchService) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*BranchResponse, error) {
	b, err := s.branchRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	resp := ToBranchResponse(b, s.urls)
	return &resp, nil
}

// GetPublicBySlug retrieves an active branch by slug; inactive branches are not found
func (s *BranchService) GetPublicBySlug(ctx context.Context, tenantID uuid.UUID, slug string) (*BranchResponse, error) {
	b, err := s.branchRepo.FindBySlug(ctx, tenantID, slug)
	if err != nil {
		return nil, err
	}
	if !b.IsActive {
		return nil, shared.NewNotFoundError("Branch")
	}
	resp := ToBranchResponse(b, s.urls)
	return &resp, nil
}

// List retrieves branches for the admin list
func (s *BranchService) List(ctx context.Context, tenantID uuid.UUID, filter BranchListFilter) ([]BranchResponse, int64, error) {
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
	if filter.CityID != nil {
		domainFilter.Filters["city_id"] = *filter.CityID
	}
	if filter.IsActive != nil {
		domainFilter.Filters["is_active"] = *filter.IsActive
	}

	branches, err := s.branchRepo.FindAllForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.branchRepo.CountForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	return s.toResponses(branches), total, nil
}

// ListPublic returns every active branch in display order
func (s *BranchService) ListPublic(ctx context.Context, tenantID uuid.UUID) ([]BranchResponse, error) {
	branches, err := s.branchRepo.FindAllForTenant(ctx, tenantID, shared.Filter{
		Filters: map[string]interface{}{"is_active": true},
	})
	if err != nil {
		return nil, err
	}
	return s.toResponses(branches), nil
}

// Update applies a partial update to a branch
func (s *BranchService) Update(ctx context.Context, tenantID, id uuid.UUID, req UpdateBranchRequest) (*BranchResponse, error) {
	b, err := s.branchRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil && *req.Name != b.Name {
		if err := b.Rename(*req.Name); err != nil {
			return nil, err
		}
		if err := s.ensureSlugFree(ctx, tenantID, b.Slug); err != nil {
			return nil, err
		}
	}

	if req.CityID != nil || req.DistrictID != nil {
		cityID := b.CityID
		districtID := b.DistrictID
		if req.CityID != nil && *req.CityID != b.CityID {
			cityID = *req.CityID
			districtID = nil
		}
		if req.DistrictID != nil {
			districtID = req.DistrictID
		}
		if err := b.Relocate(cityID, districtID); err != nil {
			return nil, err
		}
	}

	if req.Address != nil || req.Phone != nil || req.WhatsApp != nil || req.Email != nil {
		contact := branch.Contact{Address: b.Address, Phone: b.Phone, WhatsApp: b.WhatsApp, Email: b.Email}
		if req.Address != nil {
			contact.Address = *req.Address
		}
		if req.Phone != nil {
			contact.Phone = *req.Phone
		}
		if req.WhatsApp != nil {
			contact.WhatsApp = *req.WhatsApp
		}
		if req.Email != nil {
			contact.Email = *req.Email
		}
		if err := b.UpdateContact(contact); err != nil {
			return nil, err
		}
	}

	if req.Latitude != nil && req.Longitude != nil {
		if err := b.SetCoordinates(*req.Latitude, *req.Longitude); err != nil {
			return nil, err
		}
	}
	if req.IsActive != nil {
		if *req.IsActive {
			b.Activate()
		} else {
			b.Deactivate()
		}
	}
	if req.SortOrder != nil {
		b.SortOrder = *req.SortOrder
	}

	if err := s.branchRepo.Save(ctx, b); err != nil {
		return nil, err
	}

	resp := ToBranchResponse(b, s.urls)
	return &resp, nil
}

// Delete removes a branch that has no consultants and no listings
func (s *BranchService) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	b, err := s.branchRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return err
	}

	consultants, err := s.consultantRepo.CountByBranch(ctx, tenantID, id)
	if err != nil {
		return err
	}
	if consultants > 0 {
		return shared.NewDomainError("HAS_CHILDREN", "Branch still has consultants")
	}
	listings, err := s.listingRepo.CountByBranch(ctx, tenantID, id)
	if err != nil {
		return err
	}
	if listings > 0 {
		return shared.NewDomainError("HAS_CHILDREN", "Branch still has listings")
	}

	if err := s.branchRepo.DeleteForTenant(ctx, tenantID, id); err != nil {
		return err
	}
	if err := s.uploader.Remove(ctx, b.ImageKey); err != nil {
		s.logger.Warn("Failed to remove branch image", zap.String("key", b.ImageKey), zap.Error(err))
	}
	return nil
}

// UploadImage replaces the branch photo
func (s *BranchService) UploadImage(ctx context.Context, tenantID, id uuid.UUID, upload media.Upload) (*BranchResponse, error) {
	b, err := s.branchRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	key, err := s.uploader.Store(ctx, tenantID, "branches", b.ID, upload)
	if err != nil {
		return nil, err
	}
	previous := b.ImageKey
	b.SetImage(key)

	if err := s.branchRepo.Save(ctx, b); err != nil {
		return nil, err
	}
	if err := s.uploader.Remove(ctx, previous); err != nil {
		s.logger.Warn("Failed to remove previous branch image", zap.String("key", previous), zap.Error(err))
	}

	resp := ToBranchResponse(b, s.urls)
	return &resp, nil
}

func (s *BranchService) ensureSlugFree(ctx context.Context, tenantID uuid.UUID, slug string) error {
	exists, err := s.branchRepo.ExistsBySlug(ctx, tenantID, slug)
	if err != nil {
		return err
	}
	if exists {
		return shared.NewDomainError("ALREADY_EXISTS", "Branch with this name already exists")
	}
	return nil
}

func (s *BranchService) toResponses(branches []branch.Branch) []BranchResponse {
	responses := make([]BranchResponse, len(branches))
	for i := range branches {
		responses[i] = ToBranchResponse(&branches[i], s.urls)
	}
	return responses
}
