package listing

import (
	"context"
	"errors"

	"github.com/emlak/backend/internal/application/media"
	"github.com/emlak/backend/internal/domain/attribute"
	"github.com/emlak/backend/internal/domain/branch"
	"github.com/emlak/backend/internal/domain/consultant"
	"github.com/emlak/backend/internal/domain/listing"
	"github.com/emlak/backend/internal/domain/location"
	"github.com/emlak/backend/internal/domain/shared"
	"github.com/emlak/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// ImageFolder is the object storage folder of listing images
const ImageFolder = "listings"

// ListingService handles the back office listing operations
type ListingService struct {
	listingRepo      listing.ListingRepository
	branchRepo       branch.BranchRepository
	consultantRepo   consultant.ConsultantRepository
	districtRepo     location.DistrictRepository
	neighborhoodRepo location.NeighborhoodRepository
	cityRepo         location.CityRepository
	validator        attribute.Validator
	uploader         *media.Uploader
	urls             media.URLBuilder
	eventPublisher   shared.EventPublisher
	logger           *zap.Logger
}

// ListingServiceDeps groups the collaborators of ListingService
type ListingServiceDeps struct {
	Listings      listing.ListingRepository
	Branches      branch.BranchRepository
	Consultants   consultant.ConsultantRepository
	Cities        location.CityRepository
	Districts     location.DistrictRepository
	Neighborhoods location.NeighborhoodRepository
	Validator     attribute.Validator
	Uploader      *media.Uploader
	URLs          media.URLBuilder
	Logger        *zap.Logger
}

// NewListingService creates a new ListingService
func NewListingService(deps ListingServiceDeps) *ListingService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ListingService{
		listingRepo:      deps.Listings,
		branchRepo:       deps.Branches,
		consultantRepo:   deps.Consultants,
		cityRepo:         deps.Cities,
		districtRepo:     deps.Districts,
		neighborhoodRepo: deps.Neighborhoods,
		validator:        deps.Validator,
		uploader:         deps.Uploader,
		urls:             deps.URLs,
		logger:           logger,
	}
}

// SetEventPublisher sets the event publisher used for listing lifecycle events
func (s *ListingService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Create creates a draft listing
func (s *ListingService) Create(ctx context.Context, tenantID uuid.UUID, req CreateListingRequest) (*ListingResponse, error) {
	price, err := parsePrice(req.Price, req.Currency)
	if err != nil {
		return nil, err
	}

	l, err := listing.NewListing(tenantID, listing.NewListingInput{
		Title:    req.Title,
		Price:    price,
		Status:   listing.Status(req.Status),
		Category: listing.Category(req.Category),
		CityID:   req.CityID,
	})
	if err != nil {
		return nil, err
	}
	if err := l.UpdateDetails(req.Title, req.Description); err != nil {
		return nil, err
	}
	if err := l.Reclassify(l.Status, l.Category, req.SubPropertyType); err != nil {
		return nil, err
	}
	if req.Area != nil {
		if err := l.SetArea(*req.Area); err != nil {
			return nil, err
		}
	}

	if err := s.applyLocation(ctx, l, req.CityID, req.DistrictID, req.NeighborhoodID); err != nil {
		return nil, err
	}
	if req.Latitude != nil && req.Longitude != nil {
		if err := l.SetCoordinates(*req.Latitude, *req.Longitude); err != nil {
			return nil, err
		}
	}
	if err := s.applyAssignment(ctx, l, req.BranchID, req.ConsultantID); err != nil {
		return nil, err
	}
	l.MarkOpportunity(req.IsOpportunity)

	if err := s.applyAttributes(ctx, l, listing.Attributes(req.Attributes)); err != nil {
		return nil, err
	}

	if err := s.listingRepo.Save(ctx, l); err != nil {
		return nil, err
	}
	s.logger.Info("Listing created",
		zap.String("listing_id", l.ID.String()),
		zap.String("listing_no", l.ListingNo),
	)

	resp := ToListingResponse(l, s.urls)
	return &resp, nil
}

// GetByID retrieves a listing regardless of its publication state
func (s *ListingService) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*ListingResponse, error) {
	l, err := s.listingRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	resp := ToListingResponse(l, s.urls)
	return &resp, nil
}

// List returns the back office listing table
func (s *ListingService) List(ctx context.Context, tenantID uuid.UUID, filter AdminListFilter) ([]ListingSummary, int64, error) {
	if filter.Page == 0 {
		filter.Page = 1
	}
	if filter.PageSize == 0 {
		filter.PageSize = 20
	}

	sf := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  filter.OrderBy,
		OrderDir: filter.OrderDir,
		Search:   filter.Search,
		Filters:  make(map[string]interface{}),
	}
	if filter.State != "" {
		sf.Filters["state"] = filter.State
	}
	if filter.BranchID != nil {
		sf.Filters["branch_id"] = *filter.BranchID
	}
	if filter.ConsultantID != nil {
		sf.Filters["consultant_id"] = *filter.ConsultantID
	}

	items, err := s.listingRepo.FindAllForTenant(ctx, tenantID, sf)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.listingRepo.CountForTenant(ctx, tenantID, sf)
	if err != nil {
		return nil, 0, err
	}
	return ToListingSummaries(items, s.urls), total, nil
}

// Update applies a partial update to a listing
func (s *ListingService) Update(ctx context.Context, tenantID, id uuid.UUID, req UpdateListingRequest) (*ListingResponse, error) {
	l, err := s.listingRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	if req.Title != nil || req.Description != nil {
		title, desc := l.Title, l.Description
		if req.Title != nil {
			title = *req.Title
		}
		if req.Description != nil {
			desc = *req.Description
		}
		if err := l.UpdateDetails(title, desc); err != nil {
			return nil, err
		}
	}

	if req.Price != nil || req.Currency != nil {
		amount, currency := l.Price.Amount(), string(l.Price.Currency())
		if req.Price != nil {
			amount = *req.Price
		}
		if req.Currency != nil {
			currency = *req.Currency
		}
		price, err := parsePrice(amount, currency)
		if err != nil {
			return nil, err
		}
		if err := l.Reprice(price); err != nil {
			return nil, err
		}
	}

	categoryChanged := false
	if req.Status != nil || req.Category != nil || req.SubPropertyType != nil {
		status, category, sub := l.Status, l.Category, l.SubPropertyType
		if req.Status != nil {
			status = listing.Status(*req.Status)
		}
		if req.Category != nil {
			category = listing.Category(*req.Category)
		}
		if req.SubPropertyType != nil {
			sub = *req.SubPropertyType
		}
		categoryChanged = category != l.Category
		if err := l.Reclassify(status, category, sub); err != nil {
			return nil, err
		}
	}

	if req.Area != nil {
		if err := l.SetArea(*req.Area); err != nil {
			return nil, err
		}
	}

	if req.CityID != nil || req.DistrictID != nil || req.NeighborhoodID != nil {
		cityID, districtID, neighborhoodID := l.CityID, l.DistrictID, l.NeighborhoodID
		if req.CityID != nil && *req.CityID != l.CityID {
			cityID, districtID, neighborhoodID = *req.CityID, nil, nil
		}
		if req.DistrictID != nil {
			if districtID == nil || *districtID != *req.DistrictID {
				neighborhoodID = nil
			}
			districtID = req.DistrictID
		}
		if req.NeighborhoodID != nil {
			neighborhoodID = req.NeighborhoodID
		}
		if err := s.applyLocation(ctx, l, cityID, districtID, neighborhoodID); err != nil {
			return nil, err
		}
	}

	if req.ClearLocation {
		l.ClearCoordinates()
	} else if req.Latitude != nil && req.Longitude != nil {
		if err := l.SetCoordinates(*req.Latitude, *req.Longitude); err != nil {
			return nil, err
		}
	}

	if req.BranchID != nil || req.ConsultantID != nil {
		branchID, consultantID := l.BranchID, l.ConsultantID
		if req.BranchID != nil {
			branchID = req.BranchID
		}
		if req.ConsultantID != nil {
			consultantID = req.ConsultantID
		}
		if err := s.applyAssignment(ctx, l, branchID, consultantID); err != nil {
			return nil, err
		}
	}

	if req.IsOpportunity != nil {
		l.MarkOpportunity(*req.IsOpportunity)
	}

	switch {
	case req.Attributes != nil:
		if err := s.applyAttributes(ctx, l, listing.Attributes(req.Attributes)); err != nil {
			return nil, err
		}
	case categoryChanged:
		// the previous attributes were dropped, the new category may require some
		if err := s.applyAttributes(ctx, l, listing.Attributes{}); err != nil {
			return nil, err
		}
	}

	if err := s.listingRepo.Save(ctx, l); err != nil {
		return nil, err
	}
	s.publishEvents(ctx, l)

	resp := ToListingResponse(l, s.urls)
	return &resp, nil
}

// Delete deletes a listing together with its stored images
func (s *ListingService) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	l, err := s.listingRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return err
	}
	if err := s.listingRepo.DeleteForTenant(ctx, tenantID, id); err != nil {
		return err
	}
	for _, img := range l.Images {
		if err := s.uploader.Remove(ctx, img.Key); err != nil {
			s.logger.Warn("Failed to remove listing image",
				zap.String("listing_id", id.String()),
				zap.String("key", img.Key),
				zap.Error(err),
			)
		}
	}
	return nil
}

// Publish makes a listing visible on the public site
func (s *ListingService) Publish(ctx context.Context, tenantID, id uuid.UUID) (*ListingResponse, error) {
	return s.transition(ctx, tenantID, id, (*listing.Listing).Publish)
}

// Archive takes a listing off the public site
func (s *ListingService) Archive(ctx context.Context, tenantID, id uuid.UUID) (*ListingResponse, error) {
	return s.transition(ctx, tenantID, id, (*listing.Listing).Archive)
}

func (s *ListingService) transition(ctx context.Context, tenantID, id uuid.UUID, apply func(*listing.Listing) error) (*ListingResponse, error) {
	l, err := s.listingRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if err := apply(l); err != nil {
		return nil, err
	}
	if err := s.listingRepo.Save(ctx, l); err != nil {
		return nil, err
	}
	s.publishEvents(ctx, l)

	resp := ToListingResponse(l, s.urls)
	return &resp, nil
}

// AddImage stores an uploaded image and appends it to the listing
func (s *ListingService) AddImage(ctx context.Context, tenantID, id uuid.UUID, upload media.Upload) (*ListingResponse, error) {
	l, err := s.listingRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if len(l.Images) >= listing.MaxImages {
		return nil, shared.NewDomainError("TOO_MANY_IMAGES", "Listing cannot have more than 30 images")
	}

	key, err := s.uploader.Store(ctx, tenantID, ImageFolder, l.ID, upload)
	if err != nil {
		return nil, err
	}
	if _, err := l.AddImage(key); err != nil {
		s.removeOrphan(ctx, key)
		return nil, err
	}
	if err := s.listingRepo.Save(ctx, l); err != nil {
		s.removeOrphan(ctx, key)
		return nil, err
	}

	resp := ToListingResponse(l, s.urls)
	return &resp, nil
}

// RemoveImage detaches an image from the listing and deletes the object
func (s *ListingService) RemoveImage(ctx context.Context, tenantID, id, imageID uuid.UUID) (*ListingResponse, error) {
	l, err := s.listingRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	img, err := l.RemoveImage(imageID)
	if err != nil {
		return nil, err
	}
	if err := s.listingRepo.Save(ctx, l); err != nil {
		return nil, err
	}
	s.removeOrphan(ctx, img.Key)

	resp := ToListingResponse(l, s.urls)
	return &resp, nil
}

func (s *ListingService) removeOrphan(ctx context.Context, key string) {
	if err := s.uploader.Remove(ctx, key); err != nil {
		s.logger.Warn("Failed to remove listing image", zap.String("key", key), zap.Error(err))
	}
}

// applyLocation checks that the district belongs to the city and the
// neighborhood to the district before placing the listing.
func (s *ListingService) applyLocation(ctx context.Context, l *listing.Listing, cityID uuid.UUID, districtID, neighborhoodID *uuid.UUID) error {
	if _, err := s.cityRepo.FindByIDForTenant(ctx, l.TenantID, cityID); err != nil {
		return referenceError(err, "INVALID_CITY", "City not found")
	}
	if districtID != nil {
		d, err := s.districtRepo.FindByIDForTenant(ctx, l.TenantID, *districtID)
		if err != nil {
			return referenceError(err, "INVALID_DISTRICT", "District not found")
		}
		if d.CityID != cityID {
			return shared.NewDomainError("INVALID_LOCATION", "District does not belong to the city")
		}
	}
	if neighborhoodID != nil {
		if districtID == nil {
			return shared.NewDomainError("INVALID_LOCATION", "Neighborhood requires a district")
		}
		n, err := s.neighborhoodRepo.FindByIDForTenant(ctx, l.TenantID, *neighborhoodID)
		if err != nil {
			return referenceError(err, "INVALID_NEIGHBORHOOD", "Neighborhood not found")
		}
		if n.DistrictID != *districtID {
			return shared.NewDomainError("INVALID_LOCATION", "Neighborhood does not belong to the district")
		}
	}
	return l.SetLocation(cityID, districtID, neighborhoodID)
}

// applyAssignment resolves the branch and consultant. A consultant without
// an explicit branch assigns the listing to the consultant's branch.
func (s *ListingService) applyAssignment(ctx context.Context, l *listing.Listing, branchID, consultantID *uuid.UUID) error {
	if consultantID != nil {
		c, err := s.consultantRepo.FindByIDForTenant(ctx, l.TenantID, *consultantID)
		if err != nil {
			return referenceError(err, "INVALID_CONSULTANT", "Consultant not found")
		}
		if branchID == nil {
			id := c.BranchID
			branchID = &id
		} else if *branchID != c.BranchID {
			return shared.NewDomainError("INVALID_CONSULTANT", "Consultant does not work at the branch")
		}
	}
	if branchID != nil {
		if _, err := s.branchRepo.FindByIDForTenant(ctx, l.TenantID, *branchID); err != nil {
			return referenceError(err, "INVALID_BRANCH", "Branch not found")
		}
	}
	l.AssignTo(branchID, consultantID)
	return nil
}

func (s *ListingService) applyAttributes(ctx context.Context, l *listing.Listing, attrs listing.Attributes) error {
	normalized, err := attrs.Normalize()
	if err != nil {
		return shared.NewDomainError("INVALID_ATTRIBUTES", "Attributes must be a JSON object")
	}
	if s.validator != nil {
		if err := s.validator.Validate(ctx, l.TenantID, l.Category, normalized); err != nil {
			return err
		}
	}
	l.ReplaceAttributes(normalized)
	return nil
}

func (s *ListingService) publishEvents(ctx context.Context, l *listing.Listing) {
	if s.eventPublisher == nil {
		l.ClearDomainEvents()
		return
	}
	for _, event := range l.GetDomainEvents() {
		if err := s.eventPublisher.Publish(ctx, event); err != nil {
			s.logger.Error("Failed to publish listing event",
				zap.String("listing_id", l.ID.String()),
				zap.String("event_type", event.EventType()),
				zap.Error(err),
			)
		}
	}
	l.ClearDomainEvents()
}

func parsePrice(amount decimal.Decimal, currency string) (valueobject.Money, error) {
	c, err := valueobject.ParseCurrency(currency)
	if err != nil {
		return valueobject.Money{}, err
	}
	return valueobject.NewMoney(amount, c)
}

func referenceError(err error, code, message string) error {
	if errors.Is(err, shared.ErrNotFound) {
		return shared.NewDomainError(code, message)
	}
	return err
}
