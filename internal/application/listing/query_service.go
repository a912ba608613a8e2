package listing

import (
	"context"
	"net/url"
	"strconv"
	"strings"

	"github.com/emlak/backend/internal/application/media"
	"github.com/emlak/backend/internal/domain/branch"
	"github.com/emlak/backend/internal/domain/listing"
	"github.com/emlak/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Paging limits of the public search
const (
	DefaultPageSize = 12
	MaxPageSize     = 60

	// MaxPage is the deepest page a search may request
	MaxPage = 10000
)

// ShowcaseLimit bounds the listing set a showcase loads before re-filtering
const ShowcaseLimit = 200

// MapLimit bounds the listings clustered for one map request
const MapLimit = 5000

// Query parameters read next to the filter parameters
const (
	ParamPage      = "page"
	ParamPageSize  = "pageSize"
	ParamPrecision = "precision"
)

// SearchParams is a parsed public search request
type SearchParams struct {
	Filter   listing.FilterState
	Page     int
	PageSize int
}

// ParseSearchParams reads the filter state and paging parameters.
// Missing paging parameters fall back to the defaults.
func ParseSearchParams(values url.Values) (SearchParams, error) {
	fs, err := listing.ParseFilterState(values)
	if err != nil {
		return SearchParams{}, err
	}

	params := SearchParams{Filter: fs, Page: 1, PageSize: DefaultPageSize}
	if v := strings.TrimSpace(values.Get(ParamPage)); v != "" {
		page, err := strconv.Atoi(v)
		if err != nil || page < 1 {
			return SearchParams{}, shared.NewDomainError("INVALID_FILTER", "page must be a positive integer")
		}
		if page > MaxPage {
			return SearchParams{}, shared.NewDomainError("INVALID_FILTER", "page must not exceed "+strconv.Itoa(MaxPage))
		}
		params.Page = page
	}
	if v := strings.TrimSpace(values.Get(ParamPageSize)); v != "" {
		size, err := strconv.Atoi(v)
		if err != nil || size < 1 {
			return SearchParams{}, shared.NewDomainError("INVALID_FILTER", "pageSize must be a positive integer")
		}
		params.PageSize = min(size, MaxPageSize)
	}
	return params, nil
}

// QueryService serves the public listing pages: search, showcases,
// map clusters and detail.
type QueryService struct {
	listingRepo listing.ListingRepository
	branchRepo  branch.BranchRepository
	urls        media.URLBuilder
}

// NewQueryService creates a new QueryService
func NewQueryService(listingRepo listing.ListingRepository, branchRepo branch.BranchRepository, urls media.URLBuilder) *QueryService {
	return &QueryService{
		listingRepo: listingRepo,
		branchRepo:  branchRepo,
		urls:        urls,
	}
}

// Search runs a filtered, paginated search over published listings.
// The meta carries the canonical query of the filter that was applied.
func (s *QueryService) Search(ctx context.Context, tenantID uuid.UUID, params SearchParams) (*SearchResult, error) {
	items, total, err := s.listingRepo.Search(ctx, tenantID, listing.SearchQuery{
		Filter:        params.Filter,
		Page:          params.Page,
		PageSize:      params.PageSize,
		PublishedOnly: true,
	})
	if err != nil {
		return nil, err
	}

	page := shared.NewPaginated(items, total, params.Page, params.PageSize)
	return &SearchResult{
		Items: ToListingSummaries(items, s.urls),
		Meta: SearchMeta{
			Total:      page.Total,
			Page:       page.Page,
			PageSize:   page.PageSize,
			TotalPages: page.TotalPages,
			Query:      params.Filter.Encode(),
		},
	}, nil
}

// Opportunities loads the opportunity showcase once and re-filters it with fs
func (s *QueryService) Opportunities(ctx context.Context, tenantID uuid.UUID, fs listing.FilterState) (*ShowcaseResult, error) {
	items, err := s.listingRepo.FindShowcase(ctx, tenantID, listing.ShowcaseScope{
		OpportunitiesOnly: true,
		Limit:             ShowcaseLimit,
	})
	if err != nil {
		return nil, err
	}
	return s.showcase(items, fs), nil
}

// BranchShowcase loads the listings of an active branch and re-filters them with fs
func (s *QueryService) BranchShowcase(ctx context.Context, tenantID uuid.UUID, branchSlug string, fs listing.FilterState) (*ShowcaseResult, error) {
	b, err := s.branchRepo.FindBySlug(ctx, tenantID, branchSlug)
	if err != nil {
		return nil, err
	}
	if !b.IsActive {
		return nil, shared.NewNotFoundError("Branch")
	}

	items, err := s.listingRepo.FindShowcase(ctx, tenantID, listing.ShowcaseScope{
		BranchID: &b.ID,
		Limit:    ShowcaseLimit,
	})
	if err != nil {
		return nil, err
	}
	return s.showcase(items, fs), nil
}

func (s *QueryService) showcase(items []*listing.Listing, fs listing.FilterState) *ShowcaseResult {
	matched := listing.Apply(items, fs)
	return &ShowcaseResult{
		Items: ToListingSummaries(matched, s.urls),
		Total: len(matched),
		Query: fs.Encode(),
	}
}

// Map clusters the published listings matching fs by geohash cell
func (s *QueryService) Map(ctx context.Context, tenantID uuid.UUID, fs listing.FilterState, precision int) (*MapResult, error) {
	items, total, err := s.listingRepo.Search(ctx, tenantID, listing.SearchQuery{
		Filter:        fs,
		Page:          1,
		PageSize:      MapLimit,
		PublishedOnly: true,
	})
	if err != nil {
		return nil, err
	}

	p := listing.ClampPrecision(precision)
	return &MapResult{
		Precision: p,
		Clusters:  listing.Cluster(items, p),
		Total:     total,
		Query:     fs.Encode(),
	}, nil
}

// GetPublic returns a published listing by ID
func (s *QueryService) GetPublic(ctx context.Context, tenantID, id uuid.UUID) (*ListingResponse, error) {
	l, err := s.listingRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	return s.publicResponse(l)
}

// GetPublicBySlug returns a published listing by slug
func (s *QueryService) GetPublicBySlug(ctx context.Context, tenantID uuid.UUID, slug string) (*ListingResponse, error) {
	l, err := s.listingRepo.FindBySlug(ctx, tenantID, slug)
	if err != nil {
		return nil, err
	}
	return s.publicResponse(l)
}

func (s *QueryService) publicResponse(l *listing.Listing) (*ListingResponse, error) {
	if !l.IsPublished() {
		return nil, shared.NewNotFoundError("Listing")
	}
	resp := ToListingResponse(l, s.urls)
	return &resp, nil
}
