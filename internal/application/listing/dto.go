package listing

import (
	"time"

	"github.com/emlak/backend/internal/application/media"
	"github.com/emlak/backend/internal/domain/listing"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreateListingRequest represents a request to create a draft listing
type CreateListingRequest struct {
	Title           string           `json:"title" binding:"required,min=1,max=200"`
	Description     string           `json:"description" binding:"max=20000"`
	Price           decimal.Decimal  `json:"price" binding:"required"`
	Currency        string           `json:"currency" binding:"omitempty,oneof=TRY USD EUR GBP"`
	Status          string           `json:"status" binding:"required,listing_status"`
	Category        string           `json:"category" binding:"required,listing_category"`
	SubPropertyType string           `json:"sub_property_type" binding:"max=50"`
	Area            *decimal.Decimal `json:"area"`
	CityID          uuid.UUID        `json:"city_id" binding:"required"`
	DistrictID      *uuid.UUID       `json:"district_id"`
	NeighborhoodID  *uuid.UUID       `json:"neighborhood_id"`
	Latitude        *float64         `json:"latitude" binding:"omitempty,latitude"`
	Longitude       *float64         `json:"longitude" binding:"omitempty,longitude"`
	BranchID        *uuid.UUID       `json:"branch_id"`
	ConsultantID    *uuid.UUID       `json:"consultant_id"`
	IsOpportunity   bool             `json:"is_opportunity"`
	Attributes      map[string]any   `json:"attributes"`
}

// UpdateListingRequest represents a partial listing update
type UpdateListingRequest struct {
	Title           *string          `json:"title" binding:"omitempty,min=1,max=200"`
	Description     *string          `json:"description" binding:"omitempty,max=20000"`
	Price           *decimal.Decimal `json:"price"`
	Currency        *string          `json:"currency" binding:"omitempty,oneof=TRY USD EUR GBP"`
	Status          *string          `json:"status" binding:"omitempty,listing_status"`
	Category        *string          `json:"category" binding:"omitempty,listing_category"`
	SubPropertyType *string          `json:"sub_property_type" binding:"omitempty,max=50"`
	Area            *decimal.Decimal `json:"area"`
	CityID          *uuid.UUID       `json:"city_id"`
	DistrictID      *uuid.UUID       `json:"district_id"`
	NeighborhoodID  *uuid.UUID       `json:"neighborhood_id"`
	Latitude        *float64         `json:"latitude" binding:"omitempty,latitude"`
	Longitude       *float64         `json:"longitude" binding:"omitempty,longitude"`
	ClearLocation   bool             `json:"clear_coordinates"`
	BranchID        *uuid.UUID       `json:"branch_id"`
	ConsultantID    *uuid.UUID       `json:"consultant_id"`
	IsOpportunity   *bool            `json:"is_opportunity"`
	Attributes      map[string]any   `json:"attributes"`
}

// AdminListFilter represents filter options for the back office listing table
type AdminListFilter struct {
	Search       string     `form:"search"`
	State        string     `form:"state" binding:"omitempty,oneof=DRAFT PUBLISHED ARCHIVED"`
	BranchID     *uuid.UUID `form:"branch_id"`
	ConsultantID *uuid.UUID `form:"consultant_id"`
	Page         int        `form:"page" binding:"omitempty,min=1,max=10000"`
	PageSize     int        `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy      string     `form:"order_by"`
	OrderDir     string     `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// ImageResponse is a listing image with its public URL
type ImageResponse struct {
	ID        uuid.UUID `json:"id"`
	URL       string    `json:"url"`
	SortOrder int       `json:"sort_order"`
}

// ListingResponse represents a listing in detail responses
type ListingResponse struct {
	ID              uuid.UUID       `json:"id"`
	ListingNo       string          `json:"listing_no"`
	Slug            string          `json:"slug"`
	Title           string          `json:"title"`
	Description     string          `json:"description"`
	Price           decimal.Decimal `json:"price"`
	Currency        string          `json:"currency"`
	PriceDisplay    string          `json:"price_display"`
	Status          string          `json:"status"`
	Category        string          `json:"category"`
	SubPropertyType string          `json:"sub_property_type,omitempty"`
	Area            decimal.Decimal `json:"area"`
	CityID          uuid.UUID       `json:"city_id"`
	DistrictID      *uuid.UUID      `json:"district_id,omitempty"`
	NeighborhoodID  *uuid.UUID      `json:"neighborhood_id,omitempty"`
	Latitude        *float64        `json:"latitude,omitempty"`
	Longitude       *float64        `json:"longitude,omitempty"`
	BranchID        *uuid.UUID      `json:"branch_id,omitempty"`
	BranchSlug      string          `json:"branch_slug,omitempty"`
	ConsultantID    *uuid.UUID      `json:"consultant_id,omitempty"`
	IsOpportunity   bool            `json:"is_opportunity"`
	State           string          `json:"state"`
	Attributes      map[string]any  `json:"attributes"`
	Images          []ImageResponse `json:"images"`
	CoverImageURL   string          `json:"cover_image_url,omitempty"`
	PublishedAt     *time.Time      `json:"published_at,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
	CreatedBy       *uuid.UUID      `json:"created_by,omitempty"`
	Version         int             `json:"version"`
}

// ListingSummary is the card shown in search results and showcases
type ListingSummary struct {
	ID              uuid.UUID       `json:"id"`
	ListingNo       string          `json:"listing_no"`
	Slug            string          `json:"slug"`
	Title           string          `json:"title"`
	Price           decimal.Decimal `json:"price"`
	Currency        string          `json:"currency"`
	PriceDisplay    string          `json:"price_display"`
	Status          string          `json:"status"`
	Category        string          `json:"category"`
	SubPropertyType string          `json:"sub_property_type,omitempty"`
	Area            decimal.Decimal `json:"area"`
	RoomCount       string          `json:"room_count,omitempty"`
	CityID          uuid.UUID       `json:"city_id"`
	DistrictID      *uuid.UUID      `json:"district_id,omitempty"`
	BranchSlug      string          `json:"branch_slug,omitempty"`
	IsOpportunity   bool            `json:"is_opportunity"`
	CoverImageURL   string          `json:"cover_image_url,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
}

// SearchMeta describes the page of a search and the canonical query that produced it
type SearchMeta struct {
	Total      int64  `json:"total"`
	Page       int    `json:"page"`
	PageSize   int    `json:"page_size"`
	TotalPages int    `json:"total_pages"`
	Query      string `json:"query"`
}

// SearchResult is one page of listing search results
type SearchResult struct {
	Items []ListingSummary `json:"items"`
	Meta  SearchMeta       `json:"meta"`
}

// ShowcaseResult is a re-filtered showcase list
type ShowcaseResult struct {
	Items []ListingSummary `json:"items"`
	Total int              `json:"total"`
	Query string           `json:"query"`
}

// MapResult is the clustered map view of a search
type MapResult struct {
	Precision uint                 `json:"precision"`
	Clusters  []listing.MapCluster `json:"clusters"`
	Total     int64                `json:"total"`
	Query     string               `json:"query"`
}

// ToListingResponse converts a domain Listing to ListingResponse
func ToListingResponse(l *listing.Listing, urls media.URLBuilder) ListingResponse {
	images := make([]ImageResponse, len(l.Images))
	for i, img := range l.Images {
		images[i] = ImageResponse{ID: img.ID, URL: urls.URL(img.Key), SortOrder: img.SortOrder}
	}
	attrs := map[string]any(l.Attributes)
	if attrs == nil {
		attrs = map[string]any{}
	}

	return ListingResponse{
		ID:              l.ID,
		ListingNo:       l.ListingNo,
		Slug:            l.Slug,
		Title:           l.Title,
		Description:     l.Description,
		Price:           l.Price.Amount(),
		Currency:        string(l.Price.Currency()),
		PriceDisplay:    l.Price.Display(),
		Status:          string(l.Status),
		Category:        string(l.Category),
		SubPropertyType: l.SubPropertyType,
		Area:            l.Area,
		CityID:          l.CityID,
		DistrictID:      l.DistrictID,
		NeighborhoodID:  l.NeighborhoodID,
		Latitude:        l.Latitude,
		Longitude:       l.Longitude,
		BranchID:        l.BranchID,
		BranchSlug:      l.BranchSlug,
		ConsultantID:    l.ConsultantID,
		IsOpportunity:   l.IsOpportunity,
		State:           string(l.State),
		Attributes:      attrs,
		Images:          images,
		CoverImageURL:   coverURL(l, urls),
		PublishedAt:     l.PublishedAt,
		CreatedAt:       l.CreatedAt,
		UpdatedAt:       l.UpdatedAt,
		CreatedBy:       l.CreatedBy,
		Version:         l.Version,
	}
}

// ToListingSummary converts a domain Listing to its card form
func ToListingSummary(l *listing.Listing, urls media.URLBuilder) ListingSummary {
	return ListingSummary{
		ID:              l.ID,
		ListingNo:       l.ListingNo,
		Slug:            l.Slug,
		Title:           l.Title,
		Price:           l.Price.Amount(),
		Currency:        string(l.Price.Currency()),
		PriceDisplay:    l.Price.Display(),
		Status:          string(l.Status),
		Category:        string(l.Category),
		SubPropertyType: l.SubPropertyType,
		Area:            l.Area,
		RoomCount:       l.Attributes.String(listing.AttrRoomCount),
		CityID:          l.CityID,
		DistrictID:      l.DistrictID,
		BranchSlug:      l.BranchSlug,
		IsOpportunity:   l.IsOpportunity,
		CoverImageURL:   coverURL(l, urls),
		CreatedAt:       l.CreatedAt,
	}
}

// ToListingSummaries converts a slice of listings to cards
func ToListingSummaries(items []*listing.Listing, urls media.URLBuilder) []ListingSummary {
	out := make([]ListingSummary, len(items))
	for i, l := range items {
		out[i] = ToListingSummary(l, urls)
	}
	return out
}

func coverURL(l *listing.Listing, urls media.URLBuilder) string {
	if img, ok := l.CoverImage(); ok {
		return urls.URL(img.Key)
	}
	return ""
}
