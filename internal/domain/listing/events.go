package listing

import (
	"github.com/emlak/backend/internal/domain/shared"
	"github.com/emlak/backend/internal/domain/shared/valueobject"
)

// Aggregate type constant
const AggregateTypeListing = "Listing"

// Event type constants
const (
	EventTypeListingPublished    = "ListingPublished"
	EventTypeListingArchived     = "ListingArchived"
	EventTypeListingPriceChanged = "ListingPriceChanged"
	EventTypeListingUpdated      = "ListingUpdated"
)

// ListingPublishedEvent is raised when a listing becomes publicly visible
type ListingPublishedEvent struct {
	shared.BaseDomainEvent
	ListingNo string   `json:"listing_no"`
	Title     string   `json:"title"`
	Status    Status   `json:"status"`
	Category  Category `json:"category"`
	Price     string   `json:"price"`
	Currency  string   `json:"currency"`
}

// NewListingPublishedEvent creates a ListingPublishedEvent
func NewListingPublishedEvent(l *Listing) *ListingPublishedEvent {
	return &ListingPublishedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeListingPublished, AggregateTypeListing, l.ID, l.TenantID),
		ListingNo:       l.ListingNo,
		Title:           l.Title,
		Status:          l.Status,
		Category:        l.Category,
		Price:           l.Price.Amount().String(),
		Currency:        string(l.Price.Currency()),
	}
}

// ListingArchivedEvent is raised when a listing is taken off the site
type ListingArchivedEvent struct {
	shared.BaseDomainEvent
	ListingNo string `json:"listing_no"`
}

// NewListingArchivedEvent creates a ListingArchivedEvent
func NewListingArchivedEvent(l *Listing) *ListingArchivedEvent {
	return &ListingArchivedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeListingArchived, AggregateTypeListing, l.ID, l.TenantID),
		ListingNo:       l.ListingNo,
	}
}

// ListingPriceChangedEvent is raised when a published listing is repriced
type ListingPriceChangedEvent struct {
	shared.BaseDomainEvent
	ListingNo string `json:"listing_no"`
	OldPrice  string `json:"old_price"`
	NewPrice  string `json:"new_price"`
	Currency  string `json:"currency"`
}

// NewListingPriceChangedEvent creates a ListingPriceChangedEvent
func NewListingPriceChangedEvent(l *Listing, old valueobject.Money) *ListingPriceChangedEvent {
	return &ListingPriceChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeListingPriceChanged, AggregateTypeListing, l.ID, l.TenantID),
		ListingNo:       l.ListingNo,
		OldPrice:        old.Amount().String(),
		NewPrice:        l.Price.Amount().String(),
		Currency:        string(l.Price.Currency()),
	}
}

// ListingUpdatedEvent is raised when a published listing changes in a way the
// showcases care about (e.g. the opportunity flag)
type ListingUpdatedEvent struct {
	shared.BaseDomainEvent
	ListingNo     string `json:"listing_no"`
	IsOpportunity bool   `json:"is_opportunity"`
}

// NewListingUpdatedEvent creates a ListingUpdatedEvent
func NewListingUpdatedEvent(l *Listing) *ListingUpdatedEvent {
	return &ListingUpdatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeListingUpdated, AggregateTypeListing, l.ID, l.TenantID),
		ListingNo:       l.ListingNo,
		IsOpportunity:   l.IsOpportunity,
	}
}
