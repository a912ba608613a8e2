package listing

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/emlak/backend/internal/domain/shared"
	"github.com/emlak/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/mmcloughlin/geohash"
	"github.com/shopspring/decimal"
)

// Status is the deal type of a listing
type Status string

const (
	StatusForSale Status = "FOR_SALE"
	StatusForRent Status = "FOR_RENT"
)

// IsValid reports whether s is a known status
func (s Status) IsValid() bool {
	return s == StatusForSale || s == StatusForRent
}

// Category is the property category of a listing
type Category string

const (
	CategoryHousing     Category = "HOUSING"
	CategoryLand        Category = "LAND"
	CategoryCommercial  Category = "COMMERCIAL"
	CategoryTransfer    Category = "TRANSFER"
	CategoryField       Category = "FIELD"
	CategoryGarden      Category = "GARDEN"
	CategoryHobbyGarden Category = "HOBBY_GARDEN"
)

// AllCategories lists every category in display order
var AllCategories = []Category{
	CategoryHousing,
	CategoryLand,
	CategoryCommercial,
	CategoryTransfer,
	CategoryField,
	CategoryGarden,
	CategoryHobbyGarden,
}

// IsValid reports whether c is a known category
func (c Category) IsValid() bool {
	for _, known := range AllCategories {
		if c == known {
			return true
		}
	}
	return false
}

// PublicationState controls whether a listing is visible on the public site
type PublicationState string

const (
	StateDraft     PublicationState = "DRAFT"
	StatePublished PublicationState = "PUBLISHED"
	StateArchived  PublicationState = "ARCHIVED"
)

// Well-known attribute keys used by the category-specific filters
const (
	AttrRoomCount   = "roomCount"
	AttrBuildingAge = "buildingAge"
	AttrHeatingType = "heatingType"
)

// MaxImages is the maximum number of images a listing can hold
const MaxImages = 30

// geohashPrecision of 9 characters is roughly a 5m x 5m cell
const geohashPrecision = 9

// Image is a listing photo stored in object storage
type Image struct {
	ID        uuid.UUID `json:"id"`
	Key       string    `json:"key"`
	SortOrder int       `json:"sort_order"`
}

// Listing is a single property advertisement (sale or rental).
// It is the aggregate root for its images and attributes.
type Listing struct {
	shared.TenantAggregateRoot
	ListingNo       string
	Slug            string
	Title           string
	Description     string
	Price           valueobject.Money
	Status          Status
	Category        Category
	SubPropertyType string
	Area            decimal.Decimal
	CityID          uuid.UUID
	DistrictID      *uuid.UUID
	NeighborhoodID  *uuid.UUID
	Latitude        *float64
	Longitude       *float64
	Geohash         string
	BranchID        *uuid.UUID
	// BranchSlug is resolved by the repository from BranchID and is never persisted
	BranchSlug    string
	ConsultantID  *uuid.UUID
	IsOpportunity bool
	State         PublicationState
	Attributes    Attributes
	Images        []Image
	PublishedAt   *time.Time
}

// NewListingInput carries the required fields of a new listing
type NewListingInput struct {
	Title    string
	Price    valueobject.Money
	Status   Status
	Category Category
	CityID   uuid.UUID
}

// NewListing creates a draft listing
func NewListing(tenantID uuid.UUID, in NewListingInput) (*Listing, error) {
	title := strings.TrimSpace(in.Title)
	if err := validateTitle(title); err != nil {
		return nil, err
	}
	if !in.Status.IsValid() {
		return nil, shared.NewDomainError("INVALID_STATUS", "Listing status must be FOR_SALE or FOR_RENT")
	}
	if !in.Category.IsValid() {
		return nil, shared.NewDomainError("INVALID_CATEGORY", "Listing category is not valid")
	}
	if in.CityID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CITY", "Listing city is required")
	}
	if err := validatePrice(in.Price); err != nil {
		return nil, err
	}

	l := &Listing{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Title:               title,
		Price:               in.Price,
		Status:              in.Status,
		Category:            in.Category,
		CityID:              in.CityID,
		Area:                decimal.Zero,
		State:               StateDraft,
		Attributes:          Attributes{},
	}
	l.ListingNo = strings.ToUpper(strings.ReplaceAll(l.ID.String(), "-", "")[:10])
	l.Slug = buildSlug(title, l.ListingNo)

	return l, nil
}

// UpdateDetails changes the title and description
func (l *Listing) UpdateDetails(title, description string) error {
	title = strings.TrimSpace(title)
	if err := validateTitle(title); err != nil {
		return err
	}
	l.Title = title
	l.Description = description
	l.Slug = buildSlug(title, l.ListingNo)
	l.touch()
	return nil
}

// Reprice sets a new price, raising ListingPriceChanged when the amount differs
func (l *Listing) Reprice(price valueobject.Money) error {
	if err := validatePrice(price); err != nil {
		return err
	}
	if l.Price.Equals(price) {
		return nil
	}
	old := l.Price
	l.Price = price
	l.touch()
	if l.State == StatePublished {
		l.AddDomainEvent(NewListingPriceChangedEvent(l, old))
	}
	return nil
}

// Reclassify changes status, category and sub property type.
// Changing the category drops the category-specific attributes.
func (l *Listing) Reclassify(status Status, category Category, subPropertyType string) error {
	if !status.IsValid() {
		return shared.NewDomainError("INVALID_STATUS", "Listing status must be FOR_SALE or FOR_RENT")
	}
	if !category.IsValid() {
		return shared.NewDomainError("INVALID_CATEGORY", "Listing category is not valid")
	}
	if category != l.Category {
		l.Attributes = Attributes{}
	}
	l.Status = status
	l.Category = category
	l.SubPropertyType = strings.TrimSpace(subPropertyType)
	l.touch()
	return nil
}

// SetArea sets the gross area in square meters
func (l *Listing) SetArea(area decimal.Decimal) error {
	if area.IsNegative() {
		return shared.NewDomainError("INVALID_AREA", "Area cannot be negative")
	}
	l.Area = area
	l.touch()
	return nil
}

// SetLocation places the listing in the geographic hierarchy.
// A neighborhood is only accepted together with its district.
func (l *Listing) SetLocation(cityID uuid.UUID, districtID, neighborhoodID *uuid.UUID) error {
	if cityID == uuid.Nil {
		return shared.NewDomainError("INVALID_CITY", "Listing city is required")
	}
	if neighborhoodID != nil && districtID == nil {
		return shared.NewDomainError("INVALID_LOCATION", "Neighborhood requires a district")
	}
	l.CityID = cityID
	l.DistrictID = districtID
	l.NeighborhoodID = neighborhoodID
	l.touch()
	return nil
}

// SetCoordinates sets the map position and derives the geohash
func (l *Listing) SetCoordinates(lat, lng float64) error {
	if lat < -90 || lat > 90 || lng < -180 || lng > 180 {
		return shared.NewDomainError("INVALID_COORDINATES", "Coordinates are out of range")
	}
	l.Latitude = &lat
	l.Longitude = &lng
	l.Geohash = geohash.EncodeWithPrecision(lat, lng, geohashPrecision)
	l.touch()
	return nil
}

// ClearCoordinates removes the map position
func (l *Listing) ClearCoordinates() {
	l.Latitude = nil
	l.Longitude = nil
	l.Geohash = ""
	l.touch()
}

// HasCoordinates reports whether the listing can be shown on a map
func (l *Listing) HasCoordinates() bool {
	return l.Latitude != nil && l.Longitude != nil
}

// ReplaceAttributes replaces the category-specific attribute map.
// Validation against the attribute schema is done by the application layer.
func (l *Listing) ReplaceAttributes(attrs Attributes) {
	l.Attributes = attrs.Clone()
	l.touch()
}

// AssignTo sets the responsible branch and consultant
func (l *Listing) AssignTo(branchID, consultantID *uuid.UUID) {
	l.BranchID = branchID
	l.ConsultantID = consultantID
	l.touch()
}

// MarkOpportunity flags the listing for the opportunities showcase
func (l *Listing) MarkOpportunity(flag bool) {
	if l.IsOpportunity == flag {
		return
	}
	l.IsOpportunity = flag
	l.touch()
	if l.State == StatePublished {
		l.AddDomainEvent(NewListingUpdatedEvent(l))
	}
}

// AddImage appends an image stored under key
func (l *Listing) AddImage(key string) (*Image, error) {
	if strings.TrimSpace(key) == "" {
		return nil, shared.NewDomainError("INVALID_IMAGE", "Image key is required")
	}
	if len(l.Images) >= MaxImages {
		return nil, shared.NewDomainError("TOO_MANY_IMAGES", "Listing cannot have more than 30 images")
	}
	img := Image{ID: uuid.New(), Key: key, SortOrder: len(l.Images)}
	l.Images = append(l.Images, img)
	l.touch()
	return &l.Images[len(l.Images)-1], nil
}

// RemoveImage removes an image and returns it so the caller can delete the object
func (l *Listing) RemoveImage(imageID uuid.UUID) (Image, error) {
	for i, img := range l.Images {
		if img.ID != imageID {
			continue
		}
		l.Images = append(l.Images[:i], l.Images[i+1:]...)
		for j := range l.Images {
			l.Images[j].SortOrder = j
		}
		l.touch()
		return img, nil
	}
	return Image{}, shared.NewNotFoundError("Image")
}

// CoverImage returns the first image, if any
func (l *Listing) CoverImage() (Image, bool) {
	if len(l.Images) == 0 {
		return Image{}, false
	}
	return l.Images[0], true
}

// Publish makes the listing visible on the public site
func (l *Listing) Publish() error {
	if l.State == StatePublished {
		return shared.NewDomainError("ALREADY_PUBLISHED", "Listing is already published")
	}
	now := time.Now()
	l.State = StatePublished
	l.PublishedAt = &now
	l.touch()
	l.AddDomainEvent(NewListingPublishedEvent(l))
	return nil
}

// Archive removes the listing from the public site
func (l *Listing) Archive() error {
	if l.State == StateArchived {
		return shared.NewDomainError("ALREADY_ARCHIVED", "Listing is already archived")
	}
	l.State = StateArchived
	l.touch()
	l.AddDomainEvent(NewListingArchivedEvent(l))
	return nil
}

// IsPublished reports whether the listing is publicly visible
func (l *Listing) IsPublished() bool {
	return l.State == StatePublished
}

func (l *Listing) touch() {
	l.UpdatedAt = time.Now()
	l.IncrementVersion()
}

func buildSlug(title, listingNo string) string {
	base := shared.Slugify(title)
	if utf8.RuneCountInString(base) > 80 {
		base = strings.TrimSuffix(string([]rune(base)[:80]), "-")
	}
	if base == "" {
		return strings.ToLower(listingNo)
	}
	return base + "-" + strings.ToLower(listingNo)
}

func validateTitle(title string) error {
	if title == "" {
		return shared.NewDomainError("INVALID_TITLE", "Listing title cannot be empty")
	}
	if utf8.RuneCountInString(title) > 200 {
		return shared.NewDomainError("INVALID_TITLE", "Listing title cannot exceed 200 characters")
	}
	return nil
}

func validatePrice(price valueobject.Money) error {
	if !price.Currency().IsValid() {
		return shared.NewDomainError("INVALID_PRICE", "Listing price currency is not valid")
	}
	if !price.Amount().IsPositive() {
		return shared.NewDomainError("INVALID_PRICE", "Listing price must be positive")
	}
	return nil
}
