package models

import (
	"encoding/json"
	"time"

	"github.com/emlak/backend/internal/domain/listing"
	"github.com/emlak/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

var modelLogger = zap.L().Named("persistence.models")

// ListingModel is the persistence model for the Listing aggregate.
// Attributes and images are stored as jsonb columns.
type ListingModel struct {
	TenantAggregateModel
	ListingNo       string                   `gorm:"type:varchar(20);not null;uniqueIndex:idx_listing_tenant_no,priority:2"`
	Slug            string                   `gorm:"type:varchar(300);not null;index"`
	Title           string                   `gorm:"type:varchar(200);not null"`
	Description     string                   `gorm:"type:text"`
	Price           decimal.Decimal          `gorm:"type:decimal(18,2);not null;default:0"`
	Currency        string                   `gorm:"type:varchar(3);not null;default:'TRY'"`
	Status          listing.Status           `gorm:"type:varchar(20);not null;index"`
	Category        listing.Category         `gorm:"type:varchar(30);not null;index"`
	SubPropertyType string                   `gorm:"type:varchar(50)"`
	Area            decimal.Decimal          `gorm:"type:decimal(12,2);not null;default:0"`
	CityID          uuid.UUID                `gorm:"type:uuid;not null;index"`
	DistrictID      *uuid.UUID               `gorm:"type:uuid;index"`
	NeighborhoodID  *uuid.UUID               `gorm:"type:uuid;index"`
	Latitude        *float64                 `gorm:"type:double precision"`
	Longitude       *float64                 `gorm:"type:double precision"`
	Geohash         string                   `gorm:"type:varchar(12);index"`
	BranchID        *uuid.UUID               `gorm:"type:uuid;index"`
	ConsultantID    *uuid.UUID               `gorm:"type:uuid;index"`
	IsOpportunity   bool                     `gorm:"not null;default:false"`
	State           listing.PublicationState `gorm:"type:varchar(20);not null;default:'DRAFT';index"`
	Attributes      string                   `gorm:"type:jsonb;default:'{}'"`
	Images          string                   `gorm:"type:jsonb;default:'[]'"`
	PublishedAt     *time.Time

	// BranchSlug is filled by the repository's branch join and is read only
	BranchSlug string `gorm:"->;-:migration"`
}

// TableName returns the table name for GORM
func (ListingModel) TableName() string {
	return "listings"
}

// ToDomain converts the persistence model to a domain Listing.
func (m *ListingModel) ToDomain() *listing.Listing {
	price, err := valueobject.NewMoney(m.Price, valueobject.Currency(m.Currency))
	if err != nil {
		modelLogger.Warn("invalid stored listing price",
			zap.String("listing_id", m.ID.String()),
			zap.Error(err))
		price, _ = valueobject.NewMoney(m.Price.Abs(), valueobject.TRY)
	}

	l := &listing.Listing{
		ListingNo:       m.ListingNo,
		Slug:            m.Slug,
		Title:           m.Title,
		Description:     m.Description,
		Price:           price,
		Status:          m.Status,
		Category:        m.Category,
		SubPropertyType: m.SubPropertyType,
		Area:            m.Area,
		CityID:          m.CityID,
		DistrictID:      m.DistrictID,
		NeighborhoodID:  m.NeighborhoodID,
		Latitude:        m.Latitude,
		Longitude:       m.Longitude,
		Geohash:         m.Geohash,
		BranchID:        m.BranchID,
		BranchSlug:      m.BranchSlug,
		ConsultantID:    m.ConsultantID,
		IsOpportunity:   m.IsOpportunity,
		State:           m.State,
		Attributes:      listing.Attributes{},
		Images:          []listing.Image{},
		PublishedAt:     m.PublishedAt,
	}
	m.PopulateTenantAggregateRoot(&l.TenantAggregateRoot)

	if m.Attributes != "" && m.Attributes != "{}" {
		if err := json.Unmarshal([]byte(m.Attributes), &l.Attributes); err != nil {
			modelLogger.Warn("failed to parse listing attributes JSON",
				zap.String("listing_id", m.ID.String()),
				zap.String("raw_json", m.Attributes),
				zap.Error(err))
		}
	}
	if m.Images != "" && m.Images != "[]" {
		if err := json.Unmarshal([]byte(m.Images), &l.Images); err != nil {
			modelLogger.Warn("failed to parse listing images JSON",
				zap.String("listing_id", m.ID.String()),
				zap.Error(err))
		}
	}
	return l
}

// FromDomain populates the persistence model from a domain Listing.
func (m *ListingModel) FromDomain(l *listing.Listing) {
	m.FromDomainTenantAggregateRoot(l.TenantAggregateRoot)
	m.ListingNo = l.ListingNo
	m.Slug = l.Slug
	m.Title = l.Title
	m.Description = l.Description
	m.Price = l.Price.Amount()
	m.Currency = string(l.Price.Currency())
	m.Status = l.Status
	m.Category = l.Category
	m.SubPropertyType = l.SubPropertyType
	m.Area = l.Area
	m.CityID = l.CityID
	m.DistrictID = l.DistrictID
	m.NeighborhoodID = l.NeighborhoodID
	m.Latitude = l.Latitude
	m.Longitude = l.Longitude
	m.Geohash = l.Geohash
	m.BranchID = l.BranchID
	m.BranchSlug = l.BranchSlug
	m.ConsultantID = l.ConsultantID
	m.IsOpportunity = l.IsOpportunity
	m.State = l.State
	m.PublishedAt = l.PublishedAt

	m.Attributes = "{}"
	if len(l.Attributes) > 0 {
		if b, err := json.Marshal(l.Attributes); err == nil {
			m.Attributes = string(b)
		}
	}
	m.Images = "[]"
	if len(l.Images) > 0 {
		if b, err := json.Marshal(l.Images); err == nil {
			m.Images = string(b)
		}
	}
}

// ListingModelFromDomain creates a new persistence model from a domain Listing.
func ListingModelFromDomain(l *listing.Listing) *ListingModel {
	m := &ListingModel{}
	m.FromDomain(l)
	return m
}
