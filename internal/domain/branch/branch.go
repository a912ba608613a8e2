package branch

import (
	"net/mail"
	"strings"
	"time"

	"github.com/emlak/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Branch is a physical office of the brokerage
type Branch struct {
	shared.TenantAggregateRoot
	Name       string     `gorm:"type:varchar(150);not null"`
	Slug       string     `gorm:"type:varchar(170);not null"`
	CityID     uuid.UUID  `gorm:"type:uuid;not null;index"`
	DistrictID *uuid.UUID `gorm:"type:uuid;index"`
	Address    string     `gorm:"type:varchar(500)"`
	Phone      string     `gorm:"type:varchar(30)"`
	WhatsApp   string     `gorm:"column:whatsapp;type:varchar(30)"`
	Email      string     `gorm:"type:varchar(200)"`
	Latitude   *float64
	Longitude  *float64
	ImageKey   string `gorm:"type:varchar(500)"`
	IsActive   bool   `gorm:"not null;default:true"`
	SortOrder  int    `gorm:"not null;default:0"`
}

// TableName returns the table name for GORM
func (Branch) TableName() string {
	return "branches"
}

// Contact groups the optional contact fields of a branch
type Contact struct {
	Address  string
	Phone    string
	WhatsApp string
	Email    string
}

// NewBranch creates an active branch in the given city
func NewBranch(tenantID uuid.UUID, name string, cityID uuid.UUID) (*Branch, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Branch name cannot be empty")
	}
	if len(name) > 150 {
		return nil, shared.NewDomainError("INVALID_NAME", "Branch name cannot exceed 150 characters")
	}
	if cityID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CITY", "Branch city is required")
	}

	return &Branch{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Name:                name,
		Slug:                shared.Slugify(name),
		CityID:              cityID,
		IsActive:            true,
	}, nil
}

// Rename changes the branch name; the slug follows the name
func (b *Branch) Rename(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Branch name cannot be empty")
	}
	b.Name = name
	b.Slug = shared.Slugify(name)
	b.touch()
	return nil
}

// Relocate moves the branch to another city/district
func (b *Branch) Relocate(cityID uuid.UUID, districtID *uuid.UUID) error {
	if cityID == uuid.Nil {
		return shared.NewDomainError("INVALID_CITY", "Branch city is required")
	}
	b.CityID = cityID
	b.DistrictID = districtID
	b.touch()
	return nil
}

// UpdateContact replaces the contact information
func (b *Branch) UpdateContact(c Contact) error {
	if c.Email != "" {
		if _, err := mail.ParseAddress(c.Email); err != nil {
			return shared.NewDomainError("INVALID_EMAIL", "Branch email is not valid")
		}
	}
	b.Address = strings.TrimSpace(c.Address)
	b.Phone = strings.TrimSpace(c.Phone)
	b.WhatsApp = strings.TrimSpace(c.WhatsApp)
	b.Email = strings.TrimSpace(c.Email)
	b.touch()
	return nil
}

// SetCoordinates sets the map position of the branch
func (b *Branch) SetCoordinates(lat, lng float64) error {
	if lat < -90 || lat > 90 || lng < -180 || lng > 180 {
		return shared.NewDomainError("INVALID_COORDINATES", "Coordinates are out of range")
	}
	b.Latitude = &lat
	b.Longitude = &lng
	b.touch()
	return nil
}

// SetImage sets the object storage key of the branch photo
func (b *Branch) SetImage(key string) {
	b.ImageKey = key
	b.touch()
}

// Activate makes the branch visible on the site
func (b *Branch) Activate() {
	b.IsActive = true
	b.touch()
}

// Deactivate hides the branch from the site
func (b *Branch) Deactivate() {
	b.IsActive = false
	b.touch()
}

func (b *Branch) touch() {
	b.UpdatedAt = time.Now()
	b.IncrementVersion()
}
