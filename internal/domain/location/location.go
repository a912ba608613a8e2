package location

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/emlak/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// City is the top level of the geographic hierarchy (il)
type City struct {
	shared.TenantAggregateRoot
	Name      string `gorm:"type:varchar(100);not null"`
	Slug      string `gorm:"type:varchar(120);not null;uniqueIndex:idx_city_tenant_slug,priority:2"`
	PlateCode int    `gorm:"not null;default:0"`
	SortOrder int    `gorm:"not null;default:0"`
}

// TableName returns the table name for GORM
func (City) TableName() string {
	return "cities"
}

// District belongs to a city (ilçe)
type District struct {
	shared.TenantAggregateRoot
	CityID    uuid.UUID `gorm:"type:uuid;not null;index"`
	Name      string    `gorm:"type:varchar(100);not null"`
	Slug      string    `gorm:"type:varchar(120);not null"`
	SortOrder int       `gorm:"not null;default:0"`
}

// TableName returns the table name for GORM
func (District) TableName() string {
	return "districts"
}

// Neighborhood belongs to a district (mahalle)
type Neighborhood struct {
	shared.TenantAggregateRoot
	DistrictID uuid.UUID `gorm:"type:uuid;not null;index"`
	Name       string    `gorm:"type:varchar(120);not null"`
	Slug       string    `gorm:"type:varchar(140);not null"`
	SortOrder  int       `gorm:"not null;default:0"`
}

// TableName returns the table name for GORM
func (Neighborhood) TableName() string {
	return "neighborhoods"
}

// NewCity creates a new city
func NewCity(tenantID uuid.UUID, name string, plateCode int) (*City, error) {
	name = strings.TrimSpace(name)
	if err := validateName(name, 100); err != nil {
		return nil, err
	}
	if plateCode < 0 || plateCode > 81 {
		return nil, shared.NewDomainError("INVALID_PLATE_CODE", "Plate code must not exceed 81")
	}

	return &City{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Name:                name,
		Slug:                shared.Slugify(name),
		PlateCode:           plateCode,
	}, nil
}

// Rename changes the city name and slug
func (c *City) Rename(name string) error {
	name = strings.TrimSpace(name)
	if err := validateName(name, 100); err != nil {
		return err
	}
	c.Name = name
	c.Slug = shared.Slugify(name)
	c.touch()
	return nil
}

// SetSortOrder sets the display order of the city
func (c *City) SetSortOrder(order int) {
	c.SortOrder = order
	c.touch()
}

func (c *City) touch() {
	c.UpdatedAt = time.Now()
	c.IncrementVersion()
}

// NewDistrict creates a district under the given city
func NewDistrict(tenantID, cityID uuid.UUID, name string) (*District, error) {
	if cityID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CITY", "City is required")
	}
	name = strings.TrimSpace(name)
	if err := validateName(name, 100); err != nil {
		return nil, err
	}

	return &District{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		CityID:              cityID,
		Name:                name,
		Slug:                shared.Slugify(name),
	}, nil
}

// Rename changes the district name and slug
func (d *District) Rename(name string) error {
	name = strings.TrimSpace(name)
	if err := validateName(name, 100); err != nil {
		return err
	}
	d.Name = name
	d.Slug = shared.Slugify(name)
	d.UpdatedAt = time.Now()
	d.IncrementVersion()
	return nil
}

// NewNeighborhood creates a neighborhood under the given district
func NewNeighborhood(tenantID, districtID uuid.UUID, name string) (*Neighborhood, error) {
	if districtID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_DISTRICT", "District is required")
	}
	name = strings.TrimSpace(name)
	if err := validateName(name, 120); err != nil {
		return nil, err
	}

	return &Neighborhood{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		DistrictID:          districtID,
		Name:                name,
		Slug:                shared.Slugify(name),
	}, nil
}

// Rename changes the neighborhood name and slug
func (n *Neighborhood) Rename(name string) error {
	name = strings.TrimSpace(name)
	if err := validateName(name, 120); err != nil {
		return err
	}
	n.Name = name
	n.Slug = shared.Slugify(name)
	n.UpdatedAt = time.Now()
	n.IncrementVersion()
	return nil
}

func validateName(name string, max int) error {
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Name cannot be empty")
	}
	if utf8.RuneCountInString(name) > max {
		return shared.NewDomainError("INVALID_NAME", "Name is too long")
	}
	return nil
}
