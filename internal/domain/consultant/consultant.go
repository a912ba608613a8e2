package consultant

import (
	"net/mail"
	"strings"
	"time"

	"github.com/emlak/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Consultant is a real-estate agent working at a branch
type Consultant struct {
	shared.TenantAggregateRoot
	BranchID  uuid.UUID `gorm:"type:uuid;not null;index"`
	FullName  string    `gorm:"type:varchar(150);not null"`
	Slug      string    `gorm:"type:varchar(170);not null"`
	Title     string    `gorm:"type:varchar(100)"`
	Phone     string    `gorm:"type:varchar(30)"`
	Email     string    `gorm:"type:varchar(200)"`
	PhotoKey  string    `gorm:"type:varchar(500)"`
	Bio       string    `gorm:"type:text"`
	IsActive  bool      `gorm:"not null;default:true"`
	SortOrder int       `gorm:"not null;default:0"`
}

// TableName returns the table name for GORM
func (Consultant) TableName() string {
	return "consultants"
}

// Profile holds the editable profile fields of a consultant
type Profile struct {
	Title string
	Phone string
	Email string
	Bio   string
}

// NewConsultant creates an active consultant attached to a branch
func NewConsultant(tenantID, branchID uuid.UUID, fullName string) (*Consultant, error) {
	if branchID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_BRANCH", "Consultant branch is required")
	}
	fullName = strings.TrimSpace(fullName)
	if err := validateFullName(fullName); err != nil {
		return nil, err
	}

	return &Consultant{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		BranchID:            branchID,
		FullName:            fullName,
		Slug:                shared.Slugify(fullName),
		IsActive:            true,
	}, nil
}

// Rename updates the consultant's full name and slug
func (c *Consultant) Rename(fullName string) error {
	fullName = strings.TrimSpace(fullName)
	if err := validateFullName(fullName); err != nil {
		return err
	}
	c.FullName = fullName
	c.Slug = shared.Slugify(fullName)
	c.touch()
	return nil
}

// UpdateProfile replaces the profile fields
func (c *Consultant) UpdateProfile(p Profile) error {
	if p.Email != "" {
		if _, err := mail.ParseAddress(p.Email); err != nil {
			return shared.NewDomainError("INVALID_EMAIL", "Consultant email is not valid")
		}
	}
	c.Title = strings.TrimSpace(p.Title)
	c.Phone = strings.TrimSpace(p.Phone)
	c.Email = strings.TrimSpace(p.Email)
	c.Bio = p.Bio
	c.touch()
	return nil
}

// TransferTo moves the consultant to another branch
func (c *Consultant) TransferTo(branchID uuid.UUID) error {
	if branchID == uuid.Nil {
		return shared.NewDomainError("INVALID_BRANCH", "Consultant branch is required")
	}
	c.BranchID = branchID
	c.touch()
	return nil
}

// SetPhoto sets the object storage key of the profile photo
func (c *Consultant) SetPhoto(key string) {
	c.PhotoKey = key
	c.touch()
}

// SetActive shows or hides the consultant on the site
func (c *Consultant) SetActive(active bool) {
	c.IsActive = active
	c.touch()
}

func (c *Consultant) touch() {
	c.UpdatedAt = time.Now()
	c.IncrementVersion()
}

func validateFullName(name string) error {
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Consultant name cannot be empty")
	}
	if len(name) > 150 {
		return shared.NewDomainError("INVALID_NAME", "Consultant name cannot exceed 150 characters")
	}
	return nil
}
