package branch

import (
	"time"

	"github.com/emlak/backend/internal/application/media"
	"github.com/emlak/backend/internal/domain/branch"
	"github.com/google/uuid"
)

// CreateBranchRequest represents a request to create a branch
type CreateBranchRequest struct {
	Name       string     `json:"name" binding:"required,min=1,max=150"`
	CityID     uuid.UUID  `json:"city_id" binding:"required"`
	DistrictID *uuid.UUID `json:"district_id"`
	Address    string     `json:"address" binding:"max=500"`
	Phone      string     `json:"phone" binding:"max=30"`
	WhatsApp   string     `json:"whatsapp" binding:"max=30"`
	Email      string     `json:"email" binding:"omitempty,email,max=200"`
	Latitude   *float64   `json:"latitude" binding:"omitempty,latitude"`
	Longitude  *float64   `json:"longitude" binding:"omitempty,longitude"`
	SortOrder  *int       `json:"sort_order"`
}

// UpdateBranchRequest represents a partial branch update
type UpdateBranchRequest struct {
	Name       *string    `json:"name" binding:"omitempty,min=1,max=150"`
	CityID     *uuid.UUID `json:"city_id"`
	DistrictID *uuid.UUID `json:"district_id"`
	Address    *string    `json:"address" binding:"omitempty,max=500"`
	Phone      *string    `json:"phone" binding:"omitempty,max=30"`
	WhatsApp   *string    `json:"whatsapp" binding:"omitempty,max=30"`
	Email      *string    `json:"email" binding:"omitempty,email,max=200"`
	Latitude   *float64   `json:"latitude" binding:"omitempty,latitude"`
	Longitude  *float64   `json:"longitude" binding:"omitempty,longitude"`
	IsActive   *bool      `json:"is_active"`
	SortOrder  *int       `json:"sort_order"`
}

// BranchListFilter represents filter options for the branch list
type BranchListFilter struct {
	Search   string     `form:"search"`
	CityID   *uuid.UUID `form:"city_id"`
	IsActive *bool      `form:"is_active"`
	Page     int        `form:"page" binding:"omitempty,min=1,max=10000"`
	PageSize int        `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy  string     `form:"order_by"`
	OrderDir string     `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// BranchResponse represents a branch in API responses
type BranchResponse struct {
	ID         uuid.UUID  `json:"id"`
	Name       string     `json:"name"`
	Slug       string     `json:"slug"`
	CityID     uuid.UUID  `json:"city_id"`
	DistrictID *uuid.UUID `json:"district_id,omitempty"`
	Address    string     `json:"address"`
	Phone      string     `json:"phone"`
	WhatsApp   string     `json:"whatsapp"`
	Email      string     `json:"email"`
	Latitude   *float64   `json:"latitude,omitempty"`
	Longitude  *float64   `json:"longitude,omitempty"`
	ImageURL   string     `json:"image_url,omitempty"`
	IsActive   bool       `json:"is_active"`
	SortOrder  int        `json:"sort_order"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

// ToBranchResponse converts a domain Branch to BranchResponse
func ToBranchResponse(b *branch.Branch, urls media.URLBuilder) BranchResponse {
	return BranchResponse{
		ID:         b.ID,
		Name:       b.Name,
		Slug:       b.Slug,
		CityID:     b.CityID,
		DistrictID: b.DistrictID,
		Address:    b.Address,
		Phone:      b.Phone,
		WhatsApp:   b.WhatsApp,
		Email:      b.Email,
		Latitude:   b.Latitude,
		Longitude:  b.Longitude,
		ImageURL:   urls.URL(b.ImageKey),
		IsActive:   b.IsActive,
		SortOrder:  b.SortOrder,
		CreatedAt:  b.CreatedAt,
		UpdatedAt:  b.UpdatedAt,
	}
}
