package consultant

import (
	"time"

	"github.com/emlak/backend/internal/application/media"
	"github.com/emlak/backend/internal/domain/consultant"
	"github.com/google/uuid"
)

// CreateConsultantRequest represents a request to create a consultant
type CreateConsultantRequest struct {
	BranchID  uuid.UUID `json:"branch_id" binding:"required"`
	FullName  string    `json:"full_name" binding:"required,min=1,max=150"`
	Title     string    `json:"title" binding:"max=100"`
	Phone     string    `json:"phone" binding:"max=30"`
	Email     string    `json:"email" binding:"omitempty,email,max=200"`
	Bio       string    `json:"bio" binding:"max=5000"`
	SortOrder *int      `json:"sort_order"`
}

// UpdateConsultantRequest represents a partial consultant update
type UpdateConsultantRequest struct {
	BranchID  *uuid.UUID `json:"branch_id"`
	FullName  *string    `json:"full_name" binding:"omitempty,min=1,max=150"`
	Title     *string    `json:"title" binding:"omitempty,max=100"`
	Phone     *string    `json:"phone" binding:"omitempty,max=30"`
	Email     *string    `json:"email" binding:"omitempty,email,max=200"`
	Bio       *string    `json:"bio" binding:"omitempty,max=5000"`
	IsActive  *bool      `json:"is_active"`
	SortOrder *int       `json:"sort_order"`
}

// ConsultantListFilter represents filter options for the consultant list
type ConsultantListFilter struct {
	Search   string     `form:"search"`
	BranchID *uuid.UUID `form:"branch_id"`
	IsActive *bool      `form:"is_active"`
	Page     int        `form:"page" binding:"omitempty,min=1,max=10000"`
	PageSize int        `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy  string     `form:"order_by"`
	OrderDir string     `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// ConsultantResponse represents a consultant in API responses
type ConsultantResponse struct {
	ID        uuid.UUID `json:"id"`
	BranchID  uuid.UUID `json:"branch_id"`
	FullName  string    `json:"full_name"`
	Slug      string    `json:"slug"`
	Title     string    `json:"title"`
	Phone     string    `json:"phone"`
	Email     string    `json:"email"`
	PhotoURL  string    `json:"photo_url,omitempty"`
	Bio       string    `json:"bio"`
	IsActive  bool      `json:"is_active"`
	SortOrder int       `json:"sort_order"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ToConsultantResponse converts a domain Consultant to ConsultantResponse
func ToConsultantResponse(c *consultant.Consultant, urls media.URLBuilder) ConsultantResponse {
	return ConsultantResponse{
		ID:        c.ID,
		BranchID:  c.BranchID,
		FullName:  c.FullName,
		Slug:      c.Slug,
		Title:     c.Title,
		Phone:     c.Phone,
		Email:     c.Email,
		PhotoURL:  urls.URL(c.PhotoKey),
		Bio:       c.Bio,
		IsActive:  c.IsActive,
		SortOrder: c.SortOrder,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}
