package lead

import (
	"time"

	"github.com/emlak/backend/internal/domain/lead"
	"github.com/google/uuid"
)

// SubmitRequest is the public customer request form
type SubmitRequest struct {
	FullName   string     `json:"fullName" binding:"required,min=1,max=200"`
	Phone      string     `json:"phone" binding:"required,max=30"`
	Type       string     `json:"type" binding:"required,request_type"`
	Email      string     `json:"email,omitempty" binding:"omitempty,email"`
	Message    string     `json:"message,omitempty" binding:"max=5000"`
	Category   string     `json:"category,omitempty" binding:"omitempty,listing_category"`
	CityID     *uuid.UUID `json:"cityId,omitempty"`
	DistrictID *uuid.UUID `json:"districtId,omitempty"`
	ListingID  *uuid.UUID `json:"listingId,omitempty"`
	BranchID   *uuid.UUID `json:"branchId,omitempty"`
}

// ChangeStatusRequest moves a request to another status
type ChangeStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=CONTACTED CLOSED"`
	Note   string `json:"note" binding:"max=2000"`
}

// ListFilter represents filter options for the back office request list
type ListFilter struct {
	Status   string     `form:"status" binding:"omitempty,oneof=NEW CONTACTED CLOSED"`
	Type     string     `form:"type" binding:"omitempty,request_type"`
	BranchID *uuid.UUID `form:"branch_id"`
	Search   string     `form:"search"`
	Page     int        `form:"page" binding:"omitempty,min=1,max=10000"`
	PageSize int        `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// CustomerRequestResponse represents a customer request
type CustomerRequestResponse struct {
	ID         uuid.UUID  `json:"id"`
	FullName   string     `json:"full_name"`
	Phone      string     `json:"phone"`
	Email      string     `json:"email,omitempty"`
	Type       string     `json:"type"`
	Message    string     `json:"message,omitempty"`
	Category   string     `json:"category,omitempty"`
	CityID     *uuid.UUID `json:"city_id,omitempty"`
	DistrictID *uuid.UUID `json:"district_id,omitempty"`
	ListingID  *uuid.UUID `json:"listing_id,omitempty"`
	BranchID   *uuid.UUID `json:"branch_id,omitempty"`
	Status     string     `json:"status"`
	Note       string     `json:"note,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

// ToCustomerRequestResponse converts a domain CustomerRequest to its response
func ToCustomerRequestResponse(r *lead.CustomerRequest) CustomerRequestResponse {
	return CustomerRequestResponse{
		ID:         r.ID,
		FullName:   r.FullName,
		Phone:      r.Phone,
		Email:      r.Email,
		Type:       string(r.Type),
		Message:    r.Message,
		Category:   string(r.Category),
		CityID:     r.CityID,
		DistrictID: r.DistrictID,
		ListingID:  r.ListingID,
		BranchID:   r.BranchID,
		Status:     string(r.Status),
		Note:       r.Note,
		CreatedAt:  r.CreatedAt,
		UpdatedAt:  r.UpdatedAt,
	}
}
