package lead

import (
	"net/mail"
	"regexp"
	"strings"
	"time"

	"github.com/emlak/backend/internal/domain/listing"
	"github.com/emlak/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// RequestType is what the customer wants to do
type RequestType string

const (
	TypeSell RequestType = "SELL"
	TypeBuy  RequestType = "BUY"
	TypeRent RequestType = "RENT"
	TypeLet  RequestType = "LET"
)

// IsValid reports whether t is a known request type
func (t RequestType) IsValid() bool {
	switch t {
	case TypeSell, TypeBuy, TypeRent, TypeLet:
		return true
	}
	return false
}

// Status is the follow-up state of a request
type Status string

const (
	StatusNew       Status = "NEW"
	StatusContacted Status = "CONTACTED"
	StatusClosed    Status = "CLOSED"
)

// IsValid reports whether s is a known status
func (s Status) IsValid() bool {
	return s == StatusNew || s == StatusContacted || s == StatusClosed
}

var phonePattern = regexp.MustCompile(`^\+?[0-9]{10,15}$`)

// Submission is the form data of a customer request
type Submission struct {
	FullName   string
	Phone      string
	Email      string
	Type       RequestType
	Message    string
	Category   listing.Category
	CityID     *uuid.UUID
	DistrictID *uuid.UUID
	ListingID  *uuid.UUID
	BranchID   *uuid.UUID
	SourceIP   string
}

// CustomerRequest is a lead left through the public contact forms
type CustomerRequest struct {
	shared.TenantAggregateRoot
	FullName   string
	Phone      string
	Email      string
	Type       RequestType
	Message    string
	Category   listing.Category
	CityID     *uuid.UUID
	DistrictID *uuid.UUID
	ListingID  *uuid.UUID
	BranchID   *uuid.UUID
	Status     Status
	SourceIP   string
	Note       string
}

// NormalizePhone drops spaces, dashes and parentheses: "0555 123 45 67" → "05551234567"
func NormalizePhone(phone string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case ' ', '-', '(', ')', '.':
			return -1
		}
		return r
	}, strings.TrimSpace(phone))
}

// NewCustomerRequest validates a submission and raises CustomerRequestReceived
func NewCustomerRequest(tenantID uuid.UUID, s Submission) (*CustomerRequest, error) {
	fullName := strings.TrimSpace(s.FullName)
	if fullName == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Full name is required")
	}
	if len(fullName) > 200 {
		return nil, shared.NewDomainError("INVALID_NAME", "Full name cannot exceed 200 characters")
	}
	phone := NormalizePhone(s.Phone)
	if !phonePattern.MatchString(phone) {
		return nil, shared.NewDomainError("INVALID_PHONE", "Phone number is not valid")
	}
	if !s.Type.IsValid() {
		return nil, shared.NewDomainError("INVALID_TYPE", "Request type must be SELL, BUY, RENT or LET")
	}
	email := strings.ToLower(strings.TrimSpace(s.Email))
	if email != "" {
		if _, err := mail.ParseAddress(email); err != nil {
			return nil, shared.NewDomainError("INVALID_EMAIL", "Invalid email format")
		}
	}
	if s.Category != "" && !s.Category.IsValid() {
		return nil, shared.NewDomainError("INVALID_CATEGORY", "Listing category is not valid")
	}
	if len(s.Message) > 5000 {
		return nil, shared.NewDomainError("INVALID_MESSAGE", "Message cannot exceed 5000 characters")
	}

	r := &CustomerRequest{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		FullName:            fullName,
		Phone:               phone,
		Email:               email,
		Type:                s.Type,
		Message:             strings.TrimSpace(s.Message),
		Category:            s.Category,
		CityID:              s.CityID,
		DistrictID:          s.DistrictID,
		ListingID:           s.ListingID,
		BranchID:            s.BranchID,
		Status:              StatusNew,
		SourceIP:            s.SourceIP,
	}
	r.AddDomainEvent(NewCustomerRequestReceivedEvent(r))
	return r, nil
}

// ChangeStatus moves the request through NEW → CONTACTED → CLOSED.
// A closed request can be reopened as CONTACTED.
func (r *CustomerRequest) ChangeStatus(status Status, note string) error {
	if !status.IsValid() {
		return shared.NewDomainError("INVALID_STATUS", "Unknown request status")
	}
	if status == r.Status {
		return shared.NewDomainError("INVALID_STATE", "Request already has status "+string(status))
	}
	if status == StatusNew {
		return shared.NewDomainError("INVALID_STATE", "A request cannot go back to NEW")
	}
	r.Status = status
	if note = strings.TrimSpace(note); note != "" {
		r.Note = note
	}
	r.UpdatedAt = time.Now()
	r.IncrementVersion()
	return nil
}
