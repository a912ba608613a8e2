package lead

import (
	"github.com/emlak/backend/internal/domain/shared"
	"github.com/google/uuid"
)

const AggregateTypeCustomerRequest = "CustomerRequest"

const EventTypeCustomerRequestReceived = "CustomerRequestReceived"

// CustomerRequestReceivedEvent carries what the office needs to call the customer back
type CustomerRequestReceivedEvent struct {
	shared.BaseDomainEvent
	FullName  string      `json:"full_name"`
	Phone     string      `json:"phone"`
	Email     string      `json:"email,omitempty"`
	Type      RequestType `json:"type"`
	Message   string      `json:"message,omitempty"`
	ListingID *uuid.UUID  `json:"listing_id,omitempty"`
	BranchID  *uuid.UUID  `json:"branch_id,omitempty"`
}

// NewCustomerRequestReceivedEvent creates a CustomerRequestReceivedEvent
func NewCustomerRequestReceivedEvent(r *CustomerRequest) *CustomerRequestReceivedEvent {
	return &CustomerRequestReceivedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeCustomerRequestReceived, AggregateTypeCustomerRequest, r.ID, r.TenantID),
		FullName:        r.FullName,
		Phone:           r.Phone,
		Email:           r.Email,
		Type:            r.Type,
		Message:         r.Message,
		ListingID:       r.ListingID,
		BranchID:        r.BranchID,
	}
}
