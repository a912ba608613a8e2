package models

import (
	"github.com/emlak/backend/internal/domain/lead"
	"github.com/emlak/backend/internal/domain/listing"
	"github.com/google/uuid"
)

// CustomerRequestModel is the persistence model for customer requests.
type CustomerRequestModel struct {
	TenantAggregateModel
	FullName   string           `gorm:"type:varchar(150);not null"`
	Phone      string           `gorm:"type:varchar(20);not null"`
	Email      string           `gorm:"type:varchar(200)"`
	Type       lead.RequestType `gorm:"type:varchar(10);not null;index"`
	Message    string           `gorm:"type:text"`
	Category   listing.Category `gorm:"type:varchar(30)"`
	CityID     *uuid.UUID       `gorm:"type:uuid"`
	DistrictID *uuid.UUID       `gorm:"type:uuid"`
	ListingID  *uuid.UUID       `gorm:"type:uuid;index"`
	BranchID   *uuid.UUID       `gorm:"type:uuid;index"`
	Status     lead.Status      `gorm:"type:varchar(20);not null;default:'NEW';index"`
	SourceIP   string           `gorm:"type:varchar(45)"`
	Note       string           `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (CustomerRequestModel) TableName() string {
	return "customer_requests"
}

// ToDomain converts the persistence model to a domain CustomerRequest.
func (m *CustomerRequestModel) ToDomain() *lead.CustomerRequest {
	r := &lead.CustomerRequest{
		FullName:   m.FullName,
		Phone:      m.Phone,
		Email:      m.Email,
		Type:       m.Type,
		Message:    m.Message,
		Category:   m.Category,
		CityID:     m.CityID,
		DistrictID: m.DistrictID,
		ListingID:  m.ListingID,
		BranchID:   m.BranchID,
		Status:     m.Status,
		SourceIP:   m.SourceIP,
		Note:       m.Note,
	}
	m.PopulateTenantAggregateRoot(&r.TenantAggregateRoot)
	return r
}

// FromDomain populates the persistence model from a domain CustomerRequest.
func (m *CustomerRequestModel) FromDomain(r *lead.CustomerRequest) {
	m.FromDomainTenantAggregateRoot(r.TenantAggregateRoot)
	m.FullName = r.FullName
	m.Phone = r.Phone
	m.Email = r.Email
	m.Type = r.Type
	m.Message = r.Message
	m.Category = r.Category
	m.CityID = r.CityID
	m.DistrictID = r.DistrictID
	m.ListingID = r.ListingID
	m.BranchID = r.BranchID
	m.Status = r.Status
	m.SourceIP = r.SourceIP
	m.Note = r.Note
}
