package attribute

import (
	"github.com/emlak/backend/internal/domain/attribute"
	"github.com/google/uuid"
)

// CreateDefinitionRequest represents a request to create an attribute definition
type CreateDefinitionRequest struct {
	Category   string   `json:"category" binding:"required,listing_category"`
	Key        string   `json:"key" binding:"required,min=1,max=50"`
	Label      string   `json:"label" binding:"required,min=1,max=100"`
	Type       string   `json:"type" binding:"required,oneof=TEXT NUMBER SELECT MULTI_SELECT BOOLEAN"`
	Options    []string `json:"options" binding:"omitempty,max=100,dive,max=100"`
	Unit       string   `json:"unit" binding:"max=20"`
	Required   bool     `json:"required"`
	Filterable bool     `json:"filterable"`
	SortOrder  int      `json:"sort_order"`
}

// UpdateDefinitionRequest represents a partial attribute definition update.
// Category and key identify the stored values and cannot change.
type UpdateDefinitionRequest struct {
	Label      *string   `json:"label" binding:"omitempty,min=1,max=100"`
	Type       *string   `json:"type" binding:"omitempty,oneof=TEXT NUMBER SELECT MULTI_SELECT BOOLEAN"`
	Options    *[]string `json:"options" binding:"omitempty,max=100,dive,max=100"`
	Unit       *string   `json:"unit" binding:"omitempty,max=20"`
	Required   *bool     `json:"required"`
	Filterable *bool     `json:"filterable"`
	SortOrder  *int      `json:"sort_order"`
}

// DefinitionResponse represents an attribute definition in API responses
type DefinitionResponse struct {
	ID         uuid.UUID `json:"id"`
	Category   string    `json:"category"`
	Key        string    `json:"key"`
	Label      string    `json:"label"`
	Type       string    `json:"type"`
	Options    []string  `json:"options"`
	Unit       string    `json:"unit,omitempty"`
	Required   bool      `json:"required"`
	Filterable bool      `json:"filterable"`
	SortOrder  int       `json:"sort_order"`
}

// ToDefinitionResponse converts a domain Definition to DefinitionResponse
func ToDefinitionResponse(d *attribute.Definition) DefinitionResponse {
	options := d.Options
	if options == nil {
		options = []string{}
	}
	return DefinitionResponse{
		ID:         d.ID,
		Category:   string(d.Category),
		Key:        d.Key,
		Label:      d.Label,
		Type:       string(d.Type),
		Options:    options,
		Unit:       d.Unit,
		Required:   d.Required,
		Filterable: d.Filterable,
		SortOrder:  d.SortOrder,
	}
}
