package models

import (
	"encoding/json"

	"github.com/emlak/backend/internal/domain/attribute"
	"github.com/emlak/backend/internal/domain/listing"
	"go.uber.org/zap"
)

// AttributeDefinitionModel is the persistence model for attribute definitions.
type AttributeDefinitionModel struct {
	TenantAggregateModel
	Category   listing.Category `gorm:"type:varchar(30);not null;uniqueIndex:idx_attr_tenant_category_key,priority:2"`
	Key        string           `gorm:"type:varchar(50);not null;uniqueIndex:idx_attr_tenant_category_key,priority:3"`
	Label      string           `gorm:"type:varchar(100);not null"`
	Type       attribute.Type   `gorm:"type:varchar(20);not null"`
	Options    string           `gorm:"type:jsonb;default:'[]'"`
	Unit       string           `gorm:"type:varchar(20)"`
	Required   bool             `gorm:"not null;default:false"`
	Filterable bool             `gorm:"not null;default:false"`
	SortOrder  int              `gorm:"not null;default:0"`
}

// TableName returns the table name for GORM
func (AttributeDefinitionModel) TableName() string {
	return "attribute_definitions"
}

// ToDomain converts the persistence model to a domain Definition.
func (m *AttributeDefinitionModel) ToDomain() *attribute.Definition {
	d := &attribute.Definition{
		Category:   m.Category,
		Key:        m.Key,
		Label:      m.Label,
		Type:       m.Type,
		Unit:       m.Unit,
		Required:   m.Required,
		Filterable: m.Filterable,
		SortOrder:  m.SortOrder,
	}
	m.PopulateTenantAggregateRoot(&d.TenantAggregateRoot)
	if m.Options != "" && m.Options != "[]" {
		if err := json.Unmarshal([]byte(m.Options), &d.Options); err != nil {
			modelLogger.Warn("failed to parse attribute options JSON",
				zap.String("definition_id", m.ID.String()),
				zap.Error(err))
		}
	}
	return d
}

// FromDomain populates the persistence model from a domain Definition.
func (m *AttributeDefinitionModel) FromDomain(d *attribute.Definition) {
	m.FromDomainTenantAggregateRoot(d.TenantAggregateRoot)
	m.Category = d.Category
	m.Key = d.Key
	m.Label = d.Label
	m.Type = d.Type
	m.Unit = d.Unit
	m.Required = d.Required
	m.Filterable = d.Filterable
	m.SortOrder = d.SortOrder
	m.Options = "[]"
	if len(d.Options) > 0 {
		if b, err := json.Marshal(d.Options); err == nil {
			m.Options = string(b)
		}
	}
}
