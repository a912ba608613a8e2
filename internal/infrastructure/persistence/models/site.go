package models

import (
	"encoding/json"
	"time"

	"github.com/emlak/backend/internal/domain/site"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// SiteSettingsModel stores the single settings row of a tenant.
// The grouped sections are jsonb documents.
type SiteSettingsModel struct {
	TenantID   uuid.UUID `gorm:"type:uuid;primary_key"`
	SiteName   string    `gorm:"type:varchar(150);not null"`
	Design     string    `gorm:"type:jsonb;not null;default:'{}'"`
	Contact    string    `gorm:"type:jsonb;not null;default:'{}'"`
	Social     string    `gorm:"type:jsonb;not null;default:'{}'"`
	SEO        string    `gorm:"column:seo;type:jsonb;not null;default:'{}'"`
	FooterText string    `gorm:"type:text"`
	UpdatedAt  time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (SiteSettingsModel) TableName() string {
	return "site_settings"
}

// ToDomain converts the persistence model to domain Settings.
func (m *SiteSettingsModel) ToDomain() *site.Settings {
	s := &site.Settings{
		TenantID:   m.TenantID,
		SiteName:   m.SiteName,
		FooterText: m.FooterText,
		UpdatedAt:  m.UpdatedAt,
	}
	decodeSection(m.TenantID, "design", m.Design, &s.Design)
	decodeSection(m.TenantID, "contact", m.Contact, &s.Contact)
	decodeSection(m.TenantID, "social", m.Social, &s.Social)
	decodeSection(m.TenantID, "seo", m.SEO, &s.SEO)
	return s
}

// FromDomain populates the persistence model from domain Settings.
func (m *SiteSettingsModel) FromDomain(s *site.Settings) {
	m.TenantID = s.TenantID
	m.SiteName = s.SiteName
	m.FooterText = s.FooterText
	m.UpdatedAt = s.UpdatedAt
	m.Design = encodeSection(s.Design)
	m.Contact = encodeSection(s.Contact)
	m.Social = encodeSection(s.Social)
	m.SEO = encodeSection(s.SEO)
}

func decodeSection(tenantID uuid.UUID, name, raw string, dest any) {
	if raw == "" || raw == "{}" {
		return
	}
	if err := json.Unmarshal([]byte(raw), dest); err != nil {
		modelLogger.Warn("failed to parse site settings section",
			zap.String("tenant_id", tenantID.String()),
			zap.String("section", name),
			zap.Error(err))
	}
}

func encodeSection(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		return "{}"
	}
	return string(b)
}

// PageModel is the persistence model for CMS pages.
type PageModel struct {
	TenantAggregateModel
	Slug        string `gorm:"type:varchar(150);not null;uniqueIndex:idx_page_tenant_slug,priority:2"`
	Title       string `gorm:"type:varchar(200);not null"`
	IsPublished bool   `gorm:"not null;default:false"`
	Blocks      string `gorm:"type:jsonb;not null;default:'[]'"`
}

// TableName returns the table name for GORM
func (PageModel) TableName() string {
	return "pages"
}

// ToDomain converts the persistence model to a domain Page.
func (m *PageModel) ToDomain() *site.Page {
	p := &site.Page{
		Slug:        m.Slug,
		Title:       m.Title,
		IsPublished: m.IsPublished,
		Blocks:      []site.ContentBlock{},
	}
	m.PopulateTenantAggregateRoot(&p.TenantAggregateRoot)
	if m.Blocks != "" && m.Blocks != "[]" {
		if err := json.Unmarshal([]byte(m.Blocks), &p.Blocks); err != nil {
			modelLogger.Warn("failed to parse page blocks JSON",
				zap.String("page_id", m.ID.String()),
				zap.Error(err))
		}
	}
	return p
}

// FromDomain populates the persistence model from a domain Page.
func (m *PageModel) FromDomain(p *site.Page) {
	m.FromDomainTenantAggregateRoot(p.TenantAggregateRoot)
	m.Slug = p.Slug
	m.Title = p.Title
	m.IsPublished = p.IsPublished
	m.Blocks = "[]"
	if len(p.Blocks) > 0 {
		if b, err := json.Marshal(p.Blocks); err == nil {
			m.Blocks = string(b)
		}
	}
}
