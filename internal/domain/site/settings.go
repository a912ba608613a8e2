package site

import (
	"net/mail"
	"regexp"
	"strings"
	"time"

	"github.com/emlak/backend/internal/domain/shared"
	"github.com/google/uuid"
)

var hexColor = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

// Design holds the theming values the public site is rendered with
type Design struct {
	LogoURL        string `json:"logo_url"`
	FaviconURL     string `json:"favicon_url"`
	PrimaryColor   string `json:"primary_color"`
	SecondaryColor string `json:"secondary_color"`
	FontFamily     string `json:"font_family"`
}

// Contact is the office contact block shown in the footer
type Contact struct {
	Phone    string `json:"phone"`
	Email    string `json:"email"`
	Address  string `json:"address"`
	WhatsApp string `json:"whatsapp"`
}

// SocialLinks are the office social media profiles
type SocialLinks struct {
	Facebook  string `json:"facebook,omitempty"`
	Instagram string `json:"instagram,omitempty"`
	X         string `json:"x,omitempty"`
	LinkedIn  string `json:"linkedin,omitempty"`
	YouTube   string `json:"youtube,omitempty"`
}

// SEO holds the default page metadata
type SEO struct {
	MetaTitle       string `json:"meta_title"`
	MetaDescription string `json:"meta_description"`
}

// Settings is the per-tenant site configuration. There is at most one per tenant.
type Settings struct {
	TenantID   uuid.UUID   `json:"tenant_id"`
	SiteName   string      `json:"site_name"`
	Design     Design      `json:"design"`
	Contact    Contact     `json:"contact"`
	Social     SocialLinks `json:"social"`
	FooterText string      `json:"footer_text"`
	SEO        SEO         `json:"seo"`
	UpdatedAt  time.Time   `json:"updated_at"`
}

// DefaultSettings are served until an admin saves the first settings
func DefaultSettings(tenantID uuid.UUID) *Settings {
	return &Settings{
		TenantID: tenantID,
		SiteName: "Emlak",
		Design: Design{
			PrimaryColor:   "#1e3a8a",
			SecondaryColor: "#f59e0b",
			FontFamily:     "Inter",
		},
		SEO: SEO{
			MetaTitle: "Emlak",
		},
	}
}

// Rename sets the site name
func (s *Settings) Rename(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Site name cannot be empty")
	}
	if len(name) > 100 {
		return shared.NewDomainError("INVALID_NAME", "Site name cannot exceed 100 characters")
	}
	s.SiteName = name
	s.UpdatedAt = time.Now()
	return nil
}

// ApplyDesign replaces the theming values; colors must be hex (#abc or #aabbcc)
func (s *Settings) ApplyDesign(d Design) error {
	for _, c := range []string{d.PrimaryColor, d.SecondaryColor} {
		if c != "" && !hexColor.MatchString(c) {
			return shared.NewDomainError("INVALID_COLOR", "Colors must be hex values like #1e3a8a")
		}
	}
	if d.PrimaryColor == "" {
		d.PrimaryColor = s.Design.PrimaryColor
	}
	if d.SecondaryColor == "" {
		d.SecondaryColor = s.Design.SecondaryColor
	}
	if strings.TrimSpace(d.FontFamily) == "" {
		d.FontFamily = s.Design.FontFamily
	}
	s.Design = d
	s.UpdatedAt = time.Now()
	return nil
}

// UpdateContact replaces the contact block
func (s *Settings) UpdateContact(c Contact) error {
	if c.Email != "" {
		if _, err := mail.ParseAddress(c.Email); err != nil {
			return shared.NewDomainError("INVALID_EMAIL", "Invalid email format")
		}
	}
	s.Contact = c
	s.UpdatedAt = time.Now()
	return nil
}

// UpdateContent replaces social links, footer text and SEO metadata
func (s *Settings) UpdateContent(social SocialLinks, footer string, seo SEO) {
	s.Social = social
	s.FooterText = footer
	s.SEO = seo
	s.UpdatedAt = time.Now()
}
