package site

import (
	"time"

	"github.com/emlak/backend/internal/domain/site"
	"github.com/google/uuid"
)

// UpdateSettingsRequest replaces the sections that are present
type UpdateSettingsRequest struct {
	SiteName   *string         `json:"site_name" binding:"omitempty,min=1,max=100"`
	Design     *DesignRequest  `json:"design"`
	Contact    *ContactRequest `json:"contact"`
	Social     *SocialRequest  `json:"social"`
	FooterText *string         `json:"footer_text" binding:"omitempty,max=2000"`
	SEO        *SEORequest     `json:"seo"`
}

// DesignRequest carries the theming values
type DesignRequest struct {
	LogoURL        string `json:"logo_url" binding:"omitempty,url"`
	FaviconURL     string `json:"favicon_url" binding:"omitempty,url"`
	PrimaryColor   string `json:"primary_color" binding:"omitempty,hexcolor"`
	SecondaryColor string `json:"secondary_color" binding:"omitempty,hexcolor"`
	FontFamily     string `json:"font_family" binding:"max=100"`
}

// ContactRequest carries the site contact block
type ContactRequest struct {
	Phone    string `json:"phone" binding:"max=30"`
	Email    string `json:"email" binding:"omitempty,email"`
	Address  string `json:"address" binding:"max=500"`
	WhatsApp string `json:"whatsapp" binding:"max=30"`
}

// SocialRequest carries the social media links
type SocialRequest struct {
	Facebook  string `json:"facebook" binding:"omitempty,url"`
	Instagram string `json:"instagram" binding:"omitempty,url"`
	X         string `json:"x" binding:"omitempty,url"`
	LinkedIn  string `json:"linkedin" binding:"omitempty,url"`
	YouTube   string `json:"youtube" binding:"omitempty,url"`
}

// SEORequest carries the default page metadata
type SEORequest struct {
	MetaTitle       string `json:"meta_title" binding:"max=120"`
	MetaDescription string `json:"meta_description" binding:"max=300"`
}

// SettingsResponse is the public settings document
type SettingsResponse struct {
	SiteName   string           `json:"site_name"`
	Design     site.Design      `json:"design"`
	Contact    site.Contact     `json:"contact"`
	Social     site.SocialLinks `json:"social"`
	FooterText string           `json:"footer_text"`
	SEO        site.SEO         `json:"seo"`
	UpdatedAt  time.Time        `json:"updated_at"`
}

// ToSettingsResponse converts domain Settings to SettingsResponse
func ToSettingsResponse(s *site.Settings) SettingsResponse {
	return SettingsResponse{
		SiteName:   s.SiteName,
		Design:     s.Design,
		Contact:    s.Contact,
		Social:     s.Social,
		FooterText: s.FooterText,
		SEO:        s.SEO,
		UpdatedAt:  s.UpdatedAt,
	}
}

// BlockRequest is one content block of a page
type BlockRequest struct {
	Type    string `json:"type" binding:"required,oneof=HTML TEXT IMAGE BUTTON"`
	Content string `json:"content"`
	URL     string `json:"url"`
	Label   string `json:"label" binding:"max=100"`
	Alt     string `json:"alt" binding:"max=200"`
}

// CreatePageRequest represents a request to create a page
type CreatePageRequest struct {
	Title       string         `json:"title" binding:"required,min=1,max=200"`
	Slug        string         `json:"slug" binding:"max=200"`
	IsPublished bool           `json:"is_published"`
	Blocks      []BlockRequest `json:"blocks" binding:"dive"`
}

// UpdatePageRequest represents a partial page update
type UpdatePageRequest struct {
	Title       *string         `json:"title" binding:"omitempty,min=1,max=200"`
	Slug        *string         `json:"slug" binding:"omitempty,max=200"`
	IsPublished *bool           `json:"is_published"`
	Blocks      *[]BlockRequest `json:"blocks"`
}

// PageResponse represents a page with its ordered blocks. HTML block
// content is passed through untouched.
type PageResponse struct {
	ID          uuid.UUID           `json:"id"`
	Slug        string              `json:"slug"`
	Title       string              `json:"title"`
	IsPublished bool                `json:"is_published"`
	Blocks      []site.ContentBlock `json:"blocks"`
	CreatedAt   time.Time           `json:"created_at"`
	UpdatedAt   time.Time           `json:"updated_at"`
}

// ToPageResponse converts a domain Page to PageResponse
func ToPageResponse(p *site.Page) PageResponse {
	blocks := p.Blocks
	if blocks == nil {
		blocks = []site.ContentBlock{}
	}
	return PageResponse{
		ID:          p.ID,
		Slug:        p.Slug,
		Title:       p.Title,
		IsPublished: p.IsPublished,
		Blocks:      blocks,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

func toBlocks(reqs []BlockRequest) []site.ContentBlock {
	blocks := make([]site.ContentBlock, len(reqs))
	for i, r := range reqs {
		blocks[i] = site.ContentBlock{
			Type:    site.BlockType(r.Type),
			Content: r.Content,
			URL:     r.URL,
			Label:   r.Label,
			Alt:     r.Alt,
		}
	}
	return blocks
}
