package site

import (
	"strings"
	"time"

	"github.com/emlak/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// BlockType is the kind of a page content block
type BlockType string

const (
	BlockHTML   BlockType = "HTML"
	BlockText   BlockType = "TEXT"
	BlockImage  BlockType = "IMAGE"
	BlockButton BlockType = "BUTTON"
)

// IsValid reports whether t is a known block type
func (t BlockType) IsValid() bool {
	switch t {
	case BlockHTML, BlockText, BlockImage, BlockButton:
		return true
	}
	return false
}

// ContentBlock is one section of a CMS page. HTML content is trusted and
// rendered as-is by the site.
type ContentBlock struct {
	Type    BlockType `json:"type"`
	Content string    `json:"content,omitempty"`
	URL     string    `json:"url,omitempty"`
	Label   string    `json:"label,omitempty"`
	Alt     string    `json:"alt,omitempty"`
}

// Validate checks that the block has the fields its type needs
func (b ContentBlock) Validate() error {
	switch b.Type {
	case BlockHTML, BlockText:
		if strings.TrimSpace(b.Content) == "" {
			return shared.NewDomainError("INVALID_BLOCK", "Text blocks need content")
		}
	case BlockImage:
		if strings.TrimSpace(b.URL) == "" {
			return shared.NewDomainError("INVALID_BLOCK", "Image blocks need a url")
		}
	case BlockButton:
		if strings.TrimSpace(b.URL) == "" || strings.TrimSpace(b.Label) == "" {
			return shared.NewDomainError("INVALID_BLOCK", "Button blocks need a url and a label")
		}
	default:
		return shared.NewDomainError("INVALID_BLOCK", "Unknown block type: "+string(b.Type))
	}
	return nil
}

// Page is a static CMS page such as "hakkimizda" or "kvkk"
type Page struct {
	shared.TenantAggregateRoot
	Slug        string
	Title       string
	IsPublished bool
	Blocks      []ContentBlock
}

// NewPage creates an unpublished page; the slug is derived from the title
// when empty
func NewPage(tenantID uuid.UUID, title, slug string) (*Page, error) {
	p := &Page{TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID)}
	if err := p.Retitle(title, slug); err != nil {
		return nil, err
	}
	return p, nil
}

// Retitle changes the title and slug
func (p *Page) Retitle(title, slug string) error {
	title = strings.TrimSpace(title)
	if title == "" {
		return shared.NewDomainError("INVALID_TITLE", "Page title cannot be empty")
	}
	if len(title) > 200 {
		return shared.NewDomainError("INVALID_TITLE", "Page title cannot exceed 200 characters")
	}
	if slug = shared.Slugify(slug); slug == "" {
		slug = shared.Slugify(title)
	}
	if slug == "" {
		return shared.NewDomainError("INVALID_SLUG", "Page slug cannot be empty")
	}
	p.Title = title
	p.Slug = slug
	p.touch()
	return nil
}

// ReplaceBlocks replaces the ordered content blocks
func (p *Page) ReplaceBlocks(blocks []ContentBlock) error {
	for _, b := range blocks {
		if err := b.Validate(); err != nil {
			return err
		}
	}
	p.Blocks = append([]ContentBlock(nil), blocks...)
	p.touch()
	return nil
}

// SetPublished shows or hides the page on the public site
func (p *Page) SetPublished(published bool) {
	p.IsPublished = published
	p.touch()
}

func (p *Page) touch() {
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
}
