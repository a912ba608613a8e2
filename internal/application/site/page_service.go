package site

import (
	"context"

	"github.com/emlak/backend/internal/domain/shared"
	"github.com/emlak/backend/internal/domain/site"
	"github.com/google/uuid"
)

// PageService handles CMS page operations
type PageService struct {
	pageRepo site.PageRepository
}

// NewPageService creates a new PageService
func NewPageService(pageRepo site.PageRepository) *PageService {
	return &PageService{pageRepo: pageRepo}
}

// GetPublishedBySlug returns a published page; drafts are reported as missing
func (s *PageService) GetPublishedBySlug(ctx context.Context, tenantID uuid.UUID, slug string) (*PageResponse, error) {
	p, err := s.pageRepo.FindBySlug(ctx, tenantID, slug)
	if err != nil {
		return nil, err
	}
	if !p.IsPublished {
		return nil, shared.NewNotFoundError("Page")
	}
	resp := ToPageResponse(p)
	return &resp, nil
}

// GetByID retrieves a page by ID
func (s *PageService) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*PageResponse, error) {
	p, err := s.pageRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	resp := ToPageResponse(p)
	return &resp, nil
}

// List returns all pages of the tenant
func (s *PageService) List(ctx context.Context, tenantID uuid.UUID) ([]PageResponse, error) {
	pages, err := s.pageRepo.FindAllForTenant(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	responses := make([]PageResponse, len(pages))
	for i, p := range pages {
		responses[i] = ToPageResponse(p)
	}
	return responses, nil
}

// Create creates a page
func (s *PageService) Create(ctx context.Context, tenantID uuid.UUID, req CreatePageRequest) (*PageResponse, error) {
	p, err := site.NewPage(tenantID, req.Title, req.Slug)
	if err != nil {
		return nil, err
	}
	if err := s.ensureSlugFree(ctx, tenantID, p.Slug, nil); err != nil {
		return nil, err
	}
	if err := p.ReplaceBlocks(toBlocks(req.Blocks)); err != nil {
		return nil, err
	}
	if req.IsPublished {
		p.SetPublished(true)
	}

	if err := s.pageRepo.Save(ctx, p); err != nil {
		return nil, err
	}
	resp := ToPageResponse(p)
	return &resp, nil
}

// Update applies a partial update to a page
func (s *PageService) Update(ctx context.Context, tenantID, id uuid.UUID, req UpdatePageRequest) (*PageResponse, error) {
	p, err := s.pageRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	if req.Title != nil || req.Slug != nil {
		title, slug := p.Title, p.Slug
		if req.Title != nil {
			title = *req.Title
		}
		if req.Slug != nil {
			slug = *req.Slug
		}
		if err := p.Retitle(title, slug); err != nil {
			return nil, err
		}
		if err := s.ensureSlugFree(ctx, tenantID, p.Slug, &p.ID); err != nil {
			return nil, err
		}
	}
	if req.Blocks != nil {
		if err := p.ReplaceBlocks(toBlocks(*req.Blocks)); err != nil {
			return nil, err
		}
	}
	if req.IsPublished != nil {
		p.SetPublished(*req.IsPublished)
	}

	if err := s.pageRepo.Save(ctx, p); err != nil {
		return nil, err
	}
	resp := ToPageResponse(p)
	return &resp, nil
}

// Delete deletes a page
func (s *PageService) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	if _, err := s.pageRepo.FindByIDForTenant(ctx, tenantID, id); err != nil {
		return err
	}
	return s.pageRepo.DeleteForTenant(ctx, tenantID, id)
}

func (s *PageService) ensureSlugFree(ctx context.Context, tenantID uuid.UUID, slug string, excludeID *uuid.UUID) error {
	exists, err := s.pageRepo.ExistsBySlug(ctx, tenantID, slug, excludeID)
	if err != nil {
		return err
	}
	if exists {
		return shared.NewDomainError("ALREADY_EXISTS", "A page with this slug already exists")
	}
	return nil
}
