package site

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/emlak/backend/internal/domain/shared"
	"github.com/emlak/backend/internal/domain/site"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// DefaultSettingsTTL bounds how long a cached settings document may live
const DefaultSettingsTTL = 24 * time.Hour

// SettingsProvider serves the per-tenant site settings. The document is read
// from the repository once, cached, and replaced in the cache on update.
// Concurrent misses for the same tenant share one repository read.
type SettingsProvider struct {
	repo   site.SettingsRepository
	cache  shared.Cache
	ttl    time.Duration
	group  singleflight.Group
	logger *zap.Logger
}

// NewSettingsProvider creates a new SettingsProvider
func NewSettingsProvider(repo site.SettingsRepository, cache shared.Cache, logger *zap.Logger) *SettingsProvider {
	return &SettingsProvider{
		repo:   repo,
		cache:  cache,
		ttl:    DefaultSettingsTTL,
		logger: logger,
	}
}

func settingsKey(tenantID uuid.UUID) string {
	return fmt.Sprintf("settings:%s", tenantID)
}

// Get returns the tenant settings, falling back to the defaults when none
// were saved yet
func (p *SettingsProvider) Get(ctx context.Context, tenantID uuid.UUID) (*SettingsResponse, error) {
	s, err := p.load(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	resp := ToSettingsResponse(s)
	return &resp, nil
}

func (p *SettingsProvider) load(ctx context.Context, tenantID uuid.UUID) (*site.Settings, error) {
	key := settingsKey(tenantID)

	var cached site.Settings
	hit, err := p.cache.Get(ctx, key, &cached)
	if err != nil {
		p.logger.Warn("Settings cache read failed", zap.String("tenant_id", tenantID.String()), zap.Error(err))
	} else if hit {
		return &cached, nil
	}

	v, err, _ := p.group.Do(key, func() (interface{}, error) {
		// shared with concurrent callers, so one caller's cancellation must not fail the rest
		ctx := context.WithoutCancel(ctx)
		s, err := p.repo.Find(ctx, tenantID)
		if errors.Is(err, shared.ErrNotFound) {
			s, err = site.DefaultSettings(tenantID), nil
		}
		if err != nil {
			return nil, err
		}
		p.store(ctx, s)
		return s, nil
	})
	if err != nil {
		return nil, err
	}
	// shared between callers, hand out copies
	s := *v.(*site.Settings)
	return &s, nil
}

// Update applies the present sections, persists the document and replaces
// the cached value
func (p *SettingsProvider) Update(ctx context.Context, tenantID uuid.UUID, req UpdateSettingsRequest) (*SettingsResponse, error) {
	s, err := p.load(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	if req.SiteName != nil {
		if err := s.Rename(*req.SiteName); err != nil {
			return nil, err
		}
	}
	if req.Design != nil {
		if err := s.ApplyDesign(site.Design{
			LogoURL:        req.Design.LogoURL,
			FaviconURL:     req.Design.FaviconURL,
			PrimaryColor:   req.Design.PrimaryColor,
			SecondaryColor: req.Design.SecondaryColor,
			FontFamily:     req.Design.FontFamily,
		}); err != nil {
			return nil, err
		}
	}
	if req.Contact != nil {
		if err := s.UpdateContact(site.Contact{
			Phone:    req.Contact.Phone,
			Email:    req.Contact.Email,
			Address:  req.Contact.Address,
			WhatsApp: req.Contact.WhatsApp,
		}); err != nil {
			return nil, err
		}
	}
	if req.Social != nil || req.FooterText != nil || req.SEO != nil {
		social, footer, seo := s.Social, s.FooterText, s.SEO
		if req.Social != nil {
			social = site.SocialLinks(*req.Social)
		}
		if req.FooterText != nil {
			footer = *req.FooterText
		}
		if req.SEO != nil {
			seo = site.SEO(*req.SEO)
		}
		s.UpdateContent(social, footer, seo)
	}

	if err := p.repo.Save(ctx, s); err != nil {
		return nil, err
	}
	p.store(ctx, s)
	p.logger.Info("Site settings updated", zap.String("tenant_id", tenantID.String()))

	resp := ToSettingsResponse(s)
	return &resp, nil
}

func (p *SettingsProvider) store(ctx context.Context, s *site.Settings) {
	if err := p.cache.Set(ctx, settingsKey(s.TenantID), s, p.ttl); err != nil {
		p.logger.Warn("Settings cache write failed", zap.String("tenant_id", s.TenantID.String()), zap.Error(err))
	}
}
