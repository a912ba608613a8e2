package site

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/emlak/backend/internal/domain/shared"
	"github.com/emlak/backend/internal/domain/site"
	"github.com/emlak/backend/internal/infrastructure/cache"
	"github.com/emlak/backend/internal/testutil"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newSettingsProvider(t *testing.T) (*SettingsProvider, *testutil.MockSettingsRepository) {
	t.Helper()
	repo := new(testutil.MockSettingsRepository)
	c := cache.NewInMemoryCache()
	t.Cleanup(func() { _ = c.Close() })
	return NewSettingsProvider(repo, c, zap.NewNop()), repo
}

func TestSettingsProvider_Get(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()

	t.Run("reads the repository once", func(t *testing.T) {
		p, repo := newSettingsProvider(t)
		stored := site.DefaultSettings(tenantID)
		stored.SiteName = "Ege Emlak"
		repo.On("Find", ctx, tenantID).Return(stored, nil).Once()

		for range 3 {
			s, err := p.Get(ctx, tenantID)
			require.NoError(t, err)
			assert.Equal(t, "Ege Emlak", s.SiteName)
		}
		repo.AssertNumberOfCalls(t, "Find", 1)
	})

	t.Run("concurrent callers share the result", func(t *testing.T) {
		p, repo := newSettingsProvider(t)
		repo.On("Find", ctx, tenantID).Return(site.DefaultSettings(tenantID), nil)

		var wg sync.WaitGroup
		for range 8 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				s, err := p.Get(ctx, tenantID)
				assert.NoError(t, err)
				assert.Equal(t, "Emlak", s.SiteName)
			}()
		}
		wg.Wait()
	})

	t.Run("falls back to defaults", func(t *testing.T) {
		p, repo := newSettingsProvider(t)
		repo.On("Find", ctx, tenantID).Return(nil, shared.NewNotFoundError("Settings"))

		s, err := p.Get(ctx, tenantID)
		require.NoError(t, err)
		assert.Equal(t, site.DefaultSettings(tenantID).Design.PrimaryColor, s.Design.PrimaryColor)
	})

	t.Run("surfaces repository errors", func(t *testing.T) {
		p, repo := newSettingsProvider(t)
		repo.On("Find", ctx, tenantID).Return(nil, errors.New("connection refused"))

		_, err := p.Get(ctx, tenantID)
		assert.EqualError(t, err, "connection refused")
	})
}

func TestSettingsProvider_Update(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()

	t.Run("replaces the cached value", func(t *testing.T) {
		p, repo := newSettingsProvider(t)
		repo.On("Find", ctx, tenantID).Return(nil, shared.NewNotFoundError("Settings")).Once()
		repo.On("Save", ctx, mock.AnythingOfType("*site.Settings")).Return(nil)

		_, err := p.Get(ctx, tenantID)
		require.NoError(t, err)

		name := "Marmara Gayrimenkul"
		_, err = p.Update(ctx, tenantID, UpdateSettingsRequest{
			SiteName: &name,
			Design:   &DesignRequest{PrimaryColor: "#112233"},
			Contact:  &ContactRequest{Email: "info@example.com"},
			SEO:      &SEORequest{MetaTitle: "Marmara"},
		})
		require.NoError(t, err)

		s, err := p.Get(ctx, tenantID)
		require.NoError(t, err)
		assert.Equal(t, "Marmara Gayrimenkul", s.SiteName)
		assert.Equal(t, "#112233", s.Design.PrimaryColor)
		// unset design values keep their previous value
		assert.Equal(t, "#f59e0b", s.Design.SecondaryColor)
		assert.Equal(t, "info@example.com", s.Contact.Email)
		assert.Equal(t, "Marmara", s.SEO.MetaTitle)
		repo.AssertNumberOfCalls(t, "Find", 1)
	})

	t.Run("rejects invalid colors", func(t *testing.T) {
		p, repo := newSettingsProvider(t)
		repo.On("Find", ctx, tenantID).Return(site.DefaultSettings(tenantID), nil)

		_, err := p.Update(ctx, tenantID, UpdateSettingsRequest{Design: &DesignRequest{PrimaryColor: "red"}})
		require.Error(t, err)
		repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})
}

func TestPageService(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()

	t.Run("public reads hide drafts", func(t *testing.T) {
		repo := new(testutil.MockPageRepository)
		svc := NewPageService(repo)

		draft, err := site.NewPage(tenantID, "Hakkımızda", "")
		require.NoError(t, err)
		repo.On("FindBySlug", ctx, tenantID, "hakkimizda").Return(draft, nil)

		_, err = svc.GetPublishedBySlug(ctx, tenantID, "hakkimizda")
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("returns published pages with ordered blocks", func(t *testing.T) {
		repo := new(testutil.MockPageRepository)
		svc := NewPageService(repo)

		page, err := site.NewPage(tenantID, "KVKK", "kvkk")
		require.NoError(t, err)
		require.NoError(t, page.ReplaceBlocks([]site.ContentBlock{
			{Type: site.BlockHTML, Content: "<h2>Aydınlatma Metni</h2>"},
			{Type: site.BlockButton, URL: "/iletisim", Label: "İletişim"},
		}))
		page.SetPublished(true)
		repo.On("FindBySlug", ctx, tenantID, "kvkk").Return(page, nil)

		resp, err := svc.GetPublishedBySlug(ctx, tenantID, "kvkk")
		require.NoError(t, err)
		require.Len(t, resp.Blocks, 2)
		assert.Equal(t, "<h2>Aydınlatma Metni</h2>", resp.Blocks[0].Content)
		assert.Equal(t, site.BlockButton, resp.Blocks[1].Type)
	})

	t.Run("create rejects a taken slug", func(t *testing.T) {
		repo := new(testutil.MockPageRepository)
		svc := NewPageService(repo)
		repo.On("ExistsBySlug", ctx, tenantID, "iletisim", (*uuid.UUID)(nil)).Return(true, nil)

		_, err := svc.Create(ctx, tenantID, CreatePageRequest{Title: "İletişim"})
		assert.ErrorIs(t, err, shared.ErrAlreadyExists)
	})

	t.Run("create validates blocks", func(t *testing.T) {
		repo := new(testutil.MockPageRepository)
		svc := NewPageService(repo)
		repo.On("ExistsBySlug", ctx, tenantID, "sss", (*uuid.UUID)(nil)).Return(false, nil)

		_, err := svc.Create(ctx, tenantID, CreatePageRequest{
			Title:  "SSS",
			Blocks: []BlockRequest{{Type: "IMAGE"}},
		})
		require.Error(t, err)
		repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("update keeps the slug and excludes itself from the slug check", func(t *testing.T) {
		repo := new(testutil.MockPageRepository)
		svc := NewPageService(repo)

		page, err := site.NewPage(tenantID, "Hizmetler", "")
		require.NoError(t, err)
		repo.On("FindByIDForTenant", ctx, tenantID, page.ID).Return(page, nil)
		repo.On("ExistsBySlug", ctx, tenantID, "hizmetler", &page.ID).Return(false, nil)
		repo.On("Save", ctx, page).Return(nil)

		title, published := "Hizmetlerimiz", true
		resp, err := svc.Update(ctx, tenantID, page.ID, UpdatePageRequest{Title: &title, IsPublished: &published})
		require.NoError(t, err)
		assert.Equal(t, "Hizmetlerimiz", resp.Title)
		assert.Equal(t, "hizmetler", resp.Slug)
		assert.True(t, resp.IsPublished)
	})
}
