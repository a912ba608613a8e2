package handler

import (
	"net/http"
	"testing"

	siteapp "github.com/emlak/backend/internal/application/site"
	"github.com/emlak/backend/internal/domain/shared"
	"github.com/emlak/backend/internal/domain/site"
	"github.com/emlak/backend/internal/infrastructure/cache"
	"github.com/emlak/backend/internal/interfaces/http/dto"
	"github.com/emlak/backend/internal/testutil"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type siteHandlerFixture struct {
	engine   *gin.Engine
	tenantID uuid.UUID
	settings *testutil.MockSettingsRepository
	pages    *testutil.MockPageRepository
}

func newSiteHandlerFixture(t *testing.T) *siteHandlerFixture {
	t.Helper()
	f := &siteHandlerFixture{
		tenantID: uuid.New(),
		settings: new(testutil.MockSettingsRepository),
		pages:    new(testutil.MockPageRepository),
	}
	c := cache.NewInMemoryCache()
	t.Cleanup(func() { _ = c.Close() })

	h := NewSiteHandler(
		siteapp.NewSettingsProvider(f.settings, c, zap.NewNop()),
		siteapp.NewPageService(f.pages),
	)
	f.engine = newTestEngine(f.tenantID)
	f.engine.GET("/settings", h.GetSettings)
	f.engine.GET("/pages/slug/:slug", h.GetPageBySlug)
	admin := f.engine.Group("/admin")
	admin.PATCH("/settings", h.UpdateSettings)
	admin.GET("/pages/:id", h.GetPage)
	return f
}

func TestSiteHandler_GetSettings_Defaults(t *testing.T) {
	f := newSiteHandlerFixture(t)
	f.settings.On("Find", mock.Anything, f.tenantID).Return(nil, shared.ErrNotFound).Once()

	rec := doJSON(t, f.engine, http.MethodGet, "/settings", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var got siteapp.SettingsResponse
	decode(t, rec, &got)
	assert.Equal(t, "Emlak", got.SiteName)
	assert.Equal(t, "#1e3a8a", got.Design.PrimaryColor)

	// served from the cache
	rec = doJSON(t, f.engine, http.MethodGet, "/settings", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	f.settings.AssertNumberOfCalls(t, "Find", 1)
}

func TestSiteHandler_UpdateSettings(t *testing.T) {
	f := newSiteHandlerFixture(t)
	f.settings.On("Find", mock.Anything, f.tenantID).Return(site.DefaultSettings(f.tenantID), nil)
	f.settings.On("Save", mock.Anything, mock.AnythingOfType("*site.Settings")).Return(nil)

	rec := doJSON(t, f.engine, http.MethodPatch, "/admin/settings", map[string]any{
		"site_name": "Ege Emlak",
		"contact":   map[string]string{"phone": "0232 000 00 00", "email": "info@egeemlak.com.tr"},
	})

	require.Equal(t, http.StatusOK, rec.Code)
	var got siteapp.SettingsResponse
	decode(t, rec, &got)
	assert.Equal(t, "Ege Emlak", got.SiteName)
	assert.Equal(t, "info@egeemlak.com.tr", got.Contact.Email)

	rec = doJSON(t, f.engine, http.MethodGet, "/settings", nil)
	decode(t, rec, &got)
	assert.Equal(t, "Ege Emlak", got.SiteName)
}

func TestSiteHandler_UpdateSettings_InvalidColor(t *testing.T) {
	f := newSiteHandlerFixture(t)

	rec := doJSON(t, f.engine, http.MethodPatch, "/admin/settings", map[string]any{
		"design": map[string]string{"primary_color": "blue"},
	})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, dto.ErrCodeValidation, decode(t, rec, nil).Error.Code)
	f.settings.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestSiteHandler_GetPageBySlug(t *testing.T) {
	t.Run("published", func(t *testing.T) {
		f := newSiteHandlerFixture(t)
		page, err := site.NewPage(f.tenantID, "Hakkımızda", "hakkimizda")
		require.NoError(t, err)
		page.SetPublished(true)
		f.pages.On("FindBySlug", mock.Anything, f.tenantID, "hakkimizda").Return(page, nil)

		rec := doJSON(t, f.engine, http.MethodGet, "/pages/slug/hakkimizda", nil)

		require.Equal(t, http.StatusOK, rec.Code)
		var got siteapp.PageResponse
		decode(t, rec, &got)
		assert.Equal(t, "Hakkımızda", got.Title)
		assert.NotNil(t, got.Blocks)
	})

	t.Run("draft is hidden", func(t *testing.T) {
		f := newSiteHandlerFixture(t)
		page, err := site.NewPage(f.tenantID, "Kampanya", "kampanya")
		require.NoError(t, err)
		f.pages.On("FindBySlug", mock.Anything, f.tenantID, "kampanya").Return(page, nil)

		rec := doJSON(t, f.engine, http.MethodGet, "/pages/slug/kampanya", nil)

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestSiteHandler_GetPage_DraftVisibleToAdmin(t *testing.T) {
	f := newSiteHandlerFixture(t)
	page, err := site.NewPage(f.tenantID, "Kampanya", "kampanya")
	require.NoError(t, err)
	f.pages.On("FindByIDForTenant", mock.Anything, f.tenantID, page.ID).Return(page, nil)

	rec := doJSON(t, f.engine, http.MethodGet, "/admin/pages/"+page.ID.String(), nil)

	require.Equal(t, http.StatusOK, rec.Code)
	var got siteapp.PageResponse
	decode(t, rec, &got)
	assert.False(t, got.IsPublished)
}
