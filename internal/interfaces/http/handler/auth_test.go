package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	appidentity "github.com/emlak/backend/internal/application/identity"
	"github.com/emlak/backend/internal/domain/identity"
	"github.com/emlak/backend/internal/domain/shared"
	"github.com/emlak/backend/internal/infrastructure/auth"
	"github.com/emlak/backend/internal/infrastructure/config"
	"github.com/emlak/backend/internal/interfaces/http/dto"
	"github.com/emlak/backend/internal/interfaces/http/middleware"
	"github.com/emlak/backend/internal/testutil"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type authFixture struct {
	engine    *gin.Engine
	users     *testutil.MockUserRepository
	jwt       *auth.JWTService
	blacklist *auth.InMemoryTokenBlacklist
	tenantID  uuid.UUID
}

func newAuthFixture(t *testing.T) *authFixture {
	t.Helper()
	f := &authFixture{
		users: new(testutil.MockUserRepository),
		jwt: auth.NewJWTService(config.JWTConfig{
			Secret:                 "test-secret-key-32-characters-long",
			AccessTokenExpiration:  15 * time.Minute,
			RefreshTokenExpiration: 7 * 24 * time.Hour,
			Issuer:                 "test-issuer",
			MaxRefreshCount:        10,
		}),
		blacklist: auth.NewInMemoryTokenBlacklist(),
		tenantID:  uuid.New(),
	}
	svc := appidentity.NewAuthService(f.users, f.jwt, f.blacklist, appidentity.AuthServiceConfig{
		MaxLoginAttempts: 3,
		LockDuration:     15 * time.Minute,
	}, zap.NewNop())
	h := NewAuthHandler(svc)

	f.engine = newTestEngine(f.tenantID)
	group := f.engine.Group("/auth")
	group.POST("/login", h.Login)
	group.POST("/refresh", h.Refresh)

	authed := group.Group("", middleware.JWTAuth(middleware.JWTConfig{
		JWTService:  f.jwt,
		Revocations: f.blacklist,
	}))
	authed.POST("/logout", h.Logout)
	authed.GET("/me", h.Me)
	authed.PUT("/password", h.ChangePassword)
	return f
}

func (f *authFixture) user(t *testing.T) *identity.User {
	t.Helper()
	u, err := identity.NewUser(f.tenantID, "ayse.kaya", "Password123", identity.RoleAdmin)
	require.NoError(t, err)
	u.ClearDomainEvents()
	return u
}

func (f *authFixture) tokens(t *testing.T, u *identity.User) *auth.TokenPair {
	t.Helper()
	pair, err := f.jwt.GenerateTokenPair(auth.GenerateTokenInput{
		TenantID: u.TenantID,
		UserID:   u.ID,
		Username: u.Username,
		Role:     string(u.Role),
	})
	require.NoError(t, err)
	return pair
}

func (f *authFixture) authorized(t *testing.T, method, path, token string, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Authorization", "Bearer "+token)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	f.engine.ServeHTTP(rec, req)
	return rec
}

func TestAuthHandler_Login(t *testing.T) {
	f := newAuthFixture(t)
	u := f.user(t)
	f.users.On("FindByUsername", mock.Anything, f.tenantID, "ayse.kaya").Return(u, nil)
	f.users.On("Save", mock.Anything, u).Return(nil)

	rec := doJSON(t, f.engine, http.MethodPost, "/auth/login", appidentity.LoginRequest{
		Username: "ayse.kaya",
		Password: "Password123",
	})

	require.Equal(t, http.StatusOK, rec.Code)
	var got appidentity.LoginResponse
	resp := decode(t, rec, &got)
	assert.True(t, resp.Success)
	assert.NotEmpty(t, got.AccessToken)
	assert.NotEmpty(t, got.RefreshToken)
	assert.Equal(t, "ADMIN", got.User.Role)
	assert.Equal(t, f.tenantID, got.User.TenantID)
}

func TestAuthHandler_Login_Failures(t *testing.T) {
	t.Run("wrong password", func(t *testing.T) {
		f := newAuthFixture(t)
		u := f.user(t)
		f.users.On("FindByUsername", mock.Anything, f.tenantID, "ayse.kaya").Return(u, nil)
		f.users.On("Save", mock.Anything, u).Return(nil)

		rec := doJSON(t, f.engine, http.MethodPost, "/auth/login", appidentity.LoginRequest{
			Username: "ayse.kaya",
			Password: "wrong-password",
		})

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, dto.ErrCodeInvalidCredentials, decode(t, rec, nil).Error.Code)
	})

	t.Run("unknown user", func(t *testing.T) {
		f := newAuthFixture(t)
		f.users.On("FindByUsername", mock.Anything, f.tenantID, "nobody").Return(nil, shared.ErrNotFound)

		rec := doJSON(t, f.engine, http.MethodPost, "/auth/login", appidentity.LoginRequest{
			Username: "nobody",
			Password: "Password123",
		})

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, dto.ErrCodeInvalidCredentials, decode(t, rec, nil).Error.Code)
	})

	t.Run("missing fields", func(t *testing.T) {
		f := newAuthFixture(t)

		rec := doJSON(t, f.engine, http.MethodPost, "/auth/login", map[string]string{})

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		resp := decode(t, rec, nil)
		assert.Equal(t, dto.ErrCodeValidation, resp.Error.Code)
		assert.Len(t, resp.Error.Details, 2)
		f.users.AssertNotCalled(t, "FindByUsername", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestAuthHandler_Refresh(t *testing.T) {
	f := newAuthFixture(t)
	u := f.user(t)
	pair := f.tokens(t, u)
	f.users.On("FindByID", mock.Anything, u.ID).Return(u, nil)

	rec := doJSON(t, f.engine, http.MethodPost, "/auth/refresh", appidentity.RefreshRequest{RefreshToken: pair.RefreshToken})
	require.Equal(t, http.StatusOK, rec.Code)
	var got appidentity.TokenResponse
	decode(t, rec, &got)
	assert.NotEmpty(t, got.AccessToken)

	// the used refresh token is revoked
	rec = doJSON(t, f.engine, http.MethodPost, "/auth/refresh", appidentity.RefreshRequest{RefreshToken: pair.RefreshToken})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, dto.ErrCodeTokenRevoked, decode(t, rec, nil).Error.Code)
}

func TestAuthHandler_Logout_RevokesAccessToken(t *testing.T) {
	f := newAuthFixture(t)
	u := f.user(t)
	pair := f.tokens(t, u)
	f.users.On("FindByID", mock.Anything, u.ID).Return(u, nil)

	rec := f.authorized(t, http.MethodPost, "/auth/logout", pair.AccessToken,
		`{"refreshToken":"`+pair.RefreshToken+`"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	var msg MessageResponse
	decode(t, rec, &msg)
	assert.Equal(t, "Logged out successfully", msg.Message)

	rec = f.authorized(t, http.MethodGet, "/auth/me", pair.AccessToken, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, dto.ErrCodeTokenRevoked, decode(t, rec, nil).Error.Code)

	rec = doJSON(t, f.engine, http.MethodPost, "/auth/refresh", appidentity.RefreshRequest{RefreshToken: pair.RefreshToken})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthHandler_Logout_WithoutBody(t *testing.T) {
	f := newAuthFixture(t)
	pair := f.tokens(t, f.user(t))

	rec := f.authorized(t, http.MethodPost, "/auth/logout", pair.AccessToken, "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAuthHandler_Me(t *testing.T) {
	f := newAuthFixture(t)
	u := f.user(t)
	f.users.On("FindByID", mock.Anything, u.ID).Return(u, nil)

	rec := f.authorized(t, http.MethodGet, "/auth/me", f.tokens(t, u).AccessToken, "")

	require.Equal(t, http.StatusOK, rec.Code)
	var got appidentity.UserResponse
	decode(t, rec, &got)
	assert.Equal(t, u.ID, got.ID)
	assert.Equal(t, "ayse.kaya", got.Username)
}

func TestAuthHandler_Me_RequiresToken(t *testing.T) {
	f := newAuthFixture(t)

	rec := doJSON(t, f.engine, http.MethodGet, "/auth/me", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthHandler_ChangePassword(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		f := newAuthFixture(t)
		u := f.user(t)
		f.users.On("FindByID", mock.Anything, u.ID).Return(u, nil)
		f.users.On("Save", mock.Anything, u).Return(nil)

		rec := f.authorized(t, http.MethodPut, "/auth/password", f.tokens(t, u).AccessToken,
			`{"oldPassword":"Password123","newPassword":"NewPassword456"}`)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.True(t, u.VerifyPassword("NewPassword456"))
	})

	t.Run("short new password", func(t *testing.T) {
		f := newAuthFixture(t)
		u := f.user(t)

		rec := f.authorized(t, http.MethodPut, "/auth/password", f.tokens(t, u).AccessToken,
			`{"oldPassword":"Password123","newPassword":"short"}`)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		f.users.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})
}
