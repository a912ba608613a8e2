// Package middleware provides the HTTP middleware of the portal API.
package middleware

import (
	"context"
	"time"

	"github.com/emlak/backend/internal/domain/shared"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Gin context keys
const (
	sessionKey  = "session"
	tenantIDKey = "tenant_id"
)

// Session is the authenticated caller of an admin request. It is derived
// from the bearer token once per request by JWTAuth.
type Session struct {
	UserID       uuid.UUID
	TenantID     uuid.UUID
	Username     string
	Role         string
	ConsultantID *uuid.UUID
	TokenID      string
	ExpiresAt    time.Time
}

// RemainingTTL is how long the access token stays valid
func (s *Session) RemainingTTL() time.Duration {
	if ttl := time.Until(s.ExpiresAt); ttl > 0 {
		return ttl
	}
	return 0
}

type sessionContextKey struct{}

// ContextWithSession stores s in ctx for code below the HTTP layer
func ContextWithSession(ctx context.Context, s *Session) context.Context {
	return context.WithValue(ctx, sessionContextKey{}, s)
}

// SessionFromContext returns the session stored by ContextWithSession
func SessionFromContext(ctx context.Context) (*Session, bool) {
	s, ok := ctx.Value(sessionContextKey{}).(*Session)
	return s, ok && s != nil
}

// GetSession returns the session of an authenticated request
func GetSession(c *gin.Context) (*Session, bool) {
	v, ok := c.Get(sessionKey)
	if !ok {
		return nil, false
	}
	s, ok := v.(*Session)
	return s, ok && s != nil
}

func setSession(c *gin.Context, s *Session) {
	c.Set(sessionKey, s)
	c.Set(tenantIDKey, s.TenantID)
	ctx := shared.ContextWithActor(ContextWithSession(c.Request.Context(), s), s.UserID)
	c.Request = c.Request.WithContext(ctx)
}

// GetTenantID returns the tenant resolved for the request: the session's
// tenant on admin routes, otherwise the one chosen by TenantResolver.
func GetTenantID(c *gin.Context) (uuid.UUID, bool) {
	v, ok := c.Get(tenantIDKey)
	if !ok {
		return uuid.Nil, false
	}
	id, ok := v.(uuid.UUID)
	return id, ok && id != uuid.Nil
}
