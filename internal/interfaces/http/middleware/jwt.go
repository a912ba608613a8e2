package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/emlak/backend/internal/infrastructure/auth"
	"github.com/emlak/backend/internal/infrastructure/logger"
	"github.com/emlak/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const bearerPrefix = "Bearer "

// JWTConfig holds configuration for JWT middleware
type JWTConfig struct {
	// JWTService is required for token validation
	JWTService *auth.JWTService
	// Revocations is checked for tokens revoked by logout; nil skips the check
	Revocations auth.TokenBlacklist
	Logger      *zap.Logger
}

// JWTAuth authenticates the bearer token and stores the Session in the gin
// context and in the request context. The session's tenant replaces the
// one resolved from headers.
func JWTAuth(cfg JWTConfig) gin.HandlerFunc {
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}

	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token, ok := strings.CutPrefix(header, bearerPrefix)
		if !ok || strings.TrimSpace(token) == "" {
			abortUnauthorized(c, dto.ErrCodeUnauthorized, "Authentication required")
			return
		}

		claims, err := cfg.JWTService.ValidateAccessToken(strings.TrimSpace(token))
		if err != nil {
			log.Debug("JWT authentication failed", zap.Error(err), zap.String("path", c.Request.URL.Path))
			if errors.Is(err, auth.ErrExpiredToken) {
				abortUnauthorized(c, dto.ErrCodeTokenExpired, "Token has expired")
			} else {
				abortUnauthorized(c, dto.ErrCodeTokenInvalid, "Invalid token")
			}
			return
		}

		if cfg.Revocations != nil && claims.ID != "" {
			revoked, err := cfg.Revocations.IsRevoked(c.Request.Context(), claims.ID)
			if err != nil {
				// fail open: a cache outage must not lock every admin out
				log.Error("Failed to check token revocation", zap.String("jti", claims.ID), zap.Error(err))
			} else if revoked {
				abortUnauthorized(c, dto.ErrCodeTokenRevoked, "Token has been revoked")
				return
			}
		}

		userID, errUser := claims.GetUserUUID()
		tenantID, errTenant := claims.GetTenantUUID()
		if errUser != nil || errTenant != nil {
			abortUnauthorized(c, dto.ErrCodeTokenInvalid, "Invalid token")
			return
		}

		session := &Session{
			UserID:       userID,
			TenantID:     tenantID,
			Username:     claims.Username,
			Role:         claims.Role,
			ConsultantID: claims.GetConsultantUUID(),
			TokenID:      claims.ID,
			ExpiresAt:    claims.GetExpiresAtTime(),
		}
		setSession(c, session)

		ctx := c.Request.Context()
		reqLogger := logger.FromContext(ctx)
		ctx, reqLogger = logger.WithUserID(ctx, reqLogger, claims.UserID)
		ctx, _ = logger.WithTenantID(ctx, reqLogger, claims.TenantID)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

// RequireRole rejects sessions whose role is not one of roles. It must run
// after JWTAuth.
func RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		session, ok := GetSession(c)
		if !ok {
			abortUnauthorized(c, dto.ErrCodeUnauthorized, "Authentication required")
			return
		}
		for _, r := range roles {
			if session.Role == r {
				c.Next()
				return
			}
		}
		abortWithError(c, http.StatusForbidden, dto.ErrCodeForbidden, "You are not allowed to perform this action")
	}
}

func abortUnauthorized(c *gin.Context, code, message string) {
	abortWithError(c, http.StatusUnauthorized, code, message)
}

func abortWithError(c *gin.Context, status int, code, message string) {
	c.AbortWithStatusJSON(status, dto.NewErrorResponseWithRequestID(code, message, c.GetString(logger.GinRequestIDKey)))
}
