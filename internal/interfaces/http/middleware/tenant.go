package middleware

import (
	"net/http"

	"github.com/emlak/backend/internal/infrastructure/logger"
	"github.com/emlak/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// TenantHeader selects the tenant of a public request
const TenantHeader = "X-Tenant-ID"

// TenantResolver picks the tenant for every request from the X-Tenant-ID
// header, falling back to defaultTenant. A malformed header is rejected.
func TenantResolver(defaultTenant uuid.UUID) gin.HandlerFunc {
	return func(c *gin.Context) {
		tenantID := defaultTenant
		if raw := c.GetHeader(TenantHeader); raw != "" {
			id, err := uuid.Parse(raw)
			if err != nil || id == uuid.Nil {
				abortWithError(c, http.StatusBadRequest, dto.ErrCodeBadRequest, "Invalid X-Tenant-ID header")
				return
			}
			tenantID = id
		}

		c.Set(tenantIDKey, tenantID)
		ctx := c.Request.Context()
		ctx, _ = logger.WithTenantID(ctx, logger.FromContext(ctx), tenantID.String())
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}
