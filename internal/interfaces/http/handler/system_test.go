package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/emlak/backend/internal/infrastructure/persistence"
	"github.com/emlak/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubDatabase struct {
	pingErr error
}

func (s stubDatabase) Ping(context.Context) error { return s.pingErr }

func (s stubDatabase) Stats() (persistence.ConnectionStats, error) {
	return persistence.ConnectionStats{MaxOpenConnections: 25, OpenConnections: 2}, nil
}

func serveSystem(h gin.HandlerFunc, path string) *httptest.ResponseRecorder {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodGet, path, nil)
	h(c)
	return w
}

func TestSystemHandler_GetSystemInfo(t *testing.T) {
	h := NewSystemHandler("emlak-backend", "1.0.0", stubDatabase{})

	w := serveSystem(h.GetSystemInfo, "/system/info")
	assert.Equal(t, http.StatusOK, w.Code)

	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)

	data := resp.Data.(map[string]any)
	assert.Equal(t, "emlak-backend", data["name"])
	assert.Equal(t, "1.0.0", data["version"])
	assert.NotEmpty(t, data["go_version"])
	assert.NotEmpty(t, data["uptime"])
}

func TestSystemHandler_Ping(t *testing.T) {
	h := NewSystemHandler("emlak-backend", "1.0.0", stubDatabase{})

	w := serveSystem(h.Ping, "/system/ping")
	assert.Equal(t, http.StatusOK, w.Code)

	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "pong", resp.Data.(map[string]any)["message"])
}

func TestSystemHandler_Health(t *testing.T) {
	t.Run("healthy", func(t *testing.T) {
		h := NewSystemHandler("emlak-backend", "1.0.0", stubDatabase{}).
			WithCheck("redis", func(context.Context) error { return nil })

		w := serveSystem(h.Health, "/health")
		assert.Equal(t, http.StatusOK, w.Code)

		var resp HealthResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "healthy", resp.Status)
		assert.Equal(t, "connected", resp.Database)
		assert.Equal(t, "ok", resp.Dependencies["redis"])
		require.NotNil(t, resp.Pool)
		assert.Equal(t, 25, resp.Pool.MaxOpenConnections)
	})

	t.Run("dependency down degrades", func(t *testing.T) {
		h := NewSystemHandler("emlak-backend", "1.0.0", stubDatabase{}).
			WithCheck("redis", func(context.Context) error { return errors.New("connection refused") })

		w := serveSystem(h.Health, "/health")
		assert.Equal(t, http.StatusOK, w.Code)

		var resp HealthResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "degraded", resp.Status)
		assert.Equal(t, "unavailable", resp.Dependencies["redis"])
	})

	t.Run("database down", func(t *testing.T) {
		h := NewSystemHandler("emlak-backend", "1.0.0", stubDatabase{pingErr: errors.New("timeout")})

		w := serveSystem(h.Health, "/health")
		assert.Equal(t, http.StatusServiceUnavailable, w.Code)

		var resp HealthResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "unhealthy", resp.Status)
		assert.Equal(t, "disconnected", resp.Database)
		assert.Nil(t, resp.Pool)
	})
}
