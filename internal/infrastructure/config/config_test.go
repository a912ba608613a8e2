package config

import (
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// managedEnv lists every variable the tests touch; each subtest starts from a clean slate.
var managedEnv = []string{
	"EMLAK_APP_NAME",
	"EMLAK_APP_ENV",
	"EMLAK_APP_PORT",
	"EMLAK_APP_DEFAULT_TENANT_ID",
	"EMLAK_DATABASE_HOST",
	"EMLAK_DATABASE_PORT",
	"EMLAK_DATABASE_USER",
	"EMLAK_DATABASE_PASSWORD",
	"EMLAK_DATABASE_DBNAME",
	"EMLAK_DATABASE_SSLMODE",
	"EMLAK_DATABASE_MAX_OPEN_CONNS",
	"EMLAK_DATABASE_MAX_IDLE_CONNS",
	"EMLAK_JWT_SECRET",
	"EMLAK_JWT_MAX_LOGIN_ATTEMPTS",
	"EMLAK_JWT_LOCK_DURATION",
	"EMLAK_MAIL_ENABLED",
	"EMLAK_MAIL_HOST",
	"EMLAK_MAIL_FROM",
	"EMLAK_RABBITMQ_EXCHANGE",
	"EMLAK_STORAGE_BUCKET",
	"EMLAK_SWAGGER_ENABLED",
	"EMLAK_SWAGGER_REQUIRE_AUTH",
	"EMLAK_SWAGGER_ALLOWED_IPS",
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range managedEnv {
		// t.Setenv registers the restore, Unsetenv then removes the value for this test
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
}

func TestLoad(t *testing.T) {
	t.Run("loads default values when env vars not set", func(t *testing.T) {
		clearEnv(t)

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "emlak-backend", cfg.App.Name)
		assert.Equal(t, "development", cfg.App.Env)
		assert.Equal(t, "8080", cfg.App.Port)
		assert.Equal(t, "localhost", cfg.Database.Host)
		assert.Equal(t, 5432, cfg.Database.Port)
		assert.Equal(t, "postgres", cfg.Database.User)
		assert.Equal(t, "", cfg.Database.Password)
		assert.Equal(t, "emlak", cfg.Database.DBName)
		assert.Equal(t, "disable", cfg.Database.SSLMode)
		assert.Equal(t, 25, cfg.Database.MaxOpenConns)
		assert.Equal(t, 5, cfg.Database.MaxIdleConns)
		assert.Equal(t, 5, cfg.JWT.MaxLoginAttempts)
		assert.Equal(t, 15*time.Minute, cfg.JWT.LockDuration)
		assert.Equal(t, "emlak.events", cfg.RabbitMQ.Exchange)
		assert.Equal(t, 587, cfg.Mail.Port)
		assert.Equal(t, 30*time.Second, cfg.Brochure.Timeout)
		assert.Equal(t, int64(10<<20), cfg.Storage.MaxImageSize)
		assert.NotEqual(t, uuid.Nil, cfg.App.DefaultTenant())
	})

	t.Run("loads values from environment variables with EMLAK prefix", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("EMLAK_APP_NAME", "test-app")
		t.Setenv("EMLAK_APP_ENV", "testing")
		t.Setenv("EMLAK_APP_PORT", "9000")
		t.Setenv("EMLAK_DATABASE_HOST", "testdb.local")
		t.Setenv("EMLAK_DATABASE_PORT", "5433")
		t.Setenv("EMLAK_DATABASE_USER", "testuser")
		t.Setenv("EMLAK_DATABASE_PASSWORD", "testpass")
		t.Setenv("EMLAK_DATABASE_DBNAME", "testdb")
		t.Setenv("EMLAK_DATABASE_SSLMODE", "require")
		t.Setenv("EMLAK_DATABASE_MAX_OPEN_CONNS", "50")
		t.Setenv("EMLAK_DATABASE_MAX_IDLE_CONNS", "10")
		t.Setenv("EMLAK_JWT_MAX_LOGIN_ATTEMPTS", "3")
		t.Setenv("EMLAK_JWT_LOCK_DURATION", "1h")
		t.Setenv("EMLAK_RABBITMQ_EXCHANGE", "portal.events")
		t.Setenv("EMLAK_STORAGE_BUCKET", "photos")

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "test-app", cfg.App.Name)
		assert.Equal(t, "testing", cfg.App.Env)
		assert.Equal(t, "9000", cfg.App.Port)
		assert.Equal(t, "testdb.local", cfg.Database.Host)
		assert.Equal(t, 5433, cfg.Database.Port)
		assert.Equal(t, "testuser", cfg.Database.User)
		assert.Equal(t, "testpass", cfg.Database.Password)
		assert.Equal(t, "testdb", cfg.Database.DBName)
		assert.Equal(t, "require", cfg.Database.SSLMode)
		assert.Equal(t, 50, cfg.Database.MaxOpenConns)
		assert.Equal(t, 10, cfg.Database.MaxIdleConns)
		assert.Equal(t, 3, cfg.JWT.MaxLoginAttempts)
		assert.Equal(t, time.Hour, cfg.JWT.LockDuration)
		assert.Equal(t, "portal.events", cfg.RabbitMQ.Exchange)
		assert.Equal(t, "photos", cfg.Storage.Bucket)
	})

	t.Run("validates MaxIdleConns cannot exceed MaxOpenConns", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("EMLAK_DATABASE_MAX_OPEN_CONNS", "10")
		t.Setenv("EMLAK_DATABASE_MAX_IDLE_CONNS", "20")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "max_idle_conns")
		assert.Contains(t, err.Error(), "cannot exceed")
	})

	t.Run("zero MaxOpenConns uses default", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("EMLAK_DATABASE_MAX_OPEN_CONNS", "0")

		cfg, err := Load()
		require.NoError(t, err)
		// 0 is treated as "not set", so default (25) is used
		assert.Equal(t, 25, cfg.Database.MaxOpenConns)
	})

	t.Run("validates MaxIdleConns cannot be negative", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("EMLAK_DATABASE_MAX_IDLE_CONNS", "-1")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "max_idle_conns cannot be negative")
	})

	t.Run("rejects a malformed default tenant", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("EMLAK_APP_DEFAULT_TENANT_ID", "not-a-uuid")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "app.default_tenant_id")
	})

	t.Run("mail requires host and sender when enabled", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("EMLAK_MAIL_ENABLED", "true")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "mail.host")

		t.Setenv("EMLAK_MAIL_HOST", "smtp.example.com")
		t.Setenv("EMLAK_MAIL_FROM", "noreply@example.com")
		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, "smtp.example.com:587", cfg.Mail.Addr())
	})
}

func TestLoad_ProductionValidation(t *testing.T) {
	setValidProductionBase := func(t *testing.T) {
		clearEnv(t)
		t.Setenv("EMLAK_APP_ENV", "production")
		t.Setenv("EMLAK_JWT_SECRET", "this-is-a-very-secure-jwt-secret-key-32chars")
		t.Setenv("EMLAK_DATABASE_PASSWORD", "secure-password")
		t.Setenv("EMLAK_DATABASE_SSLMODE", "require")
		t.Setenv("EMLAK_SWAGGER_ENABLED", "false")
	}

	t.Run("requires jwt.secret in production", func(t *testing.T) {
		setValidProductionBase(t)
		os.Unsetenv("EMLAK_JWT_SECRET")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "jwt.secret is required in production")
	})

	t.Run("requires jwt.secret at least 32 characters in production", func(t *testing.T) {
		setValidProductionBase(t)
		t.Setenv("EMLAK_JWT_SECRET", "short-secret")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "jwt.secret must be at least 32 characters")
	})

	t.Run("requires database.password in production", func(t *testing.T) {
		setValidProductionBase(t)
		os.Unsetenv("EMLAK_DATABASE_PASSWORD")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "database.password is required in production")
	})

	t.Run("requires SSL enabled in production", func(t *testing.T) {
		setValidProductionBase(t)
		t.Setenv("EMLAK_DATABASE_SSLMODE", "disable")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "database.sslmode cannot be 'disable' in production")
	})

	t.Run("passes validation with valid production config", func(t *testing.T) {
		setValidProductionBase(t)

		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, "production", cfg.App.Env)
	})

	t.Run("fails if swagger enabled without protection in production", func(t *testing.T) {
		setValidProductionBase(t)
		t.Setenv("EMLAK_SWAGGER_ENABLED", "true")
		t.Setenv("EMLAK_SWAGGER_REQUIRE_AUTH", "false")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "swagger endpoint must be disabled, require authentication, or have IP restriction")
	})

	t.Run("passes with swagger enabled and require_auth in production", func(t *testing.T) {
		setValidProductionBase(t)
		t.Setenv("EMLAK_SWAGGER_ENABLED", "true")
		t.Setenv("EMLAK_SWAGGER_REQUIRE_AUTH", "true")

		cfg, err := Load()
		require.NoError(t, err)
		assert.True(t, cfg.Swagger.Enabled)
		assert.True(t, cfg.Swagger.RequireAuth)
	})
}

func TestDatabaseConfig_DSN(t *testing.T) {
	t.Run("generates valid DSN", func(t *testing.T) {
		cfg := DatabaseConfig{
			Host:     "localhost",
			Port:     5432,
			User:     "testuser",
			Password: "testpass",
			DBName:   "testdb",
			SSLMode:  "disable",
		}

		dsn := cfg.DSN()
		assert.Contains(t, dsn, "localhost:5432")
		assert.Contains(t, dsn, "testuser")
		assert.Contains(t, dsn, "/testdb")
		assert.Contains(t, dsn, "sslmode=disable")
	})

	t.Run("escapes special characters in password", func(t *testing.T) {
		cfg := DatabaseConfig{
			Host:     "localhost",
			Port:     5432,
			User:     "user",
			Password: "pass@word#123",
			DBName:   "db",
			SSLMode:  "disable",
		}

		assert.Contains(t, cfg.DSN(), "pass%40word%23123")
	})
}
