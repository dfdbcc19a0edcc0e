package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolate clears the variables LoadConfig reads so host settings don't leak in.
func isolate(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"CI", "CONFIG_FILE", "SERVER_HOST", "SERVER_PORT", "DB_DRIVER", "DB_HOST", "DB_PORT",
		"DB_USER", "DB_PASSWORD", "DB_NAME", "DB_SSL_MODE", "SQLITE_PATH", "REDIS_HOST",
		"REDIS_PORT", "REDIS_PASSWORD", "REDIS_DB", "REDIS_URL", "CACHE_TTL",
		"RATE_LIMIT_REQUESTS", "RATE_LIMIT_WINDOW", "DEFAULT_PAGE_SIZE", "MAX_PAGE_SIZE",
		"LOG_LEVEL", "CORS_ALLOWED_ORIGINS", "S3_BUCKET_NAME", "AWS_REGION", "S3_PREFIX",
		"TEST_DB_PASSWORD", "TEST_REDIS_PASSWORD", "TEST_REDIS_URL",
	} {
		t.Setenv(key, "")
	}
	t.Setenv("ENV", "test")
	t.Setenv("SECRETS_DIR", t.TempDir())
}

func writeSecret(t *testing.T, name, value string) {
	t.Helper()
	path := filepath.Join(os.Getenv("SECRETS_DIR"), name)
	require.NoError(t, os.WriteFile(path, []byte(value+"\n"), 0o600))
}

func TestLoadConfigDefaults(t *testing.T) {
	isolate(t)
	t.Setenv("DB_USER", "postgres")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, Test, cfg.Environment)
	assert.Equal(t, "0.0.0.0:8080", cfg.Addr())
	assert.Equal(t, "postgres", cfg.DBDriver)
	assert.Equal(t, "localhost", cfg.DBHost)
	assert.Equal(t, 10, cfg.DefaultPageSize)
	assert.Equal(t, 100, cfg.MaxPageSize)
	assert.False(t, cfg.RedisEnabled())
}

func TestLoadConfigEnvVars(t *testing.T) {
	isolate(t)
	t.Setenv("DB_HOST", "db.internal")
	t.Setenv("DB_USER", "postgres")
	t.Setenv("DB_PASSWORD", "postgres")
	t.Setenv("DB_NAME", "recipes")
	t.Setenv("REDIS_URL", "redis://localhost:6379")
	t.Setenv("CACHE_TTL", "30s")
	t.Setenv("RATE_LIMIT_REQUESTS", "5")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "db.internal", cfg.DBHost)
	assert.Equal(t, "postgres", cfg.DBPassword)
	assert.Equal(t, "recipes", cfg.DBName)
	assert.True(t, cfg.RedisEnabled())
	assert.Equal(t, 30*time.Second, cfg.CacheTTL)
	assert.Equal(t, 5, cfg.RateLimitRequests)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSAllowedOrigins)
}

func TestLoadConfigSecretsOverrideEnv(t *testing.T) {
	isolate(t)
	t.Setenv("DB_USER", "from-env")
	t.Setenv("DB_PASSWORD", "from-env")
	writeSecret(t, "db_password", "from-secret")
	writeSecret(t, "redis_url", "redis://cache:6379/1")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "from-env", cfg.DBUser)
	assert.Equal(t, "from-secret", cfg.DBPassword)
	assert.Equal(t, "redis://cache:6379/1", cfg.RedisURL)
}

func TestLoadConfigYAMLFile(t *testing.T) {
	isolate(t)
	t.Setenv("RECIPEBOX_DB", "/tmp/recipes.db")

	path := filepath.Join(t.TempDir(), "recipebox.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server_port: "9090"
db_driver: sqlite
sqlite_path: ${RECIPEBOX_DB}
log_level: ${LOG_LEVEL:-debug}
rate_limit_window: 30s
max_page_size: 50
default_page_size: 20
`), 0o600))
	t.Setenv("CONFIG_FILE", path)

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.ServerPort)
	assert.Equal(t, "sqlite", cfg.DBDriver)
	assert.Equal(t, "/tmp/recipes.db", cfg.SQLitePath)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, 30*time.Second, cfg.RateLimitWindow)
	assert.Equal(t, 50, cfg.MaxPageSize)
	assert.Equal(t, 20, cfg.DefaultPageSize)
}

func TestLoadConfigMissingExplicitFile(t *testing.T) {
	isolate(t)
	t.Setenv("CONFIG_FILE", filepath.Join(t.TempDir(), "missing.yaml"))

	_, err := LoadConfig()
	assert.Error(t, err)
}

func TestLoadConfigCIRequiresPassword(t *testing.T) {
	isolate(t)
	t.Setenv("CI", "true")
	t.Setenv("DB_USER", "postgres")

	_, err := LoadConfig()
	require.Error(t, err)

	t.Setenv("TEST_DB_PASSWORD", "ci-pass")
	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, CI, cfg.Environment)
	assert.Equal(t, "ci-pass", cfg.DBPassword)
}

func TestValidate(t *testing.T) {
	testCases := []struct {
		name   string
		mutate func(c *Config)
		field  string
	}{
		{name: "BadPort", mutate: func(c *Config) { c.ServerPort = "http" }, field: "server_port"},
		{name: "UnknownDriver", mutate: func(c *Config) { c.DBDriver = "mysql" }, field: "db_driver"},
		{name: "PostgresWithoutUser", mutate: func(c *Config) { c.DBUser = "" }, field: "db_user"},
		{name: "SQLiteWithoutPath", mutate: func(c *Config) { c.DBDriver = "sqlite"; c.SQLitePath = "" }, field: "sqlite_path"},
		{name: "DefaultAboveMax", mutate: func(c *Config) { c.DefaultPageSize = 200 }, field: "default_page_size"},
		{name: "NoWindow", mutate: func(c *Config) { c.RateLimitWindow = 0 }, field: "rate_limit_window"},
		{name: "CacheWithoutTTL", mutate: func(c *Config) { c.RedisHost = "localhost"; c.CacheTTL = 0 }, field: "cache_ttl"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			cfg.DBUser = "postgres"
			require.NoError(t, cfg.Validate())

			tc.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)

			var verr *ValidationError
			require.True(t, errors.As(err, &verr))
			assert.Equal(t, tc.field, verr.Field)
		})
	}
}

func TestGetEnvironment(t *testing.T) {
	t.Setenv("CI", "")
	t.Setenv("ENV", "production")
	assert.Equal(t, Production, GetEnvironment())
	assert.True(t, GetEnvironment().IsProduction())

	t.Setenv("ENV", "staging")
	assert.Equal(t, Development, GetEnvironment())
	assert.False(t, GetEnvironment().IsProduction())

	t.Setenv("CI", "true")
	assert.Equal(t, CI, GetEnvironment())
}
