package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the application
type Config struct {
	Environment Environment `yaml:"-"`

	// Server configuration
	ServerHost         string        `yaml:"server_host"`
	ServerPort         string        `yaml:"server_port"`
	ReadTimeout        time.Duration `yaml:"read_timeout"`
	WriteTimeout       time.Duration `yaml:"write_timeout"`
	ShutdownTimeout    time.Duration `yaml:"shutdown_timeout"`
	CORSAllowedOrigins []string      `yaml:"cors_allowed_origins"`

	// Database configuration
	DBDriver   string `yaml:"db_driver"` // postgres or sqlite
	DBHost     string `yaml:"db_host"`
	DBPort     string `yaml:"db_port"`
	DBUser     string `yaml:"db_user"`
	DBPassword string `yaml:"db_password"`
	DBName     string `yaml:"db_name"`
	DBSSLMode  string `yaml:"db_ssl_mode"`
	SQLitePath string `yaml:"sqlite_path"`

	// Redis configuration, optional. Without it the cache is off and rate
	// limiting is per process.
	RedisHost     string        `yaml:"redis_host"`
	RedisPort     string        `yaml:"redis_port"`
	RedisPassword string        `yaml:"redis_password"`
	RedisDB       int           `yaml:"redis_db"`
	RedisURL      string        `yaml:"redis_url"`
	CacheTTL      time.Duration `yaml:"cache_ttl"`

	// Write rate limit per client IP; 0 requests disables it
	RateLimitRequests int           `yaml:"rate_limit_requests"`
	RateLimitWindow   time.Duration `yaml:"rate_limit_window"`

	DefaultPageSize int `yaml:"default_page_size"`
	MaxPageSize     int `yaml:"max_page_size"`

	LogLevel string `yaml:"log_level"`

	// Snapshot export
	S3Bucket string `yaml:"s3_bucket"`
	S3Region string `yaml:"s3_region"`
	S3Prefix string `yaml:"s3_prefix"`
}

// Default returns the configuration used when nothing overrides it.
func Default() *Config {
	return &Config{
		ServerHost:         "0.0.0.0",
		ServerPort:         "8080",
		ReadTimeout:        10 * time.Second,
		WriteTimeout:       10 * time.Second,
		ShutdownTimeout:    10 * time.Second,
		CORSAllowedOrigins: []string{"*"},
		DBDriver:           "postgres",
		DBHost:             "localhost",
		DBPort:             "5432",
		DBName:             "recipebox",
		DBSSLMode:          "disable",
		SQLitePath:         "recipebox.db",
		CacheTTL:           5 * time.Minute,
		RateLimitRequests:  60,
		RateLimitWindow:    time.Minute,
		DefaultPageSize:    10,
		MaxPageSize:        100,
		LogLevel:           "info",
		S3Prefix:           "exports/",
	}
}

// LoadConfig builds the configuration from defaults, an optional YAML file,
// environment variables and Docker secrets, in that order of precedence.
func LoadConfig() (*Config, error) {
	env := GetEnvironment()
	cfg := Default()
	cfg.Environment = env

	if err := loadFile(cfg, env); err != nil {
		return nil, err
	}
	loadEnvVars(cfg)

	switch env {
	case CI:
		// CI has no secrets directory; passwords come from the runner
		if v := os.Getenv("TEST_DB_PASSWORD"); v != "" {
			cfg.DBPassword = v
		}
		if v := os.Getenv("TEST_REDIS_PASSWORD"); v != "" {
			cfg.RedisPassword = v
		}
		if v := os.Getenv("TEST_REDIS_URL"); v != "" {
			cfg.RedisURL = v
		}
	default:
		loadSecrets(cfg)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

// loadFile applies CONFIG_FILE, or config/<env>.yaml when it exists.
func loadFile(cfg *Config, env Environment) error {
	path, explicit := os.LookupEnv("CONFIG_FILE")
	if !explicit || path == "" {
		path, explicit = env.configFile(), false
	}

	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to read config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(expandEnvVars(data), cfg); err != nil {
		return fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return nil
}

var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

// expandEnvVars replaces ${VAR} and ${VAR:-default} with environment variable values.
func expandEnvVars(data []byte) []byte {
	return envVarRegex.ReplaceAllFunc(data, func(match []byte) []byte {
		expr := string(match[2 : len(match)-1])
		name, def, hasDefault := strings.Cut(expr, ":-")
		val := os.Getenv(name)
		if val == "" && hasDefault {
			val = def
		}
		return []byte(val)
	})
}

func loadEnvVars(cfg *Config) {
	setString(&cfg.ServerHost, "SERVER_HOST")
	setString(&cfg.ServerPort, "SERVER_PORT")
	setDuration(&cfg.ReadTimeout, "SERVER_READ_TIMEOUT")
	setDuration(&cfg.WriteTimeout, "SERVER_WRITE_TIMEOUT")
	setDuration(&cfg.ShutdownTimeout, "SERVER_SHUTDOWN_TIMEOUT")
	if v := os.Getenv("CORS_ALLOWED_ORIGINS"); v != "" {
		cfg.CORSAllowedOrigins = splitList(v)
	}

	setString(&cfg.DBDriver, "DB_DRIVER")
	setString(&cfg.DBHost, "DB_HOST")
	setString(&cfg.DBPort, "DB_PORT")
	setString(&cfg.DBUser, "DB_USER")
	setString(&cfg.DBPassword, "DB_PASSWORD")
	setString(&cfg.DBName, "DB_NAME")
	setString(&cfg.DBSSLMode, "DB_SSL_MODE")
	setString(&cfg.SQLitePath, "SQLITE_PATH")

	setString(&cfg.RedisHost, "REDIS_HOST")
	setString(&cfg.RedisPort, "REDIS_PORT")
	setString(&cfg.RedisPassword, "REDIS_PASSWORD")
	setInt(&cfg.RedisDB, "REDIS_DB")
	setString(&cfg.RedisURL, "REDIS_URL")
	setDuration(&cfg.CacheTTL, "CACHE_TTL")

	setInt(&cfg.RateLimitRequests, "RATE_LIMIT_REQUESTS")
	setDuration(&cfg.RateLimitWindow, "RATE_LIMIT_WINDOW")
	setInt(&cfg.DefaultPageSize, "DEFAULT_PAGE_SIZE")
	setInt(&cfg.MaxPageSize, "MAX_PAGE_SIZE")
	setString(&cfg.LogLevel, "LOG_LEVEL")

	setString(&cfg.S3Bucket, "S3_BUCKET_NAME")
	setString(&cfg.S3Region, "AWS_REGION")
	setString(&cfg.S3Prefix, "S3_PREFIX")
}

// loadSecrets overrides credentials with Docker secrets when they are mounted
func loadSecrets(cfg *Config) {
	for name, dst := range map[string]*string{
		"db_user":        &cfg.DBUser,
		"db_password":    &cfg.DBPassword,
		"redis_password": &cfg.RedisPassword,
		"redis_url":      &cfg.RedisURL,
	} {
		if v := readSecret(name); v != "" {
			*dst = v
		}
	}
}

// readSecret reads a Docker secret from the secrets directory
func readSecret(name string) string {
	secretsDir := os.Getenv("SECRETS_DIR")
	if secretsDir == "" {
		secretsDir = "/run/secrets"
	}
	if data, err := os.ReadFile(filepath.Join(secretsDir, name)); err == nil {
		return strings.TrimSpace(string(data))
	}
	return ""
}

// Unparseable numbers and durations keep the current value.
func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func setDuration(dst *time.Duration, key string) {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			*dst = d
		}
	}
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// Addr is the listen address of the HTTP server.
func (c *Config) Addr() string {
	return c.ServerHost + ":" + c.ServerPort
}

// RedisEnabled reports whether a Redis server is configured.
func (c *Config) RedisEnabled() bool {
	return c.RedisURL != "" || c.RedisHost != ""
}
