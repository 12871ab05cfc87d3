package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/betahouse/listings/internal/domain"
	"github.com/betahouse/listings/internal/domain/search/sortkey"
)

const (
	bcryptMinCost = 4
	bcryptMaxCost = 31
)

// Config holds the listings API configuration.
type Config struct {
	HTTP      HTTPConfig      `yaml:"http"`
	Database  DatabaseConfig  `yaml:"database"`
	Auth      AuthConfig      `yaml:"auth"`
	Listing   ListingConfig   `yaml:"listing"`
	Storage   StorageConfig   `yaml:"storage"`
	RateLimit RateLimitConfig `yaml:"ratelimit"`
	CORS      CORSConfig      `yaml:"cors"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error (default: determined by env)
}

// AuthConfig holds account token and password hashing settings.
type AuthConfig struct {
	JWTSecret     string `yaml:"jwt_secret"`
	TokenTTLHours int    `yaml:"token_ttl_hours"`
	BcryptCost    int    `yaml:"bcrypt_cost"`
}

// HTTPConfig holds HTTP server settings.
type HTTPConfig struct {
	Port            int  `yaml:"port"`
	ReadTimeoutSec  int  `yaml:"read_timeout_sec"`
	WriteTimeoutSec int  `yaml:"write_timeout_sec"`
	ShutdownSec     int  `yaml:"shutdown_timeout_sec"`
	ExposeErrors    bool `yaml:"expose_errors"` // include internal error text in 500s
}

// DatabaseConfig holds MongoDB connection settings.
type DatabaseConfig struct {
	URI                  string `yaml:"uri"`
	Name                 string `yaml:"name"`
	PropertiesCollection string `yaml:"properties_collection"`
	UsersCollection      string `yaml:"users_collection"`
	ConnectTimeoutSec    int    `yaml:"connect_timeout_sec"`
	ReadinessTimeout     int    `yaml:"readiness_timeout_sec"`
}

// ListingConfig holds the implicit listing defaults.
type ListingConfig struct {
	Currency         string `yaml:"currency"`
	Status           string `yaml:"status"`
	PlaceholderImage string `yaml:"placeholder_image"`
	DefaultSort      string `yaml:"default_sort"`
	DefaultPageSize  int    `yaml:"default_page_size"`
	MaxPageSize      int    `yaml:"max_page_size"`
}

// StorageConfig holds object storage settings for listing images.
// An empty endpoint disables uploads.
type StorageConfig struct {
	Endpoint  string `yaml:"endpoint"`
	AccessKey string `yaml:"access_key"`
	SecretKey string `yaml:"secret_key"`
	Region    string `yaml:"region"`
	UseSSL    bool   `yaml:"use_ssl"`
	Bucket    string `yaml:"bucket"`
	Prefix    string `yaml:"prefix"`
	PublicURL string `yaml:"public_url"`
}

// RateLimitConfig holds per-client request limits.
type RateLimitConfig struct {
	Enabled           *bool    `yaml:"enabled"` // default true
	Driver            string   `yaml:"driver"`  // local, redis (default: local)
	RequestsPerMinute int      `yaml:"requests_per_minute"`
	Burst             int      `yaml:"burst"`
	KeyPrefix         string   `yaml:"key_prefix"`
	Addrs             []string `yaml:"addrs"`
	Password          string   `yaml:"password"`
}

// IsEnabled reports whether rate limiting is on.
func (c RateLimitConfig) IsEnabled() bool {
	return c.Enabled == nil || *c.Enabled
}

// CORSConfig holds cross-origin settings.
type CORSConfig struct {
	AllowedOrigins []string `yaml:"allowed_origins"`
}

// Load reads configuration from a YAML file by environment name (local, dev, docker, prod).
func Load(env string) (Config, error) {
	configPath := findConfigPath(env)

	data, err := os.ReadFile(filepath.Clean(configPath))
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", configPath, err)
	}

	// Substitute env variables of the form ${VAR}
	data = expandEnvVars(data)

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// MustLoad loads configuration or panics.
func MustLoad(env string) Config {
	cfg, err := Load(env)
	if err != nil {
		panic(err)
	}
	return cfg
}

// GetEnv returns the current environment from the ENV variable, defaulting to "local".
func GetEnv() string {
	if env := os.Getenv("ENV"); env != "" {
		return env
	}
	return "local"
}

// ApplyDefaults fills empty fields with default values.
func (c *Config) ApplyDefaults() {
	if c.HTTP.ReadTimeoutSec <= 0 {
		c.HTTP.ReadTimeoutSec = 15
	}
	if c.HTTP.WriteTimeoutSec <= 0 {
		c.HTTP.WriteTimeoutSec = 30
	}
	if c.HTTP.ShutdownSec <= 0 {
		c.HTTP.ShutdownSec = 10
	}
	if c.Database.Name == "" {
		c.Database.Name = "betahouse"
	}
	if c.Database.PropertiesCollection == "" {
		c.Database.PropertiesCollection = "properties"
	}
	if c.Database.UsersCollection == "" {
		c.Database.UsersCollection = "users"
	}
	if c.Database.ConnectTimeoutSec <= 0 {
		c.Database.ConnectTimeoutSec = 10
	}
	if c.Database.ReadinessTimeout <= 0 {
		c.Database.ReadinessTimeout = 10
	}
	if c.Auth.TokenTTLHours <= 0 {
		c.Auth.TokenTTLHours = 7 * 24
	}
	if c.Auth.BcryptCost <= 0 {
		c.Auth.BcryptCost = 12
	}

	d := domain.DefaultListingConfig()
	if c.Listing.Currency == "" {
		c.Listing.Currency = d.Currency
	}
	if c.Listing.Status == "" {
		c.Listing.Status = d.Status
	}
	if c.Listing.PlaceholderImage == "" {
		c.Listing.PlaceholderImage = d.PlaceholderImage
	}
	if c.Listing.DefaultSort == "" {
		c.Listing.DefaultSort = d.DefaultSort
	}
	if c.Listing.DefaultPageSize <= 0 {
		c.Listing.DefaultPageSize = d.DefaultPageSize
	}
	if c.Listing.MaxPageSize <= 0 {
		c.Listing.MaxPageSize = d.MaxPageSize
	}

	if c.Storage.Bucket == "" {
		c.Storage.Bucket = "betahouse"
	}
	if c.Storage.Prefix == "" {
		c.Storage.Prefix = "properties/"
	}

	if c.RateLimit.Driver == "" {
		c.RateLimit.Driver = "local"
	}
	if c.RateLimit.RequestsPerMinute <= 0 {
		c.RateLimit.RequestsPerMinute = 100
	}
	if c.RateLimit.Burst <= 0 {
		c.RateLimit.Burst = c.RateLimit.RequestsPerMinute
	}
	if c.RateLimit.KeyPrefix == "" {
		c.RateLimit.KeyPrefix = "listings:ratelimit"
	}

	if len(c.CORS.AllowedOrigins) == 0 {
		c.CORS.AllowedOrigins = []string{"*"}
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port)
	}
	if c.Database.URI == "" {
		return fmt.Errorf("database.uri is required")
	}
	if c.Auth.JWTSecret == "" {
		return fmt.Errorf("auth.jwt_secret is required")
	}
	if c.Auth.BcryptCost < bcryptMinCost || c.Auth.BcryptCost > bcryptMaxCost {
		return fmt.Errorf("auth.bcrypt_cost must be between %d and %d, got %d",
			bcryptMinCost, bcryptMaxCost, c.Auth.BcryptCost)
	}
	if !sortkey.Key(c.Listing.DefaultSort).IsValid() {
		return fmt.Errorf("listing.default_sort must be newest, price-asc or price-desc, got %q", c.Listing.DefaultSort)
	}
	switch c.Listing.Status {
	case "sale", "rent":
	default:
		return fmt.Errorf("listing.status must be \"sale\" or \"rent\", got %q", c.Listing.Status)
	}
	if c.Listing.DefaultPageSize > c.Listing.MaxPageSize {
		return fmt.Errorf("listing.default_page_size (%d) exceeds listing.max_page_size (%d)",
			c.Listing.DefaultPageSize, c.Listing.MaxPageSize)
	}
	if c.Storage.Endpoint != "" && (c.Storage.AccessKey == "" || c.Storage.SecretKey == "") {
		return fmt.Errorf("storage.access_key and storage.secret_key are required when storage.endpoint is set")
	}
	switch c.RateLimit.Driver {
	case "local":
	case "redis":
		if c.RateLimit.IsEnabled() && len(c.RateLimit.Addrs) == 0 {
			return fmt.Errorf("ratelimit.addrs is required for the redis driver")
		}
	default:
		return fmt.Errorf("ratelimit.driver must be \"local\" or \"redis\", got %q", c.RateLimit.Driver)
	}
	return nil
}

// ListingDefaults converts the listing section into the domain record.
func (c *Config) ListingDefaults() domain.ListingConfig {
	return domain.ListingConfig{
		Currency:         c.Listing.Currency,
		Status:           c.Listing.Status,
		PlaceholderImage: c.Listing.PlaceholderImage,
		DefaultSort:      c.Listing.DefaultSort,
		DefaultPageSize:  c.Listing.DefaultPageSize,
		MaxPageSize:      c.Listing.MaxPageSize,
	}
}

// UsesRedis reports whether a Redis connection is needed.
func (c *Config) UsesRedis() bool {
	return c.RateLimit.IsEnabled() && c.RateLimit.Driver == "redis"
}

// findConfigPath locates the config file.
func findConfigPath(env string) string {
	filename := fmt.Sprintf("%s.yaml", env)

	// 1. Check ./config/
	if path := filepath.Join("config", filename); fileExists(path) {
		return path
	}

	// 2. Check relative to the source file
	_, b, _, _ := runtime.Caller(0)
	projectRoot := filepath.Dir(filepath.Dir(filepath.Dir(b))) // internal/config -> project root
	if path := filepath.Join(projectRoot, "config", filename); fileExists(path) {
		return path
	}

	// 3. Fallback to ./config/
	return filepath.Join("config", filename)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// expandEnvVars replaces ${VAR} and ${VAR:-default} with environment variable values.
var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

func expandEnvVars(data []byte) []byte {
	return envVarRegex.ReplaceAllFunc(data, func(match []byte) []byte {
		expr := string(match[2 : len(match)-1]) // strip ${ and }
		varName, defaultVal, hasDefault := strings.Cut(expr, ":-")
		val := os.Getenv(varName)
		if val == "" && hasDefault {
			val = defaultVal
		}
		return []byte(val)
	})
}
