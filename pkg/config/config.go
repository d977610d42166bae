package config

import (
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Token store backends
const (
	TokenStoreFile   = "file"
	TokenStoreRedis  = "redis"
	TokenStoreMemory = "memory"
)

// Config holds all client configuration
type Config struct {
	App         AppConfig         `mapstructure:"app"`
	API         APIConfig         `mapstructure:"api"`
	TokenStore  TokenStoreConfig  `mapstructure:"token_store"`
	Redis       RedisConfig       `mapstructure:"redis"`
	OTel        OTelConfig        `mapstructure:"otel"`
	MockBackend MockBackendConfig `mapstructure:"mock_backend"`
}

// AppConfig holds application-level settings
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Environment string `mapstructure:"environment"` // development, staging, production
	Version     string `mapstructure:"version"`
	LogLevel    string `mapstructure:"log_level"`
}

// APIConfig holds settings for the backend REST API
type APIConfig struct {
	BaseURL       string        `mapstructure:"base_url"`
	Timeout       time.Duration `mapstructure:"timeout"`
	RetryMax      int           `mapstructure:"retry_max"` // GET requests only, network failures only
	RetryInterval time.Duration `mapstructure:"retry_interval"`
}

// TokenStoreConfig selects where the session token is persisted
type TokenStoreConfig struct {
	Backend       string `mapstructure:"backend"` // file, redis, memory
	File          string `mapstructure:"file"`
	EncryptionKey string `mapstructure:"encryption_key"` // hex, 32 bytes; empty = plaintext
}

// Key decodes the configured encryption key. A nil key means no encryption.
func (t *TokenStoreConfig) Key() (*[32]byte, error) {
	if t.EncryptionKey == "" {
		return nil, nil
	}
	raw, err := hex.DecodeString(t.EncryptionKey)
	if err != nil {
		return nil, fmt.Errorf("decode token encryption key: %w", err)
	}
	if len(raw) != 32 {
		return nil, fmt.Errorf("token encryption key must be 32 bytes, got %d", len(raw))
	}
	var key [32]byte
	copy(key[:], raw)
	return &key, nil
}

// RedisConfig holds Redis connection settings for the redis token store
type RedisConfig struct {
	Host        string        `mapstructure:"host"`
	Port        int           `mapstructure:"port"`
	Password    string        `mapstructure:"password"`
	DB          int           `mapstructure:"db"`
	KeyPrefix   string        `mapstructure:"key_prefix"`
	DialTimeout time.Duration `mapstructure:"dial_timeout"`
}

// Addr returns the Redis address
func (r *RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

// OTelConfig holds OpenTelemetry settings
type OTelConfig struct {
	Enabled       bool   `mapstructure:"enabled"`
	ServiceName   string `mapstructure:"service_name"`
	CollectorAddr string `mapstructure:"collector_addr"`
}

// MockBackendConfig configures cmd/mock-backend
type MockBackendConfig struct {
	Port int    `mapstructure:"port"`
	OTP  string `mapstructure:"otp"`
}

// Load loads configuration from environment variables and .env file
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigFile(".env")
	v.SetConfigType("env")

	// .env is optional, environment variables are enough
	_ = v.ReadInConfig()

	return load(v)
}

// LoadWithPath loads configuration from a specific path
func LoadWithPath(path string) (*Config, error) {
	v := viper.New()

	v.SetConfigFile(path)
	v.SetConfigType("env")

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	return load(v)
}

func load(v *viper.Viper) (*Config, error) {
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	cfg := &Config{}
	bindConfig(v, cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	// App defaults
	v.SetDefault("APP_NAME", "bazaar-client")
	v.SetDefault("APP_ENVIRONMENT", "development")
	v.SetDefault("APP_VERSION", "1.0.0")
	v.SetDefault("LOG_LEVEL", "info")

	// Backend API
	v.SetDefault("API_BASE_URL", "http://localhost:5454")
	v.SetDefault("API_TIMEOUT", "30s")
	v.SetDefault("API_RETRY_MAX", 0)
	v.SetDefault("API_RETRY_INTERVAL", "500ms")

	// Token store
	v.SetDefault("TOKEN_STORE", TokenStoreFile)
	v.SetDefault("TOKEN_FILE", defaultTokenFile())
	v.SetDefault("TOKEN_ENCRYPTION_KEY", "")

	// Redis defaults
	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("REDIS_KEY_PREFIX", "bazaar")
	v.SetDefault("REDIS_DIAL_TIMEOUT", "5s")

	// OTel defaults
	v.SetDefault("OTEL_ENABLED", false)
	v.SetDefault("OTEL_SERVICE_NAME", "bazaar-client")
	v.SetDefault("OTEL_COLLECTOR_ADDR", "localhost:4317")

	// Mock backend
	v.SetDefault("MOCK_BACKEND_PORT", 5454)
	v.SetDefault("MOCK_BACKEND_OTP", "123456")
}

func bindConfig(v *viper.Viper, cfg *Config) {
	// App
	cfg.App.Name = v.GetString("APP_NAME")
	cfg.App.Environment = v.GetString("APP_ENVIRONMENT")
	cfg.App.Version = v.GetString("APP_VERSION")
	cfg.App.LogLevel = v.GetString("LOG_LEVEL")

	// API
	cfg.API.BaseURL = strings.TrimRight(v.GetString("API_BASE_URL"), "/")
	cfg.API.Timeout = v.GetDuration("API_TIMEOUT")
	cfg.API.RetryMax = v.GetInt("API_RETRY_MAX")
	cfg.API.RetryInterval = v.GetDuration("API_RETRY_INTERVAL")

	// Token store
	cfg.TokenStore.Backend = strings.ToLower(v.GetString("TOKEN_STORE"))
	cfg.TokenStore.File = v.GetString("TOKEN_FILE")
	cfg.TokenStore.EncryptionKey = v.GetString("TOKEN_ENCRYPTION_KEY")

	// Redis
	cfg.Redis.Host = v.GetString("REDIS_HOST")
	cfg.Redis.Port = v.GetInt("REDIS_PORT")
	cfg.Redis.Password = v.GetString("REDIS_PASSWORD")
	cfg.Redis.DB = v.GetInt("REDIS_DB")
	cfg.Redis.KeyPrefix = v.GetString("REDIS_KEY_PREFIX")
	cfg.Redis.DialTimeout = v.GetDuration("REDIS_DIAL_TIMEOUT")

	// OTel
	cfg.OTel.Enabled = v.GetBool("OTEL_ENABLED")
	cfg.OTel.ServiceName = v.GetString("OTEL_SERVICE_NAME")
	cfg.OTel.CollectorAddr = v.GetString("OTEL_COLLECTOR_ADDR")

	// Mock backend
	cfg.MockBackend.Port = v.GetInt("MOCK_BACKEND_PORT")
	cfg.MockBackend.OTP = v.GetString("MOCK_BACKEND_OTP")
}

func defaultTokenFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), "bazaar", "session.json")
	}
	return filepath.Join(home, ".bazaar", "session.json")
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.App.Name == "" {
		return fmt.Errorf("app name is required")
	}

	if c.API.BaseURL == "" {
		return fmt.Errorf("API_BASE_URL is required")
	}
	if !strings.HasPrefix(c.API.BaseURL, "http://") && !strings.HasPrefix(c.API.BaseURL, "https://") {
		return fmt.Errorf("API_BASE_URL must start with http:// or https://: %q", c.API.BaseURL)
	}
	if c.API.Timeout < 0 {
		return fmt.Errorf("invalid API timeout: %s", c.API.Timeout)
	}
	if c.API.RetryMax < 0 {
		return fmt.Errorf("invalid API retry max: %d", c.API.RetryMax)
	}

	switch c.TokenStore.Backend {
	case TokenStoreFile:
		if c.TokenStore.File == "" {
			return fmt.Errorf("TOKEN_FILE is required for the file token store")
		}
	case TokenStoreRedis:
		if c.Redis.Port <= 0 || c.Redis.Port > 65535 {
			return fmt.Errorf("invalid redis port: %d", c.Redis.Port)
		}
	case TokenStoreMemory:
	default:
		return fmt.Errorf("unsupported token store: %q", c.TokenStore.Backend)
	}

	if _, err := c.TokenStore.Key(); err != nil {
		return err
	}

	// Plaintext tokens on disk are only tolerated outside production
	if c.IsProduction() && c.TokenStore.Backend == TokenStoreFile && c.TokenStore.EncryptionKey == "" {
		return fmt.Errorf("TOKEN_ENCRYPTION_KEY is required for the file token store in production")
	}

	return nil
}

// IsProduction returns true if running in production environment
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

// IsDevelopment returns true if running in development environment
func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development"
}
