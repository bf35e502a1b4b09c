// Package config provides configuration management for the Fieldworks API server.
// Configuration can be loaded from YAML files and environment variables.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Environment names.
const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

// Config represents the complete application configuration.
type Config struct {
	Environment string          `mapstructure:"environment"`
	Server      ServerConfig    `mapstructure:"server"`
	Mongo       MongoConfig     `mapstructure:"mongo"`
	Redis       RedisConfig     `mapstructure:"redis"`
	Auth        AuthConfig      `mapstructure:"auth"`
	Weather     WeatherConfig   `mapstructure:"weather"`
	Uploads     UploadsConfig   `mapstructure:"uploads"`
	Logging     LoggingConfig   `mapstructure:"logging"`
	Metrics     MetricsConfig   `mapstructure:"metrics"`
	RateLimit   RateLimitConfig `mapstructure:"rate_limit"`
}

// IsProduction reports whether the server runs in production mode.
// Error responses include stack traces only outside production.
func (c *Config) IsProduction() bool {
	return c.Environment == EnvProduction
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	IdleTimeout     time.Duration `mapstructure:"idle_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	MaxBodySize     int64         `mapstructure:"max_body_size"`
}

// Addr returns the listen address in host:port format.
func (c ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// MongoConfig holds MongoDB connection settings.
type MongoConfig struct {
	// URI is the MongoDB connection string.
	URI string `mapstructure:"uri"`

	// Database is the database name all collections live in.
	Database string `mapstructure:"database"`

	ConnectTimeout time.Duration `mapstructure:"connect_timeout"`
	MaxPoolSize    uint64        `mapstructure:"max_pool_size"`
}

// RedisConfig holds Redis connection settings.
// Redis is only used by the rate limiter; the server runs without it
// when disabled.
type RedisConfig struct {
	Host        string        `mapstructure:"host"`
	Port        int           `mapstructure:"port"`
	Password    string        `mapstructure:"password"`
	DB          int           `mapstructure:"db"`
	DialTimeout time.Duration `mapstructure:"dial_timeout"`
	Enabled     bool          `mapstructure:"enabled"`
}

// Addr returns the Redis address in host:port format.
func (c RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// AuthConfig holds authentication settings.
type AuthConfig struct {
	// JWTSecret is the HMAC key used to sign access tokens.
	JWTSecret string `mapstructure:"jwt_secret"`

	// TokenTTL is how long issued tokens remain valid.
	TokenTTL time.Duration `mapstructure:"token_ttl"`
}

// WeatherConfig holds settings for the upstream weather provider.
type WeatherConfig struct {
	// BaseURL is the provider API root, e.g. https://api.openweathermap.org/data/2.5.
	BaseURL string `mapstructure:"base_url"`

	// APIKey is the provider API key.
	APIKey string `mapstructure:"api_key"`

	// CountryCode is appended to every city query (e.g. "KE").
	CountryCode string `mapstructure:"country_code"`

	// ForecastCount is the number of forecast entries requested upstream.
	ForecastCount int `mapstructure:"forecast_count"`

	// Timeout bounds each upstream HTTP call.
	Timeout time.Duration `mapstructure:"timeout"`
}

// UploadsConfig holds photo upload settings.
type UploadsConfig struct {
	// Backend selects the storage backend: "filesystem" or "s3".
	Backend string `mapstructure:"backend"`

	// Dir is the local directory for the filesystem backend.
	Dir string `mapstructure:"dir"`

	// MaxFileSize is the maximum accepted upload size in bytes.
	MaxFileSize int64 `mapstructure:"max_file_size"`

	S3 S3UploadsConfig `mapstructure:"s3"`
}

// S3UploadsConfig holds S3 backend settings.
type S3UploadsConfig struct {
	Endpoint        string `mapstructure:"endpoint"`
	Region          string `mapstructure:"region"`
	Bucket          string `mapstructure:"bucket"`
	AccessKeyID     string `mapstructure:"access_key_id"`
	SecretAccessKey string `mapstructure:"secret_access_key"`
	UsePathStyle    bool   `mapstructure:"use_path_style"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// MetricsConfig holds Prometheus metrics settings.
type MetricsConfig struct {
	// Enabled determines if metrics collection is active.
	Enabled bool `mapstructure:"enabled"`

	// Path is the URL path for the metrics endpoint.
	Path string `mapstructure:"path"`
}

// RateLimitConfig holds rate limiting settings.
type RateLimitConfig struct {
	// Enabled determines if rate limiting is active.
	Enabled bool `mapstructure:"enabled"`

	// RequestsPerWindow is the number of requests allowed per client per window.
	RequestsPerWindow int `mapstructure:"requests_per_window"`

	// Window is the fixed window size.
	Window time.Duration `mapstructure:"window"`
}

// Load reads configuration from the specified file and environment variables.
// Environment variables take precedence over file values.
// Environment variables are prefixed with FIELDWORKS_ and use _ as separator.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetEnvPrefix("FIELDWORKS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
		v.AddConfigPath("/etc/fieldworks")
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found is acceptable - use defaults and env vars
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// setDefaults sets default configuration values.
func setDefaults(v *viper.Viper) {
	v.SetDefault("environment", EnvDevelopment)

	// Server defaults
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 5000)
	v.SetDefault("server.read_timeout", 15*time.Second)
	v.SetDefault("server.write_timeout", 30*time.Second)
	v.SetDefault("server.idle_timeout", 120*time.Second)
	v.SetDefault("server.shutdown_timeout", 30*time.Second)
	v.SetDefault("server.max_body_size", 10*1024*1024) // 10MB

	// Mongo defaults
	v.SetDefault("mongo.uri", "mongodb://localhost:27017")
	v.SetDefault("mongo.database", "fieldworks")
	v.SetDefault("mongo.connect_timeout", 10*time.Second)
	v.SetDefault("mongo.max_pool_size", 100)

	// Redis defaults
	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.dial_timeout", 5*time.Second)
	v.SetDefault("redis.enabled", false)

	// Auth defaults
	v.SetDefault("auth.jwt_secret", "") // Must be provided
	v.SetDefault("auth.token_ttl", 30*24*time.Hour)

	// Weather defaults
	v.SetDefault("weather.base_url", "https://api.openweathermap.org/data/2.5")
	v.SetDefault("weather.api_key", "")
	v.SetDefault("weather.country_code", "KE")
	v.SetDefault("weather.forecast_count", 5)
	v.SetDefault("weather.timeout", 10*time.Second)

	// Uploads defaults
	v.SetDefault("uploads.backend", "filesystem")
	v.SetDefault("uploads.dir", "./uploads")
	v.SetDefault("uploads.max_file_size", 1024*1024) // 1MB
	v.SetDefault("uploads.s3.region", "us-east-1")
	v.SetDefault("uploads.s3.use_path_style", true)

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")

	// Metrics defaults
	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.path", "/metrics")

	// Rate limiting defaults
	v.SetDefault("rate_limit.enabled", false)
	v.SetDefault("rate_limit.requests_per_window", 100)
	v.SetDefault("rate_limit.window", time.Minute)
}

// Validate checks the configuration for required values and valid ranges.
func (c *Config) Validate() error {
	if c.Environment != EnvDevelopment && c.Environment != EnvProduction {
		return fmt.Errorf("environment must be %q or %q", EnvDevelopment, EnvProduction)
	}

	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 1 and 65535")
	}

	if c.Mongo.URI == "" {
		return fmt.Errorf("mongo.uri is required")
	}
	if c.Mongo.Database == "" {
		return fmt.Errorf("mongo.database is required")
	}

	if c.Auth.JWTSecret == "" {
		return fmt.Errorf("auth.jwt_secret is required")
	}
	if c.Auth.TokenTTL <= 0 {
		return fmt.Errorf("auth.token_ttl must be positive")
	}

	validBackends := map[string]bool{"filesystem": true, "s3": true}
	if !validBackends[c.Uploads.Backend] {
		return fmt.Errorf("uploads.backend must be 'filesystem' or 's3'")
	}
	if c.Uploads.Backend == "filesystem" && c.Uploads.Dir == "" {
		return fmt.Errorf("uploads.dir is required for filesystem backend")
	}
	if c.Uploads.Backend == "s3" && c.Uploads.S3.Bucket == "" {
		return fmt.Errorf("uploads.s3.bucket is required for s3 backend")
	}

	validLevels := map[string]bool{
		"trace": true, "debug": true, "info": true,
		"warn": true, "error": true, "fatal": true, "panic": true,
	}
	if !validLevels[strings.ToLower(c.Logging.Level)] {
		return fmt.Errorf("logging.level must be one of: trace, debug, info, warn, error, fatal, panic")
	}

	if c.RateLimit.Enabled {
		if c.RateLimit.RequestsPerWindow < 1 {
			return fmt.Errorf("rate_limit.requests_per_window must be at least 1")
		}
		if c.RateLimit.Window <= 0 {
			return fmt.Errorf("rate_limit.window must be positive")
		}
	}

	return nil
}

// MustLoad loads configuration or panics on error.
// Useful for main function initialization.
func MustLoad(configPath string) *Config {
	cfg, err := Load(configPath)
	if err != nil {
		panic(fmt.Sprintf("failed to load configuration: %v", err))
	}
	return cfg
}
