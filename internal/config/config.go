package config

import (
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config structure represents the application configuration
type Config struct {
	Server struct {
		Port string `yaml:"port" env:"SERVER_PORT"`
		Mode string `yaml:"mode" env:"SERVER_MODE"`
	} `yaml:"server"`

	Backend struct {
		BaseURL      string `yaml:"base_url" env:"BACKEND_BASE_URL"`
		Timeout      string `yaml:"timeout" env:"BACKEND_TIMEOUT"`
		ServiceToken string `yaml:"service_token" env:"BACKEND_SERVICE_TOKEN"`
	} `yaml:"backend"`

	JWT struct {
		Secret   string `yaml:"secret" env:"JWT_SECRET"`
		Issuer   string `yaml:"issuer" env:"JWT_ISSUER"`
		CheckTTL string `yaml:"check_ttl" env:"JWT_CHECK_TTL"`
	} `yaml:"jwt"`

	Cache struct {
		WarmSessions    bool   `yaml:"warm_sessions" env:"CACHE_WARM_SESSIONS"`
		RefreshInterval string `yaml:"refresh_interval" env:"CACHE_REFRESH_INTERVAL"`
		SessionTTL      string `yaml:"session_ttl" env:"CACHE_SESSION_TTL"`
		MaxSessions     int    `yaml:"max_sessions" env:"CACHE_MAX_SESSIONS"`
		Locale          string `yaml:"locale" env:"CACHE_LOCALE"`
	} `yaml:"cache"`

	Logging struct {
		Level  string `yaml:"level" env:"LOG_LEVEL"`
		Format string `yaml:"format" env:"LOG_FORMAT"`
	} `yaml:"logging"`
}

// LoadConfig loads configuration from a file and environment variables.
// A .env file next to the working directory is loaded first when present.
func LoadConfig(configPath string) (*Config, error) {
	if err := loadDotEnv(".env"); err != nil {
		return nil, err
	}

	config := &Config{}
	setDefaults(config)

	if _, err := os.Stat(configPath); err == nil {
		file, err := os.ReadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}

		if err := yaml.Unmarshal(file, config); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	if err := loadFromEnv(config); err != nil {
		return nil, fmt.Errorf("failed to load from environment: %w", err)
	}

	if err := validateConfig(config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// loadDotEnv exports variables from path without overriding the real environment
func loadDotEnv(path string) error {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to stat %s: %w", path, err)
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}

// setDefaults sets default values for the configuration
func setDefaults(config *Config) {
	config.Server.Port = "8080"
	config.Server.Mode = "development"

	config.Backend.BaseURL = "http://localhost:5000"
	config.Backend.Timeout = "15s"

	config.JWT.CheckTTL = "1m"

	config.Cache.WarmSessions = true
	config.Cache.RefreshInterval = "5m"
	config.Cache.SessionTTL = "30m"
	config.Cache.MaxSessions = 500
	config.Cache.Locale = "en"

	config.Logging.Level = "info"
	config.Logging.Format = "json"
}

// validateConfig ensures that the configuration is valid
func validateConfig(config *Config) error {
	if config.Backend.BaseURL == "" {
		return fmt.Errorf("backend base URL is required")
	}

	u, err := url.Parse(config.Backend.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("backend base URL must be absolute: %q", config.Backend.BaseURL)
	}

	if _, err := time.ParseDuration(config.Backend.Timeout); err != nil {
		return fmt.Errorf("invalid backend timeout format: %w", err)
	}

	if config.Cache.RefreshInterval != "" {
		if _, err := time.ParseDuration(config.Cache.RefreshInterval); err != nil {
			return fmt.Errorf("invalid cache refresh interval format: %w", err)
		}
	}

	if config.Cache.SessionTTL != "" {
		if _, err := time.ParseDuration(config.Cache.SessionTTL); err != nil {
			return fmt.Errorf("invalid cache session ttl format: %w", err)
		}
	}

	if config.Cache.MaxSessions < 0 {
		return fmt.Errorf("cache max sessions must not be negative")
	}

	if config.JWT.CheckTTL != "" {
		if _, err := time.ParseDuration(config.JWT.CheckTTL); err != nil {
			return fmt.Errorf("invalid jwt check ttl format: %w", err)
		}
	}

	// unsigned tokens are only tolerated outside production
	if config.IsProduction() && config.JWT.Secret == "" {
		return fmt.Errorf("jwt secret is required in production mode")
	}

	return nil
}

// BackendTimeout returns the per-request deadline for backend calls
func (c *Config) BackendTimeout() time.Duration {
	d, err := time.ParseDuration(c.Backend.Timeout)
	if err != nil || d <= 0 {
		return 15 * time.Second
	}
	return d
}

// RefreshInterval returns the cache refresh period, zero when disabled
func (c *Config) RefreshInterval() time.Duration {
	d, err := time.ParseDuration(c.Cache.RefreshInterval)
	if err != nil || d < 0 {
		return 0
	}
	return d
}

// SessionTTL returns how long an idle session keeps its cache, zero for no limit
func (c *Config) SessionTTL() time.Duration {
	d, err := time.ParseDuration(c.Cache.SessionTTL)
	if err != nil || d < 0 {
		return 0
	}
	return d
}

// SessionCheckTTL returns how long a backend confirmation of an unsigned token is reused
func (c *Config) SessionCheckTTL() time.Duration {
	d, err := time.ParseDuration(c.JWT.CheckTTL)
	if err != nil || d <= 0 {
		return time.Minute
	}
	return d
}

// IsProduction reports release mode
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Server.Mode, "production")
}

// GetEnv gets an environment variable or returns a default value
func GetEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}
