package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the application
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	Auth      AuthConfig      `yaml:"auth"`
	AI        AIConfig        `yaml:"ai"`
	YouTube   YouTubeConfig   `yaml:"youtube"`
	Log       LogConfig       `yaml:"log"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

// ServerConfig holds the server configuration
type ServerConfig struct {
	Port        int      `yaml:"port"`
	GinMode     string   `yaml:"gin_mode"`
	CORSOrigins []string `yaml:"cors_origins"`
}

// DatabaseConfig holds the database configuration.
// URL wins over the individual connection fields when set.
type DatabaseConfig struct {
	Storage  string `yaml:"storage"` // "postgres" or "memory"
	URL      string `yaml:"url"`
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	DBName   string `yaml:"db_name"`
	SSLMode  string `yaml:"ssl_mode"`
}

// AuthConfig holds the authentication configuration
type AuthConfig struct {
	JWTSecret     string        `yaml:"jwt_secret"`
	TokenDuration time.Duration `yaml:"token_duration"`
}

// AIConfig holds the text-generation service configuration.
// An empty APIKey is valid: assistant answers then explain the missing key.
type AIConfig struct {
	BaseURL string        `yaml:"base_url"`
	APIKey  string        `yaml:"api_key"`
	Model   string        `yaml:"model"`
	Timeout time.Duration `yaml:"timeout"`
}

// YouTubeConfig holds the metadata lookup configuration
type YouTubeConfig struct {
	MetadataTimeout time.Duration `yaml:"metadata_timeout"`
}

// LogConfig holds the logging configuration
type LogConfig struct {
	Level string `yaml:"level"`
	Path  string `yaml:"path"`
}

// TelemetryConfig holds the tracing configuration
// Spans go to Endpoint over OTLP/HTTP when it is set, to stdout otherwise.
type TelemetryConfig struct {
	Enabled     bool    `yaml:"enabled"`
	ServiceName string  `yaml:"service_name"`
	Environment string  `yaml:"environment"`
	Endpoint    string  `yaml:"endpoint"`
	Insecure    bool    `yaml:"insecure"`
	SampleRatio float64 `yaml:"sample_ratio"`
}

const (
	StoragePostgres = "postgres"
	StorageMemory   = "memory"
)

// GetDSN returns the database connection string
func (c *DatabaseConfig) GetDSN() string {
	if c.URL != "" {
		return c.URL
	}
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.Username, c.Password, c.DBName, c.SSLMode,
	)
}

// Default returns the built-in configuration
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:        8000,
			GinMode:     "release",
			CORSOrigins: []string{"*"},
		},
		Database: DatabaseConfig{
			Storage:  StoragePostgres,
			Host:     "localhost",
			Port:     5432,
			Username: "postgres",
			Password: "password",
			DBName:   "onestop_tutor",
			SSLMode:  "disable",
		},
		Auth: AuthConfig{
			JWTSecret:     "your-secret-key-here",
			TokenDuration: 24 * time.Hour,
		},
		AI: AIConfig{
			BaseURL: "https://api.anthropic.com",
			Model:   "claude-3-5-sonnet-20241022",
			Timeout: 30 * time.Second,
		},
		YouTube: YouTubeConfig{
			MetadataTimeout: 5 * time.Second,
		},
		Log: LogConfig{
			Level: "info",
		},
		Telemetry: TelemetryConfig{
			ServiceName: "tutor-server",
			Environment: "development",
			SampleRatio: 1,
		},
	}
}

// LoadConfig builds the configuration from defaults, an optional YAML file
// named by CONFIG_FILE, and finally environment variables (.env included).
func LoadConfig() (*Config, error) {
	// A missing .env file is fine
	_ = godotenv.Load()

	cfg := Default()

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := loadFile(path, cfg); err != nil {
			return nil, err
		}
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

func loadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to decode YAML config file %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() {
	c.Server.Port = getEnvAsInt("SERVER_PORT", c.Server.Port)
	c.Server.GinMode = getEnv("GIN_MODE", c.Server.GinMode)
	c.Server.CORSOrigins = getEnvAsList("CORS_ORIGINS", c.Server.CORSOrigins)

	c.Database.Storage = strings.ToLower(getEnv("STORAGE", c.Database.Storage))
	c.Database.URL = getEnv("DATABASE_URL", c.Database.URL)
	c.Database.Host = getEnv("DB_HOST", c.Database.Host)
	c.Database.Port = getEnvAsInt("DB_PORT", c.Database.Port)
	c.Database.Username = getEnv("DB_USERNAME", c.Database.Username)
	c.Database.Password = getEnv("DB_PASSWORD", c.Database.Password)
	c.Database.DBName = getEnv("DB_NAME", c.Database.DBName)
	c.Database.SSLMode = getEnv("DB_SSLMODE", c.Database.SSLMode)

	c.Auth.JWTSecret = getEnv("JWT_SECRET", c.Auth.JWTSecret)
	c.Auth.TokenDuration = getEnvAsDuration("TOKEN_DURATION", c.Auth.TokenDuration)

	c.AI.BaseURL = getEnv("CLAUDE_BASE_URL", c.AI.BaseURL)
	c.AI.APIKey = getEnv("CLAUDE_API_KEY", c.AI.APIKey)
	c.AI.Model = getEnv("CLAUDE_MODEL", c.AI.Model)
	c.AI.Timeout = getEnvAsDuration("AI_TIMEOUT", c.AI.Timeout)

	c.YouTube.MetadataTimeout = getEnvAsDuration("METADATA_TIMEOUT", c.YouTube.MetadataTimeout)

	c.Log.Level = getEnv("LOG_LEVEL", c.Log.Level)
	c.Log.Path = getEnv("LOG_PATH", c.Log.Path)

	c.Telemetry.Enabled = getEnvAsBool("OTEL_ENABLED", c.Telemetry.Enabled)
	c.Telemetry.ServiceName = getEnv("OTEL_SERVICE_NAME", c.Telemetry.ServiceName)
	c.Telemetry.Environment = getEnv("APP_ENV", c.Telemetry.Environment)
	c.Telemetry.Endpoint = getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", c.Telemetry.Endpoint)
	c.Telemetry.Insecure = getEnvAsBool("OTEL_EXPORTER_OTLP_INSECURE", c.Telemetry.Insecure)
	c.Telemetry.SampleRatio = getEnvAsFloat("OTEL_SAMPLER_RATIO", c.Telemetry.SampleRatio)
}

// Validate checks the configuration for values the server cannot run with
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid SERVER_PORT %d", c.Server.Port)
	}
	if c.Database.Storage != StoragePostgres && c.Database.Storage != StorageMemory {
		return fmt.Errorf("STORAGE must be %q or %q, got %q", StoragePostgres, StorageMemory, c.Database.Storage)
	}
	if c.Auth.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	if c.Auth.TokenDuration <= 0 {
		return fmt.Errorf("TOKEN_DURATION must be positive")
	}
	if c.Telemetry.SampleRatio < 0 || c.Telemetry.SampleRatio > 1 {
		return fmt.Errorf("OTEL_SAMPLER_RATIO must be within [0, 1]")
	}
	if c.AI.Timeout <= 0 {
		return fmt.Errorf("AI_TIMEOUT must be positive")
	}
	return nil
}

// Helper functions to read environment variables; an empty value counts as unset
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseFloat(valueStr, 64); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsList(key string, defaultValue []string) []string {
	valueStr := strings.TrimSpace(getEnv(key, ""))
	if valueStr == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(valueStr, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
