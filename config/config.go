package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config represents the complete application configuration
type Config struct {
	Server      ServerConfig
	Logging     LoggingConfig
	Primary     ProviderConfig
	Secondary   ProviderConfig
	Cache       CacheConfig
	Experiment  ExperimentConfig
	Alerts      AlertsConfig
	Store       StoreConfig
	Composer    ComposerConfig
	Coalesce    bool // COALESCE_REQUESTS: merge concurrent identical requests
	Environment string
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host            string
	Port            int
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
	CORSOrigins     []string
}

// LoggingConfig holds logger construction settings. File is optional;
// when set, output is rotated by lumberjack with the Max* limits.
type LoggingConfig struct {
	Level      string
	Format     string // json or text
	File       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
}

// ProviderConfig holds one upstream review provider configuration.
// An empty Endpoint disables the provider entirely.
type ProviderConfig struct {
	Name        string
	Endpoint    string
	Model       string
	APIKey      string
	Timeout     time.Duration
	MaxRetries  int
	BackoffBase time.Duration
	Temperature float64
	MaxTokens   int
	CostPer1K   float64 // USD per 1000 upstream tokens; only primary usage is metered
}

// Enabled reports whether the provider is configured for use
func (p *ProviderConfig) Enabled() bool {
	return p.Endpoint != ""
}

// CacheConfig holds response cache tuning
type CacheConfig struct {
	TTL           time.Duration
	Capacity      int
	SweepInterval time.Duration
}

// ExperimentConfig holds the template A/B gate settings
type ExperimentConfig struct {
	Enabled         bool
	TemplatePercent int // 0..100 share of requests routed to the composer
}

// AlertsConfig holds threshold alerting configuration
type AlertsConfig struct {
	ErrorRatePercent  float64
	LatencyMS         float64
	DailyCostUSD      float64
	SuppressionWindow time.Duration // 0 disables suppression
	QueueSize         int
	RingSize          int
	File              string // optional JSONL sink path
}

// StoreConfig holds metrics snapshot persistence configuration
type StoreConfig struct {
	Backend            string // postgres, sqlite, or none
	Postgres           PostgresConfig
	SQLitePath         string // empty resolves under the user data dir
	CheckpointInterval time.Duration
}

// PostgresConfig holds PostgreSQL connection configuration.
// When ConnectionString (from DATABASE_URL) is set, it takes precedence over individual fields.
type PostgresConfig struct {
	ConnectionString string // From DATABASE_URL when set
	Host             string
	Port             int
	User             string
	Password         string
	Database         string
	SSLMode          string
	MaxOpenConns     int
	MaxIdleConns     int
	ConnMaxLifetime  time.Duration
}

// ComposerConfig holds template composer settings
type ComposerConfig struct {
	PackPath string // optional YAML phrase pack overriding the built-in defaults
}

// New creates a Config by loading environment variables. Explicit env
// files must exist; the default .env is loaded best-effort.
func New(envFiles ...string) (*Config, error) {
	if len(envFiles) == 0 {
		_ = godotenv.Load(".env")
	} else {
		for _, f := range envFiles {
			if err := godotenv.Load(f); err != nil {
				return nil, fmt.Errorf("failed to load env file %s: %w", f, err)
			}
		}
	}

	cfg := &Config{
		Environment: getEnv("ENVIRONMENT", "development"),
		Server: ServerConfig{
			Host:            getEnv("SERVER_HOST", "0.0.0.0"),
			Port:            getPort(),
			ReadTimeout:     getEnvAsDuration("SERVER_READ_TIMEOUT", 30*time.Second),
			WriteTimeout:    getEnvAsDuration("SERVER_WRITE_TIMEOUT", 30*time.Second),
			ShutdownTimeout: getEnvAsDuration("SERVER_SHUTDOWN_TIMEOUT", 10*time.Second),
			CORSOrigins:     splitAndTrim(getEnv("CORS_ALLOWED_ORIGINS", "*")),
		},
		Logging: LoggingConfig{
			Level:      getEnv("LOG_LEVEL", "info"),
			Format:     getEnv("LOG_FORMAT", "json"),
			File:       getEnv("LOG_FILE", ""),
			MaxSizeMB:  getEnvAsInt("LOG_MAX_SIZE_MB", 100),
			MaxBackups: getEnvAsInt("LOG_MAX_BACKUPS", 3),
			MaxAgeDays: getEnvAsInt("LOG_MAX_AGE_DAYS", 28),
		},
		Primary:   loadProviderConfig("PRIMARY", "primary", "https://api.openai.com/v1/chat/completions", "gpt-4o-mini"),
		Secondary: loadProviderConfig("SECONDARY", "secondary", "", "gpt-4o-mini"),
		Cache: CacheConfig{
			TTL:           getEnvAsDuration("CACHE_TTL", time.Hour),
			Capacity:      getEnvAsInt("CACHE_CAPACITY", 1000),
			SweepInterval: getEnvAsDuration("CACHE_SWEEP_INTERVAL", 10*time.Minute),
		},
		Experiment: ExperimentConfig{
			Enabled:         getEnvAsBool("EXPERIMENT_ENABLED", false),
			TemplatePercent: getEnvAsInt("EXPERIMENT_TEMPLATE_PERCENT", 0),
		},
		Alerts: AlertsConfig{
			ErrorRatePercent:  getEnvAsFloat("ALERT_ERROR_RATE_PERCENT", 10.0),
			LatencyMS:         getEnvAsFloat("ALERT_LATENCY_MS", 5000),
			DailyCostUSD:      getEnvAsFloat("ALERT_DAILY_COST_USD", 5.0),
			SuppressionWindow: getEnvAsDuration("ALERT_SUPPRESSION_WINDOW", 5*time.Minute),
			QueueSize:         getEnvAsInt("ALERT_QUEUE_SIZE", 256),
			RingSize:          getEnvAsInt("ALERT_RING_SIZE", 100),
			File:              getEnv("ALERT_FILE", ""),
		},
		Store: StoreConfig{
			Backend:            getEnv("METRICS_BACKEND", "none"),
			Postgres:           loadPostgresConfig(),
			SQLitePath:         getEnv("SQLITE_PATH", ""),
			CheckpointInterval: getEnvAsDuration("CHECKPOINT_INTERVAL", time.Minute),
		},
		Composer: ComposerConfig{
			PackPath: getEnv("COMPOSER_PACK", ""),
		},
		Coalesce: getEnvAsBool("COALESCE_REQUESTS", false),
	}

	// Validate the configuration
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks if all required configuration fields are set
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server port must be between 1 and 65535, got %d", c.Server.Port)
	}

	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log level must be one of debug, info, warn, error; got %q", c.Logging.Level)
	}
	if c.Logging.Format != "json" && c.Logging.Format != "text" {
		return fmt.Errorf("log format must be json or text, got %q", c.Logging.Format)
	}

	if c.Primary.Endpoint == "" {
		return fmt.Errorf("primary provider endpoint is required")
	}
	if c.Primary.Timeout <= 0 {
		return fmt.Errorf("primary provider timeout must be positive")
	}
	if c.Primary.MaxRetries < 0 || c.Secondary.MaxRetries < 0 {
		return fmt.Errorf("provider max retries cannot be negative")
	}

	if c.Cache.TTL <= 0 {
		return fmt.Errorf("cache TTL must be positive")
	}
	if c.Cache.Capacity <= 0 {
		return fmt.Errorf("cache capacity must be positive")
	}

	if c.Experiment.TemplatePercent < 0 || c.Experiment.TemplatePercent > 100 {
		return fmt.Errorf("experiment template percent must be between 0 and 100, got %d", c.Experiment.TemplatePercent)
	}

	if c.Alerts.ErrorRatePercent < 0 || c.Alerts.LatencyMS < 0 || c.Alerts.DailyCostUSD < 0 {
		return fmt.Errorf("alert thresholds cannot be negative")
	}
	if c.Alerts.SuppressionWindow < 0 {
		return fmt.Errorf("alert suppression window cannot be negative")
	}
	if c.Alerts.QueueSize <= 0 {
		return fmt.Errorf("alert queue size must be positive")
	}
	if c.Alerts.RingSize <= 0 {
		return fmt.Errorf("alert ring size must be positive")
	}

	switch c.Store.Backend {
	case "none", "sqlite":
	case "postgres":
		if c.Store.Postgres.ConnectionString == "" && c.Store.Postgres.Host == "" {
			return fmt.Errorf("postgres backend requires DATABASE_URL or DB_HOST")
		}
		if c.Store.Postgres.ConnectionString == "" {
			if c.Store.Postgres.User == "" {
				return fmt.Errorf("database user is required")
			}
			if c.Store.Postgres.Database == "" {
				return fmt.Errorf("database name is required")
			}
		}
	default:
		return fmt.Errorf("metrics backend must be one of postgres, sqlite, none; got %q", c.Store.Backend)
	}
	if c.Store.CheckpointInterval <= 0 {
		return fmt.Errorf("checkpoint interval must be positive")
	}

	return nil
}

// IsProduction returns true if running in production environment
func (c *Config) IsProduction() bool {
	return c.Environment == "production" || c.Environment == "prod"
}

// IsDevelopment returns true if running in development environment
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development" || c.Environment == "dev"
}

// DSN returns the PostgreSQL connection string.
// Uses ConnectionString (from DATABASE_URL) when set; otherwise builds from individual fields.
func (c *PostgresConfig) DSN() string {
	if c.ConnectionString != "" {
		return c.ConnectionString
	}
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Database, c.SSLMode,
	)
}

// LogString returns a safe string for logging (no password). Parses ConnectionString when set.
func (c *PostgresConfig) LogString() string {
	if c.ConnectionString != "" {
		u, err := url.Parse(c.ConnectionString)
		if err == nil {
			host := u.Hostname()
			port := u.Port()
			if port == "" {
				port = "5432"
			}
			db := strings.TrimPrefix(u.Path, "/")
			return fmt.Sprintf("host=%s port=%s database=%s", host, port, db)
		}
		return "host=<from DATABASE_URL>"
	}
	return fmt.Sprintf("host=%s port=%d database=%s", c.Host, c.Port, c.Database)
}

// loadProviderConfig loads one provider's settings from <PREFIX>_* env vars
func loadProviderConfig(prefix, name, defaultEndpoint, defaultModel string) ProviderConfig {
	return ProviderConfig{
		Name:        name,
		Endpoint:    getEnv(prefix+"_ENDPOINT", defaultEndpoint),
		Model:       getEnv(prefix+"_MODEL", defaultModel),
		APIKey:      getEnv(prefix+"_API_KEY", ""),
		Timeout:     getEnvAsDuration(prefix+"_TIMEOUT", 10*time.Second),
		MaxRetries:  getEnvAsInt(prefix+"_MAX_RETRIES", 3),
		BackoffBase: getEnvAsDuration(prefix+"_BACKOFF_BASE", time.Second),
		Temperature: getEnvAsFloat(prefix+"_TEMPERATURE", 0.8),
		MaxTokens:   getEnvAsInt(prefix+"_MAX_TOKENS", 220),
		CostPer1K:   getEnvAsFloat(prefix+"_COST_PER_1K", 0.002),
	}
}

// loadPostgresConfig loads postgres config from DATABASE_URL or DB_* env vars
func loadPostgresConfig() PostgresConfig {
	dbURL := getEnv("DATABASE_URL", "")
	if dbURL != "" {
		return PostgresConfig{
			ConnectionString: dbURL,
			MaxOpenConns:     getEnvAsInt("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns:     getEnvAsInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime:  getEnvAsDuration("DB_CONN_MAX_LIFETIME", 5*time.Minute),
		}
	}
	return PostgresConfig{
		Host:            getEnv("DB_HOST", ""),
		Port:            getEnvAsInt("DB_PORT", 5432),
		User:            getEnv("DB_USER", "reviewgen"),
		Password:        getEnv("DB_PASSWORD", ""),
		Database:        getEnv("DB_NAME", "reviewgen"),
		SSLMode:         getEnv("DB_SSLMODE", "disable"),
		MaxOpenConns:    getEnvAsInt("DB_MAX_OPEN_CONNS", 25),
		MaxIdleConns:    getEnvAsInt("DB_MAX_IDLE_CONNS", 5),
		ConnMaxLifetime: getEnvAsDuration("DB_CONN_MAX_LIFETIME", 5*time.Minute),
	}
}

// Address returns the HTTP server address
func (c *ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// Helper functions

// getPort returns the server port from PORT or SERVER_PORT env vars (default: 8080)
func getPort() int {
	if value := os.Getenv("PORT"); value != "" {
		if p, err := strconv.Atoi(value); err == nil {
			return p
		}
	}
	if value := os.Getenv("SERVER_PORT"); value != "" {
		if p, err := strconv.Atoi(value); err == nil {
			return p
		}
	}
	return 8080
}

func splitAndTrim(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := time.ParseDuration(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}
