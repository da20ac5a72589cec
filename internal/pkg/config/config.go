// internal/pkg/config/config.go
package config

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	// Application
	App AppConfig

	// Inventory backend
	Backend BackendConfig

	// Console sessions
	Session SessionConfig

	// Redis
	Redis RedisConfig

	// Asynq
	Asynq AsynqConfig

	// AWS
	AWS AWSConfig

	// Reports
	Reports ReportsConfig

	// Security
	Security SecurityConfig

	// Server
	Server ServerConfig
}

// AppConfig holds application-specific configuration
type AppConfig struct {
	Name        string
	Environment string // development, staging, production
	Version     string
	LogLevel    string
	LogFormat   string // json, text
	Debug       bool
}

// BackendConfig holds the inventory backend connection settings
type BackendConfig struct {
	BaseURL string `required:"true"`
	// RequestTimeout of zero disables the client timeout
	RequestTimeout time.Duration
	UserAgent      string
}

// SessionConfig holds console session settings
type SessionConfig struct {
	TTL          time.Duration
	CookieName   string `required:"true"`
	CookieSecure bool
	PageSize     int
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Host         string `required:"true"`
	Port         string `required:"true"`
	Password     string
	DB           int
	MaxRetries   int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	PoolSize     int
	MinIdleConns int
	PoolTimeout  time.Duration
	TTL          time.Duration
	CategoryTTL  time.Duration
}

// AsynqConfig holds Asynq configuration
type AsynqConfig struct {
	RedisAddr           string
	RedisPassword       string
	RedisDB             int
	Concurrency         int
	Queues              map[string]int // queue name -> priority
	StrictPriority      bool
	RetryMax            int
	ShutdownTimeout     time.Duration
	HealthCheckInterval time.Duration
}

// AWSConfig holds AWS configuration
type AWSConfig struct {
	Region          string
	AccessKeyID     string
	SecretAccessKey string
	S3Bucket        string
	S3Endpoint      string // For MinIO in development
	UsePathStyle    bool   // For MinIO compatibility
	SecretsName     string
}

// Report archive drivers
const (
	ArchiveNone  = "none"
	ArchiveLocal = "local"
	ArchiveS3    = "s3"
)

// ReportsConfig holds report export and archive configuration
type ReportsConfig struct {
	FetchCap        int
	Currency        string
	ArchiveDriver   string
	LocalArchiveDir string
	PresignExpiry   time.Duration
}

// SecurityConfig holds security configuration
type SecurityConfig struct {
	RateLimitRequests int
	RateLimitDuration time.Duration
	TrustedProxies    []string
	SecureHeaders     bool
	RequestIDHeader   string
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host              string
	Port              string `required:"true"`
	ReadTimeout       time.Duration
	WriteTimeout      time.Duration
	IdleTimeout       time.Duration
	MaxHeaderBytes    int
	GracefulTimeout   time.Duration
	EnableHealthCheck bool
	TLSEnabled        bool
	TLSCertFile       string
	TLSKeyFile        string
}

// Load loads configuration from environment variables, an optional config
// file named by CONFIG_FILE, and the configured secrets provider
func Load(logger *slog.Logger) (*Config, error) {
	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "development"
	}

	// Load .env file in development
	if env == "development" || env == "local" {
		if err := godotenv.Load(); err != nil {
			logger.Warn("no .env file found, using environment variables",
				slog.String("error", err.Error()))
		} else {
			logger.Info(".env file loaded successfully")
		}
	}

	viper.Reset()
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.SetTypeByDefaultValue(true)
	setDefaults()

	if file := os.Getenv("CONFIG_FILE"); file != "" {
		viper.SetConfigFile(file)
		if err := viper.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", file, err)
		}
		logger.Info("config file loaded", slog.String("file", viper.ConfigFileUsed()))
	}

	redisHost := getEnv("REDIS_HOST", "localhost")
	redisPort := getEnv("REDIS_PORT", "6379")

	cfg := &Config{
		App: AppConfig{
			Name:        getEnv("APP_NAME", "stockroom-console"),
			Environment: env,
			Version:     getEnv("APP_VERSION", "dev"),
			LogLevel:    getEnv("LOG_LEVEL", "debug"),
			LogFormat:   getEnv("LOG_FORMAT", "json"),
			Debug:       getBoolEnv("APP_DEBUG", env == "development"),
		},
		Backend: BackendConfig{
			BaseURL:        getEnv("BACKEND_BASE_URL", "http://localhost:8080/api"),
			RequestTimeout: getDurationEnv("BACKEND_REQUEST_TIMEOUT", 0),
			UserAgent:      getEnv("BACKEND_USER_AGENT", "stockroom-console"),
		},
		Session: SessionConfig{
			TTL:          getDurationEnv("SESSION_TTL", 12*time.Hour),
			CookieName:   getEnv("SESSION_COOKIE_NAME", "stockroom_session"),
			CookieSecure: getBoolEnv("SESSION_COOKIE_SECURE", env == "production"),
			PageSize:     getIntEnv("PAGE_SIZE", 10),
		},
		Redis: RedisConfig{
			Host:         redisHost,
			Port:         redisPort,
			Password:     getEnv("REDIS_PASSWORD", ""),
			DB:           getIntEnv("REDIS_DB", 0),
			MaxRetries:   getIntEnv("REDIS_MAX_RETRIES", 3),
			DialTimeout:  getDurationEnv("REDIS_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout:  getDurationEnv("REDIS_READ_TIMEOUT", 3*time.Second),
			WriteTimeout: getDurationEnv("REDIS_WRITE_TIMEOUT", 3*time.Second),
			PoolSize:     getIntEnv("REDIS_POOL_SIZE", 10),
			MinIdleConns: getIntEnv("REDIS_MIN_IDLE_CONNS", 2),
			PoolTimeout:  getDurationEnv("REDIS_POOL_TIMEOUT", 4*time.Second),
			TTL:          getDurationEnv("REDIS_TTL", time.Hour),
			CategoryTTL:  getDurationEnv("CATEGORY_CACHE_TTL", 10*time.Minute),
		},
		Asynq: AsynqConfig{
			RedisAddr:           fmt.Sprintf("%s:%s", redisHost, redisPort),
			RedisPassword:       getEnv("REDIS_PASSWORD", ""),
			RedisDB:             getIntEnv("ASYNQ_REDIS_DB", 0),
			Concurrency:         getIntEnv("ASYNQ_CONCURRENCY", 5),
			Queues:              parseQueues(getEnv("ASYNQ_QUEUES", "critical:6,default:3,low:1")),
			StrictPriority:      getBoolEnv("ASYNQ_STRICT_PRIORITY", false),
			RetryMax:            getIntEnv("ASYNQ_RETRY_MAX", 3),
			ShutdownTimeout:     getDurationEnv("ASYNQ_SHUTDOWN_TIMEOUT", 30*time.Second),
			HealthCheckInterval: getDurationEnv("ASYNQ_HEALTH_CHECK_INTERVAL", 30*time.Second),
		},
		AWS: AWSConfig{
			Region:          getEnv("AWS_REGION", "us-east-1"),
			AccessKeyID:     getEnv("AWS_ACCESS_KEY_ID", ""),
			SecretAccessKey: getEnv("AWS_SECRET_ACCESS_KEY", ""),
			S3Bucket:        getEnv("AWS_S3_BUCKET", "stockroom-reports"),
			S3Endpoint:      getEnv("AWS_S3_ENDPOINT", ""),
			UsePathStyle:    getBoolEnv("AWS_S3_PATH_STYLE", env == "development"),
			SecretsName:     getEnv("AWS_SECRETS_NAME", "stockroom-console"),
		},
		Reports: ReportsConfig{
			FetchCap:        getIntEnv("REPORT_FETCH_CAP", 10000),
			Currency:        getEnv("REPORT_CURRENCY", "PKR"),
			ArchiveDriver:   strings.ToLower(getEnv("REPORT_ARCHIVE_DRIVER", ArchiveLocal)),
			LocalArchiveDir: getEnv("REPORT_ARCHIVE_DIR", "./archive"),
			PresignExpiry:   getDurationEnv("REPORT_PRESIGN_EXPIRY", 15*time.Minute),
		},
		Security: SecurityConfig{
			RateLimitRequests: getIntEnv("RATE_LIMIT_REQUESTS", 100),
			RateLimitDuration: getDurationEnv("RATE_LIMIT_DURATION", time.Minute),
			TrustedProxies:    getSliceEnv("TRUSTED_PROXIES", []string{}),
			SecureHeaders:     getBoolEnv("SECURE_HEADERS", true),
			RequestIDHeader:   getEnv("REQUEST_ID_HEADER", "X-Request-ID"),
		},
		Server: ServerConfig{
			Host:              getEnv("SERVER_HOST", "0.0.0.0"),
			Port:              getEnv("SERVER_PORT", "3000"),
			ReadTimeout:       getDurationEnv("SERVER_READ_TIMEOUT", 15*time.Second),
			WriteTimeout:      getDurationEnv("SERVER_WRITE_TIMEOUT", 60*time.Second),
			IdleTimeout:       getDurationEnv("SERVER_IDLE_TIMEOUT", 60*time.Second),
			MaxHeaderBytes:    getIntEnv("SERVER_MAX_HEADER_BYTES", 1<<20), // 1 MB
			GracefulTimeout:   getDurationEnv("SERVER_GRACEFUL_TIMEOUT", 30*time.Second),
			EnableHealthCheck: getBoolEnv("ENABLE_HEALTH_CHECK", true),
			TLSEnabled:        getBoolEnv("TLS_ENABLED", false),
			TLSCertFile:       getEnv("TLS_CERT_FILE", ""),
			TLSKeyFile:        getEnv("TLS_KEY_FILE", ""),
		},
	}

	if strings.EqualFold(getEnv("SECRETS_PROVIDER", "env"), "aws") {
		src, err := NewAWSSecretSource(context.Background(), cfg.AWS.Region, cfg.AWS.SecretsName, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to create secrets source: %w", err)
		}
		if err := ApplySecrets(context.Background(), cfg, src); err != nil {
			return nil, fmt.Errorf("failed to apply secrets: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	if err := cfg.CheckRules(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Backend.BaseURL == "" {
		return fmt.Errorf("backend base URL is required")
	}
	u, err := url.Parse(c.Backend.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("backend base URL must be an absolute http(s) URL: %q", c.Backend.BaseURL)
	}
	if c.Backend.RequestTimeout < 0 {
		return fmt.Errorf("backend request timeout cannot be negative")
	}
	if c.Server.Port == "" {
		return fmt.Errorf("server port is required")
	}
	if c.Session.PageSize <= 0 {
		return fmt.Errorf("page size must be positive")
	}
	if c.Session.TTL <= 0 {
		return fmt.Errorf("session TTL must be positive")
	}
	if c.Reports.FetchCap <= 0 {
		return fmt.Errorf("report fetch cap must be positive")
	}

	switch c.Reports.ArchiveDriver {
	case ArchiveNone, ArchiveLocal:
	case ArchiveS3:
		if c.AWS.S3Bucket == "" {
			return fmt.Errorf("S3 bucket is required for the s3 archive driver")
		}
	default:
		return fmt.Errorf("unknown report archive driver %q", c.Reports.ArchiveDriver)
	}

	if c.Security.RateLimitRequests <= 0 {
		return fmt.Errorf("rate limit requests must be positive")
	}

	return nil
}

// GetServerAddress returns the formatted server address
func (c *Config) GetServerAddress() string {
	return fmt.Sprintf("%s:%s", c.Server.Host, c.Server.Port)
}

// GetRedisAddress returns the formatted Redis address
func (c *Config) GetRedisAddress() string {
	return fmt.Sprintf("%s:%s", c.Redis.Host, c.Redis.Port)
}

// IsProduction returns true if running in production
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

// IsDevelopment returns true if running in development
func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development" || c.App.Environment == "local"
}

// Helper functions

func setDefaults() {
	viper.SetDefault("app.name", "stockroom-console")
	viper.SetDefault("app.environment", "development")
	viper.SetDefault("log.level", "info")
	viper.SetDefault("log.format", "json")
}

// getEnv reads key from the environment, falling back to the config file
func getEnv(key, defaultValue string) string {
	if value := viper.GetString(key); value != "" {
		return value
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := getEnv(key, ""); value != "" {
		b, err := strconv.ParseBool(value)
		if err == nil {
			return b
		}
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := getEnv(key, ""); value != "" {
		i, err := strconv.Atoi(value)
		if err == nil {
			return i
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := getEnv(key, ""); value != "" {
		d, err := time.ParseDuration(value)
		if err == nil {
			return d
		}
	}
	return defaultValue
}

func getSliceEnv(key string, defaultValue []string) []string {
	if value := getEnv(key, ""); value != "" {
		parts := strings.Split(value, ",")
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}
		return parts
	}
	return defaultValue
}

func parseQueues(queuesStr string) map[string]int {
	queues := make(map[string]int)
	pairs := strings.Split(queuesStr, ",")
	for _, pair := range pairs {
		parts := strings.Split(pair, ":")
		if len(parts) == 2 {
			name := strings.TrimSpace(parts[0])
			priority, err := strconv.Atoi(strings.TrimSpace(parts[1]))
			if err == nil {
				queues[name] = priority
			}
		}
	}
	if len(queues) == 0 {
		queues["default"] = 1
	}
	return queues
}
