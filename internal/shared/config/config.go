package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all configuration for the booking engine
type Config struct {
	// Server configuration
	Port           string
	GinMode        string
	APIVersion     string
	APIPrefix      string
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	IdleTimeout    time.Duration
	MaxHeaderBytes int

	// Database configuration
	Database DatabaseConfig

	// Redis configuration
	Redis RedisConfig

	// JWT configuration
	JWT JWTConfig

	// Rate limiting
	RateLimit RateLimitConfig

	// Kafka booking events
	Kafka KafkaConfig

	// External flight-search provider
	FlightProvider FlightProviderConfig

	// Booking behavior
	Booking BookingConfig

	// Logging
	LogLevel string
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host     string
	Port     string
	Name     string
	User     string
	Password string
	SSLMode  string
	DSN      string
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
	Addr     string

	// TTL for cached live search results
	SearchCacheTTL time.Duration
}

// JWTConfig holds JWT configuration. Tokens are issued by the external
// session service; the engine only verifies them.
type JWTConfig struct {
	Secret string
}

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	Enabled         bool          `json:"enabled"`
	WindowDuration  time.Duration `json:"window_duration"`
	DefaultRequests int           `json:"default_requests"`
	SearchRequests  int           `json:"search_requests"`
	BookingRequests int           `json:"booking_requests"`
	AdminRequests   int           `json:"admin_requests"`
	WhitelistedIPs  []string      `json:"whitelisted_ips"`
}

// KafkaConfig holds booking event streaming configuration
type KafkaConfig struct {
	Enabled       bool
	Brokers       []string
	BookingsTopic string
}

// FlightProviderConfig holds the external flight-search provider settings
type FlightProviderConfig struct {
	BaseURL string
	APIKey  string
	APIHost string
	Timeout time.Duration
}

// BookingConfig holds reservation coordinator tuning
type BookingConfig struct {
	// CommitRetries bounds the optimistic-concurrency retry loop
	CommitRetries int
	// MaxSeatsPerBooking bounds a single seat-selection request
	MaxSeatsPerBooking int
	Currency           string
}

// Load loads configuration from environment variables
func Load() *Config {
	cfg := &Config{
		// Server configuration
		Port:           getEnv("PORT", "8080"),
		GinMode:        getEnv("GIN_MODE", "debug"),
		APIVersion:     getEnv("API_VERSION", "v1"),
		APIPrefix:      getEnv("API_PREFIX", "/api"),
		ReadTimeout:    getDurationEnv("READ_TIMEOUT", 15*time.Second),
		WriteTimeout:   getDurationEnv("WRITE_TIMEOUT", 45*time.Second),
		IdleTimeout:    getDurationEnv("IDLE_TIMEOUT", 60*time.Second),
		MaxHeaderBytes: getIntEnv("MAX_HEADER_BYTES", 1<<20), // 1 MB

		// Database configuration
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			Name:     getEnv("DB_NAME", "aerobook_db"),
			User:     getEnv("DB_USER", "aerobook_user"),
			Password: getEnv("DB_PASSWORD", "aerobook_password"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},

		// Redis configuration
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getIntEnv("REDIS_DB", 0),

			SearchCacheTTL: getDurationEnv("REDIS_SEARCH_CACHE_TTL", 10*time.Minute),
		},

		// JWT configuration
		JWT: JWTConfig{
			Secret: getEnv("JWT_SECRET", "your-super-secret-jwt-key"),
		},

		// Rate limiting
		RateLimit: RateLimitConfig{
			Enabled:         getBoolEnv("RATE_LIMIT_ENABLED", true),
			WindowDuration:  getDurationEnv("RATE_LIMIT_WINDOW_DURATION", 60*time.Second),
			DefaultRequests: getIntEnv("RATE_LIMIT_DEFAULT_REQUESTS", 60),
			SearchRequests:  getIntEnv("RATE_LIMIT_SEARCH_REQUESTS", 30),
			BookingRequests: getIntEnv("RATE_LIMIT_BOOKING_REQUESTS", 20),
			AdminRequests:   getIntEnv("RATE_LIMIT_ADMIN_REQUESTS", 200),
			WhitelistedIPs:  getStringSliceEnv("RATE_LIMIT_WHITELISTED_IPS", []string{}),
		},

		// Kafka booking events
		Kafka: KafkaConfig{
			Enabled:       getBoolEnv("KAFKA_ENABLED", false),
			Brokers:       getStringSliceEnv("KAFKA_BROKERS", []string{"localhost:9092"}),
			BookingsTopic: getEnv("KAFKA_BOOKINGS_TOPIC", "booking-events"),
		},

		// External flight-search provider
		FlightProvider: FlightProviderConfig{
			BaseURL: getEnv("FLIGHT_PROVIDER_BASE_URL", "https://flights-scraper-data.p.rapidapi.com"),
			APIKey:  getEnv("FLIGHT_PROVIDER_API_KEY", ""),
			APIHost: getEnv("FLIGHT_PROVIDER_API_HOST", "flights-scraper-data.p.rapidapi.com"),
			Timeout: getDurationEnv("FLIGHT_PROVIDER_TIMEOUT", 30*time.Second),
		},

		// Booking behavior
		Booking: BookingConfig{
			CommitRetries:      getIntEnv("BOOKING_COMMIT_RETRIES", 3),
			MaxSeatsPerBooking: getIntEnv("BOOKING_MAX_SEATS", 10),
			Currency:           getEnv("BOOKING_CURRENCY", "USD"),
		},

		// Logging
		LogLevel: getEnv("LOG_LEVEL", "debug"),
	}

	// Build composite values
	cfg.Database.DSN = buildDatabaseDSN(cfg.Database)
	cfg.Redis.Addr = cfg.Redis.Host + ":" + cfg.Redis.Port

	return cfg
}

// GetAPIBasePath returns the API base path, e.g. /api/v1
func (c *Config) GetAPIBasePath() string {
	return c.APIPrefix + "/" + c.APIVersion
}

// GetServerAddress returns the listen address for the HTTP server
func (c *Config) GetServerAddress() string {
	return ":" + c.Port
}

// IsDevelopment returns true when running in gin debug mode
func (c *Config) IsDevelopment() bool {
	return c.GinMode == "debug"
}

// buildDatabaseDSN builds the database connection string
func buildDatabaseDSN(db DatabaseConfig) string {
	return "host=" + db.Host +
		" port=" + db.Port +
		" user=" + db.User +
		" password=" + db.Password +
		" dbname=" + db.Name +
		" sslmode=" + db.SSLMode
}

// getEnv gets an environment variable with a fallback value
func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

// getIntEnv gets an integer environment variable with a fallback value
func getIntEnv(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return fallback
}

// getDurationEnv gets a duration environment variable with a fallback value
func getDurationEnv(key string, fallback time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return fallback
}

// getBoolEnv gets a boolean environment variable with a fallback value
func getBoolEnv(key string, fallback bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return fallback
}

// getStringSliceEnv gets a comma-separated environment variable as a slice
func getStringSliceEnv(key string, fallback []string) []string {
	if value := os.Getenv(key); value != "" {
		parts := strings.Split(value, ",")
		out := make([]string, 0, len(parts))
		for _, p := range parts {
			if trimmed := strings.TrimSpace(p); trimmed != "" {
				out = append(out, trimmed)
			}
		}
		if len(out) > 0 {
			return out
		}
	}
	return fallback
}
