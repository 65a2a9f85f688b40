package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Directory backends for the doctor directory.
const (
	DirectoryStatic   = "static"
	DirectoryPostgres = "postgres"
	DirectorySQLite   = "sqlite"
)

// Config holds all application configuration
type Config struct {
	Env       string
	LogLevel  string
	Server    ServerConfig
	Matcher   MatcherConfig
	Directory DirectoryConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	RateLimit RateLimitConfig
	OTEL      OTELConfig
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Host           string
	Port           int
	AllowedOrigins []string
	TrustedProxies []string // IPs or CIDRs whose X-Forwarded-For is believed
}

// MatcherConfig holds the specialist matcher tuning and lexicon location
type MatcherConfig struct {
	LexiconPath     string // empty uses the embedded lexicon
	MinInputLength  int
	MaxInputLength  int
	Threshold       float64
	ExactMatchScore float64
}

// DirectoryConfig selects where doctors are read from
type DirectoryConfig struct {
	Backend       string
	SQLitePath    string
	CacheTTL      int // seconds; 0 disables caching
	RunMigrations bool
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host         string
	Port         int
	User         string
	Password     string
	Database     string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Enabled  bool
	Host     string
	Port     int
	Password string
	DB       int
	Prefix   string
}

// RateLimitConfig bounds match requests per client
type RateLimitConfig struct {
	Requests      int
	WindowSeconds int
}

// OTELConfig holds OpenTelemetry configuration
type OTELConfig struct {
	ServiceName    string
	ServiceVersion string
	Endpoint       string
	Enabled        bool
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		Env:      getEnv("ENV", "production"),
		LogLevel: getEnv("LOG_LEVEL", "info"),
		Server: ServerConfig{
			Host:           getEnv("SERVER_HOST", "0.0.0.0"),
			Port:           getEnvAsInt("SERVER_PORT", 8080),
			AllowedOrigins: getEnvAsList("ALLOWED_ORIGINS", []string{"*"}),
			TrustedProxies: getEnvAsList("TRUSTED_PROXIES", nil),
		},
		Matcher: MatcherConfig{
			LexiconPath:     getEnv("LEXICON_PATH", ""),
			MinInputLength:  getEnvAsInt("MATCH_MIN_INPUT", 3),
			MaxInputLength:  getEnvAsInt("MATCH_MAX_INPUT", 500),
			Threshold:       getEnvAsFloat("MATCH_THRESHOLD", 0.3),
			ExactMatchScore: getEnvAsFloat("MATCH_EXACT_SCORE", 0.9),
		},
		Directory: DirectoryConfig{
			Backend:       strings.ToLower(getEnv("DIRECTORY_BACKEND", DirectoryStatic)),
			SQLitePath:    getEnv("SQLITE_PATH", "doctors.db"),
			CacheTTL:      getEnvAsInt("DIRECTORY_CACHE_TTL", 300),
			RunMigrations: getEnvAsBool("DB_RUN_MIGRATIONS", true),
		},
		Database: DatabaseConfig{
			Host:         getEnv("DB_HOST", "localhost"),
			Port:         getEnvAsInt("DB_PORT", 5432),
			User:         getEnv("DB_USER", "postgres"),
			Password:     getEnv("DB_PASSWORD", ""),
			Database:     getEnv("DB_NAME", "symptomatch"),
			SSLMode:      getEnv("DB_SSLMODE", "disable"),
			MaxOpenConns: getEnvAsInt("DB_MAX_OPEN_CONNS", 10),
			MaxIdleConns: getEnvAsInt("DB_MAX_IDLE_CONNS", 5),
		},
		Redis: RedisConfig{
			Enabled:  getEnvAsBool("REDIS_ENABLED", false),
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnvAsInt("REDIS_PORT", 6379),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
			Prefix:   getEnv("REDIS_KEY_PREFIX", "symptomatch:"),
		},
		RateLimit: RateLimitConfig{
			Requests:      getEnvAsInt("MATCH_RATE_LIMIT", 20),
			WindowSeconds: getEnvAsInt("MATCH_RATE_WINDOW_SECONDS", 60),
		},
		OTEL: OTELConfig{
			ServiceName:    getEnv("OTEL_SERVICE_NAME", "symptomatch"),
			ServiceVersion: getEnv("OTEL_SERVICE_VERSION", "1.0.0"),
			Endpoint:       getEnv("OTEL_ENDPOINT", ""),
			Enabled:        getEnvAsBool("OTEL_ENABLED", false),
		},
	}

	switch cfg.Directory.Backend {
	case DirectoryStatic, DirectoryPostgres, DirectorySQLite:
	default:
		return nil, fmt.Errorf("unknown DIRECTORY_BACKEND %q (want static, postgres or sqlite)", cfg.Directory.Backend)
	}

	return cfg, nil
}

// DatabaseDSN returns the PostgreSQL connection string
func (c *DatabaseConfig) DatabaseDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Database, c.SSLMode,
	)
}

// RedisAddr returns the Redis address
func (c *RedisConfig) RedisAddr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 64); err == nil {
			return floatVal
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func getEnvAsList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
