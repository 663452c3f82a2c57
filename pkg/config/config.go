package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Storage  StorageConfig
	Assembly AssemblyConfig
	Outline  OutlineConfig
	Worker   WorkerConfig
	Align    AlignConfig
	Auth     AuthConfig
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port            string
	Host            string
	Environment     string
	AllowedOrigins  []string
	ShutdownTimeout int
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host        string
	Port        string
	User        string
	Password    string
	Name        string
	SSLMode     string
	MaxConns    int
	MinConns    int
	AutoMigrate bool
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

// StorageConfig holds blob storage configuration
type StorageConfig struct {
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
	BucketName      string
	UseSSL          bool
	PublicURL       string
}

// AssemblyConfig holds transcription service configuration
type AssemblyConfig struct {
	APIKey       string
	LanguageCode string
}

// OutlineConfig holds outline LLM configuration
type OutlineConfig struct {
	APIKey  string
	BaseURL string
	Model   string
}

// WorkerConfig holds job worker pool configuration
type WorkerConfig struct {
	Count         int
	PollInterval  time.Duration
	StaleAfter    time.Duration
	PruneAfter    time.Duration
	JobTimeout    time.Duration
	LeaseDuration time.Duration
}

// AlignConfig holds aligner tuning constants. These are configuration,
// not hard-won tuning: the defaults are the documented heuristic.
type AlignConfig struct {
	FormulaWeight  float64
	SnapWindowFrac float64
}

// AuthConfig holds API auth configuration. Auth is disabled when the
// JWT secret is empty.
type AuthConfig struct {
	JWTSecret   string
	APIKey      string
	TokenExpiry time.Duration
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if exists (ignore error if file doesn't exist)
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found, using environment variables or defaults")
	}

	config := &Config{
		Server: ServerConfig{
			Port:            getEnv("PORT", "8080"),
			Host:            getEnv("HOST", "0.0.0.0"),
			Environment:     getEnv("ENVIRONMENT", "development"),
			AllowedOrigins:  []string{getEnv("ALLOWED_ORIGINS", "http://localhost:3000")},
			ShutdownTimeout: getEnvAsInt("SHUTDOWN_TIMEOUT", 10),
		},
		Database: DatabaseConfig{
			Host:        getEnv("DB_HOST", "localhost"),
			Port:        getEnv("DB_PORT", "5432"),
			User:        getEnv("DB_USER", "postgres"),
			Password:    getEnv("DB_PASSWORD", "postgres"),
			Name:        getEnv("DB_NAME", "slidecast"),
			SSLMode:     getEnv("DB_SSLMODE", "disable"),
			MaxConns:    getEnvAsInt("DB_MAX_CONNS", 25),
			MinConns:    getEnvAsInt("DB_MIN_CONNS", 5),
			AutoMigrate: getEnvAsBool("DB_AUTO_MIGRATE", false),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
		},
		Storage: StorageConfig{
			Endpoint:        getEnv("STORAGE_ENDPOINT", "localhost:9000"),
			AccessKeyID:     getEnv("STORAGE_ACCESS_KEY", "minioadmin"),
			SecretAccessKey: getEnv("STORAGE_SECRET_KEY", "minioadmin"),
			BucketName:      getEnv("STORAGE_BUCKET", "slidecast-audio"),
			UseSSL:          getEnvAsBool("STORAGE_USE_SSL", false),
			PublicURL:       getEnv("STORAGE_PUBLIC_URL", ""),
		},
		Assembly: AssemblyConfig{
			APIKey:       getEnv("ASSEMBLYAI_API_KEY", ""),
			LanguageCode: getEnv("ASSEMBLYAI_LANGUAGE", "it"),
		},
		Outline: OutlineConfig{
			APIKey:  getEnv("OUTLINE_API_KEY", ""),
			BaseURL: getEnv("OUTLINE_API_URL", "https://api.groq.com"),
			Model:   getEnv("OUTLINE_MODEL", "llama-3.1-70b-versatile"),
		},
		Worker: WorkerConfig{
			Count:         getEnvAsInt("WORKER_COUNT", 2),
			PollInterval:  getEnvAsDuration("WORKER_POLL_INTERVAL", "5s"),
			StaleAfter:    getEnvAsDuration("JOB_STALE_AFTER", "30m"),
			PruneAfter:    getEnvAsDuration("JOB_PRUNE_AFTER", "168h"),
			JobTimeout:    getEnvAsDuration("JOB_TIMEOUT", "15m"),
			LeaseDuration: getEnvAsDuration("JOB_LEASE_DURATION", "30m"),
		},
		Align: AlignConfig{
			FormulaWeight:  getEnvAsFloat("ALIGN_FORMULA_WEIGHT", 1.5),
			SnapWindowFrac: getEnvAsFloat("ALIGN_SNAP_WINDOW_FRAC", 0.10),
		},
		Auth: AuthConfig{
			JWTSecret:   getEnv("JWT_SECRET", ""),
			APIKey:      getEnv("API_KEY", ""),
			TokenExpiry: getEnvAsDuration("JWT_TOKEN_EXPIRY", "24h"),
		},
	}

	// Validate required fields
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Align.FormulaWeight <= 0 {
		return fmt.Errorf("ALIGN_FORMULA_WEIGHT must be positive")
	}
	if c.Align.SnapWindowFrac < 0 || c.Align.SnapWindowFrac > 1 {
		return fmt.Errorf("ALIGN_SNAP_WINDOW_FRAC must be within [0,1]")
	}
	if c.Worker.Count < 1 {
		return fmt.Errorf("WORKER_COUNT must be at least 1")
	}
	if c.Auth.JWTSecret != "" && c.Auth.APIKey == "" {
		return fmt.Errorf("API_KEY is required when JWT_SECRET is set")
	}
	return nil
}

// AuthEnabled reports whether the JWT auth middleware is active
func (c *Config) AuthEnabled() bool {
	return c.Auth.JWTSecret != ""
}

// GetDatabaseDSN returns the database connection string
func (c *Config) GetDatabaseDSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

// GetRedisAddr returns the Redis address
func (c *Config) GetRedisAddr() string {
	return fmt.Sprintf("%s:%s", c.Redis.Host, c.Redis.Port)
}

// Helper functions

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
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

func getEnvAsDuration(key string, defaultValue string) time.Duration {
	valueStr := getEnv(key, defaultValue)
	duration, err := time.ParseDuration(valueStr)
	if err != nil {
		duration, _ = time.ParseDuration(defaultValue)
	}
	return duration
}
