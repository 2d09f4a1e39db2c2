// internal/config/config.go
package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/babamama/storefront/internal/apperr"
	"github.com/babamama/storefront/internal/cart"
	"github.com/babamama/storefront/internal/phone"
)

const defaultJWTSecret = "your-secret-key-change-in-production"

type Config struct {
	Environment string
	Server      ServerConfig
	Database    DatabaseConfig
	JWT         JWTConfig
	RateLimit   RateLimitConfig
	Catalog     CatalogConfig
	Storage     StorageConfig
	Log         LogConfig
	CORS        CORSConfig
	I18n        I18nConfig
}

type ServerConfig struct {
	Port         string
	Host         string
	ReadTimeout  int
	WriteTimeout int
	IdleTimeout  int
}

type DatabaseConfig struct {
	Host         string
	Port         string
	User         string
	Password     string
	Database     string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
	MaxLifetime  int
	LogLevel     string
	TablePrefix  string
	AutoMigrate  bool
	SeedDemo     bool
}

// JWTConfig holds the shared secret of the hosted auth provider.
type JWTConfig struct {
	SecretKey string
	Issuer    string
}

type RateLimitConfig struct {
	RequestsPerSecond float64
	Burst             int
	LookupsPerMinute  int
	LookupBurst       int
}

type CatalogConfig struct {
	PhoneRegion      string
	CartMergePolicy  string
	DefaultListLimit int
	MaxListLimit     int
	CartIdleTTL      time.Duration
}

type StorageConfig struct {
	Region          string
	AccessKeyID     string
	SecretAccessKey string
	Bucket          string
	CloudFrontURL   string
	Presign         bool
	PresignTTL      time.Duration
}

type LogConfig struct {
	Level  string
	Format string
}

type CORSConfig struct {
	AllowedOrigins []string
}

type I18nConfig struct {
	DefaultLocale string
}

func Load() (*Config, error) {
	// Load .env file if it exists
	godotenv.Load()

	config := &Config{
		Environment: getEnv("ENVIRONMENT", "development"),
		Server: ServerConfig{
			Port:         getEnv("SERVER_PORT", "8080"),
			Host:         getEnv("SERVER_HOST", "localhost"),
			ReadTimeout:  getEnvAsInt("SERVER_READ_TIMEOUT", 15),
			WriteTimeout: getEnvAsInt("SERVER_WRITE_TIMEOUT", 15),
			IdleTimeout:  getEnvAsInt("SERVER_IDLE_TIMEOUT", 60),
		},
		Database: DatabaseConfig{
			Host:         getEnv("DB_HOST", "localhost"),
			Port:         getEnv("DB_PORT", "5432"),
			User:         getEnv("DB_USER", "postgres"),
			Password:     getEnv("DB_PASSWORD", ""),
			Database:     getEnv("DB_NAME", "storefront"),
			SSLMode:      getEnv("DB_SSL_MODE", "disable"),
			MaxOpenConns: getEnvAsInt("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns: getEnvAsInt("DB_MAX_IDLE_CONNS", 25),
			MaxLifetime:  getEnvAsInt("DB_MAX_LIFETIME", 300),
			LogLevel:     getEnv("DB_LOG_LEVEL", "warn"),
			TablePrefix:  getEnv("DB_TABLE_PREFIX", ""),
			AutoMigrate:  getEnvAsBool("DB_AUTO_MIGRATE", false),
			SeedDemo:     getEnvAsBool("DB_SEED_DEMO", false),
		},
		JWT: JWTConfig{
			SecretKey: getEnv("JWT_SECRET", defaultJWTSecret),
			Issuer:    getEnv("JWT_ISSUER", ""),
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: getEnvAsFloat("RATE_LIMIT_RPS", 10),
			Burst:             getEnvAsInt("RATE_LIMIT_BURST", 20),
			LookupsPerMinute:  getEnvAsInt("ORDER_LOOKUP_PER_MINUTE", 10),
			LookupBurst:       getEnvAsInt("ORDER_LOOKUP_BURST", 5),
		},
		Catalog: CatalogConfig{
			PhoneRegion:      strings.ToUpper(getEnv("PHONE_REGION", "CI")),
			CartMergePolicy:  getEnv("CART_MERGE_POLICY", string(cart.MergeNone)),
			DefaultListLimit: getEnvAsInt("CATALOG_DEFAULT_LIMIT", 24),
			MaxListLimit:     getEnvAsInt("CATALOG_MAX_LIMIT", 100),
			CartIdleTTL:      getEnvAsDuration("CART_IDLE_TTL", 24*time.Hour),
		},
		Storage: StorageConfig{
			Region:          getEnv("AWS_REGION", "eu-west-3"),
			AccessKeyID:     getEnv("AWS_ACCESS_KEY_ID", ""),
			SecretAccessKey: getEnv("AWS_SECRET_ACCESS_KEY", ""),
			Bucket:          getEnv("AWS_S3_BUCKET", "storefront-media"),
			CloudFrontURL:   getEnv("AWS_CLOUDFRONT_URL", ""),
			Presign:         getEnvAsBool("AWS_S3_PRESIGN", false),
			PresignTTL:      getEnvAsDuration("AWS_S3_PRESIGN_TTL", 15*time.Minute),
		},
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "text"),
		},
		CORS: CORSConfig{
			AllowedOrigins: getEnvAsList("CORS_ALLOWED_ORIGINS", []string{"http://localhost:5173"}),
		},
		I18n: I18nConfig{
			DefaultLocale: getEnv("DEFAULT_LOCALE", "fr"),
		},
	}

	return config, config.Validate()
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func (c *Config) Validate() error {
	if c.JWT.SecretKey == defaultJWTSecret && c.IsProduction() {
		return apperr.Configuration("JWT secret key must be changed in production")
	}

	if c.Database.Password == "" && c.IsProduction() {
		return apperr.Configuration("database password is required in production")
	}

	if _, ok := phone.DefaultRegistry().Lookup(c.Catalog.PhoneRegion); !ok {
		return apperr.Configuration("unsupported phone region " + c.Catalog.PhoneRegion)
	}

	if _, err := cart.ParseMergePolicy(c.Catalog.CartMergePolicy); err != nil {
		return apperr.Configuration(err.Error())
	}

	if c.Catalog.DefaultListLimit < 1 || c.Catalog.MaxListLimit < c.Catalog.DefaultListLimit {
		return apperr.Configuration("catalog list limits are inconsistent")
	}

	if c.Storage.Presign && (c.Storage.AccessKeyID == "" || c.Storage.SecretAccessKey == "") {
		return apperr.Configuration("S3 presigning requires AWS credentials")
	}

	return nil
}

// Helper functions
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(strings.ToLower(value)); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
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
