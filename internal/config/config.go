package config

import (
	"fmt"  // Error formatting
	"time" // Durations

	"github.com/joho/godotenv"             // For loading .env files
	"github.com/kelseyhightower/envconfig" // Environment decoding
)

// Database drivers
const (
	DriverMySQL    = "mysql"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Authentication strategies
const (
	StrategyFirebase = "firebase" // Verify Firebase ID tokens
	StrategyLocal    = "local"    // Verify self-issued HS256 tokens, development only
)

// Config holds the application configuration
type Config struct {
	AppPort   string `envconfig:"APP_PORT" default:"8080"`   // Application port
	IsProd    bool   `envconfig:"IS_PROD" default:"false"`   // Is production environment
	LogLevel  string `envconfig:"LOG_LEVEL" default:"info"`  // logrus level name
	LogFormat string `envconfig:"LOG_FORMAT" default:"text"` // text or json

	DBDriver   string `envconfig:"DB_DRIVER" default:"mysql"`   // mysql, postgres or sqlite
	DBDSN      string `envconfig:"DB_DSN"`                      // Full DSN, overrides the parts below
	DBUser     string `envconfig:"DB_USER"`                     // Database user
	DBPassword string `envconfig:"DB_PASSWORD"`                 // Database password
	DBHost     string `envconfig:"DB_HOST" default:"127.0.0.1"` // Database host
	DBPort     string `envconfig:"DB_PORT"`                     // Database port
	DBName     string `envconfig:"DB_NAME" default:"budgetin"`  // Database name, file path for sqlite

	RedisAddr string        `envconfig:"REDIS_ADDR"`              // Redis server address, empty disables caching
	RedisPass string        `envconfig:"REDIS_PASS"`              // Redis password
	RedisDB   int           `envconfig:"REDIS_DB" default:"0"`    // Redis database number
	CacheTTL  time.Duration `envconfig:"CACHE_TTL" default:"60s"` // Lifetime of cached reads

	AuthStrategy            string        `envconfig:"AUTH_STRATEGY" default:"firebase"`            // firebase or local
	FirebaseProjectID       string        `envconfig:"FIREBASE_PROJECT_ID"`                         // Firebase project id
	FirebaseCredentialsFile string        `envconfig:"FIREBASE_CREDENTIALS_FILE"`                   // Service account JSON, empty uses ADC
	LocalTokenSecret        string        `envconfig:"LOCAL_TOKEN_SECRET"`                          // HMAC secret for the local strategy
	LocalTokenIssuer        string        `envconfig:"LOCAL_TOKEN_ISSUER" default:"budgetin-local"` // Expected iss for local tokens
	IdentityTimeout         time.Duration `envconfig:"IDENTITY_TIMEOUT" default:"5s"`               // Per-call budget for the identity provider

	AdminEmail    string `envconfig:"ADMIN_EMAIL" default:"admin@budgetin.com"` // Seeded admin account
	AdminName     string `envconfig:"ADMIN_NAME" default:"Admin Budgetin"`      // Seeded admin display name
	AdminPassword string `envconfig:"ADMIN_PASSWORD"`                           // Seeded admin password
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	_ = godotenv.Load() // Load .env file if present
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the combinations envconfig cannot express
func (c *Config) Validate() error {
	switch c.DBDriver {
	case DriverMySQL, DriverPostgres, DriverSQLite:
	default:
		return fmt.Errorf("config: unsupported DB_DRIVER %q", c.DBDriver)
	}
	switch c.AuthStrategy {
	case StrategyFirebase:
	case StrategyLocal:
		if c.LocalTokenSecret == "" {
			return fmt.Errorf("config: LOCAL_TOKEN_SECRET is required for the local auth strategy")
		}
	default:
		return fmt.Errorf("config: unsupported AUTH_STRATEGY %q", c.AuthStrategy)
	}
	if c.IdentityTimeout <= 0 {
		return fmt.Errorf("config: IDENTITY_TIMEOUT must be positive")
	}
	return nil
}

// CacheEnabled reports whether a Redis address is configured
func (c *Config) CacheEnabled() bool {
	return c.RedisAddr != ""
}
