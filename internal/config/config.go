package config

import (
	"errors"  // Sentinel errors
	"fmt"     // Error formatting
	"os"      // For environment variables
	"strconv" // For string to int conversion
	"strings" // For splitting lists
	"time"    // For durations

	"github.com/joho/godotenv" // For loading .env files
)

// ErrMissingSetting is returned by Validate for absent required settings
var ErrMissingSetting = errors.New("config: missing required setting")

// Config holds the application configuration
type Config struct {
	AppPort     string        // Application port
	DBDriver    string        // mysql or postgres
	DBUser      string        // Database user
	DBPassword  string        // Database password
	DBHost      string        // Database host
	DBPort      string        // Database port
	DBName      string        // Database name
	JWTSecret   string        // JWT secret key
	JWTTTL      time.Duration // JWT lifetime
	RedisAddr   string        // Redis server address
	RedisPass   string        // Redis password
	RedisDB     int           // Redis database number
	CacheTTL    time.Duration // Lifetime of cached balance and history reads
	IsProd      bool          // Is production environment
	LogLevel    string        // logrus level name
	WalletNames []string      // Wallets to create at startup
}

// LoadConfig loads configuration from environment variables
func LoadConfig() *Config {
	_ = godotenv.Load() // Load .env file if present
	redisDB, _ := strconv.Atoi(os.Getenv("REDIS_DB"))
	return &Config{
		AppPort:     getEnv("APP_PORT", "8080"),
		DBDriver:    getEnv("DB_DRIVER", "mysql"),
		DBUser:      os.Getenv("DB_USER"),
		DBPassword:  os.Getenv("DB_PASSWORD"),
		DBHost:      os.Getenv("DB_HOST"),
		DBPort:      os.Getenv("DB_PORT"),
		DBName:      os.Getenv("DB_NAME"),
		JWTSecret:   os.Getenv("JWT_SECRET"),
		JWTTTL:      getDuration("JWT_TTL", 24*time.Hour),
		RedisAddr:   os.Getenv("REDIS_ADDR"),
		RedisPass:   os.Getenv("REDIS_PASS"),
		RedisDB:     redisDB,
		CacheTTL:    getDuration("CACHE_TTL", 60*time.Second),
		IsProd:      os.Getenv("IS_PROD") == "true",
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		WalletNames: splitList(os.Getenv("WALLET_NAMES")),
	}
}

// Validate fails fast on settings the ledger cannot start without
func (c *Config) Validate() error {
	required := []struct {
		key   string
		value string
	}{
		{"DB_USER", c.DBUser},
		{"DB_HOST", c.DBHost},
		{"DB_PORT", c.DBPort},
		{"DB_NAME", c.DBName},
		{"JWT_SECRET", c.JWTSecret},
	}
	for _, r := range required {
		if r.value == "" {
			return fmt.Errorf("%w: %s", ErrMissingSetting, r.key)
		}
	}
	if len(c.WalletNames) == 0 {
		return fmt.Errorf("%w: WALLET_NAMES", ErrMissingSetting)
	}
	if c.DBDriver != "mysql" && c.DBDriver != "postgres" {
		return fmt.Errorf("config: DB_DRIVER must be mysql or postgres, got %q", c.DBDriver)
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	if d, err := time.ParseDuration(os.Getenv(key)); err == nil && d > 0 {
		return d
	}
	return defaultValue
}

// splitList turns "gems, coins" into ["gems" "coins"]
func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
