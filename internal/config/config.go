package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds the application configuration
type Config struct {
	Port        int
	Environment string
	LogLevel    string
	LogFormat   string
	LogDir      string

	DBUser     string
	DBPassword string
	DBHost     string
	DBPort     string
	DBName     string

	MigrateOnStart bool

	JWTSecret      string
	FrontendURL    string
	CatalogPath    string
	TrustedProxies []string

	GachaCost     int
	RateCommon    float64
	RateRare      float64
	RateLegendary float64
}

// Load loads the configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists, but don't fail if it doesn't (could be real env vars)
	_ = godotenv.Load()

	cfg := &Config{
		Environment: getEnv("APP_ENV", "dev"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		LogFormat:   getEnv("LOG_FORMAT", "text"),
		LogDir:      getEnv("LOG_DIR", "logs"),
		DBUser:      getEnv("DB_USER", "postgres"),
		DBPassword:  getEnv("DB_PASSWORD", "postgres"),
		DBHost:      getEnv("DB_HOST", "localhost"),
		DBPort:      getEnv("DB_PORT", "5432"),
		DBName:      getEnv("DB_NAME", "floris"),
		JWTSecret:   getEnv("JWT_SECRET", "secret_key"),
		FrontendURL: getEnv("FRONTEND_URL", "https://floris-ebon.vercel.app"),
		CatalogPath: getEnv("CATALOG_PATH", "configs/flowers.json"),
	}

	var err error
	if cfg.Port, err = getEnvInt("PORT", 8080); err != nil {
		return nil, err
	}
	if cfg.GachaCost, err = getEnvInt("GACHA_COST", 100); err != nil {
		return nil, err
	}
	if cfg.RateCommon, err = getEnvFloat("GACHA_RATE_COMMON", 0.6); err != nil {
		return nil, err
	}
	if cfg.RateRare, err = getEnvFloat("GACHA_RATE_RARE", 0.3); err != nil {
		return nil, err
	}
	if cfg.RateLegendary, err = getEnvFloat("GACHA_RATE_LEGENDARY", 0.1); err != nil {
		return nil, err
	}
	cfg.MigrateOnStart = getEnv("MIGRATE_ON_START", "false") == "true"
	if raw := getEnv("TRUSTED_PROXIES", ""); raw != "" {
		for _, p := range strings.Split(raw, ",") {
			if p = strings.TrimSpace(p); p != "" {
				cfg.TrustedProxies = append(cfg.TrustedProxies, p)
			}
		}
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// validate checks configuration invariants that would otherwise surface as
// confusing runtime behavior.
func (c *Config) validate() error {
	if c.GachaCost <= 0 {
		return fmt.Errorf("GACHA_COST must be positive, got %d", c.GachaCost)
	}
	sum := c.RateCommon + c.RateRare + c.RateLegendary
	if sum < 0.999 || sum > 1.001 {
		return fmt.Errorf("gacha rates must sum to 1.0, got %.3f", sum)
	}
	return nil
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) (int, error) {
	raw, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value: %w", key, err)
	}
	return v, nil
}

func getEnvFloat(key string, defaultValue float64) (float64, error) {
	raw, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value: %w", key, err)
	}
	return v, nil
}

// GetDBConnString returns the PostgreSQL connection string
func (c *Config) GetDBConnString() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		c.DBUser,
		c.DBPassword,
		c.DBHost,
		c.DBPort,
		c.DBName,
	)
}
