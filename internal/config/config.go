package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds runtime configuration values for the API service.
type Config struct {
	AppName         string
	AppEnv          string
	AppPort         string
	DatabaseURL     string
	AutoMigrate     bool
	RedisURL        string
	NATSURL         string
	NATSSubject     string
	JWTSecret       string
	JWTTTL          time.Duration
	CatalogCacheTTL time.Duration
	LogLevel        string
	AuthRateLimit   int
}

// HTTPAddress returns the address the HTTP server should listen on.
func (c Config) HTTPAddress() string {
	if strings.HasPrefix(c.AppPort, ":") {
		return c.AppPort
	}

	return fmt.Sprintf(":%s", c.AppPort)
}

// Load reads configuration values from environment variables and optional .env file.
func Load() (Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("LABS")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("app.name", "Lab Manager API")
	v.SetDefault("app.env", "development")
	v.SetDefault("app.port", "8080")
	v.SetDefault("database.auto_migrate", true)
	v.SetDefault("nats.subject", "labs.events")
	v.SetDefault("jwt.ttl", "24h")
	v.SetDefault("catalog.cache_ttl", "5m")
	v.SetDefault("log.level", "info")
	v.SetDefault("auth.rate_limit", 10)

	jwtTTL, err := parseDuration(v, "jwt.ttl", 24*time.Hour)
	if err != nil {
		return Config{}, err
	}

	cacheTTL, err := parseDuration(v, "catalog.cache_ttl", 5*time.Minute)
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		AppName:         v.GetString("app.name"),
		AppEnv:          v.GetString("app.env"),
		AppPort:         v.GetString("app.port"),
		DatabaseURL:     v.GetString("database.url"),
		AutoMigrate:     v.GetBool("database.auto_migrate"),
		RedisURL:        v.GetString("redis.url"),
		NATSURL:         v.GetString("nats.url"),
		NATSSubject:     v.GetString("nats.subject"),
		JWTSecret:       v.GetString("jwt.secret"),
		JWTTTL:          jwtTTL,
		CatalogCacheTTL: cacheTTL,
		LogLevel:        strings.ToLower(v.GetString("log.level")),
		AuthRateLimit:   v.GetInt("auth.rate_limit"),
	}

	if cfg.JWTSecret == "" {
		return Config{}, fmt.Errorf("jwt secret must be provided")
	}

	if cfg.AuthRateLimit <= 0 {
		cfg.AuthRateLimit = 10
	}

	return cfg, nil
}

func parseDuration(v *viper.Viper, key string, fallback time.Duration) (time.Duration, error) {
	raw := strings.TrimSpace(v.GetString(key))
	if raw == "" {
		return fallback, nil
	}

	value, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	if value <= 0 {
		return fallback, nil
	}
	return value, nil
}
