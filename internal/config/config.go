package config

import (
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all application configuration
type Config struct {
	Port     string `yaml:"port"`
	MongoURI string `yaml:"mongo_uri"`
	RedisURL string `yaml:"redis_url"`

	// JWTSecret signs access and refresh tokens
	JWTSecret string `yaml:"jwt_secret"`

	// Invite code issuance quota per rolling week
	InviteWeeklyQuota int `yaml:"invite_weekly_quota"`

	// Away archive page size (items per type per day page)
	AwayPageSize int `yaml:"away_page_size"`

	// MetadataFetchTimeout bounds the best-effort page title fetch
	MetadataFetchTimeout time.Duration `yaml:"metadata_fetch_timeout"`
	MetadataFetchEnabled bool          `yaml:"metadata_fetch_enabled"`
}

// Load builds configuration from environment variables with defaults,
// then overlays an optional YAML file named by CULTIVATE_CONFIG.
func Load() *Config {
	cfg := &Config{
		Port:                 getEnv("PORT", "3001"),
		MongoURI:             getEnv("MONGODB_URI", "mongodb://localhost:27017/cultivate"),
		RedisURL:             getEnv("REDIS_URL", ""),
		JWTSecret:            getEnv("JWT_SECRET", ""),
		InviteWeeklyQuota:    getIntEnv("INVITE_WEEKLY_QUOTA", 5),
		AwayPageSize:         getIntEnv("AWAY_PAGE_SIZE", 20),
		MetadataFetchTimeout: getDurationEnv("METADATA_FETCH_TIMEOUT", 8*time.Second),
		MetadataFetchEnabled: getBoolEnv("METADATA_FETCH_ENABLED", true),
	}

	if path := os.Getenv("CULTIVATE_CONFIG"); path != "" {
		// Overlay is best-effort: a missing or malformed file keeps the
		// env-derived values.
		if data, err := os.ReadFile(path); err == nil {
			_ = yaml.Unmarshal(data, cfg)
		}
	}

	return cfg
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		parsed, err := strconv.ParseBool(value)
		if err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		parsed, err := strconv.Atoi(value)
		if err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		parsed, err := time.ParseDuration(value)
		if err == nil {
			return parsed
		}
	}
	return defaultValue
}
