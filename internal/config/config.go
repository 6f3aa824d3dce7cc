package config

import (
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration
type Config struct {
	Server      ServerConfig
	MongoDB     MongoDBConfig
	Collections CollectionsConfig
	Redis       RedisConfig
	RateLimit   RateLimitConfig
	Log         LogConfig
}

type ServerConfig struct {
	Port         string
	Host         string
	Environment  string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	// TrustedGateways lists the peers (CIDR or IP) allowed to set the actor
	// header and X-Forwarded-For.
	TrustedGateways []string
}

type MongoDBConfig struct {
	URI      string
	Database string
	Timeout  time.Duration
}

// CollectionsConfig names the meeting collection and the three collections
// joined into meeting reads.
type CollectionsConfig struct {
	Meetings string
	Contacts string
	Leads    string
	Users    string
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

type RateLimitConfig struct {
	Enabled       bool
	UseRedis      bool
	RPS           float64
	Burst         int
	WindowSeconds int
}

type LogConfig struct {
	Level      string
	File       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
}

// LoadConfig loads configuration from environment variables and .env file.
// MONGODB_URI is optional; without it the service runs on the in-memory store.
func LoadConfig() (*Config, error) {
	_ = godotenv.Load(".env")

	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("SERVER_PORT", "5001")
	v.SetDefault("SERVER_HOST", "0.0.0.0")
	v.SetDefault("SERVER_ENVIRONMENT", "development")
	v.SetDefault("MONGODB_DATABASE", "crm")
	v.SetDefault("MONGODB_TIMEOUT", 10)
	v.SetDefault("MEETINGS_COLLECTION", "Meetings")
	v.SetDefault("CONTACTS_COLLECTION", "Contacts")
	v.SetDefault("LEADS_COLLECTION", "Leads")
	v.SetDefault("USERS_COLLECTION", "User")
	v.SetDefault("REDIS_PORT", "6379")
	v.SetDefault("RATE_LIMIT_RPS", 10.0)
	v.SetDefault("RATE_LIMIT_BURST", 20)
	v.SetDefault("RATE_LIMIT_WINDOW_SECONDS", 1)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_MAX_SIZE_MB", 100)
	v.SetDefault("LOG_MAX_BACKUPS", 10)
	v.SetDefault("LOG_MAX_AGE_DAYS", 30)

	cfg := &Config{
		Server: ServerConfig{
			Port:            v.GetString("SERVER_PORT"),
			Host:            v.GetString("SERVER_HOST"),
			Environment:     v.GetString("SERVER_ENVIRONMENT"),
			ReadTimeout:     30 * time.Second,
			WriteTimeout:    30 * time.Second,
			TrustedGateways: splitList(v.GetString("TRUSTED_GATEWAYS")),
		},
		MongoDB: MongoDBConfig{
			URI:      v.GetString("MONGODB_URI"),
			Database: v.GetString("MONGODB_DATABASE"),
			Timeout:  time.Duration(v.GetInt("MONGODB_TIMEOUT")) * time.Second,
		},
		Collections: CollectionsConfig{
			Meetings: v.GetString("MEETINGS_COLLECTION"),
			Contacts: v.GetString("CONTACTS_COLLECTION"),
			Leads:    v.GetString("LEADS_COLLECTION"),
			Users:    v.GetString("USERS_COLLECTION"),
		},
		Redis: RedisConfig{
			Host:     v.GetString("REDIS_HOST"),
			Port:     v.GetString("REDIS_PORT"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
		},
		RateLimit: RateLimitConfig{
			Enabled:       v.GetBool("RATE_LIMIT_ENABLED"),
			UseRedis:      v.GetBool("RATE_LIMIT_USE_REDIS"),
			RPS:           v.GetFloat64("RATE_LIMIT_RPS"),
			Burst:         v.GetInt("RATE_LIMIT_BURST"),
			WindowSeconds: v.GetInt("RATE_LIMIT_WINDOW_SECONDS"),
		},
		Log: LogConfig{
			Level:      v.GetString("LOG_LEVEL"),
			File:       v.GetString("LOG_FILE"),
			MaxSizeMB:  v.GetInt("LOG_MAX_SIZE_MB"),
			MaxBackups: v.GetInt("LOG_MAX_BACKUPS"),
			MaxAgeDays: v.GetInt("LOG_MAX_AGE_DAYS"),
		},
	}

	if cfg.MongoDB.URI != "" && cfg.MongoDB.Database == "" {
		return nil, fmt.Errorf("MONGODB_DATABASE is required when MONGODB_URI is set")
	}
	if cfg.RateLimit.Enabled && cfg.RateLimit.RPS <= 0 {
		return nil, fmt.Errorf("RATE_LIMIT_RPS must be positive, got %v", cfg.RateLimit.RPS)
	}
	for _, g := range cfg.Server.TrustedGateways {
		if net.ParseIP(g) == nil {
			if _, _, err := net.ParseCIDR(g); err != nil {
				return nil, fmt.Errorf("TRUSTED_GATEWAYS: invalid entry %q", g)
			}
		}
	}
	return cfg, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
