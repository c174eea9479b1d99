// Package config loads application settings from a .env file and environment variables.
// Environment variables always take precedence over .env file values.
package config

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	// PostgreSQL – either set DatabaseURL directly, or the individual fields.
	DatabaseURL string
	DBUser      string
	DBPass      string
	DBHost      string
	DBPort      string
	DBName      string
	DBSSLMode   string

	// JWT signing secret shared with the identity provider (required).
	JWTSecret string

	// Server
	Debug      bool
	Port       string
	TLSDomains []string

	// Video blob store
	VideoDir     string
	VideoBaseURL string

	// Analysis pipeline
	AnalysisWorkerURL string
	AnalysisWorkers   int
	AnalysisTimeout   time.Duration
	CheatThreshold    float64

	// Leaderboard recompute interval.
	LeaderboardInterval time.Duration
}

// Load reads configuration from a .env file (if present) and then from
// environment variables. Environment variables always win.
func Load() *Config {
	v := newViper()

	// Defaults
	v.SetDefault("DB_USER", "sporty")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_NAME", "sporty")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("PORT", ":9000")
	v.SetDefault("TLS_DOMAINS", "api.sporty-talent.in")
	v.SetDefault("DEBUG", false)
	v.SetDefault("VIDEO_DIR", "videos")
	v.SetDefault("VIDEO_BASE_URL", "http://localhost:9000/videos")
	v.SetDefault("ANALYSIS_WORKERS", 4)
	v.SetDefault("ANALYSIS_TIMEOUT", "5m")
	v.SetDefault("CHEAT_THRESHOLD", 0.7)
	v.SetDefault("LEADERBOARD_INTERVAL", "15m")

	cfg := &Config{
		DatabaseURL:         v.GetString("DATABASE_URL"),
		DBUser:              v.GetString("DB_USER"),
		DBPass:              v.GetString("DB_PASS"),
		DBHost:              v.GetString("DB_HOST"),
		DBPort:              v.GetString("DB_PORT"),
		DBName:              v.GetString("DB_NAME"),
		DBSSLMode:           v.GetString("DB_SSLMODE"),
		JWTSecret:           v.GetString("JWT_SECRET"),
		Debug:               v.GetBool("DEBUG"),
		Port:                v.GetString("PORT"),
		TLSDomains:          splitTrimmed(v.GetString("TLS_DOMAINS")),
		VideoDir:            v.GetString("VIDEO_DIR"),
		VideoBaseURL:        v.GetString("VIDEO_BASE_URL"),
		AnalysisWorkerURL:   v.GetString("ANALYSIS_WORKER_URL"),
		AnalysisWorkers:     v.GetInt("ANALYSIS_WORKERS"),
		AnalysisTimeout:     v.GetDuration("ANALYSIS_TIMEOUT"),
		CheatThreshold:      v.GetFloat64("CHEAT_THRESHOLD"),
		LeaderboardInterval: v.GetDuration("LEADERBOARD_INTERVAL"),
	}

	cfg.validate()
	return cfg
}

// PostgresDSN returns the full PostgreSQL connection string.
// DATABASE_URL takes precedence over individual fields.
func (c *Config) PostgresDSN() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.DBUser,
		c.DBPass,
		c.DBHost,
		c.DBPort,
		c.DBName,
		c.DBSSLMode,
	)
}

// JWTKey returns the JWT signing key as a byte slice.
func (c *Config) JWTKey() []byte {
	return []byte(c.JWTSecret)
}

func (c *Config) validate() {
	if c.DatabaseURL == "" && c.DBPass == "" {
		log.Fatal("config: DATABASE_URL or DB_PASS must be set")
	}
	if c.JWTSecret == "" {
		log.Fatal("config: JWT_SECRET must be set")
	}
	if c.AnalysisWorkers < 1 {
		log.Fatal("config: ANALYSIS_WORKERS must be at least 1")
	}
	if c.CheatThreshold <= 0 || c.CheatThreshold > 1 {
		log.Fatal("config: CHEAT_THRESHOLD must be in (0, 1]")
	}
}

func newViper() *viper.Viper {
	// Silently load .env – OK if the file doesn't exist (production uses real env vars).
	if err := godotenv.Load(); err != nil {
		log.Println("config: no .env file found, using environment variables only")
	}

	v := viper.New()
	v.AutomaticEnv()
	return v
}

func splitTrimmed(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}
	return out
}
