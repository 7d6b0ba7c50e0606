package config

import (
	"time"

	"github.com/spf13/viper"
)

type (
	Config struct {
		HTTP
		Database
		Lookup
		EnrichSync
		CORS
		Global
	}

	HTTP struct {
		Port int32
		Host string
	}
	Database struct {
		Path string
	}
	Lookup struct {
		BaseURL          string
		Language         string
		TimeoutInSeconds int
	}
	EnrichSync struct {
		Enabled  bool
		Schedule string // Cron format: "0 * * * *" = hourly
	}
	CORS struct {
		AllowedOrigins []string
	}
	Global struct {
		ShutdownTimeoutInSeconds int
	}
)

// LookupTimeout returns the external lookup timeout as a duration.
func (c *Config) LookupTimeout() time.Duration {
	return time.Duration(c.Lookup.TimeoutInSeconds) * time.Second
}

func NewConfig() *Config {
	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("port", 8080)
	v.SetDefault("host", "0.0.0.0")
	v.SetDefault("shutdown_timeout_in_seconds", 2)
	v.SetDefault("database_path", "./bookstore.db")

	// External lookup defaults
	v.SetDefault("lookup_base_url", "https://www.googleapis.com/books/v1")
	v.SetDefault("lookup_language", "pt")
	v.SetDefault("lookup_timeout_in_seconds", 10)

	// Enrichment sweep defaults
	v.SetDefault("enrich_sync_enabled", false)
	v.SetDefault("enrich_sync_schedule", "0 * * * *") // Hourly at :00

	v.SetDefault("cors_allowed_origins", []string{"*"})

	return &Config{
		HTTP: HTTP{
			Port: v.GetInt32("PORT"),
			Host: v.GetString("HOST"),
		},
		Database: Database{
			Path: v.GetString("DATABASE_PATH"),
		},
		Lookup: Lookup{
			BaseURL:          v.GetString("LOOKUP_BASE_URL"),
			Language:         v.GetString("LOOKUP_LANGUAGE"),
			TimeoutInSeconds: v.GetInt("LOOKUP_TIMEOUT_IN_SECONDS"),
		},
		EnrichSync: EnrichSync{
			Enabled:  v.GetBool("ENRICH_SYNC_ENABLED"),
			Schedule: v.GetString("ENRICH_SYNC_SCHEDULE"),
		},
		CORS: CORS{
			AllowedOrigins: v.GetStringSlice("CORS_ALLOWED_ORIGINS"),
		},
		Global: Global{
			ShutdownTimeoutInSeconds: v.GetInt("SHUTDOWN_TIMEOUT_IN_SECONDS"),
		},
	}
}
