package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type (
	Config struct {
		Database
		Log
	}

	Database struct {
		URL          string
		Echo         bool          // Log every SQL statement
		MaxRetries   int           // Total attempts for transiently failing operations
		RetryDelay   time.Duration // Fixed pause between attempts
		MaxOpenConns int           // Pool cap for PostgreSQL and MySQL
		AutoMigrate  bool
	}
	Log struct {
		Level      string // trace, debug, info, warn, error
		File       string // Rotating log file; empty logs to the console only
		MaxSizeMB  int
		MaxBackups int
		MaxAgeDays int
		Compress   bool
	}
)

func newViper() *viper.Viper {
	v := viper.New()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("database.url", DefaultDatabaseURL)
	v.SetDefault("database.echo", false)
	v.SetDefault("database.max_retries", DefaultMaxRetries)
	v.SetDefault("database.retry_delay", DefaultRetryDelay)
	v.SetDefault("database.max_open_conns", DefaultMaxOpenConns)
	v.SetDefault("database.auto_migrate", true)

	v.SetDefault("log.level", DefaultLogLevel)
	v.SetDefault("log.file", "")
	v.SetDefault("log.max_size_mb", DefaultLogMaxSizeMB)
	v.SetDefault("log.max_backups", DefaultLogMaxBackups)
	v.SetDefault("log.max_age_days", DefaultLogMaxAgeDays)
	v.SetDefault("log.compress", true)
	return v
}

// NewConfig reads the configuration from the environment, e.g. DATABASE_URL
// or LOG_LEVEL, falling back to defaults.
func NewConfig() *Config {
	return fromViper(newViper())
}

// Load reads the config file at path and lets the environment override it.
// An empty path behaves like NewConfig.
func Load(path string) (*Config, error) {
	v := newViper()
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}
	return fromViper(v), nil
}

func fromViper(v *viper.Viper) *Config {
	return &Config{
		Database: Database{
			URL:          v.GetString("database.url"),
			Echo:         v.GetBool("database.echo"),
			MaxRetries:   v.GetInt("database.max_retries"),
			RetryDelay:   v.GetDuration("database.retry_delay"),
			MaxOpenConns: v.GetInt("database.max_open_conns"),
			AutoMigrate:  v.GetBool("database.auto_migrate"),
		},
		Log: Log{
			Level:      strings.ToLower(v.GetString("log.level")),
			File:       v.GetString("log.file"),
			MaxSizeMB:  v.GetInt("log.max_size_mb"),
			MaxBackups: v.GetInt("log.max_backups"),
			MaxAgeDays: v.GetInt("log.max_age_days"),
			Compress:   v.GetBool("log.compress"),
		},
	}
}
