package config

import "time"

// Defaults applied when neither the environment nor a config file set a value.
const (
	// DefaultDatabaseURL is a SQLite file in the working directory
	DefaultDatabaseURL = "sqlite:///dbcentral.db"

	DefaultMaxRetries   = 3
	DefaultRetryDelay   = time.Second
	DefaultMaxOpenConns = 10

	DefaultLogLevel      = "info"
	DefaultLogMaxSizeMB  = 50
	DefaultLogMaxBackups = 5
	DefaultLogMaxAgeDays = 30
)
