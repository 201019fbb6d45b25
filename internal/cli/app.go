// Package cli implements the dbcentral commands.
package cli

import (
	"github.com/rs/zerolog/log"

	"github.com/mrlokans/dbcentral/internal/config"
	"github.com/mrlokans/dbcentral/internal/database"
	"github.com/mrlokans/dbcentral/internal/logging"
)

// App holds the global flags and the configuration shared by every command.
type App struct {
	ConfigPath  string
	DatabaseURL string
	Echo        bool
	Verbose     bool

	cfg *config.Config
}

// load reads the configuration, applies flag overrides and configures logging.
func (a *App) load() error {
	cfg, err := config.Load(a.ConfigPath)
	if err != nil {
		return err
	}
	if a.DatabaseURL != "" {
		cfg.Database.URL = a.DatabaseURL
	}
	if a.Echo {
		cfg.Database.Echo = true
	}
	if a.Verbose {
		cfg.Log.Level = "debug"
	}

	logging.Apply(cfg.Log)
	a.cfg = cfg
	return nil
}

// databaseConfig maps the loaded configuration onto the manager's settings.
func (a *App) databaseConfig() database.Config {
	db := a.cfg.Database
	return database.Config{
		URL:            db.URL,
		Echo:           db.Echo,
		MaxRetries:     db.MaxRetries,
		RetryDelay:     db.RetryDelay,
		MaxOpenConns:   db.MaxOpenConns,
		SkipMigrations: !db.AutoMigrate,
	}
}

// open connects to the configured database.
func (a *App) open() (*database.Manager, error) {
	m, err := database.New(a.databaseConfig())
	if err != nil {
		return nil, err
	}
	log.Debug().Str("engine", string(m.Engine())).Msg("Connected")
	return m, nil
}
