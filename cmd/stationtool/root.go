package main

import (
	"context"
	"database/sql"
	"errors"
	"ev-route-service/internal/adapters/repositories"
	"ev-route-service/internal/config"
	"ev-route-service/internal/platform/db"
	"ev-route-service/internal/platform/obs"
	"ev-route-service/internal/ports"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var cfgPath string

var rootCmd = &cobra.Command{
	Use:          "stationtool",
	Short:        "Manage the charging station store",
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", config.Get("CONFIG_PATH", ""), "configuration file")
}

// toolEnv carries what every subcommand needs.
type toolEnv struct {
	cfg    *config.Config
	ctx    context.Context
	db     *sql.DB
	logger zerolog.Logger
}

func (e *toolEnv) Close() {
	if e.db != nil {
		_ = e.db.Close()
	}
}

// setup loads config and opens the database when the command or the store needs it.
func setup(cmd *cobra.Command, needDB bool) (*toolEnv, error) {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	logger := obs.NewLogger(cfg.Logging, "stationtool")
	e := &toolEnv{cfg: cfg, ctx: logger.WithContext(cmd.Context()), logger: logger}

	if needDB || cfg.Store.Backend == "postgres" {
		if strings.TrimSpace(cfg.Store.DatabaseURL) == "" {
			return nil, errors.New("store.database_url (DATABASE_URL) is required")
		}
		e.db, err = db.Open(cfg.Store.DatabaseURL)
		if err != nil {
			return nil, err
		}
	}
	return e, nil
}

func (e *toolEnv) stations() ports.StationRepository {
	if e.cfg.Store.Backend == "postgres" {
		return repositories.NewSQLStationRepository(e.db)
	}
	return repositories.NewFileStationRepository(e.cfg.Store.StationsPath)
}
