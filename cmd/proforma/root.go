package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"flipforma-backend/internal/application/projects"
	"flipforma-backend/internal/config"
	"flipforma-backend/internal/interfaces/router"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var (
	flagJSON    bool
	flagVerbose bool
)

var rootCmd = &cobra.Command{
	Use:          "proforma",
	Short:        "Fix-and-flip pro forma calculator",
	Long:         "Compute fix-and-flip pro formas and manage saved projects in the configured store.",
	SilenceUsage: true,
}

// Execute is the main entry point called from main.go.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&flagJSON, "json", false, "Print JSON instead of tables")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "Log store activity to stderr")
}

// openService loads config the way the API does and opens the configured project store.
// The returned func releases the store's connections.
func openService() (*projects.Service, func(), error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("config: %w", err)
	}
	config.SetupLogging(cfg)
	if !flagVerbose {
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	}

	deps, err := router.OpenStore(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("opening %s store: %w", cfg.StorageBackend, err)
	}
	closeFn := func() {
		if deps.Rdb != nil {
			_ = deps.Rdb.Close()
		}
		if deps.DB != nil {
			if sqlDB, err := deps.DB.DB(); err == nil {
				_ = sqlDB.Close()
			}
		}
	}
	return projects.NewService(deps.Store), closeFn, nil
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
