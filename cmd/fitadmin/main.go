// Command fitadmin is the operator tool for a SchoolFit user store.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"schoolfit/internal/config"
	"schoolfit/internal/repository"
)

var (
	storeBackend string
	dataFile     string
)

var rootCmd = &cobra.Command{
	Use:           "fitadmin",
	Short:         "fitadmin manages a SchoolFit user store",
	Long:          "fitadmin exports and imports SchoolFit backups, grades NAPFA scores and prints house standings.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&storeBackend, "store", "", "Store backend: json, sqlite, postgres, mysql or mongo (default from STORE_BACKEND)")
	rootCmd.PersistentFlags().StringVar(&dataFile, "data-file", "", "JSON store path (default from DATA_FILE)")
}

// loadConfig reads the server configuration and applies the command line overrides
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if storeBackend != "" {
		cfg.StoreBackend = storeBackend
	}
	if dataFile != "" {
		cfg.DataFile = dataFile
	}
	return cfg, nil
}

// openUsers opens the configured store and loads every user record. The
// returned close function releases the store.
func openUsers(ctx context.Context) (*repository.UserRepository, *config.Config, func(), error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, nil, err
	}
	store, err := repository.OpenStore(ctx, cfg)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to open store: %w", err)
	}
	users := repository.NewUserRepository(store)
	if err := users.Load(ctx); err != nil {
		store.Close()
		return nil, nil, nil, fmt.Errorf("failed to load users: %w", err)
	}
	return users, cfg, func() { store.Close() }, nil
}
