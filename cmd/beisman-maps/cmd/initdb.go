package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/beismanmaps/server/internal/adapter/outbound/sqlitedb"
	"github.com/beismanmaps/server/internal/config"
)

var initdbCmd = &cobra.Command{
	Use:   "initdb",
	Short: "Create the database schema",
	Long: `Create the SQLite database and its schema at database.path.

Safe to run repeatedly; existing tables and data are left untouched.`,
	RunE: runInitDB,
}

func init() {
	rootCmd.AddCommand(initdbCmd)
}

func runInitDB(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfigRaw()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger := newLogger(cfg)

	db, err := sqlitedb.Open(cfg.Database.Path, logger)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer func() { _ = db.Close() }()

	if err := db.Migrate(cmd.Context()); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	fmt.Printf("database initialized: %s\n", cfg.Database.Path)
	return nil
}
