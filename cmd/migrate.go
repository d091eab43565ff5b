package cmd

import (
	"fmt"

	"catalog-sync/core/config"
	"catalog-sync/core/database"
	"catalog-sync/core/logger"
	"catalog-sync/feature/catalog/models"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var migrateCheckOnly bool

// migrateCmd creates or upgrades the catalog schema.
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or upgrade the catalog schema",
	Long: `Runs the schema migration for every catalog table and then verifies that each
table has the columns the sync pipeline writes. With --check only the verification runs.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig(".")
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		l, err := logger.New(&cfg.Log)
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		defer l.Sync()

		db, err := database.Connect(cfg.Database)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}

		if !migrateCheckOnly {
			l.Info("Migrating catalog schema", zap.String("driver", cfg.Database.Driver))
			if err := database.Migrate(db, models.All()...); err != nil {
				return fmt.Errorf("failed to migrate catalog schema: %w", err)
			}
		}

		missing, err := database.MissingColumns(db, models.ExpectedColumns())
		if err != nil {
			return err
		}
		if len(missing) > 0 {
			l.Error("Schema is missing columns", zap.Strings("columns", missing))
			return fmt.Errorf("%d columns missing", len(missing))
		}

		l.Info("Schema is up to date")
		return nil
	},
}

func init() {
	migrateCmd.Flags().BoolVar(&migrateCheckOnly, "check", false, "Only verify the schema")
	RootCmd.AddCommand(migrateCmd)
}
