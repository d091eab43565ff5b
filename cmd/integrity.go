package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"catalog-sync/core/config"
	"catalog-sync/core/database"
	"catalog-sync/core/logger"
	"catalog-sync/core/storage"
	"catalog-sync/feature/integrity"
	"catalog-sync/feature/integrity/checks"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var fixFlag bool

// integrityCmd represents the integrity command
var integrityCmd = &cobra.Command{
	Use:   "integrity",
	Short: "Check that the bucket, the live tree and the database agree",
	Long:  `Runs every integrity check. Use a subcommand to run a single one.`,
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) > 0 {
			cmd.Help()
			return
		}
		runIntegrityChecks(cmd.Context(), true, true, true)
	},
}

// bucketCmd represents the integrity bucket command
var bucketCmd = &cobra.Command{
	Use:   "bucket",
	Short: "Check and fix bucket folders and the archive object",
	Run: func(cmd *cobra.Command, args []string) {
		runIntegrityChecks(cmd.Context(), true, false, false)
	},
}

// treeCmd represents the integrity tree command
var treeCmd = &cobra.Command{
	Use:   "tree",
	Short: "Compare the live record tree with the book rows",
	RunE: func(cmd *cobra.Command, args []string) error {
		jsonOutput, _ := cmd.Flags().GetBool("json")
		if !jsonOutput {
			runIntegrityChecks(cmd.Context(), false, true, false)
			return nil
		}

		svc, logg, err := newIntegrityService()
		if err != nil {
			return err
		}
		report, err := svc.CheckTree(cmd.Context())
		if err != nil {
			return fmt.Errorf("tree check failed: %w", err)
		}

		data, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal JSON: %w", err)
		}
		fmt.Println(string(data))
		logg.Info("Tree check completed", zap.Bool("ok", report.OK()))
		return nil
	},
}

// schemaCmd represents the integrity schema command
var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Check the database schema against the catalog models",
	Run: func(cmd *cobra.Command, args []string) {
		runIntegrityChecks(cmd.Context(), false, false, true)
	},
}

func init() {
	RootCmd.AddCommand(integrityCmd)
	integrityCmd.AddCommand(bucketCmd, treeCmd, schemaCmd)

	bucketCmd.Flags().BoolVar(&fixFlag, "fix", false, "Create missing folders")
	treeCmd.Flags().Bool("json", false, "Print the full report as JSON")
}

// newIntegrityService wires the checks from the configuration. Storage and
// database are optional; checks needing a missing one report an error.
func newIntegrityService() (*integrity.Service, *zap.Logger, error) {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}

	logg, err := logger.New(&cfg.Log)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create logger: %w", err)
	}

	var client storage.Client
	if c, err := storage.NewClient(cfg.Storage); err != nil {
		logg.Warn("Storage client unavailable", zap.Error(err))
	} else {
		client = c
	}

	var db *gorm.DB
	if conn, err := database.Connect(cfg.Database); err != nil {
		logg.Warn("Optional database connection failed", zap.Error(err))
	} else {
		db = conn
	}

	prefixes := checks.RequiredPrefixes(cfg.Catalog.BucketObject, cfg.Notify.BucketPrefix)
	svc := integrity.NewService(client, cfg.Storage.Bucket, prefixes, cfg.Catalog, afero.NewOsFs(), db, logg)
	return svc, logg, nil
}

func runIntegrityChecks(ctx context.Context, runBucket, runTree, runSchema bool) {
	svc, logg, err := newIntegrityService()
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
	onlyBucket := runBucket && !runTree && !runSchema

	if runBucket {
		logg.Info("Checking bucket folders...")
		missing, err := svc.CheckBucket(ctx)
		switch {
		case err != nil:
			logg.Error("Bucket check failed", zap.Error(err))
		case len(missing) == 0:
			logg.Info("Bucket folders are intact.")
		default:
			logg.Warn("Missing folders detected", zap.Strings("missing", missing))

			if onlyBucket && fixFlag {
				logg.Info("Fixing missing folders...")
				if err := svc.FixBucket(ctx, missing); err != nil {
					logg.Fatal("Failed to fix bucket folders", zap.Error(err))
				}
				logg.Info("Bucket folders fixed successfully.")
			} else if onlyBucket {
				logg.Info("Run with --fix to create missing folders.")
			}
		}

		if found, err := svc.CheckArchive(ctx); err != nil {
			logg.Error("Archive check failed", zap.Error(err))
		} else if !found {
			logg.Warn("Archive object not found, the bucket source will fail")
		} else {
			logg.Info("Archive object is present.")
		}
	}

	if runTree {
		logg.Info("Comparing live tree with the catalog (this might take a while)...")
		report, err := svc.CheckTree(ctx)
		if err != nil {
			logg.Error("Tree check failed", zap.Error(err))
		} else if report.OK() {
			logg.Info("Live tree matches the catalog.", zap.Int("items", report.Items))
		} else {
			logg.Warn("Live tree and catalog disagree",
				zap.Int("items", report.Items),
				zap.Int("books", report.Books),
				zap.Int("unindexed", len(report.Unindexed)),
				zap.Int("orphaned", len(report.Orphaned)),
				zap.Int("missing_records", len(report.MissingRecords)),
			)
		}
	}

	if runSchema {
		logg.Info("Checking database schema...")
		report, err := svc.CheckSchema()
		if err != nil {
			logg.Error("Schema check failed", zap.Error(err))
			return
		}
		if report.Matched {
			logg.Info("Schema matches the catalog models.")
			return
		}
		logg.Warn("Schema mismatches found")
		for table, tblReport := range report.Tables {
			if tblReport.Status == "ok" {
				continue
			}
			if len(tblReport.MissingColumns) > 0 {
				logg.Warn("Missing Columns", zap.String("table", table), zap.Strings("columns", tblReport.MissingColumns))
			}
			if len(tblReport.TypeMismatches) > 0 {
				logg.Warn("Type Mismatches", zap.String("table", table), zap.Strings("mismatches", tblReport.TypeMismatches))
			}
		}
		for _, e := range report.Errors {
			logg.Error("Inspection Error", zap.String("error", e))
		}
	}
}
