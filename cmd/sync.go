package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"catalog-sync/core/config"
	"catalog-sync/core/database"
	"catalog-sync/core/logger"
	"catalog-sync/core/notify"
	"catalog-sync/core/storage"
	"catalog-sync/feature/catalog/models"
	"catalog-sync/feature/catalog/rdf"
	"catalog-sync/feature/catalog/repository"
	catalogsync "catalog-sync/feature/catalog/sync"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	syncSource       string
	syncArchive      string
	syncDryRun       bool
	syncSkipDownload bool
)

// syncCmd runs the catalog pipeline once.
var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Download the RDF catalog and bring the local mirror up to date",
	Long: `Downloads the published RDF bundle, extracts it into a staging area, prunes
items that disappeared upstream, mirrors the rest over the live tree and loads
every record into the database.

Examples:
  # Regular run
  sync

  # Report what would change without touching the live tree or the database
  sync --dry-run

  # Use an archive that was fetched out of band
  sync --skip-download --archive data/rdf-files.tar.zip`,
	RunE: runSync,
}

func init() {
	syncCmd.Flags().StringVar(&syncSource, "source", "", "Archive source: http, file or bucket (defaults to catalog.source)")
	syncCmd.Flags().StringVar(&syncArchive, "archive", "", "Archive location, overrides the staging archive path")
	syncCmd.Flags().BoolVar(&syncDryRun, "dry-run", false, "Stop after computing the plan")
	syncCmd.Flags().BoolVar(&syncSkipDownload, "skip-download", false, "Use --archive as is instead of fetching it")

	RootCmd.AddCommand(syncCmd)
}

func runSync(cmd *cobra.Command, args []string) error {
	started := time.Now()

	cfg, err := config.LoadConfig(".")
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	switch syncSource {
	case "":
	case catalogsync.SourceHTTP, catalogsync.SourceFile, catalogsync.SourceBucket:
		cfg.Catalog.Source = syncSource
	default:
		return fmt.Errorf("unknown --source %q, expected http, file or bucket", syncSource)
	}
	if syncSkipDownload && syncArchive == "" {
		return errors.New("--skip-download requires --archive")
	}

	l, runLog, err := logger.NewWithRunLog(&cfg.Log, started)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer runLog.Close()
	defer l.Sync()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.Connect(cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := database.Migrate(db, models.All()...); err != nil {
		return fmt.Errorf("failed to migrate catalog schema: %w", err)
	}
	store := repository.New(db)

	var client storage.Client
	if cfg.Catalog.Source == catalogsync.SourceBucket || cfg.Notify.BucketPrefix != "" {
		if client, err = storage.NewClient(cfg.Storage); err != nil {
			return fmt.Errorf("failed to connect to storage: %w", err)
		}
	}

	fs := afero.NewOsFs()
	transfer, err := newTransfer(fs, cfg, client)
	if err != nil {
		return err
	}

	orch := catalogsync.NewOrchestrator(
		fs,
		cfg.Catalog,
		store,
		catalogsync.NewAcquirer(fs, transfer, cfg.Transfer, cfg.Catalog.MinArchiveBytes, l),
		catalogsync.NewExtractor(fs, cfg.Catalog, l),
		catalogsync.NewDirectoryDiffer(fs),
		catalogsync.NewPruner(fs, store, cfg.Catalog.LiveDir, l),
		catalogsync.NewMaterializer(fs, l),
		catalogsync.NewReconciler(fs, store, rdf.NewReader(fs), cfg.Catalog, l),
		l,
	)

	report, runErr := orch.Run(ctx, catalogsync.Options{
		DryRun:       syncDryRun,
		SkipDownload: syncSkipDownload,
		ArchivePath:  syncArchive,
	})
	if report != nil {
		l.Info("Sync finished",
			zap.String("state", string(report.State)),
			zap.Int("added", report.Plan.Added),
			zap.Int("stale", report.Plan.Stale),
			zap.Int64("pruned", report.Prune.Books),
			zap.Int("reconciled", report.Reconcile.Items),
			zap.Duration("duration", report.Duration),
		)
	}

	if n := notify.FromConfig(cfg.Notify, client, cfg.Storage.Bucket); n != nil {
		deliverRunLog(n, runLog, l, runErr)
	}

	if runErr != nil && !catalogsync.IsRetryable(runErr) {
		l.Error("Catalog is partially reconciled, fix the failing record before the next run")
	}
	return runErr
}

// newTransfer picks the archive transfer for the configured source.
func newTransfer(fs afero.Fs, cfg *config.Config, client storage.Client) (catalogsync.Transfer, error) {
	switch cfg.Catalog.Source {
	case catalogsync.SourceHTTP, "":
		var progress io.Writer
		if cfg.Transfer.Progress {
			progress = os.Stderr
		}
		return catalogsync.NewHTTPTransfer(fs, cfg.Catalog.URL, cfg.Transfer.Timeout(), progress), nil
	case catalogsync.SourceFile:
		return catalogsync.NewFileTransfer(fs, cfg.Catalog.FallbackPath), nil
	case catalogsync.SourceBucket:
		return catalogsync.NewBucketTransfer(fs, client, cfg.Storage.Bucket, cfg.Catalog.BucketObject), nil
	default:
		return nil, fmt.Errorf("unknown catalog source %q", cfg.Catalog.Source)
	}
}

// deliverRunLog sends the run log text through n. Delivery failures are logged only.
func deliverRunLog(n notify.Notifier, runLog *logger.RunLog, l *zap.Logger, runErr error) {
	subject := "succeeded"
	if runErr != nil {
		subject = "failed"
	}

	_ = l.Sync()
	text, err := runLog.Text()
	if err != nil {
		l.Warn("Failed to read run log", zap.Error(err))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	msg := notify.Message{Subject: subject, LogName: filepath.Base(runLog.Path), LogText: text}
	if err := n.Notify(ctx, msg); err != nil {
		l.Warn("Failed to deliver run log", zap.Error(err))
	}
}
