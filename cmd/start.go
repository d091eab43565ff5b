package cmd

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"catalog-sync/core/config"
	"catalog-sync/core/database"
	"catalog-sync/core/loader"
	"catalog-sync/core/logger"
	"catalog-sync/core/middleware/auth"
	"catalog-sync/core/middleware/rayid"
	"catalog-sync/core/middleware/requestlog"
	"catalog-sync/core/storage"
	"catalog-sync/feature/catalog"
	"catalog-sync/feature/integrity"
	"catalog-sync/feature/integrity/checks"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"

	_ "catalog-sync/docs/swagger"
)

// @title Catalog Sync API
// @version 1.0
// @description Read-only API over the synchronized book catalog.
// @host localhost:8080
// @BasePath /
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name X-API-Key

// startCmd represents the start command
var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the catalog API server",
	Long:  `Starts the HTTP server and initializes all enabled features.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := config.LoadConfig(".")
		if err != nil {
			log.Fatalf("Failed to load configuration: %v", err)
		}

		logg, err := logger.New(&cfg.Log)
		if err != nil {
			log.Fatalf("Failed to initialize logger: %v", err)
		}
		defer logg.Sync()
		zap.ReplaceGlobals(logg)

		app, err := newServer(cfg, logg)
		if err != nil {
			logg.Fatal("Failed to load features", zap.Error(err))
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		go func() {
			logg.Info("Starting server", zap.String("port", cfg.Server.Port))
			if err := app.Listen(":" + cfg.Server.Port); err != nil {
				logg.Fatal("Server failed to start", zap.Error(err))
			}
		}()

		<-ctx.Done()
		logg.Info("Shutting down server...")
		if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
			logg.Warn("Shutdown did not complete cleanly", zap.Error(err))
		}
	},
}

func init() {
	RootCmd.AddCommand(startCmd)
}

// newServer builds the fiber app. The database and the bucket are optional:
// without a database only docs and integrity routes that need no rows answer.
func newServer(cfg *config.Config, logg *zap.Logger) (*fiber.App, error) {
	var db *gorm.DB
	if conn, err := database.Connect(cfg.Database); err != nil {
		logg.Warn("Database connection failed, catalog routes disabled", zap.Error(err))
	} else {
		db = conn
		logg.Info("Connected to catalog database")
	}

	var client storage.Client
	if c, err := storage.NewClient(cfg.Storage); err != nil {
		logg.Warn("Storage client unavailable, bucket checks disabled", zap.Error(err))
	} else {
		client = c
	}

	app := fiber.New(fiber.Config{DisableStartupMessage: true})
	app.Use(rayid.New())
	app.Use(requestlog.New(logg))
	app.Get("/swagger/*", swagger.HandlerDefault)
	app.Use(auth.New(auth.Config{ApiKey: cfg.Server.ApiKey}))

	prefixes := checks.RequiredPrefixes(cfg.Catalog.BucketObject, cfg.Notify.BucketPrefix)

	mgr := loader.NewManager()
	mgr.Register(catalog.NewFeature(db, cfg.Server, logg))
	mgr.Register(integrity.NewFeature(client, cfg.Storage.Bucket, prefixes, cfg.Catalog, afero.NewOsFs(), db, logg))

	loaded, err := mgr.LoadAll(app)
	if err != nil {
		return nil, err
	}
	logg.Info("Features loaded", zap.Strings("features", loaded))
	return app, nil
}
