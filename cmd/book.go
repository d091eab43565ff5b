package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"catalog-sync/core/config"
	"catalog-sync/core/database"
	"catalog-sync/core/logger"
	"catalog-sync/feature/catalog/models"
	"catalog-sync/feature/catalog/rdf"
	"catalog-sync/feature/catalog/record"
	"catalog-sync/feature/catalog/repository"
	"catalog-sync/feature/integrity/checks"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// bookCmd represents the book command
var bookCmd = &cobra.Command{
	Use:   "book [id]",
	Short: "View details and validity of a catalog item",
	Long:  `Compares the live record of an item with its stored book row and relations.`,
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		id, err := strconv.Atoi(args[0])
		if err != nil || id <= 0 {
			fmt.Printf("Invalid item id %q\n", args[0])
			os.Exit(1)
		}
		runBookCheck(cmd.Context(), id)
	},
}

func init() {
	RootCmd.AddCommand(bookCmd)
}

func runBookCheck(ctx context.Context, id int) {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	logg, err := logger.New(&cfg.Log)
	if err != nil {
		fmt.Printf("Failed to create logger: %v\n", err)
		os.Exit(1)
	}

	db, err := database.Connect(cfg.Database)
	if err != nil {
		logg.Fatal("Failed to connect to database", zap.Error(err))
	}

	report := checks.BookReport{ID: id, Mismatch: []string{}}

	path := filepath.Join(cfg.Catalog.LiveDir, strconv.Itoa(id), cfg.Catalog.RecordName(id))
	var rec *record.Record
	if r, err := rdf.NewReader(afero.NewOsFs()).Read(id, path); err != nil {
		logg.Warn("Record not readable", zap.String("path", path), zap.Error(err))
	} else {
		rec = r
		report.RecordPresent = true
	}

	var book *models.Book
	if b, err := repository.New(db).GetBook(ctx, id); err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			logg.Fatal("Failed to load book", zap.Error(err))
		}
	} else {
		book = b
		report.DBPresent = true
	}

	if rec != nil && book != nil {
		report.Mismatch = checks.CompareBook(rec, book)
	}

	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		logg.Fatal("Failed to marshal report", zap.Error(err))
	}
	fmt.Println(string(data))

	if !report.RecordPresent || !report.DBPresent || len(report.Mismatch) > 0 {
		logg.Warn("Item is not consistent", zap.Int("id", id))
		return
	}
	logg.Info("Item is consistent", zap.Int("id", id))
}
