package sync

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"sort"
	"strconv"

	"catalog-sync/core/reconcile"
	"catalog-sync/feature/catalog/models"
	"catalog-sync/feature/catalog/record"
	"catalog-sync/feature/catalog/repository"

	"github.com/spf13/afero"
	"go.uber.org/zap"
)

// ReconcileResult summarizes one reconciliation run.
type ReconcileResult struct {
	Items     int                    `json:"items"`
	Links     int                    `json:"links"`
	Formats   reconcile.ChildOutcome `json:"formats"`
	Summaries reconcile.ChildOutcome `json:"summaries"`
}

// ItemOutcome reports what reconciling one record changed.
type ItemOutcome struct {
	BookID    uint
	Links     int
	Formats   reconcile.ChildOutcome
	Summaries reconcile.ChildOutcome
}

// relationSync replaces one link table of a book from a record.
type relationSync struct {
	rel  models.Relation
	sync func(ctx context.Context, tx repository.Store, bookID uint, rec *record.Record) (int, error)
}

func personRelation(rel models.Relation, pick func(*record.Record) []record.Person) relationSync {
	return relationSync{rel: rel, sync: func(ctx context.Context, tx repository.Store, bookID uint, rec *record.Record) (int, error) {
		return reconcile.ReplaceRelation(ctx, bookID, pick(rec), tx.ResolvePerson, tx.Linker(rel))
	}}
}

func namedRelation(rel models.Relation, pick func(*record.Record) []string, resolver func(repository.Store) reconcile.Resolver[string]) relationSync {
	return relationSync{rel: rel, sync: func(ctx context.Context, tx repository.Store, bookID uint, rec *record.Record) (int, error) {
		return reconcile.ReplaceRelation(ctx, bookID, pick(rec), resolver(tx), tx.Linker(rel))
	}}
}

var relationSyncs = []relationSync{
	personRelation(models.RelationAuthors, func(r *record.Record) []record.Person { return r.Authors }),
	personRelation(models.RelationEditors, func(r *record.Record) []record.Person { return r.Editors }),
	personRelation(models.RelationTranslators, func(r *record.Record) []record.Person { return r.Translators }),
	namedRelation(models.RelationBookshelves, func(r *record.Record) []string { return r.Bookshelves },
		func(s repository.Store) reconcile.Resolver[string] { return s.ResolveBookshelf }),
	namedRelation(models.RelationLanguages, func(r *record.Record) []string { return r.Languages },
		func(s repository.Store) reconcile.Resolver[string] { return s.ResolveLanguage }),
	namedRelation(models.RelationSubjects, func(r *record.Record) []string { return r.Subjects },
		func(s repository.Store) reconcile.Resolver[string] { return s.ResolveSubject }),
}

// Reconciler loads every record of the live tree into the catalog.
type Reconciler struct {
	fs            afero.Fs
	store         repository.Store
	reader        record.Reader
	recordName    func(id int) string
	progressEvery int
	logger        *zap.Logger
}

// NewReconciler creates a reconciler.
func NewReconciler(fs afero.Fs, store repository.Store, reader record.Reader, cfg CatalogConfig, logger *zap.Logger) *Reconciler {
	every := cfg.ProgressEvery
	if every <= 0 {
		every = 1000
	}
	return &Reconciler{
		fs:            fs,
		store:         store,
		reader:        reader,
		recordName:    cfg.RecordName,
		progressEvery: every,
		logger:        logger,
	}
}

// ItemIDs lists the item directories of liveDir in ascending id order.
// Names that are not canonical ids are left out.
func ItemIDs(fs afero.Fs, liveDir string) ([]int, error) {
	names, err := ScanItems(fs, liveDir)
	if err != nil {
		return nil, resourceErr("scan", liveDir, err)
	}

	ids := make([]int, 0, len(names))
	for name := range names {
		if id, ok := ParseItemID(name); ok {
			ids = append(ids, id)
		}
	}
	sort.Ints(ids)
	return ids, nil
}

// Run reconciles every item of liveDir in ascending id order. The first failing
// item aborts the run; items already reconciled stay committed.
func (r *Reconciler) Run(ctx context.Context, liveDir string) (ReconcileResult, error) {
	var res ReconcileResult

	ids, err := ItemIDs(r.fs, liveDir)
	if err != nil {
		return res, err
	}
	total := len(ids)
	r.logger.Info("Found items to process", zap.Int("total", total))

	for i, id := range ids {
		if err := ctx.Err(); err != nil {
			return res, err
		}

		path := filepath.Join(liveDir, strconv.Itoa(id), r.recordName(id))
		rec, err := r.reader.Read(id, path)
		if err != nil {
			return res, &ReconciliationError{ItemID: id, Err: err}
		}

		outcome, err := r.ReconcileItem(ctx, rec)
		if err != nil {
			r.logRecord(rec, err)
			return res, &ReconciliationError{ItemID: id, Record: rec, Err: err}
		}

		res.Items++
		res.Links += outcome.Links
		res.Formats.Add(outcome.Formats)
		res.Summaries.Add(outcome.Summaries)

		processed := i + 1
		if processed%r.progressEvery == 0 || processed == total {
			r.logger.Info("Processing items",
				zap.Int("processed", processed),
				zap.Int("total", total),
				zap.Int("percent", processed*100/total),
			)
		}
	}

	return res, nil
}

// ReconcileItem stores one record atomically: the book row, its six relation
// sets (full replace) and its formats and summaries (diff and prune).
func (r *Reconciler) ReconcileItem(ctx context.Context, rec *record.Record) (ItemOutcome, error) {
	var outcome ItemOutcome

	err := r.store.Transaction(ctx, func(tx repository.Store) error {
		bookID, err := tx.UpsertBook(ctx, rec)
		if err != nil {
			return err
		}
		outcome = ItemOutcome{BookID: bookID}

		for _, rs := range relationSyncs {
			n, err := rs.sync(ctx, tx, bookID, rec)
			if err != nil {
				return fmt.Errorf("%s: %w", rs.rel.JoinTable, err)
			}
			outcome.Links += n
		}

		outcome.Formats, err = reconcile.SyncChildren(ctx, bookID, rec.FormatList(), reconcile.ChildSet[record.Format]{
			Key:    record.Format.Key,
			List:   tx.ListFormats,
			Create: tx.CreateFormat,
			Delete: tx.DeleteFormats,
		})
		if err != nil {
			return fmt.Errorf("formats: %w", err)
		}

		outcome.Summaries, err = reconcile.SyncChildren(ctx, bookID, rec.Summaries, reconcile.ChildSet[string]{
			Key:    func(text string) string { return text },
			List:   tx.ListSummaries,
			Create: tx.CreateSummary,
			Delete: tx.DeleteSummaries,
		})
		if err != nil {
			return fmt.Errorf("summaries: %w", err)
		}
		return nil
	})
	return outcome, err
}

func (r *Reconciler) logRecord(rec *record.Record, err error) {
	data, mErr := json.MarshalIndent(rec, "", "    ")
	if mErr != nil {
		data = []byte(fmt.Sprintf("%+v", rec))
	}
	r.logger.Error("Error while putting this item in the database",
		zap.Int("id", rec.ID),
		zap.Error(err),
	)
	r.logger.Error(string(data))
}
