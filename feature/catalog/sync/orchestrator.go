package sync

import (
	"context"
	"errors"
	"os"
	"time"

	"catalog-sync/core/reconcile"
	"catalog-sync/feature/catalog/models"
	"catalog-sync/feature/catalog/repository"

	"github.com/google/uuid"
	"github.com/spf13/afero"
	"go.uber.org/zap"
)

// State is a step of the pipeline state machine.
type State string

const (
	StateIdle           State = "Idle"
	StateAcquiring      State = "Acquiring"
	StateVerifyingSize  State = "VerifyingSize"
	StateExtracting     State = "Extracting"
	StateVerifyingCount State = "VerifyingCount"
	StateDiffing        State = "Diffing"
	StatePruning        State = "Pruning"
	StateMaterializing  State = "Materializing"
	StateReconciling    State = "Reconciling"
	StateCleaningUp     State = "CleaningUp"
	StateDone           State = "Done"
	StateFailed         State = "Failed"
)

// classOf tells whether a failure in state can be fixed by running again.
func classOf(state State) Class {
	if state == StateReconciling {
		return Fatal
	}
	return Retryable
}

// Options tune one pipeline run.
type Options struct {
	// DryRun stops after Diffing without touching the live tree or the catalog.
	DryRun bool
	// SkipDownload uses ArchivePath as is instead of acquiring the bundle.
	SkipDownload bool
	// ArchivePath overrides the archive location. Defaults to the staging archive.
	ArchivePath string
}

// Report describes a finished (or failed) run.
type Report struct {
	RunID       string                `json:"run_id"`
	State       State                 `json:"state"`
	DryRun      bool                  `json:"dry_run"`
	ArchiveSize int64                 `json:"archive_size"`
	Extract     ExtractResult         `json:"extract"`
	Plan        reconcile.PlanSummary `json:"plan"`
	Prune       PruneResult           `json:"prune"`
	Mirror      MirrorResult          `json:"mirror"`
	Reconcile   ReconcileResult       `json:"reconcile"`
	Duration    time.Duration         `json:"duration"`
}

// Orchestrator runs the pipeline stages in order and owns the staging area.
type Orchestrator struct {
	fs           afero.Fs
	cfg          CatalogConfig
	store        repository.Store
	acquirer     *Acquirer
	extractor    *Extractor
	differ       *DirectoryDiffer
	pruner       *Pruner
	materializer *Materializer
	reconciler   *Reconciler
	logger       *zap.Logger
	now          func() time.Time
}

// NewOrchestrator wires a pipeline.
func NewOrchestrator(
	fs afero.Fs,
	cfg CatalogConfig,
	store repository.Store,
	acquirer *Acquirer,
	extractor *Extractor,
	differ *DirectoryDiffer,
	pruner *Pruner,
	materializer *Materializer,
	reconciler *Reconciler,
	logger *zap.Logger,
) *Orchestrator {
	return &Orchestrator{
		fs:           fs,
		cfg:          cfg,
		store:        store,
		acquirer:     acquirer,
		extractor:    extractor,
		differ:       differ,
		pruner:       pruner,
		materializer: materializer,
		reconciler:   reconciler,
		logger:       logger,
		now:          time.Now,
	}
}

// run carries the mutable state of one invocation.
type run struct {
	o      *Orchestrator
	ctx    context.Context
	row    *models.SyncRun
	report *Report
	logger *zap.Logger
}

// Run executes the pipeline. Any failure removes the staging area and returns
// a *StageError whose class tells whether re-invoking can help.
func (o *Orchestrator) Run(ctx context.Context, opts Options) (*Report, error) {
	started := o.now()
	id := uuid.NewString()

	r := &run{
		o:      o,
		ctx:    ctx,
		report: &Report{RunID: id, State: StateIdle, DryRun: opts.DryRun},
		logger: o.logger.With(zap.String("run_id", id)),
		row: &models.SyncRun{
			ID:        id,
			StartedAt: started,
			Source:    o.cfg.Source,
			DryRun:    opts.DryRun,
			State:     string(StateIdle),
			Status:    models.RunRunning,
		},
	}
	if err := o.store.CreateRun(ctx, r.row); err != nil {
		r.logger.Warn("Failed to record sync run", zap.Error(err))
	}

	r.logger.Info("Starting catalog sync", zap.Time("at", started), zap.Bool("dry_run", opts.DryRun))

	err := r.execute(opts)
	r.report.Duration = o.now().Sub(started)

	if err != nil {
		failedIn := r.report.State
		se := &StageError{Stage: failedIn, Class: classOf(failedIn), Err: err}
		r.logger.Error("Error", zap.String("stage", string(failedIn)), zap.String("class", se.Class.String()), zap.Error(err))

		o.removeStaging(r.logger)
		r.report.State = StateFailed
		r.finish(models.RunFailed, se)
		return r.report, se
	}

	r.report.State = StateDone
	r.finish(models.RunSucceeded, nil)
	r.logger.Info("Done!", zap.Duration("duration", r.report.Duration))
	return r.report, nil
}

func (r *run) execute(opts Options) error {
	o := r.o
	ctx := r.ctx

	archive := opts.ArchivePath
	if archive == "" {
		archive = o.cfg.ArchivePath()
	}

	r.enter(StateIdle)
	if err := o.prepareStaging(archive, r.logger); err != nil {
		return err
	}

	if !opts.SkipDownload {
		r.enter(StateAcquiring)
		if _, err := o.acquirer.Fetch(ctx, archive); err != nil {
			return err
		}
	}

	r.enter(StateVerifyingSize)
	size, err := o.verifySize(archive)
	if err != nil {
		return err
	}
	r.report.ArchiveSize = size

	r.enter(StateExtracting)
	r.logger.Info("Decompressing catalog", zap.String("archive", archive))
	extracted, err := o.extractor.Extract(ctx, archive, o.cfg.StagingDir)
	r.report.Extract = extracted
	if errors.Is(err, ErrTooFewItems) {
		r.enter(StateVerifyingCount)
	}
	if err != nil {
		return err
	}
	r.enter(StateVerifyingCount)

	r.enter(StateDiffing)
	plan, err := o.differ.Plan(o.cfg.ItemsDir(), o.cfg.LiveDir)
	if err != nil {
		return err
	}
	r.report.Plan = plan.Summary()
	r.row.Added, r.row.Kept, r.row.Stale = r.report.Plan.Added, r.report.Plan.Kept, r.report.Plan.Stale
	r.logger.Info("Detected stale directories",
		zap.Int("stale", r.report.Plan.Stale),
		zap.Int("added", r.report.Plan.Added),
		zap.Int("kept", r.report.Plan.Kept),
	)

	if !opts.DryRun {
		r.enter(StatePruning)
		pruned, err := o.pruner.Prune(ctx, plan.Stale)
		r.report.Prune = pruned
		r.row.Pruned = int(pruned.Books)
		if err != nil {
			return err
		}

		r.enter(StateMaterializing)
		mirrored, err := o.materializer.Mirror(ctx, o.cfg.ItemsDir(), o.cfg.LiveDir)
		r.report.Mirror = mirrored
		if err != nil {
			return err
		}

		r.enter(StateReconciling)
		reconciled, err := o.reconciler.Run(ctx, o.cfg.LiveDir)
		r.report.Reconcile = reconciled
		r.row.Reconciled = reconciled.Items
		if err != nil {
			return err
		}
	}

	r.enter(StateCleaningUp)
	r.logger.Info("Removing temporary files")
	if err := o.fs.RemoveAll(o.cfg.StagingDir); err != nil {
		return resourceErr("remove", o.cfg.StagingDir, err)
	}
	return nil
}

// enter moves the run to state and records it.
func (r *run) enter(state State) {
	r.report.State = state
	r.row.State = string(state)
	if state == StateIdle {
		return
	}
	r.logger.Debug("Entering stage", zap.String("state", string(state)))
	if err := r.o.store.UpdateRun(r.ctx, r.row); err != nil {
		r.logger.Warn("Failed to record sync run state", zap.Error(err))
	}
}

func (r *run) finish(status string, err error) {
	finished := r.o.now()
	r.row.FinishedAt = &finished
	r.row.Status = status
	r.row.State = string(r.report.State)
	if err != nil {
		r.row.Error = err.Error()
	}
	// The run context may already be cancelled; the history row is still written.
	if uErr := r.o.store.UpdateRun(context.WithoutCancel(r.ctx), r.row); uErr != nil {
		r.logger.Warn("Failed to record sync run result", zap.Error(uErr))
	}
}

// prepareStaging keeps a staging root holding a partial archive so the
// transfer can resume, and recreates it empty otherwise.
func (o *Orchestrator) prepareStaging(archive string, logger *zap.Logger) error {
	dir := o.cfg.StagingDir
	logger.Info("Making temporary directory", zap.String("path", dir))

	if _, err := o.fs.Stat(dir); err == nil {
		if info, err := o.fs.Stat(archive); err == nil && isWithin(archive, dir) {
			logger.Info("Found partial download, will attempt to resume",
				zap.Float64("size_mb", megabytes(info.Size())))
			return nil
		}
		logger.Info("Cleaning up existing temporary directory")
		if err := o.fs.RemoveAll(dir); err != nil {
			return resourceErr("remove", dir, err)
		}
	} else if !errors.Is(err, os.ErrNotExist) {
		return resourceErr("stat", dir, err)
	}

	if err := o.fs.MkdirAll(dir, 0o755); err != nil {
		return resourceErr("mkdir", dir, err)
	}
	return nil
}

func (o *Orchestrator) verifySize(archive string) (int64, error) {
	info, err := o.fs.Stat(archive)
	if err != nil {
		return 0, resourceErr("stat", archive, err)
	}
	if info.Size() <= o.cfg.MinArchiveBytes {
		return info.Size(), &TransferError{
			Attempts: 0,
			Err:      errors.New("downloaded file is incomplete"),
		}
	}
	return info.Size(), nil
}

func (o *Orchestrator) removeStaging(logger *zap.Logger) {
	if err := o.fs.RemoveAll(o.cfg.StagingDir); err != nil {
		logger.Error("Failed to remove staging directory", zap.Error(err))
	}
}
