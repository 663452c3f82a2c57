package job

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/slidecast-team/slidecast/internal/domain/entities"
	"github.com/slidecast-team/slidecast/internal/domain/repositories"
	"github.com/slidecast-team/slidecast/internal/usecase/align"
	usecaseErrors "github.com/slidecast-team/slidecast/internal/usecase/errors"
	"github.com/slidecast-team/slidecast/internal/usecase/merge"
	"github.com/slidecast-team/slidecast/pkg/ai"
	"github.com/slidecast-team/slidecast/pkg/config"
)

// Lease guards the one-in-flight-job-per-pack rule across instances
type Lease interface {
	Acquire(ctx context.Context, packID uuid.UUID) (bool, error)
	Release(ctx context.Context, packID uuid.UUID) error
}

// AudioStore is the slice of blob storage the pipelines need
type AudioStore interface {
	PresignedURL(ctx context.Context, objectName string, expiry time.Duration) (string, error)
}

// Composer produces merged pack content
type Composer interface {
	Compose(ctx context.Context, destObject string, packIDs []uuid.UUID) (*merge.Result, error)
}

// Orchestrator runs generate/sync/merge/import work as durably tracked
// jobs bound to slide packs. Submit never blocks on the work itself;
// progress is observed by polling.
type Orchestrator struct {
	jobs        repositories.JobRepository
	packs       repositories.SlidePackRepository
	transcriber ai.Transcriber
	outline     ai.OutlineGenerator
	aligner     *align.Service
	composer    Composer
	store       AudioStore
	lease       Lease
	cfg         config.WorkerConfig
	logger      *zap.Logger

	workerMutex         sync.Mutex
	workerWg            sync.WaitGroup
	workerStopChan      chan struct{}
	isWorkerPoolRunning bool
}

// NewOrchestrator creates a job orchestrator
func NewOrchestrator(
	jobs repositories.JobRepository,
	packs repositories.SlidePackRepository,
	transcriber ai.Transcriber,
	outline ai.OutlineGenerator,
	aligner *align.Service,
	composer Composer,
	store AudioStore,
	lease Lease,
	cfg config.WorkerConfig,
	logger *zap.Logger,
) *Orchestrator {
	return &Orchestrator{
		jobs:        jobs,
		packs:       packs,
		transcriber: transcriber,
		outline:     outline,
		aligner:     aligner,
		composer:    composer,
		store:       store,
		lease:       lease,
		cfg:         cfg,
		logger:      logger,
	}
}

// SubmitInput describes one job submission
type SubmitInput struct {
	Kind     entities.JobKind
	Title    string
	CourseID *uuid.UUID
	// TargetPackID re-times an existing pack in place (re-sync). Nil
	// creates a fresh pack in processing.
	TargetPackID *uuid.UUID
	Payload      entities.JobPayload
}

// Submit creates the target slide pack (or re-claims an existing one)
// and enqueues a job against it, atomically enough that no pack ever has
// two jobs in flight: a database check catches queued duplicates and a
// redis lease closes the race window between check and insert.
func (o *Orchestrator) Submit(ctx context.Context, in SubmitInput) (*entities.Job, *entities.SlidePack, error) {
	pack, created, err := o.preparePack(ctx, in)
	if err != nil {
		return nil, nil, err
	}

	job := entities.NewJob(in.Kind, pack.ID, in.Payload)
	if err := o.jobs.Create(ctx, job); err != nil {
		o.releaseLease(ctx, pack.ID)
		if created {
			// Best effort: the pack row without a job is just noise.
			_ = o.packs.MarkAsFailed(ctx, pack.ID, "job submission failed")
		}
		return nil, nil, fmt.Errorf("failed to create job: %w", err)
	}

	if o.logger != nil {
		o.logger.Info("📥 Job submitted",
			zap.String("job_id", job.ID.String()),
			zap.String("kind", string(job.Kind)),
			zap.String("slide_pack_id", pack.ID.String()),
		)
	}

	return job, pack, nil
}

// SubmitInline creates the pack and job, then runs the pipeline in the
// caller's goroutine. Used for imports, which need no external calls and
// should answer synchronously. The job is created directly in processing
// so pool workers never pick it up.
func (o *Orchestrator) SubmitInline(ctx context.Context, in SubmitInput) (*entities.Job, *entities.SlidePack, error) {
	pack, created, err := o.preparePack(ctx, in)
	if err != nil {
		return nil, nil, err
	}

	job := entities.NewJob(in.Kind, pack.ID, in.Payload)
	job.MarkAsProcessing()
	if err := o.jobs.Create(ctx, job); err != nil {
		o.releaseLease(ctx, pack.ID)
		if created {
			_ = o.packs.MarkAsFailed(ctx, pack.ID, "job submission failed")
		}
		return nil, nil, fmt.Errorf("failed to create job: %w", err)
	}

	o.execute(ctx, job, -1)

	refreshed, err := o.packs.FindByIDWithContent(ctx, pack.ID)
	if err != nil || refreshed == nil {
		return job, pack, err
	}
	if refreshed.IsFailed() {
		detail := "import failed"
		if refreshed.ErrorDetail != nil {
			detail = *refreshed.ErrorDetail
		}
		return job, refreshed, fmt.Errorf("import failed: %s", detail)
	}
	return job, refreshed, nil
}

// preparePack resolves or creates the target pack and takes the lease.
func (o *Orchestrator) preparePack(ctx context.Context, in SubmitInput) (*entities.SlidePack, bool, error) {
	if in.TargetPackID != nil {
		pack, err := o.packs.FindByID(ctx, *in.TargetPackID)
		if err != nil {
			return nil, false, fmt.Errorf("failed to load pack: %w", err)
		}
		if pack == nil {
			return nil, false, usecaseErrors.ErrNotFound
		}

		active, err := o.jobs.HasActiveJobForPack(ctx, pack.ID)
		if err != nil {
			return nil, false, fmt.Errorf("failed to check active jobs: %w", err)
		}
		if active {
			return nil, false, usecaseErrors.ErrConcurrentJobConflict
		}
		if err := o.acquireLease(ctx, pack.ID); err != nil {
			return nil, false, err
		}
		if err := o.packs.MarkAsProcessing(ctx, pack.ID); err != nil {
			o.releaseLease(ctx, pack.ID)
			return nil, false, fmt.Errorf("failed to reclaim pack: %w", err)
		}
		pack.Status = entities.SlidePackStatusProcessing
		return pack, false, nil
	}

	pack := entities.NewSlidePack(in.Title)
	if in.CourseID != nil {
		idx, err := o.packs.NextOrderIndex(ctx, *in.CourseID)
		if err != nil {
			return nil, false, fmt.Errorf("failed to compute order index: %w", err)
		}
		pack.CourseID = in.CourseID
		pack.OrderIndex = idx
	}

	if err := o.acquireLease(ctx, pack.ID); err != nil {
		return nil, false, err
	}
	if err := o.packs.Create(ctx, pack); err != nil {
		o.releaseLease(ctx, pack.ID)
		return nil, false, fmt.Errorf("failed to create pack: %w", err)
	}
	return pack, true, nil
}

func (o *Orchestrator) acquireLease(ctx context.Context, packID uuid.UUID) error {
	if o.lease == nil {
		return nil
	}
	ok, err := o.lease.Acquire(ctx, packID)
	if err != nil {
		return fmt.Errorf("failed to acquire job lease: %w", err)
	}
	if !ok {
		return usecaseErrors.ErrConcurrentJobConflict
	}
	return nil
}

func (o *Orchestrator) releaseLease(ctx context.Context, packID uuid.UUID) {
	if o.lease == nil {
		return
	}
	if err := o.lease.Release(ctx, packID); err != nil && o.logger != nil {
		o.logger.Warn("⚠️ Failed to release job lease",
			zap.String("slide_pack_id", packID.String()),
			zap.Error(err),
		)
	}
}

// ListPending returns every queued or processing job, oldest first
func (o *Orchestrator) ListPending(ctx context.Context) ([]entities.Job, error) {
	return o.jobs.ListPending(ctx)
}

// RunNext claims the oldest queued job and runs its pipeline to a
// terminal state. Returns false when the queue is empty. Pipeline errors
// end up in the job and pack rows, never in the returned error, which
// only reports claim failures.
func (o *Orchestrator) RunNext(ctx context.Context) (bool, error) {
	return o.runNext(ctx, -1)
}

func (o *Orchestrator) runNext(ctx context.Context, workerID int) (bool, error) {
	job, err := o.jobs.ClaimNextQueued(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to claim job: %w", err)
	}
	if job == nil {
		return false, nil
	}

	if o.logger != nil {
		o.logger.Info("👷 Job claimed",
			zap.Int("worker_id", workerID),
			zap.String("job_id", job.ID.String()),
			zap.String("kind", string(job.Kind)),
		)
	}

	o.execute(ctx, job, workerID)
	return true, nil
}
