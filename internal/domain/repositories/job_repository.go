package repositories

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/slidecast-team/slidecast/internal/domain/entities"
)

// JobRepository defines the interface for job bookkeeping. Workers poll
// this store rather than sharing in-process job state.
type JobRepository interface {
	// Create creates a new queued job
	Create(ctx context.Context, job *entities.Job) error

	// FindByID retrieves a job by id
	FindByID(ctx context.Context, id uuid.UUID) (*entities.Job, error)

	// ListPending retrieves all queued and processing jobs, oldest first
	ListPending(ctx context.Context) ([]entities.Job, error)

	// HasActiveJobForPack reports whether a queued or processing job already
	// targets the given pack
	HasActiveJobForPack(ctx context.Context, packID uuid.UUID) (bool, error)

	// ClaimNextQueued atomically claims the oldest queued job, flipping it to
	// processing. Returns nil when the queue is empty. Safe against concurrent
	// workers: only one claimant wins a given job.
	ClaimNextQueued(ctx context.Context) (*entities.Job, error)

	// MarkAsCompleted flips a job to completed
	MarkAsCompleted(ctx context.Context, id uuid.UUID) error

	// MarkAsFailed flips a job to failed with error detail
	MarkAsFailed(ctx context.Context, id uuid.UUID, errMsg string) error

	// FailStaleProcessing fails every job stuck in processing longer than
	// the threshold; returns the ids of the failed jobs
	FailStaleProcessing(ctx context.Context, olderThan time.Duration) ([]entities.Job, error)

	// DeleteTerminalBefore prunes terminal jobs older than the cutoff
	DeleteTerminalBefore(ctx context.Context, cutoff time.Time) (int64, error)
}
