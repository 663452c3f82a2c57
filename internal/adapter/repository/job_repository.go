package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/slidecast-team/slidecast/internal/domain/entities"
	"github.com/slidecast-team/slidecast/internal/domain/repositories"
)

// JobRepository handles job bookkeeping. Workers poll this store instead
// of sharing an in-process map of running jobs.
type JobRepository struct {
	db *gorm.DB
}

// NewJobRepository creates a new job repository
func NewJobRepository(db *gorm.DB) *JobRepository {
	return &JobRepository{db: db}
}

var _ repositories.JobRepository = (*JobRepository)(nil)

// Create creates a new queued job
func (r *JobRepository) Create(ctx context.Context, job *entities.Job) error {
	if job == nil {
		return errors.New("job cannot be nil")
	}
	return r.db.WithContext(ctx).Create(job).Error
}

// FindByID retrieves a job by ID
func (r *JobRepository) FindByID(ctx context.Context, id uuid.UUID) (*entities.Job, error) {
	var job entities.Job
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&job).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &job, nil
}

// ListPending retrieves all queued and processing jobs, oldest first
func (r *JobRepository) ListPending(ctx context.Context) ([]entities.Job, error) {
	var jobs []entities.Job
	if err := r.db.WithContext(ctx).
		Where("status IN ?", []entities.JobStatus{entities.JobStatusQueued, entities.JobStatusProcessing}).
		Order("created_at ASC").
		Find(&jobs).Error; err != nil {
		return nil, err
	}
	return jobs, nil
}

// HasActiveJobForPack reports whether a queued or processing job already
// targets the given pack
func (r *JobRepository) HasActiveJobForPack(ctx context.Context, packID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&entities.Job{}).
		Where("target_slide_pack_id = ? AND status IN ?",
			packID,
			[]entities.JobStatus{entities.JobStatusQueued, entities.JobStatusProcessing}).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// ClaimNextQueued atomically claims the oldest queued job. Only one of
// several concurrent claimants wins a given job: the claim is an UPDATE
// guarded by the queued status, checked via RowsAffected.
func (r *JobRepository) ClaimNextQueued(ctx context.Context) (*entities.Job, error) {
	var job entities.Job
	err := r.db.WithContext(ctx).
		Where("status = ?", entities.JobStatusQueued).
		Order("created_at ASC").
		First(&job).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	now := time.Now()
	result := r.db.WithContext(ctx).
		Model(&entities.Job{}).
		Where("id = ? AND status = ?", job.ID, entities.JobStatusQueued).
		Updates(map[string]interface{}{
			"status":     entities.JobStatusProcessing,
			"started_at": now,
			"updated_at": now,
		})
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		// Another worker claimed it first
		return nil, nil
	}

	job.MarkAsProcessing()
	return &job, nil
}

// MarkAsCompleted flips a job to completed
func (r *JobRepository) MarkAsCompleted(ctx context.Context, id uuid.UUID) error {
	now := time.Now()
	return r.db.WithContext(ctx).
		Model(&entities.Job{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":       entities.JobStatusCompleted,
			"completed_at": now,
			"updated_at":   now,
		}).Error
}

// MarkAsFailed flips a job to failed with error detail
func (r *JobRepository) MarkAsFailed(ctx context.Context, id uuid.UUID, errMsg string) error {
	now := time.Now()
	return r.db.WithContext(ctx).
		Model(&entities.Job{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":       entities.JobStatusFailed,
			"error_detail": errMsg,
			"completed_at": now,
			"updated_at":   now,
		}).Error
}

// FailStaleProcessing fails jobs stuck in processing beyond the threshold.
// Orphans from a crashed worker have no lease to recover; they require
// manual resubmission.
func (r *JobRepository) FailStaleProcessing(ctx context.Context, olderThan time.Duration) ([]entities.Job, error) {
	cutoff := time.Now().Add(-olderThan)

	var stale []entities.Job
	if err := r.db.WithContext(ctx).
		Where("status = ? AND updated_at < ?", entities.JobStatusProcessing, cutoff).
		Find(&stale).Error; err != nil {
		return nil, err
	}

	failed := make([]entities.Job, 0, len(stale))
	for _, job := range stale {
		now := time.Now()
		result := r.db.WithContext(ctx).
			Model(&entities.Job{}).
			Where("id = ? AND status = ?", job.ID, entities.JobStatusProcessing).
			Updates(map[string]interface{}{
				"status":       entities.JobStatusFailed,
				"error_detail": "job stale in processing, worker presumed dead; resubmit manually",
				"completed_at": now,
				"updated_at":   now,
			})
		if result.Error != nil {
			return failed, result.Error
		}
		if result.RowsAffected > 0 {
			failed = append(failed, job)
		}
	}
	return failed, nil
}

// DeleteTerminalBefore prunes terminal jobs older than the cutoff
func (r *JobRepository) DeleteTerminalBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("status IN ? AND updated_at < ?",
			[]entities.JobStatus{entities.JobStatusCompleted, entities.JobStatusFailed},
			cutoff).
		Delete(&entities.Job{})
	return result.RowsAffected, result.Error
}
