package entities

import (
	"database/sql/driver"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// JobStatus represents the status of an asynchronous processing job
type JobStatus string

const (
	JobStatusQueued     JobStatus = "queued"     // Waiting for a worker
	JobStatusProcessing JobStatus = "processing" // Claimed by a worker
	JobStatusCompleted  JobStatus = "completed"  // Pipeline finished, pack completed
	JobStatusFailed     JobStatus = "failed"     // Pipeline failed, pack failed
)

// JobKind represents the kind of work a job performs
type JobKind string

const (
	JobKindGenerate JobKind = "generate"         // Transcribe + outline + align
	JobKindSync     JobKind = "sync"             // Re-time an existing deck against new audio
	JobKindMerge    JobKind = "merge"            // Concatenate completed packs
	JobKindImport   JobKind = "slidepack_import" // Persist an already-timed manifest
)

// IsTerminal reports whether the status permits no further transitions
func (s JobStatus) IsTerminal() bool {
	return s == JobStatusCompleted || s == JobStatusFailed
}

// JobPayload carries the kind-specific inputs of a job
type JobPayload struct {
	AudioObject  string                 `json:"audio_object,omitempty"`   // blob key of the source audio
	OutlineText  string                 `json:"outline_text,omitempty"`   // authored outline (generate)
	Manifest     *PresentationManifest  `json:"manifest,omitempty"`       // uploaded deck (sync/import)
	MergeTitle   string                 `json:"merge_title,omitempty"`    // merge result title
	MergePackIDs []uuid.UUID            `json:"merge_pack_ids,omitempty"` // ordered source packs
	Extra        map[string]interface{} `json:"extra,omitempty"`
}

// Scan implements sql.Scanner interface for GORM
func (p *JobPayload) Scan(value interface{}) error {
	bytes, ok := value.([]byte)
	if !ok {
		return nil
	}
	return json.Unmarshal(bytes, &p)
}

// Value implements driver.Valuer interface for GORM
func (p JobPayload) Value() (driver.Value, error) {
	return json.Marshal(p)
}

// Job is one asynchronous unit of alignment/merge work with durable status.
// State machine: queued -> processing -> {completed | failed}. A failed job
// is never auto-retried; the caller resubmits a new job.
type Job struct {
	ID                uuid.UUID  `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	Kind              JobKind    `json:"kind" gorm:"type:varchar(50);not null;index"`
	TargetSlidePackID uuid.UUID  `json:"target_slide_pack_id" gorm:"type:uuid;not null;index"`
	Status            JobStatus  `json:"status" gorm:"type:varchar(20);not null;index;default:'queued'"`
	Payload           JobPayload `json:"payload,omitempty" gorm:"type:jsonb;serializer:json"`
	ErrorDetail       *string    `json:"error_detail,omitempty" gorm:"type:text"`

	StartedAt   *time.Time `json:"started_at,omitempty" gorm:"type:timestamp"`
	CompletedAt *time.Time `json:"completed_at,omitempty" gorm:"type:timestamp"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName specifies the table name for GORM
func (Job) TableName() string {
	return "jobs"
}

// NewJob creates a new queued job bound to a target slide pack
func NewJob(kind JobKind, targetSlidePackID uuid.UUID, payload JobPayload) *Job {
	return &Job{
		ID:                uuid.New(),
		Kind:              kind,
		TargetSlidePackID: targetSlidePackID,
		Status:            JobStatusQueued,
		Payload:           payload,
		CreatedAt:         time.Now(),
		UpdatedAt:         time.Now(),
	}
}

// MarkAsProcessing marks the job as claimed by a worker
func (j *Job) MarkAsProcessing() {
	j.Status = JobStatusProcessing
	now := time.Now()
	j.StartedAt = &now
	j.UpdatedAt = now
}

// MarkAsCompleted marks the job as completed
func (j *Job) MarkAsCompleted() {
	j.Status = JobStatusCompleted
	now := time.Now()
	j.CompletedAt = &now
	j.UpdatedAt = now
}

// MarkAsFailed marks the job as failed with error detail
func (j *Job) MarkAsFailed(errMsg string) {
	j.Status = JobStatusFailed
	j.ErrorDetail = &errMsg
	now := time.Now()
	j.CompletedAt = &now
	j.UpdatedAt = now
}
