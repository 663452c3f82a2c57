package slidepack

import (
	"time"
)

// SlideResponse represents a slide in responses
type SlideResponse struct {
	ID             int      `json:"id"`
	TimestampStart float64  `json:"timestamp_start"`
	TimestampEnd   float64  `json:"timestamp_end"`
	Title          string   `json:"title"`
	Content        []string `json:"content"`
	MathFormulas   []string `json:"math_formulas,omitempty"`
	DeepDive       *string  `json:"deep_dive,omitempty"`
}

// CardResponse represents a card in responses
type CardResponse struct {
	ID           int      `json:"id"`
	Kind         string   `json:"kind"`
	Question     string   `json:"question"`
	Hint         *string  `json:"hint,omitempty"`
	Answer       string   `json:"answer,omitempty"`
	Options      []string `json:"options,omitempty"`
	CorrectIndex *int     `json:"correct_index,omitempty"`
	Explanation  *string  `json:"explanation,omitempty"`
}

// SlidePackResponse represents a pack in responses. Failed packs carry
// their error detail so clients can surface it.
type SlidePackResponse struct {
	ID            string          `json:"id"`
	Title         string          `json:"title"`
	Status        string          `json:"status"`
	ErrorDetail   *string         `json:"error_detail,omitempty"`
	CourseID      *string         `json:"course_id,omitempty"`
	OrderIndex    int             `json:"order_index"`
	AudioURL      string          `json:"audio_url,omitempty"`
	AudioDuration float64         `json:"audio_duration"`
	Slides        []SlideResponse `json:"slides,omitempty"`
	Cards         []CardResponse  `json:"cards,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// SlidePackListResponse represents a paginated pack listing
type SlidePackListResponse struct {
	Packs      []*SlidePackResponse `json:"packs"`
	Total      int64                `json:"total"`
	Page       int                  `json:"page"`
	PageSize   int                  `json:"page_size"`
	TotalPages int                  `json:"total_pages"`
}

// JobResponse represents a job in responses
type JobResponse struct {
	ID          string     `json:"id"`
	Kind        string     `json:"kind"`
	SlidePackID string     `json:"slide_pack_id"`
	Status      string     `json:"status"`
	ErrorDetail *string    `json:"error_detail,omitempty"`
	StartedAt   *time.Time `json:"started_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

// SubmitResponse represents the response after submitting async work
type SubmitResponse struct {
	SlidePackID string `json:"slide_pack_id"`
	JobID       string `json:"job_id"`
	Status      string `json:"status"`
}

// ImportResponse represents the response after a synchronous import
type ImportResponse struct {
	SlidePackID string `json:"slide_pack_id"`
	AudioURL    string `json:"audio_url"`
}

// BatchResponse represents the response after a batch upload
type BatchResponse struct {
	CourseID      string           `json:"course_id"`
	PairsCount    int              `json:"pairs_count"`
	Submitted     []SubmitResponse `json:"submitted"`
	OrphanedFiles []string         `json:"orphaned_files,omitempty"`
}

// PendingJobsResponse represents the pending jobs listing
type PendingJobsResponse struct {
	Jobs []JobResponse `json:"jobs"`
}
