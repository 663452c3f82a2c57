package entities

import (
	"time"

	"github.com/google/uuid"
)

// SlidePackStatus represents the lifecycle status of a slide pack
type SlidePackStatus string

const (
	SlidePackStatusProcessing SlidePackStatus = "processing" // A job is producing this pack
	SlidePackStatusCompleted  SlidePackStatus = "completed"  // Slides and audio are persisted
	SlidePackStatusFailed     SlidePackStatus = "failed"     // Job failed, error detail set
)

// SlidePack is one synchronized (audio, timed slide deck, optional cards) unit.
// Once completed it is immutable except for title, card list, course assignment
// and order index, none of which re-run alignment.
type SlidePack struct {
	ID            uuid.UUID       `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	Title         string          `json:"title" gorm:"type:varchar(255);not null"`
	Status        SlidePackStatus `json:"status" gorm:"type:varchar(20);not null;default:'processing';index"`
	ErrorDetail   *string         `json:"error_detail,omitempty" gorm:"type:text"`
	CourseID      *uuid.UUID      `json:"course_id,omitempty" gorm:"type:uuid;index"`
	OrderIndex    int             `json:"order_index" gorm:"type:integer;not null;default:0"`
	AudioObject   string          `json:"audio_object,omitempty" gorm:"type:text"` // object key in blob storage
	AudioDuration float64         `json:"audio_duration" gorm:"type:double precision;default:0"`

	Slides []Slide `json:"slides,omitempty" gorm:"foreignKey:SlidePackID;constraint:OnDelete:CASCADE"`
	Cards  []Card  `json:"cards,omitempty" gorm:"foreignKey:SlidePackID;constraint:OnDelete:CASCADE"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName specifies the table name for GORM
func (SlidePack) TableName() string {
	return "slide_packs"
}

// NewSlidePack creates a new slide pack in processing state
func NewSlidePack(title string) *SlidePack {
	return &SlidePack{
		ID:        uuid.New(),
		Title:     title,
		Status:    SlidePackStatusProcessing,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
}

// IsCompleted checks if the pack finished processing successfully
func (p *SlidePack) IsCompleted() bool {
	return p.Status == SlidePackStatusCompleted
}

// IsFailed checks if the pack failed processing
func (p *SlidePack) IsFailed() bool {
	return p.Status == SlidePackStatusFailed
}

// MarkAsCompleted marks the pack as completed
func (p *SlidePack) MarkAsCompleted() {
	p.Status = SlidePackStatusCompleted
	p.ErrorDetail = nil
	p.UpdatedAt = time.Now()
}

// MarkAsFailed marks the pack as failed with error detail
func (p *SlidePack) MarkAsFailed(errMsg string) {
	p.Status = SlidePackStatusFailed
	p.ErrorDetail = &errMsg
	p.UpdatedAt = time.Now()
}

// MaxSlideID returns the highest slide id in the pack, or -1 when empty.
// A re-sync allocates new ids starting above this value.
func (p *SlidePack) MaxSlideID() int {
	max := -1
	for _, s := range p.Slides {
		if s.SlideID > max {
			max = s.SlideID
		}
	}
	return max
}
