package entities

import (
	"time"

	"github.com/google/uuid"
)

// Slide is one timed slide of a pack. Slides of a pack are contiguous:
// sorted by slide_id, each slide's timestamp_end equals the next slide's
// timestamp_start, the first starts at 0 and the last ends at the pack's
// audio duration. Slides are never mutated in place; a re-sync or merge
// writes a fresh set with new ids.
type Slide struct {
	ID             uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	SlidePackID    uuid.UUID `json:"slide_pack_id" gorm:"type:uuid;not null;index"`
	SlideID        int       `json:"slide_id" gorm:"type:integer;not null"`
	TimestampStart float64   `json:"timestamp_start" gorm:"type:double precision;not null"`
	TimestampEnd   float64   `json:"timestamp_end" gorm:"type:double precision;not null"`
	Title          string    `json:"title" gorm:"type:text;not null"`
	Content        []string  `json:"content" gorm:"type:jsonb;serializer:json"`
	MathFormulas   []string  `json:"math_formulas,omitempty" gorm:"type:jsonb;serializer:json"`
	DeepDive       *string   `json:"deep_dive,omitempty" gorm:"type:text"`
	CreatedAt      time.Time `json:"created_at" gorm:"autoCreateTime"`
}

// TableName specifies the table name for GORM
func (Slide) TableName() string {
	return "slides"
}

// Duration returns the slide's covered time span in seconds
func (s *Slide) Duration() float64 {
	return s.TimestampEnd - s.TimestampStart
}
