package entities

import (
	"time"

	"github.com/google/uuid"
)

// Course is an ordered grouping of slide packs. It owns no timing data;
// ordering lives in each pack's order_index.
type Course struct {
	ID         uuid.UUID   `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	Title      string      `json:"title" gorm:"type:varchar(255);not null"`
	SlidePacks []SlidePack `json:"slide_packs,omitempty" gorm:"foreignKey:CourseID"`
	CreatedAt  time.Time   `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt  time.Time   `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName specifies the table name for GORM
func (Course) TableName() string {
	return "courses"
}

// NewCourse creates a new course
func NewCourse(title string) *Course {
	return &Course{
		ID:        uuid.New(),
		Title:     title,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
}
