package course

import (
	"time"

	"github.com/slidecast-team/slidecast/internal/adapter/dto/slidepack"
)

// CreateCourseRequest represents the request to create a course
type CreateCourseRequest struct {
	Title string `json:"title" validate:"required,min=1,max=255"`
}

// RenameCourseRequest represents the request to rename a course
type RenameCourseRequest struct {
	Title string `json:"title" validate:"required,min=1,max=255"`
}

// ReorderRequest represents the request to reorder a course's packs.
// The id set must exactly match the course's current packs.
type ReorderRequest struct {
	PackIDs []string `json:"pack_ids" validate:"required,min=1,dive,uuid"`
}

// CourseResponse represents a course in responses
type CourseResponse struct {
	ID         string                         `json:"id"`
	Title      string                         `json:"title"`
	SlidePacks []*slidepack.SlidePackResponse `json:"slide_packs,omitempty"`
	CreatedAt  time.Time                      `json:"created_at"`
	UpdatedAt  time.Time                      `json:"updated_at"`
}
