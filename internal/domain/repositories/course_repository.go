package repositories

import (
	"context"

	"github.com/google/uuid"
	"github.com/slidecast-team/slidecast/internal/domain/entities"
)

// CourseRepository defines the interface for course data access
type CourseRepository interface {
	// Create creates a new course
	Create(ctx context.Context, course *entities.Course) error

	// FindByID retrieves a course by id with its packs ordered by order_index
	FindByID(ctx context.Context, id uuid.UUID) (*entities.Course, error)

	// List retrieves all courses ordered by creation time
	List(ctx context.Context) ([]*entities.Course, error)

	// UpdateTitle renames a course
	UpdateTitle(ctx context.Context, id uuid.UUID, title string) error

	// Delete removes a course; its packs are detached, not deleted
	Delete(ctx context.Context, id uuid.UUID) error
}
