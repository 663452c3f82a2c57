package repositories

import (
	"context"

	"github.com/google/uuid"
	"github.com/slidecast-team/slidecast/internal/domain/entities"
)

// SlidePackFilters holds listing filters for slide packs
type SlidePackFilters struct {
	CourseID *uuid.UUID
	Status   *entities.SlidePackStatus
	Limit    int
	Offset   int
}

// SlidePackRepository defines the interface for slide pack data access
type SlidePackRepository interface {
	// Create creates a new slide pack row
	Create(ctx context.Context, pack *entities.SlidePack) error

	// FindByID retrieves a pack by id, without slides/cards
	FindByID(ctx context.Context, id uuid.UUID) (*entities.SlidePack, error)

	// FindByIDWithContent retrieves a pack with slides and cards preloaded,
	// slides ordered by slide_id, cards by card_id
	FindByIDWithContent(ctx context.Context, id uuid.UUID) (*entities.SlidePack, error)

	// List retrieves packs with filters, ordered by course order then creation time
	List(ctx context.Context, filters SlidePackFilters) ([]*entities.SlidePack, int64, error)

	// UpdateTitle renames a completed pack
	UpdateTitle(ctx context.Context, id uuid.UUID, title string) error

	// UpdateCourse reassigns a pack to a course (nil detaches)
	UpdateCourse(ctx context.Context, id uuid.UUID, courseID *uuid.UUID, orderIndex int) error

	// CompleteWithContent atomically writes slides, cards, audio metadata
	// and flips the pack to completed. A crash mid-write must never leave a
	// completed pack with partial slides.
	CompleteWithContent(ctx context.Context, pack *entities.SlidePack, slides []entities.Slide, cards []entities.Card) error

	// MarkAsFailed flips the pack to failed with error detail
	MarkAsFailed(ctx context.Context, id uuid.UUID, errMsg string) error

	// MarkAsProcessing flips the pack back to processing, clearing any
	// prior error detail (re-sync of an existing pack)
	MarkAsProcessing(ctx context.Context, id uuid.UUID) error

	// ReplaceCards replaces the pack's card list in one transaction
	ReplaceCards(ctx context.Context, id uuid.UUID, cards []entities.Card) error

	// ReorderInCourse rewrites order_index for every pack of a course in one
	// transaction; the id set must exactly match the course's packs
	ReorderInCourse(ctx context.Context, courseID uuid.UUID, orderedPackIDs []uuid.UUID) error

	// Delete removes a pack with its slides and cards
	Delete(ctx context.Context, id uuid.UUID) error

	// NextOrderIndex returns the next free order index within a course
	NextOrderIndex(ctx context.Context, courseID uuid.UUID) (int, error)
}
