package catalog

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/slidecast-team/slidecast/internal/domain/entities"
	"github.com/slidecast-team/slidecast/internal/domain/repositories"
	usecaseErrors "github.com/slidecast-team/slidecast/internal/usecase/errors"
)

// Service covers the synchronous catalog operations: course CRUD, pack
// listing, rename, move, reorder and card edits. None of these touch
// timing, so none of them go through the job queue.
type Service struct {
	packs   repositories.SlidePackRepository
	courses repositories.CourseRepository
	logger  *zap.Logger
}

// NewService creates a catalog service
func NewService(packs repositories.SlidePackRepository, courses repositories.CourseRepository, logger *zap.Logger) *Service {
	return &Service{packs: packs, courses: courses, logger: logger}
}

// CreateCourse creates an empty course
func (s *Service) CreateCourse(ctx context.Context, title string) (*entities.Course, error) {
	course := entities.NewCourse(title)
	if err := s.courses.Create(ctx, course); err != nil {
		return nil, fmt.Errorf("failed to create course: %w", err)
	}
	return course, nil
}

// GetCourse retrieves a course with its packs ordered by order index
func (s *Service) GetCourse(ctx context.Context, id uuid.UUID) (*entities.Course, error) {
	course, err := s.courses.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if course == nil {
		return nil, usecaseErrors.ErrNotFound
	}
	return course, nil
}

// ListCourses retrieves all courses
func (s *Service) ListCourses(ctx context.Context) ([]*entities.Course, error) {
	return s.courses.List(ctx)
}

// RenameCourse renames a course
func (s *Service) RenameCourse(ctx context.Context, id uuid.UUID, title string) error {
	if _, err := s.GetCourse(ctx, id); err != nil {
		return err
	}
	return s.courses.UpdateTitle(ctx, id, title)
}

// DeleteCourse removes a course, detaching its packs
func (s *Service) DeleteCourse(ctx context.Context, id uuid.UUID) error {
	if _, err := s.GetCourse(ctx, id); err != nil {
		return err
	}
	return s.courses.Delete(ctx, id)
}

// Reorder rewrites the order index of every pack in a course to match
// the given sequence, in one transaction. The id set must exactly match
// the course's current packs; a mismatch is rejected and leaves the
// prior order untouched.
func (s *Service) Reorder(ctx context.Context, courseID uuid.UUID, orderedPackIDs []uuid.UUID) error {
	course, err := s.GetCourse(ctx, courseID)
	if err != nil {
		return err
	}

	if len(orderedPackIDs) != len(course.SlidePacks) {
		return usecaseErrors.ErrReorderSetMismatch
	}
	current := make(map[uuid.UUID]bool, len(course.SlidePacks))
	for _, p := range course.SlidePacks {
		current[p.ID] = true
	}
	seen := make(map[uuid.UUID]bool, len(orderedPackIDs))
	for _, id := range orderedPackIDs {
		if !current[id] || seen[id] {
			return usecaseErrors.ErrReorderSetMismatch
		}
		seen[id] = true
	}

	if err := s.packs.ReorderInCourse(ctx, courseID, orderedPackIDs); err != nil {
		return err
	}
	if s.logger != nil {
		s.logger.Info("✅ Course reordered",
			zap.String("course_id", courseID.String()),
			zap.Int("pack_count", len(orderedPackIDs)),
		)
	}
	return nil
}

// ListPacks retrieves packs with filters. Failed packs stay visible with
// their error detail.
func (s *Service) ListPacks(ctx context.Context, filters repositories.SlidePackFilters) ([]*entities.SlidePack, int64, error) {
	return s.packs.List(ctx, filters)
}

// GetPack retrieves a pack with slides and cards
func (s *Service) GetPack(ctx context.Context, id uuid.UUID) (*entities.SlidePack, error) {
	pack, err := s.packs.FindByIDWithContent(ctx, id)
	if err != nil {
		return nil, err
	}
	if pack == nil {
		return nil, usecaseErrors.ErrNotFound
	}
	return pack, nil
}

// RenamePack renames a pack without re-running alignment
func (s *Service) RenamePack(ctx context.Context, id uuid.UUID, title string) error {
	if _, err := s.findPack(ctx, id); err != nil {
		return err
	}
	return s.packs.UpdateTitle(ctx, id, title)
}

// MovePack reassigns a pack to a course (nil detaches). The pack lands
// at the end of the target course's ordering.
func (s *Service) MovePack(ctx context.Context, id uuid.UUID, courseID *uuid.UUID) error {
	if _, err := s.findPack(ctx, id); err != nil {
		return err
	}

	orderIndex := 0
	if courseID != nil {
		if _, err := s.GetCourse(ctx, *courseID); err != nil {
			return err
		}
		idx, err := s.packs.NextOrderIndex(ctx, *courseID)
		if err != nil {
			return err
		}
		orderIndex = idx
	}
	return s.packs.UpdateCourse(ctx, id, courseID, orderIndex)
}

// ReplaceCards validates and replaces a pack's card list. An explicit
// user edit, independent of slide timing.
func (s *Service) ReplaceCards(ctx context.Context, id uuid.UUID, cards []entities.Card) error {
	pack, err := s.findPack(ctx, id)
	if err != nil {
		return err
	}
	if pack.Status != entities.SlidePackStatusCompleted {
		return usecaseErrors.ErrPackNotCompleted
	}
	if err := entities.ValidateCards(cards); err != nil {
		return err
	}
	return s.packs.ReplaceCards(ctx, id, cards)
}

// DeletePack removes a pack with its slides and cards. The audio object
// is left in storage; stored audio is immutable.
func (s *Service) DeletePack(ctx context.Context, id uuid.UUID) error {
	if _, err := s.findPack(ctx, id); err != nil {
		return err
	}
	return s.packs.Delete(ctx, id)
}

// ExportManifest renders a completed pack as its slides.json shape
func (s *Service) ExportManifest(ctx context.Context, id uuid.UUID) (*entities.PresentationManifest, error) {
	pack, err := s.GetPack(ctx, id)
	if err != nil {
		return nil, err
	}
	if pack.Status != entities.SlidePackStatusCompleted {
		return nil, usecaseErrors.ErrPackNotCompleted
	}
	return entities.BuildManifest(pack), nil
}

func (s *Service) findPack(ctx context.Context, id uuid.UUID) (*entities.SlidePack, error) {
	pack, err := s.packs.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if pack == nil {
		return nil, usecaseErrors.ErrNotFound
	}
	return pack, nil
}
