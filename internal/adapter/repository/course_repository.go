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

// CourseRepository handles course data operations
type CourseRepository struct {
	db *gorm.DB
}

// NewCourseRepository creates a new course repository
func NewCourseRepository(db *gorm.DB) *CourseRepository {
	return &CourseRepository{db: db}
}

var _ repositories.CourseRepository = (*CourseRepository)(nil)

// Create creates a new course
func (r *CourseRepository) Create(ctx context.Context, course *entities.Course) error {
	if course == nil {
		return errors.New("course cannot be nil")
	}
	return r.db.WithContext(ctx).Create(course).Error
}

// FindByID retrieves a course with its packs ordered by order_index
func (r *CourseRepository) FindByID(ctx context.Context, id uuid.UUID) (*entities.Course, error) {
	var course entities.Course
	err := r.db.WithContext(ctx).
		Preload("SlidePacks", func(db *gorm.DB) *gorm.DB {
			return db.Order("order_index ASC, created_at ASC")
		}).
		Where("id = ?", id).
		First(&course).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &course, nil
}

// List retrieves all courses ordered by creation time
func (r *CourseRepository) List(ctx context.Context) ([]*entities.Course, error) {
	var courses []*entities.Course
	if err := r.db.WithContext(ctx).Order("created_at ASC").Find(&courses).Error; err != nil {
		return nil, err
	}
	return courses, nil
}

// UpdateTitle renames a course
func (r *CourseRepository) UpdateTitle(ctx context.Context, id uuid.UUID, title string) error {
	result := r.db.WithContext(ctx).
		Model(&entities.Course{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"title":      title,
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return entities.ErrCourseNotFound
	}
	return nil
}

// Delete removes a course and detaches its packs
func (r *CourseRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&entities.SlidePack{}).
			Where("course_id = ?", id).
			Updates(map[string]interface{}{
				"course_id":   nil,
				"order_index": 0,
				"updated_at":  time.Now(),
			}).Error; err != nil {
			return err
		}
		result := tx.Where("id = ?", id).Delete(&entities.Course{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return entities.ErrCourseNotFound
		}
		return nil
	})
}
