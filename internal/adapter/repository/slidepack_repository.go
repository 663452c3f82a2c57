package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/slidecast-team/slidecast/internal/domain/entities"
	"github.com/slidecast-team/slidecast/internal/domain/repositories"
)

// SlidePackRepository handles slide pack data operations
type SlidePackRepository struct {
	db *gorm.DB
}

// NewSlidePackRepository creates a new slide pack repository
func NewSlidePackRepository(db *gorm.DB) *SlidePackRepository {
	return &SlidePackRepository{db: db}
}

// Ensure interface compliance
var _ repositories.SlidePackRepository = (*SlidePackRepository)(nil)

// Create creates a new slide pack
func (r *SlidePackRepository) Create(ctx context.Context, pack *entities.SlidePack) error {
	if pack == nil {
		return errors.New("pack cannot be nil")
	}
	return r.db.WithContext(ctx).Create(pack).Error
}

// FindByID retrieves a slide pack by ID without content
func (r *SlidePackRepository) FindByID(ctx context.Context, id uuid.UUID) (*entities.SlidePack, error) {
	var pack entities.SlidePack
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&pack).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &pack, nil
}

// FindByIDWithContent retrieves a slide pack with slides and cards preloaded
func (r *SlidePackRepository) FindByIDWithContent(ctx context.Context, id uuid.UUID) (*entities.SlidePack, error) {
	var pack entities.SlidePack
	err := r.db.WithContext(ctx).
		Preload("Slides", func(db *gorm.DB) *gorm.DB {
			return db.Order("slide_id ASC")
		}).
		Preload("Cards", func(db *gorm.DB) *gorm.DB {
			return db.Order("card_id ASC")
		}).
		Where("id = ?", id).
		First(&pack).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &pack, nil
}

// List retrieves slide packs with filters
func (r *SlidePackRepository) List(ctx context.Context, filters repositories.SlidePackFilters) ([]*entities.SlidePack, int64, error) {
	query := r.db.WithContext(ctx).Model(&entities.SlidePack{})

	if filters.CourseID != nil {
		query = query.Where("course_id = ?", *filters.CourseID)
	}
	if filters.Status != nil {
		query = query.Where("status = ?", *filters.Status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if filters.Limit > 0 {
		query = query.Limit(filters.Limit).Offset(filters.Offset)
	}

	var packs []*entities.SlidePack
	if err := query.Order("order_index ASC, created_at ASC").Find(&packs).Error; err != nil {
		return nil, 0, err
	}
	return packs, total, nil
}

// UpdateTitle renames a slide pack
func (r *SlidePackRepository) UpdateTitle(ctx context.Context, id uuid.UUID, title string) error {
	result := r.db.WithContext(ctx).
		Model(&entities.SlidePack{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"title":      title,
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return entities.ErrSlidePackNotFound
	}
	return nil
}

// UpdateCourse reassigns a slide pack to a course
func (r *SlidePackRepository) UpdateCourse(ctx context.Context, id uuid.UUID, courseID *uuid.UUID, orderIndex int) error {
	result := r.db.WithContext(ctx).
		Model(&entities.SlidePack{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"course_id":   courseID,
			"order_index": orderIndex,
			"updated_at":  time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return entities.ErrSlidePackNotFound
	}
	return nil
}

// CompleteWithContent writes slides, cards and audio metadata and flips the
// pack to completed, all in one transaction
func (r *SlidePackRepository) CompleteWithContent(ctx context.Context, pack *entities.SlidePack, slides []entities.Slide, cards []entities.Card) error {
	if pack == nil {
		return errors.New("pack cannot be nil")
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// A re-sync replaces the previous slide and card sets
		if err := tx.Where("slide_pack_id = ?", pack.ID).Delete(&entities.Slide{}).Error; err != nil {
			return err
		}
		if err := tx.Where("slide_pack_id = ?", pack.ID).Delete(&entities.Card{}).Error; err != nil {
			return err
		}

		for i := range slides {
			slides[i].ID = uuid.New()
			slides[i].SlidePackID = pack.ID
		}
		if len(slides) > 0 {
			if err := tx.Create(&slides).Error; err != nil {
				return err
			}
		}

		for i := range cards {
			cards[i].ID = uuid.New()
			cards[i].SlidePackID = pack.ID
		}
		if len(cards) > 0 {
			if err := tx.Create(&cards).Error; err != nil {
				return err
			}
		}

		return tx.Model(&entities.SlidePack{}).
			Where("id = ?", pack.ID).
			Updates(map[string]interface{}{
				"status":         entities.SlidePackStatusCompleted,
				"error_detail":   nil,
				"title":          pack.Title,
				"audio_object":   pack.AudioObject,
				"audio_duration": pack.AudioDuration,
				"updated_at":     time.Now(),
			}).Error
	})
}

// MarkAsFailed flips the pack to failed with error detail
func (r *SlidePackRepository) MarkAsFailed(ctx context.Context, id uuid.UUID, errMsg string) error {
	return r.db.WithContext(ctx).
		Model(&entities.SlidePack{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":       entities.SlidePackStatusFailed,
			"error_detail": errMsg,
			"updated_at":   time.Now(),
		}).Error
}

// MarkAsProcessing flips the pack back to processing, clearing any prior
// error detail. Used when a re-sync targets an existing pack.
func (r *SlidePackRepository) MarkAsProcessing(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&entities.SlidePack{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":       entities.SlidePackStatusProcessing,
			"error_detail": nil,
			"updated_at":   time.Now(),
		}).Error
}

// ReplaceCards replaces the pack's card list in one transaction
func (r *SlidePackRepository) ReplaceCards(ctx context.Context, id uuid.UUID, cards []entities.Card) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("slide_pack_id = ?", id).Delete(&entities.Card{}).Error; err != nil {
			return err
		}
		for i := range cards {
			cards[i].ID = uuid.New()
			cards[i].SlidePackID = id
		}
		if len(cards) > 0 {
			if err := tx.Create(&cards).Error; err != nil {
				return err
			}
		}
		return tx.Model(&entities.SlidePack{}).
			Where("id = ?", id).
			Update("updated_at", time.Now()).Error
	})
}

// ReorderInCourse rewrites order_index for every pack of a course. The
// given id set must exactly match the course's current packs; on any
// mismatch the prior order is left untouched.
func (r *SlidePackRepository) ReorderInCourse(ctx context.Context, courseID uuid.UUID, orderedPackIDs []uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var current []entities.SlidePack
		if err := tx.Select("id").Where("course_id = ?", courseID).Find(&current).Error; err != nil {
			return err
		}

		if len(current) != len(orderedPackIDs) {
			return fmt.Errorf("reorder id set mismatch: course has %d packs, got %d ids", len(current), len(orderedPackIDs))
		}

		existing := make(map[uuid.UUID]struct{}, len(current))
		for _, p := range current {
			existing[p.ID] = struct{}{}
		}
		seen := make(map[uuid.UUID]struct{}, len(orderedPackIDs))
		for _, id := range orderedPackIDs {
			if _, ok := existing[id]; !ok {
				return fmt.Errorf("reorder id set mismatch: pack %s not in course", id)
			}
			if _, dup := seen[id]; dup {
				return fmt.Errorf("reorder id set mismatch: duplicate pack %s", id)
			}
			seen[id] = struct{}{}
		}

		for idx, id := range orderedPackIDs {
			if err := tx.Model(&entities.SlidePack{}).
				Where("id = ?", id).
				Updates(map[string]interface{}{
					"order_index": idx,
					"updated_at":  time.Now(),
				}).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// Delete removes a slide pack with its slides and cards
func (r *SlidePackRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("slide_pack_id = ?", id).Delete(&entities.Slide{}).Error; err != nil {
			return err
		}
		if err := tx.Where("slide_pack_id = ?", id).Delete(&entities.Card{}).Error; err != nil {
			return err
		}
		result := tx.Where("id = ?", id).Delete(&entities.SlidePack{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return entities.ErrSlidePackNotFound
		}
		return nil
	})
}

// NextOrderIndex returns the next free order index within a course
func (r *SlidePackRepository) NextOrderIndex(ctx context.Context, courseID uuid.UUID) (int, error) {
	var max *int
	err := r.db.WithContext(ctx).
		Model(&entities.SlidePack{}).
		Where("course_id = ?", courseID).
		Select("MAX(order_index)").
		Scan(&max).Error
	if err != nil {
		return 0, err
	}
	if max == nil {
		return 0, nil
	}
	return *max + 1, nil
}
