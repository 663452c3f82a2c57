package merge

import (
	"context"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/slidecast-team/slidecast/internal/domain/entities"
	usecaseErrors "github.com/slidecast-team/slidecast/internal/usecase/errors"
)

// PackReader loads packs with their slides and cards
type PackReader interface {
	FindByIDWithContent(ctx context.Context, id uuid.UUID) (*entities.SlidePack, error)
}

// AudioConcatenator appends stored audio objects into a new object
type AudioConcatenator interface {
	Concat(ctx context.Context, destObject string, srcObjects []string, contentType string) error
}

// Result is the content of a merged pack, ready to be persisted by the
// orchestrator alongside the target pack's status flip.
type Result struct {
	AudioObject   string
	AudioDuration float64
	Slides        []entities.Slide
	Cards         []entities.Card
}

// Composer concatenates completed slide packs into one timeline. Source
// packs are read, never modified.
type Composer struct {
	packs  PackReader
	audio  AudioConcatenator
	logger *zap.Logger
}

// NewComposer creates a merge composer
func NewComposer(packs PackReader, audio AudioConcatenator, logger *zap.Logger) *Composer {
	return &Composer{packs: packs, audio: audio, logger: logger}
}

// Compose validates the source packs, concatenates their audio into
// destObject and re-bases every slide's timestamps by the cumulative
// duration of the packs before it. Slide ids are renumbered sequentially
// across the merged sequence; card id collisions get fresh ids.
// Validation failures surface before any audio work starts.
func (c *Composer) Compose(ctx context.Context, destObject string, packIDs []uuid.UUID) (*Result, error) {
	if len(packIDs) < 2 {
		return nil, fmt.Errorf("%w: need at least two packs, got %d", usecaseErrors.ErrInvalidMergeInput, len(packIDs))
	}

	packs := make([]*entities.SlidePack, 0, len(packIDs))
	for _, id := range packIDs {
		pack, err := c.packs.FindByIDWithContent(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("failed to load pack %s: %w", id, err)
		}
		if pack == nil {
			return nil, fmt.Errorf("%w: pack %s not found", usecaseErrors.ErrInvalidMergeInput, id)
		}
		if pack.Status != entities.SlidePackStatusCompleted {
			return nil, fmt.Errorf("%w: pack %s has status %s", usecaseErrors.ErrInvalidMergeInput, id, pack.Status)
		}
		packs = append(packs, pack)
	}

	srcObjects := make([]string, len(packs))
	for i, p := range packs {
		srcObjects[i] = p.AudioObject
	}
	if err := c.audio.Concat(ctx, destObject, srcObjects, "audio/mpeg"); err != nil {
		return nil, fmt.Errorf("failed to concatenate audio: %w", err)
	}

	var (
		slides []entities.Slide
		cards  []entities.Card
		offset float64
		nextID int
	)
	usedCardIDs := make(map[int]bool)
	maxCardID := -1

	for _, pack := range packs {
		packSlides := make([]entities.Slide, len(pack.Slides))
		copy(packSlides, pack.Slides)
		sort.Slice(packSlides, func(i, j int) bool { return packSlides[i].SlideID < packSlides[j].SlideID })

		for _, s := range packSlides {
			slides = append(slides, entities.Slide{
				SlideID:        nextID,
				TimestampStart: s.TimestampStart + offset,
				TimestampEnd:   s.TimestampEnd + offset,
				Title:          s.Title,
				Content:        s.Content,
				MathFormulas:   s.MathFormulas,
				DeepDive:       s.DeepDive,
			})
			nextID++
		}

		for _, card := range pack.Cards {
			id := card.CardID
			if usedCardIDs[id] {
				id = maxCardID + 1
			}
			usedCardIDs[id] = true
			if id > maxCardID {
				maxCardID = id
			}
			merged := card
			merged.ID = uuid.Nil
			merged.SlidePackID = uuid.Nil
			merged.CardID = id
			cards = append(cards, merged)
		}

		offset += pack.AudioDuration
	}

	if c.logger != nil {
		c.logger.Info("✅ Packs merged",
			zap.Int("pack_count", len(packs)),
			zap.Int("slide_count", len(slides)),
			zap.Int("card_count", len(cards)),
			zap.Float64("total_duration", offset),
		)
	}

	return &Result{
		AudioObject:   destObject,
		AudioDuration: offset,
		Slides:        slides,
		Cards:         cards,
	}, nil
}
