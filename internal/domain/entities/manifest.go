package entities

import (
	"encoding/json"
	"fmt"
)

// PresentationManifest is the slides.json array shape carried inside a
// .slidepack bundle. The zip container itself is handled by the client;
// the backend only parses and emits this structure.
type PresentationManifest struct {
	Metadata ManifestMetadata `json:"metadata"`
	Slides   []ManifestSlide  `json:"slides"`
	Cards    []ManifestCard   `json:"cards,omitempty"`
}

// ManifestMetadata holds deck-level fields
type ManifestMetadata struct {
	Title    string  `json:"title"`
	Duration float64 `json:"duration"`
}

// ManifestSlide mirrors the persisted Slide without storage ids
type ManifestSlide struct {
	ID             int      `json:"id"`
	TimestampStart float64  `json:"timestamp_start"`
	TimestampEnd   float64  `json:"timestamp_end"`
	Title          string   `json:"title"`
	Content        []string `json:"content"`
	MathFormulas   []string `json:"math_formulas,omitempty"`
	DeepDive       *string  `json:"deep_dive,omitempty"`
}

// ManifestCard mirrors the persisted Card without storage ids
type ManifestCard struct {
	ID           int      `json:"id"`
	Kind         string   `json:"kind"`
	Question     string   `json:"question"`
	Hint         *string  `json:"hint,omitempty"`
	Answer       string   `json:"answer,omitempty"`
	Options      []string `json:"options,omitempty"`
	CorrectIndex *int     `json:"correct_index,omitempty"`
	Explanation  *string  `json:"explanation,omitempty"`
}

// ParseManifest decodes a slides.json payload
func ParseManifest(data []byte) (*PresentationManifest, error) {
	var m PresentationManifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("invalid slides.json: %w", err)
	}
	if len(m.Slides) == 0 {
		return nil, fmt.Errorf("slides.json: %w", ErrManifestNoSlides)
	}
	return &m, nil
}

// ToSlides converts manifest slides into Slide entities for a pack
func (m *PresentationManifest) ToSlides() []Slide {
	slides := make([]Slide, 0, len(m.Slides))
	for _, ms := range m.Slides {
		slides = append(slides, Slide{
			SlideID:        ms.ID,
			TimestampStart: ms.TimestampStart,
			TimestampEnd:   ms.TimestampEnd,
			Title:          ms.Title,
			Content:        ms.Content,
			MathFormulas:   ms.MathFormulas,
			DeepDive:       ms.DeepDive,
		})
	}
	return slides
}

// ToCards converts manifest cards into Card entities for a pack
func (m *PresentationManifest) ToCards() []Card {
	cards := make([]Card, 0, len(m.Cards))
	for _, mc := range m.Cards {
		cards = append(cards, Card{
			CardID:       mc.ID,
			Kind:         CardKind(mc.Kind),
			Question:     mc.Question,
			Hint:         mc.Hint,
			Answer:       mc.Answer,
			Options:      mc.Options,
			CorrectIndex: mc.CorrectIndex,
			Explanation:  mc.Explanation,
		})
	}
	return cards
}

// BuildManifest renders a completed pack as its slides.json shape
func BuildManifest(pack *SlidePack) *PresentationManifest {
	m := &PresentationManifest{
		Metadata: ManifestMetadata{
			Title:    pack.Title,
			Duration: pack.AudioDuration,
		},
	}
	for _, s := range pack.Slides {
		m.Slides = append(m.Slides, ManifestSlide{
			ID:             s.SlideID,
			TimestampStart: s.TimestampStart,
			TimestampEnd:   s.TimestampEnd,
			Title:          s.Title,
			Content:        s.Content,
			MathFormulas:   s.MathFormulas,
			DeepDive:       s.DeepDive,
		})
	}
	for _, c := range pack.Cards {
		m.Cards = append(m.Cards, ManifestCard{
			ID:           c.CardID,
			Kind:         string(c.Kind),
			Question:     c.Question,
			Hint:         c.Hint,
			Answer:       c.Answer,
			Options:      c.Options,
			CorrectIndex: c.CorrectIndex,
			Explanation:  c.Explanation,
		})
	}
	return m
}
