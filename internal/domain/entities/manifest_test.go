package entities

import (
	"errors"
	"testing"

	"github.com/google/uuid"
)

const manifestJSON = `{
	"metadata": {"title": "Limits", "duration": 120.5},
	"slides": [
		{"id": 0, "timestamp_start": 0, "timestamp_end": 60, "title": "Intro", "content": ["a", "b"]},
		{"id": 1, "timestamp_start": 60, "timestamp_end": 120.5, "title": "Epsilon-delta", "content": ["c"], "math_formulas": ["\\lim_{x \\to 0}"]}
	],
	"cards": [
		{"id": 1, "kind": "standard", "question": "Define a limit", "answer": "..."}
	]
}`

func TestParseManifest(t *testing.T) {
	m, err := ParseManifest([]byte(manifestJSON))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m.Metadata.Title != "Limits" {
		t.Errorf("expected title Limits, got %q", m.Metadata.Title)
	}
	if m.Metadata.Duration != 120.5 {
		t.Errorf("expected duration 120.5, got %v", m.Metadata.Duration)
	}
	if len(m.Slides) != 2 || len(m.Cards) != 1 {
		t.Fatalf("expected 2 slides and 1 card, got %d and %d", len(m.Slides), len(m.Cards))
	}
	if len(m.Slides[1].MathFormulas) != 1 {
		t.Errorf("expected formula carried through, got %v", m.Slides[1].MathFormulas)
	}
}

func TestParseManifestRejectsEmptySlides(t *testing.T) {
	_, err := ParseManifest([]byte(`{"metadata": {"title": "x"}, "slides": []}`))
	if !errors.Is(err, ErrManifestNoSlides) {
		t.Fatalf("expected no-slides error, got %v", err)
	}
}

func TestParseManifestRejectsBadJSON(t *testing.T) {
	if _, err := ParseManifest([]byte(`{not json`)); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestManifestRoundTrip(t *testing.T) {
	m, err := ParseManifest([]byte(manifestJSON))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	pack := NewSlidePack(m.Metadata.Title)
	pack.AudioDuration = m.Metadata.Duration
	pack.Slides = m.ToSlides()
	pack.Cards = m.ToCards()
	for i := range pack.Slides {
		pack.Slides[i].SlidePackID = pack.ID
	}

	out := BuildManifest(pack)
	if out.Metadata.Title != m.Metadata.Title || out.Metadata.Duration != m.Metadata.Duration {
		t.Errorf("metadata changed: %+v", out.Metadata)
	}
	if len(out.Slides) != len(m.Slides) {
		t.Fatalf("slide count changed: %d != %d", len(out.Slides), len(m.Slides))
	}
	for i := range out.Slides {
		if out.Slides[i].ID != m.Slides[i].ID ||
			out.Slides[i].TimestampStart != m.Slides[i].TimestampStart ||
			out.Slides[i].TimestampEnd != m.Slides[i].TimestampEnd {
			t.Errorf("slide %d timing changed: %+v", i, out.Slides[i])
		}
	}
	if len(out.Cards) != 1 || out.Cards[0].Question != "Define a limit" {
		t.Errorf("cards changed: %+v", out.Cards)
	}
}

func TestMaxSlideID(t *testing.T) {
	pack := &SlidePack{ID: uuid.New()}
	if got := pack.MaxSlideID(); got != -1 {
		t.Fatalf("empty pack should report -1, got %d", got)
	}
	pack.Slides = []Slide{{SlideID: 3}, {SlideID: 7}, {SlideID: 5}}
	if got := pack.MaxSlideID(); got != 7 {
		t.Fatalf("expected 7, got %d", got)
	}
}
