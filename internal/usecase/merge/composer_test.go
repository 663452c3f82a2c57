package merge

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/slidecast-team/slidecast/internal/domain/entities"
	usecaseErrors "github.com/slidecast-team/slidecast/internal/usecase/errors"
)

type fakePackReader struct {
	packs map[uuid.UUID]*entities.SlidePack
}

func (f *fakePackReader) FindByIDWithContent(_ context.Context, id uuid.UUID) (*entities.SlidePack, error) {
	return f.packs[id], nil
}

type fakeConcat struct {
	called      bool
	destObject  string
	srcObjects  []string
	contentType string
}

func (f *fakeConcat) Concat(_ context.Context, destObject string, srcObjects []string, contentType string) error {
	f.called = true
	f.destObject = destObject
	f.srcObjects = srcObjects
	f.contentType = contentType
	return nil
}

func completedPack(title, audioObject string, duration float64, slides []entities.Slide, cards []entities.Card) *entities.SlidePack {
	return &entities.SlidePack{
		ID:            uuid.New(),
		Title:         title,
		Status:        entities.SlidePackStatusCompleted,
		AudioObject:   audioObject,
		AudioDuration: duration,
		Slides:        slides,
		Cards:         cards,
	}
}

func TestComposeRebasesTimestamps(t *testing.T) {
	first := completedPack("First", "audio/first.mp3", 100, []entities.Slide{
		{SlideID: 0, TimestampStart: 0, TimestampEnd: 60, Title: "F1"},
		{SlideID: 1, TimestampStart: 60, TimestampEnd: 100, Title: "F2"},
	}, nil)
	second := completedPack("Second", "audio/second.mp3", 50, []entities.Slide{
		{SlideID: 0, TimestampStart: 0, TimestampEnd: 50, Title: "S1"},
	}, nil)

	reader := &fakePackReader{packs: map[uuid.UUID]*entities.SlidePack{
		first.ID:  first,
		second.ID: second,
	}}
	concat := &fakeConcat{}
	composer := NewComposer(reader, concat, nil)

	res, err := composer.Compose(context.Background(), "audio/merged.mp3", []uuid.UUID{first.ID, second.ID})
	if err != nil {
		t.Fatalf("Compose failed: %v", err)
	}

	if !concat.called {
		t.Fatal("audio concat was not invoked")
	}
	if len(concat.srcObjects) != 2 || concat.srcObjects[0] != "audio/first.mp3" || concat.srcObjects[1] != "audio/second.mp3" {
		t.Errorf("unexpected concat sources: %v", concat.srcObjects)
	}

	if res.AudioDuration != 150 {
		t.Errorf("duration = %v, want 150", res.AudioDuration)
	}
	if len(res.Slides) != 3 {
		t.Fatalf("expected 3 slides, got %d", len(res.Slides))
	}
	// Second pack's first slide must start at exactly 100, not 100±eps.
	if res.Slides[2].TimestampStart != 100 {
		t.Errorf("rebased start = %v, want exactly 100", res.Slides[2].TimestampStart)
	}
	if res.Slides[2].TimestampEnd != 150 {
		t.Errorf("rebased end = %v, want 150", res.Slides[2].TimestampEnd)
	}
	for i, s := range res.Slides {
		if s.SlideID != i {
			t.Errorf("slide %d renumbered to %d", i, s.SlideID)
		}
	}
	// Contiguity across the pack boundary
	if res.Slides[1].TimestampEnd != res.Slides[2].TimestampStart {
		t.Errorf("gap at pack boundary: %v != %v", res.Slides[1].TimestampEnd, res.Slides[2].TimestampStart)
	}
}

func TestComposeRegeneratesCardIDCollisions(t *testing.T) {
	correct := 0
	first := completedPack("First", "a.mp3", 10, []entities.Slide{{SlideID: 0, TimestampEnd: 10, Title: "x"}}, []entities.Card{
		{CardID: 0, Kind: entities.CardKindStandard, Question: "q0", Answer: "a0"},
		{CardID: 1, Kind: entities.CardKindStandard, Question: "q1", Answer: "a1"},
	})
	second := completedPack("Second", "b.mp3", 10, []entities.Slide{{SlideID: 0, TimestampEnd: 10, Title: "y"}}, []entities.Card{
		{CardID: 1, Kind: entities.CardKindQuiz, Question: "q2", Options: []string{"a", "b"}, CorrectIndex: &correct},
	})

	reader := &fakePackReader{packs: map[uuid.UUID]*entities.SlidePack{
		first.ID:  first,
		second.ID: second,
	}}
	composer := NewComposer(reader, &fakeConcat{}, nil)

	res, err := composer.Compose(context.Background(), "m.mp3", []uuid.UUID{first.ID, second.ID})
	if err != nil {
		t.Fatalf("Compose failed: %v", err)
	}
	if len(res.Cards) != 3 {
		t.Fatalf("expected 3 cards, got %d", len(res.Cards))
	}
	if err := entities.ValidateCards(res.Cards); err != nil {
		t.Errorf("merged cards invalid: %v", err)
	}
	if res.Cards[2].CardID == 1 {
		t.Errorf("colliding card id was not regenerated")
	}
}

func TestComposeRejectsIncompletePack(t *testing.T) {
	completed := completedPack("Done", "a.mp3", 10, nil, nil)
	processing := &entities.SlidePack{ID: uuid.New(), Status: entities.SlidePackStatusProcessing}

	reader := &fakePackReader{packs: map[uuid.UUID]*entities.SlidePack{
		completed.ID:  completed,
		processing.ID: processing,
	}}
	concat := &fakeConcat{}
	composer := NewComposer(reader, concat, nil)

	_, err := composer.Compose(context.Background(), "m.mp3", []uuid.UUID{completed.ID, processing.ID})
	if !errors.Is(err, usecaseErrors.ErrInvalidMergeInput) {
		t.Fatalf("expected ErrInvalidMergeInput, got %v", err)
	}
	if concat.called {
		t.Error("audio work started despite invalid input")
	}
}

func TestComposeRejectsMissingPack(t *testing.T) {
	completed := completedPack("Done", "a.mp3", 10, nil, nil)
	reader := &fakePackReader{packs: map[uuid.UUID]*entities.SlidePack{completed.ID: completed}}
	composer := NewComposer(reader, &fakeConcat{}, nil)

	_, err := composer.Compose(context.Background(), "m.mp3", []uuid.UUID{completed.ID, uuid.New()})
	if !errors.Is(err, usecaseErrors.ErrInvalidMergeInput) {
		t.Fatalf("expected ErrInvalidMergeInput, got %v", err)
	}
}

func TestComposeRejectsSinglePack(t *testing.T) {
	composer := NewComposer(&fakePackReader{}, &fakeConcat{}, nil)
	_, err := composer.Compose(context.Background(), "m.mp3", []uuid.UUID{uuid.New()})
	if !errors.Is(err, usecaseErrors.ErrInvalidMergeInput) {
		t.Fatalf("expected ErrInvalidMergeInput, got %v", err)
	}
}
