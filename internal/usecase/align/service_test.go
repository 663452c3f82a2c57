package align

import (
	"math"
	"testing"

	"github.com/slidecast-team/slidecast/internal/domain/entities"
	usecaseErrors "github.com/slidecast-team/slidecast/internal/usecase/errors"
)

func ptr(s string) *string { return &s }

// evenTokens builds count tokens of equal length spanning [0, duration).
func evenTokens(duration float64, count int) []entities.TimedToken {
	tokens := make([]entities.TimedToken, count)
	step := duration / float64(count)
	for i := 0; i < count; i++ {
		tokens[i] = entities.TimedToken{
			Text:  "word",
			Start: float64(i) * step,
			End:   float64(i+1) * step,
		}
	}
	return tokens
}

func block(title string, points ...string) entities.ContentBlock {
	return entities.ContentBlock{Title: title, Points: points}
}

func assertContiguous(t *testing.T, slides []entities.Slide, audioDuration float64) {
	t.Helper()
	if len(slides) == 0 {
		t.Fatal("no slides produced")
	}
	if slides[0].TimestampStart != 0 {
		t.Errorf("first slide starts at %v, want 0", slides[0].TimestampStart)
	}
	if slides[len(slides)-1].TimestampEnd != audioDuration {
		t.Errorf("last slide ends at %v, want %v", slides[len(slides)-1].TimestampEnd, audioDuration)
	}
	for i, s := range slides {
		if s.TimestampStart >= s.TimestampEnd {
			t.Errorf("slide %d has start %v >= end %v", i, s.TimestampStart, s.TimestampEnd)
		}
		if i > 0 && slides[i-1].TimestampEnd != s.TimestampStart {
			t.Errorf("gap between slide %d end %v and slide %d start %v", i-1, slides[i-1].TimestampEnd, i, s.TimestampStart)
		}
	}
}

func TestAlignCoverageAndOrder(t *testing.T) {
	svc := NewService(DefaultConfig(), nil)

	blocks := []entities.ContentBlock{
		block("Intro", "short"),
		{Title: "Theory", Points: []string{"a much longer point about the theory at hand"}, Formulas: []string{"E = mc^2"}},
		block("Wrap up", "recap", "questions"),
	}
	tokens := evenTokens(90, 180)

	slides, err := svc.Align(90, tokens, blocks, 0)
	if err != nil {
		t.Fatalf("Align failed: %v", err)
	}
	if len(slides) != len(blocks) {
		t.Fatalf("expected %d slides, got %d", len(blocks), len(slides))
	}
	assertContiguous(t, slides, 90)

	for i, s := range slides {
		if s.SlideID != i {
			t.Errorf("slide %d has id %d", i, s.SlideID)
		}
		if s.Title != blocks[i].Title {
			t.Errorf("slide %d title %q, want %q", i, s.Title, blocks[i].Title)
		}
		if len(s.Content) != len(blocks[i].Points) {
			t.Errorf("slide %d has %d content lines, want %d", i, len(s.Content), len(blocks[i].Points))
		}
	}
}

func TestAlignEqualBlocksNoSnap(t *testing.T) {
	svc := NewService(DefaultConfig(), nil)

	// Three identical blocks on 60s of audio; token starts all sit far
	// from the 20s/40s boundaries so nothing snaps. Mean block duration
	// is 20s, window is 2s.
	blocks := []entities.ContentBlock{
		block("A", "same text"),
		block("A", "same text"),
		block("A", "same text"),
	}
	tokens := []entities.TimedToken{
		{Text: "w", Start: 0, End: 5},
		{Text: "w", Start: 5, End: 10},
		{Text: "w", Start: 50, End: 55},
		{Text: "w", Start: 55, End: 60},
	}

	slides, err := svc.Align(60, tokens, blocks, 0)
	if err != nil {
		t.Fatalf("Align failed: %v", err)
	}

	want := [][2]float64{{0, 20}, {20, 40}, {40, 60}}
	for i, s := range slides {
		if s.TimestampStart != want[i][0] || s.TimestampEnd != want[i][1] {
			t.Errorf("slide %d = [%v, %v), want [%v, %v)", i, s.TimestampStart, s.TimestampEnd, want[i][0], want[i][1])
		}
	}
}

func TestAlignSnapsToTokenStart(t *testing.T) {
	svc := NewService(DefaultConfig(), nil)

	blocks := []entities.ContentBlock{
		block("A", "same text"),
		block("A", "same text"),
	}
	// Provisional boundary at 30; token start at 29 sits inside the
	// ±3s window (0.10 * 30s mean block duration).
	tokens := []entities.TimedToken{
		{Text: "w", Start: 0, End: 29},
		{Text: "w", Start: 29, End: 60},
	}

	slides, err := svc.Align(60, tokens, blocks, 0)
	if err != nil {
		t.Fatalf("Align failed: %v", err)
	}
	if slides[0].TimestampEnd != 29 {
		t.Errorf("boundary = %v, want snap to 29", slides[0].TimestampEnd)
	}
	assertContiguous(t, slides, 60)
}

func TestAlignMonotonicTieBreak(t *testing.T) {
	svc := NewService(DefaultConfig(), nil)

	// Middle block has almost no weight, so its two boundaries land
	// nearly together and both snap to the same token start at 30.
	blocks := []entities.ContentBlock{
		{Title: "Long", Points: []string{"aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"}},
		{Title: ""},
		{Title: "Long", Points: []string{"aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"}},
	}
	tokens := []entities.TimedToken{
		{Text: "w", Start: 0, End: 30},
		{Text: "w", Start: 30, End: 60},
	}

	slides, err := svc.Align(60, tokens, blocks, 0)
	if err != nil {
		t.Fatalf("Align failed: %v", err)
	}
	assertContiguous(t, slides, 60)
}

func TestAlignEmptyInputsFail(t *testing.T) {
	svc := NewService(DefaultConfig(), nil)

	if _, err := svc.Align(60, nil, []entities.ContentBlock{block("A")}, 0); err != usecaseErrors.ErrEmptyTranscript {
		t.Errorf("expected ErrEmptyTranscript, got %v", err)
	}
	if _, err := svc.Align(60, evenTokens(60, 10), nil, 0); err != usecaseErrors.ErrEmptyOutline {
		t.Errorf("expected ErrEmptyOutline, got %v", err)
	}
}

func TestAlignZeroWeightBlocks(t *testing.T) {
	svc := NewService(DefaultConfig(), nil)

	blocks := []entities.ContentBlock{{Title: ""}, {Title: ""}, {Title: ""}}
	slides, err := svc.Align(60, evenTokens(60, 6), blocks, 0)
	if err != nil {
		t.Fatalf("Align failed: %v", err)
	}
	assertContiguous(t, slides, 60)
	// Equal split within snapping distance of 20/40
	if math.Abs(slides[0].TimestampEnd-20) > 2 || math.Abs(slides[1].TimestampEnd-40) > 2 {
		t.Errorf("unexpected boundaries %v, %v", slides[0].TimestampEnd, slides[1].TimestampEnd)
	}
}

func TestAlignStartID(t *testing.T) {
	svc := NewService(DefaultConfig(), nil)

	slides, err := svc.Align(60, evenTokens(60, 6), []entities.ContentBlock{block("A", "x"), block("B", "y")}, 7)
	if err != nil {
		t.Fatalf("Align failed: %v", err)
	}
	if slides[0].SlideID != 7 || slides[1].SlideID != 8 {
		t.Errorf("unexpected slide ids %d, %d", slides[0].SlideID, slides[1].SlideID)
	}
}

func TestBlocksFromSlides(t *testing.T) {
	slides := []entities.Slide{
		{SlideID: 1, TimestampStart: 10, TimestampEnd: 20, Title: "Second", Content: []string{"b"}},
		{SlideID: 0, TimestampStart: 0, TimestampEnd: 10, Title: "First", Content: []string{"a"}, MathFormulas: []string{"x^2"}, DeepDive: ptr("more")},
	}

	blocks := BlocksFromSlides(slides)
	if len(blocks) != 2 {
		t.Fatalf("expected 2 blocks, got %d", len(blocks))
	}
	if blocks[0].Title != "First" || blocks[1].Title != "Second" {
		t.Errorf("blocks out of order: %q, %q", blocks[0].Title, blocks[1].Title)
	}
	if len(blocks[0].Formulas) != 1 || blocks[0].DeepDive == nil {
		t.Errorf("block content not carried over: %+v", blocks[0])
	}
}
