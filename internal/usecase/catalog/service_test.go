package catalog

import (
	"context"
	"errors"
	"sort"
	"testing"

	"github.com/google/uuid"

	"github.com/slidecast-team/slidecast/internal/domain/entities"
	"github.com/slidecast-team/slidecast/internal/domain/repositories"
	usecaseErrors "github.com/slidecast-team/slidecast/internal/usecase/errors"
)

type memCatalog struct {
	courses map[uuid.UUID]*entities.Course
	packs   map[uuid.UUID]*entities.SlidePack
}

func newMemCatalog() *memCatalog {
	return &memCatalog{
		courses: make(map[uuid.UUID]*entities.Course),
		packs:   make(map[uuid.UUID]*entities.SlidePack),
	}
}

// CourseRepository

func (m *memCatalog) Create(_ context.Context, c *entities.Course) error {
	m.courses[c.ID] = c
	return nil
}

func (m *memCatalog) FindByID(_ context.Context, id uuid.UUID) (*entities.Course, error) {
	c, ok := m.courses[id]
	if !ok {
		return nil, nil
	}
	cp := *c
	cp.SlidePacks = nil
	for _, p := range m.packs {
		if p.CourseID != nil && *p.CourseID == id {
			cp.SlidePacks = append(cp.SlidePacks, *p)
		}
	}
	sort.Slice(cp.SlidePacks, func(i, j int) bool {
		return cp.SlidePacks[i].OrderIndex < cp.SlidePacks[j].OrderIndex
	})
	return &cp, nil
}

func (m *memCatalog) List(_ context.Context) ([]*entities.Course, error) { return nil, nil }

func (m *memCatalog) UpdateTitle(_ context.Context, id uuid.UUID, title string) error {
	if c, ok := m.courses[id]; ok {
		c.Title = title
	}
	return nil
}

func (m *memCatalog) Delete(_ context.Context, id uuid.UUID) error {
	delete(m.courses, id)
	return nil
}

type memPacks struct {
	cat *memCatalog
}

func (m *memPacks) Create(_ context.Context, p *entities.SlidePack) error {
	m.cat.packs[p.ID] = p
	return nil
}

func (m *memPacks) FindByID(_ context.Context, id uuid.UUID) (*entities.SlidePack, error) {
	p, ok := m.cat.packs[id]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (m *memPacks) FindByIDWithContent(ctx context.Context, id uuid.UUID) (*entities.SlidePack, error) {
	return m.FindByID(ctx, id)
}

func (m *memPacks) List(_ context.Context, _ repositories.SlidePackFilters) ([]*entities.SlidePack, int64, error) {
	return nil, 0, nil
}

func (m *memPacks) UpdateTitle(_ context.Context, id uuid.UUID, title string) error {
	if p, ok := m.cat.packs[id]; ok {
		p.Title = title
	}
	return nil
}

func (m *memPacks) UpdateCourse(_ context.Context, id uuid.UUID, courseID *uuid.UUID, orderIndex int) error {
	if p, ok := m.cat.packs[id]; ok {
		p.CourseID = courseID
		p.OrderIndex = orderIndex
	}
	return nil
}

func (m *memPacks) CompleteWithContent(_ context.Context, _ *entities.SlidePack, _ []entities.Slide, _ []entities.Card) error {
	return nil
}

func (m *memPacks) MarkAsFailed(_ context.Context, _ uuid.UUID, _ string) error { return nil }

func (m *memPacks) MarkAsProcessing(_ context.Context, _ uuid.UUID) error { return nil }

func (m *memPacks) ReplaceCards(_ context.Context, id uuid.UUID, cards []entities.Card) error {
	if p, ok := m.cat.packs[id]; ok {
		p.Cards = cards
	}
	return nil
}

func (m *memPacks) ReorderInCourse(_ context.Context, _ uuid.UUID, orderedPackIDs []uuid.UUID) error {
	for i, id := range orderedPackIDs {
		if p, ok := m.cat.packs[id]; ok {
			p.OrderIndex = i
		}
	}
	return nil
}

func (m *memPacks) Delete(_ context.Context, id uuid.UUID) error {
	delete(m.cat.packs, id)
	return nil
}

func (m *memPacks) NextOrderIndex(_ context.Context, courseID uuid.UUID) (int, error) {
	next := 0
	for _, p := range m.cat.packs {
		if p.CourseID != nil && *p.CourseID == courseID && p.OrderIndex >= next {
			next = p.OrderIndex + 1
		}
	}
	return next, nil
}

func setup(t *testing.T) (*Service, *memCatalog, *entities.Course, []*entities.SlidePack) {
	t.Helper()
	cat := newMemCatalog()
	svc := NewService(&memPacks{cat: cat}, cat, nil)

	course, err := svc.CreateCourse(context.Background(), "Calculus")
	if err != nil {
		t.Fatal(err)
	}

	var packs []*entities.SlidePack
	for i, title := range []string{"A", "B", "C"} {
		p := entities.NewSlidePack(title)
		p.MarkAsCompleted()
		p.CourseID = &course.ID
		p.OrderIndex = i
		cat.packs[p.ID] = p
		packs = append(packs, p)
	}
	return svc, cat, course, packs
}

func courseOrder(t *testing.T, svc *Service, courseID uuid.UUID) []string {
	t.Helper()
	course, err := svc.GetCourse(context.Background(), courseID)
	if err != nil {
		t.Fatal(err)
	}
	titles := make([]string, 0, len(course.SlidePacks))
	for _, p := range course.SlidePacks {
		titles = append(titles, p.Title)
	}
	return titles
}

func TestReorder(t *testing.T) {
	svc, _, course, packs := setup(t)

	// [A,B,C] -> [C,A,B]
	err := svc.Reorder(context.Background(), course.ID, []uuid.UUID{packs[2].ID, packs[0].ID, packs[1].ID})
	if err != nil {
		t.Fatalf("Reorder failed: %v", err)
	}

	got := courseOrder(t, svc, course.ID)
	want := []string{"C", "A", "B"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("order = %v, want %v", got, want)
		}
	}
}

func TestReorderRejectsMismatchedSet(t *testing.T) {
	svc, _, course, packs := setup(t)

	cases := map[string][]uuid.UUID{
		"missing id":   {packs[0].ID, packs[1].ID},
		"foreign id":   {packs[0].ID, packs[1].ID, uuid.New()},
		"duplicate id": {packs[0].ID, packs[0].ID, packs[1].ID},
	}

	for name, ids := range cases {
		err := svc.Reorder(context.Background(), course.ID, ids)
		if !errors.Is(err, usecaseErrors.ErrReorderSetMismatch) {
			t.Errorf("%s: expected ErrReorderSetMismatch, got %v", name, err)
		}
	}

	// Prior order untouched after rejections.
	got := courseOrder(t, svc, course.ID)
	want := []string{"A", "B", "C"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("order = %v, want %v", got, want)
		}
	}
}

func TestMovePackAppendsToTargetCourse(t *testing.T) {
	svc, cat, course, _ := setup(t)

	outsider := entities.NewSlidePack("D")
	outsider.MarkAsCompleted()
	cat.packs[outsider.ID] = outsider

	if err := svc.MovePack(context.Background(), outsider.ID, &course.ID); err != nil {
		t.Fatalf("MovePack failed: %v", err)
	}

	got := courseOrder(t, svc, course.ID)
	if got[len(got)-1] != "D" {
		t.Errorf("moved pack not at end: %v", got)
	}
}

func TestMovePackDetaches(t *testing.T) {
	svc, cat, _, packs := setup(t)

	if err := svc.MovePack(context.Background(), packs[0].ID, nil); err != nil {
		t.Fatalf("MovePack failed: %v", err)
	}
	if cat.packs[packs[0].ID].CourseID != nil {
		t.Error("pack still attached to a course")
	}
}

func TestReplaceCardsValidates(t *testing.T) {
	svc, cat, _, packs := setup(t)

	bad := []entities.Card{{CardID: 0, Kind: entities.CardKindStandard, Question: "q"}} // no answer
	if err := svc.ReplaceCards(context.Background(), packs[0].ID, bad); err == nil {
		t.Fatal("expected validation error for standard card without answer")
	}

	good := []entities.Card{{CardID: 0, Kind: entities.CardKindStandard, Question: "q", Answer: "a"}}
	if err := svc.ReplaceCards(context.Background(), packs[0].ID, good); err != nil {
		t.Fatalf("ReplaceCards failed: %v", err)
	}
	if len(cat.packs[packs[0].ID].Cards) != 1 {
		t.Error("cards not replaced")
	}
}

func TestReplaceCardsRejectsIncompletePack(t *testing.T) {
	svc, cat, _, _ := setup(t)

	pending := entities.NewSlidePack("Pending")
	cat.packs[pending.ID] = pending

	cards := []entities.Card{{CardID: 0, Kind: entities.CardKindStandard, Question: "q", Answer: "a"}}
	err := svc.ReplaceCards(context.Background(), pending.ID, cards)
	if !errors.Is(err, usecaseErrors.ErrPackNotCompleted) {
		t.Fatalf("expected ErrPackNotCompleted, got %v", err)
	}
}

func TestExportManifest(t *testing.T) {
	svc, cat, _, packs := setup(t)

	pack := cat.packs[packs[0].ID]
	pack.AudioDuration = 60
	pack.Slides = []entities.Slide{
		{SlideID: 0, TimestampStart: 0, TimestampEnd: 60, Title: "Only", Content: []string{"x"}},
	}

	m, err := svc.ExportManifest(context.Background(), pack.ID)
	if err != nil {
		t.Fatalf("ExportManifest failed: %v", err)
	}
	if m.Metadata.Title != pack.Title || m.Metadata.Duration != 60 {
		t.Errorf("unexpected metadata: %+v", m.Metadata)
	}
	if len(m.Slides) != 1 || m.Slides[0].Title != "Only" {
		t.Errorf("unexpected slides: %+v", m.Slides)
	}
}

func TestGetPackNotFound(t *testing.T) {
	svc, _, _, _ := setup(t)

	_, err := svc.GetPack(context.Background(), uuid.New())
	if !errors.Is(err, usecaseErrors.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
