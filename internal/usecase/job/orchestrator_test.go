package job

import (
	"context"
	"errors"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/slidecast-team/slidecast/internal/domain/entities"
	"github.com/slidecast-team/slidecast/internal/domain/repositories"
	"github.com/slidecast-team/slidecast/internal/usecase/align"
	usecaseErrors "github.com/slidecast-team/slidecast/internal/usecase/errors"
	"github.com/slidecast-team/slidecast/internal/usecase/merge"
	"github.com/slidecast-team/slidecast/pkg/config"
)

// ---- in-memory fakes ----

type memPackRepo struct {
	mu    sync.Mutex
	packs map[uuid.UUID]*entities.SlidePack
}

func newMemPackRepo() *memPackRepo {
	return &memPackRepo{packs: make(map[uuid.UUID]*entities.SlidePack)}
}

func (r *memPackRepo) Create(_ context.Context, pack *entities.SlidePack) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *pack
	r.packs[pack.ID] = &cp
	return nil
}

func (r *memPackRepo) FindByID(_ context.Context, id uuid.UUID) (*entities.SlidePack, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.packs[id]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (r *memPackRepo) FindByIDWithContent(ctx context.Context, id uuid.UUID) (*entities.SlidePack, error) {
	return r.FindByID(ctx, id)
}

func (r *memPackRepo) List(_ context.Context, _ repositories.SlidePackFilters) ([]*entities.SlidePack, int64, error) {
	return nil, 0, nil
}

func (r *memPackRepo) UpdateTitle(_ context.Context, id uuid.UUID, title string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p, ok := r.packs[id]; ok {
		p.Title = title
	}
	return nil
}

func (r *memPackRepo) UpdateCourse(_ context.Context, id uuid.UUID, courseID *uuid.UUID, orderIndex int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p, ok := r.packs[id]; ok {
		p.CourseID = courseID
		p.OrderIndex = orderIndex
	}
	return nil
}

func (r *memPackRepo) CompleteWithContent(_ context.Context, pack *entities.SlidePack, slides []entities.Slide, cards []entities.Card) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.packs[pack.ID]
	if !ok {
		return errors.New("pack not found")
	}
	stored.AudioObject = pack.AudioObject
	stored.AudioDuration = pack.AudioDuration
	stored.Slides = slides
	stored.Cards = cards
	stored.MarkAsCompleted()
	return nil
}

func (r *memPackRepo) MarkAsFailed(_ context.Context, id uuid.UUID, errMsg string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p, ok := r.packs[id]; ok {
		p.MarkAsFailed(errMsg)
	}
	return nil
}

func (r *memPackRepo) MarkAsProcessing(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p, ok := r.packs[id]; ok {
		p.Status = entities.SlidePackStatusProcessing
		p.ErrorDetail = nil
	}
	return nil
}

func (r *memPackRepo) ReplaceCards(_ context.Context, id uuid.UUID, cards []entities.Card) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p, ok := r.packs[id]; ok {
		p.Cards = cards
	}
	return nil
}

func (r *memPackRepo) ReorderInCourse(_ context.Context, _ uuid.UUID, _ []uuid.UUID) error {
	return nil
}

func (r *memPackRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.packs, id)
	return nil
}

func (r *memPackRepo) NextOrderIndex(_ context.Context, courseID uuid.UUID) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	next := 0
	for _, p := range r.packs {
		if p.CourseID != nil && *p.CourseID == courseID && p.OrderIndex >= next {
			next = p.OrderIndex + 1
		}
	}
	return next, nil
}

type memJobRepo struct {
	mu   sync.Mutex
	jobs map[uuid.UUID]*entities.Job
}

func newMemJobRepo() *memJobRepo {
	return &memJobRepo{jobs: make(map[uuid.UUID]*entities.Job)}
}

func (r *memJobRepo) Create(_ context.Context, job *entities.Job) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *job
	r.jobs[job.ID] = &cp
	return nil
}

func (r *memJobRepo) FindByID(_ context.Context, id uuid.UUID) (*entities.Job, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	j, ok := r.jobs[id]
	if !ok {
		return nil, nil
	}
	cp := *j
	return &cp, nil
}

func (r *memJobRepo) ListPending(_ context.Context) ([]entities.Job, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []entities.Job
	for _, j := range r.jobs {
		if !j.Status.IsTerminal() {
			out = append(out, *j)
		}
	}
	sort.Slice(out, func(i, k int) bool { return out[i].CreatedAt.Before(out[k].CreatedAt) })
	return out, nil
}

func (r *memJobRepo) HasActiveJobForPack(_ context.Context, packID uuid.UUID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, j := range r.jobs {
		if j.TargetSlidePackID == packID && !j.Status.IsTerminal() {
			return true, nil
		}
	}
	return false, nil
}

func (r *memJobRepo) ClaimNextQueued(_ context.Context) (*entities.Job, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var oldest *entities.Job
	for _, j := range r.jobs {
		if j.Status != entities.JobStatusQueued {
			continue
		}
		if oldest == nil || j.CreatedAt.Before(oldest.CreatedAt) {
			oldest = j
		}
	}
	if oldest == nil {
		return nil, nil
	}
	oldest.MarkAsProcessing()
	cp := *oldest
	return &cp, nil
}

func (r *memJobRepo) MarkAsCompleted(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if j, ok := r.jobs[id]; ok {
		j.MarkAsCompleted()
	}
	return nil
}

func (r *memJobRepo) MarkAsFailed(_ context.Context, id uuid.UUID, errMsg string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if j, ok := r.jobs[id]; ok {
		j.MarkAsFailed(errMsg)
	}
	return nil
}

func (r *memJobRepo) FailStaleProcessing(_ context.Context, _ time.Duration) ([]entities.Job, error) {
	return nil, nil
}

func (r *memJobRepo) DeleteTerminalBefore(_ context.Context, _ time.Time) (int64, error) {
	return 0, nil
}

type fakeTranscriber struct {
	tokens   []entities.TimedToken
	duration float64
	err      error
}

func (f *fakeTranscriber) Transcribe(_ context.Context, _ string) ([]entities.TimedToken, float64, error) {
	return f.tokens, f.duration, f.err
}

type fakeOutline struct {
	blocks []entities.ContentBlock
	err    error
}

func (f *fakeOutline) GenerateOutline(_ context.Context, _ string) ([]entities.ContentBlock, error) {
	return f.blocks, f.err
}

type fakeComposer struct {
	result *merge.Result
	err    error
}

func (f *fakeComposer) Compose(_ context.Context, destObject string, _ []uuid.UUID) (*merge.Result, error) {
	if f.result != nil {
		f.result.AudioObject = destObject
	}
	return f.result, f.err
}

type fakeStore struct{}

func (fakeStore) PresignedURL(_ context.Context, objectName string, _ time.Duration) (string, error) {
	return "http://storage.local/" + objectName, nil
}

type memLease struct {
	mu   sync.Mutex
	held map[uuid.UUID]bool
}

func newMemLease() *memLease { return &memLease{held: make(map[uuid.UUID]bool)} }

func (l *memLease) Acquire(_ context.Context, packID uuid.UUID) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.held[packID] {
		return false, nil
	}
	l.held[packID] = true
	return true, nil
}

func (l *memLease) Release(_ context.Context, packID uuid.UUID) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.held, packID)
	return nil
}

// ---- tests ----

func testTokens(duration float64, count int) []entities.TimedToken {
	tokens := make([]entities.TimedToken, count)
	step := duration / float64(count)
	for i := 0; i < count; i++ {
		tokens[i] = entities.TimedToken{Text: "w", Start: float64(i) * step, End: float64(i+1) * step}
	}
	return tokens
}

func newTestOrchestrator(packs *memPackRepo, jobs *memJobRepo, tr *fakeTranscriber, ol *fakeOutline, comp *fakeComposer, lease Lease) *Orchestrator {
	cfg := config.WorkerConfig{
		Count:        1,
		PollInterval: 10 * time.Millisecond,
		StaleAfter:   time.Minute,
		PruneAfter:   time.Hour,
		JobTimeout:   time.Minute,
	}
	return NewOrchestrator(jobs, packs, tr, ol, align.NewService(align.DefaultConfig(), nil), comp, fakeStore{}, lease, cfg, nil)
}

func TestSubmitAndRunGenerate(t *testing.T) {
	packs := newMemPackRepo()
	jobs := newMemJobRepo()
	tr := &fakeTranscriber{tokens: testTokens(60, 120), duration: 60}
	ol := &fakeOutline{blocks: []entities.ContentBlock{
		{Title: "A", Points: []string{"one"}},
		{Title: "B", Points: []string{"two"}},
	}}
	o := newTestOrchestrator(packs, jobs, tr, ol, &fakeComposer{}, newMemLease())

	job, pack, err := o.Submit(context.Background(), SubmitInput{
		Kind:    entities.JobKindGenerate,
		Title:   "Lecture 1",
		Payload: entities.JobPayload{AudioObject: "audio/l1.mp3", OutlineText: "notes"},
	})
	if err != nil {
		t.Fatalf("Submit failed: %v", err)
	}
	if job.Status != entities.JobStatusQueued {
		t.Errorf("job status = %s, want queued", job.Status)
	}
	if pack.Status != entities.SlidePackStatusProcessing {
		t.Errorf("pack status = %s, want processing", pack.Status)
	}

	claimed, err := o.RunNext(context.Background())
	if err != nil || !claimed {
		t.Fatalf("RunNext = %v, %v", claimed, err)
	}

	got, _ := packs.FindByIDWithContent(context.Background(), pack.ID)
	if got.Status != entities.SlidePackStatusCompleted {
		t.Fatalf("pack status = %s, want completed", got.Status)
	}
	if len(got.Slides) != 2 {
		t.Errorf("expected 2 slides, got %d", len(got.Slides))
	}
	if got.AudioDuration != 60 {
		t.Errorf("audio duration = %v, want 60", got.AudioDuration)
	}

	doneJob, _ := jobs.FindByID(context.Background(), job.ID)
	if doneJob.Status != entities.JobStatusCompleted {
		t.Errorf("job status = %s, want completed", doneJob.Status)
	}

	pending, _ := o.ListPending(context.Background())
	if len(pending) != 0 {
		t.Errorf("expected no pending jobs, got %d", len(pending))
	}
}

func TestRunNextEmptyQueue(t *testing.T) {
	o := newTestOrchestrator(newMemPackRepo(), newMemJobRepo(), &fakeTranscriber{}, &fakeOutline{}, &fakeComposer{}, newMemLease())

	claimed, err := o.RunNext(context.Background())
	if err != nil {
		t.Fatalf("RunNext failed: %v", err)
	}
	if claimed {
		t.Error("claimed a job from an empty queue")
	}
}

func TestPipelineFailureMarksPackFailed(t *testing.T) {
	packs := newMemPackRepo()
	jobs := newMemJobRepo()
	tr := &fakeTranscriber{err: errors.New("provider down")}
	lease := newMemLease()
	o := newTestOrchestrator(packs, jobs, tr, &fakeOutline{}, &fakeComposer{}, lease)

	job, pack, err := o.Submit(context.Background(), SubmitInput{
		Kind:    entities.JobKindGenerate,
		Title:   "Broken",
		Payload: entities.JobPayload{AudioObject: "audio/x.mp3", OutlineText: "notes"},
	})
	if err != nil {
		t.Fatalf("Submit failed: %v", err)
	}

	if _, err := o.RunNext(context.Background()); err != nil {
		t.Fatalf("RunNext failed: %v", err)
	}

	got, _ := packs.FindByID(context.Background(), pack.ID)
	if got.Status != entities.SlidePackStatusFailed {
		t.Fatalf("pack status = %s, want failed", got.Status)
	}
	if got.ErrorDetail == nil {
		t.Fatal("failed pack has no error detail")
	}

	doneJob, _ := jobs.FindByID(context.Background(), job.ID)
	if doneJob.Status != entities.JobStatusFailed {
		t.Errorf("job status = %s, want failed", doneJob.Status)
	}

	// Lease must be released so the pack can be resubmitted.
	ok, _ := lease.Acquire(context.Background(), pack.ID)
	if !ok {
		t.Error("lease still held after terminal job")
	}
}

func TestSubmitRejectsSecondJobForSamePack(t *testing.T) {
	packs := newMemPackRepo()
	jobs := newMemJobRepo()
	o := newTestOrchestrator(packs, jobs, &fakeTranscriber{tokens: testTokens(10, 10), duration: 10}, &fakeOutline{}, &fakeComposer{}, newMemLease())

	pack := entities.NewSlidePack("Existing")
	pack.MarkAsCompleted()
	if err := packs.Create(context.Background(), pack); err != nil {
		t.Fatal(err)
	}

	_, _, err := o.Submit(context.Background(), SubmitInput{
		Kind:         entities.JobKindSync,
		TargetPackID: &pack.ID,
		Payload:      entities.JobPayload{AudioObject: "audio/new.mp3"},
	})
	if err != nil {
		t.Fatalf("first sync submit failed: %v", err)
	}

	_, _, err = o.Submit(context.Background(), SubmitInput{
		Kind:         entities.JobKindSync,
		TargetPackID: &pack.ID,
		Payload:      entities.JobPayload{AudioObject: "audio/newer.mp3"},
	})
	if !errors.Is(err, usecaseErrors.ErrConcurrentJobConflict) {
		t.Fatalf("expected ErrConcurrentJobConflict, got %v", err)
	}

	pending, _ := o.ListPending(context.Background())
	if len(pending) != 1 {
		t.Errorf("expected exactly 1 pending job, got %d", len(pending))
	}
}

func TestSubmitLeaseDeniedIsConflict(t *testing.T) {
	packs := newMemPackRepo()
	jobs := newMemJobRepo()
	lease := newMemLease()
	o := newTestOrchestrator(packs, jobs, &fakeTranscriber{}, &fakeOutline{}, &fakeComposer{}, lease)

	pack := entities.NewSlidePack("Existing")
	pack.MarkAsCompleted()
	if err := packs.Create(context.Background(), pack); err != nil {
		t.Fatal(err)
	}

	// Another instance holds the lease; the local job table sees nothing.
	if ok, _ := lease.Acquire(context.Background(), pack.ID); !ok {
		t.Fatal("setup: could not take lease")
	}

	_, _, err := o.Submit(context.Background(), SubmitInput{
		Kind:         entities.JobKindSync,
		TargetPackID: &pack.ID,
		Payload:      entities.JobPayload{AudioObject: "audio/new.mp3"},
	})
	if !errors.Is(err, usecaseErrors.ErrConcurrentJobConflict) {
		t.Fatalf("expected ErrConcurrentJobConflict, got %v", err)
	}
}

func TestRunSyncRetimesExistingPack(t *testing.T) {
	packs := newMemPackRepo()
	jobs := newMemJobRepo()
	tr := &fakeTranscriber{tokens: testTokens(30, 60), duration: 30}
	o := newTestOrchestrator(packs, jobs, tr, &fakeOutline{}, &fakeComposer{}, newMemLease())

	pack := entities.NewSlidePack("Retime me")
	pack.MarkAsCompleted()
	pack.AudioObject = "audio/old.mp3"
	pack.AudioDuration = 90
	pack.Slides = []entities.Slide{
		{SlideID: 0, TimestampStart: 0, TimestampEnd: 45, Title: "A", Content: []string{"a"}},
		{SlideID: 1, TimestampStart: 45, TimestampEnd: 90, Title: "B", Content: []string{"b"}},
	}
	if err := packs.Create(context.Background(), pack); err != nil {
		t.Fatal(err)
	}

	_, _, err := o.Submit(context.Background(), SubmitInput{
		Kind:         entities.JobKindSync,
		TargetPackID: &pack.ID,
		Payload:      entities.JobPayload{AudioObject: "audio/new.mp3"},
	})
	if err != nil {
		t.Fatalf("Submit failed: %v", err)
	}
	if _, err := o.RunNext(context.Background()); err != nil {
		t.Fatalf("RunNext failed: %v", err)
	}

	got, _ := packs.FindByIDWithContent(context.Background(), pack.ID)
	if got.Status != entities.SlidePackStatusCompleted {
		t.Fatalf("pack status = %s, want completed", got.Status)
	}
	if got.AudioObject != "audio/new.mp3" || got.AudioDuration != 30 {
		t.Errorf("audio not retargeted: %s / %v", got.AudioObject, got.AudioDuration)
	}
	if len(got.Slides) != 2 {
		t.Fatalf("expected 2 slides, got %d", len(got.Slides))
	}
	// Content preserved, ids moved above the old maximum.
	if got.Slides[0].Title != "A" || got.Slides[1].Title != "B" {
		t.Errorf("slide order not preserved: %q, %q", got.Slides[0].Title, got.Slides[1].Title)
	}
	if got.Slides[0].SlideID != 2 || got.Slides[1].SlideID != 3 {
		t.Errorf("slide ids = %d, %d, want 2, 3", got.Slides[0].SlideID, got.Slides[1].SlideID)
	}
	if got.Slides[len(got.Slides)-1].TimestampEnd != 30 {
		t.Errorf("last slide ends at %v, want 30", got.Slides[len(got.Slides)-1].TimestampEnd)
	}
}

func TestRunMergeCompletesPack(t *testing.T) {
	packs := newMemPackRepo()
	jobs := newMemJobRepo()
	comp := &fakeComposer{result: &merge.Result{
		AudioDuration: 150,
		Slides: []entities.Slide{
			{SlideID: 0, TimestampStart: 0, TimestampEnd: 100, Title: "P1"},
			{SlideID: 1, TimestampStart: 100, TimestampEnd: 150, Title: "P2"},
		},
	}}
	o := newTestOrchestrator(packs, jobs, &fakeTranscriber{}, &fakeOutline{}, comp, newMemLease())

	_, pack, err := o.Submit(context.Background(), SubmitInput{
		Kind:  entities.JobKindMerge,
		Title: "Merged",
		Payload: entities.JobPayload{
			MergeTitle:   "Merged",
			MergePackIDs: []uuid.UUID{uuid.New(), uuid.New()},
		},
	})
	if err != nil {
		t.Fatalf("Submit failed: %v", err)
	}
	if _, err := o.RunNext(context.Background()); err != nil {
		t.Fatalf("RunNext failed: %v", err)
	}

	got, _ := packs.FindByIDWithContent(context.Background(), pack.ID)
	if got.Status != entities.SlidePackStatusCompleted {
		t.Fatalf("pack status = %s, want completed", got.Status)
	}
	if got.AudioDuration != 150 || len(got.Slides) != 2 {
		t.Errorf("unexpected merged content: duration %v, %d slides", got.AudioDuration, len(got.Slides))
	}
}

func TestSubmitInlineImport(t *testing.T) {
	packs := newMemPackRepo()
	jobs := newMemJobRepo()
	o := newTestOrchestrator(packs, jobs, &fakeTranscriber{}, &fakeOutline{}, &fakeComposer{}, newMemLease())

	manifest := &entities.PresentationManifest{
		Metadata: entities.ManifestMetadata{Title: "Imported", Duration: 42},
		Slides: []entities.ManifestSlide{
			{ID: 0, TimestampStart: 0, TimestampEnd: 42, Title: "Only", Content: []string{"x"}},
		},
		Cards: []entities.ManifestCard{
			{ID: 0, Kind: "standard", Question: "q", Answer: "a"},
		},
	}

	job, pack, err := o.SubmitInline(context.Background(), SubmitInput{
		Kind:    entities.JobKindImport,
		Title:   "Imported",
		Payload: entities.JobPayload{AudioObject: "audio/imp.mp3", Manifest: manifest},
	})
	if err != nil {
		t.Fatalf("SubmitInline failed: %v", err)
	}
	if pack.Status != entities.SlidePackStatusCompleted {
		t.Fatalf("pack status = %s, want completed", pack.Status)
	}
	if len(pack.Slides) != 1 || len(pack.Cards) != 1 {
		t.Errorf("imported content missing: %d slides, %d cards", len(pack.Slides), len(pack.Cards))
	}
	if pack.AudioDuration != 42 {
		t.Errorf("duration = %v, want 42", pack.AudioDuration)
	}

	doneJob, _ := jobs.FindByID(context.Background(), job.ID)
	if doneJob.Status != entities.JobStatusCompleted {
		t.Errorf("job status = %s, want completed", doneJob.Status)
	}
}
