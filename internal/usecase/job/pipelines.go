package job

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/slidecast-team/slidecast/internal/domain/entities"
	"github.com/slidecast-team/slidecast/internal/usecase/align"
	"github.com/slidecast-team/slidecast/pkg/jobcontext"
)

// presignExpiry bounds how long the transcription provider can keep
// fetching the audio object.
const presignExpiry = time.Hour

// execute runs one claimed job to a terminal state. Errors are written
// into the job and pack rows; nothing propagates to the caller.
func (o *Orchestrator) execute(parentCtx context.Context, job *entities.Job, workerID int) {
	jobCtx, cancel := jobcontext.JobBegin(parentCtx, job.ID, string(job.Kind), workerID, o.cfg.JobTimeout)
	defer cancel()

	err := jobcontext.Run(jobCtx, func(ctx context.Context) error {
		return o.runPipeline(ctx, job)
	})

	// Terminal writes use the parent context: a pipeline timeout must
	// not also kill the bookkeeping.
	if err != nil {
		if o.logger != nil {
			o.logger.Error("❌ Job failed",
				zap.String("job_id", job.ID.String()),
				zap.String("kind", string(job.Kind)),
				zap.Bool("retryable", jobcontext.IsRetryableError(err)),
				zap.Error(err),
			)
		}
		if markErr := o.packs.MarkAsFailed(parentCtx, job.TargetSlidePackID, err.Error()); markErr != nil && o.logger != nil {
			o.logger.Error("❌ Failed to mark pack as failed", zap.Error(markErr))
		}
		if markErr := o.jobs.MarkAsFailed(parentCtx, job.ID, err.Error()); markErr != nil && o.logger != nil {
			o.logger.Error("❌ Failed to mark job as failed", zap.Error(markErr))
		}
	} else {
		if markErr := o.jobs.MarkAsCompleted(parentCtx, job.ID); markErr != nil && o.logger != nil {
			o.logger.Error("❌ Failed to mark job as completed", zap.Error(markErr))
		}
		if o.logger != nil {
			o.logger.Info("✅ Job completed",
				zap.String("job_id", job.ID.String()),
				zap.String("kind", string(job.Kind)),
			)
		}
	}

	o.releaseLease(parentCtx, job.TargetSlidePackID)
}

func (o *Orchestrator) runPipeline(ctx context.Context, job *entities.Job) error {
	pack, err := o.packs.FindByID(ctx, job.TargetSlidePackID)
	if err != nil {
		return fmt.Errorf("failed to load target pack: %w", err)
	}
	if pack == nil {
		return fmt.Errorf("target pack %s not found", job.TargetSlidePackID)
	}

	switch job.Kind {
	case entities.JobKindGenerate:
		return o.runGenerate(ctx, job, pack)
	case entities.JobKindSync:
		return o.runSync(ctx, job, pack)
	case entities.JobKindMerge:
		return o.runMerge(ctx, job, pack)
	case entities.JobKindImport:
		return o.runImport(ctx, job, pack)
	default:
		return fmt.Errorf("unknown job kind %q", job.Kind)
	}
}

// runGenerate transcribes the audio, structures the authored outline into
// blocks and aligns the two into a fresh deck.
func (o *Orchestrator) runGenerate(ctx context.Context, job *entities.Job, pack *entities.SlidePack) error {
	tokens, duration, err := o.transcribe(ctx, job.Payload.AudioObject)
	if err != nil {
		return err
	}

	blocks, err := o.outline.GenerateOutline(ctx, job.Payload.OutlineText)
	if err != nil {
		return fmt.Errorf("outline generation failed: %w", err)
	}

	slides, err := o.aligner.Align(duration, tokens, blocks, 0)
	if err != nil {
		return err
	}

	pack.AudioObject = job.Payload.AudioObject
	pack.AudioDuration = duration
	return o.packs.CompleteWithContent(ctx, pack, slides, nil)
}

// runSync re-times a deck against a new recording. The deck comes either
// from an uploaded manifest or, when the job targets an existing pack,
// from that pack's current slides. Block count and order are preserved;
// new slide ids start above the old maximum so stale references cannot
// collide.
func (o *Orchestrator) runSync(ctx context.Context, job *entities.Job, pack *entities.SlidePack) error {
	var (
		blocks  []entities.ContentBlock
		cards   []entities.Card
		startID int
	)
	if job.Payload.Manifest != nil {
		slides := job.Payload.Manifest.ToSlides()
		blocks = align.BlocksFromSlides(slides)
		cards = job.Payload.Manifest.ToCards()
		startID = maxSlideID(slides) + 1
	} else {
		existing, err := o.packs.FindByIDWithContent(ctx, pack.ID)
		if err != nil {
			return fmt.Errorf("failed to load existing deck: %w", err)
		}
		if existing == nil {
			return fmt.Errorf("pack %s not found", pack.ID)
		}
		blocks = align.BlocksFromSlides(existing.Slides)
		cards = existing.Cards
		startID = existing.MaxSlideID() + 1
	}

	tokens, duration, err := o.transcribe(ctx, job.Payload.AudioObject)
	if err != nil {
		return err
	}

	slides, err := o.aligner.Align(duration, tokens, blocks, startID)
	if err != nil {
		return err
	}

	pack.AudioObject = job.Payload.AudioObject
	pack.AudioDuration = duration
	return o.packs.CompleteWithContent(ctx, pack, slides, cards)
}

// runMerge concatenates the source packs into the target pack.
func (o *Orchestrator) runMerge(ctx context.Context, job *entities.Job, pack *entities.SlidePack) error {
	destObject := fmt.Sprintf("audio/%s.mp3", pack.ID)

	res, err := o.composer.Compose(ctx, destObject, job.Payload.MergePackIDs)
	if err != nil {
		return err
	}

	pack.AudioObject = res.AudioObject
	pack.AudioDuration = res.AudioDuration
	return o.packs.CompleteWithContent(ctx, pack, res.Slides, res.Cards)
}

// runImport persists an already-timed manifest without alignment.
func (o *Orchestrator) runImport(ctx context.Context, job *entities.Job, pack *entities.SlidePack) error {
	manifest := job.Payload.Manifest
	if manifest == nil {
		return fmt.Errorf("import job without manifest")
	}

	slides := manifest.ToSlides()
	duration := manifest.Metadata.Duration
	if duration <= 0 && len(slides) > 0 {
		duration = slides[len(slides)-1].TimestampEnd
	}

	pack.AudioObject = job.Payload.AudioObject
	pack.AudioDuration = duration
	return o.packs.CompleteWithContent(ctx, pack, slides, manifest.ToCards())
}

func (o *Orchestrator) transcribe(ctx context.Context, audioObject string) ([]entities.TimedToken, float64, error) {
	audioURL, err := o.store.PresignedURL(ctx, audioObject, presignExpiry)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to presign audio: %w", err)
	}
	tokens, duration, err := o.transcriber.Transcribe(ctx, audioURL)
	if err != nil {
		return nil, 0, fmt.Errorf("transcription failed: %w", err)
	}
	return tokens, duration, nil
}

func maxSlideID(slides []entities.Slide) int {
	max := -1
	for _, s := range slides {
		if s.SlideID > max {
			max = s.SlideID
		}
	}
	return max
}
