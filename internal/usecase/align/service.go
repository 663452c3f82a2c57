package align

import (
	"sort"

	"go.uber.org/zap"

	"github.com/slidecast-team/slidecast/internal/domain/entities"
	usecaseErrors "github.com/slidecast-team/slidecast/internal/usecase/errors"
)

// Config carries the alignment heuristic constants. The defaults are
// reasonable starting points, not tuned values; both are exposed as
// configuration on purpose.
type Config struct {
	// FormulaWeight multiplies formula text length to account for the
	// explanatory pause a formula costs relative to prose.
	FormulaWeight float64
	// SnapWindowFrac bounds the snap search window as a fraction of the
	// mean block duration.
	SnapWindowFrac float64
}

// DefaultConfig returns the default alignment constants
func DefaultConfig() Config {
	return Config{
		FormulaWeight:  1.5,
		SnapWindowFrac: 0.10,
	}
}

// Service maps untimed content blocks onto the time axis of a
// transcribed recording. It is a heuristic time-allocator: reading
// weight decides provisional boundaries, token starts refine them.
type Service struct {
	cfg    Config
	logger *zap.Logger
}

// NewService creates an alignment service
func NewService(cfg Config, logger *zap.Logger) *Service {
	if cfg.FormulaWeight <= 0 {
		cfg.FormulaWeight = DefaultConfig().FormulaWeight
	}
	if cfg.SnapWindowFrac <= 0 {
		cfg.SnapWindowFrac = DefaultConfig().SnapWindowFrac
	}
	return &Service{cfg: cfg, logger: logger}
}

// Align produces one slide per content block, covering [0, audioDuration)
// contiguously with no gaps or overlaps. Slide ids are assigned
// sequentially from startID. Empty tokens or blocks are fatal; every
// other degenerate input degrades to an unsnapped proportional split.
func (s *Service) Align(audioDuration float64, tokens []entities.TimedToken, blocks []entities.ContentBlock, startID int) ([]entities.Slide, error) {
	if len(tokens) == 0 {
		return nil, usecaseErrors.ErrEmptyTranscript
	}
	if len(blocks) == 0 {
		return nil, usecaseErrors.ErrEmptyOutline
	}

	if audioDuration <= 0 {
		audioDuration = entities.TokensDuration(tokens)
	}

	n := len(blocks)
	epsilon := entities.MinTokenDuration(tokens)

	boundaries := s.provisionalBoundaries(audioDuration, blocks)
	s.snapBoundaries(boundaries, tokens, audioDuration)
	enforceMonotonic(boundaries, epsilon)

	if !boundariesValid(boundaries) {
		// Snapping painted us into a corner; fall back to the plain
		// proportional split, which is always a valid output.
		if s.logger != nil {
			s.logger.Warn("⚠️ Snapped boundaries invalid, using proportional split",
				zap.Int("block_count", n),
				zap.Float64("audio_duration", audioDuration),
			)
		}
		boundaries = equalBoundaries(audioDuration, n)
		enforceMonotonic(boundaries, epsilon)
	}

	slides := make([]entities.Slide, 0, n)
	for i, block := range blocks {
		slides = append(slides, entities.Slide{
			SlideID:        startID + i,
			TimestampStart: boundaries[i],
			TimestampEnd:   boundaries[i+1],
			Title:          block.Title,
			Content:        block.Points,
			MathFormulas:   block.Formulas,
			DeepDive:       block.DeepDive,
		})
	}

	if s.logger != nil {
		s.logger.Info("✅ Alignment completed",
			zap.Int("slide_count", len(slides)),
			zap.Float64("audio_duration", audioDuration),
		)
	}

	return slides, nil
}

// provisionalBoundaries allocates the audio duration across blocks
// proportionally to reading weight. Returns n+1 boundaries with
// boundaries[0] = 0 and boundaries[n] = audioDuration.
func (s *Service) provisionalBoundaries(audioDuration float64, blocks []entities.ContentBlock) []float64 {
	n := len(blocks)
	weights := make([]float64, n)
	total := 0.0
	for i := range blocks {
		w := float64(blocks[i].TextLength()) + s.cfg.FormulaWeight*float64(blocks[i].FormulaLength())
		weights[i] = w
		total += w
	}
	if total <= 0 {
		return equalBoundaries(audioDuration, n)
	}

	boundaries := make([]float64, n+1)
	cum := 0.0
	for i := 0; i < n; i++ {
		cum += weights[i]
		boundaries[i+1] = audioDuration * cum / total
	}
	boundaries[0] = 0
	boundaries[n] = audioDuration
	return boundaries
}

// snapBoundaries moves each inner boundary to the nearest token start
// within the search window. Boundaries with no token start in-window
// stay where they are. First and last boundaries are never moved.
func (s *Service) snapBoundaries(boundaries []float64, tokens []entities.TimedToken, audioDuration float64) {
	n := len(boundaries) - 1
	window := s.cfg.SnapWindowFrac * (audioDuration / float64(n))
	if window <= 0 {
		return
	}

	starts := make([]float64, len(tokens))
	for i, t := range tokens {
		starts[i] = t.Start
	}
	sort.Float64s(starts)

	for i := 1; i < n; i++ {
		if snapped, ok := nearestWithin(starts, boundaries[i], window); ok {
			boundaries[i] = snapped
		}
	}
}

// nearestWithin finds the value in sorted starts closest to target,
// provided it lies within ±window.
func nearestWithin(starts []float64, target, window float64) (float64, bool) {
	idx := sort.SearchFloat64s(starts, target)

	best := 0.0
	found := false
	if idx < len(starts) {
		best = starts[idx]
		found = true
	}
	if idx > 0 {
		prev := starts[idx-1]
		if !found || target-prev < best-target {
			best = prev
			found = true
		}
	}
	if !found {
		return 0, false
	}

	diff := best - target
	if diff < 0 {
		diff = -diff
	}
	if diff > window {
		return 0, false
	}
	return best, true
}

// enforceMonotonic pushes each boundary that snapping collapsed onto (or
// behind) its predecessor forward by epsilon. The first and last
// boundaries stay pinned at 0 and audioDuration.
func enforceMonotonic(boundaries []float64, epsilon float64) {
	for i := 1; i < len(boundaries)-1; i++ {
		if boundaries[i] <= boundaries[i-1] {
			boundaries[i] = boundaries[i-1] + epsilon
		}
	}
}

func boundariesValid(boundaries []float64) bool {
	for i := 1; i < len(boundaries); i++ {
		if boundaries[i] <= boundaries[i-1] {
			return false
		}
	}
	return true
}

func equalBoundaries(audioDuration float64, n int) []float64 {
	boundaries := make([]float64, n+1)
	for i := 1; i < n; i++ {
		boundaries[i] = audioDuration * float64(i) / float64(n)
	}
	boundaries[n] = audioDuration
	return boundaries
}

// BlocksFromSlides strips an existing deck down to its untimed content so
// a new recording can be aligned against it. Block count and order match
// the slides exactly.
func BlocksFromSlides(slides []entities.Slide) []entities.ContentBlock {
	sorted := make([]entities.Slide, len(slides))
	copy(sorted, slides)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].SlideID < sorted[j].SlideID })

	blocks := make([]entities.ContentBlock, 0, len(sorted))
	for _, s := range sorted {
		blocks = append(blocks, entities.ContentBlock{
			Title:    s.Title,
			Points:   s.Content,
			Formulas: s.MathFormulas,
			DeepDive: s.DeepDive,
		})
	}
	return blocks
}
