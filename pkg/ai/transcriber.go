package ai

import (
	"context"
	"fmt"
	"net/http"
	"time"

	aai "github.com/AssemblyAI/assemblyai-go-sdk"
	"go.uber.org/zap"

	"github.com/slidecast-team/slidecast/internal/domain/entities"
	"github.com/slidecast-team/slidecast/pkg/config"
)

// Transcriber converts an audio recording into word-level timed tokens.
type Transcriber interface {
	// Transcribe returns the timed tokens and the audio duration in seconds.
	Transcribe(ctx context.Context, audioURL string) ([]entities.TimedToken, float64, error)
}

// AssemblyAITranscriber transcribes audio through the AssemblyAI API.
// The audio URL is usually a presigned object-storage link that AssemblyAI
// cannot reach directly, so the file is streamed through their upload
// endpoint first.
type AssemblyAITranscriber struct {
	sdkClient  *aai.Client
	httpClient *http.Client
	language   string
	logger     *zap.Logger
}

// NewAssemblyAITranscriber creates a transcriber using the provided config.
func NewAssemblyAITranscriber(cfg *config.AssemblyConfig, logger *zap.Logger) *AssemblyAITranscriber {
	return &AssemblyAITranscriber{
		sdkClient:  aai.NewClient(cfg.APIKey),
		httpClient: &http.Client{Timeout: 60 * time.Second},
		language:   cfg.LanguageCode,
		logger:     logger,
	}
}

// Transcribe downloads the audio, uploads it to AssemblyAI and waits for
// the word-level transcript. Timestamps come back in milliseconds and are
// converted to seconds.
func (t *AssemblyAITranscriber) Transcribe(ctx context.Context, audioURL string) ([]entities.TimedToken, float64, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", audioURL, nil)
	if err != nil {
		return nil, 0, err
	}
	resp, err := t.httpClient.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch audio: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 400 {
		return nil, 0, fmt.Errorf("audio fetch returned status %d", resp.StatusCode)
	}

	uploadURL, err := t.sdkClient.Upload(ctx, resp.Body)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to upload to AssemblyAI: %w", err)
	}

	if t.logger != nil {
		t.logger.Info("✅ Audio uploaded to AssemblyAI",
			zap.String("upload_url", uploadURL),
		)
	}

	params := &aai.TranscriptOptionalParams{
		LanguageCode: aai.TranscriptLanguageCode(t.language),
		Punctuate:    aai.Bool(true),
	}

	transcript, err := t.sdkClient.Transcripts.TranscribeFromURL(ctx, uploadURL, params)
	if err != nil {
		return nil, 0, fmt.Errorf("transcription failed: %w", err)
	}
	if transcript.Status == aai.TranscriptStatusError {
		msg := "transcription failed"
		if transcript.Error != nil {
			msg = *transcript.Error
		}
		return nil, 0, fmt.Errorf("assemblyai error: %s", msg)
	}

	tokens := make([]entities.TimedToken, 0, len(transcript.Words))
	for _, w := range transcript.Words {
		token := entities.TimedToken{}
		if w.Text != nil {
			token.Text = *w.Text
		}
		if w.Start != nil {
			token.Start = float64(*w.Start) / 1000.0 // ms to seconds
		}
		if w.End != nil {
			token.End = float64(*w.End) / 1000.0
		}
		tokens = append(tokens, token)
	}

	var duration float64
	if transcript.AudioDuration != nil {
		duration = *transcript.AudioDuration
	} else if n := len(tokens); n > 0 {
		duration = tokens[n-1].End
	}

	if t.logger != nil {
		t.logger.Info("✅ Transcript received",
			zap.Int("token_count", len(tokens)),
			zap.Float64("audio_duration", duration),
		)
	}

	return tokens, duration, nil
}
