package pipeline

import (
	"context"

	"github.com/flame-cai/video-qna-backend/internal/models"
)

// AudioAcquirer fetches the audio track for a source URL and reports the
// media duration in seconds. Failures wrap models.ErrAcquisition.
type AudioAcquirer interface {
	AcquireAudio(ctx context.Context, sourceURL string) (audioPath string, duration float64, err error)
}

// Transcriber converts an audio file into raw timecoded subtitle text.
// Failures wrap models.ErrTranscription.
type Transcriber interface {
	Transcribe(ctx context.Context, audioPath string) (string, error)
}

// Synthesizer turns a narrative transcript into a validated chapter set.
// Failures wrap models.ErrGenerationRefused or models.ErrGenerationFailed.
type Synthesizer interface {
	Extract(ctx context.Context, transcript string, format models.QuestionFormat) ([]models.Chapter, error)
}
