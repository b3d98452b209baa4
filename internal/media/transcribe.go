package media

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/flame-cai/video-qna-backend/internal/models"
)

// WhisperTranscriber runs the Whisper CLI over an audio file and returns the
// raw SRT text it produced.
type WhisperTranscriber struct {
	binPath  string
	model    string
	language string
	runner   commandRunner
	readFile func(name string) ([]byte, error)
}

func NewWhisperTranscriber(binPath, model, language string) *WhisperTranscriber {
	if binPath == "" {
		binPath = "whisper"
	}
	if model == "" {
		model = "base"
	}
	if language == "" {
		language = "English"
	}
	return &WhisperTranscriber{
		binPath:  binPath,
		model:    model,
		language: language,
		runner:   &execRunner{},
		readFile: os.ReadFile,
	}
}

// Transcribe writes the SRT next to the audio file and returns its contents.
func (t *WhisperTranscriber) Transcribe(ctx context.Context, audioPath string) (string, error) {
	outputDir := filepath.Dir(audioPath)
	args := []string{
		audioPath,
		"--language", t.language,
		"--model", t.model,
		"--output_dir", outputDir,
		"--output_format", "srt",
	}
	log.WithField("audio", audioPath).Debug("transcribing with whisper")
	if res, err := t.runner.Run(ctx, t.binPath, args...); err != nil {
		return "", fmt.Errorf("%w: whisper exited with code %d: %s", models.ErrTranscription, res.ExitCode, firstLine(res.Stderr))
	}

	base := strings.TrimSuffix(filepath.Base(audioPath), filepath.Ext(audioPath))
	srtPath := filepath.Join(outputDir, base+".srt")
	data, err := t.readFile(srtPath)
	if err != nil {
		return "", fmt.Errorf("%w: read transcript %s: %v", models.ErrTranscription, srtPath, err)
	}
	return string(data), nil
}
