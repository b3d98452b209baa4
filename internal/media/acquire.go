package media

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/flame-cai/video-qna-backend/internal/models"
)

// YTDLPAcquirer downloads a source URL's audio track as a wav file using
// yt-dlp, and probes the media duration in the same pass.
type YTDLPAcquirer struct {
	binPath    string
	ffmpegPath string
	workDir    string
	runner     commandRunner
	mkdirTemp  func(dir, pattern string) (string, error)
}

func NewYTDLPAcquirer(binPath, ffmpegPath, workDir string) *YTDLPAcquirer {
	if binPath == "" {
		binPath = "yt-dlp"
	}
	if ffmpegPath == "" {
		ffmpegPath = "ffmpeg"
	}
	return &YTDLPAcquirer{
		binPath:    binPath,
		ffmpegPath: ffmpegPath,
		workDir:    workDir,
		runner:     &execRunner{},
		mkdirTemp:  os.MkdirTemp,
	}
}

// AcquireAudio extracts the audio track of sourceURL into a temp directory
// and returns the wav path together with the media duration in seconds.
func (a *YTDLPAcquirer) AcquireAudio(ctx context.Context, sourceURL string) (string, float64, error) {
	duration, err := a.probeDuration(ctx, sourceURL)
	if err != nil {
		return "", 0, err
	}

	dir, err := a.mkdirTemp(a.workDir, "videoqna-*")
	if err != nil {
		return "", 0, fmt.Errorf("%w: create work directory: %v", models.ErrAcquisition, err)
	}
	outputFile := filepath.Join(dir, "audio.wav")

	args := []string{
		"-x",
		"--audio-format", "wav",
		"--ffmpeg-location", a.ffmpegPath,
		"-o", outputFile,
		sourceURL,
	}
	log.WithField("url", sourceURL).Debug("downloading audio with yt-dlp")
	if res, err := a.runner.Run(ctx, a.binPath, args...); err != nil {
		return "", 0, fmt.Errorf("%w: yt-dlp exited with code %d: %s", models.ErrAcquisition, res.ExitCode, firstLine(res.Stderr))
	}
	return outputFile, duration, nil
}

// probeDuration asks yt-dlp for the media duration without downloading.
// It doubles as a reachability check: an unreachable or unsupported source
// fails here before any download work starts.
func (a *YTDLPAcquirer) probeDuration(ctx context.Context, sourceURL string) (float64, error) {
	args := []string{
		"--no-warnings",
		"--skip-download",
		"--print", "duration",
		sourceURL,
	}
	res, err := a.runner.Run(ctx, a.binPath, args...)
	if err != nil {
		return 0, fmt.Errorf("%w: source unreachable or unsupported: %s", models.ErrAcquisition, firstLine(res.Stderr))
	}
	durationStr := firstLine(res.Stdout)
	duration, err := strconv.ParseFloat(durationStr, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: could not determine media duration from %q", models.ErrAcquisition, durationStr)
	}
	return duration, nil
}

func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return strings.TrimSpace(s[:i])
	}
	return s
}
