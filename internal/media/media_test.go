package media

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flame-cai/video-qna-backend/internal/models"
)

// fakeRunner replays canned results per command invocation.
type fakeRunner struct {
	results []commandResult
	errs    []error
	calls   [][]string
}

func (f *fakeRunner) Run(ctx context.Context, name string, args ...string) (commandResult, error) {
	call := append([]string{name}, args...)
	f.calls = append(f.calls, call)
	i := len(f.calls) - 1
	var res commandResult
	var err error
	if i < len(f.results) {
		res = f.results[i]
	}
	if i < len(f.errs) {
		err = f.errs[i]
	}
	return res, err
}

func TestYTDLPAcquirer_AcquireAudio(t *testing.T) {
	runner := &fakeRunner{
		results: []commandResult{
			{Stdout: "144.5\n"}, // duration probe
			{},                  // download
		},
		errs: []error{nil, nil},
	}
	a := NewYTDLPAcquirer("yt-dlp", "ffmpeg", t.TempDir())
	a.runner = runner

	audioPath, duration, err := a.AcquireAudio(context.Background(), "https://example.com/v/abc")
	require.NoError(t, err)
	assert.Equal(t, 144.5, duration)
	assert.Equal(t, "audio.wav", filepath.Base(audioPath))

	require.Len(t, runner.calls, 2)
	assert.Contains(t, runner.calls[0], "--skip-download")
	assert.Contains(t, runner.calls[1], "-x")
	assert.Contains(t, runner.calls[1], "wav")
	assert.Contains(t, runner.calls[1], "https://example.com/v/abc")
}

func TestYTDLPAcquirer_UnreachableSource(t *testing.T) {
	runner := &fakeRunner{
		results: []commandResult{{Stderr: "ERROR: unable to download webpage", ExitCode: 1}},
		errs:    []error{errors.New("exit status 1")},
	}
	a := NewYTDLPAcquirer("", "", t.TempDir())
	a.runner = runner

	_, _, err := a.AcquireAudio(context.Background(), "https://example.com/missing")
	require.Error(t, err)
	assert.ErrorIs(t, err, models.ErrAcquisition)
	assert.Contains(t, err.Error(), "unable to download webpage")
}

func TestYTDLPAcquirer_BadDuration(t *testing.T) {
	runner := &fakeRunner{
		results: []commandResult{{Stdout: "NA\n"}},
		errs:    []error{nil},
	}
	a := NewYTDLPAcquirer("", "", t.TempDir())
	a.runner = runner

	_, _, err := a.AcquireAudio(context.Background(), "https://example.com/v/abc")
	assert.ErrorIs(t, err, models.ErrAcquisition)
}

func TestWhisperTranscriber_Transcribe(t *testing.T) {
	runner := &fakeRunner{results: []commandResult{{}}, errs: []error{nil}}
	tr := NewWhisperTranscriber("whisper", "base", "English")
	tr.runner = runner
	tr.readFile = func(name string) ([]byte, error) {
		assert.Equal(t, filepath.Join("/tmp/work", "audio.srt"), name)
		return []byte("1\n00:00:00 --> 00:00:05\nHello\n"), nil
	}

	text, err := tr.Transcribe(context.Background(), filepath.Join("/tmp/work", "audio.wav"))
	require.NoError(t, err)
	assert.Contains(t, text, "Hello")

	require.Len(t, runner.calls, 1)
	assert.Contains(t, runner.calls[0], "--output_format")
	assert.Contains(t, runner.calls[0], "srt")
}

func TestWhisperTranscriber_CommandFailure(t *testing.T) {
	runner := &fakeRunner{
		results: []commandResult{{Stderr: "model file not found", ExitCode: 2}},
		errs:    []error{errors.New("exit status 2")},
	}
	tr := NewWhisperTranscriber("", "", "")
	tr.runner = runner

	_, err := tr.Transcribe(context.Background(), "/tmp/work/audio.wav")
	require.Error(t, err)
	assert.ErrorIs(t, err, models.ErrTranscription)
}

func TestWhisperTranscriber_MissingTranscript(t *testing.T) {
	runner := &fakeRunner{results: []commandResult{{}}, errs: []error{nil}}
	tr := NewWhisperTranscriber("", "", "")
	tr.runner = runner
	tr.readFile = func(name string) ([]byte, error) {
		return nil, errors.New("no such file")
	}

	_, err := tr.Transcribe(context.Background(), "/tmp/work/audio.wav")
	assert.ErrorIs(t, err, models.ErrTranscription)
}
