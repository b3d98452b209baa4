package pipeline

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flame-cai/video-qna-backend/internal/models"
	"github.com/flame-cai/video-qna-backend/internal/store"
)

const stubSRT = `1
00:00:00 --> 00:00:05
Hello

2
00:00:05 --> 00:00:10
World
`

type stubAcquirer struct {
	block    chan struct{} // when set, AcquireAudio waits on it
	err      error
	duration float64
}

func (s *stubAcquirer) AcquireAudio(ctx context.Context, sourceURL string) (string, float64, error) {
	if s.block != nil {
		<-s.block
	}
	if s.err != nil {
		return "", 0, s.err
	}
	return "/tmp/videoqna/audio.wav", s.duration, nil
}

type stubTranscriber struct {
	text string
	err  error
}

func (s *stubTranscriber) Transcribe(ctx context.Context, audioPath string) (string, error) {
	return s.text, s.err
}

type stubSynthesizer struct {
	chapters   []models.Chapter
	err        error
	transcript string
}

func (s *stubSynthesizer) Extract(ctx context.Context, transcript string, format models.QuestionFormat) ([]models.Chapter, error) {
	s.transcript = transcript
	if s.err != nil {
		return nil, s.err
	}
	return s.chapters, nil
}

func testChapters() []models.Chapter {
	return []models.Chapter{
		{
			ChapterNumber:  1,
			ChapterName:    "Greeting",
			StartTimestamp: "00:00:00",
			EndTimestamp:   "00:00:10",
			Question:       "What is said?",
			Answer:         "Hello world.",
		},
	}
}

func waitForTerminal(t *testing.T, o *Orchestrator, id string) models.JobRecord {
	t.Helper()
	var rec models.JobRecord
	require.Eventually(t, func() bool {
		var err error
		rec, err = o.GetStatus(context.Background(), id)
		return err == nil && rec.Status != models.JobStatusProcessing
	}, 2*time.Second, 10*time.Millisecond)
	return rec
}

func TestSubmit_ReturnsBeforePipelineCompletes(t *testing.T) {
	acquirer := &stubAcquirer{block: make(chan struct{}), duration: 10}
	o := NewOrchestrator(store.NewMemoryStore(), acquirer,
		&stubTranscriber{text: stubSRT}, &stubSynthesizer{chapters: testChapters()})

	id, err := o.Submit(context.Background(), "https://example.com/v/abc", "open")
	require.NoError(t, err)
	require.NotEmpty(t, id)

	// The pipeline is still blocked on the first stage.
	rec, err := o.GetStatus(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, models.JobStatusProcessing, rec.Status)
	assert.Nil(t, rec.Data)
	assert.Empty(t, rec.Error)

	close(acquirer.block)
	rec = waitForTerminal(t, o, id)
	assert.Equal(t, models.JobStatusCompleted, rec.Status)
}

func TestSubmit_CompletedJobCarriesResult(t *testing.T) {
	synth := &stubSynthesizer{chapters: testChapters()}
	o := NewOrchestrator(store.NewMemoryStore(), &stubAcquirer{duration: 144.5},
		&stubTranscriber{text: stubSRT}, synth)

	id, err := o.Submit(context.Background(), "https://example.com/v/abc", "open")
	require.NoError(t, err)

	rec := waitForTerminal(t, o, id)
	require.Equal(t, models.JobStatusCompleted, rec.Status)
	require.NotNil(t, rec.Data)
	assert.Equal(t, 144.5, rec.Data.Duration)
	assert.Equal(t, testChapters(), rec.Data.Chapters)
	assert.Empty(t, rec.Error)

	// The synthesizer saw the normalized transcript, not raw SRT.
	assert.Contains(t, synth.transcript, "00:00:00 --> 00:00:05 Hello")

	// Terminal reads are idempotent.
	again, err := o.GetStatus(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, rec, again)
}

func TestSubmit_EmptyURL(t *testing.T) {
	jobs := store.NewMemoryStore()
	o := NewOrchestrator(jobs, &stubAcquirer{}, &stubTranscriber{text: stubSRT}, &stubSynthesizer{})

	_, err := o.Submit(context.Background(), "   ", "open")
	require.Error(t, err)
	assert.ErrorIs(t, err, models.ErrInvalidRequest)

	// No job record was created.
	_, err = jobs.Get(context.Background(), uuid.NewString())
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestSubmit_UnknownFormat(t *testing.T) {
	o := NewOrchestrator(store.NewMemoryStore(), &stubAcquirer{}, &stubTranscriber{text: stubSRT}, &stubSynthesizer{})

	_, err := o.Submit(context.Background(), "https://example.com/v/abc", "true-false")
	assert.ErrorIs(t, err, models.ErrInvalidRequest)
}

func TestGetStatus_UnknownJob(t *testing.T) {
	o := NewOrchestrator(store.NewMemoryStore(), &stubAcquirer{}, &stubTranscriber{}, &stubSynthesizer{})

	_, err := o.GetStatus(context.Background(), uuid.NewString())
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestPipeline_AcquisitionFailure(t *testing.T) {
	acquirer := &stubAcquirer{err: fmt.Errorf("%w: source unreachable", models.ErrAcquisition)}
	o := NewOrchestrator(store.NewMemoryStore(), acquirer, &stubTranscriber{text: stubSRT}, &stubSynthesizer{chapters: testChapters()})

	id, err := o.Submit(context.Background(), "https://example.com/v/gone", "open")
	require.NoError(t, err)

	rec := waitForTerminal(t, o, id)
	assert.Equal(t, models.JobStatusFailed, rec.Status)
	assert.Contains(t, rec.Error, "acquisition")
	assert.Nil(t, rec.Data)
}

func TestPipeline_TranscriptionFailure(t *testing.T) {
	o := NewOrchestrator(store.NewMemoryStore(), &stubAcquirer{},
		&stubTranscriber{err: fmt.Errorf("%w: whisper exited with code 2", models.ErrTranscription)},
		&stubSynthesizer{chapters: testChapters()})

	id, err := o.Submit(context.Background(), "https://example.com/v/abc", "open")
	require.NoError(t, err)

	rec := waitForTerminal(t, o, id)
	assert.Equal(t, models.JobStatusFailed, rec.Status)
	assert.Contains(t, rec.Error, "transcription")
}

func TestPipeline_MalformedTranscript(t *testing.T) {
	o := NewOrchestrator(store.NewMemoryStore(), &stubAcquirer{},
		&stubTranscriber{text: "not a subtitle file"}, &stubSynthesizer{chapters: testChapters()})

	id, err := o.Submit(context.Background(), "https://example.com/v/abc", "open")
	require.NoError(t, err)

	rec := waitForTerminal(t, o, id)
	assert.Equal(t, models.JobStatusFailed, rec.Status)
	assert.Contains(t, rec.Error, "malformed")
}

func TestPipeline_SynthesisFailure(t *testing.T) {
	o := NewOrchestrator(store.NewMemoryStore(), &stubAcquirer{}, &stubTranscriber{text: stubSRT},
		&stubSynthesizer{err: errors.New("generation failed: quota exceeded")})

	id, err := o.Submit(context.Background(), "https://example.com/v/abc", "open")
	require.NoError(t, err)

	rec := waitForTerminal(t, o, id)
	assert.Equal(t, models.JobStatusFailed, rec.Status)
	assert.Contains(t, rec.Error, "quota exceeded")
}

func TestPipeline_ConcurrentJobsAreIndependent(t *testing.T) {
	jobs := store.NewMemoryStore()
	good := NewOrchestrator(jobs, &stubAcquirer{duration: 5}, &stubTranscriber{text: stubSRT},
		&stubSynthesizer{chapters: testChapters()})
	bad := NewOrchestrator(jobs, &stubAcquirer{err: fmt.Errorf("%w: nope", models.ErrAcquisition)},
		&stubTranscriber{text: stubSRT}, &stubSynthesizer{chapters: testChapters()})

	goodID, err := good.Submit(context.Background(), "https://example.com/v/ok", "open")
	require.NoError(t, err)
	badID, err := bad.Submit(context.Background(), "https://example.com/v/broken", "open")
	require.NoError(t, err)

	goodRec := waitForTerminal(t, good, goodID)
	badRec := waitForTerminal(t, bad, badID)

	assert.Equal(t, models.JobStatusCompleted, goodRec.Status)
	assert.Equal(t, models.JobStatusFailed, badRec.Status)
}
