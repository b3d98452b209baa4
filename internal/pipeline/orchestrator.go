package pipeline

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/flame-cai/video-qna-backend/internal/models"
	"github.com/flame-cai/video-qna-backend/internal/store"
	"github.com/flame-cai/video-qna-backend/internal/subtitle"
)

// Orchestrator owns job identity and the three-stage pipeline. Each submitted
// job runs on its own goroutine; the job store is written exactly twice per
// job id (processing at submission, then one terminal state), always by that
// job's goroutine.
type Orchestrator struct {
	jobs        store.JobStore
	acquirer    AudioAcquirer
	transcriber Transcriber
	synthesizer Synthesizer
}

func NewOrchestrator(jobs store.JobStore, acquirer AudioAcquirer, transcriber Transcriber, synthesizer Synthesizer) *Orchestrator {
	return &Orchestrator{
		jobs:        jobs,
		acquirer:    acquirer,
		transcriber: transcriber,
		synthesizer: synthesizer,
	}
}

// Submit validates the request, allocates a job id, records the job as
// processing, and starts the pipeline in the background. It returns before
// any stage runs; callers observe progress through GetStatus.
func (o *Orchestrator) Submit(ctx context.Context, sourceURL, formatStr string) (string, error) {
	if strings.TrimSpace(sourceURL) == "" {
		return "", fmt.Errorf("%w: source URL is required", models.ErrInvalidRequest)
	}
	format, err := models.ParseFormat(formatStr)
	if err != nil {
		return "", err
	}

	id := uuid.NewString()
	if err := o.jobs.Put(ctx, id, models.JobRecord{Status: models.JobStatusProcessing}); err != nil {
		return "", fmt.Errorf("record job %s: %w", id, err)
	}

	go o.run(id, sourceURL, format)

	log.WithFields(log.Fields{"job_id": id, "format": format}).Info("job submitted")
	return id, nil
}

// GetStatus reads the stored record for a job id.
func (o *Orchestrator) GetStatus(ctx context.Context, id string) (models.JobRecord, error) {
	return o.jobs.Get(ctx, id)
}

// run executes the stage sequence for one job. It deliberately runs on a
// fresh background context: the submitting request has already returned and
// the job is not cancellable.
func (o *Orchestrator) run(id, sourceURL string, format models.QuestionFormat) {
	ctx := context.Background()
	logger := log.WithField("job_id", id)

	defer func() {
		if r := recover(); r != nil {
			logger.Errorf("pipeline panicked: %v", r)
			o.fail(ctx, id, fmt.Sprintf("internal error: %v", r))
		}
	}()

	logger.Info("acquiring audio")
	audioPath, duration, err := o.acquirer.AcquireAudio(ctx, sourceURL)
	if err != nil {
		o.fail(ctx, id, err.Error())
		return
	}

	logger.Info("transcribing audio")
	raw, err := o.transcriber.Transcribe(ctx, audioPath)
	if err != nil {
		o.fail(ctx, id, err.Error())
		return
	}

	blocks, err := subtitle.ParseBlocks(raw)
	if err != nil {
		o.fail(ctx, id, err.Error())
		return
	}
	transcript := subtitle.Normalize(blocks)

	logger.Info("generating chapters")
	chapters, err := o.synthesizer.Extract(ctx, transcript, format)
	if err != nil {
		o.fail(ctx, id, err.Error())
		return
	}

	rec := models.JobRecord{
		Status: models.JobStatusCompleted,
		Data:   &models.JobResult{Chapters: chapters, Duration: duration},
	}
	if err := o.jobs.Put(ctx, id, rec); err != nil {
		logger.Errorf("failed to record completed job: %v", err)
		return
	}
	logger.WithField("chapters", len(chapters)).Info("job completed")
}

func (o *Orchestrator) fail(ctx context.Context, id, message string) {
	log.WithField("job_id", id).Errorf("job failed: %s", message)
	rec := models.JobRecord{Status: models.JobStatusFailed, Error: message}
	if err := o.jobs.Put(ctx, id, rec); err != nil {
		log.WithField("job_id", id).Errorf("failed to record failed job: %v", err)
	}
}
