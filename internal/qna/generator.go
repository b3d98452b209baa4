package qna

import (
	"context"
	"fmt"

	"github.com/flame-cai/video-qna-backend/internal/models"
)

// Generation is the outcome of one generation attempt. Chapters is set when
// the provider produced schema-conforming records itself; when it is nil the
// caller only has Text and must fall back to label-based parsing.
type Generation struct {
	Chapters []models.Chapter
	Text     string
}

// Generator is the external text-generation capability behind chapter
// synthesis. Implementations perform exactly one generation attempt per call
// and map provider failures onto the shared error taxonomy
// (models.ErrGenerationRefused, models.ErrGenerationFailed).
type Generator interface {
	GenerateChapters(ctx context.Context, transcript string, format models.QuestionFormat) (Generation, error)
	Name() string
}

// chapterPayload is the wire shape both providers are asked to emit.
type chapterPayload struct {
	Chapters []models.Chapter `json:"chapters"`
}

const chapterSystemPrompt = "You are a helpful chapter generator for video transcripts. " +
	"Analyze the transcript content and identify changes in topic to segment it into chapters. " +
	"Each paragraph of the transcript is prefixed with the time range it was spoken in. " +
	"For each chapter produce a concise, descriptive chapter name and its start and end " +
	"timestamps in HH:MM:SS form. Number chapters from 1 with no gaps, and start each chapter " +
	"exactly where the previous one ended so the chapters cover the video contiguously. " +
	"Keep questions and answers short and concise, and segment into relevant chapters only."

func userPrompt(transcript string, format models.QuestionFormat) string {
	instruction := "generate up to one question per chapter to encourage critical thinking, together with its answer"
	if format == models.FormatMultipleChoice {
		instruction = "generate one multiple-choice question per chapter with exactly four options " +
			"numbered 1 to 4, and indicate which option number is correct"
	}
	return fmt.Sprintf("Based on the following transcript, generate chapter names, timestamps, and %s:\n\n%s",
		instruction, transcript)
}
