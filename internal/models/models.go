package models

import (
	"fmt"
)

// QuestionFormat selects which chapter variant the pipeline produces.
type QuestionFormat string

const (
	FormatOpen           QuestionFormat = "open"
	FormatMultipleChoice QuestionFormat = "multiple-choice"
)

// ParseFormat validates a caller-supplied format string. An empty value
// defaults to the open-answer variant; anything else unrecognized is rejected.
func ParseFormat(s string) (QuestionFormat, error) {
	switch QuestionFormat(s) {
	case FormatOpen, FormatMultipleChoice:
		return QuestionFormat(s), nil
	case "":
		return FormatOpen, nil
	default:
		return "", fmt.Errorf("%w: unknown question format %q", ErrInvalidRequest, s)
	}
}

// MCQOption is one of the four answer choices in a multiple-choice chapter.
type MCQOption struct {
	OptionNumber int    `json:"option_number"`
	Text         string `json:"text"`
}

// Chapter is one entry of a generated chapter set. The open-answer variant
// fills Answer; the multiple-choice variant fills Options and
// CorrectOptionNumber. Timestamps are HH:MM:SS with no sub-second part.
type Chapter struct {
	ChapterNumber       int         `json:"chapter_number"`
	ChapterName         string      `json:"chapter_name"`
	StartTimestamp      string      `json:"start_timestamp"`
	EndTimestamp        string      `json:"end_timestamp"`
	Question            string      `json:"question"`
	Answer              string      `json:"answer,omitempty"`
	Options             []MCQOption `json:"options,omitempty"`
	CorrectOptionNumber int         `json:"correct_option_number,omitempty"`
}

// JobResult is the payload of a completed job.
type JobResult struct {
	Chapters []Chapter `json:"chapters"`
	Duration float64   `json:"duration"`
}

// JobRecord is the single value persisted per job key. Exactly one of
// Data/Error is set depending on Status.
type JobRecord struct {
	Status string     `json:"status"`
	Data   *JobResult `json:"data,omitempty"`
	Error  string     `json:"error,omitempty"`
}
