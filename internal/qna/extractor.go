package qna

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/neurosnap/sentences"
	log "github.com/sirupsen/logrus"

	"github.com/flame-cai/video-qna-backend/internal/models"
)

// DefaultMaxPromptChars is the transcript budget handed to the generation
// capability. Longer transcripts are cut at this many characters, backed off
// to the last full sentence inside the budget.
const DefaultMaxPromptChars = 8000

// Extractor turns narrative transcript text into a validated chapter
// collection. Content synthesis is delegated to the Generator; the Extractor
// owns truncation, the unstructured-output fallback, and validation. It makes
// exactly one generation attempt per call and never retries.
type Extractor struct {
	generator      Generator
	maxPromptChars int
	tokenizer      *sentences.DefaultSentenceTokenizer
}

func NewExtractor(g Generator, maxPromptChars int) *Extractor {
	if maxPromptChars <= 0 {
		maxPromptChars = DefaultMaxPromptChars
	}
	return &Extractor{
		generator:      g,
		maxPromptChars: maxPromptChars,
		tokenizer:      sentences.NewSentenceTokenizer(nil),
	}
}

func (e *Extractor) Extract(ctx context.Context, transcript string, format models.QuestionFormat) ([]models.Chapter, error) {
	prompt := e.truncate(transcript)

	gen, err := e.generator.GenerateChapters(ctx, prompt, format)
	if err != nil {
		return nil, err
	}

	chapters := gen.Chapters
	if chapters == nil {
		if format == models.FormatMultipleChoice {
			// The label parser only knows the open-answer field set.
			return nil, fmt.Errorf("%w: provider returned unstructured output for the multiple-choice format", models.ErrGenerationFailed)
		}
		log.WithField("provider", e.generator.Name()).Info("falling back to label-based chapter parsing")
		chapters = ParseLabeledChapters(gen.Text)
	}

	if err := ValidateChapters(chapters, format); err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrGenerationFailed, err)
	}
	return chapters, nil
}

// truncate enforces the prompt budget, backing off to the last sentence
// boundary inside the window so the model never sees a half sentence.
func (e *Extractor) truncate(text string) string {
	if len(text) <= e.maxPromptChars {
		return text
	}
	cut := text[:e.maxPromptChars]
	sents := e.tokenizer.Tokenize(cut)
	if len(sents) > 1 {
		last := sents[len(sents)-1]
		if last.Start > 0 {
			cut = cut[:last.Start]
		}
	}
	return strings.TrimSpace(cut)
}

var timestampPattern = regexp.MustCompile(`^\d{2}:\d{2}:\d{2}$`)

// ValidateChapters checks the structural invariants of a chapter collection:
// chapter numbers 1..N without gaps, HH:MM:SS timestamps with start < end,
// contiguous coverage (each start equals the previous end), non-empty
// questions, and the per-variant answer shape. An empty collection is valid.
func ValidateChapters(chapters []models.Chapter, format models.QuestionFormat) error {
	for i, ch := range chapters {
		if ch.ChapterNumber != i+1 {
			return fmt.Errorf("chapter %d: expected chapter_number %d, got %d", i+1, i+1, ch.ChapterNumber)
		}
		if !timestampPattern.MatchString(ch.StartTimestamp) {
			return fmt.Errorf("chapter %d: start_timestamp %q is not HH:MM:SS", ch.ChapterNumber, ch.StartTimestamp)
		}
		if !timestampPattern.MatchString(ch.EndTimestamp) {
			return fmt.Errorf("chapter %d: end_timestamp %q is not HH:MM:SS", ch.ChapterNumber, ch.EndTimestamp)
		}
		// Fixed-width HH:MM:SS compares correctly as a string.
		if ch.StartTimestamp >= ch.EndTimestamp {
			return fmt.Errorf("chapter %d: start %s is not before end %s", ch.ChapterNumber, ch.StartTimestamp, ch.EndTimestamp)
		}
		if i > 0 && ch.StartTimestamp != chapters[i-1].EndTimestamp {
			return fmt.Errorf("chapter %d: start %s does not continue from previous end %s",
				ch.ChapterNumber, ch.StartTimestamp, chapters[i-1].EndTimestamp)
		}
		if strings.TrimSpace(ch.Question) == "" {
			return fmt.Errorf("chapter %d: question is empty", ch.ChapterNumber)
		}

		switch format {
		case models.FormatMultipleChoice:
			if err := validateOptions(ch); err != nil {
				return fmt.Errorf("chapter %d: %w", ch.ChapterNumber, err)
			}
		default:
			if strings.TrimSpace(ch.Answer) == "" {
				return fmt.Errorf("chapter %d: answer is empty", ch.ChapterNumber)
			}
		}
	}
	return nil
}

func validateOptions(ch models.Chapter) error {
	if len(ch.Options) != 4 {
		return fmt.Errorf("expected 4 options, got %d", len(ch.Options))
	}
	seen := make(map[int]bool, 4)
	correctFound := false
	for _, opt := range ch.Options {
		if opt.OptionNumber < 1 || opt.OptionNumber > 4 {
			return fmt.Errorf("option_number %d out of range 1-4", opt.OptionNumber)
		}
		if seen[opt.OptionNumber] {
			return fmt.Errorf("duplicate option_number %d", opt.OptionNumber)
		}
		seen[opt.OptionNumber] = true
		if strings.TrimSpace(opt.Text) == "" {
			return fmt.Errorf("option %d has empty text", opt.OptionNumber)
		}
		if opt.OptionNumber == ch.CorrectOptionNumber {
			correctFound = true
		}
	}
	if !correctFound {
		return fmt.Errorf("correct_option_number %d does not reference an option", ch.CorrectOptionNumber)
	}
	return nil
}
