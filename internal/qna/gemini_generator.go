package qna

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	log "github.com/sirupsen/logrus"
	"google.golang.org/api/option"

	"github.com/flame-cai/video-qna-backend/internal/models"
)

// GeminiGenerator produces chapter sets through the Google Gemini API,
// constraining the response with a JSON response schema.
type GeminiGenerator struct {
	client *genai.Client
	model  string
}

var _ Generator = (*GeminiGenerator)(nil)

func NewGeminiGenerator(ctx context.Context, apiKey, model string) (*GeminiGenerator, error) {
	if apiKey == "" {
		log.Warn("Gemini API key not provided. Gemini generator will be disabled.")
		return &GeminiGenerator{model: model}, nil
	}
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	log.Infof("Gemini generator initialized with model %s", model)
	return &GeminiGenerator{client: client, model: model}, nil
}

func (g *GeminiGenerator) Name() string { return "gemini" }

func (g *GeminiGenerator) Close() error {
	if g.client == nil {
		return nil
	}
	return g.client.Close()
}

func (g *GeminiGenerator) GenerateChapters(ctx context.Context, transcript string, format models.QuestionFormat) (Generation, error) {
	if g.client == nil {
		return Generation{}, fmt.Errorf("%w: Gemini generator is not initialized (missing API key)", models.ErrGenerationFailed)
	}

	m := g.client.GenerativeModel(g.model)
	m.SystemInstruction = &genai.Content{Parts: []genai.Part{genai.Text(chapterSystemPrompt)}}
	m.ResponseMIMEType = "application/json"
	m.ResponseSchema = geminiChapterSchema(format)

	resp, err := m.GenerateContent(ctx, genai.Text(userPrompt(transcript, format)))
	if err != nil {
		return Generation{}, fmt.Errorf("%w: gemini generate content: %v", models.ErrGenerationFailed, err)
	}
	if len(resp.Candidates) == 0 {
		if resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != genai.BlockReasonUnspecified {
			return Generation{}, fmt.Errorf("%w: prompt blocked (%s)", models.ErrGenerationRefused, resp.PromptFeedback.BlockReason)
		}
		return Generation{}, fmt.Errorf("%w: Gemini returned no candidates", models.ErrGenerationFailed)
	}

	cand := resp.Candidates[0]
	switch cand.FinishReason {
	case genai.FinishReasonSafety, genai.FinishReasonRecitation:
		return Generation{}, fmt.Errorf("%w: generation stopped (%s)", models.ErrGenerationRefused, cand.FinishReason)
	case genai.FinishReasonMaxTokens:
		return Generation{}, fmt.Errorf("%w: the generated chapters exceeded the model's output budget, try a shorter video", models.ErrGenerationFailed)
	}
	if cand.Content == nil {
		return Generation{}, fmt.Errorf("%w: Gemini candidate has no content", models.ErrGenerationFailed)
	}

	var sb strings.Builder
	for _, part := range cand.Content.Parts {
		if text, ok := part.(genai.Text); ok {
			sb.WriteString(string(text))
		}
	}
	content := strings.TrimSpace(sb.String())

	var payload chapterPayload
	if err := json.Unmarshal([]byte(content), &payload); err != nil {
		log.Warnf("Gemini response did not decode as chapter JSON: %v", err)
		return Generation{Text: content}, nil
	}
	return Generation{Chapters: payload.Chapters, Text: content}, nil
}

func geminiChapterSchema(format models.QuestionFormat) *genai.Schema {
	chapter := &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"chapter_number":  {Type: genai.TypeInteger, Description: "1-based chapter index, contiguous"},
			"chapter_name":    {Type: genai.TypeString},
			"start_timestamp": {Type: genai.TypeString, Description: "HH:MM:SS"},
			"end_timestamp":   {Type: genai.TypeString, Description: "HH:MM:SS"},
			"question":        {Type: genai.TypeString},
		},
		Required: []string{"chapter_number", "chapter_name", "start_timestamp", "end_timestamp", "question"},
	}

	if format == models.FormatMultipleChoice {
		chapter.Properties["options"] = &genai.Schema{
			Type: genai.TypeArray,
			Items: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"option_number": {Type: genai.TypeInteger, Description: "1 through 4"},
					"text":          {Type: genai.TypeString},
				},
				Required: []string{"option_number", "text"},
			},
		}
		chapter.Properties["correct_option_number"] = &genai.Schema{Type: genai.TypeInteger}
		chapter.Required = append(chapter.Required, "options", "correct_option_number")
	} else {
		chapter.Properties["answer"] = &genai.Schema{Type: genai.TypeString}
		chapter.Required = append(chapter.Required, "answer")
	}

	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"chapters": {Type: genai.TypeArray, Items: chapter},
		},
		Required: []string{"chapters"},
	}
}
