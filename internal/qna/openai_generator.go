package qna

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/sashabaranov/go-openai"
	"github.com/sashabaranov/go-openai/jsonschema"
	log "github.com/sirupsen/logrus"

	"github.com/flame-cai/video-qna-backend/internal/models"
)

// ChatCompletionClient is the minimal OpenAI client surface the qna package
// depends on.
type ChatCompletionClient interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// OpenAIGenerator produces chapter sets through the OpenAI chat API using
// schema-constrained (structured output) generation.
type OpenAIGenerator struct {
	client ChatCompletionClient
	model  string
}

var _ Generator = (*OpenAIGenerator)(nil)

// NewOpenAIGenerator creates a generator backed by an OpenAI-compatible
// client. A nil client leaves the generator disabled; every call then fails
// with a generation error instead of panicking.
func NewOpenAIGenerator(client ChatCompletionClient, model string) *OpenAIGenerator {
	if client == nil {
		log.Warn("OpenAI API key not provided. OpenAI generator will be disabled.")
	}
	return &OpenAIGenerator{client: client, model: model}
}

func (g *OpenAIGenerator) Name() string { return "openai" }

func (g *OpenAIGenerator) GenerateChapters(ctx context.Context, transcript string, format models.QuestionFormat) (Generation, error) {
	if g.client == nil {
		return Generation{}, fmt.Errorf("%w: OpenAI generator is not initialized (missing API key)", models.ErrGenerationFailed)
	}

	req := openai.ChatCompletionRequest{
		Model: g.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: chapterSystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: userPrompt(transcript, format)},
		},
		Temperature: 0.5,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONSchema,
			JSONSchema: &openai.ChatCompletionResponseFormatJSONSchema{
				Name:   schemaName(format),
				Schema: chapterSchema(format),
				Strict: true,
			},
		},
	}

	resp, err := g.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return Generation{}, fmt.Errorf("%w: openai chat completion: %v", models.ErrGenerationFailed, err)
	}
	if len(resp.Choices) == 0 {
		return Generation{}, fmt.Errorf("%w: no choices returned from OpenAI", models.ErrGenerationFailed)
	}

	choice := resp.Choices[0]
	if choice.Message.Refusal != "" {
		return Generation{}, fmt.Errorf("%w: %s", models.ErrGenerationRefused, choice.Message.Refusal)
	}
	if choice.FinishReason == openai.FinishReasonLength {
		return Generation{}, fmt.Errorf("%w: the generated chapters exceeded the model's output budget, try a shorter video", models.ErrGenerationFailed)
	}

	content := strings.TrimSpace(choice.Message.Content)
	var payload chapterPayload
	if err := json.Unmarshal([]byte(content), &payload); err != nil {
		// The provider did not honor the schema; hand the raw text back so
		// the extractor can run its label-based fallback parser.
		log.Warnf("OpenAI response did not decode as chapter JSON: %v", err)
		return Generation{Text: content}, nil
	}
	return Generation{Chapters: payload.Chapters, Text: content}, nil
}

func schemaName(format models.QuestionFormat) string {
	if format == models.FormatMultipleChoice {
		return "mcq_chapter_collection"
	}
	return "chapter_collection"
}

// chapterSchema builds the response-format JSON schema for the requested
// chapter variant. Strict mode requires every object to close over its
// properties, hence additionalProperties false throughout.
func chapterSchema(format models.QuestionFormat) *jsonschema.Definition {
	chapter := jsonschema.Definition{
		Type: jsonschema.Object,
		Properties: map[string]jsonschema.Definition{
			"chapter_number":  {Type: jsonschema.Integer, Description: "1-based chapter index, contiguous"},
			"chapter_name":    {Type: jsonschema.String},
			"start_timestamp": {Type: jsonschema.String, Description: "HH:MM:SS"},
			"end_timestamp":   {Type: jsonschema.String, Description: "HH:MM:SS"},
			"question":        {Type: jsonschema.String},
		},
		Required:             []string{"chapter_number", "chapter_name", "start_timestamp", "end_timestamp", "question"},
		AdditionalProperties: false,
	}

	if format == models.FormatMultipleChoice {
		chapter.Properties["options"] = jsonschema.Definition{
			Type: jsonschema.Array,
			Items: &jsonschema.Definition{
				Type: jsonschema.Object,
				Properties: map[string]jsonschema.Definition{
					"option_number": {Type: jsonschema.Integer, Description: "1 through 4"},
					"text":          {Type: jsonschema.String},
				},
				Required:             []string{"option_number", "text"},
				AdditionalProperties: false,
			},
		}
		chapter.Properties["correct_option_number"] = jsonschema.Definition{Type: jsonschema.Integer}
		chapter.Required = append(chapter.Required, "options", "correct_option_number")
	} else {
		chapter.Properties["answer"] = jsonschema.Definition{Type: jsonschema.String}
		chapter.Required = append(chapter.Required, "answer")
	}

	return &jsonschema.Definition{
		Type: jsonschema.Object,
		Properties: map[string]jsonschema.Definition{
			"chapters": {Type: jsonschema.Array, Items: &chapter},
		},
		Required:             []string{"chapters"},
		AdditionalProperties: false,
	}
}
