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

// AnswerEvaluation is the verdict on a learner's submission for a chapter
// question.
type AnswerEvaluation struct {
	IsCorrect   bool   `json:"isCorrect"`
	Explanation string `json:"explanation"`
}

const evaluatorSystemPrompt = "You are a helpful answer validator. You are given a question, its answer " +
	"and a submission by the user. Your task is to evaluate the submission against the actual answer " +
	"and if the submission is wrong, provide an explanation on why it is wrong."

// Evaluator grades free-form submissions against a chapter's stored answer.
type Evaluator struct {
	client ChatCompletionClient
	model  string
}

func NewEvaluator(client ChatCompletionClient, model string) *Evaluator {
	if client == nil {
		log.Warn("OpenAI API key not provided. Answer evaluator will be disabled.")
	}
	return &Evaluator{client: client, model: model}
}

func (e *Evaluator) Evaluate(ctx context.Context, question, answer, submission string) (AnswerEvaluation, error) {
	if e.client == nil {
		return AnswerEvaluation{}, fmt.Errorf("%w: answer evaluator is not initialized (missing API key)", models.ErrGenerationFailed)
	}

	req := openai.ChatCompletionRequest{
		Model: e.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: evaluatorSystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: fmt.Sprintf("Question: %s\n Answer: %s\n Submission: %s", question, answer, submission)},
		},
		Temperature: 0.5,
		MaxTokens:   1000,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONSchema,
			JSONSchema: &openai.ChatCompletionResponseFormatJSONSchema{
				Name:   "answer_evaluation",
				Schema: evaluationSchema(),
				Strict: true,
			},
		},
	}

	resp, err := e.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return AnswerEvaluation{}, fmt.Errorf("%w: openai chat completion: %v", models.ErrGenerationFailed, err)
	}
	if len(resp.Choices) == 0 {
		return AnswerEvaluation{}, fmt.Errorf("%w: no choices returned from OpenAI", models.ErrGenerationFailed)
	}

	choice := resp.Choices[0]
	if choice.Message.Refusal != "" {
		return AnswerEvaluation{}, fmt.Errorf("%w: %s", models.ErrGenerationRefused, choice.Message.Refusal)
	}
	if choice.FinishReason == openai.FinishReasonLength {
		return AnswerEvaluation{}, fmt.Errorf("%w: try shortening your answer", models.ErrGenerationFailed)
	}

	var eval AnswerEvaluation
	if err := json.Unmarshal([]byte(strings.TrimSpace(choice.Message.Content)), &eval); err != nil {
		return AnswerEvaluation{}, fmt.Errorf("%w: evaluation response was not valid JSON: %v", models.ErrGenerationFailed, err)
	}
	return eval, nil
}

func evaluationSchema() *jsonschema.Definition {
	return &jsonschema.Definition{
		Type: jsonschema.Object,
		Properties: map[string]jsonschema.Definition{
			"isCorrect":   {Type: jsonschema.Boolean},
			"explanation": {Type: jsonschema.String},
		},
		Required:             []string{"isCorrect", "explanation"},
		AdditionalProperties: false,
	}
}
