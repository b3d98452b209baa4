package qna

import (
	"context"
	"testing"

	"github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flame-cai/video-qna-backend/internal/models"
)

func TestEvaluator_Evaluate(t *testing.T) {
	client := &mockOpenAIClient{
		mockResponse: chatResponse(`{"isCorrect":false,"explanation":"Java was designed by James Gosling, not Dennis Ritchie."}`),
	}
	e := NewEvaluator(client, "gpt-test")

	eval, err := e.Evaluate(context.Background(), "Who designed Java?", "James Gosling", "Dennis Ritchie")
	require.NoError(t, err)
	assert.False(t, eval.IsCorrect)
	assert.Contains(t, eval.Explanation, "James Gosling")

	// Question, answer, and submission all reach the model.
	user := client.lastRequest.Messages[1].Content
	assert.Contains(t, user, "Who designed Java?")
	assert.Contains(t, user, "James Gosling")
	assert.Contains(t, user, "Dennis Ritchie")
}

func TestEvaluator_LengthFinish(t *testing.T) {
	resp := openai.ChatCompletionResponse{
		Choices: []openai.ChatCompletionChoice{
			{Message: openai.ChatCompletionMessage{Content: "{"}, FinishReason: openai.FinishReasonLength},
		},
	}
	e := NewEvaluator(&mockOpenAIClient{mockResponse: resp}, "gpt-test")

	_, err := e.Evaluate(context.Background(), "q", "a", "s")
	require.Error(t, err)
	assert.ErrorIs(t, err, models.ErrGenerationFailed)
	assert.Contains(t, err.Error(), "shortening")
}

func TestEvaluator_Refusal(t *testing.T) {
	resp := openai.ChatCompletionResponse{
		Choices: []openai.ChatCompletionChoice{
			{Message: openai.ChatCompletionMessage{Refusal: "no"}},
		},
	}
	e := NewEvaluator(&mockOpenAIClient{mockResponse: resp}, "gpt-test")

	_, err := e.Evaluate(context.Background(), "q", "a", "s")
	assert.ErrorIs(t, err, models.ErrGenerationRefused)
}

func TestEvaluator_InvalidJSON(t *testing.T) {
	e := NewEvaluator(&mockOpenAIClient{mockResponse: chatResponse("not json")}, "gpt-test")

	_, err := e.Evaluate(context.Background(), "q", "a", "s")
	assert.ErrorIs(t, err, models.ErrGenerationFailed)
}
