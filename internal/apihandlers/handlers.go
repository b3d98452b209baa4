package apihandlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/flame-cai/video-qna-backend/internal/app"
	"github.com/flame-cai/video-qna-backend/internal/models"
)

type APIHandler struct {
	App *app.App
}

func NewAPIHandler(a *app.App) *APIHandler {
	return &APIHandler{App: a}
}

type generateVideoRequest struct {
	URL            string `json:"url"`
	QuestionFormat string `json:"question_format"`
}

// GenerateVideoHandler accepts a source URL and question format, starts the
// pipeline in the background, and returns the job id immediately.
func (h *APIHandler) GenerateVideoHandler(c *gin.Context) {
	var req generateVideoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	taskID, err := h.App.Orchestrator.Submit(c.Request.Context(), req.URL, req.QuestionFormat)
	if err != nil {
		if errors.Is(err, models.ErrInvalidRequest) {
			BadRequest(c, err.Error())
			return
		}
		Internal(c, fmt.Sprintf("GenerateVideoHandler: failed to submit job: %v", err))
		return
	}

	c.JSON(http.StatusAccepted, gin.H{"taskId": taskID})
}

// TaskStatusHandler reports the current state of a job. Failed jobs answer
// with a 500 carrying the stored error message; unknown ids with a 404.
func (h *APIHandler) TaskStatusHandler(c *gin.Context) {
	taskID := c.Param("taskId")

	rec, err := h.App.Orchestrator.GetStatus(c.Request.Context(), taskID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			NotFound(c, "Task not found")
			return
		}
		Internal(c, fmt.Sprintf("TaskStatusHandler: failed to read job: %v", err))
		return
	}

	if rec.Status == models.JobStatusFailed {
		c.JSON(http.StatusInternalServerError, gin.H{
			"taskId": taskID,
			"status": rec.Status,
			"error":  rec.Error,
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"taskId": taskID,
		"status": rec.Status,
		"data":   rec.Data,
	})
}

type evaluateAnswerRequest struct {
	Question   string `json:"question"`
	Answer     string `json:"answer"`
	Submission string `json:"submission"`
}

// EvaluateAnswerHandler grades a learner's submission against the stored
// answer for a chapter question.
func (h *APIHandler) EvaluateAnswerHandler(c *gin.Context) {
	var req evaluateAnswerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "Invalid request body: "+err.Error())
		return
	}
	if req.Question == "" || req.Answer == "" {
		BadRequest(c, "missing required fields: question and answer")
		return
	}

	eval, err := h.App.Evaluator.Evaluate(c.Request.Context(), req.Question, req.Answer, req.Submission)
	if err != nil {
		Internal(c, err.Error())
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"message": fmt.Sprintf("answer %q received and processed.", req.Submission),
		"data":    eval,
	})
}
