package handler

import (
	"context"
	"net/http"

	"github.com/dtroode/evalca-server/internal/api/http/response"
	"github.com/dtroode/evalca-server/internal/logger"
	"github.com/dtroode/evalca-server/internal/model"
)

// EvaluationService detects and grades question/answer pairs.
type EvaluationService interface {
	Detect(ctx context.Context, text string) (model.QuestionAnswer, error)
	Evaluate(ctx context.Context, question, answer string) (model.Evaluation, error)
}

// Evaluation handles the evaluation endpoints.
type Evaluation struct {
	service EvaluationService
	logger  *logger.Logger
}

// NewEvaluation creates a new Evaluation handler.
func NewEvaluation(service EvaluationService, logger *logger.Logger) *Evaluation {
	return &Evaluation{service: service, logger: logger}
}

type detectRequest struct {
	Text *string `json:"text"`
}

type evaluateRequest struct {
	Question *string `json:"question"`
	Answer   *string `json:"answer"`
}

// Detect splits text into question and answer.
func (h *Evaluation) Detect(w http.ResponseWriter, r *http.Request) {
	var req detectRequest
	if err := decodeJSON(w, r, &req); err != nil {
		response.Error(w, r, h.logger, err)
		return
	}
	if err := required(map[string]*string{"text": req.Text}); err != nil {
		response.Error(w, r, h.logger, err)
		return
	}

	qa, err := h.service.Detect(r.Context(), *req.Text)
	if err != nil {
		response.Error(w, r, h.logger, err)
		return
	}

	response.JSON(w, http.StatusOK, "Record retrieved successfully", qa)
}

// Evaluate grades an answer.
func (h *Evaluation) Evaluate(w http.ResponseWriter, r *http.Request) {
	var req evaluateRequest
	if err := decodeJSON(w, r, &req); err != nil {
		response.Error(w, r, h.logger, err)
		return
	}
	if err := required(map[string]*string{
		"question": req.Question,
		"answer":   req.Answer,
	}); err != nil {
		response.Error(w, r, h.logger, err)
		return
	}

	result, err := h.service.Evaluate(r.Context(), *req.Question, *req.Answer)
	if err != nil {
		response.Error(w, r, h.logger, err)
		return
	}

	response.JSON(w, http.StatusOK, "Record retrieved successfully", result)
}
