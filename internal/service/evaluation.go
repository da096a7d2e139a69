package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/dtroode/evalca-server/internal/apierror"
	"github.com/dtroode/evalca-server/internal/logger"
	"github.com/dtroode/evalca-server/internal/model"
	"github.com/dtroode/evalca-server/internal/telemetry"
)

// EvaluationLimits bound the size of evaluated texts in words.
type EvaluationLimits struct {
	MaxQuestionWords int
	MaxAnswerWords   int
}

// Evaluation detects question/answer spans and grades answers through the language model.
type Evaluation struct {
	evaluator model.Evaluator
	limits    EvaluationLimits
	metrics   *telemetry.Metrics
	logger    *logger.Logger
}

func NewEvaluation(evaluator model.Evaluator, limits EvaluationLimits, metrics *telemetry.Metrics, logger *logger.Logger) *Evaluation {
	return &Evaluation{
		evaluator: evaluator,
		limits:    limits,
		metrics:   metrics,
		logger:    logger,
	}
}

// Detect splits free text into its question and answer.
func (s *Evaluation) Detect(ctx context.Context, text string) (model.QuestionAnswer, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return model.QuestionAnswer{}, apierror.NewErrBadRequest("Text must not be empty")
	}

	qa, err := s.evaluator.DetectQuestionAnswer(ctx, text)
	s.metrics.Evaluation("detect", err)
	if err != nil {
		s.logger.Error("Evaluation service: detection failed",
			"error", err.Error())
		return model.QuestionAnswer{}, fmt.Errorf("failed to detect question and answer: %w", err)
	}

	return qa, nil
}

// Evaluate grades the answer against the question.
func (s *Evaluation) Evaluate(ctx context.Context, question, answer string) (model.Evaluation, error) {
	question = strings.TrimSpace(question)
	answer = strings.TrimSpace(answer)

	if len(strings.Fields(question)) > s.limits.MaxQuestionWords || len(strings.Fields(answer)) > s.limits.MaxAnswerWords {
		return model.Evaluation{}, apierror.NewErrBadRequest(fmt.Sprintf(
			"Question exceeds %d words or Answer exceeds %d words.",
			s.limits.MaxQuestionWords, s.limits.MaxAnswerWords))
	}
	if question == "" || answer == "" {
		return model.Evaluation{}, apierror.NewErrBadRequest("Question and answer must not be empty")
	}

	s.logger.Debug("Evaluation service: evaluating answer",
		"question_words", len(strings.Fields(question)),
		"answer_words", len(strings.Fields(answer)))

	result, err := s.evaluator.Evaluate(ctx, model.QuestionAnswer{Question: question, Answer: answer})
	s.metrics.Evaluation("evaluate", err)
	if err != nil {
		s.logger.Error("Evaluation service: evaluation failed",
			"error", err.Error())
		return model.Evaluation{}, fmt.Errorf("failed to evaluate answer: %w", err)
	}

	s.logger.Info("Evaluation service: answer evaluated",
		"marks_awarded", result.MarksAwarded,
		"total_marks", result.TotalMarks)

	return result, nil
}
