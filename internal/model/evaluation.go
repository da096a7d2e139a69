package model

import "context"

// QuestionAnswer is a question and answer pair as it appears in the source text.
type QuestionAnswer struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// Evaluation is the rubric-based assessment of an answer.
type Evaluation struct {
	TotalMarks               float64 `json:"total_marks"`
	MarksAwarded             float64 `json:"marks_awarded"`
	Verdict                  string  `json:"verdict"`
	ConceptualAccuracy       string  `json:"conceptual_accuracy"`
	KeyPointsCovered         string  `json:"key_points_covered"`
	MissingOrIncorrectPoints string  `json:"missing_or_incorrect_points"`
	PresentationFeedback     string  `json:"presentation_feedback"`
	ExaminerRemarks          string  `json:"examiner_remarks"`
}

// DefaultTotalMarks is reported when the model does not state a total.
const DefaultTotalMarks = 10

// FallbackEvaluation is returned when the model output cannot be parsed.
func FallbackEvaluation() Evaluation {
	return Evaluation{TotalMarks: DefaultTotalMarks}
}

// Evaluator talks to the language model.
type Evaluator interface {
	DetectQuestionAnswer(ctx context.Context, text string) (QuestionAnswer, error)
	Evaluate(ctx context.Context, qa QuestionAnswer) (Evaluation, error)
}
