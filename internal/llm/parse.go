package llm

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"

	"github.com/dtroode/evalca-server/internal/model"
)

// extractJSON returns the outermost JSON object in s, ignoring code fences and chatter.
func extractJSON(s string) (string, bool) {
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start < 0 || end < start {
		return "", false
	}
	return s[start : end+1], true
}

func decodeObject(content string, v any) bool {
	raw, ok := extractJSON(content)
	if !ok {
		return false
	}
	return json.Unmarshal([]byte(raw), v) == nil
}

// flexNumber accepts 7, 7.5, "7" and "7.5".
type flexNumber struct {
	value float64
	set   bool
}

func (n *flexNumber) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		return nil
	}

	s := string(data)
	if unquoted, err := strconv.Unquote(s); err == nil {
		s = strings.TrimSpace(unquoted)
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		// Not a number; leave unset rather than failing the whole object.
		return nil
	}
	n.value, n.set = v, true
	return nil
}

// flexString accepts strings and renders anything else as compact JSON.
type flexString string

func (s *flexString) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err == nil {
		*s = flexString(str)
		return nil
	}

	var items []string
	if err := json.Unmarshal(data, &items); err == nil {
		*s = flexString(strings.Join(items, "; "))
		return nil
	}

	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		return nil
	}
	*s = flexString(data)
	return nil
}

func parseQuestionAnswer(content string) (model.QuestionAnswer, bool) {
	var out struct {
		Question flexString `json:"question"`
		Answer   flexString `json:"answer"`
	}
	if !decodeObject(content, &out) {
		return model.QuestionAnswer{}, false
	}
	return model.QuestionAnswer{Question: string(out.Question), Answer: string(out.Answer)}, true
}

func parseEvaluation(content string) (model.Evaluation, bool) {
	var out struct {
		TotalMarks               flexNumber `json:"total_marks"`
		MarksAwarded             flexNumber `json:"marks_awarded"`
		Verdict                  flexString `json:"verdict"`
		ConceptualAccuracy       flexString `json:"conceptual_accuracy"`
		KeyPointsCovered         flexString `json:"key_points_covered"`
		MissingOrIncorrectPoints flexString `json:"missing_or_incorrect_points"`
		PresentationFeedback     flexString `json:"presentation_feedback"`
		ExaminerRemarks          flexString `json:"examiner_remarks"`
	}
	if !decodeObject(content, &out) {
		return model.FallbackEvaluation(), false
	}

	result := model.FallbackEvaluation()
	if out.TotalMarks.set {
		result.TotalMarks = out.TotalMarks.value
	}
	if out.MarksAwarded.set {
		result.MarksAwarded = out.MarksAwarded.value
	}
	result.Verdict = string(out.Verdict)
	result.ConceptualAccuracy = string(out.ConceptualAccuracy)
	result.KeyPointsCovered = string(out.KeyPointsCovered)
	result.MissingOrIncorrectPoints = string(out.MissingOrIncorrectPoints)
	result.PresentationFeedback = string(out.PresentationFeedback)
	result.ExaminerRemarks = string(out.ExaminerRemarks)

	return result, true
}

// parseExtractedText falls back to the raw content when the model ignored the format.
func parseExtractedText(content string) model.ExtractedText {
	var out struct {
		Text       flexString `json:"text"`
		Confidence flexNumber `json:"confidence"`
	}
	if !decodeObject(content, &out) {
		return model.ExtractedText{Text: strings.TrimSpace(content)}
	}

	extracted := model.ExtractedText{Text: strings.TrimSpace(string(out.Text))}
	if out.Confidence.set {
		c := clamp01(out.Confidence.value)
		extracted.Confidence = &c
	}
	return extracted
}

func clamp01(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}
