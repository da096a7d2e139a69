package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractJSON(t *testing.T) {
	tests := []struct {
		in   string
		want string
		ok   bool
	}{
		{in: `{"a":1}`, want: `{"a":1}`, ok: true},
		{in: "```json\n{\"a\":1}\n```", want: `{"a":1}`, ok: true},
		{in: `Sure! {"a":{"b":2}} hope that helps`, want: `{"a":{"b":2}}`, ok: true},
		{in: "no braces", ok: false},
		{in: "} backwards {", ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := extractJSON(tt.in)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseEvaluation_MarksFormats(t *testing.T) {
	tests := []struct {
		name    string
		content string
		total   float64
		awarded float64
	}{
		{name: "numbers", content: `{"total_marks": 10, "marks_awarded": 7}`, total: 10, awarded: 7},
		{name: "quoted", content: `{"total_marks": "20", "marks_awarded": " 4.5 "}`, total: 20, awarded: 4.5},
		{name: "missing total", content: `{"marks_awarded": 3}`, total: 10, awarded: 3},
		{name: "placeholder", content: `{"marks_awarded": "<number between 0 and 10>"}`, total: 10, awarded: 0},
		{name: "null", content: `{"total_marks": null, "marks_awarded": null}`, total: 10, awarded: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := parseEvaluation(tt.content)
			assert.True(t, ok)
			assert.Equal(t, tt.total, got.TotalMarks)
			assert.Equal(t, tt.awarded, got.MarksAwarded)
		})
	}
}

func TestParseExtractedText_ClampsConfidence(t *testing.T) {
	got := parseExtractedText(`{"text": " x ", "confidence": 1.7}`)
	assert.Equal(t, "x", got.Text)
	if assert.NotNil(t, got.Confidence) {
		assert.Equal(t, 1.0, *got.Confidence)
	}
}
