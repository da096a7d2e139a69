package llm

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dtroode/evalca-server/internal/model"
	"github.com/dtroode/evalca-server/internal/testutil"
)

type fakeCompleter struct {
	content string
	err     error
	params  []openai.ChatCompletionNewParams
}

func (f *fakeCompleter) New(_ context.Context, body openai.ChatCompletionNewParams, _ ...option.RequestOption) (*openai.ChatCompletion, error) {
	f.params = append(f.params, body)
	if f.err != nil {
		return nil, f.err
	}
	return &openai.ChatCompletion{
		Choices: []openai.ChatCompletionChoice{
			{Message: openai.ChatCompletionMessage{Content: f.content}},
		},
	}, nil
}

func TestClient_DetectQuestionAnswer(t *testing.T) {
	fake := &fakeCompleter{content: "```json\n{\"question\": \"What is GST?\", \"answer\": \"A tax.\"}\n```"}
	c := newClient(fake, "text-model", "vision-model", testutil.MakeNoopLogger())

	qa, err := c.DetectQuestionAnswer(context.Background(), "What is GST?\nA tax.")
	require.NoError(t, err)
	assert.Equal(t, model.QuestionAnswer{Question: "What is GST?", Answer: "A tax."}, qa)

	require.Len(t, fake.params, 1)
	assert.Equal(t, "text-model", string(fake.params[0].Model))
}

func TestClient_DetectQuestionAnswer_InvalidJSON(t *testing.T) {
	fake := &fakeCompleter{content: "I cannot find a question here."}
	c := newClient(fake, "m", "v", testutil.MakeNoopLogger())

	qa, err := c.DetectQuestionAnswer(context.Background(), "text")
	require.NoError(t, err)
	assert.Equal(t, model.QuestionAnswer{}, qa)
}

func TestClient_Evaluate(t *testing.T) {
	fake := &fakeCompleter{content: `{"total_marks": 10, "marks_awarded": "6.5", "verdict": "Good",
		"conceptual_accuracy": "Sound", "key_points_covered": ["rate", "scope"],
		"missing_or_incorrect_points": "None", "presentation_feedback": "Clear",
		"examiner_remarks": "Well done"}`}
	c := newClient(fake, "m", "v", testutil.MakeNoopLogger())

	got, err := c.Evaluate(context.Background(), model.QuestionAnswer{Question: "q", Answer: "a"})
	require.NoError(t, err)
	assert.Equal(t, 10.0, got.TotalMarks)
	assert.Equal(t, 6.5, got.MarksAwarded)
	assert.Equal(t, "Good", got.Verdict)
	assert.Equal(t, "rate; scope", got.KeyPointsCovered)
	assert.Equal(t, "Well done", got.ExaminerRemarks)
}

func TestClient_Evaluate_Fallback(t *testing.T) {
	fake := &fakeCompleter{content: "not json"}
	c := newClient(fake, "m", "v", testutil.MakeNoopLogger())

	got, err := c.Evaluate(context.Background(), model.QuestionAnswer{Question: "q", Answer: "a"})
	require.NoError(t, err)
	assert.Equal(t, model.FallbackEvaluation(), got)
	assert.Equal(t, 10.0, got.TotalMarks)
}

func TestClient_Evaluate_Error(t *testing.T) {
	fake := &fakeCompleter{err: assert.AnError}
	c := newClient(fake, "m", "v", testutil.MakeNoopLogger())

	_, err := c.Evaluate(context.Background(), model.QuestionAnswer{Question: "q", Answer: "a"})
	require.ErrorIs(t, err, assert.AnError)
}

func TestClient_Extract(t *testing.T) {
	fake := &fakeCompleter{content: `{"text": "Line one\nLine two", "confidence": 0.93}`}
	c := newClient(fake, "m", "vision-model", testutil.MakeNoopLogger())

	got, err := c.Extract(context.Background(), model.Image{Filename: "a.png", ContentType: "image/png", Data: []byte{1, 2}})
	require.NoError(t, err)
	assert.Equal(t, "Line one\nLine two", got.Text)
	require.NotNil(t, got.Confidence)
	assert.Equal(t, 0.93, *got.Confidence)

	require.Len(t, fake.params, 1)
	assert.Equal(t, "vision-model", string(fake.params[0].Model))
}

func TestClient_Extract_PlainText(t *testing.T) {
	fake := &fakeCompleter{content: "just the text"}
	c := newClient(fake, "m", "v", testutil.MakeNoopLogger())

	got, err := c.Extract(context.Background(), model.Image{ContentType: "image/jpeg"})
	require.NoError(t, err)
	assert.Equal(t, "just the text", got.Text)
	assert.Nil(t, got.Confidence)
}

func TestNewClient_SendsChatCompletion(t *testing.T) {
	var gotBody map[string]any
	var gotAuth string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, strings.HasSuffix(r.URL.Path, "/chat/completions"))
		gotAuth = r.Header.Get("Authorization")
		body, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(body, &gotBody)

		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"id":"c1","object":"chat.completion","created":0,"model":"m",
			"choices":[{"index":0,"finish_reason":"stop",
			"message":{"role":"assistant","content":"{\"question\":\"q\",\"answer\":\"a\"}"}}]}`)
	}))
	defer srv.Close()

	c := NewClient(Options{APIKey: "key", BaseURL: srv.URL + "/v1", Model: "text-model"}, testutil.MakeNoopLogger())

	qa, err := c.DetectQuestionAnswer(context.Background(), "q a")
	require.NoError(t, err)
	assert.Equal(t, model.QuestionAnswer{Question: "q", Answer: "a"}, qa)
	assert.Equal(t, "Bearer key", gotAuth)
	assert.Equal(t, "text-model", gotBody["model"])
	assert.Equal(t, 0.0, gotBody["temperature"])
}
