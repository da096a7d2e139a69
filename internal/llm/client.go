// Package llm talks to an OpenAI-compatible chat completion API.
package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/dtroode/evalca-server/internal/logger"
	"github.com/dtroode/evalca-server/internal/model"
)

// completer is the part of the chat completion service the client uses.
type completer interface {
	New(ctx context.Context, body openai.ChatCompletionNewParams, opts ...option.RequestOption) (*openai.ChatCompletion, error)
}

// Options configure the client.
type Options struct {
	APIKey      string
	BaseURL     string
	Model       string
	VisionModel string
	Timeout     time.Duration
}

// Client implements model.Evaluator and model.TextExtractor.
type Client struct {
	chat        completer
	model       string
	visionModel string
	logger      *logger.Logger
}

var (
	_ model.Evaluator     = (*Client)(nil)
	_ model.TextExtractor = (*Client)(nil)
)

var errEmptyResponse = errors.New("language model returned no choices")

// NewClient creates a client for the configured endpoint.
func NewClient(opts Options, logger *logger.Logger) *Client {
	reqOpts := []option.RequestOption{
		option.WithAPIKey(opts.APIKey),
		option.WithMaxRetries(1),
	}
	if opts.BaseURL != "" {
		reqOpts = append(reqOpts, option.WithBaseURL(opts.BaseURL))
	}
	if opts.Timeout > 0 {
		reqOpts = append(reqOpts, option.WithRequestTimeout(opts.Timeout))
	}

	oc := openai.NewClient(reqOpts...)

	return newClient(&oc.Chat.Completions, opts.Model, opts.VisionModel, logger)
}

func newClient(chat completer, textModel, visionModel string, logger *logger.Logger) *Client {
	return &Client{
		chat:        chat,
		model:       textModel,
		visionModel: visionModel,
		logger:      logger,
	}
}

func (c *Client) complete(ctx context.Context, modelName string, message openai.ChatCompletionMessageParamUnion) (string, error) {
	start := time.Now()

	resp, err := c.chat.New(ctx, openai.ChatCompletionNewParams{
		Model:       openai.ChatModel(modelName),
		Messages:    []openai.ChatCompletionMessageParamUnion{message},
		Temperature: openai.Float(0),
	})
	if err != nil {
		return "", fmt.Errorf("failed to create chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", errEmptyResponse
	}

	content := strings.TrimSpace(resp.Choices[0].Message.Content)

	c.logger.Debug("LLM client: completion received",
		"model", modelName,
		"duration", time.Since(start),
		"length", len(content))

	return content, nil
}

// DetectQuestionAnswer extracts the question and answer spans from text.
// Unparseable model output yields empty spans.
func (c *Client) DetectQuestionAnswer(ctx context.Context, text string) (model.QuestionAnswer, error) {
	content, err := c.complete(ctx, c.model, openai.UserMessage(detectPrompt(text)))
	if err != nil {
		return model.QuestionAnswer{}, err
	}

	qa, ok := parseQuestionAnswer(content)
	if !ok {
		c.logger.Warn("LLM client: detection output is not valid JSON")
	}

	return qa, nil
}

// Evaluate grades the answer. Unparseable model output yields model.FallbackEvaluation.
func (c *Client) Evaluate(ctx context.Context, qa model.QuestionAnswer) (model.Evaluation, error) {
	content, err := c.complete(ctx, c.model, openai.UserMessage(evaluationPrompt(qa.Question, qa.Answer)))
	if err != nil {
		return model.Evaluation{}, err
	}

	result, ok := parseEvaluation(content)
	if !ok {
		c.logger.Warn("LLM client: evaluation output is not valid JSON")
	}

	return result, nil
}

// Extract recognises the text in an image using the vision model.
func (c *Client) Extract(ctx context.Context, image model.Image) (model.ExtractedText, error) {
	message := openai.UserMessage([]openai.ChatCompletionContentPartUnionParam{
		openai.TextContentPart(extractionPrompt),
		openai.ImageContentPart(openai.ChatCompletionContentPartImageImageURLParam{
			URL: dataURL(image),
		}),
	})

	content, err := c.complete(ctx, c.visionModel, message)
	if err != nil {
		return model.ExtractedText{}, err
	}

	return parseExtractedText(content), nil
}
