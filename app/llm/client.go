package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"
)

const systemPrompt = "You are a helpful editor."

// GenerationError covers every failure of a generation call: transport,
// HTTP status, and replies that do not decode into the expected shape.
type GenerationError struct {
	Op  string
	Err error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("generation %s: %v", e.Op, e.Err)
}

func (e *GenerationError) Unwrap() error {
	return e.Err
}

type ClientConfig struct {
	BaseURL     string
	APIKey      string
	Model       string
	Temperature float64
	Timeout     time.Duration
}

// Client talks to an OpenAI compatible chat completions endpoint.
type Client struct {
	api         *openai.Client
	model       string
	temperature float32
}

func NewClient(config ClientConfig) *Client {
	apiConfig := openai.DefaultConfig(config.APIKey)
	if config.BaseURL != "" {
		apiConfig.BaseURL = strings.TrimRight(config.BaseURL, "/")
	}
	apiConfig.HTTPClient = &http.Client{Timeout: config.Timeout}

	return &Client{
		api:         openai.NewClientWithConfig(apiConfig),
		model:       config.Model,
		temperature: float32(config.Temperature),
	}
}

func (c *Client) Model() string {
	return c.model
}

// Complete sends a single user prompt and returns the text of the first choice.
func (c *Client) Complete(ctx context.Context, prompt string) (string, error) {
	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		Temperature: c.temperature,
	})
	if err != nil {
		return "", completionError(err)
	}

	if len(resp.Choices) == 0 {
		return "", &GenerationError{Op: "response", Err: errors.New("completion has no choices")}
	}

	return resp.Choices[0].Message.Content, nil
}

func completionError(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return &GenerationError{Op: "response", Err: fmt.Errorf("HTTP %d: %s", apiErr.HTTPStatusCode, apiErr.Message)}
	}

	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		if reqErr.Err == nil {
			return &GenerationError{Op: "response", Err: fmt.Errorf("HTTP %d", reqErr.HTTPStatusCode)}
		}
		return &GenerationError{Op: "response", Err: fmt.Errorf("HTTP %d: %w", reqErr.HTTPStatusCode, reqErr.Err)}
	}

	return &GenerationError{Op: "request", Err: err}
}
