package llm

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/sashabaranov/go-openai"
)

// Config holds the OpenAI client settings.
type Config struct {
	APIKey         string        `yaml:"api_key"`
	BaseURL        string        `yaml:"base_url"`
	EmbeddingModel string        `yaml:"embedding_model"`
	ChatModel      string        `yaml:"chat_model"`
	RequestTimeout time.Duration `yaml:"request_timeout"`
}

// DefaultConfig returns the default model selection.
func DefaultConfig() Config {
	return Config{
		EmbeddingModel: string(openai.AdaEmbeddingV2),
		ChatModel:      openai.GPT4oMini,
		RequestTimeout: 30 * time.Second,
	}
}

// Client implements both the embedding and reasoning provider capabilities
// over the OpenAI API. Completions run at temperature 0; the provider is
// still treated as non-deterministic across calls.
type Client struct {
	api    *openai.Client
	config Config
}

// NewClient creates an OpenAI-backed provider client.
func NewClient(config Config) (*Client, error) {
	if config.APIKey == "" {
		return nil, errors.New("openai api key required")
	}
	if config.EmbeddingModel == "" {
		config.EmbeddingModel = string(openai.AdaEmbeddingV2)
	}
	if config.ChatModel == "" {
		config.ChatModel = openai.GPT4oMini
	}
	if config.RequestTimeout <= 0 {
		config.RequestTimeout = 30 * time.Second
	}

	clientConfig := openai.DefaultConfig(config.APIKey)
	if config.BaseURL != "" {
		clientConfig.BaseURL = config.BaseURL
	}

	return &Client{
		api:    openai.NewClientWithConfig(clientConfig),
		config: config,
	}, nil
}

// Embed converts text to a fixed-dimension dense vector.
func (c *Client) Embed(ctx context.Context, text string) ([]float32, error) {
	ctx, cancel := context.WithTimeout(ctx, c.config.RequestTimeout)
	defer cancel()

	resp, err := c.api.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Input: []string{text},
		Model: openai.EmbeddingModel(c.config.EmbeddingModel),
	})
	if err != nil {
		return nil, fmt.Errorf("embedding request failed: %w", err)
	}
	if len(resp.Data) == 0 {
		return nil, errors.New("embedding response contains no data")
	}

	return resp.Data[0].Embedding, nil
}

// Complete returns a chat completion for the prompt. When structured is
// true the response is constrained to a JSON object.
func (c *Client) Complete(ctx context.Context, prompt string, structured bool) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.config.RequestTimeout)
	defer cancel()

	req := openai.ChatCompletionRequest{
		Model: c.config.ChatModel,
		// A literal 0 is dropped by omitempty and the API falls back to its
		// default; the smallest nonzero value is the closest the wire
		// format can express.
		Temperature: math.SmallestNonzeroFloat32,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	}
	if structured {
		req.ResponseFormat = &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		}
	}

	resp, err := c.api.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", fmt.Errorf("completion request failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("completion response contains no choices")
	}

	return resp.Choices[0].Message.Content, nil
}
