package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/GiovanoMP/at-des-data-driven-apps/internal/domain/narrative"
)

const (
	DefaultOpenAIBaseURL = "https://api.openai.com/v1"
	DefaultOpenAIModel   = "gpt-3.5-turbo"
)

type OpenAIConfig struct {
	APIKey    string
	BaseURL   string
	Model     string
	Transport TransportConfig
}

// OpenAIClient generates text through the chat completions endpoint.
type OpenAIClient struct {
	apiKey    string
	baseURL   string
	model     string
	transport *transport
}

func NewOpenAIClient(cfg OpenAIConfig) *OpenAIClient {
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = DefaultOpenAIBaseURL
	}
	model := strings.TrimSpace(cfg.Model)
	if model == "" {
		model = DefaultOpenAIModel
	}
	return &OpenAIClient{
		apiKey:    strings.TrimSpace(cfg.APIKey),
		baseURL:   baseURL,
		model:     model,
		transport: newTransport("openai", cfg.Transport),
	}
}

func (c *OpenAIClient) Name() string {
	return "openai"
}

type openAIMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type openAIRequest struct {
	Model       string          `json:"model"`
	Messages    []openAIMessage `json:"messages"`
	MaxTokens   int             `json:"max_tokens,omitempty"`
	Temperature float64         `json:"temperature"`
}

type openAIResponse struct {
	Choices []struct {
		Message      openAIMessage `json:"message"`
		FinishReason string        `json:"finish_reason"`
	} `json:"choices"`
}

func (c *OpenAIClient) Generate(ctx context.Context, prompt narrative.Prompt) (string, error) {
	if c.apiKey == "" {
		return "", fmt.Errorf("openai api key is not configured")
	}

	messages := make([]openAIMessage, 0, len(prompt.History)+2)
	if system := strings.TrimSpace(prompt.System); system != "" {
		messages = append(messages, openAIMessage{Role: "system", Content: system})
	}
	for _, turn := range prompt.History {
		messages = append(messages, openAIMessage{Role: string(turn.Role), Content: turn.Content})
	}
	messages = append(messages, openAIMessage{Role: "user", Content: prompt.User})

	payload := openAIRequest{
		Model:       c.model,
		Messages:    messages,
		MaxTokens:   prompt.MaxTokens,
		Temperature: prompt.Temperature,
	}
	headers := map[string]string{"authorization": "Bearer " + c.apiKey}

	var out openAIResponse
	if err := c.transport.postJSON(ctx, c.baseURL+"/chat/completions", headers, payload, &out); err != nil {
		return "", fmt.Errorf("openai chat completion model=%s: %w", c.model, err)
	}
	if len(out.Choices) == 0 {
		return "", fmt.Errorf("openai chat completion model=%s: empty choices", c.model)
	}
	return strings.TrimSpace(out.Choices[0].Message.Content), nil
}
