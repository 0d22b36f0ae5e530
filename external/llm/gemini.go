package llm

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/GiovanoMP/at-des-data-driven-apps/internal/domain/narrative"
)

const (
	DefaultGeminiBaseURL = "https://generativelanguage.googleapis.com/v1beta"
	DefaultGeminiModel   = "gemini-1.5-flash"
)

type GeminiConfig struct {
	APIKey    string
	BaseURL   string
	Model     string
	Transport TransportConfig
}

// GeminiClient generates text through the generateContent endpoint.
type GeminiClient struct {
	apiKey    string
	baseURL   string
	model     string
	transport *transport
}

func NewGeminiClient(cfg GeminiConfig) *GeminiClient {
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = DefaultGeminiBaseURL
	}
	model := strings.TrimSpace(cfg.Model)
	if model == "" {
		model = DefaultGeminiModel
	}
	return &GeminiClient{
		apiKey:    strings.TrimSpace(cfg.APIKey),
		baseURL:   baseURL,
		model:     model,
		transport: newTransport("gemini", cfg.Transport),
	}
}

func (c *GeminiClient) Name() string {
	return "gemini"
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts"`
}

type geminiRequest struct {
	SystemInstruction *geminiContent  `json:"systemInstruction,omitempty"`
	Contents          []geminiContent `json:"contents"`
	GenerationConfig  struct {
		MaxOutputTokens int     `json:"maxOutputTokens,omitempty"`
		Temperature     float64 `json:"temperature"`
	} `json:"generationConfig"`
}

type geminiResponse struct {
	Candidates []struct {
		Content      geminiContent `json:"content"`
		FinishReason string        `json:"finishReason"`
	} `json:"candidates"`
	PromptFeedback *struct {
		BlockReason string `json:"blockReason"`
	} `json:"promptFeedback"`
}

func (c *GeminiClient) Generate(ctx context.Context, prompt narrative.Prompt) (string, error) {
	if c.apiKey == "" {
		return "", fmt.Errorf("gemini api key is not configured")
	}

	var payload geminiRequest
	if system := strings.TrimSpace(prompt.System); system != "" {
		payload.SystemInstruction = &geminiContent{Parts: []geminiPart{{Text: system}}}
	}
	for _, turn := range prompt.History {
		role := "user"
		if turn.Role == narrative.RoleAssistant {
			role = "model"
		}
		payload.Contents = append(payload.Contents, geminiContent{Role: role, Parts: []geminiPart{{Text: turn.Content}}})
	}
	payload.Contents = append(payload.Contents, geminiContent{Role: "user", Parts: []geminiPart{{Text: prompt.User}}})
	payload.GenerationConfig.MaxOutputTokens = prompt.MaxTokens
	payload.GenerationConfig.Temperature = prompt.Temperature

	// The key must stay out of the URL, which errors and spans record.
	endpoint := fmt.Sprintf("%s/models/%s:generateContent", c.baseURL, url.PathEscape(c.model))
	headers := map[string]string{"x-goog-api-key": c.apiKey}

	var out geminiResponse
	if err := c.transport.postJSON(ctx, endpoint, headers, payload, &out); err != nil {
		return "", fmt.Errorf("gemini generate content model=%s: %w", c.model, err)
	}
	if out.PromptFeedback != nil && out.PromptFeedback.BlockReason != "" {
		return "", fmt.Errorf("gemini generate content model=%s: blocked reason=%s", c.model, out.PromptFeedback.BlockReason)
	}
	if len(out.Candidates) == 0 {
		return "", fmt.Errorf("gemini generate content model=%s: empty candidates", c.model)
	}

	var text strings.Builder
	for _, part := range out.Candidates[0].Content.Parts {
		text.WriteString(part.Text)
	}
	return strings.TrimSpace(text.String()), nil
}
