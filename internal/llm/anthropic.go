package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/ppiankov/rivenscan/internal/util"
)

const anthropicVersion = "2023-06-01"

// AnthropicProvider uses the Messages API over plain HTTP
type AnthropicProvider struct {
	api    endpoint
	config Config
}

type anthropicRequest struct {
	Model       string             `json:"model"`
	MaxTokens   int                `json:"max_tokens"`
	System      string             `json:"system,omitempty"`
	Messages    []anthropicMessage `json:"messages"`
	Temperature float32            `json:"temperature,omitempty"`
}

type anthropicMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type anthropicResponse struct {
	Model   string `json:"model"`
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	Usage struct {
		InputTokens  int `json:"input_tokens"`
		OutputTokens int `json:"output_tokens"`
	} `json:"usage"`
}

type anthropicError struct {
	Error struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

// NewAnthropicProvider creates an Anthropic provider
func NewAnthropicProvider(cfg Config) (*AnthropicProvider, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("Anthropic API key is required (ANTHROPIC_API_KEY)")
	}
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = "https://api.anthropic.com"
	}

	api := newEndpoint(util.NewHTTPClient(cfg.timeout(), cfg.Proxy, ""), baseURL, anthropicErrorText)
	api.header.Set("x-api-key", cfg.APIKey)
	api.header.Set("anthropic-version", anthropicVersion)

	return &AnthropicProvider{api: api, config: cfg}, nil
}

func (p *AnthropicProvider) Name() string {
	return "anthropic"
}

// IsAvailable lists models as a lightweight credential check
func (p *AnthropicProvider) IsAvailable(ctx context.Context) bool {
	return p.api.ping(ctx, "/v1/models")
}

func (p *AnthropicProvider) Describe(ctx context.Context, req DescribeRequest) (*DescribeResponse, error) {
	prompt := req.Prompt
	if prompt == "" {
		prompt = BuildPrompt(req.Report)
	}

	apiReq := anthropicRequest{
		Model:       p.config.model(req, "claude-3-5-haiku-latest"),
		MaxTokens:   p.config.maxTokens(req),
		System:      systemPrompt,
		Messages:    []anthropicMessage{{Role: "user", Content: prompt}},
		Temperature: p.config.Temperature,
	}

	var resp anthropicResponse
	if err := p.api.post(ctx, "/v1/messages", apiReq, &resp); err != nil {
		return nil, fmt.Errorf("anthropic messages: %w", err)
	}
	var text strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			text.WriteString(block.Text)
		}
	}
	if text.Len() == 0 {
		return nil, fmt.Errorf("anthropic messages: no text content")
	}

	return &DescribeResponse{
		Text:       strings.TrimSpace(text.String()),
		Model:      resp.Model,
		TokensUsed: resp.Usage.InputTokens + resp.Usage.OutputTokens,
	}, nil
}

func anthropicErrorText(body []byte) string {
	var e anthropicError
	if json.Unmarshal(body, &e) != nil || e.Error.Message == "" {
		return ""
	}
	return e.Error.Type + ": " + e.Error.Message
}
