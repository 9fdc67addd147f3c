package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/ppiankov/rivenscan/internal/util"
)

// OllamaProvider uses a local Ollama server
type OllamaProvider struct {
	api    endpoint
	config Config
}

type ollamaRequest struct {
	Model   string        `json:"model"`
	Prompt  string        `json:"prompt"`
	System  string        `json:"system,omitempty"`
	Stream  bool          `json:"stream"`
	Options ollamaOptions `json:"options"`
}

type ollamaOptions struct {
	Temperature float32 `json:"temperature,omitempty"`
	NumPredict  int     `json:"num_predict,omitempty"`
}

type ollamaResponse struct {
	Model           string `json:"model"`
	Response        string `json:"response"`
	Done            bool   `json:"done"`
	PromptEvalCount int    `json:"prompt_eval_count,omitempty"`
	EvalCount       int    `json:"eval_count,omitempty"`
}

type ollamaError struct {
	Error string `json:"error"`
}

// NewOllamaProvider creates an Ollama provider
func NewOllamaProvider(cfg Config) (*OllamaProvider, error) {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = "http://localhost:11434"
	}
	return &OllamaProvider{
		api:    newEndpoint(util.NewHTTPClient(cfg.timeout(), cfg.Proxy, ""), baseURL, ollamaErrorText),
		config: cfg,
	}, nil
}

func (p *OllamaProvider) Name() string {
	return "ollama"
}

// IsAvailable checks that the server answers /api/tags
func (p *OllamaProvider) IsAvailable(ctx context.Context) bool {
	return p.api.ping(ctx, "/api/tags")
}

func (p *OllamaProvider) Describe(ctx context.Context, req DescribeRequest) (*DescribeResponse, error) {
	prompt := req.Prompt
	if prompt == "" {
		prompt = BuildPrompt(req.Report)
	}
	model := p.config.model(req, "")
	if model == "" {
		return nil, fmt.Errorf("ollama model must be specified (e.g., llama3.1:8b, mistral)")
	}

	var resp ollamaResponse
	err := p.api.post(ctx, "/api/generate", ollamaRequest{
		Model:  model,
		Prompt: prompt,
		System: systemPrompt,
		Options: ollamaOptions{
			Temperature: p.config.Temperature,
			NumPredict:  p.config.maxTokens(req),
		},
	}, &resp)
	if err != nil {
		return nil, fmt.Errorf("ollama generate: %w", err)
	}

	text := strings.TrimSpace(resp.Response)
	tokens := resp.PromptEvalCount + resp.EvalCount
	if tokens == 0 {
		tokens = (len(prompt) + len(text)) / 4
	}
	return &DescribeResponse{Text: text, Model: resp.Model, TokensUsed: tokens}, nil
}

func ollamaErrorText(body []byte) string {
	var e ollamaError
	if json.Unmarshal(body, &e) != nil {
		return ""
	}
	return e.Error
}
