package llm

import (
	"fmt"
	"os"
	"strings"

	"github.com/ppiankov/rivenscan/internal/model"
)

// NewProvider creates the configured provider; an empty provider name
// returns nil, nil (disabled)
func NewProvider(cfg Config) (Provider, error) {
	switch strings.ToLower(cfg.Provider) {
	case "openai":
		return NewOpenAIProvider(cfg)
	case "anthropic", "claude":
		return NewAnthropicProvider(cfg)
	case "ollama":
		return NewOllamaProvider(cfg)
	case "":
		return nil, nil
	default:
		return nil, fmt.Errorf("unknown LLM provider: %s (supported: openai, anthropic, ollama)", cfg.Provider)
	}
}

// ConfigFromModel builds a provider config from the application config.
// API keys come from the environment only: OPENAI_API_KEY or
// ANTHROPIC_API_KEY.
func ConfigFromModel(c model.LLMConfig, httpCfg model.HTTPConfig) Config {
	if !c.Enabled {
		return Config{}
	}

	cfg := Config{
		Provider:    c.Provider,
		Model:       c.Model,
		BaseURL:     c.BaseURL,
		Timeout:     httpCfg.Timeout,
		Temperature: c.Temperature,
		MaxTokens:   c.MaxTokens,
		StrictStats: c.StrictStats,
		Proxy:       httpCfg.Proxy,
	}
	switch strings.ToLower(c.Provider) {
	case "openai":
		cfg.APIKey = os.Getenv("OPENAI_API_KEY")
	case "anthropic", "claude":
		cfg.APIKey = os.Getenv("ANTHROPIC_API_KEY")
	}
	return cfg
}
