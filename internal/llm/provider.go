// Package llm generates optional listing descriptions for a parsed riven.
// Nothing here feeds back into parsing.
package llm

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ppiankov/rivenscan/internal/model"
	"github.com/ppiankov/rivenscan/internal/riven"
)

// Provider is a text generation backend
type Provider interface {
	// Name returns the provider name
	Name() string

	// Describe writes a listing description for the request's report
	Describe(ctx context.Context, req DescribeRequest) (*DescribeResponse, error)

	// IsAvailable checks that the provider is configured and reachable
	IsAvailable(ctx context.Context) bool
}

// DescribeRequest is the input for one description
type DescribeRequest struct {
	Report model.Report

	// Prompt overrides the default prompt when set
	Prompt string

	Model     string
	MaxTokens int
}

// DescribeResponse is the generated text
type DescribeResponse struct {
	Text       string
	Model      string
	TokensUsed int
}

// Config holds provider configuration
type Config struct {
	Provider    string // openai, anthropic, ollama, or empty to disable
	Model       string
	APIKey      string
	BaseURL     string
	Timeout     time.Duration
	Temperature float32
	MaxTokens   int

	// StrictStats rejects text quoting a figure the record does not contain
	StrictStats bool

	Proxy string
}

// DefaultConfig returns disabled defaults
func DefaultConfig() Config {
	return Config{
		Timeout:     30 * time.Second,
		Temperature: 0.3,
		MaxTokens:   300,
		StrictStats: true,
	}
}

const systemPrompt = "You write short, factual Warframe riven mod listings. You never invent stats."

func (c Config) maxTokens(req DescribeRequest) int {
	if req.MaxTokens > 0 {
		return req.MaxTokens
	}
	if c.MaxTokens > 0 {
		return c.MaxTokens
	}
	return 300
}

func (c Config) model(req DescribeRequest, fallback string) string {
	if req.Model != "" {
		return req.Model
	}
	if c.Model != "" {
		return c.Model
	}
	return fallback
}

func (c Config) timeout() time.Duration {
	if c.Timeout > 0 {
		return c.Timeout
	}
	return 30 * time.Second
}

// BuildPrompt renders the record into the default description prompt
func BuildPrompt(report model.Report) string {
	var b strings.Builder

	b.WriteString("Write a 2-3 sentence trade listing for this riven mod.\n\n")
	b.WriteString("RULES:\n")
	b.WriteString("1. Quote only the stat values listed below, exactly as written.\n")
	b.WriteString("2. Do not mention prices unless a suggested price is given.\n")
	b.WriteString("3. Do not guess stats that are missing.\n\n")

	b.WriteString(riven.Format(report.Record))
	b.WriteString("\n")

	if report.Names.Recommended != "" {
		fmt.Fprintf(&b, "Riven name: %s\n", report.Names.Recommended)
	}
	if report.Estimate != nil && report.Estimate.SuggestedPrice != nil {
		fmt.Fprintf(&b, "Suggested price: %d platinum (%s confidence)\n",
			*report.Estimate.SuggestedPrice, report.Estimate.Confidence)
	}
	if !report.Validation.IsValid && len(report.Validation.Errors) > 0 {
		fmt.Fprintf(&b, "Parse warnings: %s\n", strings.Join(report.Validation.Errors, "; "))
	}
	return b.String()
}
