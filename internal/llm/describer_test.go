package llm

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/ppiankov/rivenscan/internal/model"
	"github.com/rs/zerolog"
)

type stubProvider struct {
	available bool
	text      string
	err       error
	calls     int
}

func (s *stubProvider) Name() string { return "stub" }

func (s *stubProvider) IsAvailable(ctx context.Context) bool { return s.available }

func (s *stubProvider) Describe(ctx context.Context, req DescribeRequest) (*DescribeResponse, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return &DescribeResponse{Text: s.text, Model: "stub-1"}, nil
}

func TestCheckStats(t *testing.T) {
	record := testReport().Record

	tests := []struct {
		name    string
		text    string
		wantErr bool
	}{
		{"exact values", "191.5% Multishot and -37.6% reload.", false},
		{"rounded within tolerance", "about 191.5 % multishot", false},
		{"no percentages", "A solid Lenz roll.", false},
		{"invented value", "191.5% Multishot and 120% Critical Chance", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckStats(tt.text, record)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Expected error=%v, got %v", tt.wantErr, err)
			}
			if err != nil && !errors.Is(err, ErrStatLeak) {
				t.Errorf("Expected ErrStatLeak, got %v", err)
			}
		})
	}
}

func TestDescriber_Disabled(t *testing.T) {
	d, err := NewDescriber(Config{}, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewDescriber failed: %v", err)
	}
	if d.IsEnabled() || d.ProviderName() != "" {
		t.Error("Expected disabled describer")
	}

	out := d.Describe(context.Background(), testReport())
	if out.Enabled || out.Text != "" {
		t.Errorf("Expected empty disabled description, got %+v", out)
	}
}

func TestDescriber_UnknownProvider(t *testing.T) {
	if _, err := NewDescriber(Config{Provider: "bard"}, zerolog.Nop()); err == nil {
		t.Error("Expected error for unknown provider")
	}
}

func TestDescriber_StrictRejectsLeak(t *testing.T) {
	p := &stubProvider{available: true, text: "Great 250% damage roll"}
	d := &Describer{provider: p, config: Config{StrictStats: true}, logger: zerolog.Nop()}

	out := d.Describe(context.Background(), testReport())
	if out.Text != "" {
		t.Errorf("Expected leaked text to be withheld, got %q", out.Text)
	}
	if len(out.Warnings) != 1 || !strings.Contains(out.Warnings[0], "250%") {
		t.Errorf("Expected leak warning, got %v", out.Warnings)
	}
	if out.Model != "stub-1" || out.Provider != "stub" {
		t.Errorf("Expected provider metadata, got %+v", out)
	}
}

func TestDescriber_LenientKeepsText(t *testing.T) {
	p := &stubProvider{available: true, text: "Great 250% damage roll"}
	d := &Describer{provider: p, config: Config{}, logger: zerolog.Nop()}

	out := d.Describe(context.Background(), testReport())
	if out.Text != "Great 250% damage roll" || len(out.Warnings) != 0 {
		t.Errorf("Expected text without warnings, got %+v", out)
	}
}

func TestDescriber_ProviderFailure(t *testing.T) {
	p := &stubProvider{available: true, err: errors.New("boom")}
	d := &Describer{provider: p, config: Config{StrictStats: true}, logger: zerolog.Nop()}

	out := d.Describe(context.Background(), testReport())
	if !out.Enabled || out.Text != "" || len(out.Warnings) != 1 || out.Warnings[0] != "boom" {
		t.Errorf("Expected failure as warning, got %+v", out)
	}
}

func TestDescriber_Unavailable(t *testing.T) {
	p := &stubProvider{available: false}
	d := &Describer{provider: p, config: Config{}, logger: zerolog.Nop()}

	out := d.Describe(context.Background(), testReport())
	if p.calls != 0 {
		t.Errorf("Expected no describe call, got %d", p.calls)
	}
	if len(out.Warnings) != 1 {
		t.Errorf("Expected availability warning, got %v", out.Warnings)
	}
}

func TestBuildPrompt(t *testing.T) {
	report := testReport()
	price := 250
	report.Estimate = &model.Estimate{SuggestedPrice: &price, Confidence: "medium"}

	prompt := BuildPrompt(report)
	for _, want := range []string{"Lenz", "Multishot", "Riven name: Sati-Visipha", "Suggested price: 250 platinum (medium confidence)"} {
		if !strings.Contains(prompt, want) {
			t.Errorf("Expected prompt to contain %q:\n%s", want, prompt)
		}
	}
	if strings.Contains(prompt, "Parse warnings") {
		t.Error("Expected no warnings section for a valid record")
	}
}

func TestConfigFromModel(t *testing.T) {
	t.Setenv("ANTHROPIC_API_KEY", "sk-ant")

	cfg := ConfigFromModel(
		model.LLMConfig{Enabled: true, Provider: "anthropic", MaxTokens: 200, StrictStats: true},
		model.HTTPConfig{Proxy: "http://proxy:3128"},
	)
	if cfg.APIKey != "sk-ant" || cfg.Proxy != "http://proxy:3128" || cfg.MaxTokens != 200 || !cfg.StrictStats {
		t.Errorf("Unexpected config: %+v", cfg)
	}

	if cfg := ConfigFromModel(model.LLMConfig{Provider: "openai"}, model.HTTPConfig{}); cfg.Provider != "" {
		t.Errorf("Expected disabled config, got provider %q", cfg.Provider)
	}
}
