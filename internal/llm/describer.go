package llm

import (
	"context"
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"

	"github.com/ppiankov/rivenscan/internal/model"
	"github.com/rs/zerolog"
)

// ErrStatLeak is returned when generated text cites a percentage that is not
// one of the record's stat values
var ErrStatLeak = errors.New("description cites a stat value not on the riven")

var percentPattern = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*%`)

// Describer wraps a provider with the stat-leak check. A nil provider means
// descriptions are disabled.
type Describer struct {
	provider Provider
	config   Config
	logger   zerolog.Logger
}

// NewDescriber creates a describer from configuration
func NewDescriber(cfg Config, logger zerolog.Logger) (*Describer, error) {
	p, err := NewProvider(cfg)
	if err != nil {
		return nil, err
	}
	return &Describer{provider: p, config: cfg, logger: logger}, nil
}

// IsEnabled reports whether a provider is configured
func (d *Describer) IsEnabled() bool {
	return d != nil && d.provider != nil
}

// ProviderName returns the configured provider, or empty
func (d *Describer) ProviderName() string {
	if !d.IsEnabled() {
		return ""
	}
	return d.provider.Name()
}

// Describe generates a description for report. Provider failures are
// reported as warnings on the result, not as errors.
func (d *Describer) Describe(ctx context.Context, report model.Report) *model.LLMDescription {
	out := &model.LLMDescription{
		Enabled:     d.IsEnabled(),
		StrictStats: d.config.StrictStats,
	}
	if !d.IsEnabled() {
		return out
	}
	out.Provider = d.provider.Name()

	if !d.provider.IsAvailable(ctx) {
		out.Warnings = append(out.Warnings, fmt.Sprintf("provider %s is not available", out.Provider))
		return out
	}

	resp, err := d.provider.Describe(ctx, DescribeRequest{Report: report})
	if err != nil {
		d.logger.Warn().Err(err).Str("provider", out.Provider).Msg("listing description failed")
		out.Warnings = append(out.Warnings, err.Error())
		return out
	}
	out.Model = resp.Model

	if d.config.StrictStats {
		if err := CheckStats(resp.Text, report.Record); err != nil {
			out.Warnings = append(out.Warnings, err.Error())
			return out
		}
	}
	out.Text = resp.Text
	return out
}

// CheckStats verifies every percentage in text matches a stat value of the
// record to one decimal place
func CheckStats(text string, record model.RivenRecord) error {
	for _, m := range percentPattern.FindAllStringSubmatch(text, -1) {
		v, err := strconv.ParseFloat(m[1], 64)
		if err != nil {
			continue
		}
		if !hasValue(record, v) {
			return fmt.Errorf("%w: %s%%", ErrStatLeak, m[1])
		}
	}
	return nil
}

func hasValue(record model.RivenRecord, v float64) bool {
	for _, s := range record.Stats {
		if math.Abs(s.Value-v) < 0.05 {
			return true
		}
	}
	return false
}
