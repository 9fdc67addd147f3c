package model

import "time"

// Report is the complete rivenscan result for one screenshot or text blob
type Report struct {
	ID       string    `json:"id,omitempty"`  // ULID assigned by the history store
	Source   string    `json:"source"`        // File path or "-" for stdin
	ParsedAt time.Time `json:"parsed_at"`     // When the parse occurred
	OCR      *OCRMeta  `json:"ocr,omitempty"` // Present when the text came from an image

	Record     RivenRecord      `json:"record"`
	Validation ValidationResult `json:"validation"`
	Names      NameSuggestion   `json:"names"`
	WeaponType WeaponType       `json:"weapon_type,omitempty"`

	Queries  []SearchResult `json:"queries,omitempty"`  // Market search results per query variant
	Estimate *Estimate      `json:"estimate,omitempty"` // Comparable-listing estimate

	LLM *LLMDescription `json:"llm,omitempty"` // Optional listing description (never affects parsing)
}

// OCRMeta describes how the text was recognized
type OCRMeta struct {
	Engine       string  `json:"engine"`
	Confidence   float64 `json:"confidence"`
	Preprocessed bool    `json:"preprocessed"`
	Width        int     `json:"width"`
	Height       int     `json:"height"`
}

// Estimate is the transparent comparable-listing breakdown
type Estimate struct {
	Index          int      `json:"index"`           // Comparability index (0-100)
	Confidence     string   `json:"confidence"`      // "low", "medium", "high"
	SuggestedPrice *int     `json:"suggested_price"` // Median buyout of the closest listings, in platinum
	Signals        []Signal `json:"signals"`
}

// Signal is a diagnostic signal with transparent scoring data
type Signal struct {
	Type        SignalType             `json:"type"`
	Severity    SignalSeverity         `json:"severity"`
	Description string                 `json:"description"`
	Data        map[string]interface{} `json:"data,omitempty"` // Formula inputs and outputs
}

// SignalType classifies a diagnostic signal
type SignalType string

const (
	SignalComparableCount  SignalType = "comparable_count"  // Number of listings found
	SignalAttributeOverlap SignalType = "attribute_overlap" // Positive attribute similarity
	SignalPriceSpread      SignalType = "price_spread"      // Buyout dispersion
	SignalParseQuality     SignalType = "parse_quality"     // Validation errors on the source record
)

// SignalSeverity indicates the importance of the signal
type SignalSeverity string

const (
	SeverityInfo     SignalSeverity = "info"
	SeverityWarning  SignalSeverity = "warning"
	SeverityCritical SignalSeverity = "critical"
)

// LLMDescription is an optional generated listing text
type LLMDescription struct {
	Enabled     bool     `json:"enabled"`
	Provider    string   `json:"provider,omitempty"`
	Model       string   `json:"model,omitempty"`
	StrictStats bool     `json:"strict_stats"`
	Text        string   `json:"text,omitempty"`
	Warnings    []string `json:"warnings,omitempty"`
}
