package model

import "time"

// Config is the complete rivenscan configuration
type Config struct {
	Market       MarketConfig       `yaml:"market" mapstructure:"market"`
	HTTP         HTTPConfig         `yaml:"http" mapstructure:"http"`
	Cache        CacheConfig        `yaml:"cache" mapstructure:"cache"`
	RateLimiting RateLimitingConfig `yaml:"rate_limiting" mapstructure:"rate_limiting"`
	Concurrency  ConcurrencyConfig  `yaml:"concurrency" mapstructure:"concurrency"`
	OCR          OCRConfig          `yaml:"ocr" mapstructure:"ocr"`
	Preprocess   PreprocessConfig   `yaml:"preprocess" mapstructure:"preprocess"`
	Parser       ParserConfig       `yaml:"parser" mapstructure:"parser"`
	Store        StoreConfig        `yaml:"store" mapstructure:"store"`
	LLM          LLMConfig          `yaml:"llm" mapstructure:"llm"`
	Output       OutputConfig       `yaml:"output" mapstructure:"output"`
}

// MarketConfig controls the trading API client
type MarketConfig struct {
	BaseURL        string        `yaml:"base_url" mapstructure:"base_url"`
	Platform       string        `yaml:"platform" mapstructure:"platform"`
	Language       string        `yaml:"language" mapstructure:"language"`
	BuyoutPolicy   string        `yaml:"buyout_policy" mapstructure:"buyout_policy"`
	SortBy         string        `yaml:"sort_by" mapstructure:"sort_by"`
	RespectRobots  bool          `yaml:"respect_robots" mapstructure:"respect_robots"`
	MaxRetries     int           `yaml:"max_retries" mapstructure:"max_retries"`
	TargetNonEmpty int           `yaml:"target_non_empty" mapstructure:"target_non_empty"`
	BatchSize      int           `yaml:"batch_size" mapstructure:"batch_size"`
	BatchPause     time.Duration `yaml:"batch_pause" mapstructure:"batch_pause"`
}

// HTTPConfig controls outbound HTTP behavior
type HTTPConfig struct {
	Timeout      time.Duration `yaml:"timeout" mapstructure:"timeout"`
	UserAgent    string        `yaml:"user_agent" mapstructure:"user_agent"`
	MaxBodyBytes int64         `yaml:"max_body_bytes" mapstructure:"max_body_bytes"`
	Proxy        string        `yaml:"proxy" mapstructure:"proxy"`
}

// CacheConfig controls the layered vocabulary/search cache
type CacheConfig struct {
	Enabled   bool          `yaml:"enabled" mapstructure:"enabled"`
	Dir       string        `yaml:"dir" mapstructure:"dir"`
	VocabTTL  time.Duration `yaml:"vocab_ttl" mapstructure:"vocab_ttl"`
	SearchTTL time.Duration `yaml:"search_ttl" mapstructure:"search_ttl"`
}

// RateLimitingConfig controls per-host request rates
type RateLimitingConfig struct {
	RequestsPerSecond float64 `yaml:"requests_per_second" mapstructure:"requests_per_second"`
	Burst             int     `yaml:"burst" mapstructure:"burst"`
}

// ConcurrencyConfig controls worker pools
type ConcurrencyConfig struct {
	Workers int `yaml:"workers" mapstructure:"workers"`
}

// OCRConfig controls the recognition engine
type OCRConfig struct {
	Engine    string   `yaml:"engine" mapstructure:"engine"`
	Languages []string `yaml:"languages" mapstructure:"languages"`
	PSM       int      `yaml:"psm" mapstructure:"psm"`
	Whitelist string   `yaml:"whitelist" mapstructure:"whitelist"`
}

// PreprocessConfig controls image preparation before OCR
type PreprocessConfig struct {
	Enabled      bool    `yaml:"enabled" mapstructure:"enabled"`
	Contrast     float64 `yaml:"contrast" mapstructure:"contrast"`
	Threshold    uint8   `yaml:"threshold" mapstructure:"threshold"`
	MinComponent int     `yaml:"min_component" mapstructure:"min_component"`
	MorphKernel  int     `yaml:"morph_kernel" mapstructure:"morph_kernel"`
	MarginX      float64 `yaml:"margin_x" mapstructure:"margin_x"`
	MarginY      float64 `yaml:"margin_y" mapstructure:"margin_y"`
	MinHeight    int     `yaml:"min_height" mapstructure:"min_height"`
}

// ParserConfig exposes the tuned parsing constants
type ParserConfig struct {
	MaxStatNameLength int     `yaml:"max_stat_name_length" mapstructure:"max_stat_name_length"`
	InclusionRatio    float64 `yaml:"inclusion_ratio" mapstructure:"inclusion_ratio"`
	WeaponScanLines   int     `yaml:"weapon_scan_lines" mapstructure:"weapon_scan_lines"`
	MaxMastery        int     `yaml:"max_mastery" mapstructure:"max_mastery"`
	MaxStats          int     `yaml:"max_stats" mapstructure:"max_stats"`
	CleanText         bool    `yaml:"clean_text" mapstructure:"clean_text"`
	Vocabulary        string  `yaml:"vocabulary" mapstructure:"vocabulary"` // "builtin", "market", or a file path
}

// StoreConfig controls the report history database
type StoreConfig struct {
	Enabled bool   `yaml:"enabled" mapstructure:"enabled"`
	Path    string `yaml:"path" mapstructure:"path"`
}

// LLMConfig controls the optional listing description
type LLMConfig struct {
	Enabled     bool    `yaml:"enabled" mapstructure:"enabled"`
	Provider    string  `yaml:"provider" mapstructure:"provider"` // openai, anthropic, ollama
	Model       string  `yaml:"model" mapstructure:"model"`
	BaseURL     string  `yaml:"base_url" mapstructure:"base_url"`
	Temperature float32 `yaml:"temperature" mapstructure:"temperature"`
	MaxTokens   int     `yaml:"max_tokens" mapstructure:"max_tokens"`
	StrictStats bool    `yaml:"strict_stats" mapstructure:"strict_stats"`
}

// OutputConfig controls rendering
type OutputConfig struct {
	Format string `yaml:"format" mapstructure:"format"` // text, json, md
	Dir    string `yaml:"dir" mapstructure:"dir"`
}

// DefaultConfig returns the built-in defaults
func DefaultConfig() *Config {
	return &Config{
		Market: MarketConfig{
			BaseURL:        "https://api.warframe.market/v1",
			Platform:       "pc",
			Language:       "en",
			BuyoutPolicy:   "direct",
			SortBy:         "price_asc",
			RespectRobots:  true,
			MaxRetries:     3,
			TargetNonEmpty: 3,
			BatchSize:      3,
			BatchPause:     1500 * time.Millisecond,
		},
		HTTP: HTTPConfig{
			Timeout:      30 * time.Second,
			UserAgent:    "rivenscan/0.1",
			MaxBodyBytes: 10 * 1024 * 1024,
		},
		Cache: CacheConfig{
			Enabled:   true,
			Dir:       "~/.rivenscan/cache",
			VocabTTL:  24 * time.Hour,
			SearchTTL: 10 * time.Minute,
		},
		RateLimiting: RateLimitingConfig{
			RequestsPerSecond: 3,
			Burst:             3,
		},
		Concurrency: ConcurrencyConfig{
			Workers: 4,
		},
		OCR: OCRConfig{
			Engine:    "tesseract",
			Languages: []string{"eng"},
			PSM:       6,
			Whitelist: "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789 +-.%/",
		},
		Preprocess: PreprocessConfig{
			Enabled:      true,
			Contrast:     80,
			Threshold:    120,
			MinComponent: 15,
			MorphKernel:  2,
			MarginX:      0.15,
			MarginY:      0.10,
			MinHeight:    800,
		},
		Parser: DefaultParserConfig(),
		Store: StoreConfig{
			Enabled: true,
			Path:    "~/.rivenscan/history.db",
		},
		LLM: LLMConfig{
			Enabled:     false,
			Provider:    "openai",
			Model:       "gpt-4o-mini",
			Temperature: 0.3,
			MaxTokens:   300,
			StrictStats: true,
		},
		Output: OutputConfig{
			Format: "text",
		},
	}
}

// DefaultParserConfig returns the tuned parsing constants
func DefaultParserConfig() ParserConfig {
	return ParserConfig{
		MaxStatNameLength: 40,
		InclusionRatio:    0.75,
		WeaponScanLines:   20,
		MaxMastery:        18,
		MaxStats:          4,
		CleanText:         true,
		Vocabulary:        "builtin",
	}
}
