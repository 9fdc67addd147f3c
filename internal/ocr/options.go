package ocr

import (
	"strconv"

	"github.com/ppiankov/rivenscan/internal/model"
)

const (
	VarPageSegMode     = "tessedit_pageseg_mode"
	VarWhitelist       = "tessedit_char_whitelist"
	VarPreserveSpacing = "preserve_interword_spaces"
)

// InputOption configures an Input
type InputOption func(*Input)

func setVar(in *Input, key, value string) {
	if in.Metadata == nil {
		in.Metadata = make(map[string]string)
	}
	in.Metadata[key] = value
}

// WithLanguages sets the language hints
func WithLanguages(langs ...string) InputOption {
	return func(in *Input) {
		in.Languages = append([]string(nil), langs...)
	}
}

// WithPSM sets the page segmentation mode
func WithPSM(mode int) InputOption {
	return func(in *Input) {
		if mode > 0 {
			setVar(in, VarPageSegMode, strconv.Itoa(mode))
		}
	}
}

// WithWhitelist restricts recognition to chars
func WithWhitelist(chars string) InputOption {
	return func(in *Input) {
		if chars != "" {
			setVar(in, VarWhitelist, chars)
		}
	}
}

// WithPreservedSpacing keeps runs of spaces between words, which the stat
// extractor relies on to separate split digits
func WithPreservedSpacing() InputOption {
	return func(in *Input) {
		setVar(in, VarPreserveSpacing, "1")
	}
}

// WithProgress sets the progress callback
func WithProgress(fn ProgressFunc) InputOption {
	return func(in *Input) {
		in.Progress = fn
	}
}

// NewInput builds an input from encoded image bytes
func NewInput(id string, image []byte, opts ...InputOption) Input {
	in := Input{ID: id, Image: image}
	for _, opt := range opts {
		opt(&in)
	}
	return in
}

// OptionsFromConfig returns the options for the configured riven OCR setup
func OptionsFromConfig(cfg model.OCRConfig) []InputOption {
	opts := []InputOption{
		WithPSM(cfg.PSM),
		WithWhitelist(cfg.Whitelist),
		WithPreservedSpacing(),
	}
	if len(cfg.Languages) > 0 {
		opts = append(opts, WithLanguages(cfg.Languages...))
	}
	return opts
}
