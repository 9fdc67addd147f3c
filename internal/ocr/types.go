// Package ocr defines the recognition boundary. Engines are black boxes that
// turn an encoded image into text and report progress along the way.
package ocr

import "context"

// ProgressFunc receives recognition progress in [0, 1]
type ProgressFunc func(progress float64)

// Input is a single image submitted for recognition
type Input struct {
	// ID is echoed back in the Result
	ID string

	// Image is the encoded image payload (PNG or JPEG)
	Image []byte

	Languages []string

	// Metadata carries engine-specific variables, e.g. tessedit_pageseg_mode
	Metadata map[string]string

	Progress ProgressFunc
}

// Result is the recognized text for one input
type Result struct {
	InputID    string
	Text       string
	Confidence float64 // Mean word confidence in [0, 1], 0 when unknown
}

// Engine recognizes text in an image
type Engine interface {
	Name() string
	Recognize(ctx context.Context, input Input) (Result, error)
}

// Report forwards progress to the input's callback, if any
func (in Input) Report(progress float64) {
	if in.Progress == nil {
		return
	}
	if progress < 0 {
		progress = 0
	}
	if progress > 1 {
		progress = 1
	}
	in.Progress(progress)
}
