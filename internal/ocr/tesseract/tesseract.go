// Package tesseract implements the OCR engine with the gosseract client.
package tesseract

import (
	"context"
	"fmt"
	"strings"

	"github.com/otiai10/gosseract/v2"
	"github.com/ppiankov/rivenscan/internal/ocr"
)

func init() {
	ocr.Register("tesseract", func() ocr.Engine { return New() })
}

// Engine recognizes text through libtesseract
type Engine struct {
	clientFactory func() *gosseract.Client
}

// New creates a Tesseract-backed engine
func New() *Engine {
	return &Engine{clientFactory: gosseract.NewClient}
}

func (e *Engine) Name() string { return "tesseract" }

// Recognize runs one image through a fresh client. Progress is reported at
// setup, after recognition, and on completion.
func (e *Engine) Recognize(ctx context.Context, in ocr.Input) (ocr.Result, error) {
	if err := ctx.Err(); err != nil {
		return ocr.Result{}, err
	}
	if len(in.Image) == 0 {
		return ocr.Result{}, fmt.Errorf("recognize %s: empty image", in.ID)
	}
	in.Report(0)

	c := e.clientFactory()
	defer func() { _ = c.Close() }()

	if err := c.SetImageFromBytes(in.Image); err != nil {
		return ocr.Result{}, fmt.Errorf("set image: %w", err)
	}
	if len(in.Languages) > 0 {
		if err := c.SetLanguage(in.Languages...); err != nil {
			return ocr.Result{}, fmt.Errorf("set languages: %w", err)
		}
	}
	for k, v := range in.Metadata {
		if err := c.SetVariable(gosseract.SettableVariable(k), v); err != nil {
			return ocr.Result{}, fmt.Errorf("set variable %s: %w", k, err)
		}
	}
	in.Report(0.1)

	text, err := c.Text()
	if err != nil {
		return ocr.Result{}, fmt.Errorf("recognize text: %w", err)
	}
	in.Report(0.9)

	conf := meanConfidence(c)
	in.Report(1)

	return ocr.Result{
		InputID:    in.ID,
		Text:       strings.TrimSpace(text),
		Confidence: conf,
	}, nil
}

func meanConfidence(c *gosseract.Client) float64 {
	boxes, err := c.GetBoundingBoxes(gosseract.RIL_WORD)
	if err != nil || len(boxes) == 0 {
		return 0
	}
	var sum float64
	for _, b := range boxes {
		sum += b.Confidence / 100.0
	}
	return sum / float64(len(boxes))
}
