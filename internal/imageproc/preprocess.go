// Package imageproc prepares riven screenshots for OCR: light text on a dark
// card becomes black text on white, with specks and borders removed.
package imageproc

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/disintegration/imaging"
	"github.com/ppiankov/rivenscan/internal/model"
)

const (
	black = 0
	white = 255

	// upscale target relative to MinHeight
	upscaleFactor = 1.5
)

// Preprocessor applies the configured preparation steps
type Preprocessor struct {
	cfg model.PreprocessConfig
}

// New creates a preprocessor
func New(cfg model.PreprocessConfig) *Preprocessor {
	return &Preprocessor{cfg: cfg}
}

// Open decodes an image file, honoring EXIF orientation
func Open(path string) (image.Image, error) {
	img, err := imaging.Open(path, imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("open image: %w", err)
	}
	return img, nil
}

// Decode decodes image bytes
func Decode(data []byte) (image.Image, error) {
	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	return img, nil
}

// EncodePNG encodes img as PNG for the OCR engine
func EncodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}

// Process runs upscale, binarization, speck removal, opening and margin crop
func (p *Preprocessor) Process(img image.Image) *image.NRGBA {
	src := imaging.Clone(img)

	if h := src.Bounds().Dy(); p.cfg.MinHeight > 0 && h < p.cfg.MinHeight {
		target := int(math.Round(float64(p.cfg.MinHeight) * upscaleFactor))
		src = imaging.Resize(src, 0, target, imaging.Lanczos)
	}

	bin := p.binarize(src)
	removeSmallComponents(bin, p.cfg.MinComponent)
	if radius := p.cfg.MorphKernel / 2; radius > 0 {
		bin = morph(bin, radius, minOf)
		bin = morph(bin, radius, maxOf)
	}
	return p.crop(bin)
}

// binarize maps luminance through the contrast curve and inverts around the
// threshold: light pixels (text) become black
func (p *Preprocessor) binarize(img *image.NRGBA) *image.NRGBA {
	factor := contrastFactor(p.cfg.Contrast)
	threshold := float64(p.cfg.Threshold)

	return imaging.AdjustFunc(img, func(c color.NRGBA) color.NRGBA {
		gray := 0.2126*float64(c.R) + 0.7152*float64(c.G) + 0.0722*float64(c.B)
		gray = clamp(factor*(gray-128) + 128)

		v := uint8(white)
		if gray > threshold {
			v = black
		}
		return color.NRGBA{R: v, G: v, B: v, A: 255}
	})
}

func (p *Preprocessor) crop(img *image.NRGBA) *image.NRGBA {
	b := img.Bounds()
	mx := int(math.Floor(float64(b.Dx()) * p.cfg.MarginX))
	my := int(math.Floor(float64(b.Dy()) * p.cfg.MarginY))
	if mx <= 0 && my <= 0 {
		return img
	}
	rect := image.Rect(b.Min.X+mx, b.Min.Y+my, b.Max.X-mx, b.Max.Y-my)
	if rect.Empty() {
		return img
	}
	return imaging.Crop(img, rect)
}

func contrastFactor(contrast float64) float64 {
	return (259 * (contrast + 255)) / (255 * (259 - contrast))
}

func clamp(v float64) float64 {
	return math.Max(0, math.Min(255, v))
}
