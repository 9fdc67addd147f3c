package imageproc

import "image"

// Pixel buffers here are binarized NRGBA images where R=G=B, so only the
// red channel is read.

func isDark(img *image.NRGBA, x, y int) bool {
	return img.Pix[img.PixOffset(x, y)] < 128
}

func setGray(img *image.NRGBA, x, y int, v uint8) {
	i := img.PixOffset(x, y)
	img.Pix[i], img.Pix[i+1], img.Pix[i+2] = v, v, v
}

// removeSmallComponents whitens 4-connected dark regions smaller than minSize
func removeSmallComponents(img *image.NRGBA, minSize int) {
	if minSize <= 1 {
		return
	}
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	visited := make([]bool, w*h)
	var stack, component []int

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			start := y*w + x
			if visited[start] || !isDark(img, b.Min.X+x, b.Min.Y+y) {
				continue
			}

			component = component[:0]
			stack = append(stack[:0], start)
			visited[start] = true
			for len(stack) > 0 {
				idx := stack[len(stack)-1]
				stack = stack[:len(stack)-1]
				component = append(component, idx)

				cx, cy := idx%w, idx/w
				for _, n := range [4][2]int{{cx + 1, cy}, {cx - 1, cy}, {cx, cy + 1}, {cx, cy - 1}} {
					nx, ny := n[0], n[1]
					if nx < 0 || nx >= w || ny < 0 || ny >= h {
						continue
					}
					ni := ny*w + nx
					if visited[ni] || !isDark(img, b.Min.X+nx, b.Min.Y+ny) {
						continue
					}
					visited[ni] = true
					stack = append(stack, ni)
				}
			}

			if len(component) < minSize {
				for _, idx := range component {
					setGray(img, b.Min.X+idx%w, b.Min.Y+idx/w, white)
				}
			}
		}
	}
}

type reducer func(a, b uint8) uint8

func minOf(a, b uint8) uint8 {
	if a < b {
		return a
	}
	return b
}

func maxOf(a, b uint8) uint8 {
	if a > b {
		return a
	}
	return b
}

// morph applies a square min or max filter. Border pixels within radius of
// the edge are copied unchanged.
func morph(img *image.NRGBA, radius int, reduce reducer) *image.NRGBA {
	b := img.Bounds()
	out := image.NewNRGBA(b)
	copy(out.Pix, img.Pix)

	for y := b.Min.Y + radius; y < b.Max.Y-radius; y++ {
		for x := b.Min.X + radius; x < b.Max.X-radius; x++ {
			v := img.Pix[img.PixOffset(x, y)]
			for ky := -radius; ky <= radius; ky++ {
				for kx := -radius; kx <= radius; kx++ {
					v = reduce(v, img.Pix[img.PixOffset(x+kx, y+ky)])
				}
			}
			setGray(out, x, y, v)
		}
	}
	return out
}
