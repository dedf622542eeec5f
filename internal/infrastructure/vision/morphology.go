//go:build !gocv
// +build !gocv

package vision

import (
	"image"
	"math"
)

// EqualizeHist выравнивает гистограмму так же, как cv::equalizeHist
func EqualizeHist(src *image.Gray) *image.Gray {
	b := src.Bounds()
	dst := image.NewGray(b)
	total := b.Dx() * b.Dy()
	if total == 0 {
		return dst
	}

	var hist [256]int
	for y := b.Min.Y; y < b.Max.Y; y++ {
		row := src.Pix[src.PixOffset(b.Min.X, y):]
		for x := 0; x < b.Dx(); x++ {
			hist[row[x]]++
		}
	}

	var lut [256]uint8
	first := 0
	for hist[first] == 0 {
		first++
	}
	if hist[first] == total {
		for i := range lut {
			lut[i] = uint8(first)
		}
	} else {
		scale := 255.0 / float64(total-hist[first])
		sum := 0
		for i := first + 1; i < 256; i++ {
			sum += hist[i]
			lut[i] = clampUint8(math.Round(float64(sum) * scale))
		}
	}

	return mapPixels(src, dst, func(v uint8) uint8 { return lut[v] })
}

// Threshold бинаризует изображение: v >= level становится 255, остальное 0
func Threshold(src *image.Gray, level uint8) *image.Gray {
	return mapPixels(src, image.NewGray(src.Bounds()), func(v uint8) uint8 {
		if v >= level {
			return 255
		}
		return 0
	})
}

// Erode минимум по окну 3x3; соседи за границей изображения не учитываются
func Erode(src *image.Gray) *image.Gray {
	return morph(src, func(a, b uint8) bool { return a < b })
}

// Dilate максимум по окну 3x3; соседи за границей изображения не учитываются
func Dilate(src *image.Gray) *image.Gray {
	return morph(src, func(a, b uint8) bool { return a > b })
}

func morph(src *image.Gray, better func(a, b uint8) bool) *image.Gray {
	b := src.Bounds()
	dst := image.NewGray(b)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			best := src.Pix[src.PixOffset(x, y)]
			for dy := -1; dy <= 1; dy++ {
				ny := y + dy
				if ny < b.Min.Y || ny >= b.Max.Y {
					continue
				}
				for dx := -1; dx <= 1; dx++ {
					nx := x + dx
					if nx < b.Min.X || nx >= b.Max.X {
						continue
					}
					if v := src.Pix[src.PixOffset(nx, ny)]; better(v, best) {
						best = v
					}
				}
			}
			dst.Pix[dst.PixOffset(x, y)] = best
		}
	}
	return dst
}

func mapPixels(src, dst *image.Gray, f func(uint8) uint8) *image.Gray {
	b := src.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		s := src.PixOffset(b.Min.X, y)
		d := dst.PixOffset(b.Min.X, y)
		for x := 0; x < b.Dx(); x++ {
			dst.Pix[d+x] = f(src.Pix[s+x])
		}
	}
	return dst
}

func clampUint8(v float64) uint8 {
	switch {
	case v < 0:
		return 0
	case v > 255:
		return 255
	}
	return uint8(v)
}
