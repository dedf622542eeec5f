//go:build !gocv
// +build !gocv

package vision

import (
	"image"
	"testing"

	"github.com/stretchr/testify/require"
)

func grayFrom(w, h int, pix ...uint8) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, w, h))
	copy(img.Pix, pix)
	return img
}

func TestThreshold_IdempotentOnBinary(t *testing.T) {
	img := grayFrom(3, 2,
		0, 255, 0,
		255, 255, 0,
	)
	once := Threshold(img, 185)
	require.Equal(t, img.Pix, once.Pix)
	require.Equal(t, once.Pix, Threshold(once, 185).Pix)
}

func TestThreshold_Boundary(t *testing.T) {
	img := grayFrom(4, 1, 184, 185, 186, 0)
	require.Equal(t, []uint8{0, 255, 255, 0}, Threshold(img, 185).Pix)
}

func TestEqualizeHist(t *testing.T) {
	img := grayFrom(4, 1, 10, 10, 20, 30)
	out := EqualizeHist(img)
	// первый непустой уровень уходит в 0, остальные растягиваются по CDF
	require.Equal(t, []uint8{0, 0, 128, 255}, out.Pix)
}

func TestEqualizeHist_Flat(t *testing.T) {
	img := grayFrom(2, 2, 77, 77, 77, 77)
	require.Equal(t, []uint8{77, 77, 77, 77}, EqualizeHist(img).Pix)
}

func TestErodeRemovesSpeck(t *testing.T) {
	img := grayFrom(3, 3,
		0, 0, 0,
		0, 255, 0,
		0, 0, 0,
	)
	require.Equal(t, make([]uint8, 9), Erode(img).Pix)
}

func TestErodeIgnoresBorder(t *testing.T) {
	img := grayFrom(2, 2, 255, 255, 255, 255)
	require.Equal(t, img.Pix, Erode(img).Pix)
}

func TestDilateGrowsSpeck(t *testing.T) {
	img := grayFrom(3, 3,
		0, 0, 0,
		0, 255, 0,
		0, 0, 0,
	)
	out := Dilate(img)
	for _, v := range out.Pix {
		require.Equal(t, uint8(255), v)
	}
}

func TestOpeningKeepsBlock(t *testing.T) {
	img := image.NewGray(image.Rect(0, 0, 7, 7))
	for y := 2; y <= 4; y++ {
		for x := 2; x <= 4; x++ {
			img.Pix[img.PixOffset(x, y)] = 255
		}
	}

	eroded := Erode(img)
	require.Equal(t, uint8(255), eroded.GrayAt(3, 3).Y)
	require.Equal(t, uint8(0), eroded.GrayAt(2, 2).Y)

	require.Equal(t, img.Pix, Dilate(eroded).Pix)
}

func TestPreprocessor_ApplyOnBinaryIsStable(t *testing.T) {
	img := image.NewGray(image.Rect(0, 0, 10, 10))
	for y := 3; y < 7; y++ {
		for x := 3; x < 7; x++ {
			img.Pix[img.PixOffset(x, y)] = 255
		}
	}
	p := &Preprocessor{Scale: 1, Threshold: 185}
	once := p.Apply(img)
	require.Equal(t, once.Pix, Threshold(once, 185).Pix)
}
