//go:build !gocv
// +build !gocv

package vision

import (
	"image"

	"github.com/disintegration/imaging"
)

func (p *Preprocessor) run(srcPath string) (*image.Gray, error) {
	gray, err := LoadGray(srcPath)
	if err != nil {
		return nil, err
	}
	return p.Apply(gray), nil
}

// Apply выполняет обработку над изображением в памяти
func (p *Preprocessor) Apply(gray *image.Gray) *image.Gray {
	img := gray
	if p.Scale > 1 {
		b := gray.Bounds()
		img = toGray(imaging.Resize(gray, b.Dx()*p.Scale, b.Dy()*p.Scale, imaging.Linear))
	}
	img = EqualizeHist(img)
	img = Threshold(img, p.Threshold)
	img = Erode(img)
	return Dilate(img)
}
