//go:build gocv
// +build gocv

package vision

import (
	"fmt"
	"image"

	"gocv.io/x/gocv"
)

func (p *Preprocessor) run(srcPath string) (*image.Gray, error) {
	src := gocv.IMRead(srcPath, gocv.IMReadGrayScale)
	defer src.Close()
	if src.Empty() {
		return nil, fmt.Errorf("%w: %s", ErrDecode, srcPath)
	}

	scaled := gocv.NewMat()
	defer scaled.Close()
	if p.Scale > 1 {
		size := image.Pt(src.Cols()*p.Scale, src.Rows()*p.Scale)
		gocv.Resize(src, &scaled, size, 0, 0, gocv.InterpolationLinear)
	} else {
		src.CopyTo(&scaled)
	}

	equalized := gocv.NewMat()
	defer equalized.Close()
	gocv.EqualizeHist(scaled, &equalized)

	// THRESH_BINARY оставляет белыми значения строго больше порога
	binary := gocv.NewMat()
	defer binary.Close()
	gocv.Threshold(equalized, &binary, float32(p.Threshold)-1, 255, gocv.ThresholdBinary)

	kernel := gocv.Ones(3, 3, gocv.MatTypeCV8U)
	defer kernel.Close()

	eroded := gocv.NewMat()
	defer eroded.Close()
	gocv.Erode(binary, &eroded, kernel)

	dilated := gocv.NewMat()
	defer dilated.Close()
	gocv.Dilate(eroded, &dilated, kernel)

	img, err := dilated.ToImage()
	if err != nil {
		return nil, fmt.Errorf("convert preprocessed image: %w", err)
	}
	return toGray(img), nil
}
