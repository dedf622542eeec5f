//go:build !gocv
// +build !gocv

package vision

import (
	"context"
	"image"

	"material-counter/internal/domain/entity"
)

// YOLODetector заглушка для сборки без OpenCV
type YOLODetector struct{}

// NewYOLODetector возвращает ошибку, если сборка без тега gocv
func NewYOLODetector(modelPath string, names []string, opts DetectorOptions) (*YOLODetector, error) {
	_ = modelPath
	_ = names
	_ = opts
	return nil, ErrGoCVDisabled
}

func (d *YOLODetector) Reload(modelPath string) error {
	return ErrGoCVDisabled
}

func (d *YOLODetector) Close() error {
	return nil
}

func (d *YOLODetector) Detect(ctx context.Context, img image.Image) ([]entity.Detection, error) {
	return nil, ErrGoCVDisabled
}

// VideoFileSource заглушка для сборки без OpenCV
type VideoFileSource struct{}

// OpenVideoFile возвращает ошибку, если сборка без тега gocv
func OpenVideoFile(path string) (*VideoFileSource, error) {
	_ = path
	return nil, ErrGoCVDisabled
}

func (s *VideoFileSource) Next(ctx context.Context) (image.Image, error) {
	return nil, ErrGoCVDisabled
}

func (s *VideoFileSource) Close() error {
	return nil
}
