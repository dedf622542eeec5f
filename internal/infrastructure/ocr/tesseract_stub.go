//go:build !tesseract
// +build !tesseract

package ocr

import (
	"context"
	"image"
)

// TesseractRecognizer заглушка для сборки без libtesseract
type TesseractRecognizer struct{}

// NewTesseractRecognizer возвращает ошибку, если сборка без тега tesseract
func NewTesseractRecognizer(opts Options) (*TesseractRecognizer, error) {
	_ = opts
	return nil, ErrTesseractDisabled
}

func (r *TesseractRecognizer) Recognize(ctx context.Context, crop *image.Gray) (string, error) {
	return "", ErrTesseractDisabled
}

func (r *TesseractRecognizer) Close() error {
	return nil
}
