//go:build !tesseract
// +build !tesseract

package ocr

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStubRecognizer(t *testing.T) {
	_, err := NewTesseractRecognizer(DefaultOptions())
	require.ErrorIs(t, err, ErrTesseractDisabled)
}
