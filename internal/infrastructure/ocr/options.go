// Package ocr распознаёт количество материала на вырезанном фрагменте.
package ocr

import "errors"

// ErrTesseractDisabled сборка без тега tesseract
var ErrTesseractDisabled = errors.New("tesseract build tag is not enabled")

// DigitsWhitelist набор символов, которые может вернуть распознавание
const DigitsWhitelist = "0123456789"

// Options параметры движка
type Options struct {
	Language  string
	Whitelist string
	// SingleWord режим сегментации «одно слово» (psm 8)
	SingleWord bool
}

// DefaultOptions только цифры, одно слово
func DefaultOptions() Options {
	return Options{
		Language:   "eng",
		Whitelist:  DigitsWhitelist,
		SingleWord: true,
	}
}
