package app

import "strings"

var quantityNoise = strings.NewReplacer("-", " ", ".", " ")

// CleanQuantity убирает типичный шум OCR для этого шрифта: '-' и '.' заменяются пробелами,
// пробельные символы по краям отбрасываются.
func CleanQuantity(raw string) string {
	return strings.TrimSpace(quantityNoise.Replace(raw))
}
