package port

import (
	"context"
	"image"
)

// TextRecognizer интерфейс распознавания цифр на небольшом фрагменте
type TextRecognizer interface {
	// Recognize возвращает распознанный текст; пустая строка — допустимый результат
	Recognize(ctx context.Context, crop *image.Gray) (string, error)
}
