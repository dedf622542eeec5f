//go:build tesseract
// +build tesseract

package ocr

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"sync"

	"github.com/disintegration/imaging"
	"github.com/otiai10/gosseract/v2"

	"material-counter/internal/domain/port"
)

// TesseractRecognizer распознаёт цифры через libtesseract.
// Клиент не потокобезопасен, поэтому вызовы сериализуются.
type TesseractRecognizer struct {
	mu     sync.Mutex
	client *gosseract.Client
}

// NewTesseractRecognizer настраивает клиента под цифры
func NewTesseractRecognizer(opts Options) (*TesseractRecognizer, error) {
	client := gosseract.NewClient()
	if opts.Language != "" {
		if err := client.SetLanguage(opts.Language); err != nil {
			client.Close()
			return nil, fmt.Errorf("set language: %w", err)
		}
	}
	if opts.Whitelist != "" {
		if err := client.SetWhitelist(opts.Whitelist); err != nil {
			client.Close()
			return nil, fmt.Errorf("set whitelist: %w", err)
		}
	}
	if opts.SingleWord {
		if err := client.SetPageSegMode(gosseract.PSM_SINGLE_WORD); err != nil {
			client.Close()
			return nil, fmt.Errorf("set page seg mode: %w", err)
		}
	}
	return &TesseractRecognizer{client: client}, nil
}

// Recognize возвращает сырой текст; очистка остаётся вызывающему
func (r *TesseractRecognizer) Recognize(ctx context.Context, crop *image.Gray) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, crop, imaging.PNG); err != nil {
		return "", fmt.Errorf("encode crop: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.client.SetImageFromBytes(buf.Bytes()); err != nil {
		return "", fmt.Errorf("set image: %w", err)
	}
	text, err := r.client.Text()
	if err != nil {
		return "", fmt.Errorf("tesseract: %w", err)
	}
	return text, nil
}

func (r *TesseractRecognizer) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.client.Close()
}

var _ port.TextRecognizer = (*TesseractRecognizer)(nil)
