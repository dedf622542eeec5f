package port

import (
	"context"
	"errors"
	"image"
)

// ErrEndOfStream источник кадров исчерпан
var ErrEndOfStream = errors.New("end of stream")

// FrameSource источник кадров видео
type FrameSource interface {
	// Next возвращает следующий кадр или ErrEndOfStream
	Next(ctx context.Context) (image.Image, error)
	Close() error
}

// FrameSink приёмник размеченных кадров
type FrameSink interface {
	Write(index int, frame image.Image) error
}
