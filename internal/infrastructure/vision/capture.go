//go:build gocv
// +build gocv

package vision

import (
	"context"
	"fmt"
	"image"

	"gocv.io/x/gocv"

	"material-counter/internal/domain/port"
)

// VideoFileSource читает кадры видеофайла через OpenCV
type VideoFileSource struct {
	capture *gocv.VideoCapture
	frame   gocv.Mat
}

// OpenVideoFile открывает видео (mp4, avi и всё, что понимает сборка OpenCV)
func OpenVideoFile(path string) (*VideoFileSource, error) {
	capture, err := gocv.VideoCaptureFile(path)
	if err != nil {
		return nil, fmt.Errorf("open video %s: %w", path, err)
	}
	return &VideoFileSource{capture: capture, frame: gocv.NewMat()}, nil
}

// Next возвращает следующий кадр; неудачное чтение считается концом потока
func (s *VideoFileSource) Next(ctx context.Context) (image.Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if ok := s.capture.Read(&s.frame); !ok || s.frame.Empty() {
		return nil, port.ErrEndOfStream
	}
	return s.frame.ToImage()
}

func (s *VideoFileSource) Close() error {
	frameErr := s.frame.Close()
	if err := s.capture.Close(); err != nil {
		return err
	}
	return frameErr
}

var _ port.FrameSource = (*VideoFileSource)(nil)
