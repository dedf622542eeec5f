package app

import (
	"context"
	"errors"
	"fmt"
	"image"
	"time"

	"github.com/rs/zerolog/log"
	"go.uber.org/atomic"

	"material-counter/internal/domain/entity"
	"material-counter/internal/domain/port"
)

// DefaultFrameInterval период опроса кадров видео
const DefaultFrameInterval = 50 * time.Millisecond

// DetectionService прогоняет детектор по изображениям и кадрам видео
type DetectionService struct {
	detector  port.ObjectDetector
	images    port.ImageStore
	annotator port.Annotator
	filter    DetectionFilter
	interval  time.Duration
}

// NewDetectionService создаёт сервис детекции
func NewDetectionService(detector port.ObjectDetector, images port.ImageStore, annotator port.Annotator, minConfidence float64, interval time.Duration) *DetectionService {
	if interval <= 0 {
		interval = DefaultFrameInterval
	}
	return &DetectionService{
		detector:  detector,
		images:    images,
		annotator: annotator,
		filter:    NewScoreFilter(minConfidence),
		interval:  interval,
	}
}

// DetectImage размечает одно изображение и сохраняет результат в outPath
func (s *DetectionService) DetectImage(ctx context.Context, inPath, outPath string) ([]entity.Detection, error) {
	if s.detector == nil {
		return nil, ErrDetectorNotConfigured
	}

	img, err := s.images.Load(inPath)
	if err != nil {
		return nil, fmt.Errorf("load image: %w", err)
	}

	detections, rendered, err := s.detectFrame(ctx, img)
	if err != nil {
		return nil, err
	}

	if outPath != "" {
		if err := s.images.Save(outPath, rendered); err != nil {
			return nil, fmt.Errorf("save annotated image: %w", err)
		}
	}
	return detections, nil
}

// VideoStats итог обработки видео
type VideoStats struct {
	Frames  int // обработанные кадры
	Dropped int // пропущенные тики, пока шла обработка предыдущего кадра
}

// RunVideo опрашивает источник по таймеру. Одновременно обрабатывается не больше
// одного кадра: тик, пришедший во время обработки, пропускается.
// Конец потока завершает работу без ошибки.
func (s *DetectionService) RunVideo(ctx context.Context, source port.FrameSource, sink port.FrameSink) (VideoStats, error) {
	var stats VideoStats
	if s.detector == nil {
		return stats, ErrDetectorNotConfigured
	}

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	busy := atomic.NewBool(false)
	done := make(chan error, 1)
	index, pending := 0, 0
	// дожидаемся запущенных обработчиков, чтобы источник не читался после выхода
	drain := func() {
		for ; pending > 0; pending-- {
			<-done
		}
	}

	for {
		select {
		case <-ctx.Done():
			drain()
			return stats, ctx.Err()

		case err := <-done:
			pending--
			switch {
			case errors.Is(err, port.ErrEndOfStream):
				drain()
				log.Info().
					Int("frames", stats.Frames).
					Int("dropped_ticks", stats.Dropped).
					Msg("Video inference finished")
				return stats, nil
			case err != nil:
				drain()
				return stats, err
			}
			stats.Frames++

		case <-ticker.C:
			if !busy.CompareAndSwap(false, true) {
				stats.Dropped++
				continue
			}
			go func(i int) {
				done <- s.processFrame(ctx, source, sink, i)
				busy.Store(false)
			}(index)
			index++
			pending++
		}
	}
}

func (s *DetectionService) processFrame(ctx context.Context, source port.FrameSource, sink port.FrameSink, index int) error {
	frame, err := source.Next(ctx)
	if err != nil {
		if errors.Is(err, port.ErrEndOfStream) {
			return err
		}
		return fmt.Errorf("read frame %d: %w", index, err)
	}

	_, rendered, err := s.detectFrame(ctx, frame)
	if err != nil {
		return fmt.Errorf("frame %d: %w", index, err)
	}

	if err := sink.Write(index, rendered); err != nil {
		return fmt.Errorf("write frame %d: %w", index, err)
	}
	return nil
}

func (s *DetectionService) detectFrame(ctx context.Context, img image.Image) ([]entity.Detection, image.Image, error) {
	detections, err := s.detector.Detect(ctx, img)
	if err != nil {
		return nil, nil, fmt.Errorf("detect: %w", err)
	}
	detections = s.filter(detections)

	rendered := img
	if s.annotator != nil {
		rendered = s.annotator.AnnotateDetections(img, detections)
	}
	return detections, rendered, nil
}
