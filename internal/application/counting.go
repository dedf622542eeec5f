package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"material-counter/internal/domain/entity"
	"material-counter/internal/domain/port"
)

var (
	ErrDetectorNotConfigured   = errors.New("detector is not configured")
	ErrRecognizerNotConfigured = errors.New("recognizer is not configured")
)

// CountingDeps внешние зависимости конвейера подсчёта
type CountingDeps struct {
	Preprocessor port.Preprocessor
	Detector     port.ObjectDetector
	Recognizer   port.TextRecognizer
	Images       port.ImageStore
	Annotator    port.Annotator // может быть nil, тогда разметка не рисуется
	Reports      port.ReportWriter
	Names        entity.ClassNameTable
}

// CountingOptions настройки конвейера
type CountingOptions struct {
	Region        RegionConfig
	MinConfidence float64
	Now           func() time.Time
}

// CountRequest пути одного запуска
type CountRequest struct {
	ImagePath        string // исходный скриншот
	PreprocessedPath string // куда сохранить предобработанное изображение
	AnnotatedPath    string // куда сохранить размеченный оригинал, пусто — не сохранять
	ReportBase       string // базовое имя CSV-отчёта, пусто — не писать отчёт
}

// CountResult итог одного запуска
type CountResult struct {
	Counts           *entity.MaterialCount
	Detections       int
	ReportPath       string
	AnnotatedPath    string
	PreprocessedPath string
}

// CountingService подсчитывает материалы на скриншоте
type CountingService struct {
	deps   CountingDeps
	opts   CountingOptions
	filter DetectionFilter
}

// NewCountingService создаёт сервис подсчёта материалов
func NewCountingService(deps CountingDeps, opts CountingOptions) *CountingService {
	if opts.Region == (RegionConfig{}) {
		opts.Region = DefaultRegionConfig()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &CountingService{
		deps:   deps,
		opts:   opts,
		filter: NewScoreFilter(opts.MinConfidence),
	}
}

// Count выполняет весь конвейер для одного изображения.
// Любая ошибка прерывает запуск; пустой результат OCR ошибкой не считается.
func (s *CountingService) Count(ctx context.Context, req CountRequest) (*CountResult, error) {
	if s.deps.Detector == nil {
		return nil, ErrDetectorNotConfigured
	}
	if s.deps.Recognizer == nil {
		return nil, ErrRecognizerNotConfigured
	}

	prep, err := s.deps.Preprocessor.Preprocess(ctx, req.ImagePath, req.PreprocessedPath)
	if err != nil {
		return nil, fmt.Errorf("preprocess: %w", err)
	}

	src, err := s.deps.Images.Load(req.ImagePath)
	if err != nil {
		return nil, fmt.Errorf("load image: %w", err)
	}

	detections, err := s.deps.Detector.Detect(ctx, src)
	if err != nil {
		return nil, fmt.Errorf("detect: %w", err)
	}
	detections = s.filter(detections)

	agg := NewAggregator(s.deps.Names)
	for _, det := range detections {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		quantity := ""
		crop, ok := s.opts.Region.Crop(prep, det.Box)
		if ok {
			raw, err := s.deps.Recognizer.Recognize(ctx, crop)
			if err != nil {
				return nil, fmt.Errorf("recognize %s: %w", det.Class, err)
			}
			quantity = CleanQuantity(raw)
		} else {
			log.Warn().
				Str("class", det.Class).
				Float64("width", det.Box.Width()).
				Msg("Quantity region is empty, skipping OCR")
		}

		recorded := agg.Add(det, s.opts.Region.Region(det.Box), quantity)
		event := log.Info()
		if !recorded {
			event = log.Debug()
		}
		event.
			Str("class", det.Class).
			Str("material", s.deps.Names.DisplayName(det.Class)).
			Str("quantity", quantity).
			Float64("confidence", det.Confidence).
			Bool("recorded", recorded).
			Msg("Material detected")
	}

	result := &CountResult{
		Counts:           agg.Result(),
		Detections:       len(detections),
		PreprocessedPath: req.PreprocessedPath,
	}

	if s.deps.Annotator != nil {
		marks := agg.Marks()
		if req.AnnotatedPath != "" {
			annotated := s.deps.Annotator.AnnotateMaterials(src, marks)
			if err := s.deps.Images.Save(req.AnnotatedPath, annotated); err != nil {
				return nil, fmt.Errorf("save annotated image: %w", err)
			}
			result.AnnotatedPath = req.AnnotatedPath
		}
		if req.PreprocessedPath != "" {
			annotated := s.deps.Annotator.AnnotatePreprocessed(prep, marks, s.opts.Region.Scale)
			if err := s.deps.Images.Save(req.PreprocessedPath, annotated); err != nil {
				return nil, fmt.Errorf("save preprocessed image: %w", err)
			}
		}
	}

	if req.ReportBase != "" {
		path, err := s.deps.Reports.Write(result.Counts, req.ReportBase, s.opts.Now())
		if err != nil {
			return nil, fmt.Errorf("write report: %w", err)
		}
		result.ReportPath = path
	}

	return result, nil
}
