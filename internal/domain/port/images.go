package port

import (
	"context"
	"image"

	"material-counter/internal/domain/entity"
)

// Preprocessor готовит скриншот к распознаванию цифр
type Preprocessor interface {
	// Preprocess читает srcPath, сохраняет результат в dstPath и возвращает его
	Preprocess(ctx context.Context, srcPath, dstPath string) (*image.Gray, error)
}

// ImageStore загружает и сохраняет изображения
type ImageStore interface {
	Load(path string) (image.Image, error)
	Save(path string, img image.Image) error
}

// Annotator рисует разметку поверх изображений
type Annotator interface {
	// AnnotateMaterials размечает оригинал: рамки, имена и количества
	AnnotateMaterials(img image.Image, marks []entity.MaterialMark) image.Image

	// AnnotatePreprocessed размечает увеличенное в scale раз изображение
	AnnotatePreprocessed(img image.Image, marks []entity.MaterialMark, scale int) image.Image

	// AnnotateDetections рисует рамки с классом и уверенностью
	AnnotateDetections(img image.Image, detections []entity.Detection) image.Image
}
