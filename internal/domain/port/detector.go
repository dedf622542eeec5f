package port

import (
	"context"
	"image"

	"material-counter/internal/domain/entity"
)

// ObjectDetector интерфейс детектора объектов
type ObjectDetector interface {
	// Detect возвращает найденные объекты в координатах переданного изображения
	Detect(ctx context.Context, img image.Image) ([]entity.Detection, error)
}

// ModelReloader подменяет веса детектора без перезапуска.
// Если загрузка не удалась, продолжает работать прежняя модель.
type ModelReloader interface {
	Reload(modelPath string) error
}

// ModelHistory запоминает последнюю успешно загруженную модель
type ModelHistory interface {
	RememberModel(modelPath string) error
}
