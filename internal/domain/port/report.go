package port

import (
	"time"

	"material-counter/internal/domain/entity"
)

// ReportWriter сохраняет таблицу материалов в файл
type ReportWriter interface {
	// Write пишет отчёт рядом с basePath и возвращает фактический путь файла
	Write(count *entity.MaterialCount, basePath string, now time.Time) (string, error)
}
