// Package report сохраняет таблицу материалов в CSV.
package report

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/multierr"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"material-counter/internal/domain/entity"
	"material-counter/internal/domain/port"
)

const (
	headerLayout   = "2006-01-02 15:04:05"
	filenameLayout = "2006-01-02 15-04-05"
)

// CSVWriter пишет отчёт в UTF-8 с BOM, чтобы Excel открывал китайские имена без искажений
type CSVWriter struct{}

// NewCSVWriter создаёт писатель отчётов
func NewCSVWriter() *CSVWriter {
	return &CSVWriter{}
}

// FileName вставляет время перед расширением: "合成素材.csv" → "合成素材 2024-05-01 12-30-45.csv"
func FileName(basePath string, now time.Time) string {
	ext := filepath.Ext(basePath)
	return strings.TrimSuffix(basePath, ext) + " " + now.Format(filenameLayout) + ext
}

// Write пишет отчёт целиком во временный файл и переименовывает его
func (w *CSVWriter) Write(count *entity.MaterialCount, basePath string, now time.Time) (path string, err error) {
	path = FileName(basePath, now)

	tmp, err := os.CreateTemp(filepath.Dir(path), ".report-*.csv")
	if err != nil {
		return "", fmt.Errorf("create report: %w", err)
	}
	defer func() {
		if err != nil {
			_ = os.Remove(tmp.Name())
		}
	}()

	enc := transform.NewWriter(tmp, unicode.UTF8BOM.NewEncoder())
	cw := csv.NewWriter(enc)

	writeErr := cw.Write([]string{now.Format(headerLayout)})
	for _, row := range count.Rows() {
		if writeErr != nil {
			break
		}
		writeErr = cw.Write(row[:])
	}
	cw.Flush()
	writeErr = multierr.Combine(writeErr, cw.Error(), enc.Close(), tmp.Close())
	if writeErr != nil {
		err = fmt.Errorf("write report: %w", writeErr)
		return "", err
	}

	if err = os.Rename(tmp.Name(), path); err != nil {
		return "", fmt.Errorf("rename report: %w", err)
	}
	return path, nil
}

var _ port.ReportWriter = (*CSVWriter)(nil)
