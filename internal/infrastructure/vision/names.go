package vision

import (
	"bufio"
	"errors"
	"fmt"
	"image"
	"os"
	"sort"
	"strings"

	"material-counter/internal/domain/entity"
)

// ErrGoCVDisabled сборка без тега gocv: детектор и чтение видео недоступны
var ErrGoCVDisabled = errors.New("gocv build tag is not enabled")

// DetectorOptions параметры YOLO-детектора
type DetectorOptions struct {
	InputSize     int     // сторона квадратного входа сети
	ConfThreshold float32 // минимальная уверенность до NMS
	NMSThreshold  float32 // порог IoU для подавления
}

// DefaultDetectorOptions значения как у yolov5 detect.py
func DefaultDetectorOptions() DetectorOptions {
	return DetectorOptions{
		InputSize:     640,
		ConfThreshold: 0.25,
		NMSThreshold:  0.45,
	}
}

// LoadClassList читает имена классов модели, по одному на строку.
// Номер строки соответствует индексу класса.
func LoadClassList(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open class names: %w", err)
	}
	defer f.Close()

	var names []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		name := strings.TrimSpace(strings.TrimPrefix(scanner.Text(), "\ufeff"))
		if name == "" {
			continue
		}
		names = append(names, name)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read class names: %w", err)
	}
	if len(names) == 0 {
		return nil, errors.New("class names file is empty")
	}
	return names, nil
}

// className возвращает имя класса или его номер, если имени нет
func className(names []string, id int) string {
	if id >= 0 && id < len(names) {
		return names[id]
	}
	return fmt.Sprintf("class_%d", id)
}

// sortDetections упорядочивает по убыванию уверенности, как после NMS в yolov5
func sortDetections(dets []entity.Detection) {
	sort.SliceStable(dets, func(i, j int) bool {
		return dets[i].Confidence > dets[j].Confidence
	})
}

// Серый фон полей letterbox, как в yolov5
const letterboxFill = 114

// letterbox возвращает сторону квадрата и смещение кадра, вписанного по центру
func letterbox(width, height int) (int, image.Point) {
	side := width
	if height > side {
		side = height
	}
	return side, image.Pt((side-width)/2, (side-height)/2)
}

// unletterbox переводит рамку из координат входа сети в координаты кадра
func unletterbox(cx, cy, w, h, scale float32, pad image.Point) image.Rectangle {
	return image.Rect(
		int((cx-w/2)*scale)-pad.X,
		int((cy-h/2)*scale)-pad.Y,
		int((cx+w/2)*scale)-pad.X,
		int((cy+h/2)*scale)-pad.Y,
	)
}

// sortedClassIDs классы по возрастанию номера, чтобы порядок не зависел от обхода map
func sortedClassIDs(byClass map[int][]int) []int {
	ids := make([]int, 0, len(byClass))
	for id := range byClass {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}
