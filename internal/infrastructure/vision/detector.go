//go:build gocv
// +build gocv

package vision

import (
	"context"
	"errors"
	"fmt"
	"image"
	"sync"

	"gocv.io/x/gocv"

	"material-counter/internal/domain/entity"
	"material-counter/internal/domain/port"
)

// YOLODetector запускает YOLOv5 в формате ONNX через OpenCV DNN
type YOLODetector struct {
	mu    sync.Mutex
	net   gocv.Net
	names []string
	opts  DetectorOptions
}

// NewYOLODetector загружает веса модели
func NewYOLODetector(modelPath string, names []string, opts DetectorOptions) (*YOLODetector, error) {
	net, err := readNet(modelPath)
	if err != nil {
		return nil, err
	}
	return &YOLODetector{net: net, names: names, opts: opts}, nil
}

// Reload подменяет веса; старая сеть закрывается только после успешной загрузки новой
func (d *YOLODetector) Reload(modelPath string) error {
	net, err := readNet(modelPath)
	if err != nil {
		return err
	}

	d.mu.Lock()
	old := d.net
	d.net = net
	d.mu.Unlock()

	return old.Close()
}

// Close освобождает сеть
func (d *YOLODetector) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.net.Close()
}

// Detect возвращает объекты в координатах исходного изображения
func (d *YOLODetector) Detect(ctx context.Context, img image.Image) ([]entity.Detection, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	mat, err := gocv.ImageToMatRGB(img)
	if err != nil {
		return nil, fmt.Errorf("convert image: %w", err)
	}
	defer mat.Close()
	if mat.Empty() {
		return nil, errors.New("empty image")
	}

	// Letterbox как в yolov5: кадр по центру квадрата, поля серые (114).
	side, pad := letterbox(mat.Cols(), mat.Rows())
	square := gocv.NewMatWithSizeFromScalar(gocv.NewScalar(letterboxFill, letterboxFill, letterboxFill, 0), side, side, gocv.MatTypeCV8UC3)
	defer square.Close()
	roi := square.Region(image.Rectangle{Min: pad, Max: pad.Add(image.Pt(mat.Cols(), mat.Rows()))})
	mat.CopyTo(&roi)
	roi.Close()

	size := d.opts.InputSize
	scale := float32(side) / float32(size)

	blob := gocv.BlobFromImage(square, 1.0/255.0, image.Pt(size, size), gocv.NewScalar(0, 0, 0, 0), true, false)
	defer blob.Close()

	d.mu.Lock()
	d.net.SetInput(blob, "")
	out := d.net.Forward("")
	d.mu.Unlock()
	defer out.Close()

	return d.parse(out, scale, pad, mat.Cols(), mat.Rows())
}

// parse разбирает выход формы [1, N, 5+классы]: cx, cy, w, h, objectness, оценки классов
func (d *YOLODetector) parse(out gocv.Mat, scale float32, pad image.Point, width, height int) ([]entity.Detection, error) {
	dims := out.Size()
	if len(dims) != 3 || dims[2] < 6 {
		return nil, fmt.Errorf("unexpected output shape %v", dims)
	}
	rows, cols := dims[1], dims[2]

	byClass := make(map[int][]int)
	var boxes []image.Rectangle
	var scores []float32
	var classes []int

	for i := 0; i < rows; i++ {
		objectness := out.GetFloatAt3(0, i, 4)
		if objectness < d.opts.ConfThreshold {
			continue
		}
		bestClass, bestScore := 0, float32(0)
		for c := 5; c < cols; c++ {
			if s := out.GetFloatAt3(0, i, c); s > bestScore {
				bestClass, bestScore = c-5, s
			}
		}
		conf := objectness * bestScore
		if conf < d.opts.ConfThreshold {
			continue
		}

		cx := out.GetFloatAt3(0, i, 0)
		cy := out.GetFloatAt3(0, i, 1)
		w := out.GetFloatAt3(0, i, 2)
		h := out.GetFloatAt3(0, i, 3)
		rect := unletterbox(cx, cy, w, h, scale, pad).Intersect(image.Rect(0, 0, width, height))
		if rect.Empty() {
			continue
		}

		byClass[bestClass] = append(byClass[bestClass], len(boxes))
		boxes = append(boxes, rect)
		scores = append(scores, conf)
		classes = append(classes, bestClass)
	}

	detections := make([]entity.Detection, 0, len(boxes))
	for _, id := range sortedClassIDs(byClass) {
		idx := byClass[id]
		classBoxes := make([]image.Rectangle, len(idx))
		classScores := make([]float32, len(idx))
		for j, k := range idx {
			classBoxes[j] = boxes[k]
			classScores[j] = scores[k]
		}
		for _, keep := range gocv.NMSBoxes(classBoxes, classScores, d.opts.ConfThreshold, d.opts.NMSThreshold) {
			k := idx[keep]
			r := boxes[k]
			detections = append(detections, entity.Detection{
				Box: entity.Box{
					XMin: float64(r.Min.X),
					YMin: float64(r.Min.Y),
					XMax: float64(r.Max.X),
					YMax: float64(r.Max.Y),
				},
				Class:      className(d.names, classes[k]),
				Confidence: float64(scores[k]),
			})
		}
	}

	sortDetections(detections)
	return detections, nil
}

func readNet(modelPath string) (gocv.Net, error) {
	net := gocv.ReadNet(modelPath, "")
	if net.Empty() {
		return net, fmt.Errorf("failed to load model %s", modelPath)
	}
	if err := net.SetPreferableBackend(gocv.NetBackendDefault); err != nil {
		return net, fmt.Errorf("set backend: %w", err)
	}
	if err := net.SetPreferableTarget(gocv.NetTargetCPU); err != nil {
		return net, fmt.Errorf("set target: %w", err)
	}
	return net, nil
}

var _ port.ObjectDetector = (*YOLODetector)(nil)
