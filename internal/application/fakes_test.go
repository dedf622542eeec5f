package app

import (
	"context"
	"errors"
	"image"
	"sync"
	"time"

	"material-counter/internal/domain/entity"
	"material-counter/internal/domain/port"
)

type fakePreprocessor struct {
	img *image.Gray
	err error
}

func (f *fakePreprocessor) Preprocess(ctx context.Context, srcPath, dstPath string) (*image.Gray, error) {
	return f.img, f.err
}

type fakeDetector struct {
	detections []entity.Detection
	err        error
	delay      time.Duration

	mu      sync.Mutex
	active  int
	maxSeen int
	calls   int
}

func (f *fakeDetector) Detect(ctx context.Context, img image.Image) ([]entity.Detection, error) {
	f.mu.Lock()
	f.active++
	f.calls++
	if f.active > f.maxSeen {
		f.maxSeen = f.active
	}
	f.mu.Unlock()

	if f.delay > 0 {
		time.Sleep(f.delay)
	}

	f.mu.Lock()
	f.active--
	f.mu.Unlock()
	return f.detections, f.err
}

// fakeRecognizer отдаёт ответы по порядку вызовов
type fakeRecognizer struct {
	answers []string
	err     error
	crops   []image.Rectangle
}

func (f *fakeRecognizer) Recognize(ctx context.Context, crop *image.Gray) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.crops = append(f.crops, crop.Bounds())
	if len(f.answers) == 0 {
		return "", nil
	}
	answer := f.answers[0]
	f.answers = f.answers[1:]
	return answer, nil
}

type fakeImages struct {
	img   image.Image
	err   error
	saved map[string]image.Image
}

func newFakeImages(img image.Image) *fakeImages {
	return &fakeImages{img: img, saved: make(map[string]image.Image)}
}

func (f *fakeImages) Load(path string) (image.Image, error) {
	return f.img, f.err
}

func (f *fakeImages) Save(path string, img image.Image) error {
	f.saved[path] = img
	return nil
}

type fakeAnnotator struct {
	materialMarks int
	prepScale     int
	detections    int
}

func (f *fakeAnnotator) AnnotateMaterials(img image.Image, marks []entity.MaterialMark) image.Image {
	f.materialMarks = len(marks)
	return img
}

func (f *fakeAnnotator) AnnotatePreprocessed(img image.Image, marks []entity.MaterialMark, scale int) image.Image {
	f.prepScale = scale
	return img
}

func (f *fakeAnnotator) AnnotateDetections(img image.Image, detections []entity.Detection) image.Image {
	f.detections += len(detections)
	return img
}

type fakeReports struct {
	rows []entity.ReportRow
	base string
	at   time.Time
	err  error
}

func (f *fakeReports) Write(count *entity.MaterialCount, basePath string, now time.Time) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	for _, r := range count.Rows() {
		f.rows = append(f.rows, r)
	}
	f.base = basePath
	f.at = now
	return basePath + ".written", nil
}

type fakeFrames struct {
	mu     sync.Mutex
	frames []image.Image
	err    error
}

func (f *fakeFrames) Next(ctx context.Context) (image.Image, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	if len(f.frames) == 0 {
		return nil, port.ErrEndOfStream
	}
	frame := f.frames[0]
	f.frames = f.frames[1:]
	return frame, nil
}

func (f *fakeFrames) Close() error { return nil }

type fakeSink struct {
	mu      sync.Mutex
	indexes []int
	err     error
}

func (f *fakeSink) Write(index int, frame image.Image) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.indexes = append(f.indexes, index)
	return nil
}

var errBoom = errors.New("boom")

type fakeReloader struct {
	err    error
	loaded []string
}

func (f *fakeReloader) Reload(modelPath string) error {
	if f.err != nil {
		return f.err
	}
	f.loaded = append(f.loaded, modelPath)
	return nil
}

type fakeHistory struct {
	err    error
	models []string
}

func (f *fakeHistory) RememberModel(modelPath string) error {
	f.models = append(f.models, modelPath)
	return f.err
}
