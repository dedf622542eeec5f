package app

import (
	"context"
	"image"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"material-counter/internal/domain/entity"
)

func newCountingFixture(dets []entity.Detection, answers ...string) (*CountingService, *fakeRecognizer, *fakeReports, *fakeImages, *fakeAnnotator) {
	rec := &fakeRecognizer{answers: answers}
	reports := &fakeReports{}
	images := newFakeImages(image.NewRGBA(image.Rect(0, 0, 200, 200)))
	ann := &fakeAnnotator{}
	svc := NewCountingService(CountingDeps{
		Preprocessor: &fakePreprocessor{img: image.NewGray(image.Rect(0, 0, 400, 400))},
		Detector:     &fakeDetector{detections: dets},
		Recognizer:   rec,
		Images:       images,
		Annotator:    ann,
		Reports:      reports,
		Names:        entity.DefaultMaterialNames(),
	}, CountingOptions{
		Now: func() time.Time { return time.Date(2024, 5, 1, 12, 30, 45, 0, time.Local) },
	})
	return svc, rec, reports, images, ann
}

func TestCountingService_EndToEnd(t *testing.T) {
	dets := []entity.Detection{
		{Class: "Seed", Confidence: 0.9, Box: entity.Box{XMin: 10, YMin: 10, XMax: 60, YMax: 50}},
		{Class: "unknown_x", Confidence: 0.8, Box: entity.Box{XMin: 100, YMin: 100, XMax: 180, YMax: 150}},
	}
	svc, rec, reports, images, ann := newCountingFixture(dets, "5\n", "12\n")

	res, err := svc.Count(context.Background(), CountRequest{
		ImagePath:        "sample.png",
		PreprocessedPath: "prep.png",
		AnnotatedPath:    "annotated.png",
		ReportBase:       "materials.csv",
	})
	require.NoError(t, err)

	require.Equal(t, []entity.ReportRow{
		{"Seed", "种子", "5"},
		{"unknown_x", "unknown_x", "12"},
	}, reports.rows)
	require.Equal(t, "materials.csv", reports.base)
	require.Equal(t, "materials.csv.written", res.ReportPath)
	require.Equal(t, 2, res.Detections)

	require.Equal(t, []image.Rectangle{
		image.Rect(0, 0, 20, 60),
		image.Rect(0, 0, 80, 60),
	}, rec.crops)

	require.Contains(t, images.saved, "annotated.png")
	require.Contains(t, images.saved, "prep.png")
	require.Equal(t, 2, ann.materialMarks)
	require.Equal(t, 2, ann.prepScale)
}

func TestCountingService_FirstWriteWins(t *testing.T) {
	box := entity.Box{XMin: 10, YMin: 10, XMax: 60, YMax: 50}
	dets := []entity.Detection{
		{Class: "Seed", Confidence: 0.9, Box: box},
		{Class: "Seed", Confidence: 0.9, Box: box},
	}
	svc, _, _, _, ann := newCountingFixture(dets, "3", "7")

	res, err := svc.Count(context.Background(), CountRequest{ImagePath: "a.png", PreprocessedPath: "p.png"})
	require.NoError(t, err)

	e, ok := res.Counts.Get("Seed")
	require.True(t, ok)
	require.Equal(t, "3", e.Quantity)
	require.Equal(t, 1, res.Counts.Len())
	require.Empty(t, res.ReportPath)
	require.Zero(t, ann.materialMarks)
}

func TestCountingService_NarrowBoxGetsEmptyQuantity(t *testing.T) {
	dets := []entity.Detection{
		{Class: "Metal", Confidence: 0.9, Box: entity.Box{XMin: 10, YMin: 10, XMax: 40, YMax: 50}},
	}
	svc, rec, _, _, _ := newCountingFixture(dets, "9")

	res, err := svc.Count(context.Background(), CountRequest{ImagePath: "a.png"})
	require.NoError(t, err)
	require.Empty(t, rec.crops)

	e, ok := res.Counts.Get("Metal")
	require.True(t, ok)
	require.Equal(t, "", e.Quantity)
	require.Equal(t, "金属", e.DisplayName)
}

func TestCountingService_LowConfidenceDropped(t *testing.T) {
	dets := []entity.Detection{
		{Class: "Seed", Confidence: 0.1, Box: entity.Box{XMin: 10, YMin: 10, XMax: 60, YMax: 50}},
	}
	rec := &fakeRecognizer{}
	svc := NewCountingService(CountingDeps{
		Preprocessor: &fakePreprocessor{img: image.NewGray(image.Rect(0, 0, 400, 400))},
		Detector:     &fakeDetector{detections: dets},
		Recognizer:   rec,
		Images:       newFakeImages(image.NewRGBA(image.Rect(0, 0, 200, 200))),
		Reports:      &fakeReports{},
		Names:        entity.DefaultMaterialNames(),
	}, CountingOptions{MinConfidence: 0.5})

	res, err := svc.Count(context.Background(), CountRequest{ImagePath: "a.png"})
	require.NoError(t, err)
	require.Zero(t, res.Counts.Len())
	require.Zero(t, res.Detections)
}

func TestCountingService_Errors(t *testing.T) {
	dets := []entity.Detection{
		{Class: "Seed", Confidence: 0.9, Box: entity.Box{XMin: 10, YMin: 10, XMax: 60, YMax: 50}},
	}

	t.Run("no detector", func(t *testing.T) {
		svc := NewCountingService(CountingDeps{Recognizer: &fakeRecognizer{}}, CountingOptions{})
		_, err := svc.Count(context.Background(), CountRequest{})
		require.ErrorIs(t, err, ErrDetectorNotConfigured)
	})

	t.Run("preprocess", func(t *testing.T) {
		svc, _, _, _, _ := newCountingFixture(dets)
		svc.deps.Preprocessor = &fakePreprocessor{err: errBoom}
		_, err := svc.Count(context.Background(), CountRequest{ImagePath: "a.png"})
		require.ErrorIs(t, err, errBoom)
	})

	t.Run("detector", func(t *testing.T) {
		svc, _, _, _, _ := newCountingFixture(dets)
		svc.deps.Detector = &fakeDetector{err: errBoom}
		_, err := svc.Count(context.Background(), CountRequest{ImagePath: "a.png"})
		require.ErrorIs(t, err, errBoom)
	})

	t.Run("recognizer", func(t *testing.T) {
		svc, rec, _, _, _ := newCountingFixture(dets)
		rec.err = errBoom
		_, err := svc.Count(context.Background(), CountRequest{ImagePath: "a.png"})
		require.ErrorIs(t, err, errBoom)
	})

	t.Run("report", func(t *testing.T) {
		svc, _, reports, _, _ := newCountingFixture(dets, "1")
		reports.err = errBoom
		_, err := svc.Count(context.Background(), CountRequest{ImagePath: "a.png", ReportBase: "r.csv"})
		require.ErrorIs(t, err, errBoom)
	})

	t.Run("cancelled", func(t *testing.T) {
		svc, _, _, _, _ := newCountingFixture(dets, "1")
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := svc.Count(ctx, CountRequest{ImagePath: "a.png"})
		require.ErrorIs(t, err, context.Canceled)
	})
}
