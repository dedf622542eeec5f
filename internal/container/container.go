package container

import (
	"time"

	app "material-counter/internal/application"
	"material-counter/internal/domain/entity"
	"material-counter/internal/domain/port"
	"material-counter/internal/infrastructure/report"
	"material-counter/internal/infrastructure/vision"
)

type Container struct {
	UserService      *app.UserService
	CountingService  *app.CountingService
	DetectionService *app.DetectionService
	ModelService     *app.ModelService
}

// Deps внешние движки; detector и recognizer могут быть nil
type Deps struct {
	Users         port.UserRepository
	Detector      port.ObjectDetector
	Recognizer    port.TextRecognizer
	Models        port.ModelReloader // nil, если детектор не умеет менять веса
	ModelHistory  port.ModelHistory
	Annotator     port.Annotator
	Names         entity.ClassNameTable
	MinConfidence float64
	FrameInterval time.Duration
}

func New(deps Deps) *Container {
	images := vision.NewFileStore()

	counting := app.NewCountingService(app.CountingDeps{
		Preprocessor: vision.NewPreprocessor(),
		Detector:     deps.Detector,
		Recognizer:   deps.Recognizer,
		Images:       images,
		Annotator:    deps.Annotator,
		Reports:      report.NewCSVWriter(),
		Names:        deps.Names,
	}, app.CountingOptions{
		Region:        app.DefaultRegionConfig(),
		MinConfidence: deps.MinConfidence,
	})

	return &Container{
		UserService:      app.NewUserService(deps.Users),
		CountingService:  counting,
		DetectionService: app.NewDetectionService(deps.Detector, images, deps.Annotator, deps.MinConfidence, deps.FrameInterval),
		ModelService:     app.NewModelService(deps.Models, deps.ModelHistory),
	}
}
