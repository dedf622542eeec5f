package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"

	"material-counter/config"
	telegram "material-counter/internal/api"
	app "material-counter/internal/application"
	"material-counter/internal/container"
	"material-counter/internal/domain/entity"
	"material-counter/internal/domain/port"
	"material-counter/internal/infrastructure/ocr"
	"material-counter/internal/infrastructure/storage"
	"material-counter/internal/infrastructure/vision"
	"material-counter/internal/logging"
)

const (
	flagImage  = "image"
	flagInput  = "input"
	flagOutput = "out"
	flagModel  = "model"
	flagNames  = "names"
)

// runtime общее состояние команд
type runtime struct {
	cfg      *config.Config
	paths    *storage.PathMemory
	closeLog func() error
}

func main() {
	rt := &runtime{}

	modelFlag := &cli.StringFlag{Name: flagModel, Usage: "YOLO weights (.onnx); defaults to MODEL_PATH or the last used model"}
	namesFlag := &cli.StringFlag{Name: flagNames, Usage: "class names file of the model, one per line"}

	cliApp := &cli.App{
		Name:  "material-counter",
		Usage: "count materials on screenshots and run the object detector on images and videos",
		Before: func(c *cli.Context) error {
			return rt.init()
		},
		After: func(c *cli.Context) error {
			if rt.closeLog != nil {
				return rt.closeLog()
			}
			return nil
		},
		Commands: []*cli.Command{
			{
				Name:  "count",
				Usage: "detect materials, read quantities and write a CSV report",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: flagImage, Required: true, Usage: "screenshot to analyse"},
					&cli.StringFlag{Name: flagOutput, Usage: "output directory, defaults to OUTPUT_DIR"},
					modelFlag,
					namesFlag,
				},
				Action: rt.count,
			},
			{
				Name:  "detect",
				Usage: "draw detections on a single image",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: flagImage, Required: true, Usage: "image to analyse"},
					&cli.StringFlag{Name: flagOutput, Usage: "annotated output image", Value: "detected.png"},
					modelFlag,
					namesFlag,
				},
				Action: rt.detect,
			},
			{
				Name:  "video",
				Usage: "run the detector over a video file or a directory of frames",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: flagInput, Required: true, Usage: "video file or directory with frames"},
					&cli.StringFlag{Name: flagOutput, Usage: "directory for annotated frames", Value: "frames"},
					modelFlag,
					namesFlag,
				},
				Action: rt.video,
			},
			{
				Name:   "bot",
				Usage:  "serve the Telegram bot",
				Flags:  []cli.Flag{modelFlag, namesFlag},
				Action: rt.bot,
			},
		},
	}

	if err := cliApp.Run(os.Args); err != nil {
		log.Fatal().Err(err).Msg("Command failed")
	}
}

func (rt *runtime) init() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	rt.cfg = cfg

	rt.closeLog, err = logging.Setup(cfg.LogDir, cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("setup logging: %w", err)
	}

	rt.paths, err = storage.OpenPathMemory(cfg.StatePath)
	if err != nil {
		return err
	}
	return nil
}

func (rt *runtime) count(c *cli.Context) error {
	ctx, stop := signalContext(c.Context)
	defer stop()

	imagePath := c.String(flagImage)
	rt.remember(storage.KeyImageDir, imagePath)

	outDir := c.String(flagOutput)
	if outDir == "" {
		outDir = rt.cfg.OutputDir
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	detector, closeDetector, err := rt.detector(c)
	if err != nil {
		return err
	}
	defer closeDetector()

	opts := ocr.DefaultOptions()
	opts.Language = rt.cfg.OCRLanguage
	recognizer, err := ocr.NewTesseractRecognizer(opts)
	if err != nil {
		return fmt.Errorf("init recognizer: %w", err)
	}
	defer recognizer.Close()

	deps, err := rt.deps(detector)
	if err != nil {
		return err
	}
	deps.Recognizer = recognizer

	result, err := container.New(deps).CountingService.Count(ctx, app.CountRequest{
		ImagePath:        imagePath,
		PreprocessedPath: filepath.Join(outDir, "preprocessed_image.png"),
		AnnotatedPath:    filepath.Join(outDir, "annotated_image.png"),
		ReportBase:       filepath.Join(outDir, rt.cfg.ReportName),
	})
	if err != nil {
		return err
	}

	log.Info().
		Int("detections", result.Detections).
		Int("materials", result.Counts.Len()).
		Str("report", result.ReportPath).
		Str("annotated", result.AnnotatedPath).
		Msg("Materials counted")
	return nil
}

func (rt *runtime) detect(c *cli.Context) error {
	ctx, stop := signalContext(c.Context)
	defer stop()

	imagePath := c.String(flagImage)
	rt.remember(storage.KeyImageDir, imagePath)

	detector, closeDetector, err := rt.detector(c)
	if err != nil {
		return err
	}
	defer closeDetector()

	deps, err := rt.deps(detector)
	if err != nil {
		return err
	}

	detections, err := container.New(deps).DetectionService.DetectImage(ctx, imagePath, c.String(flagOutput))
	if err != nil {
		return err
	}
	log.Info().Int("detections", len(detections)).Str("out", c.String(flagOutput)).Msg("Inference finished")
	return nil
}

func (rt *runtime) video(c *cli.Context) error {
	ctx, stop := signalContext(c.Context)
	defer stop()

	input := c.String(flagInput)
	rt.remember(storage.KeyVideoDir, input)

	source, err := openFrameSource(input)
	if err != nil {
		return err
	}
	defer source.Close()

	sink, err := vision.NewPNGFrameSink(c.String(flagOutput))
	if err != nil {
		return err
	}

	detector, closeDetector, err := rt.detector(c)
	if err != nil {
		return err
	}
	defer closeDetector()

	deps, err := rt.deps(detector)
	if err != nil {
		return err
	}

	log.Info().Str("input", filepath.Base(input)).Msg("Video inference started")
	stats, err := container.New(deps).DetectionService.RunVideo(ctx, source, sink)
	if errors.Is(err, context.Canceled) {
		log.Warn().Int("frames", stats.Frames).Msg("Video inference interrupted")
		return nil
	}
	return err
}

func (rt *runtime) bot(c *cli.Context) error {
	if rt.cfg.TelegramToken == "" {
		return errors.New("TELEGRAM_TOKEN is required")
	}

	ctx, stop := signalContext(c.Context)
	defer stop()

	detector, closeDetector, err := rt.detector(c)
	if err != nil {
		return err
	}
	defer closeDetector()

	deps, err := rt.deps(detector)
	if err != nil {
		return err
	}

	// Без OCR бот всё равно умеет размечать изображения
	opts := ocr.DefaultOptions()
	opts.Language = rt.cfg.OCRLanguage
	recognizer, err := ocr.NewTesseractRecognizer(opts)
	if err != nil {
		log.Warn().Err(err).Msg("OCR is unavailable, /count will fail")
	} else {
		defer recognizer.Close()
		deps.Recognizer = recognizer
	}

	b, err := telegram.NewBot(rt.cfg.TelegramToken, container.New(deps), rt.cfg.ReportName)
	if err != nil {
		return fmt.Errorf("create bot: %w", err)
	}

	log.Info().Msg("Bot is running...")
	return b.Run(ctx)
}

// detector загружает веса из флага, окружения или последнего выбора
func (rt *runtime) detector(c *cli.Context) (port.ObjectDetector, func(), error) {
	modelPath := c.String(flagModel)
	if modelPath == "" {
		modelPath = rt.cfg.ModelPath
	}
	if modelPath == "" {
		modelPath = rt.paths.Get(storage.KeyModelPath)
	}
	if modelPath == "" {
		return nil, nil, errors.New("model path is required: use --model or MODEL_PATH")
	}

	namesPath := c.String(flagNames)
	if namesPath == "" {
		namesPath = rt.cfg.ClassNamesPath
	}
	var names []string
	if namesPath != "" {
		var err error
		if names, err = vision.LoadClassList(namesPath); err != nil {
			return nil, nil, err
		}
	}

	opts := detectorOptions(rt.cfg)

	log.Info().Str("model", modelPath).Msg("Loading model")
	detector, err := vision.NewYOLODetector(modelPath, names, opts)
	if err != nil {
		return nil, nil, fmt.Errorf("load model: %w", err)
	}
	log.Info().Str("model", filepath.Base(modelPath)).Msg("Model loaded")

	if err := rt.paths.RememberModel(modelPath); err != nil {
		log.Warn().Err(err).Msg("Failed to remember model path")
	}

	return detector, func() { _ = detector.Close() }, nil
}

// detectorOptions переносит настройки сети из конфигурации; MIN_CONFIDENCE служит и порогом сети
func detectorOptions(cfg *config.Config) vision.DetectorOptions {
	opts := vision.DefaultDetectorOptions()
	if cfg.InputSize > 0 {
		opts.InputSize = cfg.InputSize
	}
	if cfg.NMSThreshold > 0 {
		opts.NMSThreshold = float32(cfg.NMSThreshold)
	}
	if cfg.MinConfidence > 0 {
		opts.ConfThreshold = float32(cfg.MinConfidence)
	}
	return opts
}

func (rt *runtime) deps(detector port.ObjectDetector) (container.Deps, error) {
	names, err := rt.materialNames()
	if err != nil {
		return container.Deps{}, err
	}

	annotator, err := vision.NewAnnotator(rt.cfg.FontPath)
	if err != nil {
		return container.Deps{}, err
	}

	deps := container.Deps{
		Users:         storage.NewMemoryUserRepository(),
		Detector:      detector,
		ModelHistory:  rt.paths,
		Annotator:     annotator,
		Names:         names,
		MinConfidence: rt.cfg.MinConfidence,
		FrameInterval: rt.cfg.FrameInterval,
	}
	if reloader, ok := detector.(port.ModelReloader); ok {
		deps.Models = reloader
	}
	return deps, nil
}

func (rt *runtime) materialNames() (entity.ClassNameTable, error) {
	if rt.cfg.MaterialNamesPath == "" {
		return entity.DefaultMaterialNames(), nil
	}
	f, err := os.Open(rt.cfg.MaterialNamesPath)
	if err != nil {
		return entity.ClassNameTable{}, fmt.Errorf("open material names: %w", err)
	}
	defer f.Close()
	return entity.ParseClassNameTable(f)
}

func (rt *runtime) remember(key, path string) {
	if err := rt.paths.RememberDir(key, path); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("Failed to update path memory")
		return
	}
	log.Debug().Str("key", key).Str("value", rt.paths.Get(key)).Msg("Path memory updated")
}

func openFrameSource(input string) (port.FrameSource, error) {
	info, err := os.Stat(input)
	if err != nil {
		return nil, fmt.Errorf("open input: %w", err)
	}
	if info.IsDir() {
		return vision.NewDirFrameSource(input)
	}
	return vision.OpenVideoFile(input)
}

func signalContext(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
}
