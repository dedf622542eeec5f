package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	TelegramToken string

	// Модель
	ModelPath      string  // веса YOLO в формате ONNX
	ClassNamesPath string  // имена классов модели, по одному на строку
	InputSize      int     // сторона входа сети
	MinConfidence  float64 // порог уверенности
	NMSThreshold   float64

	// Подсчёт материалов
	MaterialNamesPath string // файл id=имя, пусто — встроенная таблица
	FontPath          string // TTF для подписей, пусто — Go Regular
	OCRLanguage       string
	OutputDir         string
	ReportName        string

	// Видео
	FrameInterval time.Duration

	// Служебное
	LogDir    string
	LogLevel  string
	StatePath string // файл с последними выбранными путями
}

func Load() (*Config, error) {
	// Загружаем .env файл (игнорируем ошибку если файла нет)
	_ = godotenv.Load()

	cfg := &Config{
		TelegramToken: os.Getenv("TELEGRAM_TOKEN"),

		ModelPath:      getEnv("MODEL_PATH", ""),
		ClassNamesPath: getEnv("CLASS_NAMES_PATH", ""),
		InputSize:      getEnvInt("INPUT_SIZE", 640),
		MinConfidence:  getEnvFloat("MIN_CONFIDENCE", 0.25),
		NMSThreshold:   getEnvFloat("NMS_THRESHOLD", 0.45),

		MaterialNamesPath: getEnv("MATERIAL_NAMES_PATH", ""),
		FontPath:          getEnv("FONT_PATH", ""),
		OCRLanguage:       getEnv("OCR_LANGUAGE", "eng"),
		OutputDir:         getEnv("OUTPUT_DIR", "."),
		ReportName:        getEnv("REPORT_NAME", "合成素材.csv"),

		FrameInterval: getEnvDuration("FRAME_INTERVAL", 50*time.Millisecond),

		LogDir:    getEnv("LOG_DIR", "log"),
		LogLevel:  getEnv("LOG_LEVEL", "info"),
		StatePath: getEnv("STATE_PATH", "config/paths.env"),
	}

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseFloat(value, 64); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}
