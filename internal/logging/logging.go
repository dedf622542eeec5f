// Package logging настраивает глобальный zerolog: консоль и файл с ротацией.
package logging

import (
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gopkg.in/natefinch/lumberjack.v2"
)

// FileName имя файла журнала в каталоге логов
const FileName = "application.log"

// Setup направляет логи в stderr и в dir/application.log.
// Пустой dir отключает запись в файл. Возвращает функцию закрытия файла.
func Setup(dir, level string) (func() error, error) {
	zerolog.TimeFieldFormat = time.RFC3339

	writers := []io.Writer{zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "2006-01-02 15:04:05"}}
	closer := func() error { return nil }

	if dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
		file := &lumberjack.Logger{
			Filename:   filepath.Join(dir, FileName),
			MaxSize:    10,
			MaxBackups: 3,
			Compress:   true,
		}
		writers = append(writers, file)
		closer = file.Close
	}

	log.Logger = zerolog.New(zerolog.MultiLevelWriter(writers...)).With().Timestamp().Logger()

	parsed := zerolog.InfoLevel
	if level != "" {
		var err error
		if parsed, err = zerolog.ParseLevel(level); err != nil {
			log.Warn().Str("level", level).Msg("Invalid log level, using info")
			parsed = zerolog.InfoLevel
		}
	}
	zerolog.SetGlobalLevel(parsed)

	return closer, nil
}
