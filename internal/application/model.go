package app

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"material-counter/internal/domain/port"
)

var ErrModelPathEmpty = errors.New("model path is empty")

// ModelService переключает веса детектора во время работы
type ModelService struct {
	reloader port.ModelReloader
	history  port.ModelHistory
}

// NewModelService создаёт сервис; history может быть nil
func NewModelService(reloader port.ModelReloader, history port.ModelHistory) *ModelService {
	return &ModelService{reloader: reloader, history: history}
}

// Switch загружает веса из modelPath. Ошибка записи истории не отменяет переключение.
func (s *ModelService) Switch(ctx context.Context, modelPath string) error {
	modelPath = strings.TrimSpace(modelPath)
	if modelPath == "" {
		return ErrModelPathEmpty
	}
	if s.reloader == nil {
		return ErrDetectorNotConfigured
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	if err := s.reloader.Reload(modelPath); err != nil {
		return fmt.Errorf("reload model: %w", err)
	}
	log.Info().Str("model", modelPath).Msg("Model switched")

	if s.history != nil {
		if err := s.history.RememberModel(modelPath); err != nil {
			log.Warn().Err(err).Str("model", modelPath).Msg("Failed to remember model")
		}
	}
	return nil
}
