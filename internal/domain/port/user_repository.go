package port

import (
	"context"

	"material-counter/internal/domain/entity"
)

// UserRepository хранит состояние диалога с пользователем бота.
// Get создаёт пользователя в главном меню, если он ещё не известен;
// возвращённое значение является копией, изменения фиксируются через Save.
type UserRepository interface {
	Get(ctx context.Context, userID, chatID int64) (*entity.User, error)
	Save(ctx context.Context, user *entity.User) error
}
