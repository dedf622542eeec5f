package entity

// UserState состояние пользователя в диалоге
type UserState string

const (
	StateMainMenu            UserState = "main_menu"             // В главном меню
	StateAwaitingScreenshot  UserState = "awaiting_screenshot"   // Ожидание скриншота для подсчёта материалов
	StateAwaitingDetectImage UserState = "awaiting_detect_image" // Ожидание изображения для детекции
	StateProcessing          UserState = "processing"            // Обработка изображения
)

// User представляет пользователя бота
type User struct {
	ID     int64     // Telegram User ID
	ChatID int64     // Telegram Chat ID
	State  UserState // Текущее состояние пользователя
	Runs   int       // Количество завершённых подсчётов
}

// NewUser создаёт нового пользователя с начальным состоянием
func NewUser(userID, chatID int64) *User {
	return &User{
		ID:     userID,
		ChatID: chatID,
		State:  StateMainMenu,
	}
}

// SetState обновляет состояние пользователя
func (u *User) SetState(state UserState) {
	u.State = state
}

// AwaitsImage сообщает, ждёт ли бот изображение от пользователя
func (u *User) AwaitsImage() bool {
	return u.State == StateAwaitingScreenshot || u.State == StateAwaitingDetectImage
}

// CompleteRun фиксирует завершённую обработку и возвращает в главное меню
func (u *User) CompleteRun() {
	u.Runs++
	u.State = StateMainMenu
}
