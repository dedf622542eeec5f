package telegram

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog/log"

	app "material-counter/internal/application"
	"material-counter/internal/container"
	"material-counter/internal/domain/entity"
)

const (
	msgStart = `👋 Привет! Я считаю материалы на скриншотах.

📸 Пришлите скриншот инвентаря, и я верну таблицу с количествами.

📋 Команды:
/count — подсчитать материалы на скриншоте
/detect — разметить объекты на изображении
/model <путь> — загрузить другие веса детектора
/help — справка
/cancel — отменить текущую операцию`

	msgHelp = `ℹ️ Как пользоваться ботом:

1️⃣ Отправьте /count и затем скриншот (фото или файлом)
2️⃣ Бот найдёт иконки материалов и распознает цифры под ними
3️⃣ Вы получите размеченный скриншот и CSV-таблицу

💡 Рекомендации:
• Присылайте скриншот без сжатия (файлом)
• Разрешение как у игры, без масштабирования

📋 Команды:
/count — подсчёт материалов
/detect — только разметка объектов
/model <путь> — сменить модель
/cancel — отменить операцию`

	msgAwaitingScreenshot = "📸 Отправьте скриншот для подсчёта материалов."
	msgAwaitingImage      = "📸 Отправьте изображение для разметки."
	msgCancelled          = "❌ Операция отменена. Отправьте /count для нового подсчёта."
	msgSendCommand        = "Сначала выберите действие: /count или /detect."
	msgUnknownCommand     = "❓ Неизвестная команда. Используйте /help для справки."
	msgProcessing         = "⏳ Обрабатываю изображение..."
	msgNoMaterials        = "🤷 Материалы не найдены."
	msgProcessingError    = "⚠️ Не удалось обработать изображение. Попробуйте другой скриншот."
	msgModelUsage         = "Укажите путь к весам: /model /models/SR.onnx"
	msgModelSwitched      = "✅ Модель загружена: %s"
	msgModelFailed        = "⚠️ Не удалось загрузить модель, работает прежняя."
	msgModelUnavailable   = "⚠️ Детектор не настроен, сменить модель нельзя."
)

// Bot представляет Telegram-бота
type Bot struct {
	api        *tgbotapi.BotAPI
	users      *app.UserService
	counting   *app.CountingService
	detection  *app.DetectionService
	models     *app.ModelService
	reportName string
}

// NewBot создаёт нового бота
func NewBot(token string, c *container.Container, reportName string) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}

	log.Info().Str("account", api.Self.UserName).Msg("Authorized on account")

	return &Bot{
		api:        api,
		users:      c.UserService,
		counting:   c.CountingService,
		detection:  c.DetectionService,
		models:     c.ModelService,
		reportName: reportName,
	}, nil
}

// Run запускает основной цикл обработки сообщений
func (b *Bot) Run(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.api.GetUpdatesChan(u)
	defer b.api.StopReceivingUpdates()

	for {
		select {
		case <-ctx.Done():
			return nil
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			if update.Message == nil {
				continue
			}
			b.handleMessage(ctx, update.Message)
		}
	}
}

// handleMessage обрабатывает входящее сообщение
func (b *Bot) handleMessage(ctx context.Context, msg *tgbotapi.Message) {
	user, err := b.users.Get(ctx, msg.From.ID, msg.Chat.ID)
	if err != nil {
		log.Error().Err(err).Int64("user_id", msg.From.ID).Msg("Error getting user")
		return
	}

	if msg.IsCommand() {
		b.handleCommand(ctx, msg)
		return
	}

	fileID, ok := imageFileID(msg)
	if !ok {
		b.sendMessage(msg.Chat.ID, msgSendCommand)
		return
	}
	if !user.AwaitsImage() {
		b.sendMessage(msg.Chat.ID, msgSendCommand)
		return
	}

	b.handleImage(ctx, msg, user, fileID)
}

// handleCommand обрабатывает команды бота
func (b *Bot) handleCommand(ctx context.Context, msg *tgbotapi.Message) {
	userID, chatID := msg.From.ID, msg.Chat.ID
	var err error

	switch msg.Command() {
	case "start":
		_, err = b.users.Cancel(ctx, userID, chatID)
		b.sendMessage(chatID, msgStart)

	case "help":
		b.sendMessage(chatID, msgHelp)

	case "count":
		_, err = b.users.BeginCount(ctx, userID, chatID)
		b.sendMessage(chatID, msgAwaitingScreenshot)

	case "detect":
		_, err = b.users.BeginDetect(ctx, userID, chatID)
		b.sendMessage(chatID, msgAwaitingImage)

	case "model":
		path := msg.CommandArguments()
		b.sendMessage(chatID, ModelReply(path, b.models.Switch(ctx, path)))

	case "cancel":
		_, err = b.users.Cancel(ctx, userID, chatID)
		b.sendMessage(chatID, msgCancelled)

	default:
		b.sendMessage(chatID, msgUnknownCommand)
	}

	if err != nil {
		log.Error().Err(err).Int64("user_id", userID).Msg("Error updating user state")
	}
}

// handleImage скачивает изображение и запускает выбранную обработку
func (b *Bot) handleImage(ctx context.Context, msg *tgbotapi.Message, user *entity.User, fileID string) {
	mode := user.State
	chatID := msg.Chat.ID

	if _, err := b.users.SetState(ctx, user.ID, chatID, entity.StateProcessing); err != nil {
		log.Error().Err(err).Msg("Error updating user state")
	}
	defer func() {
		if _, err := b.users.Complete(ctx, user.ID, chatID); err != nil {
			log.Error().Err(err).Msg("Error updating user state")
		}
	}()

	b.sendMessage(chatID, msgProcessing)

	workDir, err := os.MkdirTemp("", "material-counter-*")
	if err != nil {
		log.Error().Err(err).Msg("Error creating work dir")
		b.sendMessage(chatID, msgProcessingError)
		return
	}
	defer os.RemoveAll(workDir)

	inputPath := filepath.Join(workDir, "input"+imageExt(msg))
	if err := b.downloadFile(fileID, inputPath); err != nil {
		log.Error().Err(err).Msg("Error downloading image")
		b.sendMessage(chatID, msgProcessingError)
		return
	}

	if mode == entity.StateAwaitingDetectImage {
		b.replyDetections(ctx, chatID, workDir, inputPath)
		return
	}
	b.replyCounts(ctx, chatID, workDir, inputPath)
}

func (b *Bot) replyCounts(ctx context.Context, chatID int64, workDir, inputPath string) {
	result, err := b.counting.Count(ctx, app.CountRequest{
		ImagePath:        inputPath,
		PreprocessedPath: filepath.Join(workDir, "preprocessed_image.png"),
		AnnotatedPath:    filepath.Join(workDir, "annotated_image.png"),
		ReportBase:       filepath.Join(workDir, b.reportName),
	})
	if err != nil {
		log.Error().Err(err).Msg("Error counting materials")
		b.sendMessage(chatID, msgProcessingError)
		return
	}

	if result.AnnotatedPath != "" {
		b.sendFile(tgbotapi.NewPhoto(chatID, tgbotapi.FilePath(result.AnnotatedPath)))
	}
	if result.Counts.Len() == 0 {
		b.sendMessage(chatID, msgNoMaterials)
		return
	}
	b.sendMessage(chatID, FormatCounts(result.Counts))
	b.sendFile(tgbotapi.NewDocument(chatID, tgbotapi.FilePath(result.ReportPath)))
}

func (b *Bot) replyDetections(ctx context.Context, chatID int64, workDir, inputPath string) {
	outPath := filepath.Join(workDir, "detected.png")
	detections, err := b.detection.DetectImage(ctx, inputPath, outPath)
	if err != nil {
		log.Error().Err(err).Msg("Error detecting objects")
		b.sendMessage(chatID, msgProcessingError)
		return
	}

	photo := tgbotapi.NewPhoto(chatID, tgbotapi.FilePath(outPath))
	photo.Caption = fmt.Sprintf("Найдено объектов: %d", len(detections))
	b.sendFile(photo)
}

// FormatCounts текстовая сводка по материалам в порядке обнаружения
func FormatCounts(counts *entity.MaterialCount) string {
	var sb strings.Builder
	sb.WriteString("📦 Материалы:\n")
	for _, e := range counts.Entries() {
		quantity := e.Quantity
		if quantity == "" {
			quantity = "?"
		}
		fmt.Fprintf(&sb, "• %s — %s\n", e.DisplayName, quantity)
	}
	return strings.TrimRight(sb.String(), "\n")
}

// ModelReply ответ на /model по результату переключения
func ModelReply(modelPath string, err error) string {
	switch {
	case err == nil:
		return fmt.Sprintf(msgModelSwitched, filepath.Base(strings.TrimSpace(modelPath)))
	case errors.Is(err, app.ErrModelPathEmpty):
		return msgModelUsage
	case errors.Is(err, app.ErrDetectorNotConfigured):
		return msgModelUnavailable
	default:
		log.Error().Err(err).Str("model", modelPath).Msg("Error switching model")
		return msgModelFailed
	}
}

// imageFileID достаёт файл из фото или из документа-изображения
func imageFileID(msg *tgbotapi.Message) (string, bool) {
	if len(msg.Photo) > 0 {
		// Берём файл с максимальным разрешением
		return msg.Photo[len(msg.Photo)-1].FileID, true
	}
	if msg.Document != nil && strings.HasPrefix(msg.Document.MimeType, "image/") {
		return msg.Document.FileID, true
	}
	return "", false
}

func imageExt(msg *tgbotapi.Message) string {
	if msg.Document != nil {
		if ext := filepath.Ext(msg.Document.FileName); ext != "" {
			return strings.ToLower(ext)
		}
	}
	return ".jpg"
}

// downloadFile скачивает файл из Telegram в path
func (b *Bot) downloadFile(fileID, path string) error {
	file, err := b.api.GetFile(tgbotapi.FileConfig{FileID: fileID})
	if err != nil {
		return fmt.Errorf("get file: %w", err)
	}

	resp, err := http.Get(file.Link(b.api.Token))
	if err != nil {
		return fmt.Errorf("download file: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("download file: status %s", resp.Status)
	}

	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create file: %w", err)
	}
	if _, err := io.Copy(out, resp.Body); err != nil {
		out.Close()
		return fmt.Errorf("read file: %w", err)
	}
	return out.Close()
}

// sendMessage отправляет текстовое сообщение
func (b *Bot) sendMessage(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := b.api.Send(msg); err != nil {
		log.Error().Err(err).Int64("chat_id", chatID).Msg("Error sending message")
	}
}

func (b *Bot) sendFile(c tgbotapi.Chattable) {
	if _, err := b.api.Send(c); err != nil {
		log.Error().Err(err).Msg("Error sending file")
	}
}
