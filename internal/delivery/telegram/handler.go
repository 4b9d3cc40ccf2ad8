package telegram

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/yourusername/deepseek-assistant-bot/internal/domain/repository"
	"github.com/yourusername/deepseek-assistant-bot/internal/usecase"
)

const (
	msgAccessDenied     = "🚫 У вас нет доступа к этому боту."
	msgUnsupportedFile  = "❌ Пожалуйста, отправьте текстовый файл (.txt)"
	msgFileTooLarge     = "❌ Файл слишком большой."
	msgUploading        = "📥 Загружаю и анализирую историю..."
	msgUploadFailed     = "❌ Ошибка при обработке файла."
	msgUploaded         = "✅ История успешно загружена! Теперь контекст содержит %d символов."
	msgContextEmpty     = "📝 Контекст пока пуст. Используй /upload_history чтобы загрузить историю."
	msgContextSummary   = "📚 Текущий контекст (%d символов):\n\n%s"
	msgContextReadError = "❌ Не удалось прочитать контекст."
)

// botAPI handler ishlatadigan Bot API metodlari
type botAPI interface {
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	StopReceivingUpdates()
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
	GetFileDirectURL(fileID string) (string, error)
}

// HandlerOptions qo'shimcha sozlamalar
type HandlerOptions struct {
	MaxMessageLength int
	HTTPClient       *http.Client
	Logger           *slog.Logger
}

// BotHandler Telegram bot handler
type BotHandler struct {
	bot            botAPI
	username       string
	access         repository.AccessPolicy
	chatUseCase    usecase.ChatUseCase
	historyUseCase usecase.HistoryUseCase
	maxMessageLen  int
	httpClient     *http.Client
	logger         *slog.Logger
}

// NewBotHandler yangi bot handler yaratish
func NewBotHandler(
	token string,
	access repository.AccessPolicy,
	chatUseCase usecase.ChatUseCase,
	historyUseCase usecase.HistoryUseCase,
	opts HandlerOptions,
) (*BotHandler, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to create bot: %w", err)
	}

	h := newBotHandler(bot, access, chatUseCase, historyUseCase, opts)
	h.username = bot.Self.UserName
	return h, nil
}

func newBotHandler(
	bot botAPI,
	access repository.AccessPolicy,
	chatUseCase usecase.ChatUseCase,
	historyUseCase usecase.HistoryUseCase,
	opts HandlerOptions,
) *BotHandler {
	if opts.MaxMessageLength <= 0 {
		opts.MaxMessageLength = DefaultMaxMessageLength
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = &http.Client{Timeout: 60 * time.Second}
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	return &BotHandler{
		bot:            bot,
		access:         access,
		chatUseCase:    chatUseCase,
		historyUseCase: historyUseCase,
		maxMessageLen:  opts.MaxMessageLength,
		httpClient:     opts.HTTPClient,
		logger:         opts.Logger,
	}
}

// Start botni ishga tushirish. Updatelar ketma-ket, bittadan qayta ishlanadi.
func (h *BotHandler) Start(ctx context.Context) error {
	h.logger.Info("bot started", "username", h.username)

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := h.bot.GetUpdatesChan(u)

	for {
		select {
		case <-ctx.Done():
			h.logger.Info("bot stopping")
			h.bot.StopReceivingUpdates()
			return ctx.Err()
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			if update.Message == nil {
				continue
			}
			h.handleMessage(ctx, update.Message)
		}
	}
}

// handleMessage xabarni qayta ishlash
func (h *BotHandler) handleMessage(ctx context.Context, message *tgbotapi.Message) {
	if message.From == nil || message.Chat == nil {
		return
	}

	switch {
	case message.IsCommand():
		h.handleCommand(ctx, message)
	case message.Document != nil:
		h.handleDocumentMessage(ctx, message)
	case message.Text != "":
		h.handleTextMessage(ctx, message.From.ID, message.Text, message.Chat.ID)
	}
}

// handleCommand komandalarni qayta ishlash
func (h *BotHandler) handleCommand(ctx context.Context, message *tgbotapi.Message) {
	userID := message.From.ID
	chatID := message.Chat.ID
	allowed := h.access.IsAllowed(userID)

	switch message.Command() {
	case "start":
		// Faqat /start ruxsatsiz foydalanuvchiga javob qaytaradi
		if !allowed {
			h.logger.Warn("access denied", "user_id", userID, "command", "start")
			h.sendMessage(chatID, msgAccessDenied)
			return
		}
		h.sendMessage(chatID, h.getWelcomeMessage())
	case "help":
		if allowed {
			h.sendMessage(chatID, h.getHelpMessage())
		}
	case "upload_history":
		if allowed {
			h.sendMessage(chatID, h.getUploadInstruction())
		}
	case "show_context":
		if allowed {
			h.handleShowContextCommand(ctx, userID, chatID)
		}
	default:
		h.logger.Debug("unknown command ignored", "user_id", userID, "command", message.Command())
	}
}

// handleShowContextCommand hozirgi kontekstni ko'rsatish
func (h *BotHandler) handleShowContextCommand(ctx context.Context, userID, chatID int64) {
	summary, err := h.historyUseCase.Context(ctx, userID)
	if err != nil {
		h.logger.Error("show context failed", "user_id", userID, "err", err)
		h.sendMessage(chatID, msgContextReadError)
		return
	}

	if summary.Empty() {
		h.sendMessage(chatID, msgContextEmpty)
		return
	}
	h.sendMessage(chatID, fmt.Sprintf(msgContextSummary, summary.Chars, summary.Preview))
}

// handleDocumentMessage fayl yuborilganda (tarix yuklash)
func (h *BotHandler) handleDocumentMessage(ctx context.Context, message *tgbotapi.Message) {
	userID := message.From.ID
	chatID := message.Chat.ID

	if !h.access.IsAllowed(userID) {
		h.logger.Warn("access denied", "user_id", userID, "document", true)
		return
	}

	doc := message.Document
	err := h.historyUseCase.Validate(usecase.Document{
		FileName: doc.FileName,
		MimeType: doc.MimeType,
		Size:     doc.FileSize,
	})
	switch {
	case errors.Is(err, usecase.ErrUnsupportedFormat):
		h.sendMessage(chatID, msgUnsupportedFile)
		return
	case errors.Is(err, usecase.ErrDocumentTooLarge):
		h.logger.Warn("document rejected", "user_id", userID, "file", doc.FileName, "err", err)
		h.sendMessage(chatID, msgFileTooLarge)
		return
	case err != nil:
		h.logger.Error("document validation failed", "user_id", userID, "err", err)
		h.sendMessage(chatID, msgUploadFailed)
		return
	}

	h.sendMessage(chatID, msgUploading)

	data, err := h.downloadFile(ctx, doc.FileID)
	if err != nil {
		h.logger.Error("file download failed", "user_id", userID, "file", doc.FileName, "err", err)
		h.sendMessage(chatID, msgUploadFailed)
		return
	}

	total, err := h.historyUseCase.Upload(ctx, userID, data)
	if err != nil {
		h.logger.Error("history upload failed", "user_id", userID, "file", doc.FileName, "err", err)
		h.sendMessage(chatID, msgUploadFailed)
		return
	}

	h.logger.Info("history uploaded", "user_id", userID, "file", doc.FileName, "total_chars", total)
	h.sendMessage(chatID, fmt.Sprintf(msgUploaded, total))
}

// downloadFile Telegram dan faylni yuklash
func (h *BotHandler) downloadFile(ctx context.Context, fileID string) ([]byte, error) {
	fileURL, err := h.bot.GetFileDirectURL(fileID)
	if err != nil {
		return nil, fmt.Errorf("get file link: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fileURL, nil)
	if err != nil {
		return nil, err
	}
	resp, err := h.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("download file: unexpected status %d", resp.StatusCode)
	}

	return io.ReadAll(resp.Body)
}

// handleTextMessage text xabarlarni AI ga yuborish
func (h *BotHandler) handleTextMessage(ctx context.Context, userID int64, text string, chatID int64) {
	if !h.access.IsAllowed(userID) {
		h.logger.Warn("access denied", "user_id", userID)
		h.sendMessage(chatID, msgAccessDenied)
		return
	}

	// "typing" indikatori, xatosi muhim emas
	typingAction := tgbotapi.NewChatAction(chatID, tgbotapi.ChatTyping)
	if _, err := h.bot.Request(typingAction); err != nil {
		h.logger.Debug("typing action failed", "chat_id", chatID, "err", err)
	}

	result := h.chatUseCase.ProcessMessage(ctx, userID, text)
	if !result.OK() {
		h.logger.Warn("completion returned error reply", "user_id", userID, "kind", result.Kind, "err", result.Err)
	}

	for _, part := range SplitMessage(result.Reply(), h.maxMessageLen) {
		if strings.TrimSpace(part) == "" {
			continue
		}
		h.sendMessage(chatID, part)
	}
}

// sendMessage oddiy xabar yuborish
func (h *BotHandler) sendMessage(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := h.bot.Send(msg); err != nil {
		h.logger.Error("send message failed", "chat_id", chatID, "err", err)
	}
}

// getWelcomeMessage salom xabari
func (h *BotHandler) getWelcomeMessage() string {
	return `
🤖 Привет! Я твой личный помощник с интеграцией DeepSeek!

Доступные команды:
/start - начать работу
/help - показать справку
/upload_history - загрузить историю диалогов
/show_context - показать текущий контекст

Просто напиши мне вопрос, и я помогу!
`
}

// getHelpMessage yordam xabari
func (h *BotHandler) getHelpMessage() string {
	return `
📖 Доступные команды:
/start - начать работу
/help - показать эту справку
/upload_history - загрузить историю диалогов
/show_context - показать текущий контекст

Просто напиши сообщение, и я обработаю его через DeepSeek API!
`
}

// getUploadInstruction tarix yuklash bo'yicha ko'rsatma
func (h *BotHandler) getUploadInstruction() string {
	return `
📁 Отправь мне текстовый файл (.txt) с историей диалогов.

Советы по формату:
- Можно загружать несколько файлов - они объединятся
- Лучше сохранять диалоги в формате:
  Пользователь: текст
  Ассистент: текст
- Или просто текстом без разметки

Я запомню контекст и буду учитывать его в ответах!
`
}

// GetBotUsername bot username ni olish
func (h *BotHandler) GetBotUsername() string {
	return h.username
}
