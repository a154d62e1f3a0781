package bot

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"gistbot/internal/assistant"
	"gistbot/internal/domain"
	"gistbot/internal/summarizer"

	tgbot "github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

const updateProcessingTimeout = 3 * time.Minute

// telegramAPI is the subset of the Telegram client the bot relies on.
type telegramAPI interface {
	SendMessage(ctx context.Context, params *tgbot.SendMessageParams) (*models.Message, error)
	AnswerCallbackQuery(ctx context.Context, params *tgbot.AnswerCallbackQueryParams) (bool, error)
	SendChatAction(ctx context.Context, params *tgbot.SendChatActionParams) (bool, error)
	DeleteMessage(ctx context.Context, params *tgbot.DeleteMessageParams) (bool, error)
}

// Summarizer produces and looks up page summaries.
type Summarizer interface {
	Summarize(ctx context.Context, userID int64, pageURL string, style summarizer.Style) (*assistant.Result, error)
	Lookup(key string) (assistant.Result, bool)
}

// Store keeps per-user API keys and settings.
type Store interface {
	SetCredential(ctx context.Context, userID int64, apiKey string) error
	DeleteCredential(ctx context.Context, userID int64) error
	GetUserSettingsWithDefault(ctx context.Context, userID int64) (*domain.UserSettings, error)
	UpsertUserSettings(ctx context.Context, userSettings *domain.UserSettings) error
}

// Clipboard hands text to the user in a form that is easy to copy.
type Clipboard interface {
	Copy(ctx context.Context, chatID int64, text string) error
}

type Bot struct {
	client       *tgbot.Bot
	api          telegramAPI
	summarizer   Summarizer
	store        Store
	clipboard    Clipboard
	allowedUsers []int64
	log          *slog.Logger
}

func New(
	token string,
	s Summarizer,
	store Store,
	allowedUsers []int64,
	log *slog.Logger,
) (*Bot, error) {
	token = strings.TrimSpace(token)

	b := &Bot{
		summarizer:   s,
		store:        store,
		allowedUsers: allowedUsers,
		log:          log,
	}

	client, err := tgbot.New(token, tgbot.WithDefaultHandler(b.handleUpdate))
	if err != nil {
		return nil, fmt.Errorf("create Telegram client: %w", err)
	}

	b.client = client
	b.api = client
	b.clipboard = &telegramClipboard{api: client}

	return b, nil
}

// Start polls for updates until ctx is done.
func (b *Bot) Start(ctx context.Context) {
	b.client.Start(ctx)
}

func (b *Bot) handleUpdate(ctx context.Context, _ *tgbot.Bot, update *models.Update) {
	updateCtx, cancel := context.WithTimeout(ctx, updateProcessingTimeout)
	defer cancel()

	switch {
	case update.Message != nil && update.Message.From != nil:
		message := update.Message
		userID := message.From.ID

		if !b.userAllowed(userID) {
			b.log.DebugContext(updateCtx, "User is not allowed",
				"userID", userID,
				"chatID", message.Chat.ID,
				"username", message.From.Username,
				"chatType", message.Chat.Type)

			return
		}

		if err := b.handleMessage(updateCtx, message); err != nil {
			b.log.ErrorContext(updateCtx, "Failed to handle message",
				"error", err,
				"chatID", message.Chat.ID,
				"userID", userID,
				"chatType", message.Chat.Type,
				"messageID", message.ID)
		}

	case update.CallbackQuery != nil:
		callback := update.CallbackQuery
		chatID := callbackChatID(callback)

		if !b.userAllowed(callback.From.ID) {
			b.log.DebugContext(updateCtx, "User is not allowed",
				"userID", callback.From.ID,
				"chatID", chatID,
				"username", callback.From.Username,
				"data", callback.Data)

			return
		}

		if err := b.handleCallbackQuery(updateCtx, callback); err != nil {
			b.log.ErrorContext(updateCtx, "Failed to handle callback query",
				"error", err,
				"chatID", chatID,
				"userID", callback.From.ID,
				"data", callback.Data)
		}
	}
}

func (b *Bot) userAllowed(userID int64) bool {
	return len(b.allowedUsers) == 0 || slices.Contains(b.allowedUsers, userID)
}

func callbackChatID(cb *models.CallbackQuery) int64 {
	if cb == nil {
		return 0
	}

	if cb.Message.Message != nil {
		return cb.Message.Message.Chat.ID
	}

	if cb.Message.InaccessibleMessage != nil {
		return cb.Message.InaccessibleMessage.Chat.ID
	}

	return 0
}
