package bot

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gistbot/internal/summarizer"

	tgbot "github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

const welcomeText = `🤖 *Welcome to Gistbot\!*

Send me a link and I will summarize the page for you\.

– Set your Gemini API key with /key \<API key\>
– Remove it with /key
– Choose the default summary style with /style
– Use the buttons under a summary to copy it or switch its style`

const styleText = `*⚙️ Summary style*

Current style is *%s*\.

You can choose different style below:`

func (b *Bot) handleStartCommand(ctx context.Context, chatID int64) error {
	return b.sendMessage(ctx, chatID, welcomeText)
}

func (b *Bot) handleKeyCommand(ctx context.Context, arg string, message *models.Message) error {
	chatID := message.Chat.ID
	userID := message.From.ID

	arg = strings.TrimSpace(arg)
	if arg == "" {
		if err := b.store.DeleteCredential(ctx, userID); err != nil {
			return b.sendFailure(ctx, chatID, fmt.Errorf("delete credential: %w", err))
		}

		return b.sendMessage(ctx, chatID, "🗑 API key is removed\\.")
	}

	var errs []error

	// The key must not stay in the chat history.
	if _, err := b.api.DeleteMessage(ctx, &tgbot.DeleteMessageParams{
		ChatID:    chatID,
		MessageID: message.ID,
	}); err != nil {
		errs = append(errs, fmt.Errorf("delete message: %w", err))
	}

	if err := b.store.SetCredential(ctx, userID, arg); err != nil {
		errs = append(errs, b.sendFailure(ctx, chatID, fmt.Errorf("set credential: %w", err)))

		return errors.Join(errs...)
	}

	if err := b.sendMessage(ctx, chatID, "✅ API key is saved\\."); err != nil {
		errs = append(errs, err)
	}

	return errors.Join(errs...)
}

func (b *Bot) handleStyleCommand(ctx context.Context, chatID int64, userID int64) error {
	settings, err := b.store.GetUserSettingsWithDefault(ctx, userID)
	if err != nil {
		return b.sendFailure(ctx, chatID, fmt.Errorf("get user settings with default: %w", err))
	}

	current := summarizer.ParseStyle(settings.SummaryStyle)

	return b.sendMessageWithKeyboard(
		ctx,
		chatID,
		fmt.Sprintf(styleText, current.Title()),
		settingsStyleKeyboard(current),
	)
}

// sendFailure tells the user something went wrong and returns cause joined with any send error.
func (b *Bot) sendFailure(ctx context.Context, chatID int64, cause error) error {
	errs := []error{cause}

	if err := b.sendMessage(ctx, chatID, "❌ Failed\\."); err != nil {
		errs = append(errs, err)
	}

	return errors.Join(errs...)
}
