package bot

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gistbot/internal/page"
	"gistbot/internal/summarizer"

	"github.com/go-telegram/bot/models"
)

func (b *Bot) handleMessage(ctx context.Context, message *models.Message) error {
	return b.withSpinner(ctx, message.Chat.ID, func() error {
		text := strings.TrimSpace(message.Text)
		command, arg := splitCommand(text)

		switch command {
		case "/start", "/help":
			return b.handleStartCommand(ctx, message.Chat.ID)
		case "/key":
			return b.handleKeyCommand(ctx, arg, message)
		case "/style":
			return b.handleStyleCommand(ctx, message.Chat.ID, message.From.ID)
		default:
			return b.handleRandomText(ctx, text, message.Chat.ID, message.From.ID)
		}
	})
}

func (b *Bot) handleRandomText(
	ctx context.Context,
	text string,
	chatID int64,
	userID int64,
) error {
	urls, err := page.FindURLs(text)

	if len(urls) == 0 {
		var errs []error
		if err != nil {
			errs = append(errs, fmt.Errorf("find URLs: %w", err))
		}

		if sendErr := b.sendMessage(ctx, chatID, "✖️ Send me a link to a web page\\."); sendErr != nil {
			errs = append(errs, sendErr)
		}

		return errors.Join(errs...)
	}

	style := summarizer.StyleBrief

	settings, err := b.store.GetUserSettingsWithDefault(ctx, userID)
	if err != nil {
		b.log.WarnContext(ctx, "Failed to get user settings so default style is used",
			"error", err,
			"userID", userID)
	} else {
		style = summarizer.ParseStyle(settings.SummaryStyle)
	}

	return b.summarizeAndSend(ctx, chatID, userID, urls[0], style)
}

// splitCommand returns "/cmd" (without any @botname suffix) and the rest of text.
func splitCommand(text string) (string, string) {
	if !strings.HasPrefix(text, "/") {
		return "", text
	}

	command, arg, _ := strings.Cut(text, " ")
	command, _, _ = strings.Cut(command, "@")

	return strings.ToLower(command), strings.TrimSpace(arg)
}
