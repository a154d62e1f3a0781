package bot

import (
	"context"
	"fmt"

	"gistbot/internal/markdown"

	tgbot "github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// telegramClipboard sends text as a pre-formatted block, which Telegram
// clients copy with a single tap.
type telegramClipboard struct {
	api telegramAPI
}

func (c *telegramClipboard) Copy(ctx context.Context, chatID int64, text string) error {
	_, err := c.api.SendMessage(ctx, &tgbot.SendMessageParams{
		ChatID:    chatID,
		Text:      markdown.CodeBlockV2(markdown.TruncateRunes(text, maxSummaryRunes)),
		ParseMode: models.ParseModeMarkdown,
	})
	if err != nil {
		return fmt.Errorf("send message: %w", err)
	}

	return nil
}
