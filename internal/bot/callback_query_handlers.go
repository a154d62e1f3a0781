package bot

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gistbot/internal/domain"
	"gistbot/internal/summarizer"

	"github.com/go-telegram/bot/models"
)

const expiredResultText = "Summary has expired, send the link again."

func (b *Bot) handleCallbackQuery(ctx context.Context, callback *models.CallbackQuery) error {
	chatID := callbackChatID(callback)

	return b.withSpinner(ctx, chatID, func() error {
		data := strings.TrimSpace(callback.Data)

		if key, ok := strings.CutPrefix(data, copyCallbackPrefix); ok {
			return b.handleCopyQuery(ctx, key, chatID, callback)
		}

		if rest, ok := strings.CutPrefix(data, styleCallbackPrefix); ok {
			return b.handleRestyleQuery(ctx, rest, chatID, callback)
		}

		if rawStyle, ok := strings.CutPrefix(data, setStyleCallbackPrefix); ok {
			return b.handleSetStyleQuery(ctx, rawStyle, chatID, callback)
		}

		return b.answerCallback(ctx, callback.ID, "")
	})
}

func (b *Bot) handleCopyQuery(
	ctx context.Context,
	key string,
	chatID int64,
	callback *models.CallbackQuery,
) error {
	result, ok := b.summarizer.Lookup(key)
	if !ok {
		return b.answerCallback(ctx, callback.ID, expiredResultText)
	}

	if err := b.clipboard.Copy(ctx, chatID, result.Summary); err != nil {
		return b.errorCallbackAnswer(ctx, callback, fmt.Errorf("copy summary: %w", err))
	}

	return b.answerCallback(ctx, callback.ID, "Copied!")
}

func (b *Bot) handleRestyleQuery(
	ctx context.Context,
	data string,
	chatID int64,
	callback *models.CallbackQuery,
) error {
	style, key, ok := parseStyleCallback(data)
	if !ok {
		return b.errorCallbackAnswer(ctx, callback, fmt.Errorf("parse style callback %q", data))
	}

	result, ok := b.summarizer.Lookup(key)
	if !ok {
		return b.answerCallback(ctx, callback.ID, expiredResultText)
	}

	var errs []error
	if err := b.answerCallback(ctx, callback.ID, ""); err != nil {
		errs = append(errs, err)
	}

	if err := b.summarizeAndSend(ctx, chatID, callback.From.ID, result.URL, style); err != nil {
		errs = append(errs, err)
	}

	return errors.Join(errs...)
}

func (b *Bot) handleSetStyleQuery(
	ctx context.Context,
	rawStyle string,
	chatID int64,
	callback *models.CallbackQuery,
) error {
	style := summarizer.ParseStyle(rawStyle)

	if err := b.store.UpsertUserSettings(ctx, &domain.UserSettings{
		UserID:       callback.From.ID,
		SummaryStyle: string(style),
	}); err != nil {
		return b.errorCallbackAnswer(ctx, callback, fmt.Errorf("upsert user settings: %w", err))
	}

	if err := b.answerCallback(ctx, callback.ID, "✅ Style is updated."); err != nil {
		return err
	}

	return b.handleStyleCommand(ctx, chatID, callback.From.ID)
}

func (b *Bot) errorCallbackAnswer(
	ctx context.Context,
	callback *models.CallbackQuery,
	cause error,
) error {
	errs := []error{cause}

	if err := b.answerCallback(ctx, callback.ID, "❌ Failed."); err != nil {
		errs = append(errs, err)
	}

	return errors.Join(errs...)
}
