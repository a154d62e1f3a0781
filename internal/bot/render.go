package bot

import (
	"context"
	"errors"
	"fmt"
	"unicode/utf8"

	"gistbot/internal/assistant"
	"gistbot/internal/markdown"
	"gistbot/internal/summarizer"
)

const (
	// Telegram rejects messages longer than 4096 characters.
	maxMessageRunes = 4096
	maxSummaryRunes = 3500
	maxURLRunes     = 256

	noCredentialText = "No API key set. Use /key <API key> to add one."
	noInputText      = "Couldn't extract text from this page."
)

func (b *Bot) summarizeAndSend(
	ctx context.Context,
	chatID int64,
	userID int64,
	pageURL string,
	style summarizer.Style,
) error {
	result, err := b.summarizer.Summarize(ctx, userID, pageURL, style)
	if err != nil {
		return b.sendSummaryError(ctx, chatID, err)
	}

	return b.sendMessageWithKeyboard(ctx, chatID, formatResult(result), resultKeyboard(result.Key, result.Style))
}

// sendSummaryError shows err to the user. A missing key is user state, not a failure, so it is not returned.
func (b *Bot) sendSummaryError(ctx context.Context, chatID int64, err error) error {
	var errs []error

	switch {
	case errors.Is(err, assistant.ErrNoCredential):
		if sendErr := b.sendMessage(ctx, chatID, "🔑 "+markdown.EscapeV2(noCredentialText)); sendErr != nil {
			errs = append(errs, sendErr)
		}

		return errors.Join(errs...)
	case errors.Is(err, assistant.ErrNoInput):
		errs = append(errs, fmt.Errorf("summarize: %w", err))

		if sendErr := b.sendMessage(ctx, chatID, "✖️ "+markdown.EscapeV2(noInputText)); sendErr != nil {
			errs = append(errs, sendErr)
		}

		return errors.Join(errs...)
	}

	errs = append(errs, fmt.Errorf("summarize: %w", err))

	text := "❌ " + markdown.EscapeV2(markdown.TruncateRunes(summaryErrorMessage(err), maxSummaryRunes))
	if sendErr := b.sendMessage(ctx, chatID, text); sendErr != nil {
		errs = append(errs, sendErr)
	}

	return errors.Join(errs...)
}

func summaryErrorMessage(err error) string {
	var reqErr *summarizer.RequestError
	if errors.As(err, &reqErr) {
		return "Summarization error: " + reqErr.Error()
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return "Summarization error: request timed out"
	}

	return "Summarization error: " + err.Error()
}

func formatResult(result *assistant.Result) string {
	header := fmt.Sprintf("📝 *%s summary*\n%s\n\n",
		markdown.EscapeV2(result.Style.Title()),
		markdown.EscapeV2(markdown.TruncateRunes(result.URL, maxURLRunes)))

	budget := maxMessageRunes - utf8.RuneCountInString(header)

	return header + fitEscaped(result.Summary, budget)
}

// fitEscaped escapes text for MarkdownV2, shortening the raw text until the escaped form fits budget runes.
func fitEscaped(text string, budget int) string {
	limit := min(utf8.RuneCountInString(text), maxSummaryRunes)

	for limit > 0 {
		escaped := markdown.EscapeV2(markdown.TruncateRunes(text, limit))

		over := utf8.RuneCountInString(escaped) - budget
		if over <= 0 {
			return escaped
		}

		limit -= over
	}

	return ""
}
