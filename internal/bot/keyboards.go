package bot

import (
	"strings"

	"gistbot/internal/summarizer"

	"github.com/go-telegram/bot/models"
)

const (
	copyCallbackPrefix     = "copy_"
	styleCallbackPrefix    = "style_"
	setStyleCallbackPrefix = "setstyle_"
)

// resultKeyboard offers copying the summary and re-running it in another style.
func resultKeyboard(key string, current summarizer.Style) [][]models.InlineKeyboardButton {
	styles := make([]models.InlineKeyboardButton, 0, len(summarizer.Styles()))
	for _, style := range summarizer.Styles() {
		styles = append(styles, models.InlineKeyboardButton{
			Text:         styleButtonText(style, current),
			CallbackData: styleCallbackPrefix + string(style) + "_" + key,
		})
	}

	return [][]models.InlineKeyboardButton{
		{{Text: "📋 Copy", CallbackData: copyCallbackPrefix + key}},
		styles,
	}
}

func settingsStyleKeyboard(current summarizer.Style) [][]models.InlineKeyboardButton {
	row := make([]models.InlineKeyboardButton, 0, len(summarizer.Styles()))
	for _, style := range summarizer.Styles() {
		row = append(row, models.InlineKeyboardButton{
			Text:         styleButtonText(style, current),
			CallbackData: setStyleCallbackPrefix + string(style),
		})
	}

	return [][]models.InlineKeyboardButton{row}
}

func styleButtonText(style summarizer.Style, current summarizer.Style) string {
	if style == current {
		return "✅ " + style.Title()
	}

	return style.Title()
}

// parseStyleCallback splits "<style>_<key>" as produced by resultKeyboard.
func parseStyleCallback(data string) (summarizer.Style, string, bool) {
	rawStyle, key, ok := strings.Cut(data, "_")
	if !ok || key == "" {
		return "", "", false
	}

	style := summarizer.Style(rawStyle)
	if summarizer.ParseStyle(rawStyle) != style {
		return "", "", false
	}

	return style, key, true
}
