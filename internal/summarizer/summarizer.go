package summarizer

import (
	"context"
	"strings"
	"unicode/utf8"
)

const (
	// MaxInputChars is the number of characters of page text sent to the model.
	MaxInputChars = 20000
	// TruncationMarker is appended to text cut at MaxInputChars.
	TruncationMarker = "..."
	// NoSummary is returned when a response carries no usable text.
	NoSummary = "No summary."
)

// Style selects the prompt template.
type Style string

const (
	StyleBrief    Style = "brief"
	StyleDetailed Style = "detailed"
	StyleBullets  Style = "bullets"
)

//nolint:gochecknoglobals // Prompt table meant to be immutable.
var promptPrefixes = map[Style]string{
	StyleBrief:    "Summarize in 2-3 sentences:\n\n",
	StyleDetailed: "Give a detailed summary:\n\n",
	StyleBullets:  "Summarize in 3-5 bullet points (start each line with \"- \"):\n\n",
}

// Styles lists the supported styles in display order.
func Styles() []Style {
	return []Style{StyleBrief, StyleDetailed, StyleBullets}
}

// ParseStyle maps raw to a known style, falling back to StyleBrief.
func ParseStyle(raw string) Style {
	switch s := Style(strings.ToLower(strings.TrimSpace(raw))); s {
	case StyleBrief, StyleDetailed, StyleBullets:
		return s
	default:
		return StyleBrief
	}
}

// Title returns the human-readable style name.
func (s Style) Title() string {
	switch ParseStyle(string(s)) {
	case StyleDetailed:
		return "Detailed"
	case StyleBullets:
		return "Bullets"
	default:
		return "Brief"
	}
}

// Request describes the payload for a summary request.
type Request struct {
	// Text contains the raw page text, of any length.
	Text string
	// Style selects the prompt; unknown values are treated as brief.
	Style Style
}

// Summarizer produces a single summary for a request using the given credential.
type Summarizer interface {
	Summarize(ctx context.Context, req Request, credential string) (string, error)
}

// BuildPrompt renders the prompt for req, truncating its text first.
func BuildPrompt(req Request) string {
	prefix, ok := promptPrefixes[req.Style]
	if !ok {
		prefix = promptPrefixes[StyleBrief]
	}

	return prefix + truncate(req.Text)
}

func truncate(text string) string {
	if utf8.RuneCountInString(text) <= MaxInputChars {
		return text
	}

	return string([]rune(text)[:MaxInputChars]) + TruncationMarker
}
