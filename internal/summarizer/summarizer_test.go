package summarizer_test

import (
	"strings"
	"testing"

	"gistbot/internal/summarizer"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildPromptTruncatesLongText(t *testing.T) {
	text := strings.Repeat("a", summarizer.MaxInputChars) + "overflow"

	prompt := summarizer.BuildPrompt(summarizer.Request{Text: text, Style: summarizer.StyleBrief})

	body, ok := strings.CutPrefix(prompt, "Summarize in 2-3 sentences:\n\n")
	require.True(t, ok, "unexpected prompt prefix")
	assert.Equal(t, strings.Repeat("a", summarizer.MaxInputChars)+summarizer.TruncationMarker, body)
}

func TestBuildPromptKeepsTextAtLimit(t *testing.T) {
	text := strings.Repeat("ж", summarizer.MaxInputChars)

	prompt := summarizer.BuildPrompt(summarizer.Request{Text: text, Style: summarizer.StyleDetailed})

	assert.Equal(t, "Give a detailed summary:\n\n"+text, prompt)
}

func TestBuildPromptCountsCharactersNotBytes(t *testing.T) {
	text := strings.Repeat("ж", summarizer.MaxInputChars+1)

	prompt := summarizer.BuildPrompt(summarizer.Request{Text: text, Style: summarizer.StyleDetailed})

	want := "Give a detailed summary:\n\n" + strings.Repeat("ж", summarizer.MaxInputChars) + "..."
	assert.Equal(t, want, prompt)
}

func TestBuildPromptUnknownStyleFallsBackToBrief(t *testing.T) {
	brief := summarizer.BuildPrompt(summarizer.Request{Text: "body", Style: summarizer.StyleBrief})

	for _, style := range []summarizer.Style{"", "haiku", "BULLETS "} {
		got := summarizer.BuildPrompt(summarizer.Request{Text: "body", Style: style})
		assert.Equal(t, brief, got, "style %q", style)
	}
}

func TestBuildPromptBullets(t *testing.T) {
	got := summarizer.BuildPrompt(summarizer.Request{Text: "body", Style: summarizer.StyleBullets})

	assert.Equal(t, "Summarize in 3-5 bullet points (start each line with \"- \"):\n\nbody", got)
}

func TestParseStyle(t *testing.T) {
	cases := map[string]summarizer.Style{
		"brief":      summarizer.StyleBrief,
		" Detailed ": summarizer.StyleDetailed,
		"bullets":    summarizer.StyleBullets,
		"":           summarizer.StyleBrief,
		"poem":       summarizer.StyleBrief,
	}

	for raw, want := range cases {
		assert.Equal(t, want, summarizer.ParseStyle(raw), "raw %q", raw)
	}
}

func TestClean(t *testing.T) {
	got := summarizer.Clean("**Title**\n* point one\n* point two")

	assert.Equal(t, "Title\n- point one\n- point two", got)
}

func TestCleanKeepsInlineAsterisks(t *testing.T) {
	got := summarizer.Clean("  2 * 3 is *six*\n  * indented  ")

	assert.Equal(t, "2 * 3 is *six*\n  * indented", got)
}

func TestIsTransient(t *testing.T) {
	transient := []string{
		"The model is overloaded. Please try again later.",
		"The service is currently unavailable.",
		"HTTP 503",
		"OVERLOADED",
	}
	for _, msg := range transient {
		assert.True(t, summarizer.IsTransient(&summarizer.RequestError{Message: msg}), msg)
	}

	assert.False(t, summarizer.IsTransient(&summarizer.RequestError{Message: "invalid api key"}))
	assert.False(t, summarizer.IsTransient(nil))
}

func TestRequestErrorDefaultMessage(t *testing.T) {
	assert.Equal(t, "Request failed", (&summarizer.RequestError{}).Error())
}
