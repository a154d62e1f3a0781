package markdown

import "strings"

// Taken from https://core.telegram.org/bots/api#markdownv2-style.
const (
	mdV2SpecialChars   = `._[](){}#|!+-=*~>` + "`" + `\`
	mdV2CodeBlockChars = "`" + `\`
)

//nolint:gochecknoglobals // Lookup tables meant to be immutable.
var (
	mdV2Lookup     = newLookup(mdV2SpecialChars)
	mdV2CodeLookup = newLookup(mdV2CodeBlockChars)
)

// EscapeV2 escapes text for use outside entities in MarkdownV2.
func EscapeV2(input string) string {
	return escape(input, &mdV2Lookup)
}

// CodeBlockV2 wraps input in a pre-formatted MarkdownV2 block.
func CodeBlockV2(input string) string {
	return "```\n" + escape(input, &mdV2CodeLookup) + "\n```"
}

// TruncateRunes cuts input to at most limit runes, ending with an ellipsis when cut.
func TruncateRunes(input string, limit int) string {
	runes := []rune(input)
	if limit <= 0 || len(runes) <= limit {
		return input
	}

	return strings.TrimSpace(string(runes[:limit-1])) + "…"
}

func escape(input string, lookup *[256]bool) string {
	charsToEscape := 0

	for i := range len(input) {
		if lookup[input[i]] {
			charsToEscape++
		}
	}

	if charsToEscape == 0 {
		return input
	}

	var b strings.Builder
	b.Grow(len(input) + charsToEscape)

	for i := range len(input) {
		c := input[i]
		if lookup[c] {
			b.WriteByte('\\')
		}
		b.WriteByte(c)
	}

	return b.String()
}

func newLookup(chars string) [256]bool {
	var m [256]bool
	for i := range len(chars) {
		m[chars[i]] = true
	}
	return m
}
