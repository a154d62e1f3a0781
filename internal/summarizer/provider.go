package summarizer

import (
	"fmt"
	"log/slog"
	"strings"
)

const (
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"
)

// NewProvider builds the summarizer for the named provider.
func NewProvider(name string, log *slog.Logger) (Summarizer, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", ProviderGemini:
		return NewGeminiSummarizer(log), nil
	case ProviderOpenAI:
		return NewOpenAISummarizer(), nil
	default:
		return nil, fmt.Errorf("unknown provider: %q", name)
	}
}
