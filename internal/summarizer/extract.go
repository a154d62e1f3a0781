package summarizer

import (
	"encoding/json"
	"strings"
)

// geminiResponse keeps candidates raw: the answer location differs between API
// versions, and a field with an unexpected shape must not fail the whole response.
type geminiResponse struct {
	Candidates json.RawMessage `json:"candidates"`
}

type candidate map[string]json.RawMessage

type extractor func(c candidate) string

//nolint:gochecknoglobals // Ordered fallback chain meant to be immutable.
var extractors = []extractor{
	extractOutputBlocks,
	extractContentParts,
	extractThoughts,
}

func extractSummary(resp geminiResponse) string {
	var candidates []candidate
	if err := json.Unmarshal(resp.Candidates, &candidates); err != nil || len(candidates) == 0 {
		return NoSummary
	}

	for _, extract := range extractors {
		text := extract(candidates[0])
		if text != "" && text != NoSummary {
			return text
		}
	}

	return NoSummary
}

// extractOutputBlocks reads the legacy candidate.output[].content[].text shape.
func extractOutputBlocks(c candidate) string {
	var blocks []struct {
		Content []geminiPart `json:"content"`
	}
	if err := json.Unmarshal(c["output"], &blocks); err != nil {
		return ""
	}

	var joined []string
	for _, block := range blocks {
		texts := make([]string, 0, len(block.Content))
		for _, part := range block.Content {
			texts = append(texts, part.Text)
		}

		if text := strings.Join(texts, "\n"); text != "" {
			joined = append(joined, text)
		}
	}

	return strings.TrimSpace(strings.Join(joined, "\n"))
}

// extractContentParts reads candidate.content.parts[].text.
func extractContentParts(c candidate) string {
	var content *geminiContent
	if err := json.Unmarshal(c["content"], &content); err != nil || content == nil {
		return ""
	}

	texts := make([]string, 0, len(content.Parts))
	for _, part := range content.Parts {
		texts = append(texts, part.Text)
	}

	return strings.TrimSpace(strings.Join(texts, "\n"))
}

// extractThoughts reads candidate.thoughts.text.
func extractThoughts(c candidate) string {
	var thoughts *struct {
		Text string `json:"text"`
	}
	if err := json.Unmarshal(c["thoughts"], &thoughts); err != nil || thoughts == nil {
		return ""
	}

	return strings.TrimSpace(thoughts.Text)
}
