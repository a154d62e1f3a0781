package summarizer

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/openai/openai-go/v3/responses"
)

// OpenAISummarizer calls OpenAI's Responses API to produce summaries.
type OpenAISummarizer struct {
	opts []option.RequestOption
}

// NewOpenAISummarizer builds a new summarizer instance. The API key is supplied per call.
func NewOpenAISummarizer(opts ...option.RequestOption) *OpenAISummarizer {
	// Retries are owned by Retrier.
	return &OpenAISummarizer{
		opts: append([]option.RequestOption{option.WithMaxRetries(0)}, opts...),
	}
}

func (s *OpenAISummarizer) Summarize(
	ctx context.Context,
	req Request,
	credential string,
) (string, error) {
	client := openai.NewClient(append(slices.Clone(s.opts), option.WithAPIKey(credential))...)

	resp, err := client.Responses.New(ctx, responses.ResponseNewParams{
		Model:           openai.ChatModelGPT4oMini,
		MaxOutputTokens: openai.Int(maxOutputTokens),
		Temperature:     openai.Float(temperature),
		TopP:            openai.Float(topP),
		Input: responses.ResponseNewParamsInputUnion{
			OfString: openai.String(BuildPrompt(req)),
		},
	})
	if err != nil {
		var apiErr *openai.Error
		if errors.As(err, &apiErr) {
			message := strings.TrimSpace(apiErr.Message)
			if message == "" {
				message = defaultRequestErrorMessage
			}

			return "", &RequestError{Message: message, StatusCode: apiErr.StatusCode, Err: err}
		}

		return "", &RequestError{Message: fmt.Sprintf("do request: %v", err), Err: err}
	}

	summary := strings.TrimSpace(resp.OutputText())
	if summary == "" {
		return NoSummary, nil
	}

	return summary, nil
}
