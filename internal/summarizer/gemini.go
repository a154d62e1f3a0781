package summarizer

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"
)

const (
	GeminiEndpoint = "https://generativelanguage.googleapis.com/v1beta/models/gemini-2.0-flash:generateContent"

	geminiClientTimeout = 60 * time.Second

	temperature     = 0.2
	maxOutputTokens = 1024
	topP            = 0.9
)

type geminiRequest struct {
	Contents         []geminiContent        `json:"contents"`
	GenerationConfig geminiGenerationConfig `json:"generationConfig"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiGenerationConfig struct {
	Temperature     float64 `json:"temperature"`
	MaxOutputTokens int     `json:"maxOutputTokens"`
	TopP            float64 `json:"topP"`
}

type geminiErrorBody struct {
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// GeminiSummarizer calls the Gemini generateContent endpoint.
type GeminiSummarizer struct {
	client   *http.Client
	endpoint string
	log      *slog.Logger
}

type GeminiOption func(*GeminiSummarizer)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(client *http.Client) GeminiOption {
	return func(s *GeminiSummarizer) {
		if client != nil {
			s.client = client
		}
	}
}

// WithEndpoint points the summarizer at a different generateContent URL.
func WithEndpoint(endpoint string) GeminiOption {
	return func(s *GeminiSummarizer) {
		if endpoint != "" {
			s.endpoint = endpoint
		}
	}
}

// NewGeminiSummarizer builds a new summarizer instance.
func NewGeminiSummarizer(log *slog.Logger, opts ...GeminiOption) *GeminiSummarizer {
	s := &GeminiSummarizer{
		client:   &http.Client{Timeout: geminiClientTimeout},
		endpoint: GeminiEndpoint,
		log:      log,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Summarize issues a single generateContent call and returns the extracted answer verbatim.
func (s *GeminiSummarizer) Summarize(
	ctx context.Context,
	req Request,
	credential string,
) (string, error) {
	body, err := json.Marshal(geminiRequest{
		Contents: []geminiContent{
			{Parts: []geminiPart{{Text: BuildPrompt(req)}}},
		},
		GenerationConfig: geminiGenerationConfig{
			Temperature:     temperature,
			MaxOutputTokens: maxOutputTokens,
			TopP:            topP,
		},
	})
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	endpoint, err := url.Parse(s.endpoint)
	if err != nil {
		return "", fmt.Errorf("parse endpoint: %w", err)
	}
	query := endpoint.Query()
	query.Set("key", credential)
	endpoint.RawQuery = query.Encode()

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint.String(), bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(httpReq)
	if err != nil {
		// url.Error embeds the request URL, which carries the credential.
		var urlErr *url.Error
		if errors.As(err, &urlErr) {
			err = urlErr.Err
		}

		return "", &RequestError{Message: fmt.Sprintf("do request: %v", err), Err: err}
	}
	defer func() {
		if err = resp.Body.Close(); err != nil {
			s.log.ErrorContext(ctx, "Failed to close response body",
				"error", err,
				"operation", "Summarize",
				"provider", ProviderGemini)
		}
	}()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		var errBody geminiErrorBody
		_ = json.NewDecoder(resp.Body).Decode(&errBody)

		message := defaultRequestErrorMessage
		if errBody.Error != nil && errBody.Error.Message != "" {
			message = errBody.Error.Message
		}

		return "", &RequestError{Message: message, StatusCode: resp.StatusCode}
	}

	var decoded geminiResponse
	if err = json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return "", &RequestError{
			Message:    fmt.Sprintf("decode response: %v", err),
			StatusCode: resp.StatusCode,
			Err:        err,
		}
	}

	return extractSummary(decoded), nil
}
