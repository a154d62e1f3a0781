package summarizer_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"gistbot/internal/summarizer"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type capturedRequest struct {
	method string
	key    string
	body   map[string]any
}

func newGeminiServer(t *testing.T, status int, response string, captured *capturedRequest) *httptest.Server {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if captured != nil {
			captured.method = r.Method
			captured.key = r.URL.Query().Get("key")

			raw, err := io.ReadAll(r.Body)
			if err == nil {
				_ = json.Unmarshal(raw, &captured.body)
			}
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, response)
	}))
	t.Cleanup(srv.Close)

	return srv
}

func newTestGemini(srv *httptest.Server) *summarizer.GeminiSummarizer {
	return summarizer.NewGeminiSummarizer(
		slog.New(slog.DiscardHandler),
		summarizer.WithEndpoint(srv.URL+"/v1beta/models/gemini-2.0-flash:generateContent"),
		summarizer.WithHTTPClient(srv.Client()),
	)
}

func summarize(t *testing.T, status int, response string) (string, error) {
	t.Helper()

	srv := newGeminiServer(t, status, response, nil)

	return newTestGemini(srv).Summarize(
		context.Background(),
		summarizer.Request{Text: "page", Style: summarizer.StyleBrief},
		"secret",
	)
}

func TestGeminiSummarizeSendsPayload(t *testing.T) {
	var captured capturedRequest
	srv := newGeminiServer(t, http.StatusOK, `{"candidates":[{"content":{"parts":[{"text":"ok"}]}}]}`, &captured)

	got, err := newTestGemini(srv).Summarize(
		context.Background(),
		summarizer.Request{Text: "page text", Style: summarizer.StyleBullets},
		"secret-key",
	)
	require.NoError(t, err)
	assert.Equal(t, "ok", got)

	assert.Equal(t, http.MethodPost, captured.method)
	assert.Equal(t, "secret-key", captured.key)

	wantBody := map[string]any{
		"contents": []any{
			map[string]any{"parts": []any{map[string]any{
				"text": "Summarize in 3-5 bullet points (start each line with \"- \"):\n\npage text",
			}}},
		},
		"generationConfig": map[string]any{
			"temperature":     0.2,
			"maxOutputTokens": float64(1024),
			"topP":            0.9,
		},
	}
	assert.Equal(t, wantBody, captured.body)
}

func TestGeminiSummarizeJoinsParts(t *testing.T) {
	got, err := summarize(t, http.StatusOK, `{"candidates":[{"content":{"parts":[{"text":"A"},{"text":"B"}]}}]}`)

	require.NoError(t, err)
	assert.Equal(t, "A\nB", got)
}

func TestGeminiSummarizeEmptyCandidates(t *testing.T) {
	for _, body := range []string{`{"candidates":[]}`, `{}`, `{"candidates":"weird"}`, `{"candidates":[{}]}`} {
		got, err := summarize(t, http.StatusOK, body)

		require.NoError(t, err, body)
		assert.Equal(t, summarizer.NoSummary, got, body)
	}
}

func TestGeminiSummarizePrefersLegacyOutputBlocks(t *testing.T) {
	body := `{"candidates":[{
		"output":[{"content":[{"text":"one"},{"text":"two"}]},{"content":[]},{"content":[{"text":"three"}]}],
		"content":{"parts":[{"text":"parts"}]},
		"thoughts":{"text":"thoughts"}
	}]}`

	got, err := summarize(t, http.StatusOK, body)

	require.NoError(t, err)
	assert.Equal(t, "one\ntwo\nthree", got)
}

func TestGeminiSummarizeFallsBackToThoughts(t *testing.T) {
	body := `{"candidates":[{
		"output":"not a list",
		"content":{"parts":[{"text":"  "}]},
		"thoughts":{"text":"  thinking out loud  "}
	}]}`

	got, err := summarize(t, http.StatusOK, body)

	require.NoError(t, err)
	assert.Equal(t, "thinking out loud", got)
}

func TestGeminiSummarizeErrorMessage(t *testing.T) {
	_, err := summarize(t, http.StatusBadRequest, `{"error":{"message":"API key not valid"}}`)

	var reqErr *summarizer.RequestError
	require.ErrorAs(t, err, &reqErr)
	assert.Equal(t, "API key not valid", reqErr.Message)
	assert.Equal(t, http.StatusBadRequest, reqErr.StatusCode)
	assert.False(t, summarizer.IsTransient(err))
}

func TestGeminiSummarizeErrorWithoutMessage(t *testing.T) {
	for _, body := range []string{`{}`, `not json`, `{"error":{}}`} {
		_, err := summarize(t, http.StatusInternalServerError, body)

		var reqErr *summarizer.RequestError
		require.ErrorAs(t, err, &reqErr, body)
		assert.Equal(t, "Request failed", reqErr.Error(), body)
	}
}

func TestGeminiSummarizeTransportErrorHidesCredential(t *testing.T) {
	srv := newGeminiServer(t, http.StatusOK, `{}`, nil)
	s := newTestGemini(srv)
	srv.Close()

	_, err := s.Summarize(context.Background(), summarizer.Request{Text: "page"}, "very-secret")

	var reqErr *summarizer.RequestError
	require.ErrorAs(t, err, &reqErr)
	assert.NotContains(t, err.Error(), "very-secret")
	assert.True(t, strings.HasPrefix(err.Error(), "do request: "))
}

func TestGeminiSummarizeCanceledContext(t *testing.T) {
	srv := newGeminiServer(t, http.StatusOK, `{}`, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newTestGemini(srv).Summarize(ctx, summarizer.Request{Text: "page"}, "key")

	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
}
