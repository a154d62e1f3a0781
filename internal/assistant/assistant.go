package assistant

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"gistbot/internal/metrics"
	"gistbot/internal/page"
	"gistbot/internal/ratelimiter"
	"gistbot/internal/summarizer"

	"github.com/google/uuid"
)

const (
	DefaultCacheTTL = time.Hour

	resultKeyLength = 16
)

var (
	// ErrNoCredential means neither the user nor the deployment has an API key.
	ErrNoCredential = errors.New("no API key")
	// ErrNoInput means no text could be extracted from the page.
	ErrNoInput = errors.New("no page text")
)

// PageTextSource supplies the raw text of a page.
type PageTextSource interface {
	PageText(ctx context.Context, pageURL string) (string, error)
}

// CredentialStore supplies the API key of a user, or an empty string.
type CredentialStore interface {
	Credential(ctx context.Context, userID int64) (string, error)
}

// Result is a cleaned summary of a page.
type Result struct {
	// Key identifies the result for later Lookup calls.
	Key     string
	URL     string
	Style   summarizer.Style
	Summary string
	// Cached is set when the summary was served from the cache.
	Cached bool
}

// Assistant ties page text, credentials and the summarizer together.
type Assistant struct {
	summarizer        summarizer.Summarizer
	provider          string
	pages             PageTextSource
	credentials       CredentialStore
	defaultCredential string
	limiter           *ratelimiter.RateLimiter
	metrics           *metrics.Metrics
	cache             *summaryCache
	cacheTTL          time.Duration
	now               func() time.Time
	log               *slog.Logger
}

type Option func(*Assistant)

// WithDefaultCredential sets the key used for users without their own.
func WithDefaultCredential(credential string) Option {
	return func(a *Assistant) {
		a.defaultCredential = strings.TrimSpace(credential)
	}
}

func WithRateLimiter(limiter *ratelimiter.RateLimiter) Option {
	return func(a *Assistant) {
		a.limiter = limiter
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(a *Assistant) {
		a.metrics = m
	}
}

// WithCacheTTL sets how long summaries are reused; zero or less disables the cache.
func WithCacheTTL(ttl time.Duration) Option {
	return func(a *Assistant) {
		a.cacheTTL = ttl
	}
}

func withClock(now func() time.Time) Option {
	return func(a *Assistant) {
		a.now = now
	}
}

func New(
	s summarizer.Summarizer,
	provider string,
	pages PageTextSource,
	credentials CredentialStore,
	log *slog.Logger,
	opts ...Option,
) *Assistant {
	a := &Assistant{
		summarizer:  s,
		provider:    provider,
		pages:       pages,
		credentials: credentials,
		cacheTTL:    DefaultCacheTTL,
		now:         time.Now,
		log:         log,
	}

	for _, opt := range opts {
		opt(a)
	}

	if a.cacheTTL > 0 {
		a.cache = newSummaryCache(summaryCacheMaxEntries)
	}

	return a
}

// Summarize fetches pageURL and returns its cleaned summary in the given style.
func (a *Assistant) Summarize(
	ctx context.Context,
	userID int64,
	pageURL string,
	style summarizer.Style,
) (*Result, error) {
	pageURL = page.CanonicalURL(pageURL)
	style = summarizer.ParseStyle(string(style))

	log := a.log.With(
		"requestID", uuid.NewString(),
		"userID", userID,
		"pageURL", pageURL,
		"style", style,
		"provider", a.provider)

	credential, err := a.credential(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get credential: %w", err)
	}
	if credential == "" {
		return nil, ErrNoCredential
	}

	key := ResultKey(pageURL, style)
	now := a.now()

	if cached, ok := a.cache.get(key, now); ok {
		a.metrics.IncCacheHit()
		log.DebugContext(ctx, "Summary is served from cache")

		cached.Cached = true

		return &cached, nil
	}
	a.metrics.IncCacheMiss()

	text, err := a.pages.PageText(ctx, pageURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNoInput, err)
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrNoInput
	}

	if err = a.limiter.Wait(ctx, userID); err != nil {
		return nil, fmt.Errorf("wait for rate limiter: %w", err)
	}

	start := time.Now()

	summary, err := a.summarizer.Summarize(ctx, summarizer.Request{Text: text, Style: style}, credential)
	if err != nil {
		a.metrics.ObserveRequest(a.provider, "error", time.Since(start))
		log.WarnContext(ctx, "Failed to summarize page",
			"error", err,
			"textLen", len(text),
			"elapsed", time.Since(start))

		return nil, err
	}
	a.metrics.ObserveRequest(a.provider, "success", time.Since(start))

	result := Result{
		Key:     key,
		URL:     pageURL,
		Style:   style,
		Summary: summarizer.Clean(summary),
	}

	a.cache.set(key, result, now.Add(a.cacheTTL), now)

	log.InfoContext(ctx, "Page is summarized",
		"textLen", len(text),
		"summaryLen", len(result.Summary),
		"elapsed", time.Since(start))

	return &result, nil
}

// Lookup returns a previously produced result that has not expired yet.
func (a *Assistant) Lookup(key string) (Result, bool) {
	return a.cache.get(key, a.now())
}

// PruneCache drops expired summaries and reports how many were removed.
func (a *Assistant) PruneCache() int {
	return a.cache.prune(a.now())
}

func (a *Assistant) credential(ctx context.Context, userID int64) (string, error) {
	if a.credentials != nil {
		credential, err := a.credentials.Credential(ctx, userID)
		if err != nil {
			return "", err
		}

		if credential = strings.TrimSpace(credential); credential != "" {
			return credential, nil
		}
	}

	return a.defaultCredential, nil
}

// ResultKey derives a short, callback-safe key from a page URL and style.
func ResultKey(pageURL string, style summarizer.Style) string {
	hash := sha256.Sum256([]byte(page.CanonicalURL(pageURL) + "|" + string(style)))

	return hex.EncodeToString(hash[:])[:resultKeyLength]
}
