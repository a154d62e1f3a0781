package page

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/mmcdole/gofeed"
)

const (
	userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) " +
		"AppleWebKit/537.36 (KHTML, like Gecko) Chrome/127.0.0.0 Safari/537.36"

	clientTimeout = 20 * time.Second
	maxBodyBytes  = 5 << 20
	maxFeedItems  = 50

	strippedSelectors = "script, style, noscript, nav, header, footer, aside, form, iframe, svg, template"
	blockSelectors    = "h1, h2, h3, h4, h5, h6, p, li, pre, blockquote, figcaption, td"
)

// Fetcher extracts readable text from web pages and feeds.
type Fetcher struct {
	client     *http.Client
	feedParser *gofeed.Parser
	log        *slog.Logger
}

func NewFetcher(client *http.Client, log *slog.Logger) *Fetcher {
	if client == nil {
		client = &http.Client{Timeout: clientTimeout}
	}

	return &Fetcher{
		client:     client,
		feedParser: gofeed.NewParser(),
		log:        log,
	}
}

// PageText downloads pageURL and returns its main text content.
func (f *Fetcher) PageText(ctx context.Context, pageURL string) (string, error) {
	pageURL = strings.TrimSpace(pageURL)
	if pageURL == "" {
		return "", errors.New("page URL is empty")
	}

	u, err := url.Parse(pageURL)
	if err != nil {
		return "", fmt.Errorf("parse URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", fmt.Errorf("unsupported URL scheme: %q", u.Scheme)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")

	resp, err := f.client.Do(req) //nolint:gosec // User-supplied page URL is the point.
	if err != nil {
		return "", fmt.Errorf("do request: %w", err)
	}
	defer func() {
		if err = resp.Body.Close(); err != nil {
			f.log.ErrorContext(ctx, "Failed to close response body",
				"error", err,
				"pageURL", pageURL,
				"operation", "PageText")
		}
	}()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("do request: unexpected status: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return "", fmt.Errorf("read body: %w", err)
	}

	contentType := resp.Header.Get("Content-Type")

	if isFeedContentType(contentType) {
		text, feedErr := f.feedText(body)
		if feedErr == nil && text != "" {
			return text, nil
		}

		f.log.DebugContext(ctx, "Failed to read feed, falling back to HTML",
			"error", feedErr,
			"pageURL", pageURL,
			"contentType", contentType)
	}

	text, err := htmlText(body)
	if err != nil {
		return "", fmt.Errorf("extract HTML text: %w", err)
	}

	if text == "" {
		if feedText, feedErr := f.feedText(body); feedErr == nil {
			text = feedText
		}
	}

	return text, nil
}

func (f *Fetcher) feedText(body []byte) (string, error) {
	feed, err := f.feedParser.Parse(bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("parse feed: %w", err)
	}

	var blocks []string
	if title := collapseWhitespace(feed.Title); title != "" {
		blocks = append(blocks, title)
	}
	if description := fragmentText(feed.Description); description != "" {
		blocks = append(blocks, description)
	}

	for i, item := range feed.Items {
		if i >= maxFeedItems {
			break
		}

		var parts []string
		if title := collapseWhitespace(item.Title); title != "" {
			parts = append(parts, title)
		}

		description := item.Description
		if description == "" {
			description = item.Content
		}
		if text := fragmentText(description); text != "" {
			parts = append(parts, text)
		}

		if len(parts) > 0 {
			blocks = append(blocks, strings.Join(parts, "\n"))
		}
	}

	return strings.Join(blocks, "\n\n"), nil
}

func htmlText(body []byte) (string, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create document from reader: %w", err)
	}

	doc.Find(strippedSelectors).Remove()

	root := doc.Find("body")
	for _, selector := range []string{"article", "main", "[role='main']"} {
		candidate := doc.Find(selector).First()
		if candidate.Length() > 0 && collapseWhitespace(candidate.Text()) != "" {
			root = candidate
			break
		}
	}

	var blocks []string
	root.Find(blockSelectors).Each(func(_ int, s *goquery.Selection) {
		if s.ParentsFiltered(blockSelectors).Length() > 0 {
			return
		}

		if text := collapseWhitespace(s.Text()); text != "" {
			blocks = append(blocks, text)
		}
	})

	if len(blocks) == 0 {
		return collapseWhitespace(root.Text()), nil
	}

	return strings.Join(blocks, "\n\n"), nil
}

func fragmentText(fragment string) string {
	fragment = strings.TrimSpace(fragment)
	if fragment == "" {
		return ""
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return collapseWhitespace(fragment)
	}

	return collapseWhitespace(doc.Text())
}

func isFeedContentType(contentType string) bool {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}

	switch mediaType {
	case "application/rss+xml", "application/atom+xml", "application/feed+json",
		"application/xml", "text/xml":
		return true
	default:
		return false
	}
}

func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
