package page_test

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"gistbot/internal/page"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const articlePage = `<!doctype html>
<html>
<head><title>Ignored</title><style>body { color: red; }</style></head>
<body>
  <nav><a href="/">Home</a> <a href="/about">About</a></nav>
  <header>Site header</header>
  <article>
    <h1>Go   in production</h1>
    <p>First paragraph
       spans lines.</p>
    <script>console.log("nope")</script>
    <ul><li><p>Nested item</p></li><li>Plain item</li></ul>
  </article>
  <footer>Copyright</footer>
</body>
</html>`

const rssFeed = `<?xml version="1.0"?>
<rss version="2.0">
<channel>
  <title>Example feed</title>
  <description>All the news</description>
  <item><title>First post</title><description><![CDATA[<p>Hello <b>world</b></p>]]></description></item>
  <item><title>Second post</title></item>
</channel>
</rss>`

func newPageServer(t *testing.T, status int, contentType string, body string) *httptest.Server {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("User-Agent") == "" {
			w.WriteHeader(http.StatusForbidden)
			return
		}

		w.Header().Set("Content-Type", contentType)
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	}))
	t.Cleanup(srv.Close)

	return srv
}

func newTestFetcher(srv *httptest.Server) *page.Fetcher {
	return page.NewFetcher(srv.Client(), slog.New(slog.DiscardHandler))
}

func TestFetcherPageTextExtractsArticle(t *testing.T) {
	srv := newPageServer(t, http.StatusOK, "text/html; charset=utf-8", articlePage)

	text, err := newTestFetcher(srv).PageText(context.Background(), srv.URL+"/post")

	require.NoError(t, err)
	assert.Equal(t, "Go in production\n\nFirst paragraph spans lines.\n\nNested item\n\nPlain item", text)
}

func TestFetcherPageTextFallsBackToBody(t *testing.T) {
	srv := newPageServer(t, http.StatusOK, "text/html", `<html><body><div>Just   some text</div><nav>menu</nav></body></html>`)

	text, err := newTestFetcher(srv).PageText(context.Background(), srv.URL)

	require.NoError(t, err)
	assert.Equal(t, "Just some text", text)
}

func TestFetcherPageTextReadsFeeds(t *testing.T) {
	srv := newPageServer(t, http.StatusOK, "application/rss+xml", rssFeed)

	text, err := newTestFetcher(srv).PageText(context.Background(), srv.URL+"/feed.xml")

	require.NoError(t, err)
	assert.Equal(t, "Example feed\n\nAll the news\n\nFirst post\nHello world\n\nSecond post", text)
}

func TestFetcherPageTextEmptyPage(t *testing.T) {
	srv := newPageServer(t, http.StatusOK, "text/html", `<html><body><script>x()</script></body></html>`)

	text, err := newTestFetcher(srv).PageText(context.Background(), srv.URL)

	require.NoError(t, err)
	assert.Empty(t, text)
}

func TestFetcherPageTextUnexpectedStatus(t *testing.T) {
	srv := newPageServer(t, http.StatusNotFound, "text/html", "missing")

	_, err := newTestFetcher(srv).PageText(context.Background(), srv.URL)

	require.ErrorContains(t, err, "unexpected status: 404")
}

func TestFetcherPageTextRejectsBadURLs(t *testing.T) {
	f := page.NewFetcher(nil, slog.New(slog.DiscardHandler))

	for _, raw := range []string{"", "   ", "ftp://example.com/file", "mailto:someone@example.com"} {
		_, err := f.PageText(context.Background(), raw)
		assert.Error(t, err, raw)
	}
}
