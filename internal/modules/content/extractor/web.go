package extractor

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
	"golang.org/x/net/html/charset"

	"github.com/quicky-ai/quicky-core/internal/pkg/apperr"
	"github.com/quicky-ai/quicky-core/internal/pkg/textutil"
)

const maxPageBytes = 10 << 20

// contentSelectors are tried in order; the first match wins.
var contentSelectors = []string{
	"article",
	"main",
	".content",
	".post-content",
	".entry-content",
	".article-body",
	".post-body",
}

// WebExtractor downloads an article and keeps the text of its main content.
type WebExtractor struct {
	client    *http.Client
	userAgent string
	maxChars  int
}

func NewWebExtractor(client *http.Client, userAgent string, maxChars int) *WebExtractor {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &WebExtractor{client: client, userAgent: userAgent, maxChars: maxChars}
}

func (w *WebExtractor) Extract(ctx context.Context, reference string) (string, error) {
	doc, err := w.fetch(ctx, strings.TrimSpace(reference))
	if err != nil {
		return "", apperr.Extraction(apperr.CodeFetchError, apperr.MsgFetchError, err)
	}
	return ArticleText(doc, w.maxChars), nil
}

func (w *WebExtractor) fetch(ctx context.Context, url string) (*goquery.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	if w.userAgent != "" {
		req.Header.Set("User-Agent", w.userAgent)
	}
	req.Header.Set("Accept", "text/html,application/xhtml+xml;q=0.9,*/*;q=0.8")

	resp, err := w.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("fetch %s: unexpected status %d", url, resp.StatusCode)
	}

	body, err := charset.NewReader(io.LimitReader(resp.Body, maxPageBytes), resp.Header.Get("Content-Type"))
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", url, err)
	}
	root, err := html.Parse(body)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", url, err)
	}
	return goquery.NewDocumentFromNode(root), nil
}

// ArticleText drops scripts and styles, picks the main content block and
// flattens it into a single paragraph of at most maxChars characters.
func ArticleText(doc *goquery.Document, maxChars int) string {
	doc.Find("script, style").Remove()

	var raw string
	found := false
	for _, selector := range contentSelectors {
		if sel := doc.Find(selector).First(); sel.Length() > 0 {
			raw = sel.Text()
			found = true
			break
		}
	}
	if !found {
		raw = doc.Text()
	}

	text := textutil.CollapseBlocks(raw)
	if maxChars > 0 {
		text = textutil.Truncate(text, maxChars)
	}
	return text
}
