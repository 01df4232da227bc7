package usecase

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"github.com/labelscan/backend/internal/domain"
)

// whitespaceRegex collapses runs of whitespace, including the non-breaking
// spaces left behind by &nbsp; entities.
var whitespaceRegex = regexp.MustCompile(`[\s\x{00A0}]+`)

// ContentFetcherConfig holds tunables for page fetching
type ContentFetcherConfig struct {
	RequestDelay     time.Duration // mandatory pause between page fetches
	RequestTimeout   time.Duration // timeout per page fetch
	MaxContentLength int           // cap on stored page text
}

// ContentFetcher retrieves and sanitizes textual content from search result
// URLs. Fetches are sequential with a fixed inter-request delay to bound the
// load placed on third-party servers.
type ContentFetcher struct {
	httpClient       *http.Client
	limiter          *rate.Limiter
	logger           *logrus.Logger
	requestTimeout   time.Duration
	maxContentLength int
}

// NewContentFetcher creates a content fetcher with dependencies
func NewContentFetcher(logger *logrus.Logger, config ContentFetcherConfig) *ContentFetcher {
	requestDelay := config.RequestDelay
	if requestDelay == 0 {
		requestDelay = 500 * time.Millisecond
	}
	requestTimeout := config.RequestTimeout
	if requestTimeout == 0 {
		requestTimeout = 10 * time.Second
	}
	maxContentLength := config.MaxContentLength
	if maxContentLength == 0 {
		maxContentLength = 3000
	}

	return &ContentFetcher{
		httpClient: &http.Client{
			Timeout: requestTimeout,
		},
		limiter:          rate.NewLimiter(rate.Every(requestDelay), 1),
		logger:           logger,
		requestTimeout:   requestTimeout,
		maxContentLength: maxContentLength,
	}
}

// FetchPages fetches up to maxPages of the given results in input order,
// skipping any page that errors, returns a non-success status, or yields no
// text. The operation never fails as a whole: its failure mode is fewer pages
// than requested, possibly none.
func (f *ContentFetcher) FetchPages(
	ctx context.Context,
	results []domain.SearchResult,
	maxPages int,
) []domain.ScrapedPage {
	if maxPages > len(results) {
		maxPages = len(results)
	}

	pages := make([]domain.ScrapedPage, 0, maxPages)
	for _, result := range results[:maxPages] {
		if err := f.limiter.Wait(ctx); err != nil {
			f.logger.WithError(err).Warn("page fetching cancelled while throttling")
			break
		}

		content, err := f.fetchPage(ctx, result.Link)
		if err != nil {
			f.logger.WithError(err).WithField("url", result.Link).Warn("skipping unreachable page")
			continue
		}
		if content == "" {
			f.logger.WithField("url", result.Link).Debug("skipping page with no text content")
			continue
		}

		pages = append(pages, domain.ScrapedPage{
			Title:   result.Title,
			URL:     result.Link,
			Content: content,
		})
	}

	f.logger.WithFields(logrus.Fields{
		"requested": maxPages,
		"scraped":   len(pages),
	}).Debug("page fetching finished")

	return pages
}

// fetchPage retrieves one URL and reduces it to bounded plain text
func (f *ContentFetcher) fetchPage(ctx context.Context, pageURL string) (string, error) {
	reqCtx, cancel := context.WithTimeout(ctx, f.requestTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, pageURL, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", "LabelScan/1.0")

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	text, err := extractText(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to extract text: %w", err)
	}

	if len(text) > f.maxContentLength {
		text = text[:f.maxContentLength]
	}
	return text, nil
}

// extractText strips script/style blocks and markup, decodes HTML entities
// and collapses whitespace.
func extractText(r io.Reader) (string, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return "", err
	}

	doc.Find("script, style, noscript").Remove()

	text := whitespaceRegex.ReplaceAllString(doc.Text(), " ")
	return strings.TrimSpace(text), nil
}
