package brave

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"github.com/labelscan/backend/internal/domain"
)

const (
	// DefaultBaseURL is the base URL for the Brave Search API
	DefaultBaseURL = "https://api.search.brave.com/res/v1"

	defaultTimeout = 10 * time.Second
	userAgent      = "LabelScan/1.0"
)

// Client handles communication with the Brave Search web API
type Client struct {
	httpClient  *http.Client
	apiKey      string
	baseURL     string
	rateLimiter *rate.Limiter
	logger      *logrus.Logger
}

// NewClient creates a new Brave Search client
func NewClient(apiKey, baseURL string, logger *logrus.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	// The free plan allows one request per second
	limiter := rate.NewLimiter(rate.Limit(1), 1)

	return &Client{
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
		apiKey:      apiKey,
		baseURL:     baseURL,
		rateLimiter: limiter,
		logger:      logger,
	}
}

// Search queries the web search endpoint and maps the response into domain
// results, preserving the provider's ordering.
func (c *Client) Search(ctx context.Context, query string, count int) ([]domain.SearchResult, error) {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter error: %w", err)
	}

	endpoint := fmt.Sprintf("%s/web/search", c.baseURL)
	params := url.Values{}
	params.Set("q", query)
	params.Set("count", strconv.Itoa(count))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Subscription-Token", c.apiKey)
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrSearchFailed, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		c.logger.WithFields(logrus.Fields{
			"status_code": resp.StatusCode,
			"query":       query,
		}).Error("search API request failed")

		var errResp errorResponse
		if jerr := json.Unmarshal(body, &errResp); jerr == nil && errResp.Message != "" {
			return nil, fmt.Errorf("%w: status %d: %s", domain.ErrSearchFailed, resp.StatusCode, errResp.Message)
		}
		return nil, fmt.Errorf("%w: status %d", domain.ErrSearchFailed, resp.StatusCode)
	}

	var parsed webSearchResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("failed to decode search response: %w", err)
	}

	results := make([]domain.SearchResult, 0, len(parsed.Web.Results))
	for _, r := range parsed.Web.Results {
		results = append(results, domain.SearchResult{
			Title:   r.Title,
			Link:    r.URL,
			Snippet: r.Description,
		})
	}

	c.logger.WithFields(logrus.Fields{
		"query":   query,
		"results": len(results),
	}).Debug("search request completed")

	return results, nil
}

var _ domain.SearchProvider = (*Client)(nil)
