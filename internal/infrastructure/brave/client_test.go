package brave

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/labelscan/backend/internal/domain"
)

func newTestLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func TestNewClient(t *testing.T) {
	client := NewClient("test-api-key", "", newTestLogger())

	assert.NotNil(t, client)
	assert.Equal(t, "test-api-key", client.apiKey)
	assert.Equal(t, DefaultBaseURL, client.baseURL)
	assert.NotNil(t, client.httpClient)
	assert.NotNil(t, client.rateLimiter)
}

func TestSearch_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/web/search", r.URL.Path)
		assert.Equal(t, "acme protein bar", r.URL.Query().Get("q"))
		assert.Equal(t, "8", r.URL.Query().Get("count"))
		assert.Equal(t, "test-api-key", r.Header.Get("X-Subscription-Token"))

		response := webSearchResponse{
			Web: webResults{
				Results: []webResult{
					{Title: "Acme Bar", URL: "https://acme.example/bar", Description: "200 calories"},
					{Title: "Review", URL: "https://blog.example/review", Description: "taste test"},
				},
			},
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(response)
	}))
	defer server.Close()

	client := NewClient("test-api-key", server.URL, newTestLogger())

	results, err := client.Search(context.Background(), "acme protein bar", 8)

	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "Acme Bar", results[0].Title)
	assert.Equal(t, "https://acme.example/bar", results[0].Link)
	assert.Equal(t, "200 calories", results[0].Snippet)
	assert.Equal(t, "Review", results[1].Title)
}

func TestSearch_EmptyResults(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"web":{"results":[]}}`))
	}))
	defer server.Close()

	client := NewClient("test-api-key", server.URL, newTestLogger())

	results, err := client.Search(context.Background(), "nonexistent product", 8)

	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestSearch_NonSuccessStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"message":"rate limit exceeded"}`))
	}))
	defer server.Close()

	client := NewClient("test-api-key", server.URL, newTestLogger())

	_, err := client.Search(context.Background(), "anything", 8)

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrSearchFailed)
	assert.Contains(t, err.Error(), "rate limit exceeded")
}

func TestSearch_InvalidJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("not json"))
	}))
	defer server.Close()

	client := NewClient("test-api-key", server.URL, newTestLogger())

	_, err := client.Search(context.Background(), "anything", 8)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode")
}

func TestSearch_ConnectionRefused(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	server.Close()

	client := NewClient("test-api-key", server.URL, newTestLogger())

	_, err := client.Search(context.Background(), "anything", 8)

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrSearchFailed)
}
