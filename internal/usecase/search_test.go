package usecase

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/sirupsen/logrus"

	"github.com/labelscan/backend/internal/domain"
)

// newTestLogger returns a logger that swallows output
func newTestLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

// mockSearchProvider scripts per-query results and errors and records calls
type mockSearchProvider struct {
	calls   []string
	counts  []int
	results map[string][]domain.SearchResult
	errors  map[string]error
}

func newMockSearchProvider() *mockSearchProvider {
	return &mockSearchProvider{
		results: make(map[string][]domain.SearchResult),
		errors:  make(map[string]error),
	}
}

func (m *mockSearchProvider) Search(ctx context.Context, query string, count int) ([]domain.SearchResult, error) {
	m.calls = append(m.calls, query)
	m.counts = append(m.counts, count)
	if err, ok := m.errors[query]; ok {
		return nil, err
	}
	return m.results[query], nil
}

func makeResults(links ...string) []domain.SearchResult {
	results := make([]domain.SearchResult, 0, len(links))
	for _, link := range links {
		results = append(results, domain.SearchResult{Title: link, Link: link, Snippet: "snippet"})
	}
	return results
}

func TestSearchOrchestrator(t *testing.T) {
	ctx := context.Background()
	primaryQuery := "nutrition facts, ingredients for Acme Protein Bar"

	t.Run("returns primary results without fallback calls", func(t *testing.T) {
		provider := newMockSearchProvider()
		provider.results[primaryQuery] = makeResults("https://a.example", "https://b.example")

		o := NewSearchOrchestrator(provider, newTestLogger(), SearchOrchestratorConfig{})
		results := o.Search(ctx, primaryQuery, &domain.ProductAttributes{ProductName: "Protein Bar"})

		if len(results) != 2 {
			t.Fatalf("results = %d, want 2", len(results))
		}
		if len(provider.calls) != 1 {
			t.Errorf("calls = %d, want 1", len(provider.calls))
		}
		if provider.counts[0] != 8 {
			t.Errorf("requested count = %d, want default 8", provider.counts[0])
		}
	})

	t.Run("preserves provider ordering", func(t *testing.T) {
		provider := newMockSearchProvider()
		provider.results[primaryQuery] = makeResults("https://z.example", "https://a.example", "https://m.example")

		o := NewSearchOrchestrator(provider, newTestLogger(), SearchOrchestratorConfig{})
		results := o.Search(ctx, primaryQuery, &domain.ProductAttributes{})

		for i, link := range []string{"https://z.example", "https://a.example", "https://m.example"} {
			if results[i].Link != link {
				t.Errorf("results[%d].Link = %q, want %q", i, results[i].Link, link)
			}
		}
	})

	t.Run("falls back to product name query on failure", func(t *testing.T) {
		provider := newMockSearchProvider()
		provider.errors[primaryQuery] = errors.New("503 from provider")
		provider.results["Protein Bar nutrition facts ingredients"] = makeResults("https://fallback.example")

		o := NewSearchOrchestrator(provider, newTestLogger(), SearchOrchestratorConfig{})
		results := o.Search(ctx, primaryQuery, &domain.ProductAttributes{ProductName: "Protein Bar"})

		if len(provider.calls) != 2 {
			t.Fatalf("calls = %d, want 2", len(provider.calls))
		}
		if provider.calls[1] != "Protein Bar nutrition facts ingredients" {
			t.Errorf("fallback query = %q", provider.calls[1])
		}
		if len(results) != 1 || results[0].Link != "https://fallback.example" {
			t.Errorf("results = %v, want the fallback result", results)
		}
	})

	t.Run("skips product name fallback when name missing", func(t *testing.T) {
		provider := newMockSearchProvider()
		provider.errors[primaryQuery] = errors.New("network down")

		o := NewSearchOrchestrator(provider, newTestLogger(), SearchOrchestratorConfig{})
		results := o.Search(ctx, primaryQuery, &domain.ProductAttributes{})

		if len(provider.calls) != 1 {
			t.Errorf("calls = %d, want 1", len(provider.calls))
		}
		if len(results) != 0 {
			t.Errorf("results = %v, want empty", results)
		}
	})

	t.Run("tries barcode after both earlier attempts fail", func(t *testing.T) {
		provider := newMockSearchProvider()
		provider.errors[primaryQuery] = errors.New("boom")
		provider.errors["Protein Bar nutrition facts ingredients"] = errors.New("boom again")
		provider.results["012345"] = makeResults("https://barcode.example")

		o := NewSearchOrchestrator(provider, newTestLogger(), SearchOrchestratorConfig{})
		results := o.Search(ctx, primaryQuery, &domain.ProductAttributes{
			ProductName: "Protein Bar",
			Barcode:     "012345",
		})

		if len(provider.calls) != 3 {
			t.Fatalf("calls = %d, want 3", len(provider.calls))
		}
		if provider.calls[2] != "012345" {
			t.Errorf("tertiary query = %q, want barcode", provider.calls[2])
		}
		if len(results) != 1 || results[0].Link != "https://barcode.example" {
			t.Errorf("results = %v, want the barcode result", results)
		}
	})

	t.Run("tries barcode when product name fallback cannot run", func(t *testing.T) {
		provider := newMockSearchProvider()
		provider.errors[primaryQuery] = errors.New("boom")
		provider.results["012345"] = makeResults("https://barcode.example")

		o := NewSearchOrchestrator(provider, newTestLogger(), SearchOrchestratorConfig{})
		results := o.Search(ctx, primaryQuery, &domain.ProductAttributes{Barcode: "012345"})

		if len(provider.calls) != 2 {
			t.Fatalf("calls = %d, want 2", len(provider.calls))
		}
		if provider.calls[1] != "012345" {
			t.Errorf("second query = %q, want barcode", provider.calls[1])
		}
		if len(results) != 1 {
			t.Errorf("results = %d, want 1", len(results))
		}
	})

	t.Run("skips barcode after successful empty fallback", func(t *testing.T) {
		provider := newMockSearchProvider()
		provider.errors[primaryQuery] = errors.New("boom")
		provider.results["Protein Bar nutrition facts ingredients"] = []domain.SearchResult{}

		o := NewSearchOrchestrator(provider, newTestLogger(), SearchOrchestratorConfig{})
		results := o.Search(ctx, primaryQuery, &domain.ProductAttributes{
			ProductName: "Protein Bar",
			Barcode:     "012345",
		})

		// The fallback succeeded with zero hits; the chain stops there
		if len(provider.calls) != 2 {
			t.Errorf("calls = %d, want 2", len(provider.calls))
		}
		if len(results) != 0 {
			t.Errorf("results = %v, want empty", results)
		}
	})

	t.Run("degrades to empty list when every attempt fails", func(t *testing.T) {
		provider := newMockSearchProvider()
		provider.errors[primaryQuery] = errors.New("boom")
		provider.errors["Protein Bar nutrition facts ingredients"] = errors.New("boom")
		provider.errors["012345"] = errors.New("boom")

		o := NewSearchOrchestrator(provider, newTestLogger(), SearchOrchestratorConfig{})
		results := o.Search(ctx, primaryQuery, &domain.ProductAttributes{
			ProductName: "Protein Bar",
			Barcode:     "012345",
		})

		if results == nil {
			t.Fatal("expected empty slice, got nil")
		}
		if len(results) != 0 {
			t.Errorf("results = %v, want empty", results)
		}
	})

	t.Run("does not mutate the attributes argument", func(t *testing.T) {
		provider := newMockSearchProvider()
		provider.errors[primaryQuery] = errors.New("boom")

		attrs := &domain.ProductAttributes{ProductName: "Protein Bar", Barcode: "012345"}
		o := NewSearchOrchestrator(provider, newTestLogger(), SearchOrchestratorConfig{})
		o.Search(ctx, primaryQuery, attrs)

		if attrs.ProductName != "Protein Bar" || attrs.Barcode != "012345" {
			t.Errorf("attributes mutated: %+v", attrs)
		}
	})
}
