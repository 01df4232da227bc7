package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/labelscan/backend/internal/domain"
)

// SearchOrchestratorConfig holds tunables for the search fallback chain
type SearchOrchestratorConfig struct {
	ResultCount   int           // results requested per attempt
	CallTimeout   time.Duration // timeout applied to each individual attempt
	FallbackDelay time.Duration // courtesy delay before each fallback attempt
}

// SearchOrchestrator executes a search query with an ordered fallback chain.
// Attempts run sequentially: the primary query first, then a product-name
// query, then the raw barcode, each only when the preceding strategy failed.
type SearchOrchestrator struct {
	provider      domain.SearchProvider
	logger        *logrus.Logger
	resultCount   int
	callTimeout   time.Duration
	fallbackDelay time.Duration
}

// NewSearchOrchestrator creates a search orchestrator with dependencies
func NewSearchOrchestrator(
	provider domain.SearchProvider,
	logger *logrus.Logger,
	config SearchOrchestratorConfig,
) *SearchOrchestrator {
	resultCount := config.ResultCount
	if resultCount == 0 {
		resultCount = 8
	}
	callTimeout := config.CallTimeout
	if callTimeout == 0 {
		callTimeout = 10 * time.Second
	}

	return &SearchOrchestrator{
		provider:      provider,
		logger:        logger,
		resultCount:   resultCount,
		callTimeout:   callTimeout,
		fallbackDelay: config.FallbackDelay,
	}
}

// Search runs the primary query and, on failure, the fallback chain. It never
// returns an error: when every attempt fails the result list is empty and the
// failures are logged. Results from successful attempts are concatenated in
// execution order with each attempt's internal ordering preserved; duplicate
// URLs across attempts are not deduplicated.
func (o *SearchOrchestrator) Search(
	ctx context.Context,
	query string,
	attrs *domain.ProductAttributes,
) []domain.SearchResult {
	results := []domain.SearchResult{}

	primary, err := o.attempt(ctx, query)
	if err == nil {
		return append(results, primary...)
	}
	o.logger.WithError(err).WithField("query", query).Warn("primary search attempt failed")

	productName := strings.TrimSpace(attrs.ProductName)
	ranNameFallback := false
	nameFallbackFailed := false

	if productName != "" && productName != query {
		ranNameFallback = true
		o.wait(ctx)

		fallbackQuery := productName + " nutrition facts ingredients"
		fallback, ferr := o.attempt(ctx, fallbackQuery)
		if ferr != nil {
			nameFallbackFailed = true
			o.logger.WithError(ferr).WithField("query", fallbackQuery).Warn("product-name search attempt failed")
		} else {
			results = append(results, fallback...)
		}
	}

	barcode := strings.TrimSpace(attrs.Barcode)
	if (!ranNameFallback || nameFallbackFailed) && barcode != "" && len(results) == 0 {
		o.wait(ctx)

		tertiary, terr := o.attempt(ctx, barcode)
		if terr != nil {
			o.logger.WithError(terr).WithField("query", barcode).Warn("barcode search attempt failed")
		} else {
			results = append(results, tertiary...)
		}
	}

	return results
}

// attempt runs a single provider call under the per-call timeout. It is not
// retried; an error or timeout fails the whole attempt.
func (o *SearchOrchestrator) attempt(ctx context.Context, query string) ([]domain.SearchResult, error) {
	callCtx, cancel := context.WithTimeout(ctx, o.callTimeout)
	defer cancel()

	results, err := o.provider.Search(callCtx, query, o.resultCount)
	if err != nil {
		return nil, err
	}

	o.logger.WithFields(logrus.Fields{
		"query":   query,
		"results": len(results),
	}).Debug("search attempt succeeded")

	return results, nil
}

// wait sleeps for the fallback delay, returning early if the context ends.
// This is a courtesy pause towards the provider, not a retry backoff.
func (o *SearchOrchestrator) wait(ctx context.Context) {
	if o.fallbackDelay <= 0 {
		return
	}

	timer := time.NewTimer(o.fallbackDelay)
	defer timer.Stop()

	select {
	case <-timer.C:
	case <-ctx.Done():
	}
}
