package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/labelscan/backend/internal/domain"
)

// Searcher runs a query through the fallback chain, degrading to an empty
// list on total failure.
type Searcher interface {
	Search(ctx context.Context, query string, attrs *domain.ProductAttributes) []domain.SearchResult
}

// PageFetcher retrieves sanitized text for a bounded prefix of the results
type PageFetcher interface {
	FetchPages(ctx context.Context, results []domain.SearchResult, maxPages int) []domain.ScrapedPage
}

// requiredReportFields are the top-level keys a synthesis reply must carry to
// count as a full report.
var requiredReportFields = []string{"product", "nutrition_facts", "ingredients", "scores"}

// AnalysisPipelineConfig holds tunables and prompt overrides for the pipeline
type AnalysisPipelineConfig struct {
	TopResults   int // search results included in the synthesis context
	MaxPages     int // how many of those results get scraped
	SnippetLimit int // cap on each snippet in the context block

	SynthesisSystemPrompt      string
	SynthesisSchemaInstruction string
	SynthesisMaxTokens         int
	SynthesisTemperature       float32
}

// AnalysisPipeline composes vision extraction, query building, web search,
// page scraping and LLM synthesis into one image-to-report chain. A fresh
// run is made per request; the pipeline holds no per-request state.
type AnalysisPipeline struct {
	vision    domain.VisionService
	searcher  Searcher
	fetcher   PageFetcher
	synthesis domain.SynthesisService
	logger    *logrus.Logger

	topResults   int
	maxPages     int
	snippetLimit int

	systemPrompt      string
	schemaInstruction string
	maxTokens         int
	temperature       float32
}

// NewAnalysisPipeline creates an analysis pipeline with dependencies
func NewAnalysisPipeline(
	vision domain.VisionService,
	searcher Searcher,
	fetcher PageFetcher,
	synthesis domain.SynthesisService,
	logger *logrus.Logger,
	config AnalysisPipelineConfig,
) *AnalysisPipeline {
	topResults := config.TopResults
	if topResults == 0 {
		topResults = 6
	}
	maxPages := config.MaxPages
	if maxPages == 0 {
		maxPages = 5
	}
	snippetLimit := config.SnippetLimit
	if snippetLimit == 0 {
		snippetLimit = 200
	}
	systemPrompt := config.SynthesisSystemPrompt
	if systemPrompt == "" {
		systemPrompt = defaultSynthesisSystemPrompt
	}
	schemaInstruction := config.SynthesisSchemaInstruction
	if schemaInstruction == "" {
		schemaInstruction = defaultSynthesisSchemaInstruction
	}
	maxTokens := config.SynthesisMaxTokens
	if maxTokens == 0 {
		maxTokens = 2000
	}
	temperature := config.SynthesisTemperature
	if temperature == 0 {
		temperature = 0.2
	}

	return &AnalysisPipeline{
		vision:            vision,
		searcher:          searcher,
		fetcher:           fetcher,
		synthesis:         synthesis,
		logger:            logger,
		topResults:        topResults,
		maxPages:          maxPages,
		snippetLimit:      snippetLimit,
		systemPrompt:      systemPrompt,
		schemaInstruction: schemaInstruction,
		maxTokens:         maxTokens,
		temperature:       temperature,
	}
}

// AnalyzeComprehensive runs the full chain for one image URL.
// Flow: vision -> attributes -> query -> search -> scrape -> synthesis -> report.
// Only a failed vision call is a hard error; every later stage degrades to
// partial data, down to the partial-failure envelope when the synthesis reply
// cannot be turned into a report.
func (p *AnalysisPipeline) AnalyzeComprehensive(
	ctx context.Context,
	imageURL string,
) (*domain.AnalysisResult, error) {
	rawVision, err := p.vision.AnalyzeImage(ctx, imageURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrVisionFailed, err)
	}

	attrs := p.parseAttributes(rawVision)
	query := BuildSearchQuery(&attrs)

	p.logger.WithFields(logrus.Fields{
		"query":      query,
		"confidence": attrs.Confidence,
	}).Info("derived search query from vision attributes")

	results := p.searcher.Search(ctx, query, &attrs)

	topResults := results
	if len(topResults) > p.topResults {
		topResults = topResults[:p.topResults]
	}

	pages := p.fetcher.FetchPages(ctx, topResults, p.maxPages)

	debug := domain.AnalysisDebug{
		Query:              query,
		SearchResultsCount: len(results),
		ScrapedPagesCount:  len(pages),
	}

	reply, err := p.synthesis.Complete(ctx, &domain.CompletionRequest{
		System:      p.systemPrompt,
		User:        p.buildSynthesisPrompt(&attrs, topResults, pages),
		MaxTokens:   p.maxTokens,
		Temperature: p.temperature,
	})
	if err != nil {
		p.logger.WithError(err).Warn("synthesis call failed, returning partial result")
		return partialResult(attrs, query, results, debug), nil
	}

	report, err := ExtractJSONObject(reply)
	if err != nil {
		p.logger.WithError(err).Warn("synthesis reply had no usable JSON, returning partial result")
		return partialResult(attrs, query, results, debug), nil
	}
	if !hasReportShape(report) {
		p.logger.Warn("synthesis reply missing required report fields, returning partial result")
		return partialResult(attrs, query, results, debug), nil
	}

	p.logger.WithFields(logrus.Fields{
		"searchResults": debug.SearchResultsCount,
		"scrapedPages":  debug.ScrapedPagesCount,
	}).Info("analysis completed")

	return &domain.AnalysisResult{
		Report: report,
		Debug:  debug,
	}, nil
}

// parseAttributes extracts product attributes from the vision reply. A reply
// without usable JSON degrades to the minimal attributes object instead of
// killing the pipeline.
func (p *AnalysisPipeline) parseAttributes(raw string) domain.ProductAttributes {
	parsed, err := ExtractJSONObject(raw)
	if err != nil {
		p.logger.WithError(err).Warn("vision reply had no usable JSON, continuing with empty attributes")
		return domain.DefaultProductAttributes()
	}

	attrs := domain.DefaultProductAttributes()
	if data, merr := json.Marshal(parsed); merr == nil {
		// Best effort: unknown or mistyped fields are simply left at defaults
		_ = json.Unmarshal(data, &attrs)
	}

	if attrs.VisibleText == nil {
		attrs.VisibleText = []string{}
	}
	switch attrs.Confidence {
	case domain.ConfidenceHigh, domain.ConfidenceMedium, domain.ConfidenceLow:
	default:
		attrs.Confidence = domain.ConfidenceLow
	}

	return attrs
}

// buildSynthesisPrompt assembles the user message for the synthesis call:
// attributes, the bounded research context, and the output schema instruction.
func (p *AnalysisPipeline) buildSynthesisPrompt(
	attrs *domain.ProductAttributes,
	results []domain.SearchResult,
	pages []domain.ScrapedPage,
) string {
	var b strings.Builder

	b.WriteString("Product attributes read from the packaging:\n")
	if data, err := json.Marshal(attrs); err == nil {
		b.Write(data)
	}
	b.WriteString("\n\n")

	if block := p.formatContext(results, pages); block != "" {
		b.WriteString("Research context:\n")
		b.WriteString(block)
		b.WriteString("\n")
	} else {
		b.WriteString("No research context could be gathered; rely on the attributes alone.\n\n")
	}

	b.WriteString(p.schemaInstruction)
	return b.String()
}

// formatContext renders scraped pages and raw snippets into a bounded text
// block. Page content is already capped by the fetcher; snippets are capped
// independently here.
func (p *AnalysisPipeline) formatContext(
	results []domain.SearchResult,
	pages []domain.ScrapedPage,
) string {
	var b strings.Builder

	for i, page := range pages {
		fmt.Fprintf(&b, "Source %d: %s (%s)\n%s\n\n", i+1, page.Title, page.URL, page.Content)
	}

	if len(results) > 0 {
		b.WriteString("Search snippets:\n")
		for _, result := range results {
			snippet := result.Snippet
			if len(snippet) > p.snippetLimit {
				snippet = snippet[:p.snippetLimit]
			}
			fmt.Fprintf(&b, "- %s: %s\n", result.Title, snippet)
		}
	}

	return b.String()
}

// hasReportShape checks that the parsed reply carries the report's required
// top-level fields. Anything deeper is the synthesis model's responsibility.
func hasReportShape(report map[string]interface{}) bool {
	for _, field := range requiredReportFields {
		if _, ok := report[field]; !ok {
			return false
		}
	}
	return true
}

// partialResult wraps the intermediate state into the partial-failure envelope
func partialResult(
	attrs domain.ProductAttributes,
	query string,
	results []domain.SearchResult,
	debug domain.AnalysisDebug,
) *domain.AnalysisResult {
	return &domain.AnalysisResult{
		SynthesisFailed: true,
		Partial: &domain.PartialResult{
			Attributes:    attrs,
			Query:         query,
			SearchResults: results,
		},
		Debug: debug,
	}
}
