package domain

// Confidence levels reported by the vision model for its reading of the label.
const (
	ConfidenceHigh   = "high"
	ConfidenceMedium = "medium"
	ConfidenceLow    = "low"
)

// ProductAttributes holds whatever the vision model could read off the
// packaging. All fields except VisibleText and Confidence may be empty.
type ProductAttributes struct {
	ProductName string   `json:"product_name,omitempty"`
	Brand       string   `json:"brand,omitempty"`
	NetWeight   string   `json:"net_weight,omitempty"`
	Barcode     string   `json:"barcode,omitempty"`
	VisibleText []string `json:"visible_text"`
	Confidence  string   `json:"confidence"`
}

// DefaultProductAttributes returns the minimal attributes object used when the
// vision reply cannot be parsed.
func DefaultProductAttributes() ProductAttributes {
	return ProductAttributes{
		VisibleText: []string{},
		Confidence:  ConfidenceLow,
	}
}

// SearchResult is a single hit from the web search provider. Provider
// ordering is preserved wherever results are passed along.
type SearchResult struct {
	Title   string `json:"title"`
	Link    string `json:"link"`
	Snippet string `json:"snippet"`
}

// ScrapedPage is the sanitized text content of one successfully fetched page.
type ScrapedPage struct {
	Title   string `json:"title"`
	URL     string `json:"url"`
	Content string `json:"content"`
}

// AnalysisDebug reports how much material each stage of the pipeline gathered.
type AnalysisDebug struct {
	Query              string `json:"query"`
	SearchResultsCount int    `json:"searchResultsCount"`
	ScrapedPagesCount  int    `json:"scrapedPagesCount"`
}

// PartialResult carries the intermediate pipeline state returned when the
// synthesis reply could not be turned into a report, so callers can retry or
// debug instead of getting a bare failure.
type PartialResult struct {
	Attributes    ProductAttributes `json:"attributes"`
	Query         string            `json:"query"`
	SearchResults []SearchResult    `json:"searchResults"`
}

// AnalysisResult is the pipeline's answer for one image: either Report is set
// (full success) or SynthesisFailed is true and Partial holds the
// intermediate state. The report is validated for top-level shape only and
// kept as parsed JSON.
type AnalysisResult struct {
	Report          map[string]interface{} `json:"report,omitempty"`
	SynthesisFailed bool                   `json:"synthesisFailed"`
	Partial         *PartialResult         `json:"partial,omitempty"`
	Debug           AnalysisDebug          `json:"debug"`
}
